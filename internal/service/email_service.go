package service

import (
	"crypto/tls"
	"fmt"
	"net/smtp"
	"strconv"

	"copo_analysis_backend/internal/config"
	"copo_analysis_backend/internal/model"
	"copo_analysis_backend/internal/repository"
	"copo_analysis_backend/internal/util"
	"copo_analysis_backend/pkg/logger"
	"copo_analysis_backend/pkg/monitoring"

	"go.uber.org/zap"
)

const (
	RecipientStudent = "student"
	RecipientParent  = "parent"
)

// SendResult 单个收件人的发送结果
type SendResult struct {
	StudentID     string `json:"studentId"`
	RecipientType string `json:"recipientType"`
	Email         string `json:"email"`
	Success       bool   `json:"success"`
	Message       string `json:"message"`
}

type EmailService struct {
	Cfg          *config.Config
	ReportSvc    *ReportService
	GradingSvc   *GradingService
	EmailLogRepo *repository.EmailLogRepository
}

func NewEmailService(cfg *config.Config, reportSvc *ReportService, gradingSvc *GradingService, emailLogRepo *repository.EmailLogRepository) *EmailService {
	return &EmailService{
		Cfg:          cfg,
		ReportSvc:    reportSvc,
		GradingSvc:   gradingSvc,
		EmailLogRepo: emailLogRepo,
	}
}

// SendStudentReport 渲染并发送一名学生的成绩报告。
// recipientType 为 student 发给本人，为 parent 发给家长邮箱。
func (s *EmailService) SendStudentReport(datasetID string, record *model.StudentRecord, recipientType string) SendResult {
	result := SendResult{
		StudentID:     record.StudentID,
		RecipientType: recipientType,
	}

	switch recipientType {
	case RecipientParent:
		result.Email = record.ParentEmail
	default:
		result.RecipientType = RecipientStudent
		result.Email = record.Email
	}

	if result.Email == "" {
		result.Message = util.ErrNoRecipient.Error()
		s.record(datasetID, record, result, "")
		return result
	}

	cgpa := s.GradingSvc.CGPA([]*model.StudentRecord{record})
	body, err := s.ReportSvc.Render(record, cgpa)
	if err != nil {
		result.Message = err.Error()
		s.record(datasetID, record, result, "")
		return result
	}

	subject := fmt.Sprintf("Academic Performance Report - %s of %s", result.RecipientType, record.StudentName)
	if err := s.sendHTML(result.Email, subject, body); err != nil {
		result.Message = err.Error()
		s.record(datasetID, record, result, subject)
		return result
	}

	result.Success = true
	result.Message = "sent"
	s.record(datasetID, record, result, subject)
	return result
}

// SendBulkReports 顺序给每名学生发送报告，单个收件人失败不影响其余收件人
func (s *EmailService) SendBulkReports(datasetID string, records []*model.StudentRecord, recipientType string) []SendResult {
	results := make([]SendResult, 0, len(records))
	for _, record := range records {
		results = append(results, s.SendStudentReport(datasetID, record, recipientType))
	}
	return results
}

func (s *EmailService) record(datasetID string, record *model.StudentRecord, result SendResult, subject string) {
	outcome := "failure"
	if result.Success {
		outcome = "success"
	}
	monitoring.ReportEmailsTotal.WithLabelValues(result.RecipientType, outcome).Inc()

	if s.EmailLogRepo == nil {
		return
	}
	entry := &model.EmailLog{
		DatasetID:     datasetID,
		StudentID:     record.StudentID,
		RecipientType: result.RecipientType,
		Email:         result.Email,
		Subject:       subject,
		Success:       result.Success,
		Message:       result.Message,
	}
	if err := s.EmailLogRepo.Create(entry); err != nil {
		logger.Log.Error("Failed to persist email log", zap.Error(err))
	}
}

// sendHTML 通过 SMTP 发送 HTML 邮件，凭据未配置时直接返回错误
func (s *EmailService) sendHTML(toEmail, subject, htmlBody string) error {
	cfg := s.Cfg.SMTP
	if cfg.Username == "" || cfg.Password == "" {
		logger.Log.Warn("SMTP credentials not configured, email not sent",
			zap.String("to", toEmail),
			zap.String("subject", subject))
		return util.ErrSMTPNotConfigured
	}

	auth := smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)

	headers := fmt.Sprintf("From: %s <%s>\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=UTF-8\r\n\r\n",
		cfg.FromName, cfg.FromEmail, toEmail, subject)
	message := []byte(headers + htmlBody)

	serverAddress := cfg.Host + ":" + strconv.Itoa(cfg.Port)

	if !cfg.UseTLS {
		if err := smtp.SendMail(serverAddress, auth, cfg.FromEmail, []string{toEmail}, message); err != nil {
			return fmt.Errorf("send email: %w", err)
		}
		return nil
	}

	tlsConfig := &tls.Config{
		ServerName: cfg.Host,
	}
	conn, err := tls.Dial("tcp", serverAddress, tlsConfig)
	if err != nil {
		return fmt.Errorf("connect smtp server: %w", err)
	}
	defer conn.Close()

	client, err := smtp.NewClient(conn, cfg.Host)
	if err != nil {
		return fmt.Errorf("create smtp client: %w", err)
	}
	defer client.Quit()

	if err = client.Auth(auth); err != nil {
		return fmt.Errorf("smtp auth: %w", err)
	}
	if err = client.Mail(cfg.FromEmail); err != nil {
		return fmt.Errorf("set sender: %w", err)
	}
	if err = client.Rcpt(toEmail); err != nil {
		return fmt.Errorf("set recipient: %w", err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("open data writer: %w", err)
	}
	if _, err = w.Write(message); err != nil {
		return fmt.Errorf("write message: %w", err)
	}
	if err = w.Close(); err != nil {
		return fmt.Errorf("close data writer: %w", err)
	}
	return nil
}
