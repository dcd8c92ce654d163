package controller

import (
	"errors"

	"copo_analysis_backend/internal/model"
	"copo_analysis_backend/internal/repository"
	"copo_analysis_backend/internal/service"
	"copo_analysis_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ReportController struct {
	DatasetService *service.DatasetService
	ReportService  *service.ReportService
	GradingService *service.GradingService
	EmailService   *service.EmailService
	EmailLogRepo   *repository.EmailLogRepository
}

func NewReportController(
	datasetService *service.DatasetService,
	reportService *service.ReportService,
	gradingService *service.GradingService,
	emailService *service.EmailService,
) *ReportController {
	return &ReportController{
		DatasetService: datasetService,
		ReportService:  reportService,
		GradingService: gradingService,
		EmailService:   emailService,
		EmailLogRepo:   emailService.EmailLogRepo,
	}
}

func (c *ReportController) findStudent(ctx *gin.Context) (*model.StudentRecord, bool) {
	record, err := c.DatasetService.FindStudent(ctx.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, util.ErrDatasetNotLoaded):
			util.Error(ctx, 404, "尚未加载数据集")
		case errors.Is(err, util.ErrStudentNotFound):
			util.NotFound(ctx)
		default:
			util.LogInternalError(ctx, err)
		}
		return nil, false
	}
	return record, true
}

// Preview godoc
// @Summary 预览学生成绩报告
// @Description 渲染 HTML 报告但不发送
// @Tags 报告
// @Produce  html
// @Security BearerAuth
// @Param   id path string true "学号"
// @Success 200 {string} string "HTML 报告"
// @Failure 404 {object} util.Response "学生不存在"
// @Router /api/teacher/report/{id}/preview [get]
func (c *ReportController) Preview(ctx *gin.Context) {
	record, ok := c.findStudent(ctx)
	if !ok {
		return
	}

	cgpa := c.GradingService.CGPA([]*model.StudentRecord{record})
	html, err := c.ReportService.Render(record, cgpa)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	ctx.Data(200, "text/html; charset=utf-8", []byte(html))
}

// Send godoc
// @Summary 发送单个学生的报告邮件
// @Tags 报告
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "学号"
// @Param   recipient query string false "student 或 parent" default(student)
// @Success 200 {object} util.Response{data=service.SendResult} "发送结果"
// @Failure 404 {object} util.Response "学生不存在"
// @Router /api/teacher/report/{id}/send [post]
func (c *ReportController) Send(ctx *gin.Context) {
	record, ok := c.findStudent(ctx)
	if !ok {
		return
	}

	dataset, err := c.DatasetService.Current()
	if err != nil {
		util.Error(ctx, 404, "尚未加载数据集")
		return
	}

	recipientType := ctx.DefaultQuery("recipient", service.RecipientStudent)
	result := c.EmailService.SendStudentReport(dataset.ID, record, recipientType)
	util.Success(ctx, result)
}

// SendBulk godoc
// @Summary 批量发送全班报告邮件
// @Description 顺序逐个发送，单个收件人失败不影响其余收件人
// @Tags 报告
// @Produce  json
// @Security BearerAuth
// @Param   recipient query string false "student 或 parent" default(student)
// @Success 200 {object} util.Response{data=object} "发送结果列表"
// @Failure 404 {object} util.Response "尚未加载数据集"
// @Router /api/teacher/reports/send-bulk [post]
func (c *ReportController) SendBulk(ctx *gin.Context) {
	dataset, err := c.DatasetService.Current()
	if err != nil {
		util.Error(ctx, 404, "尚未加载数据集")
		return
	}

	recipientType := ctx.DefaultQuery("recipient", service.RecipientStudent)
	results := c.EmailService.SendBulkReports(dataset.ID, dataset.Records, recipientType)

	sent := 0
	for _, r := range results {
		if r.Success {
			sent++
		}
	}
	util.Success(ctx, gin.H{
		"total":   len(results),
		"sent":    sent,
		"failed":  len(results) - sent,
		"results": results,
	})
}

// Log godoc
// @Summary 报告邮件发送记录
// @Tags 报告
// @Produce  json
// @Security BearerAuth
// @Param   page query int false "页码"
// @Param   limit query int false "每页条数"
// @Success 200 {object} util.Response{data=util.PageResponse} "成功"
// @Failure 404 {object} util.Response "尚未加载数据集"
// @Router /api/teacher/reports/log [get]
func (c *ReportController) Log(ctx *gin.Context) {
	dataset, err := c.DatasetService.Current()
	if err != nil {
		util.Error(ctx, 404, "尚未加载数据集")
		return
	}

	page := util.MustParseInt(ctx.DefaultQuery("page", "1"), 1)
	limit := util.MustParseInt(ctx.DefaultQuery("limit", "20"), 20)

	logs, total, err := c.EmailLogRepo.ListByDataset(dataset.ID, page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, util.PageResponse{
		List:  logs,
		Total: total,
		Page:  page,
		Limit: limit,
	})
}
