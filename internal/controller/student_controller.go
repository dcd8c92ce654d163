package controller

import (
	"errors"

	"copo_analysis_backend/internal/model"
	"copo_analysis_backend/internal/service"
	"copo_analysis_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// StudentController 学生门户接口，仅能访问令牌对应学号的数据
type StudentController struct {
	DatasetService *service.DatasetService
	ReportService  *service.ReportService
	GradingService *service.GradingService
	EmailService   *service.EmailService
}

func NewStudentController(
	datasetService *service.DatasetService,
	reportService *service.ReportService,
	gradingService *service.GradingService,
	emailService *service.EmailService,
) *StudentController {
	return &StudentController{
		DatasetService: datasetService,
		ReportService:  reportService,
		GradingService: gradingService,
		EmailService:   emailService,
	}
}

func (c *StudentController) ownRecord(ctx *gin.Context) (*model.StudentRecord, bool) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil || claims.StudentID == "" {
		util.Unauthorized(ctx)
		return nil, false
	}

	record, err := c.DatasetService.FindStudent(claims.StudentID)
	if err != nil {
		if errors.Is(err, util.ErrDatasetNotLoaded) {
			util.Error(ctx, 404, "尚未加载数据集")
		} else {
			util.NotFound(ctx)
		}
		return nil, false
	}
	return record, true
}

// Me godoc
// @Summary 本人成绩记录
// @Tags 学生门户
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=model.StudentRecord} "成功"
// @Failure 401 {object} util.Response "未登录"
// @Router /api/student/me [get]
func (c *StudentController) Me(ctx *gin.Context) {
	record, ok := c.ownRecord(ctx)
	if !ok {
		return
	}
	util.Success(ctx, record)
}

// MyReport godoc
// @Summary 本人成绩报告
// @Tags 学生门户
// @Produce  html
// @Security BearerAuth
// @Success 200 {string} string "HTML 报告"
// @Failure 401 {object} util.Response "未登录"
// @Router /api/student/me/report [get]
func (c *StudentController) MyReport(ctx *gin.Context) {
	record, ok := c.ownRecord(ctx)
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

// SendMyReport godoc
// @Summary 把本人报告发送到注册邮箱
// @Tags 学生门户
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=service.SendResult} "发送结果"
// @Failure 401 {object} util.Response "未登录"
// @Router /api/student/me/report/send [post]
func (c *StudentController) SendMyReport(ctx *gin.Context) {
	record, ok := c.ownRecord(ctx)
	if !ok {
		return
	}

	dataset, err := c.DatasetService.Current()
	if err != nil {
		util.Error(ctx, 404, "尚未加载数据集")
		return
	}

	result := c.EmailService.SendStudentReport(dataset.ID, record, service.RecipientStudent)
	util.Success(ctx, result)
}
