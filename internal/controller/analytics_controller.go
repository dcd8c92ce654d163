package controller

import (
	"errors"

	"copo_analysis_backend/internal/model"
	"copo_analysis_backend/internal/service"
	"copo_analysis_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AnalyticsController struct {
	AnalyticsService *service.AnalyticsService
}

func NewAnalyticsController(analyticsService *service.AnalyticsService) *AnalyticsController {
	return &AnalyticsController{
		AnalyticsService: analyticsService,
	}
}

func handleAnalyticsError(ctx *gin.Context, err error) {
	if errors.Is(err, util.ErrDatasetNotLoaded) {
		util.Error(ctx, 404, "尚未加载数据集")
		return
	}
	util.LogInternalError(ctx, err)
}

// Overview godoc
// @Summary 班级总览
// @Description 总分、绩点、通过率、等级分布以及 CO/PO 平均达成度
// @Tags 分析
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=model.ClassOverview} "成功"
// @Failure 404 {object} util.Response "尚未加载数据集"
// @Router /api/teacher/analytics/overview [get]
func (c *AnalyticsController) Overview(ctx *gin.Context) {
	overview, err := c.AnalyticsService.Overview(ctx.Request.Context())
	if err != nil {
		handleAnalyticsError(ctx, err)
		return
	}
	util.Success(ctx, overview)
}

// Outcomes godoc
// @Summary CO/PO 达成度汇总
// @Tags 分析
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=model.OutcomeReport} "成功"
// @Failure 404 {object} util.Response "尚未加载数据集"
// @Router /api/teacher/analytics/outcomes [get]
func (c *AnalyticsController) Outcomes(ctx *gin.Context) {
	report, err := c.AnalyticsService.OutcomeReport()
	if err != nil {
		handleAnalyticsError(ctx, err)
		return
	}
	util.Success(ctx, report)
}

// Clusters godoc
// @Summary 学生表现聚类摘要
// @Tags 分析
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.ClusterSummary} "成功"
// @Failure 404 {object} util.Response "尚未加载数据集"
// @Router /api/teacher/analytics/clusters [get]
func (c *AnalyticsController) Clusters(ctx *gin.Context) {
	summaries, err := c.AnalyticsService.ClusterSummaries()
	if err != nil {
		handleAnalyticsError(ctx, err)
		return
	}
	util.Success(ctx, summaries)
}

// Components godoc
// @Summary 各考核环节统计
// @Tags 分析
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.ComponentStat} "成功"
// @Failure 404 {object} util.Response "尚未加载数据集"
// @Router /api/teacher/analytics/components [get]
func (c *AnalyticsController) Components(ctx *gin.Context) {
	stats, err := c.AnalyticsService.ComponentStats()
	if err != nil {
		handleAnalyticsError(ctx, err)
		return
	}
	util.Success(ctx, stats)
}

// Performers godoc
// @Summary 排名靠前/靠后的学生
// @Tags 分析
// @Produce  json
// @Security BearerAuth
// @Param   order query string false "top 或 bottom" default(top)
// @Param   limit query int false "返回条数" default(10)
// @Success 200 {object} util.Response{data=[]model.StudentBrief} "成功"
// @Failure 404 {object} util.Response "尚未加载数据集"
// @Router /api/teacher/analytics/performers [get]
func (c *AnalyticsController) Performers(ctx *gin.Context) {
	limit := util.MustParseInt(ctx.DefaultQuery("limit", "10"), 10)

	var briefs []model.StudentBrief
	var err error
	if ctx.DefaultQuery("order", "top") == "bottom" {
		briefs, err = c.AnalyticsService.BottomPerformers(limit)
	} else {
		briefs, err = c.AnalyticsService.TopPerformers(limit)
	}
	if err != nil {
		handleAnalyticsError(ctx, err)
		return
	}
	util.Success(ctx, briefs)
}

// Students godoc
// @Summary 搜索学生
// @Tags 分析
// @Produce  json
// @Security BearerAuth
// @Param   q query string false "学号或姓名"
// @Success 200 {object} util.Response{data=[]model.StudentBrief} "成功"
// @Failure 404 {object} util.Response "尚未加载数据集"
// @Router /api/teacher/students [get]
func (c *AnalyticsController) Students(ctx *gin.Context) {
	briefs, err := c.AnalyticsService.SearchStudents(ctx.Query("q"))
	if err != nil {
		handleAnalyticsError(ctx, err)
		return
	}
	util.Success(ctx, briefs)
}

// StudentDetail godoc
// @Summary 单个学生的完整记录
// @Tags 分析
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "学号"
// @Success 200 {object} util.Response{data=model.StudentRecord} "成功"
// @Failure 404 {object} util.Response "学生不存在"
// @Router /api/teacher/students/{id} [get]
func (c *AnalyticsController) StudentDetail(ctx *gin.Context) {
	record, err := c.AnalyticsService.DatasetSvc.FindStudent(ctx.Param("id"))
	if err != nil {
		if errors.Is(err, util.ErrStudentNotFound) {
			util.NotFound(ctx)
		} else {
			handleAnalyticsError(ctx, err)
		}
		return
	}
	util.Success(ctx, record)
}
