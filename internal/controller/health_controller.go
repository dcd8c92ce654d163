package controller

import (
	"net/http"

	"copo_analysis_backend/internal/service"
	"copo_analysis_backend/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type HealthController struct {
	DB         *gorm.DB
	DatasetSvc *service.DatasetService
}

func NewHealthController(db *gorm.DB, datasetSvc *service.DatasetService) *HealthController {
	return &HealthController{DB: db, DatasetSvc: datasetSvc}
}

// @Summary 健康检查
// @Description 检查服务与数据库状态
// @Tags 系统
// @Produce json
// @Success 200 {object} util.Response
// @Router /health [get]
func (c *HealthController) HealthCheck(ctx *gin.Context) {
	// 检查数据库连接
	sqlDB, err := c.DB.DB()
	if err != nil {
		util.InternalServerError(ctx)
		return
	}

	if err := sqlDB.Ping(); err != nil {
		util.Error(ctx, http.StatusServiceUnavailable, "Database unavailable")
		return
	}

	datasetLoaded := false
	if _, err := c.DatasetSvc.Current(); err == nil {
		datasetLoaded = true
	}

	util.Success(ctx, gin.H{
		"status": "ok",
		"components": gin.H{
			"database": "up",
			"dataset":  datasetLoaded,
		},
	})
}
