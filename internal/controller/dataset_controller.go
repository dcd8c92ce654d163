package controller

import (
	"errors"
	"io"
	"path/filepath"
	"strings"

	"copo_analysis_backend/internal/service"
	"copo_analysis_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type DatasetController struct {
	AnalyticsService *service.AnalyticsService
	DatasetService   *service.DatasetService
	IngestService    *service.IngestService
}

func NewDatasetController(analyticsService *service.AnalyticsService, datasetService *service.DatasetService, ingestService *service.IngestService) *DatasetController {
	return &DatasetController{
		AnalyticsService: analyticsService,
		DatasetService:   datasetService,
		IngestService:    ingestService,
	}
}

// Upload godoc
// @Summary 上传成绩工作簿
// @Description 上传包含 Student_Data、CO_PO_Mapping、PO_Definitions 三张表的 Excel 文件并触发完整分析
// @Tags 数据集
// @Accept  multipart/form-data
// @Produce  json
// @Security BearerAuth
// @Param   file formData file true "Excel 工作簿"
// @Success 200 {object} util.Response{data=object} "处理完成"
// @Failure 400 {object} util.Response "文件缺失或格式错误"
// @Failure 500 {object} util.Response "服务器内部错误"
// @Router /api/teacher/datasets [post]
func (c *DatasetController) Upload(ctx *gin.Context) {
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "缺少上传文件")
		return
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	allowed := false
	for _, e := range util.AllowedWorkbookExtensions {
		if ext == e {
			allowed = true
			break
		}
	}
	if !allowed {
		util.BadRequest(ctx, "仅支持 Excel 文件")
		return
	}

	src, err := fileHeader.Open()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	defer src.Close()

	content, err := io.ReadAll(src)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	claims := util.GetUserFromContext(ctx)
	var uploadedBy uint
	if claims != nil {
		uploadedBy = claims.UserID
	}

	dataset, err := c.AnalyticsService.ProcessDataset(ctx.Request.Context(), fileHeader.Filename, uploadedBy, content)
	if err != nil {
		if errors.Is(err, util.ErrMissingSheets) {
			util.BadRequest(ctx, err.Error())
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, gin.H{
		"datasetId":    dataset.ID,
		"studentCount": len(dataset.Records),
		"coCount":      len(dataset.Matrix.Outcomes),
		"errors":       dataset.Errors,
	})
}

// Current godoc
// @Summary 当前数据集信息
// @Tags 数据集
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=object} "成功"
// @Failure 404 {object} util.Response "尚未加载数据集"
// @Router /api/teacher/datasets/current [get]
func (c *DatasetController) Current(ctx *gin.Context) {
	dataset, err := c.DatasetService.Current()
	if err != nil {
		util.Error(ctx, 404, "尚未加载数据集")
		return
	}

	util.Success(ctx, gin.H{
		"datasetId":    dataset.ID,
		"fileName":     dataset.FileName,
		"uploadedAt":   dataset.UploadedAt.Format(util.TimeFormat),
		"studentCount": len(dataset.Records),
		"coCount":      len(dataset.Matrix.Outcomes),
		"featureNames": dataset.FeatureNames,
		"errors":       dataset.Errors,
	})
}

// History godoc
// @Summary 历史上传记录
// @Tags 数据集
// @Produce  json
// @Security BearerAuth
// @Param   page query int false "页码"
// @Param   limit query int false "每页条数"
// @Success 200 {object} util.Response{data=util.PageResponse} "成功"
// @Router /api/teacher/datasets/history [get]
func (c *DatasetController) History(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	page := util.MustParseInt(ctx.DefaultQuery("page", "1"), 1)
	limit := util.MustParseInt(ctx.DefaultQuery("limit", "20"), 20)

	uploads, total, err := c.DatasetService.ListUploads(claims.UserID, page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, util.PageResponse{
		List:  uploads,
		Total: total,
		Page:  page,
		Limit: limit,
	})
}

// Template godoc
// @Summary 下载数据模板
// @Description 生成带示例数据的 Excel 模板
// @Tags 数据集
// @Produce  application/octet-stream
// @Success 200 {file} binary "模板文件"
// @Router /api/template [get]
func (c *DatasetController) Template(ctx *gin.Context) {
	f, err := c.IngestService.BuildTemplate()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	defer f.Close()

	buf, err := f.WriteToBuffer()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	ctx.Header("Content-Disposition", "attachment; filename="+util.TemplateName)
	ctx.Data(200, util.MimeXLSX, buf.Bytes())
}
