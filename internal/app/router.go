package app

import (
	"copo_analysis_backend/docs"
	"copo_analysis_backend/internal/config"
	"copo_analysis_backend/internal/middleware"
	"copo_analysis_backend/internal/model"
	"copo_analysis_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. 公共路由(无需登录)
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)
		public.POST("/student/login", c.auth.StudentLogin)
		public.GET("/template", c.dataset.Template)
	}

	// 2. 教师端接口
	teacher := router.Group("/api/teacher")
	teacher.Use(middleware.AuthMiddleware(cfg), middleware.RoleMiddleware(model.Teacher))
	{
		teacher.GET("/me", c.auth.Me)

		teacher.POST("/datasets", c.dataset.Upload)
		teacher.GET("/datasets/current", c.dataset.Current)
		teacher.GET("/datasets/history", c.dataset.History)

		teacher.GET("/analytics/overview", c.analytics.Overview)
		teacher.GET("/analytics/outcomes", c.analytics.Outcomes)
		teacher.GET("/analytics/clusters", c.analytics.Clusters)
		teacher.GET("/analytics/components", c.analytics.Components)
		teacher.GET("/analytics/performers", c.analytics.Performers)

		teacher.GET("/students", c.analytics.Students)
		teacher.GET("/students/:id", c.analytics.StudentDetail)

		teacher.GET("/report/:id/preview", c.report.Preview)
		teacher.POST("/report/:id/send", c.report.Send)
		teacher.POST("/reports/send-bulk", c.report.SendBulk)
		teacher.GET("/reports/log", c.report.Log)
	}

	// 3. 学生门户接口，仅限本人数据
	student := router.Group("/api/student")
	student.Use(middleware.AuthMiddleware(cfg), middleware.StudentScopeMiddleware())
	{
		student.GET("/me", c.student.Me)
		student.GET("/me/report", c.student.MyReport)
		student.POST("/me/report/send", c.student.SendMyReport)
	}
}
