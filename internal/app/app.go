package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"copo_analysis_backend/internal/config"
	"copo_analysis_backend/internal/controller"
	"copo_analysis_backend/internal/repository"
	"copo_analysis_backend/internal/service"
	"copo_analysis_backend/internal/util"
	"copo_analysis_backend/pkg/database"
	"copo_analysis_backend/pkg/logger"
	"copo_analysis_backend/pkg/monitoring"
	"copo_analysis_backend/pkg/security"
	"copo_analysis_backend/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config          *config.Config
	Router          *gin.Engine
	DB              *gorm.DB
	Redis           *redis.Client
	services        *services
	configCallbacks []func(*config.Config)
	tracerProvider  *sdktrace.TracerProvider
}

type repositories struct {
	user     *repository.UserRepository
	upload   *repository.DatasetUploadRepository
	emailLog *repository.EmailLogRepository
}

type services struct {
	grading   *service.GradingService
	outcome   *service.OutcomeService
	cluster   *service.ClusterService
	report    *service.ReportService
	ingest    *service.IngestService
	storage   *service.StorageService
	dataset   *service.DatasetService
	email     *service.EmailService
	auth      *service.AuthService
	analytics *service.AnalyticsService
}

type controllers struct {
	auth      *controller.AuthController
	dataset   *controller.DatasetController
	analytics *controller.AnalyticsController
	report    *controller.ReportController
	student   *controller.StudentController
	health    *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

// ApplyConfig 配置热更新入口，依次执行已注册的回调
func (a *App) ApplyConfig(cfg *config.Config) {
	for _, callback := range a.configCallbacks {
		callback(cfg)
	}
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:     repository.NewUserRepository(db),
		upload:   repository.NewDatasetUploadRepository(db),
		emailLog: repository.NewEmailLogRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, rdb *redis.Client) *services {
	s := &services{}

	s.grading = service.NewGradingService()
	s.outcome = service.NewOutcomeService()
	s.cluster = service.NewClusterService()
	s.report = service.NewReportService()
	s.ingest = service.NewIngestService()
	s.storage = service.NewStorageService(cfg)
	s.dataset = service.NewDatasetService(repos.upload)
	s.email = service.NewEmailService(cfg, s.report, s.grading, repos.emailLog)
	s.auth = service.NewAuthService(repos.user, s.dataset, cfg)
	s.analytics = service.NewAnalyticsService(
		s.grading,
		s.outcome,
		s.cluster,
		s.ingest,
		s.dataset,
		s.storage,
		rdb,
	)

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB) *controllers {
	return &controllers{
		auth:      controller.NewAuthController(s.auth),
		dataset:   controller.NewDatasetController(s.analytics, s.dataset, s.ingest),
		analytics: controller.NewAnalyticsController(s.analytics),
		report:    controller.NewReportController(s.dataset, s.report, s.grading, s.email),
		student:   controller.NewStudentController(s.dataset, s.report, s.grading, s.email),
		health:    controller.NewHealthController(db, s.dataset),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())
	router.Use(security.RateLimiter(cfg.RateLimit.MaxRequests, time.Duration(cfg.RateLimit.WindowSeconds)*time.Second))

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)
	defer logger.Log.Sync()

	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
		log.Fatalf("Failed to initialize database: %v", err)
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Warn("Failed to initialize redis, analytics caching disabled", zap.Error(err))
		rdb = nil
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	repos := app.initRepositories(db)
	services := app.initServices(repos, cfg, rdb)
	app.services = services
	controllers := app.initControllers(services, db)

	// 监控初始化
	monitoring.Init()

	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer("copo-analysis", cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
		app.tracerProvider = tp
	}

	app.registerRoutes(router, controllers, cfg)

	app.RegisterConfigCallback(func(newCfg *config.Config) {
		app.Config = newCfg
		logger.Log.Info("Configuration reloaded", zap.String("mode", newCfg.Server.Mode))
	})

	if cfg.Storage.Type == util.StorageLocal {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	// 启动服务器
	go func() {
		log.Printf("Server running on port %s", a.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	if a.tracerProvider != nil {
		if err := a.tracerProvider.Shutdown(ctx); err != nil {
			logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}

	log.Println("Server exiting")
}
