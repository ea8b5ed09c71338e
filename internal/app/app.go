package app

import (
	"context"
	"health_survey_backend/internal/config"
	"health_survey_backend/internal/controller"
	"health_survey_backend/internal/repository"
	"health_survey_backend/internal/service"
	"health_survey_backend/pkg/configwatcher"
	"health_survey_backend/pkg/database"
	"health_survey_backend/pkg/fixture"
	"health_survey_backend/pkg/logger"
	"health_survey_backend/pkg/monitoring"
	"health_survey_backend/pkg/security"
	"health_survey_backend/pkg/tracing"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.mongodb.org/mongo-driver/mongo"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config     *config.Config
	ConfigPath string
	Router     *gin.Engine
	Mongo      *mongo.Client
	DB         *gorm.DB
	Redis      *redis.Client

	tracer          *sdktrace.TracerProvider
	configCallbacks []func(*config.Config)
}

type repositories struct {
	submission repository.SubmissionRepository
	counter    repository.RespondentCounter
}

type services struct {
	submission *service.SubmissionService
	survey     *service.SurveyService
}

type controllers struct {
	submission *controller.SubmissionController
	survey     *controller.SurveyController
	health     *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

func (a *App) applyConfig(cfg *config.Config) {
	logger.Log.Info("Config reloaded", zap.String("log_level", cfg.Log.Level))
	for _, callback := range a.configCallbacks {
		callback(cfg)
	}
}

// initStorage 按 storage.driver 建立提交记录的存储
func (a *App) initStorage(cfg *config.Config) repository.SubmissionRepository {
	switch cfg.Storage.Driver {
	case config.StorageMySQL:
		db, err := database.InitDB(&cfg.Database, cfg.Server.Mode)
		if err != nil {
			logger.Log.Fatal("Failed to initialize database", zap.Error(err))
		}
		a.DB = db

		if cfg.Server.Mode != gin.ReleaseMode || cfg.ForceMigrate {
			if err := database.Migrate(db); err != nil {
				logger.Log.Fatal("Failed to migrate database", zap.Error(err))
			}
		}
		return repository.NewGormSubmissionRepository(db)

	default:
		client, err := database.InitMongo(&cfg.Mongo)
		if err != nil {
			logger.Log.Fatal("MongoDB connection error", zap.Error(err))
		}
		a.Mongo = client

		timeout := time.Duration(cfg.Mongo.Timeout) * time.Second
		collection := client.Database(cfg.Mongo.Database).Collection(cfg.Mongo.Collection)
		repo := repository.NewMongoSubmissionRepository(collection, timeout)

		if err := repo.EnsureIndexes(context.Background()); err != nil {
			logger.Log.Warn("Failed to ensure submission indexes", zap.Error(err))
		}
		return repo
	}
}

func (a *App) initRepositories(cfg *config.Config) *repositories {
	repos := &repositories{
		submission: a.initStorage(cfg),
		counter:    repository.NoopRespondentCounter{},
	}

	if cfg.Redis.Enabled {
		rdb, err := database.InitRedis(&cfg.Redis)
		if err != nil {
			logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
		}
		a.Redis = rdb
		repos.counter = repository.NewRedisRespondentCounter(rdb)
	}

	return repos
}

func initServices(repos *repositories, survey *fixture.Survey) *services {
	return &services{
		submission: service.NewSubmissionService(repos.submission, repos.counter),
		survey:     service.NewSurveyService(survey),
	}
}

func initControllers(s *services, cfg *config.Config) *controllers {
	return &controllers{
		submission: controller.NewSubmissionController(s.submission),
		survey:     controller.NewSurveyController(s.survey, s.submission),
		health:     controller.NewHealthController(s.submission, cfg.Storage.Driver),
	}
}

func setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())
	router.Use(security.RateLimiter(cfg.RateLimit.MaxRequests, time.Duration(cfg.RateLimit.WindowMinutes)*time.Minute))

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func newRouter(cfg *config.Config, c *controllers) *gin.Engine {
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}

	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	setupMiddlewares(router, cfg)
	registerRoutes(router, c, cfg)

	return router
}

func NewApp(cfg *config.Config, configPath string) *App {
	logger.InitLogger(cfg)
	defer logger.Log.Sync()

	logger.Log.Info("Logger initialized successfully")

	survey, err := fixture.Load(cfg.Survey.Fixture)
	if err != nil {
		logger.Log.Fatal("Failed to load survey fixture", zap.String("path", cfg.Survey.Fixture), zap.Error(err))
	}

	app := &App{
		Config:     cfg,
		ConfigPath: configPath,
	}

	repos := app.initRepositories(cfg)
	if cfg.MigrateOnly {
		return app
	}

	controllers := initControllers(initServices(repos, survey), cfg)

	// 监控初始化
	monitoring.Init()

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer(tracing.ServiceName, cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
		app.tracer = tp
	}

	app.Router = newRouter(cfg, controllers)

	app.RegisterConfigCallback(logger.SetLevel)

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	watchCtx, stopWatching := context.WithCancel(context.Background())
	defer stopWatching()
	go func() {
		path := filepath.Join(a.ConfigPath, "config.yaml")
		if err := configwatcher.WatchConfig(watchCtx, path, a.applyConfig); err != nil {
			logger.Log.Warn("Config hot reload disabled", zap.Error(err))
		}
	}()

	// 启动服务器
	go func() {
		log.Printf("Server running on port %s", a.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// 等待中断信号优雅地关闭服务器
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	timeout := time.Duration(a.Config.Server.ShutdownTimeout) * time.Second
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error("Server forced to shutdown", zap.Error(err))
	}

	a.Close(ctx)
	log.Println("Server exiting")
}

// Close 释放存储连接和追踪导出器
func (a *App) Close(ctx context.Context) {
	if a.Mongo != nil {
		if err := a.Mongo.Disconnect(ctx); err != nil {
			logger.Log.Error("Failed to disconnect MongoDB", zap.Error(err))
		}
	}
	if a.DB != nil {
		if sqlDB, err := a.DB.DB(); err == nil {
			sqlDB.Close()
		}
	}
	if a.Redis != nil {
		a.Redis.Close()
	}
	if a.tracer != nil {
		if err := a.tracer.Shutdown(ctx); err != nil {
			logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}
}
