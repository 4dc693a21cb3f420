package app

import (
	"context"
	"errors"
	"item_bank_backend/internal/config"
	"item_bank_backend/internal/controller"
	"item_bank_backend/internal/repository"
	"item_bank_backend/internal/service"
	"item_bank_backend/pkg/configwatcher"
	"item_bank_backend/pkg/database"
	"item_bank_backend/pkg/logger"
	"item_bank_backend/pkg/monitoring"
	"item_bank_backend/pkg/security"
	"item_bank_backend/pkg/tracing"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config          *config.Config
	ConfigDir       string
	Router          *gin.Engine
	DB              *gorm.DB
	Redis           *redis.Client
	services        *services
	tracer          *sdktrace.TracerProvider
	configCallbacks []func(*config.Config)
}

type repositories struct {
	user     *repository.UserRepository
	question *repository.QuestionRepository
	response *repository.StudentResponseRepository
	analysis *repository.ItemAnalysisRepository
}

type services struct {
	analysis  *service.ItemAnalysisService
	dashboard *service.DashboardService
}

type controllers struct {
	analysis  *controller.AnalysisController
	dashboard *controller.DashboardController
	health    *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

func (a *App) applyConfig(cfg *config.Config) {
	for _, cb := range a.configCallbacks {
		cb(cfg)
	}
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:     repository.NewUserRepository(db),
		question: repository.NewQuestionRepository(db),
		response: repository.NewStudentResponseRepository(db),
		analysis: repository.NewItemAnalysisRepository(db),
	}
}

// newLocker 启用 redis 时使用分布式锁，否则使用进程内锁
func newLocker(rdb *redis.Client) service.KeyLocker {
	if rdb != nil {
		return service.NewRedisKeyLocker(rdb)
	}
	return service.NewLocalKeyLocker()
}

func (a *App) initServices(repos *repositories, cfg *config.Config, rdb *redis.Client) *services {
	s := &services{}

	s.analysis = service.NewItemAnalysisService(repos.question, repos.response, repos.analysis, newLocker(rdb), cfg.Analysis)
	s.dashboard = service.NewDashboardService(repos.user, repos.question, repos.analysis)

	a.RegisterConfigCallback(func(newCfg *config.Config) {
		s.analysis.UpdateConfig(newCfg.Analysis)
		logger.Log.Info("Analysis config updated",
			zap.Int("minResponses", newCfg.Analysis.MinResponses),
			zap.Float64("groupFraction", newCfg.Analysis.GroupFraction),
			zap.Bool("allowGroupOverlap", newCfg.Analysis.AllowGroupOverlap),
		)
	})

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB, rdb *redis.Client) *controllers {
	return &controllers{
		analysis:  controller.NewAnalysisController(s.analysis),
		dashboard: controller.NewDashboardController(s.dashboard),
		health:    controller.NewHealthController(db, rdb),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS))
	router.Use(security.Secure())
	router.Use(security.RateLimiter(cfg.RateLimit))

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

// NewApp 初始化数据库、redis、追踪并完成路由注册
func NewApp(cfg *config.Config, configDir string) (*App, error) {
	gin.SetMode(cfg.Server.Mode)

	db, err := database.InitDB(&cfg.Database, cfg.ForceMigrate)
	if err != nil {
		return nil, err
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		database.Close(db)
		return nil, err
	}

	app := &App{
		Config:    cfg,
		ConfigDir: configDir,
		DB:        db,
		Redis:     rdb,
	}

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer(cfg.Tracing.ServiceName, cfg.Tracing.CollectorEndpoint)
		if err != nil {
			app.Close(context.Background())
			return nil, err
		}
		app.tracer = tp
	}

	repos := app.initRepositories(db)
	app.services = app.initServices(repos, cfg, rdb)
	controllers := app.initControllers(app.services, db, rdb)

	// 监控初始化
	monitoring.Init()

	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	app.Router = router

	app.setupMiddlewares(router, cfg)
	app.registerRoutes(router, controllers, cfg)

	return app, nil
}

func (a *App) Run() error {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if a.ConfigDir != "" {
		go func() {
			if err := configwatcher.WatchConfig(ctx, a.ConfigDir, configwatcher.DefaultDebounce, a.applyConfig); err != nil {
				logger.Log.Error("Config watcher stopped", zap.Error(err))
			}
		}()
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Log.Info("Server running", zap.String("port", a.Config.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
	select {
	case err := <-serveErr:
		if err != nil {
			return err
		}
	case <-ctx.Done():
	}
	logger.Log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	a.Close(shutdownCtx)
	logger.Log.Info("Server exiting")
	return nil
}

// Close 释放追踪、redis 与数据库连接
func (a *App) Close(ctx context.Context) {
	if a.tracer != nil {
		if err := a.tracer.Shutdown(ctx); err != nil {
			logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}
	if a.Redis != nil {
		a.Redis.Close()
	}
	database.Close(a.DB)
}
