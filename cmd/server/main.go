// @title Undergraduation Admin API
// @version 1.0
// @description Admin dashboard backend for the student application funnel
// @contact.name API Support
// @contact.email support@example.com
// @license.name MIT
// @license.url https://opensource.org/licenses/MIT
// @host localhost:8080
// @BasePath /api
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization

package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"undergraduation-admin/config"
	"undergraduation-admin/internal/database"
	"undergraduation-admin/internal/handlers"
	"undergraduation-admin/internal/insights"
	"undergraduation-admin/internal/logger"
	"undergraduation-admin/internal/middleware"
	"undergraduation-admin/internal/monitoring"
	"undergraduation-admin/internal/repository"
	"undergraduation-admin/internal/services"
	"undergraduation-admin/internal/session"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	_ "undergraduation-admin/docs"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

const serviceName = "undergraduation-admin"

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatal("Invalid configuration: ", err)
	}

	logger.Init(cfg)
	defer logger.Sync()
	monitoring.Init()

	if cfg.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := repository.Open(ctx, repository.Options{
		Driver:   cfg.StoreDriver,
		MongoURI: cfg.MongoDBURI,
		MongoDB:  cfg.MongoDBDatabase,
	})
	if err != nil {
		logger.Log.Fatal("failed to open store", zap.String("driver", cfg.StoreDriver), zap.Error(err))
	}
	defer store.Close()

	if cfg.SeedDemoData {
		seeded, err := repository.Seed(ctx, store, time.Now())
		if err != nil {
			logger.Log.Fatal("failed to seed demo data", zap.Error(err))
		}
		logger.Log.Info("demo data", zap.Bool("seeded", seeded))
	}

	registry, err := sessionRegistry(cfg)
	if err != nil {
		logger.Log.Fatal("failed to open session store", zap.String("store", cfg.SessionStore), zap.Error(err))
	}
	sessions := session.NewManager(cfg.JWTSecret, cfg.JWTAccessExpiration, cfg.JWTRefreshExpiration, registry)

	mailer, err := services.NewMailer(cfg)
	if err != nil {
		logger.Log.Fatal("failed to configure mailer", zap.Error(err))
	}
	archive, err := services.NewReportArchive(ctx, cfg)
	if err != nil {
		logger.Log.Fatal("failed to configure report archive", zap.Error(err))
	}

	opts := insights.DefaultOptions()
	opts.RecencyThresholdDays = cfg.RecencyThresholdDays
	opts.TrendWindowDays = cfg.TrendWindowDays
	opts.MaxFollowupCandidates = cfg.MaxFollowupCandidates

	services.StartRecencyWorker(ctx, cfg.RecencyWorkerInterval, store)

	api := &handlers.API{
		Auth:     handlers.NewAuthHandler(cfg, store, sessions),
		Students: handlers.NewStudentHandler(store),
		Timeline: handlers.NewTimelineHandler(store),
		Followup: handlers.NewFollowupHandler(services.NewFollowupService(store, mailer)),
		Insights: handlers.NewInsightsHandler(store, opts, archive),
		Admin:    handlers.NewAdminHandler(store),
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.SecureHeaders())
	r.Use(middleware.CORS(cfg.FrontendURLs))
	r.Use(middleware.RateLimiter(cfg.RateLimitPerMinute, time.Minute, ctx.Done()))
	r.Use(gzip.Gzip(gzip.DefaultCompression))
	r.Use(monitoring.MetricsMiddleware())

	if cfg.TracingEnabled {
		tp, err := middleware.InitTracer(serviceName, cfg.TracingCollectorEndpoint)
		if err != nil {
			logger.Log.Error("tracing disabled", zap.Error(err))
		} else {
			defer func() {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = tp.Shutdown(shutdownCtx)
			}()
			r.Use(middleware.Tracing())
		}
	}

	api.Register(r, middleware.RequireSession(sessions))
	r.GET("/metrics", monitoring.PrometheusHandler())
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		logger.Log.Info("server starting",
			zap.String("port", cfg.Port),
			zap.String("store", cfg.StoreDriver),
			zap.String("mailer", mailer.Name()),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Fatal("failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Log.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error("server forced to shutdown", zap.Error(err))
		os.Exit(1)
	}
	logger.Log.Info("server exited")
}

func sessionRegistry(cfg *config.Config) (session.Registry, error) {
	if cfg.SessionStore != "redis" {
		return session.NewMemoryRegistry(), nil
	}
	rdb, err := database.NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		return nil, err
	}
	return session.NewRedisRegistry(rdb), nil
}
