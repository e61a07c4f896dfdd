package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/meda/backend/internal/application/admin"
	appchase "github.com/meda/backend/internal/application/chase"
	"github.com/meda/backend/internal/application/importer"
	appnotify "github.com/meda/backend/internal/application/notify"
	"github.com/meda/backend/internal/infrastructure/ai"
	"github.com/meda/backend/internal/infrastructure/cache"
	"github.com/meda/backend/internal/infrastructure/config"
	"github.com/meda/backend/internal/infrastructure/logger"
	"github.com/meda/backend/internal/infrastructure/mail"
	"github.com/meda/backend/internal/infrastructure/persistence"
	"github.com/meda/backend/internal/infrastructure/storage"
	"github.com/meda/backend/internal/interfaces/http/handler"
	"github.com/meda/backend/internal/interfaces/http/middleware"
	"github.com/meda/backend/internal/interfaces/http/router"
)

const shutdownTimeout = 30 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	defer func() { _ = log.Sync() }()

	log.Info("starting server",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("failed to close database", zap.Error(err))
		}
	}()

	// Repositories
	exceptionRepo := persistence.NewGormExceptionRepository(db.DB)
	loanRepo := persistence.NewGormLoanRepository(db.DB)
	orgRepo := persistence.NewGormOrganizationRepository(db.DB)
	communicationRepo := persistence.NewGormCommunicationRepository(db.DB)
	documentRepo := persistence.NewGormDocumentRepository(db.DB)
	auditLogRepo := persistence.NewGormAuditLogRepository(db.DB)
	notificationRepo := persistence.NewGormNotificationRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)

	// Send guard: Redis when configured, otherwise in-process memory
	var guard appchase.SendGuard
	var closeGuard func() error
	if cfg.Redis.Enabled {
		redisGuard, err := cache.NewRedisSendGuard(cfg.Redis)
		if err != nil {
			log.Fatal("failed to connect to redis", zap.Error(err))
		}
		guard = redisGuard
		closeGuard = redisGuard.Close
		log.Info("send guard backed by redis", zap.String("addr", cfg.Redis.Addr()))
	} else {
		memGuard := cache.NewMemorySendGuard()
		guard = memGuard
		closeGuard = memGuard.Close
		log.Info("send guard running in process memory")
	}
	defer func() {
		if err := closeGuard(); err != nil {
			log.Error("failed to close send guard", zap.Error(err))
		}
	}()

	composer := ai.NewComposer(cfg.AI, cfg.Chase.PortalBaseURL, log)
	mailer := mail.NewMailer(cfg.Email, log)

	blobStore, err := storage.NewBlobStore(context.Background(), cfg.Storage, log)
	if err != nil {
		log.Fatal("failed to initialize blob storage", zap.Error(err))
	}

	// Chase loop
	orchestrator := appchase.NewOrchestrator(exceptionRepo, composer, mailer, guard, log)
	dispatcher := appchase.NewDispatcher(orchestrator, appchase.DispatcherConfig{
		QueueSize:  cfg.Chase.QueueSize,
		RunTimeout: cfg.Chase.RunTimeout,
	}, log)
	if err := dispatcher.Start(context.Background()); err != nil {
		log.Fatal("failed to start chase dispatcher", zap.Error(err))
	}

	// Application services
	exceptionService := appchase.NewExceptionService(exceptionRepo, loanRepo, blobStore, dispatcher, log)
	communicationService := appchase.NewCommunicationService(communicationRepo)
	notificationService := appnotify.NewNotificationService(notificationRepo)
	importService := importer.NewService(orgRepo, loanRepo, exceptionService, notificationService, log)
	adminService := admin.NewService(orgRepo, loanRepo, userRepo, exceptionRepo, communicationRepo, documentRepo, auditLogRepo, log)

	// HTTP
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Fatal("invalid trusted proxies", zap.Error(err))
		}
	}

	corsConfig := middleware.DefaultCORSConfig()
	if len(cfg.HTTP.CORSAllowOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	}
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		corsConfig.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		corsConfig.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}

	engine.Use(
		middleware.RequestID(),
		logger.GinMiddleware(log),
		logger.Recovery(log),
		middleware.CORSWithConfig(corsConfig),
		middleware.BodyLimit(cfg.HTTP.MaxBodySize),
	)

	handler.NewSystemHandler(db).RegisterRoutes(engine)
	if cfg.Storage.Provider == "local" {
		engine.Static(cfg.Storage.LocalPrefix, cfg.Storage.LocalDir)
	}

	router.NewRouter(engine).
		Register(handler.NewExceptionHandler(exceptionService)).
		Register(handler.NewUploadHandler(exceptionService)).
		Register(handler.NewCommunicationHandler(communicationService)).
		Register(handler.NewNotificationHandler(notificationService)).
		Register(handler.NewImportHandler(importService)).
		Register(handler.NewAdminHandler(adminService)).
		Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("http server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("http server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("forced shutdown", zap.Error(err))
	}
	if err := dispatcher.Stop(ctx); err != nil {
		log.Error("chase dispatcher did not stop cleanly", zap.Error(err))
	}

	log.Info("server stopped")
}
