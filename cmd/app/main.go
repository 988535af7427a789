package main

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/waste3d/coursehub/config"
	"github.com/waste3d/coursehub/internal/application/usecase"
	"github.com/waste3d/coursehub/internal/infrastructure/cache"
	"github.com/waste3d/coursehub/internal/infrastructure/email"
	"github.com/waste3d/coursehub/internal/infrastructure/repository"
	"github.com/waste3d/coursehub/internal/infrastructure/security"
	"github.com/waste3d/coursehub/internal/infrastructure/storage"
	"github.com/waste3d/coursehub/internal/middleware"
	"github.com/waste3d/coursehub/internal/observability"
	"github.com/waste3d/coursehub/internal/platform/logger"
	grpc_server "github.com/waste3d/coursehub/internal/transport/grpc"
	handlers "github.com/waste3d/coursehub/internal/transport/http"

	"github.com/redis/go-redis/v9"
	gormLogger "gorm.io/gorm/logger"
)

const serviceName = "coursehub"

func main() {
	// 1. Config
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	appLog, err := logger.New(cfg.LogMode)
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer appLog.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := observability.InitTracing(ctx, appLog, observability.TracingConfig{
		Enabled:     cfg.OtelEnabled,
		ServiceName: serviceName,
		Endpoint:    cfg.OtelEndpoint,
		Insecure:    true,
	})
	if err != nil {
		appLog.Warn("tracing disabled", "error", err)
	}

	// 2. Database
	level := gormLogger.Warn
	if cfg.LogMode == "dev" {
		level = gormLogger.Info
	}
	db, err := repository.Open(cfg.DBDriver, cfg.DSN(), level)
	if err != nil {
		appLog.Fatal("db connect failed", "driver", cfg.DBDriver, "error", err)
	}
	if err := repository.Migrate(db); err != nil {
		appLog.Fatal("db migrate failed", "error", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		appLog.Fatal("db handle unavailable", "error", err)
	}
	defer sqlDB.Close()

	// 3. Redis. Rate limits and webhook dedup degrade to no-ops without it.
	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := rdb.Ping(ctx).Err(); err != nil {
			appLog.Warn("redis unavailable, continuing without it", "addr", cfg.RedisAddr, "error", err)
			_ = rdb.Close()
			rdb = nil
		} else {
			appLog.Info("connected to redis", "addr", cfg.RedisAddr)
			defer rdb.Close()
		}
	}

	// 4. Repositories and adapters
	users := repository.NewUserRepository(db)
	courses := repository.NewCourseRepository(db)
	lessons := repository.NewLessonRepository(db)
	enrollments := repository.NewEnrollmentRepository(db)
	progress := repository.NewProgressRepository(db)

	mailer := email.NewEmailSender(cfg.SendgridAPIKey, cfg.SenderEmail, appLog)
	if !mailer.Enabled() {
		appLog.Warn("SENDGRID_API_KEY or SENDER_EMAIL not set, completion emails disabled")
	}

	var verifier *security.WebhookVerifier
	if cfg.WebhookSecret != "" {
		verifier, err = security.NewWebhookVerifier(cfg.WebhookSecret)
		if err != nil {
			appLog.Fatal("invalid WEBHOOK_SECRET", "error", err)
		}
	} else {
		appLog.Warn("WEBHOOK_SECRET not set, identity webhook disabled")
	}

	var mediaHandler *handlers.MediaHandler
	if cfg.GCSBucket != "" {
		store, err := storage.NewGCSStore(ctx, cfg.GCSBucket, cfg.GCSEmulatorHost, appLog)
		if err != nil {
			appLog.Fatal("gcs init failed", "bucket", cfg.GCSBucket, "error", err)
		}
		defer store.Close()
		mediaHandler = handlers.NewMediaHandler(usecase.NewMediaUseCase(store, appLog))
	}

	// 5. Use cases and handlers
	courseUC := usecase.NewCourseUseCase(courses, lessons, appLog)
	enrollmentUC := usecase.NewEnrollmentUseCase(users, courses, lessons, enrollments, progress, mailer, appLog, cfg.FrontendURL)
	identityUC := usecase.NewIdentityUseCase(users, cache.NewReplayGuard(rdb), appLog)

	tokens := security.NewTokenManager(cfg.SessionSecret, 24*time.Hour)
	routerServiceName := ""
	if cfg.OtelEnabled {
		routerServiceName = serviceName
	}
	router := handlers.NewRouter(handlers.RouterDeps{
		Log:            appLog,
		AllowedOrigins: cfg.Origins(),
		ServiceName:    routerServiceName,
		Auth:           middleware.NewAuthMiddleware(appLog, tokens, users),
		Limiter:        middleware.NewRateLimiter(rdb),
		Courses:        handlers.NewCourseHandler(courseUC),
		Enrollments:    handlers.NewEnrollmentHandler(enrollmentUC),
		Webhooks:       handlers.NewWebhookHandler(identityUC, verifier, appLog),
		Media:          mediaHandler,
	})

	// 6. Servers
	httpSrv := &http.Server{
		Addr:              cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	probe := grpc_server.NewProbeServer(appLog)
	lis, err := net.Listen("tcp", cfg.GRPCPort)
	if err != nil {
		appLog.Fatal("grpc listen failed", "addr", cfg.GRPCPort, "error", err)
	}
	go func() {
		if err := probe.Serve(lis); err != nil {
			appLog.Error("grpc probe server stopped", "error", err)
		}
	}()
	go probe.Watch(ctx, 15*time.Second, sqlDB.PingContext)

	go func() {
		appLog.Info("http server listening", "addr", cfg.Port)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLog.Error("http server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	appLog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	probe.Stop()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		appLog.Error("http shutdown failed", "error", err)
	}
	if shutdownTracing != nil {
		if err := shutdownTracing(shutdownCtx); err != nil {
			appLog.Warn("tracing shutdown failed", "error", err)
		}
	}
}
