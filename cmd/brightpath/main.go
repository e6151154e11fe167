package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/brightpath-lms/brightpath/internal/activity"
	"github.com/brightpath-lms/brightpath/internal/app"
	"github.com/brightpath-lms/brightpath/internal/auth"
	"github.com/brightpath-lms/brightpath/internal/courses"
	"github.com/brightpath-lms/brightpath/internal/enrollments"
	"github.com/brightpath-lms/brightpath/internal/institutions"
	"github.com/brightpath-lms/brightpath/internal/notifications"
	"github.com/brightpath-lms/brightpath/internal/observability"
	"github.com/brightpath-lms/brightpath/internal/platform/cache"
	"github.com/brightpath-lms/brightpath/internal/platform/db"
	"github.com/brightpath-lms/brightpath/internal/quizzes"
	"github.com/brightpath-lms/brightpath/internal/rbac"
	"github.com/brightpath-lms/brightpath/internal/users"
	"github.com/brightpath-lms/brightpath/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	dbpool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Warn("redis unavailable", slog.Any("error", err))
	} else {
		defer func() {
			if err := redisClient.Close(); err != nil {
				logger.Warn("redis close", slog.Any("error", err))
			}
		}()
	}

	verifier := auth.NewVerifier(cfg.JWTSecret)
	authMiddleware := &auth.Middleware{Verifier: verifier, Logger: logger}

	institutionRepo := institutions.NewRepository(dbpool)
	institutionService := institutions.NewService(institutionRepo)

	guards := rbac.Middleware{Memberships: institutionService, Logger: logger}

	asynqClient := asynq.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := asynqClient.Close(); err != nil {
			logger.Warn("asynq client close", slog.Any("error", err))
		}
	}()
	var recorder activity.Recorder = activity.NewQueueRecorder(asynqClient, logger)

	userRepo := users.NewRepository(dbpool)
	userService := users.NewService(userRepo)
	userHandler := users.NewHandler(logger, userService, guards, recorder)

	institutionHandler := institutions.NewHandler(logger, institutionService, guards, recorder)

	courseRepo := courses.NewRepository(dbpool)
	courseService := courses.NewService(courseRepo)
	courseHandler := courses.NewHandler(logger, courseService, guards)

	enrollmentRepo := enrollments.NewRepository(dbpool)
	enrollmentService := enrollments.NewService(enrollmentRepo)
	enrollmentHandler := enrollments.NewHandler(logger, enrollmentService, guards, recorder)

	quizRepo := quizzes.NewRepository(dbpool)
	quizService := quizzes.NewService(quizRepo)
	quizHandler := quizzes.NewHandler(logger, quizService, guards)

	// NOTIF_STORE selects the read-state backend once at startup. Memory
	// mode also runs the generator without a source, serving the fixed
	// fallback feed.
	var notifSource notifications.Source
	var readStore notifications.ReadStore
	if cfg.NotifStore == "memory" {
		readStore = notifications.NewMemoryReadStore()
	} else {
		notifSource = notifications.NewRepository(dbpool)
		readStore = notifications.NewPGReadStore(dbpool)
	}
	notifCache := notifications.NewCache(redisClient, cfg.NotifCacheTTL)
	notifService := notifications.NewService(notifications.NewGenerator(notifSource, logger), readStore, notifCache, logger)
	notifHandler := notifications.NewHandler(logger, notifService)

	metrics := observability.NewMetrics()

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()
	jobHandler := jobs.NewHandler(inspector, logger)

	router := app.NewRouter(app.RouterParams{
		Logger:               logger,
		Config:               cfg,
		AuthMiddleware:       authMiddleware,
		UsersHandler:         userHandler,
		InstitutionsHandler:  institutionHandler,
		CoursesHandler:       courseHandler,
		EnrollmentsHandler:   enrollmentHandler,
		QuizzesHandler:       quizHandler,
		NotificationsHandler: notifHandler,
		JobsHandler:          jobHandler,
		Metrics:              metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
