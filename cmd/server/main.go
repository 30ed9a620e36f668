package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/attenda/attenda-backend/internal/config"
	"github.com/attenda/attenda-backend/internal/database"
	"github.com/attenda/attenda-backend/internal/handler"
	"github.com/attenda/attenda-backend/internal/logger"
	"github.com/attenda/attenda-backend/internal/mail"
	"github.com/attenda/attenda-backend/internal/repository"
	"github.com/attenda/attenda-backend/internal/router"
	"github.com/attenda/attenda-backend/internal/service"
	"github.com/attenda/attenda-backend/internal/validator"
	"github.com/attenda/attenda-backend/internal/worker"
	"github.com/rs/zerolog"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("log_level", cfg.LogLevel).
		Msg("Starting Attenda Backend")

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	// ─── Connect to Redis ──────────────────────────────────────────────
	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()

	// ─── Mail ──────────────────────────────────────────────────────────
	var mailer mail.Sender
	if cfg.SendGridAPIKey != "" {
		mailer = mail.NewSendGridSender(cfg.SendGridAPIKey, cfg.MailFromName, cfg.MailFrom, log)
	} else {
		log.Warn().Msg("SENDGRID_API_KEY not set, reset links are logged instead of mailed")
		mailer = mail.NewConsoleSender(cfg.MailFromName, cfg.MailFrom, log)
	}

	// ─── Initialize Repositories ───────────────────────────────────────
	userRepo := repository.NewUserRepository(pool)
	roleRepo := repository.NewRoleRepository(pool)
	classRepo := repository.NewClassRepository(pool)
	subjectRepo := repository.NewSubjectRepository(pool)
	attendanceRepo := repository.NewAttendanceRepository(pool)
	dashboardRepo := repository.NewDashboardRepository(pool)
	notificationRepo := repository.NewNotificationRepository(pool)
	leaveRepo := repository.NewLeaveRequestRepository(pool)
	activityRepo := repository.NewActivityRepository(pool, rdb)
	resetTokenRepo := repository.NewResetTokenRepository(rdb)
	notificationBus := repository.NewNotificationBus(rdb)

	// ─── Initialize Services ──────────────────────────────────────────
	activityService := service.NewActivityService(activityRepo, log)
	authService := service.NewAuthService(cfg, userRepo)
	resetService := service.NewPasswordResetService(cfg, userRepo, resetTokenRepo, authService, mailer, activityService, log)
	attendanceService := service.NewAttendanceService(attendanceRepo, activityService, log)
	dashboardService := service.NewDashboardService(userRepo, classRepo, dashboardRepo, attendanceRepo, notificationRepo, attendanceService)
	statsService := service.NewStatsService(dashboardRepo, attendanceRepo)
	classService := service.NewClassService(classRepo, activityService)
	subjectService := service.NewSubjectService(subjectRepo)
	userService := service.NewUserService(userRepo, roleRepo, authService, activityService)
	notificationService := service.NewNotificationService(notificationRepo, userRepo, notificationBus, log)
	leaveService := service.NewLeaveService(leaveRepo, userRepo, activityService)

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Health:       handler.NewHealthHandler(pool, rdb, log),
		Auth:         handler.NewAuthHandler(authService, resetService, log),
		Attendance:   handler.NewAttendanceHandler(attendanceService, log),
		Dashboard:    handler.NewDashboardHandler(dashboardService, log),
		Class:        handler.NewClassHandler(classService, log),
		Subject:      handler.NewSubjectHandler(subjectService, log),
		User:         handler.NewUserHandler(userService, log),
		Notification: handler.NewNotificationHandler(notificationService, log),
		Leave:        handler.NewLeaveHandler(leaveService, log),
		Activity:     handler.NewActivityHandler(activityService, log),
		Stats:        handler.NewStatsHandler(statsService, log),
		Stream:       handler.NewNotificationStreamHandler(notificationBus, log, cfg.AllowedOrigins),
	}

	// ─── Start Background Workers ─────────────────────────────────────
	workerCtx, workerCancel := context.WithCancel(context.Background())
	workerDone := make(chan struct{})

	activityWorker := worker.NewActivityWorker(pool, rdb, log)
	go func() {
		defer close(workerDone)
		activityWorker.Start(workerCtx)
	}()

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(ctx, authService, handlers, cfg)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	// 1. Stop accepting new HTTP requests (5s timeout).
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	// 2. Stop the activity worker and wait for its final flush.
	workerCancel()
	select {
	case <-workerDone:
	case <-time.After(10 * time.Second):
		log.Warn().Msg("Activity worker did not stop in time")
	}

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
