package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dentalworks/dental-clinic-platform/cmd/mainconfig"
	"github.com/dentalworks/dental-clinic-platform/internal/annotations"
	"github.com/dentalworks/dental-clinic-platform/internal/api/router"
	"github.com/dentalworks/dental-clinic-platform/internal/app/bootstrap"
	"github.com/dentalworks/dental-clinic-platform/internal/appointments"
	"github.com/dentalworks/dental-clinic-platform/internal/assets"
	"github.com/dentalworks/dental-clinic-platform/internal/chart"
	"github.com/dentalworks/dental-clinic-platform/internal/chartlive"
	appconfig "github.com/dentalworks/dental-clinic-platform/internal/config"
	"github.com/dentalworks/dental-clinic-platform/internal/notify"
	"github.com/dentalworks/dental-clinic-platform/internal/observability/metrics"
	"github.com/dentalworks/dental-clinic-platform/internal/patients"
	"github.com/dentalworks/dental-clinic-platform/internal/records"
	"github.com/dentalworks/dental-clinic-platform/internal/reminders"
	"github.com/dentalworks/dental-clinic-platform/internal/treatments"
	"github.com/dentalworks/dental-clinic-platform/pkg/logging"
)

func main() {
	// Load configuration
	cfg := appconfig.Load()

	// Initialize logger
	logger := logging.New(cfg.LogLevel)
	logger.Info("starting dental-clinic-platform API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Database
	pool, sqlDB, err := bootstrap.BuildDatabase(ctx, cfg)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	// Redis-backed chart snapshot cache; the API degrades to uncached loads
	// when Redis is down.
	redisClient := bootstrap.BuildRedisClient(ctx, cfg, logger, true)
	chartCache := bootstrap.BuildChartCache(redisClient, cfg)

	// AWS clients
	awsCfg, err := mainconfig.LoadAWSConfig(ctx, cfg)
	if err != nil {
		logger.Error("failed to load AWS config", "error", err)
		os.Exit(1)
	}
	modelStore := assets.NewStore(s3.NewFromConfig(awsCfg), cfg.ModelBucket, logger.Logger)

	// Repositories
	patientsRepo := patients.NewPostgresRepository(pool)
	appointmentsRepo := appointments.NewRepository(pool)
	treatmentsRepo := treatments.NewRepository(sqlDB)
	recordsRepo := records.NewRepository(sqlDB)
	annotationsRepo := annotations.NewRepository(sqlDB)
	modelsRepo := assets.NewRepository(sqlDB)

	// Charting core
	chartMetrics := metrics.NewChartMetrics(nil)
	liveHub := chartlive.NewHub(logger)
	chartService := chart.NewService(recordsRepo, annotationsRepo, chartCache, liveHub, chartMetrics, logger)

	// Initialize handlers
	patientsHandler := patients.NewHandler(patientsRepo, logger)
	appointmentsHandler := appointments.NewHandler(appointmentsRepo, logger)
	treatmentsHandler := treatments.NewHandler(treatmentsRepo, logger)
	chartHandler := chart.NewHandler(chartService, logger)
	recordsHandler := records.NewHandler(recordsRepo, logger)
	assetsHandler := assets.NewHandler(modelsRepo, modelStore, logger.Logger)

	// In-process reminder pipeline for single-node deployments; production
	// runs the SQS-backed reminder-worker binary instead.
	if cfg.UseMemoryQueue {
		sender, provider, reason := bootstrap.BuildEmailSender(cfg, awsCfg, logger)
		if reason != "" {
			logger.Warn("email provider fallback", "provider", provider, "reason", reason)
		}
		reminderSvc := notify.NewService(sender, cfg.ClinicName, logger)
		queue := reminders.NewMemoryQueue(64)
		scheduler := reminders.NewScheduler(appointmentsRepo, queue, cfg.ReminderLeadTime, cfg.ReminderScanInterval, logger)
		worker := reminders.NewWorker(queue, appointmentsRepo, patientsRepo, reminderSvc, logger,
			reminders.WithWorkerCount(cfg.WorkerCount))
		go scheduler.Run(ctx)
		worker.Start(ctx)
		logger.Info("in-process reminder pipeline started", "email_provider", provider)
	}

	// Setup router
	routerCfg := &router.Config{
		Logger:              logger,
		PatientsHandler:     patientsHandler,
		AppointmentsHandler: appointmentsHandler,
		TreatmentsHandler:   treatmentsHandler,
		ChartHandler:        chartHandler,
		RecordsHandler:      recordsHandler,
		AssetsHandler:       assetsHandler,
		LiveHub:             liveHub,
		MetricsHandler:      promhttp.Handler(),
		CORSAllowedOrigins:  splitOrigins(cfg.AllowedOrigins),
		ClinicianJWTSecret:  cfg.ClinicianJWTSecret,
		RateLimitPerSecond:  cfg.RateLimitPerSecond,
		RateLimitBurst:      cfg.RateLimitBurst,
	}
	r := router.New(routerCfg)

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")
	cancel()

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
	fmt.Println("Server exited gracefully")
}

func splitOrigins(raw string) []string {
	var origins []string
	for _, o := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(o); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}
