package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/sqs"

	"github.com/dentalworks/dental-clinic-platform/cmd/mainconfig"
	"github.com/dentalworks/dental-clinic-platform/internal/app/bootstrap"
	"github.com/dentalworks/dental-clinic-platform/internal/appointments"
	appconfig "github.com/dentalworks/dental-clinic-platform/internal/config"
	"github.com/dentalworks/dental-clinic-platform/internal/notify"
	"github.com/dentalworks/dental-clinic-platform/internal/patients"
	"github.com/dentalworks/dental-clinic-platform/internal/reminders"
	"github.com/dentalworks/dental-clinic-platform/pkg/logging"
)

func main() {
	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel)

	if cfg.UseMemoryQueue {
		logger.Error("reminder-worker requires an SQS queue; the in-memory queue only exists inside the API process")
		os.Exit(1)
	}
	if cfg.ReminderQueueURL == "" {
		logger.Error("REMINDER_QUEUE_URL is required")
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, _, err := bootstrap.BuildDatabase(ctx, cfg)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	awsConfig, err := mainconfig.LoadAWSConfig(ctx, cfg)
	if err != nil {
		logger.Error("failed to load AWS config", "error", err)
		os.Exit(1)
	}

	queue := reminders.NewSQSQueue(sqs.NewFromConfig(awsConfig), cfg.ReminderQueueURL)
	appointmentsRepo := appointments.NewRepository(pool)
	patientsRepo := patients.NewPostgresRepository(pool)

	sender, provider, reason := bootstrap.BuildEmailSender(cfg, awsConfig, logger)
	if reason != "" {
		logger.Warn("email provider fallback", "provider", provider, "reason", reason)
	}
	reminderSvc := notify.NewService(sender, cfg.ClinicName, logger)

	scheduler := reminders.NewScheduler(appointmentsRepo, queue, cfg.ReminderLeadTime, cfg.ReminderScanInterval, logger)
	worker := reminders.NewWorker(
		queue,
		appointmentsRepo,
		patientsRepo,
		reminderSvc,
		logger,
		reminders.WithWorkerCount(cfg.WorkerCount),
	)

	go scheduler.Run(ctx)
	worker.Start(ctx)
	logger.Info("reminder worker running", "email_provider", provider, "queue", cfg.ReminderQueueURL)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down reminder worker...")
	cancel()

	doneCtx, doneCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer doneCancel()

	waitCh := make(chan struct{})
	go func() {
		worker.Wait()
		close(waitCh)
	}()

	select {
	case <-waitCh:
		logger.Info("reminder worker stopped")
	case <-doneCtx.Done():
		logger.Error("reminder worker shutdown timed out", "error", doneCtx.Err())
	}
}
