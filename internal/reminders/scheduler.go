package reminders

import (
	"context"
	"fmt"
	"time"

	"github.com/dentalworks/dental-clinic-platform/internal/appointments"
	"github.com/dentalworks/dental-clinic-platform/pkg/logging"
)

// AppointmentSource is the slice of the appointments repository the
// scheduler and worker need.
type AppointmentSource interface {
	DueForReminder(ctx context.Context, now time.Time, leadTime time.Duration) ([]*appointments.Appointment, error)
	MarkReminderSent(ctx context.Context, id string, at time.Time) error
}

// Scheduler periodically scans the book and enqueues reminder jobs for
// appointments entering the lead-time window.
type Scheduler struct {
	appts    AppointmentSource
	queue    queueClient
	leadTime time.Duration
	interval time.Duration
	logger   *logging.Logger
	now      func() time.Time
}

func NewScheduler(appts AppointmentSource, queue queueClient, leadTime, interval time.Duration, logger *logging.Logger) *Scheduler {
	if queue == nil {
		panic("reminders: queue cannot be nil")
	}
	if leadTime <= 0 {
		leadTime = 24 * time.Hour
	}
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Scheduler{
		appts:    appts,
		queue:    queue,
		leadTime: leadTime,
		interval: interval,
		logger:   logger,
		now:      time.Now,
	}
}

// Run blocks, scanning on every tick until ctx is canceled.
func (s *Scheduler) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.Info("reminder scheduler started",
		"lead_time", s.leadTime.String(),
		"interval", s.interval.String(),
	)

	for {
		if err := s.ScanOnce(ctx); err != nil && ctx.Err() == nil {
			s.logger.Error("reminder scan failed", "error", err)
		}

		select {
		case <-ctx.Done():
			s.logger.Info("reminder scheduler stopped")
			return
		case <-ticker.C:
		}
	}
}

// ScanOnce enqueues one job per due appointment. Enqueue failures are
// logged and skipped; the appointment stays due for the next scan.
func (s *Scheduler) ScanOnce(ctx context.Context) error {
	due, err := s.appts.DueForReminder(ctx, s.now().UTC(), s.leadTime)
	if err != nil {
		return fmt.Errorf("reminders: scan due appointments: %w", err)
	}

	for _, appt := range due {
		payload, body, err := encodePayload(queuePayload{
			AppointmentID: appt.ID,
			PatientID:     appt.PatientID,
			StartsAt:      appt.StartsAt,
		})
		if err != nil {
			return err
		}
		if err := s.queue.Send(ctx, body); err != nil {
			s.logger.Error("failed to enqueue reminder", "error", err, "appointment_id", appt.ID)
			continue
		}
		s.logger.Debug("reminder enqueued", "job_id", payload.ID, "appointment_id", appt.ID)
	}
	return nil
}
