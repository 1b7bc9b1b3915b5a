package reminders

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/dentalworks/dental-clinic-platform/internal/appointments"
	"github.com/dentalworks/dental-clinic-platform/internal/patients"
	"github.com/dentalworks/dental-clinic-platform/pkg/logging"
)

// AppointmentStore is the repository surface the worker needs.
type AppointmentStore interface {
	GetByID(ctx context.Context, id string) (*appointments.Appointment, error)
	MarkReminderSent(ctx context.Context, id string, at time.Time) error
}

// PatientSource resolves the patient a reminder goes to.
type PatientSource interface {
	GetByID(ctx context.Context, id string) (*patients.Patient, error)
}

// ReminderSender delivers the reminder itself.
type ReminderSender interface {
	SendAppointmentReminder(ctx context.Context, patient *patients.Patient, appt *appointments.Appointment) error
}

// Worker drains the reminder queue and sends emails. Jobs are re-checked
// against the live appointment before sending so stale queue entries for
// cancelled or already-reminded visits are dropped.
type Worker struct {
	queue    queueClient
	appts    AppointmentStore
	patients PatientSource
	sender   ReminderSender
	logger   *logging.Logger
	count    int

	wg sync.WaitGroup
}

// WorkerOption customizes a Worker.
type WorkerOption func(*Worker)

// WithWorkerCount sets the number of concurrent consumers.
func WithWorkerCount(n int) WorkerOption {
	return func(w *Worker) {
		if n > 0 {
			w.count = n
		}
	}
}

func NewWorker(queue queueClient, appts AppointmentStore, patients PatientSource, sender ReminderSender, logger *logging.Logger, opts ...WorkerOption) *Worker {
	if queue == nil {
		panic("reminders: queue cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	w := &Worker{
		queue:    queue,
		appts:    appts,
		patients: patients,
		sender:   sender,
		logger:   logger,
		count:    2,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Start launches the consumer goroutines. It returns immediately; call Wait
// after canceling ctx to drain.
func (w *Worker) Start(ctx context.Context) {
	for i := 0; i < w.count; i++ {
		w.wg.Add(1)
		go func() {
			defer w.wg.Done()
			w.loop(ctx)
		}()
	}
	w.logger.Info("reminder worker started", "consumers", w.count)
}

// Wait blocks until all consumers have exited.
func (w *Worker) Wait() {
	w.wg.Wait()
}

func (w *Worker) loop(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}

		messages, err := w.queue.Receive(ctx, 5, 10)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			w.logger.Error("reminder receive failed", "error", err)
			continue
		}

		for _, msg := range messages {
			if err := w.handle(ctx, msg); err != nil {
				// Leave the message on the queue for redelivery.
				w.logger.Error("reminder job failed", "error", err, "message_id", msg.ID)
				continue
			}
			if err := w.queue.Delete(ctx, msg.ReceiptHandle); err != nil {
				w.logger.Warn("failed to delete reminder message", "error", err, "message_id", msg.ID)
			}
		}
	}
}

func (w *Worker) handle(ctx context.Context, msg queueMessage) error {
	var payload queuePayload
	if err := json.Unmarshal([]byte(msg.Body), &payload); err != nil {
		// Malformed payloads can never succeed; drop them after logging.
		w.logger.Error("dropping malformed reminder payload", "error", err, "message_id", msg.ID)
		return nil
	}

	appt, err := w.appts.GetByID(ctx, payload.AppointmentID)
	if err != nil {
		if err == appointments.ErrAppointmentNotFound {
			w.logger.Warn("reminder for unknown appointment dropped", "appointment_id", payload.AppointmentID)
			return nil
		}
		return fmt.Errorf("reminders: load appointment: %w", err)
	}

	if appt.ReminderSentAt != nil {
		return nil
	}
	if appt.Status != appointments.StatusScheduled && appt.Status != appointments.StatusConfirmed {
		w.logger.Debug("skipping reminder for inactive appointment",
			"appointment_id", appt.ID, "status", string(appt.Status))
		return nil
	}

	patient, err := w.patients.GetByID(ctx, appt.PatientID)
	if err != nil {
		if err == patients.ErrPatientNotFound {
			w.logger.Warn("reminder for unknown patient dropped", "patient_id", appt.PatientID)
			return nil
		}
		return fmt.Errorf("reminders: load patient: %w", err)
	}

	if err := w.sender.SendAppointmentReminder(ctx, patient, appt); err != nil {
		return err
	}

	if err := w.appts.MarkReminderSent(ctx, appt.ID, time.Now().UTC()); err != nil {
		// The email went out; a failed stamp only risks a duplicate later.
		w.logger.Warn("failed to stamp reminder", "error", err, "appointment_id", appt.ID)
	}
	return nil
}
