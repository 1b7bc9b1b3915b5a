package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/dentalworks/dental-clinic-platform/internal/appointments"
	"github.com/dentalworks/dental-clinic-platform/internal/patients"
	"github.com/dentalworks/dental-clinic-platform/pkg/logging"
)

// Service sends patient-facing notifications for the clinic.
type Service struct {
	sender     EmailSender
	clinicName string
	logger     *logging.Logger
}

func NewService(sender EmailSender, clinicName string, logger *logging.Logger) *Service {
	if sender == nil {
		sender = NewStubEmailSender(logger)
	}
	if clinicName == "" {
		clinicName = "DentalWorks"
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{sender: sender, clinicName: clinicName, logger: logger}
}

// SendAppointmentReminder emails the patient about an upcoming visit.
// Patients without an email address are skipped, not treated as errors.
func (s *Service) SendAppointmentReminder(ctx context.Context, patient *patients.Patient, appt *appointments.Appointment) error {
	if patient.Email == "" {
		s.logger.Info("skipping reminder, patient has no email",
			"patient_id", patient.ID,
			"appointment_id", appt.ID,
		)
		return nil
	}

	msg := BuildReminderEmail(s.clinicName, patient, appt)
	if err := s.sender.Send(ctx, msg); err != nil {
		return fmt.Errorf("notify: reminder for appointment %s: %w", appt.ID, err)
	}

	s.logger.Info("appointment reminder sent",
		"patient_id", patient.ID,
		"appointment_id", appt.ID,
		"starts_at", appt.StartsAt,
	)
	return nil
}

// BuildReminderEmail renders the reminder message for an appointment.
func BuildReminderEmail(clinicName string, patient *patients.Patient, appt *appointments.Appointment) EmailMessage {
	when := appt.StartsAt.Format("Monday, January 2 at 3:04 PM")

	body := fmt.Sprintf(
		"Hi %s,\n\nThis is a reminder of your upcoming appointment at %s on %s.\n",
		patient.FirstName, clinicName, when)
	if appt.Reason != "" {
		body += fmt.Sprintf("\nReason for visit: %s\n", appt.Reason)
	}
	body += fmt.Sprintf("\nPlanned duration: %d minutes.\n\nIf you need to reschedule, please call the clinic.\n", appt.DurationMin)

	return EmailMessage{
		To:      patient.Email,
		ToName:  patient.FullName(),
		Subject: fmt.Sprintf("Appointment reminder: %s", appt.StartsAt.Format("Jan 2, 3:04 PM")),
		Body:    body,
	}
}

// ReminderDue reports whether an appointment should be reminded now given
// the configured lead time.
func ReminderDue(appt *appointments.Appointment, now time.Time, leadTime time.Duration) bool {
	if appt.ReminderSentAt != nil {
		return false
	}
	if appt.Status != appointments.StatusScheduled && appt.Status != appointments.StatusConfirmed {
		return false
	}
	return appt.StartsAt.After(now) && !appt.StartsAt.After(now.Add(leadTime))
}
