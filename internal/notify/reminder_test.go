package notify

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dentalworks/dental-clinic-platform/internal/appointments"
	"github.com/dentalworks/dental-clinic-platform/internal/patients"
)

type captureSender struct {
	sent []EmailMessage
	err  error
}

func (c *captureSender) Send(_ context.Context, msg EmailMessage) error {
	if c.err != nil {
		return c.err
	}
	c.sent = append(c.sent, msg)
	return nil
}

func testPatient() *patients.Patient {
	return &patients.Patient{
		ID:        "patient-1",
		FirstName: "Maya",
		LastName:  "Okafor",
		Email:     "maya@example.com",
	}
}

func testAppointment() *appointments.Appointment {
	return &appointments.Appointment{
		ID:          "appt-1",
		PatientID:   "patient-1",
		StartsAt:    time.Date(2026, 9, 3, 9, 30, 0, 0, time.UTC),
		DurationMin: 45,
		Status:      appointments.StatusConfirmed,
		Reason:      "crown prep, tooth 30",
	}
}

func TestSendAppointmentReminder(t *testing.T) {
	sender := &captureSender{}
	svc := NewService(sender, "Lakeview Dental", nil)

	err := svc.SendAppointmentReminder(context.Background(), testPatient(), testAppointment())
	require.NoError(t, err)
	require.Len(t, sender.sent, 1)

	msg := sender.sent[0]
	assert.Equal(t, "maya@example.com", msg.To)
	assert.Equal(t, "Maya Okafor", msg.ToName)
	assert.Contains(t, msg.Subject, "Appointment reminder")
	assert.Contains(t, msg.Body, "Lakeview Dental")
	assert.Contains(t, msg.Body, "crown prep, tooth 30")
	assert.Contains(t, msg.Body, "45 minutes")
}

func TestSendAppointmentReminderNoEmail(t *testing.T) {
	sender := &captureSender{}
	svc := NewService(sender, "", nil)

	p := testPatient()
	p.Email = ""
	err := svc.SendAppointmentReminder(context.Background(), p, testAppointment())
	require.NoError(t, err)
	assert.Empty(t, sender.sent, "patients without email are skipped")
}

func TestSendAppointmentReminderSenderError(t *testing.T) {
	sender := &captureSender{err: errors.New("smtp down")}
	svc := NewService(sender, "", nil)

	err := svc.SendAppointmentReminder(context.Background(), testPatient(), testAppointment())
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "appt-1"))
}

func TestReminderDue(t *testing.T) {
	now := time.Date(2026, 9, 2, 12, 0, 0, 0, time.UTC)
	lead := 24 * time.Hour

	appt := testAppointment() // starts 2026-09-03 09:30
	assert.True(t, ReminderDue(appt, now, lead))

	// Already reminded.
	sent := now.Add(-time.Hour)
	appt.ReminderSentAt = &sent
	assert.False(t, ReminderDue(appt, now, lead))

	// Too far out.
	appt = testAppointment()
	assert.False(t, ReminderDue(appt, now.Add(-3*24*time.Hour), lead))

	// Cancelled visits never remind.
	appt = testAppointment()
	appt.Status = appointments.StatusCancelled
	assert.False(t, ReminderDue(appt, now, lead))

	// Appointments already in the past never remind.
	appt = testAppointment()
	assert.False(t, ReminderDue(appt, appt.StartsAt.Add(time.Minute), lead))
}

func TestStubSenderNeverFails(t *testing.T) {
	stub := NewStubEmailSender(nil)
	err := stub.Send(context.Background(), EmailMessage{To: "x@example.com", Subject: "hello"})
	assert.NoError(t, err)
}
