package reminders

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dentalworks/dental-clinic-platform/internal/appointments"
	"github.com/dentalworks/dental-clinic-platform/internal/patients"
	"github.com/dentalworks/dental-clinic-platform/pkg/logging"
)

type fakeAppointments struct {
	mu     sync.Mutex
	byID   map[string]*appointments.Appointment
	due    []*appointments.Appointment
	marked []string
}

func (f *fakeAppointments) DueForReminder(_ context.Context, _ time.Time, _ time.Duration) ([]*appointments.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.due, nil
}

func (f *fakeAppointments) GetByID(_ context.Context, id string) (*appointments.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.byID[id]
	if !ok {
		return nil, appointments.ErrAppointmentNotFound
	}
	cp := *a
	return &cp, nil
}

func (f *fakeAppointments) MarkReminderSent(_ context.Context, id string, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.marked = append(f.marked, id)
	if a, ok := f.byID[id]; ok {
		a.ReminderSentAt = &at
	}
	return nil
}

type fakePatients struct {
	byID map[string]*patients.Patient
}

func (f *fakePatients) GetByID(_ context.Context, id string) (*patients.Patient, error) {
	p, ok := f.byID[id]
	if !ok {
		return nil, patients.ErrPatientNotFound
	}
	return p, nil
}

type fakeSender struct {
	mu   sync.Mutex
	sent []string
}

func (f *fakeSender) SendAppointmentReminder(_ context.Context, _ *patients.Patient, appt *appointments.Appointment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, appt.ID)
	return nil
}

func (f *fakeSender) sentIDs() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string{}, f.sent...)
}

func dueAppointment(id string) *appointments.Appointment {
	return &appointments.Appointment{
		ID:          id,
		PatientID:   "patient-1",
		StartsAt:    time.Now().UTC().Add(20 * time.Hour),
		DurationMin: 30,
		Status:      appointments.StatusScheduled,
	}
}

func TestSchedulerEnqueuesDue(t *testing.T) {
	appt := dueAppointment("appt-1")
	appts := &fakeAppointments{
		byID: map[string]*appointments.Appointment{"appt-1": appt},
		due:  []*appointments.Appointment{appt},
	}
	queue := NewMemoryQueue(8)
	sched := NewScheduler(appts, queue, 24*time.Hour, time.Minute, logging.Default())

	require.NoError(t, sched.ScanOnce(context.Background()))

	msgs, err := queue.Receive(context.Background(), 5, 0)
	require.NoError(t, err)
	require.Len(t, msgs, 1)

	var payload queuePayload
	require.NoError(t, json.Unmarshal([]byte(msgs[0].Body), &payload))
	assert.Equal(t, jobTypeReminder, payload.Kind)
	assert.Equal(t, "appt-1", payload.AppointmentID)
	assert.Equal(t, "patient-1", payload.PatientID)
}

func TestWorkerSendsAndStamps(t *testing.T) {
	appt := dueAppointment("appt-1")
	appts := &fakeAppointments{byID: map[string]*appointments.Appointment{"appt-1": appt}}
	pats := &fakePatients{byID: map[string]*patients.Patient{
		"patient-1": {ID: "patient-1", FirstName: "Maya", LastName: "Okafor", Email: "maya@example.com"},
	}}
	sender := &fakeSender{}
	queue := NewMemoryQueue(8)

	_, body, err := encodePayload(queuePayload{AppointmentID: "appt-1", PatientID: "patient-1"})
	require.NoError(t, err)
	require.NoError(t, queue.Send(context.Background(), body))

	worker := NewWorker(queue, appts, pats, sender, logging.Default(), WithWorkerCount(1))

	ctx, cancel := context.WithCancel(context.Background())
	worker.Start(ctx)

	require.Eventually(t, func() bool {
		return len(sender.sentIDs()) == 1
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	worker.Wait()

	assert.Equal(t, []string{"appt-1"}, sender.sentIDs())
	appts.mu.Lock()
	defer appts.mu.Unlock()
	assert.Equal(t, []string{"appt-1"}, appts.marked)
}

func TestWorkerSkipsCancelledAndReminded(t *testing.T) {
	cancelled := dueAppointment("appt-cancelled")
	cancelled.Status = appointments.StatusCancelled
	sent := dueAppointment("appt-sent")
	now := time.Now().UTC()
	sent.ReminderSentAt = &now

	appts := &fakeAppointments{byID: map[string]*appointments.Appointment{
		"appt-cancelled": cancelled,
		"appt-sent":      sent,
	}}
	pats := &fakePatients{byID: map[string]*patients.Patient{
		"patient-1": {ID: "patient-1", Email: "maya@example.com"},
	}}
	sender := &fakeSender{}
	queue := NewMemoryQueue(8)
	worker := NewWorker(queue, appts, pats, sender, logging.Default(), WithWorkerCount(1))

	for _, id := range []string{"appt-cancelled", "appt-sent", "appt-missing"} {
		_, body, err := encodePayload(queuePayload{AppointmentID: id, PatientID: "patient-1"})
		require.NoError(t, err)
		require.NoError(t, queue.Send(context.Background(), body))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	worker.Start(ctx)
	<-ctx.Done()
	worker.Wait()

	assert.Empty(t, sender.sentIDs(), "stale jobs must not send")
	appts.mu.Lock()
	defer appts.mu.Unlock()
	assert.Empty(t, appts.marked)
}

func TestMemoryQueueRoundTrip(t *testing.T) {
	queue := NewMemoryQueue(2)
	ctx := context.Background()

	require.NoError(t, queue.Send(ctx, "one"))
	require.NoError(t, queue.Send(ctx, "two"))

	msgs, err := queue.Receive(ctx, 5, 0)
	require.NoError(t, err)
	assert.Len(t, msgs, 2)
	assert.Equal(t, "one", msgs[0].Body)

	// Empty queue with a timeout returns no messages rather than blocking.
	msgs, err = queue.Receive(ctx, 1, 1)
	require.NoError(t, err)
	assert.Empty(t, msgs)
}
