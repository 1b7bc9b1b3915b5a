// Package reminders runs the appointment reminder pipeline: a scheduler
// scans the book for visits entering the reminder window and enqueues jobs,
// and a worker drains the queue and sends the emails.
package reminders

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type queueClient interface {
	Send(ctx context.Context, body string) error
	Receive(ctx context.Context, maxMessages int, waitSeconds int) ([]queueMessage, error)
	Delete(ctx context.Context, receiptHandle string) error
}

type queueMessage struct {
	ID            string
	Body          string
	ReceiptHandle string
}

const jobTypeReminder = "appointment.reminder.v1"

type queuePayload struct {
	ID            string    `json:"id"`
	Kind          string    `json:"kind"`
	AppointmentID string    `json:"appointment_id"`
	PatientID     string    `json:"patient_id"`
	StartsAt      time.Time `json:"starts_at"`
}

func encodePayload(payload queuePayload) (queuePayload, string, error) {
	if payload.ID == "" {
		payload.ID = uuid.NewString()
	}
	if payload.Kind == "" {
		payload.Kind = jobTypeReminder
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return queuePayload{}, "", fmt.Errorf("reminders: failed to encode payload: %w", err)
	}
	return payload, string(body), nil
}
