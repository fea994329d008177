package models

import (
	"time"

	"github.com/google/uuid"

	"logleet-backend/internal/schedule"
)

// Reminder is a scheduled revisit notification. At most one reminder exists
// per record; editing a record reschedules it, deleting the record cancels it.
type Reminder struct {
	ID        uuid.UUID     `json:"id"`
	UserID    uuid.UUID     `json:"user_id"`
	RecordID  uuid.UUID     `json:"record_id"`
	Title     string        `json:"title"`
	Body      string        `json:"body"`
	RemindOn  schedule.Date `json:"remind_on"`
	SentAt    *time.Time    `json:"sent_at,omitempty"`
	CreatedAt time.Time     `json:"created_at"`
}

// Device is a registered Expo push target for a user.
type Device struct {
	ID            uuid.UUID `json:"id"`
	UserID        uuid.UUID `json:"user_id"`
	ExpoPushToken string    `json:"expo_push_token"`
	Platform      string    `json:"platform"` // "ios" | "android"
	CreatedAt     time.Time `json:"created_at"`
}

// RegisterDeviceRequest is the payload from the mobile client after it
// obtains an Expo push token.
type RegisterDeviceRequest struct {
	ExpoPushToken string `json:"expo_push_token"`
	Platform      string `json:"platform"`
}
