package reminder

import (
	"context"
	"log"

	"github.com/google/uuid"

	"logleet-backend/internal/models"
	"logleet-backend/internal/repository"
	"logleet-backend/internal/schedule"
)

// Dispatcher persists scheduled reminders in the reminders table. One
// reminder per record: scheduling again reschedules, Cancel removes it.
// Delivery happens later, when the scheduler finds the reminder due.
type Dispatcher struct {
	reminders *repository.ReminderRepo
}

func NewDispatcher(reminders *repository.ReminderRepo) *Dispatcher {
	return &Dispatcher{reminders: reminders}
}

func (d *Dispatcher) ScheduleAt(ctx context.Context, ownerID, recordID uuid.UUID, on schedule.Date, title, body string) error {
	rem := &models.Reminder{
		UserID:   ownerID,
		RecordID: recordID,
		Title:    title,
		Body:     body,
		RemindOn: on,
	}
	return d.reminders.Upsert(ctx, rem)
}

func (d *Dispatcher) Cancel(ctx context.Context, ownerID, recordID uuid.UUID) error {
	return d.reminders.DeleteByRecord(ctx, ownerID, recordID)
}

// LogDispatcher logs reminder requests instead of persisting them. Used in
// the in-memory storage mode where no reminders table exists.
type LogDispatcher struct{}

func (LogDispatcher) ScheduleAt(ctx context.Context, ownerID, recordID uuid.UUID, on schedule.Date, title, body string) error {
	log.Printf("reminder (dev): record %s for user %s on %s: %s", recordID, ownerID, on, body)
	return nil
}

func (LogDispatcher) Cancel(ctx context.Context, ownerID, recordID uuid.UUID) error {
	log.Printf("reminder (dev): canceled for record %s", recordID)
	return nil
}
