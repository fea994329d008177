package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"logleet-backend/internal/models"
	"logleet-backend/internal/schedule"
)

type ReminderRepo struct {
	pool *pgxpool.Pool
}

func NewReminderRepo(pool *pgxpool.Pool) *ReminderRepo {
	return &ReminderRepo{pool: pool}
}

// Upsert schedules or reschedules the one reminder a record can carry.
// Rescheduling clears sent_at so a moved revisit date fires again.
func (r *ReminderRepo) Upsert(ctx context.Context, rem *models.Reminder) error {
	rem.ID = uuid.New()

	query := `
		INSERT INTO reminders (id, user_id, record_id, title, body, remind_on)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (record_id) DO UPDATE
		SET title = EXCLUDED.title, body = EXCLUDED.body,
			remind_on = EXCLUDED.remind_on, sent_at = NULL
		RETURNING id, created_at`

	return r.pool.QueryRow(ctx, query,
		rem.ID, rem.UserID, rem.RecordID, rem.Title, rem.Body, rem.RemindOn,
	).Scan(&rem.ID, &rem.CreatedAt)
}

func (r *ReminderRepo) DeleteByRecord(ctx context.Context, userID, recordID uuid.UUID) error {
	_, err := r.pool.Exec(ctx,
		"DELETE FROM reminders WHERE record_id = $1 AND user_id = $2", recordID, userID)
	return err
}

// ListDue returns unsent reminders whose remind-on date has arrived.
func (r *ReminderRepo) ListDue(ctx context.Context, today schedule.Date, limit int) ([]models.Reminder, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, user_id, record_id, title, body, remind_on, sent_at, created_at
		FROM reminders
		WHERE remind_on <= $1 AND sent_at IS NULL
		ORDER BY remind_on ASC
		LIMIT $2
	`, today, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var due []models.Reminder
	for rows.Next() {
		var rem models.Reminder
		if err := rows.Scan(
			&rem.ID, &rem.UserID, &rem.RecordID, &rem.Title, &rem.Body,
			&rem.RemindOn, &rem.SentAt, &rem.CreatedAt,
		); err != nil {
			return nil, err
		}
		due = append(due, rem)
	}
	return due, rows.Err()
}

func (r *ReminderRepo) MarkSent(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx,
		"UPDATE reminders SET sent_at = NOW() WHERE id = $1 AND sent_at IS NULL", id)
	return err
}
