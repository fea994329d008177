package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"logleet-backend/internal/models"
)

type DeviceRepo struct {
	pool *pgxpool.Pool
}

func NewDeviceRepo(pool *pgxpool.Pool) *DeviceRepo {
	return &DeviceRepo{pool: pool}
}

// Register stores an Expo push token for the user. Re-registering the same
// token (app reinstall, token refresh on another account) moves it to the
// registering user instead of duplicating it.
func (r *DeviceRepo) Register(ctx context.Context, d *models.Device) error {
	d.ID = uuid.New()

	query := `
		INSERT INTO devices (id, user_id, expo_push_token, platform)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (expo_push_token) DO UPDATE
		SET user_id = EXCLUDED.user_id, platform = EXCLUDED.platform
		RETURNING id, created_at`

	return r.pool.QueryRow(ctx, query, d.ID, d.UserID, d.ExpoPushToken, d.Platform).
		Scan(&d.ID, &d.CreatedAt)
}

func (r *DeviceRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Device, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, user_id, expo_push_token, platform, created_at
		FROM devices WHERE user_id = $1 ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var devices []models.Device
	for rows.Next() {
		var d models.Device
		if err := rows.Scan(&d.ID, &d.UserID, &d.ExpoPushToken, &d.Platform, &d.CreatedAt); err != nil {
			return nil, err
		}
		devices = append(devices, d)
	}
	return devices, rows.Err()
}

func (r *DeviceRepo) Delete(ctx context.Context, userID, id uuid.UUID) (bool, error) {
	tag, err := r.pool.Exec(ctx, "DELETE FROM devices WHERE id = $1 AND user_id = $2", id, userID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
