package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"logleet-backend/internal/models"
	"logleet-backend/internal/record"
)

// Postgres persists practice records in the practice_records table. Every
// call is bounded by a per-operation timeout so a hung connection fails the
// one logical operation instead of blocking its caller indefinitely.
type Postgres struct {
	pool    *pgxpool.Pool
	timeout time.Duration
}

func NewPostgres(pool *pgxpool.Pool, timeout time.Duration) *Postgres {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Postgres{pool: pool, timeout: timeout}
}

const recordColumns = `id, user_id, problem_name, problem_link, difficulty_level, time_taken_minutes,
	first_attempt_date, last_visited_date, revisit_frequency_days, next_visit_date,
	notes, time_complexity, space_complexity, company_tags, created_at, updated_at`

func (s *Postgres) List(ctx context.Context, ownerID uuid.UUID) ([]*models.PracticeRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	rows, err := s.pool.Query(ctx, `
		SELECT `+recordColumns+`
		FROM practice_records
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	recs := make([]*models.PracticeRecord, 0)
	for rows.Next() {
		rec := &models.PracticeRecord{}
		if err := scanRecord(rows, rec); err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

func (s *Postgres) Get(ctx context.Context, ownerID, id uuid.UUID) (*models.PracticeRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	rec := &models.PracticeRecord{}
	row := s.pool.QueryRow(ctx, `
		SELECT `+recordColumns+`
		FROM practice_records
		WHERE id = $1 AND user_id = $2
	`, id, ownerID)

	if err := scanRecord(row, rec); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, record.ErrNotFound
		}
		return nil, err
	}
	return rec, nil
}

func (s *Postgres) Create(ctx context.Context, rec *models.PracticeRecord) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	rec.ID = uuid.New()
	return s.pool.QueryRow(ctx, `
		INSERT INTO practice_records (id, user_id, problem_name, problem_link, difficulty_level,
			time_taken_minutes, first_attempt_date, last_visited_date, revisit_frequency_days,
			next_visit_date, notes, time_complexity, space_complexity, company_tags)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING created_at, updated_at
	`,
		rec.ID, rec.UserID, rec.ProblemName, rec.ProblemLink, rec.DifficultyLevel,
		rec.TimeTakenMinutes, rec.FirstAttemptDate, rec.LastVisitedDate, rec.RevisitFrequencyDays,
		rec.NextVisitDate, rec.Notes, rec.TimeComplexity, rec.SpaceComplexity, rec.CompanyTags,
	).Scan(&rec.CreatedAt, &rec.UpdatedAt)
}

// Update rewrites the whole record; partial patches are not supported.
func (s *Postgres) Update(ctx context.Context, rec *models.PracticeRecord) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	err := s.pool.QueryRow(ctx, `
		UPDATE practice_records
		SET problem_name = $1, problem_link = $2, difficulty_level = $3, time_taken_minutes = $4,
			first_attempt_date = $5, last_visited_date = $6, revisit_frequency_days = $7,
			next_visit_date = $8, notes = $9, time_complexity = $10, space_complexity = $11,
			company_tags = $12, updated_at = NOW()
		WHERE id = $13 AND user_id = $14
		RETURNING created_at, updated_at
	`,
		rec.ProblemName, rec.ProblemLink, rec.DifficultyLevel, rec.TimeTakenMinutes,
		rec.FirstAttemptDate, rec.LastVisitedDate, rec.RevisitFrequencyDays,
		rec.NextVisitDate, rec.Notes, rec.TimeComplexity, rec.SpaceComplexity,
		rec.CompanyTags, rec.ID, rec.UserID,
	).Scan(&rec.CreatedAt, &rec.UpdatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return record.ErrNotFound
	}
	return err
}

func (s *Postgres) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	tag, err := s.pool.Exec(ctx,
		"DELETE FROM practice_records WHERE id = $1 AND user_id = $2", id, ownerID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return record.ErrNotFound
	}
	return nil
}

// Stats aggregates the owner's log for the dashboard card.
func (s *Postgres) Stats(ctx context.Context, ownerID uuid.UUID) (*models.RecordStats, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	stats := &models.RecordStats{}
	err := s.pool.QueryRow(ctx, `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE next_visit_date <= CURRENT_DATE),
			COUNT(*) FILTER (WHERE difficulty_level = 'easy'),
			COUNT(*) FILTER (WHERE difficulty_level = 'medium'),
			COUNT(*) FILTER (WHERE difficulty_level = 'hard')
		FROM practice_records
		WHERE user_id = $1
	`, ownerID).Scan(&stats.Total, &stats.DueToday, &stats.Easy, &stats.Medium, &stats.Hard)
	if err != nil {
		return nil, err
	}
	return stats, nil
}

func scanRecord(row pgx.Row, rec *models.PracticeRecord) error {
	return row.Scan(
		&rec.ID, &rec.UserID, &rec.ProblemName, &rec.ProblemLink, &rec.DifficultyLevel,
		&rec.TimeTakenMinutes, &rec.FirstAttemptDate, &rec.LastVisitedDate,
		&rec.RevisitFrequencyDays, &rec.NextVisitDate, &rec.Notes, &rec.TimeComplexity,
		&rec.SpaceComplexity, &rec.CompanyTags, &rec.CreatedAt, &rec.UpdatedAt,
	)
}
