package models

import (
	"time"

	"github.com/google/uuid"

	"logleet-backend/internal/schedule"
)

// Difficulty levels accepted by the record form.
const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

// TimeTakenOver120 encodes the form's "Greater than 120" picker option.
const TimeTakenOver120 = 121

// PracticeRecord is one logged coding problem and its revisit schedule.
// NextVisitDate is derived, never authoritative on its own: it is recomputed
// from FirstAttemptDate and RevisitFrequencyDays on every write.
type PracticeRecord struct {
	ID                   uuid.UUID     `json:"id"`
	UserID               uuid.UUID     `json:"user_id"`
	ProblemName          string        `json:"problem_name"`
	ProblemLink          string        `json:"problem_link"`
	DifficultyLevel      string        `json:"difficulty_level"` // "" | "easy" | "medium" | "hard"
	TimeTakenMinutes     int           `json:"time_taken_minutes"`
	FirstAttemptDate     schedule.Date `json:"first_attempt_date"`
	LastVisitedDate      schedule.Date `json:"last_visited_date"`
	RevisitFrequencyDays int           `json:"revisit_frequency_days"`
	NextVisitDate        schedule.Date `json:"next_visit_date"`
	Notes                string        `json:"notes"`
	TimeComplexity       string        `json:"time_complexity"`
	SpaceComplexity      string        `json:"space_complexity"`
	CompanyTags          string        `json:"company_tags"`
	CreatedAt            time.Time     `json:"created_at"`
	UpdatedAt            time.Time     `json:"updated_at"`
}

// RecordForm carries the raw field values exactly as collected by the mobile
// form. Parsing and validation happen in the record manager, not here, so UI
// state and domain state cannot drift apart.
type RecordForm struct {
	ProblemName          string `json:"problem_name"`
	ProblemLink          string `json:"problem_link"`
	DifficultyLevel      string `json:"difficulty_level"`
	TimeTaken            string `json:"time_taken"` // minutes, or ">120"
	FirstAttemptDate     string `json:"first_attempt_date"`
	LastVisitedDate      string `json:"last_visited_date"` // honored only when manual override is enabled
	RevisitFrequencyDays string `json:"revisit_frequency_days"`
	Notes                string `json:"notes"`
	TimeComplexity       string `json:"time_complexity"`
	SpaceComplexity      string `json:"space_complexity"`
	CompanyTags          string `json:"company_tags"`
}

// RecordStats summarizes a user's practice log for the dashboard card.
type RecordStats struct {
	Total    int `json:"total"`
	DueToday int `json:"due_today"`
	Easy     int `json:"easy"`
	Medium   int `json:"medium"`
	Hard     int `json:"hard"`
}
