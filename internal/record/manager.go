package record

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"logleet-backend/internal/models"
	"logleet-backend/internal/schedule"
)

// Store is the persistence boundary for practice records. Adapters are
// swappable (postgres, in-memory); which one backs the manager is chosen at
// startup. A Create/Update/Delete that returns nil must be visible to the
// next List. Absent ids surface as ErrNotFound.
type Store interface {
	List(ctx context.Context, ownerID uuid.UUID) ([]*models.PracticeRecord, error)
	Get(ctx context.Context, ownerID, id uuid.UUID) (*models.PracticeRecord, error)
	Create(ctx context.Context, rec *models.PracticeRecord) error
	Update(ctx context.Context, rec *models.PracticeRecord) error
	Delete(ctx context.Context, ownerID, id uuid.UUID) error
}

// Dispatcher schedules the revisit reminder attached to a record. Scheduling
// is strictly downstream of a confirmed write and its failures never roll a
// write back.
type Dispatcher interface {
	ScheduleAt(ctx context.Context, ownerID, recordID uuid.UUID, on schedule.Date, title, body string) error
	Cancel(ctx context.Context, ownerID, recordID uuid.UUID) error
}

// Options tunes manager behavior per deployment.
type Options struct {
	// AllowLastVisitedOverride lets the form supply last_visited_date
	// directly. When false the field is always derived from the first
	// attempt date.
	AllowLastVisitedOverride bool
}

// Manager orchestrates validated create/update/delete of practice records,
// recomputing derived dates on every write and scheduling reminders after
// confirmed writes.
type Manager struct {
	store      Store
	dispatcher Dispatcher
	opts       Options
}

func NewManager(store Store, dispatcher Dispatcher, opts Options) *Manager {
	return &Manager{store: store, dispatcher: dispatcher, opts: opts}
}

// Submit validates raw form fields, derives the record's dates and writes it
// through the store. A nil existingID creates a fresh record; otherwise the
// identified record is rewritten in full. On a confirmed write the revisit
// reminder is scheduled (rescheduled on update) for the recomputed next-visit
// date.
func (m *Manager) Submit(ctx context.Context, ownerID uuid.UUID, form models.RecordForm, existingID *uuid.UUID) (*models.PracticeRecord, error) {
	rec, err := m.buildRecord(ownerID, form)
	if err != nil {
		return nil, err
	}

	if existingID == nil {
		if err := m.store.Create(ctx, rec); err != nil {
			return nil, &PersistenceError{Op: "create", Err: err}
		}
	} else {
		rec.ID = *existingID
		if err := m.store.Update(ctx, rec); err != nil {
			if errors.Is(err, ErrNotFound) {
				return nil, &NotFoundError{Message: fmt.Sprintf("record %s not found", existingID)}
			}
			return nil, &PersistenceError{Op: "update", Err: err}
		}
	}

	// The write is authoritative; a reminder failure is reported but never
	// undoes it.
	title := "Time to revisit a problem!"
	body := fmt.Sprintf("It's time to revisit the problem: %s", rec.ProblemName)
	if err := m.dispatcher.ScheduleAt(ctx, rec.UserID, rec.ID, rec.NextVisitDate, title, body); err != nil {
		log.Printf("record %s: failed to schedule reminder for %s: %v", rec.ID, rec.NextVisitDate, err)
	}

	return rec, nil
}

// Delete removes a record permanently and cancels its scheduled reminder.
func (m *Manager) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	if err := m.store.Delete(ctx, ownerID, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return &NotFoundError{Message: fmt.Sprintf("record %s not found", id)}
		}
		return &PersistenceError{Op: "delete", Err: err}
	}

	if err := m.dispatcher.Cancel(ctx, ownerID, id); err != nil {
		log.Printf("record %s: failed to cancel reminder: %v", id, err)
	}

	return nil
}

// Edit fetches the current record for population into the edit form.
func (m *Manager) Edit(ctx context.Context, ownerID, id uuid.UUID) (*models.PracticeRecord, error) {
	rec, err := m.store.Get(ctx, ownerID, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, &NotFoundError{Message: fmt.Sprintf("record %s not found", id)}
		}
		return nil, &PersistenceError{Op: "get", Err: err}
	}
	return rec, nil
}

// List returns the owner's current records as a one-shot snapshot.
func (m *Manager) List(ctx context.Context, ownerID uuid.UUID) ([]*models.PracticeRecord, error) {
	recs, err := m.store.List(ctx, ownerID)
	if err != nil {
		return nil, &PersistenceError{Op: "list", Err: err}
	}
	return recs, nil
}

func (m *Manager) buildRecord(ownerID uuid.UUID, form models.RecordForm) (*models.PracticeRecord, error) {
	fieldErrors := make(map[string]string)

	name := strings.TrimSpace(form.ProblemName)
	if name == "" {
		fieldErrors["problem_name"] = "Problem name is required"
	}

	frequency := schedule.DefaultRevisitFrequencyDays
	if raw := strings.TrimSpace(form.RevisitFrequencyDays); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			fieldErrors["revisit_frequency_days"] = "Revisit frequency must be a non-negative number of days"
		} else {
			frequency = n
		}
	}

	firstAttempt := schedule.Today()
	if raw := strings.TrimSpace(form.FirstAttemptDate); raw != "" {
		d, err := schedule.ParseDate(raw)
		if err != nil {
			fieldErrors["first_attempt_date"] = "Invalid first attempt date"
		} else {
			firstAttempt = d
		}
	}

	timeTaken := 0
	switch raw := strings.TrimSpace(form.TimeTaken); {
	case raw == "":
	case raw == ">120":
		timeTaken = models.TimeTakenOver120
	default:
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			fieldErrors["time_taken"] = "Time taken must be a non-negative number of minutes"
		} else {
			timeTaken = n
		}
	}

	difficulty := strings.ToLower(strings.TrimSpace(form.DifficultyLevel))
	switch difficulty {
	case "", models.DifficultyEasy, models.DifficultyMedium, models.DifficultyHard:
	default:
		fieldErrors["difficulty_level"] = "Difficulty must be easy, medium, or hard"
	}

	lastVisited := firstAttempt
	if m.opts.AllowLastVisitedOverride && strings.TrimSpace(form.LastVisitedDate) != "" {
		d, err := schedule.ParseDate(form.LastVisitedDate)
		if err != nil {
			fieldErrors["last_visited_date"] = "Invalid last visited date"
		} else {
			lastVisited = d
		}
	}

	if len(fieldErrors) > 0 {
		return nil, &ValidationError{Fields: fieldErrors}
	}

	return &models.PracticeRecord{
		UserID:               ownerID,
		ProblemName:          name,
		ProblemLink:          strings.TrimSpace(form.ProblemLink),
		DifficultyLevel:      difficulty,
		TimeTakenMinutes:     timeTaken,
		FirstAttemptDate:     firstAttempt,
		LastVisitedDate:      lastVisited,
		RevisitFrequencyDays: frequency,
		NextVisitDate:        schedule.NextVisit(firstAttempt, frequency),
		Notes:                strings.TrimSpace(form.Notes),
		TimeComplexity:       strings.TrimSpace(form.TimeComplexity),
		SpaceComplexity:      strings.TrimSpace(form.SpaceComplexity),
		CompanyTags:          strings.TrimSpace(form.CompanyTags),
	}, nil
}
