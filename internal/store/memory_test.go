package store

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"logleet-backend/internal/models"
	"logleet-backend/internal/record"
	"logleet-backend/internal/schedule"
)

func sampleRecord(owner uuid.UUID, name string) *models.PracticeRecord {
	first := schedule.NewDate(2024, 1, 1)
	return &models.PracticeRecord{
		UserID:               owner,
		ProblemName:          name,
		DifficultyLevel:      models.DifficultyMedium,
		FirstAttemptDate:     first,
		LastVisitedDate:      first,
		RevisitFrequencyDays: 14,
		NextVisitDate:        schedule.NextVisit(first, 14),
	}
}

func TestMemory_WriteIsVisibleToNextList(t *testing.T) {
	m := NewMemory()
	owner := uuid.New()

	rec := sampleRecord(owner, "Two Sum")
	if err := m.Create(context.Background(), rec); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if rec.ID == uuid.Nil {
		t.Fatalf("expected assigned id")
	}

	recs, err := m.List(context.Background(), owner)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(recs) != 1 || recs[0].ID != rec.ID {
		t.Fatalf("created record not visible in list: %+v", recs)
	}
}

func TestMemory_OwnerIsolation(t *testing.T) {
	m := NewMemory()
	alice := uuid.New()
	bob := uuid.New()

	rec := sampleRecord(alice, "Two Sum")
	if err := m.Create(context.Background(), rec); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	recs, err := m.List(context.Background(), bob)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(recs) != 0 {
		t.Fatalf("records leaked across owner scopes: %+v", recs)
	}

	if _, err := m.Get(context.Background(), bob, rec.ID); !errors.Is(err, record.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for foreign owner, got %v", err)
	}
	if err := m.Delete(context.Background(), bob, rec.ID); !errors.Is(err, record.ErrNotFound) {
		t.Fatalf("expected ErrNotFound deleting as foreign owner, got %v", err)
	}
}

func TestMemory_UpdatePreservesCreatedAt(t *testing.T) {
	m := NewMemory()
	owner := uuid.New()

	rec := sampleRecord(owner, "Two Sum")
	if err := m.Create(context.Background(), rec); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	createdAt := rec.CreatedAt

	rec.ProblemName = "Three Sum"
	if err := m.Update(context.Background(), rec); err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if !rec.CreatedAt.Equal(createdAt) {
		t.Errorf("update must preserve created_at")
	}

	got, err := m.Get(context.Background(), owner, rec.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got.ProblemName != "Three Sum" {
		t.Errorf("update not visible: %+v", got)
	}
}

func TestMemory_UpdateMissing(t *testing.T) {
	m := NewMemory()

	rec := sampleRecord(uuid.New(), "Ghost")
	rec.ID = uuid.New()

	if err := m.Update(context.Background(), rec); !errors.Is(err, record.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMemory_DeleteRemoves(t *testing.T) {
	m := NewMemory()
	owner := uuid.New()

	rec := sampleRecord(owner, "Two Sum")
	if err := m.Create(context.Background(), rec); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if err := m.Delete(context.Background(), owner, rec.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := m.Get(context.Background(), owner, rec.ID); !errors.Is(err, record.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if err := m.Delete(context.Background(), owner, rec.ID); !errors.Is(err, record.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestMemory_ListReturnsCopies(t *testing.T) {
	m := NewMemory()
	owner := uuid.New()

	rec := sampleRecord(owner, "Two Sum")
	if err := m.Create(context.Background(), rec); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	recs, _ := m.List(context.Background(), owner)
	recs[0].ProblemName = "mutated"

	got, _ := m.Get(context.Background(), owner, rec.ID)
	if got.ProblemName != "Two Sum" {
		t.Errorf("list must return copies, store was mutated: %q", got.ProblemName)
	}
}
