package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"logleet-backend/internal/models"
	"logleet-backend/internal/record"
)

// Memory is the in-memory record store. It backs tests and the
// STORAGE_BACKEND=memory mode; writes are immediately visible to the next
// List.
type Memory struct {
	mu      sync.RWMutex
	records map[uuid.UUID]models.PracticeRecord
}

func NewMemory() *Memory {
	return &Memory{records: make(map[uuid.UUID]models.PracticeRecord)}
}

func (m *Memory) List(ctx context.Context, ownerID uuid.UUID) ([]*models.PracticeRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	recs := make([]*models.PracticeRecord, 0)
	for _, r := range m.records {
		if r.UserID == ownerID {
			copied := r
			recs = append(recs, &copied)
		}
	}

	sort.Slice(recs, func(i, j int) bool {
		return recs[i].CreatedAt.After(recs[j].CreatedAt)
	})
	return recs, nil
}

func (m *Memory) Get(ctx context.Context, ownerID, id uuid.UUID) (*models.PracticeRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	r, ok := m.records[id]
	if !ok || r.UserID != ownerID {
		return nil, record.ErrNotFound
	}
	copied := r
	return &copied, nil
}

func (m *Memory) Create(ctx context.Context, rec *models.PracticeRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec.ID = uuid.New()
	rec.CreatedAt = time.Now().UTC()
	rec.UpdatedAt = rec.CreatedAt
	m.records[rec.ID] = *rec
	return nil
}

func (m *Memory) Update(ctx context.Context, rec *models.PracticeRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.records[rec.ID]
	if !ok || existing.UserID != rec.UserID {
		return record.ErrNotFound
	}
	rec.CreatedAt = existing.CreatedAt
	rec.UpdatedAt = time.Now().UTC()
	m.records[rec.ID] = *rec
	return nil
}

func (m *Memory) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, ok := m.records[id]
	if !ok || r.UserID != ownerID {
		return record.ErrNotFound
	}
	delete(m.records, id)
	return nil
}
