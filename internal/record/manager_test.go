package record

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"logleet-backend/internal/models"
	"logleet-backend/internal/schedule"
)

type stubStore struct {
	records    map[uuid.UUID]*models.PracticeRecord
	createErr  error
	updateErr  error
	deleteErr  error
	createCnt  int
	updateCnt  int
	deleteCnt  int
}

func newStubStore() *stubStore {
	return &stubStore{records: make(map[uuid.UUID]*models.PracticeRecord)}
}

func (s *stubStore) List(ctx context.Context, ownerID uuid.UUID) ([]*models.PracticeRecord, error) {
	var recs []*models.PracticeRecord
	for _, r := range s.records {
		if r.UserID == ownerID {
			recs = append(recs, r)
		}
	}
	return recs, nil
}

func (s *stubStore) Get(ctx context.Context, ownerID, id uuid.UUID) (*models.PracticeRecord, error) {
	r, ok := s.records[id]
	if !ok || r.UserID != ownerID {
		return nil, ErrNotFound
	}
	return r, nil
}

func (s *stubStore) Create(ctx context.Context, rec *models.PracticeRecord) error {
	s.createCnt++
	if s.createErr != nil {
		return s.createErr
	}
	rec.ID = uuid.New()
	rec.CreatedAt = time.Now()
	rec.UpdatedAt = rec.CreatedAt
	s.records[rec.ID] = rec
	return nil
}

func (s *stubStore) Update(ctx context.Context, rec *models.PracticeRecord) error {
	s.updateCnt++
	if s.updateErr != nil {
		return s.updateErr
	}
	existing, ok := s.records[rec.ID]
	if !ok || existing.UserID != rec.UserID {
		return ErrNotFound
	}
	rec.CreatedAt = existing.CreatedAt
	rec.UpdatedAt = time.Now()
	s.records[rec.ID] = rec
	return nil
}

func (s *stubStore) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	s.deleteCnt++
	if s.deleteErr != nil {
		return s.deleteErr
	}
	r, ok := s.records[id]
	if !ok || r.UserID != ownerID {
		return ErrNotFound
	}
	delete(s.records, id)
	return nil
}

type stubDispatcher struct {
	scheduled  int
	canceled   int
	lastOn     schedule.Date
	lastBody   string
	lastRecord uuid.UUID
	err        error
}

func (d *stubDispatcher) ScheduleAt(ctx context.Context, ownerID, recordID uuid.UUID, on schedule.Date, title, body string) error {
	d.scheduled++
	d.lastOn = on
	d.lastBody = body
	d.lastRecord = recordID
	return d.err
}

func (d *stubDispatcher) Cancel(ctx context.Context, ownerID, recordID uuid.UUID) error {
	d.canceled++
	d.lastRecord = recordID
	return d.err
}

func validForm() models.RecordForm {
	return models.RecordForm{
		ProblemName:          "Two Sum",
		ProblemLink:          "https://leetcode.com/problems/two-sum",
		DifficultyLevel:      "easy",
		TimeTaken:            "25",
		FirstAttemptDate:     "2024-01-01",
		RevisitFrequencyDays: "14",
		Notes:                "hash map lookup",
		TimeComplexity:       "O(n)",
		SpaceComplexity:      "O(n)",
		CompanyTags:          "google,amazon",
	}
}

func TestSubmit_CreateDerivesDates(t *testing.T) {
	store := newStubStore()
	dispatcher := &stubDispatcher{}
	m := NewManager(store, dispatcher, Options{})
	owner := uuid.New()

	rec, err := m.Submit(context.Background(), owner, validForm(), nil)
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	if rec.ID == uuid.Nil {
		t.Fatalf("expected assigned id on creation")
	}
	if rec.NextVisitDate.String() != "2024-01-15" {
		t.Errorf("expected next visit 2024-01-15, got %s", rec.NextVisitDate)
	}
	if !rec.LastVisitedDate.Equal(rec.FirstAttemptDate) {
		t.Errorf("expected last visited to equal first attempt, got %s", rec.LastVisitedDate)
	}
	if dispatcher.scheduled != 1 {
		t.Errorf("expected exactly one reminder scheduled, got %d", dispatcher.scheduled)
	}
	if !dispatcher.lastOn.Equal(rec.NextVisitDate) {
		t.Errorf("reminder scheduled for %s, expected %s", dispatcher.lastOn, rec.NextVisitDate)
	}
	if dispatcher.lastBody != "It's time to revisit the problem: Two Sum" {
		t.Errorf("unexpected reminder body: %q", dispatcher.lastBody)
	}
}

func TestSubmit_EmptyProblemName(t *testing.T) {
	store := newStubStore()
	dispatcher := &stubDispatcher{}
	m := NewManager(store, dispatcher, Options{})

	form := validForm()
	form.ProblemName = "   "

	_, err := m.Submit(context.Background(), uuid.New(), form, nil)

	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if _, ok := vErr.Fields["problem_name"]; !ok {
		t.Errorf("expected problem_name field error, got %v", vErr.Fields)
	}
	if store.createCnt != 0 || store.updateCnt != 0 {
		t.Errorf("store must not be touched on validation failure")
	}
	if dispatcher.scheduled != 0 {
		t.Errorf("no reminder may be scheduled on validation failure")
	}
}

func TestSubmit_InvalidFrequencyAndDate(t *testing.T) {
	tests := []struct {
		name  string
		mut   func(*models.RecordForm)
		field string
	}{
		{"negative frequency", func(f *models.RecordForm) { f.RevisitFrequencyDays = "-3" }, "revisit_frequency_days"},
		{"non-numeric frequency", func(f *models.RecordForm) { f.RevisitFrequencyDays = "soon" }, "revisit_frequency_days"},
		{"garbage date", func(f *models.RecordForm) { f.FirstAttemptDate = "01/15/2024" }, "first_attempt_date"},
		{"unknown difficulty", func(f *models.RecordForm) { f.DifficultyLevel = "impossible" }, "difficulty_level"},
		{"negative time taken", func(f *models.RecordForm) { f.TimeTaken = "-5" }, "time_taken"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			m := NewManager(newStubStore(), &stubDispatcher{}, Options{})
			form := validForm()
			tc.mut(&form)

			_, err := m.Submit(context.Background(), uuid.New(), form, nil)

			var vErr *ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if _, ok := vErr.Fields[tc.field]; !ok {
				t.Errorf("expected %s field error, got %v", tc.field, vErr.Fields)
			}
		})
	}
}

func TestSubmit_ZeroFrequency(t *testing.T) {
	m := NewManager(newStubStore(), &stubDispatcher{}, Options{})

	form := validForm()
	form.RevisitFrequencyDays = "0"

	rec, err := m.Submit(context.Background(), uuid.New(), form, nil)
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if !rec.NextVisitDate.Equal(rec.FirstAttemptDate) {
		t.Errorf("zero frequency must yield next visit == first attempt, got %s", rec.NextVisitDate)
	}
}

func TestSubmit_DefaultsApplied(t *testing.T) {
	m := NewManager(newStubStore(), &stubDispatcher{}, Options{})

	form := models.RecordForm{ProblemName: "Valid Parentheses"}

	rec, err := m.Submit(context.Background(), uuid.New(), form, nil)
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if rec.RevisitFrequencyDays != 14 {
		t.Errorf("expected default frequency 14, got %d", rec.RevisitFrequencyDays)
	}
	if !rec.FirstAttemptDate.Equal(schedule.Today()) {
		t.Errorf("expected first attempt to default to today, got %s", rec.FirstAttemptDate)
	}
	if rec.TimeTakenMinutes != 0 {
		t.Errorf("expected time taken default 0, got %d", rec.TimeTakenMinutes)
	}
	if !rec.NextVisitDate.Equal(schedule.Today().AddDays(14)) {
		t.Errorf("unexpected next visit date %s", rec.NextVisitDate)
	}
}

func TestSubmit_TimeTakenSentinel(t *testing.T) {
	m := NewManager(newStubStore(), &stubDispatcher{}, Options{})

	form := validForm()
	form.TimeTaken = ">120"

	rec, err := m.Submit(context.Background(), uuid.New(), form, nil)
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if rec.TimeTakenMinutes != models.TimeTakenOver120 {
		t.Errorf("expected sentinel %d, got %d", models.TimeTakenOver120, rec.TimeTakenMinutes)
	}
}

func TestSubmit_EditRecomputesNextVisit(t *testing.T) {
	store := newStubStore()
	dispatcher := &stubDispatcher{}
	m := NewManager(store, dispatcher, Options{})
	owner := uuid.New()

	created, err := m.Submit(context.Background(), owner, validForm(), nil)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if created.NextVisitDate.String() != "2024-01-15" {
		t.Fatalf("unexpected initial next visit %s", created.NextVisitDate)
	}

	form := validForm()
	form.RevisitFrequencyDays = "30"

	updated, err := m.Submit(context.Background(), owner, form, &created.ID)
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}

	if updated.ID != created.ID {
		t.Errorf("edit must preserve the record id")
	}
	if updated.NextVisitDate.String() != "2024-01-31" {
		t.Errorf("expected recomputed next visit 2024-01-31, got %s", updated.NextVisitDate)
	}
	if dispatcher.scheduled != 2 {
		t.Errorf("expected reminder rescheduled on edit, got %d schedule calls", dispatcher.scheduled)
	}
	if !dispatcher.lastOn.Equal(updated.NextVisitDate) {
		t.Errorf("reminder rescheduled for %s, expected %s", dispatcher.lastOn, updated.NextVisitDate)
	}
}

func TestSubmit_UpdateMissingRecord(t *testing.T) {
	m := NewManager(newStubStore(), &stubDispatcher{}, Options{})
	missing := uuid.New()

	_, err := m.Submit(context.Background(), uuid.New(), validForm(), &missing)

	var nfErr *NotFoundError
	if !errors.As(err, &nfErr) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}

func TestSubmit_StoreFailure(t *testing.T) {
	store := newStubStore()
	store.createErr = errors.New("connection reset")
	dispatcher := &stubDispatcher{}
	m := NewManager(store, dispatcher, Options{})

	_, err := m.Submit(context.Background(), uuid.New(), validForm(), nil)

	var pErr *PersistenceError
	if !errors.As(err, &pErr) {
		t.Fatalf("expected PersistenceError, got %v", err)
	}
	if dispatcher.scheduled != 0 {
		t.Errorf("reminder must not be scheduled after a failed write")
	}
}

func TestSubmit_ReminderFailureDoesNotFailWrite(t *testing.T) {
	store := newStubStore()
	dispatcher := &stubDispatcher{err: errors.New("push service down")}
	m := NewManager(store, dispatcher, Options{})
	owner := uuid.New()

	rec, err := m.Submit(context.Background(), owner, validForm(), nil)
	if err != nil {
		t.Fatalf("write must survive a reminder failure, got %v", err)
	}
	if _, ok := store.records[rec.ID]; !ok {
		t.Fatalf("record should be persisted")
	}
}

func TestSubmit_LastVisitedOverride(t *testing.T) {
	form := validForm()
	form.LastVisitedDate = "2024-01-05"

	t.Run("ignored by default", func(t *testing.T) {
		m := NewManager(newStubStore(), &stubDispatcher{}, Options{})
		rec, err := m.Submit(context.Background(), uuid.New(), form, nil)
		if err != nil {
			t.Fatalf("submit failed: %v", err)
		}
		if !rec.LastVisitedDate.Equal(rec.FirstAttemptDate) {
			t.Errorf("override must be ignored when disabled, got %s", rec.LastVisitedDate)
		}
	})

	t.Run("honored when enabled", func(t *testing.T) {
		m := NewManager(newStubStore(), &stubDispatcher{}, Options{AllowLastVisitedOverride: true})
		rec, err := m.Submit(context.Background(), uuid.New(), form, nil)
		if err != nil {
			t.Fatalf("submit failed: %v", err)
		}
		if rec.LastVisitedDate.String() != "2024-01-05" {
			t.Errorf("expected overridden last visited 2024-01-05, got %s", rec.LastVisitedDate)
		}
	})
}

func TestDelete_RemovesRecordAndCancelsReminder(t *testing.T) {
	store := newStubStore()
	dispatcher := &stubDispatcher{}
	m := NewManager(store, dispatcher, Options{})
	owner := uuid.New()

	rec, err := m.Submit(context.Background(), owner, validForm(), nil)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if err := m.Delete(context.Background(), owner, rec.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	recs, err := m.List(context.Background(), owner)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	for _, r := range recs {
		if r.ID == rec.ID {
			t.Errorf("deleted record still present in list")
		}
	}
	if dispatcher.canceled != 1 {
		t.Errorf("expected reminder canceled on delete, got %d cancel calls", dispatcher.canceled)
	}
}

func TestDelete_MissingRecord(t *testing.T) {
	dispatcher := &stubDispatcher{}
	m := NewManager(newStubStore(), dispatcher, Options{})

	err := m.Delete(context.Background(), uuid.New(), uuid.New())

	var nfErr *NotFoundError
	if !errors.As(err, &nfErr) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
	if dispatcher.canceled != 0 {
		t.Errorf("no cancel call expected for a missing record")
	}
}

func TestEdit_ReturnsCurrentRecord(t *testing.T) {
	store := newStubStore()
	m := NewManager(store, &stubDispatcher{}, Options{})
	owner := uuid.New()

	created, err := m.Submit(context.Background(), owner, validForm(), nil)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	fetched, err := m.Edit(context.Background(), owner, created.ID)
	if err != nil {
		t.Fatalf("edit fetch failed: %v", err)
	}
	if fetched.ProblemName != "Two Sum" {
		t.Errorf("unexpected record: %+v", fetched)
	}

	if _, err := m.Edit(context.Background(), owner, uuid.New()); err == nil {
		t.Fatalf("expected NotFoundError for missing id")
	}
}

func TestEdit_ScopedToOwner(t *testing.T) {
	store := newStubStore()
	m := NewManager(store, &stubDispatcher{}, Options{})
	owner := uuid.New()

	created, err := m.Submit(context.Background(), owner, validForm(), nil)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	_, err = m.Edit(context.Background(), uuid.New(), created.ID)
	var nfErr *NotFoundError
	if !errors.As(err, &nfErr) {
		t.Fatalf("expected NotFoundError for foreign owner, got %v", err)
	}
}
