package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"logleet-backend/internal/middleware"
	"logleet-backend/internal/models"
	"logleet-backend/internal/schedule"
)

type recordManager interface {
	List(ctx context.Context, ownerID uuid.UUID) ([]*models.PracticeRecord, error)
	Edit(ctx context.Context, ownerID, id uuid.UUID) (*models.PracticeRecord, error)
	Submit(ctx context.Context, ownerID uuid.UUID, form models.RecordForm, existingID *uuid.UUID) (*models.PracticeRecord, error)
	Delete(ctx context.Context, ownerID, id uuid.UUID) error
}

// StatsProvider is implemented by the postgres store. When the configured
// store cannot aggregate, stats are computed from a full list instead.
type StatsProvider interface {
	Stats(ctx context.Context, ownerID uuid.UUID) (*models.RecordStats, error)
}

type RecordHandler struct {
	manager recordManager
	stats   StatsProvider
	redis   *redis.Client
}

func NewRecordHandler(manager recordManager, stats StatsProvider, redisClient *redis.Client) *RecordHandler {
	return &RecordHandler{manager: manager, stats: stats, redis: redisClient}
}

func (h *RecordHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	records, err := h.manager.List(r.Context(), userID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"records": records,
		"total":   len(records),
	})
}

func (h *RecordHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	recordID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid record ID", r))
		return
	}

	rec, err := h.manager.Edit(r.Context(), userID, recordID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, rec)
}

func (h *RecordHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var form models.RecordForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	rec, err := h.manager.Submit(r.Context(), userID, form, nil)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	h.publish(r.Context(), userID, "record_created", rec.ID, rec)
	writeJSON(w, http.StatusCreated, rec)
}

func (h *RecordHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	recordID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid record ID", r))
		return
	}

	var form models.RecordForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	rec, err := h.manager.Submit(r.Context(), userID, form, &recordID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	h.publish(r.Context(), userID, "record_updated", rec.ID, rec)
	writeJSON(w, http.StatusOK, rec)
}

func (h *RecordHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	recordID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid record ID", r))
		return
	}

	if err := h.manager.Delete(r.Context(), userID, recordID); err != nil {
		handleServiceError(w, r, err)
		return
	}

	h.publish(r.Context(), userID, "record_deleted", recordID, nil)
	writeJSON(w, http.StatusOK, map[string]string{"message": "Record deleted"})
}

func (h *RecordHandler) Stats(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	if h.stats != nil {
		stats, err := h.stats.Stats(r.Context(), userID)
		if err != nil {
			handleServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, stats)
		return
	}

	records, err := h.manager.List(r.Context(), userID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	stats := &models.RecordStats{Total: len(records)}
	today := schedule.Today()
	for _, rec := range records {
		if !rec.NextVisitDate.After(today) {
			stats.DueToday++
		}
		switch rec.DifficultyLevel {
		case models.DifficultyEasy:
			stats.Easy++
		case models.DifficultyMedium:
			stats.Medium++
		case models.DifficultyHard:
			stats.Hard++
		}
	}
	writeJSON(w, http.StatusOK, stats)
}

// publish pushes a record change onto the user's update channel so open
// websocket connections see it. Best effort; a failed publish never fails
// the request.
func (h *RecordHandler) publish(ctx context.Context, userID uuid.UUID, msgType string, recordID uuid.UUID, rec *models.PracticeRecord) {
	if h.redis == nil {
		return
	}

	payload, err := json.Marshal(models.WSMessage{
		Type: msgType,
		Payload: models.RecordChange{
			RecordID: recordID,
			Record:   rec,
		},
	})
	if err != nil {
		log.Printf("Failed to marshal %s event: %v", msgType, err)
		return
	}

	if err := h.redis.Publish(ctx, "user_updates:"+userID.String(), payload).Err(); err != nil {
		log.Printf("Failed to publish %s event: %v", msgType, err)
	}
}
