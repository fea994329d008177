package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"logleet-backend/internal/middleware"
	"logleet-backend/internal/models"
	"logleet-backend/internal/repository"
)

type DeviceHandler struct {
	deviceRepo *repository.DeviceRepo
}

func NewDeviceHandler(deviceRepo *repository.DeviceRepo) *DeviceHandler {
	return &DeviceHandler{deviceRepo: deviceRepo}
}

// Register stores an Expo push token for the authenticated user. Devices
// re-register on every app start, so duplicate tokens just refresh ownership.
func (h *DeviceHandler) Register(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req models.RegisterDeviceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	fieldErrors := make(map[string]string)
	if strings.TrimSpace(req.ExpoPushToken) == "" {
		fieldErrors["expo_push_token"] = "Push token is required"
	}
	switch req.Platform {
	case "ios", "android":
	default:
		fieldErrors["platform"] = "Platform must be ios or android"
	}
	if len(fieldErrors) > 0 {
		writeJSON(w, http.StatusBadRequest, errorRespWithFields("VALIDATION_ERROR", "Validation failed", fieldErrors, r))
		return
	}

	device := &models.Device{
		UserID:        userID,
		ExpoPushToken: req.ExpoPushToken,
		Platform:      req.Platform,
	}
	if err := h.deviceRepo.Register(r.Context(), device); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to register device", r))
		return
	}

	writeJSON(w, http.StatusCreated, device)
}

func (h *DeviceHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	devices, err := h.deviceRepo.ListByUser(r.Context(), userID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to list devices", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"devices": devices,
		"total":   len(devices),
	})
}

func (h *DeviceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	deviceID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid device ID", r))
		return
	}

	deleted, err := h.deviceRepo.Delete(r.Context(), userID, deviceID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to delete device", r))
		return
	}
	if !deleted {
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Device not found", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Device unregistered"})
}
