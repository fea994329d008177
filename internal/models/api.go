package models

import "github.com/google/uuid"

// WebSocket message envelope pushed to connected clients.
type WSMessage struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// RecordChange is the payload for record_created / record_updated /
// record_deleted events on the live change stream. The client treats each
// event as authoritative and re-renders from it; there is no merging.
type RecordChange struct {
	RecordID uuid.UUID       `json:"record_id"`
	Record   *PracticeRecord `json:"record,omitempty"`
}

// API error envelope.
type APIError struct {
	Code      string            `json:"code"`
	Message   string            `json:"message"`
	Fields    map[string]string `json:"fields,omitempty"`
	RequestID string            `json:"request_id"`
}

type ErrorResponse struct {
	Error APIError `json:"error"`
}
