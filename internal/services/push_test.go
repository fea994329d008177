package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestPushSendBatchesTokens(t *testing.T) {
	var requests []expoPushMessage
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var msg expoPushMessage
		if err := json.NewDecoder(r.Body).Decode(&msg); err != nil {
			t.Errorf("failed to decode push payload: %v", err)
		}
		requests = append(requests, msg)
		json.NewEncoder(w).Encode(expoPushResponse{Data: []expoPushTicket{{Status: "ok"}}})
	}))
	defer server.Close()

	svc := NewPushService(server.URL)

	tokens := make([]string, 150)
	for i := range tokens {
		tokens[i] = "ExponentPushToken[x]"
	}

	if err := svc.Send(context.Background(), tokens, "Time to revisit a problem!", "body", nil); err != nil {
		t.Fatalf("Send failed: %v", err)
	}

	if len(requests) != 2 {
		t.Fatalf("expected 2 batches, got %d", len(requests))
	}
	if len(requests[0].To) != 100 || len(requests[1].To) != 50 {
		t.Errorf("unexpected batch sizes: %d, %d", len(requests[0].To), len(requests[1].To))
	}
	if requests[0].Title != "Time to revisit a problem!" {
		t.Errorf("unexpected title: %q", requests[0].Title)
	}
}

func TestPushSendNoTokensIsNoop(t *testing.T) {
	svc := NewPushService("http://127.0.0.1:0")
	if err := svc.Send(context.Background(), nil, "t", "b", nil); err != nil {
		t.Fatalf("expected nil error for empty token list, got %v", err)
	}
}

func TestPushSendGatewayError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	svc := NewPushService(server.URL)
	if err := svc.Send(context.Background(), []string{"tok"}, "t", "b", nil); err == nil {
		t.Fatal("expected error from failing gateway")
	}
}
