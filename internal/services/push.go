package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"
)

const expoBatchSize = 100

// PushService delivers reminder notifications through Expo's push gateway.
type PushService struct {
	url    string
	client *http.Client
}

func NewPushService(url string) *PushService {
	return &PushService{
		url: url,
		client: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

type expoPushMessage struct {
	To    []string          `json:"to"`
	Title string            `json:"title"`
	Body  string            `json:"body"`
	Sound string            `json:"sound"`
	Data  map[string]string `json:"data,omitempty"`
}

type expoPushTicket struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

type expoPushResponse struct {
	Data []expoPushTicket `json:"data"`
}

// Send pushes a notification to every token. Tokens are batched per Expo's
// 100-message request limit. A non-ok ticket is logged but does not fail the
// whole send; the caller only cares whether the gateway accepted the request.
func (s *PushService) Send(ctx context.Context, tokens []string, title, body string, data map[string]string) error {
	if len(tokens) == 0 {
		return nil
	}

	for start := 0; start < len(tokens); start += expoBatchSize {
		end := start + expoBatchSize
		if end > len(tokens) {
			end = len(tokens)
		}
		if err := s.sendBatch(ctx, tokens[start:end], title, body, data); err != nil {
			return err
		}
	}
	return nil
}

func (s *PushService) sendBatch(ctx context.Context, tokens []string, title, body string, data map[string]string) error {
	msg := expoPushMessage{
		To:    tokens,
		Title: title,
		Body:  body,
		Sound: "default",
		Data:  data,
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal push message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build push request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("push request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("push gateway returned status %d", resp.StatusCode)
	}

	var result expoPushResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("failed to decode push response: %w", err)
	}

	for i, ticket := range result.Data {
		if ticket.Status != "ok" {
			log.Printf("Push ticket %d not ok: %s", i, ticket.Message)
		}
	}
	return nil
}
