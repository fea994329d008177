package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newCatalogServer(t *testing.T, titles []string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		questions := make([]CatalogProblem, 0, len(titles))
		for _, title := range titles {
			questions = append(questions, CatalogProblem{Title: title, TitleSlug: title})
		}
		resp := map[string]any{
			"data": map[string]any{
				"problemsetQuestionList": map[string]any{
					"questions": questions,
				},
			},
		}
		json.NewEncoder(w).Encode(resp)
	}))
}

func TestCatalogSearchFiltersByTitle(t *testing.T) {
	server := newCatalogServer(t, []string{"Two Sum", "Three Sum", "Valid Parentheses"})
	defer server.Close()

	svc := NewCatalogService(nil, server.URL, time.Hour)

	results, err := svc.Search(context.Background(), "sum", 20)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(results))
	}
	if results[0].Title != "Two Sum" || results[1].Title != "Three Sum" {
		t.Errorf("unexpected matches: %+v", results)
	}
}

func TestCatalogSearchEmptyQueryReturnsUpToLimit(t *testing.T) {
	server := newCatalogServer(t, []string{"A", "B", "C", "D"})
	defer server.Close()

	svc := NewCatalogService(nil, server.URL, time.Hour)

	results, err := svc.Search(context.Background(), "", 3)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results) != 3 {
		t.Errorf("expected 3 results, got %d", len(results))
	}
}

func TestCatalogSearchUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	svc := NewCatalogService(nil, server.URL, time.Hour)

	if _, err := svc.Search(context.Background(), "sum", 20); err == nil {
		t.Fatal("expected error from failing upstream")
	}
}
