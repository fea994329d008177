package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const catalogCacheKey = "catalog:problems"

// CatalogService fetches the public problem list from LeetCode's GraphQL API
// and serves name lookups against it. The full list changes rarely, so it is
// cached in Redis and refetched only after the TTL expires.
type CatalogService struct {
	redis    *redis.Client
	client   *http.Client
	url      string
	cacheTTL time.Duration
}

func NewCatalogService(redisClient *redis.Client, url string, cacheTTL time.Duration) *CatalogService {
	return &CatalogService{
		redis:    redisClient,
		client:   &http.Client{Timeout: 30 * time.Second},
		url:      url,
		cacheTTL: cacheTTL,
	}
}

type CatalogProblem struct {
	Title     string `json:"title"`
	TitleSlug string `json:"titleSlug"`
}

// Search returns problems whose title contains the query, case-insensitive.
// An empty query returns the first `limit` problems.
func (s *CatalogService) Search(ctx context.Context, query string, limit int) ([]CatalogProblem, error) {
	problems, err := s.problems(ctx)
	if err != nil {
		return nil, err
	}

	if limit <= 0 {
		limit = 20
	}

	q := strings.ToLower(strings.TrimSpace(query))
	matches := make([]CatalogProblem, 0, limit)
	for _, p := range problems {
		if q == "" || strings.Contains(strings.ToLower(p.Title), q) {
			matches = append(matches, p)
			if len(matches) >= limit {
				break
			}
		}
	}
	return matches, nil
}

func (s *CatalogService) problems(ctx context.Context) ([]CatalogProblem, error) {
	if s.redis != nil {
		cached, err := s.redis.Get(ctx, catalogCacheKey).Result()
		if err == nil {
			var problems []CatalogProblem
			if err := json.Unmarshal([]byte(cached), &problems); err == nil {
				return problems, nil
			}
		}
	}

	problems, err := s.fetch(ctx)
	if err != nil {
		return nil, err
	}

	if s.redis != nil {
		payload, err := json.Marshal(problems)
		if err == nil {
			if err := s.redis.Set(ctx, catalogCacheKey, payload, s.cacheTTL).Err(); err != nil {
				log.Printf("Catalog: failed to cache problem list: %v", err)
			}
		}
	}

	return problems, nil
}

const problemListQuery = `
query problemsetQuestionList($categorySlug: String, $limit: Int, $skip: Int, $filters: QuestionListFilterInput) {
  problemsetQuestionList: questionList(
    categorySlug: $categorySlug
    limit: $limit
    skip: $skip
    filters: $filters
  ) {
    questions: data {
      title
      titleSlug
    }
  }
}`

func (s *CatalogService) fetch(ctx context.Context) ([]CatalogProblem, error) {
	body := map[string]any{
		"query": problemListQuery,
		"variables": map[string]any{
			"categorySlug": "",
			"skip":         0,
			"limit":        100000,
			"filters":      map[string]any{},
		},
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal catalog query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build catalog request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("catalog request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("catalog API returned status %d", resp.StatusCode)
	}

	var result struct {
		Data struct {
			ProblemsetQuestionList struct {
				Questions []CatalogProblem `json:"questions"`
			} `json:"problemsetQuestionList"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode catalog response: %w", err)
	}

	return result.Data.ProblemsetQuestionList.Questions, nil
}
