package search

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/kyartuvzgo/kyartu-bot/internal/config"
	"github.com/kyartuvzgo/kyartu-bot/internal/services/kv"
	"github.com/kyartuvzgo/kyartu-bot/internal/services/session"
	"github.com/sirupsen/logrus"
)

type memStore struct {
	mu   sync.Mutex
	data map[string]string
}

func (s *memStore) Get(ctx context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.data[key]
	if !ok {
		return "", kv.ErrNotFound
	}
	return v, nil
}

func (s *memStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
	return nil
}

func (s *memStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}

func (s *memStore) Ping(ctx context.Context) error { return nil }

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func testSessions() *session.Manager {
	store := &memStore{data: make(map[string]string)}
	client := kv.NewClientWithStore(store, testLogger(), nil)
	return session.NewManager(&config.LocalConfig{CleanupInterval: time.Minute}, client, testLogger(), nil)
}

func TestSearchUsesCacheWithinTTL(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++

		var req struct {
			Query      string `json:"query"`
			Depth      string `json:"search_depth"`
			MaxResults int    `json:"max_results"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if req.Query == "" || req.Depth == "" || req.MaxResults == 0 {
			t.Errorf("incomplete search request: %+v", req)
		}

		json.NewEncoder(w).Encode(map[string]interface{}{
			"results": []map[string]interface{}{
				{"title": "Khash recipe", "url": "https://example.am", "content": "boil overnight"},
			},
			"answer": "Boil it overnight.",
		})
	}))
	defer server.Close()

	svc := NewClient(&config.SearchConfig{
		Enabled:    true,
		BaseURL:    server.URL,
		APIKey:     "test",
		MaxResults: 3,
	}, testSessions(), nil, testLogger())

	ctx := context.Background()

	first, err := svc.Search(ctx, "best khash recipe")
	if err != nil {
		t.Fatalf("first search failed: %v", err)
	}
	if len(first.Results) != 1 || first.Answer == "" {
		t.Fatalf("unexpected results: %+v", first)
	}

	second, err := svc.Search(ctx, "best khash recipe")
	if err != nil {
		t.Fatalf("second search failed: %v", err)
	}
	if calls != 1 {
		t.Errorf("expected 1 backend call, got %d", calls)
	}
	if second.Results[0].Title != first.Results[0].Title {
		t.Error("cached results differ from original")
	}
}

func TestSearchBackendFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	svc := NewClient(&config.SearchConfig{Enabled: true, BaseURL: server.URL}, testSessions(), nil, testLogger())

	if _, err := svc.Search(context.Background(), "anything"); err == nil {
		t.Error("expected error from failing backend")
	}
}

func TestSearchDisabled(t *testing.T) {
	svc := NewClient(&config.SearchConfig{Enabled: false}, nil, nil, testLogger())
	if _, err := svc.Search(context.Background(), "q"); err == nil {
		t.Error("disabled search should return an error")
	}
}
