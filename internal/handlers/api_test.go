package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/kyartuvzgo/kyartu-bot/internal/config"
	"github.com/kyartuvzgo/kyartu-bot/internal/i18n"
	"github.com/kyartuvzgo/kyartu-bot/internal/middleware"
	"github.com/kyartuvzgo/kyartu-bot/internal/models"
	"github.com/kyartuvzgo/kyartu-bot/internal/services/ai"
	"github.com/kyartuvzgo/kyartu-bot/internal/services/kv"
	"github.com/kyartuvzgo/kyartu-bot/internal/services/persona"
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

// stubAI returns a fixed reply
type stubAI struct {
	reply string
	calls int
}

func (s *stubAI) GetResponse(ctx context.Context, messages []models.Message, modelID string) (string, error) {
	s.calls++
	return s.reply, nil
}

func (s *stubAI) GetAvailableModels() []ai.ModelOption { return nil }

func (s *stubAI) GetModelByID(modelID string) (*ai.ModelOption, error) {
	return &ai.ModelOption{ID: modelID}, nil
}

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

type testEnv struct {
	router   http.Handler
	sessions *session.Manager
	ai       *stubAI
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	log := testLogger()
	store := &memStore{data: make(map[string]string)}
	client := kv.NewClientWithStore(store, log, nil)
	sessions := session.NewManager(&config.LocalConfig{CleanupInterval: time.Minute}, client, log, nil)

	cfg := &config.Config{
		Models:  config.ModelsConfig{Default: "test-model"},
		Persona: config.PersonaConfig{SystemPrompt: "You are Kyartu.", MaxMessages: 20},
	}

	localizer, err := i18n.NewLocalizer(&config.I18nConfig{DefaultLanguage: "en"})
	if err != nil {
		t.Fatalf("failed to build localizer: %v", err)
	}

	metrics := middleware.NewMetrics()
	stub := &stubAI{reply: "Ara, listen to me bratan."}

	chat := NewChatHandler(cfg, stub, sessions, nil, persona.NewAnalyzer(log), middleware.NewRateLimiter(cfg, log), localizer, metrics, log)
	sessionHandler := NewSessionHandler(sessions, metrics, log)
	userHandler := NewUserHandler(sessions, localizer, metrics, log)
	reactionHandler := NewReactionHandler(sessions, metrics, log)

	return &testEnv{
		router:   NewRouter(chat, sessionHandler, userHandler, reactionHandler),
		sessions: sessions,
		ai:       stub,
	}
}

func (e *testEnv) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func TestSessionCreateAndChat(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/session", map[string]string{"page": "landing"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("session create: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var created struct {
		SessionID string `json:"sessionId"`
		UserID    string `json:"userId"`
		Mode      string `json:"mode"`
	}
	json.Unmarshal(rec.Body.Bytes(), &created)
	if created.SessionID == "" || created.UserID == "" {
		t.Fatalf("missing ids in response: %s", rec.Body.String())
	}
	if created.Mode != models.ModeDefault {
		t.Errorf("expected default mode, got %q", created.Mode)
	}

	rec = env.do(t, http.MethodPost, "/api/chat", map[string]string{
		"sessionId": created.SessionID,
		"userId":    created.UserID,
		"message":   "barev ara",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("chat: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var chat struct {
		Reply   string  `json:"reply"`
		Respect float64 `json:"respect"`
		Mood    string  `json:"mood"`
	}
	json.Unmarshal(rec.Body.Bytes(), &chat)
	if chat.Reply != "Ara, listen to me bratan." {
		t.Errorf("unexpected reply: %q", chat.Reply)
	}
	if chat.Respect != models.RespectDefault*models.RespectDisplayFactor {
		t.Errorf("expected neutral respect display, got %v", chat.Respect)
	}

	// Both sides of the exchange are persisted
	history := env.sessions.GetChatHistory(context.Background(), created.SessionID)
	if len(history.Messages) != 2 {
		t.Fatalf("expected 2 persisted messages, got %d", len(history.Messages))
	}
	if history.Messages[0].Role != "user" || history.Messages[1].Role != "assistant" {
		t.Errorf("unexpected roles: %+v", history.Messages)
	}
}

func TestChatRequiresIdentity(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/chat", map[string]string{"message": "hi"})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestChatBlockedWhenMuted(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.sessions.SetFlag(ctx, "u1", models.FlagMuted, true, "spam")

	rec := env.do(t, http.MethodPost, "/api/chat", map[string]string{
		"sessionId": "s1",
		"userId":    "u1",
		"message":   "let me talk",
	})
	if rec.Code != http.StatusForbidden {
		t.Errorf("expected 403 for muted user, got %d", rec.Code)
	}
	if env.ai.calls != 0 {
		t.Error("muted user must not reach the model")
	}
}

func TestPreferencesEndpoints(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/users/u1/preferences", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var prefs models.UserPreferences
	json.Unmarshal(rec.Body.Bytes(), &prefs)
	if prefs.Theme != "dark" {
		t.Errorf("expected default theme, got %q", prefs.Theme)
	}

	rec = env.do(t, http.MethodPut, "/api/users/u1/preferences", map[string]interface{}{"roastLevel": 5})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var saved struct {
		Preferences models.UserPreferences `json:"preferences"`
		Persisted   bool                   `json:"persisted"`
	}
	json.Unmarshal(rec.Body.Bytes(), &saved)
	if saved.Preferences.RoastLevel != 5 || !saved.Persisted {
		t.Errorf("patch not applied: %+v", saved)
	}
	if saved.Preferences.Theme != "dark" {
		t.Error("merge lost default fields")
	}
}

func TestReactionEndpointIdempotence(t *testing.T) {
	env := newTestEnv(t)

	body := map[string]string{"emoji": "🔥", "userId": "u1"}
	rec := env.do(t, http.MethodPost, "/api/messages/m1/reactions", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	rec = env.do(t, http.MethodPost, "/api/messages/m1/reactions", body)
	var resp struct {
		Counts  map[string]int `json:"counts"`
		Counted bool           `json:"counted"`
	}
	json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp.Counted {
		t.Error("repeat reaction should not be counted")
	}
	if resp.Counts["🔥"] != 1 {
		t.Errorf("expected count 1, got %d", resp.Counts["🔥"])
	}
}

func TestCallCooldownEndpoint(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/users/u1/call", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("first call: expected 200, got %d", rec.Code)
	}

	rec = env.do(t, http.MethodPost, "/api/users/u1/call", nil)
	if rec.Code != http.StatusTooManyRequests {
		t.Errorf("second call inside cooldown: expected 429, got %d", rec.Code)
	}
}

func TestModeEndpointRejectsUnknownMode(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPatch, "/api/session/s1/mode", map[string]string{"mode": "chaos"})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for unknown mode, got %d", rec.Code)
	}

	rec = env.do(t, http.MethodPatch, "/api/session/s1/mode", map[string]string{"mode": models.ModeFlirt})
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}
