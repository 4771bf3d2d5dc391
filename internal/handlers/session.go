package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/kyartuvzgo/kyartu-bot/internal/middleware"
	"github.com/kyartuvzgo/kyartu-bot/internal/models"
	"github.com/kyartuvzgo/kyartu-bot/internal/services/session"
	"github.com/kyartuvzgo/kyartu-bot/pkg/ids"
	"github.com/sirupsen/logrus"
)

// SessionHandler manages session lifecycle endpoints
type SessionHandler struct {
	sessions *session.Manager
	metrics  *middleware.Metrics
	logger   *logrus.Logger
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(sessions *session.Manager, metrics *middleware.Metrics, logger *logrus.Logger) *SessionHandler {
	return &SessionHandler{
		sessions: sessions,
		metrics:  metrics,
		logger:   logger,
	}
}

// HandleCreate starts a new session with a fresh ID and default state
func (h *SessionHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	h.metrics.RecordRequestReceived("session_create")

	var req struct {
		UserID string `json:"userId,omitempty"`
		Page   string `json:"page,omitempty"`
	}
	decodeJSON(r, &req) // body is optional

	userID := req.UserID
	if userID == "" {
		userID = ids.NewUserID()
	}
	sessionID := ids.NewSessionID()

	state := &models.SessionState{
		CurrentMode: models.ModeDefault,
		LastPage:    req.Page,
	}
	h.sessions.SaveSessionState(r.Context(), sessionID, state)
	h.sessions.TouchLastSeen(r.Context(), userID)

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"sessionId": sessionID,
		"userId":    userID,
		"mode":      state.CurrentMode,
	})
	h.metrics.RecordRequestProcessed("session_create", "success")
}

// HandleSetMode transitions a session's conversation mode
func (h *SessionHandler) HandleSetMode(w http.ResponseWriter, r *http.Request) {
	h.metrics.RecordRequestReceived("session_mode")
	sessionID := mux.Vars(r)["id"]

	var req struct {
		Mode string `json:"mode"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		h.metrics.RecordRequestProcessed("session_mode", "error")
		return
	}
	if !models.IsValidMode(req.Mode) {
		writeError(w, http.StatusBadRequest, "unknown mode: "+req.Mode)
		h.metrics.RecordRequestProcessed("session_mode", "error")
		return
	}

	state, _ := h.sessions.SetMode(r.Context(), sessionID, req.Mode)
	writeJSON(w, http.StatusOK, map[string]string{"mode": state.CurrentMode})
	h.metrics.RecordRequestProcessed("session_mode", "success")
}

// HandleHistory returns the conversation for a session
func (h *SessionHandler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	h.metrics.RecordRequestReceived("session_history")
	sessionID := mux.Vars(r)["id"]

	snap := h.sessions.GetChatHistory(r.Context(), sessionID)
	writeJSON(w, http.StatusOK, snap)
	h.metrics.RecordRequestProcessed("session_history", "success")
}

// HandleClear deletes the conversation for a session
func (h *SessionHandler) HandleClear(w http.ResponseWriter, r *http.Request) {
	h.metrics.RecordRequestReceived("session_clear")
	sessionID := mux.Vars(r)["id"]

	h.sessions.ClearChatHistory(r.Context(), sessionID)
	w.WriteHeader(http.StatusNoContent)
	h.metrics.RecordRequestProcessed("session_clear", "success")
}
