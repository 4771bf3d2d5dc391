package handlers

import (
	"math"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/kyartuvzgo/kyartu-bot/internal/i18n"
	"github.com/kyartuvzgo/kyartu-bot/internal/middleware"
	"github.com/kyartuvzgo/kyartu-bot/internal/models"
	"github.com/kyartuvzgo/kyartu-bot/internal/services/session"
	"github.com/sirupsen/logrus"
)

// UserHandler serves per-user endpoints: preferences, moderation flags,
// the status snapshot behind the respect/mood meters, and call cooldown.
type UserHandler struct {
	sessions  *session.Manager
	localizer *i18n.Localizer
	metrics   *middleware.Metrics
	logger    *logrus.Logger
}

// NewUserHandler creates a new user handler
func NewUserHandler(sessions *session.Manager, localizer *i18n.Localizer, metrics *middleware.Metrics, logger *logrus.Logger) *UserHandler {
	return &UserHandler{
		sessions:  sessions,
		localizer: localizer,
		metrics:   metrics,
		logger:    logger,
	}
}

// HandleGetPreferences returns a user's preferences with defaults applied
func (h *UserHandler) HandleGetPreferences(w http.ResponseWriter, r *http.Request) {
	h.metrics.RecordRequestReceived("prefs_get")
	userID := mux.Vars(r)["id"]

	prefs := h.sessions.GetPreferences(r.Context(), userID)
	writeJSON(w, http.StatusOK, prefs)
	h.metrics.RecordRequestProcessed("prefs_get", "success")
}

// HandleSavePreferences merges a partial update into a user's preferences
func (h *UserHandler) HandleSavePreferences(w http.ResponseWriter, r *http.Request) {
	h.metrics.RecordRequestReceived("prefs_save")
	userID := mux.Vars(r)["id"]

	var patch models.PreferencesPatch
	if err := decodeJSON(r, &patch); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		h.metrics.RecordRequestProcessed("prefs_save", "error")
		return
	}

	prefs, saved := h.sessions.SavePreferences(r.Context(), userID, &patch)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"preferences": prefs,
		"persisted":   saved,
	})
	h.metrics.RecordRequestProcessed("prefs_save", "success")
}

// HandleSetFlag merges a moderation flag into a user's flag map
func (h *UserHandler) HandleSetFlag(w http.ResponseWriter, r *http.Request) {
	h.metrics.RecordRequestReceived("flag_set")
	userID := mux.Vars(r)["id"]

	var req struct {
		Name   string `json:"name"`
		Active bool   `json:"active"`
		Reason string `json:"reason"`
	}
	if err := decodeJSON(r, &req); err != nil || req.Name == "" {
		writeError(w, http.StatusBadRequest, "flag name is required")
		h.metrics.RecordRequestProcessed("flag_set", "error")
		return
	}

	h.sessions.SetFlag(r.Context(), userID, req.Name, req.Active, req.Reason)
	writeJSON(w, http.StatusOK, h.sessions.GetModerationFlags(r.Context(), userID))
	h.metrics.RecordRequestProcessed("flag_set", "success")
}

// HandleStatus returns the respect/mood/last-seen snapshot for the meters
func (h *UserHandler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	h.metrics.RecordRequestReceived("status")
	userID := mux.Vars(r)["id"]
	ctx := r.Context()

	respect := h.sessions.GetRespectMeter(ctx, userID)
	mood := h.sessions.GetMoodMeter(ctx, userID)
	lastSeen := h.sessions.GetLastSeen(ctx, userID)

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"respect":        respect.RespectScore,
		"respectDisplay": respect.DisplayScore(),
		"mood":           mood.LastMood,
		"lastSeen":       lastSeen,
	})
	h.metrics.RecordRequestProcessed("status", "success")
}

// HandleCall enforces the cooldown between phone-call invocations
func (h *UserHandler) HandleCall(w http.ResponseWriter, r *http.Request) {
	h.metrics.RecordRequestReceived("call")
	userID := mux.Vars(r)["id"]
	ctx := r.Context()

	prefs := h.sessions.GetPreferences(ctx, userID)

	if h.sessions.IsMuted(ctx, userID) {
		writeError(w, http.StatusForbidden, h.localizer.Get(prefs.Language, "muted_notice", nil))
		h.metrics.RecordRequestProcessed("call", "muted")
		return
	}

	allowed, remaining := h.sessions.CallAllowed(ctx, userID)
	if !allowed {
		minutes := int(math.Ceil(remaining.Minutes()))
		writeJSON(w, http.StatusTooManyRequests, map[string]interface{}{
			"error":             h.localizer.Get(prefs.Language, "call_cooldown", map[string]interface{}{"Minutes": minutes}),
			"retryAfterMinutes": minutes,
		})
		h.metrics.RecordRequestProcessed("call", "cooldown")
		return
	}

	h.sessions.RecordCallAttempt(ctx, userID)
	h.sessions.TouchLastSeen(ctx, userID)

	writeJSON(w, http.StatusOK, map[string]bool{"started": true})
	h.metrics.RecordRequestProcessed("call", "success")
}
