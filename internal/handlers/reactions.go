package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/kyartuvzgo/kyartu-bot/internal/middleware"
	"github.com/kyartuvzgo/kyartu-bot/internal/services/session"
	"github.com/sirupsen/logrus"
)

// reactionRespectBonus is applied once per newly counted reaction
const reactionRespectBonus = 0.05

// ReactionHandler records emoji reactions on messages
type ReactionHandler struct {
	sessions *session.Manager
	metrics  *middleware.Metrics
	logger   *logrus.Logger
}

// NewReactionHandler creates a new reaction handler
func NewReactionHandler(sessions *session.Manager, metrics *middleware.Metrics, logger *logrus.Logger) *ReactionHandler {
	return &ReactionHandler{
		sessions: sessions,
		metrics:  metrics,
		logger:   logger,
	}
}

// HandleAddReaction counts a reaction; repeats by the same user on the
// same emoji are no-ops
func (h *ReactionHandler) HandleAddReaction(w http.ResponseWriter, r *http.Request) {
	h.metrics.RecordRequestReceived("reaction")
	messageID := mux.Vars(r)["id"]

	var req struct {
		Emoji  string `json:"emoji"`
		UserID string `json:"userId"`
	}
	if err := decodeJSON(r, &req); err != nil || req.Emoji == "" || req.UserID == "" {
		writeError(w, http.StatusBadRequest, "emoji and userId are required")
		h.metrics.RecordRequestProcessed("reaction", "error")
		return
	}

	tally, counted := h.sessions.AddReaction(r.Context(), messageID, req.Emoji, req.UserID)
	if counted {
		h.sessions.AdjustRespect(r.Context(), req.UserID, reactionRespectBonus)
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"counts":  tally.Counts,
		"counted": counted,
	})
	h.metrics.RecordRequestProcessed("reaction", "success")
}

// HandleGetReactions returns the tally for a message
func (h *ReactionHandler) HandleGetReactions(w http.ResponseWriter, r *http.Request) {
	h.metrics.RecordRequestReceived("reaction_get")
	messageID := mux.Vars(r)["id"]

	tally := h.sessions.GetReactions(r.Context(), messageID)
	writeJSON(w, http.StatusOK, map[string]interface{}{"counts": tally.Counts})
	h.metrics.RecordRequestProcessed("reaction_get", "success")
}
