package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/kyartuvzgo/kyartu-bot/internal/config"
	"github.com/kyartuvzgo/kyartu-bot/internal/i18n"
	"github.com/kyartuvzgo/kyartu-bot/internal/middleware"
	"github.com/kyartuvzgo/kyartu-bot/internal/models"
	"github.com/kyartuvzgo/kyartu-bot/internal/services/ai"
	"github.com/kyartuvzgo/kyartu-bot/internal/services/persona"
	"github.com/kyartuvzgo/kyartu-bot/internal/services/search"
	"github.com/kyartuvzgo/kyartu-bot/internal/services/session"
	"github.com/kyartuvzgo/kyartu-bot/pkg/ids"
	"github.com/kyartuvzgo/kyartu-bot/pkg/logger"
	"github.com/kyartuvzgo/kyartu-bot/pkg/markdown"
	"github.com/sirupsen/logrus"
)

// ChatHandler drives a full chat exchange: persona prompt, optional web
// search, LLM call, and persistence of every conversational signal.
type ChatHandler struct {
	config      *config.Config
	aiService   ai.Service
	sessions    *session.Manager
	searcher    search.Service
	analyzer    *persona.Analyzer
	rateLimiter middleware.RateLimiter
	localizer   *i18n.Localizer
	metrics     *middleware.Metrics
	logger      *logrus.Logger
}

// NewChatHandler creates a new chat handler
func NewChatHandler(
	cfg *config.Config,
	aiService ai.Service,
	sessions *session.Manager,
	searcher search.Service,
	analyzer *persona.Analyzer,
	rateLimiter middleware.RateLimiter,
	localizer *i18n.Localizer,
	metrics *middleware.Metrics,
	logger *logrus.Logger,
) *ChatHandler {
	return &ChatHandler{
		config:      cfg,
		aiService:   aiService,
		sessions:    sessions,
		searcher:    searcher,
		analyzer:    analyzer,
		rateLimiter: rateLimiter,
		localizer:   localizer,
		metrics:     metrics,
		logger:      logger,
	}
}

type chatRequest struct {
	SessionID string `json:"sessionId"`
	UserID    string `json:"userId"`
	Message   string `json:"message"`
	Model     string `json:"model,omitempty"`
	Page      string `json:"page,omitempty"`
}

type chatResponse struct {
	MessageID string  `json:"messageId"`
	Reply     string  `json:"reply"`
	ReplyHTML string  `json:"replyHtml"`
	Mood      string  `json:"mood"`
	Respect   float64 `json:"respect"` // 0-100 display scale
	Mode      string  `json:"mode"`
	Fallback  bool    `json:"fallback,omitempty"`
}

// HandleChat processes one user message
func (h *ChatHandler) HandleChat(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	h.metrics.RecordRequestReceived("chat")

	var req chatRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		h.metrics.RecordRequestProcessed("chat", "error")
		return
	}
	if req.SessionID == "" || req.UserID == "" || req.Message == "" {
		writeError(w, http.StatusBadRequest, "sessionId, userId and message are required")
		h.metrics.RecordRequestProcessed("chat", "error")
		return
	}

	prefs := h.sessions.GetPreferences(ctx, req.UserID)
	lang := prefs.Language

	if h.sessions.IsMuted(ctx, req.UserID) {
		writeError(w, http.StatusForbidden, h.localizer.Get(lang, "muted_notice", nil))
		h.metrics.RecordRequestProcessed("chat", "muted")
		return
	}

	if !h.rateLimiter.Allow(req.UserID) {
		h.metrics.RecordRateLimitExceeded(req.UserID)
		writeError(w, http.StatusTooManyRequests, h.localizer.Get(lang, "rate_limited", nil))
		h.metrics.RecordRequestProcessed("chat", "rate_limited")
		return
	}

	state := h.sessions.GetSessionState(ctx, req.SessionID)
	respect := h.sessions.GetRespectMeter(ctx, req.UserID)
	moodMeter := h.sessions.GetMoodMeter(ctx, req.UserID)
	history := h.sessions.GetChatHistory(ctx, req.SessionID)

	// Mode transition from message content
	if suggested := h.analyzer.SuggestMode(req.Message, state.CurrentMode); suggested != state.CurrentMode {
		state, _ = h.sessions.SetMode(ctx, req.SessionID, suggested)
	}
	if req.Page != "" && req.Page != state.LastPage {
		h.sessions.SetLastPage(ctx, req.SessionID, req.Page)
		state.LastPage = req.Page
	}

	systemPrompt := persona.BuildSystemPrompt(h.config.Persona.SystemPrompt, state, respect, moodMeter, prefs)
	messages := []models.Message{{Role: "system", Content: systemPrompt}}

	// Web lookup when the message asks for one
	if h.analyzer.WantsSearch(req.Message) && h.searcher != nil {
		if results, err := h.searcher.Search(ctx, req.Message); err == nil {
			messages = append(messages, models.Message{
				Role:    "system",
				Content: formatSearchContext(results),
			})
		} else {
			h.logger.WithError(err).Warn("Search failed, answering without results")
		}
	}

	// Trailing window of the conversation
	tail := history.Messages
	if max := h.config.Persona.MaxMessages; max > 0 && len(tail) > max {
		tail = tail[len(tail)-max:]
	}
	messages = append(messages, tail...)
	messages = append(messages, models.Message{Role: "user", Content: req.Message})

	modelID := req.Model
	if modelID == "" {
		modelID = h.config.Models.Default
	}

	start := time.Now()
	reply, err := h.aiService.GetResponse(ctx, messages, modelID)
	fallback := false
	if err != nil {
		h.logger.WithError(err).Error("AI request failed, serving fallback line")
		h.metrics.RecordAIRequest(modelID, "error", time.Since(start))
		reply = h.localizer.Get(lang, "chat_fallback", nil)
		fallback = true
	} else {
		h.metrics.RecordAIRequest(modelID, "success", time.Since(start))
	}

	mood := h.analyzer.AnalyzeMood(req.Message, moodMeter.LastMood)

	userMsg := models.Message{
		ID:        ids.NewMessageID(),
		Role:      "user",
		Content:   req.Message,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	botMsg := models.Message{
		ID:        ids.NewMessageID(),
		Role:      "assistant",
		Content:   reply,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Mood:      mood,
	}
	h.sessions.AppendExchange(ctx, req.SessionID, userMsg, botMsg)

	if delta := h.analyzer.RespectDelta(req.Message); delta != 0 {
		respect, _ = h.sessions.AdjustRespect(ctx, req.UserID, delta)
	}
	h.sessions.UpdateMood(ctx, req.UserID, mood)

	if joke, ok := h.analyzer.DetectJoke(req.Message); ok {
		h.sessions.AddJoke(ctx, req.UserID, joke)
	}
	h.sessions.TouchLastSeen(ctx, req.UserID)

	logger.WithSession(h.logger, req.SessionID, req.UserID).WithFields(logrus.Fields{
		"mode":     state.CurrentMode,
		"mood":     mood,
		"fallback": fallback,
	}).Debug("Chat exchange completed")

	writeJSON(w, http.StatusOK, chatResponse{
		MessageID: botMsg.ID,
		Reply:     reply,
		ReplyHTML: markdown.ToChatHTML(reply),
		Mood:      mood,
		Respect:   respect.DisplayScore(),
		Mode:      state.CurrentMode,
		Fallback:  fallback,
	})
	h.metrics.RecordRequestProcessed("chat", "success")
}

func formatSearchContext(results *models.SearchResults) string {
	context := "Relevant web search results:\n\n"
	if results.Answer != "" {
		context += fmt.Sprintf("Summary: %s\n\n", results.Answer)
	}
	for i, r := range results.Results {
		content := r.Content
		if len(content) > 500 {
			content = content[:500] + "..."
		}
		context += fmt.Sprintf("[%d] %s (%s)\n%s\n\n", i+1, r.Title, r.URL, content)
	}
	context += "Work these into your answer in your own voice."
	return context
}
