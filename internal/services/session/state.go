package session

import (
	"context"

	"github.com/kyartuvzgo/kyartu-bot/internal/models"
)

// GetSessionState returns the per-session state, or a fresh default-mode
// state when none is stored.
func (m *Manager) GetSessionState(ctx context.Context, sessionID string) *models.SessionState {
	var state models.SessionState
	if !m.load(ctx, NamespaceSession, ScopeSession, sessionID, &state) {
		return &models.SessionState{
			CurrentMode: models.ModeDefault,
			JoinedAt:    m.now().UnixMilli(),
		}
	}
	if !models.IsValidMode(state.CurrentMode) {
		state.CurrentMode = models.ModeDefault
	}
	return &state
}

// SaveSessionState persists the per-session state. An unknown mode is
// silently reset to the default rather than rejected.
func (m *Manager) SaveSessionState(ctx context.Context, sessionID string, state *models.SessionState) bool {
	if state == nil {
		return false
	}
	if !models.IsValidMode(state.CurrentMode) {
		m.logger.WithField("mode", state.CurrentMode).Warn("Unknown session mode, resetting to default")
		state.CurrentMode = models.ModeDefault
	}
	if state.JoinedAt == 0 {
		state.JoinedAt = m.now().UnixMilli()
	}
	return m.save(ctx, NamespaceSession, ScopeSession, sessionID, state)
}

// SetMode transitions the session to a new conversation mode.
// Returns the resulting state and whether the write reached the remote.
func (m *Manager) SetMode(ctx context.Context, sessionID, mode string) (*models.SessionState, bool) {
	state := m.GetSessionState(ctx, sessionID)
	if models.IsValidMode(mode) {
		state.CurrentMode = mode
	}
	ok := m.SaveSessionState(ctx, sessionID, state)
	return state, ok
}

// SetLastPage records the page the session was last on.
func (m *Manager) SetLastPage(ctx context.Context, sessionID, page string) bool {
	state := m.GetSessionState(ctx, sessionID)
	state.LastPage = page
	return m.SaveSessionState(ctx, sessionID, state)
}
