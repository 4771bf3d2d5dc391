package session

import (
	"context"

	"github.com/kyartuvzgo/kyartu-bot/internal/models"
)

// GetChatHistory returns the conversation for a session, or an empty
// snapshot when none is stored.
func (m *Manager) GetChatHistory(ctx context.Context, sessionID string) *models.ChatHistorySnapshot {
	var snap models.ChatHistorySnapshot
	if !m.load(ctx, NamespaceChat, ScopeSession, sessionID, &snap) {
		return &models.ChatHistorySnapshot{
			Messages:   []models.Message{},
			Timestamps: []int64{},
		}
	}
	return &snap
}

// SaveChatHistory replaces the stored conversation wholesale. The
// timestamps slice is realigned to the messages before persisting.
func (m *Manager) SaveChatHistory(ctx context.Context, sessionID string, snap *models.ChatHistorySnapshot) bool {
	if snap == nil {
		return false
	}

	now := m.now().UnixMilli()

	// Keep messages and timestamps the same length
	for len(snap.Timestamps) < len(snap.Messages) {
		snap.Timestamps = append(snap.Timestamps, now)
	}
	if len(snap.Timestamps) > len(snap.Messages) {
		snap.Timestamps = snap.Timestamps[:len(snap.Messages)]
	}
	snap.LastUpdated = now

	return m.save(ctx, NamespaceChat, ScopeSession, sessionID, snap)
}

// AppendExchange loads the history, appends the given messages and writes
// the whole snapshot back.
func (m *Manager) AppendExchange(ctx context.Context, sessionID string, messages ...models.Message) bool {
	snap := m.GetChatHistory(ctx, sessionID)
	now := m.now().UnixMilli()

	for _, msg := range messages {
		snap.Messages = append(snap.Messages, msg)
		snap.Timestamps = append(snap.Timestamps, now)
	}

	return m.SaveChatHistory(ctx, sessionID, snap)
}

// ClearChatHistory deletes the conversation for a session.
func (m *Manager) ClearChatHistory(ctx context.Context, sessionID string) bool {
	return m.remove(ctx, NamespaceChat, ScopeSession, sessionID)
}
