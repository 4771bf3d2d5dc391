package session

import (
	"context"

	"github.com/kyartuvzgo/kyartu-bot/internal/models"
)

// GetModerationFlags returns all moderation flags set on a user.
func (m *Manager) GetModerationFlags(ctx context.Context, userID string) models.ModerationFlags {
	flags := models.ModerationFlags{}
	m.load(ctx, NamespaceModeration, ScopeUser, userID, &flags)
	return flags
}

// SetFlag merges a flag into the user's existing flag map. Existing flags
// with other names are preserved.
func (m *Manager) SetFlag(ctx context.Context, userID, name string, active bool, reason string) bool {
	flags := m.GetModerationFlags(ctx, userID)

	flags[name] = models.ModerationFlag{
		Active: active,
		Reason: reason,
		SetAt:  m.now().UnixMilli(),
	}

	return m.save(ctx, NamespaceModeration, ScopeUser, userID, flags)
}

// IsFlagged reports whether a named flag is currently active on a user.
func (m *Manager) IsFlagged(ctx context.Context, userID, name string) bool {
	flags := m.GetModerationFlags(ctx, userID)
	flag, ok := flags[name]
	return ok && flag.Active
}

// IsMuted reports whether the user is muted.
func (m *Manager) IsMuted(ctx context.Context, userID string) bool {
	return m.IsFlagged(ctx, userID, models.FlagMuted)
}
