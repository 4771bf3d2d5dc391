package session

import (
	"context"
	"time"

	"github.com/kyartuvzgo/kyartu-bot/internal/models"
)

// GetLastSeen returns the last-seen record for a user, or nil when the
// user has never been seen (or the record expired).
func (m *Manager) GetLastSeen(ctx context.Context, userID string) *models.LastSeenRecord {
	var rec models.LastSeenRecord
	if !m.load(ctx, NamespaceLastSeen, ScopeUser, userID, &rec) {
		return nil
	}
	return &rec
}

// TouchLastSeen overwrites the last-seen record with the current instant.
func (m *Manager) TouchLastSeen(ctx context.Context, userID string) bool {
	return m.save(ctx, NamespaceLastSeen, ScopeUser, userID, models.NewLastSeen(m.now()))
}

// RecordCallAttempt stores the timestamp of a phone-call invocation.
func (m *Manager) RecordCallAttempt(ctx context.Context, userID string) bool {
	return m.save(ctx, NamespaceCallAttempt, ScopeUser, userID, m.now().UnixMilli())
}

// CallAllowed reports whether the user is outside the call cooldown
// window, and if not, how long until the next call is allowed.
func (m *Manager) CallAllowed(ctx context.Context, userID string) (bool, time.Duration) {
	var last int64
	if !m.load(ctx, NamespaceCallAttempt, ScopeUser, userID, &last) {
		return true, 0
	}

	elapsed := m.now().Sub(time.UnixMilli(last))
	if elapsed >= CallCooldown {
		return true, 0
	}
	return false, CallCooldown - elapsed
}
