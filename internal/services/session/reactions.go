package session

import (
	"context"

	"github.com/kyartuvzgo/kyartu-bot/internal/models"
)

// GetReactions returns the reaction tally for a message.
func (m *Manager) GetReactions(ctx context.Context, messageID string) *models.ReactionTally {
	var tally models.ReactionTally
	if !m.load(ctx, NamespaceReactions, ScopeMessage, messageID, &tally) {
		return &models.ReactionTally{
			Counts: map[string]int{},
			Users:  map[string][]string{},
		}
	}
	if tally.Counts == nil {
		tally.Counts = map[string]int{}
	}
	if tally.Users == nil {
		tally.Users = map[string][]string{}
	}
	return &tally
}

// AddReaction counts an emoji reaction from a user on a message. A repeat
// reaction by the same user on the same emoji is a no-op: the user set
// keeps the tally idempotent. Returns the tally and whether the reaction
// was newly counted.
func (m *Manager) AddReaction(ctx context.Context, messageID, emoji, userID string) (*models.ReactionTally, bool) {
	tally := m.GetReactions(ctx, messageID)

	for _, u := range tally.Users[emoji] {
		if u == userID {
			return tally, false
		}
	}

	tally.Counts[emoji]++
	tally.Users[emoji] = append(tally.Users[emoji], userID)

	if !m.save(ctx, NamespaceReactions, ScopeMessage, messageID, tally) {
		return tally, false
	}
	return tally, true
}
