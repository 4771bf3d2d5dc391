package session

import (
	"context"

	"github.com/kyartuvzgo/kyartu-bot/internal/models"
)

// GetJokes returns a user's joke bank, most-recent-first.
func (m *Manager) GetJokes(ctx context.Context, userID string) []models.JokeEntry {
	var jokes []models.JokeEntry
	if !m.load(ctx, NamespaceJokes, ScopeUser, userID, &jokes) {
		return []models.JokeEntry{}
	}
	if len(jokes) > models.MaxJokes {
		jokes = jokes[:models.MaxJokes]
	}
	return jokes
}

// AddJoke prepends a joke to the bank, evicting the oldest entries past
// the capacity.
func (m *Manager) AddJoke(ctx context.Context, userID, joke string) bool {
	jokes := m.GetJokes(ctx, userID)

	entry := models.JokeEntry{
		Joke:    joke,
		AddedAt: m.now().UnixMilli(),
	}
	jokes = append([]models.JokeEntry{entry}, jokes...)
	if len(jokes) > models.MaxJokes {
		jokes = jokes[:models.MaxJokes]
	}

	return m.save(ctx, NamespaceJokes, ScopeUser, userID, jokes)
}

// MarkJokeUsed bumps the usage counter of the joke at index.
func (m *Manager) MarkJokeUsed(ctx context.Context, userID string, index int) bool {
	jokes := m.GetJokes(ctx, userID)
	if index < 0 || index >= len(jokes) {
		return false
	}
	jokes[index].UsedCount++
	return m.save(ctx, NamespaceJokes, ScopeUser, userID, jokes)
}
