package session

import (
	"context"

	"github.com/kyartuvzgo/kyartu-bot/internal/models"
)

// GetMoodMeter returns the mood meter for a user, defaulting to neutral.
func (m *Manager) GetMoodMeter(ctx context.Context, userID string) *models.MoodMeter {
	var meter models.MoodMeter
	if !m.load(ctx, NamespaceMood, ScopeUser, userID, &meter) {
		return &models.MoodMeter{
			LastMood:    models.MoodNeutral,
			MoodHistory: []string{},
		}
	}
	if !models.IsValidMood(meter.LastMood) {
		meter.LastMood = models.MoodNeutral
	}
	return &meter
}

// UpdateMood records a mood transition for a user. Moods outside the enum
// are ignored and the call reports failure.
func (m *Manager) UpdateMood(ctx context.Context, userID, mood string) bool {
	if !models.IsValidMood(mood) {
		m.logger.WithField("mood", mood).Warn("Ignoring unknown mood")
		return false
	}

	meter := m.GetMoodMeter(ctx, userID)
	if meter.LastMood != mood {
		meter.MoodHistory = append(meter.MoodHistory, mood)
	}
	meter.LastMood = mood
	meter.LastUpdated = m.now().UnixMilli()

	return m.save(ctx, NamespaceMood, ScopeUser, userID, meter)
}
