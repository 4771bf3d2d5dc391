package session

import (
	"context"

	"github.com/kyartuvzgo/kyartu-bot/internal/models"
)

// DefaultPreferences returns the documented preference defaults.
func DefaultPreferences() *models.UserPreferences {
	return &models.UserPreferences{
		FlirtMode:     false,
		CensorMode:    true,
		RoastLevel:    2,
		Theme:         "dark",
		Notifications: true,
		Language:      "en",
	}
}

// GetPreferences returns a user's preferences with defaults filled in for
// anything never set.
func (m *Manager) GetPreferences(ctx context.Context, userID string) *models.UserPreferences {
	prefs := DefaultPreferences()
	m.load(ctx, NamespacePrefs, ScopeUser, userID, prefs)
	return prefs
}

// SavePreferences applies a partial update over the current preferences
// and persists the merged result. Returns the merged preferences and
// whether the write reached the remote store.
func (m *Manager) SavePreferences(ctx context.Context, userID string, patch *models.PreferencesPatch) (*models.UserPreferences, bool) {
	prefs := m.GetPreferences(ctx, userID)

	if patch != nil {
		if patch.FlirtMode != nil {
			prefs.FlirtMode = *patch.FlirtMode
		}
		if patch.CensorMode != nil {
			prefs.CensorMode = *patch.CensorMode
		}
		if patch.RoastLevel != nil {
			prefs.RoastLevel = *patch.RoastLevel
		}
		if patch.Theme != nil {
			prefs.Theme = *patch.Theme
		}
		if patch.Notifications != nil {
			prefs.Notifications = *patch.Notifications
		}
		if patch.Language != nil {
			prefs.Language = *patch.Language
		}
	}
	prefs.LastUpdated = m.now().UnixMilli()

	ok := m.save(ctx, NamespacePrefs, ScopeUser, userID, prefs)
	return prefs, ok
}
