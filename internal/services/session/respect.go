package session

import (
	"context"

	"github.com/kyartuvzgo/kyartu-bot/internal/models"
)

// GetRespectMeter returns the respect meter for a user, defaulting to the
// neutral score when nothing is stored.
func (m *Manager) GetRespectMeter(ctx context.Context, userID string) *models.RespectMeter {
	var meter models.RespectMeter
	if !m.load(ctx, NamespaceRespect, ScopeUser, userID, &meter) {
		return &models.RespectMeter{
			RespectScore: models.RespectDefault,
			History:      []float64{},
		}
	}
	meter.RespectScore = clampRespect(meter.RespectScore)
	return &meter
}

// SaveRespectMeter persists the meter, clamping the score into range first.
// Every write resets the namespace TTL.
func (m *Manager) SaveRespectMeter(ctx context.Context, userID string, meter *models.RespectMeter) bool {
	if meter == nil {
		return false
	}
	meter.RespectScore = clampRespect(meter.RespectScore)
	meter.LastUpdated = m.now().UnixMilli()
	return m.save(ctx, NamespaceRespect, ScopeUser, userID, meter)
}

// AdjustRespect applies a delta to the stored score. Returns the resulting
// meter and whether the write reached the remote store.
func (m *Manager) AdjustRespect(ctx context.Context, userID string, delta float64) (*models.RespectMeter, bool) {
	meter := m.GetRespectMeter(ctx, userID)
	meter.RespectScore = clampRespect(meter.RespectScore + delta)
	meter.History = append(meter.History, meter.RespectScore)
	ok := m.SaveRespectMeter(ctx, userID, meter)
	return meter, ok
}

func clampRespect(score float64) float64 {
	if score < models.RespectMin {
		return models.RespectMin
	}
	if score > models.RespectMax {
		return models.RespectMax
	}
	return score
}
