package session

import (
	"context"
	"time"

	"github.com/kyartuvzgo/kyartu-bot/internal/config"
	"github.com/kyartuvzgo/kyartu-bot/internal/middleware"
	"github.com/kyartuvzgo/kyartu-bot/internal/services/kv"
	"github.com/sirupsen/logrus"
)

// Manager is the public face of the cache layer: every accessor pair lives
// on it, and every call degrades softly. Reads return the documented
// default when both the remote store and the local mirror come up empty;
// writes report failure as a boolean after mirroring the value locally.
// Nothing above this boundary ever sees a cache error.
type Manager struct {
	kv      *kv.Client
	local   *mirror
	logger  *logrus.Logger
	metrics *middleware.Metrics
	now     func() time.Time
}

// NewManager creates the cache layer over a kv client
func NewManager(cfg *config.LocalConfig, client *kv.Client, logger *logrus.Logger, metrics *middleware.Metrics) *Manager {
	return &Manager{
		kv:      client,
		local:   newMirror(cfg.CleanupInterval),
		logger:  logger,
		metrics: metrics,
		now:     time.Now,
	}
}

// load reads a namespaced value into dest: remote first, local mirror when
// the remote misses or fails. Returns false when the caller should fall
// back to the entity default. Reads never create keys.
func (m *Manager) load(ctx context.Context, namespace, scope, id string, dest interface{}) bool {
	key := Key(namespace, scope, id)

	found, err := m.kv.Get(ctx, key, dest)
	if err == nil && found {
		return true
	}

	if m.local.get(key, dest) {
		if m.metrics != nil {
			m.metrics.RecordFallbackRead()
		}
		m.logger.WithField("key", key).Debug("Read served from local fallback")
		return true
	}

	return false
}

// save writes a namespaced value with the policy TTL. The value is always
// mirrored locally so a later read can recover it if the remote is down.
func (m *Manager) save(ctx context.Context, namespace, scope, id string, value interface{}) bool {
	key := Key(namespace, scope, id)
	ttl := TTL(namespace)

	m.local.put(key, value, ttl)

	if err := m.kv.Set(ctx, key, value, ttl); err != nil {
		m.logger.WithError(err).WithField("key", key).Warn("Remote write failed, value kept in local fallback")
		return false
	}
	return true
}

// remove deletes a namespaced value from both stores
func (m *Manager) remove(ctx context.Context, namespace, scope, id string) bool {
	key := Key(namespace, scope, id)
	m.local.drop(key)
	return m.kv.Delete(ctx, key) == nil
}
