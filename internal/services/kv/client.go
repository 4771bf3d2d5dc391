package kv

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/kyartuvzgo/kyartu-bot/internal/config"
	"github.com/kyartuvzgo/kyartu-bot/internal/middleware"
	"github.com/sirupsen/logrus"
)

// Client serializes values to JSON strings on the way into a Store and
// parses them back on the way out. Transport failures are logged and
// surfaced as errors here; the session layer above swallows them into its
// documented defaults. A missing key is reported as found=false with a nil
// error.
type Client struct {
	store   Store
	logger  *logrus.Logger
	metrics *middleware.Metrics
}

// NewClient creates a JSON client over the configured store backend
func NewClient(cfg *config.StoreConfig, logger *logrus.Logger, metrics *middleware.Metrics) (*Client, error) {
	var store Store

	switch cfg.Type {
	case "redis":
		redisStore, err := NewRedisStore(&cfg.Redis, logger)
		if err != nil {
			return nil, err
		}
		store = redisStore
	case "rest":
		store = NewRESTStore(&cfg.Rest, logger)
	default:
		return nil, fmt.Errorf("unsupported store type: %s", cfg.Type)
	}

	return &Client{
		store:   store,
		logger:  logger,
		metrics: metrics,
	}, nil
}

// NewClientWithStore wraps an existing store, used by tests to substitute
// a fake backend
func NewClientWithStore(store Store, logger *logrus.Logger, metrics *middleware.Metrics) *Client {
	return &Client{
		store:   store,
		logger:  logger,
		metrics: metrics,
	}
}

// Get reads and unmarshals the value at key into dest. Returns found=false
// for a missing or expired key, and a non-nil error for transport or
// serialization failures.
func (c *Client) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	start := time.Now()

	raw, err := c.store.Get(ctx, key)
	if err == ErrNotFound {
		c.record("get", "miss", start)
		return false, nil
	}
	if err != nil {
		c.record("get", "error", start)
		c.logger.WithError(err).WithField("key", key).Warn("Store get failed")
		return false, err
	}

	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		c.record("get", "error", start)
		c.logger.WithError(err).WithField("key", key).Warn("Stored value is not valid JSON")
		return false, err
	}

	c.record("get", "hit", start)
	return true, nil
}

// Set marshals value to JSON and writes it under key with the given TTL
func (c *Client) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	start := time.Now()

	data, err := json.Marshal(value)
	if err != nil {
		c.record("set", "error", start)
		c.logger.WithError(err).WithField("key", key).Warn("Failed to marshal value")
		return err
	}

	if err := c.store.Set(ctx, key, string(data), ttl); err != nil {
		c.record("set", "error", start)
		c.logger.WithError(err).WithField("key", key).Warn("Store set failed")
		return err
	}

	c.record("set", "success", start)
	return nil
}

// Delete removes the value at key
func (c *Client) Delete(ctx context.Context, key string) error {
	start := time.Now()

	if err := c.store.Delete(ctx, key); err != nil {
		c.record("delete", "error", start)
		c.logger.WithError(err).WithField("key", key).Warn("Store delete failed")
		return err
	}

	c.record("delete", "success", start)
	return nil
}

// Ping checks backend connectivity
func (c *Client) Ping(ctx context.Context) error {
	return c.store.Ping(ctx)
}

func (c *Client) record(operation, status string, start time.Time) {
	if c.metrics != nil {
		c.metrics.RecordStoreOperation(operation, status, time.Since(start))
	}
}
