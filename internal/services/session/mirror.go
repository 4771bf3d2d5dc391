package session

import (
	"encoding/json"
	"time"

	"github.com/patrickmn/go-cache"
)

// mirror is the local fallback store. It holds the same JSON documents
// under the same logical keys as the remote store, so a read can be served
// locally when the remote is unreachable. Strictly last-resort: the remote
// store stays authoritative whenever it answers.
type mirror struct {
	cache *cache.Cache
}

func newMirror(cleanupInterval time.Duration) *mirror {
	if cleanupInterval == 0 {
		cleanupInterval = 10 * time.Minute
	}
	return &mirror{
		cache: cache.New(cache.NoExpiration, cleanupInterval),
	}
}

// put stores the JSON form of value under key with the namespace TTL
func (m *mirror) put(key string, value interface{}, ttl time.Duration) {
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	m.cache.Set(key, data, ttl)
}

// get loads the mirrored value at key into dest
func (m *mirror) get(key string, dest interface{}) bool {
	val, found := m.cache.Get(key)
	if !found {
		return false
	}
	data, ok := val.([]byte)
	if !ok {
		return false
	}
	return json.Unmarshal(data, dest) == nil
}

// drop removes a mirrored key
func (m *mirror) drop(key string) {
	m.cache.Delete(key)
}
