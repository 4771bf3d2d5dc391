// Package session is the namespaced, TTL-keyed cache layer: a fixed
// namespace/TTL policy, one accessor pair per entity, and a local fallback
// mirror consulted when the remote store is unreachable.
package session

import (
	"fmt"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
)

// Key namespaces. Every cache key is "<namespace>:<scope>:<id>".
const (
	NamespaceChat        = "chat"
	NamespaceSession     = "session"
	NamespaceRespect     = "respect"
	NamespaceMood        = "mood"
	NamespaceSearch      = "search"
	NamespaceJokes       = "jokes"
	NamespaceReactions   = "reactions"
	NamespacePrefs       = "prefs"
	NamespaceModeration  = "moderation"
	NamespaceLastSeen    = "lastseen"
	NamespaceCallAttempt = "callattempt"
)

// Key scopes.
const (
	ScopeSession = "session"
	ScopeUser    = "user"
	ScopeMessage = "message"
	ScopeQuery   = "query"
)

// ttlTable is the single source of truth for expiration policy. Accessors
// must look TTLs up here rather than hard-coding durations.
var ttlTable = map[string]time.Duration{
	NamespaceChat:        24 * time.Hour,
	NamespaceSession:     24 * time.Hour,
	NamespaceRespect:     7 * 24 * time.Hour,
	NamespaceMood:        7 * 24 * time.Hour,
	NamespaceSearch:      time.Hour,
	NamespaceJokes:       3 * 24 * time.Hour,
	NamespaceReactions:   7 * 24 * time.Hour,
	NamespacePrefs:       30 * 24 * time.Hour,
	NamespaceModeration:  24 * time.Hour,
	NamespaceLastSeen:    7 * 24 * time.Hour,
	NamespaceCallAttempt: 7 * 24 * time.Hour,
}

// CallCooldown is the minimum gap between two phone-call invocations.
// Handlers read it from here so the cooldown window and the cache TTL
// cannot drift apart.
const CallCooldown = time.Hour

// TTL returns the expiration for a namespace.
func TTL(namespace string) time.Duration {
	ttl, ok := ttlTable[namespace]
	if !ok {
		// Unknown namespaces expire quickly rather than lingering
		return time.Hour
	}
	return ttl
}

// Key builds the cache key for a namespace, scope and identifier.
func Key(namespace, scope, id string) string {
	return fmt.Sprintf("%s:%s:%s", namespace, scope, id)
}

// SearchKey derives the deterministic cache-key fragment for a search
// query: xxhash64 of the lower-cased, whitespace-collapsed query text.
// Not cryptographic; collisions only cost an extra search call.
func SearchKey(query string) string {
	normalized := strings.Join(strings.Fields(strings.ToLower(query)), " ")
	return fmt.Sprintf("%016x", xxhash.Sum64String(normalized))
}
