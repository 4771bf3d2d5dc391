package session

import (
	"context"

	"github.com/kyartuvzgo/kyartu-bot/internal/models"
)

// GetCachedSearch returns the cached results for a query, if an unexpired
// entry exists. Entries are never refreshed in place; after expiry the
// next identical query re-fetches.
func (m *Manager) GetCachedSearch(ctx context.Context, query string) (*models.SearchCacheEntry, bool) {
	var entry models.SearchCacheEntry
	if !m.load(ctx, NamespaceSearch, ScopeQuery, SearchKey(query), &entry) {
		return nil, false
	}
	return &entry, true
}

// SaveSearchResults caches the results of a query under its hash.
func (m *Manager) SaveSearchResults(ctx context.Context, query string, results models.SearchResults, source string) bool {
	entry := models.SearchCacheEntry{
		Query:    query,
		Results:  results,
		Source:   source,
		CachedAt: m.now().UnixMilli(),
	}
	return m.save(ctx, NamespaceSearch, ScopeQuery, SearchKey(query), &entry)
}
