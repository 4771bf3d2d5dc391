package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/kyartuvzgo/kyartu-bot/internal/config"
	"github.com/kyartuvzgo/kyartu-bot/internal/middleware"
	"github.com/kyartuvzgo/kyartu-bot/internal/models"
	"github.com/kyartuvzgo/kyartu-bot/internal/services/session"
	"github.com/sirupsen/logrus"
)

// Service performs web searches with a cache in front
type Service interface {
	Search(ctx context.Context, query string) (*models.SearchResults, error)
}

// Client is a search client fronted by the session search cache: an
// unexpired repeat query never reaches the backend.
type Client struct {
	enabled    bool
	baseURL    string
	apiKey     string
	depth      string
	maxResults int
	httpClient *http.Client
	sessions   *session.Manager
	metrics    *middleware.Metrics
	logger     *logrus.Logger
}

// NewClient creates a cached search client
func NewClient(cfg *config.SearchConfig, sessions *session.Manager, metrics *middleware.Metrics, logger *logrus.Logger) Service {
	if !cfg.Enabled {
		return &Client{enabled: false}
	}

	depth := cfg.Depth
	if depth == "" {
		depth = "basic"
	}
	maxResults := cfg.MaxResults
	if maxResults == 0 {
		maxResults = 5
	}

	return &Client{
		enabled:    true,
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		depth:      depth,
		maxResults: maxResults,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		sessions:   sessions,
		metrics:    metrics,
		logger:     logger,
	}
}

// Search returns results for a query, serving from cache when possible
func (c *Client) Search(ctx context.Context, query string) (*models.SearchResults, error) {
	if !c.enabled {
		return nil, fmt.Errorf("search is disabled")
	}

	if entry, ok := c.sessions.GetCachedSearch(ctx, query); ok {
		if c.metrics != nil {
			c.metrics.RecordSearchCacheHit()
		}
		c.logger.WithFields(logrus.Fields{
			"query": query,
			"age":   time.Since(time.UnixMilli(entry.CachedAt)),
		}).Debug("Search cache hit")
		return &entry.Results, nil
	}
	if c.metrics != nil {
		c.metrics.RecordSearchCacheMiss()
	}

	results, err := c.fetch(ctx, query)
	if err != nil {
		return nil, err
	}

	c.sessions.SaveSearchResults(ctx, query, *results, c.baseURL)
	return results, nil
}

func (c *Client) fetch(ctx context.Context, query string) (*models.SearchResults, error) {
	reqBody := map[string]interface{}{
		"query":          query,
		"search_depth":   c.depth,
		"max_results":    c.maxResults,
		"include_answer": true,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/search", bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.apiKey))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search failed with status %d: %s", resp.StatusCode, string(body))
	}

	var results models.SearchResults
	if err := json.Unmarshal(body, &results); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	c.logger.WithFields(logrus.Fields{
		"query":   query,
		"results": len(results.Results),
	}).Debug("Search completed")

	return &results, nil
}
