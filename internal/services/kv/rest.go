package kv

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/kyartuvzgo/kyartu-bot/internal/config"
	"github.com/sirupsen/logrus"
)

// RESTStore implements Store against an HTTP key-value service:
// GET  /get?key=<key>            -> {"value": string|null}
// POST /set  {key, value, ttl}   -> {"success": bool}
// POST /delete  {key}            -> {"success": bool}
type RESTStore struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     *logrus.Logger
}

// NewRESTStore creates a store client for the HTTP backend
func NewRESTStore(cfg *config.RestConfig, logger *logrus.Logger) *RESTStore {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}

	return &RESTStore{
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		token:      cfg.Token,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

func (s *RESTStore) Get(ctx context.Context, key string) (string, error) {
	endpoint := fmt.Sprintf("%s/get?key=%s", s.baseURL, url.QueryEscape(key))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	s.setHeaders(req)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return "", ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("kv get failed with status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	var result struct {
		Value *string `json:"value"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}

	if result.Value == nil {
		return "", ErrNotFound
	}
	return *result.Value, nil
}

func (s *RESTStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	payload := map[string]interface{}{
		"key":   key,
		"value": value,
	}
	if ttl > 0 {
		payload["ttl"] = int64(ttl.Seconds())
	}
	return s.post(ctx, "/set", payload)
}

func (s *RESTStore) Delete(ctx context.Context, key string) error {
	return s.post(ctx, "/delete", map[string]interface{}{"key": key})
}

func (s *RESTStore) Ping(ctx context.Context) error {
	_, err := s.Get(ctx, "ping")
	if err == ErrNotFound {
		return nil
	}
	return err
}

func (s *RESTStore) post(ctx context.Context, path string, payload map[string]interface{}) error {
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+path, bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	s.setHeaders(req)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("kv %s failed with status %d: %s", path, resp.StatusCode, string(body))
	}

	var result struct {
		Success bool `json:"success"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	if !result.Success {
		return fmt.Errorf("kv %s reported failure", path)
	}

	return nil
}

func (s *RESTStore) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	if s.token != "" {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", s.token))
	}
}
