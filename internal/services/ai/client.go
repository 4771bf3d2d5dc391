package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/kyartuvzgo/kyartu-bot/internal/config"
	"github.com/kyartuvzgo/kyartu-bot/internal/models"
	"github.com/sirupsen/logrus"
)

// errPermanent marks failures that retrying cannot fix
var errPermanent = errors.New("permanent failure")

// Service represents the AI completion service interface
type Service interface {
	GetResponse(ctx context.Context, messages []models.Message, modelID string) (string, error)
	GetAvailableModels() []ModelOption
	GetModelByID(modelID string) (*ModelOption, error)
}

// ModelOption represents a model option with endpoint info
type ModelOption struct {
	ID           string
	Name         string
	EndpointName string
	MaxTokens    int
}

// Client talks to OpenAI-compatible chat-completion endpoints
type Client struct {
	config     *config.ModelsConfig
	endpoints  map[string]*config.ModelEndpoint
	models     map[string]*ModelOption
	httpClient *http.Client
	logger     *logrus.Logger
}

// NewClient creates a completion client over the configured endpoints
func NewClient(cfg *config.ModelsConfig, logger *logrus.Logger) Service {
	endpoints := make(map[string]*config.ModelEndpoint)
	modelTable := make(map[string]*ModelOption)

	for i := range cfg.Endpoints {
		endpoint := &cfg.Endpoints[i]
		endpoints[endpoint.Name] = endpoint

		for j := range endpoint.Models {
			model := &endpoint.Models[j]
			modelTable[model.ID] = &ModelOption{
				ID:           model.ID,
				Name:         model.Name,
				EndpointName: endpoint.Name,
				MaxTokens:    model.MaxTokens,
			}
		}
	}

	logger.WithFields(logrus.Fields{
		"endpoints": len(endpoints),
		"models":    len(modelTable),
	}).Info("AI service initialized")

	return &Client{
		config:    cfg,
		endpoints: endpoints,
		models:    modelTable,
		httpClient: &http.Client{
			Timeout: 120 * time.Second,
		},
		logger: logger,
	}
}

// GetResponse gets an AI response with retry and exponential backoff
func (s *Client) GetResponse(ctx context.Context, messages []models.Message, modelID string) (string, error) {
	const maxRetries = 3
	var lastErr error

	for attempt := 1; attempt <= maxRetries; attempt++ {
		response, err := s.getResponseOnce(ctx, messages, modelID, attempt)
		if err == nil {
			return response, nil
		}
		if errors.Is(err, errPermanent) {
			return "", err
		}

		lastErr = err
		s.logger.WithFields(logrus.Fields{
			"attempt": attempt,
			"error":   err.Error(),
			"modelID": modelID,
		}).Warn("AI request failed, retrying...")

		if attempt < maxRetries {
			// Exponential backoff: 2s, 4s
			waitTime := time.Duration(2<<uint(attempt-1)) * time.Second
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(waitTime):
			}
		}
	}

	return "", fmt.Errorf("all retry attempts failed: %w", lastErr)
}

func (s *Client) getResponseOnce(ctx context.Context, messages []models.Message, modelID string, attempt int) (string, error) {
	modelOption, err := s.GetModelByID(modelID)
	if err != nil {
		return "", fmt.Errorf("%w: %v", errPermanent, err)
	}

	endpoint, exists := s.endpoints[modelOption.EndpointName]
	if !exists {
		return "", fmt.Errorf("%w: endpoint not found: %s", errPermanent, modelOption.EndpointName)
	}

	openAIMessages := make([]map[string]string, len(messages))
	for i, msg := range messages {
		openAIMessages[i] = map[string]string{
			"role":    msg.Role,
			"content": msg.Content,
		}
	}

	reqBody := map[string]interface{}{
		"model":       modelID,
		"messages":    openAIMessages,
		"max_tokens":  modelOption.MaxTokens,
		"temperature": 0.9,
		"top_p":       0.95,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	reqCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	url := fmt.Sprintf("%s/chat/completions", strings.TrimSuffix(endpoint.BaseURL, "/"))
	req, err := http.NewRequestWithContext(reqCtx, "POST", url, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", endpoint.APIKey))

	s.logger.WithFields(logrus.Fields{
		"model":    modelID,
		"endpoint": endpoint.Name,
		"attempt":  attempt,
	}).Debug("Sending AI request")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		s.logger.WithFields(logrus.Fields{
			"status":  resp.StatusCode,
			"body":    string(body),
			"attempt": attempt,
		}).Error("AI request failed")

		// Don't retry client errors
		if resp.StatusCode >= 400 && resp.StatusCode < 500 {
			return "", fmt.Errorf("%w: AI request failed with client error %d: %s", errPermanent, resp.StatusCode, string(body))
		}

		return "", fmt.Errorf("AI request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}

	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}

	if result.Error.Message != "" {
		return "", fmt.Errorf("AI error: %s", result.Error.Message)
	}

	if len(result.Choices) == 0 || result.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("no response from AI")
	}

	return result.Choices[0].Message.Content, nil
}

// GetAvailableModels returns all available models
func (s *Client) GetAvailableModels() []ModelOption {
	options := make([]ModelOption, 0, len(s.models))
	for _, model := range s.models {
		options = append(options, *model)
	}
	return options
}

// GetModelByID returns a model by its ID
func (s *Client) GetModelByID(modelID string) (*ModelOption, error) {
	model, exists := s.models[modelID]
	if !exists {
		return nil, fmt.Errorf("model not found: %s", modelID)
	}
	return model, nil
}
