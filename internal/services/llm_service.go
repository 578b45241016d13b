package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"hr-assistant/internal/models"
)

// LLMClient is the generation-model collaborator: one synchronous call
// per logical generation.
type LLMClient interface {
	Invoke(ctx context.Context, prompt string) (string, error)
	HealthCheck(ctx context.Context) error
}

// EmbeddingClient is the embedding-model collaborator.
type EmbeddingClient interface {
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}

// LLMService talks to an LM Studio instance over its OpenAI-compatible
// API for both chat completions and embeddings.
type LLMService struct {
	baseURL        string
	model          string
	embeddingModel string
	httpClient     *http.Client
}

// lmStudioChatRequest represents the request format for LM Studio chat API
type lmStudioChatRequest struct {
	Model       string               `json:"model"`
	Messages    []models.ChatMessage `json:"messages"`
	Temperature float64              `json:"temperature"`
	MaxTokens   int                  `json:"max_tokens"`
	Stream      bool                 `json:"stream"`
}

// lmStudioChatResponse represents the response from LM Studio chat API
type lmStudioChatResponse struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Choices []struct {
		Index   int `json:"index"`
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
}

// lmStudioEmbedRequest represents the request format for LM Studio embeddings
type lmStudioEmbedRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

// lmStudioEmbedResponse represents the response from LM Studio embeddings
type lmStudioEmbedResponse struct {
	Data []struct {
		Index     int       `json:"index"`
		Embedding []float32 `json:"embedding"`
	} `json:"data"`
	Model string `json:"model"`
}

// NewLLMService creates a new LM Studio client
func NewLLMService(baseURL, model, embeddingModel string) *LLMService {
	return &LLMService{
		baseURL:        baseURL,
		model:          model,
		embeddingModel: embeddingModel,
		httpClient: &http.Client{
			Timeout: 120 * time.Second, // LLMs can be slow
		},
	}
}

// Invoke sends a single-turn prompt and returns the model's reply text
func (s *LLMService) Invoke(ctx context.Context, prompt string) (string, error) {
	request := lmStudioChatRequest{
		Model: s.model,
		Messages: []models.ChatMessage{
			{Role: "user", Content: prompt},
		},
		Temperature: 0.7,
		MaxTokens:   -1,
		Stream:      false,
	}

	body, err := s.post(ctx, "/chat/completions", request)
	if err != nil {
		return "", err
	}

	var response lmStudioChatResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return "", fmt.Errorf("failed to parse LM Studio response: %w", err)
	}

	if len(response.Choices) == 0 {
		return "", fmt.Errorf("LM Studio returned no choices")
	}

	return response.Choices[0].Message.Content, nil
}

// EmbedQuery generates an embedding for a single search query
func (s *LLMService) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	embeddings, err := s.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	if len(embeddings) == 0 {
		return nil, fmt.Errorf("no embedding returned")
	}
	return embeddings[0], nil
}

// EmbedBatch generates embeddings for multiple texts in one call
func (s *LLMService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	request := lmStudioEmbedRequest{
		Model: s.embeddingModel,
		Input: texts,
	}

	body, err := s.post(ctx, "/embeddings", request)
	if err != nil {
		return nil, err
	}

	var response lmStudioEmbedResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("failed to parse embeddings response: %w", err)
	}

	if len(response.Data) != len(texts) {
		return nil, fmt.Errorf("expected %d embeddings, got %d", len(texts), len(response.Data))
	}

	embeddings := make([][]float32, len(response.Data))
	for _, d := range response.Data {
		if d.Index < 0 || d.Index >= len(embeddings) {
			return nil, fmt.Errorf("embedding index %d out of range", d.Index)
		}
		embeddings[d.Index] = d.Embedding
	}

	return embeddings, nil
}

// HealthCheck verifies LM Studio is reachable
func (s *LLMService) HealthCheck(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/models", nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("LM Studio unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("LM Studio returned status %d", resp.StatusCode)
	}

	return nil
}

// post sends a JSON request to LM Studio and returns the raw response body
func (s *LLMService) post(ctx context.Context, path string, payload interface{}) ([]byte, error) {
	jsonBody, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+path, bytes.NewBuffer(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request to LM Studio: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("LM Studio returned status %d: %s", resp.StatusCode, string(body))
	}

	return body, nil
}
