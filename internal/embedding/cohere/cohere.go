package cohere

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"resumerag/internal/domain"
)

// Client is a Cohere v1 embed client. Embedding models after v2 require an
// input type; résumé chunks and questions both embed as search documents so
// retrieval stays within a single vector space.
type Client struct {
	baseURL   string
	apiKey    string
	model     string
	inputType string
	client    *http.Client
}

type Config struct {
	BaseURL   string
	APIKeyEnv string
	Model     string
	InputType string
	Timeout   time.Duration
}

func NewClient(cfg Config) (*Client, error) {
	key := os.Getenv(cfg.APIKeyEnv)
	if key == "" {
		return nil, fmt.Errorf("%w: missing API key in env %s", domain.ErrConfig, cfg.APIKeyEnv)
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.cohere.com/v1"
	}
	if cfg.Model == "" {
		cfg.Model = "embed-english-v3.0"
	}
	if cfg.InputType == "" {
		cfg.InputType = "search_document"
	}
	t := cfg.Timeout
	if t == 0 {
		t = 30 * time.Second
	}
	return &Client{
		baseURL:   cfg.BaseURL,
		apiKey:    key,
		model:     cfg.Model,
		inputType: cfg.InputType,
		client:    &http.Client{Timeout: t},
	}, nil
}

// Embed returns one vector per input text, in input order.
func (c *Client) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	body := struct {
		Texts     []string `json:"texts"`
		Model     string   `json:"model"`
		InputType string   `json:"input_type"`
	}{Texts: texts, Model: c.model, InputType: c.inputType}
	data, _ := json.Marshal(body)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/embed", bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrEmbedding, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrEmbedding, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: embed request failed: %s", domain.ErrEmbedding, resp.Status)
	}

	var out struct {
		Embeddings [][]float32 `json:"embeddings"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", domain.ErrEmbedding, err)
	}
	if len(out.Embeddings) != len(texts) {
		return nil, fmt.Errorf("%w: expected %d embeddings, got %d", domain.ErrEmbedding, len(texts), len(out.Embeddings))
	}
	return out.Embeddings, nil
}
