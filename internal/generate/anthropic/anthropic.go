package anthropic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"resumerag/internal/domain"
)

const apiVersion = "2023-06-01"

// Client calls the Anthropic messages API with a single user message and
// returns the concatenated text blocks of the reply.
type Client struct {
	baseURL    string
	apiKey     string
	model      string
	maxTokens  int
	client     *http.Client
	maxRetries int
}

type Config struct {
	BaseURL    string
	APIKeyEnv  string
	Model      string
	MaxTokens  int
	Timeout    time.Duration
	MaxRetries int
}

func NewClient(cfg Config) (*Client, error) {
	key := os.Getenv(cfg.APIKeyEnv)
	if key == "" {
		return nil, fmt.Errorf("%w: missing API key in env %s", domain.ErrConfig, cfg.APIKeyEnv)
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.anthropic.com"
	}
	if cfg.Model == "" {
		cfg.Model = "claude-3-haiku-20240307"
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 1024
	}
	t := cfg.Timeout
	if t == 0 {
		t = 60 * time.Second
	}
	retries := cfg.MaxRetries
	if retries < 0 {
		retries = 0
	}
	return &Client{
		baseURL:    cfg.BaseURL,
		apiKey:     key,
		model:      cfg.Model,
		maxTokens:  cfg.MaxTokens,
		client:     &http.Client{Timeout: t},
		maxRetries: retries,
	}, nil
}

// Generate sends the prompt and returns the model's reply verbatim.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	type message struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	}
	body := struct {
		Model     string    `json:"model"`
		MaxTokens int       `json:"max_tokens"`
		Messages  []message `json:"messages"`
	}{
		Model:     c.model,
		MaxTokens: c.maxTokens,
		Messages:  []message{{Role: "user", Content: prompt}},
	}
	data, _ := json.Marshal(body)
	url := c.baseURL + "/v1/messages"

	for attempt := 0; ; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
		if err != nil {
			return "", fmt.Errorf("%w: %v", domain.ErrGeneration, err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("x-api-key", c.apiKey)
		req.Header.Set("anthropic-version", apiVersion)

		resp, err := c.client.Do(req)
		if err != nil {
			if attempt < c.maxRetries {
				time.Sleep(retryDelay(attempt))
				continue
			}
			return "", fmt.Errorf("%w: %v", domain.ErrGeneration, err)
		}

		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			_ = resp.Body.Close()
			if attempt < c.maxRetries {
				time.Sleep(retryDelay(attempt))
				continue
			}
			return "", fmt.Errorf("%w: messages request failed: %s", domain.ErrGeneration, resp.Status)
		}

		if resp.StatusCode >= 300 {
			_ = resp.Body.Close()
			return "", fmt.Errorf("%w: messages request failed: %s", domain.ErrGeneration, resp.Status)
		}

		var out struct {
			Content []struct {
				Type string `json:"type"`
				Text string `json:"text"`
			} `json:"content"`
		}
		err = json.NewDecoder(resp.Body).Decode(&out)
		_ = resp.Body.Close()
		if err != nil {
			return "", fmt.Errorf("%w: decode response: %v", domain.ErrGeneration, err)
		}

		var b strings.Builder
		for _, block := range out.Content {
			if block.Type != "text" {
				continue
			}
			b.WriteString(block.Text)
		}
		if b.Len() == 0 {
			return "", fmt.Errorf("%w: empty response", domain.ErrGeneration)
		}
		return b.String(), nil
	}
}

func retryDelay(attempt int) time.Duration {
	if attempt < 0 {
		attempt = 0
	}
	base := 200 * time.Millisecond
	d := base << attempt
	if d > 5*time.Second {
		d = 5 * time.Second
	}
	return d
}
