package qdrant

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"resumerag/internal/domain"
)

// Builder keeps indexes in a Qdrant instance over its REST API, one
// collection per document content hash with cosine distance. Upserts are
// idempotent, so rebuilding an unchanged document is a cheap no-op
// server-side.
type Builder struct {
	url    string
	apiKey string
	client *http.Client
}

type Config struct {
	URL     string
	APIKey  string
	Timeout time.Duration
}

func NewBuilder(cfg Config) (*Builder, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("%w: qdrant url is required", domain.ErrConfig)
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	return &Builder{
		url:    cfg.URL,
		apiKey: cfg.APIKey,
		client: &http.Client{Timeout: timeout},
	}, nil
}

func (b *Builder) Build(ctx context.Context, entries []domain.EmbeddedChunk) (domain.Index, error) {
	if len(entries) == 0 {
		return nil, domain.ErrEmptyIndex
	}
	dim := len(entries[0].Vector)
	for i, e := range entries {
		if len(e.Vector) != dim {
			return nil, fmt.Errorf("%w: vector %d has dimension %d, want %d", domain.ErrConfig, i, len(e.Vector), dim)
		}
	}

	name := collectionName(entries)
	createBody := map[string]any{
		"vectors": map[string]any{
			"size":     dim,
			"distance": "Cosine",
		},
	}
	if err := b.putJSON(ctx, fmt.Sprintf("%s/collections/%s", b.url, name), createBody); err != nil {
		// Qdrant answers 409 when the collection already exists with the
		// same schema, which is the cache-hit path.
		var se *statusError
		if !errors.As(err, &se) || se.code != http.StatusConflict {
			return nil, err
		}
	}

	points := make([]map[string]any, len(entries))
	for i, e := range entries {
		points[i] = map[string]any{
			"id":     e.Chunk.Index,
			"vector": e.Vector,
			"payload": map[string]any{
				"index":   e.Chunk.Index,
				"content": e.Chunk.Content,
			},
		}
	}
	upsert := map[string]any{"points": points}
	if err := b.putJSON(ctx, fmt.Sprintf("%s/collections/%s/points?wait=true", b.url, name), upsert); err != nil {
		return nil, err
	}

	return &index{builder: b, collection: name, size: len(entries)}, nil
}

type index struct {
	builder    *Builder
	collection string
	size       int
}

func (ix *index) Search(ctx context.Context, vector []float32, k int) ([]domain.SearchResult, error) {
	if k <= 0 {
		return nil, fmt.Errorf("%w: top-k must be positive, got %d", domain.ErrConfig, k)
	}
	if k > ix.size {
		k = ix.size
	}
	req := map[string]any{
		"vector":       vector,
		"limit":        k,
		"with_payload": true,
	}
	var resp struct {
		Result []struct {
			Score   float64        `json:"score"`
			Payload map[string]any `json:"payload"`
		} `json:"result"`
	}
	url := fmt.Sprintf("%s/collections/%s/points/search", ix.builder.url, ix.collection)
	if err := ix.builder.postJSON(ctx, url, req, &resp); err != nil {
		return nil, err
	}
	results := make([]domain.SearchResult, 0, len(resp.Result))
	for _, r := range resp.Result {
		chunk := domain.Chunk{}
		if v, ok := r.Payload["content"].(string); ok {
			chunk.Content = v
		}
		if v, ok := r.Payload["index"].(float64); ok {
			chunk.Index = int(v)
		}
		results = append(results, domain.SearchResult{Chunk: chunk, Score: r.Score})
	}
	return results, nil
}

func collectionName(entries []domain.EmbeddedChunk) string {
	h := sha256.New()
	for _, e := range entries {
		h.Write([]byte(e.Chunk.Content))
		h.Write([]byte{0})
	}
	return "resume_" + hex.EncodeToString(h.Sum(nil))[:16]
}

type statusError struct {
	code   int
	method string
	url    string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("qdrant %s %s failed: status %d", e.method, e.url, e.code)
}

func (b *Builder) putJSON(ctx context.Context, url string, body any) error {
	data, _ := json.Marshal(body)
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if b.apiKey != "" {
		req.Header.Set("api-key", b.apiKey)
	}
	resp, err := b.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return &statusError{code: resp.StatusCode, method: http.MethodPut, url: url}
	}
	return nil
}

func (b *Builder) postJSON(ctx context.Context, url string, body, out any) error {
	data, _ := json.Marshal(body)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if b.apiKey != "" {
		req.Header.Set("api-key", b.apiKey)
	}
	resp, err := b.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return &statusError{code: resp.StatusCode, method: http.MethodPost, url: url}
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}
