package main

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"resumerag/internal/config"
	"resumerag/internal/domain"
	"resumerag/internal/embedding/cohere"
	"resumerag/internal/embedding/openai"
	"resumerag/internal/generate/anthropic"
	"resumerag/internal/generate/gemini"
	"resumerag/internal/pipeline"
	"resumerag/internal/vectorindex/chromem"
	"resumerag/internal/vectorindex/memory"
	"resumerag/internal/vectorindex/qdrant"
)

func buildEmbedder(cfg config.EmbedderConfig) (domain.Embedder, error) {
	switch cfg.Type {
	case "cohere":
		c := cfg.Cohere
		if c == nil {
			c = &config.CohereEmbedderConfig{}
		}
		return cohere.NewClient(cohere.Config{
			BaseURL:   c.BaseURL,
			APIKeyEnv: c.APIKeyEnv,
			Model:     c.Model,
			InputType: c.InputType,
			Timeout:   time.Duration(c.TimeoutSecs) * time.Second,
		})
	case "openai":
		c := cfg.OpenAI
		if c == nil {
			c = &config.OpenAIEmbedderConfig{}
		}
		return openai.NewClient(openai.Config{
			BaseURL:    c.BaseURL,
			APIKeyEnv:  c.APIKeyEnv,
			Model:      c.Model,
			Timeout:    time.Duration(c.TimeoutSecs) * time.Second,
			MaxRetries: c.MaxRetries,
		})
	default:
		return nil, fmt.Errorf("%w: unknown embedder type %q", domain.ErrConfig, cfg.Type)
	}
}

func buildGenerator(ctx context.Context, cfg config.GeneratorConfig) (domain.Generator, error) {
	switch cfg.Type {
	case "anthropic":
		c := cfg.Anthropic
		if c == nil {
			c = &config.AnthropicGeneratorConfig{}
		}
		return anthropic.NewClient(anthropic.Config{
			BaseURL:    c.BaseURL,
			APIKeyEnv:  c.APIKeyEnv,
			Model:      c.Model,
			MaxTokens:  c.MaxTokens,
			Timeout:    time.Duration(c.TimeoutSecs) * time.Second,
			MaxRetries: c.MaxRetries,
		})
	case "gemini":
		c := cfg.Gemini
		if c == nil {
			c = &config.GeminiGeneratorConfig{}
		}
		return gemini.NewGenerator(ctx, gemini.Config{
			APIKeyEnv: c.APIKeyEnv,
			Model:     c.Model,
		})
	default:
		return nil, fmt.Errorf("%w: unknown generator type %q", domain.ErrConfig, cfg.Type)
	}
}

func buildIndexBuilder(cfg config.IndexConfig) (domain.IndexBuilder, error) {
	switch cfg.Type {
	case "memory":
		return memory.NewBuilder(), nil
	case "chromem":
		return chromem.NewBuilder(cfg.Path)
	case "qdrant":
		q := cfg.Qdrant
		if q == nil {
			q = &config.QdrantIndexConfig{}
		}
		return qdrant.NewBuilder(qdrant.Config{
			URL:     q.URL,
			APIKey:  q.APIKey,
			Timeout: time.Duration(q.TimeoutSecs) * time.Second,
		})
	default:
		return nil, fmt.Errorf("%w: unknown index type %q", domain.ErrConfig, cfg.Type)
	}
}

func buildPipeline(ctx context.Context, cfg *config.AppConfig, log *zap.Logger) (*pipeline.Pipeline, error) {
	embedder, err := buildEmbedder(cfg.Embedder)
	if err != nil {
		return nil, fmt.Errorf("init embedder: %w", err)
	}
	generator, err := buildGenerator(ctx, cfg.Generator)
	if err != nil {
		return nil, fmt.Errorf("init generator: %w", err)
	}
	builder, err := buildIndexBuilder(cfg.Index)
	if err != nil {
		return nil, fmt.Errorf("init index builder: %w", err)
	}
	return pipeline.New(pipeline.Config{
		ChunkSize:    cfg.Pipeline.ChunkSize,
		ChunkOverlap: cfg.Pipeline.ChunkOverlap,
		TopK:         cfg.Pipeline.TopK,
	}, embedder, builder, generator, log)
}
