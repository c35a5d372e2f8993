package config

import (
	"errors"
	"os"

	"gopkg.in/yaml.v3"
)

// ServerConfig configures the HTTP surface.
type ServerConfig struct {
	Listen      string `yaml:"listen"`
	MaxUploadMB int    `yaml:"max_upload_mb"`
}

// PipelineConfig configures chunking and retrieval.
type PipelineConfig struct {
	ChunkSize    int `yaml:"chunk_size"`
	ChunkOverlap int `yaml:"chunk_overlap"`
	TopK         int `yaml:"top_k"`
}

// OpenAIEmbedderConfig holds configuration for the OpenAI-compatible embedder.
type OpenAIEmbedderConfig struct {
	BaseURL     string `yaml:"base_url"`
	APIKeyEnv   string `yaml:"api_key_env"`
	Model       string `yaml:"model"`
	TimeoutSecs int    `yaml:"timeout_secs"`
	MaxRetries  int    `yaml:"max_retries"`
}

// CohereEmbedderConfig holds configuration for the Cohere embedder.
type CohereEmbedderConfig struct {
	BaseURL     string `yaml:"base_url"`
	APIKeyEnv   string `yaml:"api_key_env"`
	Model       string `yaml:"model"`
	InputType   string `yaml:"input_type"`
	TimeoutSecs int    `yaml:"timeout_secs"`
}

// EmbedderConfig selects and configures the embedder backend.
type EmbedderConfig struct {
	Type   string                `yaml:"type"`
	OpenAI *OpenAIEmbedderConfig `yaml:"openai,omitempty"`
	Cohere *CohereEmbedderConfig `yaml:"cohere,omitempty"`
}

// AnthropicGeneratorConfig holds configuration for the Anthropic generator.
type AnthropicGeneratorConfig struct {
	BaseURL     string `yaml:"base_url"`
	APIKeyEnv   string `yaml:"api_key_env"`
	Model       string `yaml:"model"`
	MaxTokens   int    `yaml:"max_tokens"`
	TimeoutSecs int    `yaml:"timeout_secs"`
	MaxRetries  int    `yaml:"max_retries"`
}

// GeminiGeneratorConfig holds configuration for the Gemini generator.
type GeminiGeneratorConfig struct {
	APIKeyEnv string `yaml:"api_key_env"`
	Model     string `yaml:"model"`
}

// GeneratorConfig selects and configures the answer generator backend.
type GeneratorConfig struct {
	Type      string                    `yaml:"type"`
	Anthropic *AnthropicGeneratorConfig `yaml:"anthropic,omitempty"`
	Gemini    *GeminiGeneratorConfig    `yaml:"gemini,omitempty"`
}

// QdrantIndexConfig contains connection details for a Qdrant index backend.
type QdrantIndexConfig struct {
	URL         string `yaml:"url"`
	APIKey      string `yaml:"api_key"`
	TimeoutSecs int    `yaml:"timeout_secs"`
}

// IndexConfig selects and configures the vector index backend.
type IndexConfig struct {
	Type   string             `yaml:"type"`
	Path   string             `yaml:"path,omitempty"`
	Qdrant *QdrantIndexConfig `yaml:"qdrant,omitempty"`
}

// ScoringConfig configures the shortlist policy.
type ScoringConfig struct {
	Threshold float64 `yaml:"threshold"`
	Marker    string  `yaml:"marker"`
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	Server    ServerConfig    `yaml:"server"`
	DataDir   string          `yaml:"data_dir"`
	Pipeline  PipelineConfig  `yaml:"pipeline"`
	Embedder  EmbedderConfig  `yaml:"embedder"`
	Generator GeneratorConfig `yaml:"generator"`
	Index     IndexConfig     `yaml:"index"`
	Scoring   ScoringConfig   `yaml:"scoring"`
}

// Load reads a config from a specified path. If the file does not exist,
// returns defaults.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg := defaultConfig()
			return cfg, nil
		}
		return nil, err
	}
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	applyDefaults(&cfg)
	return &cfg, nil
}

func defaultConfig() *AppConfig {
	cfg := &AppConfig{}
	applyDefaults(cfg)
	return cfg
}

func applyDefaults(cfg *AppConfig) {
	if cfg.Server.Listen == "" {
		cfg.Server.Listen = ":5000"
	}
	if cfg.Server.MaxUploadMB == 0 {
		cfg.Server.MaxUploadMB = 10
	}
	if cfg.DataDir == "" {
		cfg.DataDir = "./data"
	}
	if cfg.Pipeline.ChunkSize == 0 {
		cfg.Pipeline.ChunkSize = 1000
	}
	if cfg.Pipeline.ChunkOverlap == 0 {
		cfg.Pipeline.ChunkOverlap = 20
	}
	if cfg.Pipeline.TopK == 0 {
		cfg.Pipeline.TopK = 4
	}
	if cfg.Embedder.Type == "" {
		cfg.Embedder.Type = "cohere"
	}
	if cfg.Embedder.Type == "cohere" && cfg.Embedder.Cohere == nil {
		cfg.Embedder.Cohere = &CohereEmbedderConfig{}
	}
	if cfg.Embedder.Cohere != nil && cfg.Embedder.Cohere.APIKeyEnv == "" {
		cfg.Embedder.Cohere.APIKeyEnv = "COHERE_API_KEY"
	}
	if cfg.Embedder.Type == "openai" && cfg.Embedder.OpenAI == nil {
		cfg.Embedder.OpenAI = &OpenAIEmbedderConfig{}
	}
	if cfg.Embedder.OpenAI != nil && cfg.Embedder.OpenAI.APIKeyEnv == "" {
		cfg.Embedder.OpenAI.APIKeyEnv = "OPENAI_API_KEY"
	}
	if cfg.Generator.Type == "" {
		cfg.Generator.Type = "anthropic"
	}
	if cfg.Generator.Type == "anthropic" && cfg.Generator.Anthropic == nil {
		cfg.Generator.Anthropic = &AnthropicGeneratorConfig{}
	}
	if cfg.Generator.Anthropic != nil && cfg.Generator.Anthropic.APIKeyEnv == "" {
		cfg.Generator.Anthropic.APIKeyEnv = "ANTHROPIC_API_KEY"
	}
	if cfg.Generator.Type == "gemini" && cfg.Generator.Gemini == nil {
		cfg.Generator.Gemini = &GeminiGeneratorConfig{}
	}
	if cfg.Generator.Gemini != nil && cfg.Generator.Gemini.APIKeyEnv == "" {
		cfg.Generator.Gemini.APIKeyEnv = "GEMINI_API_KEY"
	}
	if cfg.Index.Type == "" {
		cfg.Index.Type = "memory"
	}
	if cfg.Scoring.Threshold == 0 {
		cfg.Scoring.Threshold = 60
	}
	if cfg.Scoring.Marker == "" {
		cfg.Scoring.Marker = "Unfortunately"
	}
}
