package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, ":5000", cfg.Server.Listen)
	assert.Equal(t, 10, cfg.Server.MaxUploadMB)
	assert.Equal(t, "./data", cfg.DataDir)
	assert.Equal(t, 1000, cfg.Pipeline.ChunkSize)
	assert.Equal(t, 20, cfg.Pipeline.ChunkOverlap)
	assert.Equal(t, 4, cfg.Pipeline.TopK)
	assert.Equal(t, "cohere", cfg.Embedder.Type)
	require.NotNil(t, cfg.Embedder.Cohere)
	assert.Equal(t, "COHERE_API_KEY", cfg.Embedder.Cohere.APIKeyEnv)
	assert.Equal(t, "anthropic", cfg.Generator.Type)
	require.NotNil(t, cfg.Generator.Anthropic)
	assert.Equal(t, "ANTHROPIC_API_KEY", cfg.Generator.Anthropic.APIKeyEnv)
	assert.Equal(t, "memory", cfg.Index.Type)
	assert.Equal(t, 60.0, cfg.Scoring.Threshold)
	assert.Equal(t, "Unfortunately", cfg.Scoring.Marker)
}

func TestLoadFile(t *testing.T) {
	raw := `
server:
  listen: ":8080"
data_dir: /var/lib/resumerag
pipeline:
  chunk_size: 500
  chunk_overlap: 50
  top_k: 6
embedder:
  type: openai
  openai:
    model: text-embedding-3-large
generator:
  type: gemini
  gemini:
    model: gemini-2.5-pro
index:
  type: qdrant
  qdrant:
    url: http://localhost:6333
scoring:
  threshold: 75
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Listen)
	assert.Equal(t, "/var/lib/resumerag", cfg.DataDir)
	assert.Equal(t, 500, cfg.Pipeline.ChunkSize)
	assert.Equal(t, 50, cfg.Pipeline.ChunkOverlap)
	assert.Equal(t, 6, cfg.Pipeline.TopK)

	assert.Equal(t, "openai", cfg.Embedder.Type)
	require.NotNil(t, cfg.Embedder.OpenAI)
	assert.Equal(t, "text-embedding-3-large", cfg.Embedder.OpenAI.Model)
	assert.Equal(t, "OPENAI_API_KEY", cfg.Embedder.OpenAI.APIKeyEnv)

	assert.Equal(t, "gemini", cfg.Generator.Type)
	require.NotNil(t, cfg.Generator.Gemini)
	assert.Equal(t, "GEMINI_API_KEY", cfg.Generator.Gemini.APIKeyEnv)

	assert.Equal(t, "qdrant", cfg.Index.Type)
	require.NotNil(t, cfg.Index.Qdrant)
	assert.Equal(t, "http://localhost:6333", cfg.Index.Qdrant.URL)

	assert.Equal(t, 75.0, cfg.Scoring.Threshold)
	assert.Equal(t, "Unfortunately", cfg.Scoring.Marker)
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [not a mapping"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}
