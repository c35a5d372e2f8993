package pipeline

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"resumerag/internal/chunker"
	"resumerag/internal/domain"
	"resumerag/internal/retrieve"
)

const answerTemplate = "Answer the question based only on the following context:\n{context}\n\nQuestion: {question}"

// Config holds the tunables of the QA pipeline.
type Config struct {
	ChunkSize    int
	ChunkOverlap int
	TopK         int
}

func (c Config) withDefaults() Config {
	if c.ChunkSize == 0 {
		c.ChunkSize = 1000
	}
	if c.ChunkOverlap == 0 {
		c.ChunkOverlap = 20
	}
	if c.TopK == 0 {
		c.TopK = 4
	}
	return c
}

// Pipeline answers free-text questions about a document: chunk, embed,
// index, retrieve, prompt, generate. Indexes are cached per document
// content hash, so only the first question about a given résumé pays the
// chunk-embedding cost; a re-submitted résumé hashes differently and gets
// a fresh index.
type Pipeline struct {
	cfg       Config
	chunker   *chunker.FixedChunker
	embedder  domain.Embedder
	builder   domain.IndexBuilder
	retriever *retrieve.Retriever
	generator domain.Generator
	logger    *zap.Logger

	mu      sync.RWMutex
	indexes map[string]domain.Index
}

func New(cfg Config, embedder domain.Embedder, builder domain.IndexBuilder, generator domain.Generator, logger *zap.Logger) (*Pipeline, error) {
	cfg = cfg.withDefaults()
	ch, err := chunker.New(cfg.ChunkSize, cfg.ChunkOverlap)
	if err != nil {
		return nil, err
	}
	if cfg.TopK <= 0 {
		return nil, fmt.Errorf("%w: top-k must be positive, got %d", domain.ErrConfig, cfg.TopK)
	}
	return &Pipeline{
		cfg:       cfg,
		chunker:   ch,
		embedder:  embedder,
		builder:   builder,
		retriever: retrieve.New(embedder),
		generator: generator,
		logger:    logger,
		indexes:   make(map[string]domain.Index),
	}, nil
}

// AnswerQuestion runs the full pipeline for one question and returns the
// generator's output verbatim. Any failure aborts the call; no partial
// answer is produced and nothing is persisted here.
func (p *Pipeline) AnswerQuestion(ctx context.Context, documentText, question string) (string, error) {
	start := time.Now()

	index, err := p.indexFor(ctx, documentText)
	if err != nil {
		return "", err
	}

	chunks, err := p.retriever.Retrieve(ctx, index, question, p.cfg.TopK)
	if err != nil {
		return "", err
	}

	prompt := BuildPrompt(chunks, question)
	answer, err := p.generator.Generate(ctx, prompt)
	if err != nil {
		return "", err
	}

	p.logger.Debug("answered question",
		zap.Int("context_chunks", len(chunks)),
		zap.Int("prompt_length", len(prompt)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return answer, nil
}

// indexFor returns the cached index for the document or builds one.
func (p *Pipeline) indexFor(ctx context.Context, documentText string) (domain.Index, error) {
	key := p.cacheKey(documentText)

	p.mu.RLock()
	index, ok := p.indexes[key]
	p.mu.RUnlock()
	if ok {
		p.logger.Debug("index cache hit", zap.String("key", key))
		return index, nil
	}

	chunks := p.chunker.Split(documentText)
	texts := make([]string, len(chunks))
	for i, ch := range chunks {
		texts[i] = ch.Content
	}

	vectors, err := p.embedder.Embed(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embed chunks: %w", err)
	}
	if len(vectors) != len(chunks) {
		return nil, fmt.Errorf("%w: expected %d vectors, got %d", domain.ErrEmbedding, len(chunks), len(vectors))
	}

	entries := make([]domain.EmbeddedChunk, len(chunks))
	for i := range chunks {
		entries[i] = domain.EmbeddedChunk{Chunk: chunks[i], Vector: vectors[i]}
	}

	index, err = p.builder.Build(ctx, entries)
	if err != nil {
		return nil, fmt.Errorf("build index: %w", err)
	}

	p.mu.Lock()
	// A concurrent builder may have won the race; either index is valid.
	if existing, ok := p.indexes[key]; ok {
		index = existing
	} else {
		p.indexes[key] = index
	}
	p.mu.Unlock()

	p.logger.Debug("built index", zap.String("key", key), zap.Int("chunks", len(chunks)))
	return index, nil
}

// cacheKey covers the text and the chunking parameters; changing either
// must invalidate the cached index.
func (p *Pipeline) cacheKey(documentText string) string {
	h := sha256.New()
	fmt.Fprintf(h, "%d:%d:%d:", p.cfg.ChunkSize, p.cfg.ChunkOverlap, len(documentText))
	h.Write([]byte(documentText))
	return hex.EncodeToString(h.Sum(nil))
}

// BuildPrompt substitutes the retrieved chunks and the question into the
// fixed answering template. Chunks are joined with newlines.
func BuildPrompt(chunks []domain.Chunk, question string) string {
	contents := make([]string, len(chunks))
	for i, ch := range chunks {
		contents[i] = ch.Content
	}
	prompt := strings.ReplaceAll(answerTemplate, "{context}", strings.Join(contents, "\n"))
	return strings.ReplaceAll(prompt, "{question}", question)
}
