package retrieve

import (
	"context"
	"fmt"

	"resumerag/internal/domain"
)

// Retriever embeds a question and returns the most similar chunks from an
// index. Scores are an internal ranking signal and are dropped here; only
// chunk content flows into the prompt.
type Retriever struct {
	embedder domain.Embedder
}

func New(embedder domain.Embedder) *Retriever {
	return &Retriever{embedder: embedder}
}

func (r *Retriever) Retrieve(ctx context.Context, index domain.Index, question string, k int) ([]domain.Chunk, error) {
	vectors, err := r.embedder.Embed(ctx, []string{question})
	if err != nil {
		return nil, fmt.Errorf("embed question: %w", err)
	}
	if len(vectors) != 1 {
		return nil, fmt.Errorf("%w: expected one query vector, got %d", domain.ErrEmbedding, len(vectors))
	}

	results, err := index.Search(ctx, vectors[0], k)
	if err != nil {
		return nil, fmt.Errorf("search index: %w", err)
	}

	chunks := make([]domain.Chunk, len(results))
	for i, res := range results {
		chunks[i] = res.Chunk
	}
	return chunks, nil
}
