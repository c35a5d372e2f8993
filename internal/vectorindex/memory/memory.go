package memory

import (
	"context"
	"fmt"
	"math"
	"sort"

	"resumerag/internal/domain"
)

// Builder constructs brute-force cosine-similarity indexes held in memory.
// This is the default backend and the reference for the search semantics:
// descending similarity, ties broken by insertion order, k clamped.
type Builder struct{}

func NewBuilder() *Builder { return &Builder{} }

// Build copies the entries into a read-only index. All vectors must share
// one dimensionality; zero entries fail with ErrEmptyIndex.
func (b *Builder) Build(_ context.Context, entries []domain.EmbeddedChunk) (domain.Index, error) {
	if len(entries) == 0 {
		return nil, domain.ErrEmptyIndex
	}
	dim := len(entries[0].Vector)
	ix := &index{
		dim:     dim,
		chunks:  make([]domain.Chunk, len(entries)),
		vectors: make([][]float32, len(entries)),
		norms:   make([]float64, len(entries)),
	}
	for i, e := range entries {
		if len(e.Vector) != dim {
			return nil, fmt.Errorf("%w: vector %d has dimension %d, want %d", domain.ErrConfig, i, len(e.Vector), dim)
		}
		ix.chunks[i] = e.Chunk
		ix.vectors[i] = append([]float32(nil), e.Vector...)
		ix.norms[i] = norm(e.Vector)
	}
	return ix, nil
}

type index struct {
	dim     int
	chunks  []domain.Chunk
	vectors [][]float32
	norms   []float64
}

func (ix *index) Search(_ context.Context, vector []float32, k int) ([]domain.SearchResult, error) {
	if k <= 0 {
		return nil, fmt.Errorf("%w: top-k must be positive, got %d", domain.ErrConfig, k)
	}
	if len(vector) != ix.dim {
		return nil, fmt.Errorf("%w: query vector has dimension %d, want %d", domain.ErrConfig, len(vector), ix.dim)
	}
	qnorm := norm(vector)

	scores := make([]float64, len(ix.vectors))
	for i := range ix.vectors {
		scores[i] = cosine(ix.vectors[i], ix.norms[i], vector, qnorm)
	}

	idxs := make([]int, len(scores))
	for i := range idxs {
		idxs[i] = i
	}
	// Stable keeps insertion order among equal scores.
	sort.SliceStable(idxs, func(a, b int) bool { return scores[idxs[a]] > scores[idxs[b]] })

	if k > len(idxs) {
		k = len(idxs)
	}
	results := make([]domain.SearchResult, 0, k)
	for _, j := range idxs[:k] {
		results = append(results, domain.SearchResult{Chunk: ix.chunks[j], Score: scores[j]})
	}
	return results, nil
}

func cosine(a []float32, anorm float64, b []float32, bnorm float64) float64 {
	if anorm == 0 || bnorm == 0 {
		return 0
	}
	sum := 0.0
	for i := range a {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum / (anorm * bnorm)
}

func norm(v []float32) float64 {
	sum := 0.0
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	return math.Sqrt(sum)
}
