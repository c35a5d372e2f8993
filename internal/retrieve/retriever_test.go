package retrieve

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resumerag/internal/domain"
	"resumerag/internal/vectorindex/memory"
)

type fixedEmbedder struct {
	vector []float32
	err    error
}

func (f *fixedEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = f.vector
	}
	return out, nil
}

func buildIndex(t *testing.T) domain.Index {
	t.Helper()
	ix, err := memory.NewBuilder().Build(context.Background(), []domain.EmbeddedChunk{
		{Chunk: domain.Chunk{Content: "go experience", Index: 0}, Vector: []float32{1, 0}},
		{Chunk: domain.Chunk{Content: "education", Index: 1}, Vector: []float32{0, 1}},
	})
	require.NoError(t, err)
	return ix
}

func TestRetrieve(t *testing.T) {
	r := New(&fixedEmbedder{vector: []float32{1, 0}})

	chunks, err := r.Retrieve(context.Background(), buildIndex(t), "how much go?", 1)
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, "go experience", chunks[0].Content)
}

func TestRetrieveEmbedFailure(t *testing.T) {
	r := New(&fixedEmbedder{err: domain.ErrEmbedding})

	_, err := r.Retrieve(context.Background(), buildIndex(t), "question", 1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrEmbedding))
}
