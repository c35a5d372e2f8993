package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resumerag/internal/domain"
)

func entry(content string, index int, vector ...float32) domain.EmbeddedChunk {
	return domain.EmbeddedChunk{
		Chunk:  domain.Chunk{Content: content, Index: index},
		Vector: vector,
	}
}

func TestBuildEmpty(t *testing.T) {
	_, err := NewBuilder().Build(context.Background(), nil)
	assert.True(t, errors.Is(err, domain.ErrEmptyIndex))
}

func TestBuildDimensionMismatch(t *testing.T) {
	_, err := NewBuilder().Build(context.Background(), []domain.EmbeddedChunk{
		entry("a", 0, 1, 0),
		entry("b", 1, 1, 0, 0),
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrConfig))
}

func TestSearchDescendingOrder(t *testing.T) {
	ix, err := NewBuilder().Build(context.Background(), []domain.EmbeddedChunk{
		entry("orthogonal", 0, 0, 1),
		entry("identical", 1, 1, 0),
		entry("diagonal", 2, 1, 1),
	})
	require.NoError(t, err)

	results, err := ix.Search(context.Background(), []float32{1, 0}, 3)
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, "identical", results[0].Chunk.Content)
	assert.InDelta(t, 1.0, results[0].Score, 1e-9)
	assert.Equal(t, "diagonal", results[1].Chunk.Content)
	assert.Equal(t, "orthogonal", results[2].Chunk.Content)

	for i := 1; i < len(results); i++ {
		assert.GreaterOrEqual(t, results[i-1].Score, results[i].Score)
	}
}

func TestSearchScaleInvariant(t *testing.T) {
	ix, err := NewBuilder().Build(context.Background(), []domain.EmbeddedChunk{
		entry("scaled", 0, 10, 0),
	})
	require.NoError(t, err)

	results, err := ix.Search(context.Background(), []float32{0.5, 0}, 1)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.InDelta(t, 1.0, results[0].Score, 1e-9)
}

func TestSearchTiesKeepInsertionOrder(t *testing.T) {
	ix, err := NewBuilder().Build(context.Background(), []domain.EmbeddedChunk{
		entry("first", 0, 1, 0),
		entry("second", 1, 2, 0),
		entry("third", 2, 3, 0),
	})
	require.NoError(t, err)

	results, err := ix.Search(context.Background(), []float32{1, 0}, 3)
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, "first", results[0].Chunk.Content)
	assert.Equal(t, "second", results[1].Chunk.Content)
	assert.Equal(t, "third", results[2].Chunk.Content)
}

func TestSearchClampsK(t *testing.T) {
	ix, err := NewBuilder().Build(context.Background(), []domain.EmbeddedChunk{
		entry("only", 0, 1, 0),
	})
	require.NoError(t, err)

	results, err := ix.Search(context.Background(), []float32{1, 0}, 10)
	require.NoError(t, err)
	assert.Len(t, results, 1)
}

func TestSearchRejectsBadInput(t *testing.T) {
	ix, err := NewBuilder().Build(context.Background(), []domain.EmbeddedChunk{
		entry("only", 0, 1, 0),
	})
	require.NoError(t, err)

	_, err = ix.Search(context.Background(), []float32{1, 0}, 0)
	assert.True(t, errors.Is(err, domain.ErrConfig))

	_, err = ix.Search(context.Background(), []float32{1, 0, 0}, 1)
	assert.True(t, errors.Is(err, domain.ErrConfig))
}

func TestSearchZeroVectorScoresZero(t *testing.T) {
	ix, err := NewBuilder().Build(context.Background(), []domain.EmbeddedChunk{
		entry("zero", 0, 0, 0),
		entry("unit", 1, 1, 0),
	})
	require.NoError(t, err)

	results, err := ix.Search(context.Background(), []float32{1, 0}, 2)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "unit", results[0].Chunk.Content)
	assert.Equal(t, 0.0, results[1].Score)
}
