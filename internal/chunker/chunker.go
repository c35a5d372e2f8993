package chunker

import (
	"fmt"

	"resumerag/internal/domain"
)

// FixedChunker splits text into fixed-size chunks with a configured overlap.
// Sizes are counted in runes so multi-byte text never splits mid-character.
type FixedChunker struct {
	size    int
	overlap int
}

// New validates the chunking parameters and returns a chunker.
// size must be positive and overlap must satisfy 0 <= overlap < size.
func New(size, overlap int) (*FixedChunker, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: chunk size must be positive, got %d", domain.ErrConfig, size)
	}
	if overlap < 0 || overlap >= size {
		return nil, fmt.Errorf("%w: overlap must be in [0, %d), got %d", domain.ErrConfig, size, overlap)
	}
	return &FixedChunker{size: size, overlap: overlap}, nil
}

// Split covers the full input with no gaps: chunk i+1 begins overlap runes
// before the end of chunk i. Text shorter than the chunk size yields a
// single chunk equal to the whole text. Deterministic for a given input.
func (c *FixedChunker) Split(text string) []domain.Chunk {
	runes := []rune(text)
	step := c.size - c.overlap

	var chunks []domain.Chunk
	for i := 0; ; i += step {
		end := i + c.size
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, domain.Chunk{
			Content: string(runes[i:end]),
			Index:   len(chunks),
		})
		if end >= len(runes) {
			break
		}
	}
	return chunks
}
