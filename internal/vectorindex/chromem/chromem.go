package chromem

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"runtime"
	"strconv"

	"github.com/philippgille/chromem-go"

	"resumerag/internal/domain"
)

// Builder stores indexes in a persistent chromem-go database. Collections
// are named after the content hash of their entries, so rebuilding the same
// document reuses the stored collection and a changed document gets a new
// one. Embeddings are supplied by the caller; chromem never embeds here.
type Builder struct {
	db *chromem.DB
}

// NewBuilder opens (or creates) the database under path.
func NewBuilder(path string) (*Builder, error) {
	db, err := chromem.NewPersistentDB(path, false)
	if err != nil {
		return nil, fmt.Errorf("open chromem db: %w", err)
	}
	return &Builder{db: db}, nil
}

func (b *Builder) Build(ctx context.Context, entries []domain.EmbeddedChunk) (domain.Index, error) {
	if len(entries) == 0 {
		return nil, domain.ErrEmptyIndex
	}

	name := collectionName(entries)
	coll, err := b.db.GetOrCreateCollection(name, nil, noEmbedding)
	if err != nil {
		return nil, fmt.Errorf("get collection %s: %w", name, err)
	}

	if coll.Count() == 0 {
		docs := make([]chromem.Document, len(entries))
		for i, e := range entries {
			docs[i] = chromem.Document{
				ID:        fmt.Sprintf("%s-%06d", name, e.Chunk.Index),
				Content:   e.Chunk.Content,
				Embedding: e.Vector,
				Metadata:  map[string]string{"index": strconv.Itoa(e.Chunk.Index)},
			}
		}
		if err := coll.AddDocuments(ctx, docs, runtime.NumCPU()); err != nil {
			return nil, fmt.Errorf("add documents to %s: %w", name, err)
		}
	}

	return &index{coll: coll}, nil
}

type index struct {
	coll *chromem.Collection
}

func (ix *index) Search(ctx context.Context, vector []float32, k int) ([]domain.SearchResult, error) {
	if k <= 0 {
		return nil, fmt.Errorf("%w: top-k must be positive, got %d", domain.ErrConfig, k)
	}
	if n := ix.coll.Count(); k > n {
		k = n
	}
	res, err := ix.coll.QueryEmbedding(ctx, vector, k, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("query collection: %w", err)
	}
	results := make([]domain.SearchResult, 0, len(res))
	for _, r := range res {
		idx, _ := strconv.Atoi(r.Metadata["index"])
		results = append(results, domain.SearchResult{
			Chunk: domain.Chunk{Content: r.Content, Index: idx, Metadata: r.Metadata},
			Score: float64(r.Similarity),
		})
	}
	return results, nil
}

// collectionName derives a stable identity from the chunk contents.
func collectionName(entries []domain.EmbeddedChunk) string {
	h := sha256.New()
	for _, e := range entries {
		h.Write([]byte(e.Chunk.Content))
		h.Write([]byte{0})
	}
	return "resume-" + hex.EncodeToString(h.Sum(nil))[:16]
}

// noEmbedding satisfies chromem's embedding hook; every document and query
// here carries a precomputed vector, so it must never be called.
func noEmbedding(context.Context, string) ([]float32, error) {
	return nil, fmt.Errorf("%w: chromem index received text without an embedding", domain.ErrEmbedding)
}
