package domain

import "context"

// Document is a candidate's résumé text plus metadata, immutable once loaded.
type Document struct {
	Text     string
	Metadata map[string]string
}

// Chunk is a contiguous substring of a document used as a retrieval unit.
// Chunks from the same document keep their original order via Index.
type Chunk struct {
	Content  string
	Index    int
	Metadata map[string]string
}

// EmbeddedChunk pairs a chunk with its embedding vector. All vectors fed
// into one index must share the same dimensionality.
type EmbeddedChunk struct {
	Chunk  Chunk
	Vector []float32
}

// SearchResult is a matching chunk with its similarity score.
type SearchResult struct {
	Chunk Chunk
	Score float64
}

// QARecord is one question/answer pair. Answers are immutable once appended.
type QARecord struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// CandidateHistory is the ordered, append-only QA history of one candidate.
type CandidateHistory struct {
	CandidateID string
	Records     []QARecord
}

// Candidate is the directory record for an authenticated caller.
type Candidate struct {
	ID    string
	Name  string
	Email string
}

// ShortlistEntry is derived from a candidate's history at scoring time,
// never persisted.
type ShortlistEntry struct {
	CandidateID    string  `json:"candidateId"`
	Name           string  `json:"name"`
	Email          string  `json:"email"`
	Accuracy       float64 `json:"accuracy"`
	TotalQuestions int     `json:"totalQuestions"`
}

// Chunker splits raw text into overlapping fixed-size chunks.
type Chunker interface {
	Split(text string) []Chunk
}

// Embedder maps texts to fixed-length vectors, one per input, same order.
// Implementations must not reorder or drop inputs.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// Generator produces a natural-language answer for an assembled prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Index is a read-only nearest-neighbor index over embedded chunks.
// Results are ranked by descending cosine similarity, ties broken by
// insertion order. k is clamped to the number of entries.
type Index interface {
	Search(ctx context.Context, vector []float32, k int) ([]SearchResult, error)
}

// IndexBuilder constructs an Index from embedded chunks. Building with zero
// entries fails with ErrEmptyIndex; rebuilding is the only way to add data.
type IndexBuilder interface {
	Build(ctx context.Context, entries []EmbeddedChunk) (Index, error)
}

// DocumentStore persists résumés per candidate.
type DocumentStore interface {
	SaveResume(ctx context.Context, candidateID, text string, raw []byte, contentType string) error
	ResumeText(ctx context.Context, candidateID string) (string, error)
}

// HistoryStore is the append-only QA history per candidate. Append must be
// durable before returning and must not race-lose against a concurrent
// append for the same candidate.
type HistoryStore interface {
	Append(ctx context.Context, candidateID string, rec QARecord) error
	ListAll(ctx context.Context) ([]CandidateHistory, error)
}

// UserDirectory resolves candidate identities.
type UserDirectory interface {
	Lookup(ctx context.Context, candidateID string) (Candidate, error)
}
