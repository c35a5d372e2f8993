package scoring

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"resumerag/internal/domain"
)

type fakeHistory struct {
	histories []domain.CandidateHistory
	err       error
}

func (f *fakeHistory) Append(context.Context, string, domain.QARecord) error { return nil }

func (f *fakeHistory) ListAll(context.Context) ([]domain.CandidateHistory, error) {
	return f.histories, f.err
}

type fakeDirectory struct {
	candidates map[string]domain.Candidate
}

func (f *fakeDirectory) Lookup(_ context.Context, id string) (domain.Candidate, error) {
	c, ok := f.candidates[id]
	if !ok {
		return domain.Candidate{}, fmt.Errorf("candidate %s: %w", id, domain.ErrNotFound)
	}
	return c, nil
}

func records(answers ...string) []domain.QARecord {
	recs := make([]domain.QARecord, len(answers))
	for i, a := range answers {
		recs[i] = domain.QARecord{Question: fmt.Sprintf("q%d", i), Answer: a}
	}
	return recs
}

func TestPrefixClassifier(t *testing.T) {
	c := PrefixClassifier{}
	assert.True(t, c.Answered("5 years of Go experience"))
	assert.False(t, c.Answered("Unfortunately, the context does not mention that."))
	assert.False(t, c.Answered("  Unfortunately I cannot tell."))
	assert.True(t, c.Answered("It was unfortunately short.")) // prefix only, case-sensitive
}

func TestScoreAccuracy(t *testing.T) {
	e := NewEngine(nil, nil, nil, 0, zap.NewNop())

	result, ok := e.Score(domain.CandidateHistory{
		CandidateID: "c1",
		Records:     records("Go and Python", "Unfortunately, no.", "Three years"),
	})
	require.True(t, ok)
	assert.Equal(t, 2, result.Correct)
	assert.Equal(t, 3, result.Total)
	assert.InDelta(t, 66.666666, result.Accuracy, 1e-4)
}

func TestScoreEmptyHistoryExcluded(t *testing.T) {
	e := NewEngine(nil, nil, nil, 0, zap.NewNop())
	_, ok := e.Score(domain.CandidateHistory{CandidateID: "c1"})
	assert.False(t, ok)
}

func TestShortlistThreshold(t *testing.T) {
	history := &fakeHistory{histories: []domain.CandidateHistory{
		// 2/3 answered = 66.67, above threshold.
		{CandidateID: "alice", Records: records("yes", "Unfortunately, no.", "yes")},
		// 1/2 answered = 50.00, below threshold.
		{CandidateID: "bob", Records: records("yes", "Unfortunately, no.")},
		// Empty history is excluded entirely.
		{CandidateID: "carol"},
	}}
	directory := &fakeDirectory{candidates: map[string]domain.Candidate{
		"alice": {ID: "alice", Name: "Alice", Email: "alice@example.com"},
		"bob":   {ID: "bob", Name: "Bob", Email: "bob@example.com"},
		"carol": {ID: "carol", Name: "Carol", Email: "carol@example.com"},
	}}

	e := NewEngine(history, directory, nil, 0, zap.NewNop())
	entries, err := e.Shortlist(context.Background())
	require.NoError(t, err)

	require.Len(t, entries, 1)
	assert.Equal(t, "alice", entries[0].CandidateID)
	assert.Equal(t, "Alice", entries[0].Name)
	assert.Equal(t, "alice@example.com", entries[0].Email)
	assert.Equal(t, 66.67, entries[0].Accuracy)
	assert.Equal(t, 3, entries[0].TotalQuestions)
}

func TestShortlistExactThreshold(t *testing.T) {
	history := &fakeHistory{histories: []domain.CandidateHistory{
		// 3/5 answered = exactly 60.0, which is inclusive.
		{CandidateID: "dave", Records: records("a", "b", "c", "Unfortunately x", "Unfortunately y")},
	}}
	directory := &fakeDirectory{candidates: map[string]domain.Candidate{
		"dave": {ID: "dave", Name: "Dave", Email: "dave@example.com"},
	}}

	e := NewEngine(history, directory, nil, 0, zap.NewNop())
	entries, err := e.Shortlist(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, 60.0, entries[0].Accuracy)
}

func TestShortlistSkipsUnknownCandidates(t *testing.T) {
	history := &fakeHistory{histories: []domain.CandidateHistory{
		{CandidateID: "ghost", Records: records("yes")},
		{CandidateID: "alice", Records: records("yes")},
	}}
	directory := &fakeDirectory{candidates: map[string]domain.Candidate{
		"alice": {ID: "alice", Name: "Alice", Email: "alice@example.com"},
	}}

	e := NewEngine(history, directory, nil, 0, zap.NewNop())
	entries, err := e.Shortlist(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "alice", entries[0].CandidateID)
}

func TestShortlistEmptyStore(t *testing.T) {
	e := NewEngine(&fakeHistory{}, &fakeDirectory{}, nil, 0, zap.NewNop())
	entries, err := e.Shortlist(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, entries)
	assert.Empty(t, entries)
}

type containsClassifier struct{ needle string }

func (c containsClassifier) Answered(answer string) bool {
	return answer != "" && answer != c.needle
}

func TestCustomClassifier(t *testing.T) {
	history := &fakeHistory{histories: []domain.CandidateHistory{
		{CandidateID: "alice", Records: records("real answer", "N/A")},
	}}
	directory := &fakeDirectory{candidates: map[string]domain.Candidate{
		"alice": {ID: "alice", Name: "Alice", Email: "alice@example.com"},
	}}

	e := NewEngine(history, directory, containsClassifier{needle: "N/A"}, 40, zap.NewNop())
	entries, err := e.Shortlist(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, 50.0, entries[0].Accuracy)
}
