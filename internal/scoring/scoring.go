package scoring

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"go.uber.org/zap"

	"resumerag/internal/domain"
)

// DefaultMarker is the prefix the generator emits when it cannot answer
// from the provided context.
const DefaultMarker = "Unfortunately"

// DefaultThreshold is the minimum accuracy (percent) for the shortlist.
const DefaultThreshold = 60.0

// Classifier decides whether an answer counts as a real answer. The
// default is a brittle prefix check; it is an interface so stricter
// policies can be swapped in.
type Classifier interface {
	Answered(answer string) bool
}

// PrefixClassifier treats an answer as declined when, after trimming
// whitespace, it starts with the marker string.
type PrefixClassifier struct {
	Marker string
}

func (c PrefixClassifier) Answered(answer string) bool {
	marker := c.Marker
	if marker == "" {
		marker = DefaultMarker
	}
	return !strings.HasPrefix(strings.TrimSpace(answer), marker)
}

// Result is the raw outcome of scoring one candidate's history. Accuracy
// is unrounded; rounding happens only at the display edge.
type Result struct {
	Correct  int
	Total    int
	Accuracy float64
}

// Engine computes shortlist decisions from accumulated QA histories.
// Answers are never re-evaluated in place; accuracy is derived fresh on
// every call.
type Engine struct {
	history    domain.HistoryStore
	directory  domain.UserDirectory
	classifier Classifier
	threshold  float64
	logger     *zap.Logger
}

func NewEngine(history domain.HistoryStore, directory domain.UserDirectory, classifier Classifier, threshold float64, logger *zap.Logger) *Engine {
	if classifier == nil {
		classifier = PrefixClassifier{}
	}
	if threshold == 0 {
		threshold = DefaultThreshold
	}
	return &Engine{
		history:    history,
		directory:  directory,
		classifier: classifier,
		threshold:  threshold,
		logger:     logger,
	}
}

// Score derives the accuracy of one history. ok is false for an empty
// history: such candidates are excluded from scoring, not failed.
func (e *Engine) Score(h domain.CandidateHistory) (Result, bool) {
	if len(h.Records) == 0 {
		return Result{}, false
	}
	correct := 0
	for _, rec := range h.Records {
		if e.classifier.Answered(rec.Answer) {
			correct++
		}
	}
	total := len(h.Records)
	return Result{
		Correct:  correct,
		Total:    total,
		Accuracy: 100 * float64(correct) / float64(total),
	}, true
}

// Shortlist scores every candidate with history and returns those whose
// unrounded accuracy meets the threshold. Entries follow the store's
// iteration order; callers wanting a ranking sort externally. The scan is
// read-only and tolerates appends happening mid-flight.
func (e *Engine) Shortlist(ctx context.Context) ([]domain.ShortlistEntry, error) {
	histories, err := e.history.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list histories: %w", err)
	}

	entries := make([]domain.ShortlistEntry, 0, len(histories))
	for _, h := range histories {
		result, ok := e.Score(h)
		if !ok || result.Accuracy < e.threshold {
			continue
		}

		cand, err := e.directory.Lookup(ctx, h.CandidateID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				e.logger.Warn("history without directory record, skipping",
					zap.String("candidate_id", h.CandidateID))
				continue
			}
			return nil, fmt.Errorf("lookup candidate %s: %w", h.CandidateID, err)
		}

		entries = append(entries, domain.ShortlistEntry{
			CandidateID:    cand.ID,
			Name:           cand.Name,
			Email:          cand.Email,
			Accuracy:       round2(result.Accuracy),
			TotalQuestions: result.Total,
		})
	}
	return entries, nil
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
