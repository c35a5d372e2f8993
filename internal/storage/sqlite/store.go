package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // SQLite driver

	"resumerag/internal/domain"
)

const schema = `
CREATE TABLE IF NOT EXISTS candidates (
	id    TEXT PRIMARY KEY,
	name  TEXT NOT NULL,
	email TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS resumes (
	candidate_id TEXT PRIMARY KEY,
	text         TEXT NOT NULL,
	data         BLOB,
	content_type TEXT NOT NULL DEFAULT '',
	updated_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS qa_history (
	id           INTEGER PRIMARY KEY AUTOINCREMENT,
	candidate_id TEXT NOT NULL,
	question     TEXT NOT NULL,
	answer       TEXT NOT NULL,
	created_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_qa_history_candidate ON qa_history(candidate_id);
`

// Store backs the document store, the QA history store and the user
// directory with one SQLite database. WAL mode keeps concurrent readers
// from blocking appends; the qa_history table is append-only by
// construction (no update or delete paths exist).
type Store struct {
	db   *sql.DB
	path string
}

// New opens (or creates) the database under dataDir.
func New(dataDir string) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	path := filepath.Join(dataDir, "resumerag.db")

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return &Store{db: db, path: path}, nil
}

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) Path() string { return s.path }

// UpsertCandidate registers or updates a directory record.
func (s *Store) UpsertCandidate(ctx context.Context, c domain.Candidate) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO candidates (id, name, email) VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET name = excluded.name, email = excluded.email`,
		c.ID, c.Name, c.Email)
	if err != nil {
		return fmt.Errorf("upsert candidate: %w", err)
	}
	return nil
}

func (s *Store) Lookup(ctx context.Context, candidateID string) (domain.Candidate, error) {
	var c domain.Candidate
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, email FROM candidates WHERE id = ?`, candidateID).
		Scan(&c.ID, &c.Name, &c.Email)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Candidate{}, fmt.Errorf("candidate %s: %w", candidateID, domain.ErrNotFound)
	}
	if err != nil {
		return domain.Candidate{}, fmt.Errorf("lookup candidate: %w", err)
	}
	return c, nil
}

// SaveResume replaces any previous résumé for the candidate.
func (s *Store) SaveResume(ctx context.Context, candidateID, text string, raw []byte, contentType string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO resumes (candidate_id, text, data, content_type, updated_at)
		VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(candidate_id) DO UPDATE SET
			text = excluded.text,
			data = excluded.data,
			content_type = excluded.content_type,
			updated_at = CURRENT_TIMESTAMP`,
		candidateID, text, raw, contentType)
	if err != nil {
		return fmt.Errorf("save resume: %w", err)
	}
	return nil
}

func (s *Store) ResumeText(ctx context.Context, candidateID string) (string, error) {
	var text string
	err := s.db.QueryRowContext(ctx,
		`SELECT text FROM resumes WHERE candidate_id = ?`, candidateID).Scan(&text)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("resume for %s: %w", candidateID, domain.ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("fetch resume text: %w", err)
	}
	return text, nil
}

// Append durably records one QA pair. SQLite serializes writers, so
// concurrent appends for the same candidate cannot lose records.
func (s *Store) Append(ctx context.Context, candidateID string, rec domain.QARecord) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO qa_history (candidate_id, question, answer) VALUES (?, ?, ?)`,
		candidateID, rec.Question, rec.Answer)
	if err != nil {
		return fmt.Errorf("append qa record: %w", err)
	}
	return nil
}

// ListAll returns every candidate's history, candidates ordered by id and
// records in append order.
func (s *Store) ListAll(ctx context.Context) ([]domain.CandidateHistory, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT candidate_id, question, answer FROM qa_history ORDER BY candidate_id, id`)
	if err != nil {
		return nil, fmt.Errorf("list qa history: %w", err)
	}
	defer rows.Close()

	var histories []domain.CandidateHistory
	for rows.Next() {
		var candidateID string
		var rec domain.QARecord
		if err := rows.Scan(&candidateID, &rec.Question, &rec.Answer); err != nil {
			return nil, fmt.Errorf("scan qa record: %w", err)
		}
		if n := len(histories); n > 0 && histories[n-1].CandidateID == candidateID {
			histories[n-1].Records = append(histories[n-1].Records, rec)
			continue
		}
		histories = append(histories, domain.CandidateHistory{
			CandidateID: candidateID,
			Records:     []domain.QARecord{rec},
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate qa history: %w", err)
	}
	return histories, nil
}
