package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"resumerag/internal/domain"
	"resumerag/internal/extract"
)

// Answerer is the QA pipeline as the HTTP layer sees it.
type Answerer interface {
	AnswerQuestion(ctx context.Context, documentText, question string) (string, error)
}

// Shortlister computes the current shortlist view.
type Shortlister interface {
	Shortlist(ctx context.Context) ([]domain.ShortlistEntry, error)
}

// Server is the HTTP surface over the QA pipeline and the stores. Identity
// arrives from upstream auth as the X-Candidate-ID header (or a bearer
// token carrying the candidate id); this layer only needs to know who is
// calling, not how they proved it.
type Server struct {
	logger    *zap.Logger
	pipeline  Answerer
	scorer    Shortlister
	docs      domain.DocumentStore
	history   domain.HistoryStore
	directory domain.UserDirectory
	maxUpload int64
}

func New(logger *zap.Logger, pipeline Answerer, scorer Shortlister, docs domain.DocumentStore, history domain.HistoryStore, directory domain.UserDirectory, maxUploadBytes int64) *Server {
	if maxUploadBytes <= 0 {
		maxUploadBytes = 10 << 20
	}
	return &Server{
		logger:    logger,
		pipeline:  pipeline,
		scorer:    scorer,
		docs:      docs,
		history:   history,
		directory: directory,
		maxUpload: maxUploadBytes,
	}
}

// Handler wires the routes and the logging middleware.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /submit-resume", s.handleSubmitResume)
	mux.HandleFunc("POST /ask-question", s.handleAskQuestion)
	mux.HandleFunc("GET /shortlist-candidates", s.handleShortlist)
	return s.withLogging(mux)
}

func (s *Server) handleSubmitResume(w http.ResponseWriter, r *http.Request) {
	candidateID := callerID(r)
	if candidateID == "" {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "user not authenticated"})
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload)
	if err := r.ParseMultipartForm(s.maxUpload); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "no resume file uploaded"})
		return
	}
	file, header, err := r.FormFile("resume")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "no resume file uploaded"})
		return
	}
	defer file.Close()

	if _, err := s.directory.Lookup(r.Context(), candidateID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"message": "user not found"})
			return
		}
		s.internalError(w, "lookup candidate", err)
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		s.internalError(w, "read upload", err)
		return
	}
	contentType := header.Header.Get("Content-Type")

	text, err := extract.Text(header.Filename, contentType, data)
	if err != nil {
		s.internalError(w, "extract resume text", err)
		return
	}

	if err := s.docs.SaveResume(r.Context(), candidateID, text, data, contentType); err != nil {
		s.internalError(w, "save resume", err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"message": "Resume submitted successfully"})
}

func (s *Server) handleAskQuestion(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Question string `json:"question"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil && !errors.Is(err, io.EOF) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "invalid request body"})
		return
	}

	candidateID := callerID(r)
	question := strings.TrimSpace(body.Question)
	if candidateID == "" || question == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "User ID and Question are required"})
		return
	}

	text, err := s.docs.ResumeText(r.Context(), candidateID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "no resume found"})
			return
		}
		s.internalError(w, "fetch resume", err)
		return
	}

	answer, err := s.pipeline.AnswerQuestion(r.Context(), text, question)
	if err != nil {
		// A failed answer leaves no trace in the history.
		s.internalError(w, "answer question", err)
		return
	}

	if err := s.history.Append(r.Context(), candidateID, domain.QARecord{Question: question, Answer: answer}); err != nil {
		s.internalError(w, "append qa record", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"answer": answer})
}

func (s *Server) handleShortlist(w http.ResponseWriter, r *http.Request) {
	entries, err := s.scorer.Shortlist(r.Context())
	if err != nil {
		s.internalError(w, "compute shortlist", err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

// callerID extracts the authenticated candidate identity set by upstream
// auth. A bearer token is accepted as a raw candidate id for local use.
func callerID(r *http.Request) string {
	if id := strings.TrimSpace(r.Header.Get("X-Candidate-ID")); id != "" {
		return id
	}
	auth := r.Header.Get("Authorization")
	if token, ok := strings.CutPrefix(auth, "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	return ""
}

func (s *Server) internalError(w http.ResponseWriter, msg string, err error) {
	s.logger.Error(msg, zap.Error(err))
	writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Internal Server Error"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		requestID := uuid.NewString()

		next.ServeHTTP(rec, r)

		s.logger.Info("request",
			zap.String("request_id", requestID),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("elapsed", time.Since(start)),
		)
	})
}
