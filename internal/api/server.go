// Package api exposes a read-only HTTP observer for a running game: the
// latest frame snapshot and the persisted score history. Useful for stream
// overlays and debugging; it never mutates the session.
package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"chartsurfer/internal/game"
	"chartsurfer/internal/store"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Holder is the handoff point between the frame loop and HTTP handlers.
// The loop publishes after every frame; handlers read concurrently.
type Holder struct {
	mu   sync.RWMutex
	snap game.Snapshot
	ok   bool
}

func (h *Holder) Set(s game.Snapshot) {
	h.mu.Lock()
	h.snap = s
	h.ok = true
	h.mu.Unlock()
}

func (h *Holder) Latest() (game.Snapshot, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.snap, h.ok
}

// ScoreSource reads the persisted run history.
type ScoreSource interface {
	TopScores(limit int) ([]store.ScoreEntry, error)
}

type Server struct {
	log    *slog.Logger
	holder *Holder
	scores ScoreSource
	mux    *chi.Mux
}

func New(logger *slog.Logger, holder *Holder, scores ScoreSource) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		log:    logger,
		holder: holder,
		scores: scores,
		mux:    chi.NewRouter(),
	}
	s.routes()
	return s
}

func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) routes() {
	r := s.mux
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(10 * time.Second))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	})

	r.Route("/v1", func(r chi.Router) {
		r.Get("/snapshot", s.handleSnapshot)
		r.Get("/highscores", s.handleHighScores)
	})
}

func (s *Server) handleSnapshot(w http.ResponseWriter, _ *http.Request) {
	snap, ok := s.holder.Latest()
	if !ok {
		writeError(w, http.StatusServiceUnavailable, "no frame published yet")
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleHighScores(w http.ResponseWriter, r *http.Request) {
	limit := 10
	if v := strings.TrimSpace(r.URL.Query().Get("limit")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 || n > 100 {
			writeError(w, http.StatusBadRequest, "limit must be 1-100")
			return
		}
		limit = n
	}
	scores, err := s.scores.TopScores(limit)
	if err != nil {
		s.log.Error("list scores", "err", err)
		writeError(w, http.StatusInternalServerError, "score history unavailable")
		return
	}
	if scores == nil {
		scores = []store.ScoreEntry{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"scores": scores})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"error": strings.TrimSpace(message)})
}
