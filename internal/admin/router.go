// Package admin exposes operational HTTP endpoints alongside the game server.
package admin

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/ardley/wordle-server/internal/middleware"
	"github.com/ardley/wordle-server/internal/model"
	"github.com/ardley/wordle-server/internal/services/rotation"
	"github.com/ardley/wordle-server/internal/services/vocabulary"
	"github.com/ardley/wordle-server/internal/store"
)

// Stats is the payload served by GET /stats.
type Stats struct {
	RegisteredUsers int `json:"registered_users"`
	ActiveSessions  int `json:"active_sessions"`
	RoundNumber     int `json:"round_number"`
	VocabularySize  int `json:"vocabulary_size"`
}

// SessionCounter reports how many game sessions are currently connected.
type SessionCounter interface {
	ActiveSessions() int
}

// RouterConfig holds configuration for the admin router.
type RouterConfig struct {
	Logger   *slog.Logger
	Registry store.Store
	Rounds   *rotation.Service
	Sessions SessionCounter
	Vocab    *vocabulary.Service
}

// NewRouter creates the admin router with all routes configured.
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.Logging(cfg.Logger))

	h := &handlers{cfg: cfg}
	r.HandleFunc("/healthz", h.health).Methods(http.MethodGet)
	r.HandleFunc("/stats", h.stats).Methods(http.MethodGet)

	return r
}

type handlers struct {
	cfg RouterConfig
}

func (h *handlers) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *handlers) stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.collect(r.Context())
	if err != nil {
		h.cfg.Logger.Error("stats collection failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "stats unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (h *handlers) collect(ctx context.Context) (Stats, error) {
	count, err := h.cfg.Registry.Count(ctx)
	if err != nil {
		return Stats{}, err
	}

	// Round number is zero until the first rotation.
	roundNumber := 0
	round, err := h.cfg.Rounds.Current()
	switch {
	case err == nil:
		roundNumber = round.Number
	case !errors.Is(err, model.ErrNoRound):
		return Stats{}, err
	}

	return Stats{
		RegisteredUsers: count,
		ActiveSessions:  h.cfg.Sessions.ActiveSessions(),
		RoundNumber:     roundNumber,
		VocabularySize:  h.cfg.Vocab.Len(),
	}, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
