// Package rotation owns the round state: the currently published secret word,
// the set of words already used, and the periodic rotation process.
package rotation

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/ardley/wordle-server/internal/dependencies/clock"
	"github.com/ardley/wordle-server/internal/dependencies/random"
	"github.com/ardley/wordle-server/internal/model"
	"github.com/ardley/wordle-server/internal/services/vocabulary"
	"github.com/ardley/wordle-server/internal/store"
)

// Service selects a fresh secret word on a fixed interval and resets every
// user's played-this-round flag.
type Service struct {
	vocab    *vocabulary.Service
	registry store.Store
	random   random.Random
	clock    clock.Clock
	interval time.Duration
	logger   *slog.Logger

	mu    sync.RWMutex
	round model.Round
	used  map[string]struct{}
}

// New creates a rotation service. No word is published until the first
// rotation runs.
func New(
	vocab *vocabulary.Service,
	registry store.Store,
	rnd random.Random,
	clk clock.Clock,
	interval time.Duration,
	logger *slog.Logger,
) *Service {
	return &Service{
		vocab:    vocab,
		registry: registry,
		random:   rnd,
		clock:    clk,
		interval: interval,
		logger:   logger.With(slog.String("component", "rotation")),
		used:     make(map[string]struct{}),
	}
}

// Current returns the live round. Sessions snapshot the word from here when a
// game starts and keep the snapshot even if rotation happens mid-game.
func (s *Service) Current() (model.Round, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.round.Number == 0 {
		return model.Round{}, model.ErrNoRound
	}
	return s.round, nil
}

// UsedCount returns how many vocabulary words have been rotated to so far.
func (s *Service) UsedCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.used)
}

// Rotate selects a new secret word by rejection sampling (redraw while the
// drawn word was already used), marks it used, publishes the new round, and
// resets every user's played flag. The used set grows monotonically; once it
// covers the whole vocabulary, rotation fails with ErrVocabularyExhausted.
func (s *Service) Rotate(ctx context.Context) (model.Round, error) {
	s.mu.Lock()

	if !s.vocab.Loaded() || s.vocab.Len() == 0 {
		s.mu.Unlock()
		return model.Round{}, model.ErrVocabularyNotLoaded
	}
	if len(s.used) == s.vocab.Len() {
		s.mu.Unlock()
		return model.Round{}, model.ErrVocabularyExhausted
	}

	word := s.vocab.At(s.random.Intn(s.vocab.Len()))
	for {
		if _, taken := s.used[word]; !taken {
			break
		}
		word = s.vocab.At(s.random.Intn(s.vocab.Len()))
	}

	s.used[word] = struct{}{}
	s.round = model.Round{
		Number:    s.round.Number + 1,
		Word:      word,
		StartedAt: s.clock.Now(),
	}
	round := s.round
	s.mu.Unlock()

	// The new round is visible before the played flags reset. A PLAYWORDLE in
	// that window can see one spurious ALREADY_PLAYED and succeeds on retry;
	// resetting first would instead let a finished player replay the old word.
	if err := s.registry.ResetAllPlayed(ctx); err != nil {
		return model.Round{}, err
	}

	s.logger.Info("secret word rotated",
		slog.Int("round", round.Number),
		slog.Int("used_words", s.UsedCount()))
	return round, nil
}

// Run rotates once immediately and then on every interval tick, until the
// context is cancelled. Rotation failures are logged and the next tick tries
// again; there is no jitter or backoff.
func (s *Service) Run(ctx context.Context) {
	if _, err := s.Rotate(ctx); err != nil {
		s.logger.Error("initial rotation failed", slog.String("error", err.Error()))
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if _, err := s.Rotate(ctx); err != nil {
				s.logger.Error("rotation failed", slog.String("error", err.Error()))
			}
		case <-ctx.Done():
			s.logger.Info("rotation stopped")
			return
		}
	}
}
