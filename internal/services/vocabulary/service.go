// Package vocabulary holds the fixed-length word list that guesses and secret
// words are drawn from.
package vocabulary

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/ardley/wordle-server/internal/model"
)

// Service provides word membership checks and indexed access for the rotator.
type Service struct {
	logger *slog.Logger

	mu     sync.RWMutex
	words  []string
	index  map[string]struct{}
	loaded bool
}

// New creates an empty vocabulary service.
func New(logger *slog.Logger) *Service {
	return &Service{
		logger: logger.With(slog.String("component", "vocabulary")),
		index:  make(map[string]struct{}),
	}
}

// LoadFromFile loads the vocabulary file, one word per line. Lines whose
// length differs from model.WordLength are skipped with a warning.
func (s *Service) LoadFromFile(path string) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open vocabulary: %w", err)
	}
	defer file.Close()

	var words []string
	skipped := 0
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		word := strings.TrimSpace(scanner.Text())
		if word == "" {
			continue
		}
		if len(word) != model.WordLength {
			skipped++
			continue
		}
		words = append(words, strings.ToLower(word))
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read vocabulary: %w", err)
	}
	if skipped > 0 {
		s.logger.Warn("skipped words of wrong length",
			slog.String("path", path),
			slog.Int("skipped", skipped),
			slog.Int("expected_length", model.WordLength))
	}

	s.LoadWords(words)
	s.logger.Info("vocabulary loaded",
		slog.String("path", path),
		slog.Int("words", len(words)))
	return nil
}

// LoadWords directly loads a slice of words (useful for testing).
func (s *Service) LoadWords(words []string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.words = make([]string, 0, len(words))
	s.index = make(map[string]struct{}, len(words))
	for _, word := range words {
		word = strings.ToLower(word)
		if _, ok := s.index[word]; ok {
			continue
		}
		s.words = append(s.words, word)
		s.index[word] = struct{}{}
	}
	s.loaded = true
}

// Contains checks whether a word is in the vocabulary. Guesses of the wrong
// length fail here naturally, since only fixed-length words are loaded.
func (s *Service) Contains(word string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.index[strings.ToLower(word)]
	return ok
}

// Loaded returns whether a word list has been loaded.
func (s *Service) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

// Len returns the number of words.
func (s *Service) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.words)
}

// At returns the word at index i.
func (s *Service) At(i int) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.words[i]
}
