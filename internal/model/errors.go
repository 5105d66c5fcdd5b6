package model

import "errors"

// Sentinel errors matched with errors.Is across the registry and services.
var (
	// User errors
	ErrUserNotFound    = errors.New("user not found")
	ErrDuplicateUser   = errors.New("username already registered")
	ErrAlreadyLoggedIn = errors.New("user is already logged in")

	// Game errors
	ErrAlreadyPlayed = errors.New("user has already played this round")

	// Vocabulary errors
	ErrVocabularyNotLoaded = errors.New("vocabulary not loaded")
	ErrVocabularyExhausted = errors.New("every vocabulary word has been used")

	// Round errors
	ErrNoRound = errors.New("no round has started yet")
)
