package model

const (
	// WordLength is the fixed length of every vocabulary word.
	WordLength = 10

	// MaxAttempts is the number of guesses a game allows.
	MaxAttempts = 12
)
