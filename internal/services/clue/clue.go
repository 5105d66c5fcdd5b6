// Package clue computes positional feedback for a guess against the secret
// word. Feedback is deterministic and needs no state, so the package exposes
// plain functions.
package clue

import "strings"

// Mark is the feedback for a single letter position.
type Mark byte

const (
	// MarkExact: letter is in the secret word at this exact position.
	MarkExact Mark = '+'
	// MarkPresent: letter occurs somewhere in the secret word.
	MarkPresent Mark = '?'
	// MarkAbsent: letter does not occur in the secret word.
	MarkAbsent Mark = 'X'
)

// Marks is one mark per guess position.
type Marks []Mark

// Feedback compares a guess against the secret word, one mark per position.
// A position is Exact on a positional match, Present if the secret contains
// the letter anywhere, Absent otherwise. The Present check is whole-word
// containment: repeated guess letters each earn Present as long as the secret
// contains the letter at all, regardless of how many copies were already
// matched. That keeps feedback simple at the cost of duplicate-letter
// accuracy.
//
// guess and secret must have the same length.
func Feedback(guess, secret string) Marks {
	marks := make(Marks, len(guess))
	for i := 0; i < len(guess); i++ {
		switch {
		case guess[i] == secret[i]:
			marks[i] = MarkExact
		case strings.IndexByte(secret, guess[i]) >= 0:
			marks[i] = MarkPresent
		default:
			marks[i] = MarkAbsent
		}
	}
	return marks
}

// AllExact reports whether every position matched.
func (m Marks) AllExact() bool {
	for _, mk := range m {
		if mk != MarkExact {
			return false
		}
	}
	return true
}

// String renders marks as "[+, ?, X, ...]", the form used in CLUE and LOSE
// replies and in shared summaries.
func (m Marks) String() string {
	var b strings.Builder
	b.WriteByte('[')
	for i, mk := range m {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteByte(byte(mk))
	}
	b.WriteByte(']')
	return b.String()
}
