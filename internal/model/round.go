package model

import "time"

// Round is the period during which one secret word is live for all players.
// The rotator publishes a new Round value on every rotation; sessions snapshot
// the word when a game starts and keep it even if rotation happens mid-game.
type Round struct {
	Number    int
	Word      string
	StartedAt time.Time
}
