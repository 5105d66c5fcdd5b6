package model

import (
	"fmt"
	"strconv"
	"strings"
)

// User holds a registered player's identity and lifetime statistics.
// The username is chosen at registration and immutable afterwards.
type User struct {
	Username     string `json:"username"`
	PasswordHash string `json:"password"` // bcrypt hash of the registration password

	TotalPlayed   int `json:"total_played_games"`
	TotalWon      int `json:"total_games_won"`
	CurrentStreak int `json:"current_winstreak"`
	LongestStreak int `json:"longest_winstreak"`

	// GuessDistribution records the attempt count of every won game, in order.
	GuessDistribution []int `json:"guess_distribution"`

	// HasPlayed is true once the user has started a game against the
	// currently published secret word. Reset by every rotation, and always
	// persisted as false so everyone may play again after a restart.
	HasPlayed bool `json:"has_played"`

	// LoggedIn is never persisted; at most one session holds it at a time.
	LoggedIn bool `json:"-"`
}

// NewUser creates a user with zeroed statistics.
func NewUser(username, passwordHash string) *User {
	return &User{
		Username:     username,
		PasswordHash: passwordHash,
	}
}

// RecordWin applies a won game to the user's statistics. The attempt count is
// appended to the guess distribution; distribution entries exist for wins only.
func (u *User) RecordWin(attempts int) {
	u.TotalPlayed++
	u.TotalWon++
	u.CurrentStreak++
	if u.CurrentStreak > u.LongestStreak {
		u.LongestStreak = u.CurrentStreak
	}
	u.GuessDistribution = append(u.GuessDistribution, attempts)
}

// RecordLoss applies a lost (or forfeited) game to the user's statistics.
func (u *User) RecordLoss() {
	u.TotalPlayed++
	u.CurrentStreak = 0
}

// WinPercentage returns the percentage of played games that were won,
// rounded down. Zero when no games have been played.
func (u *User) WinPercentage() int {
	if u.TotalPlayed == 0 {
		return 0
	}
	return u.TotalWon * 100 / u.TotalPlayed
}

// Statistics renders the SENDMESTATISTICS reply line:
// played-won-pct%-streak-longest-distribution.
func (u *User) Statistics() string {
	dist := make([]string, len(u.GuessDistribution))
	for i, n := range u.GuessDistribution {
		dist[i] = strconv.Itoa(n)
	}
	return fmt.Sprintf("%d-%d-%d%%-%d-%d-[%s]",
		u.TotalPlayed, u.TotalWon, u.WinPercentage(),
		u.CurrentStreak, u.LongestStreak, strings.Join(dist, ","))
}

// Clone returns an independent copy, so stored users can be handed out
// without sharing the distribution slice.
func (u *User) Clone() *User {
	c := *u
	c.GuessDistribution = append([]int(nil), u.GuessDistribution...)
	return &c
}
