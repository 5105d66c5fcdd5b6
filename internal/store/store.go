// Package store defines the user registry interface. Implementations must
// make every listed operation individually atomic: the check-then-set
// operations (Create, SetLoggedIn, MarkPlayed) and the read-modify-write
// operations (RecordWin, RecordLoss) exist precisely so callers never have to
// compose a racy get/update pair.
package store

import (
	"context"

	"github.com/ardley/wordle-server/internal/model"
)

// Store is the concurrent user registry.
type Store interface {
	// Create registers a new user. Atomic check-and-insert: returns
	// model.ErrDuplicateUser if the username is taken.
	Create(ctx context.Context, user *model.User) error

	// Get returns a copy of the user, or model.ErrUserNotFound.
	Get(ctx context.Context, username string) (*model.User, error)

	// Update replaces the stored record, last-writer-wins.
	Update(ctx context.Context, user *model.User) error

	// SetLoggedIn marks the user logged in. Atomic check-then-set: returns
	// model.ErrAlreadyLoggedIn if another session already holds the flag.
	SetLoggedIn(ctx context.Context, username string) error

	// SetLoggedOut clears the logged-in flag.
	SetLoggedOut(ctx context.Context, username string) error

	// MarkPlayed marks the user as having played the current round. Atomic
	// check-then-set: returns model.ErrAlreadyPlayed if already marked, so
	// two concurrent PLAYWORDLE calls cannot both succeed.
	MarkPlayed(ctx context.Context, username string) error

	// RecordWin applies a won game at the given attempt count.
	RecordWin(ctx context.Context, username string, attempts int) error

	// RecordLoss applies a lost or forfeited game.
	RecordLoss(ctx context.Context, username string) error

	// ResetAllPlayed clears every user's played-this-round flag, as a single
	// sweep relative to concurrent MarkPlayed calls.
	ResetAllPlayed(ctx context.Context) error

	// All returns a copy of every registered user.
	All(ctx context.Context) ([]*model.User, error)

	// Import seeds users restored from the persisted store. Existing entries
	// with the same username are replaced.
	Import(ctx context.Context, users []*model.User) error

	// Count returns the number of registered users.
	Count(ctx context.Context) (int, error)

	// Close releases any underlying resources.
	Close() error
}
