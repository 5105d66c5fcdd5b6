// Package memory is the in-memory registry implementation.
package memory

import (
	"context"
	"sync"

	"github.com/ardley/wordle-server/internal/model"
	"github.com/ardley/wordle-server/internal/store"
)

// Store keeps all users in a map guarded by a single RWMutex. Holding the
// write lock across each composite operation is what makes the check-then-set
// and read-modify-write operations atomic.
type Store struct {
	mu    sync.RWMutex
	users map[string]*model.User
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{
		users: make(map[string]*model.User),
	}
}

var _ store.Store = (*Store)(nil)

func (s *Store) Create(ctx context.Context, user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[user.Username]; ok {
		return model.ErrDuplicateUser
	}
	s.users[user.Username] = user.Clone()
	return nil
}

func (s *Store) Get(ctx context.Context, username string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.users[username]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	return user.Clone(), nil
}

func (s *Store) Update(ctx context.Context, user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[user.Username]; !ok {
		return model.ErrUserNotFound
	}
	s.users[user.Username] = user.Clone()
	return nil
}

func (s *Store) SetLoggedIn(ctx context.Context, username string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[username]
	if !ok {
		return model.ErrUserNotFound
	}
	if user.LoggedIn {
		return model.ErrAlreadyLoggedIn
	}
	user.LoggedIn = true
	return nil
}

func (s *Store) SetLoggedOut(ctx context.Context, username string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[username]
	if !ok {
		return model.ErrUserNotFound
	}
	user.LoggedIn = false
	return nil
}

func (s *Store) MarkPlayed(ctx context.Context, username string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[username]
	if !ok {
		return model.ErrUserNotFound
	}
	if user.HasPlayed {
		return model.ErrAlreadyPlayed
	}
	user.HasPlayed = true
	return nil
}

func (s *Store) RecordWin(ctx context.Context, username string, attempts int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[username]
	if !ok {
		return model.ErrUserNotFound
	}
	user.RecordWin(attempts)
	return nil
}

func (s *Store) RecordLoss(ctx context.Context, username string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[username]
	if !ok {
		return model.ErrUserNotFound
	}
	user.RecordLoss()
	return nil
}

func (s *Store) ResetAllPlayed(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, user := range s.users {
		user.HasPlayed = false
	}
	return nil
}

func (s *Store) All(ctx context.Context) ([]*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	users := make([]*model.User, 0, len(s.users))
	for _, user := range s.users {
		users = append(users, user.Clone())
	}
	return users, nil
}

func (s *Store) Import(ctx context.Context, users []*model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, user := range users {
		s.users[user.Username] = user.Clone()
	}
	return nil
}

func (s *Store) Count(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.users), nil
}

func (s *Store) Close() error {
	return nil
}
