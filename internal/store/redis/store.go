// Package redis is the Redis-backed registry implementation. User records are
// stored as JSON; the logged-in and played-this-round flags live in separate
// keys so SETNX gives the atomic check-then-set the registry contract
// requires, and statistics updates run inside optimistic WATCH transactions.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ardley/wordle-server/internal/model"
	"github.com/ardley/wordle-server/internal/store"
)

// recordTxRetries bounds the optimistic retry loop for RecordWin/RecordLoss.
const recordTxRetries = 10

// Store is a Redis-backed implementation of the registry interface.
type Store struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis store instance.
func New(cfg Config) (*Store, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Store{client: client, cfg: cfg}, nil
}

// NewWithClient creates a Redis store with an existing client (for testing).
func NewWithClient(client *redis.Client, cfg Config) *Store {
	return &Store{client: client, cfg: cfg}
}

// Close closes the Redis connection.
func (s *Store) Close() error {
	return s.client.Close()
}

var _ store.Store = (*Store)(nil)

func (s *Store) Create(ctx context.Context, user *model.User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return err
	}

	ok, err := s.client.SetNX(ctx, userKey(user.Username), data, 0).Result()
	if err != nil {
		return err
	}
	if !ok {
		return model.ErrDuplicateUser
	}
	return s.client.SAdd(ctx, usersSetKey(), user.Username).Err()
}

func (s *Store) Get(ctx context.Context, username string) (*model.User, error) {
	pipe := s.client.Pipeline()
	getCmd := pipe.Get(ctx, userKey(username))
	playedCmd := pipe.Exists(ctx, playedKey(username))
	loginCmd := pipe.Exists(ctx, loginKey(username))
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return nil, err
	}

	data, err := getCmd.Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrUserNotFound
		}
		return nil, err
	}

	var user model.User
	if err := json.Unmarshal(data, &user); err != nil {
		return nil, err
	}
	user.HasPlayed = playedCmd.Val() > 0
	user.LoggedIn = loginCmd.Val() > 0
	return &user, nil
}

func (s *Store) Update(ctx context.Context, user *model.User) error {
	if err := s.exists(ctx, user.Username); err != nil {
		return err
	}
	data, err := json.Marshal(user)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, userKey(user.Username), data, 0).Err()
}

func (s *Store) SetLoggedIn(ctx context.Context, username string) error {
	if err := s.exists(ctx, username); err != nil {
		return err
	}
	ok, err := s.client.SetNX(ctx, loginKey(username), "1", 0).Result()
	if err != nil {
		return err
	}
	if !ok {
		return model.ErrAlreadyLoggedIn
	}
	return nil
}

func (s *Store) SetLoggedOut(ctx context.Context, username string) error {
	if err := s.exists(ctx, username); err != nil {
		return err
	}
	return s.client.Del(ctx, loginKey(username)).Err()
}

func (s *Store) MarkPlayed(ctx context.Context, username string) error {
	if err := s.exists(ctx, username); err != nil {
		return err
	}
	ok, err := s.client.SetNX(ctx, playedKey(username), "1", 0).Result()
	if err != nil {
		return err
	}
	if !ok {
		return model.ErrAlreadyPlayed
	}
	return nil
}

func (s *Store) RecordWin(ctx context.Context, username string, attempts int) error {
	return s.mutate(ctx, username, func(user *model.User) {
		user.RecordWin(attempts)
	})
}

func (s *Store) RecordLoss(ctx context.Context, username string) error {
	return s.mutate(ctx, username, func(user *model.User) {
		user.RecordLoss()
	})
}

// mutate applies a read-modify-write to a user record inside an optimistic
// WATCH transaction, retrying when a concurrent writer invalidates it.
func (s *Store) mutate(ctx context.Context, username string, apply func(*model.User)) error {
	key := userKey(username)

	txn := func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, key).Bytes()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				return model.ErrUserNotFound
			}
			return err
		}

		var user model.User
		if err := json.Unmarshal(data, &user); err != nil {
			return err
		}
		apply(&user)

		updated, err := json.Marshal(&user)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, updated, 0)
			return nil
		})
		return err
	}

	for i := 0; i < recordTxRetries; i++ {
		err := s.client.Watch(ctx, txn, key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return err
	}
	return redis.TxFailedErr
}

func (s *Store) ResetAllPlayed(ctx context.Context) error {
	usernames, err := s.client.SMembers(ctx, usersSetKey()).Result()
	if err != nil {
		return err
	}
	if len(usernames) == 0 {
		return nil
	}

	keys := make([]string, len(usernames))
	for i, username := range usernames {
		keys[i] = playedKey(username)
	}
	return s.client.Del(ctx, keys...).Err()
}

func (s *Store) All(ctx context.Context) ([]*model.User, error) {
	usernames, err := s.client.SMembers(ctx, usersSetKey()).Result()
	if err != nil {
		return nil, err
	}

	users := make([]*model.User, 0, len(usernames))
	for _, username := range usernames {
		user, err := s.Get(ctx, username)
		if err != nil {
			if errors.Is(err, model.ErrUserNotFound) {
				continue
			}
			return nil, err
		}
		users = append(users, user)
	}
	return users, nil
}

func (s *Store) Import(ctx context.Context, users []*model.User) error {
	pipe := s.client.Pipeline()
	for _, user := range users {
		data, err := json.Marshal(user)
		if err != nil {
			return err
		}
		pipe.Set(ctx, userKey(user.Username), data, 0)
		pipe.SAdd(ctx, usersSetKey(), user.Username)
		// Imported users start the round fresh and logged out.
		pipe.Del(ctx, playedKey(user.Username), loginKey(user.Username))
	}
	_, err := pipe.Exec(ctx)
	return err
}

func (s *Store) Count(ctx context.Context) (int, error) {
	n, err := s.client.SCard(ctx, usersSetKey()).Result()
	return int(n), err
}

func (s *Store) exists(ctx context.Context, username string) error {
	n, err := s.client.Exists(ctx, userKey(username)).Result()
	if err != nil {
		return err
	}
	if n == 0 {
		return model.ErrUserNotFound
	}
	return nil
}
