package store_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/ardley/wordle-server/internal/model"
	"github.com/ardley/wordle-server/internal/store"
	"github.com/ardley/wordle-server/internal/store/memory"
)

type SnapshotSuite struct {
	suite.Suite
	store *memory.Store
	ctx   context.Context
	path  string
}

func TestSnapshotSuite(t *testing.T) {
	suite.Run(t, new(SnapshotSuite))
}

func (s *SnapshotSuite) SetupTest() {
	s.store = memory.New()
	s.ctx = context.Background()
	s.path = filepath.Join(s.T().TempDir(), "users.json")
}

func (s *SnapshotSuite) TestRoundTrip() {
	alice := model.NewUser("alice", "hash-a")
	alice.RecordWin(3)
	alice.HasPlayed = true
	s.Require().NoError(s.store.Create(s.ctx, alice))
	s.Require().NoError(s.store.Update(s.ctx, alice))
	s.Require().NoError(s.store.Create(s.ctx, model.NewUser("bob", "hash-b")))

	s.Require().NoError(store.SaveSnapshot(s.ctx, s.store, s.path))

	restored := memory.New()
	n, err := store.LoadSnapshot(s.ctx, restored, s.path)
	s.Require().NoError(err)
	s.Equal(2, n)

	user, err := restored.Get(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal(1, user.TotalWon)
	s.Equal([]int{3}, user.GuessDistribution)
	s.False(user.HasPlayed, "has_played is always persisted false")
	s.False(user.LoggedIn)
}

func (s *SnapshotSuite) TestPersistedSchema() {
	alice := model.NewUser("alice", "hash-a")
	alice.RecordWin(2)
	s.Require().NoError(s.store.Create(s.ctx, alice))
	s.Require().NoError(s.store.Update(s.ctx, alice))

	s.Require().NoError(store.SaveSnapshot(s.ctx, s.store, s.path))

	data, err := os.ReadFile(s.path)
	s.Require().NoError(err)

	var records []map[string]any
	s.Require().NoError(json.Unmarshal(data, &records))
	s.Require().Len(records, 1)

	rec := records[0]
	for _, field := range []string{
		"username", "password", "total_played_games", "total_games_won",
		"current_winstreak", "longest_winstreak", "has_played", "guess_distribution",
	} {
		s.Contains(rec, field)
	}
	s.Equal(false, rec["has_played"])
}

func (s *SnapshotSuite) TestLoadMissingFile() {
	n, err := store.LoadSnapshot(s.ctx, s.store, s.path)
	s.NoError(err)
	s.Zero(n)
}

func (s *SnapshotSuite) TestLoadCorruptFile() {
	s.Require().NoError(os.WriteFile(s.path, []byte("not json"), 0o644))
	_, err := store.LoadSnapshot(s.ctx, s.store, s.path)
	s.Error(err)
}
