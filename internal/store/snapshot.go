package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/ardley/wordle-server/internal/model"
)

// LoadSnapshot restores users from the persisted JSON store into the
// registry. A missing file is not an error: the server simply starts with an
// empty registry.
func LoadSnapshot(ctx context.Context, st Store, path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return 0, nil
		}
		return 0, fmt.Errorf("read user store: %w", err)
	}

	var users []*model.User
	if err := json.Unmarshal(data, &users); err != nil {
		return 0, fmt.Errorf("decode user store: %w", err)
	}

	for _, user := range users {
		// Everyone may play again after a restart.
		user.HasPlayed = false
		user.LoggedIn = false
	}

	if err := st.Import(ctx, users); err != nil {
		return 0, err
	}
	return len(users), nil
}

// SaveSnapshot writes every registered user to the JSON store. has_played is
// always written as false so each user may play again on the next start. The
// write goes through a temp file and rename so a crash mid-write cannot
// truncate the previous snapshot.
func SaveSnapshot(ctx context.Context, st Store, path string) error {
	users, err := st.All(ctx)
	if err != nil {
		return err
	}

	sort.Slice(users, func(i, j int) bool {
		return users[i].Username < users[j].Username
	})
	for _, user := range users {
		user.HasPlayed = false
	}

	data, err := json.MarshalIndent(users, "", "  ")
	if err != nil {
		return fmt.Errorf("encode user store: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".users-*.json")
	if err != nil {
		return fmt.Errorf("write user store: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write user store: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write user store: %w", err)
	}
	return os.Rename(tmp.Name(), path)
}
