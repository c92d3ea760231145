package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mini-games-bot/internal/model"
	"mini-games-bot/internal/repository"
	"mini-games-bot/internal/repository/storetest"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := Open(context.Background(), filepath.Join(t.TempDir(), "games.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	return store
}

func TestStore(t *testing.T) {
	storetest.Run(t, func(t *testing.T) repository.Store {
		return openTestStore(t)
	})
}

func TestStore_ReopenKeepsData(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "games.db")

	store, err := Open(ctx, path)
	require.NoError(t, err)
	require.NoError(t, store.UpsertUser(ctx, &model.User{ID: 1, Username: "alice"}))
	require.NoError(t, store.AddScore(ctx, 1, model.GameQuiz, 5))
	_, err = store.ToggleGame(ctx, model.GameQuiz)
	require.NoError(t, err)
	require.NoError(t, store.Close())

	store, err = Open(ctx, path)
	require.NoError(t, err)
	defer store.Close()

	total, err := store.UserRating(ctx, 1, "")
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)

	enabled, err := store.IsGameEnabled(ctx, model.GameQuiz)
	require.NoError(t, err)
	assert.False(t, enabled)
}

func TestStore_CloseNil(t *testing.T) {
	var s *Store
	assert.NoError(t, s.Close())
}
