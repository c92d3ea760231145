package session

import (
	"context"
	"os/exec"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"mini-games-bot/internal/game"
	"mini-games-bot/internal/model"
)

// runStoreContract exercises the behaviour every Store must share.
func runStoreContract(t *testing.T, store Store) {
	ctx := context.Background()

	t.Run("missing session", func(t *testing.T) {
		_, ok, err := store.Get(ctx, 1)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("put then get", func(t *testing.T) {
		state := game.State{Game: model.GameGuessNumber, Secret: 7, Attempts: 2}
		require.NoError(t, store.Put(ctx, 2, state))

		got, ok, err := store.Get(ctx, 2)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, state, got)
	})

	t.Run("put replaces", func(t *testing.T) {
		require.NoError(t, store.Put(ctx, 3, game.State{Game: model.GameGuessNumber, Secret: 1}))
		quiz := game.State{Game: model.GameQuiz, Question: "Столица Австрии?", Answer: "Вена"}
		require.NoError(t, store.Put(ctx, 3, quiz))

		got, ok, err := store.Get(ctx, 3)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, quiz, got)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, store.Put(ctx, 4, game.State{Game: model.GameQuiz}))
		require.NoError(t, store.Delete(ctx, 4))
		require.NoError(t, store.Delete(ctx, 4))

		_, ok, err := store.Get(ctx, 4)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("users are isolated", func(t *testing.T) {
		require.NoError(t, store.Put(ctx, 5, game.State{Game: model.GameQuiz, Answer: "5"}))
		require.NoError(t, store.Delete(ctx, 6))

		_, ok, err := store.Get(ctx, 5)
		require.NoError(t, err)
		assert.True(t, ok)
	})
}

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore()
	runStoreContract(t, store)
	require.NoError(t, store.Close())
}

func TestMemoryStore_Concurrent(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := int64(1); i <= 50; i++ {
		wg.Add(1)
		go func(userID int64) {
			defer wg.Done()
			_ = store.Put(ctx, userID, game.State{Game: model.GameQuiz})
			_, _, _ = store.Get(ctx, userID)
			if userID%2 == 0 {
				_ = store.Delete(ctx, userID)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 25, store.Len())
}

// checkDockerAvailable checks if Docker is available and running
func checkDockerAvailable() bool {
	return exec.Command("docker", "info").Run() == nil
}

func setupRedis(t *testing.T) string {
	if !checkDockerAvailable() {
		t.Skip("Docker is not available, skipping integration test")
	}

	ctx := context.Background()
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	endpoint, err := container.Endpoint(ctx, "")
	require.NoError(t, err)

	return "redis://" + endpoint + "/0"
}

func TestRedisStore(t *testing.T) {
	url := setupRedis(t)

	store, err := NewRedisStore(context.Background(), url, time.Minute)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	runStoreContract(t, store)
}

func TestRedisStore_TTL(t *testing.T) {
	url := setupRedis(t)
	ctx := context.Background()

	store, err := NewRedisStore(ctx, url, time.Minute)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	require.NoError(t, store.Put(ctx, 10, game.State{Game: model.GameQuiz}))

	ttl, err := store.client.TTL(ctx, sessionKey(10)).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))
	assert.LessOrEqual(t, ttl, time.Minute)
}

func TestNewRedisStore_BadURL(t *testing.T) {
	_, err := NewRedisStore(context.Background(), "", time.Minute)
	assert.Error(t, err)

	_, err = NewRedisStore(context.Background(), "http://localhost:6379", time.Minute)
	assert.Error(t, err)
}

func TestSessionKey(t *testing.T) {
	assert.Equal(t, "minigames:session:42", sessionKey(42))
}
