// Package storetest holds the behavioural test suite shared by every
// repository.Store implementation.
package storetest

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mini-games-bot/internal/model"
	"mini-games-bot/internal/repository"
)

// Factory returns an empty, bootstrapped store for one subtest.
type Factory func(t *testing.T) repository.Store

// Run executes the suite against stores produced by newStore.
func Run(t *testing.T, newStore Factory) {
	t.Run("UpsertUser", func(t *testing.T) { testUpsertUser(t, newStore(t)) })
	t.Run("GetUserByUsername", func(t *testing.T) { testGetUserByUsername(t, newStore(t)) })
	t.Run("BlockLifecycle", func(t *testing.T) { testBlockLifecycle(t, newStore(t)) })
	t.Run("ListBlocked", func(t *testing.T) { testListBlocked(t, newStore(t)) })
	t.Run("UserRating", func(t *testing.T) { testUserRating(t, newStore(t)) })
	t.Run("NewUserRatingIsZero", func(t *testing.T) { testNewUserRatingIsZero(t, newStore(t)) })
	t.Run("GlobalRating", func(t *testing.T) { testGlobalRating(t, newStore(t)) })
	t.Run("GlobalRatingByGame", func(t *testing.T) { testGlobalRatingByGame(t, newStore(t)) })
	t.Run("UserGameStats", func(t *testing.T) { testUserGameStats(t, newStore(t)) })
	t.Run("Stats", func(t *testing.T) { testStats(t, newStore(t)) })
	t.Run("GameStatus", func(t *testing.T) { testGameStatus(t, newStore(t)) })
}

func testUpsertUser(t *testing.T, store repository.Store) {
	ctx := context.Background()

	user := &model.User{ID: 101, Username: "test_user1", FirstName: "Test", LastName: "User"}
	require.NoError(t, store.UpsertUser(ctx, user))
	require.NoError(t, store.UpsertUser(ctx, user))

	got, err := store.GetUserByUsername(ctx, "test_user1")
	require.NoError(t, err)
	assert.Equal(t, int64(101), got.ID)
	assert.Equal(t, "Test", got.FirstName)
	assert.Equal(t, "User", got.LastName)

	// A renamed handle is picked up on the next message.
	require.NoError(t, store.UpsertUser(ctx, &model.User{ID: 101, Username: "renamed", FirstName: "Test"}))

	_, err = store.GetUserByUsername(ctx, "test_user1")
	assert.ErrorIs(t, err, repository.ErrUserNotFound)

	got, err = store.GetUserByUsername(ctx, "renamed")
	require.NoError(t, err)
	assert.Equal(t, int64(101), got.ID)
	assert.Empty(t, got.LastName)

	stats, err := store.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.Users)
}

func testGetUserByUsername(t *testing.T, store repository.Store) {
	ctx := context.Background()

	_, err := store.GetUserByUsername(ctx, "nobody")
	assert.ErrorIs(t, err, repository.ErrUserNotFound)

	_, err = store.GetUserByUsername(ctx, "")
	assert.ErrorIs(t, err, repository.ErrUserNotFound)

	// Handles are not unique; the oldest account wins.
	require.NoError(t, store.UpsertUser(ctx, &model.User{ID: 20, Username: "twin"}))
	require.NoError(t, store.UpsertUser(ctx, &model.User{ID: 10, Username: "twin"}))

	got, err := store.GetUserByUsername(ctx, "twin")
	require.NoError(t, err)
	assert.Equal(t, int64(10), got.ID)
}

func testBlockLifecycle(t *testing.T, store repository.Store) {
	ctx := context.Background()

	blocked, err := store.IsBlocked(ctx, 555)
	require.NoError(t, err)
	assert.False(t, blocked)

	_, err = store.GetBlock(ctx, 555)
	assert.ErrorIs(t, err, repository.ErrNotBlocked)

	require.NoError(t, store.BlockUser(ctx, 555, "test"))

	blocked, err = store.IsBlocked(ctx, 555)
	require.NoError(t, err)
	assert.True(t, blocked)

	entry, err := store.GetBlock(ctx, 555)
	require.NoError(t, err)
	assert.Equal(t, int64(555), entry.UserID)
	assert.Equal(t, "test", entry.Reason)

	// Blocking again replaces the reason.
	require.NoError(t, store.BlockUser(ctx, 555, "spam"))
	entry, err = store.GetBlock(ctx, 555)
	require.NoError(t, err)
	assert.Equal(t, "spam", entry.Reason)

	require.NoError(t, store.UnblockUser(ctx, 555))

	blocked, err = store.IsBlocked(ctx, 555)
	require.NoError(t, err)
	assert.False(t, blocked)

	// Unblocking twice is harmless.
	require.NoError(t, store.UnblockUser(ctx, 555))

	// Default reason is empty.
	require.NoError(t, store.BlockUser(ctx, 777, ""))
	entry, err = store.GetBlock(ctx, 777)
	require.NoError(t, err)
	assert.Empty(t, entry.Reason)
}

func testListBlocked(t *testing.T, store repository.Store) {
	ctx := context.Background()

	list, err := store.ListBlocked(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)

	require.NoError(t, store.UpsertUser(ctx, &model.User{ID: 1, Username: "spammer"}))
	require.NoError(t, store.BlockUser(ctx, 1, "spam"))
	require.NoError(t, store.BlockUser(ctx, 2, "unknown user"))

	list, err = store.ListBlocked(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)

	byID := make(map[int64]*model.BlockedUser)
	for _, b := range list {
		byID[b.UserID] = b
	}
	assert.Equal(t, "spammer", byID[1].Username)
	assert.Equal(t, "spam", byID[1].Reason)
	assert.Empty(t, byID[2].Username)
	assert.Equal(t, "unknown user", byID[2].Reason)
}

func testUserRating(t *testing.T, store repository.Store) {
	ctx := context.Background()

	require.NoError(t, store.UpsertUser(ctx, &model.User{ID: 101, Username: "test_user1"}))
	require.NoError(t, store.AddScore(ctx, 101, model.GameQuiz, 5))
	require.NoError(t, store.AddScore(ctx, 101, model.GameGuessNumber, 7))

	total, err := store.UserRating(ctx, 101, "")
	require.NoError(t, err)
	assert.Equal(t, int64(12), total)

	quiz, err := store.UserRating(ctx, 101, model.GameQuiz)
	require.NoError(t, err)
	assert.Equal(t, int64(5), quiz)

	guess, err := store.UserRating(ctx, 101, model.GameGuessNumber)
	require.NoError(t, err)
	assert.Equal(t, int64(7), guess)

	// Zero-point rounds are still recorded but do not change the sum.
	require.NoError(t, store.AddScore(ctx, 101, model.GameQuiz, 0))
	total, err = store.UserRating(ctx, 101, "")
	require.NoError(t, err)
	assert.Equal(t, int64(12), total)
}

func testNewUserRatingIsZero(t *testing.T, store repository.Store) {
	total, err := store.UserRating(context.Background(), 9999, "")
	require.NoError(t, err)
	assert.Equal(t, int64(0), total)
}

func testGlobalRating(t *testing.T, store repository.Store) {
	ctx := context.Background()

	// 12 users, user i scores i points, plus a tie between users 13 and 14.
	for i := int64(1); i <= 14; i++ {
		require.NoError(t, store.UpsertUser(ctx, &model.User{ID: i, Username: fmt.Sprintf("user%d", i)}))
	}
	for i := int64(1); i <= 12; i++ {
		require.NoError(t, store.AddScore(ctx, i, model.GameQuiz, int(i)))
	}
	require.NoError(t, store.AddScore(ctx, 14, model.GameQuiz, 11))
	require.NoError(t, store.AddScore(ctx, 13, model.GameGuessNumber, 6))
	require.NoError(t, store.AddScore(ctx, 13, model.GameQuiz, 5))

	// Scores of users that never wrote to the bot are not listed.
	require.NoError(t, store.AddScore(ctx, 999, model.GameQuiz, 100))

	top, err := store.GlobalRating(ctx, "", repository.GlobalRatingLimit)
	require.NoError(t, err)
	require.Len(t, top, repository.GlobalRatingLimit)

	for i := 1; i < len(top); i++ {
		assert.GreaterOrEqual(t, top[i-1].Total, top[i].Total, "rating must be sorted descending")
	}

	assert.Equal(t, int64(12), top[0].UserID)
	assert.Equal(t, int64(12), top[0].Total)
	assert.Equal(t, "user12", top[0].Username)

	// 11 points: users 11, 13 and 14 tie and are ordered by id.
	assert.Equal(t, []int64{11, 13, 14}, []int64{top[1].UserID, top[2].UserID, top[3].UserID})

	empty, err := store.GlobalRating(ctx, "no_such_game", repository.GlobalRatingLimit)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func testGlobalRatingByGame(t *testing.T, store repository.Store) {
	ctx := context.Background()

	require.NoError(t, store.UpsertUser(ctx, &model.User{ID: 1, Username: "quizzer"}))
	require.NoError(t, store.UpsertUser(ctx, &model.User{ID: 2, Username: "guesser"}))
	require.NoError(t, store.AddScore(ctx, 1, model.GameQuiz, 5))
	require.NoError(t, store.AddScore(ctx, 2, model.GameGuessNumber, 10))

	quiz, err := store.GlobalRating(ctx, model.GameQuiz, repository.GlobalRatingLimit)
	require.NoError(t, err)
	require.Len(t, quiz, 1)
	assert.Equal(t, int64(1), quiz[0].UserID)
	assert.Equal(t, int64(5), quiz[0].Total)

	all, err := store.GlobalRating(ctx, "", repository.GlobalRatingLimit)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, int64(2), all[0].UserID)
}

func testUserGameStats(t *testing.T, store repository.Store) {
	ctx := context.Background()

	stats, err := store.UserGameStats(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, stats)

	require.NoError(t, store.AddScore(ctx, 1, model.GameQuiz, 5))
	require.NoError(t, store.AddScore(ctx, 1, model.GameQuiz, 0))
	require.NoError(t, store.AddScore(ctx, 1, model.GameGuessNumber, 9))

	stats, err = store.UserGameStats(ctx, 1)
	require.NoError(t, err)
	require.Len(t, stats, 2)

	assert.Equal(t, model.GameGuessNumber, stats[0].GameName)
	assert.Equal(t, int64(1), stats[0].Games)
	assert.Equal(t, int64(9), stats[0].Score)
	assert.Equal(t, model.GameQuiz, stats[1].GameName)
	assert.Equal(t, int64(2), stats[1].Games)
	assert.Equal(t, int64(5), stats[1].Score)

	var sum int64
	for _, s := range stats {
		sum += s.Score
	}
	total, err := store.UserRating(ctx, 1, "")
	require.NoError(t, err)
	assert.Equal(t, total, sum)
}

func testStats(t *testing.T, store repository.Store) {
	ctx := context.Background()

	stats, err := store.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.GlobalStats{}, *stats)

	require.NoError(t, store.UpsertUser(ctx, &model.User{ID: 1}))
	require.NoError(t, store.UpsertUser(ctx, &model.User{ID: 2}))
	require.NoError(t, store.AddScore(ctx, 1, model.GameQuiz, 5))
	require.NoError(t, store.AddScore(ctx, 2, model.GameGuessNumber, 8))
	require.NoError(t, store.AddScore(ctx, 2, model.GameQuiz, 0))

	stats, err = store.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.Users)
	assert.Equal(t, int64(3), stats.GamesPlayed)
	assert.Equal(t, int64(13), stats.TotalScore)
}

func testGameStatus(t *testing.T, store repository.Store) {
	ctx := context.Background()

	enabled, err := store.IsGameEnabled(ctx, model.GameQuiz)
	require.NoError(t, err)
	assert.True(t, enabled, "games without a row are enabled")

	enabled, err = store.ToggleGame(ctx, model.GameQuiz)
	require.NoError(t, err)
	assert.False(t, enabled)

	enabled, err = store.IsGameEnabled(ctx, model.GameQuiz)
	require.NoError(t, err)
	assert.False(t, enabled)

	// Other games are unaffected.
	enabled, err = store.IsGameEnabled(ctx, model.GameGuessNumber)
	require.NoError(t, err)
	assert.True(t, enabled)

	enabled, err = store.ToggleGame(ctx, model.GameQuiz)
	require.NoError(t, err)
	assert.True(t, enabled)

	require.NoError(t, store.SetGameEnabled(ctx, model.GameGuessNumber, false))
	enabled, err = store.IsGameEnabled(ctx, model.GameGuessNumber)
	require.NoError(t, err)
	assert.False(t, enabled)

	require.NoError(t, store.SetGameEnabled(ctx, model.GameGuessNumber, true))
	enabled, err = store.IsGameEnabled(ctx, model.GameGuessNumber)
	require.NoError(t, err)
	assert.True(t, enabled)
}
