// Package repository provides the data access layer of the bot.
//
// Store is implemented by PostgresStore in this package and by sqlite.Store in
// the sqlite subpackage. Both keep the same semantics: users are inserted once
// and refreshed in place, scores are append-only, a missing game_status row means
// the game is enabled and the presence of a blocked_users row means blocked.
package repository

import (
	"context"
	"errors"

	"mini-games-bot/internal/model"
)

// Common errors for repository operations.
var (
	ErrUserNotFound = errors.New("user not found")
	ErrNotBlocked   = errors.New("user is not blocked")
)

// GlobalRatingLimit is the size of the public top list.
const GlobalRatingLimit = 10

// Store is the persistence gateway used by the services.
type Store interface {
	// UpsertUser inserts the user if absent and refreshes handle and names otherwise.
	UpsertUser(ctx context.Context, user *model.User) error
	// GetUserByUsername looks a user up by handle (without @).
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)

	IsBlocked(ctx context.Context, userID int64) (bool, error)
	BlockUser(ctx context.Context, userID int64, reason string) error
	UnblockUser(ctx context.Context, userID int64) error
	GetBlock(ctx context.Context, userID int64) (*model.BlockEntry, error)
	ListBlocked(ctx context.Context) ([]*model.BlockedUser, error)

	AddScore(ctx context.Context, userID int64, gameName string, value int) error
	// UserRating sums the user's scores; an empty gameName means all games.
	UserRating(ctx context.Context, userID int64, gameName string) (int64, error)
	// GlobalRating returns per-user score sums in descending order, ties by user id.
	GlobalRating(ctx context.Context, gameName string, limit int) ([]*model.RatingEntry, error)
	UserGameStats(ctx context.Context, userID int64) ([]*model.GameStats, error)
	Stats(ctx context.Context) (*model.GlobalStats, error)

	IsGameEnabled(ctx context.Context, gameName string) (bool, error)
	SetGameEnabled(ctx context.Context, gameName string, enabled bool) error
	// ToggleGame flips the enabled flag atomically and returns the new value.
	ToggleGame(ctx context.Context, gameName string) (bool, error)
}
