// Package session keeps the state of running games between messages.
package session

import (
	"context"

	"mini-games-bot/internal/game"
)

// Store holds at most one game state per user.
type Store interface {
	// Get returns the user's state and whether one exists.
	Get(ctx context.Context, userID int64) (game.State, bool, error)

	// Put creates or replaces the user's state.
	Put(ctx context.Context, userID int64, state game.State) error

	// Delete removes the user's state. Deleting a missing state is not an error.
	Delete(ctx context.Context, userID int64) error

	Close() error
}
