package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// GameStatusRepository handles the per-game enabled flags.
type GameStatusRepository struct {
	pool *pgxpool.Pool
}

// NewGameStatusRepository creates a new GameStatusRepository instance.
func NewGameStatusRepository(pool *pgxpool.Pool) *GameStatusRepository {
	return &GameStatusRepository{pool: pool}
}

// IsGameEnabled returns the stored flag, or true when the game has no row.
func (r *GameStatusRepository) IsGameEnabled(ctx context.Context, gameName string) (bool, error) {
	const query = `SELECT is_active FROM game_status WHERE game_name = $1`

	var enabled bool
	err := r.pool.QueryRow(ctx, query, gameName).Scan(&enabled)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return true, nil
		}
		return false, fmt.Errorf("failed to get game status: %w", err)
	}

	return enabled, nil
}

// SetGameEnabled stores the flag.
func (r *GameStatusRepository) SetGameEnabled(ctx context.Context, gameName string, enabled bool) error {
	const query = `
		INSERT INTO game_status (game_name, is_active)
		VALUES ($1, $2)
		ON CONFLICT (game_name) DO UPDATE SET is_active = EXCLUDED.is_active
	`

	if _, err := r.pool.Exec(ctx, query, gameName, enabled); err != nil {
		return fmt.Errorf("failed to set game status: %w", err)
	}

	return nil
}

// ToggleGame flips the flag in a single statement. A missing row counts as
// enabled, so the first toggle disables the game.
func (r *GameStatusRepository) ToggleGame(ctx context.Context, gameName string) (bool, error) {
	const query = `
		INSERT INTO game_status (game_name, is_active)
		VALUES ($1, FALSE)
		ON CONFLICT (game_name) DO UPDATE SET is_active = NOT game_status.is_active
		RETURNING is_active
	`

	var enabled bool
	if err := r.pool.QueryRow(ctx, query, gameName).Scan(&enabled); err != nil {
		return false, fmt.Errorf("failed to toggle game: %w", err)
	}

	return enabled, nil
}
