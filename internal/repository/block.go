package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"mini-games-bot/internal/model"
)

// BlockRepository handles the blocked_users table.
type BlockRepository struct {
	pool *pgxpool.Pool
}

// NewBlockRepository creates a new BlockRepository instance.
func NewBlockRepository(pool *pgxpool.Pool) *BlockRepository {
	return &BlockRepository{pool: pool}
}

// IsBlocked reports whether a block entry exists for the user.
func (r *BlockRepository) IsBlocked(ctx context.Context, userID int64) (bool, error) {
	const query = `SELECT EXISTS(SELECT 1 FROM blocked_users WHERE user_id = $1)`

	var blocked bool
	if err := r.pool.QueryRow(ctx, query, userID).Scan(&blocked); err != nil {
		return false, fmt.Errorf("failed to check block: %w", err)
	}

	return blocked, nil
}

// BlockUser creates the block entry, replacing the reason of an existing one.
func (r *BlockRepository) BlockUser(ctx context.Context, userID int64, reason string) error {
	const query = `
		INSERT INTO blocked_users (user_id, reason, created_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (user_id) DO UPDATE SET reason = EXCLUDED.reason
	`

	if _, err := r.pool.Exec(ctx, query, userID, reason); err != nil {
		return fmt.Errorf("failed to block user: %w", err)
	}

	return nil
}

// UnblockUser removes the block entry. Unblocking a user that is not blocked is a no-op.
func (r *BlockRepository) UnblockUser(ctx context.Context, userID int64) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM blocked_users WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("failed to unblock user: %w", err)
	}

	return nil
}

// GetBlock returns the block entry of a user.
// Returns ErrNotBlocked if the user is not blocked.
func (r *BlockRepository) GetBlock(ctx context.Context, userID int64) (*model.BlockEntry, error) {
	const query = `
		SELECT user_id, reason, created_at
		FROM blocked_users
		WHERE user_id = $1
	`

	var entry model.BlockEntry
	err := r.pool.QueryRow(ctx, query, userID).Scan(&entry.UserID, &entry.Reason, &entry.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotBlocked
		}
		return nil, fmt.Errorf("failed to get block: %w", err)
	}

	return &entry, nil
}

// ListBlocked returns every block entry with the user's handle, oldest first.
func (r *BlockRepository) ListBlocked(ctx context.Context) ([]*model.BlockedUser, error) {
	const query = `
		SELECT b.user_id, COALESCE(u.username, ''), b.reason
		FROM blocked_users b
		LEFT JOIN users u ON b.user_id = u.id
		ORDER BY b.created_at, b.user_id
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list blocked users: %w", err)
	}
	defer rows.Close()

	var blocked []*model.BlockedUser
	for rows.Next() {
		var b model.BlockedUser
		if err := rows.Scan(&b.UserID, &b.Username, &b.Reason); err != nil {
			return nil, fmt.Errorf("failed to scan blocked user: %w", err)
		}
		blocked = append(blocked, &b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating blocked users: %w", err)
	}

	return blocked, nil
}
