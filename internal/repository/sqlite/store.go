// Package sqlite provides a SQLite-backed implementation of repository.Store.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"mini-games-bot/internal/model"
	"mini-games-bot/internal/pkg/db"
	"mini-games-bot/internal/repository"
)

// Store persists bot state in SQLite.
type Store struct {
	sqlDB *sql.DB
	now   func() time.Time
}

var _ repository.Store = (*Store)(nil)

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens the database file at path and bootstraps the schema.
func Open(ctx context.Context, path string) (*Store, error) {
	sqlDB, err := db.OpenSQLite(ctx, path)
	if err != nil {
		return nil, err
	}
	if err := db.BootstrapSQLite(ctx, sqlDB); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	return New(sqlDB), nil
}

// New wraps an already bootstrapped handle.
func New(sqlDB *sql.DB) *Store {
	return &Store{sqlDB: sqlDB, now: time.Now}
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// UpsertUser inserts the user on first contact and refreshes handle and names afterwards.
func (s *Store) UpsertUser(ctx context.Context, user *model.User) error {
	_, err := s.sqlDB.ExecContext(ctx, `
		INSERT INTO users (id, username, first_name, last_name, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE
		SET username = excluded.username,
		    first_name = excluded.first_name,
		    last_name = excluded.last_name`,
		user.ID, user.Username, user.FirstName, user.LastName, toMillis(s.now()),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert user: %w", err)
	}
	return nil
}

// GetUserByUsername returns the oldest account with the handle.
func (s *Store) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	if username == "" {
		return nil, repository.ErrUserNotFound
	}

	var (
		user      model.User
		createdAt int64
	)
	err := s.sqlDB.QueryRowContext(ctx, `
		SELECT id, username, first_name, last_name, created_at
		FROM users
		WHERE username = ?
		ORDER BY id
		LIMIT 1`,
		username,
	).Scan(&user.ID, &user.Username, &user.FirstName, &user.LastName, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	user.CreatedAt = fromMillis(createdAt)

	return &user, nil
}

// IsBlocked reports whether a block entry exists for the user.
func (s *Store) IsBlocked(ctx context.Context, userID int64) (bool, error) {
	var blocked bool
	err := s.sqlDB.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM blocked_users WHERE user_id = ?)`, userID,
	).Scan(&blocked)
	if err != nil {
		return false, fmt.Errorf("failed to check block: %w", err)
	}
	return blocked, nil
}

// BlockUser creates the block entry, replacing the reason of an existing one.
func (s *Store) BlockUser(ctx context.Context, userID int64, reason string) error {
	_, err := s.sqlDB.ExecContext(ctx, `
		INSERT INTO blocked_users (user_id, reason, created_at)
		VALUES (?, ?, ?)
		ON CONFLICT (user_id) DO UPDATE SET reason = excluded.reason`,
		userID, reason, toMillis(s.now()),
	)
	if err != nil {
		return fmt.Errorf("failed to block user: %w", err)
	}
	return nil
}

// UnblockUser removes the block entry if any.
func (s *Store) UnblockUser(ctx context.Context, userID int64) error {
	if _, err := s.sqlDB.ExecContext(ctx, `DELETE FROM blocked_users WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("failed to unblock user: %w", err)
	}
	return nil
}

// GetBlock returns the block entry or repository.ErrNotBlocked.
func (s *Store) GetBlock(ctx context.Context, userID int64) (*model.BlockEntry, error) {
	var (
		entry     model.BlockEntry
		createdAt int64
	)
	err := s.sqlDB.QueryRowContext(ctx,
		`SELECT user_id, reason, created_at FROM blocked_users WHERE user_id = ?`, userID,
	).Scan(&entry.UserID, &entry.Reason, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotBlocked
		}
		return nil, fmt.Errorf("failed to get block: %w", err)
	}
	entry.CreatedAt = fromMillis(createdAt)

	return &entry, nil
}

// ListBlocked returns every block entry with the user's handle, oldest first.
func (s *Store) ListBlocked(ctx context.Context) ([]*model.BlockedUser, error) {
	rows, err := s.sqlDB.QueryContext(ctx, `
		SELECT b.user_id, COALESCE(u.username, ''), b.reason
		FROM blocked_users b
		LEFT JOIN users u ON b.user_id = u.id
		ORDER BY b.created_at, b.user_id`)
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

// AddScore appends one completed round.
func (s *Store) AddScore(ctx context.Context, userID int64, gameName string, value int) error {
	_, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO scores (user_id, game_name, score, created_at) VALUES (?, ?, ?, ?)`,
		userID, gameName, value, toMillis(s.now()),
	)
	if err != nil {
		return fmt.Errorf("failed to add score: %w", err)
	}
	return nil
}

// UserRating sums the user's scores, optionally for one game.
func (s *Store) UserRating(ctx context.Context, userID int64, gameName string) (int64, error) {
	var total int64
	err := s.sqlDB.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(score), 0)
		FROM scores
		WHERE user_id = ? AND (? = '' OR game_name = ?)`,
		userID, gameName, gameName,
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("failed to get user rating: %w", err)
	}
	return total, nil
}

// GlobalRating returns the top users by summed score, ties ordered by id.
func (s *Store) GlobalRating(ctx context.Context, gameName string, limit int) ([]*model.RatingEntry, error) {
	rows, err := s.sqlDB.QueryContext(ctx, `
		SELECT u.id, u.username, u.first_name, COALESCE(SUM(s.score), 0) AS total
		FROM scores s
		JOIN users u ON s.user_id = u.id
		WHERE (? = '' OR s.game_name = ?)
		GROUP BY u.id, u.username, u.first_name
		ORDER BY total DESC, u.id ASC
		LIMIT ?`,
		gameName, gameName, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get global rating: %w", err)
	}
	defer rows.Close()

	var entries []*model.RatingEntry
	for rows.Next() {
		var entry model.RatingEntry
		if err := rows.Scan(&entry.UserID, &entry.Username, &entry.FirstName, &entry.Total); err != nil {
			return nil, fmt.Errorf("failed to scan rating entry: %w", err)
		}
		entries = append(entries, &entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rating: %w", err)
	}

	return entries, nil
}

// UserGameStats returns rounds played and score sum per game.
func (s *Store) UserGameStats(ctx context.Context, userID int64) ([]*model.GameStats, error) {
	rows, err := s.sqlDB.QueryContext(ctx, `
		SELECT game_name, COUNT(*), COALESCE(SUM(score), 0)
		FROM scores
		WHERE user_id = ?
		GROUP BY game_name
		ORDER BY game_name`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get user game stats: %w", err)
	}
	defer rows.Close()

	var stats []*model.GameStats
	for rows.Next() {
		var gs model.GameStats
		if err := rows.Scan(&gs.GameName, &gs.Games, &gs.Score); err != nil {
			return nil, fmt.Errorf("failed to scan game stats: %w", err)
		}
		stats = append(stats, &gs)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating game stats: %w", err)
	}

	return stats, nil
}

// Stats returns the bot-wide counters.
func (s *Store) Stats(ctx context.Context) (*model.GlobalStats, error) {
	var stats model.GlobalStats
	err := s.sqlDB.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM users),
			(SELECT COUNT(*) FROM scores),
			(SELECT COALESCE(SUM(score), 0) FROM scores)`,
	).Scan(&stats.Users, &stats.GamesPlayed, &stats.TotalScore)
	if err != nil {
		return nil, fmt.Errorf("failed to get stats: %w", err)
	}
	return &stats, nil
}

// IsGameEnabled returns the stored flag, or true when the game has no row.
func (s *Store) IsGameEnabled(ctx context.Context, gameName string) (bool, error) {
	var enabled bool
	err := s.sqlDB.QueryRowContext(ctx,
		`SELECT is_active FROM game_status WHERE game_name = ?`, gameName,
	).Scan(&enabled)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return true, nil
		}
		return false, fmt.Errorf("failed to get game status: %w", err)
	}
	return enabled, nil
}

// SetGameEnabled stores the flag.
func (s *Store) SetGameEnabled(ctx context.Context, gameName string, enabled bool) error {
	_, err := s.sqlDB.ExecContext(ctx, `
		INSERT INTO game_status (game_name, is_active)
		VALUES (?, ?)
		ON CONFLICT (game_name) DO UPDATE SET is_active = excluded.is_active`,
		gameName, boolToInt(enabled),
	)
	if err != nil {
		return fmt.Errorf("failed to set game status: %w", err)
	}
	return nil
}

// ToggleGame flips the flag in a single statement; a missing row counts as enabled.
func (s *Store) ToggleGame(ctx context.Context, gameName string) (bool, error) {
	var enabled bool
	err := s.sqlDB.QueryRowContext(ctx, `
		INSERT INTO game_status (game_name, is_active)
		VALUES (?, 0)
		ON CONFLICT (game_name) DO UPDATE SET is_active = NOT game_status.is_active
		RETURNING is_active`,
		gameName,
	).Scan(&enabled)
	if err != nil {
		return false, fmt.Errorf("failed to toggle game: %w", err)
	}
	return enabled, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
