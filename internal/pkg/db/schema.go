package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

// Schema bootstrap is idempotent: every statement is CREATE ... IF NOT EXISTS and
// there is no schema version table.

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id BIGINT PRIMARY KEY,
		username TEXT NOT NULL DEFAULT '',
		first_name TEXT NOT NULL DEFAULT '',
		last_name TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_users_username ON users(username)`,
	`CREATE TABLE IF NOT EXISTS scores (
		id BIGSERIAL PRIMARY KEY,
		user_id BIGINT NOT NULL,
		game_name VARCHAR(50) NOT NULL,
		score INTEGER NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_scores_user_game ON scores(user_id, game_name)`,
	`CREATE TABLE IF NOT EXISTS game_status (
		game_name VARCHAR(50) PRIMARY KEY,
		is_active BOOLEAN NOT NULL DEFAULT TRUE
	)`,
	`CREATE TABLE IF NOT EXISTS blocked_users (
		user_id BIGINT PRIMARY KEY,
		reason TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
}

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id INTEGER PRIMARY KEY,
		username TEXT NOT NULL DEFAULT '',
		first_name TEXT NOT NULL DEFAULT '',
		last_name TEXT NOT NULL DEFAULT '',
		created_at INTEGER NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_users_username ON users(username)`,
	`CREATE TABLE IF NOT EXISTS scores (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL,
		game_name TEXT NOT NULL,
		score INTEGER NOT NULL,
		created_at INTEGER NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_scores_user_game ON scores(user_id, game_name)`,
	`CREATE TABLE IF NOT EXISTS game_status (
		game_name TEXT PRIMARY KEY,
		is_active INTEGER NOT NULL DEFAULT 1
	)`,
	`CREATE TABLE IF NOT EXISTS blocked_users (
		user_id INTEGER PRIMARY KEY,
		reason TEXT NOT NULL DEFAULT '',
		created_at INTEGER NOT NULL
	)`,
}

// BootstrapPostgres creates the tables and indexes used by the bot.
func BootstrapPostgres(ctx context.Context, pool *pgxpool.Pool) error {
	log.Info().Msg("Bootstrapping PostgreSQL schema...")

	for i, stmt := range postgresSchema {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema statement %d: %w", i+1, err)
		}
	}

	log.Info().Int("statements", len(postgresSchema)).Msg("PostgreSQL schema ready")
	return nil
}

// BootstrapSQLite creates the tables and indexes used by the bot.
func BootstrapSQLite(ctx context.Context, sqlDB *sql.DB) error {
	log.Info().Msg("Bootstrapping SQLite schema...")

	for i, stmt := range sqliteSchema {
		if _, err := sqlDB.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema statement %d: %w", i+1, err)
		}
	}

	log.Info().Int("statements", len(sqliteSchema)).Msg("SQLite schema ready")
	return nil
}
