package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"mini-games-bot/internal/model"
)

// UserRepository handles user data persistence.
type UserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new UserRepository instance.
func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

// UpsertUser creates the user on first contact. Later calls only refresh the
// handle and names when they changed; the id is never duplicated.
func (r *UserRepository) UpsertUser(ctx context.Context, user *model.User) error {
	const query = `
		INSERT INTO users (id, username, first_name, last_name, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (id) DO UPDATE
		SET username = EXCLUDED.username,
		    first_name = EXCLUDED.first_name,
		    last_name = EXCLUDED.last_name
		WHERE users.username IS DISTINCT FROM EXCLUDED.username
		   OR users.first_name IS DISTINCT FROM EXCLUDED.first_name
		   OR users.last_name IS DISTINCT FROM EXCLUDED.last_name
	`

	_, err := r.pool.Exec(ctx, query, user.ID, user.Username, user.FirstName, user.LastName)
	if err != nil {
		return fmt.Errorf("failed to upsert user: %w", err)
	}

	return nil
}

// GetByID retrieves a user by Telegram ID.
// Returns ErrUserNotFound if the user does not exist.
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	const query = `
		SELECT id, username, first_name, last_name, created_at
		FROM users
		WHERE id = $1
	`

	return r.scanOne(r.pool.QueryRow(ctx, query, id))
}

// GetUserByUsername retrieves a user by handle. Handles are not unique, so the
// oldest account wins.
// Returns ErrUserNotFound if no user has the handle.
func (r *UserRepository) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	if username == "" {
		return nil, ErrUserNotFound
	}

	const query = `
		SELECT id, username, first_name, last_name, created_at
		FROM users
		WHERE username = $1
		ORDER BY id
		LIMIT 1
	`

	return r.scanOne(r.pool.QueryRow(ctx, query, username))
}

func (r *UserRepository) scanOne(row pgx.Row) (*model.User, error) {
	var user model.User
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.FirstName,
		&user.LastName,
		&user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return &user, nil
}
