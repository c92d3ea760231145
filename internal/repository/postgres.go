package repository

import "github.com/jackc/pgx/v5/pgxpool"

// PostgresStore implements Store on top of the per-table repositories sharing one pool.
type PostgresStore struct {
	*UserRepository
	*ScoreRepository
	*BlockRepository
	*GameStatusRepository
}

var _ Store = (*PostgresStore)(nil)

// NewPostgresStore creates a Store backed by PostgreSQL.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{
		UserRepository:       NewUserRepository(pool),
		ScoreRepository:      NewScoreRepository(pool),
		BlockRepository:      NewBlockRepository(pool),
		GameStatusRepository: NewGameStatusRepository(pool),
	}
}
