package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"mini-games-bot/internal/model"
)

// ScoreRepository handles the append-only score log and its aggregates.
type ScoreRepository struct {
	pool *pgxpool.Pool
}

// NewScoreRepository creates a new ScoreRepository instance.
func NewScoreRepository(pool *pgxpool.Pool) *ScoreRepository {
	return &ScoreRepository{pool: pool}
}

// AddScore appends one completed round.
func (r *ScoreRepository) AddScore(ctx context.Context, userID int64, gameName string, value int) error {
	const query = `
		INSERT INTO scores (user_id, game_name, score, created_at)
		VALUES ($1, $2, $3, NOW())
	`

	if _, err := r.pool.Exec(ctx, query, userID, gameName, value); err != nil {
		return fmt.Errorf("failed to add score: %w", err)
	}

	return nil
}

// UserRating returns the sum of the user's scores, 0 when there are none.
func (r *ScoreRepository) UserRating(ctx context.Context, userID int64, gameName string) (int64, error) {
	const query = `
		SELECT COALESCE(SUM(score), 0)
		FROM scores
		WHERE user_id = $1
		  AND ($2::text = '' OR game_name = $2::text)
	`

	var total int64
	if err := r.pool.QueryRow(ctx, query, userID, gameName).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to get user rating: %w", err)
	}

	return total, nil
}

// GlobalRating returns the top users by summed score.
// Only users with a users row are listed.
func (r *ScoreRepository) GlobalRating(ctx context.Context, gameName string, limit int) ([]*model.RatingEntry, error) {
	const query = `
		SELECT u.id, u.username, u.first_name, COALESCE(SUM(s.score), 0) AS total
		FROM scores s
		JOIN users u ON s.user_id = u.id
		WHERE ($1::text = '' OR s.game_name = $1::text)
		GROUP BY u.id, u.username, u.first_name
		ORDER BY total DESC, u.id ASC
		LIMIT $2
	`

	rows, err := r.pool.Query(ctx, query, gameName, limit)
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

// UserGameStats returns the number of rounds and the score sum per game.
func (r *ScoreRepository) UserGameStats(ctx context.Context, userID int64) ([]*model.GameStats, error) {
	const query = `
		SELECT game_name, COUNT(*) AS game_count, COALESCE(SUM(score), 0) AS total_score
		FROM scores
		WHERE user_id = $1
		GROUP BY game_name
		ORDER BY game_name
	`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user game stats: %w", err)
	}
	defer rows.Close()

	var stats []*model.GameStats
	for rows.Next() {
		var s model.GameStats
		if err := rows.Scan(&s.GameName, &s.Games, &s.Score); err != nil {
			return nil, fmt.Errorf("failed to scan game stats: %w", err)
		}
		stats = append(stats, &s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating game stats: %w", err)
	}

	return stats, nil
}

// Stats returns the bot-wide counters.
func (r *ScoreRepository) Stats(ctx context.Context) (*model.GlobalStats, error) {
	const query = `
		SELECT
			(SELECT COUNT(*) FROM users),
			(SELECT COUNT(*) FROM scores),
			(SELECT COALESCE(SUM(score), 0) FROM scores)
	`

	var stats model.GlobalStats
	if err := r.pool.QueryRow(ctx, query).Scan(&stats.Users, &stats.GamesPlayed, &stats.TotalScore); err != nil {
		return nil, fmt.Errorf("failed to get stats: %w", err)
	}

	return &stats, nil
}
