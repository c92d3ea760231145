package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"mini-games-bot/internal/model"
	"mini-games-bot/internal/repository"
)

// RankingService records finished rounds and computes ratings.
type RankingService struct {
	store repository.Store
	limit int
}

// NewRankingService creates a RankingService with the standard top-10 list.
func NewRankingService(store repository.Store) *RankingService {
	return &RankingService{
		store: store,
		limit: repository.GlobalRatingLimit,
	}
}

// RecordScore appends the result of a finished round.
func (s *RankingService) RecordScore(ctx context.Context, userID int64, gameName string, score int) error {
	if err := s.store.AddScore(ctx, userID, gameName, score); err != nil {
		return fmt.Errorf("failed to record score: %w", err)
	}

	log.Debug().
		Int64("user_id", userID).
		Str("game", gameName).
		Int("score", score).
		Msg("Score recorded")

	return nil
}

// PersonalRating returns the user's total; an empty gameName means all games.
func (s *RankingService) PersonalRating(ctx context.Context, userID int64, gameName string) (int64, error) {
	total, err := s.store.UserRating(ctx, userID, gameName)
	if err != nil {
		return 0, fmt.Errorf("failed to get personal rating: %w", err)
	}
	return total, nil
}

// GlobalTop returns the top players by total score.
func (s *RankingService) GlobalTop(ctx context.Context, gameName string) ([]*model.RatingEntry, error) {
	entries, err := s.store.GlobalRating(ctx, gameName, s.limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get global rating: %w", err)
	}
	return entries, nil
}
