package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"mini-games-bot/internal/model"
	"mini-games-bot/internal/repository"
)

// AdminService implements the operator commands. Every mutating call is logged.
type AdminService struct {
	store repository.Store
}

// NewAdminService creates a new AdminService instance.
func NewAdminService(store repository.Store) *AdminService {
	return &AdminService{store: store}
}

// NormalizeHandle strips surrounding whitespace and leading @ characters.
func NormalizeHandle(handle string) string {
	return strings.TrimLeft(strings.TrimSpace(handle), "@")
}

func (s *AdminService) lookup(ctx context.Context, handle string) (*model.User, error) {
	user, err := s.store.GetUserByUsername(ctx, NormalizeHandle(handle))
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// Block blocks the user with the given handle and returns it.
// The user must have written to the bot before (repository.ErrUserNotFound otherwise).
func (s *AdminService) Block(ctx context.Context, adminID int64, handle, reason string) (*model.User, error) {
	user, err := s.lookup(ctx, handle)
	if err != nil {
		return nil, err
	}

	if err := s.store.BlockUser(ctx, user.ID, reason); err != nil {
		return nil, fmt.Errorf("failed to block user: %w", err)
	}

	log.Info().
		Int64("admin_id", adminID).
		Int64("target_id", user.ID).
		Str("operation", "block").
		Str("reason", reason).
		Msg("Admin operation")

	return user, nil
}

// Unblock removes the block of the user with the given handle and returns it.
func (s *AdminService) Unblock(ctx context.Context, adminID int64, handle string) (*model.User, error) {
	user, err := s.lookup(ctx, handle)
	if err != nil {
		return nil, err
	}

	if err := s.store.UnblockUser(ctx, user.ID); err != nil {
		return nil, fmt.Errorf("failed to unblock user: %w", err)
	}

	log.Info().
		Int64("admin_id", adminID).
		Int64("target_id", user.ID).
		Str("operation", "unblock").
		Msg("Admin operation")

	return user, nil
}

// Blocked lists every blocked user with the reason.
func (s *AdminService) Blocked(ctx context.Context) ([]*model.BlockedUser, error) {
	blocked, err := s.store.ListBlocked(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list blocked users: %w", err)
	}
	return blocked, nil
}

// UserStats returns the per-game breakdown for the user with the given handle.
// A known user who never played gets zero totals.
func (s *AdminService) UserStats(ctx context.Context, handle string) (*model.UserStats, error) {
	user, err := s.lookup(ctx, handle)
	if err != nil {
		return nil, err
	}

	games, err := s.store.UserGameStats(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user stats: %w", err)
	}

	stats := &model.UserStats{User: user, Games: games}
	for _, g := range games {
		stats.TotalGames += g.Games
		stats.TotalScore += g.Score
	}

	return stats, nil
}

// Stats returns the bot-wide counters.
func (s *AdminService) Stats(ctx context.Context) (*model.GlobalStats, error) {
	stats, err := s.store.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get stats: %w", err)
	}
	return stats, nil
}

// ToggleGame flips the game's enabled flag and returns the new value.
func (s *AdminService) ToggleGame(ctx context.Context, adminID int64, gameName string) (bool, error) {
	enabled, err := s.store.ToggleGame(ctx, gameName)
	if err != nil {
		return false, fmt.Errorf("failed to toggle game: %w", err)
	}

	log.Info().
		Int64("admin_id", adminID).
		Str("game", gameName).
		Str("operation", "toggle").
		Bool("enabled", enabled).
		Msg("Admin operation")

	return enabled, nil
}

// IsGameEnabled reports whether players may start the game.
func (s *AdminService) IsGameEnabled(ctx context.Context, gameName string) (bool, error) {
	enabled, err := s.store.IsGameEnabled(ctx, gameName)
	if err != nil {
		return false, fmt.Errorf("failed to get game status: %w", err)
	}
	return enabled, nil
}
