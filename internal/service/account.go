// Package service provides business logic implementations.
package service

import (
	"context"
	"fmt"

	"mini-games-bot/internal/model"
	"mini-games-bot/internal/repository"
)

// AccountService handles user records and block checks.
type AccountService struct {
	store repository.Store
}

// NewAccountService creates a new AccountService instance.
func NewAccountService(store repository.Store) *AccountService {
	return &AccountService{store: store}
}

// EnsureUser records the sender of a message. Existing users get their
// handle and names refreshed; creation time is kept.
func (s *AccountService) EnsureUser(ctx context.Context, user *model.User) error {
	if err := s.store.UpsertUser(ctx, user); err != nil {
		return fmt.Errorf("failed to ensure user: %w", err)
	}
	return nil
}

// IsBlocked reports whether the user may not interact with the bot.
func (s *AccountService) IsBlocked(ctx context.Context, userID int64) (bool, error) {
	blocked, err := s.store.IsBlocked(ctx, userID)
	if err != nil {
		return false, fmt.Errorf("failed to check block status: %w", err)
	}
	return blocked, nil
}
