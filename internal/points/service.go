// Package points is the balance ledger: validated debit and credit mutations
// plus balance reads. The transactional gacha and sell paths run the same
// guarded SQL through their transaction handles; this service covers the
// non-transactional callers.
package points

import (
	"context"
	"fmt"

	"github.com/florisapp/floris-go/internal/domain"
	"github.com/florisapp/floris-go/internal/logger"
	"github.com/florisapp/floris-go/internal/repository"
)

// Service defines the interface for point balance operations
type Service interface {
	// Debit subtracts amount from the user's balance and returns the new
	// balance. Fails with ErrInsufficientFunds rather than going negative.
	Debit(ctx context.Context, userID string, amount int) (int, error)

	// Credit adds amount to the user's balance and returns the new balance.
	Credit(ctx context.Context, userID string, amount int) (int, error)

	// Balance returns the user's current balance.
	Balance(ctx context.Context, userID string) (int, error)
}

type service struct {
	users repository.User
}

// NewService creates a new points service
func NewService(users repository.User) Service {
	return &service{users: users}
}

func (s *service) Debit(ctx context.Context, userID string, amount int) (int, error) {
	if amount < 0 {
		return 0, fmt.Errorf("%w: debit amount must not be negative", domain.ErrInvalidInput)
	}

	balance, err := s.users.DebitPoints(ctx, userID, amount)
	if err != nil {
		return 0, err
	}

	log := logger.FromContext(ctx)
	log.Info("Points debited", "user_id", userID, "amount", amount, "balance", balance)
	return balance, nil
}

func (s *service) Credit(ctx context.Context, userID string, amount int) (int, error) {
	if amount < 0 {
		return 0, fmt.Errorf("%w: credit amount must not be negative", domain.ErrInvalidInput)
	}

	balance, err := s.users.CreditPoints(ctx, userID, amount)
	if err != nil {
		return 0, err
	}

	log := logger.FromContext(ctx)
	log.Info("Points credited", "user_id", userID, "amount", amount, "balance", balance)
	return balance, nil
}

func (s *service) Balance(ctx context.Context, userID string) (int, error) {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return 0, err
	}
	return user.Points, nil
}
