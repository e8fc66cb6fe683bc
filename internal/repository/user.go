package repository

import (
	"context"

	"github.com/florisapp/floris-go/internal/domain"
)

// User defines the interface for user account persistence
type User interface {
	GetUserByID(ctx context.Context, userID string) (*domain.User, error)
	GetUserBySNS(ctx context.Context, snsID, provider string) (*domain.User, error)
	CreateUser(ctx context.Context, user *domain.User) error

	// DebitPoints subtracts amount from the user's balance and returns the new
	// balance. The update is conditional on points >= amount; a miss against an
	// existing user maps to domain.ErrInsufficientFunds.
	DebitPoints(ctx context.Context, userID string, amount int) (int, error)

	// CreditPoints adds amount to the user's balance and returns the new balance.
	CreditPoints(ctx context.Context, userID string, amount int) (int, error)
}
