package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/florisapp/floris-go/internal/domain"
)

// UserRepository implements the user repository for PostgreSQL
type UserRepository struct {
	db *pgxpool.Pool
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = "user_id, sns_id, provider, nickname, profile_image, points, created_at"

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	err := row.Scan(&u.ID, &u.SNSID, &u.Provider, &u.Nickname, &u.ProfileImage, &u.Points, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}
	return &u, nil
}

// GetUserByID retrieves a user by internal id
func (r *UserRepository) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE user_id = $1`
	return scanUser(r.db.QueryRow(ctx, query, userID))
}

// GetUserBySNS finds a user by their external login identity
func (r *UserRepository) GetUserBySNS(ctx context.Context, snsID, provider string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE sns_id = $1 AND provider = $2`
	return scanUser(r.db.QueryRow(ctx, query, snsID, provider))
}

// CreateUser inserts a new user account. The caller sets the starting points
// balance; Provider defaults to kakao when empty.
func (r *UserRepository) CreateUser(ctx context.Context, user *domain.User) error {
	if user.Provider == "" {
		user.Provider = domain.DefaultProvider
	}
	query := `
		INSERT INTO users (sns_id, provider, nickname, profile_image, points)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING user_id, created_at
	`
	err := r.db.QueryRow(ctx, query,
		user.SNSID, user.Provider, user.Nickname, user.ProfileImage, user.Points,
	).Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

// DebitPoints subtracts points with a balance guard. The WHERE clause is the
// non-negative invariant: an existing user whose balance is too low matches no
// row and the caller gets ErrInsufficientFunds.
func (r *UserRepository) DebitPoints(ctx context.Context, userID string, amount int) (int, error) {
	return debitPoints(ctx, r.db, userID, amount)
}

// CreditPoints adds points and returns the new balance
func (r *UserRepository) CreditPoints(ctx context.Context, userID string, amount int) (int, error) {
	return creditPoints(ctx, r.db, userID, amount)
}

// querier is satisfied by both *pgxpool.Pool and pgx.Tx, so the points
// statements run identically inside and outside transactions.
type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func debitPoints(ctx context.Context, q querier, userID string, amount int) (int, error) {
	query := `
		UPDATE users SET points = points - $2, updated_at = NOW()
		WHERE user_id = $1 AND points >= $2
		RETURNING points
	`
	var balance int
	err := q.QueryRow(ctx, query, userID, amount).Scan(&balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Distinguish a missing user from an underfunded one
			var exists bool
			if checkErr := q.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE user_id = $1)`, userID).Scan(&exists); checkErr != nil {
				return 0, fmt.Errorf("failed to check user existence: %w", checkErr)
			}
			if !exists {
				return 0, domain.ErrUserNotFound
			}
			return 0, domain.ErrInsufficientFunds
		}
		return 0, fmt.Errorf("failed to debit points: %w", err)
	}
	return balance, nil
}

func creditPoints(ctx context.Context, q querier, userID string, amount int) (int, error) {
	query := `
		UPDATE users SET points = points + $2, updated_at = NOW()
		WHERE user_id = $1
		RETURNING points
	`
	var balance int
	err := q.QueryRow(ctx, query, userID, amount).Scan(&balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, domain.ErrUserNotFound
		}
		return 0, fmt.Errorf("failed to credit points: %w", err)
	}
	return balance, nil
}
