package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/florisapp/floris-go/internal/domain"
	"github.com/florisapp/floris-go/internal/repository"
)

// FlowerRepository implements the flower instance repository for PostgreSQL
type FlowerRepository struct {
	db *pgxpool.Pool
}

// NewFlowerRepository creates a new FlowerRepository
func NewFlowerRepository(db *pgxpool.Pool) *FlowerRepository {
	return &FlowerRepository{db: db}
}

// FlowerTx implements repository.FlowerTx
type FlowerTx struct {
	tx pgx.Tx
}

// BeginTx starts a new transaction
func (r *FlowerRepository) BeginTx(ctx context.Context) (repository.FlowerTx, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return &FlowerTx{tx: tx}, nil
}

// Commit commits the transaction
func (t *FlowerTx) Commit(ctx context.Context) error {
	return t.tx.Commit(ctx)
}

// Rollback rolls back the transaction
func (t *FlowerTx) Rollback(ctx context.Context) error {
	return t.tx.Rollback(ctx)
}

const flowerColumns = `user_flower_id, owner_id, flower_id, obtained_at, is_gift, is_shared,
	share_token, letter_content, sender_name, letter_style, expires_at, received_at, claimed`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanFlower(row rowScanner) (*domain.UserFlower, error) {
	var (
		f             domain.UserFlower
		token         *string
		letterContent *string
		senderName    *string
		letterStyle   *string
		expiresAt     *time.Time
		receivedAt    *time.Time
		claimed       bool
	)
	err := row.Scan(&f.ID, &f.OwnerID, &f.FlowerID, &f.ObtainedAt, &f.IsGift, &f.IsShared,
		&token, &letterContent, &senderName, &letterStyle, &expiresAt, &receivedAt, &claimed)
	if err != nil {
		return nil, err
	}

	// shareInfo columns are populated together; the token (sender side) or
	// receivedAt (receiver side) marks its presence
	if token != nil || receivedAt != nil {
		info := &domain.ShareInfo{Claimed: claimed}
		if token != nil {
			info.Token = *token
		}
		if letterContent != nil {
			info.LetterContent = *letterContent
		}
		if senderName != nil {
			info.SenderName = *senderName
		}
		if letterStyle != nil {
			info.LetterStyle = *letterStyle
		}
		if expiresAt != nil {
			info.ExpiresAt = *expiresAt
		}
		info.ReceivedAt = receivedAt
		f.ShareInfo = info
	}
	return &f, nil
}

func shareArgs(info *domain.ShareInfo) (token, letter, sender, style *string, expires, received *time.Time, claimed bool) {
	if info == nil {
		return nil, nil, nil, nil, nil, nil, false
	}
	if info.Token != "" {
		token = &info.Token
	}
	letter = &info.LetterContent
	sender = &info.SenderName
	style = &info.LetterStyle
	if !info.ExpiresAt.IsZero() {
		expires = &info.ExpiresAt
	}
	received = info.ReceivedAt
	claimed = info.Claimed
	return
}

// GetFlowerByID retrieves one instance by its opaque id
func (r *FlowerRepository) GetFlowerByID(ctx context.Context, id string) (*domain.UserFlower, error) {
	query := `SELECT ` + flowerColumns + ` FROM user_flowers WHERE user_flower_id = $1`
	f, err := scanFlower(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrFlowerNotFound
		}
		return nil, fmt.Errorf("failed to get flower: %w", err)
	}
	return f, nil
}

// GetFlowerByToken resolves a share token to the original shared instance
func (r *FlowerRepository) GetFlowerByToken(ctx context.Context, token string) (*domain.UserFlower, error) {
	query := `SELECT ` + flowerColumns + ` FROM user_flowers WHERE share_token = $1`
	f, err := scanFlower(r.db.QueryRow(ctx, query, token))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrShareNotFound
		}
		return nil, fmt.Errorf("failed to get flower by token: %w", err)
	}
	return f, nil
}

// ListFlowersByOwner returns all instances held by one owner
func (r *FlowerRepository) ListFlowersByOwner(ctx context.Context, ownerID string) ([]domain.UserFlower, error) {
	query := `SELECT ` + flowerColumns + ` FROM user_flowers WHERE owner_id = $1 ORDER BY obtained_at`
	rows, err := r.db.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list flowers: %w", err)
	}
	defer rows.Close()

	var flowers []domain.UserFlower
	for rows.Next() {
		f, err := scanFlower(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan flower row: %w", err)
		}
		flowers = append(flowers, *f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate flower rows: %w", err)
	}
	return flowers, nil
}

// CreateFlower inserts a new instance
func (r *FlowerRepository) CreateFlower(ctx context.Context, flower *domain.UserFlower) error {
	return createFlower(ctx, r.db, flower)
}

// MarkShared moves an instance into the shared state. The guard clause makes
// sharing a one-way, once-only transition even under concurrent requests.
func (r *FlowerRepository) MarkShared(ctx context.Context, flowerID string, share domain.ShareInfo) error {
	query := `
		UPDATE user_flowers
		SET is_shared = TRUE,
		    share_token = $2, letter_content = $3, sender_name = $4,
		    letter_style = $5, expires_at = $6, claimed = FALSE
		WHERE user_flower_id = $1 AND NOT is_shared AND NOT is_gift
	`
	tag, err := r.db.Exec(ctx, query, flowerID,
		share.Token, share.LetterContent, share.SenderName, share.LetterStyle, share.ExpiresAt)
	if err != nil {
		return fmt.Errorf("failed to mark flower shared: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotShareable
	}
	return nil
}

// CountOwnedByFlower counts non-gift instances of a catalog flower for an owner
func (r *FlowerRepository) CountOwnedByFlower(ctx context.Context, ownerID string, flowerID int) (int, error) {
	return countOwnedByFlower(ctx, r.db, ownerID, flowerID)
}

// CreateFlower inserts a new instance within the transaction
func (t *FlowerTx) CreateFlower(ctx context.Context, flower *domain.UserFlower) error {
	return createFlower(ctx, t.tx, flower)
}

// DeleteFlower removes an instance within the transaction
func (t *FlowerTx) DeleteFlower(ctx context.Context, id string) error {
	tag, err := t.tx.Exec(ctx, `DELETE FROM user_flowers WHERE user_flower_id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete flower: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrFlowerNotFound
	}
	return nil
}

// FindSellable locates the oldest matching unshared, non-gift instance.
// FOR UPDATE keeps a concurrent sell of the same copy from double-crediting.
func (t *FlowerTx) FindSellable(ctx context.Context, ownerID string, flowerID int) (*domain.UserFlower, error) {
	query := `SELECT ` + flowerColumns + `
		FROM user_flowers
		WHERE owner_id = $1 AND flower_id = $2 AND NOT is_gift AND NOT is_shared
		ORDER BY obtained_at
		LIMIT 1
		FOR UPDATE`
	f, err := scanFlower(t.tx.QueryRow(ctx, query, ownerID, flowerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrFlowerNotFound
		}
		return nil, fmt.Errorf("failed to find sellable flower: %w", err)
	}
	return f, nil
}

// CountOwnedByFlower counts non-gift instances within the transaction
func (t *FlowerTx) CountOwnedByFlower(ctx context.Context, ownerID string, flowerID int) (int, error) {
	return countOwnedByFlower(ctx, t.tx, ownerID, flowerID)
}

// MarkClaimed is the claim compare-and-set: of any number of concurrent
// claimers, exactly one update matches the NOT claimed row.
func (t *FlowerTx) MarkClaimed(ctx context.Context, token string) error {
	query := `UPDATE user_flowers SET claimed = TRUE WHERE share_token = $1 AND NOT claimed`
	tag, err := t.tx.Exec(ctx, query, token)
	if err != nil {
		return fmt.Errorf("failed to mark claimed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrAlreadyClaimed
	}
	return nil
}

// DebitPoints debits within the transaction
func (t *FlowerTx) DebitPoints(ctx context.Context, userID string, amount int) (int, error) {
	return debitPoints(ctx, t.tx, userID, amount)
}

// CreditPoints credits within the transaction
func (t *FlowerTx) CreditPoints(ctx context.Context, userID string, amount int) (int, error) {
	return creditPoints(ctx, t.tx, userID, amount)
}

func createFlower(ctx context.Context, q querier, flower *domain.UserFlower) error {
	token, letter, sender, style, expires, received, claimed := shareArgs(flower.ShareInfo)
	query := `
		INSERT INTO user_flowers (owner_id, flower_id, is_gift, is_shared,
			share_token, letter_content, sender_name, letter_style, expires_at, received_at, claimed)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING user_flower_id, obtained_at
	`
	err := q.QueryRow(ctx, query,
		flower.OwnerID, flower.FlowerID, flower.IsGift, flower.IsShared,
		token, letter, sender, style, expires, received, claimed,
	).Scan(&flower.ID, &flower.ObtainedAt)
	if err != nil {
		return fmt.Errorf("failed to insert flower: %w", err)
	}
	return nil
}

func countOwnedByFlower(ctx context.Context, q querier, ownerID string, flowerID int) (int, error) {
	query := `
		SELECT COUNT(*) FROM user_flowers
		WHERE owner_id = $1 AND flower_id = $2 AND NOT is_gift
	`
	var count int
	if err := q.QueryRow(ctx, query, ownerID, flowerID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count owned flowers: %w", err)
	}
	return count, nil
}
