package repository

import (
	"context"

	"github.com/florisapp/floris-go/internal/domain"
)

// Flower defines the interface for flower instance persistence
type Flower interface {
	GetFlowerByID(ctx context.Context, id string) (*domain.UserFlower, error)
	GetFlowerByToken(ctx context.Context, token string) (*domain.UserFlower, error)
	ListFlowersByOwner(ctx context.Context, ownerID string) ([]domain.UserFlower, error)
	CreateFlower(ctx context.Context, flower *domain.UserFlower) error

	// MarkShared atomically moves an instance into the shared state. The update
	// is guarded by NOT is_shared AND NOT is_gift; a miss against an existing
	// instance maps to domain.ErrNotShareable.
	MarkShared(ctx context.Context, flowerID string, share domain.ShareInfo) error

	// CountOwnedByFlower counts the owner's non-gift instances of a catalog
	// flower (the gacha newness check).
	CountOwnedByFlower(ctx context.Context, ownerID string, flowerID int) (int, error)

	BeginTx(ctx context.Context) (FlowerTx, error)
}

// FlowerTx defines the transactional operations that gacha, sell and claim
// compose into atomic sequences.
type FlowerTx interface {
	Tx

	CreateFlower(ctx context.Context, flower *domain.UserFlower) error
	DeleteFlower(ctx context.Context, id string) error

	// FindSellable locates one instance matching owner and catalog flower with
	// is_gift and is_shared both false. Which duplicate is returned is a
	// don't-care among fungible copies; the implementation picks the oldest.
	FindSellable(ctx context.Context, ownerID string, flowerID int) (*domain.UserFlower, error)

	CountOwnedByFlower(ctx context.Context, ownerID string, flowerID int) (int, error)

	// MarkClaimed flips the claimed flag via compare-and-set
	// (WHERE share_token = $1 AND NOT claimed). A miss maps to
	// domain.ErrAlreadyClaimed, which is what makes concurrent claims
	// exactly-once.
	MarkClaimed(ctx context.Context, token string) error

	DebitPoints(ctx context.Context, userID string, amount int) (int, error)
	CreditPoints(ctx context.Context, userID string, amount int) (int, error)
}
