// Package gacha implements the randomized draw mechanic: a point debit, a
// rarity roll, and the creation of one new flower instance, all in a single
// transaction so points are never lost without a flower being granted.
package gacha

import (
	"context"
	"fmt"

	"github.com/florisapp/floris-go/internal/catalog"
	"github.com/florisapp/floris-go/internal/domain"
	"github.com/florisapp/floris-go/internal/logger"
	"github.com/florisapp/floris-go/internal/metrics"
	"github.com/florisapp/floris-go/internal/repository"
	"github.com/florisapp/floris-go/internal/utils"
)

// Rates holds the tier probabilities. They must sum to 1.0 (validated by
// config at startup).
type Rates struct {
	Common    float64
	Rare      float64
	Legendary float64
}

// DrawResult contains the outcome of one gacha draw
type DrawResult struct {
	Points int           `json:"points"`
	Flower domain.Flower `json:"flower"`
	IsNew  bool          `json:"isNew"`
}

// Service defines the interface for gacha operations
type Service interface {
	Draw(ctx context.Context, userID string) (*DrawResult, error)
}

type service struct {
	repo    repository.Flower
	catalog *catalog.Catalog
	cost    int
	rates   Rates
	rnd     func() float64 // For rolling RNG
	intn    func(int) int  // For in-tier selection
}

// NewService creates a new gacha service
func NewService(repo repository.Flower, cat *catalog.Catalog, cost int, rates Rates) Service {
	return &service{
		repo:    repo,
		catalog: cat,
		cost:    cost,
		rates:   rates,
		rnd:     utils.RandomFloat,
		intn:    utils.RandomIntn,
	}
}

// selectRarity maps a uniform roll in [0,1) to a tier using right-tail
// thresholds, checked from the rarest tier down: legendary wins iff
// roll >= 1 - P(legendary), rare iff roll >= 1 - P(legendary) - P(rare).
func selectRarity(roll float64, rates Rates) domain.Rarity {
	if roll >= 1-rates.Legendary {
		return domain.RarityLegendary
	}
	if roll >= 1-rates.Legendary-rates.Rare {
		return domain.RarityRare
	}
	return domain.RarityCommon
}

// pickFlower samples uniformly within the rolled tier. An empty tier is a
// catalog configuration gap; fall back to the whole catalog rather than fail
// the draw.
func (s *service) pickFlower(rarity domain.Rarity) domain.Flower {
	pool := s.catalog.ByRarity(rarity)
	if len(pool) == 0 {
		pool = s.catalog.All()
	}
	return pool[s.intn(len(pool))]
}

func (s *service) Draw(ctx context.Context, userID string) (*DrawResult, error) {
	log := logger.FromContext(ctx)
	log.Info("Draw called", "user_id", userID)

	rarity := selectRarity(s.rnd(), s.rates)
	flower := s.pickFlower(rarity)

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		log.Error("Failed to begin transaction", "error", err)
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer repository.SafeRollback(ctx, tx)

	// Debit inside the tx: if anything below fails the debit rolls back, so
	// a crashed draw can never eat the user's points
	balance, err := tx.DebitPoints(ctx, userID, s.cost)
	if err != nil {
		return nil, err
	}

	// Newness counts prior non-gift copies, checked before the insert
	prior, err := tx.CountOwnedByFlower(ctx, userID, flower.ID)
	if err != nil {
		return nil, err
	}

	instance := &domain.UserFlower{
		OwnerID:  userID,
		FlowerID: flower.ID,
	}
	if err := tx.CreateFlower(ctx, instance); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		log.Error("Failed to commit draw", "error", err)
		return nil, fmt.Errorf("failed to commit draw: %w", err)
	}

	metrics.GachaDraws.WithLabelValues(string(rarity)).Inc()
	log.Info("Draw completed", "user_id", userID, "flower_id", flower.ID, "rarity", rarity, "balance", balance)

	return &DrawResult{
		Points: balance,
		Flower: flower,
		IsNew:  prior == 0,
	}, nil
}
