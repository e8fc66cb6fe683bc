// Package inventory aggregates a user's owned flower instances into the
// garden view (active counts plus gift box) and handles selling duplicates.
package inventory

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/florisapp/floris-go/internal/catalog"
	"github.com/florisapp/floris-go/internal/domain"
	"github.com/florisapp/floris-go/internal/logger"
	"github.com/florisapp/floris-go/internal/metrics"
	"github.com/florisapp/floris-go/internal/points"
	"github.com/florisapp/floris-go/internal/repository"
)

// GiftEntry is one gift-box row: a received instance resolved against the
// catalog.
type GiftEntry struct {
	ID            string        `json:"id"`
	FlowerID      int           `json:"flowerId"`
	SenderName    string        `json:"senderName"`
	LetterContent string        `json:"letterContent"`
	LetterStyle   string        `json:"letterStyle"`
	ReceivedAt    *time.Time    `json:"receivedAt,omitempty"`
	FlowerInfo    domain.Flower `json:"flowerInfo"`
}

// View is the authenticated user's garden summary
type View struct {
	Points    int         `json:"points"`
	Inventory map[int]int `json:"inventory"`
	GiftBox   []GiftEntry `json:"giftBox"`
}

// SellResult contains the result of a sell operation
type SellResult struct {
	Points int    `json:"points"`
	SoldID string `json:"soldId"`
}

// Service defines the interface for inventory operations
type Service interface {
	GetView(ctx context.Context, userID string) (*View, error)
	Sell(ctx context.Context, userID string, flowerID int) (*SellResult, error)
}

type service struct {
	points  points.Service
	flowers repository.Flower
	catalog *catalog.Catalog
}

// NewService creates a new inventory service
func NewService(pts points.Service, flowers repository.Flower, cat *catalog.Catalog) Service {
	return &service{points: pts, flowers: flowers, catalog: cat}
}

func (s *service) GetView(ctx context.Context, userID string) (*View, error) {
	log := logger.FromContext(ctx)

	balance, err := s.points.Balance(ctx, userID)
	if err != nil {
		return nil, err
	}

	owned, err := s.flowers.ListFlowersByOwner(ctx, userID)
	if err != nil {
		log.Error("Failed to list flowers", "error", err)
		return nil, fmt.Errorf("failed to list flowers: %w", err)
	}

	view := &View{
		Points:    balance,
		Inventory: make(map[int]int),
		GiftBox:   []GiftEntry{},
	}
	for _, f := range owned {
		switch {
		case f.IsGift:
			info, ok := s.catalog.Get(f.FlowerID)
			if !ok {
				// Data-integrity tolerance: a gift referencing a retired
				// catalog entry is skipped, not an error
				log.Warn("Gift references missing catalog entry", "flower_id", f.FlowerID, "instance_id", f.ID)
				continue
			}
			entry := GiftEntry{ID: f.ID, FlowerID: f.FlowerID, FlowerInfo: info}
			if f.ShareInfo != nil {
				entry.SenderName = f.ShareInfo.SenderName
				entry.LetterContent = f.ShareInfo.LetterContent
				entry.LetterStyle = f.ShareInfo.LetterStyle
				entry.ReceivedAt = f.ShareInfo.ReceivedAt
			}
			view.GiftBox = append(view.GiftBox, entry)
		case !f.IsShared:
			view.Inventory[f.FlowerID]++
		}
	}
	return view, nil
}

func (s *service) Sell(ctx context.Context, userID string, flowerID int) (*SellResult, error) {
	log := logger.FromContext(ctx)
	log.Info("Sell called", "user_id", userID, "flower_id", flowerID)

	info, ok := s.catalog.Get(flowerID)
	if !ok {
		return nil, fmt.Errorf("%w: flower %d", domain.ErrFlowerNotFound, flowerID)
	}

	tx, err := s.flowers.BeginTx(ctx)
	if err != nil {
		log.Error("Failed to begin transaction", "error", err)
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer repository.SafeRollback(ctx, tx)

	// Which of several identical copies goes is a don't-care; the repository
	// returns the oldest
	instance, err := tx.FindSellable(ctx, userID, flowerID)
	if err != nil {
		return nil, err
	}

	if err := tx.DeleteFlower(ctx, instance.ID); err != nil {
		return nil, err
	}

	balance, err := tx.CreditPoints(ctx, userID, info.Price)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		log.Error("Failed to commit sell", "error", err)
		return nil, fmt.Errorf("failed to commit sell: %w", err)
	}

	metrics.FlowersSold.WithLabelValues(strconv.Itoa(flowerID)).Inc()
	log.Info("Sell completed", "user_id", userID, "flower_id", flowerID, "sold_id", instance.ID, "balance", balance)

	return &SellResult{Points: balance, SoldID: instance.ID}, nil
}
