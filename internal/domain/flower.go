package domain

import "time"

// Rarity represents the catalog tier of a flower
type Rarity string

const (
	RarityCommon    Rarity = "common"
	RarityRare      Rarity = "rare"
	RarityLegendary Rarity = "legendary"
)

// Valid reports whether the rarity is one of the known catalog tiers.
func (r Rarity) Valid() bool {
	switch r {
	case RarityCommon, RarityRare, RarityLegendary:
		return true
	}
	return false
}

// Flower is a catalog definition of a collectible flower.
// Catalog entries are loaded once at startup and never mutated.
type Flower struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Rarity Rarity `json:"rarity"`
	Price  int    `json:"price"`
	Image  string `json:"image"`
}

// UserFlower is one concrete, ownable copy of a catalog flower.
type UserFlower struct {
	ID         string     `json:"id"`
	OwnerID    string     `json:"ownerId"`
	FlowerID   int        `json:"flowerId"`
	ObtainedAt time.Time  `json:"obtainedAt"`
	IsGift     bool       `json:"isGift"`
	IsShared   bool       `json:"isShared"`
	ShareInfo  *ShareInfo `json:"shareInfo,omitempty"`
}

// CanShare reports whether an instance may still be turned into a share link.
// Gifted copies are never re-shareable and sharing consumes the instance, so
// both flags must be unset. IsShared only ever moves false to true.
func CanShare(f *UserFlower) bool {
	return !f.IsGift && !f.IsShared
}
