// Package catalog holds the static flower definitions. The catalog is loaded
// once at process start and is safe for unsynchronized concurrent reads.
package catalog

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/florisapp/floris-go/internal/domain"
)

// Catalog is an immutable index over the flower definitions.
type Catalog struct {
	byID     map[int]domain.Flower
	byRarity map[domain.Rarity][]domain.Flower
	all      []domain.Flower
}

// Load reads flower definitions from a JSON file and builds the indexes.
// Duplicate ids and unknown rarities are configuration errors.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}

	var flowers []domain.Flower
	if err := json.Unmarshal(data, &flowers); err != nil {
		return nil, fmt.Errorf("failed to parse catalog file: %w", err)
	}

	return New(flowers)
}

// New builds a catalog from in-memory definitions (used by Load and tests).
func New(flowers []domain.Flower) (*Catalog, error) {
	if len(flowers) == 0 {
		return nil, fmt.Errorf("catalog is empty")
	}

	c := &Catalog{
		byID:     make(map[int]domain.Flower, len(flowers)),
		byRarity: make(map[domain.Rarity][]domain.Flower),
		all:      make([]domain.Flower, 0, len(flowers)),
	}
	for _, f := range flowers {
		if !f.Rarity.Valid() {
			return nil, fmt.Errorf("flower %d has unknown rarity %q", f.ID, f.Rarity)
		}
		if _, exists := c.byID[f.ID]; exists {
			return nil, fmt.Errorf("duplicate flower id %d", f.ID)
		}
		c.byID[f.ID] = f
		c.byRarity[f.Rarity] = append(c.byRarity[f.Rarity], f)
		c.all = append(c.all, f)
	}
	return c, nil
}

// Get returns the definition for the given flower id.
func (c *Catalog) Get(id int) (domain.Flower, bool) {
	f, ok := c.byID[id]
	return f, ok
}

// ByRarity returns all definitions in the given tier. The returned slice must
// not be modified.
func (c *Catalog) ByRarity(r domain.Rarity) []domain.Flower {
	return c.byRarity[r]
}

// All returns every definition. The returned slice must not be modified.
func (c *Catalog) All() []domain.Flower {
	return c.all
}

// Size returns the number of catalog entries.
func (c *Catalog) Size() int {
	return len(c.all)
}
