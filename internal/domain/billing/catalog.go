package billing

import (
	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/sangkips/salonbill-api/internal/domain/enum"
	"github.com/shopspring/decimal"
)

// CatalogEntry is the priced reference an item name resolves to.
type CatalogEntry struct {
	ID             uuid.UUID       `json:"id"`
	Name           string          `json:"name"`
	UnitPrice      decimal.Decimal `json:"unit_price"`
	TaxRatePercent decimal.Decimal `json:"tax_rate_percent"`
}

// Catalog holds one entry list per catalog kind. Memberships and packages share a list.
type Catalog struct {
	lists map[enum.ItemType][]CatalogEntry
}

// NewCatalog builds an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{lists: make(map[enum.ItemType][]CatalogEntry)}
}

// Add appends entries to the list serving t.
func (c *Catalog) Add(t enum.ItemType, entries ...CatalogEntry) *Catalog {
	kind := t.CatalogKind()
	c.lists[kind] = append(c.lists[kind], entries...)
	return c
}

// Entries returns the list serving t.
func (c *Catalog) Entries(t enum.ItemType) []CatalogEntry {
	if c == nil {
		return nil
	}
	return c.lists[t.CatalogKind()]
}

// Resolve finds the entry whose name equals name exactly.
func (c *Catalog) Resolve(t enum.ItemType, name string) (CatalogEntry, error) {
	entry, ok := lo.Find(c.Entries(t), func(e CatalogEntry) bool {
		return e.Name == name
	})
	if !ok {
		return CatalogEntry{}, ErrCatalogEntryNotFound
	}
	return entry, nil
}

// NameByID looks up a display name for a stored catalog id.
func (c *Catalog) NameByID(t enum.ItemType, id uuid.UUID) (string, bool) {
	entry, ok := lo.Find(c.Entries(t), func(e CatalogEntry) bool {
		return e.ID == id
	})
	return entry.Name, ok
}
