package enum

import (
	"database/sql/driver"
	"encoding/json"
	"strings"
)

// ItemType is the kind of billable line item
type ItemType int

const (
	ItemTypeService    ItemType = 0
	ItemTypeProduct    ItemType = 1
	ItemTypeMembership ItemType = 2
	ItemTypePackage    ItemType = 3
)

func (t ItemType) String() string {
	names := [...]string{"Service", "Product", "Membership", "Package"}
	if int(t) < 0 || int(t) >= len(names) {
		return "Service"
	}
	return names[t]
}

// CatalogKind folds Package into Membership since both are sold from the same catalog.
func (t ItemType) CatalogKind() ItemType {
	if t == ItemTypePackage {
		return ItemTypeMembership
	}
	return t
}

// ParseItemType parses a case-insensitive item type name
func ParseItemType(s string) (ItemType, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "service", "services":
		return ItemTypeService, true
	case "product", "products":
		return ItemTypeProduct, true
	case "membership", "memberships":
		return ItemTypeMembership, true
	case "package", "packages":
		return ItemTypePackage, true
	}
	return ItemTypeService, false
}

func (t ItemType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *ItemType) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*t = ItemType(i)
		return nil
	}
	if parsed, ok := ParseItemType(str); ok {
		*t = parsed
	}
	return nil
}

func (t ItemType) Value() (driver.Value, error) {
	return int64(t), nil
}

func (t *ItemType) Scan(value interface{}) error {
	if value == nil {
		*t = ItemTypeService
		return nil
	}
	switch v := value.(type) {
	case int64:
		*t = ItemType(v)
	case int:
		*t = ItemType(v)
	}
	return nil
}
