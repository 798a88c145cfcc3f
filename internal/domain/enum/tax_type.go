package enum

import (
	"database/sql/driver"
	"encoding/json"
	"strings"
)

// TaxType is the branch-wide pricing convention for catalog prices
type TaxType int

const (
	TaxTypeExclusive TaxType = 0
	TaxTypeInclusive TaxType = 1
)

func (t TaxType) String() string {
	names := [...]string{"Exclusive", "Inclusive"}
	if int(t) < 0 || int(t) >= len(names) {
		return "Exclusive"
	}
	return names[t]
}

// IsInclusive reports whether entered prices already contain tax
func (t TaxType) IsInclusive() bool {
	return t == TaxTypeInclusive
}

// ParseTaxType parses "inclusive"/"exclusive" in any case, defaulting to exclusive
func ParseTaxType(s string) TaxType {
	if strings.EqualFold(strings.TrimSpace(s), "inclusive") {
		return TaxTypeInclusive
	}
	return TaxTypeExclusive
}

func (t TaxType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *TaxType) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*t = TaxType(i)
		return nil
	}
	*t = ParseTaxType(str)
	return nil
}

func (t TaxType) Value() (driver.Value, error) {
	return int64(t), nil
}

func (t *TaxType) Scan(value interface{}) error {
	if value == nil {
		*t = TaxTypeExclusive
		return nil
	}
	switch v := value.(type) {
	case int64:
		*t = TaxType(v)
	case int:
		*t = TaxType(v)
	}
	return nil
}
