package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// InvoiceState is the lifecycle state of a working invoice
type InvoiceState int

const (
	InvoiceStateDraft     InvoiceState = 0
	InvoiceStateHeld      InvoiceState = 1
	InvoiceStateFinalized InvoiceState = 2
)

func (s InvoiceState) String() string {
	names := [...]string{"Draft", "Held", "Finalized"}
	if int(s) < 0 || int(s) >= len(names) {
		return "Draft"
	}
	return names[s]
}

func (s InvoiceState) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *InvoiceState) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*s = InvoiceState(i)
		return nil
	}
	switch str {
	case "Draft":
		*s = InvoiceStateDraft
	case "Held":
		*s = InvoiceStateHeld
	case "Finalized":
		*s = InvoiceStateFinalized
	}
	return nil
}

func (s InvoiceState) Value() (driver.Value, error) {
	return int64(s), nil
}

func (s *InvoiceState) Scan(value interface{}) error {
	if value == nil {
		*s = InvoiceStateDraft
		return nil
	}
	switch v := value.(type) {
	case int64:
		*s = InvoiceState(v)
	case int:
		*s = InvoiceState(v)
	}
	return nil
}
