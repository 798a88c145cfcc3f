package enum

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// PaymentMode is the closed set of tender types a bill can record
type PaymentMode int

const (
	PaymentModeCash    PaymentMode = 0
	PaymentModeUPI     PaymentMode = 1
	PaymentModeWallet  PaymentMode = 2
	PaymentModeCard    PaymentMode = 3
	PaymentModeAdvance PaymentMode = 4
	PaymentModeNone    PaymentMode = 5
)

var paymentModeNames = [...]string{"cash", "upi", "wallet", "card", "advance", "none"}

func (m PaymentMode) String() string {
	if int(m) < 0 || int(m) >= len(paymentModeNames) {
		return "cash"
	}
	return paymentModeNames[m]
}

func (m PaymentMode) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

func (m *PaymentMode) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*m = PaymentMode(i)
		return nil
	}
	for i, name := range paymentModeNames {
		if name == str {
			*m = PaymentMode(i)
			return nil
		}
	}
	return fmt.Errorf("unknown payment mode %q", str)
}

func (m PaymentMode) Value() (driver.Value, error) {
	return m.String(), nil
}

func (m *PaymentMode) Scan(value interface{}) error {
	if value == nil {
		*m = PaymentModeNone
		return nil
	}
	var str string
	switch v := value.(type) {
	case string:
		str = v
	case []byte:
		str = string(v)
	case int64:
		*m = PaymentMode(v)
		return nil
	}
	for i, name := range paymentModeNames {
		if name == str {
			*m = PaymentMode(i)
			return nil
		}
	}
	*m = PaymentModeCash
	return nil
}
