package billing

import (
	"sync"
)

// CustomerField names a user-editable customer field.
type CustomerField string

const (
	FieldName        CustomerField = "name"
	FieldGender      CustomerField = "gender"
	FieldPhone       CustomerField = "phone"
	FieldAddress     CustomerField = "address"
	FieldBirthday    CustomerField = "birthday"
	FieldAnniversary CustomerField = "anniversary"
)

// CustomerFetchGuard serializes phone-keyed customer lookups against manual edits.
// A lookup is skipped when the normalized phone has not changed since the last
// one, only the newest lookup may apply its result, and fields the user edited
// after the lookup started are never overwritten.
type CustomerFetchGuard struct {
	mu      sync.Mutex
	lastKey string
	token   uint64
	touched map[CustomerField]struct{}
}

// NewCustomerFetchGuard creates a guard with no lookup in flight.
func NewCustomerFetchGuard() *CustomerFetchGuard {
	return &CustomerFetchGuard{touched: make(map[CustomerField]struct{})}
}

// Begin starts a lookup for phone. ok is false when the lookup should be skipped.
func (g *CustomerFetchGuard) Begin(phone string) (token uint64, key string, ok bool) {
	key = NormalizePhone(phone)
	if !ValidPhone(key) {
		return 0, key, false
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if key == g.lastKey {
		return 0, key, false
	}
	g.lastKey = key
	g.token++
	g.touched = make(map[CustomerField]struct{})
	return g.token, key, true
}

// Touch marks a field as edited by the user.
func (g *CustomerFetchGuard) Touch(field CustomerField) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.touched[field] = struct{}{}
}

// Abort forgets a failed lookup so the same phone can be retried.
func (g *CustomerFetchGuard) Abort(token uint64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if token == g.token {
		g.lastKey = ""
	}
}

// Reset clears all state, e.g. when a different customer is selected explicitly.
func (g *CustomerFetchGuard) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.lastKey = ""
	g.token++
	g.touched = make(map[CustomerField]struct{})
}

// Apply merges a fetched customer into current. It returns false and leaves
// current unchanged when token is stale. Empty fetched values never blank a field.
func (g *CustomerFetchGuard) Apply(token uint64, current *CustomerRef, fetched CustomerRef) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if token != g.token {
		return false
	}

	current.ID = fetched.ID
	current.AdvanceAmount = fetched.AdvanceAmount
	current.Dues = fetched.Dues
	current.WalletBalance = fetched.WalletBalance
	current.LoyaltyPoints = fetched.LoyaltyPoints

	mergeString := func(f CustomerField, dst *string, src string) {
		if _, edited := g.touched[f]; !edited && src != "" {
			*dst = src
		}
	}
	mergeString(FieldName, &current.Name, fetched.Name)
	mergeString(FieldGender, &current.Gender, fetched.Gender)
	mergeString(FieldPhone, &current.Phone, fetched.Phone)
	mergeString(FieldAddress, &current.Address, fetched.Address)
	if _, edited := g.touched[FieldBirthday]; !edited && fetched.Birthday != nil {
		current.Birthday = fetched.Birthday
	}
	if _, edited := g.touched[FieldAnniversary]; !edited && fetched.Anniversary != nil {
		current.Anniversary = fetched.Anniversary
	}
	return true
}
