package billing

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnresolvedItems blocks a save while any line has no catalog entry.
	ErrUnresolvedItems = errors.New("items not found in catalog")
	// ErrInvalidCustomer blocks hold and save when a new customer is missing name or phone.
	ErrInvalidCustomer = errors.New("customer details are incomplete")
	// ErrCatalogEntryNotFound is returned by Catalog.Resolve.
	ErrCatalogEntryNotFound = errors.New("catalog entry not found")
	ErrItemNotFound         = errors.New("line item not found")
	ErrPaymentNotFound      = errors.New("payment not found")
	ErrInvalidPayment       = errors.New("invalid payment")
	ErrInvalidTransition    = errors.New("invalid invoice state transition")
	ErrDraftFinalized       = errors.New("invoice is finalized; reopen it to edit")
	ErrEmptyInvoice         = errors.New("invoice has no items")

	// ErrReconciliationViolation means the extra discount / adjust total pair drifted.
	// It indicates a bug in this package, not bad input.
	ErrReconciliationViolation = errors.New("extra discount and adjusted total do not add up")
)

// ValidationError wraps a sentinel with the specific offending values.
type ValidationError struct {
	Err     error
	Details []string
}

func (e *ValidationError) Error() string {
	if len(e.Details) > 0 {
		return fmt.Sprintf("%s: %s", e.Err.Error(), strings.Join(e.Details, "; "))
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func invalid(err error, details ...string) error {
	return &ValidationError{Err: err, Details: details}
}
