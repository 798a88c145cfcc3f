package service

import (
	"errors"
	"net/http"

	"github.com/samber/lo"
	"github.com/sangkips/salonbill-api/internal/domain/billing"
	"github.com/sangkips/salonbill-api/pkg/apperror"
)

// mapBillingError turns engine errors into HTTP-aware application errors.
// Errors it does not recognize pass through unchanged.
func mapBillingError(err error) error {
	if err == nil || apperror.IsAppError(err) {
		return err
	}

	var details []string
	var verr *billing.ValidationError
	if errors.As(err, &verr) {
		details = verr.Details
	}

	switch {
	case errors.Is(err, billing.ErrUnresolvedItems):
		return apperror.NewResolutionError(details)
	case errors.Is(err, billing.ErrInvalidCustomer):
		return apperror.NewValidationError(lo.Map(details, func(d string, _ int) apperror.FieldError {
			return apperror.FieldError{Field: "customer", Message: d}
		}))
	case errors.Is(err, billing.ErrInvalidPayment):
		return apperror.NewValidationError(lo.Map(details, func(d string, _ int) apperror.FieldError {
			return apperror.FieldError{Field: "payment", Message: d}
		}))
	case errors.Is(err, billing.ErrEmptyInvoice):
		return apperror.NewAppError(http.StatusUnprocessableEntity, "Add at least one item to the invoice")
	case errors.Is(err, billing.ErrItemNotFound):
		return apperror.NewNotFoundError("Line item")
	case errors.Is(err, billing.ErrPaymentNotFound):
		return apperror.NewNotFoundError("Payment")
	case errors.Is(err, billing.ErrDraftFinalized), errors.Is(err, billing.ErrInvalidTransition):
		return apperror.NewConflictError(err.Error())
	case errors.Is(err, billing.ErrReconciliationViolation):
		return apperror.Wrap(http.StatusInternalServerError, "Invoice totals are inconsistent", err)
	}
	return err
}
