package billing

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/sangkips/salonbill-api/internal/domain/enum"
)

var transitions = map[enum.InvoiceState][]enum.InvoiceState{
	enum.InvoiceStateDraft:     {enum.InvoiceStateHeld, enum.InvoiceStateFinalized},
	enum.InvoiceStateHeld:      {enum.InvoiceStateDraft},
	enum.InvoiceStateFinalized: {enum.InvoiceStateDraft},
}

// CanTransition reports whether from -> to is a legal lifecycle step.
func CanTransition(from, to enum.InvoiceState) bool {
	return lo.Contains(transitions[from], to)
}

func (d *Draft) transition(to enum.InvoiceState) error {
	if !CanTransition(d.State, to) {
		return invalid(ErrInvalidTransition, fmt.Sprintf("%s -> %s", d.State, to))
	}
	d.State = to
	return nil
}

// beginEdit guards every mutating command. Editing a held draft moves it back
// to Draft since it no longer matches the held snapshot.
func (d *Draft) beginEdit() error {
	switch d.State {
	case enum.InvoiceStateFinalized:
		return ErrDraftFinalized
	case enum.InvoiceStateHeld:
		return d.transition(enum.InvoiceStateDraft)
	}
	return nil
}

// MarkHeld records that the draft was held as heldID. The draft stays editable.
func (d *Draft) MarkHeld(heldID uuid.UUID) error {
	if d.State == enum.InvoiceStateHeld {
		if err := d.transition(enum.InvoiceStateDraft); err != nil {
			return err
		}
	}
	if err := d.transition(enum.InvoiceStateHeld); err != nil {
		return err
	}
	d.HeldBillID = &heldID
	return nil
}

// MarkFinalized records the persisted bill. Further edits require Reopen.
func (d *Draft) MarkFinalized(billID uuid.UUID) error {
	if d.State == enum.InvoiceStateHeld {
		if err := d.transition(enum.InvoiceStateDraft); err != nil {
			return err
		}
	}
	if err := d.transition(enum.InvoiceStateFinalized); err != nil {
		return err
	}
	d.BillID = &billID
	d.HeldBillID = nil
	return nil
}

// Reopen moves a finalized draft back to Draft so the saved bill can be edited.
// Saving it again updates the same bill.
func (d *Draft) Reopen() error {
	if err := d.transition(enum.InvoiceStateDraft); err != nil {
		return err
	}
	d.SourceBillID = d.BillID
	d.BillID = nil
	return nil
}
