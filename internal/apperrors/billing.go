package apperrors

import "errors"

// Validation errors. These are always surfaced to the caller; defaulting any
// of them to zero would corrupt financial totals.
var (
	// ErrNoPriceAvailable indicates no price rule exists for the
	// (service type, property) pair, neither scoped nor global.
	ErrNoPriceAvailable = errors.New("no price available for service type")

	// ErrDurationRequired indicates an hourly rule was applied to a work
	// unit without a duration.
	ErrDurationRequired = errors.New("duration required for hourly pricing")

	// ErrUnsupportedPricingModel indicates a pricing model the calculator
	// cannot handle (BUNDLE is reserved and rejected rather than priced
	// as zero).
	ErrUnsupportedPricingModel = errors.New("unsupported pricing model")

	// ErrDuplicatePriceRule indicates a second rule for the same
	// (service type, property) pair.
	ErrDuplicatePriceRule = errors.New("price rule already exists for service type and property")
)

// State-guard errors. The underlying data is left unchanged when any of
// these is returned.
var (
	// ErrInvoiceNotEditable indicates item mutation on a non-DRAFT invoice.
	ErrInvoiceNotEditable = errors.New("invoice is not editable")

	// ErrInvalidTransition indicates a lifecycle transition outside the
	// state machine's table.
	ErrInvalidTransition = errors.New("invalid invoice status transition")

	// ErrEmptyInvoice indicates an attempt to send an invoice with no items.
	ErrEmptyInvoice = errors.New("invoice has no items")

	// ErrInvoiceNotDeletable indicates deletion outside DRAFT/CANCELLED.
	ErrInvoiceNotDeletable = errors.New("invoice cannot be deleted in its current status")

	// ErrAlreadyInvoiced indicates the work unit is already linked to an
	// item on some invoice.
	ErrAlreadyInvoiced = errors.New("work unit is already invoiced")
)
