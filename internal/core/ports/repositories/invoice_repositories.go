package repositories

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/gitayam/short-term-land-lord-sub001/internal/core/domain"
)

// StatusStamp carries the timestamps recorded alongside a status transition.
type StatusStamp struct {
	SentAt   *time.Time
	PaidDate *time.Time
}

// InvoiceListFilter narrows ListInvoices results.
type InvoiceListFilter struct {
	PropertyID *string
	Status     *domain.InvoiceStatus
	Limit      int
	Offset     int
}

// InvoiceRepositoryWithTx defines persistence for invoices and their items.
// Every mutating method runs inside a single database transaction: the
// invoice row is locked, guards are re-checked against the locked row, and
// totals are recomputed from the item set before commit, so no partial state
// is ever visible.
type InvoiceRepositoryWithTx interface {
	// CreateDraftInvoice inserts the invoice and assigns its invoice number
	// inside the same transaction, deriving the next sequence from the max
	// existing suffix for the date prefix. Collisions against the unique
	// constraint are retried with a freshly computed sequence.
	CreateDraftInvoice(ctx context.Context, invoice domain.Invoice) (*domain.Invoice, error)

	FindInvoiceByID(ctx context.Context, invoiceID string) (*domain.Invoice, error)
	FindItemsByInvoiceID(ctx context.Context, invoiceID string) ([]domain.InvoiceItem, error)
	ListInvoices(ctx context.Context, filter InvoiceListFilter) ([]domain.Invoice, error)

	// AddInvoiceItem appends an item and recalculates totals. Fails with
	// apperrors.ErrInvoiceNotEditable when the locked invoice is not DRAFT
	// and apperrors.ErrAlreadyInvoiced when the item's work unit is already
	// linked to any invoice. Marks the work unit invoiced in the same
	// transaction.
	AddInvoiceItem(ctx context.Context, invoiceID string, item domain.InvoiceItem) (*domain.Invoice, error)

	// RemoveInvoiceItem deletes an item and recalculates totals, clearing the
	// invoiced marker on the source work unit if one is linked. DRAFT only.
	RemoveInvoiceItem(ctx context.Context, invoiceID, itemID string, actor string, now time.Time) (*domain.Invoice, error)

	// RecalculateTotals rederives subtotal, tax and total from the persisted
	// item set. Idempotent.
	RecalculateTotals(ctx context.Context, invoiceID string, actor string, now time.Time) (*domain.Invoice, error)

	// UpdateInvoiceStatus transitions the invoice after re-checking, under a
	// row lock, that its current status is one of allowedFrom. requireItems
	// additionally rejects the transition for an empty invoice
	// (apperrors.ErrEmptyInvoice). A failed from-state check surfaces
	// apperrors.ErrInvalidTransition.
	UpdateInvoiceStatus(ctx context.Context, invoiceID string, allowedFrom []domain.InvoiceStatus, to domain.InvoiceStatus, requireItems bool, stamp StatusStamp, actor string, now time.Time) (*domain.Invoice, error)

	// DeleteInvoice removes the invoice and its items when the locked status
	// permits deletion; otherwise apperrors.ErrInvoiceNotDeletable.
	DeleteInvoice(ctx context.Context, invoiceID string) error

	// SweepOverdue moves every SENT invoice with due date before now to
	// OVERDUE and returns the affected invoices. Idempotent.
	SweepOverdue(ctx context.Context, now time.Time, actor string) ([]domain.Invoice, error)

	// FindPaidInvoicesInRange lists PAID invoices whose paid date falls in
	// the range for the given properties; propertyIDs nil means all.
	FindPaidInvoicesInRange(ctx context.Context, propertyIDs []string, from, to time.Time) ([]domain.Invoice, error)

	// SumPaidItemAmountsByWorker totals line-item amounts on PAID invoices
	// (paid within the range) whose source work unit was completed by the
	// given worker. Backs the staff worker post-filter in reporting.
	SumPaidItemAmountsByWorker(ctx context.Context, workerID string, from, to time.Time) (decimal.Decimal, error)
}
