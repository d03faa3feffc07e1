package services

import (
	"context"
	"time"

	"github.com/gitayam/short-term-land-lord-sub001/internal/core/domain"
	portsrepo "github.com/gitayam/short-term-land-lord-sub001/internal/core/ports/repositories"
	"github.com/gitayam/short-term-land-lord-sub001/internal/dto"
)

// GeneratedDraft is the outcome of bulk draft generation: the draft plus the
// work units that had to be skipped, with reasons.
type GeneratedDraft struct {
	Invoice *domain.Invoice
	Items   []domain.InvoiceItem
	Skipped []domain.SkippedRecord
}

// InvoiceSvcFacade assembles invoices from priced work and gates their
// lifecycle.
type InvoiceSvcFacade interface {
	CreateDraft(ctx context.Context, req dto.CreateInvoiceRequest, creatorUserID string) (*domain.Invoice, error)
	GetInvoice(ctx context.Context, invoiceID string) (*domain.Invoice, []domain.InvoiceItem, error)
	ListInvoices(ctx context.Context, filter portsrepo.InvoiceListFilter) ([]domain.Invoice, error)

	AddItem(ctx context.Context, invoiceID string, req dto.AddInvoiceItemRequest, actorUserID string) (*domain.Invoice, error)
	AddPricedWorkUnit(ctx context.Context, invoiceID, workUnitID string, actorUserID string) (*domain.Invoice, error)
	RemoveItem(ctx context.Context, invoiceID, itemID string, actorUserID string) (*domain.Invoice, error)
	RecalculateTotals(ctx context.Context, invoiceID string, actorUserID string) (*domain.Invoice, error)

	// GenerateFromWorkUnits builds a draft from every completed, unbilled
	// work unit in the range. Unpriceable units are skipped and reported,
	// never fatal.
	GenerateFromWorkUnits(ctx context.Context, req dto.GenerateInvoiceRequest, actorUserID string) (*GeneratedDraft, error)

	Send(ctx context.Context, invoiceID string, actorUserID string) (*domain.Invoice, error)
	MarkPaid(ctx context.Context, invoiceID string, paymentDate time.Time, actorUserID string) (*domain.Invoice, error)
	Cancel(ctx context.Context, invoiceID string, actorUserID string) (*domain.Invoice, error)
	Delete(ctx context.Context, invoiceID string, actorUserID string) error

	// SweepOverdue applies the derived SENT -> OVERDUE transition for every
	// invoice past its due date. Idempotent; returns the number moved.
	SweepOverdue(ctx context.Context, now time.Time) (int, error)
}
