package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/gitayam/short-term-land-lord-sub001/internal/apperrors"
	"github.com/gitayam/short-term-land-lord-sub001/internal/core/domain"
	portsrepo "github.com/gitayam/short-term-land-lord-sub001/internal/core/ports/repositories"
	portssvc "github.com/gitayam/short-term-land-lord-sub001/internal/core/ports/services"
	"github.com/gitayam/short-term-land-lord-sub001/internal/dto"
	"github.com/gitayam/short-term-land-lord-sub001/internal/utils"
)

// defaultDueDays is how long after creation an invoice falls due when the
// caller does not set a due date.
const defaultDueDays = 30

// invoiceService assembles invoices from priced work and gates their
// lifecycle.
type invoiceService struct {
	BaseService
	invoiceRepo  portsrepo.InvoiceRepositoryWithTx
	workUnitRepo portsrepo.WorkUnitRepositoryFacade
	pricingSvc   portssvc.PricingSvcFacade
	notifier     portssvc.NotifierSvc
}

// NewInvoiceService creates a new InvoiceService.
func NewInvoiceService(invoiceRepo portsrepo.InvoiceRepositoryWithTx, workUnitRepo portsrepo.WorkUnitRepositoryFacade, pricingSvc portssvc.PricingSvcFacade, notifier portssvc.NotifierSvc) portssvc.InvoiceSvcFacade {
	return &invoiceService{
		invoiceRepo:  invoiceRepo,
		workUnitRepo: workUnitRepo,
		pricingSvc:   pricingSvc,
		notifier:     notifier,
	}
}

var _ portssvc.InvoiceSvcFacade = (*invoiceService)(nil)

func (s *invoiceService) emit(ctx context.Context, eventType string, invoice *domain.Invoice, at time.Time) {
	if s.notifier == nil {
		return
	}
	s.notifier.Notify(ctx, portssvc.BillingEvent{
		Type:       eventType,
		InvoiceID:  invoice.InvoiceID,
		PropertyID: invoice.PropertyID,
		OccurredAt: at,
	})
}

// CreateDraft creates a new DRAFT invoice with zero totals. The invoice
// number is assigned transactionally by the repository.
func (s *invoiceService) CreateDraft(ctx context.Context, req dto.CreateInvoiceRequest, creatorUserID string) (*domain.Invoice, error) {
	if req.DateTo.Before(req.DateFrom) {
		return nil, fmt.Errorf("%w: date range end precedes start", apperrors.ErrValidation)
	}
	if req.TaxRate.IsNegative() {
		return nil, fmt.Errorf("%w: tax rate must not be negative", apperrors.ErrValidation)
	}

	now := time.Now().UTC()
	dueDate := now.AddDate(0, 0, defaultDueDays)
	if req.DueDate != nil {
		dueDate = *req.DueDate
	}

	invoice := domain.Invoice{
		InvoiceID:  uuid.NewString(),
		PropertyID: req.PropertyID,
		DateFrom:   req.DateFrom,
		DateTo:     req.DateTo,
		Status:     domain.InvoiceDraft,
		Subtotal:   decimal.Zero,
		TaxRate:    req.TaxRate,
		TaxAmount:  decimal.Zero,
		Total:      decimal.Zero,
		DueDate:    dueDate,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	created, err := s.invoiceRepo.CreateDraftInvoice(ctx, invoice)
	if err != nil {
		s.LogError(ctx, err, "Failed to create draft invoice", slog.String("property_id", req.PropertyID))
		return nil, fmt.Errorf("failed to create draft invoice: %w", err)
	}

	s.LogInfo(ctx, "Draft invoice created",
		slog.String("invoice_id", created.InvoiceID),
		slog.String("invoice_number", created.InvoiceNumber),
		slog.String("property_id", created.PropertyID))
	return created, nil
}

// GetInvoice fetches an invoice with its items.
func (s *invoiceService) GetInvoice(ctx context.Context, invoiceID string) (*domain.Invoice, []domain.InvoiceItem, error) {
	invoice, err := s.invoiceRepo.FindInvoiceByID(ctx, invoiceID)
	if err != nil {
		return nil, nil, err
	}
	items, err := s.invoiceRepo.FindItemsByInvoiceID(ctx, invoiceID)
	if err != nil {
		return nil, nil, err
	}
	return invoice, items, nil
}

// ListInvoices lists invoices matching the filter.
func (s *invoiceService) ListInvoices(ctx context.Context, filter portsrepo.InvoiceListFilter) ([]domain.Invoice, error) {
	return s.invoiceRepo.ListInvoices(ctx, filter)
}

// newItem builds a line item with amount = quantity x unit price.
func newItem(invoiceID, description string, quantity, unitPrice decimal.Decimal, serviceType *domain.ServiceType, workUnitID *string, actor string, now time.Time) domain.InvoiceItem {
	return domain.InvoiceItem{
		ItemID:      uuid.NewString(),
		InvoiceID:   invoiceID,
		Description: description,
		Quantity:    quantity,
		UnitPrice:   unitPrice,
		Amount:      utils.RoundCurrency(quantity.Mul(unitPrice)),
		ServiceType: serviceType,
		WorkUnitID:  workUnitID,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actor,
			LastUpdatedAt: now,
			LastUpdatedBy: actor,
		},
	}
}

// AddItem appends a manual line item to a DRAFT invoice.
func (s *invoiceService) AddItem(ctx context.Context, invoiceID string, req dto.AddInvoiceItemRequest, actorUserID string) (*domain.Invoice, error) {
	if req.Quantity.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: quantity must be positive", apperrors.ErrValidation)
	}
	if req.UnitPrice.IsNegative() {
		return nil, fmt.Errorf("%w: unit price must not be negative", apperrors.ErrValidation)
	}

	now := time.Now().UTC()
	item := newItem(invoiceID, req.Description, req.Quantity, req.UnitPrice, req.ServiceType, req.WorkUnitID, actorUserID, now)

	invoice, err := s.invoiceRepo.AddInvoiceItem(ctx, invoiceID, item)
	if err != nil {
		return nil, err
	}
	return invoice, nil
}

// AddPricedWorkUnit resolves the work unit's service type, prices it and
// appends the resulting item. The work unit is marked invoiced in the same
// transaction; a unit already linked anywhere fails with ErrAlreadyInvoiced.
func (s *invoiceService) AddPricedWorkUnit(ctx context.Context, invoiceID, workUnitID string, actorUserID string) (*domain.Invoice, error) {
	unit, err := s.workUnitRepo.FindWorkUnitByID(ctx, workUnitID)
	if err != nil {
		return nil, err
	}
	if unit.Invoiced {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrAlreadyInvoiced, workUnitID)
	}

	item, err := s.priceWorkUnit(ctx, invoiceID, *unit, actorUserID, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	return s.invoiceRepo.AddInvoiceItem(ctx, invoiceID, *item)
}

// priceWorkUnit resolves and calculates a price for a work unit and builds
// the line item. Pricing errors propagate unchanged so batch callers can
// classify them.
func (s *invoiceService) priceWorkUnit(ctx context.Context, invoiceID string, unit domain.WorkUnit, actor string, now time.Time) (*domain.InvoiceItem, error) {
	rule, err := s.pricingSvc.ResolvePrice(ctx, unit.ServiceType, unit.PropertyID)
	if err != nil {
		return nil, err
	}
	amount, err := s.pricingSvc.CalculatePrice(*rule, unit.DurationMinutes)
	if err != nil {
		return nil, err
	}

	description := unit.Description
	if description == "" {
		description = fmt.Sprintf("%s on %s", unit.ServiceType, unit.CompletedAt.Format("2006-01-02"))
	}

	serviceType := unit.ServiceType
	workUnitID := unit.WorkUnitID
	item := newItem(invoiceID, description, decimal.NewFromInt(1), amount, &serviceType, &workUnitID, actor, now)
	return &item, nil
}

// RemoveItem removes a line item from a DRAFT invoice and recalculates.
func (s *invoiceService) RemoveItem(ctx context.Context, invoiceID, itemID string, actorUserID string) (*domain.Invoice, error) {
	return s.invoiceRepo.RemoveInvoiceItem(ctx, invoiceID, itemID, actorUserID, time.Now().UTC())
}

// RecalculateTotals rederives subtotal, tax and total from the item set.
// Idempotent; the repository recomputes from persisted items so a
// caller-supplied total is never trusted.
func (s *invoiceService) RecalculateTotals(ctx context.Context, invoiceID string, actorUserID string) (*domain.Invoice, error) {
	return s.invoiceRepo.RecalculateTotals(ctx, invoiceID, actorUserID, time.Now().UTC())
}

// GenerateFromWorkUnits builds a draft invoice from every completed,
// unbilled work unit for the property in the range. Units without a
// resolvable price or a required duration are skipped and reported, so a
// partially priceable batch still yields a usable draft.
func (s *invoiceService) GenerateFromWorkUnits(ctx context.Context, req dto.GenerateInvoiceRequest, actorUserID string) (*portssvc.GeneratedDraft, error) {
	units, err := s.workUnitRepo.FindCompletedUnbilled(ctx, req.PropertyID, req.DateFrom, req.DateTo)
	if err != nil {
		s.LogError(ctx, err, "Failed to list work units for draft generation", slog.String("property_id", req.PropertyID))
		return nil, fmt.Errorf("failed to list work units: %w", err)
	}

	invoice, err := s.CreateDraft(ctx, dto.CreateInvoiceRequest{
		PropertyID: req.PropertyID,
		DateFrom:   req.DateFrom,
		DateTo:     req.DateTo,
		TaxRate:    req.TaxRate,
		DueDate:    req.DueDate,
	}, actorUserID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	var skipped []domain.SkippedRecord
	for _, unit := range units {
		item, err := s.priceWorkUnit(ctx, invoice.InvoiceID, unit, actorUserID, now)
		if err != nil {
			if errors.Is(err, apperrors.ErrNoPriceAvailable) || errors.Is(err, apperrors.ErrDurationRequired) || errors.Is(err, apperrors.ErrUnsupportedPricingModel) {
				skipped = append(skipped, domain.SkippedRecord{RecordID: unit.WorkUnitID, Reason: err.Error()})
				continue
			}
			return nil, err
		}

		updated, err := s.invoiceRepo.AddInvoiceItem(ctx, invoice.InvoiceID, *item)
		if err != nil {
			if errors.Is(err, apperrors.ErrAlreadyInvoiced) {
				skipped = append(skipped, domain.SkippedRecord{RecordID: unit.WorkUnitID, Reason: err.Error()})
				continue
			}
			return nil, err
		}
		invoice = updated
	}

	items, err := s.invoiceRepo.FindItemsByInvoiceID(ctx, invoice.InvoiceID)
	if err != nil {
		return nil, err
	}

	s.LogInfo(ctx, "Draft generated from work units",
		slog.String("invoice_id", invoice.InvoiceID),
		slog.Int("items", len(items)),
		slog.Int("skipped", len(skipped)))
	return &portssvc.GeneratedDraft{Invoice: invoice, Items: items, Skipped: skipped}, nil
}

// Send transitions DRAFT -> SENT. An invoice with no items is rejected with
// ErrEmptyInvoice. After this transition item mutation is permanently
// disallowed.
func (s *invoiceService) Send(ctx context.Context, invoiceID string, actorUserID string) (*domain.Invoice, error) {
	now := time.Now().UTC()
	invoice, err := s.invoiceRepo.UpdateInvoiceStatus(ctx, invoiceID,
		[]domain.InvoiceStatus{domain.InvoiceDraft}, domain.InvoiceSent,
		true, portsrepo.StatusStamp{SentAt: &now}, actorUserID, now)
	if err != nil {
		return nil, err
	}
	s.emit(ctx, "invoice.sent", invoice, now)
	return invoice, nil
}

// MarkPaid transitions SENT or OVERDUE -> PAID, recording the payment date.
func (s *invoiceService) MarkPaid(ctx context.Context, invoiceID string, paymentDate time.Time, actorUserID string) (*domain.Invoice, error) {
	now := time.Now().UTC()
	invoice, err := s.invoiceRepo.UpdateInvoiceStatus(ctx, invoiceID,
		[]domain.InvoiceStatus{domain.InvoiceSent, domain.InvoiceOverdue}, domain.InvoicePaid,
		false, portsrepo.StatusStamp{PaidDate: &paymentDate}, actorUserID, now)
	if err != nil {
		return nil, err
	}
	s.emit(ctx, "invoice.paid", invoice, now)
	return invoice, nil
}

// Cancel transitions DRAFT or SENT -> CANCELLED.
func (s *invoiceService) Cancel(ctx context.Context, invoiceID string, actorUserID string) (*domain.Invoice, error) {
	now := time.Now().UTC()
	invoice, err := s.invoiceRepo.UpdateInvoiceStatus(ctx, invoiceID,
		[]domain.InvoiceStatus{domain.InvoiceDraft, domain.InvoiceSent}, domain.InvoiceCancelled,
		false, portsrepo.StatusStamp{}, actorUserID, now)
	if err != nil {
		return nil, err
	}
	s.emit(ctx, "invoice.cancelled", invoice, now)
	return invoice, nil
}

// Delete removes an invoice outright. Only DRAFT and CANCELLED invoices may
// be deleted; anything sent is part of the audit trail.
func (s *invoiceService) Delete(ctx context.Context, invoiceID string, actorUserID string) error {
	if err := s.invoiceRepo.DeleteInvoice(ctx, invoiceID); err != nil {
		return err
	}
	s.LogInfo(ctx, "Invoice deleted", slog.String("invoice_id", invoiceID), slog.String("deleted_by", actorUserID))
	return nil
}

// SweepOverdue applies the derived SENT -> OVERDUE transition for every
// invoice whose due date has passed. Idempotent; already-OVERDUE invoices
// are untouched.
func (s *invoiceService) SweepOverdue(ctx context.Context, now time.Time) (int, error) {
	moved, err := s.invoiceRepo.SweepOverdue(ctx, now, "system")
	if err != nil {
		s.LogError(ctx, err, "Overdue sweep failed")
		return 0, fmt.Errorf("overdue sweep failed: %w", err)
	}
	for i := range moved {
		s.emit(ctx, "invoice.overdue", &moved[i], now)
	}
	if len(moved) > 0 {
		s.LogInfo(ctx, "Invoices marked overdue", slog.Int("count", len(moved)))
	}
	return len(moved), nil
}
