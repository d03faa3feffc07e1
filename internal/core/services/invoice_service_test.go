package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/gitayam/short-term-land-lord-sub001/internal/apperrors"
	"github.com/gitayam/short-term-land-lord-sub001/internal/core/domain"
	portsrepo "github.com/gitayam/short-term-land-lord-sub001/internal/core/ports/repositories"
	portssvc "github.com/gitayam/short-term-land-lord-sub001/internal/core/ports/services"
	"github.com/gitayam/short-term-land-lord-sub001/internal/core/services"
	"github.com/gitayam/short-term-land-lord-sub001/internal/dto"
)

type InvoiceServiceTestSuite struct {
	suite.Suite
	mockInvoiceRepo  *MockInvoiceRepository
	mockWorkUnitRepo *MockWorkUnitRepository
	mockRuleRepo     *MockPriceRuleRepository
	mockNotifier     *MockNotifier
	service          portssvc.InvoiceSvcFacade
}

func (suite *InvoiceServiceTestSuite) SetupTest() {
	suite.mockInvoiceRepo = new(MockInvoiceRepository)
	suite.mockWorkUnitRepo = new(MockWorkUnitRepository)
	suite.mockRuleRepo = new(MockPriceRuleRepository)
	suite.mockNotifier = new(MockNotifier)

	pricingSvc := services.NewPricingService(suite.mockRuleRepo)
	suite.service = services.NewInvoiceService(suite.mockInvoiceRepo, suite.mockWorkUnitRepo, pricingSvc, suite.mockNotifier)
}

func (suite *InvoiceServiceTestSuite) TestCreateDraft_Success() {
	ctx := context.Background()
	creatorUserID := uuid.NewString()
	req := dto.CreateInvoiceRequest{
		PropertyID: "prop-1",
		DateFrom:   time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
		DateTo:     time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC),
		TaxRate:    decimal.NewFromInt(8),
	}

	suite.mockInvoiceRepo.On("CreateDraftInvoice", ctx, mock.MatchedBy(func(inv domain.Invoice) bool {
		return inv.PropertyID == "prop-1" &&
			inv.Status == domain.InvoiceDraft &&
			inv.Subtotal.IsZero() && inv.Total.IsZero() &&
			inv.TaxRate.Equal(decimal.NewFromInt(8)) &&
			inv.CreatedBy == creatorUserID
	})).Return(&domain.Invoice{InvoiceID: "inv-1", InvoiceNumber: "INV-20260601-0001", Status: domain.InvoiceDraft}, nil).Once()

	invoice, err := suite.service.CreateDraft(ctx, req, creatorUserID)

	suite.Require().NoError(err)
	suite.Equal("INV-20260601-0001", invoice.InvoiceNumber)
	suite.mockInvoiceRepo.AssertExpectations(suite.T())
}

func (suite *InvoiceServiceTestSuite) TestCreateDraft_InvertedDateRange() {
	ctx := context.Background()
	req := dto.CreateInvoiceRequest{
		PropertyID: "prop-1",
		DateFrom:   time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC),
		DateTo:     time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
	}

	_, err := suite.service.CreateDraft(ctx, req, uuid.NewString())

	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockInvoiceRepo.AssertNotCalled(suite.T(), "CreateDraftInvoice")
}

func (suite *InvoiceServiceTestSuite) TestAddItem_AmountDerivedFromQuantityAndPrice() {
	ctx := context.Background()
	req := dto.AddInvoiceItemRequest{
		Description: "Deep clean",
		Quantity:    decimal.NewFromInt(3),
		UnitPrice:   decimal.RequireFromString("10.00"),
	}

	suite.mockInvoiceRepo.On("AddInvoiceItem", ctx, "inv-1", mock.MatchedBy(func(item domain.InvoiceItem) bool {
		return item.Amount.Equal(decimal.RequireFromString("30.00")) &&
			item.Description == "Deep clean"
	})).Return(&domain.Invoice{InvoiceID: "inv-1"}, nil).Once()

	_, err := suite.service.AddItem(ctx, "inv-1", req, uuid.NewString())

	suite.Require().NoError(err)
	suite.mockInvoiceRepo.AssertExpectations(suite.T())
}

func (suite *InvoiceServiceTestSuite) TestAddItem_RejectsNonPositiveQuantity() {
	ctx := context.Background()
	req := dto.AddInvoiceItemRequest{
		Description: "Nothing",
		Quantity:    decimal.Zero,
		UnitPrice:   decimal.NewFromInt(10),
	}

	_, err := suite.service.AddItem(ctx, "inv-1", req, uuid.NewString())

	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockInvoiceRepo.AssertNotCalled(suite.T(), "AddInvoiceItem")
}

func (suite *InvoiceServiceTestSuite) TestAddPricedWorkUnit_HourlyPricing() {
	ctx := context.Background()
	minutes := 90
	unit := &domain.WorkUnit{
		WorkUnitID:      "wu-1",
		PropertyID:      "prop-1",
		ServiceType:     domain.ServiceCleaning,
		DurationMinutes: &minutes,
		CompletedAt:     time.Date(2026, 6, 10, 14, 0, 0, 0, time.UTC),
	}
	propertyID := "prop-1"
	rule := &domain.PriceRule{
		RuleID:       "r-1",
		ServiceType:  domain.ServiceCleaning,
		PricingModel: domain.PricingHourly,
		HourlyRate:   decimal.RequireFromString("15.00"),
	}

	suite.mockWorkUnitRepo.On("FindWorkUnitByID", ctx, "wu-1").Return(unit, nil).Once()
	suite.mockRuleRepo.On("FindRuleForService", ctx, domain.ServiceCleaning, &propertyID).Return(rule, nil).Once()
	suite.mockInvoiceRepo.On("AddInvoiceItem", ctx, "inv-1", mock.MatchedBy(func(item domain.InvoiceItem) bool {
		return item.Amount.Equal(decimal.RequireFromString("22.50")) &&
			item.WorkUnitID != nil && *item.WorkUnitID == "wu-1"
	})).Return(&domain.Invoice{InvoiceID: "inv-1"}, nil).Once()

	_, err := suite.service.AddPricedWorkUnit(ctx, "inv-1", "wu-1", uuid.NewString())

	suite.Require().NoError(err)
	suite.mockInvoiceRepo.AssertExpectations(suite.T())
}

func (suite *InvoiceServiceTestSuite) TestAddPricedWorkUnit_AlreadyInvoiced() {
	ctx := context.Background()
	unit := &domain.WorkUnit{WorkUnitID: "wu-1", Invoiced: true}

	suite.mockWorkUnitRepo.On("FindWorkUnitByID", ctx, "wu-1").Return(unit, nil).Once()

	_, err := suite.service.AddPricedWorkUnit(ctx, "inv-1", "wu-1", uuid.NewString())

	suite.ErrorIs(err, apperrors.ErrAlreadyInvoiced)
	suite.mockInvoiceRepo.AssertNotCalled(suite.T(), "AddInvoiceItem")
}

func (suite *InvoiceServiceTestSuite) TestGenerateFromWorkUnits_SkipsUnpriceable() {
	ctx := context.Background()
	minutes := 60
	units := []domain.WorkUnit{
		{WorkUnitID: "wu-priced", PropertyID: "prop-1", ServiceType: domain.ServiceCleaning, DurationMinutes: &minutes},
		{WorkUnitID: "wu-unpriced", PropertyID: "prop-1", ServiceType: domain.ServiceLandscaping},
	}
	propertyID := "prop-1"
	rule := &domain.PriceRule{
		RuleID:       "r-1",
		ServiceType:  domain.ServiceCleaning,
		PricingModel: domain.PricingHourly,
		HourlyRate:   decimal.NewFromInt(20),
	}
	req := dto.GenerateInvoiceRequest{
		PropertyID: "prop-1",
		DateFrom:   time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
		DateTo:     time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC),
	}
	draft := &domain.Invoice{InvoiceID: "inv-1", Status: domain.InvoiceDraft}

	suite.mockWorkUnitRepo.On("FindCompletedUnbilled", ctx, "prop-1", req.DateFrom, req.DateTo).Return(units, nil).Once()
	suite.mockInvoiceRepo.On("CreateDraftInvoice", ctx, mock.AnythingOfType("domain.Invoice")).Return(draft, nil).Once()
	suite.mockRuleRepo.On("FindRuleForService", ctx, domain.ServiceCleaning, &propertyID).Return(rule, nil).Once()
	// No rule anywhere for landscaping: skipped, not fatal.
	suite.mockRuleRepo.On("FindRuleForService", ctx, domain.ServiceLandscaping, &propertyID).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockRuleRepo.On("FindRuleForService", ctx, domain.ServiceLandscaping, (*string)(nil)).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockInvoiceRepo.On("AddInvoiceItem", ctx, "inv-1", mock.MatchedBy(func(item domain.InvoiceItem) bool {
		return item.WorkUnitID != nil && *item.WorkUnitID == "wu-priced"
	})).Return(draft, nil).Once()
	suite.mockInvoiceRepo.On("FindItemsByInvoiceID", ctx, "inv-1").
		Return([]domain.InvoiceItem{{ItemID: "item-1", InvoiceID: "inv-1"}}, nil).Once()

	generated, err := suite.service.GenerateFromWorkUnits(ctx, req, uuid.NewString())

	suite.Require().NoError(err)
	suite.Len(generated.Items, 1)
	suite.Require().Len(generated.Skipped, 1)
	suite.Equal("wu-unpriced", generated.Skipped[0].RecordID)
	suite.mockInvoiceRepo.AssertExpectations(suite.T())
}

func (suite *InvoiceServiceTestSuite) TestGenerateFromWorkUnits_HourlySessionsPricedPerDuration() {
	ctx := context.Background()
	long, short := 90, 30
	units := []domain.WorkUnit{
		{WorkUnitID: "wu-long", PropertyID: "prop-p", ServiceType: domain.ServiceCleaning, DurationMinutes: &long},
		{WorkUnitID: "wu-short", PropertyID: "prop-p", ServiceType: domain.ServiceCleaning, DurationMinutes: &short},
	}
	propertyID := "prop-p"
	// The property rule at $20/hr outranks any global fixed price.
	rule := &domain.PriceRule{
		RuleID:       "r-p",
		ServiceType:  domain.ServiceCleaning,
		PropertyID:   &propertyID,
		PricingModel: domain.PricingHourly,
		HourlyRate:   decimal.RequireFromString("20.00"),
	}
	req := dto.GenerateInvoiceRequest{
		PropertyID: "prop-p",
		DateFrom:   time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
		DateTo:     time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC),
		TaxRate:    decimal.NewFromInt(8),
	}
	draft := &domain.Invoice{InvoiceID: "inv-1", Status: domain.InvoiceDraft, TaxRate: decimal.NewFromInt(8)}
	settled := &domain.Invoice{
		InvoiceID: "inv-1",
		Status:    domain.InvoiceDraft,
		Subtotal:  decimal.RequireFromString("40.00"),
		TaxAmount: decimal.RequireFromString("3.20"),
		Total:     decimal.RequireFromString("43.20"),
	}

	suite.mockWorkUnitRepo.On("FindCompletedUnbilled", ctx, "prop-p", req.DateFrom, req.DateTo).Return(units, nil).Once()
	suite.mockInvoiceRepo.On("CreateDraftInvoice", ctx, mock.AnythingOfType("domain.Invoice")).Return(draft, nil).Once()
	suite.mockRuleRepo.On("FindRuleForService", ctx, domain.ServiceCleaning, &propertyID).Return(rule, nil).Twice()
	suite.mockInvoiceRepo.On("AddInvoiceItem", ctx, "inv-1", mock.MatchedBy(func(item domain.InvoiceItem) bool {
		return item.Amount.Equal(decimal.RequireFromString("30.00"))
	})).Return(draft, nil).Once()
	suite.mockInvoiceRepo.On("AddInvoiceItem", ctx, "inv-1", mock.MatchedBy(func(item domain.InvoiceItem) bool {
		return item.Amount.Equal(decimal.RequireFromString("10.00"))
	})).Return(settled, nil).Once()
	suite.mockInvoiceRepo.On("FindItemsByInvoiceID", ctx, "inv-1").
		Return([]domain.InvoiceItem{{ItemID: "i-1"}, {ItemID: "i-2"}}, nil).Once()

	generated, err := suite.service.GenerateFromWorkUnits(ctx, req, uuid.NewString())

	suite.Require().NoError(err)
	suite.Empty(generated.Skipped)
	suite.Len(generated.Items, 2)
	suite.True(generated.Invoice.Subtotal.Equal(decimal.RequireFromString("40.00")))
	suite.True(generated.Invoice.Total.Equal(decimal.RequireFromString("43.20")))
	suite.mockInvoiceRepo.AssertExpectations(suite.T())
}

func (suite *InvoiceServiceTestSuite) TestSend_RequiresItemsAndStampsSentAt() {
	ctx := context.Background()
	actor := uuid.NewString()
	sent := &domain.Invoice{InvoiceID: "inv-1", PropertyID: "prop-1", Status: domain.InvoiceSent}

	suite.mockInvoiceRepo.On("UpdateInvoiceStatus", ctx, "inv-1",
		[]domain.InvoiceStatus{domain.InvoiceDraft}, domain.InvoiceSent,
		true, mock.MatchedBy(func(stamp portsrepo.StatusStamp) bool {
			return stamp.SentAt != nil && stamp.PaidDate == nil
		}), actor, mock.AnythingOfType("time.Time")).Return(sent, nil).Once()
	suite.mockNotifier.On("Notify", ctx, mock.MatchedBy(func(e portssvc.BillingEvent) bool {
		return e.Type == "invoice.sent" && e.InvoiceID == "inv-1"
	})).Once()

	invoice, err := suite.service.Send(ctx, "inv-1", actor)

	suite.Require().NoError(err)
	suite.Equal(domain.InvoiceSent, invoice.Status)
	suite.mockInvoiceRepo.AssertExpectations(suite.T())
	suite.mockNotifier.AssertExpectations(suite.T())
}

func (suite *InvoiceServiceTestSuite) TestSend_EmptyInvoiceRejected() {
	ctx := context.Background()
	actor := uuid.NewString()

	suite.mockInvoiceRepo.On("UpdateInvoiceStatus", ctx, "inv-1",
		[]domain.InvoiceStatus{domain.InvoiceDraft}, domain.InvoiceSent,
		true, mock.AnythingOfType("repositories.StatusStamp"), actor, mock.AnythingOfType("time.Time")).
		Return(nil, apperrors.ErrEmptyInvoice).Once()

	_, err := suite.service.Send(ctx, "inv-1", actor)

	suite.ErrorIs(err, apperrors.ErrEmptyInvoice)
	suite.mockNotifier.AssertNotCalled(suite.T(), "Notify")
}

func (suite *InvoiceServiceTestSuite) TestMarkPaid_FromSentOrOverdue() {
	ctx := context.Background()
	actor := uuid.NewString()
	paymentDate := time.Date(2026, 7, 2, 0, 0, 0, 0, time.UTC)
	paid := &domain.Invoice{InvoiceID: "inv-1", Status: domain.InvoicePaid, PaidDate: &paymentDate}

	suite.mockInvoiceRepo.On("UpdateInvoiceStatus", ctx, "inv-1",
		[]domain.InvoiceStatus{domain.InvoiceSent, domain.InvoiceOverdue}, domain.InvoicePaid,
		false, mock.MatchedBy(func(stamp portsrepo.StatusStamp) bool {
			return stamp.PaidDate != nil && stamp.PaidDate.Equal(paymentDate)
		}), actor, mock.AnythingOfType("time.Time")).Return(paid, nil).Once()
	suite.mockNotifier.On("Notify", ctx, mock.MatchedBy(func(e portssvc.BillingEvent) bool {
		return e.Type == "invoice.paid"
	})).Once()

	invoice, err := suite.service.MarkPaid(ctx, "inv-1", paymentDate, actor)

	suite.Require().NoError(err)
	suite.Equal(domain.InvoicePaid, invoice.Status)
	suite.mockInvoiceRepo.AssertExpectations(suite.T())
}

func (suite *InvoiceServiceTestSuite) TestSweepOverdue_EmitsPerInvoice() {
	ctx := context.Background()
	now := time.Date(2026, 7, 15, 3, 0, 0, 0, time.UTC)
	moved := []domain.Invoice{
		{InvoiceID: "inv-1", PropertyID: "prop-1", Status: domain.InvoiceOverdue},
		{InvoiceID: "inv-2", PropertyID: "prop-2", Status: domain.InvoiceOverdue},
	}

	suite.mockInvoiceRepo.On("SweepOverdue", ctx, now, "system").Return(moved, nil).Once()
	suite.mockNotifier.On("Notify", ctx, mock.MatchedBy(func(e portssvc.BillingEvent) bool {
		return e.Type == "invoice.overdue"
	})).Twice()

	count, err := suite.service.SweepOverdue(ctx, now)

	suite.Require().NoError(err)
	suite.Equal(2, count)
	suite.mockNotifier.AssertExpectations(suite.T())
}

func (suite *InvoiceServiceTestSuite) TestSweepOverdue_NothingDue() {
	ctx := context.Background()
	now := time.Now().UTC()

	suite.mockInvoiceRepo.On("SweepOverdue", ctx, now, "system").Return([]domain.Invoice{}, nil).Once()

	count, err := suite.service.SweepOverdue(ctx, now)

	suite.Require().NoError(err)
	suite.Zero(count)
	suite.mockNotifier.AssertNotCalled(suite.T(), "Notify")
}

func TestInvoiceServiceTestSuite(t *testing.T) {
	suite.Run(t, new(InvoiceServiceTestSuite))
}
