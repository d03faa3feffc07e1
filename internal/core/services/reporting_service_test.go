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
	portssvc "github.com/gitayam/short-term-land-lord-sub001/internal/core/ports/services"
	"github.com/gitayam/short-term-land-lord-sub001/internal/core/services"
	"github.com/gitayam/short-term-land-lord-sub001/internal/dto"
)

type ReportingServiceTestSuite struct {
	suite.Suite
	mockInvoiceRepo *MockInvoiceRepository
	mockExpenseRepo *MockExpenseRepository
	mockBookingRepo *MockBookingRepository
	mockPeriodRepo  *MockFinancialPeriodRepository
	mockScopeRepo   *MockScopeRepository
	service         portssvc.ReportingSvcFacade

	from time.Time
	to   time.Time
}

func (suite *ReportingServiceTestSuite) SetupTest() {
	suite.mockInvoiceRepo = new(MockInvoiceRepository)
	suite.mockExpenseRepo = new(MockExpenseRepository)
	suite.mockBookingRepo = new(MockBookingRepository)
	suite.mockPeriodRepo = new(MockFinancialPeriodRepository)
	suite.mockScopeRepo = new(MockScopeRepository)

	scopeSvc := services.NewScopeService(suite.mockScopeRepo)
	suite.service = services.NewReportingService(
		suite.mockInvoiceRepo, suite.mockExpenseRepo, suite.mockBookingRepo,
		suite.mockPeriodRepo, scopeSvc)

	suite.from = time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	suite.to = time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC)
}

func (suite *ReportingServiceTestSuite) admin() domain.Caller {
	return domain.Caller{UserID: uuid.NewString(), Role: domain.RoleAdmin}
}

func (suite *ReportingServiceTestSuite) stubRows(propertyIDs []string, bookings []domain.Booking, invoices []domain.Invoice, expenses []domain.Expense) {
	suite.mockBookingRepo.On("FindBookingsInRange", mock.Anything, propertyIDs, suite.from, suite.to).Return(bookings, nil).Once()
	suite.mockInvoiceRepo.On("FindPaidInvoicesInRange", mock.Anything, propertyIDs, suite.from, suite.to).Return(invoices, nil).Once()
	suite.mockExpenseRepo.On("FindPaidExpensesInRange", mock.Anything, propertyIDs, suite.from, suite.to).Return(expenses, nil).Once()
}

func paidExpense(propertyID *string, category domain.ExpenseCategory, amount, businessPct string, deductible bool) domain.Expense {
	return domain.Expense{
		ExpenseID:          uuid.NewString(),
		Category:           category,
		Amount:             decimal.RequireFromString(amount),
		BusinessPercentage: decimal.RequireFromString(businessPct),
		Status:             domain.ExpensePaid,
		TaxDeductible:      deductible,
		PropertyID:         propertyID,
		ExpenseDate:        time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC),
	}
}

func (suite *ReportingServiceTestSuite) TestFinancialSummary_BucketsAndProfit() {
	propA := "prop-a"
	bookings := []domain.Booking{
		{BookingID: "b-1", PropertyID: propA, Amount: decimal.RequireFromString("1000.00")},
	}
	invoices := []domain.Invoice{
		{InvoiceID: "inv-1", PropertyID: propA, Status: domain.InvoicePaid, Total: decimal.RequireFromString("500.00")},
	}
	expenses := []domain.Expense{
		paidExpense(&propA, domain.CategoryUtilities, "100.00", "100", true),
		paidExpense(&propA, domain.CategoryContractorPayments, "200.00", "100", true),
		paidExpense(&propA, domain.CategoryLinens, "50.00", "100", true),
		paidExpense(&propA, domain.CategoryEquipment, "400.00", "100", true), // capital
		paidExpense(&propA, domain.CategoryTravel, "80.00", "50", true),      // half business use
	}
	suite.stubRows(nil, bookings, invoices, expenses)

	summary, err := suite.service.FinancialSummary(context.Background(), suite.admin(), dto.FinancialSummaryRequest{From: suite.from, To: suite.to})

	suite.Require().NoError(err)
	suite.True(summary.Revenue.Equal(decimal.RequireFromString("1500.00")), "revenue %s", summary.Revenue)
	suite.True(summary.Buckets[domain.BucketOperating].Equal(decimal.RequireFromString("140.00")), "operating %s", summary.Buckets[domain.BucketOperating])
	suite.True(summary.Buckets[domain.BucketLabor].Equal(decimal.RequireFromString("200.00")))
	suite.True(summary.Buckets[domain.BucketCOGS].Equal(decimal.RequireFromString("50.00")))
	suite.True(summary.Buckets[domain.BucketCapital].Equal(decimal.RequireFromString("400.00")))

	// Capital never reduces operating profit.
	suite.True(summary.TotalExpenses.Equal(decimal.RequireFromString("390.00")), "total expenses %s", summary.TotalExpenses)
	suite.True(summary.GrossProfit.Equal(decimal.RequireFromString("1450.00")))
	suite.True(summary.NetIncome.Equal(decimal.RequireFromString("1110.00")))
	suite.True(summary.ProfitMargin.Equal(decimal.RequireFromString("0.74")), "margin %s", summary.ProfitMargin)

	// Cash flow counts full paid amounts, capital and personal share included.
	suite.True(summary.CashInflow.Equal(decimal.RequireFromString("1500.00")))
	suite.True(summary.CashOutflow.Equal(decimal.RequireFromString("830.00")), "outflow %s", summary.CashOutflow)
	suite.True(summary.NetCashFlow.Equal(decimal.RequireFromString("670.00")))
	suite.Empty(summary.Skipped)
}

func (suite *ReportingServiceTestSuite) TestFinancialSummary_ZeroRevenueZeroMargin() {
	propA := "prop-a"
	expenses := []domain.Expense{
		paidExpense(&propA, domain.CategoryUtilities, "100.00", "100", true),
	}
	suite.stubRows(nil, []domain.Booking{}, []domain.Invoice{}, expenses)

	summary, err := suite.service.FinancialSummary(context.Background(), suite.admin(), dto.FinancialSummaryRequest{From: suite.from, To: suite.to})

	suite.Require().NoError(err)
	suite.True(summary.Revenue.IsZero())
	suite.True(summary.ProfitMargin.IsZero(), "margin must be zero, not a division error")
	suite.True(summary.NetIncome.Equal(decimal.RequireFromString("-100.00")))
}

func (suite *ReportingServiceTestSuite) TestFinancialSummary_UnknownCategorySkippedNotFatal() {
	propA := "prop-a"
	bad := paidExpense(&propA, "OFFICE_SNACKS", "10.00", "100", true)
	good := paidExpense(&propA, domain.CategoryUtilities, "100.00", "100", true)
	suite.stubRows(nil, []domain.Booking{}, []domain.Invoice{}, []domain.Expense{bad, good})

	summary, err := suite.service.FinancialSummary(context.Background(), suite.admin(), dto.FinancialSummaryRequest{From: suite.from, To: suite.to})

	suite.Require().NoError(err)
	suite.Require().Len(summary.Skipped, 1)
	suite.Equal(bad.ExpenseID, summary.Skipped[0].RecordID)
	suite.True(summary.Buckets[domain.BucketOperating].Equal(decimal.RequireFromString("100.00")))
	// The malformed record still moved cash.
	suite.True(summary.CashOutflow.Equal(decimal.RequireFromString("110.00")))
}

func (suite *ReportingServiceTestSuite) TestFinancialSummary_PerPropertyAdditivity() {
	propA, propB := "prop-a", "prop-b"
	bookings := []domain.Booking{
		{BookingID: "b-1", PropertyID: propA, Amount: decimal.RequireFromString("300.00")},
		{BookingID: "b-2", PropertyID: propB, Amount: decimal.RequireFromString("700.00")},
	}
	expenses := []domain.Expense{
		paidExpense(&propA, domain.CategoryUtilities, "50.00", "100", true),
		paidExpense(&propB, domain.CategoryUtilities, "150.00", "100", true),
	}
	suite.stubRows(nil, bookings, []domain.Invoice{}, expenses)

	summary, err := suite.service.FinancialSummary(context.Background(), suite.admin(), dto.FinancialSummaryRequest{From: suite.from, To: suite.to})

	suite.Require().NoError(err)
	suite.Require().Len(summary.PerProperty, 2)

	revenueSum := decimal.Zero
	expenseSum := decimal.Zero
	for _, p := range summary.PerProperty {
		revenueSum = revenueSum.Add(p.Revenue)
		expenseSum = expenseSum.Add(p.TotalExpenses)
	}
	suite.True(revenueSum.Equal(summary.Revenue), "per-property revenue must sum to the combined total")
	suite.True(expenseSum.Equal(summary.TotalExpenses))

	// Sorted by net income, best first.
	suite.Equal(propB, summary.PerProperty[0].PropertyID)
	suite.True(summary.PerProperty[0].NetIncome.GreaterThanOrEqual(summary.PerProperty[1].NetIncome))
}

func (suite *ReportingServiceTestSuite) TestFinancialSummary_BusinessWideExpenseInEverySlice() {
	propA, propB := "prop-a", "prop-b"
	bookings := []domain.Booking{
		{BookingID: "b-1", PropertyID: propA, Amount: decimal.RequireFromString("100.00")},
		{BookingID: "b-2", PropertyID: propB, Amount: decimal.RequireFromString("100.00")},
	}
	expenses := []domain.Expense{
		paidExpense(nil, domain.CategoryInsurance, "40.00", "100", true), // business-wide
	}
	suite.stubRows(nil, bookings, []domain.Invoice{}, expenses)

	summary, err := suite.service.FinancialSummary(context.Background(), suite.admin(), dto.FinancialSummaryRequest{From: suite.from, To: suite.to})

	suite.Require().NoError(err)
	suite.Require().Len(summary.PerProperty, 2)
	for _, p := range summary.PerProperty {
		suite.True(p.TotalExpenses.Equal(decimal.RequireFromString("40.00")),
			"business-wide expense appears in each property slice")
	}
}

func (suite *ReportingServiceTestSuite) TestFinancialSummary_OwnerScopeRestricts() {
	ctx := context.Background()
	userID := uuid.NewString()
	owned := []string{"prop-a"}

	suite.mockScopeRepo.On("FindOwnedProperties", mock.Anything, userID).Return(owned, nil).Once()
	suite.mockScopeRepo.On("FindProvidersForProperties", mock.Anything, owned).Return([]string{}, nil).Once()
	suite.stubRows(owned, []domain.Booking{}, []domain.Invoice{}, []domain.Expense{})

	// Request asks for both; only the owned property reaches the queries.
	req := dto.FinancialSummaryRequest{PropertyIDs: []string{"prop-a", "prop-b"}, From: suite.from, To: suite.to}
	_, err := suite.service.FinancialSummary(ctx, domain.Caller{UserID: userID, Role: domain.RoleOwner}, req)

	suite.Require().NoError(err)
	suite.mockBookingRepo.AssertExpectations(suite.T())
}

func (suite *ReportingServiceTestSuite) TestFinancialSummary_AllRequestedOutOfScope() {
	ctx := context.Background()
	userID := uuid.NewString()
	owned := []string{"prop-a"}

	suite.mockScopeRepo.On("FindOwnedProperties", mock.Anything, userID).Return(owned, nil).Once()
	suite.mockScopeRepo.On("FindProvidersForProperties", mock.Anything, owned).Return([]string{}, nil).Once()

	req := dto.FinancialSummaryRequest{PropertyIDs: []string{"prop-z"}, From: suite.from, To: suite.to}
	_, err := suite.service.FinancialSummary(ctx, domain.Caller{UserID: userID, Role: domain.RoleOwner}, req)

	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.mockBookingRepo.AssertNotCalled(suite.T(), "FindBookingsInRange")
}

func (suite *ReportingServiceTestSuite) TestFinancialSummary_StaffSeesOwnEarnings() {
	ctx := context.Background()
	userID := uuid.NewString()
	earned := decimal.RequireFromString("350.00")

	suite.mockInvoiceRepo.On("SumPaidItemAmountsByWorker", mock.Anything, userID, suite.from, suite.to).
		Return(earned, nil).Once()

	summary, err := suite.service.FinancialSummary(ctx, domain.Caller{UserID: userID, Role: domain.RoleStaff}, dto.FinancialSummaryRequest{From: suite.from, To: suite.to})

	suite.Require().NoError(err)
	suite.True(summary.Revenue.Equal(earned))
	suite.True(summary.NetIncome.Equal(earned))
	// Staff never see property-level figures.
	suite.Empty(summary.PerProperty)
	suite.mockBookingRepo.AssertNotCalled(suite.T(), "FindBookingsInRange")
	suite.mockExpenseRepo.AssertNotCalled(suite.T(), "FindPaidExpensesInRange")
}

func (suite *ReportingServiceTestSuite) TestTaxSummary_RowsSortedAndDeductibleComputed() {
	ctx := context.Background()
	propA := "prop-a"
	june10 := time.Date(2026, 6, 10, 0, 0, 0, 0, time.UTC)
	june5 := time.Date(2026, 6, 5, 0, 0, 0, 0, time.UTC)

	later := paidExpense(&propA, domain.CategoryUtilities, "100.00", "100", true)
	later.ExpenseDate = june10
	earlier := paidExpense(&propA, domain.CategoryTravel, "80.00", "50", true)
	earlier.ExpenseDate = june5
	personal := paidExpense(&propA, domain.CategoryRepairs, "60.00", "100", false)

	suite.mockExpenseRepo.On("FindPaidExpensesInRange", mock.Anything, []string(nil), suite.from, suite.to).
		Return([]domain.Expense{later, earlier, personal}, nil).Once()

	rows, err := suite.service.TaxSummary(ctx, suite.admin(), suite.from, suite.to)

	suite.Require().NoError(err)
	suite.Require().Len(rows, 2, "non-deductible entries stay out of the tax export")
	suite.Equal(domain.CategoryTravel, rows[0].Category)
	suite.True(rows[0].DeductibleAmount.Equal(decimal.RequireFromString("40.00")), "50%% business use of 80.00")
	suite.Equal(domain.CategoryUtilities, rows[1].Category)
	suite.True(rows[1].DeductibleAmount.Equal(decimal.RequireFromString("100.00")))
}

func (suite *ReportingServiceTestSuite) TestTaxSummary_StaffForbidden() {
	ctx := context.Background()

	_, err := suite.service.TaxSummary(ctx, domain.Caller{UserID: uuid.NewString(), Role: domain.RoleStaff}, suite.from, suite.to)

	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.mockExpenseRepo.AssertNotCalled(suite.T(), "FindPaidExpensesInRange")
}

func (suite *ReportingServiceTestSuite) TestCacheFinancialPeriod_TotalIncludesCapital() {
	ctx := context.Background()
	propA := "prop-a"
	bookings := []domain.Booking{
		{BookingID: "b-1", PropertyID: propA, Amount: decimal.RequireFromString("1000.00")},
	}
	expenses := []domain.Expense{
		paidExpense(&propA, domain.CategoryUtilities, "100.00", "100", true),
		paidExpense(&propA, domain.CategoryEquipment, "400.00", "100", true),
	}
	suite.stubRows([]string{propA}, bookings, []domain.Invoice{}, expenses)

	suite.mockPeriodRepo.On("SaveFinancialPeriod", mock.Anything, mock.MatchedBy(func(p domain.FinancialPeriod) bool {
		return p.PeriodType == domain.PeriodMonthly &&
			p.TotalRevenue.Equal(decimal.RequireFromString("1000.00")) &&
			p.CapitalExpenses.Equal(decimal.RequireFromString("400.00")) &&
			// The cached row reconciles with itself: all four buckets.
			p.TotalExpenses.Equal(decimal.RequireFromString("500.00")) &&
			p.NetIncome.Equal(decimal.RequireFromString("500.00"))
	})).Return(nil).Once()

	req := dto.CachePeriodRequest{
		PropertyID: &propA,
		PeriodType: domain.PeriodMonthly,
		StartDate:  suite.from,
		EndDate:    suite.to,
	}
	period, err := suite.service.CacheFinancialPeriod(ctx, suite.admin(), req)

	suite.Require().NoError(err)
	suite.Equal(domain.PeriodMonthly, period.PeriodType)
	suite.mockPeriodRepo.AssertExpectations(suite.T())
}

func (suite *ReportingServiceTestSuite) TestCacheFinancialPeriod_InvalidPeriodType() {
	ctx := context.Background()

	_, err := suite.service.CacheFinancialPeriod(ctx, suite.admin(), dto.CachePeriodRequest{PeriodType: "WEEKLY"})

	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockPeriodRepo.AssertNotCalled(suite.T(), "SaveFinancialPeriod")
}

func TestReportingServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ReportingServiceTestSuite))
}
