package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
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

// reportingService aggregates revenue and expenses into financial summaries,
// tax exports and cached period rollups. Aggregation itself is pure: the
// repositories supply rows, computeSummary folds them, and re-running over
// the same inputs yields identical results.
type reportingService struct {
	BaseService
	invoiceRepo portsrepo.InvoiceRepositoryWithTx
	expenseRepo portsrepo.ExpenseRepositoryFacade
	bookingRepo portsrepo.BookingRepositoryFacade
	periodRepo  portsrepo.FinancialPeriodRepositoryFacade
	scopeSvc    portssvc.ScopeSvcFacade
}

// NewReportingService creates a new ReportingService.
func NewReportingService(
	invoiceRepo portsrepo.InvoiceRepositoryWithTx,
	expenseRepo portsrepo.ExpenseRepositoryFacade,
	bookingRepo portsrepo.BookingRepositoryFacade,
	periodRepo portsrepo.FinancialPeriodRepositoryFacade,
	scopeSvc portssvc.ScopeSvcFacade,
) portssvc.ReportingSvcFacade {
	return &reportingService{
		invoiceRepo: invoiceRepo,
		expenseRepo: expenseRepo,
		bookingRepo: bookingRepo,
		periodRepo:  periodRepo,
		scopeSvc:    scopeSvc,
	}
}

var _ portssvc.ReportingSvcFacade = (*reportingService)(nil)

// DeductibleAmount computes the tax-deductible portion of an expense after
// applying its business-use percentage.
func DeductibleAmount(expense domain.Expense) decimal.Decimal {
	return utils.PercentOf(expense.Amount, expense.BusinessPercentage)
}

// expenseInProperties reports whether an expense belongs to the property filter. A
// business-wide expense (nil property) is always in scope.
func expenseInProperties(expense domain.Expense, propertyIDs []string) bool {
	if expense.PropertyID == nil {
		return true
	}
	if propertyIDs == nil {
		return true
	}
	for _, id := range propertyIDs {
		if id == *expense.PropertyID {
			return true
		}
	}
	return false
}

func inProperties(propertyID string, propertyIDs []string) bool {
	if propertyIDs == nil {
		return true
	}
	for _, id := range propertyIDs {
		if id == propertyID {
			return true
		}
	}
	return false
}

// computeSummary folds booking, invoice and expense rows into a summary for
// the given property filter (nil = all). Pure; no repository access.
func computeSummary(bookings []domain.Booking, invoices []domain.Invoice, expenses []domain.Expense, propertyIDs []string) domain.FinancialSummary {
	summary := domain.FinancialSummary{
		Buckets: map[domain.ExpenseBucket]decimal.Decimal{
			domain.BucketOperating: decimal.Zero,
			domain.BucketLabor:     decimal.Zero,
			domain.BucketCOGS:      decimal.Zero,
			domain.BucketCapital:   decimal.Zero,
		},
	}

	bookingRevenue := decimal.Zero
	for _, b := range bookings {
		if inProperties(b.PropertyID, propertyIDs) {
			bookingRevenue = bookingRevenue.Add(b.Amount)
		}
	}
	invoiceRevenue := decimal.Zero
	for _, inv := range invoices {
		if inProperties(inv.PropertyID, propertyIDs) {
			invoiceRevenue = invoiceRevenue.Add(inv.Total)
		}
	}
	summary.BookingRevenue = bookingRevenue
	summary.InvoiceRevenue = invoiceRevenue
	summary.Revenue = bookingRevenue.Add(invoiceRevenue)

	cashOutflow := decimal.Zero
	for _, e := range expenses {
		if !expenseInProperties(e, propertyIDs) {
			continue
		}
		cashOutflow = cashOutflow.Add(e.Amount)
		if !e.TaxDeductible {
			continue
		}
		bucket, err := domain.BucketFor(e.Category)
		if err != nil {
			// A single malformed expense is a reportable skip, not a
			// fatal error for the whole report.
			summary.Skipped = append(summary.Skipped, domain.SkippedRecord{
				RecordID: e.ExpenseID,
				Reason:   err.Error(),
			})
			continue
		}
		summary.Buckets[bucket] = summary.Buckets[bucket].Add(DeductibleAmount(e))
	}

	// Capital improvements are tracked outside operating P&L: they affect
	// the balance sheet, not the income statement.
	summary.TotalExpenses = summary.Buckets[domain.BucketOperating].
		Add(summary.Buckets[domain.BucketLabor]).
		Add(summary.Buckets[domain.BucketCOGS])
	summary.GrossProfit = summary.Revenue.Sub(summary.Buckets[domain.BucketCOGS])
	summary.NetIncome = summary.Revenue.Sub(summary.TotalExpenses)
	if summary.Revenue.IsZero() {
		summary.ProfitMargin = decimal.Zero
	} else {
		summary.ProfitMargin = summary.NetIncome.Div(summary.Revenue).Round(4)
	}

	summary.CashInflow = summary.Revenue
	summary.CashOutflow = cashOutflow
	summary.NetCashFlow = summary.CashInflow.Sub(summary.CashOutflow)
	return summary
}

// propertiesIn collects the distinct property IDs present in the fetched
// rows, used for the breakdown when the scope is unrestricted.
func propertiesIn(bookings []domain.Booking, invoices []domain.Invoice, expenses []domain.Expense) []string {
	seen := map[string]bool{}
	for _, b := range bookings {
		seen[b.PropertyID] = true
	}
	for _, inv := range invoices {
		seen[inv.PropertyID] = true
	}
	for _, e := range expenses {
		if e.PropertyID != nil {
			seen[*e.PropertyID] = true
		}
	}
	out := make([]string, 0, len(seen))
	for id := range seen {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// FinancialSummary computes revenue, bucketed expenses, profit and cash flow
// for the caller's visible slice of the requested properties and range. All
// figures are on a paid/received basis.
func (s *reportingService) FinancialSummary(ctx context.Context, caller domain.Caller, req dto.FinancialSummaryRequest) (*domain.FinancialSummary, error) {
	scope, err := s.scopeSvc.ScopeFor(ctx, caller)
	if err != nil {
		return nil, err
	}

	// Staff callers have no property scope; their report is the total of
	// line items they are the recorded worker for.
	if scope.WorkerFilter != nil {
		earned, err := s.invoiceRepo.SumPaidItemAmountsByWorker(ctx, *scope.WorkerFilter, req.From, req.To)
		if err != nil {
			s.LogError(ctx, err, "Failed to sum worker line items", slog.String("worker_id", *scope.WorkerFilter))
			return nil, fmt.Errorf("failed to sum worker line items: %w", err)
		}
		summary := computeSummary(nil, nil, nil, []string{})
		summary.Revenue = earned
		summary.InvoiceRevenue = earned
		summary.GrossProfit = earned
		summary.NetIncome = earned
		summary.CashInflow = earned
		summary.NetCashFlow = earned
		if !earned.IsZero() {
			summary.ProfitMargin = decimal.NewFromInt(1)
		}
		return &summary, nil
	}

	propertyIDs := scope.Restrict(req.PropertyIDs)
	if propertyIDs != nil && len(propertyIDs) == 0 && len(req.PropertyIDs) > 0 {
		// Every requested property was outside the caller's scope.
		return nil, fmt.Errorf("%w: no requested property is visible to caller", apperrors.ErrForbidden)
	}

	bookings, invoices, expenses, err := s.fetchRows(ctx, propertyIDs, req.From, req.To)
	if err != nil {
		return nil, err
	}

	summary := computeSummary(bookings, invoices, expenses, propertyIDs)

	breakdownIDs := propertyIDs
	if breakdownIDs == nil {
		breakdownIDs = propertiesIn(bookings, invoices, expenses)
	}
	if len(breakdownIDs) > 1 {
		for _, propertyID := range breakdownIDs {
			one := computeSummary(bookings, invoices, expenses, []string{propertyID})
			summary.PerProperty = append(summary.PerProperty, domain.PropertyFinancials{
				PropertyID:    propertyID,
				Revenue:       one.Revenue,
				TotalExpenses: one.TotalExpenses,
				NetIncome:     one.NetIncome,
				ProfitMargin:  one.ProfitMargin,
			})
		}
		sort.SliceStable(summary.PerProperty, func(i, j int) bool {
			return summary.PerProperty[i].NetIncome.GreaterThan(summary.PerProperty[j].NetIncome)
		})
	}

	s.LogInfo(ctx, "Financial summary computed",
		slog.Int("properties", len(breakdownIDs)),
		slog.String("revenue", summary.Revenue.String()),
		slog.Int("skipped", len(summary.Skipped)))
	return &summary, nil
}

func (s *reportingService) fetchRows(ctx context.Context, propertyIDs []string, from, to time.Time) ([]domain.Booking, []domain.Invoice, []domain.Expense, error) {
	bookings, err := s.bookingRepo.FindBookingsInRange(ctx, propertyIDs, from, to)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to fetch bookings: %w", err)
	}
	invoices, err := s.invoiceRepo.FindPaidInvoicesInRange(ctx, propertyIDs, from, to)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to fetch paid invoices: %w", err)
	}
	expenses, err := s.expenseRepo.FindPaidExpensesInRange(ctx, propertyIDs, from, to)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to fetch paid expenses: %w", err)
	}
	return bookings, invoices, expenses, nil
}

// TaxSummary returns flat export rows for every PAID, tax-deductible expense
// visible to the caller in the range. Column order is the external CSV
// contract; rows are sorted by date then category for stable output.
func (s *reportingService) TaxSummary(ctx context.Context, caller domain.Caller, from, to time.Time) ([]domain.TaxSummaryRow, error) {
	scope, err := s.scopeSvc.ScopeFor(ctx, caller)
	if err != nil {
		return nil, err
	}
	if scope.WorkerFilter != nil {
		return nil, fmt.Errorf("%w: tax summaries are not available to staff callers", apperrors.ErrForbidden)
	}

	expenses, err := s.expenseRepo.FindPaidExpensesInRange(ctx, scope.Properties, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch paid expenses: %w", err)
	}

	rows := make([]domain.TaxSummaryRow, 0, len(expenses))
	for _, e := range expenses {
		if !e.TaxDeductible {
			continue
		}
		propertyID := ""
		if e.PropertyID != nil {
			propertyID = *e.PropertyID
		}
		rows = append(rows, domain.TaxSummaryRow{
			Date:             e.ExpenseDate,
			Category:         e.Category,
			Description:      e.Description,
			Vendor:           e.Vendor,
			Amount:           e.Amount,
			BusinessPct:      e.BusinessPercentage,
			DeductibleAmount: DeductibleAmount(e),
			PropertyID:       propertyID,
		})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if !rows[i].Date.Equal(rows[j].Date) {
			return rows[i].Date.Before(rows[j].Date)
		}
		return rows[i].Category < rows[j].Category
	})
	return rows, nil
}

// CacheFinancialPeriod computes a rollup for the period and stores it as a
// FinancialPeriod row. Periods are derived data; recomputing replaces the
// cached figures without loss.
func (s *reportingService) CacheFinancialPeriod(ctx context.Context, caller domain.Caller, req dto.CachePeriodRequest) (*domain.FinancialPeriod, error) {
	if !req.PeriodType.Valid() {
		return nil, fmt.Errorf("%w: unknown period type %q", apperrors.ErrValidation, req.PeriodType)
	}

	var propertyIDs []string
	if req.PropertyID != nil {
		propertyIDs = []string{*req.PropertyID}
	}

	summaryReq := dto.FinancialSummaryRequest{PropertyIDs: propertyIDs, From: req.StartDate, To: req.EndDate}
	summary, err := s.FinancialSummary(ctx, caller, summaryReq)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	// The cached row carries all four bucket subtotals; its total is their
	// sum so the stored figures reconcile with themselves.
	totalExpenses := summary.Buckets[domain.BucketOperating].
		Add(summary.Buckets[domain.BucketLabor]).
		Add(summary.Buckets[domain.BucketCOGS]).
		Add(summary.Buckets[domain.BucketCapital])
	period := domain.FinancialPeriod{
		PeriodID:          uuid.NewString(),
		PropertyID:        req.PropertyID,
		PeriodType:        req.PeriodType,
		StartDate:         req.StartDate,
		EndDate:           req.EndDate,
		TotalRevenue:      summary.Revenue,
		OperatingExpenses: summary.Buckets[domain.BucketOperating],
		LaborExpenses:     summary.Buckets[domain.BucketLabor],
		COGSExpenses:      summary.Buckets[domain.BucketCOGS],
		CapitalExpenses:   summary.Buckets[domain.BucketCapital],
		TotalExpenses:     totalExpenses,
		NetIncome:         summary.Revenue.Sub(totalExpenses),
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     caller.UserID,
			LastUpdatedAt: now,
			LastUpdatedBy: caller.UserID,
		},
	}

	if err := s.periodRepo.SaveFinancialPeriod(ctx, period); err != nil {
		s.LogError(ctx, err, "Failed to cache financial period", slog.String("period_type", string(req.PeriodType)))
		return nil, fmt.Errorf("failed to cache financial period: %w", err)
	}
	return &period, nil
}

// GetFinancialPeriod fetches a cached rollup.
func (s *reportingService) GetFinancialPeriod(ctx context.Context, propertyID *string, periodType domain.PeriodType, startDate time.Time) (*domain.FinancialPeriod, error) {
	return s.periodRepo.FindFinancialPeriod(ctx, propertyID, periodType, startDate)
}
