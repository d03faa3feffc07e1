package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PeriodType is the interval granularity of a cached financial rollup.
type PeriodType string

const (
	PeriodMonthly   PeriodType = "MONTHLY"
	PeriodQuarterly PeriodType = "QUARTERLY"
	PeriodAnnual    PeriodType = "ANNUAL"
)

// Valid reports whether the period type is a known variant.
func (p PeriodType) Valid() bool {
	switch p {
	case PeriodMonthly, PeriodQuarterly, PeriodAnnual:
		return true
	}
	return false
}

// FinancialPeriod is a cached rollup for one property (or all, when
// PropertyID is nil) over one interval. It is derived data: recomputable at
// any time from invoices, expenses and bookings without loss.
type FinancialPeriod struct {
	PeriodID          string          `json:"periodID"` // Primary key (UUID)
	PropertyID        *string         `json:"propertyID"`
	PeriodType        PeriodType      `json:"periodType"`
	StartDate         time.Time       `json:"startDate"`
	EndDate           time.Time       `json:"endDate"`
	TotalRevenue      decimal.Decimal `json:"totalRevenue"`
	OperatingExpenses decimal.Decimal `json:"operatingExpenses"`
	LaborExpenses     decimal.Decimal `json:"laborExpenses"`
	COGSExpenses      decimal.Decimal `json:"cogsExpenses"`
	CapitalExpenses   decimal.Decimal `json:"capitalExpenses"`
	TotalExpenses     decimal.Decimal `json:"totalExpenses"`
	NetIncome         decimal.Decimal `json:"netIncome"`
	IsClosed          bool            `json:"isClosed"`
	AuditFields
}

// FinancialSummary is the result of running the aggregator over a property
// set and date range. All figures are on a paid/received basis.
type FinancialSummary struct {
	Revenue        decimal.Decimal                   `json:"revenue"`
	BookingRevenue decimal.Decimal                   `json:"bookingRevenue"`
	InvoiceRevenue decimal.Decimal                   `json:"invoiceRevenue"`
	Buckets        map[ExpenseBucket]decimal.Decimal `json:"buckets"`
	TotalExpenses  decimal.Decimal                   `json:"totalExpenses"` // Excludes capital
	GrossProfit    decimal.Decimal                   `json:"grossProfit"`
	NetIncome      decimal.Decimal                   `json:"netIncome"`
	ProfitMargin   decimal.Decimal                   `json:"profitMargin"` // Fraction; 0 when revenue is 0
	CashInflow     decimal.Decimal                   `json:"cashInflow"`
	CashOutflow    decimal.Decimal                   `json:"cashOutflow"`
	NetCashFlow    decimal.Decimal                   `json:"netCashFlow"`
	PerProperty    []PropertyFinancials              `json:"perProperty,omitempty"`
	Skipped        []SkippedRecord                   `json:"skipped,omitempty"`
}

// PropertyFinancials is the per-property breakdown row of a summary,
// sorted by net income descending.
type PropertyFinancials struct {
	PropertyID    string          `json:"propertyID"`
	Revenue       decimal.Decimal `json:"revenue"`
	TotalExpenses decimal.Decimal `json:"totalExpenses"`
	NetIncome     decimal.Decimal `json:"netIncome"`
	ProfitMargin  decimal.Decimal `json:"profitMargin"`
}

// SkippedRecord reports a single record excluded from a best-effort batch,
// with the reason it could not be processed.
type SkippedRecord struct {
	RecordID string `json:"recordID"`
	Reason   string `json:"reason"`
}

// TaxSummaryRow is one flat export row of the tax report. Column order and
// headers are part of the external CSV contract and must stay stable.
type TaxSummaryRow struct {
	Date             time.Time       `json:"date"`
	Category         ExpenseCategory `json:"category"`
	Description      string          `json:"description"`
	Vendor           string          `json:"vendor"`
	Amount           decimal.Decimal `json:"amount"`
	BusinessPct      decimal.Decimal `json:"businessPct"`
	DeductibleAmount decimal.Decimal `json:"deductibleAmount"`
	PropertyID       string          `json:"propertyID"` // Empty for business-wide
}
