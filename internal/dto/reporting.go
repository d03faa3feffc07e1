package dto

import (
	"time"

	"github.com/gitayam/short-term-land-lord-sub001/internal/core/domain"
	"github.com/shopspring/decimal"
)

// FinancialSummaryRequest selects the scope of an aggregation run. An empty
// PropertyIDs slice means everything visible to the caller.
type FinancialSummaryRequest struct {
	PropertyIDs []string  `json:"propertyIDs"`
	From        time.Time `json:"from" binding:"required"`
	To          time.Time `json:"to" binding:"required"`
}

// CachePeriodRequest asks for a rollup to be computed and cached.
type CachePeriodRequest struct {
	PropertyID *string           `json:"propertyID"` // nil = all properties
	PeriodType domain.PeriodType `json:"periodType" binding:"required"`
	StartDate  time.Time         `json:"startDate" binding:"required"`
	EndDate    time.Time         `json:"endDate" binding:"required"`
}

// BucketAmounts is the four-bucket expense breakdown of a summary.
type BucketAmounts struct {
	Operating decimal.Decimal `json:"operating"`
	Labor     decimal.Decimal `json:"labor"`
	COGS      decimal.Decimal `json:"costOfGoodsSold"`
	Capital   decimal.Decimal `json:"capital"`
}

// FinancialSummaryResponse is the API representation of an aggregation run.
type FinancialSummaryResponse struct {
	From           time.Time                    `json:"from"`
	To             time.Time                    `json:"to"`
	Revenue        decimal.Decimal              `json:"revenue"`
	BookingRevenue decimal.Decimal              `json:"bookingRevenue"`
	InvoiceRevenue decimal.Decimal              `json:"invoiceRevenue"`
	Expenses       BucketAmounts                `json:"expenses"`
	TotalExpenses  decimal.Decimal              `json:"totalExpenses"`
	GrossProfit    decimal.Decimal              `json:"grossProfit"`
	NetIncome      decimal.Decimal              `json:"netIncome"`
	ProfitMargin   decimal.Decimal              `json:"profitMargin"`
	CashInflow     decimal.Decimal              `json:"cashInflow"`
	CashOutflow    decimal.Decimal              `json:"cashOutflow"`
	NetCashFlow    decimal.Decimal              `json:"netCashFlow"`
	PerProperty    []domain.PropertyFinancials  `json:"perProperty,omitempty"`
	Skipped        []SkippedRecordResponse      `json:"skipped,omitempty"`
}

// TaxSummaryColumns is the stable CSV header row of the tax export. Order is
// part of the external contract.
var TaxSummaryColumns = []string{
	"date", "category", "description", "vendor",
	"amount", "business_pct", "deductible_amount", "property",
}

// ToTaxSummaryRecord flattens one tax row into CSV fields in column order.
func ToTaxSummaryRecord(row domain.TaxSummaryRow) []string {
	return []string{
		row.Date.Format("2006-01-02"),
		string(row.Category),
		row.Description,
		row.Vendor,
		row.Amount.StringFixed(2),
		row.BusinessPct.StringFixed(2),
		row.DeductibleAmount.StringFixed(2),
		row.PropertyID,
	}
}

// ToFinancialSummaryResponse maps an aggregation result to its API form.
func ToFinancialSummaryResponse(summary domain.FinancialSummary, from, to time.Time) FinancialSummaryResponse {
	return FinancialSummaryResponse{
		From:           from,
		To:             to,
		Revenue:        summary.Revenue,
		BookingRevenue: summary.BookingRevenue,
		InvoiceRevenue: summary.InvoiceRevenue,
		Expenses: BucketAmounts{
			Operating: summary.Buckets[domain.BucketOperating],
			Labor:     summary.Buckets[domain.BucketLabor],
			COGS:      summary.Buckets[domain.BucketCOGS],
			Capital:   summary.Buckets[domain.BucketCapital],
		},
		TotalExpenses: summary.TotalExpenses,
		GrossProfit:   summary.GrossProfit,
		NetIncome:     summary.NetIncome,
		ProfitMargin:  summary.ProfitMargin,
		CashInflow:    summary.CashInflow,
		CashOutflow:   summary.CashOutflow,
		NetCashFlow:   summary.NetCashFlow,
		PerProperty:   summary.PerProperty,
		Skipped:       ToSkippedRecordResponses(summary.Skipped),
	}
}
