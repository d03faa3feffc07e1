package services

import (
	"context"
	"time"

	"github.com/gitayam/short-term-land-lord-sub001/internal/core/domain"
	"github.com/gitayam/short-term-land-lord-sub001/internal/dto"
)

// ScopeSvcFacade computes a caller's report visibility before any
// aggregation query is built.
type ScopeSvcFacade interface {
	ScopeFor(ctx context.Context, caller domain.Caller) (domain.ReportScope, error)
}

// ReportingSvcFacade aggregates revenue and expenses into financial
// summaries, tax exports and cached period rollups. Aggregation is pure:
// repeated runs over the same inputs yield identical results.
type ReportingSvcFacade interface {
	FinancialSummary(ctx context.Context, caller domain.Caller, req dto.FinancialSummaryRequest) (*domain.FinancialSummary, error)

	// TaxSummary returns flat export rows with the stable column contract.
	TaxSummary(ctx context.Context, caller domain.Caller, from, to time.Time) ([]domain.TaxSummaryRow, error)

	// CacheFinancialPeriod computes a rollup and stores it as a
	// FinancialPeriod row. Safe to recompute at any time.
	CacheFinancialPeriod(ctx context.Context, caller domain.Caller, req dto.CachePeriodRequest) (*domain.FinancialPeriod, error)
	GetFinancialPeriod(ctx context.Context, propertyID *string, periodType domain.PeriodType, startDate time.Time) (*domain.FinancialPeriod, error)
}
