package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gitayam/short-term-land-lord-sub001/internal/core/services"
)

// NewRepositoryProvider builds the full pgx-backed repository set on a shared
// connection pool.
func NewRepositoryProvider(pool *pgxpool.Pool) services.RepositoryProvider {
	return services.RepositoryProvider{
		PriceRules:       newPgxPriceRuleRepository(pool),
		Invoices:         newPgxInvoiceRepository(pool),
		Expenses:         newPgxExpenseRepository(pool),
		WorkUnits:        newPgxWorkUnitRepository(pool),
		Bookings:         newPgxBookingRepository(pool),
		FinancialPeriods: newPgxFinancialPeriodRepository(pool),
		Scope:            newPgxScopeRepository(pool),
	}
}
