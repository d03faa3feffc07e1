package pgsql

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gitayam/short-term-land-lord-sub001/internal/apperrors"
	"github.com/gitayam/short-term-land-lord-sub001/internal/core/domain"
	portsrepo "github.com/gitayam/short-term-land-lord-sub001/internal/core/ports/repositories"
)

// PgxFinancialPeriodRepository persists cached financial rollups. One row per
// (property, period type, start date); recomputation overwrites in place.
type PgxFinancialPeriodRepository struct {
	BaseRepository
}

func newPgxFinancialPeriodRepository(pool *pgxpool.Pool) portsrepo.FinancialPeriodRepositoryFacade {
	return &PgxFinancialPeriodRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.FinancialPeriodRepositoryFacade = (*PgxFinancialPeriodRepository)(nil)

const financialPeriodColumns = `
	period_id, property_id, period_type, start_date, end_date,
	total_revenue, operating_expenses, labor_expenses, cogs_expenses,
	capital_expenses, total_expenses, net_income, is_closed,
	created_at, created_by, last_updated_at, last_updated_by`

// SaveFinancialPeriod upserts a rollup keyed by (property, period type,
// start date). The COALESCE sentinel in the conflict target matches the
// partial unique indexes that treat NULL property as its own key.
func (r *PgxFinancialPeriodRepository) SaveFinancialPeriod(ctx context.Context, period domain.FinancialPeriod) error {
	query := `
		INSERT INTO financial_periods (` + financialPeriodColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		ON CONFLICT (COALESCE(property_id, ''), period_type, start_date)
		DO UPDATE SET
			end_date = EXCLUDED.end_date,
			total_revenue = EXCLUDED.total_revenue,
			operating_expenses = EXCLUDED.operating_expenses,
			labor_expenses = EXCLUDED.labor_expenses,
			cogs_expenses = EXCLUDED.cogs_expenses,
			capital_expenses = EXCLUDED.capital_expenses,
			total_expenses = EXCLUDED.total_expenses,
			net_income = EXCLUDED.net_income,
			is_closed = EXCLUDED.is_closed,
			last_updated_at = EXCLUDED.last_updated_at,
			last_updated_by = EXCLUDED.last_updated_by;
	`
	_, err := r.Pool.Exec(ctx, query,
		period.PeriodID,
		period.PropertyID,
		period.PeriodType,
		period.StartDate,
		period.EndDate,
		period.TotalRevenue,
		period.OperatingExpenses,
		period.LaborExpenses,
		period.COGSExpenses,
		period.CapitalExpenses,
		period.TotalExpenses,
		period.NetIncome,
		period.IsClosed,
		period.CreatedAt,
		period.CreatedBy,
		period.LastUpdatedAt,
		period.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to upsert financial period "+period.PeriodID, err)
	}
	return nil
}

// FindFinancialPeriod retrieves a cached rollup; nil propertyID selects the
// all-properties row.
func (r *PgxFinancialPeriodRepository) FindFinancialPeriod(ctx context.Context, propertyID *string, periodType domain.PeriodType, startDate time.Time) (*domain.FinancialPeriod, error) {
	query := `
		SELECT ` + financialPeriodColumns + `
		FROM financial_periods
		WHERE property_id IS NOT DISTINCT FROM $1
		  AND period_type = $2
		  AND start_date = $3;
	`
	var p domain.FinancialPeriod
	err := r.Pool.QueryRow(ctx, query, propertyID, periodType, startDate).Scan(
		&p.PeriodID,
		&p.PropertyID,
		&p.PeriodType,
		&p.StartDate,
		&p.EndDate,
		&p.TotalRevenue,
		&p.OperatingExpenses,
		&p.LaborExpenses,
		&p.COGSExpenses,
		&p.CapitalExpenses,
		&p.TotalExpenses,
		&p.NetIncome,
		&p.IsClosed,
		&p.CreatedAt,
		&p.CreatedBy,
		&p.LastUpdatedAt,
		&p.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to scan financial period", err)
	}
	return &p, nil
}
