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

// PgxExpenseRepository persists expense entries.
type PgxExpenseRepository struct {
	BaseRepository
}

func newPgxExpenseRepository(pool *pgxpool.Pool) portsrepo.ExpenseRepositoryFacade {
	return &PgxExpenseRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.ExpenseRepositoryFacade = (*PgxExpenseRepository)(nil)

const expenseColumns = `
	expense_id, category, description, vendor, amount, business_percentage,
	expense_date, status, tax_deductible, property_id, recurring_template,
	created_at, created_by, last_updated_at, last_updated_by`

func scanExpense(row pgx.Row) (*domain.Expense, error) {
	var e domain.Expense
	err := row.Scan(
		&e.ExpenseID,
		&e.Category,
		&e.Description,
		&e.Vendor,
		&e.Amount,
		&e.BusinessPercentage,
		&e.ExpenseDate,
		&e.Status,
		&e.TaxDeductible,
		&e.PropertyID,
		&e.RecurringTemplate,
		&e.CreatedAt,
		&e.CreatedBy,
		&e.LastUpdatedAt,
		&e.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to scan expense", err)
	}
	return &e, nil
}

// SaveExpense inserts a new expense entry.
func (r *PgxExpenseRepository) SaveExpense(ctx context.Context, expense domain.Expense) error {
	query := `
		INSERT INTO expenses (` + expenseColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15);
	`
	_, err := r.Pool.Exec(ctx, query,
		expense.ExpenseID,
		expense.Category,
		expense.Description,
		expense.Vendor,
		expense.Amount,
		expense.BusinessPercentage,
		expense.ExpenseDate,
		expense.Status,
		expense.TaxDeductible,
		expense.PropertyID,
		expense.RecurringTemplate,
		expense.CreatedAt,
		expense.CreatedBy,
		expense.LastUpdatedAt,
		expense.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert expense "+expense.ExpenseID, err)
	}
	return nil
}

// UpdateExpenseStatus moves an expense to the given workflow status.
func (r *PgxExpenseRepository) UpdateExpenseStatus(ctx context.Context, expenseID string, status domain.ExpenseStatus, actor string, now time.Time) error {
	query := `
		UPDATE expenses
		SET status = $2, last_updated_at = $3, last_updated_by = $4
		WHERE expense_id = $1;
	`
	tag, err := r.Pool.Exec(ctx, query, expenseID, status, now, actor)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update expense status for "+expenseID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// FindExpenseByID retrieves an expense by its ID.
func (r *PgxExpenseRepository) FindExpenseByID(ctx context.Context, expenseID string) (*domain.Expense, error) {
	query := `SELECT ` + expenseColumns + ` FROM expenses WHERE expense_id = $1;`
	return scanExpense(r.Pool.QueryRow(ctx, query, expenseID))
}

// ListExpenses lists expenses matching the filter, newest expense date first.
func (r *PgxExpenseRepository) ListExpenses(ctx context.Context, filter portsrepo.ExpenseListFilter) ([]domain.Expense, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	query := `
		SELECT ` + expenseColumns + `
		FROM expenses
		WHERE ($1::text IS NULL OR property_id = $1)
		  AND ($2::text IS NULL OR category = $2)
		  AND ($3::text IS NULL OR status = $3)
		  AND ($4::timestamptz IS NULL OR expense_date >= $4)
		  AND ($5::timestamptz IS NULL OR expense_date <= $5)
		ORDER BY expense_date DESC, expense_id
		LIMIT $6 OFFSET $7;
	`
	rows, err := r.Pool.Query(ctx, query,
		filter.PropertyID, filter.Category, filter.Status, filter.From, filter.To, limit, filter.Offset)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query expenses", err)
	}
	defer rows.Close()

	expenses := []domain.Expense{}
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, err
		}
		expenses = append(expenses, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "failed to iterate expenses", err)
	}
	return expenses, nil
}

// FindPaidExpensesInRange returns PAID expenses dated within the range whose
// property is in propertyIDs or business-wide (NULL property). A nil
// propertyIDs slice matches every property.
func (r *PgxExpenseRepository) FindPaidExpensesInRange(ctx context.Context, propertyIDs []string, from, to time.Time) ([]domain.Expense, error) {
	query := `
		SELECT ` + expenseColumns + `
		FROM expenses
		WHERE status = $1
		  AND expense_date >= $2 AND expense_date <= $3
		  AND ($4::text[] IS NULL OR property_id IS NULL OR property_id = ANY($4))
		ORDER BY expense_date, expense_id;
	`
	rows, err := r.Pool.Query(ctx, query, domain.ExpensePaid, from, to, propertyIDs)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query paid expenses", err)
	}
	defer rows.Close()

	expenses := []domain.Expense{}
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, err
		}
		expenses = append(expenses, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "failed to iterate paid expenses", err)
	}
	return expenses, nil
}
