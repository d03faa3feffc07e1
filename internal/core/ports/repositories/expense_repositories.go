package repositories

import (
	"context"
	"time"

	"github.com/gitayam/short-term-land-lord-sub001/internal/core/domain"
)

// ExpenseListFilter narrows ListExpenses results.
type ExpenseListFilter struct {
	PropertyID *string
	Category   *domain.ExpenseCategory
	Status     *domain.ExpenseStatus
	From       *time.Time
	To         *time.Time
	Limit      int
	Offset     int
}

// ExpenseRepositoryFacade defines persistence operations for expense entries.
type ExpenseRepositoryFacade interface {
	SaveExpense(ctx context.Context, expense domain.Expense) error
	UpdateExpenseStatus(ctx context.Context, expenseID string, status domain.ExpenseStatus, actor string, now time.Time) error
	FindExpenseByID(ctx context.Context, expenseID string) (*domain.Expense, error)
	ListExpenses(ctx context.Context, filter ExpenseListFilter) ([]domain.Expense, error)

	// FindPaidExpensesInRange returns PAID expenses dated within the range
	// whose property is in propertyIDs or business-wide. propertyIDs nil
	// means every property. Non-deductible entries are included so cash
	// outflow reflects actual cash, not just the deductible portion.
	FindPaidExpensesInRange(ctx context.Context, propertyIDs []string, from, to time.Time) ([]domain.Expense, error)
}
