package services

import (
	"context"

	"github.com/gitayam/short-term-land-lord-sub001/internal/core/domain"
	portsrepo "github.com/gitayam/short-term-land-lord-sub001/internal/core/ports/repositories"
	"github.com/gitayam/short-term-land-lord-sub001/internal/dto"
)

// ExpenseSvcFacade records expense entries and moves them through their
// workflow. PAID entries become read-only inputs to aggregation.
type ExpenseSvcFacade interface {
	RecordExpense(ctx context.Context, req dto.RecordExpenseRequest, creatorUserID string) (*domain.Expense, error)
	UpdateExpenseStatus(ctx context.Context, expenseID string, status domain.ExpenseStatus, actorUserID string) (*domain.Expense, error)
	GetExpense(ctx context.Context, expenseID string) (*domain.Expense, error)
	ListExpenses(ctx context.Context, filter portsrepo.ExpenseListFilter) ([]domain.Expense, error)
}
