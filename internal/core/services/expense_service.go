package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/gitayam/short-term-land-lord-sub001/internal/apperrors"
	"github.com/gitayam/short-term-land-lord-sub001/internal/core/domain"
	portsrepo "github.com/gitayam/short-term-land-lord-sub001/internal/core/ports/repositories"
	portssvc "github.com/gitayam/short-term-land-lord-sub001/internal/core/ports/services"
	"github.com/gitayam/short-term-land-lord-sub001/internal/dto"
)

// expenseService records expense entries and moves them through their
// workflow.
type expenseService struct {
	BaseService
	expenseRepo portsrepo.ExpenseRepositoryFacade
}

// NewExpenseService creates a new ExpenseService.
func NewExpenseService(expenseRepo portsrepo.ExpenseRepositoryFacade) portssvc.ExpenseSvcFacade {
	return &expenseService{expenseRepo: expenseRepo}
}

var _ portssvc.ExpenseSvcFacade = (*expenseService)(nil)

// RecordExpense validates and persists a new expense entry in DRAFT status.
// The category must appear in the bucket table: an unmapped category fails
// loudly here rather than vanishing from report totals later.
func (s *expenseService) RecordExpense(ctx context.Context, req dto.RecordExpenseRequest, creatorUserID string) (*domain.Expense, error) {
	if _, err := domain.BucketFor(req.Category); err != nil {
		return nil, err
	}
	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: amount must be positive", apperrors.ErrValidation)
	}
	hundred := decimal.NewFromInt(100)
	if req.BusinessPercentage.IsNegative() || req.BusinessPercentage.GreaterThan(hundred) {
		return nil, fmt.Errorf("%w: business percentage must be between 0 and 100", apperrors.ErrValidation)
	}

	now := time.Now().UTC()
	expense := domain.Expense{
		ExpenseID:          uuid.NewString(),
		Category:           req.Category,
		Description:        req.Description,
		Vendor:             req.Vendor,
		Amount:             req.Amount,
		BusinessPercentage: req.BusinessPercentage,
		ExpenseDate:        req.ExpenseDate,
		Status:             domain.ExpenseDraft,
		TaxDeductible:      req.TaxDeductible,
		PropertyID:         req.PropertyID,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.expenseRepo.SaveExpense(ctx, expense); err != nil {
		s.LogError(ctx, err, "Failed to save expense", slog.String("category", string(req.Category)))
		return nil, fmt.Errorf("failed to save expense: %w", err)
	}

	s.LogInfo(ctx, "Expense recorded",
		slog.String("expense_id", expense.ExpenseID),
		slog.String("category", string(expense.Category)),
		slog.String("amount", expense.Amount.String()))
	return &expense, nil
}

// UpdateExpenseStatus moves an expense to a new workflow status.
func (s *expenseService) UpdateExpenseStatus(ctx context.Context, expenseID string, status domain.ExpenseStatus, actorUserID string) (*domain.Expense, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: unknown expense status %q", apperrors.ErrValidation, status)
	}

	if err := s.expenseRepo.UpdateExpenseStatus(ctx, expenseID, status, actorUserID, time.Now().UTC()); err != nil {
		return nil, err
	}
	return s.expenseRepo.FindExpenseByID(ctx, expenseID)
}

// GetExpense fetches an expense by ID.
func (s *expenseService) GetExpense(ctx context.Context, expenseID string) (*domain.Expense, error) {
	return s.expenseRepo.FindExpenseByID(ctx, expenseID)
}

// ListExpenses lists expenses matching the filter.
func (s *expenseService) ListExpenses(ctx context.Context, filter portsrepo.ExpenseListFilter) ([]domain.Expense, error) {
	return s.expenseRepo.ListExpenses(ctx, filter)
}
