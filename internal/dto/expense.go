package dto

import (
	"time"

	"github.com/gitayam/short-term-land-lord-sub001/internal/core/domain"
	"github.com/shopspring/decimal"
)

// RecordExpenseRequest is the payload for recording an expense entry.
type RecordExpenseRequest struct {
	Category           domain.ExpenseCategory `json:"category" binding:"required"`
	Description        string                 `json:"description" binding:"required"`
	Vendor             string                 `json:"vendor"`
	Amount             decimal.Decimal        `json:"amount" binding:"required"`
	BusinessPercentage decimal.Decimal        `json:"businessPercentage"`
	ExpenseDate        time.Time              `json:"expenseDate" binding:"required"`
	TaxDeductible      bool                   `json:"taxDeductible"`
	PropertyID         *string                `json:"propertyID"` // nil = business-wide
}

// UpdateExpenseStatusRequest moves an expense through its workflow.
type UpdateExpenseStatusRequest struct {
	Status domain.ExpenseStatus `json:"status" binding:"required"`
}

// ExpenseResponse is the API representation of an expense entry.
type ExpenseResponse struct {
	ExpenseID          string                 `json:"expenseID"`
	Category           domain.ExpenseCategory `json:"category"`
	Bucket             domain.ExpenseBucket   `json:"bucket"`
	Description        string                 `json:"description"`
	Vendor             string                 `json:"vendor"`
	Amount             decimal.Decimal        `json:"amount"`
	BusinessPercentage decimal.Decimal        `json:"businessPercentage"`
	ExpenseDate        time.Time              `json:"expenseDate"`
	Status             domain.ExpenseStatus   `json:"status"`
	TaxDeductible      bool                   `json:"taxDeductible"`
	PropertyID         *string                `json:"propertyID"`
}

// ToExpenseResponse maps a domain expense to its API representation. The
// bucket is resolved here so clients never re-implement the category table.
func ToExpenseResponse(expense domain.Expense) (ExpenseResponse, error) {
	bucket, err := domain.BucketFor(expense.Category)
	if err != nil {
		return ExpenseResponse{}, err
	}
	return ExpenseResponse{
		ExpenseID:          expense.ExpenseID,
		Category:           expense.Category,
		Bucket:             bucket,
		Description:        expense.Description,
		Vendor:             expense.Vendor,
		Amount:             expense.Amount,
		BusinessPercentage: expense.BusinessPercentage,
		ExpenseDate:        expense.ExpenseDate,
		Status:             expense.Status,
		TaxDeductible:      expense.TaxDeductible,
		PropertyID:         expense.PropertyID,
	}, nil
}
