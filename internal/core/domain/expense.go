package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// ExpenseStatus is the workflow state of an expense entry. Only PAID expenses
// feed financial aggregation.
type ExpenseStatus string

const (
	ExpenseDraft     ExpenseStatus = "DRAFT"
	ExpenseSubmitted ExpenseStatus = "SUBMITTED"
	ExpenseApproved  ExpenseStatus = "APPROVED"
	ExpensePaid      ExpenseStatus = "PAID"
	ExpenseDisputed  ExpenseStatus = "DISPUTED"
)

// Valid reports whether the status is a known variant.
func (s ExpenseStatus) Valid() bool {
	switch s {
	case ExpenseDraft, ExpenseSubmitted, ExpenseApproved, ExpensePaid, ExpenseDisputed:
		return true
	}
	return false
}

// ExpenseCategory is the closed set of raw expense categories.
type ExpenseCategory string

const (
	CategoryUtilities            ExpenseCategory = "UTILITIES"
	CategoryInsurance            ExpenseCategory = "INSURANCE"
	CategoryPropertyTax          ExpenseCategory = "PROPERTY_TAX"
	CategoryRepairs              ExpenseCategory = "REPAIRS"
	CategorySupplies             ExpenseCategory = "SUPPLIES"
	CategoryProfessionalServices ExpenseCategory = "PROFESSIONAL_SERVICES"
	CategoryMarketing            ExpenseCategory = "MARKETING"
	CategoryTravel               ExpenseCategory = "TRAVEL"
	CategoryDepreciation         ExpenseCategory = "DEPRECIATION"
	CategoryContractorPayments   ExpenseCategory = "CONTRACTOR_PAYMENTS"
	CategoryEmployeeWages        ExpenseCategory = "EMPLOYEE_WAGES"
	CategoryAmenities            ExpenseCategory = "AMENITIES"
	CategoryLinens               ExpenseCategory = "LINENS"
	CategoryFurnitureReplacement ExpenseCategory = "FURNITURE_REPLACEMENT"
	CategoryImprovements         ExpenseCategory = "IMPROVEMENTS"
	CategoryEquipment            ExpenseCategory = "EQUIPMENT"
)

// ExpenseBucket is a reporting bucket expenses roll up into.
type ExpenseBucket string

const (
	BucketOperating ExpenseBucket = "OPERATING"
	BucketLabor     ExpenseBucket = "LABOR"
	BucketCOGS      ExpenseBucket = "COST_OF_GOODS_SOLD"
	BucketCapital   ExpenseBucket = "CAPITAL"
)

// categoryBuckets is the fixed mapping from raw category to reporting bucket.
// A category absent from this table is a configuration error, never a silent
// drop from the totals.
var categoryBuckets = map[ExpenseCategory]ExpenseBucket{
	CategoryUtilities:            BucketOperating,
	CategoryInsurance:            BucketOperating,
	CategoryPropertyTax:          BucketOperating,
	CategoryRepairs:              BucketOperating,
	CategorySupplies:             BucketOperating,
	CategoryProfessionalServices: BucketOperating,
	CategoryMarketing:            BucketOperating,
	CategoryTravel:               BucketOperating,
	CategoryDepreciation:         BucketOperating,
	CategoryContractorPayments:   BucketLabor,
	CategoryEmployeeWages:        BucketLabor,
	CategoryAmenities:            BucketCOGS,
	CategoryLinens:               BucketCOGS,
	CategoryFurnitureReplacement: BucketCOGS,
	CategoryImprovements:         BucketCapital,
	CategoryEquipment:            BucketCapital,
}

// BucketFor maps an expense category to its reporting bucket.
func BucketFor(category ExpenseCategory) (ExpenseBucket, error) {
	bucket, ok := categoryBuckets[category]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownExpenseCategory, category)
	}
	return bucket, nil
}

// Valid reports whether the category appears in the bucket table.
func (c ExpenseCategory) Valid() bool {
	_, ok := categoryBuckets[c]
	return ok
}

// Expense is a one-time or recurring cost entry. A nil PropertyID marks a
// business-wide expense which is included in every property scope.
type Expense struct {
	ExpenseID          string          `json:"expenseID"` // Primary key (UUID)
	Category           ExpenseCategory `json:"category"`
	Description        string          `json:"description"`
	Vendor             string          `json:"vendor"`
	Amount             decimal.Decimal `json:"amount"`
	BusinessPercentage decimal.Decimal `json:"businessPercentage"` // 0-100
	ExpenseDate        time.Time       `json:"expenseDate"`
	Status             ExpenseStatus   `json:"status"`
	TaxDeductible      bool            `json:"taxDeductible"`
	PropertyID         *string         `json:"propertyID"` // nil = business-wide
	RecurringTemplate  *string         `json:"recurringTemplate,omitempty"`
	AuditFields
}
