package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceStatus is the lifecycle state of an invoice.
type InvoiceStatus string

const (
	InvoiceDraft     InvoiceStatus = "DRAFT"
	InvoiceSent      InvoiceStatus = "SENT"
	InvoicePaid      InvoiceStatus = "PAID"
	InvoiceOverdue   InvoiceStatus = "OVERDUE"
	InvoiceCancelled InvoiceStatus = "CANCELLED"
)

// Valid reports whether the status is a known variant.
func (s InvoiceStatus) Valid() bool {
	switch s {
	case InvoiceDraft, InvoiceSent, InvoicePaid, InvoiceOverdue, InvoiceCancelled:
		return true
	}
	return false
}

// invoiceTransitions is the closed transition table of the invoice state
// machine. PAID and CANCELLED are terminal; no transition may be skipped
// (DRAFT cannot jump straight to PAID because "sent" is an auditable event).
var invoiceTransitions = map[InvoiceStatus][]InvoiceStatus{
	InvoiceDraft:     {InvoiceSent, InvoiceCancelled},
	InvoiceSent:      {InvoicePaid, InvoiceOverdue, InvoiceCancelled},
	InvoiceOverdue:   {InvoicePaid},
	InvoicePaid:      {},
	InvoiceCancelled: {},
}

// CanTransition reports whether moving from one status to another is allowed.
func CanTransition(from, to InvoiceStatus) bool {
	for _, next := range invoiceTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Invoice is a billable statement for one property over a date range.
// Totals are always derived from the items; caller-supplied totals are never
// trusted.
type Invoice struct {
	InvoiceID     string          `json:"invoiceID"`     // Primary key (UUID)
	InvoiceNumber string          `json:"invoiceNumber"` // Unique, user-facing: INV-YYYYMMDD-NNNN
	PropertyID    string          `json:"propertyID"`
	DateFrom      time.Time       `json:"dateFrom"`
	DateTo        time.Time       `json:"dateTo"`
	Status        InvoiceStatus   `json:"status"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	TaxRate       decimal.Decimal `json:"taxRate"` // Percent, e.g. 8 means 8%
	TaxAmount     decimal.Decimal `json:"taxAmount"`
	Total         decimal.Decimal `json:"total"`
	DueDate       time.Time       `json:"dueDate"`
	PaidDate      *time.Time      `json:"paidDate,omitempty"`
	SentAt        *time.Time      `json:"sentAt,omitempty"`
	Version       int64           `json:"version"` // Optimistic concurrency check
	AuditFields
}

// Editable reports whether item mutation is still allowed.
func (i Invoice) Editable() bool {
	return i.Status == InvoiceDraft
}

// Deletable reports whether the invoice may be removed outright.
func (i Invoice) Deletable() bool {
	return i.Status == InvoiceDraft || i.Status == InvoiceCancelled
}

// InvoiceItem is one charged unit of work on an invoice.
// Amount is always Quantity x UnitPrice.
type InvoiceItem struct {
	ItemID      string          `json:"itemID"`    // Primary key (UUID)
	InvoiceID   string          `json:"invoiceID"` // FK -> Invoice
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	Amount      decimal.Decimal `json:"amount"`
	ServiceType *ServiceType    `json:"serviceType,omitempty"`
	WorkUnitID  *string         `json:"workUnitID,omitempty"` // Source task/session, nil for manual items
	AuditFields
}
