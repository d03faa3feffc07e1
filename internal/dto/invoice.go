package dto

import (
	"time"

	"github.com/gitayam/short-term-land-lord-sub001/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateInvoiceRequest is the payload for creating a draft invoice.
type CreateInvoiceRequest struct {
	PropertyID string          `json:"propertyID" binding:"required"`
	DateFrom   time.Time       `json:"dateFrom" binding:"required"`
	DateTo     time.Time       `json:"dateTo" binding:"required"`
	TaxRate    decimal.Decimal `json:"taxRate"` // Percent, e.g. 8 means 8%
	DueDate    *time.Time      `json:"dueDate"` // Defaults to 30 days after creation
}

// AddInvoiceItemRequest is the payload for appending a manual line item.
type AddInvoiceItemRequest struct {
	Description string              `json:"description" binding:"required"`
	Quantity    decimal.Decimal     `json:"quantity" binding:"required"`
	UnitPrice   decimal.Decimal     `json:"unitPrice" binding:"required"`
	ServiceType *domain.ServiceType `json:"serviceType"`
	WorkUnitID  *string             `json:"workUnitID"`
}

// AddWorkUnitRequest is the payload for pricing and adding a work unit.
type AddWorkUnitRequest struct {
	WorkUnitID string `json:"workUnitID" binding:"required"`
}

// GenerateInvoiceRequest is the payload for the bulk draft generator.
type GenerateInvoiceRequest struct {
	PropertyID string          `json:"propertyID" binding:"required"`
	DateFrom   time.Time       `json:"dateFrom" binding:"required"`
	DateTo     time.Time       `json:"dateTo" binding:"required"`
	TaxRate    decimal.Decimal `json:"taxRate"`
	DueDate    *time.Time      `json:"dueDate"`
}

// MarkPaidRequest records the payment date for an invoice.
type MarkPaidRequest struct {
	PaymentDate time.Time `json:"paymentDate" binding:"required"`
}

// InvoiceItemResponse is the API representation of an invoice line item.
type InvoiceItemResponse struct {
	ItemID      string              `json:"itemID"`
	Description string              `json:"description"`
	Quantity    decimal.Decimal     `json:"quantity"`
	UnitPrice   decimal.Decimal     `json:"unitPrice"`
	Amount      decimal.Decimal     `json:"amount"`
	ServiceType *domain.ServiceType `json:"serviceType,omitempty"`
	WorkUnitID  *string             `json:"workUnitID,omitempty"`
}

// InvoiceResponse is the API representation of an invoice.
type InvoiceResponse struct {
	InvoiceID     string                `json:"invoiceID"`
	InvoiceNumber string                `json:"invoiceNumber"`
	PropertyID    string                `json:"propertyID"`
	DateFrom      time.Time             `json:"dateFrom"`
	DateTo        time.Time             `json:"dateTo"`
	Status        domain.InvoiceStatus  `json:"status"`
	Subtotal      decimal.Decimal       `json:"subtotal"`
	TaxRate       decimal.Decimal       `json:"taxRate"`
	TaxAmount     decimal.Decimal       `json:"taxAmount"`
	Total         decimal.Decimal       `json:"total"`
	DueDate       time.Time             `json:"dueDate"`
	PaidDate      *time.Time            `json:"paidDate,omitempty"`
	SentAt        *time.Time            `json:"sentAt,omitempty"`
	Items         []InvoiceItemResponse `json:"items,omitempty"`
}

// SkippedRecordResponse reports a record excluded from a best-effort batch.
type SkippedRecordResponse struct {
	RecordID string `json:"recordID"`
	Reason   string `json:"reason"`
}

// GenerateInvoiceResponse carries the generated draft plus the work units
// that could not be priced, so a partially priceable batch is still usable.
type GenerateInvoiceResponse struct {
	Invoice InvoiceResponse         `json:"invoice"`
	Skipped []SkippedRecordResponse `json:"skipped"`
}

// ToInvoiceItemResponse maps a domain item to its API representation.
func ToInvoiceItemResponse(item domain.InvoiceItem) InvoiceItemResponse {
	return InvoiceItemResponse{
		ItemID:      item.ItemID,
		Description: item.Description,
		Quantity:    item.Quantity,
		UnitPrice:   item.UnitPrice,
		Amount:      item.Amount,
		ServiceType: item.ServiceType,
		WorkUnitID:  item.WorkUnitID,
	}
}

// ToInvoiceResponse maps a domain invoice and its items.
func ToInvoiceResponse(invoice domain.Invoice, items []domain.InvoiceItem) InvoiceResponse {
	resp := InvoiceResponse{
		InvoiceID:     invoice.InvoiceID,
		InvoiceNumber: invoice.InvoiceNumber,
		PropertyID:    invoice.PropertyID,
		DateFrom:      invoice.DateFrom,
		DateTo:        invoice.DateTo,
		Status:        invoice.Status,
		Subtotal:      invoice.Subtotal,
		TaxRate:       invoice.TaxRate,
		TaxAmount:     invoice.TaxAmount,
		Total:         invoice.Total,
		DueDate:       invoice.DueDate,
		PaidDate:      invoice.PaidDate,
		SentAt:        invoice.SentAt,
	}
	for _, item := range items {
		resp.Items = append(resp.Items, ToInvoiceItemResponse(item))
	}
	return resp
}

// ToSkippedRecordResponses maps skip reports from a best-effort batch.
func ToSkippedRecordResponses(skipped []domain.SkippedRecord) []SkippedRecordResponse {
	out := make([]SkippedRecordResponse, len(skipped))
	for i, s := range skipped {
		out[i] = SkippedRecordResponse{RecordID: s.RecordID, Reason: s.Reason}
	}
	return out
}
