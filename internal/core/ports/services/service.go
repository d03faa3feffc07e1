package services

import (
	"context"
	"time"
)

// BillingEvent is an event emitted by the billing engine. Delivery channel
// and format are owned by the external notification service.
type BillingEvent struct {
	Type       string    `json:"type"` // e.g. invoice.sent, invoice.overdue
	InvoiceID  string    `json:"invoiceID"`
	PropertyID string    `json:"propertyID"`
	OccurredAt time.Time `json:"occurredAt"`
}

// NotifierSvc is the outbound port to the notification service. Emission
// failures must never fail the business operation that produced the event.
type NotifierSvc interface {
	Notify(ctx context.Context, event BillingEvent)
}

// ServiceContainer holds all service facades for dependency injection into
// handlers and the scheduler.
type ServiceContainer struct {
	Pricing   PricingSvcFacade
	Invoice   InvoiceSvcFacade
	Expense   ExpenseSvcFacade
	Reporting ReportingSvcFacade
	Scope     ScopeSvcFacade
}
