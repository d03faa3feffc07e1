package services

import (
	"context"
	"log/slog"

	portssvc "github.com/gitayam/short-term-land-lord-sub001/internal/core/ports/services"
	"github.com/gitayam/short-term-land-lord-sub001/internal/middleware"
)

// logNotifier emits billing events to the structured log. Delivery to real
// channels (email, SMS, webhooks) is owned by the external notification
// service; this adapter is the default sink when none is wired.
type logNotifier struct{}

// NewLogNotifier creates a notifier that records events in the log.
func NewLogNotifier() portssvc.NotifierSvc {
	return &logNotifier{}
}

var _ portssvc.NotifierSvc = (*logNotifier)(nil)

func (n *logNotifier) Notify(ctx context.Context, event portssvc.BillingEvent) {
	middleware.GetLoggerFromCtx(ctx).Info("Billing event emitted",
		slog.String("event_type", event.Type),
		slog.String("invoice_id", event.InvoiceID),
		slog.String("property_id", event.PropertyID),
		slog.Time("occurred_at", event.OccurredAt),
	)
}
