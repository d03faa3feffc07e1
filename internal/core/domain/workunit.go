package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// WorkUnit is a completed task or cleaning session eligible for billing.
// The billing engine only reads these from the work-unit provider; the single
// field it writes back is the invoiced marker.
type WorkUnit struct {
	WorkUnitID      string      `json:"workUnitID"`
	PropertyID      string      `json:"propertyID"`
	ServiceType     ServiceType `json:"serviceType"`
	Description     string      `json:"description"`
	DurationMinutes *int        `json:"durationMinutes,omitempty"` // Absent for fixed-price work
	CompletedAt     time.Time   `json:"completedAt"`
	WorkerID        string      `json:"workerID"`
	Invoiced        bool        `json:"invoiced"`
}

// Booking is a confirmed stay from the booking provider. Read-only revenue
// input to aggregation.
type Booking struct {
	BookingID  string          `json:"bookingID"`
	PropertyID string          `json:"propertyID"`
	StartDate  time.Time       `json:"startDate"`
	EndDate    time.Time       `json:"endDate"`
	Amount     decimal.Decimal `json:"amount"`
}
