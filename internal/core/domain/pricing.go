package domain

import "github.com/shopspring/decimal"

// PricingModel selects how a price rule converts work into a charge.
type PricingModel string

const (
	PricingFixed  PricingModel = "FIXED"
	PricingHourly PricingModel = "HOURLY"
	// PricingBundle is reserved for future multi-item pricing. Rules may be
	// stored with it but the calculator rejects it rather than charging zero.
	PricingBundle PricingModel = "BUNDLE"
)

// Valid reports whether the pricing model is a known variant.
func (m PricingModel) Valid() bool {
	switch m {
	case PricingFixed, PricingHourly, PricingBundle:
		return true
	}
	return false
}

// ServiceType classifies a billable unit of work.
type ServiceType string

const (
	ServiceCleaning    ServiceType = "CLEANING"
	ServiceMaintenance ServiceType = "MAINTENANCE"
	ServiceRepair      ServiceType = "REPAIR"
	ServiceInspection  ServiceType = "INSPECTION"
	ServiceLandscaping ServiceType = "LANDSCAPING"
	ServiceOther       ServiceType = "OTHER"
)

// Valid reports whether the service type is a known variant.
func (s ServiceType) Valid() bool {
	switch s {
	case ServiceCleaning, ServiceMaintenance, ServiceRepair, ServiceInspection, ServiceLandscaping, ServiceOther:
		return true
	}
	return false
}

// PriceRule is a configured price for a service type, optionally scoped to a
// single property. A nil PropertyID makes the rule global. At most one rule
// may exist per (service type, property) pair; the property-scoped rule wins
// over the global one at resolution time.
type PriceRule struct {
	RuleID       string          `json:"ruleID"` // Primary key (UUID)
	ServiceType  ServiceType     `json:"serviceType"`
	PricingModel PricingModel    `json:"pricingModel"`
	FixedPrice   decimal.Decimal `json:"fixedPrice"`          // Meaningful when PricingModel == FIXED
	HourlyRate   decimal.Decimal `json:"hourlyRate"`          // Meaningful when PricingModel == HOURLY
	PropertyID   *string         `json:"propertyID"`          // nil = global rule
	Description  string          `json:"description"`         // Nullable user description
	IsActive     bool            `json:"isActive"`
	AuditFields
}

// IsGlobal reports whether the rule applies to every property.
func (r PriceRule) IsGlobal() bool {
	return r.PropertyID == nil
}
