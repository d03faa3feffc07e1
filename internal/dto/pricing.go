package dto

import (
	"github.com/gitayam/short-term-land-lord-sub001/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreatePriceRuleRequest is the payload for creating a price rule.
// Exactly one of FixedPrice/HourlyRate is meaningful, selected by the model.
type CreatePriceRuleRequest struct {
	ServiceType  domain.ServiceType  `json:"serviceType" binding:"required"`
	PricingModel domain.PricingModel `json:"pricingModel" binding:"required"`
	FixedPrice   decimal.Decimal     `json:"fixedPrice"`
	HourlyRate   decimal.Decimal     `json:"hourlyRate"`
	PropertyID   *string             `json:"propertyID"` // nil = global rule
	Description  string              `json:"description"`
}

// UpdatePriceRuleRequest is the payload for updating a price rule. Nil fields
// are left unchanged.
type UpdatePriceRuleRequest struct {
	PricingModel *domain.PricingModel `json:"pricingModel"`
	FixedPrice   *decimal.Decimal     `json:"fixedPrice"`
	HourlyRate   *decimal.Decimal     `json:"hourlyRate"`
	Description  *string              `json:"description"`
	IsActive     *bool                `json:"isActive"`
}

// PriceRuleResponse is the API representation of a price rule.
type PriceRuleResponse struct {
	RuleID       string              `json:"ruleID"`
	ServiceType  domain.ServiceType  `json:"serviceType"`
	PricingModel domain.PricingModel `json:"pricingModel"`
	FixedPrice   decimal.Decimal     `json:"fixedPrice"`
	HourlyRate   decimal.Decimal     `json:"hourlyRate"`
	PropertyID   *string             `json:"propertyID"`
	Description  string              `json:"description"`
	IsActive     bool                `json:"isActive"`
}

// ToPriceRuleResponse maps a domain rule to its API representation.
func ToPriceRuleResponse(rule domain.PriceRule) PriceRuleResponse {
	return PriceRuleResponse{
		RuleID:       rule.RuleID,
		ServiceType:  rule.ServiceType,
		PricingModel: rule.PricingModel,
		FixedPrice:   rule.FixedPrice,
		HourlyRate:   rule.HourlyRate,
		PropertyID:   rule.PropertyID,
		Description:  rule.Description,
		IsActive:     rule.IsActive,
	}
}

// ToPriceRuleResponses maps a slice of domain rules.
func ToPriceRuleResponses(rules []domain.PriceRule) []PriceRuleResponse {
	out := make([]PriceRuleResponse, len(rules))
	for i, r := range rules {
		out[i] = ToPriceRuleResponse(r)
	}
	return out
}
