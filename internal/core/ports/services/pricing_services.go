package services

import (
	"context"

	"github.com/gitayam/short-term-land-lord-sub001/internal/core/domain"
	"github.com/gitayam/short-term-land-lord-sub001/internal/dto"
	"github.com/shopspring/decimal"
)

// PricingSvcFacade resolves and calculates prices and manages price rules.
type PricingSvcFacade interface {
	CreatePriceRule(ctx context.Context, req dto.CreatePriceRuleRequest, creatorUserID string) (*domain.PriceRule, error)
	UpdatePriceRule(ctx context.Context, ruleID string, req dto.UpdatePriceRuleRequest, updaterUserID string) (*domain.PriceRule, error)
	DeletePriceRule(ctx context.Context, ruleID string, deleterUserID string) error
	GetPriceRule(ctx context.Context, ruleID string) (*domain.PriceRule, error)
	ListPriceRules(ctx context.Context, propertyID *string) ([]domain.PriceRule, error)

	// ResolvePrice finds the applicable rule for a (service type, property)
	// pair: the property-scoped rule wins, then the global rule, then
	// ErrNoPriceAvailable.
	ResolvePrice(ctx context.Context, serviceType domain.ServiceType, propertyID string) (*domain.PriceRule, error)

	// CalculatePrice converts a resolved rule plus optional duration into a
	// charge amount rounded to currency precision.
	CalculatePrice(rule domain.PriceRule, durationMinutes *int) (decimal.Decimal, error)
}
