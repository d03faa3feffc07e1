package repositories

import (
	"context"

	"github.com/gitayam/short-term-land-lord-sub001/internal/core/domain"
)

// PriceRuleRepositoryFacade defines persistence operations for price rules.
// At most one rule may exist per (service type, property) pair; Save must
// surface apperrors.ErrDuplicate when that uniqueness is violated.
type PriceRuleRepositoryFacade interface {
	SavePriceRule(ctx context.Context, rule domain.PriceRule) error
	UpdatePriceRule(ctx context.Context, rule domain.PriceRule) error
	DeletePriceRule(ctx context.Context, ruleID string) error
	FindPriceRuleByID(ctx context.Context, ruleID string) (*domain.PriceRule, error)
	// FindRuleForService looks up the active rule for the exact
	// (serviceType, propertyID) pair; propertyID nil means the global rule.
	FindRuleForService(ctx context.Context, serviceType domain.ServiceType, propertyID *string) (*domain.PriceRule, error)
	ListPriceRules(ctx context.Context, propertyID *string) ([]domain.PriceRule, error)
}
