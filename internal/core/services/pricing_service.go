package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/gitayam/short-term-land-lord-sub001/internal/apperrors"
	"github.com/gitayam/short-term-land-lord-sub001/internal/core/domain"
	portsrepo "github.com/gitayam/short-term-land-lord-sub001/internal/core/ports/repositories"
	portssvc "github.com/gitayam/short-term-land-lord-sub001/internal/core/ports/services"
	"github.com/gitayam/short-term-land-lord-sub001/internal/dto"
	"github.com/gitayam/short-term-land-lord-sub001/internal/utils"
)

// pricingService resolves price rules and converts them into charge amounts.
type pricingService struct {
	BaseService
	ruleRepo portsrepo.PriceRuleRepositoryFacade
}

// NewPricingService creates a new PricingService.
func NewPricingService(ruleRepo portsrepo.PriceRuleRepositoryFacade) portssvc.PricingSvcFacade {
	return &pricingService{ruleRepo: ruleRepo}
}

var _ portssvc.PricingSvcFacade = (*pricingService)(nil)

// validateRule checks the model/amount pairing of a rule before persisting.
func validateRule(rule domain.PriceRule) error {
	if !rule.ServiceType.Valid() {
		return fmt.Errorf("%w: unknown service type %q", apperrors.ErrValidation, rule.ServiceType)
	}
	if !rule.PricingModel.Valid() {
		return fmt.Errorf("%w: unknown pricing model %q", apperrors.ErrValidation, rule.PricingModel)
	}
	switch rule.PricingModel {
	case domain.PricingFixed:
		if rule.FixedPrice.IsNegative() {
			return fmt.Errorf("%w: fixed price must not be negative", apperrors.ErrValidation)
		}
	case domain.PricingHourly:
		if rule.HourlyRate.IsNegative() {
			return fmt.Errorf("%w: hourly rate must not be negative", apperrors.ErrValidation)
		}
	case domain.PricingBundle:
		// Bundle rules may be configured ahead of support; they only fail
		// when the calculator is asked to price with them.
	}
	return nil
}

// CreatePriceRule creates a new price rule. There is at most one rule per
// (service type, property) pair; a second attempt fails with
// ErrDuplicatePriceRule.
func (s *pricingService) CreatePriceRule(ctx context.Context, req dto.CreatePriceRuleRequest, creatorUserID string) (*domain.PriceRule, error) {
	now := time.Now().UTC()
	rule := domain.PriceRule{
		RuleID:       uuid.NewString(),
		ServiceType:  req.ServiceType,
		PricingModel: req.PricingModel,
		FixedPrice:   req.FixedPrice,
		HourlyRate:   req.HourlyRate,
		PropertyID:   req.PropertyID,
		Description:  req.Description,
		IsActive:     true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}
	if err := validateRule(rule); err != nil {
		return nil, err
	}

	if err := s.ruleRepo.SavePriceRule(ctx, rule); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, fmt.Errorf("%w: %s for property %v", apperrors.ErrDuplicatePriceRule, req.ServiceType, req.PropertyID)
		}
		s.LogError(ctx, err, "Failed to save price rule", slog.String("service_type", string(req.ServiceType)))
		return nil, fmt.Errorf("failed to save price rule: %w", err)
	}

	s.LogInfo(ctx, "Price rule created",
		slog.String("rule_id", rule.RuleID),
		slog.String("service_type", string(rule.ServiceType)),
		slog.String("pricing_model", string(rule.PricingModel)))
	return &rule, nil
}

// UpdatePriceRule applies partial updates to an existing rule.
func (s *pricingService) UpdatePriceRule(ctx context.Context, ruleID string, req dto.UpdatePriceRuleRequest, updaterUserID string) (*domain.PriceRule, error) {
	rule, err := s.ruleRepo.FindPriceRuleByID(ctx, ruleID)
	if err != nil {
		return nil, err
	}

	if req.PricingModel != nil {
		rule.PricingModel = *req.PricingModel
	}
	if req.FixedPrice != nil {
		rule.FixedPrice = *req.FixedPrice
	}
	if req.HourlyRate != nil {
		rule.HourlyRate = *req.HourlyRate
	}
	if req.Description != nil {
		rule.Description = *req.Description
	}
	if req.IsActive != nil {
		rule.IsActive = *req.IsActive
	}
	rule.LastUpdatedAt = time.Now().UTC()
	rule.LastUpdatedBy = updaterUserID

	if err := validateRule(*rule); err != nil {
		return nil, err
	}
	if err := s.ruleRepo.UpdatePriceRule(ctx, *rule); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			// Reactivating a rule whose pair is already covered by another
			// active rule is the same conflict as creating a second one.
			return nil, fmt.Errorf("%w: %s for property %v", apperrors.ErrDuplicatePriceRule, rule.ServiceType, rule.PropertyID)
		}
		s.LogError(ctx, err, "Failed to update price rule", slog.String("rule_id", ruleID))
		return nil, fmt.Errorf("failed to update price rule: %w", err)
	}
	return rule, nil
}

// DeletePriceRule removes a rule. Billing falls back to the global rule, or
// to ErrNoPriceAvailable, on the next resolution.
func (s *pricingService) DeletePriceRule(ctx context.Context, ruleID string, deleterUserID string) error {
	if err := s.ruleRepo.DeletePriceRule(ctx, ruleID); err != nil {
		return err
	}
	s.LogInfo(ctx, "Price rule deleted", slog.String("rule_id", ruleID), slog.String("deleted_by", deleterUserID))
	return nil
}

// GetPriceRule fetches a rule by ID.
func (s *pricingService) GetPriceRule(ctx context.Context, ruleID string) (*domain.PriceRule, error) {
	return s.ruleRepo.FindPriceRuleByID(ctx, ruleID)
}

// ListPriceRules lists rules, optionally narrowed to one property.
func (s *pricingService) ListPriceRules(ctx context.Context, propertyID *string) ([]domain.PriceRule, error) {
	return s.ruleRepo.ListPriceRules(ctx, propertyID)
}

// ResolvePrice finds the applicable rule for a (service type, property) pair.
// Precedence: property-scoped rule, then global rule, then
// ErrNoPriceAvailable. No other tie-break exists because the pair is unique.
func (s *pricingService) ResolvePrice(ctx context.Context, serviceType domain.ServiceType, propertyID string) (*domain.PriceRule, error) {
	rule, err := s.ruleRepo.FindRuleForService(ctx, serviceType, &propertyID)
	if err == nil {
		return rule, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to resolve property price rule: %w", err)
	}

	rule, err = s.ruleRepo.FindRuleForService(ctx, serviceType, nil)
	if err == nil {
		return rule, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to resolve global price rule: %w", err)
	}

	return nil, fmt.Errorf("%w: %s for property %s", apperrors.ErrNoPriceAvailable, serviceType, propertyID)
}

// CalculatePrice converts a resolved rule plus optional duration into a
// non-negative charge amount.
//   - FIXED returns the fixed price; duration is ignored.
//   - HOURLY charges rate x minutes/60, rounded half-even to cents, and
//     requires a duration.
//   - BUNDLE is reserved and rejected outright rather than priced as zero.
func (s *pricingService) CalculatePrice(rule domain.PriceRule, durationMinutes *int) (decimal.Decimal, error) {
	switch rule.PricingModel {
	case domain.PricingFixed:
		return rule.FixedPrice, nil
	case domain.PricingHourly:
		if durationMinutes == nil {
			return decimal.Zero, fmt.Errorf("%w: rule %s", apperrors.ErrDurationRequired, rule.RuleID)
		}
		if *durationMinutes < 0 {
			return decimal.Zero, fmt.Errorf("%w: duration must not be negative", apperrors.ErrValidation)
		}
		return utils.HourlyAmount(rule.HourlyRate, *durationMinutes), nil
	case domain.PricingBundle:
		return decimal.Zero, fmt.Errorf("%w: BUNDLE", apperrors.ErrUnsupportedPricingModel)
	default:
		return decimal.Zero, fmt.Errorf("%w: %q", apperrors.ErrUnsupportedPricingModel, rule.PricingModel)
	}
}
