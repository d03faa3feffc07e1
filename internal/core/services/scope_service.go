package services

import (
	"context"
	"fmt"

	"github.com/gitayam/short-term-land-lord-sub001/internal/apperrors"
	"github.com/gitayam/short-term-land-lord-sub001/internal/core/domain"
	portsrepo "github.com/gitayam/short-term-land-lord-sub001/internal/core/ports/repositories"
	portssvc "github.com/gitayam/short-term-land-lord-sub001/internal/core/ports/services"
)

// scopeService is the single place role-based report visibility is decided.
// It runs before query construction: the property set it produces is what
// aggregation queries are built from, never an after-the-fact restriction on
// already-aggregated numbers.
type scopeService struct {
	BaseService
	scopeRepo portsrepo.ScopeRepositoryFacade
}

// NewScopeService creates a new ScopeService.
func NewScopeService(scopeRepo portsrepo.ScopeRepositoryFacade) portssvc.ScopeSvcFacade {
	return &scopeService{scopeRepo: scopeRepo}
}

var _ portssvc.ScopeSvcFacade = (*scopeService)(nil)

// ScopeFor computes the caller's allowed property and provider sets.
//   - admin: all properties, all providers.
//   - owner: owned properties; providers who worked on them.
//   - manager: managed properties; providers who worked on them.
//   - staff: no properties; a worker post-filter restricts line items to the
//     caller's own work inside aggregation.
func (s *scopeService) ScopeFor(ctx context.Context, caller domain.Caller) (domain.ReportScope, error) {
	switch caller.Role {
	case domain.RoleAdmin:
		return domain.ReportScope{Properties: nil, AllProviders: true}, nil

	case domain.RoleOwner:
		properties, err := s.scopeRepo.FindOwnedProperties(ctx, caller.UserID)
		if err != nil {
			return domain.ReportScope{}, fmt.Errorf("failed to list owned properties: %w", err)
		}
		return s.scopeWithProviders(ctx, properties)

	case domain.RoleManager:
		properties, err := s.scopeRepo.FindManagedProperties(ctx, caller.UserID)
		if err != nil {
			return domain.ReportScope{}, fmt.Errorf("failed to list managed properties: %w", err)
		}
		return s.scopeWithProviders(ctx, properties)

	case domain.RoleStaff:
		workerID := caller.UserID
		return domain.ReportScope{
			Properties:   []string{},
			Providers:    []string{workerID},
			WorkerFilter: &workerID,
		}, nil

	default:
		return domain.ReportScope{}, fmt.Errorf("%w: unknown role %q", apperrors.ErrForbidden, caller.Role)
	}
}

func (s *scopeService) scopeWithProviders(ctx context.Context, properties []string) (domain.ReportScope, error) {
	if properties == nil {
		// Distinguish "owns nothing" from admin's unrestricted nil.
		properties = []string{}
	}
	providers, err := s.scopeRepo.FindProvidersForProperties(ctx, properties)
	if err != nil {
		return domain.ReportScope{}, fmt.Errorf("failed to list providers for properties: %w", err)
	}
	return domain.ReportScope{Properties: properties, Providers: providers}, nil
}
