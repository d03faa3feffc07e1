package repositories

import (
	"context"
	"time"

	"github.com/gitayam/short-term-land-lord-sub001/internal/core/domain"
)

// WorkUnitRepositoryFacade reads completed work units from the work-unit
// provider. The invoiced marker is written back by the invoice repository as
// part of item insertion, never from here.
type WorkUnitRepositoryFacade interface {
	FindWorkUnitByID(ctx context.Context, workUnitID string) (*domain.WorkUnit, error)
	// FindCompletedUnbilled lists completed, not-yet-invoiced work units for
	// a property completed within the range.
	FindCompletedUnbilled(ctx context.Context, propertyID string, from, to time.Time) ([]domain.WorkUnit, error)
}

// BookingRepositoryFacade reads confirmed stays from the booking provider.
type BookingRepositoryFacade interface {
	// FindBookingsInRange lists bookings whose stay falls within the range
	// for the given properties; propertyIDs nil means all.
	FindBookingsInRange(ctx context.Context, propertyIDs []string, from, to time.Time) ([]domain.Booking, error)
}

// FinancialPeriodRepositoryFacade persists cached rollups. Periods are
// derived data and an upsert semantics lets them be recomputed at will.
type FinancialPeriodRepositoryFacade interface {
	SaveFinancialPeriod(ctx context.Context, period domain.FinancialPeriod) error
	FindFinancialPeriod(ctx context.Context, propertyID *string, periodType domain.PeriodType, startDate time.Time) (*domain.FinancialPeriod, error)
}

// ScopeRepositoryFacade supplies the ownership/assignment lookups behind
// report scoping.
type ScopeRepositoryFacade interface {
	FindOwnedProperties(ctx context.Context, userID string) ([]string, error)
	FindManagedProperties(ctx context.Context, userID string) ([]string, error)
	// FindProvidersForProperties lists service providers who have worked on
	// any of the given properties.
	FindProvidersForProperties(ctx context.Context, propertyIDs []string) ([]string, error)
}
