package pgsql

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gitayam/short-term-land-lord-sub001/internal/apperrors"
	portsrepo "github.com/gitayam/short-term-land-lord-sub001/internal/core/ports/repositories"
)

// PgxScopeRepository answers the ownership and assignment lookups behind
// report scoping.
type PgxScopeRepository struct {
	BaseRepository
}

func newPgxScopeRepository(pool *pgxpool.Pool) portsrepo.ScopeRepositoryFacade {
	return &PgxScopeRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.ScopeRepositoryFacade = (*PgxScopeRepository)(nil)

func (r *PgxScopeRepository) queryPropertyIDs(ctx context.Context, query, userID string) ([]string, error) {
	rows, err := r.Pool.Query(ctx, query, userID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query property assignments", err)
	}
	defer rows.Close()

	// Empty non-nil slice distinguishes "none assigned" from "unrestricted".
	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan property id", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "failed to iterate property ids", err)
	}
	return ids, nil
}

// FindOwnedProperties lists property IDs owned by the user.
func (r *PgxScopeRepository) FindOwnedProperties(ctx context.Context, userID string) ([]string, error) {
	query := `SELECT property_id FROM property_owners WHERE user_id = $1 ORDER BY property_id;`
	return r.queryPropertyIDs(ctx, query, userID)
}

// FindManagedProperties lists property IDs assigned to the manager.
func (r *PgxScopeRepository) FindManagedProperties(ctx context.Context, userID string) ([]string, error) {
	query := `SELECT property_id FROM property_managers WHERE user_id = $1 ORDER BY property_id;`
	return r.queryPropertyIDs(ctx, query, userID)
}

// FindProvidersForProperties lists service providers who have completed work
// on any of the given properties.
func (r *PgxScopeRepository) FindProvidersForProperties(ctx context.Context, propertyIDs []string) ([]string, error) {
	query := `
		SELECT DISTINCT worker_id
		FROM work_units
		WHERE property_id = ANY($1)
		ORDER BY worker_id;
	`
	rows, err := r.Pool.Query(ctx, query, propertyIDs)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query providers", err)
	}
	defer rows.Close()

	providers := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan provider id", err)
		}
		providers = append(providers, id)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "failed to iterate providers", err)
	}
	return providers, nil
}
