package pgsql

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gitayam/short-term-land-lord-sub001/internal/apperrors"
	"github.com/gitayam/short-term-land-lord-sub001/internal/core/domain"
	portsrepo "github.com/gitayam/short-term-land-lord-sub001/internal/core/ports/repositories"
)

// PgxWorkUnitRepository reads completed work units. The invoiced marker is
// written by the invoice repository during item insertion, so this repository
// stays read-only.
type PgxWorkUnitRepository struct {
	BaseRepository
}

func newPgxWorkUnitRepository(pool *pgxpool.Pool) portsrepo.WorkUnitRepositoryFacade {
	return &PgxWorkUnitRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.WorkUnitRepositoryFacade = (*PgxWorkUnitRepository)(nil)

const workUnitColumns = `
	work_unit_id, property_id, service_type, description, duration_minutes,
	completed_at, worker_id, invoiced`

func scanWorkUnit(row pgx.Row) (*domain.WorkUnit, error) {
	var wu domain.WorkUnit
	err := row.Scan(
		&wu.WorkUnitID,
		&wu.PropertyID,
		&wu.ServiceType,
		&wu.Description,
		&wu.DurationMinutes,
		&wu.CompletedAt,
		&wu.WorkerID,
		&wu.Invoiced,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to scan work unit", err)
	}
	return &wu, nil
}

// FindWorkUnitByID retrieves a work unit by its ID.
func (r *PgxWorkUnitRepository) FindWorkUnitByID(ctx context.Context, workUnitID string) (*domain.WorkUnit, error) {
	query := `SELECT ` + workUnitColumns + ` FROM work_units WHERE work_unit_id = $1;`
	return scanWorkUnit(r.Pool.QueryRow(ctx, query, workUnitID))
}

// FindCompletedUnbilled lists completed, not-yet-invoiced work units for a
// property completed within the range, oldest first.
func (r *PgxWorkUnitRepository) FindCompletedUnbilled(ctx context.Context, propertyID string, from, to time.Time) ([]domain.WorkUnit, error) {
	query := `
		SELECT ` + workUnitColumns + `
		FROM work_units
		WHERE property_id = $1
		  AND NOT invoiced
		  AND completed_at >= $2 AND completed_at <= $3
		ORDER BY completed_at, work_unit_id;
	`
	rows, err := r.Pool.Query(ctx, query, propertyID, from, to)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query unbilled work units", err)
	}
	defer rows.Close()

	units := []domain.WorkUnit{}
	for rows.Next() {
		wu, err := scanWorkUnit(rows)
		if err != nil {
			return nil, err
		}
		units = append(units, *wu)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "failed to iterate work units", err)
	}
	return units, nil
}
