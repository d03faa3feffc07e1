package pgsql

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gitayam/short-term-land-lord-sub001/internal/apperrors"
	"github.com/gitayam/short-term-land-lord-sub001/internal/core/domain"
	portsrepo "github.com/gitayam/short-term-land-lord-sub001/internal/core/ports/repositories"
)

// PgxBookingRepository reads confirmed stays. Revenue input only, never
// written from this service.
type PgxBookingRepository struct {
	BaseRepository
}

func newPgxBookingRepository(pool *pgxpool.Pool) portsrepo.BookingRepositoryFacade {
	return &PgxBookingRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.BookingRepositoryFacade = (*PgxBookingRepository)(nil)

// FindBookingsInRange lists bookings whose stay starts within the range for
// the given properties; nil means all properties.
func (r *PgxBookingRepository) FindBookingsInRange(ctx context.Context, propertyIDs []string, from, to time.Time) ([]domain.Booking, error) {
	query := `
		SELECT booking_id, property_id, start_date, end_date, amount
		FROM bookings
		WHERE start_date >= $1 AND start_date <= $2
		  AND ($3::text[] IS NULL OR property_id = ANY($3))
		ORDER BY start_date, booking_id;
	`
	rows, err := r.Pool.Query(ctx, query, from, to, propertyIDs)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query bookings", err)
	}
	defer rows.Close()

	bookings := []domain.Booking{}
	for rows.Next() {
		var b domain.Booking
		if err := rows.Scan(&b.BookingID, &b.PropertyID, &b.StartDate, &b.EndDate, &b.Amount); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan booking", err)
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "failed to iterate bookings", err)
	}
	return bookings, nil
}
