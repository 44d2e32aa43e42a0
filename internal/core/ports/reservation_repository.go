package ports

import (
	"context"
	"time"

	"github.com/citylockers/locker-system/internal/core/domain"
)

// ListReservationsFilter carries query parameters for listing reservations.
// Results are always ordered by created_at descending.
type ListReservationsFilter struct {
	UserID string // empty = all users (admin)
}

// ReservationRepository defines persistence operations for reservations.
type ReservationRepository interface {
	Create(ctx context.Context, r *domain.Reservation) (*domain.Reservation, error)
	FindByID(ctx context.Context, id string) (*domain.Reservation, error)
	List(ctx context.Context, filter ListReservationsFilter) ([]*domain.Reservation, error)
	// Close moves the reservation from active to the given terminal status in
	// a single conditional write, setting end_time and total_price. It
	// returns domain.ErrReservationClosed when the reservation is no longer
	// active, so a duplicate release can never fire twice.
	Close(ctx context.Context, id string, status domain.ReservationStatus, endTime time.Time, totalPrice float64) (*domain.Reservation, error)
	// DeleteByLocker removes all reservations referencing the locker.
	// Backs the cascade-delete policy when an admin deletes a locker.
	DeleteByLocker(ctx context.Context, lockerID string) (int64, error)
}
