package ports

import (
	"context"

	"github.com/citylockers/locker-system/internal/core/domain"
)

// Caller identifies the authenticated user behind a request, as extracted
// from the JWT claims by the auth middleware.
type Caller struct {
	UserID string
	Role   string
}

// IsAdmin reports whether the caller holds the admin role.
func (c Caller) IsAdmin() bool {
	return c.Role == domain.RoleAdmin
}

// ReservationService defines the reservation lifecycle use cases.
type ReservationService interface {
	// Create claims the locker for the user and opens an active reservation.
	Create(ctx context.Context, userID, lockerID string) (*domain.Reservation, error)
	// Release completes the reservation and frees its locker. Only the
	// owning user or an admin may release.
	Release(ctx context.Context, reservationID string, caller Caller) (*domain.Reservation, error)
	// Cancel is the administrative path: cancels the reservation and frees
	// its locker.
	Cancel(ctx context.Context, reservationID string) (*domain.Reservation, error)
	// List returns all reservations for admins, the caller's own otherwise,
	// newest first.
	List(ctx context.Context, caller Caller) ([]*domain.Reservation, error)
}
