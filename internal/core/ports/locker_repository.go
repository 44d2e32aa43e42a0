package ports

import (
	"context"

	"github.com/citylockers/locker-system/internal/core/domain"
)

// ListLockersFilter carries query parameters for listing lockers.
// Results are always ordered by locker_number ascending.
type ListLockersFilter struct {
	Status domain.LockerStatus // empty = all statuses
}

// UpdateLockerPatch carries the optional fields for a partial admin update.
// Nil pointers mean "leave unchanged".
type UpdateLockerPatch struct {
	LockerNumber *string
	Location     *string
	PricePerHour *float64
	Status       *domain.LockerStatus
}

// LockerStats holds the per-status counts returned by CountByStatus.
type LockerStats struct {
	Total       int64
	Available   int64
	Occupied    int64
	Maintenance int64
}

// LockerRepository defines persistence operations for lockers.
type LockerRepository interface {
	Create(ctx context.Context, l *domain.Locker) (*domain.Locker, error)
	FindByID(ctx context.Context, id string) (*domain.Locker, error)
	List(ctx context.Context, filter ListLockersFilter) ([]*domain.Locker, error)
	// Update applies the non-nil fields of patch and returns the updated
	// locker.
	Update(ctx context.Context, id string, patch UpdateLockerPatch) (*domain.Locker, error)
	Delete(ctx context.Context, id string) error
	CountByStatus(ctx context.Context) (*LockerStats, error)

	// ClaimAvailable flips the locker from available to occupied in a single
	// conditional write. It returns domain.ErrLockerNotFound when the locker
	// does not exist and domain.ErrLockerUnavailable when it exists but is
	// not available, so concurrent claims on the same locker cannot both
	// succeed.
	ClaimAvailable(ctx context.Context, id string) (*domain.Locker, error)
	// SetStatus unconditionally sets the locker status. Used to free a
	// locker on release and to compensate a failed reservation insert.
	SetStatus(ctx context.Context, id string, status domain.LockerStatus) error
}
