package ports

import (
	"context"

	"github.com/citylockers/locker-system/internal/core/domain"
)

// CreateLockerInput carries the fields for creating a locker.
type CreateLockerInput struct {
	LockerNumber string
	Location     string
	PricePerHour float64
	Status       domain.LockerStatus // defaults to available when empty
}

// LockerService defines use-case operations for the locker catalog.
// ListAll, Create, Update, Delete and Stats are admin-only; enforcement
// happens at the API layer via RBAC.
type LockerService interface {
	// ListAvailable returns available lockers ordered by locker_number.
	ListAvailable(ctx context.Context) ([]*domain.Locker, error)
	// ListAll returns every locker ordered by locker_number.
	ListAll(ctx context.Context) ([]*domain.Locker, error)
	Get(ctx context.Context, id string) (*domain.Locker, error)
	Create(ctx context.Context, input CreateLockerInput) (*domain.Locker, error)
	Update(ctx context.Context, id string, patch UpdateLockerPatch) (*domain.Locker, error)
	// Delete removes the locker and cascades to its reservations.
	Delete(ctx context.Context, id string) error
	Stats(ctx context.Context) (*LockerStats, error)
}
