package ports

import (
	"context"

	"github.com/citylockers/locker-system/internal/core/domain"
)

// UpdateProfilePatch carries the optional profile fields for a partial
// update. Nil pointers mean "leave unchanged".
type UpdateProfilePatch struct {
	FirstName *string
	LastName  *string
	Email     *string
}

// UserRepository defines persistence operations for user accounts.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	// UpdateProfile applies the non-nil fields of patch and returns the
	// updated user.
	UpdateProfile(ctx context.Context, id string, patch UpdateProfilePatch) (*domain.User, error)
}
