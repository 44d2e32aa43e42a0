package ports

import (
	"context"

	"github.com/citylockers/locker-system/internal/core/domain"
)

// TokenPair is the access/refresh token pair issued on register and login.
type TokenPair struct {
	Access  string
	Refresh string
}

// RegisterInput carries the fields for creating a new account.
type RegisterInput struct {
	Username  string
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// AuthService defines use-case operations for identity and sessions.
type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*domain.User, *TokenPair, error)
	Login(ctx context.Context, username, password string) (*domain.User, *TokenPair, error)
	// Refresh validates a refresh token and issues a new access token.
	Refresh(ctx context.Context, refreshToken string) (string, error)
	// Logout revokes the presented refresh token for its remaining lifetime.
	Logout(ctx context.Context, refreshToken string) error
	CurrentUser(ctx context.Context, userID string) (*domain.User, error)
	UpdateProfile(ctx context.Context, userID string, patch UpdateProfilePatch) (*domain.User, error)
}
