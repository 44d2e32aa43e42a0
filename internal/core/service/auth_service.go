package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/citylockers/locker-system/internal/core/domain"
	"github.com/citylockers/locker-system/internal/core/ports"
)

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

// TokenRevoker abstracts the refresh-token denylist (Redis).
type TokenRevoker interface {
	Revoke(ctx context.Context, jti string, until time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// AuthService implements registration, login, token refresh/revocation and
// profile management. Token issuance is stateless (sign/verify against a
// shared secret); only revocation touches shared state, through the
// TokenRevoker.
type AuthService struct {
	repo       ports.UserRepository
	revoker    TokenRevoker
	jwtSecret  string
	accessTTL  time.Duration
	refreshTTL time.Duration
	logger     zerolog.Logger
}

func NewAuthService(repo ports.UserRepository, revoker TokenRevoker, jwtSecret string, accessTTL, refreshTTL time.Duration, logger zerolog.Logger) *AuthService {
	if accessTTL <= 0 {
		accessTTL = time.Hour
	}
	if refreshTTL <= 0 {
		refreshTTL = 7 * 24 * time.Hour
	}
	return &AuthService{
		repo:       repo,
		revoker:    revoker,
		jwtSecret:  jwtSecret,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		logger:     logger,
	}
}

// Register creates a new account and issues a token pair. Username and email
// uniqueness is pre-checked so the caller gets a specific error instead of a
// bare duplicate-key failure; the unique indexes remain the backstop.
func (s *AuthService) Register(ctx context.Context, input ports.RegisterInput) (*domain.User, *ports.TokenPair, error) {
	if _, err := s.repo.FindByUsername(ctx, input.Username); err == nil {
		return nil, nil, domain.ErrUsernameExists
	}
	if _, err := s.repo.FindByEmail(ctx, input.Email); err == nil {
		return nil, nil, domain.ErrEmailExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, err
	}

	now := time.Now().UTC()
	user := &domain.User{
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: string(hash),
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Role:         domain.RoleUser,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return nil, nil, err
	}

	pair, err := s.issuePair(created)
	if err != nil {
		return nil, nil, err
	}

	s.logger.Info().Str("username", created.Username).Msg("new user registered")
	return created, pair, nil
}

// Login authenticates by username and password and issues a token pair.
func (s *AuthService) Login(ctx context.Context, username, password string) (*domain.User, *ports.TokenPair, error) {
	if username == "" || password == "" {
		return nil, nil, domain.ErrInvalidCredentials
	}

	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		s.logger.Warn().Str("username", username).Msg("failed login attempt")
		return nil, nil, domain.ErrInvalidCredentials
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		s.logger.Warn().Str("username", username).Msg("failed login attempt")
		return nil, nil, domain.ErrInvalidCredentials
	}

	if !user.Active {
		return nil, nil, domain.ErrAccountDisabled
	}

	pair, err := s.issuePair(user)
	if err != nil {
		return nil, nil, err
	}

	s.logger.Info().Str("username", username).Msg("user logged in")
	return user, pair, nil
}

// Refresh validates a refresh token and issues a new access token.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	claims, err := s.parseToken(refreshToken, tokenTypeRefresh)
	if err != nil {
		return "", err
	}

	jti, _ := claims["jti"].(string)
	revoked, err := s.revoker.IsRevoked(ctx, jti)
	if err != nil {
		return "", err
	}
	if revoked {
		return "", domain.ErrInvalidToken
	}

	userID, _ := claims["sub"].(string)
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return "", domain.ErrInvalidToken
	}
	if !user.Active {
		return "", domain.ErrAccountDisabled
	}

	return s.signToken(user, tokenTypeAccess, s.accessTTL, "")
}

// Logout revokes the presented refresh token for its remaining lifetime.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	claims, err := s.parseToken(refreshToken, tokenTypeRefresh)
	if err != nil {
		return err
	}

	jti, _ := claims["jti"].(string)
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return domain.ErrInvalidToken
	}

	if err := s.revoker.Revoke(ctx, jti, exp.Time); err != nil {
		return err
	}

	s.logger.Info().Str("jti", jti).Msg("refresh token revoked")
	return nil
}

// CurrentUser returns the profile of the authenticated user.
func (s *AuthService) CurrentUser(ctx context.Context, userID string) (*domain.User, error) {
	return s.repo.FindByID(ctx, userID)
}

// UpdateProfile applies a partial profile update. A changed email must not
// belong to another account.
func (s *AuthService) UpdateProfile(ctx context.Context, userID string, patch ports.UpdateProfilePatch) (*domain.User, error) {
	if patch.Email != nil {
		existing, err := s.repo.FindByEmail(ctx, *patch.Email)
		if err == nil && existing.ID != userID {
			return nil, domain.ErrEmailExists
		}
	}
	return s.repo.UpdateProfile(ctx, userID, patch)
}

func (s *AuthService) issuePair(user *domain.User) (*ports.TokenPair, error) {
	access, err := s.signToken(user, tokenTypeAccess, s.accessTTL, "")
	if err != nil {
		return nil, err
	}
	refresh, err := s.signToken(user, tokenTypeRefresh, s.refreshTTL, newTokenID())
	if err != nil {
		return nil, err
	}
	return &ports.TokenPair{Access: access, Refresh: refresh}, nil
}

func (s *AuthService) signToken(user *domain.User, typ string, ttl time.Duration, jti string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":      user.ID,
		"username": user.Username,
		"role":     user.Role,
		"typ":      typ,
		"iat":      now.Unix(),
		"exp":      now.Add(ttl).Unix(),
	}
	if jti != "" {
		claims["jti"] = jti
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}

func (s *AuthService) parseToken(token, wantType string) (jwt.MapClaims, error) {
	claims := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil || !tkn.Valid {
		return nil, domain.ErrInvalidToken
	}
	if typ, _ := claims["typ"].(string); typ != wantType {
		return nil, domain.ErrInvalidToken
	}
	return claims, nil
}

// newTokenID returns a random 16-byte hex identifier for refresh tokens.
func newTokenID() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return fmt.Sprintf("%d", time.Now().UnixNano())
	}
	return hex.EncodeToString(b)
}
