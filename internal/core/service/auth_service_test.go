package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/citylockers/locker-system/internal/core/domain"
	"github.com/citylockers/locker-system/internal/core/ports"
)

type stubUserRepo struct {
	byID map[string]*domain.User
	seq  int
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{byID: make(map[string]*domain.User)}
}

func (r *stubUserRepo) Create(_ context.Context, u *domain.User) (*domain.User, error) {
	for _, existing := range r.byID {
		if existing.Username == u.Username {
			return nil, domain.ErrUsernameExists
		}
	}
	r.seq++
	clone := *u
	clone.ID = fmt.Sprintf("user_%d", r.seq)
	r.byID[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	for _, u := range r.byID {
		if u.Username == username {
			clone := *u
			return &clone, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.byID {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) UpdateProfile(_ context.Context, id string, patch ports.UpdateProfilePatch) (*domain.User, error) {
	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	if patch.FirstName != nil {
		u.FirstName = *patch.FirstName
	}
	if patch.LastName != nil {
		u.LastName = *patch.LastName
	}
	if patch.Email != nil {
		u.Email = *patch.Email
	}
	clone := *u
	return &clone, nil
}

type stubRevoker struct {
	revoked map[string]bool
}

func newStubRevoker() *stubRevoker {
	return &stubRevoker{revoked: make(map[string]bool)}
}

func (r *stubRevoker) Revoke(_ context.Context, jti string, _ time.Time) error {
	r.revoked[jti] = true
	return nil
}

func (r *stubRevoker) IsRevoked(_ context.Context, jti string) (bool, error) {
	return r.revoked[jti], nil
}

const testSecret = "test-secret"

func newAuthFixture() (*stubUserRepo, *stubRevoker, *AuthService) {
	repo := newStubUserRepo()
	revoker := newStubRevoker()
	svc := NewAuthService(repo, revoker, testSecret, time.Hour, 24*time.Hour, discardLogger)
	return repo, revoker, svc
}

func registerInput() ports.RegisterInput {
	return ports.RegisterInput{
		Username:  "alice",
		Email:     "alice@example.com",
		Password:  "secret123",
		FirstName: "Alice",
		LastName:  "Smith",
	}
}

func parseClaims(t *testing.T, token string) jwt.MapClaims {
	t.Helper()
	claims := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return []byte(testSecret), nil
	})
	if err != nil || !tkn.Valid {
		t.Fatalf("token does not verify: %v", err)
	}
	return claims
}

func TestAuthService_Register_Success(t *testing.T) {
	repo, _, svc := newAuthFixture()

	user, pair, err := svc.Register(context.Background(), registerInput())
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	if user.Role != domain.RoleUser {
		t.Errorf("expected role %q, got %q", domain.RoleUser, user.Role)
	}
	if !user.Active {
		t.Error("new account must be active")
	}
	if user.PasswordHash == "secret123" {
		t.Error("password stored in clear")
	}
	stored := repo.byID[user.ID]
	if bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("secret123")) != nil {
		t.Error("stored hash does not match the password")
	}

	access := parseClaims(t, pair.Access)
	if access["typ"] != "access" || access["sub"] != user.ID || access["role"] != domain.RoleUser {
		t.Errorf("unexpected access claims: %v", access)
	}
	refresh := parseClaims(t, pair.Refresh)
	if refresh["typ"] != "refresh" {
		t.Errorf("expected refresh token, got typ %v", refresh["typ"])
	}
	if jti, _ := refresh["jti"].(string); jti == "" {
		t.Error("refresh token missing jti")
	}
}

func TestAuthService_Register_DuplicateUsername(t *testing.T) {
	_, _, svc := newAuthFixture()

	if _, _, err := svc.Register(context.Background(), registerInput()); err != nil {
		t.Fatalf("first register failed: %v", err)
	}

	dup := registerInput()
	dup.Email = "other@example.com"
	_, _, err := svc.Register(context.Background(), dup)
	if !errors.Is(err, domain.ErrUsernameExists) {
		t.Fatalf("expected ErrUsernameExists, got %v", err)
	}
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	_, _, svc := newAuthFixture()

	if _, _, err := svc.Register(context.Background(), registerInput()); err != nil {
		t.Fatalf("first register failed: %v", err)
	}

	dup := registerInput()
	dup.Username = "alice2"
	_, _, err := svc.Register(context.Background(), dup)
	if !errors.Is(err, domain.ErrEmailExists) {
		t.Fatalf("expected ErrEmailExists, got %v", err)
	}
}

func TestAuthService_Login(t *testing.T) {
	_, _, svc := newAuthFixture()
	if _, _, err := svc.Register(context.Background(), registerInput()); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	t.Run("success", func(t *testing.T) {
		user, pair, err := svc.Login(context.Background(), "alice", "secret123")
		if err != nil {
			t.Fatalf("login failed: %v", err)
		}
		if user.Username != "alice" || pair.Access == "" || pair.Refresh == "" {
			t.Errorf("incomplete login result: %+v", pair)
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		_, _, err := svc.Login(context.Background(), "alice", "nope")
		if !errors.Is(err, domain.ErrInvalidCredentials) {
			t.Fatalf("expected ErrInvalidCredentials, got %v", err)
		}
	})

	t.Run("unknown user", func(t *testing.T) {
		_, _, err := svc.Login(context.Background(), "bob", "secret123")
		if !errors.Is(err, domain.ErrInvalidCredentials) {
			t.Fatalf("expected ErrInvalidCredentials, got %v", err)
		}
	})

	t.Run("empty credentials", func(t *testing.T) {
		_, _, err := svc.Login(context.Background(), "", "")
		if !errors.Is(err, domain.ErrInvalidCredentials) {
			t.Fatalf("expected ErrInvalidCredentials, got %v", err)
		}
	})
}

func TestAuthService_Login_DisabledAccount(t *testing.T) {
	repo, _, svc := newAuthFixture()
	user, _, err := svc.Register(context.Background(), registerInput())
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	repo.byID[user.ID].Active = false

	_, _, err = svc.Login(context.Background(), "alice", "secret123")
	if !errors.Is(err, domain.ErrAccountDisabled) {
		t.Fatalf("expected ErrAccountDisabled, got %v", err)
	}
}

func TestAuthService_Refresh(t *testing.T) {
	_, _, svc := newAuthFixture()
	user, pair, err := svc.Register(context.Background(), registerInput())
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	access, err := svc.Refresh(context.Background(), pair.Refresh)
	if err != nil {
		t.Fatalf("refresh failed: %v", err)
	}
	claims := parseClaims(t, access)
	if claims["typ"] != "access" || claims["sub"] != user.ID {
		t.Errorf("unexpected refreshed claims: %v", claims)
	}
}

func TestAuthService_Refresh_RejectsAccessToken(t *testing.T) {
	_, _, svc := newAuthFixture()
	_, pair, err := svc.Register(context.Background(), registerInput())
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	_, err = svc.Refresh(context.Background(), pair.Access)
	if !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for access token, got %v", err)
	}
}

func TestAuthService_Refresh_RejectsGarbage(t *testing.T) {
	_, _, svc := newAuthFixture()

	_, err := svc.Refresh(context.Background(), "not-a-token")
	if !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestAuthService_Logout_RevokesRefreshToken(t *testing.T) {
	_, revoker, svc := newAuthFixture()
	_, pair, err := svc.Register(context.Background(), registerInput())
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	if err := svc.Logout(context.Background(), pair.Refresh); err != nil {
		t.Fatalf("logout failed: %v", err)
	}
	if len(revoker.revoked) != 1 {
		t.Fatalf("expected 1 revoked jti, got %d", len(revoker.revoked))
	}

	_, err = svc.Refresh(context.Background(), pair.Refresh)
	if !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected revoked token to be rejected, got %v", err)
	}
}

func TestAuthService_UpdateProfile(t *testing.T) {
	_, _, svc := newAuthFixture()
	user, _, err := svc.Register(context.Background(), registerInput())
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	first := "Alicia"
	updated, err := svc.UpdateProfile(context.Background(), user.ID, ports.UpdateProfilePatch{FirstName: &first})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.FirstName != "Alicia" {
		t.Errorf("expected first name Alicia, got %s", updated.FirstName)
	}
	if updated.Email != "alice@example.com" {
		t.Errorf("untouched field changed: %s", updated.Email)
	}
}

func TestAuthService_UpdateProfile_EmailTaken(t *testing.T) {
	_, _, svc := newAuthFixture()
	user, _, err := svc.Register(context.Background(), registerInput())
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	other := registerInput()
	other.Username = "bob"
	other.Email = "bob@example.com"
	if _, _, err := svc.Register(context.Background(), other); err != nil {
		t.Fatalf("second register failed: %v", err)
	}

	taken := "bob@example.com"
	_, err = svc.UpdateProfile(context.Background(), user.ID, ports.UpdateProfilePatch{Email: &taken})
	if !errors.Is(err, domain.ErrEmailExists) {
		t.Fatalf("expected ErrEmailExists, got %v", err)
	}
}

func TestAuthService_UpdateProfile_KeepingOwnEmail(t *testing.T) {
	_, _, svc := newAuthFixture()
	user, _, err := svc.Register(context.Background(), registerInput())
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	same := "alice@example.com"
	updated, err := svc.UpdateProfile(context.Background(), user.ID, ports.UpdateProfilePatch{Email: &same})
	if err != nil {
		t.Fatalf("re-submitting own email must not conflict: %v", err)
	}
	if updated.Email != same {
		t.Errorf("expected email unchanged, got %s", updated.Email)
	}
}
