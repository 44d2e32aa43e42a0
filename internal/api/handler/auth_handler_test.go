package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/citylockers/locker-system/internal/core/domain"
	"github.com/citylockers/locker-system/internal/core/ports"
)

// newTestContext builds an echo context with the request validator wired in,
// the way the router configures it.
func newTestContext(method, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func authedContext(method, path, body, userID, role string) (echo.Context, *httptest.ResponseRecorder) {
	c, rec := newTestContext(method, path, body)
	c.Set("user_id", userID)
	c.Set("username", "alice")
	c.Set("role", role)
	return c, rec
}

type stubAuthService struct {
	registerFn func(ctx context.Context, input ports.RegisterInput) (*domain.User, *ports.TokenPair, error)
	loginFn    func(ctx context.Context, username, password string) (*domain.User, *ports.TokenPair, error)
	refreshFn  func(ctx context.Context, token string) (string, error)
	logoutFn   func(ctx context.Context, token string) error
	currentFn  func(ctx context.Context, userID string) (*domain.User, error)
	updateFn   func(ctx context.Context, userID string, patch ports.UpdateProfilePatch) (*domain.User, error)
}

func (s *stubAuthService) Register(ctx context.Context, input ports.RegisterInput) (*domain.User, *ports.TokenPair, error) {
	return s.registerFn(ctx, input)
}

func (s *stubAuthService) Login(ctx context.Context, username, password string) (*domain.User, *ports.TokenPair, error) {
	return s.loginFn(ctx, username, password)
}

func (s *stubAuthService) Refresh(ctx context.Context, token string) (string, error) {
	return s.refreshFn(ctx, token)
}

func (s *stubAuthService) Logout(ctx context.Context, token string) error {
	return s.logoutFn(ctx, token)
}

func (s *stubAuthService) CurrentUser(ctx context.Context, userID string) (*domain.User, error) {
	return s.currentFn(ctx, userID)
}

func (s *stubAuthService) UpdateProfile(ctx context.Context, userID string, patch ports.UpdateProfilePatch) (*domain.User, error) {
	return s.updateFn(ctx, userID, patch)
}

func testUser() *domain.User {
	return &domain.User{
		ID:        "user_1",
		Username:  "alice",
		Email:     "alice@example.com",
		FirstName: "Alice",
		Role:      domain.RoleUser,
		Active:    true,
	}
}

func TestAuthHandler_Register(t *testing.T) {
	svc := &stubAuthService{
		registerFn: func(_ context.Context, input ports.RegisterInput) (*domain.User, *ports.TokenPair, error) {
			if input.Username != "alice" || input.Password != "secret123" {
				t.Errorf("unexpected input: %+v", input)
			}
			return testUser(), &ports.TokenPair{Access: "acc", Refresh: "ref"}, nil
		},
	}
	h := NewAuthHandler(svc)

	body := `{"username":"alice","email":"alice@example.com","password":"secret123","first_name":"Alice"}`
	c, rec := newTestContext(http.MethodPost, "/auth/register", body)

	if err := h.Register(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", rec.Code)
	}

	var resp authResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if resp.Access != "acc" || resp.Refresh != "ref" {
		t.Errorf("tokens missing: %+v", resp)
	}
	if resp.User.Username != "alice" || resp.User.IsAdmin {
		t.Errorf("unexpected user view: %+v", resp.User)
	}
}

func TestAuthHandler_Register_ValidationFailures(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{})

	cases := []struct {
		name string
		body string
	}{
		{"missing username", `{"email":"a@b.com","password":"secret123"}`},
		{"bad email", `{"username":"alice","email":"nope","password":"secret123"}`},
		{"short password", `{"username":"alice","email":"a@b.com","password":"abc"}`},
		{"malformed json", `{"username":`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, _ := newTestContext(http.MethodPost, "/auth/register", tc.body)
			err := h.Register(c)
			assertHandlerHTTPError(t, err, http.StatusBadRequest)
		})
	}
}

func TestAuthHandler_Register_DuplicateUsernamePassesThrough(t *testing.T) {
	svc := &stubAuthService{
		registerFn: func(context.Context, ports.RegisterInput) (*domain.User, *ports.TokenPair, error) {
			return nil, nil, domain.ErrUsernameExists
		},
	}
	h := NewAuthHandler(svc)

	body := `{"username":"alice","email":"alice@example.com","password":"secret123"}`
	c, _ := newTestContext(http.MethodPost, "/auth/register", body)

	if err := h.Register(c); !errors.Is(err, domain.ErrUsernameExists) {
		t.Fatalf("expected ErrUsernameExists to reach the error handler, got %v", err)
	}
}

func TestAuthHandler_Login(t *testing.T) {
	svc := &stubAuthService{
		loginFn: func(_ context.Context, username, password string) (*domain.User, *ports.TokenPair, error) {
			if username != "alice" || password != "secret123" {
				return nil, nil, domain.ErrInvalidCredentials
			}
			return testUser(), &ports.TokenPair{Access: "acc", Refresh: "ref"}, nil
		},
	}
	h := NewAuthHandler(svc)

	c, rec := newTestContext(http.MethodPost, "/auth/login", `{"username":"alice","password":"secret123"}`)
	if err := h.Login(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}

	c, _ = newTestContext(http.MethodPost, "/auth/login", `{"username":"alice","password":"wrong"}`)
	if err := h.Login(c); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthHandler_Refresh(t *testing.T) {
	svc := &stubAuthService{
		refreshFn: func(_ context.Context, token string) (string, error) {
			if token != "ref" {
				return "", domain.ErrInvalidToken
			}
			return "new-access", nil
		},
	}
	h := NewAuthHandler(svc)

	c, rec := newTestContext(http.MethodPost, "/auth/refresh", `{"refresh":"ref"}`)
	if err := h.Refresh(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var resp accessResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if resp.Access != "new-access" {
		t.Errorf("expected new access token, got %q", resp.Access)
	}
}

func TestAuthHandler_Logout(t *testing.T) {
	var revoked string
	svc := &stubAuthService{
		logoutFn: func(_ context.Context, token string) error {
			revoked = token
			return nil
		},
	}
	h := NewAuthHandler(svc)

	c, rec := newTestContext(http.MethodPost, "/auth/logout", `{"refresh":"ref"}`)
	if err := h.Logout(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if revoked != "ref" {
		t.Errorf("expected refresh token forwarded, got %q", revoked)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}

func TestAuthHandler_Me(t *testing.T) {
	svc := &stubAuthService{
		currentFn: func(_ context.Context, userID string) (*domain.User, error) {
			if userID != "user_1" {
				return nil, domain.ErrUserNotFound
			}
			return testUser(), nil
		},
	}
	h := NewAuthHandler(svc)

	c, rec := authedContext(http.MethodGet, "/auth/me", "", "user_1", domain.RoleUser)
	if err := h.Me(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var resp profileResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if resp.User.ID != "user_1" || resp.User.Email != "alice@example.com" {
		t.Errorf("unexpected profile: %+v", resp.User)
	}
}

func TestAuthHandler_Me_MissingClaims(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{})

	c, _ := newTestContext(http.MethodGet, "/auth/me", "")
	err := h.Me(c)
	assertHandlerHTTPError(t, err, http.StatusUnauthorized)
}

func TestAuthHandler_UpdateMe(t *testing.T) {
	svc := &stubAuthService{
		updateFn: func(_ context.Context, userID string, patch ports.UpdateProfilePatch) (*domain.User, error) {
			if patch.FirstName == nil || *patch.FirstName != "Alicia" {
				t.Errorf("expected first_name patch, got %+v", patch)
			}
			if patch.Email != nil {
				t.Error("email must not be patched when absent from payload")
			}
			u := testUser()
			u.FirstName = "Alicia"
			return u, nil
		},
	}
	h := NewAuthHandler(svc)

	c, rec := authedContext(http.MethodPut, "/auth/me", `{"first_name":"Alicia"}`, "user_1", domain.RoleUser)
	if err := h.UpdateMe(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}

func TestAuthHandler_UpdateMe_InvalidEmail(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{})

	c, _ := authedContext(http.MethodPut, "/auth/me", `{"email":"not-an-email"}`, "user_1", domain.RoleUser)
	err := h.UpdateMe(c)
	assertHandlerHTTPError(t, err, http.StatusBadRequest)
}

func assertHandlerHTTPError(t *testing.T, err error, code int) {
	t.Helper()
	if err == nil {
		t.Fatal("expected an error")
	}
	he, ok := err.(*echo.HTTPError)
	if !ok {
		t.Fatalf("expected *echo.HTTPError, got %T", err)
	}
	if he.Code != code {
		t.Errorf("expected status %d, got %d", code, he.Code)
	}
}
