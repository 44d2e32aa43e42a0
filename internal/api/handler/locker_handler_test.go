package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/citylockers/locker-system/internal/core/domain"
	"github.com/citylockers/locker-system/internal/core/ports"
)

type stubLockerService struct {
	listAvailableFn func(ctx context.Context) ([]*domain.Locker, error)
	listAllFn       func(ctx context.Context) ([]*domain.Locker, error)
	getFn           func(ctx context.Context, id string) (*domain.Locker, error)
	createFn        func(ctx context.Context, input ports.CreateLockerInput) (*domain.Locker, error)
	updateFn        func(ctx context.Context, id string, patch ports.UpdateLockerPatch) (*domain.Locker, error)
	deleteFn        func(ctx context.Context, id string) error
	statsFn         func(ctx context.Context) (*ports.LockerStats, error)
}

func (s *stubLockerService) ListAvailable(ctx context.Context) ([]*domain.Locker, error) {
	return s.listAvailableFn(ctx)
}

func (s *stubLockerService) ListAll(ctx context.Context) ([]*domain.Locker, error) {
	return s.listAllFn(ctx)
}

func (s *stubLockerService) Get(ctx context.Context, id string) (*domain.Locker, error) {
	return s.getFn(ctx, id)
}

func (s *stubLockerService) Create(ctx context.Context, input ports.CreateLockerInput) (*domain.Locker, error) {
	return s.createFn(ctx, input)
}

func (s *stubLockerService) Update(ctx context.Context, id string, patch ports.UpdateLockerPatch) (*domain.Locker, error) {
	return s.updateFn(ctx, id, patch)
}

func (s *stubLockerService) Delete(ctx context.Context, id string) error {
	return s.deleteFn(ctx, id)
}

func (s *stubLockerService) Stats(ctx context.Context) (*ports.LockerStats, error) {
	return s.statsFn(ctx)
}

func availableLocker() *domain.Locker {
	return &domain.Locker{
		ID:           "L1",
		LockerNumber: "A-001",
		Location:     "hall A",
		PricePerHour: 2.5,
		Status:       domain.LockerAvailable,
	}
}

func TestLockerHandler_List_ReturnsAvailableOnly(t *testing.T) {
	svc := &stubLockerService{
		listAvailableFn: func(context.Context) ([]*domain.Locker, error) {
			return []*domain.Locker{availableLocker()}, nil
		},
	}
	h := NewLockerHandler(svc, &stubReservationService{})

	c, rec := authedContext(http.MethodGet, "/lockers", "", "user_1", domain.RoleUser)
	if err := h.List(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var resp lockerListResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if len(resp.Lockers) != 1 || resp.Lockers[0].Status != domain.LockerAvailable {
		t.Errorf("unexpected lockers: %+v", resp.Lockers)
	}
}

func TestLockerHandler_Reserve(t *testing.T) {
	resSvc := &stubReservationService{
		createFn: func(_ context.Context, userID, lockerID string) (*domain.Reservation, error) {
			if userID != "user_1" || lockerID != "L1" {
				t.Errorf("unexpected args: %s %s", userID, lockerID)
			}
			return activeReservation(), nil
		},
	}
	h := NewLockerHandler(&stubLockerService{}, resSvc)

	c, rec := authedContext(http.MethodPost, "/lockers/L1/reserve", "", "user_1", domain.RoleUser)
	c.SetParamNames("id")
	c.SetParamValues("L1")

	if err := h.Reserve(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", rec.Code)
	}

	var resp reservationResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if resp.Message != "locker reserved successfully" {
		t.Errorf("unexpected message: %q", resp.Message)
	}
}

func TestAdminLockerHandler_Create(t *testing.T) {
	svc := &stubLockerService{
		createFn: func(_ context.Context, input ports.CreateLockerInput) (*domain.Locker, error) {
			if input.LockerNumber != "A-001" || input.PricePerHour != 2.5 {
				t.Errorf("unexpected input: %+v", input)
			}
			return availableLocker(), nil
		},
	}
	h := NewAdminLockerHandler(svc)

	body := `{"locker_number":"A-001","location":"hall A","price_per_hour":2.5}`
	c, rec := authedContext(http.MethodPost, "/admin/lockers", body, "admin_1", domain.RoleAdmin)

	if err := h.Create(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", rec.Code)
	}
}

func TestAdminLockerHandler_Create_ValidationFailures(t *testing.T) {
	h := NewAdminLockerHandler(&stubLockerService{})

	cases := []struct {
		name string
		body string
	}{
		{"missing number", `{"location":"hall A","price_per_hour":2.5}`},
		{"zero price", `{"locker_number":"A-001","location":"hall A","price_per_hour":0}`},
		{"negative price", `{"locker_number":"A-001","location":"hall A","price_per_hour":-1}`},
		{"bad status", `{"locker_number":"A-001","location":"hall A","price_per_hour":2.5,"status":"broken"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, _ := authedContext(http.MethodPost, "/admin/lockers", tc.body, "admin_1", domain.RoleAdmin)
			err := h.Create(c)
			assertHandlerHTTPError(t, err, http.StatusBadRequest)
		})
	}
}

func TestAdminLockerHandler_Update_ForwardsPatch(t *testing.T) {
	svc := &stubLockerService{
		updateFn: func(_ context.Context, id string, patch ports.UpdateLockerPatch) (*domain.Locker, error) {
			if id != "L1" {
				t.Errorf("unexpected id: %s", id)
			}
			if patch.PricePerHour == nil || *patch.PricePerHour != 4.0 {
				t.Errorf("expected price patch, got %+v", patch)
			}
			if patch.Status == nil || *patch.Status != domain.LockerMaintenance {
				t.Errorf("expected status patch, got %+v", patch)
			}
			if patch.LockerNumber != nil {
				t.Error("absent field must not be patched")
			}
			l := availableLocker()
			l.PricePerHour = 4.0
			l.Status = domain.LockerMaintenance
			return l, nil
		},
	}
	h := NewAdminLockerHandler(svc)

	body := `{"price_per_hour":4.0,"status":"maintenance"}`
	c, rec := authedContext(http.MethodPut, "/admin/lockers/L1", body, "admin_1", domain.RoleAdmin)
	c.SetParamNames("id")
	c.SetParamValues("L1")

	if err := h.Update(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}

func TestAdminLockerHandler_Delete(t *testing.T) {
	var deleted string
	svc := &stubLockerService{
		deleteFn: func(_ context.Context, id string) error {
			deleted = id
			return nil
		},
	}
	h := NewAdminLockerHandler(svc)

	c, rec := authedContext(http.MethodDelete, "/admin/lockers/L1", "", "admin_1", domain.RoleAdmin)
	c.SetParamNames("id")
	c.SetParamValues("L1")

	if err := h.Delete(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if deleted != "L1" {
		t.Errorf("expected L1 deleted, got %q", deleted)
	}
	if rec.Code != http.StatusNoContent {
		t.Errorf("expected 204, got %d", rec.Code)
	}
}

func TestAdminLockerHandler_Delete_NotFoundPassesThrough(t *testing.T) {
	svc := &stubLockerService{
		deleteFn: func(context.Context, string) error { return domain.ErrLockerNotFound },
	}
	h := NewAdminLockerHandler(svc)

	c, _ := authedContext(http.MethodDelete, "/admin/lockers/missing", "", "admin_1", domain.RoleAdmin)
	c.SetParamNames("id")
	c.SetParamValues("missing")

	if err := h.Delete(c); !errors.Is(err, domain.ErrLockerNotFound) {
		t.Fatalf("expected ErrLockerNotFound, got %v", err)
	}
}

func TestAdminLockerHandler_Stats(t *testing.T) {
	svc := &stubLockerService{
		statsFn: func(context.Context) (*ports.LockerStats, error) {
			return &ports.LockerStats{Total: 4, Available: 2, Occupied: 1, Maintenance: 1}, nil
		},
	}
	h := NewAdminLockerHandler(svc)

	c, rec := authedContext(http.MethodGet, "/admin/lockers/stats", "", "admin_1", domain.RoleAdmin)
	if err := h.Stats(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var resp lockerStatsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	want := lockerStatsResponse{Total: 4, Available: 2, Occupied: 1, Maintenance: 1}
	if resp != want {
		t.Errorf("expected %+v, got %+v", want, resp)
	}
}
