package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/citylockers/locker-system/internal/core/domain"
	"github.com/citylockers/locker-system/internal/core/ports"
)

type createReservationRequest struct {
	LockerID string `json:"locker_id" validate:"required"`
}

type reservationResponse struct {
	Message     string              `json:"message,omitempty"`
	Reservation *domain.Reservation `json:"reservation"`
}

type reservationListResponse struct {
	Reservations []*domain.Reservation `json:"reservations"`
}

// ReservationHandler serves the reservation lifecycle endpoints.
type ReservationHandler struct {
	service ports.ReservationService
}

func NewReservationHandler(service ports.ReservationService) *ReservationHandler {
	return &ReservationHandler{service: service}
}

// List handles GET /reservations — all reservations for admins, the
// caller's own otherwise, newest first.
//
// @Summary      List reservations
// @Tags         reservations
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  reservationListResponse
// @Failure      401  {object}  errorResponse
// @Router       /reservations [get]
func (h *ReservationHandler) List(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}

	reservations, err := h.service.List(c.Request().Context(), caller)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, reservationListResponse{Reservations: reservations})
}

// Create handles POST /reservations.
//
// @Summary      Create a reservation
// @Tags         reservations
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createReservationRequest  true  "Locker to reserve"
// @Success      201   {object}  reservationResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /reservations [post]
func (h *ReservationHandler) Create(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}

	var req createReservationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	reservation, err := h.service.Create(c.Request().Context(), caller.UserID, req.LockerID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, reservationResponse{Reservation: reservation})
}

// Release handles PUT /reservations/:id/release.
//
// @Summary      Release a reservation
// @Tags         reservations
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Reservation ID"
// @Success      200  {object}  reservationResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Failure      409  {object}  errorResponse
// @Router       /reservations/{id}/release [put]
func (h *ReservationHandler) Release(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}

	reservation, err := h.service.Release(c.Request().Context(), c.Param("id"), caller)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, reservationResponse{
		Message:     "locker released successfully",
		Reservation: reservation,
	})
}

// Cancel handles PUT /reservations/:id/cancel — the administrative path.
// The RequireAdmin middleware gates the route.
//
// @Summary      Cancel a reservation
// @Tags         reservations
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Reservation ID"
// @Success      200  {object}  reservationResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Failure      409  {object}  errorResponse
// @Router       /reservations/{id}/cancel [put]
func (h *ReservationHandler) Cancel(c echo.Context) error {
	reservation, err := h.service.Cancel(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, reservationResponse{
		Message:     "reservation cancelled",
		Reservation: reservation,
	})
}
