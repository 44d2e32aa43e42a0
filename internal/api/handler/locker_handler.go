package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/citylockers/locker-system/internal/core/ports"
)

// LockerHandler serves the catalog endpoints available to every
// authenticated user.
type LockerHandler struct {
	lockers      ports.LockerService
	reservations ports.ReservationService
}

func NewLockerHandler(lockers ports.LockerService, reservations ports.ReservationService) *LockerHandler {
	return &LockerHandler{lockers: lockers, reservations: reservations}
}

// List handles GET /lockers — available lockers, locker_number ascending.
//
// @Summary      List available lockers
// @Tags         lockers
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  lockerListResponse
// @Failure      401  {object}  errorResponse
// @Router       /lockers [get]
func (h *LockerHandler) List(c echo.Context) error {
	lockers, err := h.lockers.ListAvailable(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, lockerListResponse{Lockers: lockers})
}

// Reserve handles POST /lockers/:id/reserve — claims the locker for the
// caller and opens a reservation.
//
// @Summary      Reserve a locker
// @Tags         lockers
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Locker ID"
// @Success      201  {object}  reservationResponse
// @Failure      400  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /lockers/{id}/reserve [post]
func (h *LockerHandler) Reserve(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}

	reservation, err := h.reservations.Create(c.Request().Context(), caller.UserID, c.Param("id"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, reservationResponse{
		Message:     "locker reserved successfully",
		Reservation: reservation,
	})
}
