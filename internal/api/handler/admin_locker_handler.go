package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/citylockers/locker-system/internal/core/domain"
	"github.com/citylockers/locker-system/internal/core/ports"
)

// AdminLockerHandler serves the admin-only catalog CRUD. The RequireAdmin
// middleware gates every route before these handlers run.
type AdminLockerHandler struct {
	lockers ports.LockerService
}

func NewAdminLockerHandler(lockers ports.LockerService) *AdminLockerHandler {
	return &AdminLockerHandler{lockers: lockers}
}

// List handles GET /admin/lockers — every locker regardless of status.
//
// @Summary      List all lockers
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  lockerListResponse
// @Failure      403  {object}  errorResponse
// @Router       /admin/lockers [get]
func (h *AdminLockerHandler) List(c echo.Context) error {
	lockers, err := h.lockers.ListAll(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, lockerListResponse{Lockers: lockers})
}

// Get handles GET /admin/lockers/:id.
//
// @Summary      Get a locker
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Locker ID"
// @Success      200  {object}  domain.Locker
// @Failure      404  {object}  errorResponse
// @Router       /admin/lockers/{id} [get]
func (h *AdminLockerHandler) Get(c echo.Context) error {
	locker, err := h.lockers.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, locker)
}

// Create handles POST /admin/lockers.
//
// @Summary      Create a locker
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createLockerRequest  true  "Locker details"
// @Success      201   {object}  domain.Locker
// @Failure      400   {object}  errorResponse
// @Router       /admin/lockers [post]
func (h *AdminLockerHandler) Create(c echo.Context) error {
	var req createLockerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	locker, err := h.lockers.Create(c.Request().Context(), ports.CreateLockerInput{
		LockerNumber: req.LockerNumber,
		Location:     req.Location,
		PricePerHour: req.PricePerHour,
		Status:       domain.LockerStatus(req.Status),
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, locker)
}

// Update handles PUT /admin/lockers/:id — partial field replacement.
//
// @Summary      Update a locker
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string               true  "Locker ID"
// @Param        body  body      updateLockerRequest  true  "Fields to update"
// @Success      200   {object}  domain.Locker
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /admin/lockers/{id} [put]
func (h *AdminLockerHandler) Update(c echo.Context) error {
	var req updateLockerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	locker, err := h.lockers.Update(c.Request().Context(), c.Param("id"), toUpdateLockerPatch(req))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, locker)
}

// Delete handles DELETE /admin/lockers/:id — cascades to the locker's
// reservations.
//
// @Summary      Delete a locker
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  string  true  "Locker ID"
// @Success      204
// @Failure      404  {object}  errorResponse
// @Router       /admin/lockers/{id} [delete]
func (h *AdminLockerHandler) Delete(c echo.Context) error {
	if err := h.lockers.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Stats handles GET /admin/lockers/stats — per-status counts.
//
// @Summary      Locker statistics
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  lockerStatsResponse
// @Failure      403  {object}  errorResponse
// @Router       /admin/lockers/stats [get]
func (h *AdminLockerHandler) Stats(c echo.Context) error {
	stats, err := h.lockers.Stats(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, lockerStatsResponse{
		Total:       stats.Total,
		Available:   stats.Available,
		Occupied:    stats.Occupied,
		Maintenance: stats.Maintenance,
	})
}
