package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/citylockers/locker-system/internal/core/ports"
)

// ctxCaller extracts the auth claims injected by the Auth middleware and
// performs a fast-fail check before any service call: both user id and role
// must be present, which proves the middleware ran and the token carried a
// usable identity.
func ctxCaller(c echo.Context) (ports.Caller, error) {
	userID, _ := c.Get("user_id").(string)
	role, _ := c.Get("role").(string)
	if userID == "" || role == "" {
		return ports.Caller{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return ports.Caller{UserID: userID, Role: role}, nil
}
