package handler

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/wildcloud/starter-api/internal/api/middleware"
	"github.com/wildcloud/starter-api/internal/core/domain"
)

// ctxUserID extracts the user id the middleware pipeline injected into the
// request headers. Returns 0 when the request is anonymous.
func ctxUserID(c echo.Context) int64 {
	raw := c.Request().Header.Get(middleware.HeaderUserID)
	if raw == "" {
		return 0
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0
	}
	return id
}

// requireUserID is the fast-fail check for handlers behind route
// protection: presence of the header proves the middleware resolved a
// session for this request.
func requireUserID(c echo.Context) (int64, error) {
	id := ctxUserID(c)
	if id == 0 {
		return 0, domain.NewError(domain.CodeAuthRequired, "")
	}
	return id, nil
}
