package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/wildcloud/starter-api/internal/api/middleware"
)

// GeoHandler reports the origin country the edge attached to the request.
type GeoHandler struct{}

func NewGeoHandler() *GeoHandler {
	return &GeoHandler{}
}

type geoResponse struct {
	Country string `json:"country,omitempty"`
}

// Country handles GET /api/geo.
//
// @Summary      Detected origin country
// @Tags         geo
// @Produce      json
// @Success      200  {object}  geoResponse
// @Router       /api/geo [get]
func (h *GeoHandler) Country(c echo.Context) error {
	return c.JSON(http.StatusOK, geoResponse{
		Country: c.Request().Header.Get(middleware.CountryHeader),
	})
}
