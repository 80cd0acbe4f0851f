package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/wildcloud/starter-api/internal/api/metrics"
)

// CountryHeader is the trusted edge header carrying the request's origin
// country as an ISO 3166-1 alpha-2 code.
const CountryHeader = "CF-IPCountry"

// GeoConfig drives the geographic access filter.
type GeoConfig struct {
	// BlockedCountries are rejected. Ignored when AllowedCountries is set.
	BlockedCountries []string
	// AllowedCountries, when non-empty, takes precedence: everything not
	// listed is blocked.
	AllowedCountries []string
	// BlockMessage is the human-readable text on the 403 block page.
	BlockMessage string
	// RedirectURL, when set, redirects blocked requests instead of
	// rendering the block page.
	RedirectURL string
}

// GeoFilter decides allow/block from a request's country signal. The
// decision is a pure function of (country, config); no state is kept.
type GeoFilter struct {
	blocked  map[string]struct{}
	allowed  map[string]struct{}
	message  string
	redirect string
}

// NewGeoFilter normalizes the configured country sets to uppercase.
func NewGeoFilter(cfg GeoConfig) *GeoFilter {
	return &GeoFilter{
		blocked:  countrySet(cfg.BlockedCountries),
		allowed:  countrySet(cfg.AllowedCountries),
		message:  cfg.BlockMessage,
		redirect: cfg.RedirectURL,
	}
}

func countrySet(codes []string) map[string]struct{} {
	set := make(map[string]struct{}, len(codes))
	for _, c := range codes {
		c = strings.ToUpper(strings.TrimSpace(c))
		if c != "" {
			set[c] = struct{}{}
		}
	}
	return set
}

// IsRegionBlocked reports whether the country code is denied access. An
// empty code is allowed: the filter fails open on a missing signal.
func (f *GeoFilter) IsRegionBlocked(country string) bool {
	if country == "" {
		return false
	}
	code := strings.ToUpper(strings.TrimSpace(country))

	if len(f.allowed) > 0 {
		_, ok := f.allowed[code]
		return !ok
	}

	_, blocked := f.blocked[code]
	return blocked
}

// Middleware applies the filter to every request, short-circuiting blocked
// origins with a redirect or a fixed 403 page.
func (f *GeoFilter) Middleware(log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			country := c.Request().Header.Get(CountryHeader)
			if !f.IsRegionBlocked(country) {
				return next(c)
			}

			code := strings.ToUpper(strings.TrimSpace(country))
			log.Info().Str("country", code).Str("path", c.Request().URL.Path).Msg("blocked access by region")
			metrics.GeoBlockedTotal.WithLabelValues(code).Inc()

			if f.redirect != "" {
				return c.Redirect(http.StatusFound, f.redirect)
			}

			c.Response().Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
			return c.HTML(http.StatusForbidden, f.blockPage(code))
		}
	}
}

func (f *GeoFilter) blockPage(country string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>Access Restricted</title>
</head>
<body>
<h1>Access Restricted</h1>
<p>%s</p>
<p>Region: %s</p>
</body>
</html>
`, f.message, country)
}
