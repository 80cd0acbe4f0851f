package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

func TestGeoFilter_IsRegionBlocked_BlockedSet(t *testing.T) {
	f := NewGeoFilter(GeoConfig{BlockedCountries: []string{"CN", "ru"}})

	for _, code := range []string{"CN", "cn", "Cn", "RU", "ru"} {
		if !f.IsRegionBlocked(code) {
			t.Fatalf("expected %q to be blocked", code)
		}
	}
	for _, code := range []string{"US", "de", "JP"} {
		if f.IsRegionBlocked(code) {
			t.Fatalf("expected %q to be allowed", code)
		}
	}
}

func TestGeoFilter_IsRegionBlocked_MissingCountry(t *testing.T) {
	f := NewGeoFilter(GeoConfig{BlockedCountries: []string{"CN"}})

	if f.IsRegionBlocked("") {
		t.Fatalf("missing country signal must be allowed")
	}
}

func TestGeoFilter_IsRegionBlocked_AllowListPrecedence(t *testing.T) {
	f := NewGeoFilter(GeoConfig{
		BlockedCountries: []string{"CN"},
		AllowedCountries: []string{"US", "ca"},
	})

	// Only listed countries pass; the blocked set is ignored entirely.
	for _, code := range []string{"US", "us", "CA"} {
		if f.IsRegionBlocked(code) {
			t.Fatalf("expected %q to be allowed by the allow-list", code)
		}
	}
	for _, code := range []string{"CN", "DE", "JP"} {
		if !f.IsRegionBlocked(code) {
			t.Fatalf("expected %q to be blocked by the allow-list", code)
		}
	}
}

func TestGeoFilter_Middleware_BlockPage(t *testing.T) {
	e := echo.New()
	f := NewGeoFilter(GeoConfig{
		BlockedCountries: []string{"CN"},
		BlockMessage:     "access restricted",
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(CountryHeader, "cn")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	mw := f.Middleware(zerolog.Nop())
	handler := mw(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "access restricted") {
		t.Fatalf("block page missing message: %s", body)
	}
	if !strings.Contains(body, "CN") {
		t.Fatalf("block page missing detected country: %s", body)
	}
	if cc := rec.Header().Get("Cache-Control"); !strings.Contains(cc, "no-store") {
		t.Fatalf("expected no-store cache headers, got %q", cc)
	}
}

func TestGeoFilter_Middleware_RedirectPrecedence(t *testing.T) {
	e := echo.New()
	f := NewGeoFilter(GeoConfig{
		BlockedCountries: []string{"CN"},
		BlockMessage:     "unused",
		RedirectURL:      "https://example.com/blocked",
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(CountryHeader, "CN")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	mw := f.Middleware(zerolog.Nop())
	handler := mw(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", rec.Code)
	}
	if loc := rec.Header().Get(echo.HeaderLocation); loc != "https://example.com/blocked" {
		t.Fatalf("unexpected redirect target: %q", loc)
	}
}

func TestGeoFilter_Middleware_AllowedPassesThrough(t *testing.T) {
	e := echo.New()
	f := NewGeoFilter(GeoConfig{BlockedCountries: []string{"CN"}})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(CountryHeader, "US")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	mw := f.Middleware(zerolog.Nop())
	handler := mw(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
}
