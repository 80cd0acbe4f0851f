package middleware

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/wildcloud/starter-api/internal/core/domain"
	"github.com/wildcloud/starter-api/internal/core/ports"
)

const (
	// TokenCookie is the session cookie carrying the signed token.
	TokenCookie = "starter_token"
	// HeaderUserID is the request header the pipeline injects the resolved
	// user id into for downstream handlers.
	HeaderUserID = "X-User-Id"

	signInPath = "/signin"
	homePath   = "/"
)

// Verifier resolves a signed token into an authenticated identity.
type Verifier interface {
	Verify(ctx context.Context, token string) (*ports.Identity, error)
}

// RouteRules classifies request paths into the three disjoint sets the
// decision table operates on.
type RouteRules struct {
	ProtectedPages []string
	ProtectedAPIs  []string
	AuthPages      []string
}

// SessionGuard performs token/session resolution and route protection.
//
// Decision table per request:
//
//	anonymous + protected API   -> 401
//	anonymous + protected page  -> redirect to sign-in with callbackUrl
//	signed-in + auth-only page  -> redirect home
//	signed-in + anything        -> continue, user id injected as header
//	anonymous + unclassified    -> continue without identity
//
// Internal failures during resolution degrade to continue-without-identity:
// a broken cache must not take down public routes. The verifier itself
// still fails closed, so protected routes stay protected.
func SessionGuard(verifier Verifier, rules RouteRules, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			// Never trust a client-supplied user id header.
			c.Request().Header.Del(HeaderUserID)

			identity := resolveIdentity(c, verifier, log)
			path := c.Request().URL.Path

			if identity == nil {
				switch {
				case matchRoute(path, rules.ProtectedAPIs):
					return domain.NewError(domain.CodeAuthRequired, "")
				case matchRoute(path, rules.ProtectedPages):
					target := signInPath + "?callbackUrl=" + url.QueryEscape(path)
					return c.Redirect(http.StatusFound, target)
				}
				return next(c)
			}

			if matchRoute(path, rules.AuthPages) {
				return c.Redirect(http.StatusFound, homePath)
			}

			c.Request().Header.Set(HeaderUserID, strconv.FormatInt(identity.UserID, 10))
			c.Set("identity", identity)
			return next(c)
		}
	}
}

// resolveIdentity extracts and verifies the request token. Any failure,
// expected or not, yields nil: the wrapper fails open and leaves rejection
// to the route rules.
func resolveIdentity(c echo.Context, verifier Verifier, log zerolog.Logger) (identity *ports.Identity) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Any("panic", r).Str("path", c.Request().URL.Path).Msg("identity resolution panicked")
			identity = nil
		}
	}()

	token := extractToken(c)
	if token == "" {
		return nil
	}

	identity, err := verifier.Verify(c.Request().Context(), token)
	if err != nil {
		log.Debug().Err(err).Str("path", c.Request().URL.Path).Msg("request not authenticated")
		return nil
	}
	return identity
}

// extractToken reads the session cookie, falling back to a bearer
// Authorization header.
func extractToken(c echo.Context) string {
	if cookie, err := c.Cookie(TokenCookie); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	auth := c.Request().Header.Get("Authorization")
	parts := strings.SplitN(auth, " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
		return parts[1]
	}
	return ""
}

// matchRoute reports whether path equals a pattern or sits under it.
func matchRoute(path string, patterns []string) bool {
	for _, p := range patterns {
		if path == p || strings.HasPrefix(path, p+"/") {
			return true
		}
	}
	return false
}
