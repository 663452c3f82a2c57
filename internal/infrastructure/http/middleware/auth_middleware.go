package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	pkgjwt "github.com/slidecast-team/slidecast/pkg/jwt"
)

// ContextKey is the type for context keys
type ContextKey string

const (
	// ClientContextKey is the echo context key for the authenticated API client
	ClientContextKey = "api_client"
)

// EchoAuth returns an Echo middleware that validates the bearer token and
// sets the client name into the Echo context. Pass a nil manager to
// disable authentication entirely (no JWT secret configured).
func EchoAuth(manager *pkgjwt.Manager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if manager == nil {
				return next(c)
			}

			token := extractToken(c.Request())
			if token == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Missing authorization token")
			}

			claims, err := manager.ValidateToken(token)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid or expired token")
			}

			c.Set(ClientContextKey, claims.Client)
			return next(c)
		}
	}
}

func extractToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader != "" {
		// Expected format: "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) == 2 && strings.ToLower(parts[0]) == "bearer" {
			return parts[1]
		}
	}

	cookie, err := r.Cookie("access_token")
	if err == nil {
		return cookie.Value
	}

	return ""
}
