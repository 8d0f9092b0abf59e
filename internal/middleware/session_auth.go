package middleware

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/mhasan-dev/devgram/backend/internal/auth"
	"github.com/mhasan-dev/devgram/backend/internal/models"
)

// BearerSessionToken extracts the opaque session token from a request's
// Authorization header. Returns "" when the header is absent or malformed.
func BearerSessionToken(c echo.Context, jwtSecret string) string {
	authHeader := c.Request().Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}

	// Expecting "Bearer <token>"
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return ""
	}

	claims := &models.JwtSessionClaims{}
	token, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, echo.NewHTTPError(http.StatusUnauthorized, "Unexpected signing method")
		}
		return []byte(jwtSecret), nil
	})
	if err != nil || !token.Valid {
		return ""
	}

	return claims.SessionToken
}

// SessionAuthMiddleware runs the session check on every request and rejects
// unauthenticated ones. The resolved identity is stored on the request
// context for handlers.
func SessionAuthMiddleware(checker *auth.Checker, jwtSecret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sessionToken := BearerSessionToken(c, jwtSecret)
			if sessionToken == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Missing or invalid Authorization header")
			}

			result := checker.CheckAuthUser(sessionToken)
			if !result.Authenticated() {
				return echo.NewHTTPError(http.StatusUnauthorized, "Session is not valid")
			}

			c.Set("authUser", result.User)
			c.Set("sessionToken", sessionToken)

			return next(c)
		}
	}
}
