package middleware // middleware provides shared request processing for handlers

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// JWTAuth returns an Echo middleware that validates a Bearer access token
// and injects the token's claims into the request context.  Handlers read
// the authenticated operator via c.Get("account_id"), c.Get("username"),
// c.Get("display_name") and c.Get("role"); the display name is what gets
// recorded as operator_name on allocation audit rows.
func JWTAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
			}
			raw := strings.TrimPrefix(auth, "Bearer ")

			tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, echo.ErrUnauthorized
				}
				return []byte(secret), nil
			})
			if err != nil || !tok.Valid {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
			}
			claims, ok := tok.Claims.(jwt.MapClaims)
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid claims"})
			}

			// Numeric claims decode as float64; normalize before storing.
			if sub, ok := claims["sub"].(float64); ok {
				c.Set("account_id", uint64(sub))
			}
			if v, ok := claims["uname"].(string); ok {
				c.Set("username", v)
			}
			if v, ok := claims["name"].(string); ok {
				c.Set("display_name", v)
			}
			if v, ok := claims["role"].(string); ok {
				c.Set("role", v)
			}
			return next(c)
		}
	}
}
