package middleware

// identity.go holds helpers shared across middleware files.

import "github.com/labstack/echo/v4"

// operatorID returns the authenticated username for request attribution,
// or "guest" when the request carries no identity (e.g. rate limiting on
// the login route itself).
func operatorID(c echo.Context) string {
	if v, ok := c.Get("username").(string); ok && v != "" {
		return v
	}
	return "guest"
}
