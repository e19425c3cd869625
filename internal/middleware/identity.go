package middleware // middleware contains reusable HTTP middleware functions

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/notes-api/internal/policy"
	"github.com/iliyamo/notes-api/internal/utils"
)

// callerKey is the echo context key the resolved caller is stored under.
const callerKey = "caller"

// Identity resolves the caller identity for every request and is applied
// to the whole route tree. It is not a require-auth guard: reads are
// world-readable, so a request without an Authorization header proceeds as
// anonymous. A header that is present but does not verify aborts the whole
// request with 401 before any handler runs — it must never silently
// downgrade to anonymous. Per-operation authentication requirements are
// enforced by the policy package, not here.
func Identity(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := strings.TrimSpace(c.Request().Header.Get("Authorization"))
			if auth == "" {
				c.Set(callerKey, policy.Caller{})
				return next(c)
			}
			// Accept both "Bearer <token>" and a bare token value.
			raw := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
			uid, err := utils.VerifyIdentityToken(secret, raw)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credential"})
			}
			c.Set(callerKey, policy.Caller{UserID: uid})
			return next(c)
		}
	}
}

// CallerFrom extracts the caller stored by Identity. It returns the
// anonymous caller when the middleware did not run or stored nothing.
func CallerFrom(c echo.Context) policy.Caller {
	if cl, ok := c.Get(callerKey).(policy.Caller); ok {
		return cl
	}
	return policy.Caller{}
}
