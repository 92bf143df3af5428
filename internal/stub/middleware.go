package stub

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

const claimsContextKey = "claims"

// authMiddleware validates the bearer token and injects its claims into the
// echo context. Revoked tokens are rejected even when their signature and
// expiry still check out.
func authMiddleware(issuer *Issuer, revoker *Revoker) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				TokenRejectionsTotal.WithLabelValues("missing").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				TokenRejectionsTotal.WithLabelValues("malformed").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			claims, err := issuer.Verify(parts[1])
			if err != nil {
				TokenRejectionsTotal.WithLabelValues("invalid").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			revoked, err := revoker.IsRevoked(c.Request().Context(), claims.ID)
			if err != nil {
				return err
			}
			if revoked {
				TokenRejectionsTotal.WithLabelValues("revoked").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "token revoked")
			}

			c.Set(claimsContextKey, claims)
			return next(c)
		}
	}
}

// claimsFrom returns the verified token claims the auth middleware stored.
func claimsFrom(c echo.Context) (*tokenClaims, bool) {
	claims, ok := c.Get(claimsContextKey).(*tokenClaims)
	return claims, ok
}
