package ratelimit

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/Skotchmaster/yoneltic/pkg/logging"
)

// ByIP limits requests per client IP within scope.
func ByIP(store Store, scope string) echo.MiddlewareFunc {
	return echomw.RateLimiterWithConfig(echomw.RateLimiterConfig{
		Store: store,
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return scope + ":" + c.RealIP(), nil
		},
		DenyHandler: func(c echo.Context, identifier string, _ error) error {
			c.Response().Header().Set("Retry-After", strconv.Itoa(retrySeconds(store.RetryAfter(identifier))))
			logging.FromContext(c.Request().Context()).Warn("ratelimit_exceeded",
				"mw", "ratelimit", "scope", scope, "status", 429, "remote_ip", c.RealIP())
			return echo.NewHTTPError(http.StatusTooManyRequests, "too many attempts, try again later")
		},
	})
}
