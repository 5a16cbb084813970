package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/yoneltic/pkg/logging"
	"github.com/Skotchmaster/yoneltic/pkg/tokens"
)

const (
	CtxAdminID  = "admin_id"
	CtxUsername = "username"
	CtxRole     = "role"
)

type BearerAuth struct {
	Params tokens.Params
}

func NewBearerAuth(p tokens.Params) *BearerAuth {
	return &BearerAuth{Params: p}
}

type ValidatorFunc func(claims *tokens.AccessClaims) error

func (m *BearerAuth) RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return m.requireAuthWithValidator(next, func(claims *tokens.AccessClaims) error {
		if claims.Role != tokens.RoleAdmin {
			return echo.NewHTTPError(http.StatusForbidden, "admin access required")
		}
		return nil
	})
}

func (m *BearerAuth) requireAuthWithValidator(next echo.HandlerFunc, validator ValidatorFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		l := logging.FromContext(c.Request().Context()).With("mw", "bearer_auth")

		raw, ok := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
		if !ok {
			l.Warn("auth_failed", "status", 401, "reason", "missing bearer token")
			return echo.NewHTTPError(http.StatusUnauthorized, "missing bearer token")
		}

		claims, err := tokens.AccessClaimsFromToken(raw, m.Params)
		if err != nil {
			l.Warn("auth_failed", "status", 401, "reason", "invalid token", "error", err)
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
		}
		if claims.Subject == "" {
			l.Warn("auth_failed", "status", 401, "reason", "token has no subject")
			return echo.NewHTTPError(http.StatusUnauthorized, "token has no subject")
		}

		if validator != nil {
			if vErr := validator(claims); vErr != nil {
				l.Warn("auth_failed", "status", 403, "reason", "validator rejected claims", "subject", claims.Subject)
				return vErr
			}
		}

		setAdminContext(c, claims)
		return next(c)
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func setAdminContext(c echo.Context, claims *tokens.AccessClaims) {
	c.Set(CtxAdminID, claims.Subject)
	c.Set(CtxUsername, claims.Username)
	c.Set(CtxRole, claims.Role)
}

// AdminID returns the authenticated admin id, or 0 when the route is anonymous.
func AdminID(c echo.Context) uint {
	s, _ := c.Get(CtxAdminID).(string)
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0
	}
	return uint(id)
}
