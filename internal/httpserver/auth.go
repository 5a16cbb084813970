package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/yoneltic/internal/service"
	"github.com/Skotchmaster/yoneltic/internal/transport"
	"github.com/Skotchmaster/yoneltic/pkg/logging"
	middleware "github.com/Skotchmaster/yoneltic/pkg/middleware/auth"
)

type AuthHTTP struct {
	Svc *service.AuthService
}

func (h *AuthHTTP) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.register")

	var req transport.RegisterRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("register_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	if err := h.Svc.Register(ctx, req); err != nil {
		return fail(l, "register_failed", err)
	}

	l.Info("register_success")
	return c.JSON(http.StatusOK, transport.MessageResponse{Message: "admin registered"})
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.login")

	var req transport.LoginRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("login_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	res, err := h.Svc.Login(ctx, req.Username, req.Password)
	if err != nil {
		return fail(l, "login_failed", err)
	}

	l.Info("login_success")
	return c.JSON(http.StatusOK, transport.LoginResponse{Token: res.Token, ExpiresAt: res.ExpiresAt})
}

func (h *AuthHTTP) ListAdmins(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.list")

	items, err := h.Svc.ListAdmins(ctx)
	if err != nil {
		return fail(l, "list_admins_failed", err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *AuthHTTP) GetAdmin(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.get")

	id, err := parseID(c)
	if err != nil {
		return fail(l, "get_admin_failed", err)
	}
	v, err := h.Svc.GetAdmin(ctx, id)
	if err != nil {
		return fail(l, "get_admin_failed", err)
	}
	return c.JSON(http.StatusOK, v)
}

func (h *AuthHTTP) UpdateAdmin(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.update", "actor_id", middleware.AdminID(c))

	id, err := parseID(c)
	if err != nil {
		return fail(l, "update_admin_failed", err)
	}
	var req transport.AdminUpdateRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("update_admin_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	if err := h.Svc.UpdateAdmin(ctx, id, req); err != nil {
		return fail(l, "update_admin_failed", err)
	}

	l.Info("update_admin_success", "admin_id", id)
	return c.JSON(http.StatusOK, transport.MessageResponse{Message: "admin updated"})
}

func (h *AuthHTTP) DeleteAdmin(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.delete", "actor_id", middleware.AdminID(c))

	id, err := parseID(c)
	if err != nil {
		return fail(l, "delete_admin_failed", err)
	}
	if err := h.Svc.DeleteAdmin(ctx, id); err != nil {
		return fail(l, "delete_admin_failed", err)
	}

	l.Info("delete_admin_success", "admin_id", id)
	return c.JSON(http.StatusOK, transport.MessageResponse{Message: "admin deleted"})
}
