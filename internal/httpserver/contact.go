package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/yoneltic/internal/service"
	"github.com/Skotchmaster/yoneltic/internal/transport"
	"github.com/Skotchmaster/yoneltic/internal/util"
	"github.com/Skotchmaster/yoneltic/pkg/logging"
)

type ContactHTTP struct {
	Svc *service.ContactService
}

func (h *ContactHTTP) SubmitContact(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "contact.submit")

	var req transport.ContactRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("submit_contact_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	item, err := h.Svc.Submit(ctx, req)
	if err != nil {
		return fail(l, "submit_contact_failed", err)
	}
	return c.JSON(http.StatusCreated, item)
}

func (h *ContactHTTP) ListContacts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "contact.list")

	page, err := h.Svc.List(ctx,
		util.ParseIntDefault(c.QueryParam("page"), 1),
		util.ParseIntDefault(c.QueryParam("pageSize"), util.DefaultPageSize),
	)
	if err != nil {
		return fail(l, "list_contacts_failed", err)
	}
	return c.JSON(http.StatusOK, page)
}

func (h *ContactHTTP) DeleteContact(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "contact.delete")

	id, err := parseID(c)
	if err != nil {
		return fail(l, "delete_contact_failed", err)
	}
	if err := h.Svc.Delete(ctx, id); err != nil {
		return fail(l, "delete_contact_failed", err)
	}

	l.Info("delete_contact_success", "contact_id", id)
	return c.NoContent(http.StatusNoContent)
}
