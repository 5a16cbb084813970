package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/yoneltic/internal/service"
	"github.com/Skotchmaster/yoneltic/pkg/logging"
)

type SliderHTTP struct {
	Svc *service.SliderService
}

func (h *SliderHTTP) ListSliderImages(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "slider.list")

	items, err := h.Svc.List(ctx)
	if err != nil {
		return fail(l, "list_slider_images_failed", err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *SliderHTTP) UploadSliderImage(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "slider.upload")

	file, err := formImage(c, "image")
	if err != nil {
		return fail(l, "upload_slider_image_failed", err)
	}
	item, err := h.Svc.Upload(ctx, file)
	if err != nil {
		return fail(l, "upload_slider_image_failed", err)
	}

	l.Info("upload_slider_image_success", "slider_id", item.ID)
	return c.JSON(http.StatusOK, item)
}

func (h *SliderHTTP) UpdateSliderImage(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "slider.update")

	id, err := parseID(c)
	if err != nil {
		return fail(l, "update_slider_image_failed", err)
	}
	file, err := formImage(c, "image")
	if err != nil {
		return fail(l, "update_slider_image_failed", err)
	}
	item, err := h.Svc.Update(ctx, id, file)
	if err != nil {
		return fail(l, "update_slider_image_failed", err)
	}

	l.Info("update_slider_image_success", "slider_id", id)
	return c.JSON(http.StatusOK, item)
}

func (h *SliderHTTP) DeleteSliderImage(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "slider.delete")

	id, err := parseID(c)
	if err != nil {
		return fail(l, "delete_slider_image_failed", err)
	}
	if err := h.Svc.Delete(ctx, id); err != nil {
		return fail(l, "delete_slider_image_failed", err)
	}

	l.Info("delete_slider_image_success", "slider_id", id)
	return c.NoContent(http.StatusNoContent)
}
