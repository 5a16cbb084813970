package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/yoneltic/internal/service"
	"github.com/Skotchmaster/yoneltic/internal/transport"
	"github.com/Skotchmaster/yoneltic/internal/util"
	"github.com/Skotchmaster/yoneltic/pkg/logging"
)

type CatalogHTTP struct {
	Svc *service.CatalogService
}

func (h *CatalogHTTP) GetProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.get_products")

	q := transport.ProductQuery{
		Page:        util.ParseIntDefault(c.QueryParam("page"), 1),
		PageSize:    util.ParseIntDefault(c.QueryParam("pageSize"), util.DefaultPageSize),
		CategoryID:  c.QueryParam("categoryId"),
		SubCategory: c.QueryParam("subCategory"),
		Search:      c.QueryParam("search"),
	}

	page, err := h.Svc.List(ctx, q)
	if err != nil {
		return fail(l, "get_products_failed", err)
	}
	return c.JSON(http.StatusOK, page)
}

func (h *CatalogHTTP) SearchProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.search")

	page, err := h.Svc.Search(ctx,
		c.QueryParam("q"),
		util.ParseIntDefault(c.QueryParam("page"), 1),
		util.ParseIntDefault(c.QueryParam("pageSize"), util.DefaultPageSize),
	)
	if err != nil {
		return fail(l, "search_products_failed", err)
	}
	return c.JSON(http.StatusOK, page)
}

func (h *CatalogHTTP) GetProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.get_product")

	id, err := parseID(c)
	if err != nil {
		return fail(l, "get_product_failed", err)
	}
	p, err := h.Svc.Get(ctx, id)
	if err != nil {
		return fail(l, "get_product_failed", err)
	}
	return c.JSON(http.StatusOK, p)
}

func productForm(c echo.Context) (transport.ProductInput, error) {
	in := transport.ProductInput{
		Name:               c.FormValue("name"),
		Description:        c.FormValue("description"),
		CloudinaryPublicID: c.FormValue("cloudinaryPublicId"),
	}
	var err error
	if in.CategoryID, err = optionalUint(c, "categoryId"); err != nil {
		return in, err
	}
	if in.SubCategoryID, err = optionalUint(c, "subCategoryId"); err != nil {
		return in, err
	}
	return in, nil
}

func (h *CatalogHTTP) CreateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.create")

	in, err := productForm(c)
	if err != nil {
		return fail(l, "create_product_failed", err)
	}
	file, err := formImage(c, "image")
	if err != nil {
		return fail(l, "create_product_failed", err)
	}

	p, err := h.Svc.Create(ctx, in, file)
	if err != nil {
		return fail(l, "create_product_failed", err)
	}

	l.Info("create_product_success", "product_id", p.ID)
	return c.JSON(http.StatusCreated, p)
}

func (h *CatalogHTTP) UpdateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.update")

	id, err := parseID(c)
	if err != nil {
		return fail(l, "update_product_failed", err)
	}
	in, err := productForm(c)
	if err != nil {
		return fail(l, "update_product_failed", err)
	}
	file, err := formImage(c, "image")
	if err != nil {
		return fail(l, "update_product_failed", err)
	}

	if err := h.Svc.Update(ctx, id, in, file); err != nil {
		return fail(l, "update_product_failed", err)
	}

	l.Info("update_product_success", "product_id", id)
	return c.NoContent(http.StatusNoContent)
}

func (h *CatalogHTTP) DeleteProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.delete")

	id, err := parseID(c)
	if err != nil {
		return fail(l, "delete_product_failed", err)
	}
	if err := h.Svc.Delete(ctx, id); err != nil {
		return fail(l, "delete_product_failed", err)
	}

	l.Info("delete_product_success", "product_id", id)
	return c.NoContent(http.StatusNoContent)
}
