package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	pkgdb "github.com/Skotchmaster/yoneltic/pkg/db"
	"github.com/Skotchmaster/yoneltic/pkg/logging"
	middleware "github.com/Skotchmaster/yoneltic/pkg/middleware/auth"
	"github.com/Skotchmaster/yoneltic/pkg/middleware/ratelimit"
)

type Deps struct {
	DB           *gorm.DB
	Auth         *AuthHTTP
	Categories   *CategoryHTTP
	Catalog      *CatalogHTTP
	Slider       *SliderHTTP
	Contacts     *ContactHTTP
	Bearer       *middleware.BearerAuth
	LoginLimiter ratelimit.Store
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error {
		if err := pkgdb.Ping(c.Request().Context(), d.DB); err != nil {
			logging.FromContext(c.Request().Context()).Error("readiness_failed", "error", err)
			return c.NoContent(http.StatusServiceUnavailable)
		}
		return c.NoContent(http.StatusOK)
	})

	api := e.Group("/api")
	admin := d.Bearer.RequireAdmin

	auth := api.Group("/auth")
	if d.LoginLimiter != nil {
		auth.Use(ratelimit.ByIP(d.LoginLimiter, "auth"))
	}
	auth.POST("/register", d.Auth.Register)
	auth.POST("/login", d.Auth.Login)

	admins := api.Group("/admins", admin)
	admins.GET("", d.Auth.ListAdmins)
	admins.GET("/:id", d.Auth.GetAdmin)
	admins.PUT("/:id", d.Auth.UpdateAdmin)
	admins.DELETE("/:id", d.Auth.DeleteAdmin)

	categories := api.Group("/categories")
	categories.GET("", d.Categories.ListCategories)
	categories.GET("/:id", d.Categories.GetCategory)
	categories.POST("", d.Categories.CreateCategory, admin)
	categories.PUT("/:id", d.Categories.UpdateCategory, admin)
	categories.DELETE("/:id", d.Categories.DeleteCategory, admin)

	products := api.Group("/products")
	products.GET("", d.Catalog.GetProducts)
	products.GET("/search", d.Catalog.SearchProducts)
	products.GET("/:id", d.Catalog.GetProduct)
	products.POST("", d.Catalog.CreateProduct, admin)
	products.PUT("/:id", d.Catalog.UpdateProduct, admin)
	products.DELETE("/:id", d.Catalog.DeleteProduct, admin)

	slider := api.Group("/sliderimages")
	slider.GET("", d.Slider.ListSliderImages)
	slider.POST("", d.Slider.UploadSliderImage, admin)
	slider.PUT("/:id", d.Slider.UpdateSliderImage, admin)
	slider.DELETE("/:id", d.Slider.DeleteSliderImage, admin)

	contacts := api.Group("/contacts")
	contacts.POST("", d.Contacts.SubmitContact)
	contacts.GET("", d.Contacts.ListContacts, admin)
	contacts.DELETE("/:id", d.Contacts.DeleteContact, admin)
}
