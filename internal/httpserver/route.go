package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	authmw "github.com/Skotchmaster/bookstore/internal/middleware/auth"
	"github.com/Skotchmaster/bookstore/pkg/metrics"
)

type Deps struct {
	Guard     *authmw.Guard
	Auth      *AuthHTTP
	Catalog   *CatalogHTTP
	Inventory *InventoryHTTP
	Cart      *CartHTTP
	Reviews   *ReviewHTTP
	Images    *ImageHTTP
	// ImageDir is served under /images when set.
	ImageDir string
	// CORSOrigins lists allowed browser origins; empty allows any.
	CORSOrigins []string
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/metrics", metrics.Handler())

	if d.ImageDir != "" {
		e.Static("/images", d.ImageDir)
	}

	g := d.Guard

	auth := e.Group("/auth")
	auth.POST("/registration", d.Auth.Register)
	auth.POST("/login", d.Auth.Login)
	auth.PATCH("/edit-profile", d.Auth.EditProfile, g.RequireAuth)
	auth.GET("/user_info", d.Auth.UserInfo, g.RequireAuth)
	auth.GET("/all_users_info", d.Auth.AllUsers, g.RequireAdmin)
	auth.POST("/superuser", d.Auth.SetSuperuser, g.RequireAdmin)

	e.GET("/get-books", d.Catalog.GetBooks)
	e.GET("/books/:id", d.Catalog.GetBook)
	e.GET("/search", d.Catalog.Search)
	e.GET("/home", d.Catalog.Home)
	e.GET("/reviews/:book_id", d.Reviews.ListReviews)

	e.POST("/add-book", d.Catalog.AddBook, g.RequireAdmin)
	e.DELETE("/delete-book", d.Catalog.DeleteBook, g.RequireAdmin)
	e.POST("/upload-image", d.Images.Upload, g.RequireAdmin)
	e.DELETE("/delete-image", d.Images.Delete, g.RequireAdmin)

	e.PATCH("/increment-quantity", d.Inventory.Increment, g.RequireStockManager)
	e.PATCH("/decrement-quantity", d.Inventory.Decrement, g.RequireStockManager)

	e.POST("/add-to-cart", d.Cart.AddToCart, g.RequireAuth)
	e.GET("/get-shopping-cart", d.Cart.GetCart, g.RequireAuth)
	e.POST("/add-review", d.Reviews.AddReview, g.RequireAuth)
}
