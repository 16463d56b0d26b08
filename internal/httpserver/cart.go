package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	authmw "github.com/Skotchmaster/bookstore/internal/middleware/auth"
	"github.com/Skotchmaster/bookstore/internal/service"
	"github.com/Skotchmaster/bookstore/internal/transport"
	"github.com/Skotchmaster/bookstore/pkg/logging"
)

type CartHTTP struct {
	Svc *service.CartService
}

func (h *CartHTTP) AddToCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.add_to_cart")

	var req transport.AddToCartRequest
	if err := bind(c, &req); err != nil {
		return httpError(l, "add_to_cart_error", err)
	}
	item, err := h.Svc.AddToCart(ctx, authmw.UserID(c), req.BookID, req.Quantity)
	if err != nil {
		return httpError(l, "add_to_cart_error", err)
	}
	return c.JSON(http.StatusOK, item)
}

func (h *CartHTTP) GetCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.get_cart")

	lines, err := h.Svc.GetCart(ctx, authmw.UserID(c))
	if err != nil {
		return httpError(l, "get_cart_error", err)
	}
	return c.JSON(http.StatusOK, lines)
}
