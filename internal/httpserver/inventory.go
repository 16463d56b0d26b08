package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/bookstore/internal/service"
	"github.com/Skotchmaster/bookstore/internal/transport"
	"github.com/Skotchmaster/bookstore/pkg/logging"
)

type InventoryHTTP struct {
	Svc *service.InventoryService
}

func (h *InventoryHTTP) Increment(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "inventory.increment")

	var req transport.QuantityRequest
	if err := bindQuery(c, &req); err != nil {
		return httpError(l, "increment_quantity_error", err)
	}
	book, err := h.Svc.Increment(ctx, req.BookID, req.IncrementBy)
	if err != nil {
		return httpError(l, "increment_quantity_error", err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message":  "Book quantity incremented successfully",
		"quantity": book.Quantity,
	})
}

func (h *InventoryHTTP) Decrement(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "inventory.decrement")

	var req transport.QuantityRequest
	if err := bindQuery(c, &req); err != nil {
		return httpError(l, "decrement_quantity_error", err)
	}
	book, err := h.Svc.Decrement(ctx, req.BookID, req.DecrementBy)
	if err != nil {
		return httpError(l, "decrement_quantity_error", err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message":  "Book quantity decremented successfully",
		"quantity": book.Quantity,
	})
}
