package httpserver

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/bookstore/internal/domain"
	"github.com/Skotchmaster/bookstore/internal/service"
	"github.com/Skotchmaster/bookstore/internal/transport"
	"github.com/Skotchmaster/bookstore/internal/util"
	"github.com/Skotchmaster/bookstore/pkg/logging"
)

type CatalogHTTP struct {
	Svc *service.CatalogService
}

func (h *CatalogHTTP) AddBook(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.add_book")

	var req transport.AddBookRequest
	if err := bind(c, &req); err != nil {
		return httpError(l, "add_book_error", err)
	}
	book, err := h.Svc.AddBook(ctx, req)
	if err != nil {
		return httpError(l, "add_book_error", err)
	}
	return c.JSON(http.StatusCreated, book)
}

func (h *CatalogHTTP) GetBooks(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.get_books")

	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)

	books, err := h.Svc.ListBooks(ctx, page, size)
	if err != nil {
		return httpError(l, "get_books_error", err)
	}
	return c.JSON(http.StatusOK, books)
}

func (h *CatalogHTTP) GetBook(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.get_book")

	id, err := parseID(c.Param("id"), "id")
	if err != nil {
		return httpError(l, "get_book_error", err)
	}
	book, err := h.Svc.GetBook(ctx, id)
	if err != nil {
		return httpError(l, "get_book_error", err)
	}
	return c.JSON(http.StatusOK, book)
}

func (h *CatalogHTTP) DeleteBook(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.delete_book")

	var req transport.DeleteBookRequest
	if v := c.QueryParam("special_book_id"); v != "" {
		special, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return httpError(l, "delete_book_error", fmt.Errorf("special_book_id must be a number: %w", domain.ErrValidation))
		}
		req.SpecialBookID = &special
	}
	if v := c.QueryParam("title"); v != "" {
		req.Title = &v
	}
	if v := c.QueryParam("book_id"); v != "" {
		id, err := parseID(v, "book_id")
		if err != nil {
			return httpError(l, "delete_book_error", err)
		}
		req.BookID = &id
	}

	if err := h.Svc.DeleteBook(ctx, req); err != nil {
		return httpError(l, "delete_book_error", err)
	}
	return c.JSON(http.StatusOK, transport.Message{Message: "Book deleted successfully"})
}

func (h *CatalogHTTP) Search(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.search")

	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)

	books, err := h.Svc.SearchBooks(ctx, c.QueryParam("q"), page, size)
	if err != nil {
		return httpError(l, "search_error", err)
	}
	return c.JSON(http.StatusOK, books)
}

func (h *CatalogHTTP) Home(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.home")

	home, err := h.Svc.Home(ctx)
	if err != nil {
		return httpError(l, "home_error", err)
	}
	return c.JSON(http.StatusOK, home)
}

func parseID(raw, field string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("%s must be a positive integer: %w", field, domain.ErrValidation)
	}
	return uint(id), nil
}
