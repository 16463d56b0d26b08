package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	authmw "github.com/Skotchmaster/bookstore/internal/middleware/auth"
	"github.com/Skotchmaster/bookstore/internal/service"
	"github.com/Skotchmaster/bookstore/internal/transport"
	"github.com/Skotchmaster/bookstore/pkg/logging"
)

type ReviewHTTP struct {
	Svc *service.ReviewService
}

func (h *ReviewHTTP) AddReview(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "review.add")

	var req transport.AddReviewRequest
	if err := bind(c, &req); err != nil {
		return httpError(l, "add_review_error", err)
	}
	rv, err := h.Svc.AddReview(ctx, authmw.UserID(c), req)
	if err != nil {
		return httpError(l, "add_review_error", err)
	}
	return c.JSON(http.StatusCreated, rv)
}

func (h *ReviewHTTP) ListReviews(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "review.list")

	bookID, err := parseID(c.Param("book_id"), "book_id")
	if err != nil {
		return httpError(l, "list_reviews_error", err)
	}
	reviews, err := h.Svc.ListReviews(ctx, bookID)
	if err != nil {
		return httpError(l, "list_reviews_error", err)
	}
	return c.JSON(http.StatusOK, reviews)
}
