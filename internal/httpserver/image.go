package httpserver

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/bookstore/internal/domain"
	"github.com/Skotchmaster/bookstore/internal/service"
	"github.com/Skotchmaster/bookstore/internal/transport"
	"github.com/Skotchmaster/bookstore/pkg/logging"
)

type ImageHTTP struct {
	Svc *service.ImageService
}

func (h *ImageHTTP) Upload(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "image.upload")

	bookID, err := parseID(c.QueryParam("book_id"), "book_id")
	if err != nil {
		return httpError(l, "upload_image_error", err)
	}
	fh, err := c.FormFile("file")
	if err != nil {
		return httpError(l, "upload_image_error", fmt.Errorf("file is required: %w", domain.ErrValidation))
	}
	src, err := fh.Open()
	if err != nil {
		return httpError(l, "upload_image_error", err)
	}
	defer src.Close()

	img, err := h.Svc.Upload(ctx, bookID, fh.Filename, src)
	if err != nil {
		return httpError(l, "upload_image_error", err)
	}
	return c.JSON(http.StatusCreated, img)
}

func (h *ImageHTTP) Delete(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "image.delete")

	bookID, err := parseID(c.QueryParam("book_id"), "book_id")
	if err != nil {
		return httpError(l, "delete_image_error", err)
	}
	if _, err := h.Svc.DeleteImages(ctx, bookID); err != nil {
		return httpError(l, "delete_image_error", err)
	}
	return c.JSON(http.StatusOK, transport.Message{Message: "Images deleted successfully"})
}
