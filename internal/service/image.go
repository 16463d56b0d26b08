package service

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/Skotchmaster/bookstore/internal/cache"
	"github.com/Skotchmaster/bookstore/internal/domain"
	"github.com/Skotchmaster/bookstore/internal/models"
	"github.com/Skotchmaster/bookstore/internal/repo"
	"github.com/Skotchmaster/bookstore/internal/storage"
	"github.com/Skotchmaster/bookstore/pkg/logging"
)

var imageExts = map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true}

type ImageService struct {
	Repo    *repo.GormRepo
	Storage storage.Storage
	Cache   cache.Cache
}

func (s *ImageService) Upload(ctx context.Context, bookID uint, filename string, r io.Reader) (*models.Image, error) {
	l := logging.FromContext(ctx).With("svc", "image.upload", "book_id", bookID)

	if _, err := s.Repo.GetBook(ctx, bookID); err != nil {
		return nil, err
	}
	if !imageExts[strings.ToLower(filepath.Ext(filename))] {
		return nil, fmt.Errorf("unsupported image type %q: %w", filepath.Ext(filename), domain.ErrValidation)
	}

	url, err := s.Storage.Save(filename, r)
	if err != nil {
		l.Error("upload_image_error", "error", err)
		return nil, err
	}
	img := models.Image{BookID: bookID, PhotoURL: url}
	if err := s.Repo.AddImage(ctx, &img); err != nil {
		_ = s.Storage.Remove(url)
		return nil, err
	}
	l.Info("image_uploaded", "url", url)
	invalidateHome(ctx, s.Cache)
	return &img, nil
}

func (s *ImageService) DeleteImages(ctx context.Context, bookID uint) (int, error) {
	l := logging.FromContext(ctx).With("svc", "image.delete", "book_id", bookID)

	urls, err := s.Repo.DeleteImages(ctx, bookID)
	if err != nil {
		return 0, err
	}
	for _, url := range urls {
		if err := s.Storage.Remove(url); err != nil {
			l.Warn("remove_image_failed", "url", url, "error", err)
		}
	}
	invalidateHome(ctx, s.Cache)
	return len(urls), nil
}
