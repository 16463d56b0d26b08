package repo

import (
	"context"

	"github.com/Skotchmaster/bookstore/internal/models"
)

func (r *GormRepo) AddImage(ctx context.Context, img *models.Image) error {
	if _, err := r.GetBook(ctx, img.BookID); err != nil {
		return err
	}
	return r.DB.WithContext(ctx).Create(img).Error
}

func (r *GormRepo) Photos(ctx context.Context, bookIDs []uint) (map[uint][]string, error) {
	out := make(map[uint][]string, len(bookIDs))
	if len(bookIDs) == 0 {
		return out, nil
	}
	var rows []models.Image
	if err := r.DB.WithContext(ctx).Where("book_id IN ?", bookIDs).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.BookID] = append(out[row.BookID], row.PhotoURL)
	}
	return out, nil
}

// DeleteImages drops every image row of the book and returns the removed urls.
func (r *GormRepo) DeleteImages(ctx context.Context, bookID uint) ([]string, error) {
	if _, err := r.GetBook(ctx, bookID); err != nil {
		return nil, err
	}
	var urls []string
	if err := r.DB.WithContext(ctx).Model(&models.Image{}).Where("book_id = ?", bookID).Pluck("photo_url", &urls).Error; err != nil {
		return nil, err
	}
	if err := r.DB.WithContext(ctx).Where("book_id = ?", bookID).Delete(&models.Image{}).Error; err != nil {
		return nil, err
	}
	return urls, nil
}
