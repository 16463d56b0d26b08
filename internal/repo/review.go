package repo

import (
	"context"
	"fmt"

	"github.com/Skotchmaster/bookstore/internal/domain"
	"github.com/Skotchmaster/bookstore/internal/models"
)

// AddReview stores one review per user and book.
func (r *GormRepo) AddReview(ctx context.Context, rv *models.Review) error {
	if _, err := r.GetBook(ctx, rv.BookID); err != nil {
		return err
	}
	var n int64
	if err := r.DB.WithContext(ctx).Model(&models.Review{}).
		Where("user_id = ? AND book_id = ?", rv.UserID, rv.BookID).
		Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return fmt.Errorf("you already reviewed this book: %w", domain.ErrConflict)
	}
	return translate(r.DB.WithContext(ctx).Create(rv).Error)
}

func (r *GormRepo) ListReviews(ctx context.Context, bookID uint) ([]models.Review, error) {
	reviews := make([]models.Review, 0)
	if err := r.DB.WithContext(ctx).Where("book_id = ?", bookID).Order("review_date DESC").Order("id DESC").Find(&reviews).Error; err != nil {
		return nil, err
	}
	return reviews, nil
}
