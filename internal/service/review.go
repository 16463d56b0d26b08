package service

import (
	"context"
	"fmt"

	"github.com/Skotchmaster/bookstore/internal/cache"
	"github.com/Skotchmaster/bookstore/internal/domain"
	"github.com/Skotchmaster/bookstore/internal/models"
	"github.com/Skotchmaster/bookstore/internal/repo"
	"github.com/Skotchmaster/bookstore/internal/transport"
	"github.com/Skotchmaster/bookstore/pkg/logging"
)

type ReviewService struct {
	Repo  *repo.GormRepo
	Cache cache.Cache
}

func (s *ReviewService) AddReview(ctx context.Context, userID uint, req transport.AddReviewRequest) (*models.Review, error) {
	l := logging.FromContext(ctx).With("svc", "review.add", "user_id", userID, "book_id", req.BookID)

	if _, err := s.Repo.GetUserByID(ctx, userID); err != nil {
		return nil, err
	}
	if _, err := s.Repo.GetBook(ctx, req.BookID); err != nil {
		return nil, err
	}
	if req.Rating < 1 || req.Rating > 5 {
		return nil, fmt.Errorf("rating must be between 1 and 5: %w", domain.ErrValidation)
	}

	rv := models.Review{
		UserID:  userID,
		BookID:  req.BookID,
		Rating:  req.Rating,
		Comment: req.Comment,
	}
	if err := s.Repo.AddReview(ctx, &rv); err != nil {
		l.Warn("add_review_error", "error", err)
		return nil, err
	}
	invalidateHome(ctx, s.Cache)
	return &rv, nil
}

func (s *ReviewService) ListReviews(ctx context.Context, bookID uint) ([]models.Review, error) {
	if _, err := s.Repo.GetBook(ctx, bookID); err != nil {
		return nil, err
	}
	return s.Repo.ListReviews(ctx, bookID)
}
