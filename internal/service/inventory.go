package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Skotchmaster/bookstore/internal/cache"
	"github.com/Skotchmaster/bookstore/internal/domain"
	"github.com/Skotchmaster/bookstore/internal/events"
	"github.com/Skotchmaster/bookstore/internal/models"
	"github.com/Skotchmaster/bookstore/internal/repo"
	"github.com/Skotchmaster/bookstore/pkg/logging"
	"github.com/Skotchmaster/bookstore/pkg/metrics"
)

type InventoryService struct {
	Repo   *repo.GormRepo
	Events events.Publisher
	Cache  cache.Cache
}

func (s *InventoryService) Increment(ctx context.Context, bookID uint, by int) (*models.Book, error) {
	return s.adjust(ctx, "increment", bookID, by, s.Repo.IncrementQuantity)
}

// Decrement never lets the stock go below zero.
func (s *InventoryService) Decrement(ctx context.Context, bookID uint, by int) (*models.Book, error) {
	return s.adjust(ctx, "decrement", bookID, by, s.Repo.DecrementQuantity)
}

func (s *InventoryService) adjust(
	ctx context.Context,
	direction string,
	bookID uint,
	by int,
	apply func(context.Context, uint, int) (*models.Book, error),
) (*models.Book, error) {
	l := logging.FromContext(ctx).With("svc", "inventory."+direction, "book_id", bookID, "by", by)

	if by <= 0 {
		metrics.StockAdjustments.WithLabelValues(direction, "invalid").Inc()
		return nil, fmt.Errorf("%s_by must be positive: %w", direction, domain.ErrValidation)
	}

	book, err := apply(ctx, bookID, by)
	if err != nil {
		result := "error"
		switch {
		case errors.Is(err, domain.ErrInsufficientStock):
			result = "insufficient_stock"
		case errors.Is(err, domain.ErrNotFound):
			result = "not_found"
		}
		metrics.StockAdjustments.WithLabelValues(direction, result).Inc()
		l.Warn(direction+"_quantity_error", "result", result, "error", err)
		return nil, err
	}
	metrics.StockAdjustments.WithLabelValues(direction, "ok").Inc()
	l.Info("quantity_adjusted", "quantity", book.Quantity)
	invalidateHome(ctx, s.Cache)

	if err := s.Events.PublishEvent(ctx, events.TopicBooks, fmt.Sprint(book.ID), events.BookChanged{
		Type:     events.TypeStockAdjusted,
		BookID:   book.ID,
		Title:    book.Title,
		Quantity: book.Quantity,
		At:       time.Now().UTC(),
	}); err != nil {
		l.Warn("publish_failed", "topic", events.TopicBooks, "error", err)
	}
	return book, nil
}
