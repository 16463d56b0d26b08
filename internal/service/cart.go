package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Skotchmaster/bookstore/internal/cache"
	"github.com/Skotchmaster/bookstore/internal/domain"
	"github.com/Skotchmaster/bookstore/internal/events"
	"github.com/Skotchmaster/bookstore/internal/repo"
	"github.com/Skotchmaster/bookstore/internal/transport"
	"github.com/Skotchmaster/bookstore/pkg/logging"
	"github.com/Skotchmaster/bookstore/pkg/metrics"
)

type CartService struct {
	Repo   *repo.GormRepo
	Events events.Publisher
	Cache  cache.Cache
}

// AddToCart reserves quantity copies for the user. On success the book
// stock has dropped by exactly quantity and the cart line grew by the same.
func (s *CartService) AddToCart(ctx context.Context, userID, bookID uint, quantity int) (*transport.CartItemView, error) {
	l := logging.FromContext(ctx).With("svc", "cart.add", "user_id", userID, "book_id", bookID, "quantity", quantity)

	if quantity <= 0 {
		metrics.CartAdditions.WithLabelValues("invalid").Inc()
		return nil, fmt.Errorf("quantity must be positive: %w", domain.ErrValidation)
	}

	line, book, err := s.Repo.AddToCart(ctx, userID, bookID, quantity)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInsufficientStock):
			metrics.CartAdditions.WithLabelValues("insufficient_stock").Inc()
			l.Warn("add_to_cart_error", "status", 400, "error", err)
		case errors.Is(err, domain.ErrNotFound):
			metrics.CartAdditions.WithLabelValues("not_found").Inc()
			l.Warn("add_to_cart_error", "status", 404, "error", err)
		default:
			metrics.CartAdditions.WithLabelValues("error").Inc()
			l.Error("add_to_cart_error", "status", 500, "error", err)
		}
		return nil, err
	}
	metrics.CartAdditions.WithLabelValues("ok").Inc()
	invalidateHome(ctx, s.Cache)

	if err := s.Events.PublishEvent(ctx, events.TopicCart, fmt.Sprint(userID), events.CartItemAdded{
		Type:         events.TypeCartItemAdded,
		UserID:       userID,
		BookID:       bookID,
		Quantity:     quantity,
		LineQuantity: line.Quantity,
		At:           time.Now().UTC(),
	}); err != nil {
		l.Warn("publish_failed", "topic", events.TopicCart, "error", err)
	}

	return &transport.CartItemView{
		BookID:       bookID,
		Quantity:     quantity,
		LineQuantity: line.Quantity,
		InStock:      book.Quantity,
	}, nil
}

func (s *CartService) GetCart(ctx context.Context, userID uint) ([]repo.CartLine, error) {
	if _, err := s.Repo.GetUserByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.Repo.GetCart(ctx, userID)
}
