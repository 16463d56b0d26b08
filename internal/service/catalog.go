package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Skotchmaster/bookstore/internal/cache"
	"github.com/Skotchmaster/bookstore/internal/domain"
	"github.com/Skotchmaster/bookstore/internal/events"
	"github.com/Skotchmaster/bookstore/internal/models"
	"github.com/Skotchmaster/bookstore/internal/repo"
	"github.com/Skotchmaster/bookstore/internal/search"
	"github.com/Skotchmaster/bookstore/internal/storage"
	"github.com/Skotchmaster/bookstore/internal/transport"
	"github.com/Skotchmaster/bookstore/internal/util"
	"github.com/Skotchmaster/bookstore/pkg/logging"
	"github.com/Skotchmaster/bookstore/pkg/metrics"
)

const homeSectionSize = 10

type CatalogService struct {
	Repo     *repo.GormRepo
	Events   events.Publisher
	Index    search.Index // nil means search falls back to the database
	Cache    cache.Cache
	CacheTTL time.Duration
	Storage  storage.Storage
}

func (s *CatalogService) AddBook(ctx context.Context, req transport.AddBookRequest) (*transport.BookView, error) {
	l := logging.FromContext(ctx).With("svc", "catalog.add_book")

	published, err := validateBook(req)
	if err != nil {
		return nil, err
	}

	book := models.Book{
		SpecialBookID:   req.SpecialBookID,
		Barcode:         req.Barcode,
		Title:           strings.TrimSpace(req.Title),
		Author:          strings.TrimSpace(req.Author),
		Category:        req.Category,
		Language:        req.Language,
		PublicationDate: published,
		Description:     req.Description,
		Price:           req.Price,
		Quantity:        req.Quantity,
	}
	if err := s.Repo.CreateBook(ctx, &book, []string{req.Age}); err != nil {
		l.Warn("add_book_error", "title", book.Title, "error", err)
		return nil, err
	}
	l.Info("book_created", "book_id", book.ID, "title", book.Title)

	if s.Index != nil {
		if err := s.Index.IndexBook(ctx, searchDoc(&book)); err != nil {
			l.Warn("index_failed", "book_id", book.ID, "error", err)
		}
	}
	s.invalidateHome(ctx)
	s.publish(ctx, events.BookChanged{Type: events.TypeBookCreated, BookID: book.ID, Title: book.Title, Quantity: book.Quantity})

	views, err := s.views(ctx, []models.Book{book})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

func validateBook(req transport.AddBookRequest) (time.Time, error) {
	if err := domain.OneOf(req.Age, domain.AgeGroups, "age"); err != nil {
		return time.Time{}, err
	}
	if err := domain.OneOf(req.Category, domain.Categories, "category"); err != nil {
		return time.Time{}, err
	}
	if err := domain.OneOf(req.Language, domain.Languages, "language"); err != nil {
		return time.Time{}, err
	}
	if err := domain.ValidateBarcode(req.Barcode); err != nil {
		return time.Time{}, err
	}
	if req.Quantity < 0 {
		return time.Time{}, fmt.Errorf("quantity cannot be negative: %w", domain.ErrValidation)
	}
	if req.Price < 0 {
		return time.Time{}, fmt.Errorf("price cannot be negative: %w", domain.ErrValidation)
	}
	return domain.ParsePublicationDate(req.PublicationDate)
}

func (s *CatalogService) ListBooks(ctx context.Context, page, size int) (*transport.BookPage, error) {
	offset, limit := util.Calculate(page, size)
	total, items, err := s.Repo.ListBooks(ctx, offset, limit)
	if err != nil {
		return nil, err
	}
	views, err := s.views(ctx, items)
	if err != nil {
		return nil, err
	}
	return &transport.BookPage{Total: total, Books: views}, nil
}

func (s *CatalogService) GetBook(ctx context.Context, id uint) (*transport.BookView, error) {
	book, err := s.Repo.GetBook(ctx, id)
	if err != nil {
		return nil, err
	}
	views, err := s.views(ctx, []models.Book{*book})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// DeleteBook removes the book picked by req together with its reviews,
// images, age groups and cart lines.
func (s *CatalogService) DeleteBook(ctx context.Context, req transport.DeleteBookRequest) error {
	l := logging.FromContext(ctx).With("svc", "catalog.delete_book")

	book, err := s.Repo.FindBook(ctx, repo.BookSelector{
		SpecialBookID: req.SpecialBookID,
		Title:         req.Title,
		ID:            req.BookID,
	})
	if err != nil {
		return err
	}

	photos, err := s.Repo.DeleteBook(ctx, book.ID)
	if err != nil {
		l.Error("delete_book_error", "book_id", book.ID, "error", err)
		return err
	}
	for _, url := range photos {
		if err := s.Storage.Remove(url); err != nil {
			l.Warn("remove_image_failed", "url", url, "error", err)
		}
	}
	if s.Index != nil {
		if err := s.Index.DeleteBook(ctx, book.ID); err != nil {
			l.Warn("unindex_failed", "book_id", book.ID, "error", err)
		}
	}
	s.invalidateHome(ctx)
	s.publish(ctx, events.BookChanged{Type: events.TypeBookDeleted, BookID: book.ID, Title: book.Title})

	l.Info("book_deleted", "book_id", book.ID)
	return nil
}

func (s *CatalogService) SearchBooks(ctx context.Context, q string, page, size int) (*transport.BookPage, error) {
	l := logging.FromContext(ctx).With("svc", "catalog.search", "q", q)

	q = strings.TrimSpace(q)
	if q == "" {
		return nil, fmt.Errorf("query is required: %w", domain.ErrValidation)
	}
	offset, limit := util.Calculate(page, size)

	var (
		total int64
		items []models.Book
		err   error
	)
	if s.Index != nil {
		var ids []uint
		total, ids, err = s.Index.Search(ctx, q, offset, limit)
		if err == nil {
			items, err = s.Repo.GetBooks(ctx, ids)
		}
		if err != nil {
			l.Warn("index_search_failed", "error", err)
		}
	}
	if s.Index == nil || err != nil {
		total, items, err = s.Repo.SearchBooks(ctx, q, offset, limit)
		if err != nil {
			return nil, err
		}
	}

	views, err := s.views(ctx, items)
	if err != nil {
		return nil, err
	}
	return &transport.BookPage{Total: total, Books: views}, nil
}

// Home aggregates the newest and the best rated books. The result is cached
// until any book, its stock, its reviews or its photos change, or the TTL runs out.
func (s *CatalogService) Home(ctx context.Context) (*transport.Home, error) {
	l := logging.FromContext(ctx).With("svc", "catalog.home")

	var home transport.Home
	hit, err := s.Cache.Get(ctx, cache.KeyHome, &home)
	if err != nil {
		l.Warn("cache_get_failed", "error", err)
	}
	if hit {
		metrics.CacheHits.Inc()
		return &home, nil
	}
	metrics.CacheMisses.Inc()

	newest, err := s.Repo.NewestBooks(ctx, homeSectionSize)
	if err != nil {
		return nil, err
	}
	top, err := s.Repo.TopRatedBooks(ctx, homeSectionSize)
	if err != nil {
		return nil, err
	}
	if home.Newest, err = s.views(ctx, newest); err != nil {
		return nil, err
	}
	if home.TopRated, err = s.views(ctx, top); err != nil {
		return nil, err
	}

	if err := s.Cache.Set(ctx, cache.KeyHome, home, s.CacheTTL); err != nil {
		l.Warn("cache_set_failed", "error", err)
	}
	return &home, nil
}

func (s *CatalogService) invalidateHome(ctx context.Context) {
	invalidateHome(ctx, s.Cache)
}

// invalidateHome drops the cached home page. A nil cache is a no-op.
func invalidateHome(ctx context.Context, c cache.Cache) {
	if c == nil {
		return
	}
	if err := c.Delete(ctx, cache.KeyHome); err != nil {
		logging.FromContext(ctx).Warn("cache_invalidate_failed", "error", err)
	}
}

func (s *CatalogService) publish(ctx context.Context, ev events.BookChanged) {
	ev.At = time.Now().UTC()
	if err := s.Events.PublishEvent(ctx, events.TopicBooks, fmt.Sprint(ev.BookID), ev); err != nil {
		logging.FromContext(ctx).Warn("publish_failed", "topic", events.TopicBooks, "error", err)
	}
}

// views decorates books with their ratings, photos and age groups.
func (s *CatalogService) views(ctx context.Context, books []models.Book) ([]transport.BookView, error) {
	ids := make([]uint, len(books))
	for i, b := range books {
		ids[i] = b.ID
	}
	ratings, err := s.Repo.Ratings(ctx, ids)
	if err != nil {
		return nil, err
	}
	photos, err := s.Repo.Photos(ctx, ids)
	if err != nil {
		return nil, err
	}
	ages, err := s.Repo.Ages(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]transport.BookView, len(books))
	for i, b := range books {
		out[i] = transport.BookView{
			ID:              b.ID,
			SpecialBookID:   b.SpecialBookID,
			Title:           b.Title,
			Author:          b.Author,
			PublicationDate: b.PublicationDate.Format("2006-01-02"),
			Quantity:        b.Quantity,
			Description:     b.Description,
			Price:           b.Price,
			Barcode:         b.Barcode,
			Language:        b.Language,
			Category:        b.Category,
			Ages:            nonNil(ages[b.ID]),
			Photos:          nonNil(photos[b.ID]),
			AverageRating:   ratings[b.ID].Average,
			NumberOfReviews: ratings[b.ID].Count,
			AddedAt:         b.AddedAt.UTC().Format("2006-01-02 15:04:05"),
		}
	}
	return out, nil
}

func searchDoc(b *models.Book) search.Doc {
	return search.Doc{
		ID:          b.ID,
		Title:       b.Title,
		Author:      b.Author,
		Description: b.Description,
		Category:    b.Category,
		Language:    b.Language,
		Price:       b.Price,
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
