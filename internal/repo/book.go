package repo

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"gorm.io/gorm"

	"github.com/Skotchmaster/bookstore/internal/domain"
	"github.com/Skotchmaster/bookstore/internal/models"
)

// BookSelector picks a book by one of its identities. The first non-nil
// field wins in the order special id, title, id.
type BookSelector struct {
	SpecialBookID *int64
	Title         *string
	ID            *uint
}

type Rating struct {
	BookID  uint    `gorm:"column:book_id"`
	Average float64 `gorm:"column:average"`
	Count   int64   `gorm:"column:reviews"`
}

// CreateBook stores b together with its age groups.
func (r *GormRepo) CreateBook(ctx context.Context, b *models.Book, ages []string) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&models.Book{}).
			Where("title = ? AND author = ?", b.Title, b.Author).
			Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return fmt.Errorf("book with this title and author already exists: %w", domain.ErrConflict)
		}
		if err := tx.Model(&models.Book{}).
			Where("special_book_id = ? OR barcode = ?", b.SpecialBookID, b.Barcode).
			Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return fmt.Errorf("book with this special id or barcode already exists: %w", domain.ErrConflict)
		}

		if err := tx.Create(b).Error; err != nil {
			return translate(err)
		}
		for _, age := range ages {
			if err := tx.Create(&models.BookAge{BookID: b.ID, Age: age}).Error; err != nil {
				return translate(err)
			}
		}
		return nil
	})
}

func (r *GormRepo) GetBook(ctx context.Context, id uint) (*models.Book, error) {
	var book models.Book
	if err := r.DB.WithContext(ctx).First(&book, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrBookNotFound
		}
		return nil, err
	}
	return &book, nil
}

// GetBooks returns the books in the order of ids, skipping missing ones.
func (r *GormRepo) GetBooks(ctx context.Context, ids []uint) ([]models.Book, error) {
	if len(ids) == 0 {
		return []models.Book{}, nil
	}
	var found []models.Book
	if err := r.DB.WithContext(ctx).Where("id IN ?", ids).Find(&found).Error; err != nil {
		return nil, err
	}
	byID := make(map[uint]models.Book, len(found))
	for _, b := range found {
		byID[b.ID] = b
	}
	out := make([]models.Book, 0, len(found))
	for _, id := range ids {
		if b, ok := byID[id]; ok {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *GormRepo) FindBook(ctx context.Context, sel BookSelector) (*models.Book, error) {
	q := r.DB.WithContext(ctx)
	switch {
	case sel.SpecialBookID != nil:
		q = q.Where("special_book_id = ?", *sel.SpecialBookID)
	case sel.Title != nil:
		q = q.Where("title = ?", *sel.Title)
	case sel.ID != nil:
		q = q.Where("id = ?", *sel.ID)
	default:
		return nil, fmt.Errorf("special_book_id, title or book_id is required: %w", domain.ErrValidation)
	}
	var book models.Book
	if err := q.First(&book).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrBookNotFound
		}
		return nil, err
	}
	return &book, nil
}

// DeleteBook removes the book and everything hanging off it. It returns the
// photo urls that were attached so the caller can remove the files.
func (r *GormRepo) DeleteBook(ctx context.Context, id uint) ([]string, error) {
	var photos []string
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Image{}).Where("book_id = ?", id).Pluck("photo_url", &photos).Error; err != nil {
			return err
		}
		for _, m := range []any{&models.Image{}, &models.BookAge{}, &models.Review{}, &models.CartItem{}} {
			if err := tx.Where("book_id = ?", id).Delete(m).Error; err != nil {
				return err
			}
		}
		res := tx.Delete(&models.Book{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrBookNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return photos, nil
}

func (r *GormRepo) ListBooks(ctx context.Context, offset, limit int) (int64, []models.Book, error) {
	var total int64
	if err := r.DB.WithContext(ctx).Model(&models.Book{}).Count(&total).Error; err != nil {
		return 0, nil, err
	}
	var items []models.Book
	if err := r.DB.WithContext(ctx).Order("id ASC").Offset(offset).Limit(limit).Find(&items).Error; err != nil {
		return 0, nil, err
	}
	return total, items, nil
}

// SearchBooks is the database fallback used when no search index is configured.
func (r *GormRepo) SearchBooks(ctx context.Context, q string, offset, limit int) (int64, []models.Book, error) {
	like := "%" + strings.ToLower(strings.TrimSpace(q)) + "%"
	where := "LOWER(title) LIKE ? OR LOWER(author) LIKE ? OR LOWER(description) LIKE ?"

	var total int64
	if err := r.DB.WithContext(ctx).Model(&models.Book{}).Where(where, like, like, like).Count(&total).Error; err != nil {
		return 0, nil, err
	}
	var items []models.Book
	if err := r.DB.WithContext(ctx).
		Where(where, like, like, like).
		Order("id ASC").
		Offset(offset).
		Limit(limit).
		Find(&items).Error; err != nil {
		return 0, nil, err
	}
	return total, items, nil
}

func (r *GormRepo) NewestBooks(ctx context.Context, limit int) ([]models.Book, error) {
	var items []models.Book
	if err := r.DB.WithContext(ctx).Order("added_at DESC").Order("id DESC").Limit(limit).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormRepo) TopRatedBooks(ctx context.Context, limit int) ([]models.Book, error) {
	var ids []uint
	if err := r.DB.WithContext(ctx).
		Model(&models.Review{}).
		Select("book_id").
		Group("book_id").
		Order("AVG(rating * 1.0) DESC").
		Order("book_id ASC").
		Limit(limit).
		Pluck("book_id", &ids).Error; err != nil {
		return nil, err
	}
	return r.GetBooks(ctx, ids)
}

func (r *GormRepo) Ages(ctx context.Context, bookIDs []uint) (map[uint][]string, error) {
	out := make(map[uint][]string, len(bookIDs))
	if len(bookIDs) == 0 {
		return out, nil
	}
	var rows []models.BookAge
	if err := r.DB.WithContext(ctx).Where("book_id IN ?", bookIDs).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.BookID] = append(out[row.BookID], row.Age)
	}
	return out, nil
}

// Ratings returns the review average, rounded to one decimal, and count per book.
func (r *GormRepo) Ratings(ctx context.Context, bookIDs []uint) (map[uint]Rating, error) {
	out := make(map[uint]Rating, len(bookIDs))
	if len(bookIDs) == 0 {
		return out, nil
	}
	var rows []Rating
	if err := r.DB.WithContext(ctx).
		Model(&models.Review{}).
		Select("book_id, AVG(rating * 1.0) AS average, COUNT(*) AS reviews").
		Where("book_id IN ?", bookIDs).
		Group("book_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		row.Average = math.Round(row.Average*10) / 10
		out[row.BookID] = row
	}
	return out, nil
}

func (r *GormRepo) IncrementQuantity(ctx context.Context, id uint, by int) (*models.Book, error) {
	var book models.Book
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Book{}).
			Where("id = ?", id).
			UpdateColumn("quantity", gorm.Expr("quantity + ?", by))
		if res.Error != nil {
			return translate(res.Error)
		}
		if res.RowsAffected == 0 {
			return domain.ErrBookNotFound
		}
		return tx.First(&book, id).Error
	})
	if err != nil {
		return nil, err
	}
	return &book, nil
}

// DecrementQuantity subtracts by only when the stock covers it, in a single
// conditional update, so concurrent callers can never drive quantity below zero.
func (r *GormRepo) DecrementQuantity(ctx context.Context, id uint, by int) (*models.Book, error) {
	var book models.Book
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Book{}).
			Where("id = ? AND quantity >= ?", id, by).
			UpdateColumn("quantity", gorm.Expr("quantity - ?", by))
		if res.Error != nil {
			return translate(res.Error)
		}
		if err := tx.First(&book, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrBookNotFound
			}
			return err
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("cannot remove %d, only %d in stock: %w", by, book.Quantity, domain.ErrInsufficientStock)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &book, nil
}
