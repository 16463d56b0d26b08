package repo

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Skotchmaster/bookstore/internal/domain"
	"github.com/Skotchmaster/bookstore/internal/models"
)

type CartLine struct {
	BookID   uint    `json:"book_id"`
	Title    string  `json:"title"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

// AddToCart moves n copies of a book from stock into the user's cart.
//
// The stock check covers the merged cart total (existing line plus n) and is
// folded into the decrement itself, which is also the first statement of the
// transaction. Either the book quantity drops and the line grows, or nothing
// changes.
func (r *GormRepo) AddToCart(ctx context.Context, userID, bookID uint, n int) (*models.CartItem, *models.Book, error) {
	var (
		line models.CartItem
		book models.Book
	)
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		upd := tx.Model(&models.Book{}).
			Where("id = ?", bookID).
			Where("quantity >= ? + COALESCE((SELECT ci.quantity FROM cart_items ci WHERE ci.user_id = ? AND ci.book_id = ?), 0)",
				n, userID, bookID).
			UpdateColumn("quantity", gorm.Expr("quantity - ?", n))
		if upd.Error != nil {
			return translate(upd.Error)
		}

		var user models.User
		if err := tx.Select("id").First(&user, userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrUserNotFound
			}
			return err
		}
		if err := tx.First(&book, bookID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrBookNotFound
			}
			return err
		}
		if upd.RowsAffected == 0 {
			return fmt.Errorf("only %d copies of %q available: %w", book.Quantity, book.Title, domain.ErrInsufficientStock)
		}

		add := models.CartItem{UserID: userID, BookID: bookID, Quantity: n}
		if err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "book_id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"quantity": gorm.Expr("cart_items.quantity + excluded.quantity"),
			}),
		}).Create(&add).Error; err != nil {
			return translate(err)
		}

		return tx.Where("user_id = ? AND book_id = ?", userID, bookID).First(&line).Error
	})
	if err != nil {
		return nil, nil, err
	}
	return &line, &book, nil
}

func (r *GormRepo) GetCart(ctx context.Context, userID uint) ([]CartLine, error) {
	lines := make([]CartLine, 0)
	if err := r.DB.WithContext(ctx).
		Table("cart_items").
		Select("cart_items.book_id, books.title, books.price, cart_items.quantity").
		Joins("JOIN books ON books.id = cart_items.book_id").
		Where("cart_items.user_id = ?", userID).
		Order("cart_items.id ASC").
		Scan(&lines).Error; err != nil {
		return nil, err
	}
	return lines, nil
}

func (r *GormRepo) GetCartItem(ctx context.Context, userID, bookID uint) (*models.CartItem, error) {
	var item models.CartItem
	if err := r.DB.WithContext(ctx).Where("user_id = ? AND book_id = ?", userID, bookID).First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrCartLineNotFound
		}
		return nil, err
	}
	return &item, nil
}
