package models

import (
	"time"
)

type User struct {
	ID           uint      `gorm:"primaryKey;autoIncrement"  json:"id"`
	Email        string    `gorm:"uniqueIndex;not null"      json:"email"`
	Name         string    `gorm:"not null"                  json:"name"`
	PhoneNumber  string    `gorm:"not null"                  json:"phone_number"`
	PasswordHash string    `gorm:"not null"                  json:"-"`
	IsAdmin      bool      `gorm:"not null;default:false"    json:"is_admin"`
	DateJoined   time.Time `gorm:"autoCreateTime"            json:"date_joined"`
}

// Superuser is a separate relation granting stock management without admin.
type Superuser struct {
	UserID      uint `gorm:"primaryKey"             json:"user_id"`
	IsSuperuser bool `gorm:"not null;default:false" json:"is_superuser"`
}

type Book struct {
	ID              uint      `gorm:"primaryKey;autoIncrement"                  json:"id"`
	SpecialBookID   int64     `gorm:"uniqueIndex;not null"                      json:"special_book_id"`
	Barcode         string    `gorm:"uniqueIndex;not null"                      json:"barcode"`
	Title           string    `gorm:"uniqueIndex:idx_books_title_author;not null" json:"title"`
	Author          string    `gorm:"uniqueIndex:idx_books_title_author;not null" json:"author"`
	Category        string    `gorm:"index;not null"                            json:"category"`
	Language        string    `gorm:"not null"                                  json:"language"`
	PublicationDate time.Time `gorm:"not null"                                  json:"publication_date"`
	Description     string    `json:"description"`
	Price           float64   `gorm:"not null"                                  json:"price"`
	Quantity        int       `gorm:"not null;default:0;check:quantity >= 0"    json:"quantity"`
	AddedAt         time.Time `gorm:"autoCreateTime"                            json:"added_at"`
}

type BookAge struct {
	ID     uint   `gorm:"primaryKey;autoIncrement"               json:"id"`
	BookID uint   `gorm:"uniqueIndex:idx_book_ages_book_age;not null" json:"book_id"`
	Age    string `gorm:"uniqueIndex:idx_book_ages_book_age;not null" json:"age"`
}

type Image struct {
	ID       uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	BookID   uint   `gorm:"index;not null"           json:"book_id"`
	PhotoURL string `gorm:"not null"                 json:"photo_url"`
}

// CartItem is one cart line; (user_id, book_id) is unique.
type CartItem struct {
	ID       uint `gorm:"primaryKey;autoIncrement"                    json:"id"`
	UserID   uint `gorm:"uniqueIndex:idx_cart_user_book;not null"     json:"user_id"`
	BookID   uint `gorm:"uniqueIndex:idx_cart_user_book;not null"     json:"book_id"`
	Quantity int  `gorm:"not null;check:quantity > 0"                 json:"quantity"`
}

func (CartItem) TableName() string {
	return "cart_items"
}

type Review struct {
	ID         uint      `gorm:"primaryKey;autoIncrement"                  json:"id"`
	UserID     uint      `gorm:"uniqueIndex:idx_reviews_user_book;not null" json:"user_id"`
	BookID     uint      `gorm:"uniqueIndex:idx_reviews_user_book;not null" json:"book_id"`
	Rating     int       `gorm:"not null;check:rating BETWEEN 1 AND 5"     json:"rating"`
	Comment    string    `json:"comment"`
	ReviewDate time.Time `gorm:"autoCreateTime"                            json:"review_date"`
}

// All is the AutoMigrate set.
func All() []any {
	return []any{
		&User{},
		&Superuser{},
		&Book{},
		&BookAge{},
		&Image{},
		&CartItem{},
		&Review{},
	}
}
