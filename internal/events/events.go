package events

import "time"

type UserRegistered struct {
	Type    string    `json:"type"`
	UserID  uint      `json:"user_id"`
	Email   string    `json:"email"`
	IsAdmin bool      `json:"is_admin"`
	At      time.Time `json:"at"`
}

type BookChanged struct {
	Type     string    `json:"type"`
	BookID   uint      `json:"book_id"`
	Title    string    `json:"title,omitempty"`
	Quantity int       `json:"quantity"`
	At       time.Time `json:"at"`
}

type CartItemAdded struct {
	Type         string    `json:"type"`
	UserID       uint      `json:"user_id"`
	BookID       uint      `json:"book_id"`
	Quantity     int       `json:"quantity"`
	LineQuantity int       `json:"line_quantity"`
	At           time.Time `json:"at"`
}

const (
	TypeUserRegistered = "user_registered"
	TypeBookCreated    = "book_created"
	TypeBookDeleted    = "book_deleted"
	TypeStockAdjusted  = "stock_adjusted"
	TypeCartItemAdded  = "cart_item_added"
)
