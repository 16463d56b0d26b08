package transport

type RegisterRequest struct {
	Name        string `json:"name"         validate:"required,max=100"`
	Email       string `json:"email"        validate:"required,email"`
	PhoneNumber string `json:"phone_number" validate:"required,e164"`
	Password1   string `json:"password1"    validate:"required,min=6"`
	Password2   string `json:"password2"    validate:"required"`
}

type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// EditProfileRequest fields are optional; nil leaves the column untouched.
type EditProfileRequest struct {
	Email       *string `json:"email"        validate:"omitempty,email"`
	Name        *string `json:"name"         validate:"omitempty,max=100"`
	PhoneNumber *string `json:"phone_number"`
}

type SetSuperuserRequest struct {
	UserID      uint `json:"user_id"      validate:"required"`
	IsSuperuser bool `json:"is_superuser"`
}

type UserInfo struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number"`
}

type AddBookRequest struct {
	SpecialBookID   int64   `json:"special_book_id"  validate:"required"`
	Title           string  `json:"title"            validate:"required,max=255"`
	Author          string  `json:"author"           validate:"required,max=255"`
	PublicationDate string  `json:"publication_date" validate:"required"`
	Quantity        int     `json:"quantity"         validate:"gte=0"`
	Age             string  `json:"age"              validate:"required"`
	Category        string  `json:"category"         validate:"required"`
	Description     string  `json:"description"`
	Price           float64 `json:"price"            validate:"gte=0"`
	Language        string  `json:"language"         validate:"required"`
	Barcode         string  `json:"barcode"          validate:"required"`
}

// DeleteBookRequest names the book by any one of its identities.
type DeleteBookRequest struct {
	SpecialBookID *int64
	Title         *string
	BookID        *uint
}

type QuantityRequest struct {
	BookID      uint `query:"book_id"      validate:"required"`
	IncrementBy int  `query:"increment_by"`
	DecrementBy int  `query:"decrement_by"`
}

type AddToCartRequest struct {
	BookID   uint `json:"book_id"  validate:"required"`
	Quantity int  `json:"quantity"`
}

type AddReviewRequest struct {
	BookID  uint   `json:"book_id" validate:"required"`
	Rating  int    `json:"rating"`
	Comment string `json:"comment" validate:"max=2000"`
}

type BookView struct {
	ID              uint     `json:"id"`
	SpecialBookID   int64    `json:"special_book_id"`
	Title           string   `json:"title"`
	Author          string   `json:"author"`
	PublicationDate string   `json:"publication_date"`
	Quantity        int      `json:"quantity"`
	Description     string   `json:"description"`
	Price           float64  `json:"price"`
	Barcode         string   `json:"barcode"`
	Language        string   `json:"language"`
	Category        string   `json:"category"`
	Ages            []string `json:"ages"`
	Photos          []string `json:"photos"`
	AverageRating   float64  `json:"average_rating"`
	NumberOfReviews int64    `json:"number_of_reviews"`
	AddedAt         string   `json:"added_at"`
}

type BookPage struct {
	Total int64      `json:"total"`
	Books []BookView `json:"books"`
}

type Home struct {
	Newest   []BookView `json:"newest"`
	TopRated []BookView `json:"top_rated"`
}

type CartItemView struct {
	BookID       uint `json:"book_id"`
	Quantity     int  `json:"quantity"`
	LineQuantity int  `json:"line_quantity"`
	InStock      int  `json:"in_stock"`
}

type Message struct {
	Message string `json:"message"`
}
