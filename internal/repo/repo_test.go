package repo

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Skotchmaster/bookstore/internal/domain"
	"github.com/Skotchmaster/bookstore/internal/models"
	"github.com/Skotchmaster/bookstore/internal/testutil"
)

func newRepo(t *testing.T) *GormRepo {
	t.Helper()
	return New(testutil.NewDB(t))
}

func mustUser(t *testing.T, r *GormRepo, email string) *models.User {
	t.Helper()
	u := &models.User{Email: email, Name: "n", PhoneNumber: "+998901234567", PasswordHash: "x"}
	require.NoError(t, r.CreateUser(context.Background(), u))
	return u
}

func mustBook(t *testing.T, r *GormRepo, special int64, title string, qty int) *models.Book {
	t.Helper()
	b := &models.Book{
		SpecialBookID:   special,
		Barcode:         "1234567" + title,
		Title:           title,
		Author:          "Author",
		Category:        "Fiction",
		Language:        "English",
		PublicationDate: time.Date(2001, 1, 1, 0, 0, 0, 0, time.UTC),
		Price:           10,
		Quantity:        qty,
	}
	require.NoError(t, r.CreateBook(context.Background(), b, []string{domain.AgeGroups[0]}))
	return b
}

func TestCreateUser_FirstIsAdmin(t *testing.T) {
	r := newRepo(t)

	first := mustUser(t, r, "a@example.com")
	second := mustUser(t, r, "b@example.com")

	assert.True(t, first.IsAdmin)
	assert.False(t, second.IsAdmin)

	err := r.CreateUser(context.Background(), &models.User{Email: "a@example.com", Name: "dup", PhoneNumber: "1", PasswordHash: "x"})
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestGetUser_NotFound(t *testing.T) {
	r := newRepo(t)

	_, err := r.GetUserByEmail(context.Background(), "none@example.com")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
	_, err = r.GetUserByID(context.Background(), 42)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpdateUser_DuplicateEmail(t *testing.T) {
	r := newRepo(t)
	ctx := context.Background()
	mustUser(t, r, "a@example.com")
	b := mustUser(t, r, "b@example.com")

	got, err := r.UpdateUser(ctx, b.ID, map[string]any{"name": "Bob"})
	require.NoError(t, err)
	assert.Equal(t, "Bob", got.Name)

	_, err = r.UpdateUser(ctx, b.ID, map[string]any{"email": "a@example.com"})
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestSuperuser(t *testing.T) {
	r := newRepo(t)
	ctx := context.Background()
	u := mustUser(t, r, "a@example.com")

	ok, err := r.IsSuperuser(ctx, u.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, r.SetSuperuser(ctx, u.ID, true))
	ok, err = r.IsSuperuser(ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, r.SetSuperuser(ctx, u.ID, false))
	ok, err = r.IsSuperuser(ctx, u.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	assert.ErrorIs(t, r.SetSuperuser(ctx, 999, true), domain.ErrUserNotFound)
}

func TestCreateBook_Duplicates(t *testing.T) {
	r := newRepo(t)
	ctx := context.Background()
	mustBook(t, r, 1, "Dune", 1)

	sameTitle := &models.Book{SpecialBookID: 2, Barcode: "99999999", Title: "Dune", Author: "Author", Category: "Fiction", Language: "English"}
	assert.ErrorIs(t, r.CreateBook(ctx, sameTitle, nil), domain.ErrConflict)

	sameSpecial := &models.Book{SpecialBookID: 1, Barcode: "99999999", Title: "Other", Author: "Author", Category: "Fiction", Language: "English"}
	assert.ErrorIs(t, r.CreateBook(ctx, sameSpecial, nil), domain.ErrConflict)
}

func TestDecrementQuantity(t *testing.T) {
	r := newRepo(t)
	ctx := context.Background()
	b := mustBook(t, r, 1, "Dune", 2)

	_, err := r.DecrementQuantity(ctx, b.ID, 3)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	got, err := r.GetBook(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Quantity)

	got, err = r.DecrementQuantity(ctx, b.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Quantity)

	got, err = r.IncrementQuantity(ctx, b.ID, 4)
	require.NoError(t, err)
	assert.Equal(t, 4, got.Quantity)

	_, err = r.DecrementQuantity(ctx, 999, 1)
	assert.ErrorIs(t, err, domain.ErrBookNotFound)
	_, err = r.IncrementQuantity(ctx, 999, 1)
	assert.ErrorIs(t, err, domain.ErrBookNotFound)
}

func TestAddToCart_MergesAndChecksTotal(t *testing.T) {
	r := newRepo(t)
	ctx := context.Background()
	u := mustUser(t, r, "a@example.com")
	b := mustBook(t, r, 1, "Dune", 5)

	line, book, err := r.AddToCart(ctx, u.ID, b.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, line.Quantity)
	assert.Equal(t, 3, book.Quantity)

	line, book, err = r.AddToCart(ctx, u.ID, b.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, 3, line.Quantity)
	assert.Equal(t, 2, book.Quantity)

	// merged total 3+3 exceeds the remaining stock check
	_, _, err = r.AddToCart(ctx, u.ID, b.ID, 3)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	cart, err := r.GetCart(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, cart, 1)
	assert.Equal(t, CartLine{BookID: b.ID, Title: "Dune", Price: 10, Quantity: 3}, cart[0])

	got, err := r.GetBook(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Quantity)
}

func TestAddToCart_Missing(t *testing.T) {
	r := newRepo(t)
	ctx := context.Background()
	u := mustUser(t, r, "a@example.com")
	b := mustBook(t, r, 1, "Dune", 5)

	_, _, err := r.AddToCart(ctx, 999, b.ID, 1)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
	_, _, err = r.AddToCart(ctx, u.ID, 999, 1)
	assert.ErrorIs(t, err, domain.ErrBookNotFound)
}

const workers = 8

// overlappingStores run each goroutine's transaction on its own connection.
var overlappingStores = []struct {
	name string
	open func(t *testing.T) *gorm.DB
}{
	{"sqlite_wal", func(t *testing.T) *gorm.DB { return testutil.NewFileDB(t, workers) }},
	{"postgres", testutil.NewPostgresDB},
}

// race runs fn from workers goroutines released at the same moment and
// returns how many calls succeeded.
func race(t *testing.T, fn func(i int) error) int {
	t.Helper()

	start := make(chan struct{})
	var (
		wg sync.WaitGroup
		mu sync.Mutex
		ok int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			err := fn(i)
			if err != nil {
				t.Logf("worker %d: %v", i, err)
				return
			}
			mu.Lock()
			ok++
			mu.Unlock()
		}(i)
	}
	close(start)
	wg.Wait()
	return ok
}

func TestAddToCart_ConcurrentNeverOversells(t *testing.T) {
	for _, st := range overlappingStores {
		t.Run(st.name, func(t *testing.T) {
			r := New(st.open(t))
			ctx := context.Background()
			b := mustBook(t, r, 1, "Dune", 5)

			users := make([]*models.User, workers)
			for i := range users {
				users[i] = mustUser(t, r, fmt.Sprintf("buyer%d@example.com", i))
			}

			ok := race(t, func(i int) error {
				_, _, err := r.AddToCart(ctx, users[i].ID, b.ID, 1)
				if err != nil && !errors.Is(err, domain.ErrInsufficientStock) {
					t.Errorf("unexpected error: %v", err)
				}
				return err
			})

			got, err := r.GetBook(ctx, b.ID)
			require.NoError(t, err)
			assert.Equal(t, 5, ok)
			assert.Equal(t, 0, got.Quantity)

			var reserved int64
			require.NoError(t, r.DB.Model(&models.CartItem{}).
				Where("book_id = ?", b.ID).
				Select("COALESCE(SUM(quantity), 0)").
				Scan(&reserved).Error)
			assert.EqualValues(t, 5, reserved)
		})
	}
}

func TestCreateUser_ConcurrentSingleAdmin(t *testing.T) {
	for _, st := range overlappingStores {
		t.Run(st.name, func(t *testing.T) {
			r := New(st.open(t))
			ctx := context.Background()

			ok := race(t, func(i int) error {
				return r.CreateUser(ctx, &models.User{
					Email:        fmt.Sprintf("user%d@example.com", i),
					Name:         "n",
					PhoneNumber:  "+998901234567",
					PasswordHash: "x",
				})
			})
			assert.Equal(t, workers, ok)

			users, err := r.ListUsers(ctx)
			require.NoError(t, err)
			require.Len(t, users, workers)

			admins := 0
			for _, u := range users {
				if u.IsAdmin {
					admins++
					assert.Equal(t, users[0].ID, u.ID, "admin must be the first row")
				}
			}
			assert.Equal(t, 1, admins)
		})
	}
}

func TestTranslate(t *testing.T) {
	t.Parallel()

	other := errors.New("boom")
	tests := []struct {
		name string
		in   error
		want error
	}{
		{"pg unique", &pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: "idx_users_email"}, domain.ErrConflict},
		{"pg check", &pgconn.PgError{Code: pgerrcode.CheckViolation, ConstraintName: "chk_books_quantity"}, domain.ErrInsufficientStock},
		{"wrapped pg check", fmt.Errorf("update: %w", &pgconn.PgError{Code: pgerrcode.CheckViolation}), domain.ErrInsufficientStock},
		{"gorm duplicate", gorm.ErrDuplicatedKey, domain.ErrConflict},
		{"gorm check", gorm.ErrCheckConstraintViolated, domain.ErrInsufficientStock},
		{"sqlite check", errors.New("constraint failed: CHECK constraint failed: chk_books_quantity (275)"), domain.ErrInsufficientStock},
		{"untouched", other, other},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.ErrorIs(t, translate(tt.in), tt.want)
		})
	}
	assert.NoError(t, translate(nil))
}

func TestDecrementQuantity_CheckConstraintBackstop(t *testing.T) {
	r := newRepo(t)
	ctx := context.Background()
	b := mustBook(t, r, 1, "Dune", 1)

	err := translate(r.DB.WithContext(ctx).Model(&models.Book{}).
		Where("id = ?", b.ID).
		UpdateColumn("quantity", gorm.Expr("quantity - ?", 2)).Error)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
}

func TestListBooks_Details(t *testing.T) {
	r := newRepo(t)
	ctx := context.Background()
	u1 := mustUser(t, r, "a@example.com")
	u2 := mustUser(t, r, "b@example.com")
	b := mustBook(t, r, 1, "Dune", 5)
	mustBook(t, r, 2, "Emma", 1)

	require.NoError(t, r.AddReview(ctx, &models.Review{UserID: u1.ID, BookID: b.ID, Rating: 5}))
	require.NoError(t, r.AddReview(ctx, &models.Review{UserID: u2.ID, BookID: b.ID, Rating: 4}))
	assert.ErrorIs(t, r.AddReview(ctx, &models.Review{UserID: u2.ID, BookID: b.ID, Rating: 1}), domain.ErrConflict)
	require.NoError(t, r.AddImage(ctx, &models.Image{BookID: b.ID, PhotoURL: "/images/1.jpg"}))

	total, items, err := r.ListBooks(ctx, 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, items, 2)

	ids := []uint{items[0].ID, items[1].ID}
	ratings, err := r.Ratings(ctx, ids)
	require.NoError(t, err)
	assert.InDelta(t, 4.5, ratings[b.ID].Average, 0.001)
	assert.EqualValues(t, 2, ratings[b.ID].Count)
	_, rated := ratings[items[1].ID]
	assert.False(t, rated)

	ages, err := r.Ages(ctx, ids)
	require.NoError(t, err)
	assert.Equal(t, []string{domain.AgeGroups[0]}, ages[b.ID])

	photos, err := r.Photos(ctx, ids)
	require.NoError(t, err)
	assert.Equal(t, []string{"/images/1.jpg"}, photos[b.ID])

	top, err := r.TopRatedBooks(ctx, 5)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, b.ID, top[0].ID)
}

func TestSearchBooks(t *testing.T) {
	r := newRepo(t)
	ctx := context.Background()
	mustBook(t, r, 1, "Dune", 1)
	mustBook(t, r, 2, "Emma", 1)

	total, items, err := r.SearchBooks(ctx, "dun", 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, items, 1)
	assert.Equal(t, "Dune", items[0].Title)
}

func TestDeleteBook_Cascades(t *testing.T) {
	r := newRepo(t)
	ctx := context.Background()
	u := mustUser(t, r, "a@example.com")
	b := mustBook(t, r, 7, "Dune", 5)
	require.NoError(t, r.AddImage(ctx, &models.Image{BookID: b.ID, PhotoURL: "/images/dune.jpg"}))
	_, _, err := r.AddToCart(ctx, u.ID, b.ID, 1)
	require.NoError(t, err)

	special := int64(7)
	found, err := r.FindBook(ctx, BookSelector{SpecialBookID: &special})
	require.NoError(t, err)
	assert.Equal(t, b.ID, found.ID)

	photos, err := r.DeleteBook(ctx, found.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"/images/dune.jpg"}, photos)

	_, err = r.GetBook(ctx, b.ID)
	assert.ErrorIs(t, err, domain.ErrBookNotFound)
	cart, err := r.GetCart(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, cart)

	_, err = r.DeleteBook(ctx, b.ID)
	assert.ErrorIs(t, err, domain.ErrBookNotFound)
	_, err = r.FindBook(ctx, BookSelector{})
	assert.ErrorIs(t, err, domain.ErrValidation)
}
