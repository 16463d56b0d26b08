package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/bookstore/internal/domain"
	"github.com/Skotchmaster/bookstore/internal/models"
	"github.com/Skotchmaster/bookstore/internal/repo"
	"github.com/Skotchmaster/bookstore/internal/testutil"
	"github.com/Skotchmaster/bookstore/pkg/tokens"
)

var secret = []byte("guard-test-secret")

type fixture struct {
	guard *Guard
	repo  *repo.GormRepo
	admin *models.User
	user  *models.User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	r := repo.New(testutil.NewDB(t))
	ctx := context.Background()

	admin := &models.User{Email: "admin@example.com", Name: "A", PhoneNumber: "+1", PasswordHash: "x"}
	require.NoError(t, r.CreateUser(ctx, admin))
	user := &models.User{Email: "user@example.com", Name: "B", PhoneNumber: "+2", PasswordHash: "x"}
	require.NoError(t, r.CreateUser(ctx, user))

	return &fixture{
		guard: NewGuard(tokens.NewService(tokens.Config{Secret: secret}), r),
		repo:  r,
		admin: admin,
		user:  user,
	}
}

func (f *fixture) bearer(t *testing.T, id uint) string {
	t.Helper()
	pair, err := f.guard.Tokens.Issue(id)
	require.NoError(t, err)
	return "Bearer " + pair.Access
}

func serve(mw echo.MiddlewareFunc, header string) (*httptest.ResponseRecorder, uint) {
	e := echo.New()
	var seen uint
	e.GET("/x", func(c echo.Context) error {
		seen = UserID(c)
		return c.NoContent(http.StatusOK)
	}, mw)

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	if header != "" {
		req.Header.Set(echo.HeaderAuthorization, header)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec, seen
}

func TestAuthenticate(t *testing.T) {
	f := newFixture(t)

	id, err := f.guard.Authenticate(f.bearer(t, f.user.ID))
	require.NoError(t, err)
	assert.Equal(t, f.user.ID, id)

	for _, h := range []string{"", "Bearer", "Bearer   ", "Basic abc", "token"} {
		_, err := f.guard.Authenticate(h)
		assert.ErrorIs(t, err, domain.ErrForbidden, h)
	}

	_, err = f.guard.Authenticate("Bearer not-a-jwt")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestAuthenticate_Expired(t *testing.T) {
	f := newFixture(t)

	claims := tokens.Claims{
		Type:   tokens.TypeAccess,
		UserID: f.user.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
			ID:        "old",
		},
	}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	require.NoError(t, err)

	_, err = f.guard.Authenticate("Bearer " + raw)
	require.ErrorIs(t, err, domain.ErrUnauthorized)
	assert.Contains(t, err.Error(), "expired")

	rec, _ := serve(f.guard.RequireAuth, "Bearer "+raw)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Token is expired")
}

func TestRequireRole(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	u, err := f.guard.RequireRole(ctx, f.admin.ID, IsAdmin)
	require.NoError(t, err)
	assert.Equal(t, f.admin.ID, u.ID)

	_, err = f.guard.RequireRole(ctx, f.user.ID, IsAdmin)
	assert.ErrorIs(t, err, domain.ErrMethodNotAllowed)

	_, err = f.guard.RequireRole(ctx, 999, IsAdmin)
	assert.ErrorIs(t, err, domain.ErrMethodNotAllowed)

	_, err = f.guard.RequireRole(ctx, f.user.ID, IsAdminOrSuperuser)
	assert.ErrorIs(t, err, domain.ErrMethodNotAllowed)

	require.NoError(t, f.repo.SetSuperuser(ctx, f.user.ID, true))
	_, err = f.guard.RequireRole(ctx, f.user.ID, IsAdminOrSuperuser)
	assert.NoError(t, err)
	_, err = f.guard.RequireRole(ctx, f.user.ID, IsAdmin)
	assert.ErrorIs(t, err, domain.ErrMethodNotAllowed)
}

func TestMiddlewareStatuses(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name   string
		mw     echo.MiddlewareFunc
		header string
		code   int
	}{
		{"missing header", f.guard.RequireAuth, "", http.StatusForbidden},
		{"garbage token", f.guard.RequireAuth, "Bearer nope", http.StatusUnauthorized},
		{"authenticated", f.guard.RequireAuth, f.bearer(t, f.user.ID), http.StatusOK},
		{"non admin", f.guard.RequireAdmin, f.bearer(t, f.user.ID), http.StatusMethodNotAllowed},
		{"admin", f.guard.RequireAdmin, f.bearer(t, f.admin.ID), http.StatusOK},
		{"stock manager admin", f.guard.RequireStockManager, f.bearer(t, f.admin.ID), http.StatusOK},
		{"stock manager plain user", f.guard.RequireStockManager, f.bearer(t, f.user.ID), http.StatusMethodNotAllowed},
		{"unknown user", f.guard.RequireAdmin, f.bearer(t, 999), http.StatusMethodNotAllowed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, _ := serve(tt.mw, tt.header)
			assert.Equal(t, tt.code, rec.Code)
		})
	}

	_, seen := serve(f.guard.RequireAuth, f.bearer(t, f.user.ID))
	assert.Equal(t, f.user.ID, seen)
}
