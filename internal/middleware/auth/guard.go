// Package auth turns a bearer token into a request identity and gates
// routes on role predicates loaded from the user store.
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/bookstore/internal/domain"
	"github.com/Skotchmaster/bookstore/internal/models"
	"github.com/Skotchmaster/bookstore/pkg/tokens"
)

const (
	userIDKey = "user_id"
	userKey   = "user"
)

type RoleStore interface {
	GetUserByID(ctx context.Context, id uint) (*models.User, error)
	IsSuperuser(ctx context.Context, userID uint) (bool, error)
}

// Predicate decides whether a loaded user may proceed.
type Predicate func(ctx context.Context, store RoleStore, u *models.User) (bool, error)

func IsAdmin(_ context.Context, _ RoleStore, u *models.User) (bool, error) {
	return u.IsAdmin, nil
}

// IsAdminOrSuperuser is the wider permission used by stock adjustments.
func IsAdminOrSuperuser(ctx context.Context, store RoleStore, u *models.User) (bool, error) {
	if u.IsAdmin {
		return true, nil
	}
	return store.IsSuperuser(ctx, u.ID)
}

type Guard struct {
	Tokens *tokens.Service
	Store  RoleStore
}

func NewGuard(ts *tokens.Service, store RoleStore) *Guard {
	return &Guard{Tokens: ts, Store: store}
}

// Authenticate resolves an Authorization header value to a user id.
// A missing or non-bearer header is Forbidden, a bad or expired token is Unauthorized.
func (g *Guard) Authenticate(header string) (uint, error) {
	scheme, raw, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(raw) == "" {
		return 0, fmt.Errorf("not authenticated: %w", domain.ErrForbidden)
	}

	claims, err := g.Tokens.Verify(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("%w: %w", domain.ErrUnauthorized, err)
	}
	return claims.UserID, nil
}

// RequireRole loads the user and evaluates p. A missing user and a false
// predicate are both MethodNotAllowed.
func (g *Guard) RequireRole(ctx context.Context, userID uint, p Predicate) (*models.User, error) {
	u, err := g.Store.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrMethodNotAllowed
		}
		return nil, err
	}
	ok, err := p(ctx, g.Store, u)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrMethodNotAllowed
	}
	return u, nil
}

func (g *Guard) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return g.requireAuthWithPredicate(next, nil)
}

func (g *Guard) RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return g.requireAuthWithPredicate(next, IsAdmin)
}

func (g *Guard) RequireStockManager(next echo.HandlerFunc) echo.HandlerFunc {
	return g.requireAuthWithPredicate(next, IsAdminOrSuperuser)
}

func (g *Guard) requireAuthWithPredicate(next echo.HandlerFunc, p Predicate) echo.HandlerFunc {
	return func(c echo.Context) error {
		userID, err := g.Authenticate(c.Request().Header.Get(echo.HeaderAuthorization))
		if err != nil {
			if errors.Is(err, domain.ErrForbidden) {
				return echo.NewHTTPError(http.StatusForbidden, "Not authenticated")
			}
			if errors.Is(err, tokens.ErrExpiredToken) {
				return echo.NewHTTPError(http.StatusUnauthorized, "Token is expired!")
			}
			return echo.NewHTTPError(http.StatusUnauthorized, "Token invalid!")
		}
		c.Set(userIDKey, userID)

		if p != nil {
			u, err := g.RequireRole(c.Request().Context(), userID, p)
			if err != nil {
				if errors.Is(err, domain.ErrMethodNotAllowed) {
					return echo.NewHTTPError(http.StatusMethodNotAllowed, "Method Not Allowed")
				}
				return err
			}
			c.Set(userKey, u)
		}

		return next(c)
	}
}

// UserID returns the identity set by the guard, or 0 outside a guarded route.
func UserID(c echo.Context) uint {
	id, _ := c.Get(userIDKey).(uint)
	return id
}

// User is only populated on routes with a role predicate.
func User(c echo.Context) *models.User {
	u, _ := c.Get(userKey).(*models.User)
	return u
}
