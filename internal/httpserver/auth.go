package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	authmw "github.com/Skotchmaster/bookstore/internal/middleware/auth"
	"github.com/Skotchmaster/bookstore/internal/service"
	"github.com/Skotchmaster/bookstore/internal/transport"
	"github.com/Skotchmaster/bookstore/pkg/logging"
)

type AuthHTTP struct {
	Svc *service.AuthService
}

func (h *AuthHTTP) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.register")

	var req transport.RegisterRequest
	if err := bind(c, &req); err != nil {
		return httpError(l, "register_error", err)
	}
	if _, err := h.Svc.Register(ctx, req); err != nil {
		return httpError(l, "register_error", err)
	}
	return c.JSON(http.StatusCreated, transport.Message{Message: "Account created successfully"})
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.login")

	var req transport.LoginRequest
	if err := bind(c, &req); err != nil {
		return httpError(l, "login_error", err)
	}
	pair, err := h.Svc.Login(ctx, req.Email, req.Password)
	if err != nil {
		return httpError(l, "login_error", err)
	}
	return c.JSON(http.StatusOK, pair)
}

func (h *AuthHTTP) EditProfile(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.edit_profile")

	var req transport.EditProfileRequest
	if err := bind(c, &req); err != nil {
		return httpError(l, "edit_profile_error", err)
	}
	if _, err := h.Svc.EditProfile(ctx, authmw.UserID(c), req); err != nil {
		return httpError(l, "edit_profile_error", err)
	}
	return c.JSON(http.StatusOK, transport.Message{Message: "Profile updated successfully"})
}

func (h *AuthHTTP) UserInfo(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.user_info")

	u, err := h.Svc.UserInfo(ctx, authmw.UserID(c))
	if err != nil {
		return httpError(l, "user_info_error", err)
	}
	return c.JSON(http.StatusOK, transport.UserInfo{Name: u.Name, Email: u.Email, PhoneNumber: u.PhoneNumber})
}

func (h *AuthHTTP) AllUsers(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.all_users")

	users, err := h.Svc.AllUsers(ctx)
	if err != nil {
		return httpError(l, "all_users_error", err)
	}
	return c.JSON(http.StatusOK, users)
}

func (h *AuthHTTP) SetSuperuser(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.set_superuser")

	var req transport.SetSuperuserRequest
	if err := bind(c, &req); err != nil {
		return httpError(l, "set_superuser_error", err)
	}
	if err := h.Svc.SetSuperuser(ctx, req.UserID, req.IsSuperuser); err != nil {
		return httpError(l, "set_superuser_error", err)
	}
	return c.JSON(http.StatusOK, transport.Message{Message: "Superuser flag updated"})
}
