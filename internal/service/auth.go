package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/Skotchmaster/bookstore/internal/domain"
	"github.com/Skotchmaster/bookstore/internal/events"
	"github.com/Skotchmaster/bookstore/internal/models"
	"github.com/Skotchmaster/bookstore/internal/repo"
	"github.com/Skotchmaster/bookstore/internal/transport"
	pkg_hash "github.com/Skotchmaster/bookstore/pkg/hash"
	"github.com/Skotchmaster/bookstore/pkg/logging"
	"github.com/Skotchmaster/bookstore/pkg/tokens"
)

var profilePhone = regexp.MustCompile(`^\+\d{11}$`)

type AuthService struct {
	Repo   *repo.GormRepo
	Tokens *tokens.Service
	Events events.Publisher
}

func (s *AuthService) Register(ctx context.Context, req transport.RegisterRequest) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "auth.register")

	if req.Password1 != req.Password2 {
		return nil, fmt.Errorf("passwords are not the same: %w", domain.ErrValidation)
	}

	pwHash, err := pkg_hash.HashPassword(req.Password1)
	if err != nil {
		l.Error("register_error", "status", 500, "reason", "cannot hash the password", "error", err)
		return nil, err
	}

	user := models.User{
		Email:        strings.TrimSpace(req.Email),
		Name:         strings.TrimSpace(req.Name),
		PhoneNumber:  req.PhoneNumber,
		PasswordHash: pwHash,
	}
	if err := s.Repo.CreateUser(ctx, &user); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			l.Warn("register_error", "status", 409, "reason", "email already exists")
		} else {
			l.Error("register_error", "status", 500, "error", err)
		}
		return nil, err
	}

	if err := s.Events.PublishEvent(ctx, events.TopicUsers, fmt.Sprint(user.ID), events.UserRegistered{
		Type:    events.TypeUserRegistered,
		UserID:  user.ID,
		Email:   user.Email,
		IsAdmin: user.IsAdmin,
		At:      time.Now().UTC(),
	}); err != nil {
		l.Warn("publish_failed", "topic", events.TopicUsers, "error", err)
	}

	l.Info("user_registered", "user_id", user.ID, "is_admin", user.IsAdmin)
	return &user, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*tokens.Pair, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login", "email", email)

	user, err := s.Repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			l.Warn("login failed", "status", 401, "reason", "unknown email")
			return nil, domain.ErrInvalidCredentials
		}
		l.Error("login failed", "status", 500, "error", err)
		return nil, err
	}
	if !pkg_hash.CheckPassword(user.PasswordHash, password) {
		l.Warn("login failed", "status", 401, "reason", "wrong password")
		return nil, domain.ErrInvalidCredentials
	}

	pair, err := s.Tokens.Issue(user.ID)
	if err != nil {
		l.Error("login failed", "status", 500, "error", err)
		return nil, err
	}
	return pair, nil
}

// UserInfo treats a vanished user as a failed permission check.
func (s *AuthService) UserInfo(ctx context.Context, userID uint) (*models.User, error) {
	user, err := s.Repo.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrMethodNotAllowed
		}
		return nil, err
	}
	return user, nil
}

func (s *AuthService) EditProfile(ctx context.Context, userID uint, req transport.EditProfileRequest) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "auth.edit_profile", "user_id", userID)

	fields := map[string]any{}
	if req.Email != nil {
		fields["email"] = strings.TrimSpace(*req.Email)
	}
	if req.Name != nil {
		fields["name"] = strings.TrimSpace(*req.Name)
	}
	if req.PhoneNumber != nil {
		if !profilePhone.MatchString(*req.PhoneNumber) {
			return nil, fmt.Errorf("enter phone number correctly: %w", domain.ErrValidation)
		}
		fields["phone_number"] = *req.PhoneNumber
	}

	user, err := s.Repo.UpdateUser(ctx, userID, fields)
	if err != nil {
		l.Warn("edit_profile_error", "error", err)
		return nil, err
	}
	return user, nil
}

func (s *AuthService) AllUsers(ctx context.Context) ([]models.User, error) {
	return s.Repo.ListUsers(ctx)
}

func (s *AuthService) SetSuperuser(ctx context.Context, targetID uint, flag bool) error {
	l := logging.FromContext(ctx).With("svc", "auth.set_superuser", "target", targetID)
	if err := s.Repo.SetSuperuser(ctx, targetID, flag); err != nil {
		l.Warn("set_superuser_error", "error", err)
		return err
	}
	l.Info("superuser_changed", "is_superuser", flag)
	return nil
}
