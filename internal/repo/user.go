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

// CreateUser inserts u and makes it an admin when it is the only user.
// The insert comes first so the write lock is held before the count; on
// postgres an advisory lock keeps two concurrent first registrations from
// both seeing themselves alone.
func (r *GormRepo) CreateUser(ctx context.Context, u *models.User) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if isPostgres(tx) {
			if err := tx.Exec("SELECT pg_advisory_xact_lock(?)", registrationLock).Error; err != nil {
				return err
			}
		}

		u.IsAdmin = false
		if err := translate(tx.Create(u).Error); err != nil {
			if errors.Is(err, domain.ErrConflict) {
				return fmt.Errorf("email already exists: %w", domain.ErrConflict)
			}
			return err
		}

		var total int64
		if err := tx.Model(&models.User{}).Count(&total).Error; err != nil {
			return err
		}
		if total != 1 {
			return nil
		}
		if err := tx.Model(u).UpdateColumn("is_admin", true).Error; err != nil {
			return err
		}
		u.IsAdmin = true
		return nil
	})
}

func (r *GormRepo) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *GormRepo) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *GormRepo) ListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := r.DB.WithContext(ctx).Order("id ASC").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// UpdateUser applies the non-empty profile fields. Keys are column names.
func (r *GormRepo) UpdateUser(ctx context.Context, id uint, fields map[string]any) (*models.User, error) {
	var user models.User
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&user, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrUserNotFound
			}
			return err
		}
		if len(fields) == 0 {
			return nil
		}
		if err := tx.Model(&user).Updates(fields).Error; err != nil {
			return translate(err)
		}
		return tx.First(&user, id).Error
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *GormRepo) IsSuperuser(ctx context.Context, userID uint) (bool, error) {
	var su models.Superuser
	res := r.DB.WithContext(ctx).Where("user_id = ?", userID).Limit(1).Find(&su)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0 && su.IsSuperuser, nil
}

func (r *GormRepo) SetSuperuser(ctx context.Context, userID uint, flag bool) error {
	if _, err := r.GetUserByID(ctx, userID); err != nil {
		return err
	}
	su := models.Superuser{UserID: userID, IsSuperuser: flag}
	return r.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"is_superuser"}),
	}).Create(&su).Error
}
