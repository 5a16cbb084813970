package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Skotchmaster/yoneltic/internal/models"
)

func (r *GormRepo) CreateAdminIfNotExists(ctx context.Context, a *models.Admin) error {
	tx := r.DB.WithContext(ctx).Where("username = ?", a.Username).FirstOrCreate(a)
	if tx.Error != nil {
		if errors.Is(tx.Error, gorm.ErrDuplicatedKey) {
			return ErrAdminExists
		}
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return ErrAdminExists
	}
	return nil
}

func (r *GormRepo) GetAdminByUsername(ctx context.Context, username string) (*models.Admin, error) {
	var a models.Admin
	if err := r.DB.WithContext(ctx).Where("username = ?", username).First(&a).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *GormRepo) GetAdmin(ctx context.Context, id uint) (*models.Admin, error) {
	var a models.Admin
	if err := r.DB.WithContext(ctx).First(&a, id).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *GormRepo) ListAdmins(ctx context.Context) ([]models.Admin, error) {
	var items []models.Admin
	if err := r.DB.WithContext(ctx).Order("id ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// UpdateAdmin applies fn to the locked row; a username held by another admin yields ErrAdminExists.
func (r *GormRepo) UpdateAdmin(ctx context.Context, id uint, fn func(a *models.Admin) error) (*models.Admin, error) {
	var a models.Admin
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&a, id).Error; err != nil {
			return err
		}
		if err := fn(&a); err != nil {
			return err
		}

		var clash int64
		if err := tx.Model(&models.Admin{}).
			Where("username = ? AND id <> ?", a.Username, a.ID).
			Count(&clash).Error; err != nil {
			return err
		}
		if clash > 0 {
			return ErrAdminExists
		}
		return tx.Model(&a).Select("username", "password_hash").Updates(&a).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAdminExists
		}
		return nil, err
	}
	return &a, nil
}

func (r *GormRepo) DeleteAdmin(ctx context.Context, id uint) error {
	return rowsOrNotFound(r.DB.WithContext(ctx).Delete(&models.Admin{}, id))
}
