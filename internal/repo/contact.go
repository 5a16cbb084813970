package repo

import (
	"context"

	"github.com/Skotchmaster/yoneltic/internal/models"
)

func (r *GormRepo) CreateContact(ctx context.Context, c *models.Contact) error {
	return r.DB.WithContext(ctx).Create(c).Error
}

func (r *GormRepo) ListContacts(ctx context.Context, offset, limit int) (int64, []models.Contact, error) {
	var total int64
	if err := r.DB.WithContext(ctx).Model(&models.Contact{}).Count(&total).Error; err != nil {
		return 0, nil, err
	}
	items := make([]models.Contact, 0, limit)
	if err := r.DB.WithContext(ctx).
		Order("id DESC").
		Offset(offset).
		Limit(limit).
		Find(&items).Error; err != nil {
		return 0, nil, err
	}
	return total, items, nil
}

func (r *GormRepo) DeleteContact(ctx context.Context, id uint) error {
	return rowsOrNotFound(r.DB.WithContext(ctx).Delete(&models.Contact{}, id))
}
