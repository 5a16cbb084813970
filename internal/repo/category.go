package repo

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Skotchmaster/yoneltic/internal/models"
)

// ListCategories returns every category ordered by id; the tree is assembled by the caller.
func (r *GormRepo) ListCategories(ctx context.Context) ([]models.Category, error) {
	var items []models.Category
	if err := r.DB.WithContext(ctx).Order("id ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormRepo) CategoryExists(ctx context.Context, id uint) (bool, error) {
	var n int64
	if err := r.DB.WithContext(ctx).Model(&models.Category{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *GormRepo) CreateCategory(ctx context.Context, c *models.Category) error {
	return r.DB.WithContext(ctx).Omit(clause.Associations).Create(c).Error
}

// UpdateCategory overwrites name and parent_id, including a nil parent.
// Every category row is locked before check runs, so check sees the hierarchy the write
// will land on and concurrent reparents are serialized.
func (r *GormRepo) UpdateCategory(ctx context.Context, c *models.Category, check func(all []models.Category) error) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var all []models.Category
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Order("id ASC").Find(&all).Error; err != nil {
			return err
		}
		if check != nil {
			if err := check(all); err != nil {
				return err
			}
		}

		return rowsOrNotFound(tx.Model(&models.Category{}).
			Where("id = ?", c.ID).
			Select("name", "parent_id").
			Updates(map[string]any{"name": c.Name, "parent_id": c.ParentID}))
	})
}

// DeleteCategory removes the category unless a product or a child category still points at it.
// The row is locked for the duration of the checks.
func (r *GormRepo) DeleteCategory(ctx context.Context, id uint) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var c models.Category
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&c, id).Error; err != nil {
			return err
		}

		var refs int64
		if err := tx.Model(&models.Product{}).
			Where("category_id = ? OR sub_category_id = ?", id, id).
			Count(&refs).Error; err != nil {
			return err
		}
		if refs > 0 {
			return ErrCategoryInUse
		}

		var children int64
		if err := tx.Model(&models.Category{}).Where("parent_id = ?", id).Count(&children).Error; err != nil {
			return err
		}
		if children > 0 {
			return ErrCategoryHasChildren
		}

		return rowsOrNotFound(tx.Delete(&models.Category{}, id))
	})
}

// lockCategories takes a shared lock on the given ids and fails with ErrCategoryMissing
// when any of them does not exist.
func lockCategories(tx *gorm.DB, ids ...*uint) error {
	want := make(map[uint]struct{})
	for _, id := range ids {
		if id != nil {
			want[*id] = struct{}{}
		}
	}
	if len(want) == 0 {
		return nil
	}

	keys := make([]uint, 0, len(want))
	for id := range want {
		keys = append(keys, id)
	}

	var found []uint
	if err := tx.Model(&models.Category{}).
		Clauses(clause.Locking{Strength: "SHARE"}).
		Where("id IN ?", keys).
		Pluck("id", &found).Error; err != nil {
		return err
	}
	if len(found) != len(keys) {
		return ErrCategoryMissing
	}
	return nil
}
