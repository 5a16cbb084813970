package repo

import (
	"errors"

	"gorm.io/gorm"
)

var (
	ErrAdminExists         = errors.New("admin already exists")
	ErrCategoryInUse       = errors.New("category is referenced by products")
	ErrCategoryHasChildren = errors.New("category has subcategories")
	ErrCategoryMissing     = errors.New("referenced category does not exist")
)

type GormRepo struct {
	DB *gorm.DB
}

func rowsOrNotFound(res *gorm.DB) error {
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
