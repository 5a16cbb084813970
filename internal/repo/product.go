package repo

import (
	"context"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Skotchmaster/yoneltic/internal/models"
)

// ProductFilter holds the optional listing filters; zero values are ignored.
type ProductFilter struct {
	CategoryID      *uint
	SubCategoryName string
	NameContains    string
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func (r *GormRepo) filteredProducts(ctx context.Context, f ProductFilter) *gorm.DB {
	q := r.DB.WithContext(ctx).Model(&models.Product{})
	if f.CategoryID != nil {
		q = q.Where("products.category_id = ?", *f.CategoryID)
	}
	if f.SubCategoryName != "" {
		q = q.Joins("JOIN categories AS sub_cat ON sub_cat.id = products.sub_category_id").
			Where("sub_cat.name = ?", f.SubCategoryName)
	}
	if f.NameContains != "" {
		q = q.Where(`products.name LIKE ? ESCAPE '\'`, "%"+likeEscaper.Replace(f.NameContains)+"%")
	}
	return q
}

func (r *GormRepo) ListProducts(ctx context.Context, f ProductFilter, offset, limit int) (int64, []models.Product, error) {
	var total int64
	if err := r.filteredProducts(ctx, f).Count(&total).Error; err != nil {
		return 0, nil, err
	}

	items := make([]models.Product, 0, limit)
	if err := r.filteredProducts(ctx, f).
		Preload("Category").
		Preload("SubCategory").
		Order("products.id ASC").
		Offset(offset).
		Limit(limit).
		Find(&items).Error; err != nil {
		return 0, nil, err
	}
	return total, items, nil
}

// GetProductsByIDs keeps the order of ids and skips ids that no longer exist.
func (r *GormRepo) GetProductsByIDs(ctx context.Context, ids []uint) ([]models.Product, error) {
	if len(ids) == 0 {
		return []models.Product{}, nil
	}
	var found []models.Product
	if err := r.DB.WithContext(ctx).
		Preload("Category").
		Preload("SubCategory").
		Where("id IN ?", ids).
		Find(&found).Error; err != nil {
		return nil, err
	}

	byID := make(map[uint]models.Product, len(found))
	for _, p := range found {
		byID[p.ID] = p
	}
	out := make([]models.Product, 0, len(found))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

// ProductsByCategory returns the products that use id as category or sub-category.
func (r *GormRepo) ProductsByCategory(ctx context.Context, id uint) ([]models.Product, error) {
	var items []models.Product
	if err := r.DB.WithContext(ctx).
		Preload("Category").
		Preload("SubCategory").
		Where("category_id = ? OR sub_category_id = ?", id, id).
		Order("id ASC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormRepo) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	var p models.Product
	if err := r.DB.WithContext(ctx).
		Preload("Category").
		Preload("SubCategory").
		First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *GormRepo) CreateProduct(ctx context.Context, p *models.Product) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockCategories(tx, p.CategoryID, p.SubCategoryID); err != nil {
			return err
		}
		return tx.Omit(clause.Associations).Create(p).Error
	})
}

func (r *GormRepo) SaveProduct(ctx context.Context, p *models.Product) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockCategories(tx, p.CategoryID, p.SubCategoryID); err != nil {
			return err
		}
		res := tx.Model(&models.Product{}).
			Where("id = ?", p.ID).
			Select("name", "description", "image_url", "cloudinary_public_id", "category_id", "sub_category_id").
			Updates(map[string]any{
				"name":                 p.Name,
				"description":          p.Description,
				"image_url":            p.ImageURL,
				"cloudinary_public_id": p.CloudinaryPublicID,
				"category_id":          p.CategoryID,
				"sub_category_id":      p.SubCategoryID,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			var n int64
			if err := tx.Model(&models.Product{}).Where("id = ?", p.ID).Count(&n).Error; err != nil {
				return err
			}
			if n == 0 {
				return gorm.ErrRecordNotFound
			}
		}
		return nil
	})
}

func (r *GormRepo) DeleteProduct(ctx context.Context, id uint) error {
	return rowsOrNotFound(r.DB.WithContext(ctx).Delete(&models.Product{}, id))
}
