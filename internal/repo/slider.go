package repo

import (
	"context"

	"github.com/Skotchmaster/yoneltic/internal/models"
)

// ListSliderImages returns the newest images first.
func (r *GormRepo) ListSliderImages(ctx context.Context) ([]models.SliderImage, error) {
	var items []models.SliderImage
	if err := r.DB.WithContext(ctx).Order("id DESC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormRepo) GetSliderImage(ctx context.Context, id uint) (*models.SliderImage, error) {
	var s models.SliderImage
	if err := r.DB.WithContext(ctx).First(&s, id).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *GormRepo) CreateSliderImage(ctx context.Context, s *models.SliderImage) error {
	return r.DB.WithContext(ctx).Create(s).Error
}

func (r *GormRepo) UpdateSliderImage(ctx context.Context, s *models.SliderImage) error {
	return rowsOrNotFound(r.DB.WithContext(ctx).
		Model(&models.SliderImage{}).
		Where("id = ?", s.ID).
		Updates(map[string]any{
			"image_url":            s.ImageURL,
			"cloudinary_public_id": s.CloudinaryPublicID,
		}))
}

func (r *GormRepo) DeleteSliderImage(ctx context.Context, id uint) error {
	return rowsOrNotFound(r.DB.WithContext(ctx).Delete(&models.SliderImage{}, id))
}
