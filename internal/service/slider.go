package service

import (
	"context"
	"fmt"

	"github.com/Skotchmaster/yoneltic/internal/imagehost"
	"github.com/Skotchmaster/yoneltic/internal/models"
	"github.com/Skotchmaster/yoneltic/internal/repo"
	"github.com/Skotchmaster/yoneltic/pkg/logging"
)

type SliderService struct {
	Repo   *repo.GormRepo
	Images imagehost.Gateway
}

func (s *SliderService) List(ctx context.Context) ([]models.SliderImage, error) {
	return s.Repo.ListSliderImages(ctx)
}

func (s *SliderService) Upload(ctx context.Context, file *imagehost.File) (*models.SliderImage, error) {
	l := logging.FromContext(ctx).With("svc", "slider.upload")

	if file.Empty() {
		return nil, fmt.Errorf("%w: image file is required", ErrValidation)
	}
	img, err := s.Images.Upload(ctx, file)
	if err != nil {
		l.Error("slider_image_upload_failed", "error", err)
		return nil, err
	}

	item := models.SliderImage{ImageURL: img.URL, CloudinaryPublicID: img.PublicID}
	if err := s.Repo.CreateSliderImage(ctx, &item); err != nil {
		releaseImage(ctx, s.Images, img.PublicID)
		return nil, err
	}

	l.Info("slider_image_created", "slider_id", item.ID)
	return &item, nil
}

// Update swaps the hosted image when a file is given and returns the entity as stored.
func (s *SliderService) Update(ctx context.Context, id uint, file *imagehost.File) (*models.SliderImage, error) {
	l := logging.FromContext(ctx).With("svc", "slider.update", "slider_id", id)

	item, err := s.Repo.GetSliderImage(ctx, id)
	if err != nil {
		return nil, notFound(err, "slider image", id)
	}
	if file.Empty() {
		return item, nil
	}

	img, err := s.Images.Upload(ctx, file)
	if err != nil {
		l.Error("slider_image_upload_failed", "error", err)
		return nil, err
	}
	previous := item.CloudinaryPublicID
	item.ImageURL, item.CloudinaryPublicID = img.URL, img.PublicID

	if err := s.Repo.UpdateSliderImage(ctx, item); err != nil {
		releaseImage(ctx, s.Images, img.PublicID)
		return nil, notFound(err, "slider image", id)
	}
	if previous != img.PublicID {
		releaseImage(ctx, s.Images, previous)
	}

	l.Info("slider_image_updated")
	return item, nil
}

func (s *SliderService) Delete(ctx context.Context, id uint) error {
	item, err := s.Repo.GetSliderImage(ctx, id)
	if err != nil {
		return notFound(err, "slider image", id)
	}
	releaseImage(ctx, s.Images, item.CloudinaryPublicID)

	if err := s.Repo.DeleteSliderImage(ctx, id); err != nil {
		return notFound(err, "slider image", id)
	}
	logging.FromContext(ctx).Info("slider_image_deleted", "slider_id", id)
	return nil
}
