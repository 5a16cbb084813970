package service

import (
	"context"
	"strings"

	"github.com/Skotchmaster/yoneltic/internal/models"
	"github.com/Skotchmaster/yoneltic/internal/repo"
	"github.com/Skotchmaster/yoneltic/internal/transport"
	"github.com/Skotchmaster/yoneltic/internal/util"
	"github.com/Skotchmaster/yoneltic/pkg/logging"
)

type ContactService struct {
	Repo *repo.GormRepo
}

func (s *ContactService) Submit(ctx context.Context, req transport.ContactRequest) (*models.Contact, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	req.Message = strings.TrimSpace(req.Message)
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	c := models.Contact{Name: req.Name, Email: req.Email, Message: req.Message}
	if err := s.Repo.CreateContact(ctx, &c); err != nil {
		return nil, err
	}
	logging.FromContext(ctx).Info("contact_submitted", "contact_id", c.ID)
	return &c, nil
}

func (s *ContactService) List(ctx context.Context, page, pageSize int) (*transport.ContactPage, error) {
	page, size := util.Normalize(page, pageSize)
	offset, limit := util.Calculate(page, size)

	total, items, err := s.Repo.ListContacts(ctx, offset, limit)
	if err != nil {
		return nil, err
	}
	return &transport.ContactPage{
		Contacts:      items,
		TotalPages:    util.TotalPages(total, size),
		TotalContacts: total,
	}, nil
}

func (s *ContactService) Delete(ctx context.Context, id uint) error {
	if err := s.Repo.DeleteContact(ctx, id); err != nil {
		return notFound(err, "contact", id)
	}
	logging.FromContext(ctx).Info("contact_deleted", "contact_id", id)
	return nil
}
