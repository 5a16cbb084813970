package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/Skotchmaster/yoneltic/internal/imagehost"
	"github.com/Skotchmaster/yoneltic/internal/models"
	"github.com/Skotchmaster/yoneltic/internal/repo"
	"github.com/Skotchmaster/yoneltic/internal/transport"
	"github.com/Skotchmaster/yoneltic/internal/util"
	"github.com/Skotchmaster/yoneltic/pkg/logging"
)

// ProductIndexer is the optional full-text index. Implemented by search.ProductIndex.
type ProductIndexer interface {
	Put(ctx context.Context, p models.Product) error
	Remove(ctx context.Context, id uint) error
	Search(ctx context.Context, query string, from, size int) (int64, []uint, error)
}

type CatalogService struct {
	Repo   *repo.GormRepo
	Images imagehost.Gateway
	Index  ProductIndexer
}

// subCategoryAll disables the sub-category filter. It is matched exactly, so a category named "All" still filters.
const subCategoryAll = "all"

func (s *CatalogService) List(ctx context.Context, q transport.ProductQuery) (*transport.ProductPage, error) {
	page, size := util.Normalize(q.Page, q.PageSize)
	offset, limit := util.Calculate(page, size)

	var f repo.ProductFilter
	if q.CategoryID != "" {
		if id, err := strconv.ParseUint(q.CategoryID, 10, 64); err == nil {
			cid := uint(id)
			f.CategoryID = &cid
		}
	}
	if q.SubCategory != "" && q.SubCategory != subCategoryAll {
		f.SubCategoryName = q.SubCategory
	}
	// the term is matched as given, surrounding spaces included
	f.NameContains = q.Search

	total, items, err := s.Repo.ListProducts(ctx, f, offset, limit)
	if err != nil {
		return nil, err
	}
	return &transport.ProductPage{
		Products:      items,
		TotalPages:    util.TotalPages(total, size),
		TotalProducts: total,
	}, nil
}

// Search asks the full-text index when one is configured and falls back to a name substring listing.
func (s *CatalogService) Search(ctx context.Context, query string, page, pageSize int) (*transport.ProductPage, error) {
	l := logging.FromContext(ctx).With("svc", "catalog.search")

	page, size := util.Normalize(page, pageSize)

	if s.Index != nil && strings.TrimSpace(query) != "" {
		offset, limit := util.Calculate(page, size)
		total, ids, err := s.Index.Search(ctx, query, offset, limit)
		if err == nil {
			items, err := s.Repo.GetProductsByIDs(ctx, ids)
			if err != nil {
				return nil, err
			}
			return &transport.ProductPage{
				Products:      items,
				TotalPages:    util.TotalPages(total, size),
				TotalProducts: total,
			}, nil
		}
		l.Warn("search_index_unavailable", "error", err)
	}

	return s.List(ctx, transport.ProductQuery{Page: page, PageSize: size, Search: query})
}

func (s *CatalogService) Get(ctx context.Context, id uint) (*models.Product, error) {
	p, err := s.Repo.GetProduct(ctx, id)
	if err != nil {
		return nil, notFound(err, "product", id)
	}
	return p, nil
}

func normalizeInput(in *transport.ProductInput) error {
	in.Name = strings.TrimSpace(in.Name)
	in.CloudinaryPublicID = strings.TrimSpace(in.CloudinaryPublicID)
	return validateStruct(*in)
}

func categoryMissing(err error) error {
	if errors.Is(err, repo.ErrCategoryMissing) {
		return fmt.Errorf("%w: %w", ErrValidation, err)
	}
	return err
}

// Create uploads the image first; a failed upload leaves no record behind.
func (s *CatalogService) Create(ctx context.Context, in transport.ProductInput, file *imagehost.File) (*models.Product, error) {
	l := logging.FromContext(ctx).With("svc", "catalog.create")

	if err := normalizeInput(&in); err != nil {
		return nil, err
	}

	p := models.Product{
		Name:               in.Name,
		Description:        in.Description,
		CategoryID:         in.CategoryID,
		SubCategoryID:      in.SubCategoryID,
		CloudinaryPublicID: in.CloudinaryPublicID,
	}

	var uploaded string
	if !file.Empty() {
		img, err := s.Images.Upload(ctx, file)
		if err != nil {
			l.Error("product_image_upload_failed", "error", err)
			return nil, err
		}
		p.ImageURL, p.CloudinaryPublicID = img.URL, img.PublicID
		uploaded = img.PublicID
	}

	if err := s.Repo.CreateProduct(ctx, &p); err != nil {
		releaseImage(ctx, s.Images, uploaded)
		return nil, categoryMissing(err)
	}

	// the row is committed; a failed reload must not turn the create into an error
	created, err := s.Repo.GetProduct(ctx, p.ID)
	if err != nil {
		l.Warn("product_reload_failed", "product_id", p.ID, "error", err)
		created = &p
	}
	s.index(ctx, *created)

	l.Info("product_created", "product_id", created.ID, "has_image", uploaded != "")
	return created, nil
}

// Update overwrites the product fields. A new image replaces the hosted one; the previous image is
// removed only after the record points at the new one.
func (s *CatalogService) Update(ctx context.Context, id uint, in transport.ProductInput, file *imagehost.File) error {
	l := logging.FromContext(ctx).With("svc", "catalog.update", "product_id", id)

	if err := normalizeInput(&in); err != nil {
		return err
	}

	p, err := s.Repo.GetProduct(ctx, id)
	if err != nil {
		return notFound(err, "product", id)
	}
	previous := p.CloudinaryPublicID

	p.Name = in.Name
	p.Description = in.Description
	p.CategoryID = in.CategoryID
	p.SubCategoryID = in.SubCategoryID
	if in.CloudinaryPublicID != "" {
		p.CloudinaryPublicID = in.CloudinaryPublicID
	}

	var uploaded string
	if !file.Empty() {
		img, err := s.Images.Upload(ctx, file)
		if err != nil {
			l.Error("product_image_upload_failed", "error", err)
			return err
		}
		p.ImageURL, p.CloudinaryPublicID = img.URL, img.PublicID
		uploaded = img.PublicID
	}

	if err := s.Repo.SaveProduct(ctx, p); err != nil {
		releaseImage(ctx, s.Images, uploaded)
		return notFound(categoryMissing(err), "product", id)
	}

	if uploaded != "" && previous != "" && previous != uploaded {
		releaseImage(ctx, s.Images, previous)
	}

	if updated, err := s.Repo.GetProduct(ctx, id); err == nil {
		s.index(ctx, *updated)
	}

	l.Info("product_updated", "image_replaced", uploaded != "")
	return nil
}

func (s *CatalogService) Delete(ctx context.Context, id uint) error {
	l := logging.FromContext(ctx).With("svc", "catalog.delete", "product_id", id)

	p, err := s.Repo.GetProduct(ctx, id)
	if err != nil {
		return notFound(err, "product", id)
	}

	releaseImage(ctx, s.Images, p.CloudinaryPublicID)

	if err := s.Repo.DeleteProduct(ctx, id); err != nil {
		return notFound(err, "product", id)
	}

	if s.Index != nil {
		if err := s.Index.Remove(ctx, id); err != nil {
			l.Warn("product_unindex_failed", "error", err)
		}
	}

	l.Info("product_deleted")
	return nil
}

// ReindexCategory refreshes the index documents of every product filed under the category,
// which carry its name.
func (s *CatalogService) ReindexCategory(ctx context.Context, id uint) error {
	if s.Index == nil {
		return nil
	}
	items, err := s.Repo.ProductsByCategory(ctx, id)
	if err != nil {
		return err
	}
	var errs []error
	for _, p := range items {
		if err := s.Index.Put(ctx, p); err != nil {
			errs = append(errs, fmt.Errorf("product %d: %w", p.ID, err))
		}
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	logging.FromContext(ctx).Info("category_reindexed", "category_id", id, "products", len(items))
	return nil
}

// releaseImage deletes a hosted image and only logs failures. Empty ids never reach the gateway.
func releaseImage(ctx context.Context, images imagehost.Gateway, publicID string) {
	if publicID == "" {
		return
	}
	if err := images.Delete(ctx, publicID); err != nil {
		logging.FromContext(ctx).Warn("image_release_failed", "public_id", publicID, "error", err)
	}
}

func (s *CatalogService) index(ctx context.Context, p models.Product) {
	if s.Index == nil {
		return
	}
	if err := s.Index.Put(ctx, p); err != nil {
		logging.FromContext(ctx).Warn("product_index_failed", "product_id", p.ID, "error", err)
	}
}
