package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/Skotchmaster/yoneltic/internal/models"
	"github.com/Skotchmaster/yoneltic/internal/repo"
	"github.com/Skotchmaster/yoneltic/internal/transport"
	"github.com/Skotchmaster/yoneltic/pkg/logging"
)

// TreeCache stores the serialized root forest per generation. Invalidate moves to a new
// generation. Implemented by cache.CategoryTree.
type TreeCache interface {
	Generation(ctx context.Context) (int64, error)
	Get(ctx context.Context, gen int64) ([]byte, bool, error)
	Set(ctx context.Context, gen int64, payload []byte) error
	Invalidate(ctx context.Context) error
}

// Reindexer refreshes search documents that embed a category name.
type Reindexer interface {
	ReindexCategory(ctx context.Context, id uint) error
}

type CategoryService struct {
	Repo    *repo.GormRepo
	Cache   TreeCache
	Reindex Reindexer
}

// forest indexes categories by id and by parent, children kept in id order.
type forest struct {
	byID     map[uint]models.Category
	children map[uint][]uint
	roots    []uint
}

func newForest(items []models.Category) *forest {
	f := &forest{
		byID:     make(map[uint]models.Category, len(items)),
		children: make(map[uint][]uint),
	}
	for _, c := range items {
		f.byID[c.ID] = c
	}
	for _, c := range items {
		if c.ParentID == nil {
			f.roots = append(f.roots, c.ID)
			continue
		}
		f.children[*c.ParentID] = append(f.children[*c.ParentID], c.ID)
	}
	return f
}

func (f *forest) dto(id uint, visiting map[uint]bool) transport.CategoryDTO {
	c := f.byID[id]
	out := transport.CategoryDTO{
		ID:            c.ID,
		Name:          c.Name,
		ParentID:      c.ParentID,
		SubCategories: []transport.CategoryDTO{},
	}
	// rows written outside this service may already form a loop
	if visiting[id] {
		return out
	}
	visiting[id] = true
	for _, child := range f.children[id] {
		out.SubCategories = append(out.SubCategories, f.dto(child, visiting))
	}
	delete(visiting, id)
	return out
}

// createsCycle walks up from parent and reports whether it meets id.
func (f *forest) createsCycle(id uint, parent *uint) bool {
	seen := make(map[uint]bool)
	for cur := parent; cur != nil; {
		if *cur == id {
			return true
		}
		if seen[*cur] {
			return false
		}
		seen[*cur] = true
		c, ok := f.byID[*cur]
		if !ok {
			return false
		}
		cur = c.ParentID
	}
	return false
}

func (s *CategoryService) loadForest(ctx context.Context) (*forest, error) {
	items, err := s.Repo.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	return newForest(items), nil
}

func (s *CategoryService) ListRoots(ctx context.Context) ([]transport.CategoryDTO, error) {
	l := logging.FromContext(ctx).With("svc", "category.list_roots")

	// the generation is read before the rows so a concurrent write makes our Set unreachable
	var (
		gen       int64
		cacheable bool
	)
	if s.Cache != nil {
		var err error
		if gen, err = s.Cache.Generation(ctx); err != nil {
			l.Warn("category_cache_unavailable", "error", err)
		} else {
			cacheable = true
			payload, ok, err := s.Cache.Get(ctx, gen)
			if err != nil {
				l.Warn("category_cache_unavailable", "error", err)
			} else if ok {
				var cached []transport.CategoryDTO
				if err := json.Unmarshal(payload, &cached); err == nil {
					return cached, nil
				}
			}
		}
	}

	f, err := s.loadForest(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]transport.CategoryDTO, 0, len(f.roots))
	for _, id := range f.roots {
		out = append(out, f.dto(id, map[uint]bool{}))
	}

	if cacheable {
		if b, err := json.Marshal(out); err == nil {
			if err := s.Cache.Set(ctx, gen, b); err != nil {
				l.Warn("category_cache_set_failed", "error", err)
			}
		}
	}
	return out, nil
}

func (s *CategoryService) Get(ctx context.Context, id uint) (*transport.CategoryDTO, error) {
	f, err := s.loadForest(ctx)
	if err != nil {
		return nil, err
	}
	if _, ok := f.byID[id]; !ok {
		return nil, fmt.Errorf("%w: category %d", ErrNotFound, id)
	}
	dto := f.dto(id, map[uint]bool{})
	return &dto, nil
}

func (s *CategoryService) Create(ctx context.Context, req transport.CategoryRequest) (*transport.CategoryDTO, error) {
	l := logging.FromContext(ctx).With("svc", "category.create")

	req.Name = strings.TrimSpace(req.Name)
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	if req.ParentID != nil {
		ok, err := s.Repo.CategoryExists(ctx, *req.ParentID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("%w: parent category %d does not exist", ErrValidation, *req.ParentID)
		}
	}

	c := models.Category{Name: req.Name, ParentID: req.ParentID}
	if err := s.Repo.CreateCategory(ctx, &c); err != nil {
		return nil, err
	}
	s.invalidate(ctx)

	l.Info("category_created", "category_id", c.ID)
	return &transport.CategoryDTO{
		ID:            c.ID,
		Name:          c.Name,
		ParentID:      c.ParentID,
		SubCategories: []transport.CategoryDTO{},
	}, nil
}

// Update renames and reparents. The new parent must exist and must not be the category itself or one of its descendants.
// The check runs against the locked hierarchy inside the write transaction.
func (s *CategoryService) Update(ctx context.Context, id uint, req transport.CategoryRequest) error {
	l := logging.FromContext(ctx).With("svc", "category.update", "category_id", id)

	req.Name = strings.TrimSpace(req.Name)
	if err := validateStruct(req); err != nil {
		return err
	}

	var renamed bool
	check := func(all []models.Category) error {
		f := newForest(all)
		cur, ok := f.byID[id]
		if !ok {
			return fmt.Errorf("%w: category %d", ErrNotFound, id)
		}
		renamed = cur.Name != req.Name
		if req.ParentID == nil {
			return nil
		}
		if _, ok := f.byID[*req.ParentID]; !ok {
			return fmt.Errorf("%w: parent category %d does not exist", ErrValidation, *req.ParentID)
		}
		if f.createsCycle(id, req.ParentID) {
			l.Warn("category_update_rejected", "reason", "cycle", "parent_id", *req.ParentID)
			return fmt.Errorf("%w: category %d cannot be moved under itself or its descendant %d", ErrValidation, id, *req.ParentID)
		}
		return nil
	}

	if err := s.Repo.UpdateCategory(ctx, &models.Category{ID: id, Name: req.Name, ParentID: req.ParentID}, check); err != nil {
		return notFound(err, "category", id)
	}
	s.invalidate(ctx)

	if renamed && s.Reindex != nil {
		if err := s.Reindex.ReindexCategory(ctx, id); err != nil {
			l.Warn("category_reindex_failed", "error", err)
		}
	}

	l.Info("category_updated", "renamed", renamed)
	return nil
}

func (s *CategoryService) Delete(ctx context.Context, id uint) error {
	l := logging.FromContext(ctx).With("svc", "category.delete", "category_id", id)

	if err := s.Repo.DeleteCategory(ctx, id); err != nil {
		switch {
		case errors.Is(err, repo.ErrCategoryInUse):
			return fmt.Errorf("%w: category %d is used by products", ErrConflict, id)
		case errors.Is(err, repo.ErrCategoryHasChildren):
			return fmt.Errorf("%w: category %d has subcategories", ErrConflict, id)
		default:
			return notFound(err, "category", id)
		}
	}
	s.invalidate(ctx)

	l.Info("category_deleted")
	return nil
}

func (s *CategoryService) invalidate(ctx context.Context) {
	if s.Cache == nil {
		return
	}
	if err := s.Cache.Invalidate(ctx); err != nil {
		logging.FromContext(ctx).Warn("category_cache_invalidate_failed", "error", err)
	}
}
