package service

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Skotchmaster/yoneltic/internal/imagehost"
	"github.com/Skotchmaster/yoneltic/internal/imagehost/imagehosttest"
	"github.com/Skotchmaster/yoneltic/internal/models"
	"github.com/Skotchmaster/yoneltic/internal/repo"
	"github.com/Skotchmaster/yoneltic/internal/repo/repotest"
	"github.com/Skotchmaster/yoneltic/internal/transport"
)

type fakeIndex struct {
	put     []uint
	docs    []models.Product
	removed []uint
	hits    []uint
	err     error
}

func (f *fakeIndex) Put(_ context.Context, p models.Product) error {
	f.put = append(f.put, p.ID)
	f.docs = append(f.docs, p)
	return nil
}

func (f *fakeIndex) Remove(_ context.Context, id uint) error {
	f.removed = append(f.removed, id)
	return nil
}

func (f *fakeIndex) Search(_ context.Context, _ string, _, _ int) (int64, []uint, error) {
	if f.err != nil {
		return 0, nil, f.err
	}
	return int64(len(f.hits)), f.hits, nil
}

func newCatalog(t *testing.T) (*CatalogService, *repo.GormRepo, *imagehosttest.Fake) {
	t.Helper()
	r := repotest.NewRepo(t)
	images := imagehosttest.New()
	return &CatalogService{Repo: r, Images: images}, r, images
}

func jpeg(name string) *imagehost.File {
	return &imagehost.File{Name: name, Data: []byte("\xff\xd8\xff" + name)}
}

func seedCategory(t *testing.T, r *repo.GormRepo, name string, parent *uint) uint {
	t.Helper()
	c := models.Category{Name: name, ParentID: parent}
	require.NoError(t, r.CreateCategory(context.Background(), &c))
	return c.ID
}

func TestCatalogService_List_Pagination(t *testing.T) {
	t.Parallel()

	svc, r, _ := newCatalog(t)
	ctx := context.Background()
	for i := 1; i <= 45; i++ {
		require.NoError(t, r.CreateProduct(ctx, &models.Product{Name: fmt.Sprintf("product %02d", i)}))
	}

	page, err := svc.List(ctx, transport.ProductQuery{Page: 2, PageSize: 30})
	require.NoError(t, err)
	assert.Len(t, page.Products, 15)
	assert.EqualValues(t, 45, page.TotalProducts)
	assert.Equal(t, 2, page.TotalPages)
	assert.Equal(t, "product 31", page.Products[0].Name)

	defaults, err := svc.List(ctx, transport.ProductQuery{})
	require.NoError(t, err)
	assert.Len(t, defaults.Products, 30)
}

func TestCatalogService_List_Filters(t *testing.T) {
	t.Parallel()

	svc, r, _ := newCatalog(t)
	ctx := context.Background()

	home := seedCategory(t, r, "Home", nil)
	kitchen := seedCategory(t, r, "Kitchen", &home)
	garden := seedCategory(t, r, "Garden", &home)

	require.NoError(t, r.CreateProduct(ctx, &models.Product{Name: "Steel pan", CategoryID: &home, SubCategoryID: &kitchen}))
	require.NoError(t, r.CreateProduct(ctx, &models.Product{Name: "Glass pan", CategoryID: &home, SubCategoryID: &kitchen}))
	require.NoError(t, r.CreateProduct(ctx, &models.Product{Name: "Rake", CategoryID: &home, SubCategoryID: &garden}))
	require.NoError(t, r.CreateProduct(ctx, &models.Product{Name: "100% cotton"}))

	all, err := svc.List(ctx, transport.ProductQuery{})
	require.NoError(t, err)
	withAll, err := svc.List(ctx, transport.ProductQuery{SubCategory: "all"})
	require.NoError(t, err)
	assert.Equal(t, all, withAll)
	assert.EqualValues(t, 4, all.TotalProducts)

	sub, err := svc.List(ctx, transport.ProductQuery{SubCategory: "Kitchen"})
	require.NoError(t, err)
	assert.EqualValues(t, 2, sub.TotalProducts)
	require.NotNil(t, sub.Products[0].SubCategory)
	assert.Equal(t, "Kitchen", sub.Products[0].SubCategory.Name)
	require.NotNil(t, sub.Products[0].Category)
	assert.Equal(t, "Home", sub.Products[0].Category.Name)

	byCat, err := svc.List(ctx, transport.ProductQuery{CategoryID: fmt.Sprint(home), Search: "pan"})
	require.NoError(t, err)
	assert.EqualValues(t, 2, byCat.TotalProducts)

	malformed, err := svc.List(ctx, transport.ProductQuery{CategoryID: "abc"})
	require.NoError(t, err)
	assert.EqualValues(t, 4, malformed.TotalProducts, "a malformed categoryId is ignored")

	percent, err := svc.List(ctx, transport.ProductQuery{Search: "%"})
	require.NoError(t, err)
	require.EqualValues(t, 1, percent.TotalProducts, "wildcards are matched literally")
	assert.Equal(t, "100% cotton", percent.Products[0].Name)
}

func TestCatalogService_List_SubCategoryAllIsExact(t *testing.T) {
	t.Parallel()

	svc, r, _ := newCatalog(t)
	ctx := context.Background()

	root := seedCategory(t, r, "Root", nil)
	named := seedCategory(t, r, "All", &root)
	other := seedCategory(t, r, "Other", &root)
	require.NoError(t, r.CreateProduct(ctx, &models.Product{Name: "in All", SubCategoryID: &named}))
	require.NoError(t, r.CreateProduct(ctx, &models.Product{Name: "in Other", SubCategoryID: &other}))

	tests := []struct {
		sub  string
		want int64
	}{
		{sub: "all", want: 2},
		{sub: "All", want: 1},
		{sub: "ALL", want: 0},
		{sub: " all", want: 0},
	}
	for _, tt := range tests {
		page, err := svc.List(ctx, transport.ProductQuery{SubCategory: tt.sub})
		require.NoError(t, err)
		assert.EqualValues(t, tt.want, page.TotalProducts, "%q", tt.sub)
	}
}

func TestCatalogService_List_SearchTermIsNotTrimmed(t *testing.T) {
	t.Parallel()

	svc, r, _ := newCatalog(t)
	ctx := context.Background()
	require.NoError(t, r.CreateProduct(ctx, &models.Product{Name: "steel pan"}))
	require.NoError(t, r.CreateProduct(ctx, &models.Product{Name: "pantry shelf"}))

	tests := []struct {
		search string
		want   int64
	}{
		{search: "", want: 2},
		{search: "pan", want: 2},
		{search: " pan", want: 1},
		{search: "   ", want: 0},
	}
	for _, tt := range tests {
		page, err := svc.List(ctx, transport.ProductQuery{Search: tt.search})
		require.NoError(t, err)
		assert.EqualValues(t, tt.want, page.TotalProducts, "%q", tt.search)
	}

	svc.Index = &fakeIndex{err: errors.New("down")}
	page, err := svc.Search(ctx, " pan", 1, 10)
	require.NoError(t, err)
	require.Len(t, page.Products, 1)
	assert.Equal(t, "steel pan", page.Products[0].Name)
}

func TestCatalogService_Create(t *testing.T) {
	t.Parallel()

	svc, r, images := newCatalog(t)
	ctx := context.Background()
	cat := seedCategory(t, r, "Tools", nil)

	p, err := svc.Create(ctx, transport.ProductInput{Name: "Hammer", CategoryID: &cat}, jpeg("hammer.jpg"))
	require.NoError(t, err)
	assert.Equal(t, "test/img-1", p.CloudinaryPublicID)
	assert.Equal(t, "https://img.test/test/img-1.jpg", p.ImageURL)
	require.NotNil(t, p.Category)
	assert.Equal(t, "Tools", p.Category.Name)

	noFile, err := svc.Create(ctx, transport.ProductInput{Name: "Nail", CloudinaryPublicID: "preset/id"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "preset/id", noFile.CloudinaryPublicID)
	assert.Empty(t, noFile.ImageURL)
	assert.Len(t, images.UploadedIDs(), 1)
}

func TestCatalogService_Create_ReloadFailureStillSucceeds(t *testing.T) {
	t.Parallel()

	svc, r, _ := newCatalog(t)
	idx := &fakeIndex{}
	svc.Index = idx
	ctx := context.Background()

	var failReads atomic.Bool
	require.NoError(t, r.DB.Callback().Query().After("gorm:query").Register("test:fail_product_reads", func(tx *gorm.DB) {
		if failReads.Load() && tx.Statement.Table == "products" {
			_ = tx.AddError(errors.New("replica lag"))
		}
	}))

	failReads.Store(true)
	p, err := svc.Create(ctx, transport.ProductInput{Name: "Lamp"}, nil)
	failReads.Store(false)

	require.NoError(t, err)
	require.NotZero(t, p.ID)
	assert.Equal(t, "Lamp", p.Name)
	assert.Equal(t, []uint{p.ID}, idx.put)

	stored, err := svc.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Lamp", stored.Name)
}

func TestCategoryService_Update_RenameReindexesProducts(t *testing.T) {
	t.Parallel()

	catalog, r, _ := newCatalog(t)
	idx := &fakeIndex{}
	catalog.Index = idx
	categories := &CategoryService{Repo: r, Reindex: catalog}
	ctx := context.Background()

	home := seedCategory(t, r, "Home", nil)
	kitchen := seedCategory(t, r, "Kitchen", &home)
	garden := seedCategory(t, r, "Garden", nil)

	pan, err := catalog.Create(ctx, transport.ProductInput{Name: "pan", CategoryID: &home, SubCategoryID: &kitchen}, nil)
	require.NoError(t, err)
	_, err = catalog.Create(ctx, transport.ProductInput{Name: "rake", CategoryID: &garden}, nil)
	require.NoError(t, err)

	idx.put, idx.docs = nil, nil
	require.NoError(t, categories.Update(ctx, kitchen, transport.CategoryRequest{Name: "Cookware", ParentID: &home}))
	assert.Equal(t, []uint{pan.ID}, idx.put)
	require.Len(t, idx.docs, 1)
	require.NotNil(t, idx.docs[0].SubCategory)
	assert.Equal(t, "Cookware", idx.docs[0].SubCategory.Name)

	idx.put, idx.docs = nil, nil
	require.NoError(t, categories.Update(ctx, kitchen, transport.CategoryRequest{Name: "Cookware"}))
	assert.Empty(t, idx.put, "a move without a rename leaves the documents alone")
}

func TestCatalogService_Create_Validation(t *testing.T) {
	t.Parallel()

	svc, r, images := newCatalog(t)
	ctx := context.Background()
	long := make([]byte, 501)
	for i := range long {
		long[i] = 'x'
	}

	tests := []struct {
		name string
		in   transport.ProductInput
	}{
		{name: "empty name", in: transport.ProductInput{Name: " "}},
		{name: "long description", in: transport.ProductInput{Name: "ok", Description: string(long)}},
		{name: "missing category", in: transport.ProductInput{Name: "ok", CategoryID: ptr(404)}},
		{name: "missing subcategory", in: transport.ProductInput{Name: "ok", SubCategoryID: ptr(405)}},
	}
	for _, tt := range tests {
		_, err := svc.Create(ctx, tt.in, jpeg("x.jpg"))
		assert.ErrorIs(t, err, ErrValidation, tt.name)
	}

	total, _, err := r.ListProducts(ctx, repo.ProductFilter{}, 0, 10)
	require.NoError(t, err)
	assert.Zero(t, total)

	// images uploaded for rejected category references are released again
	assert.ElementsMatch(t, images.UploadedIDs(), images.DeletedIDs())
}

func TestCatalogService_Create_UploadFailureLeavesNoRecord(t *testing.T) {
	t.Parallel()

	svc, r, images := newCatalog(t)
	images.UploadErr = errors.New("remote down")
	ctx := context.Background()

	_, err := svc.Create(ctx, transport.ProductInput{Name: "Saw"}, jpeg("saw.jpg"))
	require.ErrorIs(t, err, imagehost.ErrUpload)

	total, _, err := r.ListProducts(ctx, repo.ProductFilter{}, 0, 10)
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestCatalogService_Update_ReplacesImage(t *testing.T) {
	t.Parallel()

	svc, _, images := newCatalog(t)
	ctx := context.Background()

	p, err := svc.Create(ctx, transport.ProductInput{Name: "Lamp"}, jpeg("old.jpg"))
	require.NoError(t, err)
	oldID := p.CloudinaryPublicID

	require.NoError(t, svc.Update(ctx, p.ID, transport.ProductInput{Name: "Lamp v2"}, jpeg("new.jpg")))

	got, err := svc.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Lamp v2", got.Name)
	assert.NotEqual(t, oldID, got.CloudinaryPublicID)
	assert.Equal(t, []string{oldID}, images.DeletedIDs())
	assert.Contains(t, images.Stored, got.CloudinaryPublicID)
	assert.NotContains(t, images.Stored, oldID)
}

func TestCatalogService_Update_WithoutFile(t *testing.T) {
	t.Parallel()

	svc, _, images := newCatalog(t)
	ctx := context.Background()

	p, err := svc.Create(ctx, transport.ProductInput{Name: "Chair", Description: "oak"}, jpeg("chair.jpg"))
	require.NoError(t, err)

	require.NoError(t, svc.Update(ctx, p.ID, transport.ProductInput{Name: "Chair", Description: ""}, nil))
	got, err := svc.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Description)
	assert.Equal(t, p.ImageURL, got.ImageURL)
	assert.Equal(t, p.CloudinaryPublicID, got.CloudinaryPublicID)

	require.NoError(t, svc.Update(ctx, p.ID, transport.ProductInput{Name: "Chair", CloudinaryPublicID: "manual/id"}, nil))
	got, err = svc.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "manual/id", got.CloudinaryPublicID)
	assert.Zero(t, images.DeleteCallCount())

	assert.ErrorIs(t, svc.Update(ctx, 999, transport.ProductInput{Name: "x"}, nil), ErrNotFound)
	assert.ErrorIs(t, svc.Update(ctx, p.ID, transport.ProductInput{Name: "x", CategoryID: ptr(404)}, nil), ErrValidation)
}

func TestCatalogService_Update_OldImageDeleteFailureIsLogged(t *testing.T) {
	t.Parallel()

	svc, _, images := newCatalog(t)
	ctx := context.Background()

	p, err := svc.Create(ctx, transport.ProductInput{Name: "Desk"}, jpeg("a.jpg"))
	require.NoError(t, err)

	images.DeleteErr = errors.New("remote down")
	require.NoError(t, svc.Update(ctx, p.ID, transport.ProductInput{Name: "Desk"}, jpeg("b.jpg")))

	got, err := svc.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "test/img-2", got.CloudinaryPublicID)
}

func TestCatalogService_Delete(t *testing.T) {
	t.Parallel()

	svc, _, images := newCatalog(t)
	ctx := context.Background()

	withImage, err := svc.Create(ctx, transport.ProductInput{Name: "Vase"}, jpeg("vase.jpg"))
	require.NoError(t, err)
	plain, err := svc.Create(ctx, transport.ProductInput{Name: "Plain"}, nil)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, plain.ID))
	assert.Zero(t, images.DeleteCallCount(), "no gateway call for a product without an image")

	images.DeleteErr = errors.New("remote down")
	require.NoError(t, svc.Delete(ctx, withImage.ID))
	assert.Equal(t, []string{withImage.CloudinaryPublicID}, images.DeletedIDs())

	_, err = svc.Get(ctx, withImage.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, withImage.ID), ErrNotFound)
}

func TestCatalogService_Search(t *testing.T) {
	t.Parallel()

	svc, _, _ := newCatalog(t)
	idx := &fakeIndex{}
	svc.Index = idx
	ctx := context.Background()

	a, err := svc.Create(ctx, transport.ProductInput{Name: "Red kettle"}, nil)
	require.NoError(t, err)
	b, err := svc.Create(ctx, transport.ProductInput{Name: "Blue kettle"}, nil)
	require.NoError(t, err)
	assert.Equal(t, []uint{a.ID, b.ID}, idx.put)

	idx.hits = []uint{b.ID, a.ID}
	res, err := svc.Search(ctx, "kettle", 1, 10)
	require.NoError(t, err)
	require.Len(t, res.Products, 2)
	assert.Equal(t, b.ID, res.Products[0].ID, "index ranking is preserved")

	idx.err = errors.New("cluster red")
	res, err = svc.Search(ctx, "blue", 1, 10)
	require.NoError(t, err)
	require.Len(t, res.Products, 1)
	assert.Equal(t, "Blue kettle", res.Products[0].Name)

	require.NoError(t, svc.Delete(ctx, a.ID))
	assert.Equal(t, []uint{a.ID}, idx.removed)
}
