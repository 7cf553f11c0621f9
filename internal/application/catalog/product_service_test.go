package catalog

import (
	"context"
	"errors"
	"io"
	"regexp"
	"strings"
	"sync"
	"testing"

	"github.com/clothstore/backend/internal/domain/catalog"
	"github.com/clothstore/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockProductRepository is a mock implementation of catalog.ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindAll(ctx context.Context) ([]catalog.Product, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// fakeStorage keeps uploaded objects in memory
type fakeStorage struct {
	mu      sync.Mutex
	objects map[string]string
	failOn  int
	uploads int
	deleted []string
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{objects: make(map[string]string)}
}

const fakeBaseURL = "https://cdn.test/"

func (f *fakeStorage) Upload(_ context.Context, key string, body io.Reader, _ int64, _ string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.uploads++
	if f.failOn > 0 && f.uploads == f.failOn {
		return "", errors.New("bucket unavailable")
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	f.objects[key] = string(data)
	return fakeBaseURL + key, nil
}

func (f *fakeStorage) DeleteObject(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.objects, key)
	f.deleted = append(f.deleted, key)
	return nil
}

func (f *fakeStorage) KeyFromURL(url string) (string, bool) {
	return strings.CutPrefix(url, fakeBaseURL)
}

func image(name string) ImageUpload {
	return ImageUpload{Filename: name, ContentType: "image/jpeg", Size: 4, Body: strings.NewReader("data")}
}

var imageKeyPattern = regexp.MustCompile(`^clothstore/products/img_\d{13}_[0-9a-f]{9}\.png$`)

func TestProductService_CreateProduct(t *testing.T) {
	ctx := context.Background()

	t.Run("uploads images and saves", func(t *testing.T) {
		repo := new(MockProductRepository)
		storage := newFakeStorage()
		svc := NewProductService(repo, storage, "", nil)
		repo.On("Save", mock.Anything, mock.AnythingOfType("*catalog.Product")).Return(nil)

		resp, err := svc.CreateProduct(ctx, CreateProductRequest{
			Name:     "Kente Dress",
			Price:    decimal.NewFromInt(4500),
			Category: "Women",
			Color:    "gold",
		}, []ImageUpload{image("front.PNG"), image("back.png")})
		require.NoError(t, err)

		assert.Equal(t, "Kente Dress", resp.Name)
		assert.Equal(t, 4500.0, resp.Price)
		assert.False(t, resp.SoldOut)
		require.Len(t, resp.Images, 2)
		for _, url := range resp.Images {
			key, ok := storage.KeyFromURL(url)
			require.True(t, ok)
			assert.Regexp(t, imageKeyPattern, key)
		}
		assert.Len(t, storage.objects, 2)
	})

	t.Run("name and price required", func(t *testing.T) {
		repo := new(MockProductRepository)
		svc := NewProductService(repo, newFakeStorage(), "", nil)

		_, err := svc.CreateProduct(ctx, CreateProductRequest{Name: " "}, nil)
		require.Error(t, err)
		assert.True(t, errors.Is(err, shared.ErrValidation))
		assert.Equal(t, "Name and price required", err.Error())
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("too many images", func(t *testing.T) {
		repo := new(MockProductRepository)
		storage := newFakeStorage()
		svc := NewProductService(repo, storage, "", nil)

		images := make([]ImageUpload, catalog.MaxImagesPerUpload+1)
		for i := range images {
			images[i] = image("a.jpg")
		}
		_, err := svc.CreateProduct(ctx, CreateProductRequest{Name: "Shirt", Price: decimal.NewFromInt(10)}, images)
		assert.True(t, errors.Is(err, shared.ErrValidation))
		assert.Equal(t, 0, storage.uploads)
	})

	t.Run("non-image rejected", func(t *testing.T) {
		svc := NewProductService(new(MockProductRepository), newFakeStorage(), "", nil)
		doc := ImageUpload{Filename: "notes.pdf", ContentType: "application/pdf", Body: strings.NewReader("x")}

		_, err := svc.CreateProduct(ctx, CreateProductRequest{Name: "Shirt", Price: decimal.NewFromInt(10)}, []ImageUpload{doc})
		assert.True(t, errors.Is(err, shared.ErrValidation))
	})

	t.Run("failed upload removes earlier uploads", func(t *testing.T) {
		repo := new(MockProductRepository)
		storage := newFakeStorage()
		storage.failOn = 2
		svc := NewProductService(repo, storage, "", nil)

		_, err := svc.CreateProduct(ctx, CreateProductRequest{Name: "Shirt", Price: decimal.NewFromInt(10)},
			[]ImageUpload{image("a.jpg"), image("b.jpg")})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "bucket unavailable")
		assert.Empty(t, storage.objects)
		assert.Len(t, storage.deleted, 1)
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("failed save removes uploads", func(t *testing.T) {
		repo := new(MockProductRepository)
		storage := newFakeStorage()
		svc := NewProductService(repo, storage, "", nil)
		repo.On("Save", mock.Anything, mock.Anything).Return(shared.ErrStoreUnavailable)

		_, err := svc.CreateProduct(ctx, CreateProductRequest{Name: "Shirt", Price: decimal.NewFromInt(10)},
			[]ImageUpload{image("a.jpg")})
		assert.True(t, errors.Is(err, shared.ErrStoreUnavailable))
		assert.Empty(t, storage.objects)
	})
}

func TestProductService_SetSoldOut(t *testing.T) {
	ctx := context.Background()
	repo := new(MockProductRepository)
	svc := NewProductService(repo, newFakeStorage(), "", nil)

	p, err := catalog.NewProduct("Shirt", decimal.NewFromInt(10))
	require.NoError(t, err)
	repo.On("FindByID", mock.Anything, p.ID).Return(p, nil)
	repo.On("Save", mock.Anything, p).Return(nil)

	resp, err := svc.SetSoldOut(ctx, p.ID, true)
	require.NoError(t, err)
	assert.True(t, resp.SoldOut)

	resp, err = svc.SetSoldOut(ctx, p.ID, false)
	require.NoError(t, err)
	assert.False(t, resp.SoldOut)

	missing := uuid.New()
	repo.On("FindByID", mock.Anything, missing).Return(nil, shared.ErrNotFound)
	_, err = svc.SetSoldOut(ctx, missing, true)
	assert.True(t, errors.Is(err, shared.ErrNotFound))
}

func TestProductService_AddImages(t *testing.T) {
	ctx := context.Background()
	repo := new(MockProductRepository)
	storage := newFakeStorage()
	svc := NewProductService(repo, storage, "shop/img", nil)

	p, err := catalog.NewProduct("Shirt", decimal.NewFromInt(10))
	require.NoError(t, err)
	p.AddImages(fakeBaseURL + "shop/img/existing.jpg")
	repo.On("FindByID", mock.Anything, p.ID).Return(p, nil)
	repo.On("Save", mock.Anything, p).Return(nil)

	resp, err := svc.AddImages(ctx, p.ID, []ImageUpload{image("new.jpg")})
	require.NoError(t, err)
	require.Len(t, resp.Images, 2)
	assert.Equal(t, fakeBaseURL+"shop/img/existing.jpg", resp.Images[0])
	assert.True(t, strings.HasPrefix(resp.Images[1], fakeBaseURL+"shop/img/img_"))

	_, err = svc.AddImages(ctx, p.ID, nil)
	assert.True(t, errors.Is(err, shared.ErrValidation))
}

func TestProductService_DeleteProduct(t *testing.T) {
	ctx := context.Background()
	repo := new(MockProductRepository)
	storage := newFakeStorage()
	svc := NewProductService(repo, storage, "", nil)

	p, err := catalog.NewProduct("Shirt", decimal.NewFromInt(10))
	require.NoError(t, err)
	p.AddImages(fakeBaseURL+"clothstore/products/a.jpg", "https://elsewhere.test/b.jpg")
	repo.On("FindByID", mock.Anything, p.ID).Return(p, nil)
	repo.On("Delete", mock.Anything, p.ID).Return(nil)

	require.NoError(t, svc.DeleteProduct(ctx, p.ID))
	assert.Equal(t, []string{"clothstore/products/a.jpg"}, storage.deleted)
	repo.AssertExpectations(t)
}

func TestProductService_ListProducts(t *testing.T) {
	repo := new(MockProductRepository)
	svc := NewProductService(repo, newFakeStorage(), "", nil)

	p, err := catalog.NewProduct("Shirt", decimal.NewFromInt(10))
	require.NoError(t, err)
	repo.On("FindAll", mock.Anything).Return([]catalog.Product{*p}, nil)

	list, err := svc.ListProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Shirt", list[0].Name)
	assert.NotNil(t, list[0].Images)
}
