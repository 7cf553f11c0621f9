package catalog

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/clothstore/backend/internal/domain/catalog"
	"github.com/clothstore/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultImageKeyPrefix is the object key prefix for product images
const DefaultImageKeyPrefix = "clothstore/products"

// ObjectStorage stores product images and returns their public URL
type ObjectStorage interface {
	Upload(ctx context.Context, key string, body io.Reader, size int64, contentType string) (string, error)
	DeleteObject(ctx context.Context, key string) error
	// KeyFromURL maps a URL produced by Upload back to its key
	KeyFromURL(url string) (string, bool)
}

// ProductService handles the storefront catalog
type ProductService struct {
	repo      catalog.ProductRepository
	storage   ObjectStorage
	keyPrefix string
	now       func() time.Time
	logger    *zap.Logger
}

// NewProductService creates a new ProductService
func NewProductService(repo catalog.ProductRepository, storage ObjectStorage, keyPrefix string, logger *zap.Logger) *ProductService {
	if keyPrefix == "" {
		keyPrefix = DefaultImageKeyPrefix
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProductService{
		repo:      repo,
		storage:   storage,
		keyPrefix: strings.TrimSuffix(keyPrefix, "/"),
		now:       time.Now,
		logger:    logger,
	}
}

// ListProducts returns all products, newest first
func (s *ProductService) ListProducts(ctx context.Context) ([]ProductResponse, error) {
	products, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return ToProductResponses(products), nil
}

// GetProduct retrieves a product by ID
func (s *ProductService) GetProduct(ctx context.Context, id uuid.UUID) (*ProductResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToProductResponse(p)
	return &response, nil
}

// CreateProduct uploads the images and stores the product.
// If any upload or the save fails, images uploaded by this call are removed again.
func (s *ProductService) CreateProduct(ctx context.Context, req CreateProductRequest, images []ImageUpload) (*ProductResponse, error) {
	p, err := catalog.NewProduct(req.Name, req.Price)
	if err != nil {
		return nil, err
	}
	p.Describe(req.Category, req.Description, req.Color)

	urls, err := s.uploadImages(ctx, images)
	if err != nil {
		return nil, err
	}
	p.AddImages(urls...)

	if err := s.repo.Save(ctx, p); err != nil {
		s.cleanup(ctx, urls)
		return nil, err
	}

	s.logger.Info("product created", zap.String("product_id", p.ID.String()), zap.Int("images", len(urls)))
	response := ToProductResponse(p)
	return &response, nil
}

// SetSoldOut sets the sold-out flag
func (s *ProductService) SetSoldOut(ctx context.Context, id uuid.UUID, soldOut bool) (*ProductResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	p.SetSoldOut(soldOut)
	if err := s.repo.Save(ctx, p); err != nil {
		return nil, err
	}
	response := ToProductResponse(p)
	return &response, nil
}

// AddImages uploads additional images for an existing product
func (s *ProductService) AddImages(ctx context.Context, id uuid.UUID, images []ImageUpload) (*ProductResponse, error) {
	if len(images) == 0 {
		return nil, shared.ErrValidation.WithMessage("No images uploaded")
	}
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	urls, err := s.uploadImages(ctx, images)
	if err != nil {
		return nil, err
	}
	p.AddImages(urls...)
	if err := s.repo.Save(ctx, p); err != nil {
		s.cleanup(ctx, urls)
		return nil, err
	}

	response := ToProductResponse(p)
	return &response, nil
}

// DeleteProduct removes the product, then deletes its images on a best-effort basis
func (s *ProductService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.cleanup(ctx, p.Images)
	s.logger.Info("product deleted", zap.String("product_id", id.String()))
	return nil
}

func (s *ProductService) uploadImages(ctx context.Context, images []ImageUpload) ([]string, error) {
	if len(images) > catalog.MaxImagesPerUpload {
		return nil, shared.ErrValidation.WithMessage(
			fmt.Sprintf("At most %d images can be uploaded at once", catalog.MaxImagesPerUpload))
	}
	for _, img := range images {
		if !strings.HasPrefix(img.ContentType, "image/") {
			return nil, shared.ErrValidation.WithMessage("Only image files are allowed")
		}
	}

	urls := make([]string, 0, len(images))
	for _, img := range images {
		url, err := s.storage.Upload(ctx, s.imageKey(img.Filename), img.Body, img.Size, img.ContentType)
		if err != nil {
			s.cleanup(ctx, urls)
			return nil, fmt.Errorf("upload image %q: %w", img.Filename, err)
		}
		urls = append(urls, url)
	}
	return urls, nil
}

// imageKey builds <prefix>/img_<unixmillis>_<random>.<ext>
func (s *ProductService) imageKey(filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	if ext == "" {
		ext = ".jpg"
	}
	random := strings.ReplaceAll(uuid.NewString(), "-", "")[:9]
	return fmt.Sprintf("%s/img_%d_%s%s", s.keyPrefix, s.now().UnixMilli(), random, ext)
}

func (s *ProductService) cleanup(ctx context.Context, urls []string) {
	for _, u := range urls {
		key, ok := s.storage.KeyFromURL(u)
		if !ok {
			continue
		}
		if err := s.storage.DeleteObject(ctx, key); err != nil {
			s.logger.Warn("failed to delete product image", zap.String("key", key), zap.Error(err))
		}
	}
}
