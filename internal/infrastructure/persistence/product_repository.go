package persistence

import (
	"context"

	"github.com/clothstore/backend/internal/domain/catalog"
	"github.com/clothstore/backend/internal/domain/shared"
	"github.com/clothstore/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var errProductNotFound = shared.ErrNotFound.WithMessage("Product not found")

// GormProductRepository implements ProductRepository using GORM
type GormProductRepository struct {
	db   *gorm.DB
	opts repositoryOptions
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB, opts ...RepositoryOption) *GormProductRepository {
	return &GormProductRepository{db: db, opts: buildOptions(opts)}
}

// FindByID finds a product by its ID
func (r *GormProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	ctx, cancel := withDeadline(ctx, r.opts.queryTimeout)
	defer cancel()

	var model models.ProductModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(ctx, err, errProductNotFound)
	}
	return model.ToDomain(), nil
}

// FindAll returns every product, newest first
func (r *GormProductRepository) FindAll(ctx context.Context) ([]catalog.Product, error) {
	ctx, cancel := withDeadline(ctx, r.opts.queryTimeout)
	defer cancel()

	var rows []models.ProductModel
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, translateError(ctx, err, errProductNotFound)
	}

	products := make([]catalog.Product, len(rows))
	for i := range rows {
		products[i] = *rows[i].ToDomain()
	}
	return products, nil
}

// Save creates or updates a product
func (r *GormProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	ctx, cancel := withDeadline(ctx, r.opts.queryTimeout)
	defer cancel()

	model := models.ProductModelFromDomain(product)
	if err := r.db.WithContext(ctx).Save(model).Error; err != nil {
		return translateError(ctx, err, errProductNotFound)
	}
	return nil
}

// Delete deletes a product
func (r *GormProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	ctx, cancel := withDeadline(ctx, r.opts.queryTimeout)
	defer cancel()

	result := r.db.WithContext(ctx).Delete(&models.ProductModel{}, "id = ?", id)
	if result.Error != nil {
		return translateError(ctx, result.Error, errProductNotFound)
	}
	if result.RowsAffected == 0 {
		return errProductNotFound
	}
	return nil
}

// Ensure GormProductRepository implements ProductRepository
var _ catalog.ProductRepository = (*GormProductRepository)(nil)
