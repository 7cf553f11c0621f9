package persistence

import (
	"context"
	"time"

	"github.com/clothstore/backend/internal/domain/order"
	"github.com/clothstore/backend/internal/domain/shared"
	"github.com/clothstore/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var errOrderNotFound = shared.ErrNotFound.WithMessage("Order not found")

// GormOrderRepository implements order.Repository using GORM
type GormOrderRepository struct {
	db   *gorm.DB
	opts repositoryOptions
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB, opts ...RepositoryOption) *GormOrderRepository {
	return &GormOrderRepository{db: db, opts: buildOptions(opts)}
}

// Insert stores the order and its items in one transaction.
// Both timestamps are set to the time of the write.
func (r *GormOrderRepository) Insert(ctx context.Context, o *order.Order) error {
	ctx, cancel := withDeadline(ctx, r.opts.queryTimeout)
	defer cancel()

	now := r.opts.now().UTC()
	o.CreatedAt = now
	o.UpdatedAt = now
	model := models.OrderModelFromDomain(o)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(model).Error
	})
	if err != nil {
		return translateError(ctx, err, errOrderNotFound)
	}

	o.CreatedAt = model.CreatedAt
	o.UpdatedAt = model.UpdatedAt
	return nil
}

// FindByID finds an order by its ID
func (r *GormOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	ctx, cancel := withDeadline(ctx, r.opts.queryTimeout)
	defer cancel()

	return r.findByID(ctx, r.db.WithContext(ctx), id)
}

func (r *GormOrderRepository) findByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*order.Order, error) {
	var model models.OrderModel
	if err := db.Scopes(preloadItems).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(ctx, err, errOrderNotFound)
	}
	return model.ToDomain(), nil
}

// List returns orders matching the filter, newest first
func (r *GormOrderRepository) List(ctx context.Context, filter order.Filter) ([]order.Order, error) {
	ctx, cancel := withDeadline(ctx, r.opts.queryTimeout)
	defer cancel()

	return r.list(ctx, r.db.WithContext(ctx).Scopes(statusScope(filter)), 0)
}

// Sample returns the n most recent orders
func (r *GormOrderRepository) Sample(ctx context.Context, n int) ([]order.Order, error) {
	ctx, cancel := withDeadline(ctx, r.opts.queryTimeout)
	defer cancel()

	return r.list(ctx, r.db.WithContext(ctx), n)
}

func (r *GormOrderRepository) list(ctx context.Context, db *gorm.DB, limit int) ([]order.Order, error) {
	var rows []models.OrderModel
	query := db.Scopes(preloadItems).Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&rows).Error; err != nil {
		return nil, translateError(ctx, err, errOrderNotFound)
	}

	orders := make([]order.Order, len(rows))
	for i := range rows {
		orders[i] = *rows[i].ToDomain()
	}
	return orders, nil
}

// UpdateStatus sets the status of an order and returns the stored result
func (r *GormOrderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status order.Status) (*order.Order, error) {
	ctx, cancel := withDeadline(ctx, r.opts.queryTimeout)
	defer cancel()

	var updated *order.Order
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.OrderModel{}).
			Where("id = ?", id).
			Updates(map[string]any{
				"status":     status,
				"updated_at": r.opts.now().UTC(),
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		var err error
		updated, err = r.findByID(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, translateError(ctx, err, errOrderNotFound)
	}
	return updated, nil
}

// Count counts orders matching the filter
func (r *GormOrderRepository) Count(ctx context.Context, filter order.Filter) (int64, error) {
	ctx, cancel := withDeadline(ctx, r.opts.queryTimeout)
	defer cancel()

	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.OrderModel{}).
		Scopes(statusScope(filter)).
		Count(&count).Error; err != nil {
		return 0, translateError(ctx, err, errOrderNotFound)
	}
	return count, nil
}

// AggregateRevenue sums total_amount over matching orders
func (r *GormOrderRepository) AggregateRevenue(ctx context.Context, filter order.Filter) (decimal.Decimal, error) {
	ctx, cancel := withDeadline(ctx, r.opts.queryTimeout)
	defer cancel()

	var total decimal.NullDecimal
	row := r.db.WithContext(ctx).
		Model(&models.OrderModel{}).
		Scopes(statusScope(filter)).
		Select("COALESCE(SUM(total_amount), 0)").
		Row()
	if err := row.Scan(&total); err != nil {
		return decimal.Zero, translateError(ctx, err, errOrderNotFound)
	}
	if !total.Valid {
		return decimal.Zero, nil
	}
	return total.Decimal, nil
}

// CountCreatedSince counts orders created at or after since
func (r *GormOrderRepository) CountCreatedSince(ctx context.Context, since time.Time) (int64, error) {
	ctx, cancel := withDeadline(ctx, r.opts.queryTimeout)
	defer cancel()

	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.OrderModel{}).
		Where("created_at >= ?", since.UTC()).
		Count(&count).Error; err != nil {
		return 0, translateError(ctx, err, errOrderNotFound)
	}
	return count, nil
}

// Ping checks that the store is reachable
func (r *GormOrderRepository) Ping(ctx context.Context) error {
	ctx, cancel := withDeadline(ctx, r.opts.queryTimeout)
	defer cancel()

	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return translateError(ctx, sqlDB.PingContext(ctx), errOrderNotFound)
}

func preloadItems(db *gorm.DB) *gorm.DB {
	return db.Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("position ASC")
	})
}

func statusScope(filter order.Filter) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if filter.Status != nil {
			return db.Where("status = ?", *filter.Status)
		}
		return db
	}
}

// Ensure GormOrderRepository implements order.Repository
var _ order.Repository = (*GormOrderRepository)(nil)
