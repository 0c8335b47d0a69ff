package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/siscom/backend/internal/domain/shared"
	"github.com/siscom/backend/internal/domain/trade"
)

// GormServiceOrderRepository implements ServiceOrderRepository using GORM
type GormServiceOrderRepository struct {
	db *gorm.DB
}

// NewGormServiceOrderRepository creates a new GormServiceOrderRepository
func NewGormServiceOrderRepository(db *gorm.DB) *GormServiceOrderRepository {
	return &GormServiceOrderRepository{db: db}
}

// FindByID finds a service order by its ID with items loaded
func (r *GormServiceOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.ServiceOrder, error) {
	var order trade.ServiceOrder
	if err := r.db.WithContext(ctx).First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	if err := r.loadItems(ctx, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// FindByOrderNumber finds a service order by its document number with items loaded
func (r *GormServiceOrderRepository) FindByOrderNumber(ctx context.Context, orderNumber string) (*trade.ServiceOrder, error) {
	var order trade.ServiceOrder
	if err := r.db.WithContext(ctx).
		Where("order_number = ?", orderNumber).
		First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	if err := r.loadItems(ctx, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// FindAll finds service orders matching the filter
func (r *GormServiceOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]trade.ServiceOrder, error) {
	var orders []trade.ServiceOrder
	query := r.applyFilter(r.db.WithContext(ctx).Model(&trade.ServiceOrder{}), filter)
	if err := query.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// FindByCustomer finds service orders for a customer
func (r *GormServiceOrderRepository) FindByCustomer(ctx context.Context, customerID uuid.UUID, filter shared.Filter) ([]trade.ServiceOrder, error) {
	var orders []trade.ServiceOrder
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&trade.ServiceOrder{}).
			Where("customer_id = ?", customerID),
		filter,
	)
	if err := query.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// FindByStatus finds service orders with the given status
func (r *GormServiceOrderRepository) FindByStatus(ctx context.Context, status trade.ServiceOrderStatus, filter shared.Filter) ([]trade.ServiceOrder, error) {
	var orders []trade.ServiceOrder
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&trade.ServiceOrder{}).
			Where("status = ?", status),
		filter,
	)
	if err := query.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// Save creates or updates a service order with its items
func (r *GormServiceOrderRepository) Save(ctx context.Context, order *trade.ServiceOrder) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(order).Error; err != nil {
			return err
		}
		if err := tx.Where("order_id = ?", order.ID).
			Delete(&trade.ServiceOrderItem{}).Error; err != nil {
			return err
		}
		if len(order.Items) > 0 {
			items := order.Items
			if err := tx.Create(&items).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Delete deletes a service order with its items
func (r *GormServiceOrderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", id).
			Delete(&trade.ServiceOrderItem{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&trade.ServiceOrder{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// Count counts service orders matching the filter
func (r *GormServiceOrderRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&trade.ServiceOrder{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormServiceOrderRepository) loadItems(ctx context.Context, order *trade.ServiceOrder) error {
	return r.db.WithContext(ctx).
		Where("order_id = ?", order.ID).
		Order("created_at ASC").
		Find(&order.Items).Error
}

func (r *GormServiceOrderRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, OrderSortFields, "created_at")
	orderDir := ValidateSortOrder(filter.OrderDir)
	return query.Order(orderBy + " " + orderDir)
}

func (r *GormServiceOrderRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where("LOWER(order_number) LIKE ? OR LOWER(customer_name) LIKE ? OR LOWER(description) LIKE ?",
			searchPattern, searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "customer_id":
			query = query.Where("customer_id = ?", value)
		}
	}

	return query
}
