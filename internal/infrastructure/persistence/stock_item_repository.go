package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/siscom/backend/internal/domain/inventory"
	"github.com/siscom/backend/internal/domain/shared"
)

// GormStockItemRepository implements StockItemRepository using GORM.
// Lots are child rows of the aggregate and are saved together with it.
type GormStockItemRepository struct {
	db *gorm.DB
}

// NewGormStockItemRepository creates a new GormStockItemRepository
func NewGormStockItemRepository(db *gorm.DB) *GormStockItemRepository {
	return &GormStockItemRepository{db: db}
}

// FindByID finds a stock item by its ID with lots loaded
func (r *GormStockItemRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.StockItem, error) {
	var item inventory.StockItem
	if err := r.db.WithContext(ctx).
		Preload("Lots").
		First(&item, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	item.SyncPersistedVersion()
	return &item, nil
}

// FindByProduct finds the stock item for a product with lots loaded
func (r *GormStockItemRepository) FindByProduct(ctx context.Context, productID uuid.UUID) (*inventory.StockItem, error) {
	var item inventory.StockItem
	if err := r.db.WithContext(ctx).
		Preload("Lots").
		Where("product_id = ?", productID).
		First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	item.SyncPersistedVersion()
	return &item, nil
}

// FindAll finds all stock items matching the filter
func (r *GormStockItemRepository) FindAll(ctx context.Context, filter shared.Filter) ([]inventory.StockItem, error) {
	var items []inventory.StockItem
	query := r.applyFilter(r.db.WithContext(ctx).Model(&inventory.StockItem{}), filter)
	if err := query.Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// FindBelowMinimum finds items below their minimum threshold
func (r *GormStockItemRepository) FindBelowMinimum(ctx context.Context, filter shared.Filter) ([]inventory.StockItem, error) {
	var items []inventory.StockItem
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&inventory.StockItem{}).
			Where("min_quantity > 0 AND available_quantity < min_quantity"),
		filter,
	)
	if err := query.Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// FindByIDs finds multiple stock items by their IDs with lots loaded
func (r *GormStockItemRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]inventory.StockItem, error) {
	if len(ids) == 0 {
		return []inventory.StockItem{}, nil
	}
	var items []inventory.StockItem
	if err := r.db.WithContext(ctx).
		Preload("Lots").
		Where("id IN ?", ids).
		Find(&items).Error; err != nil {
		return nil, err
	}
	for i := range items {
		items[i].SyncPersistedVersion()
	}
	return items, nil
}

// Save creates or updates a stock item with its lots
func (r *GormStockItemRepository) Save(ctx context.Context, item *inventory.StockItem) error {
	return r.db.WithContext(ctx).
		Session(&gorm.Session{FullSaveAssociations: true}).
		Save(item).Error
}

// SaveWithLock saves with optimistic locking. The guard compares against the
// version the row was loaded with; the domain mutators have already bumped
// item.Version, which becomes the new stored version. A concurrent writer
// wins the race and this caller gets a conflict.
func (r *GormStockItemRepository) SaveWithLock(ctx context.Context, item *inventory.StockItem) error {
	result := r.db.WithContext(ctx).Model(&inventory.StockItem{}).
		Where("id = ? AND version = ?", item.ID, item.PersistedVersion()).
		Updates(map[string]interface{}{
			"available_quantity": item.AvailableQuantity,
			"reserved_quantity":  item.ReservedQuantity,
			"unit_cost":          item.UnitCost,
			"min_quantity":       item.MinQuantity,
			"max_quantity":       item.MaxQuantity,
			"version":            item.Version,
			"updated_at":         item.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	item.SyncPersistedVersion()

	// Lot counters change together with the balance
	for i := range item.Lots {
		lot := &item.Lots[i]
		if err := r.db.WithContext(ctx).Save(lot).Error; err != nil {
			return err
		}
	}

	return nil
}

// Delete deletes a stock item
func (r *GormStockItemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&inventory.StockItem{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts stock items matching the filter
func (r *GormStockItemRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&inventory.StockItem{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// SumTotalValue sums the inventory value at current unit cost
func (r *GormStockItemRepository) SumTotalValue(ctx context.Context) (decimal.Decimal, error) {
	var result struct {
		Total decimal.Decimal
	}
	if err := r.db.WithContext(ctx).Model(&inventory.StockItem{}).
		Select("COALESCE(SUM(available_quantity * unit_cost), 0) AS total").
		Scan(&result).Error; err != nil {
		return decimal.Zero, err
	}
	return result.Total, nil
}

// GetOrCreate gets the existing stock item for a product or creates a new one
func (r *GormStockItemRepository) GetOrCreate(ctx context.Context, productID uuid.UUID) (*inventory.StockItem, error) {
	item, err := r.FindByProduct(ctx, productID)
	if err == nil {
		return item, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	item, err = inventory.NewStockItem(productID)
	if err != nil {
		return nil, err
	}
	if err := r.Save(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (r *GormStockItemRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, StockItemSortFields, "created_at")
	orderDir := ValidateSortOrder(filter.OrderDir)
	return query.Order(orderBy + " " + orderDir)
}

func (r *GormStockItemRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "product_id":
			query = query.Where("product_id = ?", value)
		case "has_stock":
			if value == true {
				query = query.Where("available_quantity > 0")
			} else {
				query = query.Where("available_quantity = 0")
			}
		}
	}
	return query
}
