package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/siscom/backend/internal/domain/inventory"
	"github.com/siscom/backend/internal/domain/shared"
)

// GormStockLotRepository implements read access to lots across aggregates.
// Lot mutations go through the StockItem aggregate, so there is no Save here.
type GormStockLotRepository struct {
	db *gorm.DB
}

// NewGormStockLotRepository creates a new GormStockLotRepository
func NewGormStockLotRepository(db *gorm.DB) *GormStockLotRepository {
	return &GormStockLotRepository{db: db}
}

// FindByID finds a lot by its ID
func (r *GormStockLotRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.StockLot, error) {
	var lot inventory.StockLot
	if err := r.db.WithContext(ctx).First(&lot, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &lot, nil
}

// FindByStockItem finds all lots for a stock item ordered by receipt
func (r *GormStockLotRepository) FindByStockItem(ctx context.Context, stockItemID uuid.UUID, filter shared.Filter) ([]inventory.StockLot, error) {
	var lots []inventory.StockLot
	query := r.db.WithContext(ctx).
		Where("stock_item_id = ?", stockItemID).
		Order("created_at ASC")
	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}
	if err := query.Find(&lots).Error; err != nil {
		return nil, err
	}
	return lots, nil
}

// FindAvailable finds lots with available quantity for a stock item
func (r *GormStockLotRepository) FindAvailable(ctx context.Context, stockItemID uuid.UUID) ([]inventory.StockLot, error) {
	var lots []inventory.StockLot
	if err := r.db.WithContext(ctx).
		Where("stock_item_id = ? AND received_quantity - consumed_quantity - reserved_quantity > 0", stockItemID).
		Order("created_at ASC").
		Find(&lots).Error; err != nil {
		return nil, err
	}
	return lots, nil
}

// FindByLotNumber finds a lot by product and lot number
func (r *GormStockLotRepository) FindByLotNumber(ctx context.Context, productID uuid.UUID, lotNumber string) (*inventory.StockLot, error) {
	var lot inventory.StockLot
	if err := r.db.WithContext(ctx).
		Where("product_id = ? AND lot_number = ?", productID, lotNumber).
		First(&lot).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &lot, nil
}

// FindExpiringSoon finds lots with stock expiring within a number of days
func (r *GormStockLotRepository) FindExpiringSoon(ctx context.Context, withinDays int, filter shared.Filter) ([]inventory.StockLot, error) {
	now := time.Now()
	horizon := now.AddDate(0, 0, withinDays)

	var lots []inventory.StockLot
	query := r.db.WithContext(ctx).
		Where("expiry_date IS NOT NULL AND expiry_date > ? AND expiry_date <= ?", now, horizon).
		Where("received_quantity - consumed_quantity > 0").
		Order("expiry_date ASC")
	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}
	if err := query.Find(&lots).Error; err != nil {
		return nil, err
	}
	return lots, nil
}

// FindExpired finds expired lots that still have stock
func (r *GormStockLotRepository) FindExpired(ctx context.Context, filter shared.Filter) ([]inventory.StockLot, error) {
	var lots []inventory.StockLot
	query := r.db.WithContext(ctx).
		Where("expiry_date IS NOT NULL AND expiry_date <= ?", time.Now()).
		Where("received_quantity - consumed_quantity > 0").
		Order("expiry_date ASC")
	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}
	if err := query.Find(&lots).Error; err != nil {
		return nil, err
	}
	return lots, nil
}

// CountByStockItem counts lots for a stock item
func (r *GormStockLotRepository) CountByStockItem(ctx context.Context, stockItemID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&inventory.StockLot{}).
		Where("stock_item_id = ?", stockItemID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
