package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/siscom/backend/internal/domain/shared"
)

// StockItemRepository defines the interface for stock item persistence
type StockItemRepository interface {
	// FindByID finds a stock item by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*StockItem, error)

	// FindByProduct finds the stock item for a product
	FindByProduct(ctx context.Context, productID uuid.UUID) (*StockItem, error)

	// FindAll finds all stock items matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]StockItem, error)

	// FindBelowMinimum finds items below their minimum threshold
	FindBelowMinimum(ctx context.Context, filter shared.Filter) ([]StockItem, error)

	// FindByIDs finds multiple stock items by their IDs
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]StockItem, error)

	// Save creates or updates a stock item
	Save(ctx context.Context, item *StockItem) error

	// SaveWithLock saves with optimistic locking (checks version)
	SaveWithLock(ctx context.Context, item *StockItem) error

	// Delete deletes a stock item
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts stock items matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// SumTotalValue sums the inventory value at current unit cost
	SumTotalValue(ctx context.Context) (decimal.Decimal, error)

	// GetOrCreate gets the existing stock item for a product or creates a new one
	GetOrCreate(ctx context.Context, productID uuid.UUID) (*StockItem, error)
}

// StockMovementRepository defines the interface for the append-only movement ledger.
// Movements are never updated or deleted once recorded.
type StockMovementRepository interface {
	// FindByID finds a movement by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*StockMovement, error)

	// FindByStockItem finds movements for a stock item, oldest first
	FindByStockItem(ctx context.Context, stockItemID uuid.UUID, filter shared.Filter) ([]StockMovement, error)

	// FindByProduct finds movements for a product
	FindByProduct(ctx context.Context, productID uuid.UUID, filter shared.Filter) ([]StockMovement, error)

	// FindByDocumentRef finds movements recorded against a document
	FindByDocumentRef(ctx context.Context, documentRef string) ([]StockMovement, error)

	// FindByDateRange finds movements within a period
	FindByDateRange(ctx context.Context, from, to time.Time, filter shared.Filter) ([]StockMovement, error)

	// Save records a movement
	Save(ctx context.Context, movement *StockMovement) error

	// SaveBatch records multiple movements
	SaveBatch(ctx context.Context, movements []StockMovement) error

	// CountByStockItem counts movements for a stock item
	CountByStockItem(ctx context.Context, stockItemID uuid.UUID) (int64, error)
}

// StockLotRepository defines read access to lots across aggregates.
//
// StockLot is a child entity of the StockItem aggregate. Lot modifications
// (consume, restore, reserve) must go through StockItem methods and are
// persisted when the aggregate is saved through GORM association handling.
// This repository exists for read paths that span aggregates, such as
// expiry reports.
type StockLotRepository interface {
	// FindByID finds a lot by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*StockLot, error)

	// FindByStockItem finds all lots for a stock item
	FindByStockItem(ctx context.Context, stockItemID uuid.UUID, filter shared.Filter) ([]StockLot, error)

	// FindAvailable finds lots with available quantity for a stock item
	FindAvailable(ctx context.Context, stockItemID uuid.UUID) ([]StockLot, error)

	// FindByLotNumber finds a lot by product and lot number
	FindByLotNumber(ctx context.Context, productID uuid.UUID, lotNumber string) (*StockLot, error)

	// FindExpiringSoon finds lots with stock expiring within a number of days
	FindExpiringSoon(ctx context.Context, withinDays int, filter shared.Filter) ([]StockLot, error)

	// FindExpired finds expired lots that still have stock
	FindExpired(ctx context.Context, filter shared.Filter) ([]StockLot, error)

	// CountByStockItem counts lots for a stock item
	CountByStockItem(ctx context.Context, stockItemID uuid.UUID) (int64, error)
}
