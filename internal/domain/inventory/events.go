package inventory

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/siscom/backend/internal/domain/shared"
)

// Event types for the inventory context
const (
	EventTypeStockEntered      = "inventory.stock_entered"
	EventTypeStockExited       = "inventory.stock_exited"
	EventTypeStockAdjusted     = "inventory.stock_adjusted"
	EventTypeStockBelowMinimum = "inventory.stock_below_minimum"
)

const aggregateTypeStockItem = "StockItem"

// StockEnteredEvent is emitted when stock enters inventory
type StockEnteredEvent struct {
	shared.BaseDomainEvent
	ProductID  uuid.UUID       `json:"product_id"`
	Quantity   decimal.Decimal `json:"quantity"`
	UnitCost   decimal.Decimal `json:"unit_cost"`
	NewBalance decimal.Decimal `json:"new_balance"`
}

// NewStockEnteredEvent creates a new StockEnteredEvent
func NewStockEnteredEvent(item *StockItem, quantity, unitCost decimal.Decimal) *StockEnteredEvent {
	return &StockEnteredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockEntered, aggregateTypeStockItem, item.ID),
		ProductID:       item.ProductID,
		Quantity:        quantity,
		UnitCost:        unitCost,
		NewBalance:      item.AvailableQuantity,
	}
}

// StockExitedEvent is emitted when stock leaves inventory
type StockExitedEvent struct {
	shared.BaseDomainEvent
	ProductID  uuid.UUID       `json:"product_id"`
	Quantity   decimal.Decimal `json:"quantity"`
	NewBalance decimal.Decimal `json:"new_balance"`
}

// NewStockExitedEvent creates a new StockExitedEvent
func NewStockExitedEvent(item *StockItem, quantity decimal.Decimal) *StockExitedEvent {
	return &StockExitedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockExited, aggregateTypeStockItem, item.ID),
		ProductID:       item.ProductID,
		Quantity:        quantity,
		NewBalance:      item.AvailableQuantity,
	}
}

// StockAdjustedEvent is emitted when stock is manually corrected
type StockAdjustedEvent struct {
	shared.BaseDomainEvent
	ProductID     uuid.UUID       `json:"product_id"`
	OldBalance    decimal.Decimal `json:"old_balance"`
	NewBalance    decimal.Decimal `json:"new_balance"`
	Justification string          `json:"justification"`
}

// NewStockAdjustedEvent creates a new StockAdjustedEvent
func NewStockAdjustedEvent(item *StockItem, oldBalance, newBalance decimal.Decimal, justification string) *StockAdjustedEvent {
	return &StockAdjustedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockAdjusted, aggregateTypeStockItem, item.ID),
		ProductID:       item.ProductID,
		OldBalance:      oldBalance,
		NewBalance:      newBalance,
		Justification:   justification,
	}
}

// StockBelowMinimumEvent is emitted when stock falls below the minimum threshold
type StockBelowMinimumEvent struct {
	shared.BaseDomainEvent
	ProductID   uuid.UUID       `json:"product_id"`
	Balance     decimal.Decimal `json:"balance"`
	MinQuantity decimal.Decimal `json:"min_quantity"`
}

// NewStockBelowMinimumEvent creates a new StockBelowMinimumEvent
func NewStockBelowMinimumEvent(item *StockItem) *StockBelowMinimumEvent {
	return &StockBelowMinimumEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockBelowMinimum, aggregateTypeStockItem, item.ID),
		ProductID:       item.ProductID,
		Balance:         item.TotalQuantity(),
		MinQuantity:     item.MinQuantity,
	}
}
