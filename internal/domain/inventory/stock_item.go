package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/siscom/backend/internal/domain/shared"
	"github.com/siscom/backend/internal/domain/shared/valueobject"
)

// StockItem is the aggregate root for the stock position of a single product.
// The balance is mutated only through ledger operations (Enter/Exit/Adjust);
// every successful mutation has a matching StockMovement record persisted in
// the same transaction, so the balance is always derivable by replay.
type StockItem struct {
	shared.BaseAggregateRoot
	ProductID         uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex"`
	AvailableQuantity decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	ReservedQuantity  decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	UnitCost          decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"` // Moving weighted average cost
	MinQuantity       decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	MaxQuantity       decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`

	// Lots are loaded for lot-tracked products only
	Lots []StockLot `gorm:"foreignKey:StockItemID;references:ID"`
}

// TableName returns the table name for GORM
func (StockItem) TableName() string {
	return "stock_items"
}

// NewStockItem creates a new stock position for a product
func NewStockItem(productID uuid.UUID) (*StockItem, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Produto é obrigatório")
	}

	return &StockItem{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ProductID:         productID,
		AvailableQuantity: decimal.Zero,
		ReservedQuantity:  decimal.Zero,
		UnitCost:          decimal.Zero,
		MinQuantity:       decimal.Zero,
		MaxQuantity:       decimal.Zero,
		Lots:              make([]StockLot, 0),
	}, nil
}

// TotalQuantity returns the total quantity (available + reserved)
func (i *StockItem) TotalQuantity() decimal.Decimal {
	return i.AvailableQuantity.Add(i.ReservedQuantity)
}

// Enter increases available stock and recalculates the unit cost using the
// moving weighted average policy:
// newCost = (oldQty*oldCost + qty*cost) / (oldQty + qty)
func (i *StockItem) Enter(quantity decimal.Decimal, unitCost valueobject.Money) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantidade deve ser positiva")
	}
	if unitCost.Amount().IsNegative() {
		return shared.NewDomainError("INVALID_COST", "Custo unitário não pode ser negativo")
	}

	oldQuantity := i.TotalQuantity()
	if oldQuantity.IsZero() {
		i.UnitCost = unitCost.Amount().Round(4)
	} else {
		totalValue := oldQuantity.Mul(i.UnitCost).Add(quantity.Mul(unitCost.Amount()))
		i.UnitCost = totalValue.Div(oldQuantity.Add(quantity)).Round(4)
	}

	i.AvailableQuantity = i.AvailableQuantity.Add(quantity)
	i.UpdatedAt = time.Now()
	i.IncrementVersion()

	i.AddDomainEvent(NewStockEnteredEvent(i, quantity, unitCost.Amount()))

	return nil
}

// Exit decreases available stock. Rejected when the requested quantity
// exceeds the available balance, leaving the balance unchanged.
func (i *StockItem) Exit(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantidade deve ser positiva")
	}
	if i.AvailableQuantity.LessThan(quantity) {
		return shared.ErrInsufficientStock
	}

	i.AvailableQuantity = i.AvailableQuantity.Sub(quantity)
	i.UpdatedAt = time.Now()
	i.IncrementVersion()

	i.AddDomainEvent(NewStockExitedEvent(i, quantity))

	if i.IsBelowMinimum() {
		i.AddDomainEvent(NewStockBelowMinimumEvent(i))
	}

	return nil
}

// Adjust applies a signed correction to the available balance. A justification
// is mandatory and the resulting balance must not be negative.
func (i *StockItem) Adjust(signedQuantity decimal.Decimal, justification string) error {
	if signedQuantity.IsZero() {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantidade de ajuste não pode ser zero")
	}
	if justification == "" {
		return shared.NewDomainError("MISSING_JUSTIFICATION", "Justificativa é obrigatória para ajustes")
	}

	newBalance := i.AvailableQuantity.Add(signedQuantity)
	if newBalance.IsNegative() {
		return shared.ErrInsufficientStock
	}

	oldBalance := i.AvailableQuantity
	i.AvailableQuantity = newBalance
	i.UpdatedAt = time.Now()
	i.IncrementVersion()

	i.AddDomainEvent(NewStockAdjustedEvent(i, oldBalance, newBalance, justification))

	if i.IsBelowMinimum() {
		i.AddDomainEvent(NewStockBelowMinimumEvent(i))
	}

	return nil
}

// Reserve moves quantity from available to reserved for an order hold
func (i *StockItem) Reserve(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantidade deve ser positiva")
	}
	if i.AvailableQuantity.LessThan(quantity) {
		return shared.ErrInsufficientStock
	}

	i.AvailableQuantity = i.AvailableQuantity.Sub(quantity)
	i.ReservedQuantity = i.ReservedQuantity.Add(quantity)
	i.UpdatedAt = time.Now()
	i.IncrementVersion()

	return nil
}

// Release returns previously reserved quantity to available
func (i *StockItem) Release(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantidade deve ser positiva")
	}
	if i.ReservedQuantity.LessThan(quantity) {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantidade reservada insuficiente")
	}

	i.ReservedQuantity = i.ReservedQuantity.Sub(quantity)
	i.AvailableQuantity = i.AvailableQuantity.Add(quantity)
	i.UpdatedAt = time.Now()
	i.IncrementVersion()

	return nil
}

// FindLot returns the loaded lot with the given number, or nil when the
// product has no such lot.
func (i *StockItem) FindLot(lotNumber string) *StockLot {
	for idx := range i.Lots {
		if i.Lots[idx].LotNumber == lotNumber {
			return &i.Lots[idx]
		}
	}
	return nil
}

// SetMinQuantity sets the minimum stock threshold for alerts
func (i *StockItem) SetMinQuantity(quantity decimal.Decimal) error {
	if quantity.IsNegative() {
		return shared.NewDomainError("INVALID_QUANTITY", "Estoque mínimo não pode ser negativo")
	}
	i.MinQuantity = quantity
	i.UpdatedAt = time.Now()
	i.IncrementVersion()
	return nil
}

// SetMaxQuantity sets the maximum stock threshold
func (i *StockItem) SetMaxQuantity(quantity decimal.Decimal) error {
	if quantity.IsNegative() {
		return shared.NewDomainError("INVALID_QUANTITY", "Estoque máximo não pode ser negativo")
	}
	i.MaxQuantity = quantity
	i.UpdatedAt = time.Now()
	i.IncrementVersion()
	return nil
}

// GetUnitCostMoney returns unit cost as Money value object
func (i *StockItem) GetUnitCostMoney() valueobject.Money {
	return valueobject.NewMoneyBRL(i.UnitCost)
}

// GetTotalValue returns the total inventory value (total quantity * unit cost)
func (i *StockItem) GetTotalValue() valueobject.Money {
	return valueobject.NewMoneyBRL(i.TotalQuantity().Mul(i.UnitCost))
}

// IsBelowMinimum returns true if total quantity is below minimum threshold
func (i *StockItem) IsBelowMinimum() bool {
	return i.MinQuantity.GreaterThan(decimal.Zero) && i.TotalQuantity().LessThan(i.MinQuantity)
}

// IsAboveMaximum returns true if total quantity is above maximum threshold
func (i *StockItem) IsAboveMaximum() bool {
	return i.MaxQuantity.GreaterThan(decimal.Zero) && i.TotalQuantity().GreaterThan(i.MaxQuantity)
}

// CanFulfill returns true if the available quantity can fulfill the requested quantity
func (i *StockItem) CanFulfill(quantity decimal.Decimal) bool {
	return i.AvailableQuantity.GreaterThanOrEqual(quantity)
}

// CheckConsistency verifies the in-memory balances against an expected value
// derived from the movement ledger. A mismatch is an internal-consistency
// violation, never a user error.
func (i *StockItem) CheckConsistency(replayed decimal.Decimal) error {
	if i.AvailableQuantity.IsNegative() || i.ReservedQuantity.IsNegative() {
		return shared.ErrInternalInconsistency
	}
	if !i.AvailableQuantity.Add(i.ReservedQuantity).Equal(replayed) {
		return shared.ErrInternalInconsistency
	}
	return nil
}
