package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/siscom/backend/internal/domain/shared"
)

// StockLot represents a received lot of a lot-tracked product. The descriptive
// fields are immutable after receipt; only the consumed and reserved counters
// change, and only through the allocator and reservation operations.
type StockLot struct {
	shared.BaseEntity
	StockItemID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID        uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_stock_lot_product_number,priority:1"`
	LotNumber        string          `gorm:"type:varchar(50);not null;uniqueIndex:idx_stock_lot_product_number,priority:2"`
	ManufactureDate  *time.Time
	ExpiryDate       *time.Time
	ReceivedQuantity decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	ConsumedQuantity decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	ReservedQuantity decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	UnitCost         decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	SerialNumber     string          `gorm:"type:varchar(50)"`
	SupplierRef      string          `gorm:"type:varchar(100)"`
	InvoiceRef       string          `gorm:"type:varchar(100)"`
}

// TableName returns the table name for GORM
func (StockLot) TableName() string {
	return "stock_lots"
}

// NewStockLot creates a new stock lot from a receipt
func NewStockLot(
	stockItemID uuid.UUID,
	productID uuid.UUID,
	lotNumber string,
	manufactureDate, expiryDate *time.Time,
	quantity decimal.Decimal,
	unitCost decimal.Decimal,
) (*StockLot, error) {
	if stockItemID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_STOCK_ITEM", "Item de estoque é obrigatório")
	}
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Produto é obrigatório")
	}
	if lotNumber == "" {
		return nil, shared.NewDomainError("INVALID_LOT_NUMBER", "Número do lote é obrigatório")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantidade deve ser positiva")
	}
	if unitCost.IsNegative() {
		return nil, shared.NewDomainError("INVALID_COST", "Custo unitário não pode ser negativo")
	}

	return &StockLot{
		BaseEntity:       shared.NewBaseEntity(),
		StockItemID:      stockItemID,
		ProductID:        productID,
		LotNumber:        lotNumber,
		ManufactureDate:  manufactureDate,
		ExpiryDate:       expiryDate,
		ReceivedQuantity: quantity,
		ConsumedQuantity: decimal.Zero,
		ReservedQuantity: decimal.Zero,
		UnitCost:         unitCost,
	}, nil
}

// TopUp records an additional receipt of the same physical lot. The unit cost
// becomes the weighted average over the remaining and the incoming quantity.
func (l *StockLot) TopUp(quantity, unitCost decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantidade deve ser positiva")
	}
	if unitCost.IsNegative() {
		return shared.NewDomainError("INVALID_COST", "Custo unitário não pode ser negativo")
	}

	remaining := l.AvailableQuantity()
	if remaining.IsPositive() {
		totalValue := remaining.Mul(l.UnitCost).Add(quantity.Mul(unitCost))
		l.UnitCost = totalValue.Div(remaining.Add(quantity)).Round(4)
	} else {
		l.UnitCost = unitCost.Round(4)
	}

	l.ReceivedQuantity = l.ReceivedQuantity.Add(quantity)
	l.UpdatedAt = time.Now()
	return nil
}

// AvailableQuantity returns received - consumed - reserved
func (l *StockLot) AvailableQuantity() decimal.Decimal {
	return l.ReceivedQuantity.Sub(l.ConsumedQuantity).Sub(l.ReservedQuantity)
}

// IsExpired returns true if the lot is past its expiry date
func (l *StockLot) IsExpired(asOf time.Time) bool {
	if l.ExpiryDate == nil {
		return false
	}
	return l.ExpiryDate.Before(asOf)
}

// IsDepleted returns true when nothing remains available
func (l *StockLot) IsDepleted() bool {
	return l.AvailableQuantity().LessThanOrEqual(decimal.Zero)
}

// Consume records consumption from this lot. Only the allocator calls this,
// after building a plan that guarantees the quantity fits.
func (l *StockLot) Consume(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantidade deve ser positiva")
	}
	if l.AvailableQuantity().LessThan(quantity) {
		return shared.ErrInsufficientLotStock
	}

	l.ConsumedQuantity = l.ConsumedQuantity.Add(quantity)
	l.UpdatedAt = time.Now()
	return nil
}

// Restore returns previously consumed quantity to the lot (sale cancel)
func (l *StockLot) Restore(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantidade deve ser positiva")
	}
	if l.ConsumedQuantity.LessThan(quantity) {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantidade consumida insuficiente para estorno")
	}

	l.ConsumedQuantity = l.ConsumedQuantity.Sub(quantity)
	l.UpdatedAt = time.Now()
	return nil
}

// Reserve holds quantity for a pending order without consuming it
func (l *StockLot) Reserve(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantidade deve ser positiva")
	}
	if l.AvailableQuantity().LessThan(quantity) {
		return shared.ErrInsufficientLotStock
	}

	l.ReservedQuantity = l.ReservedQuantity.Add(quantity)
	l.UpdatedAt = time.Now()
	return nil
}

// Release returns previously reserved quantity to available
func (l *StockLot) Release(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantidade deve ser positiva")
	}
	if l.ReservedQuantity.LessThan(quantity) {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantidade reservada insuficiente")
	}

	l.ReservedQuantity = l.ReservedQuantity.Sub(quantity)
	l.UpdatedAt = time.Now()
	return nil
}

// CheckInvariant verifies 0 <= available <= received
func (l *StockLot) CheckInvariant() error {
	avail := l.AvailableQuantity()
	if avail.IsNegative() || avail.GreaterThan(l.ReceivedQuantity) {
		return shared.ErrInternalInconsistency
	}
	return nil
}

// TotalValue returns the value of the remaining available quantity
func (l *StockLot) TotalValue() decimal.Decimal {
	return l.AvailableQuantity().Mul(l.UnitCost)
}
