package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/siscom/backend/internal/domain/shared"
)

// MovementType represents the type of stock movement
type MovementType string

const (
	// MovementTypeEntry represents stock coming in (purchase receipt, sale cancel reversal)
	MovementTypeEntry MovementType = "ENTRY"
	// MovementTypeExit represents stock going out (sale, purchase return)
	MovementTypeExit MovementType = "EXIT"
	// MovementTypeAdjustmentPositive represents a positive manual correction
	MovementTypeAdjustmentPositive MovementType = "ADJUSTMENT_POSITIVE"
	// MovementTypeAdjustmentNegative represents a negative manual correction
	MovementTypeAdjustmentNegative MovementType = "ADJUSTMENT_NEGATIVE"
)

// String returns the string representation of MovementType
func (t MovementType) String() string {
	return string(t)
}

// IsValid returns true if the movement type is valid
func (t MovementType) IsValid() bool {
	switch t {
	case MovementTypeEntry, MovementTypeExit, MovementTypeAdjustmentPositive, MovementTypeAdjustmentNegative:
		return true
	}
	return false
}

// IsIncrease returns true if this movement type increases the balance
func (t MovementType) IsIncrease() bool {
	return t == MovementTypeEntry || t == MovementTypeAdjustmentPositive
}

// IsDecrease returns true if this movement type decreases the balance
func (t MovementType) IsDecrease() bool {
	return t == MovementTypeExit || t == MovementTypeAdjustmentNegative
}

// IsAdjustment returns true for manual corrections, which require a justification
func (t MovementType) IsAdjustment() bool {
	return t == MovementTypeAdjustmentPositive || t == MovementTypeAdjustmentNegative
}

// StockMovement is an immutable, append-only record of a stock mutation.
// Movements are never updated or deleted; a reversal is a new movement in the
// opposite direction referencing the original document.
type StockMovement struct {
	shared.BaseEntity
	StockItemID   uuid.UUID       `gorm:"type:uuid;not null;index:idx_stock_mov_item"`
	ProductID     uuid.UUID       `gorm:"type:uuid;not null;index:idx_stock_mov_product"`
	Type          MovementType    `gorm:"type:varchar(30);not null;index:idx_stock_mov_type"`
	Quantity      decimal.Decimal `gorm:"type:decimal(18,4);not null"` // Always positive, direction from Type
	UnitCost      decimal.Decimal `gorm:"type:decimal(18,4);not null"` // Cost per unit at movement time (entries)
	BalanceBefore decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	BalanceAfter  decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	DocumentRef   string          `gorm:"type:varchar(100);index"` // Source document (sale, purchase order, OS)
	Justification string          `gorm:"type:varchar(255)"`       // Required for adjustments
	LotID         *uuid.UUID      `gorm:"type:uuid;index"`
	CostMethod    string          `gorm:"type:varchar(30)"`
	MovementDate  time.Time       `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (StockMovement) TableName() string {
	return "stock_movements"
}

// NewStockMovement creates a new stock movement record
func NewStockMovement(
	stockItemID uuid.UUID,
	productID uuid.UUID,
	movType MovementType,
	quantity decimal.Decimal,
	unitCost decimal.Decimal,
	balanceBefore decimal.Decimal,
	balanceAfter decimal.Decimal,
) (*StockMovement, error) {
	if stockItemID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_STOCK_ITEM", "Item de estoque é obrigatório")
	}
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Produto é obrigatório")
	}
	if !movType.IsValid() {
		return nil, shared.NewDomainError("INVALID_MOVEMENT_TYPE", "Tipo de movimentação inválido")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantidade deve ser positiva")
	}
	if unitCost.IsNegative() {
		return nil, shared.NewDomainError("INVALID_COST", "Custo unitário não pode ser negativo")
	}
	if balanceAfter.IsNegative() {
		return nil, shared.ErrInsufficientStock
	}

	return &StockMovement{
		BaseEntity:    shared.NewBaseEntity(),
		StockItemID:   stockItemID,
		ProductID:     productID,
		Type:          movType,
		Quantity:      quantity,
		UnitCost:      unitCost,
		BalanceBefore: balanceBefore,
		BalanceAfter:  balanceAfter,
		MovementDate:  time.Now(),
	}, nil
}

// WithDocumentRef sets the source document reference
func (m *StockMovement) WithDocumentRef(ref string) *StockMovement {
	m.DocumentRef = ref
	return m
}

// WithJustification sets the justification (mandatory for adjustments)
func (m *StockMovement) WithJustification(justification string) *StockMovement {
	m.Justification = justification
	return m
}

// WithLotID sets the related lot
func (m *StockMovement) WithLotID(lotID uuid.UUID) *StockMovement {
	m.LotID = &lotID
	return m
}

// WithCostMethod records the cost calculation method used
func (m *StockMovement) WithCostMethod(method string) *StockMovement {
	m.CostMethod = method
	return m
}

// Validate enforces cross-field rules that the constructor cannot see,
// in particular the justification requirement for adjustments.
func (m *StockMovement) Validate() error {
	if m.Type.IsAdjustment() && m.Justification == "" {
		return shared.NewDomainError("MISSING_JUSTIFICATION", "Justificativa é obrigatória para ajustes")
	}
	return nil
}

// SignedQuantity returns the quantity with sign based on movement type
func (m *StockMovement) SignedQuantity() decimal.Decimal {
	if m.Type.IsDecrease() {
		return m.Quantity.Neg()
	}
	return m.Quantity
}

// TotalCost returns the total cost of the movement
func (m *StockMovement) TotalCost() decimal.Decimal {
	return m.Quantity.Mul(m.UnitCost)
}

// ReplayBalance derives the balance implied by a movement history. Used for
// audit reconciliation against the live StockItem balance.
func ReplayBalance(opening decimal.Decimal, movements []StockMovement) decimal.Decimal {
	balance := opening
	for _, m := range movements {
		balance = balance.Add(m.SignedQuantity())
	}
	return balance
}
