package trade

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/siscom/backend/internal/domain/shared"
	"github.com/siscom/backend/internal/domain/shared/valueobject"
)

// SaleStatus represents the status of a sale
type SaleStatus string

const (
	SaleStatusOpen      SaleStatus = "OPEN"
	SaleStatusFinalized SaleStatus = "FINALIZED"
	SaleStatusCancelled SaleStatus = "CANCELLED"
)

// IsValid checks if the status is a valid SaleStatus
func (s SaleStatus) IsValid() bool {
	switch s {
	case SaleStatusOpen, SaleStatusFinalized, SaleStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of SaleStatus
func (s SaleStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s SaleStatus) CanTransitionTo(target SaleStatus) bool {
	switch s {
	case SaleStatusOpen:
		return target == SaleStatusFinalized || target == SaleStatusCancelled
	case SaleStatusFinalized:
		// Cancelling a finalized sale reverses its stock movements
		return target == SaleStatusCancelled
	case SaleStatusCancelled:
		return false
	}
	return false
}

// SalesOrderItem represents a line item in a sale
type SalesOrderItem struct {
	ID          uuid.UUID
	OrderID     uuid.UUID
	ProductID   uuid.UUID
	ProductName string
	ProductCode string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	Discount    decimal.Decimal // Item-level discount in currency
	Amount      decimal.Decimal // Quantity*UnitPrice - Discount
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewSalesOrderItem creates a new sales order item
func NewSalesOrderItem(orderID, productID uuid.UUID, productName, productCode string, quantity decimal.Decimal, unitPrice valueobject.Money) (*SalesOrderItem, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Produto é obrigatório")
	}
	if productName == "" {
		return nil, shared.NewDomainError("INVALID_PRODUCT_NAME", "Nome do produto é obrigatório")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantidade deve ser positiva")
	}
	if unitPrice.Amount().IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Preço unitário não pode ser negativo")
	}

	now := time.Now()
	return &SalesOrderItem{
		ID:          uuid.New(),
		OrderID:     orderID,
		ProductID:   productID,
		ProductName: productName,
		ProductCode: productCode,
		Quantity:    quantity,
		UnitPrice:   unitPrice.Amount(),
		Discount:    decimal.Zero,
		Amount:      quantity.Mul(unitPrice.Amount()),
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// ApplyDiscount applies an item-level discount in currency
func (i *SalesOrderItem) ApplyDiscount(discount valueobject.Money) error {
	if discount.Amount().IsNegative() {
		return shared.NewDomainError("INVALID_DISCOUNT", "Desconto não pode ser negativo")
	}
	gross := i.Quantity.Mul(i.UnitPrice)
	if discount.Amount().GreaterThan(gross) {
		return shared.NewDomainError("INVALID_DISCOUNT", "Desconto não pode exceder o valor do item")
	}

	i.Discount = discount.Amount()
	i.Amount = gross.Sub(i.Discount)
	i.UpdatedAt = time.Now()

	return nil
}

// UpdateQuantity updates the item quantity and recalculates the amount
func (i *SalesOrderItem) UpdateQuantity(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantidade deve ser positiva")
	}

	i.Quantity = quantity
	i.Amount = quantity.Mul(i.UnitPrice).Sub(i.Discount)
	i.UpdatedAt = time.Now()

	return nil
}

// GetAmountMoney returns the line amount as Money value object
func (i *SalesOrderItem) GetAmountMoney() valueobject.Money {
	return valueobject.NewMoneyBRL(i.Amount)
}

// SalesOrder represents a quick sale, the counter and PDV selling path.
// It is created open, finalized against stock in one step, and can only be
// cancelled afterwards, which reverses the stock movements exactly.
type SalesOrder struct {
	shared.BaseAggregateRoot
	OrderNumber    string     `gorm:"type:varchar(50);not null;uniqueIndex"`
	CustomerID     *uuid.UUID `gorm:"type:uuid;index"` // Optional for counter sales
	CustomerName   string
	Items          []SalesOrderItem `gorm:"-"`
	TotalAmount    decimal.Decimal  // Σ line amounts
	DiscountAmount decimal.Decimal  // Order-level discount
	ExtraCharges   decimal.Decimal  // Freight and other additions
	PayableAmount  decimal.Decimal  // TotalAmount - DiscountAmount + ExtraCharges, clamped at zero
	Status         SaleStatus
	PaymentMethod  string
	Remark         string
	FinalizedAt    *time.Time
	CancelledAt    *time.Time
	CancelReason   string
}

// TableName returns the table name for GORM
func (SalesOrder) TableName() string {
	return "sales_orders"
}

// NewSalesOrder creates a new open sale
func NewSalesOrder(orderNumber string, customerID *uuid.UUID, customerName string) (*SalesOrder, error) {
	if orderNumber == "" {
		return nil, shared.NewDomainError("INVALID_ORDER_NUMBER", "Número do documento é obrigatório")
	}
	if customerID != nil && *customerID == uuid.Nil {
		return nil, shared.NewDomainError("UNKNOWN_PARTY", "Cliente inválido")
	}

	order := &SalesOrder{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		OrderNumber:       orderNumber,
		CustomerID:        customerID,
		CustomerName:      customerName,
		Items:             make([]SalesOrderItem, 0),
		TotalAmount:       decimal.Zero,
		DiscountAmount:    decimal.Zero,
		ExtraCharges:      decimal.Zero,
		PayableAmount:     decimal.Zero,
		Status:            SaleStatusOpen,
	}

	order.AddDomainEvent(NewSalesOrderCreatedEvent(order))

	return order, nil
}

// AddItem adds a new line item. Only allowed while the sale is open.
func (o *SalesOrder) AddItem(productID uuid.UUID, productName, productCode string, quantity decimal.Decimal, unitPrice valueobject.Money) (*SalesOrderItem, error) {
	if o.Status != SaleStatusOpen {
		return nil, shared.NewDomainError("ORDER_LOCKED", "Venda não pode ser alterada no status atual")
	}

	for _, item := range o.Items {
		if item.ProductID == productID {
			return nil, shared.NewDomainError("DUPLICATE_PRODUCT", "Produto já existe na venda, altere a quantidade")
		}
	}

	item, err := NewSalesOrderItem(o.ID, productID, productName, productCode, quantity, unitPrice)
	if err != nil {
		return nil, err
	}

	o.Items = append(o.Items, *item)
	o.recalculateTotals()
	o.UpdatedAt = time.Now()

	return item, nil
}

// UpdateItemQuantity updates the quantity of an existing line
func (o *SalesOrder) UpdateItemQuantity(itemID uuid.UUID, quantity decimal.Decimal) error {
	if o.Status != SaleStatusOpen {
		return shared.NewDomainError("ORDER_LOCKED", "Venda não pode ser alterada no status atual")
	}

	for idx := range o.Items {
		if o.Items[idx].ID == itemID {
			if err := o.Items[idx].UpdateQuantity(quantity); err != nil {
				return err
			}
			o.recalculateTotals()
			o.UpdatedAt = time.Now()
			return nil
		}
	}

	return shared.NewDomainError("ITEM_NOT_FOUND", "Item da venda não encontrado")
}

// ApplyItemDiscount applies a discount on one line
func (o *SalesOrder) ApplyItemDiscount(itemID uuid.UUID, discount valueobject.Money) error {
	if o.Status != SaleStatusOpen {
		return shared.NewDomainError("ORDER_LOCKED", "Venda não pode ser alterada no status atual")
	}

	for idx := range o.Items {
		if o.Items[idx].ID == itemID {
			if err := o.Items[idx].ApplyDiscount(discount); err != nil {
				return err
			}
			o.recalculateTotals()
			o.UpdatedAt = time.Now()
			return nil
		}
	}

	return shared.NewDomainError("ITEM_NOT_FOUND", "Item da venda não encontrado")
}

// RemoveItem removes a line from the sale
func (o *SalesOrder) RemoveItem(itemID uuid.UUID) error {
	if o.Status != SaleStatusOpen {
		return shared.NewDomainError("ORDER_LOCKED", "Venda não pode ser alterada no status atual")
	}

	for idx, item := range o.Items {
		if item.ID == itemID {
			o.Items = append(o.Items[:idx], o.Items[idx+1:]...)
			o.recalculateTotals()
			o.UpdatedAt = time.Now()
			return nil
		}
	}

	return shared.NewDomainError("ITEM_NOT_FOUND", "Item da venda não encontrado")
}

// ApplyDiscount applies an order-level discount
func (o *SalesOrder) ApplyDiscount(discount valueobject.Money) error {
	if o.Status != SaleStatusOpen {
		return shared.NewDomainError("ORDER_LOCKED", "Venda não pode ser alterada no status atual")
	}
	if discount.Amount().IsNegative() {
		return shared.NewDomainError("INVALID_DISCOUNT", "Desconto não pode ser negativo")
	}
	if discount.Amount().GreaterThan(o.TotalAmount.Add(o.ExtraCharges)) {
		return shared.NewDomainError("INVALID_DISCOUNT", "Desconto não pode exceder o valor total")
	}

	o.DiscountAmount = discount.Amount()
	o.recalculateTotals()
	o.UpdatedAt = time.Now()

	return nil
}

// SetExtraCharges sets freight and other order-level additions
func (o *SalesOrder) SetExtraCharges(charges valueobject.Money) error {
	if o.Status != SaleStatusOpen {
		return shared.NewDomainError("ORDER_LOCKED", "Venda não pode ser alterada no status atual")
	}
	if charges.Amount().IsNegative() {
		return shared.NewDomainError("INVALID_CHARGES", "Acréscimos não podem ser negativos")
	}

	o.ExtraCharges = charges.Amount()
	o.recalculateTotals()
	o.UpdatedAt = time.Now()

	return nil
}

// SetPaymentMethod records how the sale was paid
func (o *SalesOrder) SetPaymentMethod(method string) {
	o.PaymentMethod = method
	o.UpdatedAt = time.Now()
}

// SetRemark sets the sale remark
func (o *SalesOrder) SetRemark(remark string) {
	o.Remark = remark
	o.UpdatedAt = time.Now()
}

// Finalize closes the sale. The application service debits stock in the same
// transaction; the aggregate only guards the state machine and content rules.
func (o *SalesOrder) Finalize() error {
	if !o.Status.CanTransitionTo(SaleStatusFinalized) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Venda não pode ser finalizada no status %s", o.Status))
	}
	if len(o.Items) == 0 {
		return shared.NewDomainError("EMPTY_ORDER", "Venda sem itens não pode ser finalizada")
	}

	now := time.Now()
	o.Status = SaleStatusFinalized
	o.FinalizedAt = &now
	o.UpdatedAt = now
	o.IncrementVersion()

	o.AddDomainEvent(NewSalesOrderFinalizedEvent(o))

	return nil
}

// Cancel cancels the sale. Cancelling a finalized sale triggers an exact
// stock reversal in the application service.
func (o *SalesOrder) Cancel(reason string) error {
	if !o.Status.CanTransitionTo(SaleStatusCancelled) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Venda não pode ser cancelada no status %s", o.Status))
	}

	wasFinalized := o.Status == SaleStatusFinalized

	now := time.Now()
	o.Status = SaleStatusCancelled
	o.CancelledAt = &now
	o.CancelReason = reason
	o.UpdatedAt = now
	o.IncrementVersion()

	o.AddDomainEvent(NewSalesOrderCancelledEvent(o, wasFinalized))

	return nil
}

// recalculateTotals recomputes totals from line items, clamping at zero
func (o *SalesOrder) recalculateTotals() {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.Amount)
	}
	o.TotalAmount = total

	payable := total.Sub(o.DiscountAmount).Add(o.ExtraCharges)
	if payable.IsNegative() {
		payable = decimal.Zero
	}
	o.PayableAmount = payable
}

// GetTotalAmountMoney returns the total as Money value object
func (o *SalesOrder) GetTotalAmountMoney() valueobject.Money {
	return valueobject.NewMoneyBRL(o.TotalAmount)
}

// GetPayableAmountMoney returns the payable amount as Money value object
func (o *SalesOrder) GetPayableAmountMoney() valueobject.Money {
	return valueobject.NewMoneyBRL(o.PayableAmount)
}

// ItemCount returns the number of line items
func (o *SalesOrder) ItemCount() int {
	return len(o.Items)
}

// TotalQuantity returns the total quantity across all lines
func (o *SalesOrder) TotalQuantity() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.Quantity)
	}
	return total
}

// IsOpen returns true while the sale accepts edits
func (o *SalesOrder) IsOpen() bool {
	return o.Status == SaleStatusOpen
}

// IsFinalized returns true after finalization
func (o *SalesOrder) IsFinalized() bool {
	return o.Status == SaleStatusFinalized
}

// IsCancelled returns true after cancellation
func (o *SalesOrder) IsCancelled() bool {
	return o.Status == SaleStatusCancelled
}

// GetItem returns an item by ID, or nil
func (o *SalesOrder) GetItem(itemID uuid.UUID) *SalesOrderItem {
	for idx := range o.Items {
		if o.Items[idx].ID == itemID {
			return &o.Items[idx]
		}
	}
	return nil
}
