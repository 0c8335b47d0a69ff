package trade

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/siscom/backend/internal/domain/shared"
	"github.com/siscom/backend/internal/domain/shared/valueobject"
)

// PurchaseOrderStatus represents the status of a purchase order
type PurchaseOrderStatus string

const (
	PurchaseOrderStatusPending   PurchaseOrderStatus = "PENDING"
	PurchaseOrderStatusApproved  PurchaseOrderStatus = "APPROVED"
	PurchaseOrderStatusPartial   PurchaseOrderStatus = "PARTIAL"
	PurchaseOrderStatusReceived  PurchaseOrderStatus = "RECEIVED"
	PurchaseOrderStatusCancelled PurchaseOrderStatus = "CANCELLED"
)

// IsValid checks if the status is a valid PurchaseOrderStatus
func (s PurchaseOrderStatus) IsValid() bool {
	switch s {
	case PurchaseOrderStatusPending, PurchaseOrderStatusApproved, PurchaseOrderStatusPartial,
		PurchaseOrderStatusReceived, PurchaseOrderStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of PurchaseOrderStatus
func (s PurchaseOrderStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s PurchaseOrderStatus) CanTransitionTo(target PurchaseOrderStatus) bool {
	switch s {
	case PurchaseOrderStatusPending:
		return target == PurchaseOrderStatusApproved || target == PurchaseOrderStatusCancelled
	case PurchaseOrderStatusApproved:
		return target == PurchaseOrderStatusPartial || target == PurchaseOrderStatusReceived ||
			target == PurchaseOrderStatusCancelled
	case PurchaseOrderStatusPartial:
		return target == PurchaseOrderStatusReceived
	case PurchaseOrderStatusReceived, PurchaseOrderStatusCancelled:
		return false
	}
	return false
}

// PurchaseOrderItem represents a line item in a purchase order
type PurchaseOrderItem struct {
	ID               uuid.UUID
	OrderID          uuid.UUID
	ProductID        uuid.UUID
	ProductName      string
	ProductCode      string
	Quantity         decimal.Decimal
	ReceivedQuantity decimal.Decimal
	UnitPrice        decimal.Decimal
	Discount         decimal.Decimal
	Amount           decimal.Decimal
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// NewPurchaseOrderItem creates a new purchase order item
func NewPurchaseOrderItem(orderID, productID uuid.UUID, productName, productCode string, quantity decimal.Decimal, unitPrice valueobject.Money) (*PurchaseOrderItem, error) {
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
	return &PurchaseOrderItem{
		ID:               uuid.New(),
		OrderID:          orderID,
		ProductID:        productID,
		ProductName:      productName,
		ProductCode:      productCode,
		Quantity:         quantity,
		ReceivedQuantity: decimal.Zero,
		UnitPrice:        unitPrice.Amount(),
		Discount:         decimal.Zero,
		Amount:           quantity.Mul(unitPrice.Amount()),
		CreatedAt:        now,
		UpdatedAt:        now,
	}, nil
}

// PendingQuantity returns the quantity still expected from the supplier
func (i *PurchaseOrderItem) PendingQuantity() decimal.Decimal {
	return i.Quantity.Sub(i.ReceivedQuantity)
}

// IsFullyReceived returns true when nothing remains pending
func (i *PurchaseOrderItem) IsFullyReceived() bool {
	return i.ReceivedQuantity.GreaterThanOrEqual(i.Quantity)
}

// receive records an incoming quantity against the line
func (i *PurchaseOrderItem) receive(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantidade deve ser positiva")
	}
	if quantity.GreaterThan(i.PendingQuantity()) {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantidade recebida excede a quantidade pendente")
	}

	i.ReceivedQuantity = i.ReceivedQuantity.Add(quantity)
	i.UpdatedAt = time.Now()
	return nil
}

// PurchaseOrder represents an order placed with a supplier. Approval locks
// its content; receipts then credit stock (creating lots for lot-tracked
// products) and raise a payable financial entry.
type PurchaseOrder struct {
	shared.BaseAggregateRoot
	OrderNumber    string    `gorm:"type:varchar(50);not null;uniqueIndex"`
	SupplierID     uuid.UUID `gorm:"type:uuid;not null;index"`
	SupplierName   string
	Items          []PurchaseOrderItem `gorm:"-"`
	TotalAmount    decimal.Decimal
	DiscountAmount decimal.Decimal
	ExtraCharges   decimal.Decimal
	PayableAmount  decimal.Decimal
	Status         PurchaseOrderStatus
	ExpectedDate   *time.Time
	Remark         string
	ApprovedAt     *time.Time
	ReceivedAt     *time.Time
	CancelledAt    *time.Time
	CancelReason   string
}

// TableName returns the table name for GORM
func (PurchaseOrder) TableName() string {
	return "purchase_orders"
}

// NewPurchaseOrder creates a new pending purchase order
func NewPurchaseOrder(orderNumber string, supplierID uuid.UUID, supplierName string) (*PurchaseOrder, error) {
	if orderNumber == "" {
		return nil, shared.NewDomainError("INVALID_ORDER_NUMBER", "Número do documento é obrigatório")
	}
	if supplierID == uuid.Nil {
		return nil, shared.NewDomainError("UNKNOWN_PARTY", "Fornecedor é obrigatório")
	}

	order := &PurchaseOrder{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		OrderNumber:       orderNumber,
		SupplierID:        supplierID,
		SupplierName:      supplierName,
		Items:             make([]PurchaseOrderItem, 0),
		TotalAmount:       decimal.Zero,
		DiscountAmount:    decimal.Zero,
		ExtraCharges:      decimal.Zero,
		PayableAmount:     decimal.Zero,
		Status:            PurchaseOrderStatusPending,
	}

	order.AddDomainEvent(NewPurchaseOrderCreatedEvent(order))

	return order, nil
}

// AddItem adds a new line. Only allowed while pending.
func (o *PurchaseOrder) AddItem(productID uuid.UUID, productName, productCode string, quantity decimal.Decimal, unitPrice valueobject.Money) (*PurchaseOrderItem, error) {
	if o.Status != PurchaseOrderStatusPending {
		return nil, shared.NewDomainError("ORDER_LOCKED", "Pedido não pode ser alterado no status atual")
	}

	for _, item := range o.Items {
		if item.ProductID == productID {
			return nil, shared.NewDomainError("DUPLICATE_PRODUCT", "Produto já existe no pedido, altere a quantidade")
		}
	}

	item, err := NewPurchaseOrderItem(o.ID, productID, productName, productCode, quantity, unitPrice)
	if err != nil {
		return nil, err
	}

	o.Items = append(o.Items, *item)
	o.recalculateTotals()
	o.UpdatedAt = time.Now()

	return item, nil
}

// RemoveItem removes a line while the order is still pending
func (o *PurchaseOrder) RemoveItem(itemID uuid.UUID) error {
	if o.Status != PurchaseOrderStatusPending {
		return shared.NewDomainError("ORDER_LOCKED", "Pedido não pode ser alterado no status atual")
	}

	for idx, item := range o.Items {
		if item.ID == itemID {
			o.Items = append(o.Items[:idx], o.Items[idx+1:]...)
			o.recalculateTotals()
			o.UpdatedAt = time.Now()
			return nil
		}
	}

	return shared.NewDomainError("ITEM_NOT_FOUND", "Item do pedido não encontrado")
}

// ApplyDiscount applies an order-level discount while pending
func (o *PurchaseOrder) ApplyDiscount(discount valueobject.Money) error {
	if o.Status != PurchaseOrderStatusPending {
		return shared.NewDomainError("ORDER_LOCKED", "Pedido não pode ser alterado no status atual")
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

// SetExpectedDate sets the expected delivery date
func (o *PurchaseOrder) SetExpectedDate(date time.Time) error {
	if o.Status != PurchaseOrderStatusPending && o.Status != PurchaseOrderStatusApproved {
		return shared.NewDomainError("ORDER_LOCKED", "Pedido não pode ser alterado no status atual")
	}

	o.ExpectedDate = &date
	o.UpdatedAt = time.Now()
	return nil
}

// SetRemark sets the order remark
func (o *PurchaseOrder) SetRemark(remark string) {
	o.Remark = remark
	o.UpdatedAt = time.Now()
}

// Approve approves the order for receiving
func (o *PurchaseOrder) Approve() error {
	if !o.Status.CanTransitionTo(PurchaseOrderStatusApproved) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Pedido não pode ser aprovado no status %s", o.Status))
	}
	if len(o.Items) == 0 {
		return shared.NewDomainError("EMPTY_ORDER", "Pedido sem itens não pode ser aprovado")
	}

	now := time.Now()
	o.Status = PurchaseOrderStatusApproved
	o.ApprovedAt = &now
	o.UpdatedAt = now
	o.IncrementVersion()

	o.AddDomainEvent(NewPurchaseOrderApprovedEvent(o))

	return nil
}

// ReceiveItem records a receipt against one line and moves the order to
// PARTIAL or RECEIVED depending on what remains pending. The stock credit
// happens in the application service within the same transaction.
func (o *PurchaseOrder) ReceiveItem(itemID uuid.UUID, quantity decimal.Decimal) error {
	if o.Status != PurchaseOrderStatusApproved && o.Status != PurchaseOrderStatusPartial {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Pedido não pode receber mercadoria no status %s", o.Status))
	}

	var item *PurchaseOrderItem
	for idx := range o.Items {
		if o.Items[idx].ID == itemID {
			item = &o.Items[idx]
			break
		}
	}
	if item == nil {
		return shared.NewDomainError("ITEM_NOT_FOUND", "Item do pedido não encontrado")
	}

	if err := item.receive(quantity); err != nil {
		return err
	}

	now := time.Now()
	if o.isFullyReceived() {
		o.Status = PurchaseOrderStatusReceived
		o.ReceivedAt = &now
		o.AddDomainEvent(NewPurchaseOrderReceivedEvent(o))
	} else {
		o.Status = PurchaseOrderStatusPartial
	}
	o.UpdatedAt = now
	o.IncrementVersion()

	return nil
}

// Cancel cancels the order. Only pending and approved orders can be
// cancelled; once goods arrived the order is settled through returns.
func (o *PurchaseOrder) Cancel(reason string) error {
	if !o.Status.CanTransitionTo(PurchaseOrderStatusCancelled) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Pedido não pode ser cancelado no status %s", o.Status))
	}

	now := time.Now()
	o.Status = PurchaseOrderStatusCancelled
	o.CancelledAt = &now
	o.CancelReason = reason
	o.UpdatedAt = now
	o.IncrementVersion()

	o.AddDomainEvent(NewPurchaseOrderCancelledEvent(o))

	return nil
}

func (o *PurchaseOrder) isFullyReceived() bool {
	for _, item := range o.Items {
		if !item.IsFullyReceived() {
			return false
		}
	}
	return len(o.Items) > 0
}

// recalculateTotals recomputes totals from line items, clamping at zero
func (o *PurchaseOrder) recalculateTotals() {
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

// GetPayableAmountMoney returns the payable amount as Money value object
func (o *PurchaseOrder) GetPayableAmountMoney() valueobject.Money {
	return valueobject.NewMoneyBRL(o.PayableAmount)
}

// GetItem returns an item by ID, or nil
func (o *PurchaseOrder) GetItem(itemID uuid.UUID) *PurchaseOrderItem {
	for idx := range o.Items {
		if o.Items[idx].ID == itemID {
			return &o.Items[idx]
		}
	}
	return nil
}

// IsTerminal returns true for RECEIVED and CANCELLED
func (o *PurchaseOrder) IsTerminal() bool {
	return o.Status == PurchaseOrderStatusReceived || o.Status == PurchaseOrderStatusCancelled
}
