package trade

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/siscom/backend/internal/domain/shared"
	"github.com/siscom/backend/internal/domain/shared/valueobject"
)

// ServiceOrderStatus represents the status of a service order (OS)
type ServiceOrderStatus string

const (
	ServiceOrderStatusOpen       ServiceOrderStatus = "OPEN"
	ServiceOrderStatusInProgress ServiceOrderStatus = "IN_PROGRESS"
	ServiceOrderStatusCompleted  ServiceOrderStatus = "COMPLETED"
	ServiceOrderStatusInvoiced   ServiceOrderStatus = "INVOICED"
	ServiceOrderStatusCancelled  ServiceOrderStatus = "CANCELLED"
)

// IsValid checks if the status is a valid ServiceOrderStatus
func (s ServiceOrderStatus) IsValid() bool {
	switch s {
	case ServiceOrderStatusOpen, ServiceOrderStatusInProgress, ServiceOrderStatusCompleted,
		ServiceOrderStatusInvoiced, ServiceOrderStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of ServiceOrderStatus
func (s ServiceOrderStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s ServiceOrderStatus) CanTransitionTo(target ServiceOrderStatus) bool {
	switch s {
	case ServiceOrderStatusOpen:
		return target == ServiceOrderStatusInProgress || target == ServiceOrderStatusCancelled
	case ServiceOrderStatusInProgress:
		return target == ServiceOrderStatusCompleted || target == ServiceOrderStatusCancelled
	case ServiceOrderStatusCompleted:
		return target == ServiceOrderStatusInvoiced || target == ServiceOrderStatusCancelled
	case ServiceOrderStatusInvoiced, ServiceOrderStatusCancelled:
		return false
	}
	return false
}

// ServiceOrderItem is a parts or labor line on a service order
type ServiceOrderItem struct {
	ID          uuid.UUID
	OrderID     uuid.UUID
	ProductID   *uuid.UUID // Nil for labor lines
	Description string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	Discount    decimal.Decimal
	Amount      decimal.Decimal
	IsLabor     bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewServiceOrderItem creates a parts line referencing a product
func NewServiceOrderItem(orderID, productID uuid.UUID, description string, quantity decimal.Decimal, unitPrice valueobject.Money) (*ServiceOrderItem, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Produto é obrigatório")
	}
	return newServiceOrderLine(orderID, &productID, description, quantity, unitPrice, false)
}

// NewServiceOrderLaborItem creates a labor line with no stock effect
func NewServiceOrderLaborItem(orderID uuid.UUID, description string, quantity decimal.Decimal, unitPrice valueobject.Money) (*ServiceOrderItem, error) {
	return newServiceOrderLine(orderID, nil, description, quantity, unitPrice, true)
}

func newServiceOrderLine(orderID uuid.UUID, productID *uuid.UUID, description string, quantity decimal.Decimal, unitPrice valueobject.Money, isLabor bool) (*ServiceOrderItem, error) {
	if description == "" {
		return nil, shared.NewDomainError("INVALID_DESCRIPTION", "Descrição é obrigatória")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantidade deve ser positiva")
	}
	if unitPrice.Amount().IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Preço unitário não pode ser negativo")
	}

	now := time.Now()
	return &ServiceOrderItem{
		ID:          uuid.New(),
		OrderID:     orderID,
		ProductID:   productID,
		Description: description,
		Quantity:    quantity,
		UnitPrice:   unitPrice.Amount(),
		Discount:    decimal.Zero,
		Amount:      quantity.Mul(unitPrice.Amount()),
		IsLabor:     isLabor,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// ServiceOrder represents a repair/service job (OS). Parts consume stock on
// completion; invoicing raises a receivable financial entry.
type ServiceOrder struct {
	shared.BaseAggregateRoot
	OrderNumber    string    `gorm:"type:varchar(50);not null;uniqueIndex"`
	CustomerID     uuid.UUID `gorm:"type:uuid;not null;index"`
	CustomerName   string
	Description    string // What the customer reported
	Diagnosis      string // What the technician found
	Items          []ServiceOrderItem `gorm:"-"`
	TotalAmount    decimal.Decimal
	DiscountAmount decimal.Decimal
	ExtraCharges   decimal.Decimal
	PayableAmount  decimal.Decimal
	Status         ServiceOrderStatus
	StartedAt      *time.Time
	CompletedAt    *time.Time
	InvoicedAt     *time.Time
	CancelledAt    *time.Time
	CancelReason   string
}

// TableName returns the table name for GORM
func (ServiceOrder) TableName() string {
	return "service_orders"
}

// NewServiceOrder creates a new open service order
func NewServiceOrder(orderNumber string, customerID uuid.UUID, customerName, description string) (*ServiceOrder, error) {
	if orderNumber == "" {
		return nil, shared.NewDomainError("INVALID_ORDER_NUMBER", "Número do documento é obrigatório")
	}
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("UNKNOWN_PARTY", "Cliente é obrigatório")
	}
	if description == "" {
		return nil, shared.NewDomainError("INVALID_DESCRIPTION", "Descrição do serviço é obrigatória")
	}

	order := &ServiceOrder{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		OrderNumber:       orderNumber,
		CustomerID:        customerID,
		CustomerName:      customerName,
		Description:       description,
		Items:             make([]ServiceOrderItem, 0),
		TotalAmount:       decimal.Zero,
		DiscountAmount:    decimal.Zero,
		ExtraCharges:      decimal.Zero,
		PayableAmount:     decimal.Zero,
		Status:            ServiceOrderStatusOpen,
	}

	order.AddDomainEvent(NewServiceOrderCreatedEvent(order))

	return order, nil
}

// canEdit reports whether line edits are still accepted
func (o *ServiceOrder) canEdit() bool {
	return o.Status == ServiceOrderStatusOpen || o.Status == ServiceOrderStatusInProgress
}

// AddPartItem adds a parts line consuming stock on completion
func (o *ServiceOrder) AddPartItem(productID uuid.UUID, description string, quantity decimal.Decimal, unitPrice valueobject.Money) (*ServiceOrderItem, error) {
	if !o.canEdit() {
		return nil, shared.NewDomainError("ORDER_LOCKED", "OS não pode ser alterada no status atual")
	}

	item, err := NewServiceOrderItem(o.ID, productID, description, quantity, unitPrice)
	if err != nil {
		return nil, err
	}

	o.Items = append(o.Items, *item)
	o.recalculateTotals()
	o.UpdatedAt = time.Now()

	return item, nil
}

// AddLaborItem adds a labor line
func (o *ServiceOrder) AddLaborItem(description string, quantity decimal.Decimal, unitPrice valueobject.Money) (*ServiceOrderItem, error) {
	if !o.canEdit() {
		return nil, shared.NewDomainError("ORDER_LOCKED", "OS não pode ser alterada no status atual")
	}

	item, err := NewServiceOrderLaborItem(o.ID, description, quantity, unitPrice)
	if err != nil {
		return nil, err
	}

	o.Items = append(o.Items, *item)
	o.recalculateTotals()
	o.UpdatedAt = time.Now()

	return item, nil
}

// RemoveItem removes a line while the OS is editable
func (o *ServiceOrder) RemoveItem(itemID uuid.UUID) error {
	if !o.canEdit() {
		return shared.NewDomainError("ORDER_LOCKED", "OS não pode ser alterada no status atual")
	}

	for idx, item := range o.Items {
		if item.ID == itemID {
			o.Items = append(o.Items[:idx], o.Items[idx+1:]...)
			o.recalculateTotals()
			o.UpdatedAt = time.Now()
			return nil
		}
	}

	return shared.NewDomainError("ITEM_NOT_FOUND", "Item da OS não encontrado")
}

// ApplyDiscount applies an order-level discount while editable
func (o *ServiceOrder) ApplyDiscount(discount valueobject.Money) error {
	if !o.canEdit() {
		return shared.NewDomainError("ORDER_LOCKED", "OS não pode ser alterada no status atual")
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

// SetDiagnosis records the technician's findings
func (o *ServiceOrder) SetDiagnosis(diagnosis string) error {
	if o.Status == ServiceOrderStatusInvoiced || o.Status == ServiceOrderStatusCancelled {
		return shared.NewDomainError("ORDER_LOCKED", "OS não pode ser alterada no status atual")
	}

	o.Diagnosis = diagnosis
	o.UpdatedAt = time.Now()
	return nil
}

// Start moves the OS to IN_PROGRESS
func (o *ServiceOrder) Start() error {
	if !o.Status.CanTransitionTo(ServiceOrderStatusInProgress) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("OS não pode ser iniciada no status %s", o.Status))
	}

	now := time.Now()
	o.Status = ServiceOrderStatusInProgress
	o.StartedAt = &now
	o.UpdatedAt = now
	o.IncrementVersion()

	return nil
}

// Complete finishes the work. Part lines debit stock in the application
// service within the same transaction.
func (o *ServiceOrder) Complete() error {
	if !o.Status.CanTransitionTo(ServiceOrderStatusCompleted) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("OS não pode ser concluída no status %s", o.Status))
	}
	if len(o.Items) == 0 {
		return shared.NewDomainError("EMPTY_ORDER", "OS sem itens não pode ser concluída")
	}

	now := time.Now()
	o.Status = ServiceOrderStatusCompleted
	o.CompletedAt = &now
	o.UpdatedAt = now
	o.IncrementVersion()

	o.AddDomainEvent(NewServiceOrderCompletedEvent(o))

	return nil
}

// Invoice bills the customer, raising a receivable in the application service
func (o *ServiceOrder) Invoice() error {
	if !o.Status.CanTransitionTo(ServiceOrderStatusInvoiced) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("OS não pode ser faturada no status %s", o.Status))
	}

	now := time.Now()
	o.Status = ServiceOrderStatusInvoiced
	o.InvoicedAt = &now
	o.UpdatedAt = now
	o.IncrementVersion()

	o.AddDomainEvent(NewServiceOrderInvoicedEvent(o))

	return nil
}

// Cancel cancels the OS from any non-terminal status
func (o *ServiceOrder) Cancel(reason string) error {
	if !o.Status.CanTransitionTo(ServiceOrderStatusCancelled) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("OS não pode ser cancelada no status %s", o.Status))
	}

	now := time.Now()
	o.Status = ServiceOrderStatusCancelled
	o.CancelledAt = &now
	o.CancelReason = reason
	o.UpdatedAt = now
	o.IncrementVersion()

	return nil
}

// PartItems returns the lines that reference products
func (o *ServiceOrder) PartItems() []ServiceOrderItem {
	parts := make([]ServiceOrderItem, 0, len(o.Items))
	for _, item := range o.Items {
		if !item.IsLabor {
			parts = append(parts, item)
		}
	}
	return parts
}

// recalculateTotals recomputes totals from line items, clamping at zero
func (o *ServiceOrder) recalculateTotals() {
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
func (o *ServiceOrder) GetPayableAmountMoney() valueobject.Money {
	return valueobject.NewMoneyBRL(o.PayableAmount)
}

// IsTerminal returns true for INVOICED and CANCELLED
func (o *ServiceOrder) IsTerminal() bool {
	return o.Status == ServiceOrderStatusInvoiced || o.Status == ServiceOrderStatusCancelled
}
