package trade

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/siscom/backend/internal/domain/shared"
	"github.com/siscom/backend/internal/domain/shared/valueobject"
)

// QuotationStatus represents the status of a quotation (orçamento)
type QuotationStatus string

const (
	QuotationStatusOpen      QuotationStatus = "OPEN"
	QuotationStatusApproved  QuotationStatus = "APPROVED"
	QuotationStatusConverted QuotationStatus = "CONVERTED"
	QuotationStatusRejected  QuotationStatus = "REJECTED"
)

// IsValid checks if the status is a valid QuotationStatus
func (s QuotationStatus) IsValid() bool {
	switch s {
	case QuotationStatusOpen, QuotationStatusApproved, QuotationStatusConverted, QuotationStatusRejected:
		return true
	}
	return false
}

// String returns the string representation of QuotationStatus
func (s QuotationStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s QuotationStatus) CanTransitionTo(target QuotationStatus) bool {
	switch s {
	case QuotationStatusOpen:
		return target == QuotationStatusApproved || target == QuotationStatusRejected
	case QuotationStatusApproved:
		return target == QuotationStatusConverted || target == QuotationStatusRejected
	case QuotationStatusConverted, QuotationStatusRejected:
		return false
	}
	return false
}

// QuotationItem represents a line item in a quotation
type QuotationItem struct {
	ID          uuid.UUID
	QuotationID uuid.UUID
	ProductID   uuid.UUID
	ProductName string
	ProductCode string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	Discount    decimal.Decimal
	Amount      decimal.Decimal
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewQuotationItem creates a new quotation item
func NewQuotationItem(quotationID, productID uuid.UUID, productName, productCode string, quantity decimal.Decimal, unitPrice valueobject.Money) (*QuotationItem, error) {
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
	return &QuotationItem{
		ID:          uuid.New(),
		QuotationID: quotationID,
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

// Quotation represents a price proposal (orçamento). It never touches stock;
// conversion produces a sale that goes through the normal sale path.
type Quotation struct {
	shared.BaseAggregateRoot
	QuotationNumber string    `gorm:"type:varchar(50);not null;uniqueIndex"`
	CustomerID      uuid.UUID `gorm:"type:uuid;not null;index"`
	CustomerName    string
	Items           []QuotationItem `gorm:"-"`
	TotalAmount     decimal.Decimal
	DiscountAmount  decimal.Decimal
	ExtraCharges    decimal.Decimal
	PayableAmount   decimal.Decimal
	Status          QuotationStatus
	ValidUntil      *time.Time
	Remark          string
	ApprovedAt      *time.Time
	ConvertedAt     *time.Time
	RejectedAt      *time.Time
	ConvertedSaleID *uuid.UUID `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (Quotation) TableName() string {
	return "quotations"
}

// NewQuotation creates a new open quotation
func NewQuotation(quotationNumber string, customerID uuid.UUID, customerName string) (*Quotation, error) {
	if quotationNumber == "" {
		return nil, shared.NewDomainError("INVALID_ORDER_NUMBER", "Número do documento é obrigatório")
	}
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("UNKNOWN_PARTY", "Cliente é obrigatório")
	}

	quotation := &Quotation{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		QuotationNumber:   quotationNumber,
		CustomerID:        customerID,
		CustomerName:      customerName,
		Items:             make([]QuotationItem, 0),
		TotalAmount:       decimal.Zero,
		DiscountAmount:    decimal.Zero,
		ExtraCharges:      decimal.Zero,
		PayableAmount:     decimal.Zero,
		Status:            QuotationStatusOpen,
	}

	return quotation, nil
}

// AddItem adds a new line. Only allowed while open.
func (q *Quotation) AddItem(productID uuid.UUID, productName, productCode string, quantity decimal.Decimal, unitPrice valueobject.Money) (*QuotationItem, error) {
	if q.Status != QuotationStatusOpen {
		return nil, shared.NewDomainError("ORDER_LOCKED", "Orçamento não pode ser alterado no status atual")
	}

	for _, item := range q.Items {
		if item.ProductID == productID {
			return nil, shared.NewDomainError("DUPLICATE_PRODUCT", "Produto já existe no orçamento, altere a quantidade")
		}
	}

	item, err := NewQuotationItem(q.ID, productID, productName, productCode, quantity, unitPrice)
	if err != nil {
		return nil, err
	}

	q.Items = append(q.Items, *item)
	q.recalculateTotals()
	q.UpdatedAt = time.Now()

	return item, nil
}

// RemoveItem removes a line while the quotation is open
func (q *Quotation) RemoveItem(itemID uuid.UUID) error {
	if q.Status != QuotationStatusOpen {
		return shared.NewDomainError("ORDER_LOCKED", "Orçamento não pode ser alterado no status atual")
	}

	for idx, item := range q.Items {
		if item.ID == itemID {
			q.Items = append(q.Items[:idx], q.Items[idx+1:]...)
			q.recalculateTotals()
			q.UpdatedAt = time.Now()
			return nil
		}
	}

	return shared.NewDomainError("ITEM_NOT_FOUND", "Item do orçamento não encontrado")
}

// ApplyDiscount applies an order-level discount while open
func (q *Quotation) ApplyDiscount(discount valueobject.Money) error {
	if q.Status != QuotationStatusOpen {
		return shared.NewDomainError("ORDER_LOCKED", "Orçamento não pode ser alterado no status atual")
	}
	if discount.Amount().IsNegative() {
		return shared.NewDomainError("INVALID_DISCOUNT", "Desconto não pode ser negativo")
	}
	if discount.Amount().GreaterThan(q.TotalAmount.Add(q.ExtraCharges)) {
		return shared.NewDomainError("INVALID_DISCOUNT", "Desconto não pode exceder o valor total")
	}

	q.DiscountAmount = discount.Amount()
	q.recalculateTotals()
	q.UpdatedAt = time.Now()

	return nil
}

// SetValidUntil sets the expiry of the proposal
func (q *Quotation) SetValidUntil(date time.Time) error {
	if q.Status != QuotationStatusOpen {
		return shared.NewDomainError("ORDER_LOCKED", "Orçamento não pode ser alterado no status atual")
	}

	q.ValidUntil = &date
	q.UpdatedAt = time.Now()
	return nil
}

// SetRemark sets a free-form remark
func (q *Quotation) SetRemark(remark string) {
	q.Remark = remark
	q.UpdatedAt = time.Now()
}

// Approve marks the quotation as accepted by the customer
func (q *Quotation) Approve() error {
	if !q.Status.CanTransitionTo(QuotationStatusApproved) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Orçamento não pode ser aprovado no status %s", q.Status))
	}
	if len(q.Items) == 0 {
		return shared.NewDomainError("EMPTY_ORDER", "Orçamento sem itens não pode ser aprovado")
	}

	now := time.Now()
	q.Status = QuotationStatusApproved
	q.ApprovedAt = &now
	q.UpdatedAt = now
	q.IncrementVersion()

	return nil
}

// Convert marks the quotation as turned into a sale
func (q *Quotation) Convert(saleID uuid.UUID) error {
	if !q.Status.CanTransitionTo(QuotationStatusConverted) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Orçamento não pode ser convertido no status %s", q.Status))
	}
	if saleID == uuid.Nil {
		return shared.NewDomainError("INVALID_SALE", "Venda de destino é obrigatória")
	}

	now := time.Now()
	q.Status = QuotationStatusConverted
	q.ConvertedAt = &now
	q.ConvertedSaleID = &saleID
	q.UpdatedAt = now
	q.IncrementVersion()

	return nil
}

// Reject declines the quotation from OPEN or APPROVED
func (q *Quotation) Reject() error {
	if !q.Status.CanTransitionTo(QuotationStatusRejected) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Orçamento não pode ser rejeitado no status %s", q.Status))
	}

	now := time.Now()
	q.Status = QuotationStatusRejected
	q.RejectedAt = &now
	q.UpdatedAt = now
	q.IncrementVersion()

	return nil
}

// recalculateTotals recomputes totals from line items, clamping at zero
func (q *Quotation) recalculateTotals() {
	total := decimal.Zero
	for _, item := range q.Items {
		total = total.Add(item.Amount)
	}
	q.TotalAmount = total

	payable := total.Sub(q.DiscountAmount).Add(q.ExtraCharges)
	if payable.IsNegative() {
		payable = decimal.Zero
	}
	q.PayableAmount = payable
}

// GetPayableAmountMoney returns the payable amount as Money value object
func (q *Quotation) GetPayableAmountMoney() valueobject.Money {
	return valueobject.NewMoneyBRL(q.PayableAmount)
}

// IsTerminal returns true for CONVERTED and REJECTED
func (q *Quotation) IsTerminal() bool {
	return q.Status == QuotationStatusConverted || q.Status == QuotationStatusRejected
}
