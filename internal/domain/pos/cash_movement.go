package pos

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/siscom/backend/internal/domain/shared"
)

// CashMovementType represents the type of cash movement in a till session
type CashMovementType string

const (
	// CashMovementTypeSale is cash received from a PDV sale
	CashMovementTypeSale CashMovementType = "SALE"
	// CashMovementTypeWithdrawal is a sangria, cash taken out of the till
	CashMovementTypeWithdrawal CashMovementType = "WITHDRAWAL"
	// CashMovementTypeDeposit is a suprimento, cash added to the till
	CashMovementTypeDeposit CashMovementType = "DEPOSIT"
)

// String returns the string representation of CashMovementType
func (t CashMovementType) String() string {
	return string(t)
}

// IsValid returns true if the movement type is valid
func (t CashMovementType) IsValid() bool {
	switch t {
	case CashMovementTypeSale, CashMovementTypeWithdrawal, CashMovementTypeDeposit:
		return true
	}
	return false
}

// PaymentMethod identifies how a PDV sale was paid
type PaymentMethod string

const (
	PaymentMethodCash   PaymentMethod = "DINHEIRO"
	PaymentMethodCard   PaymentMethod = "CARTAO"
	PaymentMethodPix    PaymentMethod = "PIX"
	PaymentMethodCredit PaymentMethod = "CREDIARIO"
)

// IsValid returns true if the payment method is known
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodCard, PaymentMethodPix, PaymentMethodCredit:
		return true
	}
	return false
}

// AffectsDrawer returns true when the payment physically enters the till
func (m PaymentMethod) AffectsDrawer() bool {
	return m == PaymentMethodCash
}

// CashMovement is an immutable record of cash flowing through a session.
// Movements are only created while the session is open and are never
// updated or deleted afterwards.
type CashMovement struct {
	shared.BaseEntity
	SessionID     uuid.UUID        `gorm:"type:uuid;not null;index"`
	Type          CashMovementType `gorm:"type:varchar(20);not null"`
	Amount        decimal.Decimal  `gorm:"type:decimal(18,4);not null"` // Always positive
	PaymentMethod PaymentMethod    `gorm:"type:varchar(20)"`            // Set for sales only
	Reason        string           `gorm:"type:varchar(255)"`           // Required for sangria/suprimento
	DocumentRef   string           `gorm:"type:varchar(100)"`           // Sale document number
	MovementDate  time.Time        `gorm:"not null"`
}

// TableName returns the table name for GORM
func (CashMovement) TableName() string {
	return "cash_movements"
}

func newCashMovement(sessionID uuid.UUID, movType CashMovementType, amount decimal.Decimal) (*CashMovement, error) {
	if sessionID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SESSION", "Sessão de caixa é obrigatória")
	}
	if !movType.IsValid() {
		return nil, shared.NewDomainError("INVALID_MOVEMENT_TYPE", "Tipo de movimentação inválido")
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Valor deve ser positivo")
	}

	return &CashMovement{
		BaseEntity:   shared.NewBaseEntity(),
		SessionID:    sessionID,
		Type:         movType,
		Amount:       amount,
		MovementDate: time.Now(),
	}, nil
}

// SignedAmount returns the amount with sign relative to the drawer.
// Card and PIX sales do not enter the drawer and contribute zero.
func (m *CashMovement) SignedAmount() decimal.Decimal {
	switch m.Type {
	case CashMovementTypeSale:
		if m.PaymentMethod.AffectsDrawer() {
			return m.Amount
		}
		return decimal.Zero
	case CashMovementTypeDeposit:
		return m.Amount
	case CashMovementTypeWithdrawal:
		return m.Amount.Neg()
	}
	return decimal.Zero
}
