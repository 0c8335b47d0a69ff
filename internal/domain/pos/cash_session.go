package pos

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/siscom/backend/internal/domain/shared"
)

// CashSessionStatus represents the lifecycle of a till session
type CashSessionStatus string

const (
	CashSessionStatusOpen   CashSessionStatus = "OPEN"
	CashSessionStatusClosed CashSessionStatus = "CLOSED"
)

// String returns the string representation of CashSessionStatus
func (s CashSessionStatus) String() string {
	return string(s)
}

// IsValid returns true if the status is valid
func (s CashSessionStatus) IsValid() bool {
	return s == CashSessionStatusOpen || s == CashSessionStatusClosed
}

// CashSession is the aggregate root for a PDV till session. It owns the
// cash movements recorded between opening and closing, and computes the
// expected drawer balance from them. A session is opened with a counted
// opening balance and closed against a counted closing balance; the
// difference between counted and expected is recorded as the discrepancy.
type CashSession struct {
	shared.BaseAggregateRoot
	OperatorID     uuid.UUID         `gorm:"type:uuid;not null;index"`
	Terminal       string            `gorm:"type:varchar(50)"`
	Status         CashSessionStatus `gorm:"type:varchar(20);not null;default:'OPEN'"`
	OpeningBalance decimal.Decimal   `gorm:"type:decimal(18,4);not null"`
	CountedAmount  decimal.Decimal   `gorm:"type:decimal(18,4);not null;default:0"`
	ExpectedAmount decimal.Decimal   `gorm:"type:decimal(18,4);not null;default:0"`
	Discrepancy    decimal.Decimal   `gorm:"type:decimal(18,4);not null;default:0"`
	OpenedAt       time.Time         `gorm:"not null"`
	ClosedAt       *time.Time
	Movements      []CashMovement `gorm:"-"`
}

// TableName returns the table name for GORM
func (CashSession) TableName() string {
	return "cash_sessions"
}

// NewCashSession opens a till session for an operator
func NewCashSession(operatorID uuid.UUID, terminal string, openingBalance decimal.Decimal) (*CashSession, error) {
	if operatorID == uuid.Nil {
		return nil, shared.NewDomainError("MISSING_OPERATOR", "Operador é obrigatório para abrir o caixa")
	}
	if openingBalance.IsNegative() {
		return nil, shared.NewDomainError("INVALID_OPENING_BALANCE", "Saldo de abertura não pode ser negativo")
	}

	session := &CashSession{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		OperatorID:        operatorID,
		Terminal:          strings.TrimSpace(terminal),
		Status:            CashSessionStatusOpen,
		OpeningBalance:    openingBalance,
		OpenedAt:          time.Now(),
		Movements:         make([]CashMovement, 0),
	}

	session.AddDomainEvent(NewCashSessionOpenedEvent(session))
	return session, nil
}

// IsOpen returns true while the session accepts movements
func (s *CashSession) IsOpen() bool {
	return s.Status == CashSessionStatusOpen
}

// RunningBalance returns the cash currently expected in the drawer,
// opening balance plus all signed movements so far.
func (s *CashSession) RunningBalance() decimal.Decimal {
	balance := s.OpeningBalance
	for i := range s.Movements {
		balance = balance.Add(s.Movements[i].SignedAmount())
	}
	return balance
}

// RegisterSale records the payment of a finalized PDV sale in the session.
// The amount paid must cover the sale total; the returned change is the
// difference. Only the sale total enters the drawer, change is handed back
// to the customer immediately.
func (s *CashSession) RegisterSale(total, amountPaid decimal.Decimal, method PaymentMethod, documentRef string) (decimal.Decimal, error) {
	if !s.IsOpen() {
		return decimal.Zero, shared.NewDomainError("SESSION_CLOSED", "Caixa fechado não aceita movimentações")
	}
	if !method.IsValid() {
		return decimal.Zero, shared.NewDomainError("INVALID_PAYMENT_METHOD", "Forma de pagamento inválida")
	}
	if total.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, shared.NewDomainError("INVALID_AMOUNT", "Valor da venda deve ser positivo")
	}
	if amountPaid.LessThan(total) {
		return decimal.Zero, shared.NewDomainError("INSUFFICIENT_PAYMENT", "Valor pago insuficiente para o total da venda")
	}

	movement, err := newCashMovement(s.ID, CashMovementTypeSale, total)
	if err != nil {
		return decimal.Zero, err
	}
	movement.PaymentMethod = method
	movement.DocumentRef = strings.TrimSpace(documentRef)

	s.Movements = append(s.Movements, *movement)
	s.UpdatedAt = time.Now()
	s.IncrementVersion()

	return amountPaid.Sub(total), nil
}

// Withdraw records a sangria, removing cash from the drawer. The amount
// cannot exceed the current running balance.
func (s *CashSession) Withdraw(amount decimal.Decimal, reason string) error {
	if !s.IsOpen() {
		return shared.NewDomainError("SESSION_CLOSED", "Caixa fechado não aceita movimentações")
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_AMOUNT", "Valor da sangria deve ser positivo")
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return shared.NewDomainError("MISSING_REASON", "Motivo da sangria é obrigatório")
	}
	if amount.GreaterThan(s.RunningBalance()) {
		return shared.ErrInsufficientBalance
	}

	movement, err := newCashMovement(s.ID, CashMovementTypeWithdrawal, amount)
	if err != nil {
		return err
	}
	movement.Reason = reason

	s.Movements = append(s.Movements, *movement)
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
	return nil
}

// Deposit records a suprimento, adding cash to the drawer
func (s *CashSession) Deposit(amount decimal.Decimal, reason string) error {
	if !s.IsOpen() {
		return shared.NewDomainError("SESSION_CLOSED", "Caixa fechado não aceita movimentações")
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_AMOUNT", "Valor do suprimento deve ser positivo")
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return shared.NewDomainError("MISSING_REASON", "Motivo do suprimento é obrigatório")
	}

	movement, err := newCashMovement(s.ID, CashMovementTypeDeposit, amount)
	if err != nil {
		return err
	}
	movement.Reason = reason

	s.Movements = append(s.Movements, *movement)
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
	return nil
}

// Close closes the session against a counted amount. The expected amount
// is the opening balance plus cash sales and deposits minus withdrawals;
// the discrepancy is counted minus expected. After closing no further
// movements are accepted.
func (s *CashSession) Close(countedAmount decimal.Decimal) error {
	if s.Status == CashSessionStatusClosed {
		return shared.NewDomainError("ALREADY_CLOSED", "Caixa já está fechado")
	}
	if countedAmount.IsNegative() {
		return shared.NewDomainError("INVALID_AMOUNT", "Valor contado não pode ser negativo")
	}

	now := time.Now()
	s.ExpectedAmount = s.RunningBalance()
	s.CountedAmount = countedAmount
	s.Discrepancy = countedAmount.Sub(s.ExpectedAmount)
	s.Status = CashSessionStatusClosed
	s.ClosedAt = &now
	s.UpdatedAt = now
	s.IncrementVersion()

	s.AddDomainEvent(NewCashSessionClosedEvent(s))
	return nil
}

// HasDiscrepancy returns true when counted and expected diverge
func (s *CashSession) HasDiscrepancy() bool {
	return s.Status == CashSessionStatusClosed && !s.Discrepancy.IsZero()
}
