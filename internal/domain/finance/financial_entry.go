package finance

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/siscom/backend/internal/domain/shared"
)

// EntryKind distinguishes payables from receivables
type EntryKind string

const (
	EntryKindPayable    EntryKind = "PAYABLE"
	EntryKindReceivable EntryKind = "RECEIVABLE"
)

// String returns the string representation of EntryKind
func (k EntryKind) String() string {
	return string(k)
}

// IsValid returns true if the kind is valid
func (k EntryKind) IsValid() bool {
	return k == EntryKindPayable || k == EntryKindReceivable
}

// EntryStatus represents the settlement state of a financial entry
type EntryStatus string

const (
	EntryStatusPending   EntryStatus = "PENDING"
	EntryStatusPartial   EntryStatus = "PARTIAL"
	EntryStatusPaid      EntryStatus = "PAID"
	EntryStatusReceived  EntryStatus = "RECEIVED"
	EntryStatusCancelled EntryStatus = "CANCELLED"
)

// String returns the string representation of EntryStatus
func (s EntryStatus) String() string {
	return string(s)
}

// IsValid returns true if the status is valid
func (s EntryStatus) IsValid() bool {
	switch s {
	case EntryStatusPending, EntryStatusPartial, EntryStatusPaid, EntryStatusReceived, EntryStatusCancelled:
		return true
	}
	return false
}

// IsSettled returns true when the entry has been fully paid or received
func (s EntryStatus) IsSettled() bool {
	return s == EntryStatusPaid || s == EntryStatusReceived
}

// IsTerminal returns true when no further settlement is possible
func (s EntryStatus) IsTerminal() bool {
	return s.IsSettled() || s == EntryStatusCancelled
}

// FinancialEntry is the aggregate root for a payable or receivable title.
// Entries are created from orders (purchase receipt, service invoicing,
// crediário sales) or directly, and settled in one or more payments.
// Once any settlement has been applied the entry can no longer be
// cancelled; reversal is a new opposite entry.
type FinancialEntry struct {
	shared.BaseAggregateRoot
	EntryNumber    string          `gorm:"type:varchar(50);uniqueIndex;not null"`
	Kind           EntryKind       `gorm:"type:varchar(20);not null;index"`
	CounterpartyID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Description    string          `gorm:"type:varchar(255);not null"`
	DocumentRef    string          `gorm:"type:varchar(100);index"` // Originating order number
	OriginalAmount decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	SettledAmount  decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	DueDate        time.Time       `gorm:"not null;index"`
	Status         EntryStatus     `gorm:"type:varchar(20);not null;default:'PENDING';index"`
	SettledAt      *time.Time
	CancelledAt    *time.Time
}

// TableName returns the table name for GORM
func (FinancialEntry) TableName() string {
	return "financial_entries"
}

// NewFinancialEntry creates a pending payable or receivable
func NewFinancialEntry(entryNumber string, kind EntryKind, counterpartyID uuid.UUID, description string, amount decimal.Decimal, dueDate time.Time) (*FinancialEntry, error) {
	entryNumber = strings.TrimSpace(entryNumber)
	if entryNumber == "" {
		return nil, shared.NewDomainError("MISSING_ENTRY_NUMBER", "Número do título é obrigatório")
	}
	if !kind.IsValid() {
		return nil, shared.NewDomainError("INVALID_KIND", "Tipo de título inválido")
	}
	if counterpartyID == uuid.Nil {
		return nil, shared.NewDomainError("MISSING_COUNTERPARTY", "Contraparte é obrigatória")
	}
	description = strings.TrimSpace(description)
	if description == "" {
		return nil, shared.NewDomainError("MISSING_DESCRIPTION", "Descrição do título é obrigatória")
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Valor do título deve ser positivo")
	}
	if dueDate.IsZero() {
		return nil, shared.NewDomainError("MISSING_DUE_DATE", "Data de vencimento é obrigatória")
	}

	entry := &FinancialEntry{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		EntryNumber:       entryNumber,
		Kind:              kind,
		CounterpartyID:    counterpartyID,
		Description:       description,
		OriginalAmount:    amount,
		SettledAmount:     decimal.Zero,
		DueDate:           dueDate,
		Status:            EntryStatusPending,
	}

	entry.AddDomainEvent(NewFinancialEntryCreatedEvent(entry))
	return entry, nil
}

// SetDocumentRef links the entry to its originating order
func (e *FinancialEntry) SetDocumentRef(ref string) {
	e.DocumentRef = strings.TrimSpace(ref)
	e.UpdatedAt = time.Now()
	e.IncrementVersion()
}

// Remaining returns the amount still owed
func (e *FinancialEntry) Remaining() decimal.Decimal {
	return e.OriginalAmount.Sub(e.SettledAmount)
}

// settledStatus returns the terminal settled status for the entry kind
func (e *FinancialEntry) settledStatus() EntryStatus {
	if e.Kind == EntryKindReceivable {
		return EntryStatusReceived
	}
	return EntryStatusPaid
}

// Settle applies a payment to the entry. Paying less than the remaining
// amount moves the entry to PARTIAL; paying the remaining amount or more
// settles it. Overpayment settles at the original amount, the excess is
// the caller's change to handle.
func (e *FinancialEntry) Settle(amount decimal.Decimal, date time.Time) error {
	if e.Status == EntryStatusCancelled {
		return shared.NewDomainError("ALREADY_CANCELLED", "Título cancelado não pode ser baixado")
	}
	if e.Status.IsSettled() {
		return shared.NewDomainError("ALREADY_SETTLED", "Título já está totalmente baixado")
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_AMOUNT", "Valor da baixa deve ser positivo")
	}
	if date.IsZero() {
		date = time.Now()
	}

	remaining := e.Remaining()
	if amount.GreaterThanOrEqual(remaining) {
		e.SettledAmount = e.OriginalAmount
		e.Status = e.settledStatus()
		e.SettledAt = &date
	} else {
		e.SettledAmount = e.SettledAmount.Add(amount)
		e.Status = EntryStatusPartial
	}

	e.UpdatedAt = time.Now()
	e.IncrementVersion()
	e.AddDomainEvent(NewFinancialEntrySettledEvent(e, amount, date))
	return nil
}

// Cancel voids a pending entry. Entries with any settlement applied
// cannot be cancelled.
func (e *FinancialEntry) Cancel() error {
	if e.Status == EntryStatusCancelled {
		return shared.NewDomainError("ALREADY_CANCELLED", "Título já está cancelado")
	}
	if e.SettledAmount.GreaterThan(decimal.Zero) {
		return shared.NewDomainError("ALREADY_SETTLED", "Título com baixa aplicada não pode ser cancelado")
	}

	now := time.Now()
	e.Status = EntryStatusCancelled
	e.CancelledAt = &now
	e.UpdatedAt = now
	e.IncrementVersion()

	e.AddDomainEvent(NewFinancialEntryCancelledEvent(e))
	return nil
}

// IsOverdue returns true when the due date has passed without full settlement
func (e *FinancialEntry) IsOverdue(asOf time.Time) bool {
	if e.Status.IsTerminal() {
		return false
	}
	return asOf.After(e.DueDate)
}

// OverdueDays returns the number of whole days past the due date
func (e *FinancialEntry) OverdueDays(asOf time.Time) int64 {
	if !e.IsOverdue(asOf) {
		return 0
	}
	return int64(asOf.Sub(e.DueDate).Hours() / 24)
}

// AmountWithInterest returns the remaining amount plus simple daily
// interest accrued since the due date. The stored principal is never
// mutated, interest only materializes at settlement time.
func (e *FinancialEntry) AmountWithInterest(asOf time.Time, dailyRatePercent decimal.Decimal) decimal.Decimal {
	remaining := e.Remaining()
	days := e.OverdueDays(asOf)
	if days == 0 || dailyRatePercent.LessThanOrEqual(decimal.Zero) {
		return remaining
	}

	interest := remaining.
		Mul(dailyRatePercent).
		Div(decimal.NewFromInt(100)).
		Mul(decimal.NewFromInt(days))
	return remaining.Add(interest).Round(2)
}
