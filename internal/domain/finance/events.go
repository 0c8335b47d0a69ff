package finance

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/siscom/backend/internal/domain/shared"
)

const (
	EventTypeFinancialEntryCreated   = "finance.entry_created"
	EventTypeFinancialEntrySettled   = "finance.entry_settled"
	EventTypeFinancialEntryCancelled = "finance.entry_cancelled"
)

const aggregateTypeFinancialEntry = "FinancialEntry"

// FinancialEntryCreatedEvent is emitted when a title is created
type FinancialEntryCreatedEvent struct {
	shared.BaseDomainEvent
	EntryNumber    string          `json:"entry_number"`
	Kind           string          `json:"kind"`
	CounterpartyID string          `json:"counterparty_id"`
	OriginalAmount decimal.Decimal `json:"original_amount"`
	DueDate        time.Time       `json:"due_date"`
}

// NewFinancialEntryCreatedEvent creates a new entry created event
func NewFinancialEntryCreatedEvent(entry *FinancialEntry) *FinancialEntryCreatedEvent {
	return &FinancialEntryCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeFinancialEntryCreated, aggregateTypeFinancialEntry, entry.ID),
		EntryNumber:     entry.EntryNumber,
		Kind:            entry.Kind.String(),
		CounterpartyID:  entry.CounterpartyID.String(),
		OriginalAmount:  entry.OriginalAmount,
		DueDate:         entry.DueDate,
	}
}

// FinancialEntrySettledEvent is emitted on each settlement, partial or full
type FinancialEntrySettledEvent struct {
	shared.BaseDomainEvent
	EntryNumber   string          `json:"entry_number"`
	PaidAmount    decimal.Decimal `json:"paid_amount"`
	Remaining     decimal.Decimal `json:"remaining"`
	Status        string          `json:"status"`
	SettlementDay time.Time       `json:"settlement_day"`
}

// NewFinancialEntrySettledEvent creates a new entry settled event
func NewFinancialEntrySettledEvent(entry *FinancialEntry, paidAmount decimal.Decimal, date time.Time) *FinancialEntrySettledEvent {
	return &FinancialEntrySettledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeFinancialEntrySettled, aggregateTypeFinancialEntry, entry.ID),
		EntryNumber:     entry.EntryNumber,
		PaidAmount:      paidAmount,
		Remaining:       entry.Remaining(),
		Status:          entry.Status.String(),
		SettlementDay:   date,
	}
}

// FinancialEntryCancelledEvent is emitted when a pending title is voided
type FinancialEntryCancelledEvent struct {
	shared.BaseDomainEvent
	EntryNumber string `json:"entry_number"`
	Kind        string `json:"kind"`
}

// NewFinancialEntryCancelledEvent creates a new entry cancelled event
func NewFinancialEntryCancelledEvent(entry *FinancialEntry) *FinancialEntryCancelledEvent {
	return &FinancialEntryCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeFinancialEntryCancelled, aggregateTypeFinancialEntry, entry.ID),
		EntryNumber:     entry.EntryNumber,
		Kind:            entry.Kind.String(),
	}
}
