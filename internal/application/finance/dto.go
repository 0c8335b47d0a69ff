package finance

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/siscom/backend/internal/domain/finance"
)

// CreateEntryRequest represents a request to create a payable or receivable
type CreateEntryRequest struct {
	Kind           string          `json:"kind" binding:"required,oneof=PAYABLE RECEIVABLE"`
	CounterpartyID uuid.UUID       `json:"counterparty_id" binding:"required"`
	Description    string          `json:"description" binding:"required"`
	Amount         decimal.Decimal `json:"amount" binding:"required"`
	DueDate        time.Time       `json:"due_date" binding:"required"`
	DocumentRef    string          `json:"document_ref"`
}

// SettleEntryRequest represents a settlement applied to an entry
type SettleEntryRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`
	Date   *time.Time      `json:"date"`
}

// EntryResponse represents a financial entry in API responses
type EntryResponse struct {
	ID             uuid.UUID       `json:"id"`
	EntryNumber    string          `json:"entry_number"`
	Kind           string          `json:"kind"`
	CounterpartyID uuid.UUID       `json:"counterparty_id"`
	Description    string          `json:"description"`
	DocumentRef    string          `json:"document_ref,omitempty"`
	OriginalAmount decimal.Decimal `json:"original_amount"`
	SettledAmount  decimal.Decimal `json:"settled_amount"`
	Remaining      decimal.Decimal `json:"remaining"`
	AmountDue      decimal.Decimal `json:"amount_due"` // Remaining plus overdue interest
	DueDate        time.Time       `json:"due_date"`
	Status         string          `json:"status"`
	Overdue        bool            `json:"overdue"`
	OverdueDays    int64           `json:"overdue_days,omitempty"`
	SettledAt      *time.Time      `json:"settled_at,omitempty"`
	CancelledAt    *time.Time      `json:"cancelled_at,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// ToEntryResponse converts a financial entry to its response representation.
// Overdue interest is computed as of now at the given daily rate.
func ToEntryResponse(entry *finance.FinancialEntry, dailyRatePercent decimal.Decimal) EntryResponse {
	now := time.Now()
	return EntryResponse{
		ID:             entry.ID,
		EntryNumber:    entry.EntryNumber,
		Kind:           entry.Kind.String(),
		CounterpartyID: entry.CounterpartyID,
		Description:    entry.Description,
		DocumentRef:    entry.DocumentRef,
		OriginalAmount: entry.OriginalAmount,
		SettledAmount:  entry.SettledAmount,
		Remaining:      entry.Remaining(),
		AmountDue:      entry.AmountWithInterest(now, dailyRatePercent),
		DueDate:        entry.DueDate,
		Status:         entry.Status.String(),
		Overdue:        entry.IsOverdue(now),
		OverdueDays:    entry.OverdueDays(now),
		SettledAt:      entry.SettledAt,
		CancelledAt:    entry.CancelledAt,
		CreatedAt:      entry.CreatedAt,
		UpdatedAt:      entry.UpdatedAt,
	}
}

// EntryListFilter represents filter options for entry listings
type EntryListFilter struct {
	Kind           string     `form:"kind" binding:"omitempty,oneof=PAYABLE RECEIVABLE"`
	Status         string     `form:"status"`
	CounterpartyID *uuid.UUID `form:"counterparty_id"`
	OverdueOnly    bool       `form:"overdue_only"`
	DueFrom        *time.Time `form:"due_from" time_format:"2006-01-02"`
	DueTo          *time.Time `form:"due_to" time_format:"2006-01-02"`
	Page           int        `form:"page" binding:"omitempty,min=1"`
	PageSize       int        `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// CashFlowDayResponse is one day of the cash-flow projection
type CashFlowDayResponse struct {
	Day        time.Time       `json:"day"`
	Payable    decimal.Decimal `json:"payable"`
	Receivable decimal.Decimal `json:"receivable"`
	Net        decimal.Decimal `json:"net"`
}

// CashFlowResponse is the cash-flow projection for a period
type CashFlowResponse struct {
	From            time.Time             `json:"from"`
	To              time.Time             `json:"to"`
	Days            []CashFlowDayResponse `json:"days"`
	TotalPayable    decimal.Decimal       `json:"total_payable"`
	TotalReceivable decimal.Decimal       `json:"total_receivable"`
	Net             decimal.Decimal       `json:"net"`
}

// OpenBalanceResponse sums the open amounts per kind
type OpenBalanceResponse struct {
	OpenPayable    decimal.Decimal `json:"open_payable"`
	OpenReceivable decimal.Decimal `json:"open_receivable"`
}
