package pos

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/siscom/backend/internal/domain/pos"
)

// OpenSessionRequest represents a request to open a cash session
type OpenSessionRequest struct {
	OperatorID     uuid.UUID       `json:"operator_id" binding:"required"`
	Terminal       string          `json:"terminal" binding:"required"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
}

// SaleItemRequest is one line of a PDV quick sale
type SaleItemRequest struct {
	ProductID uuid.UUID        `json:"product_id" binding:"required"`
	Quantity  decimal.Decimal  `json:"quantity" binding:"required"`
	UnitPrice *decimal.Decimal `json:"unit_price"` // Defaults to the catalog price
}

// RegisterSaleRequest represents a PDV sale rung up against a session
type RegisterSaleRequest struct {
	CustomerID    *uuid.UUID        `json:"customer_id"`
	Items         []SaleItemRequest `json:"items" binding:"required"`
	AmountPaid    decimal.Decimal   `json:"amount_paid" binding:"required"`
	PaymentMethod string            `json:"payment_method" binding:"required"`
}

// CashAmountRequest carries an amount and reason for sangria/suprimento
type CashAmountRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`
	Reason string          `json:"reason" binding:"required"`
}

// CloseSessionRequest represents a request to close a session
type CloseSessionRequest struct {
	CountedAmount decimal.Decimal `json:"counted_amount"`
}

// MovementResponse represents a cash movement in API responses
type MovementResponse struct {
	ID            uuid.UUID       `json:"id"`
	Type          string          `json:"type"`
	Amount        decimal.Decimal `json:"amount"`
	PaymentMethod string          `json:"payment_method,omitempty"`
	Reason        string          `json:"reason,omitempty"`
	DocumentRef   string          `json:"document_ref,omitempty"`
	MovementDate  time.Time       `json:"movement_date"`
}

// SessionResponse represents a cash session in API responses
type SessionResponse struct {
	ID             uuid.UUID          `json:"id"`
	OperatorID     uuid.UUID          `json:"operator_id"`
	Terminal       string             `json:"terminal"`
	Status         string             `json:"status"`
	OpeningBalance decimal.Decimal    `json:"opening_balance"`
	RunningBalance decimal.Decimal    `json:"running_balance"`
	ExpectedAmount decimal.Decimal    `json:"expected_amount"`
	CountedAmount  decimal.Decimal    `json:"counted_amount"`
	Discrepancy    decimal.Decimal    `json:"discrepancy"`
	OpenedAt       time.Time          `json:"opened_at"`
	ClosedAt       *time.Time         `json:"closed_at,omitempty"`
	Movements      []MovementResponse `json:"movements,omitempty"`
}

// ToSessionResponse converts a cash session to its response representation
func ToSessionResponse(session *pos.CashSession) SessionResponse {
	movements := make([]MovementResponse, 0, len(session.Movements))
	for i := range session.Movements {
		m := &session.Movements[i]
		movements = append(movements, MovementResponse{
			ID:            m.ID,
			Type:          m.Type.String(),
			Amount:        m.Amount,
			PaymentMethod: string(m.PaymentMethod),
			Reason:        m.Reason,
			DocumentRef:   m.DocumentRef,
			MovementDate:  m.MovementDate,
		})
	}
	return SessionResponse{
		ID:             session.ID,
		OperatorID:     session.OperatorID,
		Terminal:       session.Terminal,
		Status:         session.Status.String(),
		OpeningBalance: session.OpeningBalance,
		RunningBalance: session.RunningBalance(),
		ExpectedAmount: session.ExpectedAmount,
		CountedAmount:  session.CountedAmount,
		Discrepancy:    session.Discrepancy,
		OpenedAt:       session.OpenedAt,
		ClosedAt:       session.ClosedAt,
		Movements:      movements,
	}
}

// SaleReceiptResponse is the outcome of a PDV sale registration
type SaleReceiptResponse struct {
	SaleID        uuid.UUID       `json:"sale_id"`
	OrderNumber   string          `json:"order_number"`
	Total         decimal.Decimal `json:"total"`
	AmountPaid    decimal.Decimal `json:"amount_paid"`
	Change        decimal.Decimal `json:"change"`
	PaymentMethod string          `json:"payment_method"`
	SessionID     uuid.UUID       `json:"session_id"`
}

// SessionListFilter represents filter options for session listings
type SessionListFilter struct {
	OperatorID *uuid.UUID `form:"operator_id"`
	Page       int        `form:"page" binding:"omitempty,min=1"`
	PageSize   int        `form:"page_size" binding:"omitempty,min=1,max=100"`
}
