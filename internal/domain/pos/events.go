package pos

import (
	"github.com/shopspring/decimal"

	"github.com/siscom/backend/internal/domain/shared"
)

const (
	EventTypeCashSessionOpened = "pos.cash_session_opened"
	EventTypeCashSessionClosed = "pos.cash_session_closed"
)

const aggregateTypeCashSession = "CashSession"

// CashSessionOpenedEvent is emitted when a till session is opened
type CashSessionOpenedEvent struct {
	shared.BaseDomainEvent
	OperatorID     string          `json:"operator_id"`
	Terminal       string          `json:"terminal"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
}

// NewCashSessionOpenedEvent creates a new cash session opened event
func NewCashSessionOpenedEvent(session *CashSession) *CashSessionOpenedEvent {
	return &CashSessionOpenedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCashSessionOpened, aggregateTypeCashSession, session.ID),
		OperatorID:      session.OperatorID.String(),
		Terminal:        session.Terminal,
		OpeningBalance:  session.OpeningBalance,
	}
}

// CashSessionClosedEvent is emitted when a till session is closed.
// A non-zero discrepancy is the signal for cash audit follow-up.
type CashSessionClosedEvent struct {
	shared.BaseDomainEvent
	OperatorID     string          `json:"operator_id"`
	ExpectedAmount decimal.Decimal `json:"expected_amount"`
	CountedAmount  decimal.Decimal `json:"counted_amount"`
	Discrepancy    decimal.Decimal `json:"discrepancy"`
}

// NewCashSessionClosedEvent creates a new cash session closed event
func NewCashSessionClosedEvent(session *CashSession) *CashSessionClosedEvent {
	return &CashSessionClosedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCashSessionClosed, aggregateTypeCashSession, session.ID),
		OperatorID:      session.OperatorID.String(),
		ExpectedAmount:  session.ExpectedAmount,
		CountedAmount:   session.CountedAmount,
		Discrepancy:     session.Discrepancy,
	}
}
