package finance

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/siscom/backend/internal/domain/shared"
)

// CashFlowBucket aggregates entries by due date for cash-flow reporting
type CashFlowBucket struct {
	Day        time.Time
	Payable    decimal.Decimal
	Receivable decimal.Decimal
}

// FinancialEntryRepository defines the persistence interface for financial entries
type FinancialEntryRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*FinancialEntry, error)
	FindByNumber(ctx context.Context, entryNumber string) (*FinancialEntry, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]*FinancialEntry, int64, error)
	FindByCounterparty(ctx context.Context, counterpartyID uuid.UUID, filter shared.Filter) ([]*FinancialEntry, int64, error)
	FindByKind(ctx context.Context, kind EntryKind, filter shared.Filter) ([]*FinancialEntry, int64, error)
	FindByStatus(ctx context.Context, status EntryStatus, filter shared.Filter) ([]*FinancialEntry, int64, error)
	FindOverdue(ctx context.Context, asOf time.Time, filter shared.Filter) ([]*FinancialEntry, int64, error)
	FindByDueDateRange(ctx context.Context, from, to time.Time, filter shared.Filter) ([]*FinancialEntry, int64, error)
	SumOpenByKind(ctx context.Context, kind EntryKind) (decimal.Decimal, error)
	CashFlowByPeriod(ctx context.Context, from, to time.Time) ([]CashFlowBucket, error)
	Save(ctx context.Context, entry *FinancialEntry) error
	Count(ctx context.Context) (int64, error)
}
