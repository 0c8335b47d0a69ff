package finance

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/siscom/backend/internal/domain/shared"
)

func createTestEntry(t *testing.T, kind EntryKind, amount float64) *FinancialEntry {
	t.Helper()
	dueDate := time.Now().AddDate(0, 1, 0)
	entry, err := NewFinancialEntry("TL-2026-00001", kind, uuid.New(), "Compra de mercadorias", decimal.NewFromFloat(amount), dueDate)
	require.NoError(t, err)
	return entry
}

func TestNewFinancialEntry(t *testing.T) {
	t.Run("creates pending entry", func(t *testing.T) {
		counterpartyID := uuid.New()
		dueDate := time.Now().AddDate(0, 1, 0)
		entry, err := NewFinancialEntry("TL-2026-00001", EntryKindPayable, counterpartyID, "Compra de mercadorias", decimal.NewFromFloat(1000), dueDate)

		require.NoError(t, err)
		assert.Equal(t, EntryStatusPending, entry.Status)
		assert.Equal(t, counterpartyID, entry.CounterpartyID)
		assert.True(t, entry.OriginalAmount.Equal(decimal.NewFromInt(1000)))
		assert.True(t, entry.SettledAmount.IsZero())
		assert.True(t, entry.Remaining().Equal(decimal.NewFromInt(1000)))

		events := entry.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeFinancialEntryCreated, events[0].EventType())
	})

	t.Run("rejects missing counterparty", func(t *testing.T) {
		_, err := NewFinancialEntry("TL-2026-00001", EntryKindPayable, uuid.Nil, "Compra", decimal.NewFromFloat(1000), time.Now())

		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "MISSING_COUNTERPARTY", domainErr.Code)
	})

	t.Run("rejects non-positive amount", func(t *testing.T) {
		_, err := NewFinancialEntry("TL-2026-00001", EntryKindPayable, uuid.New(), "Compra", decimal.Zero, time.Now())
		require.Error(t, err)

		_, err = NewFinancialEntry("TL-2026-00001", EntryKindPayable, uuid.New(), "Compra", decimal.NewFromFloat(-10), time.Now())
		require.Error(t, err)
	})

	t.Run("rejects invalid kind and empty description", func(t *testing.T) {
		_, err := NewFinancialEntry("TL-2026-00001", EntryKind("OUTRO"), uuid.New(), "Compra", decimal.NewFromFloat(10), time.Now())
		require.Error(t, err)

		_, err = NewFinancialEntry("TL-2026-00001", EntryKindPayable, uuid.New(), "  ", decimal.NewFromFloat(10), time.Now())
		require.Error(t, err)
	})
}

func TestFinancialEntry_Settle(t *testing.T) {
	t.Run("partial settlement leaves remaining", func(t *testing.T) {
		entry := createTestEntry(t, EntryKindPayable, 1000)

		err := entry.Settle(decimal.NewFromFloat(600), time.Now())

		require.NoError(t, err)
		assert.Equal(t, EntryStatusPartial, entry.Status)
		assert.True(t, entry.Remaining().Equal(decimal.NewFromInt(400)), "remaining = %s", entry.Remaining())
		assert.Nil(t, entry.SettledAt)
	})

	t.Run("settling the remaining amount pays the entry", func(t *testing.T) {
		entry := createTestEntry(t, EntryKindPayable, 1000)
		require.NoError(t, entry.Settle(decimal.NewFromFloat(600), time.Now()))

		err := entry.Settle(decimal.NewFromFloat(400), time.Now())

		require.NoError(t, err)
		assert.Equal(t, EntryStatusPaid, entry.Status)
		assert.True(t, entry.Remaining().IsZero())
		require.NotNil(t, entry.SettledAt)
	})

	t.Run("receivable settles as RECEIVED", func(t *testing.T) {
		entry := createTestEntry(t, EntryKindReceivable, 500)

		err := entry.Settle(decimal.NewFromFloat(500), time.Now())

		require.NoError(t, err)
		assert.Equal(t, EntryStatusReceived, entry.Status)
	})

	t.Run("overpayment settles at the original amount", func(t *testing.T) {
		entry := createTestEntry(t, EntryKindPayable, 300)

		err := entry.Settle(decimal.NewFromFloat(350), time.Now())

		require.NoError(t, err)
		assert.Equal(t, EntryStatusPaid, entry.Status)
		assert.True(t, entry.SettledAmount.Equal(decimal.NewFromInt(300)))
	})

	t.Run("rejects settlement on settled entry", func(t *testing.T) {
		entry := createTestEntry(t, EntryKindPayable, 100)
		require.NoError(t, entry.Settle(decimal.NewFromFloat(100), time.Now()))

		err := entry.Settle(decimal.NewFromFloat(10), time.Now())

		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "ALREADY_SETTLED", domainErr.Code)
	})

	t.Run("rejects settlement on cancelled entry", func(t *testing.T) {
		entry := createTestEntry(t, EntryKindPayable, 100)
		require.NoError(t, entry.Cancel())

		err := entry.Settle(decimal.NewFromFloat(10), time.Now())

		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "ALREADY_CANCELLED", domainErr.Code)
	})

	t.Run("rejects non-positive settlement amount", func(t *testing.T) {
		entry := createTestEntry(t, EntryKindPayable, 100)

		require.Error(t, entry.Settle(decimal.Zero, time.Now()))
		assert.Equal(t, EntryStatusPending, entry.Status)
	})

	t.Run("emits settled event with remaining", func(t *testing.T) {
		entry := createTestEntry(t, EntryKindPayable, 1000)
		entry.ClearDomainEvents()

		require.NoError(t, entry.Settle(decimal.NewFromFloat(600), time.Now()))

		events := entry.GetDomainEvents()
		require.Len(t, events, 1)
		settled, ok := events[0].(*FinancialEntrySettledEvent)
		require.True(t, ok)
		assert.True(t, settled.Remaining.Equal(decimal.NewFromInt(400)))
		assert.Equal(t, EntryStatusPartial.String(), settled.Status)
	})
}

func TestFinancialEntry_Cancel(t *testing.T) {
	t.Run("cancels pending entry", func(t *testing.T) {
		entry := createTestEntry(t, EntryKindPayable, 100)

		err := entry.Cancel()

		require.NoError(t, err)
		assert.Equal(t, EntryStatusCancelled, entry.Status)
		require.NotNil(t, entry.CancelledAt)
	})

	t.Run("rejects cancel after partial settlement", func(t *testing.T) {
		entry := createTestEntry(t, EntryKindPayable, 1000)
		require.NoError(t, entry.Settle(decimal.NewFromFloat(600), time.Now()))

		err := entry.Cancel()

		require.Error(t, err)
		assert.Equal(t, EntryStatusPartial, entry.Status)
	})

	t.Run("rejects cancel after full settlement", func(t *testing.T) {
		entry := createTestEntry(t, EntryKindPayable, 100)
		require.NoError(t, entry.Settle(decimal.NewFromFloat(100), time.Now()))

		require.Error(t, entry.Cancel())
	})

	t.Run("rejects double cancel", func(t *testing.T) {
		entry := createTestEntry(t, EntryKindPayable, 100)
		require.NoError(t, entry.Cancel())

		require.Error(t, entry.Cancel())
	})
}

func TestFinancialEntry_Interest(t *testing.T) {
	newOverdueEntry := func(t *testing.T, amount float64, daysOverdue int) *FinancialEntry {
		t.Helper()
		dueDate := time.Now().AddDate(0, 0, -daysOverdue)
		entry, err := NewFinancialEntry("TL-2026-00002", EntryKindReceivable, uuid.New(), "Venda a prazo", decimal.NewFromFloat(amount), dueDate)
		require.NoError(t, err)
		return entry
	}

	t.Run("accrues simple daily interest on overdue entries", func(t *testing.T) {
		entry := newOverdueEntry(t, 1000, 10)

		amount := entry.AmountWithInterest(time.Now(), decimal.NewFromFloat(0.1))

		// 1000 + 1000 * 0.1% * 10 days = 1010
		assert.True(t, amount.Equal(decimal.NewFromInt(1010)), "amount = %s", amount)
		assert.True(t, entry.OriginalAmount.Equal(decimal.NewFromInt(1000)), "principal must not change")
	})

	t.Run("no interest before the due date", func(t *testing.T) {
		entry := createTestEntry(t, EntryKindReceivable, 1000)

		amount := entry.AmountWithInterest(time.Now(), decimal.NewFromFloat(0.1))

		assert.True(t, amount.Equal(decimal.NewFromInt(1000)))
		assert.False(t, entry.IsOverdue(time.Now()))
	})

	t.Run("interest applies to the remaining amount after partial settlement", func(t *testing.T) {
		entry := newOverdueEntry(t, 1000, 10)
		require.NoError(t, entry.Settle(decimal.NewFromFloat(600), time.Now()))

		amount := entry.AmountWithInterest(time.Now(), decimal.NewFromFloat(0.1))

		// 400 + 400 * 0.1% * 10 days = 404
		assert.True(t, amount.Equal(decimal.NewFromInt(404)), "amount = %s", amount)
	})

	t.Run("settled entries are never overdue", func(t *testing.T) {
		entry := newOverdueEntry(t, 100, 30)
		require.NoError(t, entry.Settle(decimal.NewFromFloat(100), time.Now()))

		assert.False(t, entry.IsOverdue(time.Now()))
		assert.Zero(t, entry.OverdueDays(time.Now()))
	})

	t.Run("zero rate yields the plain remaining", func(t *testing.T) {
		entry := newOverdueEntry(t, 1000, 10)

		amount := entry.AmountWithInterest(time.Now(), decimal.Zero)

		assert.True(t, amount.Equal(decimal.NewFromInt(1000)))
	})
}
