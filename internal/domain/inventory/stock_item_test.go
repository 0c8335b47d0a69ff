package inventory

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/siscom/backend/internal/domain/shared"
	"github.com/siscom/backend/internal/domain/shared/valueobject"
)

func createTestStockItem(t *testing.T) *StockItem {
	t.Helper()
	item, err := NewStockItem(uuid.New())
	require.NoError(t, err)
	return item
}

func TestNewStockItem(t *testing.T) {
	t.Run("creates stock item successfully", func(t *testing.T) {
		productID := uuid.New()
		item, err := NewStockItem(productID)

		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, item.ID)
		assert.Equal(t, productID, item.ProductID)
		assert.True(t, item.AvailableQuantity.IsZero())
		assert.True(t, item.ReservedQuantity.IsZero())
		assert.True(t, item.UnitCost.IsZero())
	})

	t.Run("fails with nil product ID", func(t *testing.T) {
		item, err := NewStockItem(uuid.Nil)

		require.Error(t, err)
		assert.Nil(t, item)
	})
}

func TestStockItem_Enter(t *testing.T) {
	t.Run("enters stock and calculates weighted average cost", func(t *testing.T) {
		item := createTestStockItem(t)

		// First entry: 100 units at 10.00
		err := item.Enter(decimal.NewFromInt(100), valueobject.NewMoneyBRLFromFloat(10.00))

		require.NoError(t, err)
		assert.Equal(t, decimal.NewFromInt(100), item.AvailableQuantity)
		assert.Equal(t, "10", item.UnitCost.String())

		// Second entry: 100 units at 20.00
		// New cost = (100*10 + 100*20) / 200 = 15
		err = item.Enter(decimal.NewFromInt(100), valueobject.NewMoneyBRLFromFloat(20.00))

		require.NoError(t, err)
		assert.Equal(t, decimal.NewFromInt(200), item.AvailableQuantity)
		assert.Equal(t, "15", item.UnitCost.String())
	})

	t.Run("rounds weighted average cost to four decimal places", func(t *testing.T) {
		item := createTestStockItem(t)

		require.NoError(t, item.Enter(decimal.NewFromInt(3), valueobject.NewMoneyBRLFromFloat(10.00)))
		require.NoError(t, item.Enter(decimal.NewFromInt(1), valueobject.NewMoneyBRLFromFloat(11.00)))

		// (3*10 + 1*11) / 4 = 10.25
		assert.Equal(t, "10.25", item.UnitCost.String())
	})

	t.Run("emits stock entered event", func(t *testing.T) {
		item := createTestStockItem(t)
		item.ClearDomainEvents()

		require.NoError(t, item.Enter(decimal.NewFromInt(5), valueobject.NewMoneyBRLFromFloat(2.50)))

		events := item.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeStockEntered, events[0].EventType())
	})

	t.Run("fails with zero quantity", func(t *testing.T) {
		item := createTestStockItem(t)

		err := item.Enter(decimal.Zero, valueobject.NewMoneyBRLFromFloat(10.00))

		require.Error(t, err)
	})

	t.Run("fails with negative quantity", func(t *testing.T) {
		item := createTestStockItem(t)

		err := item.Enter(decimal.NewFromInt(-5), valueobject.NewMoneyBRLFromFloat(10.00))

		require.Error(t, err)
	})
}

func TestStockItem_Exit(t *testing.T) {
	t.Run("exits stock successfully", func(t *testing.T) {
		item := createTestStockItem(t)
		require.NoError(t, item.Enter(decimal.NewFromInt(100), valueobject.NewMoneyBRLFromFloat(10.00)))

		err := item.Exit(decimal.NewFromInt(30))

		require.NoError(t, err)
		assert.Equal(t, decimal.NewFromInt(70), item.AvailableQuantity)
	})

	t.Run("rejects exit beyond available balance and leaves balance unchanged", func(t *testing.T) {
		item := createTestStockItem(t)
		require.NoError(t, item.Enter(decimal.NewFromInt(10), valueobject.NewMoneyBRLFromFloat(10.00)))

		err := item.Exit(decimal.NewFromInt(11))

		require.Error(t, err)
		assert.ErrorIs(t, err, shared.ErrInsufficientStock)
		assert.Contains(t, err.Error(), "insuficiente")
		assert.Equal(t, decimal.NewFromInt(10), item.AvailableQuantity)
	})

	t.Run("allows exit down to exactly zero", func(t *testing.T) {
		item := createTestStockItem(t)
		require.NoError(t, item.Enter(decimal.NewFromInt(10), valueobject.NewMoneyBRLFromFloat(10.00)))

		err := item.Exit(decimal.NewFromInt(10))

		require.NoError(t, err)
		assert.True(t, item.AvailableQuantity.IsZero())
	})

	t.Run("emits below minimum event when crossing threshold", func(t *testing.T) {
		item := createTestStockItem(t)
		require.NoError(t, item.Enter(decimal.NewFromInt(100), valueobject.NewMoneyBRLFromFloat(10.00)))
		require.NoError(t, item.SetMinQuantity(decimal.NewFromInt(50)))
		item.ClearDomainEvents()

		require.NoError(t, item.Exit(decimal.NewFromInt(60)))

		events := item.GetDomainEvents()
		require.Len(t, events, 2)
		assert.Equal(t, EventTypeStockExited, events[0].EventType())
		assert.Equal(t, EventTypeStockBelowMinimum, events[1].EventType())
	})
}

func TestStockItem_Adjust(t *testing.T) {
	t.Run("applies positive adjustment", func(t *testing.T) {
		item := createTestStockItem(t)

		err := item.Adjust(decimal.NewFromInt(10), "contagem física")

		require.NoError(t, err)
		assert.Equal(t, decimal.NewFromInt(10), item.AvailableQuantity)
	})

	t.Run("applies negative adjustment", func(t *testing.T) {
		item := createTestStockItem(t)
		require.NoError(t, item.Enter(decimal.NewFromInt(10), valueobject.NewMoneyBRLFromFloat(5.00)))

		err := item.Adjust(decimal.NewFromInt(-4), "avaria")

		require.NoError(t, err)
		assert.Equal(t, decimal.NewFromInt(6), item.AvailableQuantity)
	})

	t.Run("requires justification", func(t *testing.T) {
		item := createTestStockItem(t)

		err := item.Adjust(decimal.NewFromInt(10), "")

		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "MISSING_JUSTIFICATION", domainErr.Code)
	})

	t.Run("rejects adjustment that would make balance negative", func(t *testing.T) {
		item := createTestStockItem(t)
		require.NoError(t, item.Enter(decimal.NewFromInt(5), valueobject.NewMoneyBRLFromFloat(5.00)))

		err := item.Adjust(decimal.NewFromInt(-6), "contagem física")

		require.Error(t, err)
		assert.ErrorIs(t, err, shared.ErrInsufficientStock)
		assert.Equal(t, decimal.NewFromInt(5), item.AvailableQuantity)
	})
}

func TestStockItem_ReserveAndRelease(t *testing.T) {
	t.Run("reserves and releases stock", func(t *testing.T) {
		item := createTestStockItem(t)
		require.NoError(t, item.Enter(decimal.NewFromInt(100), valueobject.NewMoneyBRLFromFloat(10.00)))

		require.NoError(t, item.Reserve(decimal.NewFromInt(40)))
		assert.Equal(t, decimal.NewFromInt(60), item.AvailableQuantity)
		assert.Equal(t, decimal.NewFromInt(40), item.ReservedQuantity)
		assert.Equal(t, decimal.NewFromInt(100), item.TotalQuantity())

		require.NoError(t, item.Release(decimal.NewFromInt(40)))
		assert.Equal(t, decimal.NewFromInt(100), item.AvailableQuantity)
		assert.True(t, item.ReservedQuantity.IsZero())
	})

	t.Run("fails to reserve more than available", func(t *testing.T) {
		item := createTestStockItem(t)
		require.NoError(t, item.Enter(decimal.NewFromInt(10), valueobject.NewMoneyBRLFromFloat(10.00)))

		err := item.Reserve(decimal.NewFromInt(11))

		assert.ErrorIs(t, err, shared.ErrInsufficientStock)
	})

	t.Run("fails to release more than reserved", func(t *testing.T) {
		item := createTestStockItem(t)
		require.NoError(t, item.Enter(decimal.NewFromInt(10), valueobject.NewMoneyBRLFromFloat(10.00)))
		require.NoError(t, item.Reserve(decimal.NewFromInt(5)))

		err := item.Release(decimal.NewFromInt(6))

		require.Error(t, err)
	})
}

func TestStockItem_Thresholds(t *testing.T) {
	item := createTestStockItem(t)
	require.NoError(t, item.Enter(decimal.NewFromInt(50), valueobject.NewMoneyBRLFromFloat(10.00)))

	require.NoError(t, item.SetMinQuantity(decimal.NewFromInt(60)))
	assert.True(t, item.IsBelowMinimum())

	require.NoError(t, item.SetMinQuantity(decimal.NewFromInt(40)))
	assert.False(t, item.IsBelowMinimum())

	require.NoError(t, item.SetMaxQuantity(decimal.NewFromInt(45)))
	assert.True(t, item.IsAboveMaximum())

	err := item.SetMinQuantity(decimal.NewFromInt(-1))
	require.Error(t, err)
}

func TestStockItem_CheckConsistency(t *testing.T) {
	t.Run("accepts matching replayed balance", func(t *testing.T) {
		item := createTestStockItem(t)
		require.NoError(t, item.Enter(decimal.NewFromInt(100), valueobject.NewMoneyBRLFromFloat(10.00)))
		require.NoError(t, item.Reserve(decimal.NewFromInt(30)))

		err := item.CheckConsistency(decimal.NewFromInt(100))

		require.NoError(t, err)
	})

	t.Run("flags mismatch as internal inconsistency", func(t *testing.T) {
		item := createTestStockItem(t)
		require.NoError(t, item.Enter(decimal.NewFromInt(100), valueobject.NewMoneyBRLFromFloat(10.00)))

		err := item.CheckConsistency(decimal.NewFromInt(99))

		assert.ErrorIs(t, err, shared.ErrInternalInconsistency)
	})
}

func TestStockItem_GetTotalValue(t *testing.T) {
	item := createTestStockItem(t)
	require.NoError(t, item.Enter(decimal.NewFromInt(10), valueobject.NewMoneyBRLFromFloat(2.50)))

	value := item.GetTotalValue()

	assert.Equal(t, "25", value.Amount().String())
	assert.Equal(t, valueobject.BRL, value.Currency())
}
