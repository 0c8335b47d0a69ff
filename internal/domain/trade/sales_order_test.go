package trade

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/siscom/backend/internal/domain/shared"
	"github.com/siscom/backend/internal/domain/shared/valueobject"
)

func createTestSale(t *testing.T) *SalesOrder {
	t.Helper()
	customerID := uuid.New()
	order, err := NewSalesOrder("VD-2026-00001", &customerID, "Maria da Silva")
	require.NoError(t, err)
	return order
}

func TestNewSalesOrder(t *testing.T) {
	t.Run("creates open sale", func(t *testing.T) {
		order := createTestSale(t)

		assert.Equal(t, SaleStatusOpen, order.Status)
		assert.True(t, order.PayableAmount.IsZero())
	})

	t.Run("allows counter sale without customer", func(t *testing.T) {
		order, err := NewSalesOrder("VD-2026-00002", nil, "")

		require.NoError(t, err)
		assert.Nil(t, order.CustomerID)
	})

	t.Run("fails without order number", func(t *testing.T) {
		_, err := NewSalesOrder("", nil, "")

		require.Error(t, err)
	})
}

func TestSalesOrder_Totals(t *testing.T) {
	t.Run("single line total", func(t *testing.T) {
		order := createTestSale(t)

		// 100 units at 50.00 = 5000.00
		_, err := order.AddItem(uuid.New(), "Cimento 50kg", "PRD-010", decimal.NewFromInt(100), valueobject.NewMoneyBRLFromFloat(50.0))

		require.NoError(t, err)
		assert.Equal(t, "5000", order.TotalAmount.String())
		assert.Equal(t, "5000", order.PayableAmount.String())
	})

	t.Run("order discount reduces payable", func(t *testing.T) {
		order := createTestSale(t)

		// 2 units at 100.00 with 20.00 discount = 180.00
		_, err := order.AddItem(uuid.New(), "Furadeira", "PRD-020", decimal.NewFromInt(2), valueobject.NewMoneyBRLFromFloat(100.0))
		require.NoError(t, err)
		require.NoError(t, order.ApplyDiscount(valueobject.NewMoneyBRLFromFloat(20.0)))

		assert.Equal(t, "200", order.TotalAmount.String())
		assert.Equal(t, "180", order.PayableAmount.String())
	})

	t.Run("item discount and extra charges", func(t *testing.T) {
		order := createTestSale(t)

		item, err := order.AddItem(uuid.New(), "Tinta 18L", "PRD-030", decimal.NewFromInt(3), valueobject.NewMoneyBRLFromFloat(100.0))
		require.NoError(t, err)
		require.NoError(t, order.ApplyItemDiscount(item.ID, valueobject.NewMoneyBRLFromFloat(30.0)))
		require.NoError(t, order.SetExtraCharges(valueobject.NewMoneyBRLFromFloat(15.0)))

		// 3*100 - 30 = 270; 270 + 15 = 285
		assert.Equal(t, "270", order.TotalAmount.String())
		assert.Equal(t, "285", order.PayableAmount.String())
	})

	t.Run("discount cannot exceed total", func(t *testing.T) {
		order := createTestSale(t)
		_, err := order.AddItem(uuid.New(), "Produto", "PRD-001", decimal.NewFromInt(1), valueobject.NewMoneyBRLFromFloat(10.0))
		require.NoError(t, err)

		err = order.ApplyDiscount(valueobject.NewMoneyBRLFromFloat(11.0))

		require.Error(t, err)
	})

	t.Run("rejects duplicate product line", func(t *testing.T) {
		order := createTestSale(t)
		productID := uuid.New()
		_, err := order.AddItem(productID, "Produto", "PRD-001", decimal.NewFromInt(1), valueobject.NewMoneyBRLFromFloat(10.0))
		require.NoError(t, err)

		_, err = order.AddItem(productID, "Produto", "PRD-001", decimal.NewFromInt(2), valueobject.NewMoneyBRLFromFloat(10.0))

		require.Error(t, err)
	})
}

func TestSalesOrder_Finalize(t *testing.T) {
	t.Run("finalizes with items", func(t *testing.T) {
		order := createTestSale(t)
		_, err := order.AddItem(uuid.New(), "Produto", "PRD-001", decimal.NewFromInt(1), valueobject.NewMoneyBRLFromFloat(10.0))
		require.NoError(t, err)

		require.NoError(t, order.Finalize())

		assert.Equal(t, SaleStatusFinalized, order.Status)
		assert.NotNil(t, order.FinalizedAt)
	})

	t.Run("rejects empty order", func(t *testing.T) {
		order := createTestSale(t)

		err := order.Finalize()

		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "EMPTY_ORDER", domainErr.Code)
	})

	t.Run("cannot finalize twice", func(t *testing.T) {
		order := createTestSale(t)
		_, err := order.AddItem(uuid.New(), "Produto", "PRD-001", decimal.NewFromInt(1), valueobject.NewMoneyBRLFromFloat(10.0))
		require.NoError(t, err)
		require.NoError(t, order.Finalize())

		err = order.Finalize()

		require.Error(t, err)
	})

	t.Run("finalized order rejects edits", func(t *testing.T) {
		order := createTestSale(t)
		item, err := order.AddItem(uuid.New(), "Produto", "PRD-001", decimal.NewFromInt(1), valueobject.NewMoneyBRLFromFloat(10.0))
		require.NoError(t, err)
		require.NoError(t, order.Finalize())

		_, err = order.AddItem(uuid.New(), "Outro", "PRD-002", decimal.NewFromInt(1), valueobject.NewMoneyBRLFromFloat(5.0))
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "ORDER_LOCKED", domainErr.Code)

		require.Error(t, order.UpdateItemQuantity(item.ID, decimal.NewFromInt(5)))
		require.Error(t, order.RemoveItem(item.ID))
		require.Error(t, order.ApplyDiscount(valueobject.NewMoneyBRLFromFloat(1)))

		// No mutation happened
		assert.Equal(t, "10", order.PayableAmount.String())
		assert.Equal(t, 1, order.ItemCount())
	})
}

func TestSalesOrder_Cancel(t *testing.T) {
	t.Run("cancels open sale", func(t *testing.T) {
		order := createTestSale(t)

		require.NoError(t, order.Cancel("cliente desistiu"))

		assert.Equal(t, SaleStatusCancelled, order.Status)
		assert.Equal(t, "cliente desistiu", order.CancelReason)
	})

	t.Run("cancelling a finalized sale flags stock reversal", func(t *testing.T) {
		order := createTestSale(t)
		_, err := order.AddItem(uuid.New(), "Produto", "PRD-001", decimal.NewFromInt(2), valueobject.NewMoneyBRLFromFloat(10.0))
		require.NoError(t, err)
		require.NoError(t, order.Finalize())
		order.ClearDomainEvents()

		require.NoError(t, order.Cancel("devolução"))

		events := order.GetDomainEvents()
		require.Len(t, events, 1)
		cancelled, ok := events[0].(*SalesOrderCancelledEvent)
		require.True(t, ok)
		assert.True(t, cancelled.WasFinalized)
	})

	t.Run("cannot cancel twice", func(t *testing.T) {
		order := createTestSale(t)
		require.NoError(t, order.Cancel(""))

		require.Error(t, order.Cancel(""))
	})
}

func TestSaleStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from    SaleStatus
		to      SaleStatus
		allowed bool
	}{
		{SaleStatusOpen, SaleStatusFinalized, true},
		{SaleStatusOpen, SaleStatusCancelled, true},
		{SaleStatusFinalized, SaleStatusCancelled, true},
		{SaleStatusFinalized, SaleStatusOpen, false},
		{SaleStatusCancelled, SaleStatusOpen, false},
		{SaleStatusCancelled, SaleStatusFinalized, false},
	}

	for _, tt := range tests {
		t.Run(tt.from.String()+"_to_"+tt.to.String(), func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to))
		})
	}
}
