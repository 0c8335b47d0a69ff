package trade

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/siscom/backend/internal/domain/shared/valueobject"
)

func createTestServiceOrder(t *testing.T) *ServiceOrder {
	t.Helper()
	order, err := NewServiceOrder("OS-2026-00001", uuid.New(), "João Pereira", "Notebook não liga")
	require.NoError(t, err)
	return order
}

func TestNewServiceOrder(t *testing.T) {
	t.Run("creates open OS", func(t *testing.T) {
		order := createTestServiceOrder(t)

		assert.Equal(t, ServiceOrderStatusOpen, order.Status)
	})

	t.Run("fails without customer", func(t *testing.T) {
		_, err := NewServiceOrder("OS-2026-00002", uuid.Nil, "", "Conserto")

		require.Error(t, err)
	})

	t.Run("fails without description", func(t *testing.T) {
		_, err := NewServiceOrder("OS-2026-00002", uuid.New(), "João", "")

		require.Error(t, err)
	})
}

func TestServiceOrder_Lifecycle(t *testing.T) {
	t.Run("full flow open to invoiced", func(t *testing.T) {
		order := createTestServiceOrder(t)

		require.NoError(t, order.Start())
		assert.Equal(t, ServiceOrderStatusInProgress, order.Status)

		_, err := order.AddPartItem(uuid.New(), "Fonte 19V", decimal.NewFromInt(1), valueobject.NewMoneyBRLFromFloat(180.0))
		require.NoError(t, err)
		_, err = order.AddLaborItem("Mão de obra de diagnóstico", decimal.NewFromInt(2), valueobject.NewMoneyBRLFromFloat(60.0))
		require.NoError(t, err)

		// 180 + 120 = 300
		assert.Equal(t, "300", order.PayableAmount.String())

		require.NoError(t, order.Complete())
		assert.Equal(t, ServiceOrderStatusCompleted, order.Status)

		require.NoError(t, order.Invoice())
		assert.Equal(t, ServiceOrderStatusInvoiced, order.Status)
		assert.True(t, order.IsTerminal())
	})

	t.Run("cannot complete without items", func(t *testing.T) {
		order := createTestServiceOrder(t)
		require.NoError(t, order.Start())

		require.Error(t, order.Complete())
	})

	t.Run("cannot invoice before completion", func(t *testing.T) {
		order := createTestServiceOrder(t)
		require.NoError(t, order.Start())

		require.Error(t, order.Invoice())
	})

	t.Run("cancel allowed from any non-terminal status", func(t *testing.T) {
		open := createTestServiceOrder(t)
		require.NoError(t, open.Cancel("cliente retirou o aparelho"))

		inProgress := createTestServiceOrder(t)
		require.NoError(t, inProgress.Start())
		require.NoError(t, inProgress.Cancel(""))

		completed := createTestServiceOrder(t)
		require.NoError(t, completed.Start())
		_, err := completed.AddLaborItem("Serviço", decimal.NewFromInt(1), valueobject.NewMoneyBRLFromFloat(50.0))
		require.NoError(t, err)
		require.NoError(t, completed.Complete())
		require.NoError(t, completed.Cancel(""))
	})

	t.Run("cannot cancel after invoicing", func(t *testing.T) {
		order := createTestServiceOrder(t)
		require.NoError(t, order.Start())
		_, err := order.AddLaborItem("Serviço", decimal.NewFromInt(1), valueobject.NewMoneyBRLFromFloat(50.0))
		require.NoError(t, err)
		require.NoError(t, order.Complete())
		require.NoError(t, order.Invoice())

		require.Error(t, order.Cancel(""))
	})

	t.Run("completed OS rejects line edits but keeps diagnosis editable", func(t *testing.T) {
		order := createTestServiceOrder(t)
		require.NoError(t, order.Start())
		_, err := order.AddLaborItem("Serviço", decimal.NewFromInt(1), valueobject.NewMoneyBRLFromFloat(50.0))
		require.NoError(t, err)
		require.NoError(t, order.Complete())

		_, err = order.AddLaborItem("Extra", decimal.NewFromInt(1), valueobject.NewMoneyBRLFromFloat(10.0))
		require.Error(t, err)
		require.NoError(t, order.SetDiagnosis("fonte queimada"))

		require.NoError(t, order.Invoice())
		require.Error(t, order.SetDiagnosis("não atualiza mais"))
	})
}

func TestServiceOrder_PartItems(t *testing.T) {
	order := createTestServiceOrder(t)
	require.NoError(t, order.Start())

	_, err := order.AddPartItem(uuid.New(), "Fonte 19V", decimal.NewFromInt(1), valueobject.NewMoneyBRLFromFloat(180.0))
	require.NoError(t, err)
	_, err = order.AddLaborItem("Mão de obra", decimal.NewFromInt(1), valueobject.NewMoneyBRLFromFloat(60.0))
	require.NoError(t, err)

	parts := order.PartItems()
	require.Len(t, parts, 1)
	assert.NotNil(t, parts[0].ProductID)
	assert.False(t, parts[0].IsLabor)
}
