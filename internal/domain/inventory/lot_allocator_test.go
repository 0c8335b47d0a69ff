package inventory

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/siscom/backend/internal/domain/shared"
)

func createTestLot(t *testing.T, qty int64, cost float64, expiry *time.Time) StockLot {
	t.Helper()
	lot, err := NewStockLot(
		uuid.New(),
		uuid.New(),
		"LOT-"+uuid.NewString()[:8],
		nil,
		expiry,
		decimal.NewFromInt(qty),
		decimal.NewFromFloat(cost),
	)
	require.NoError(t, err)
	return *lot
}

func datePtr(t time.Time) *time.Time {
	return &t
}

func TestBuildConsumptionPlan(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("allocates from earliest expiry first", func(t *testing.T) {
		late := createTestLot(t, 100, 10.00, datePtr(now.AddDate(0, 6, 0)))
		early := createTestLot(t, 100, 12.00, datePtr(now.AddDate(0, 1, 0)))

		plan, err := BuildConsumptionPlan(decimal.NewFromInt(150), []StockLot{late, early}, AllocationPolicy{}, now)

		require.NoError(t, err)
		require.Len(t, plan.Allocations, 2)
		assert.Equal(t, early.ID, plan.Allocations[0].LotID)
		assert.Equal(t, "100", plan.Allocations[0].Quantity.String())
		assert.Equal(t, late.ID, plan.Allocations[1].LotID)
		assert.Equal(t, "50", plan.Allocations[1].Quantity.String())
		assert.Equal(t, "150", plan.TotalAllocated.String())
	})

	t.Run("breaks expiry ties by manufacture date", func(t *testing.T) {
		expiry := datePtr(now.AddDate(0, 3, 0))
		newer := createTestLot(t, 50, 10.00, expiry)
		newer.ManufactureDate = datePtr(now.AddDate(0, -1, 0))
		older := createTestLot(t, 50, 10.00, expiry)
		older.ManufactureDate = datePtr(now.AddDate(0, -2, 0))

		plan, err := BuildConsumptionPlan(decimal.NewFromInt(10), []StockLot{newer, older}, AllocationPolicy{}, now)

		require.NoError(t, err)
		require.Len(t, plan.Allocations, 1)
		assert.Equal(t, older.ID, plan.Allocations[0].LotID)
	})

	t.Run("sorts lots without expiry after dated lots", func(t *testing.T) {
		undated := createTestLot(t, 100, 10.00, nil)
		dated := createTestLot(t, 100, 10.00, datePtr(now.AddDate(1, 0, 0)))

		plan, err := BuildConsumptionPlan(decimal.NewFromInt(120), []StockLot{undated, dated}, AllocationPolicy{}, now)

		require.NoError(t, err)
		require.Len(t, plan.Allocations, 2)
		assert.Equal(t, dated.ID, plan.Allocations[0].LotID)
		assert.Equal(t, undated.ID, plan.Allocations[1].LotID)
	})

	t.Run("skips expired lots and records the exclusion", func(t *testing.T) {
		expired := createTestLot(t, 100, 8.00, datePtr(now.AddDate(0, 0, -1)))
		valid := createTestLot(t, 100, 10.00, datePtr(now.AddDate(0, 2, 0)))

		plan, err := BuildConsumptionPlan(decimal.NewFromInt(50), []StockLot{expired, valid}, AllocationPolicy{}, now)

		require.NoError(t, err)
		require.Len(t, plan.Allocations, 1)
		assert.Equal(t, valid.ID, plan.Allocations[0].LotID)
		assert.Equal(t, []uuid.UUID{expired.ID}, plan.ExpiredExcluded)
	})

	t.Run("uses expired lots when the policy allows", func(t *testing.T) {
		expired := createTestLot(t, 100, 8.00, datePtr(now.AddDate(0, 0, -1)))
		valid := createTestLot(t, 100, 10.00, datePtr(now.AddDate(0, 2, 0)))

		plan, err := BuildConsumptionPlan(decimal.NewFromInt(50), []StockLot{expired, valid}, AllocationPolicy{AllowExpired: true}, now)

		require.NoError(t, err)
		require.Len(t, plan.Allocations, 1)
		assert.Equal(t, expired.ID, plan.Allocations[0].LotID)
		assert.Empty(t, plan.ExpiredExcluded)
	})

	t.Run("fails atomically when eligible lots cannot cover the request", func(t *testing.T) {
		a := createTestLot(t, 30, 10.00, datePtr(now.AddDate(0, 1, 0)))
		b := createTestLot(t, 30, 10.00, datePtr(now.AddDate(0, 2, 0)))

		plan, err := BuildConsumptionPlan(decimal.NewFromInt(61), []StockLot{a, b}, AllocationPolicy{}, now)

		assert.ErrorIs(t, err, shared.ErrInsufficientLotStock)
		assert.Nil(t, plan)
	})

	t.Run("expired stock does not count toward availability by default", func(t *testing.T) {
		expired := createTestLot(t, 100, 8.00, datePtr(now.AddDate(0, 0, -1)))
		valid := createTestLot(t, 40, 10.00, datePtr(now.AddDate(0, 2, 0)))

		plan, err := BuildConsumptionPlan(decimal.NewFromInt(50), []StockLot{expired, valid}, AllocationPolicy{}, now)

		assert.ErrorIs(t, err, shared.ErrInsufficientLotStock)
		assert.Nil(t, plan)
	})

	t.Run("skips depleted lots", func(t *testing.T) {
		depleted := createTestLot(t, 20, 10.00, datePtr(now.AddDate(0, 1, 0)))
		require.NoError(t, (&depleted).Consume(decimal.NewFromInt(20)))
		fresh := createTestLot(t, 20, 10.00, datePtr(now.AddDate(0, 2, 0)))

		plan, err := BuildConsumptionPlan(decimal.NewFromInt(10), []StockLot{depleted, fresh}, AllocationPolicy{}, now)

		require.NoError(t, err)
		require.Len(t, plan.Allocations, 1)
		assert.Equal(t, fresh.ID, plan.Allocations[0].LotID)
	})

	t.Run("computes total and weighted average cost", func(t *testing.T) {
		cheap := createTestLot(t, 10, 5.00, datePtr(now.AddDate(0, 1, 0)))
		dear := createTestLot(t, 10, 10.00, datePtr(now.AddDate(0, 2, 0)))

		plan, err := BuildConsumptionPlan(decimal.NewFromInt(15), []StockLot{cheap, dear}, AllocationPolicy{}, now)

		require.NoError(t, err)
		// 10*5 + 5*10 = 100
		assert.Equal(t, "100", plan.TotalCost.String())
		// 100 / 15 = 6.6667
		assert.Equal(t, "6.6667", plan.WeightedAverageCost().String())
	})

	t.Run("fails with non-positive quantity", func(t *testing.T) {
		_, err := BuildConsumptionPlan(decimal.Zero, nil, AllocationPolicy{}, now)

		require.Error(t, err)
	})
}

func TestApplyAndRestoreConsumptionPlan(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("apply then restore is a no-op on lot state", func(t *testing.T) {
		a := createTestLot(t, 60, 10.00, datePtr(now.AddDate(0, 1, 0)))
		b := createTestLot(t, 60, 12.00, datePtr(now.AddDate(0, 2, 0)))
		lots := []*StockLot{&a, &b}

		plan, err := BuildConsumptionPlan(decimal.NewFromInt(90), []StockLot{a, b}, AllocationPolicy{}, now)
		require.NoError(t, err)

		require.NoError(t, ApplyConsumptionPlan(lots, plan))
		assert.Equal(t, "0", a.AvailableQuantity().String())
		assert.Equal(t, "30", b.AvailableQuantity().String())

		require.NoError(t, RestoreConsumptionPlan(lots, plan))
		assert.Equal(t, "60", a.AvailableQuantity().String())
		assert.Equal(t, "60", b.AvailableQuantity().String())
		require.NoError(t, a.CheckInvariant())
		require.NoError(t, b.CheckInvariant())
	})

	t.Run("apply fails when a planned lot is missing", func(t *testing.T) {
		a := createTestLot(t, 60, 10.00, nil)

		plan, err := BuildConsumptionPlan(decimal.NewFromInt(10), []StockLot{a}, AllocationPolicy{}, now)
		require.NoError(t, err)

		err = ApplyConsumptionPlan([]*StockLot{}, plan)

		require.Error(t, err)
	})
}
