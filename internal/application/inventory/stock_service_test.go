package inventory_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	inventoryapp "github.com/siscom/backend/internal/application/inventory"
	"github.com/siscom/backend/internal/domain/catalog"
	"github.com/siscom/backend/internal/domain/inventory"
	"github.com/siscom/backend/internal/domain/shared"
	"github.com/siscom/backend/internal/domain/shared/valueobject"
	"github.com/siscom/backend/internal/infrastructure/persistence"
)

func setupStockService(t *testing.T) (*inventoryapp.StockService, *persistence.GormStockItemRepository, *persistence.GormProductRepository) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&catalog.Product{}, &inventory.StockItem{}, &inventory.StockLot{}, &inventory.StockMovement{},
	))

	stockItemRepo := persistence.NewGormStockItemRepository(db)
	movementRepo := persistence.NewGormStockMovementRepository(db)
	lotRepo := persistence.NewGormStockLotRepository(db)
	productRepo := persistence.NewGormProductRepository(db)
	scope := persistence.NewGormInventoryTransactionScope(db)

	service := inventoryapp.NewStockService(scope, stockItemRepo, movementRepo, lotRepo, productRepo, inventory.AllocationPolicy{})
	return service, stockItemRepo, productRepo
}

func createStockTestProduct(t *testing.T, productRepo *persistence.GormProductRepository, tracksLot bool) *catalog.Product {
	t.Helper()

	product, err := catalog.NewProductWithPrices("PROD-001", "Produto Teste", "UN",
		valueobject.NewMoneyBRLFromFloat(10), valueobject.NewMoneyBRLFromFloat(25))
	require.NoError(t, err)
	if tracksLot {
		product.EnableLotTracking()
	}
	require.NoError(t, productRepo.Save(context.Background(), product))
	return product
}

func TestStockService_ReserveStock_HoldsQuantityFromExits(t *testing.T) {
	service, _, productRepo := setupStockService(t)
	ctx := context.Background()
	product := createStockTestProduct(t, productRepo, false)

	_, err := service.EnterStock(ctx, inventoryapp.EnterStockRequest{
		ProductID: product.ID,
		Quantity:  decimal.NewFromInt(10),
		UnitCost:  decimal.RequireFromString("12.50"),
	})
	require.NoError(t, err)

	resp, err := service.ReserveStock(ctx, inventoryapp.ReserveStockRequest{
		ProductID:   product.ID,
		Quantity:    decimal.NewFromInt(4),
		DocumentRef: "OS-2026-00007",
	})
	require.NoError(t, err)
	assert.True(t, resp.AvailableQuantity.Equal(decimal.NewFromInt(6)))
	assert.True(t, resp.ReservedQuantity.Equal(decimal.NewFromInt(4)))

	// The hold keeps exits from touching the reserved portion
	_, err = service.ExitStock(ctx, inventoryapp.ExitStockRequest{
		ProductID: product.ID,
		Quantity:  decimal.NewFromInt(8),
	})
	assert.ErrorIs(t, err, shared.ErrInsufficientStock)

	resp, err = service.ReleaseStock(ctx, inventoryapp.ReleaseStockRequest{
		ProductID: product.ID,
		Quantity:  decimal.NewFromInt(4),
	})
	require.NoError(t, err)
	assert.True(t, resp.AvailableQuantity.Equal(decimal.NewFromInt(10)))
	assert.True(t, resp.ReservedQuantity.IsZero())

	_, err = service.ExitStock(ctx, inventoryapp.ExitStockRequest{
		ProductID: product.ID,
		Quantity:  decimal.NewFromInt(8),
	})
	require.NoError(t, err)
}

func TestStockService_ReserveStock_LotTrackedPinsTheLot(t *testing.T) {
	service, stockItemRepo, productRepo := setupStockService(t)
	ctx := context.Background()
	product := createStockTestProduct(t, productRepo, true)

	_, err := service.EnterStock(ctx, inventoryapp.EnterStockRequest{
		ProductID: product.ID,
		Quantity:  decimal.NewFromInt(10),
		UnitCost:  decimal.RequireFromString("12.50"),
		LotNumber: "L-2026-01",
	})
	require.NoError(t, err)

	_, err = service.ReserveStock(ctx, inventoryapp.ReserveStockRequest{
		ProductID: product.ID,
		Quantity:  decimal.NewFromInt(4),
		LotNumber: "L-2026-01",
	})
	require.NoError(t, err)

	item, err := stockItemRepo.FindByProduct(ctx, product.ID)
	require.NoError(t, err)
	assert.True(t, item.ReservedQuantity.Equal(decimal.NewFromInt(4)))
	lot := item.FindLot("L-2026-01")
	require.NotNil(t, lot)
	assert.True(t, lot.ReservedQuantity.Equal(decimal.NewFromInt(4)))
	assert.True(t, lot.AvailableQuantity().Equal(decimal.NewFromInt(6)))

	_, err = service.ReleaseStock(ctx, inventoryapp.ReleaseStockRequest{
		ProductID: product.ID,
		Quantity:  decimal.NewFromInt(4),
		LotNumber: "L-2026-01",
	})
	require.NoError(t, err)

	item, err = stockItemRepo.FindByProduct(ctx, product.ID)
	require.NoError(t, err)
	assert.True(t, item.ReservedQuantity.IsZero())
	lot = item.FindLot("L-2026-01")
	require.NotNil(t, lot)
	assert.True(t, lot.ReservedQuantity.IsZero())
}

func TestStockService_ReserveStock_UnknownLot(t *testing.T) {
	service, _, productRepo := setupStockService(t)
	ctx := context.Background()
	product := createStockTestProduct(t, productRepo, true)

	_, err := service.EnterStock(ctx, inventoryapp.EnterStockRequest{
		ProductID: product.ID,
		Quantity:  decimal.NewFromInt(10),
		UnitCost:  decimal.RequireFromString("12.50"),
		LotNumber: "L-2026-01",
	})
	require.NoError(t, err)

	_, err = service.ReserveStock(ctx, inventoryapp.ReserveStockRequest{
		ProductID: product.ID,
		Quantity:  decimal.NewFromInt(1),
		LotNumber: "L-2026-99",
	})
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "LOT_NOT_FOUND", domainErr.Code)

	_, err = service.ReserveStock(ctx, inventoryapp.ReserveStockRequest{
		ProductID: product.ID,
		Quantity:  decimal.NewFromInt(1),
	})
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "MISSING_LOT_NUMBER", domainErr.Code)
}
