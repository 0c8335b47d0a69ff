package trade

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/siscom/backend/internal/domain/finance"
	"github.com/siscom/backend/internal/domain/inventory"
	"github.com/siscom/backend/internal/domain/partner"
	"github.com/siscom/backend/internal/domain/shared"
	"github.com/siscom/backend/internal/domain/shared/valueobject"
	"github.com/siscom/backend/internal/domain/trade"
)

func createTestSupplier(t *testing.T, paymentTermDays int) *partner.Supplier {
	t.Helper()
	supplier, err := partner.NewSupplier("FORN-001", "Distribuidora Alfa Ltda")
	require.NoError(t, err)
	if paymentTermDays > 0 {
		require.NoError(t, supplier.SetPaymentTerm(paymentTermDays))
	}
	return supplier
}

func TestPurchaseService_Create_Success(t *testing.T) {
	repos := newTestRepos()
	service := NewPurchaseService(repos.scope, repos.purchases, repos.products, repos.suppliers)

	ctx := context.Background()
	supplier := createTestSupplier(t, 0)
	product := createTestSaleProduct(t, "PROD-001", 50)

	repos.suppliers.On("FindByID", ctx, supplier.ID).Return(supplier, nil)
	repos.products.On("FindByID", ctx, product.ID).Return(product, nil)
	repos.purchases.On("Save", ctx, mock.AnythingOfType("*trade.PurchaseOrder")).Return(nil)

	result, err := service.Create(ctx, CreatePurchaseRequest{
		SupplierID: supplier.ID,
		Items: []OrderItemRequest{
			{ProductID: product.ID, Quantity: decimal.NewFromInt(40)},
		},
	})

	require.NoError(t, err)
	assert.Equal(t, "PC-2026-00001", result.OrderNumber)
	assert.Equal(t, "PENDING", result.Status)
	assert.True(t, result.TotalAmount.Equal(decimal.NewFromInt(1000)))
}

func TestPurchaseService_Create_BlockedSupplier(t *testing.T) {
	repos := newTestRepos()
	service := NewPurchaseService(repos.scope, repos.purchases, repos.products, repos.suppliers)

	ctx := context.Background()
	supplier := createTestSupplier(t, 0)
	require.NoError(t, supplier.Block())

	repos.suppliers.On("FindByID", ctx, supplier.ID).Return(supplier, nil)

	_, err := service.Create(ctx, CreatePurchaseRequest{
		SupplierID: supplier.ID,
		Items:      []OrderItemRequest{{ProductID: uuid.New(), Quantity: decimal.NewFromInt(1)}},
	})

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "SUPPLIER_INACTIVE", domainErr.Code)
}

func TestPurchaseService_ReceiveItem_PartialKeepsOrderOpen(t *testing.T) {
	repos := newTestRepos()
	service := NewPurchaseService(repos.scope, repos.purchases, repos.products, repos.suppliers)

	ctx := context.Background()
	supplier := createTestSupplier(t, 0)
	product := createTestSaleProduct(t, "PROD-001", 50)
	order, err := trade.NewPurchaseOrder("PC-2026-00050", supplier.ID, supplier.Name)
	require.NoError(t, err)
	item, err := order.AddItem(product.ID, product.Name, product.Code, decimal.NewFromInt(10), product.GetCostPriceMoney())
	require.NoError(t, err)
	require.NoError(t, order.Approve())

	stockItem, err := inventory.NewStockItem(product.ID)
	require.NoError(t, err)

	repos.purchases.On("FindByID", ctx, order.ID).Return(order, nil)
	repos.products.On("FindByID", ctx, product.ID).Return(product, nil)
	repos.stock.On("GetOrCreate", ctx, product.ID).Return(stockItem, nil)
	repos.stock.On("SaveWithLock", ctx, stockItem).Return(nil)
	repos.movements.On("Save", ctx, mock.AnythingOfType("*inventory.StockMovement")).Return(nil)
	repos.purchases.On("Save", ctx, order).Return(nil)

	result, err := service.ReceiveItem(ctx, order.ID, ReceiveItemRequest{
		ItemID:   item.ID,
		Quantity: decimal.NewFromInt(4),
	})

	require.NoError(t, err)
	assert.Equal(t, "PARTIAL", result.Status)
	assert.True(t, stockItem.AvailableQuantity.Equal(decimal.NewFromInt(4)))
	repos.entries.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestPurchaseService_ReceiveItem_FullReceiptCreatesPayable(t *testing.T) {
	repos := newTestRepos()
	service := NewPurchaseService(repos.scope, repos.purchases, repos.products, repos.suppliers)

	ctx := context.Background()
	supplier := createTestSupplier(t, 45)
	product := createTestSaleProduct(t, "PROD-001", 50)
	order, err := trade.NewPurchaseOrder("PC-2026-00051", supplier.ID, supplier.Name)
	require.NoError(t, err)
	item, err := order.AddItem(product.ID, product.Name, product.Code, decimal.NewFromInt(10), product.GetCostPriceMoney())
	require.NoError(t, err)
	require.NoError(t, order.Approve())

	stockItem, err := inventory.NewStockItem(product.ID)
	require.NoError(t, err)

	var savedEntry *finance.FinancialEntry
	repos.purchases.On("FindByID", ctx, order.ID).Return(order, nil)
	repos.products.On("FindByID", ctx, product.ID).Return(product, nil)
	repos.suppliers.On("FindByID", ctx, supplier.ID).Return(supplier, nil)
	repos.stock.On("GetOrCreate", ctx, product.ID).Return(stockItem, nil)
	repos.stock.On("SaveWithLock", ctx, stockItem).Return(nil)
	repos.movements.On("Save", ctx, mock.AnythingOfType("*inventory.StockMovement")).Return(nil)
	repos.entries.On("Save", ctx, mock.AnythingOfType("*finance.FinancialEntry")).Run(func(args mock.Arguments) {
		savedEntry = args.Get(1).(*finance.FinancialEntry)
	}).Return(nil)
	repos.purchases.On("Save", ctx, order).Return(nil)

	result, err := service.ReceiveItem(ctx, order.ID, ReceiveItemRequest{
		ItemID:   item.ID,
		Quantity: decimal.NewFromInt(10),
	})

	require.NoError(t, err)
	assert.Equal(t, "RECEIVED", result.Status)
	require.NotNil(t, savedEntry)
	assert.Equal(t, finance.EntryKindPayable, savedEntry.Kind)
	assert.Equal(t, supplier.ID, savedEntry.CounterpartyID)
	assert.True(t, savedEntry.OriginalAmount.Equal(order.PayableAmount))
}

func TestPurchaseService_ReceiveItem_LotTrackedRequiresLotNumber(t *testing.T) {
	repos := newTestRepos()
	service := NewPurchaseService(repos.scope, repos.purchases, repos.products, repos.suppliers)

	ctx := context.Background()
	supplier := createTestSupplier(t, 0)
	product := createTestSaleProduct(t, "PROD-001", 50)
	product.EnableLotTracking()
	order, err := trade.NewPurchaseOrder("PC-2026-00052", supplier.ID, supplier.Name)
	require.NoError(t, err)
	item, err := order.AddItem(product.ID, product.Name, product.Code, decimal.NewFromInt(5), product.GetCostPriceMoney())
	require.NoError(t, err)
	require.NoError(t, order.Approve())

	stockItem, err := inventory.NewStockItem(product.ID)
	require.NoError(t, err)

	repos.purchases.On("FindByID", ctx, order.ID).Return(order, nil)
	repos.products.On("FindByID", ctx, product.ID).Return(product, nil)
	repos.stock.On("GetOrCreate", ctx, product.ID).Return(stockItem, nil)

	_, err = service.ReceiveItem(ctx, order.ID, ReceiveItemRequest{
		ItemID:   item.ID,
		Quantity: decimal.NewFromInt(5),
	})

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "MISSING_LOT_NUMBER", domainErr.Code)
}

func TestPurchaseService_ReceiveItem_SameLotNumberTopsUpExistingLot(t *testing.T) {
	repos := newTestRepos()
	service := NewPurchaseService(repos.scope, repos.purchases, repos.products, repos.suppliers)

	ctx := context.Background()
	supplier := createTestSupplier(t, 0)
	product := createTestSaleProduct(t, "PROD-001", 50)
	product.EnableLotTracking()
	order, err := trade.NewPurchaseOrder("PC-2026-00054", supplier.ID, supplier.Name)
	require.NoError(t, err)
	item, err := order.AddItem(product.ID, product.Name, product.Code, decimal.NewFromInt(10), product.GetCostPriceMoney())
	require.NoError(t, err)
	require.NoError(t, order.Approve())

	stockItem, err := inventory.NewStockItem(product.ID)
	require.NoError(t, err)
	existing, err := inventory.NewStockLot(stockItem.ID, product.ID, "L-2026-07", nil, nil, decimal.NewFromInt(6), decimal.NewFromInt(45))
	require.NoError(t, err)
	stockItem.Lots = []inventory.StockLot{*existing}
	require.NoError(t, stockItem.Enter(decimal.NewFromInt(6), valueobject.NewMoneyBRL(decimal.NewFromInt(45))))

	repos.purchases.On("FindByID", ctx, order.ID).Return(order, nil)
	repos.products.On("FindByID", ctx, product.ID).Return(product, nil)
	repos.stock.On("GetOrCreate", ctx, product.ID).Return(stockItem, nil)
	repos.stock.On("SaveWithLock", ctx, stockItem).Return(nil)
	repos.movements.On("Save", ctx, mock.AnythingOfType("*inventory.StockMovement")).Return(nil)
	repos.purchases.On("Save", ctx, order).Return(nil)

	_, err = service.ReceiveItem(ctx, order.ID, ReceiveItemRequest{
		ItemID:    item.ID,
		Quantity:  decimal.NewFromInt(4),
		LotNumber: "L-2026-07",
	})

	require.NoError(t, err)
	require.Len(t, stockItem.Lots, 1, "re-receipt must not duplicate the lot")
	assert.True(t, stockItem.Lots[0].ReceivedQuantity.Equal(decimal.NewFromInt(10)))
}

func TestPurchaseService_ReceiveItem_BeforeApproval(t *testing.T) {
	repos := newTestRepos()
	service := NewPurchaseService(repos.scope, repos.purchases, repos.products, repos.suppliers)

	ctx := context.Background()
	supplier := createTestSupplier(t, 0)
	product := createTestSaleProduct(t, "PROD-001", 50)
	order, err := trade.NewPurchaseOrder("PC-2026-00053", supplier.ID, supplier.Name)
	require.NoError(t, err)
	item, err := order.AddItem(product.ID, product.Name, product.Code, decimal.NewFromInt(5), product.GetCostPriceMoney())
	require.NoError(t, err)

	repos.purchases.On("FindByID", ctx, order.ID).Return(order, nil)

	_, err = service.ReceiveItem(ctx, order.ID, ReceiveItemRequest{
		ItemID:   item.ID,
		Quantity: decimal.NewFromInt(5),
	})

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_STATE", domainErr.Code)
}

func TestPurchaseService_Cancel_PendingOrder(t *testing.T) {
	repos := newTestRepos()
	service := NewPurchaseService(repos.scope, repos.purchases, repos.products, repos.suppliers)

	ctx := context.Background()
	supplier := createTestSupplier(t, 0)
	product := createTestSaleProduct(t, "PROD-001", 50)
	order, err := trade.NewPurchaseOrder("PC-2026-00054", supplier.ID, supplier.Name)
	require.NoError(t, err)
	_, err = order.AddItem(product.ID, product.Name, product.Code, decimal.NewFromInt(5), product.GetCostPriceMoney())
	require.NoError(t, err)

	repos.purchases.On("FindByID", ctx, order.ID).Return(order, nil)
	repos.purchases.On("Save", ctx, order).Return(nil)

	result, err := service.Cancel(ctx, order.ID, "fornecedor sem prazo")

	require.NoError(t, err)
	assert.Equal(t, "CANCELLED", result.Status)
}
