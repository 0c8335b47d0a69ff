package trade

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/siscom/backend/internal/domain/catalog"
	"github.com/siscom/backend/internal/domain/finance"
	"github.com/siscom/backend/internal/domain/inventory"
	"github.com/siscom/backend/internal/domain/partner"
	"github.com/siscom/backend/internal/domain/pos"
	"github.com/siscom/backend/internal/domain/shared"
	"github.com/siscom/backend/internal/domain/trade"
)

// MockSalesOrderRepository is a mock implementation of SalesOrderRepository
type MockSalesOrderRepository struct {
	mock.Mock
}

func (m *MockSalesOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.SalesOrder, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*trade.SalesOrder), args.Error(1)
}

func (m *MockSalesOrderRepository) FindByOrderNumber(ctx context.Context, orderNumber string) (*trade.SalesOrder, error) {
	args := m.Called(ctx, orderNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*trade.SalesOrder), args.Error(1)
}

func (m *MockSalesOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]trade.SalesOrder, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]trade.SalesOrder), args.Error(1)
}

func (m *MockSalesOrderRepository) FindByCustomer(ctx context.Context, customerID uuid.UUID, filter shared.Filter) ([]trade.SalesOrder, error) {
	args := m.Called(ctx, customerID, filter)
	return args.Get(0).([]trade.SalesOrder), args.Error(1)
}

func (m *MockSalesOrderRepository) FindByStatus(ctx context.Context, status trade.SaleStatus, filter shared.Filter) ([]trade.SalesOrder, error) {
	args := m.Called(ctx, status, filter)
	return args.Get(0).([]trade.SalesOrder), args.Error(1)
}

func (m *MockSalesOrderRepository) FindByDateRange(ctx context.Context, from, to time.Time, filter shared.Filter) ([]trade.SalesOrder, error) {
	args := m.Called(ctx, from, to, filter)
	return args.Get(0).([]trade.SalesOrder), args.Error(1)
}

func (m *MockSalesOrderRepository) Save(ctx context.Context, order *trade.SalesOrder) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockSalesOrderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockSalesOrderRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

// MockPurchaseOrderRepository is a mock implementation of PurchaseOrderRepository
type MockPurchaseOrderRepository struct {
	mock.Mock
}

func (m *MockPurchaseOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.PurchaseOrder, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*trade.PurchaseOrder), args.Error(1)
}

func (m *MockPurchaseOrderRepository) FindByOrderNumber(ctx context.Context, orderNumber string) (*trade.PurchaseOrder, error) {
	args := m.Called(ctx, orderNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*trade.PurchaseOrder), args.Error(1)
}

func (m *MockPurchaseOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]trade.PurchaseOrder, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]trade.PurchaseOrder), args.Error(1)
}

func (m *MockPurchaseOrderRepository) FindBySupplier(ctx context.Context, supplierID uuid.UUID, filter shared.Filter) ([]trade.PurchaseOrder, error) {
	args := m.Called(ctx, supplierID, filter)
	return args.Get(0).([]trade.PurchaseOrder), args.Error(1)
}

func (m *MockPurchaseOrderRepository) FindByStatus(ctx context.Context, status trade.PurchaseOrderStatus, filter shared.Filter) ([]trade.PurchaseOrder, error) {
	args := m.Called(ctx, status, filter)
	return args.Get(0).([]trade.PurchaseOrder), args.Error(1)
}

func (m *MockPurchaseOrderRepository) Save(ctx context.Context, order *trade.PurchaseOrder) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockPurchaseOrderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockPurchaseOrderRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

// MockServiceOrderRepository is a mock implementation of ServiceOrderRepository
type MockServiceOrderRepository struct {
	mock.Mock
}

func (m *MockServiceOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.ServiceOrder, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*trade.ServiceOrder), args.Error(1)
}

func (m *MockServiceOrderRepository) FindByOrderNumber(ctx context.Context, orderNumber string) (*trade.ServiceOrder, error) {
	args := m.Called(ctx, orderNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*trade.ServiceOrder), args.Error(1)
}

func (m *MockServiceOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]trade.ServiceOrder, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]trade.ServiceOrder), args.Error(1)
}

func (m *MockServiceOrderRepository) FindByCustomer(ctx context.Context, customerID uuid.UUID, filter shared.Filter) ([]trade.ServiceOrder, error) {
	args := m.Called(ctx, customerID, filter)
	return args.Get(0).([]trade.ServiceOrder), args.Error(1)
}

func (m *MockServiceOrderRepository) FindByStatus(ctx context.Context, status trade.ServiceOrderStatus, filter shared.Filter) ([]trade.ServiceOrder, error) {
	args := m.Called(ctx, status, filter)
	return args.Get(0).([]trade.ServiceOrder), args.Error(1)
}

func (m *MockServiceOrderRepository) Save(ctx context.Context, order *trade.ServiceOrder) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockServiceOrderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockServiceOrderRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

// MockQuotationRepository is a mock implementation of QuotationRepository
type MockQuotationRepository struct {
	mock.Mock
}

func (m *MockQuotationRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.Quotation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*trade.Quotation), args.Error(1)
}

func (m *MockQuotationRepository) FindByQuotationNumber(ctx context.Context, quotationNumber string) (*trade.Quotation, error) {
	args := m.Called(ctx, quotationNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*trade.Quotation), args.Error(1)
}

func (m *MockQuotationRepository) FindAll(ctx context.Context, filter shared.Filter) ([]trade.Quotation, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]trade.Quotation), args.Error(1)
}

func (m *MockQuotationRepository) FindByCustomer(ctx context.Context, customerID uuid.UUID, filter shared.Filter) ([]trade.Quotation, error) {
	args := m.Called(ctx, customerID, filter)
	return args.Get(0).([]trade.Quotation), args.Error(1)
}

func (m *MockQuotationRepository) FindByStatus(ctx context.Context, status trade.QuotationStatus, filter shared.Filter) ([]trade.Quotation, error) {
	args := m.Called(ctx, status, filter)
	return args.Get(0).([]trade.Quotation), args.Error(1)
}

func (m *MockQuotationRepository) Save(ctx context.Context, quotation *trade.Quotation) error {
	args := m.Called(ctx, quotation)
	return args.Error(0)
}

func (m *MockQuotationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockQuotationRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

// MockProductRepository is a mock implementation of ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindByCode(ctx context.Context, code string) (*catalog.Product, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindByBarcode(ctx context.Context, barcode string) (*catalog.Product, error) {
	args := m.Called(ctx, barcode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Product, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindActive(ctx context.Context, filter shared.Filter) ([]catalog.Product, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindByCategory(ctx context.Context, categoryID uuid.UUID, filter shared.Filter) ([]catalog.Product, error) {
	args := m.Called(ctx, categoryID, filter)
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.Product, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	args := m.Called(ctx, code)
	return args.Bool(0), args.Error(1)
}

func (m *MockProductRepository) ExistsByBarcode(ctx context.Context, barcode string) (bool, error) {
	args := m.Called(ctx, barcode)
	return args.Bool(0), args.Error(1)
}

func (m *MockProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockProductRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

// MockCustomerRepository is a mock implementation of CustomerRepository
type MockCustomerRepository struct {
	mock.Mock
}

func (m *MockCustomerRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Customer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindByCode(ctx context.Context, code string) (*partner.Customer, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindByDocument(ctx context.Context, document string) (*partner.Customer, error) {
	args := m.Called(ctx, document)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindAll(ctx context.Context, filter shared.Filter) ([]partner.Customer, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]partner.Customer), args.Error(1)
}

func (m *MockCustomerRepository) ExistsByDocument(ctx context.Context, document string) (bool, error) {
	args := m.Called(ctx, document)
	return args.Bool(0), args.Error(1)
}

func (m *MockCustomerRepository) Save(ctx context.Context, customer *partner.Customer) error {
	args := m.Called(ctx, customer)
	return args.Error(0)
}

func (m *MockCustomerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCustomerRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

// MockSupplierRepository is a mock implementation of SupplierRepository
type MockSupplierRepository struct {
	mock.Mock
}

func (m *MockSupplierRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Supplier, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Supplier), args.Error(1)
}

func (m *MockSupplierRepository) FindByCode(ctx context.Context, code string) (*partner.Supplier, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Supplier), args.Error(1)
}

func (m *MockSupplierRepository) FindByCNPJ(ctx context.Context, cnpj string) (*partner.Supplier, error) {
	args := m.Called(ctx, cnpj)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Supplier), args.Error(1)
}

func (m *MockSupplierRepository) FindAll(ctx context.Context, filter shared.Filter) ([]partner.Supplier, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]partner.Supplier), args.Error(1)
}

func (m *MockSupplierRepository) ExistsByCNPJ(ctx context.Context, cnpj string) (bool, error) {
	args := m.Called(ctx, cnpj)
	return args.Bool(0), args.Error(1)
}

func (m *MockSupplierRepository) Save(ctx context.Context, supplier *partner.Supplier) error {
	args := m.Called(ctx, supplier)
	return args.Error(0)
}

func (m *MockSupplierRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockSupplierRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

// MockStockItemRepository is a mock implementation of StockItemRepository
type MockStockItemRepository struct {
	mock.Mock
}

func (m *MockStockItemRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.StockItem, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.StockItem), args.Error(1)
}

func (m *MockStockItemRepository) FindByProduct(ctx context.Context, productID uuid.UUID) (*inventory.StockItem, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.StockItem), args.Error(1)
}

func (m *MockStockItemRepository) FindAll(ctx context.Context, filter shared.Filter) ([]inventory.StockItem, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]inventory.StockItem), args.Error(1)
}

func (m *MockStockItemRepository) FindBelowMinimum(ctx context.Context, filter shared.Filter) ([]inventory.StockItem, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]inventory.StockItem), args.Error(1)
}

func (m *MockStockItemRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]inventory.StockItem, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]inventory.StockItem), args.Error(1)
}

func (m *MockStockItemRepository) Save(ctx context.Context, item *inventory.StockItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockStockItemRepository) SaveWithLock(ctx context.Context, item *inventory.StockItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockStockItemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockStockItemRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStockItemRepository) SumTotalValue(ctx context.Context) (decimal.Decimal, error) {
	args := m.Called(ctx)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockStockItemRepository) GetOrCreate(ctx context.Context, productID uuid.UUID) (*inventory.StockItem, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.StockItem), args.Error(1)
}

// MockStockMovementRepository is a mock implementation of StockMovementRepository
type MockStockMovementRepository struct {
	mock.Mock
}

func (m *MockStockMovementRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.StockMovement, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.StockMovement), args.Error(1)
}

func (m *MockStockMovementRepository) FindByStockItem(ctx context.Context, stockItemID uuid.UUID, filter shared.Filter) ([]inventory.StockMovement, error) {
	args := m.Called(ctx, stockItemID, filter)
	return args.Get(0).([]inventory.StockMovement), args.Error(1)
}

func (m *MockStockMovementRepository) FindByProduct(ctx context.Context, productID uuid.UUID, filter shared.Filter) ([]inventory.StockMovement, error) {
	args := m.Called(ctx, productID, filter)
	return args.Get(0).([]inventory.StockMovement), args.Error(1)
}

func (m *MockStockMovementRepository) FindByDocumentRef(ctx context.Context, documentRef string) ([]inventory.StockMovement, error) {
	args := m.Called(ctx, documentRef)
	return args.Get(0).([]inventory.StockMovement), args.Error(1)
}

func (m *MockStockMovementRepository) FindByDateRange(ctx context.Context, from, to time.Time, filter shared.Filter) ([]inventory.StockMovement, error) {
	args := m.Called(ctx, from, to, filter)
	return args.Get(0).([]inventory.StockMovement), args.Error(1)
}

func (m *MockStockMovementRepository) Save(ctx context.Context, movement *inventory.StockMovement) error {
	args := m.Called(ctx, movement)
	return args.Error(0)
}

func (m *MockStockMovementRepository) SaveBatch(ctx context.Context, movements []inventory.StockMovement) error {
	args := m.Called(ctx, movements)
	return args.Error(0)
}

func (m *MockStockMovementRepository) CountByStockItem(ctx context.Context, stockItemID uuid.UUID) (int64, error) {
	args := m.Called(ctx, stockItemID)
	return args.Get(0).(int64), args.Error(1)
}

// MockFinancialEntryRepository is a mock implementation of FinancialEntryRepository
type MockFinancialEntryRepository struct {
	mock.Mock
}

func (m *MockFinancialEntryRepository) FindByID(ctx context.Context, id uuid.UUID) (*finance.FinancialEntry, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.FinancialEntry), args.Error(1)
}

func (m *MockFinancialEntryRepository) FindByNumber(ctx context.Context, entryNumber string) (*finance.FinancialEntry, error) {
	args := m.Called(ctx, entryNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.FinancialEntry), args.Error(1)
}

func (m *MockFinancialEntryRepository) FindAll(ctx context.Context, filter shared.Filter) ([]*finance.FinancialEntry, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]*finance.FinancialEntry), args.Get(1).(int64), args.Error(2)
}

func (m *MockFinancialEntryRepository) FindByCounterparty(ctx context.Context, counterpartyID uuid.UUID, filter shared.Filter) ([]*finance.FinancialEntry, int64, error) {
	args := m.Called(ctx, counterpartyID, filter)
	return args.Get(0).([]*finance.FinancialEntry), args.Get(1).(int64), args.Error(2)
}

func (m *MockFinancialEntryRepository) FindByKind(ctx context.Context, kind finance.EntryKind, filter shared.Filter) ([]*finance.FinancialEntry, int64, error) {
	args := m.Called(ctx, kind, filter)
	return args.Get(0).([]*finance.FinancialEntry), args.Get(1).(int64), args.Error(2)
}

func (m *MockFinancialEntryRepository) FindByStatus(ctx context.Context, status finance.EntryStatus, filter shared.Filter) ([]*finance.FinancialEntry, int64, error) {
	args := m.Called(ctx, status, filter)
	return args.Get(0).([]*finance.FinancialEntry), args.Get(1).(int64), args.Error(2)
}

func (m *MockFinancialEntryRepository) FindOverdue(ctx context.Context, asOf time.Time, filter shared.Filter) ([]*finance.FinancialEntry, int64, error) {
	args := m.Called(ctx, asOf, filter)
	return args.Get(0).([]*finance.FinancialEntry), args.Get(1).(int64), args.Error(2)
}

func (m *MockFinancialEntryRepository) FindByDueDateRange(ctx context.Context, from, to time.Time, filter shared.Filter) ([]*finance.FinancialEntry, int64, error) {
	args := m.Called(ctx, from, to, filter)
	return args.Get(0).([]*finance.FinancialEntry), args.Get(1).(int64), args.Error(2)
}

func (m *MockFinancialEntryRepository) SumOpenByKind(ctx context.Context, kind finance.EntryKind) (decimal.Decimal, error) {
	args := m.Called(ctx, kind)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockFinancialEntryRepository) CashFlowByPeriod(ctx context.Context, from, to time.Time) ([]finance.CashFlowBucket, error) {
	args := m.Called(ctx, from, to)
	return args.Get(0).([]finance.CashFlowBucket), args.Error(1)
}

func (m *MockFinancialEntryRepository) Save(ctx context.Context, entry *finance.FinancialEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockFinancialEntryRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// MockCashSessionRepository is a mock implementation of pos.CashSessionRepository
type MockCashSessionRepository struct {
	mock.Mock
}

func (m *MockCashSessionRepository) FindByID(ctx context.Context, id uuid.UUID) (*pos.CashSession, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pos.CashSession), args.Error(1)
}

func (m *MockCashSessionRepository) FindOpenByOperator(ctx context.Context, operatorID uuid.UUID) (*pos.CashSession, error) {
	args := m.Called(ctx, operatorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pos.CashSession), args.Error(1)
}

func (m *MockCashSessionRepository) FindAll(ctx context.Context, filter shared.Filter) ([]*pos.CashSession, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]*pos.CashSession), args.Get(1).(int64), args.Error(2)
}

func (m *MockCashSessionRepository) FindByOperator(ctx context.Context, operatorID uuid.UUID, filter shared.Filter) ([]*pos.CashSession, int64, error) {
	args := m.Called(ctx, operatorID, filter)
	return args.Get(0).([]*pos.CashSession), args.Get(1).(int64), args.Error(2)
}

func (m *MockCashSessionRepository) FindByDateRange(ctx context.Context, from, to time.Time, filter shared.Filter) ([]*pos.CashSession, int64, error) {
	args := m.Called(ctx, from, to, filter)
	return args.Get(0).([]*pos.CashSession), args.Get(1).(int64), args.Error(2)
}

func (m *MockCashSessionRepository) FindWithDiscrepancy(ctx context.Context, filter shared.Filter) ([]*pos.CashSession, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]*pos.CashSession), args.Get(1).(int64), args.Error(2)
}

func (m *MockCashSessionRepository) Save(ctx context.Context, session *pos.CashSession) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *MockCashSessionRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// stubSequenceGenerator hands out sequential numbers per series without a database
type stubSequenceGenerator struct {
	counters map[shared.DocumentType]int64
}

func newStubSequenceGenerator() *stubSequenceGenerator {
	return &stubSequenceGenerator{counters: make(map[shared.DocumentType]int64)}
}

func (g *stubSequenceGenerator) Next(_ context.Context, docType shared.DocumentType) (string, error) {
	g.counters[docType]++
	return fmt.Sprintf("%s-2026-%05d", docType.Prefix(), g.counters[docType]), nil
}

// testRepos bundles the mocks behind a NoOpTransactionScope
type testRepos struct {
	sales     *MockSalesOrderRepository
	purchases *MockPurchaseOrderRepository
	services  *MockServiceOrderRepository
	quotes    *MockQuotationRepository
	products  *MockProductRepository
	customers *MockCustomerRepository
	suppliers *MockSupplierRepository
	stock     *MockStockItemRepository
	movements *MockStockMovementRepository
	entries   *MockFinancialEntryRepository
	sessions  *MockCashSessionRepository
	sequences *stubSequenceGenerator
	scope     *NoOpTransactionScope
}

func newTestRepos() *testRepos {
	r := &testRepos{
		sales:     new(MockSalesOrderRepository),
		purchases: new(MockPurchaseOrderRepository),
		services:  new(MockServiceOrderRepository),
		quotes:    new(MockQuotationRepository),
		products:  new(MockProductRepository),
		customers: new(MockCustomerRepository),
		suppliers: new(MockSupplierRepository),
		stock:     new(MockStockItemRepository),
		movements: new(MockStockMovementRepository),
		entries:   new(MockFinancialEntryRepository),
		sessions:  new(MockCashSessionRepository),
		sequences: newStubSequenceGenerator(),
	}
	r.scope = NewNoOpTransactionScope(
		r.sales, r.purchases, r.services, r.quotes,
		r.stock, r.movements, r.entries, r.sessions, r.sequences,
	)
	return r
}
