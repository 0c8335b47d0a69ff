package trade

import (
	"context"

	"github.com/siscom/backend/internal/domain/finance"
	"github.com/siscom/backend/internal/domain/inventory"
	"github.com/siscom/backend/internal/domain/pos"
	"github.com/siscom/backend/internal/domain/shared"
	"github.com/siscom/backend/internal/domain/trade"
)

// TransactionScope provides transactional access to the repositories an
// order transition touches. Stock debits, movement records, financial
// entries and the order status change commit or roll back together.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to the repositories within a
// transaction. All repositories share the same underlying database
// transaction, including the document sequence generator so order numbers
// are issued under the same lock.
type TransactionalRepositories interface {
	SalesRepo() trade.SalesOrderRepository
	PurchaseRepo() trade.PurchaseOrderRepository
	ServiceOrderRepo() trade.ServiceOrderRepository
	QuotationRepo() trade.QuotationRepository
	StockItemRepo() inventory.StockItemRepository
	MovementRepo() inventory.StockMovementRepository
	FinanceRepo() finance.FinancialEntryRepository
	SessionRepo() pos.CashSessionRepository
	Sequences() shared.SequenceGenerator
}

// NoOpTransactionScope runs the function without a real transaction.
// Useful for tests.
type NoOpTransactionScope struct {
	salesRepo        trade.SalesOrderRepository
	purchaseRepo     trade.PurchaseOrderRepository
	serviceOrderRepo trade.ServiceOrderRepository
	quotationRepo    trade.QuotationRepository
	stockItemRepo    inventory.StockItemRepository
	movementRepo     inventory.StockMovementRepository
	financeRepo      finance.FinancialEntryRepository
	sessionRepo      pos.CashSessionRepository
	sequences        shared.SequenceGenerator
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories
func NewNoOpTransactionScope(
	salesRepo trade.SalesOrderRepository,
	purchaseRepo trade.PurchaseOrderRepository,
	serviceOrderRepo trade.ServiceOrderRepository,
	quotationRepo trade.QuotationRepository,
	stockItemRepo inventory.StockItemRepository,
	movementRepo inventory.StockMovementRepository,
	financeRepo finance.FinancialEntryRepository,
	sessionRepo pos.CashSessionRepository,
	sequences shared.SequenceGenerator,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		salesRepo:        salesRepo,
		purchaseRepo:     purchaseRepo,
		serviceOrderRepo: serviceOrderRepo,
		quotationRepo:    quotationRepo,
		stockItemRepo:    stockItemRepo,
		movementRepo:     movementRepo,
		financeRepo:      financeRepo,
		sessionRepo:      sessionRepo,
		sequences:        sequences,
	}
}

// Execute runs the function without a real transaction
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// SalesRepo returns the sales order repository
func (s *NoOpTransactionScope) SalesRepo() trade.SalesOrderRepository { return s.salesRepo }

// PurchaseRepo returns the purchase order repository
func (s *NoOpTransactionScope) PurchaseRepo() trade.PurchaseOrderRepository { return s.purchaseRepo }

// ServiceOrderRepo returns the service order repository
func (s *NoOpTransactionScope) ServiceOrderRepo() trade.ServiceOrderRepository {
	return s.serviceOrderRepo
}

// QuotationRepo returns the quotation repository
func (s *NoOpTransactionScope) QuotationRepo() trade.QuotationRepository { return s.quotationRepo }

// StockItemRepo returns the stock item repository
func (s *NoOpTransactionScope) StockItemRepo() inventory.StockItemRepository {
	return s.stockItemRepo
}

// MovementRepo returns the stock movement repository
func (s *NoOpTransactionScope) MovementRepo() inventory.StockMovementRepository {
	return s.movementRepo
}

// FinanceRepo returns the financial entry repository
func (s *NoOpTransactionScope) FinanceRepo() finance.FinancialEntryRepository {
	return s.financeRepo
}

// SessionRepo returns the cash session repository
func (s *NoOpTransactionScope) SessionRepo() pos.CashSessionRepository { return s.sessionRepo }

// Sequences returns the document sequence generator
func (s *NoOpTransactionScope) Sequences() shared.SequenceGenerator { return s.sequences }

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
