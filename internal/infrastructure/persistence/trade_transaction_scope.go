package persistence

import (
	"context"

	"gorm.io/gorm"

	apptrade "github.com/siscom/backend/internal/application/trade"
	"github.com/siscom/backend/internal/domain/finance"
	"github.com/siscom/backend/internal/domain/inventory"
	"github.com/siscom/backend/internal/domain/pos"
	"github.com/siscom/backend/internal/domain/shared"
	"github.com/siscom/backend/internal/domain/trade"
)

// GormTradeTransactionScope implements the trade TransactionScope using GORM
// transactions. Order save, stock mutation, financial entry and document
// numbering all share one transaction.
type GormTradeTransactionScope struct {
	db *gorm.DB
}

// NewGormTradeTransactionScope creates a new GormTradeTransactionScope
func NewGormTradeTransactionScope(db *gorm.DB) *GormTradeTransactionScope {
	return &GormTradeTransactionScope{db: db}
}

// Execute runs the given function within a database transaction
func (s *GormTradeTransactionScope) Execute(ctx context.Context, fn func(repos apptrade.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTradeRepositories{tx: tx})
	})
}

type gormTradeRepositories struct {
	tx *gorm.DB
}

// SalesRepo returns the sales repository scoped to the current transaction
func (r *gormTradeRepositories) SalesRepo() trade.SalesOrderRepository {
	return NewGormSalesOrderRepository(r.tx)
}

// PurchaseRepo returns the purchase order repository scoped to the current transaction
func (r *gormTradeRepositories) PurchaseRepo() trade.PurchaseOrderRepository {
	return NewGormPurchaseOrderRepository(r.tx)
}

// ServiceOrderRepo returns the service order repository scoped to the current transaction
func (r *gormTradeRepositories) ServiceOrderRepo() trade.ServiceOrderRepository {
	return NewGormServiceOrderRepository(r.tx)
}

// QuotationRepo returns the quotation repository scoped to the current transaction
func (r *gormTradeRepositories) QuotationRepo() trade.QuotationRepository {
	return NewGormQuotationRepository(r.tx)
}

// StockItemRepo returns the stock item repository scoped to the current transaction
func (r *gormTradeRepositories) StockItemRepo() inventory.StockItemRepository {
	return NewGormStockItemRepository(r.tx)
}

// MovementRepo returns the movement ledger scoped to the current transaction
func (r *gormTradeRepositories) MovementRepo() inventory.StockMovementRepository {
	return NewGormStockMovementRepository(r.tx)
}

// FinanceRepo returns the financial entry repository scoped to the current transaction
func (r *gormTradeRepositories) FinanceRepo() finance.FinancialEntryRepository {
	return NewGormFinancialEntryRepository(r.tx)
}

// SessionRepo returns the cash session repository scoped to the current transaction
func (r *gormTradeRepositories) SessionRepo() pos.CashSessionRepository {
	return NewGormCashSessionRepository(r.tx)
}

// Sequences returns the document sequence generator scoped to the current transaction
func (r *gormTradeRepositories) Sequences() shared.SequenceGenerator {
	return NewGormSequenceGenerator(r.tx)
}

var _ apptrade.TransactionScope = (*GormTradeTransactionScope)(nil)
var _ apptrade.TransactionalRepositories = (*gormTradeRepositories)(nil)
