package inventory

import (
	"context"

	"github.com/siscom/backend/internal/domain/inventory"
)

// TransactionScope provides transactional access to inventory repositories.
// When a function is executed within a transaction scope, all repository
// operations are part of the same database transaction and commit or roll
// back atomically.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to the inventory repositories
// within a transaction. All repositories share the same underlying
// database transaction.
//
// Aggregate boundary notes:
//   - StockItemRepo: repository for the StockItem aggregate root. Lots are
//     child entities persisted through the aggregate save, not independently.
//   - MovementRepo: append-only ledger; every balance mutation records a
//     movement in the same transaction so the balance is replayable.
type TransactionalRepositories interface {
	StockItemRepo() inventory.StockItemRepository
	MovementRepo() inventory.StockMovementRepository
	LotRepo() inventory.StockLotRepository
}

// NoOpTransactionScope runs the function without a real transaction.
// Useful for tests.
type NoOpTransactionScope struct {
	stockItemRepo inventory.StockItemRepository
	movementRepo  inventory.StockMovementRepository
	lotRepo       inventory.StockLotRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories
func NewNoOpTransactionScope(
	stockItemRepo inventory.StockItemRepository,
	movementRepo inventory.StockMovementRepository,
	lotRepo inventory.StockLotRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		stockItemRepo: stockItemRepo,
		movementRepo:  movementRepo,
		lotRepo:       lotRepo,
	}
}

// Execute runs the function without a real transaction
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// StockItemRepo returns the stock item repository
func (s *NoOpTransactionScope) StockItemRepo() inventory.StockItemRepository {
	return s.stockItemRepo
}

// MovementRepo returns the stock movement repository
func (s *NoOpTransactionScope) MovementRepo() inventory.StockMovementRepository {
	return s.movementRepo
}

// LotRepo returns the stock lot repository
func (s *NoOpTransactionScope) LotRepo() inventory.StockLotRepository {
	return s.lotRepo
}

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
