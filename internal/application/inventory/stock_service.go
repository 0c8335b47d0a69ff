package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/siscom/backend/internal/domain/catalog"
	"github.com/siscom/backend/internal/domain/inventory"
	"github.com/siscom/backend/internal/domain/shared"
	"github.com/siscom/backend/internal/domain/shared/valueobject"
)

const (
	costMethodMovingAverage = "moving_average"
	costMethodFIFO          = "fifo"
)

// StockService handles stock ledger operations. Every balance mutation
// records a movement in the same transaction, so the stored balance is
// always derivable by replaying the ledger.
type StockService struct {
	scope          TransactionScope
	stockItemRepo  inventory.StockItemRepository
	movementRepo   inventory.StockMovementRepository
	lotRepo        inventory.StockLotRepository
	productRepo    catalog.ProductRepository
	policy         inventory.AllocationPolicy
	eventPublisher shared.EventPublisher
}

// NewStockService creates a new StockService
func NewStockService(
	scope TransactionScope,
	stockItemRepo inventory.StockItemRepository,
	movementRepo inventory.StockMovementRepository,
	lotRepo inventory.StockLotRepository,
	productRepo catalog.ProductRepository,
	policy inventory.AllocationPolicy,
) *StockService {
	return &StockService{
		scope:         scope,
		stockItemRepo: stockItemRepo,
		movementRepo:  movementRepo,
		lotRepo:       lotRepo,
		productRepo:   productRepo,
		policy:        policy,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *StockService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

func (s *StockService) publishDomainEvents(ctx context.Context, item *inventory.StockItem) {
	if s.eventPublisher == nil {
		return
	}
	events := item.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
	item.ClearDomainEvents()
}

// GetByProduct retrieves the stock position of a product
func (s *StockService) GetByProduct(ctx context.Context, productID uuid.UUID) (*StockItemResponse, error) {
	item, err := s.stockItemRepo.FindByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	response := ToStockItemResponse(item)
	return &response, nil
}

// List retrieves stock positions with pagination
func (s *StockService) List(ctx context.Context, filter StockListFilter) ([]StockItemResponse, int64, error) {
	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
		Filters:  make(map[string]interface{}),
	}.Normalize()

	var items []inventory.StockItem
	var err error
	if filter.BelowMinimum != nil && *filter.BelowMinimum {
		items, err = s.stockItemRepo.FindBelowMinimum(ctx, domainFilter)
	} else {
		items, err = s.stockItemRepo.FindAll(ctx, domainFilter)
	}
	if err != nil {
		return nil, 0, err
	}

	total, err := s.stockItemRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]StockItemResponse, 0, len(items))
	for i := range items {
		responses = append(responses, ToStockItemResponse(&items[i]))
	}
	return responses, total, nil
}

// GetInventoryValue returns the total inventory value at current unit cost
func (s *StockService) GetInventoryValue(ctx context.Context) (decimal.Decimal, error) {
	return s.stockItemRepo.SumTotalValue(ctx)
}

// EnterStock brings stock in, recalculating the moving average cost and
// recording the movement. For lot-tracked products a lot number is required
// and a lot is created or topped up within the same transaction.
func (s *StockService) EnterStock(ctx context.Context, req EnterStockRequest) (*StockItemResponse, error) {
	product, err := s.productRepo.FindByID(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}
	if product.TracksLot && req.LotNumber == "" {
		return nil, shared.NewDomainError("MISSING_LOT_NUMBER", "Produto controlado por lote exige número do lote")
	}

	var item *inventory.StockItem
	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var txErr error
		item, txErr = repos.StockItemRepo().GetOrCreate(ctx, req.ProductID)
		if txErr != nil {
			return txErr
		}

		balanceBefore := item.AvailableQuantity
		if txErr = item.Enter(req.Quantity, valueobject.NewMoneyBRL(req.UnitCost)); txErr != nil {
			return txErr
		}

		var lotID *uuid.UUID
		if product.TracksLot {
			if existing := item.FindLot(req.LotNumber); existing != nil {
				if lotErr := existing.TopUp(req.Quantity, req.UnitCost); lotErr != nil {
					return lotErr
				}
				lotID = &existing.ID
			} else {
				lot, lotErr := inventory.NewStockLot(item.ID, req.ProductID, req.LotNumber, req.ManufactureDate, req.ExpiryDate, req.Quantity, req.UnitCost)
				if lotErr != nil {
					return lotErr
				}
				item.Lots = append(item.Lots, *lot)
				lotID = &lot.ID
			}
		}

		if txErr = repos.StockItemRepo().SaveWithLock(ctx, item); txErr != nil {
			return txErr
		}

		movement, txErr := inventory.NewStockMovement(item.ID, req.ProductID, inventory.MovementTypeEntry, req.Quantity, item.UnitCost, balanceBefore, item.AvailableQuantity)
		if txErr != nil {
			return txErr
		}
		movement.WithCostMethod(costMethodMovingAverage)
		if req.DocumentRef != "" {
			movement.WithDocumentRef(req.DocumentRef)
		}
		if lotID != nil {
			movement.WithLotID(*lotID)
		}
		return repos.MovementRepo().Save(ctx, movement)
	})
	if err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, item)
	response := ToStockItemResponse(item)
	return &response, nil
}

// ExitStock takes stock out. Lot-tracked products consume lots FIFO by
// expiry date; the whole exit fails if the eligible lots cannot cover the
// request. One movement is recorded per consumed lot so the ledger carries
// the lot breakdown.
func (s *StockService) ExitStock(ctx context.Context, req ExitStockRequest) (*StockItemResponse, error) {
	product, err := s.productRepo.FindByID(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}

	var item *inventory.StockItem
	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var txErr error
		item, txErr = repos.StockItemRepo().FindByProduct(ctx, req.ProductID)
		if txErr != nil {
			return txErr
		}

		balanceBefore := item.AvailableQuantity
		var plan *inventory.ConsumptionPlan
		if product.TracksLot {
			plan, txErr = inventory.BuildConsumptionPlan(req.Quantity, item.Lots, s.policy, time.Now())
			if txErr != nil {
				return txErr
			}
			lots := make([]*inventory.StockLot, len(item.Lots))
			for i := range item.Lots {
				lots[i] = &item.Lots[i]
			}
			if txErr = inventory.ApplyConsumptionPlan(lots, plan); txErr != nil {
				return txErr
			}
		}

		if txErr = item.Exit(req.Quantity); txErr != nil {
			return txErr
		}
		if txErr = repos.StockItemRepo().SaveWithLock(ctx, item); txErr != nil {
			return txErr
		}

		movements, txErr := s.buildExitMovements(item, req, plan, balanceBefore)
		if txErr != nil {
			return txErr
		}
		return repos.MovementRepo().SaveBatch(ctx, movements)
	})
	if err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, item)
	response := ToStockItemResponse(item)
	return &response, nil
}

// buildExitMovements chains balance-before/after across the exit, one
// movement per lot allocation for lot-tracked products.
func (s *StockService) buildExitMovements(item *inventory.StockItem, req ExitStockRequest, plan *inventory.ConsumptionPlan, balanceBefore decimal.Decimal) ([]inventory.StockMovement, error) {
	if plan == nil {
		movement, err := inventory.NewStockMovement(item.ID, req.ProductID, inventory.MovementTypeExit, req.Quantity, item.UnitCost, balanceBefore, balanceBefore.Sub(req.Quantity))
		if err != nil {
			return nil, err
		}
		movement.WithCostMethod(costMethodMovingAverage)
		if req.DocumentRef != "" {
			movement.WithDocumentRef(req.DocumentRef)
		}
		return []inventory.StockMovement{*movement}, nil
	}

	movements := make([]inventory.StockMovement, 0, len(plan.Allocations))
	running := balanceBefore
	for _, allocation := range plan.Allocations {
		movement, err := inventory.NewStockMovement(item.ID, req.ProductID, inventory.MovementTypeExit, allocation.Quantity, allocation.UnitCost, running, running.Sub(allocation.Quantity))
		if err != nil {
			return nil, err
		}
		movement.WithCostMethod(costMethodFIFO)
		movement.WithLotID(allocation.LotID)
		if req.DocumentRef != "" {
			movement.WithDocumentRef(req.DocumentRef)
		}
		movements = append(movements, *movement)
		running = running.Sub(allocation.Quantity)
	}
	return movements, nil
}

// AdjustStock applies a signed manual correction with a mandatory justification
func (s *StockService) AdjustStock(ctx context.Context, req AdjustStockRequest) (*StockItemResponse, error) {
	var item *inventory.StockItem
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var txErr error
		item, txErr = repos.StockItemRepo().FindByProduct(ctx, req.ProductID)
		if txErr != nil {
			return txErr
		}

		balanceBefore := item.AvailableQuantity
		if txErr = item.Adjust(req.SignedQuantity, req.Justification); txErr != nil {
			return txErr
		}
		if txErr = repos.StockItemRepo().SaveWithLock(ctx, item); txErr != nil {
			return txErr
		}

		movType := inventory.MovementTypeAdjustmentPositive
		if req.SignedQuantity.IsNegative() {
			movType = inventory.MovementTypeAdjustmentNegative
		}
		movement, txErr := inventory.NewStockMovement(item.ID, req.ProductID, movType, req.SignedQuantity.Abs(), item.UnitCost, balanceBefore, item.AvailableQuantity)
		if txErr != nil {
			return txErr
		}
		movement.WithJustification(req.Justification)
		return repos.MovementRepo().Save(ctx, movement)
	})
	if err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, item)
	response := ToStockItemResponse(item)
	return &response, nil
}

// ReserveStock holds quantity for a pending order without consuming it.
// Lot-tracked products pin the hold to the named lot. Only the counters
// move, no ledger movement is recorded; consumption happens when the order
// finalizes.
func (s *StockService) ReserveStock(ctx context.Context, req ReserveStockRequest) (*StockItemResponse, error) {
	product, err := s.productRepo.FindByID(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}
	if product.TracksLot && req.LotNumber == "" {
		return nil, shared.NewDomainError("MISSING_LOT_NUMBER", "Produto controlado por lote exige número do lote")
	}

	var item *inventory.StockItem
	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var txErr error
		item, txErr = repos.StockItemRepo().FindByProduct(ctx, req.ProductID)
		if txErr != nil {
			return txErr
		}

		if product.TracksLot {
			lot := item.FindLot(req.LotNumber)
			if lot == nil {
				return shared.NewDomainError("LOT_NOT_FOUND", "Lote não encontrado para o produto")
			}
			if txErr = lot.Reserve(req.Quantity); txErr != nil {
				return txErr
			}
		}
		if txErr = item.Reserve(req.Quantity); txErr != nil {
			return txErr
		}
		return repos.StockItemRepo().SaveWithLock(ctx, item)
	})
	if err != nil {
		return nil, err
	}

	response := ToStockItemResponse(item)
	return &response, nil
}

// ReleaseStock returns a previous hold to available stock
func (s *StockService) ReleaseStock(ctx context.Context, req ReleaseStockRequest) (*StockItemResponse, error) {
	product, err := s.productRepo.FindByID(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}
	if product.TracksLot && req.LotNumber == "" {
		return nil, shared.NewDomainError("MISSING_LOT_NUMBER", "Produto controlado por lote exige número do lote")
	}

	var item *inventory.StockItem
	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var txErr error
		item, txErr = repos.StockItemRepo().FindByProduct(ctx, req.ProductID)
		if txErr != nil {
			return txErr
		}

		if product.TracksLot {
			lot := item.FindLot(req.LotNumber)
			if lot == nil {
				return shared.NewDomainError("LOT_NOT_FOUND", "Lote não encontrado para o produto")
			}
			if txErr = lot.Release(req.Quantity); txErr != nil {
				return txErr
			}
		}
		if txErr = item.Release(req.Quantity); txErr != nil {
			return txErr
		}
		return repos.StockItemRepo().SaveWithLock(ctx, item)
	})
	if err != nil {
		return nil, err
	}

	response := ToStockItemResponse(item)
	return &response, nil
}

// SetThresholds sets the minimum and maximum alert levels for a product
func (s *StockService) SetThresholds(ctx context.Context, req SetThresholdsRequest) (*StockItemResponse, error) {
	item, err := s.stockItemRepo.FindByProduct(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}
	if err := item.SetMinQuantity(req.MinQuantity); err != nil {
		return nil, err
	}
	if err := item.SetMaxQuantity(req.MaxQuantity); err != nil {
		return nil, err
	}
	if err := s.stockItemRepo.SaveWithLock(ctx, item); err != nil {
		return nil, err
	}
	response := ToStockItemResponse(item)
	return &response, nil
}

// ListMovements retrieves the movement ledger for a product, oldest first
func (s *StockService) ListMovements(ctx context.Context, productID uuid.UUID, filter StockListFilter) ([]MovementResponse, int64, error) {
	item, err := s.stockItemRepo.FindByProduct(ctx, productID)
	if err != nil {
		return nil, 0, err
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
	}.Normalize()

	movements, err := s.movementRepo.FindByStockItem(ctx, item.ID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.movementRepo.CountByStockItem(ctx, item.ID)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]MovementResponse, 0, len(movements))
	for i := range movements {
		responses = append(responses, ToMovementResponse(&movements[i]))
	}
	return responses, total, nil
}

// ListLots retrieves the lots of a product
func (s *StockService) ListLots(ctx context.Context, productID uuid.UUID, filter StockListFilter) ([]LotResponse, int64, error) {
	item, err := s.stockItemRepo.FindByProduct(ctx, productID)
	if err != nil {
		return nil, 0, err
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
	}.Normalize()

	lots, err := s.lotRepo.FindByStockItem(ctx, item.ID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.lotRepo.CountByStockItem(ctx, item.ID)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]LotResponse, 0, len(lots))
	for i := range lots {
		responses = append(responses, ToLotResponse(&lots[i]))
	}
	return responses, total, nil
}

// ListExpiringLots lists lots with stock expiring within the given days
func (s *StockService) ListExpiringLots(ctx context.Context, withinDays int, filter StockListFilter) ([]LotResponse, error) {
	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
	}.Normalize()

	lots, err := s.lotRepo.FindExpiringSoon(ctx, withinDays, domainFilter)
	if err != nil {
		return nil, err
	}

	responses := make([]LotResponse, 0, len(lots))
	for i := range lots {
		responses = append(responses, ToLotResponse(&lots[i]))
	}
	return responses, nil
}

// CheckConsistency replays the full movement ledger of a product and
// compares it with the stored balance. A mismatch is reported, never
// auto-corrected.
func (s *StockService) CheckConsistency(ctx context.Context, productID uuid.UUID) (*ConsistencyReport, error) {
	item, err := s.stockItemRepo.FindByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	filter := shared.Filter{Page: 1, PageSize: shared.MaxPageSize}
	movements := make([]inventory.StockMovement, 0)
	for {
		page, err := s.movementRepo.FindByStockItem(ctx, item.ID, filter)
		if err != nil {
			return nil, err
		}
		movements = append(movements, page...)
		if len(page) < filter.PageSize {
			break
		}
		filter.Page++
	}

	replayed := inventory.ReplayBalance(decimal.Zero, movements)
	report := &ConsistencyReport{
		ProductID:       productID,
		StoredBalance:   item.AvailableQuantity,
		ReplayedBalance: replayed,
		Consistent:      replayed.Equal(item.AvailableQuantity),
		MovementCount:   len(movements),
	}
	if !report.Consistent {
		return report, shared.ErrInternalInconsistency
	}
	return report, nil
}
