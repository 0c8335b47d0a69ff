package trade

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

// debitStock takes stock out for an order line inside the current
// transaction. Lot-tracked products consume lots FIFO; every consumed slice
// is recorded as a movement carrying the order number so the debit can be
// reversed exactly on cancellation.
func debitStock(ctx context.Context, repos TransactionalRepositories, product *catalog.Product, policy inventory.AllocationPolicy, quantity decimal.Decimal, documentRef string) error {
	item, err := repos.StockItemRepo().GetOrCreate(ctx, product.ID)
	if err != nil {
		return err
	}

	balanceBefore := item.AvailableQuantity
	var plan *inventory.ConsumptionPlan
	if product.TracksLot {
		plan, err = inventory.BuildConsumptionPlan(quantity, item.Lots, policy, time.Now())
		if err != nil {
			return err
		}
		lots := make([]*inventory.StockLot, len(item.Lots))
		for i := range item.Lots {
			lots[i] = &item.Lots[i]
		}
		if err = inventory.ApplyConsumptionPlan(lots, plan); err != nil {
			return err
		}
	}

	if err = item.Exit(quantity); err != nil {
		return err
	}
	if err = repos.StockItemRepo().SaveWithLock(ctx, item); err != nil {
		return err
	}

	if plan == nil {
		movement, err := inventory.NewStockMovement(item.ID, product.ID, inventory.MovementTypeExit, quantity, item.UnitCost, balanceBefore, item.AvailableQuantity)
		if err != nil {
			return err
		}
		movement.WithDocumentRef(documentRef).WithCostMethod(costMethodMovingAverage)
		return repos.MovementRepo().Save(ctx, movement)
	}

	movements := make([]inventory.StockMovement, 0, len(plan.Allocations))
	running := balanceBefore
	for _, allocation := range plan.Allocations {
		movement, err := inventory.NewStockMovement(item.ID, product.ID, inventory.MovementTypeExit, allocation.Quantity, allocation.UnitCost, running, running.Sub(allocation.Quantity))
		if err != nil {
			return err
		}
		movement.WithDocumentRef(documentRef).WithCostMethod(costMethodFIFO).WithLotID(allocation.LotID)
		movements = append(movements, *movement)
		running = running.Sub(allocation.Quantity)
	}
	return repos.MovementRepo().SaveBatch(ctx, movements)
}

// enterStock brings stock in for a purchase receipt or return inside the
// current transaction, recalculating the moving average cost. A lot is
// created on first receipt of a lot number and topped up on re-receipt.
func enterStock(ctx context.Context, repos TransactionalRepositories, product *catalog.Product, quantity, unitCost decimal.Decimal, documentRef, lotNumber string, expiryDate *time.Time) error {
	item, err := repos.StockItemRepo().GetOrCreate(ctx, product.ID)
	if err != nil {
		return err
	}
	if product.TracksLot && lotNumber == "" {
		return shared.NewDomainError("MISSING_LOT_NUMBER", "Produto controlado por lote exige número do lote")
	}

	balanceBefore := item.AvailableQuantity
	if err = item.Enter(quantity, valueobject.NewMoneyBRL(unitCost)); err != nil {
		return err
	}

	var lotID *uuid.UUID
	if product.TracksLot {
		if existing := item.FindLot(lotNumber); existing != nil {
			if lotErr := existing.TopUp(quantity, unitCost); lotErr != nil {
				return lotErr
			}
			lotID = &existing.ID
		} else {
			lot, lotErr := inventory.NewStockLot(item.ID, product.ID, lotNumber, nil, expiryDate, quantity, unitCost)
			if lotErr != nil {
				return lotErr
			}
			item.Lots = append(item.Lots, *lot)
			lotID = &lot.ID
		}
	}

	if err = repos.StockItemRepo().SaveWithLock(ctx, item); err != nil {
		return err
	}

	movement, err := inventory.NewStockMovement(item.ID, product.ID, inventory.MovementTypeEntry, quantity, item.UnitCost, balanceBefore, item.AvailableQuantity)
	if err != nil {
		return err
	}
	movement.WithDocumentRef(documentRef).WithCostMethod(costMethodMovingAverage)
	if lotID != nil {
		movement.WithLotID(*lotID)
	}
	return repos.MovementRepo().Save(ctx, movement)
}

// reverseStockDebits puts back exactly what an order debited, by replaying
// the order's exit movements in reverse as entries. Lot slices are restored
// to their original lots. A reversal is always a new, opposite, auditable
// movement, never a deletion.
func reverseStockDebits(ctx context.Context, repos TransactionalRepositories, documentRef string) error {
	movements, err := repos.MovementRepo().FindByDocumentRef(ctx, documentRef)
	if err != nil {
		return err
	}

	// Group exits by product so each stock item is loaded and saved once
	byProduct := make(map[uuid.UUID][]inventory.StockMovement)
	order := make([]uuid.UUID, 0)
	for _, movement := range movements {
		if movement.Type != inventory.MovementTypeExit {
			continue
		}
		if _, seen := byProduct[movement.ProductID]; !seen {
			order = append(order, movement.ProductID)
		}
		byProduct[movement.ProductID] = append(byProduct[movement.ProductID], movement)
	}

	for _, productID := range order {
		exits := byProduct[productID]
		item, err := repos.StockItemRepo().FindByProduct(ctx, productID)
		if err != nil {
			return err
		}

		reversals := make([]inventory.StockMovement, 0, len(exits))
		for _, exit := range exits {
			if exit.LotID != nil {
				for i := range item.Lots {
					if item.Lots[i].ID == *exit.LotID {
						if err := item.Lots[i].Restore(exit.Quantity); err != nil {
							return err
						}
						break
					}
				}
			}

			balanceBefore := item.AvailableQuantity
			if err := item.Enter(exit.Quantity, valueobject.NewMoneyBRL(exit.UnitCost)); err != nil {
				return err
			}
			reversal, err := inventory.NewStockMovement(item.ID, productID, inventory.MovementTypeEntry, exit.Quantity, exit.UnitCost, balanceBefore, item.AvailableQuantity)
			if err != nil {
				return err
			}
			reversal.WithDocumentRef(documentRef).WithCostMethod(exit.CostMethod)
			if exit.LotID != nil {
				reversal.WithLotID(*exit.LotID)
			}
			reversals = append(reversals, *reversal)
		}

		if err := repos.StockItemRepo().SaveWithLock(ctx, item); err != nil {
			return err
		}
		if err := repos.MovementRepo().SaveBatch(ctx, reversals); err != nil {
			return err
		}
	}
	return nil
}
