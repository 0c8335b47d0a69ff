package inventory

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/siscom/backend/internal/domain/shared"
)

// AllocationPolicy configures lot selection behavior
type AllocationPolicy struct {
	// AllowExpired permits expired lots to satisfy demand. Default is false;
	// expired lots are then skipped and reported in the plan.
	AllowExpired bool
}

// LotAllocation is one slice of a consumption plan
type LotAllocation struct {
	LotID     uuid.UUID       `json:"lot_id"`
	LotNumber string          `json:"lot_number"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitCost  decimal.Decimal `json:"unit_cost"`
}

// ConsumptionPlan is the result of a FIFO lot selection. It is a pure value:
// nothing has been consumed until ApplyConsumptionPlan commits it.
type ConsumptionPlan struct {
	Allocations     []LotAllocation `json:"allocations"`
	TotalAllocated  decimal.Decimal `json:"total_allocated"`
	TotalCost       decimal.Decimal `json:"total_cost"`
	ExpiredExcluded []uuid.UUID     `json:"expired_excluded"`
}

// WeightedAverageCost returns the average unit cost across the plan
func (p *ConsumptionPlan) WeightedAverageCost() decimal.Decimal {
	if p.TotalAllocated.IsZero() {
		return decimal.Zero
	}
	return p.TotalCost.Div(p.TotalAllocated).Round(4)
}

// BuildConsumptionPlan selects lots to satisfy the requested quantity under a
// FIFO policy: ascending expiry date, then manufacture date, then lot id as
// the final tie-break. It is deterministic and side-effect free over a
// snapshot of lot state.
//
// Fails atomically with INSUFFICIENT_LOT_STOCK when the eligible lots cannot
// cover the request; no partial plan is returned in that case.
func BuildConsumptionPlan(requested decimal.Decimal, lots []StockLot, policy AllocationPolicy, asOf time.Time) (*ConsumptionPlan, error) {
	if requested.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantidade deve ser positiva")
	}

	eligible := make([]StockLot, 0, len(lots))
	expiredExcluded := make([]uuid.UUID, 0)
	for _, lot := range lots {
		if lot.IsDepleted() {
			continue
		}
		if lot.IsExpired(asOf) && !policy.AllowExpired {
			expiredExcluded = append(expiredExcluded, lot.ID)
			continue
		}
		eligible = append(eligible, lot)
	}

	sort.Slice(eligible, func(i, j int) bool {
		return lotBefore(&eligible[i], &eligible[j])
	})

	totalAvailable := decimal.Zero
	for _, lot := range eligible {
		totalAvailable = totalAvailable.Add(lot.AvailableQuantity())
	}
	if totalAvailable.LessThan(requested) {
		return nil, shared.ErrInsufficientLotStock
	}

	plan := &ConsumptionPlan{
		Allocations:     make([]LotAllocation, 0, len(eligible)),
		TotalAllocated:  decimal.Zero,
		TotalCost:       decimal.Zero,
		ExpiredExcluded: expiredExcluded,
	}

	remaining := requested
	for _, lot := range eligible {
		if remaining.IsZero() {
			break
		}
		take := decimal.Min(remaining, lot.AvailableQuantity())
		plan.Allocations = append(plan.Allocations, LotAllocation{
			LotID:     lot.ID,
			LotNumber: lot.LotNumber,
			Quantity:  take,
			UnitCost:  lot.UnitCost,
		})
		plan.TotalAllocated = plan.TotalAllocated.Add(take)
		plan.TotalCost = plan.TotalCost.Add(take.Mul(lot.UnitCost))
		remaining = remaining.Sub(take)
	}

	return plan, nil
}

// lotBefore is the FIFO ordering: expiry asc (nil last), manufacture asc
// (nil last), then lot id for a stable total order.
func lotBefore(a, b *StockLot) bool {
	switch {
	case a.ExpiryDate != nil && b.ExpiryDate != nil:
		if !a.ExpiryDate.Equal(*b.ExpiryDate) {
			return a.ExpiryDate.Before(*b.ExpiryDate)
		}
	case a.ExpiryDate != nil:
		return true
	case b.ExpiryDate != nil:
		return false
	}

	switch {
	case a.ManufactureDate != nil && b.ManufactureDate != nil:
		if !a.ManufactureDate.Equal(*b.ManufactureDate) {
			return a.ManufactureDate.Before(*b.ManufactureDate)
		}
	case a.ManufactureDate != nil:
		return true
	case b.ManufactureDate != nil:
		return false
	}

	return a.ID.String() < b.ID.String()
}

// ApplyConsumptionPlan commits a plan against the live lot entities. The
// caller wraps this in the same transaction as the stock movement so the plan
// either applies fully or not at all.
func ApplyConsumptionPlan(lots []*StockLot, plan *ConsumptionPlan) error {
	if plan == nil {
		return shared.NewDomainError("INVALID_PLAN", "Plano de consumo não pode ser nulo")
	}

	byID := make(map[uuid.UUID]*StockLot, len(lots))
	for _, lot := range lots {
		byID[lot.ID] = lot
	}

	for _, alloc := range plan.Allocations {
		lot, ok := byID[alloc.LotID]
		if !ok {
			return shared.NewDomainError("LOT_NOT_FOUND", "Lote não encontrado: "+alloc.LotID.String())
		}
		if err := lot.Consume(alloc.Quantity); err != nil {
			return err
		}
	}

	return nil
}

// RestoreConsumptionPlan reverses a previously applied plan (sale cancel).
// Quantities return to the exact lots they were drawn from.
func RestoreConsumptionPlan(lots []*StockLot, plan *ConsumptionPlan) error {
	if plan == nil {
		return shared.NewDomainError("INVALID_PLAN", "Plano de consumo não pode ser nulo")
	}

	byID := make(map[uuid.UUID]*StockLot, len(lots))
	for _, lot := range lots {
		byID[lot.ID] = lot
	}

	for _, alloc := range plan.Allocations {
		lot, ok := byID[alloc.LotID]
		if !ok {
			return shared.NewDomainError("LOT_NOT_FOUND", "Lote não encontrado: "+alloc.LotID.String())
		}
		if err := lot.Restore(alloc.Quantity); err != nil {
			return err
		}
	}

	return nil
}
