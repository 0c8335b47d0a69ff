package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/siscom/backend/internal/domain/inventory"
)

// StockItemResponse represents a stock position in API responses
type StockItemResponse struct {
	ID                uuid.UUID       `json:"id"`
	ProductID         uuid.UUID       `json:"product_id"`
	AvailableQuantity decimal.Decimal `json:"available_quantity"`
	ReservedQuantity  decimal.Decimal `json:"reserved_quantity"`
	TotalQuantity     decimal.Decimal `json:"total_quantity"`
	UnitCost          decimal.Decimal `json:"unit_cost"`
	TotalValue        decimal.Decimal `json:"total_value"`
	MinQuantity       decimal.Decimal `json:"min_quantity"`
	MaxQuantity       decimal.Decimal `json:"max_quantity"`
	IsBelowMinimum    bool            `json:"is_below_minimum"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
	Version           int             `json:"version"`
}

// ToStockItemResponse converts a stock item to its response representation
func ToStockItemResponse(item *inventory.StockItem) StockItemResponse {
	return StockItemResponse{
		ID:                item.ID,
		ProductID:         item.ProductID,
		AvailableQuantity: item.AvailableQuantity,
		ReservedQuantity:  item.ReservedQuantity,
		TotalQuantity:     item.TotalQuantity(),
		UnitCost:          item.UnitCost,
		TotalValue:        item.GetTotalValue().Amount(),
		MinQuantity:       item.MinQuantity,
		MaxQuantity:       item.MaxQuantity,
		IsBelowMinimum:    item.IsBelowMinimum(),
		CreatedAt:         item.CreatedAt,
		UpdatedAt:         item.UpdatedAt,
		Version:           item.GetVersion(),
	}
}

// MovementResponse represents a ledger movement in API responses
type MovementResponse struct {
	ID            uuid.UUID       `json:"id"`
	StockItemID   uuid.UUID       `json:"stock_item_id"`
	ProductID     uuid.UUID       `json:"product_id"`
	Type          string          `json:"type"`
	Quantity      decimal.Decimal `json:"quantity"`
	UnitCost      decimal.Decimal `json:"unit_cost"`
	BalanceBefore decimal.Decimal `json:"balance_before"`
	BalanceAfter  decimal.Decimal `json:"balance_after"`
	DocumentRef   string          `json:"document_ref,omitempty"`
	Justification string          `json:"justification,omitempty"`
	LotID         *uuid.UUID      `json:"lot_id,omitempty"`
	CostMethod    string          `json:"cost_method,omitempty"`
	MovementDate  time.Time       `json:"movement_date"`
}

// ToMovementResponse converts a movement to its response representation
func ToMovementResponse(movement *inventory.StockMovement) MovementResponse {
	return MovementResponse{
		ID:            movement.ID,
		StockItemID:   movement.StockItemID,
		ProductID:     movement.ProductID,
		Type:          movement.Type.String(),
		Quantity:      movement.Quantity,
		UnitCost:      movement.UnitCost,
		BalanceBefore: movement.BalanceBefore,
		BalanceAfter:  movement.BalanceAfter,
		DocumentRef:   movement.DocumentRef,
		Justification: movement.Justification,
		LotID:         movement.LotID,
		CostMethod:    movement.CostMethod,
		MovementDate:  movement.MovementDate,
	}
}

// LotResponse represents a stock lot in API responses
type LotResponse struct {
	ID                uuid.UUID       `json:"id"`
	StockItemID       uuid.UUID       `json:"stock_item_id"`
	ProductID         uuid.UUID       `json:"product_id"`
	LotNumber         string          `json:"lot_number"`
	ManufactureDate   *time.Time      `json:"manufacture_date,omitempty"`
	ExpiryDate        *time.Time      `json:"expiry_date,omitempty"`
	ReceivedQuantity  decimal.Decimal `json:"received_quantity"`
	ConsumedQuantity  decimal.Decimal `json:"consumed_quantity"`
	ReservedQuantity  decimal.Decimal `json:"reserved_quantity"`
	AvailableQuantity decimal.Decimal `json:"available_quantity"`
	UnitCost          decimal.Decimal `json:"unit_cost"`
	IsExpired         bool            `json:"is_expired"`
}

// ToLotResponse converts a lot to its response representation
func ToLotResponse(lot *inventory.StockLot) LotResponse {
	return LotResponse{
		ID:                lot.ID,
		StockItemID:       lot.StockItemID,
		ProductID:         lot.ProductID,
		LotNumber:         lot.LotNumber,
		ManufactureDate:   lot.ManufactureDate,
		ExpiryDate:        lot.ExpiryDate,
		ReceivedQuantity:  lot.ReceivedQuantity,
		ConsumedQuantity:  lot.ConsumedQuantity,
		ReservedQuantity:  lot.ReservedQuantity,
		AvailableQuantity: lot.AvailableQuantity(),
		UnitCost:          lot.UnitCost,
		IsExpired:         lot.IsExpired(time.Now()),
	}
}

// EnterStockRequest represents a request to bring stock in
type EnterStockRequest struct {
	ProductID       uuid.UUID       `json:"product_id" binding:"required"`
	Quantity        decimal.Decimal `json:"quantity" binding:"required"`
	UnitCost        decimal.Decimal `json:"unit_cost" binding:"required"`
	DocumentRef     string          `json:"document_ref"`
	LotNumber       string          `json:"lot_number"`
	ManufactureDate *time.Time      `json:"manufacture_date"`
	ExpiryDate      *time.Time      `json:"expiry_date"`
}

// ExitStockRequest represents a request to take stock out
type ExitStockRequest struct {
	ProductID   uuid.UUID       `json:"product_id" binding:"required"`
	Quantity    decimal.Decimal `json:"quantity" binding:"required"`
	DocumentRef string          `json:"document_ref"`
}

// ReserveStockRequest holds stock for a pending order
type ReserveStockRequest struct {
	ProductID   uuid.UUID       `json:"product_id" binding:"required"`
	Quantity    decimal.Decimal `json:"quantity" binding:"required"`
	LotNumber   string          `json:"lot_number"`
	DocumentRef string          `json:"document_ref"`
}

// ReleaseStockRequest returns a previous hold to available stock
type ReleaseStockRequest struct {
	ProductID uuid.UUID       `json:"product_id" binding:"required"`
	Quantity  decimal.Decimal `json:"quantity" binding:"required"`
	LotNumber string          `json:"lot_number"`
}

// AdjustStockRequest represents a manual stock correction
type AdjustStockRequest struct {
	ProductID      uuid.UUID       `json:"product_id" binding:"required"`
	SignedQuantity decimal.Decimal `json:"signed_quantity" binding:"required"`
	Justification  string          `json:"justification" binding:"required"`
}

// SetThresholdsRequest sets min/max alert levels for a product
type SetThresholdsRequest struct {
	ProductID   uuid.UUID       `json:"product_id" binding:"required"`
	MinQuantity decimal.Decimal `json:"min_quantity"`
	MaxQuantity decimal.Decimal `json:"max_quantity"`
}

// StockListFilter represents filter options for stock listings
type StockListFilter struct {
	Search       string `form:"search"`
	BelowMinimum *bool  `form:"below_minimum"`
	Page         int    `form:"page" binding:"omitempty,min=1"`
	PageSize     int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy      string `form:"order_by"`
	OrderDir     string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ConsistencyReport is the result of replaying the movement ledger
// against the stored balance of a product.
type ConsistencyReport struct {
	ProductID       uuid.UUID       `json:"product_id"`
	StoredBalance   decimal.Decimal `json:"stored_balance"`
	ReplayedBalance decimal.Decimal `json:"replayed_balance"`
	Consistent      bool            `json:"consistent"`
	MovementCount   int             `json:"movement_count"`
}
