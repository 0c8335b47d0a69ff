package catalog

import (
	"github.com/shopspring/decimal"

	"github.com/siscom/backend/internal/domain/shared"
)

// Event types for the catalog context
const (
	EventTypeProductCreated       = "catalog.product_created"
	EventTypeProductUpdated       = "catalog.product_updated"
	EventTypeProductPriceChanged  = "catalog.product_price_changed"
	EventTypeProductStatusChanged = "catalog.product_status_changed"
)

const aggregateTypeProduct = "Product"

// ProductCreatedEvent is emitted when a product is created
type ProductCreatedEvent struct {
	shared.BaseDomainEvent
	Code string `json:"code"`
	Name string `json:"name"`
}

// NewProductCreatedEvent creates a new ProductCreatedEvent
func NewProductCreatedEvent(product *Product) *ProductCreatedEvent {
	return &ProductCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductCreated, aggregateTypeProduct, product.ID),
		Code:            product.Code,
		Name:            product.Name,
	}
}

// ProductUpdatedEvent is emitted when product information changes
type ProductUpdatedEvent struct {
	shared.BaseDomainEvent
	Code string `json:"code"`
	Name string `json:"name"`
}

// NewProductUpdatedEvent creates a new ProductUpdatedEvent
func NewProductUpdatedEvent(product *Product) *ProductUpdatedEvent {
	return &ProductUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductUpdated, aggregateTypeProduct, product.ID),
		Code:            product.Code,
		Name:            product.Name,
	}
}

// ProductPriceChangedEvent is emitted when reference prices change
type ProductPriceChangedEvent struct {
	shared.BaseDomainEvent
	OldCostPrice decimal.Decimal `json:"old_cost_price"`
	OldSalePrice decimal.Decimal `json:"old_sale_price"`
	NewCostPrice decimal.Decimal `json:"new_cost_price"`
	NewSalePrice decimal.Decimal `json:"new_sale_price"`
}

// NewProductPriceChangedEvent creates a new ProductPriceChangedEvent
func NewProductPriceChangedEvent(product *Product, oldCost, oldSale decimal.Decimal) *ProductPriceChangedEvent {
	return &ProductPriceChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductPriceChanged, aggregateTypeProduct, product.ID),
		OldCostPrice:    oldCost,
		OldSalePrice:    oldSale,
		NewCostPrice:    product.CostPrice,
		NewSalePrice:    product.SalePrice,
	}
}

// ProductStatusChangedEvent is emitted when the lifecycle status changes
type ProductStatusChangedEvent struct {
	shared.BaseDomainEvent
	OldStatus ProductStatus `json:"old_status"`
	NewStatus ProductStatus `json:"new_status"`
}

// NewProductStatusChangedEvent creates a new ProductStatusChangedEvent
func NewProductStatusChangedEvent(product *Product, oldStatus, newStatus ProductStatus) *ProductStatusChangedEvent {
	return &ProductStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductStatusChanged, aggregateTypeProduct, product.ID),
		OldStatus:       oldStatus,
		NewStatus:       newStatus,
	}
}
