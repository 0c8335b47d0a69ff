package trade

import (
	"github.com/shopspring/decimal"

	"github.com/siscom/backend/internal/domain/shared"
)

// Event types for the trade context
const (
	EventTypeSalesOrderCreated      = "trade.sales_order_created"
	EventTypeSalesOrderFinalized    = "trade.sales_order_finalized"
	EventTypeSalesOrderCancelled    = "trade.sales_order_cancelled"
	EventTypePurchaseOrderCreated   = "trade.purchase_order_created"
	EventTypePurchaseOrderApproved  = "trade.purchase_order_approved"
	EventTypePurchaseOrderReceived  = "trade.purchase_order_received"
	EventTypePurchaseOrderCancelled = "trade.purchase_order_cancelled"
	EventTypeServiceOrderCreated    = "trade.service_order_created"
	EventTypeServiceOrderCompleted  = "trade.service_order_completed"
	EventTypeServiceOrderInvoiced   = "trade.service_order_invoiced"
)

// SalesOrderCreatedEvent is emitted when a sale is created
type SalesOrderCreatedEvent struct {
	shared.BaseDomainEvent
	OrderNumber string `json:"order_number"`
}

// NewSalesOrderCreatedEvent creates a new SalesOrderCreatedEvent
func NewSalesOrderCreatedEvent(order *SalesOrder) *SalesOrderCreatedEvent {
	return &SalesOrderCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSalesOrderCreated, "SalesOrder", order.ID),
		OrderNumber:     order.OrderNumber,
	}
}

// SalesOrderFinalizedEvent is emitted when a sale is finalized against stock
type SalesOrderFinalizedEvent struct {
	shared.BaseDomainEvent
	OrderNumber   string          `json:"order_number"`
	PayableAmount decimal.Decimal `json:"payable_amount"`
}

// NewSalesOrderFinalizedEvent creates a new SalesOrderFinalizedEvent
func NewSalesOrderFinalizedEvent(order *SalesOrder) *SalesOrderFinalizedEvent {
	return &SalesOrderFinalizedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSalesOrderFinalized, "SalesOrder", order.ID),
		OrderNumber:     order.OrderNumber,
		PayableAmount:   order.PayableAmount,
	}
}

// SalesOrderCancelledEvent is emitted when a sale is cancelled
type SalesOrderCancelledEvent struct {
	shared.BaseDomainEvent
	OrderNumber  string `json:"order_number"`
	WasFinalized bool   `json:"was_finalized"` // True when the cancel must reverse stock
	CancelReason string `json:"cancel_reason"`
}

// NewSalesOrderCancelledEvent creates a new SalesOrderCancelledEvent
func NewSalesOrderCancelledEvent(order *SalesOrder, wasFinalized bool) *SalesOrderCancelledEvent {
	return &SalesOrderCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSalesOrderCancelled, "SalesOrder", order.ID),
		OrderNumber:     order.OrderNumber,
		WasFinalized:    wasFinalized,
		CancelReason:    order.CancelReason,
	}
}

// PurchaseOrderCreatedEvent is emitted when a purchase order is created
type PurchaseOrderCreatedEvent struct {
	shared.BaseDomainEvent
	OrderNumber string `json:"order_number"`
}

// NewPurchaseOrderCreatedEvent creates a new PurchaseOrderCreatedEvent
func NewPurchaseOrderCreatedEvent(order *PurchaseOrder) *PurchaseOrderCreatedEvent {
	return &PurchaseOrderCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePurchaseOrderCreated, "PurchaseOrder", order.ID),
		OrderNumber:     order.OrderNumber,
	}
}

// PurchaseOrderApprovedEvent is emitted when a purchase order is approved
type PurchaseOrderApprovedEvent struct {
	shared.BaseDomainEvent
	OrderNumber string `json:"order_number"`
}

// NewPurchaseOrderApprovedEvent creates a new PurchaseOrderApprovedEvent
func NewPurchaseOrderApprovedEvent(order *PurchaseOrder) *PurchaseOrderApprovedEvent {
	return &PurchaseOrderApprovedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePurchaseOrderApproved, "PurchaseOrder", order.ID),
		OrderNumber:     order.OrderNumber,
	}
}

// PurchaseOrderReceivedEvent is emitted when all lines are fully received
type PurchaseOrderReceivedEvent struct {
	shared.BaseDomainEvent
	OrderNumber   string          `json:"order_number"`
	PayableAmount decimal.Decimal `json:"payable_amount"`
}

// NewPurchaseOrderReceivedEvent creates a new PurchaseOrderReceivedEvent
func NewPurchaseOrderReceivedEvent(order *PurchaseOrder) *PurchaseOrderReceivedEvent {
	return &PurchaseOrderReceivedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePurchaseOrderReceived, "PurchaseOrder", order.ID),
		OrderNumber:     order.OrderNumber,
		PayableAmount:   order.PayableAmount,
	}
}

// PurchaseOrderCancelledEvent is emitted when a purchase order is cancelled
type PurchaseOrderCancelledEvent struct {
	shared.BaseDomainEvent
	OrderNumber  string `json:"order_number"`
	CancelReason string `json:"cancel_reason"`
}

// NewPurchaseOrderCancelledEvent creates a new PurchaseOrderCancelledEvent
func NewPurchaseOrderCancelledEvent(order *PurchaseOrder) *PurchaseOrderCancelledEvent {
	return &PurchaseOrderCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePurchaseOrderCancelled, "PurchaseOrder", order.ID),
		OrderNumber:     order.OrderNumber,
		CancelReason:    order.CancelReason,
	}
}

// ServiceOrderCreatedEvent is emitted when a service order is opened
type ServiceOrderCreatedEvent struct {
	shared.BaseDomainEvent
	OrderNumber string `json:"order_number"`
}

// NewServiceOrderCreatedEvent creates a new ServiceOrderCreatedEvent
func NewServiceOrderCreatedEvent(order *ServiceOrder) *ServiceOrderCreatedEvent {
	return &ServiceOrderCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeServiceOrderCreated, "ServiceOrder", order.ID),
		OrderNumber:     order.OrderNumber,
	}
}

// ServiceOrderCompletedEvent is emitted when the work is done
type ServiceOrderCompletedEvent struct {
	shared.BaseDomainEvent
	OrderNumber string `json:"order_number"`
}

// NewServiceOrderCompletedEvent creates a new ServiceOrderCompletedEvent
func NewServiceOrderCompletedEvent(order *ServiceOrder) *ServiceOrderCompletedEvent {
	return &ServiceOrderCompletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeServiceOrderCompleted, "ServiceOrder", order.ID),
		OrderNumber:     order.OrderNumber,
	}
}

// ServiceOrderInvoicedEvent is emitted when the OS is billed
type ServiceOrderInvoicedEvent struct {
	shared.BaseDomainEvent
	OrderNumber   string          `json:"order_number"`
	PayableAmount decimal.Decimal `json:"payable_amount"`
}

// NewServiceOrderInvoicedEvent creates a new ServiceOrderInvoicedEvent
func NewServiceOrderInvoicedEvent(order *ServiceOrder) *ServiceOrderInvoicedEvent {
	return &ServiceOrderInvoicedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeServiceOrderInvoiced, "ServiceOrder", order.ID),
		OrderNumber:     order.OrderNumber,
		PayableAmount:   order.PayableAmount,
	}
}
