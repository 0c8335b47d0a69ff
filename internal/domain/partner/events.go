package partner

import (
	"github.com/siscom/backend/internal/domain/shared"
)

// Event types for the partner context
const (
	EventTypeCustomerCreated = "partner.customer_created"
	EventTypeCustomerUpdated = "partner.customer_updated"
	EventTypeSupplierCreated = "partner.supplier_created"
)

// CustomerCreatedEvent is emitted when a customer is created
type CustomerCreatedEvent struct {
	shared.BaseDomainEvent
	Code string `json:"code"`
	Name string `json:"name"`
}

// NewCustomerCreatedEvent creates a new CustomerCreatedEvent
func NewCustomerCreatedEvent(customer *Customer) *CustomerCreatedEvent {
	return &CustomerCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCustomerCreated, "Customer", customer.ID),
		Code:            customer.Code,
		Name:            customer.Name,
	}
}

// CustomerUpdatedEvent is emitted when customer information changes
type CustomerUpdatedEvent struct {
	shared.BaseDomainEvent
	Code string `json:"code"`
	Name string `json:"name"`
}

// NewCustomerUpdatedEvent creates a new CustomerUpdatedEvent
func NewCustomerUpdatedEvent(customer *Customer) *CustomerUpdatedEvent {
	return &CustomerUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCustomerUpdated, "Customer", customer.ID),
		Code:            customer.Code,
		Name:            customer.Name,
	}
}

// SupplierCreatedEvent is emitted when a supplier is created
type SupplierCreatedEvent struct {
	shared.BaseDomainEvent
	Code string `json:"code"`
	Name string `json:"name"`
}

// NewSupplierCreatedEvent creates a new SupplierCreatedEvent
func NewSupplierCreatedEvent(supplier *Supplier) *SupplierCreatedEvent {
	return &SupplierCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSupplierCreated, "Supplier", supplier.ID),
		Code:            supplier.Code,
		Name:            supplier.Name,
	}
}
