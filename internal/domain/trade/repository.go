package trade

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/siscom/backend/internal/domain/shared"
)

// SalesOrderRepository defines the interface for sale persistence
type SalesOrderRepository interface {
	// FindByID finds a sale by its ID (items loaded)
	FindByID(ctx context.Context, id uuid.UUID) (*SalesOrder, error)

	// FindByOrderNumber finds a sale by its document number
	FindByOrderNumber(ctx context.Context, orderNumber string) (*SalesOrder, error)

	// FindAll finds sales matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]SalesOrder, error)

	// FindByCustomer finds sales for a customer
	FindByCustomer(ctx context.Context, customerID uuid.UUID, filter shared.Filter) ([]SalesOrder, error)

	// FindByStatus finds sales with the given status
	FindByStatus(ctx context.Context, status SaleStatus, filter shared.Filter) ([]SalesOrder, error)

	// FindByDateRange finds sales finalized within a period
	FindByDateRange(ctx context.Context, from, to time.Time, filter shared.Filter) ([]SalesOrder, error)

	// Save creates or updates a sale with its items
	Save(ctx context.Context, order *SalesOrder) error

	// Delete deletes a sale
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts sales matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}

// PurchaseOrderRepository defines the interface for purchase order persistence
type PurchaseOrderRepository interface {
	// FindByID finds a purchase order by its ID (items loaded)
	FindByID(ctx context.Context, id uuid.UUID) (*PurchaseOrder, error)

	// FindByOrderNumber finds a purchase order by its document number
	FindByOrderNumber(ctx context.Context, orderNumber string) (*PurchaseOrder, error)

	// FindAll finds purchase orders matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]PurchaseOrder, error)

	// FindBySupplier finds purchase orders for a supplier
	FindBySupplier(ctx context.Context, supplierID uuid.UUID, filter shared.Filter) ([]PurchaseOrder, error)

	// FindByStatus finds purchase orders with the given status
	FindByStatus(ctx context.Context, status PurchaseOrderStatus, filter shared.Filter) ([]PurchaseOrder, error)

	// Save creates or updates a purchase order with its items
	Save(ctx context.Context, order *PurchaseOrder) error

	// Delete deletes a purchase order
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts purchase orders matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}

// ServiceOrderRepository defines the interface for service order persistence
type ServiceOrderRepository interface {
	// FindByID finds a service order by its ID (items loaded)
	FindByID(ctx context.Context, id uuid.UUID) (*ServiceOrder, error)

	// FindByOrderNumber finds a service order by its document number
	FindByOrderNumber(ctx context.Context, orderNumber string) (*ServiceOrder, error)

	// FindAll finds service orders matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]ServiceOrder, error)

	// FindByCustomer finds service orders for a customer
	FindByCustomer(ctx context.Context, customerID uuid.UUID, filter shared.Filter) ([]ServiceOrder, error)

	// FindByStatus finds service orders with the given status
	FindByStatus(ctx context.Context, status ServiceOrderStatus, filter shared.Filter) ([]ServiceOrder, error)

	// Save creates or updates a service order with its items
	Save(ctx context.Context, order *ServiceOrder) error

	// Delete deletes a service order
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts service orders matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}

// QuotationRepository defines the interface for quotation persistence
type QuotationRepository interface {
	// FindByID finds a quotation by its ID (items loaded)
	FindByID(ctx context.Context, id uuid.UUID) (*Quotation, error)

	// FindByQuotationNumber finds a quotation by its document number
	FindByQuotationNumber(ctx context.Context, quotationNumber string) (*Quotation, error)

	// FindAll finds quotations matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]Quotation, error)

	// FindByCustomer finds quotations for a customer
	FindByCustomer(ctx context.Context, customerID uuid.UUID, filter shared.Filter) ([]Quotation, error)

	// FindByStatus finds quotations with the given status
	FindByStatus(ctx context.Context, status QuotationStatus, filter shared.Filter) ([]Quotation, error)

	// Save creates or updates a quotation with its items
	Save(ctx context.Context, quotation *Quotation) error

	// Delete deletes a quotation
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts quotations matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}
