package trade

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/siscom/backend/internal/domain/trade"
)

// OrderItemRequest is one line of an order being created
type OrderItemRequest struct {
	ProductID uuid.UUID        `json:"product_id" binding:"required"`
	Quantity  decimal.Decimal  `json:"quantity" binding:"required"`
	UnitPrice *decimal.Decimal `json:"unit_price"` // Defaults to the catalog price
	Discount  decimal.Decimal  `json:"discount"`
}

// ServiceItemRequest is one line of a service order, part or labor
type ServiceItemRequest struct {
	ProductID   *uuid.UUID      `json:"product_id"` // Nil for labor lines
	Description string          `json:"description" binding:"required"`
	Quantity    decimal.Decimal `json:"quantity" binding:"required"`
	UnitPrice   decimal.Decimal `json:"unit_price" binding:"required"`
}

// CreateSaleRequest represents a request to create a sale
type CreateSaleRequest struct {
	CustomerID    *uuid.UUID         `json:"customer_id"` // Nil for counter sales
	Items         []OrderItemRequest `json:"items" binding:"required"`
	Discount      decimal.Decimal    `json:"discount"`
	ExtraCharges  decimal.Decimal    `json:"extra_charges"`
	PaymentMethod string             `json:"payment_method"`
	Remark        string             `json:"remark"`
}

// CreatePurchaseRequest represents a request to create a purchase order
type CreatePurchaseRequest struct {
	SupplierID   uuid.UUID          `json:"supplier_id" binding:"required"`
	Items        []OrderItemRequest `json:"items" binding:"required"`
	Discount     decimal.Decimal    `json:"discount"`
	ExpectedDate *time.Time         `json:"expected_date"`
	Remark       string             `json:"remark"`
}

// ReceiveItemRequest represents a receipt of one purchase order line
type ReceiveItemRequest struct {
	ItemID     uuid.UUID       `json:"item_id" binding:"required"`
	Quantity   decimal.Decimal `json:"quantity" binding:"required"`
	LotNumber  string          `json:"lot_number"`
	ExpiryDate *time.Time      `json:"expiry_date"`
}

// CreateServiceOrderRequest represents a request to open a service order
type CreateServiceOrderRequest struct {
	CustomerID  uuid.UUID            `json:"customer_id" binding:"required"`
	Description string               `json:"description" binding:"required"`
	Items       []ServiceItemRequest `json:"items" binding:"required"`
}

// CreateQuotationRequest represents a request to create a quotation
type CreateQuotationRequest struct {
	CustomerID uuid.UUID          `json:"customer_id" binding:"required"`
	Items      []OrderItemRequest `json:"items" binding:"required"`
	Discount   decimal.Decimal    `json:"discount"`
	ValidUntil *time.Time         `json:"valid_until"`
	Remark     string             `json:"remark"`
}

// CancelRequest carries the reason for a cancellation
type CancelRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// OrderItemResponse represents an order line in API responses
type OrderItemResponse struct {
	ID               uuid.UUID       `json:"id"`
	ProductID        uuid.UUID       `json:"product_id"`
	ProductName      string          `json:"product_name"`
	ProductCode      string          `json:"product_code"`
	Quantity         decimal.Decimal `json:"quantity"`
	ReceivedQuantity decimal.Decimal `json:"received_quantity,omitempty"`
	UnitPrice        decimal.Decimal `json:"unit_price"`
	Discount         decimal.Decimal `json:"discount"`
	Amount           decimal.Decimal `json:"amount"`
}

// SaleResponse represents a sale in API responses
type SaleResponse struct {
	ID             uuid.UUID           `json:"id"`
	OrderNumber    string              `json:"order_number"`
	CustomerID     *uuid.UUID          `json:"customer_id,omitempty"`
	CustomerName   string              `json:"customer_name,omitempty"`
	Items          []OrderItemResponse `json:"items"`
	TotalAmount    decimal.Decimal     `json:"total_amount"`
	DiscountAmount decimal.Decimal     `json:"discount_amount"`
	ExtraCharges   decimal.Decimal     `json:"extra_charges"`
	PayableAmount  decimal.Decimal     `json:"payable_amount"`
	Status         string              `json:"status"`
	PaymentMethod  string              `json:"payment_method,omitempty"`
	Remark         string              `json:"remark,omitempty"`
	FinalizedAt    *time.Time          `json:"finalized_at,omitempty"`
	CancelledAt    *time.Time          `json:"cancelled_at,omitempty"`
	CancelReason   string              `json:"cancel_reason,omitempty"`
	CreatedAt      time.Time           `json:"created_at"`
	UpdatedAt      time.Time           `json:"updated_at"`
}

// ToSaleResponse converts a sales order to its response representation
func ToSaleResponse(order *trade.SalesOrder) SaleResponse {
	items := make([]OrderItemResponse, 0, len(order.Items))
	for i := range order.Items {
		item := &order.Items[i]
		items = append(items, OrderItemResponse{
			ID:          item.ID,
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			ProductCode: item.ProductCode,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Discount:    item.Discount,
			Amount:      item.Amount,
		})
	}
	return SaleResponse{
		ID:             order.ID,
		OrderNumber:    order.OrderNumber,
		CustomerID:     order.CustomerID,
		CustomerName:   order.CustomerName,
		Items:          items,
		TotalAmount:    order.TotalAmount,
		DiscountAmount: order.DiscountAmount,
		ExtraCharges:   order.ExtraCharges,
		PayableAmount:  order.PayableAmount,
		Status:         order.Status.String(),
		PaymentMethod:  order.PaymentMethod,
		Remark:         order.Remark,
		FinalizedAt:    order.FinalizedAt,
		CancelledAt:    order.CancelledAt,
		CancelReason:   order.CancelReason,
		CreatedAt:      order.CreatedAt,
		UpdatedAt:      order.UpdatedAt,
	}
}

// PurchaseResponse represents a purchase order in API responses
type PurchaseResponse struct {
	ID             uuid.UUID           `json:"id"`
	OrderNumber    string              `json:"order_number"`
	SupplierID     uuid.UUID           `json:"supplier_id"`
	SupplierName   string              `json:"supplier_name"`
	Items          []OrderItemResponse `json:"items"`
	TotalAmount    decimal.Decimal     `json:"total_amount"`
	DiscountAmount decimal.Decimal     `json:"discount_amount"`
	PayableAmount  decimal.Decimal     `json:"payable_amount"`
	Status         string              `json:"status"`
	ExpectedDate   *time.Time          `json:"expected_date,omitempty"`
	Remark         string              `json:"remark,omitempty"`
	ApprovedAt     *time.Time          `json:"approved_at,omitempty"`
	ReceivedAt     *time.Time          `json:"received_at,omitempty"`
	CancelledAt    *time.Time          `json:"cancelled_at,omitempty"`
	CancelReason   string              `json:"cancel_reason,omitempty"`
	CreatedAt      time.Time           `json:"created_at"`
	UpdatedAt      time.Time           `json:"updated_at"`
}

// ToPurchaseResponse converts a purchase order to its response representation
func ToPurchaseResponse(order *trade.PurchaseOrder) PurchaseResponse {
	items := make([]OrderItemResponse, 0, len(order.Items))
	for i := range order.Items {
		item := &order.Items[i]
		items = append(items, OrderItemResponse{
			ID:               item.ID,
			ProductID:        item.ProductID,
			ProductName:      item.ProductName,
			ProductCode:      item.ProductCode,
			Quantity:         item.Quantity,
			ReceivedQuantity: item.ReceivedQuantity,
			UnitPrice:        item.UnitPrice,
			Discount:         item.Discount,
			Amount:           item.Amount,
		})
	}
	return PurchaseResponse{
		ID:             order.ID,
		OrderNumber:    order.OrderNumber,
		SupplierID:     order.SupplierID,
		SupplierName:   order.SupplierName,
		Items:          items,
		TotalAmount:    order.TotalAmount,
		DiscountAmount: order.DiscountAmount,
		PayableAmount:  order.PayableAmount,
		Status:         order.Status.String(),
		ExpectedDate:   order.ExpectedDate,
		Remark:         order.Remark,
		ApprovedAt:     order.ApprovedAt,
		ReceivedAt:     order.ReceivedAt,
		CancelledAt:    order.CancelledAt,
		CancelReason:   order.CancelReason,
		CreatedAt:      order.CreatedAt,
		UpdatedAt:      order.UpdatedAt,
	}
}

// ServiceItemResponse represents a service order line in API responses
type ServiceItemResponse struct {
	ID          uuid.UUID       `json:"id"`
	ProductID   *uuid.UUID      `json:"product_id,omitempty"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Discount    decimal.Decimal `json:"discount"`
	Amount      decimal.Decimal `json:"amount"`
	IsLabor     bool            `json:"is_labor"`
}

// ServiceOrderResponse represents a service order in API responses
type ServiceOrderResponse struct {
	ID             uuid.UUID             `json:"id"`
	OrderNumber    string                `json:"order_number"`
	CustomerID     uuid.UUID             `json:"customer_id"`
	CustomerName   string                `json:"customer_name"`
	Description    string                `json:"description"`
	Diagnosis      string                `json:"diagnosis,omitempty"`
	Items          []ServiceItemResponse `json:"items"`
	TotalAmount    decimal.Decimal       `json:"total_amount"`
	DiscountAmount decimal.Decimal       `json:"discount_amount"`
	PayableAmount  decimal.Decimal       `json:"payable_amount"`
	Status         string                `json:"status"`
	StartedAt      *time.Time            `json:"started_at,omitempty"`
	CompletedAt    *time.Time            `json:"completed_at,omitempty"`
	InvoicedAt     *time.Time            `json:"invoiced_at,omitempty"`
	CancelledAt    *time.Time            `json:"cancelled_at,omitempty"`
	CancelReason   string                `json:"cancel_reason,omitempty"`
	CreatedAt      time.Time             `json:"created_at"`
	UpdatedAt      time.Time             `json:"updated_at"`
}

// ToServiceOrderResponse converts a service order to its response representation
func ToServiceOrderResponse(order *trade.ServiceOrder) ServiceOrderResponse {
	items := make([]ServiceItemResponse, 0, len(order.Items))
	for i := range order.Items {
		item := &order.Items[i]
		items = append(items, ServiceItemResponse{
			ID:          item.ID,
			ProductID:   item.ProductID,
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Discount:    item.Discount,
			Amount:      item.Amount,
			IsLabor:     item.IsLabor,
		})
	}
	return ServiceOrderResponse{
		ID:             order.ID,
		OrderNumber:    order.OrderNumber,
		CustomerID:     order.CustomerID,
		CustomerName:   order.CustomerName,
		Description:    order.Description,
		Diagnosis:      order.Diagnosis,
		Items:          items,
		TotalAmount:    order.TotalAmount,
		DiscountAmount: order.DiscountAmount,
		PayableAmount:  order.PayableAmount,
		Status:         order.Status.String(),
		StartedAt:      order.StartedAt,
		CompletedAt:    order.CompletedAt,
		InvoicedAt:     order.InvoicedAt,
		CancelledAt:    order.CancelledAt,
		CancelReason:   order.CancelReason,
		CreatedAt:      order.CreatedAt,
		UpdatedAt:      order.UpdatedAt,
	}
}

// QuotationResponse represents a quotation in API responses
type QuotationResponse struct {
	ID              uuid.UUID           `json:"id"`
	QuotationNumber string              `json:"quotation_number"`
	CustomerID      uuid.UUID           `json:"customer_id"`
	CustomerName    string              `json:"customer_name"`
	Items           []OrderItemResponse `json:"items"`
	TotalAmount     decimal.Decimal     `json:"total_amount"`
	DiscountAmount  decimal.Decimal     `json:"discount_amount"`
	PayableAmount   decimal.Decimal     `json:"payable_amount"`
	Status          string              `json:"status"`
	ValidUntil      *time.Time          `json:"valid_until,omitempty"`
	ConvertedSaleID *uuid.UUID          `json:"converted_sale_id,omitempty"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`
}

// ToQuotationResponse converts a quotation to its response representation
func ToQuotationResponse(quotation *trade.Quotation) QuotationResponse {
	items := make([]OrderItemResponse, 0, len(quotation.Items))
	for i := range quotation.Items {
		item := &quotation.Items[i]
		items = append(items, OrderItemResponse{
			ID:          item.ID,
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			ProductCode: item.ProductCode,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Discount:    item.Discount,
			Amount:      item.Amount,
		})
	}
	return QuotationResponse{
		ID:              quotation.ID,
		QuotationNumber: quotation.QuotationNumber,
		CustomerID:      quotation.CustomerID,
		CustomerName:    quotation.CustomerName,
		Items:           items,
		TotalAmount:     quotation.TotalAmount,
		DiscountAmount:  quotation.DiscountAmount,
		PayableAmount:   quotation.PayableAmount,
		Status:          quotation.Status.String(),
		ValidUntil:      quotation.ValidUntil,
		ConvertedSaleID: quotation.ConvertedSaleID,
		CreatedAt:       quotation.CreatedAt,
		UpdatedAt:       quotation.UpdatedAt,
	}
}

// OrderListFilter represents filter options for order listings
type OrderListFilter struct {
	Status   string `form:"status"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}
