package partner

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/siscom/backend/internal/domain/partner"
)

// CustomerResponse represents a customer in API responses
type CustomerResponse struct {
	ID           uuid.UUID       `json:"id"`
	Code         string          `json:"code"`
	Name         string          `json:"name"`
	DocumentType string          `json:"document_type,omitempty"`
	Document     string          `json:"document,omitempty"`
	Phone        string          `json:"phone,omitempty"`
	Email        string          `json:"email,omitempty"`
	Address      string          `json:"address,omitempty"`
	City         string          `json:"city,omitempty"`
	State        string          `json:"state,omitempty"`
	PostalCode   string          `json:"postal_code,omitempty"`
	CreditLimit  decimal.Decimal `json:"credit_limit"`
	Status       string          `json:"status"`
	Notes        string          `json:"notes,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// ToCustomerResponse converts a customer to its response representation
func ToCustomerResponse(customer *partner.Customer) CustomerResponse {
	return CustomerResponse{
		ID:           customer.ID,
		Code:         customer.Code,
		Name:         customer.Name,
		DocumentType: string(customer.DocumentType),
		Document:     customer.Document,
		Phone:        customer.Phone,
		Email:        customer.Email,
		Address:      customer.Address,
		City:         customer.City,
		State:        customer.State,
		PostalCode:   customer.PostalCode,
		CreditLimit:  customer.CreditLimit,
		Status:       string(customer.Status),
		Notes:        customer.Notes,
		CreatedAt:    customer.CreatedAt,
		UpdatedAt:    customer.UpdatedAt,
	}
}

// SupplierResponse represents a supplier in API responses
type SupplierResponse struct {
	ID          uuid.UUID `json:"id"`
	Code        string    `json:"code"`
	Name        string    `json:"name"`
	TradeName   string    `json:"trade_name,omitempty"`
	CNPJ        string    `json:"cnpj,omitempty"`
	StateReg    string    `json:"state_reg,omitempty"`
	ContactName string    `json:"contact_name,omitempty"`
	Phone       string    `json:"phone,omitempty"`
	Email       string    `json:"email,omitempty"`
	Address     string    `json:"address,omitempty"`
	City        string    `json:"city,omitempty"`
	State       string    `json:"state,omitempty"`
	PostalCode  string    `json:"postal_code,omitempty"`
	PaymentTerm int       `json:"payment_term"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ToSupplierResponse converts a supplier to its response representation
func ToSupplierResponse(supplier *partner.Supplier) SupplierResponse {
	return SupplierResponse{
		ID:          supplier.ID,
		Code:        supplier.Code,
		Name:        supplier.Name,
		TradeName:   supplier.TradeName,
		CNPJ:        supplier.CNPJ,
		StateReg:    supplier.StateReg,
		ContactName: supplier.ContactName,
		Phone:       supplier.Phone,
		Email:       supplier.Email,
		Address:     supplier.Address,
		City:        supplier.City,
		State:       supplier.State,
		PostalCode:  supplier.PostalCode,
		PaymentTerm: supplier.PaymentTerm,
		Status:      string(supplier.Status),
		CreatedAt:   supplier.CreatedAt,
		UpdatedAt:   supplier.UpdatedAt,
	}
}

// CreateCustomerRequest represents a request to create a customer
type CreateCustomerRequest struct {
	Code         string          `json:"code" binding:"required"`
	Name         string          `json:"name" binding:"required"`
	DocumentType string          `json:"document_type" binding:"omitempty,oneof=CPF CNPJ"`
	Document     string          `json:"document" binding:"omitempty,cpfcnpj"`
	Phone        string          `json:"phone"`
	Email        string          `json:"email"`
	Address      string          `json:"address"`
	City         string          `json:"city"`
	State        string          `json:"state"`
	PostalCode   string          `json:"postal_code"`
	CreditLimit  decimal.Decimal `json:"credit_limit"`
	Notes        string          `json:"notes"`
}

// UpdateCustomerRequest represents a request to update a customer
type UpdateCustomerRequest struct {
	Name        string          `json:"name" binding:"required"`
	Phone       string          `json:"phone"`
	Email       string          `json:"email"`
	Address     string          `json:"address"`
	City        string          `json:"city"`
	State       string          `json:"state"`
	PostalCode  string          `json:"postal_code"`
	CreditLimit decimal.Decimal `json:"credit_limit"`
	Notes       string          `json:"notes"`
}

// CreateSupplierRequest represents a request to create a supplier
type CreateSupplierRequest struct {
	Code        string `json:"code" binding:"required"`
	Name        string `json:"name" binding:"required"`
	TradeName   string `json:"trade_name"`
	CNPJ        string `json:"cnpj" binding:"omitempty,cnpj"`
	ContactName string `json:"contact_name"`
	Phone       string `json:"phone"`
	Email       string `json:"email"`
	Address     string `json:"address"`
	City        string `json:"city"`
	State       string `json:"state"`
	PostalCode  string `json:"postal_code"`
	PaymentTerm int    `json:"payment_term"`
}

// PartnerListFilter represents filter options for customer/supplier listings
type PartnerListFilter struct {
	Search   string `form:"search"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}
