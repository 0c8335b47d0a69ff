package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	partnerapp "github.com/siscom/backend/internal/application/partner"
)

// PartnerHandler handles customer and supplier endpoints
type PartnerHandler struct {
	BaseHandler
	partnerService *partnerapp.PartnerService
}

// NewPartnerHandler creates a new PartnerHandler
func NewPartnerHandler(partnerService *partnerapp.PartnerService) *PartnerHandler {
	return &PartnerHandler{partnerService: partnerService}
}

// RegisterRoutes registers partner routes
func (h *PartnerHandler) RegisterRoutes(rg *gin.RouterGroup) {
	customers := rg.Group("/customers")
	{
		customers.POST("", h.CreateCustomer)
		customers.GET("", h.ListCustomers)
		customers.GET("/document/:document", h.GetCustomerByDocument)
		customers.GET("/:id", h.GetCustomer)
		customers.PUT("/:id", h.UpdateCustomer)
		customers.POST("/:id/suspend", h.SuspendCustomer)
	}

	suppliers := rg.Group("/suppliers")
	{
		suppliers.POST("", h.CreateSupplier)
		suppliers.GET("", h.ListSuppliers)
		suppliers.GET("/:id", h.GetSupplier)
		suppliers.POST("/:id/block", h.BlockSupplier)
	}
}

// CreateCustomer registers a new customer
func (h *PartnerHandler) CreateCustomer(c *gin.Context) {
	var req partnerapp.CreateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	resp, err := h.partnerService.CreateCustomer(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, resp)
}

// ListCustomers returns a page of customers
func (h *PartnerHandler) ListCustomers(c *gin.Context) {
	var filter partnerapp.PartnerListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}

	customers, total, err := h.partnerService.ListCustomers(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessList(c, customers, total, filter.Page, filter.PageSize)
}

// GetCustomer returns one customer by ID
func (h *PartnerHandler) GetCustomer(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	resp, err := h.partnerService.GetCustomer(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// GetCustomerByDocument returns one customer by CPF or CNPJ
func (h *PartnerHandler) GetCustomerByDocument(c *gin.Context) {
	document := c.Param("document")

	resp, err := h.partnerService.GetCustomerByDocument(c.Request.Context(), document)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// UpdateCustomer changes a customer's registration data
func (h *PartnerHandler) UpdateCustomer(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req partnerapp.UpdateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	resp, err := h.partnerService.UpdateCustomer(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// SuspendCustomer blocks a customer from new crediário sales
func (h *PartnerHandler) SuspendCustomer(c *gin.Context) {
	h.transition(c, h.partnerService.SuspendCustomer)
}

// CreateSupplier registers a new supplier
func (h *PartnerHandler) CreateSupplier(c *gin.Context) {
	var req partnerapp.CreateSupplierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	resp, err := h.partnerService.CreateSupplier(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, resp)
}

// ListSuppliers returns a page of suppliers
func (h *PartnerHandler) ListSuppliers(c *gin.Context) {
	var filter partnerapp.PartnerListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}

	suppliers, total, err := h.partnerService.ListSuppliers(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessList(c, suppliers, total, filter.Page, filter.PageSize)
}

// GetSupplier returns one supplier by ID
func (h *PartnerHandler) GetSupplier(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	resp, err := h.partnerService.GetSupplier(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// BlockSupplier blocks a supplier from new purchase orders
func (h *PartnerHandler) BlockSupplier(c *gin.Context) {
	h.transition(c, h.partnerService.BlockSupplier)
}

func (h *PartnerHandler) transition(c *gin.Context, fn func(ctx context.Context, id uuid.UUID) error) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := fn(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
