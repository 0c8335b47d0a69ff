package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	tradeapp "github.com/siscom/backend/internal/application/trade"
)

// ServiceOrderHandler handles service order (OS) endpoints
type ServiceOrderHandler struct {
	BaseHandler
	serviceOrderService *tradeapp.ServiceOrderService
}

// NewServiceOrderHandler creates a new ServiceOrderHandler
func NewServiceOrderHandler(serviceOrderService *tradeapp.ServiceOrderService) *ServiceOrderHandler {
	return &ServiceOrderHandler{serviceOrderService: serviceOrderService}
}

// RegisterRoutes registers service order routes
func (h *ServiceOrderHandler) RegisterRoutes(rg *gin.RouterGroup) {
	orders := rg.Group("/service-orders")
	{
		orders.POST("", h.Create)
		orders.GET("", h.List)
		orders.GET("/:id", h.Get)
		orders.POST("/:id/items", h.AddItem)
		orders.DELETE("/:id/items/:itemId", h.RemoveItem)
		orders.PUT("/:id/diagnosis", h.SetDiagnosis)
		orders.POST("/:id/start", h.Start)
		orders.POST("/:id/complete", h.Complete)
		orders.POST("/:id/invoice", h.Invoice)
		orders.POST("/:id/cancel", h.Cancel)
	}
}

// Create opens a new service order
func (h *ServiceOrderHandler) Create(c *gin.Context) {
	var req tradeapp.CreateServiceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	resp, err := h.serviceOrderService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, resp)
}

// List returns a page of service orders
func (h *ServiceOrderHandler) List(c *gin.Context) {
	var filter tradeapp.OrderListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}

	orders, total, err := h.serviceOrderService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessList(c, orders, total, filter.Page, filter.PageSize)
}

// Get returns one service order by ID
func (h *ServiceOrderHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	resp, err := h.serviceOrderService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// AddItem adds a part or labor line
func (h *ServiceOrderHandler) AddItem(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req tradeapp.ServiceItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	resp, err := h.serviceOrderService.AddItem(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// RemoveItem removes a line from an open service order
func (h *ServiceOrderHandler) RemoveItem(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	itemID, ok := parseItemID(c)
	if !ok {
		return
	}

	resp, err := h.serviceOrderService.RemoveItem(c.Request.Context(), id, itemID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// SetDiagnosis records the technician's diagnosis
func (h *ServiceOrderHandler) SetDiagnosis(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req struct {
		Diagnosis string `json:"diagnosis" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	resp, err := h.serviceOrderService.SetDiagnosis(c.Request.Context(), id, req.Diagnosis)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// Start moves the order to in-progress
func (h *ServiceOrderHandler) Start(c *gin.Context) {
	h.transition(c, h.serviceOrderService.Start)
}

// Complete finishes the work, consuming part lines from stock
func (h *ServiceOrderHandler) Complete(c *gin.Context) {
	h.transition(c, h.serviceOrderService.Complete)
}

// Invoice bills the completed order, posting a receivable
func (h *ServiceOrderHandler) Invoice(c *gin.Context) {
	h.transition(c, h.serviceOrderService.Invoice)
}

// Cancel cancels the order, restocking consumed parts
func (h *ServiceOrderHandler) Cancel(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req tradeapp.CancelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	resp, err := h.serviceOrderService.Cancel(c.Request.Context(), id, req.Reason)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

func (h *ServiceOrderHandler) transition(c *gin.Context, fn func(ctx context.Context, id uuid.UUID) (*tradeapp.ServiceOrderResponse, error)) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	resp, err := fn(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}
