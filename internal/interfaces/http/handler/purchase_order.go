package handler

import (
	"github.com/gin-gonic/gin"

	tradeapp "github.com/siscom/backend/internal/application/trade"
	"github.com/siscom/backend/internal/domain/identity"
	"github.com/siscom/backend/internal/interfaces/http/middleware"
)

// PurchaseOrderHandler handles purchase order endpoints
type PurchaseOrderHandler struct {
	BaseHandler
	purchaseService *tradeapp.PurchaseService
}

// NewPurchaseOrderHandler creates a new PurchaseOrderHandler
func NewPurchaseOrderHandler(purchaseService *tradeapp.PurchaseService) *PurchaseOrderHandler {
	return &PurchaseOrderHandler{purchaseService: purchaseService}
}

// RegisterRoutes registers purchase routes. Approval needs a manager.
func (h *PurchaseOrderHandler) RegisterRoutes(rg *gin.RouterGroup) {
	purchases := rg.Group("/purchases")
	{
		purchases.POST("", h.Create)
		purchases.GET("", h.List)
		purchases.GET("/number/:number", h.GetByNumber)
		purchases.GET("/:id", h.Get)
		purchases.POST("/:id/approve",
			middleware.RequireRole(string(identity.OperatorRoleAdmin), string(identity.OperatorRoleManager)),
			h.Approve)
		purchases.POST("/:id/receive", h.Receive)
		purchases.POST("/:id/cancel", h.Cancel)
	}
}

// Create opens a new draft purchase order
func (h *PurchaseOrderHandler) Create(c *gin.Context) {
	var req tradeapp.CreatePurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	resp, err := h.purchaseService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, resp)
}

// List returns a page of purchase orders
func (h *PurchaseOrderHandler) List(c *gin.Context) {
	var filter tradeapp.OrderListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}

	orders, total, err := h.purchaseService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessList(c, orders, total, filter.Page, filter.PageSize)
}

// Get returns one purchase order by ID
func (h *PurchaseOrderHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	resp, err := h.purchaseService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// GetByNumber returns one purchase order by its document number
func (h *PurchaseOrderHandler) GetByNumber(c *gin.Context) {
	number := c.Param("number")

	resp, err := h.purchaseService.GetByNumber(c.Request.Context(), number)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// Approve releases the order to the supplier
func (h *PurchaseOrderHandler) Approve(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	resp, err := h.purchaseService.Approve(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// Receive registers a receipt against one order line, entering stock
func (h *PurchaseOrderHandler) Receive(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req tradeapp.ReceiveItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	resp, err := h.purchaseService.ReceiveItem(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// Cancel cancels a purchase order that has not been received
func (h *PurchaseOrderHandler) Cancel(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req tradeapp.CancelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	resp, err := h.purchaseService.Cancel(c.Request.Context(), id, req.Reason)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}
