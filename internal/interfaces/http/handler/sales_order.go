package handler

import (
	"github.com/gin-gonic/gin"

	tradeapp "github.com/siscom/backend/internal/application/trade"
)

// SalesOrderHandler handles sales endpoints
type SalesOrderHandler struct {
	BaseHandler
	salesService *tradeapp.SalesService
}

// NewSalesOrderHandler creates a new SalesOrderHandler
func NewSalesOrderHandler(salesService *tradeapp.SalesService) *SalesOrderHandler {
	return &SalesOrderHandler{salesService: salesService}
}

// RegisterRoutes registers sales routes
func (h *SalesOrderHandler) RegisterRoutes(rg *gin.RouterGroup) {
	sales := rg.Group("/sales")
	{
		sales.POST("", h.Create)
		sales.GET("", h.List)
		sales.GET("/number/:number", h.GetByNumber)
		sales.GET("/:id", h.Get)
		sales.POST("/:id/items", h.AddItem)
		sales.DELETE("/:id/items/:itemId", h.RemoveItem)
		sales.POST("/:id/finalize", h.Finalize)
		sales.POST("/:id/cancel", h.Cancel)
	}
}

// Create opens a new draft sale
func (h *SalesOrderHandler) Create(c *gin.Context) {
	var req tradeapp.CreateSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	resp, err := h.salesService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, resp)
}

// List returns a page of sales
func (h *SalesOrderHandler) List(c *gin.Context) {
	var filter tradeapp.OrderListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}

	sales, total, err := h.salesService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessList(c, sales, total, filter.Page, filter.PageSize)
}

// Get returns one sale by ID
func (h *SalesOrderHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	resp, err := h.salesService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// GetByNumber returns one sale by its document number
func (h *SalesOrderHandler) GetByNumber(c *gin.Context) {
	number := c.Param("number")

	resp, err := h.salesService.GetByNumber(c.Request.Context(), number)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// AddItem adds a line to a draft sale
func (h *SalesOrderHandler) AddItem(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req tradeapp.OrderItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	resp, err := h.salesService.AddItem(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// RemoveItem removes a line from a draft sale
func (h *SalesOrderHandler) RemoveItem(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	itemID, ok := parseItemID(c)
	if !ok {
		return
	}

	resp, err := h.salesService.RemoveItem(c.Request.Context(), id, itemID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// Finalize commits the sale, consuming stock and posting finance
func (h *SalesOrderHandler) Finalize(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	resp, err := h.salesService.Finalize(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// Cancel cancels the sale, restocking when already finalized
func (h *SalesOrderHandler) Cancel(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req tradeapp.CancelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	resp, err := h.salesService.Cancel(c.Request.Context(), id, req.Reason)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}
