package handler

import (
	"github.com/gin-gonic/gin"

	inventoryapp "github.com/siscom/backend/internal/application/inventory"
)

// StockHandler handles stock ledger endpoints
type StockHandler struct {
	BaseHandler
	stockService *inventoryapp.StockService
}

// NewStockHandler creates a new StockHandler
func NewStockHandler(stockService *inventoryapp.StockService) *StockHandler {
	return &StockHandler{stockService: stockService}
}

// RegisterRoutes registers stock routes
func (h *StockHandler) RegisterRoutes(rg *gin.RouterGroup) {
	stock := rg.Group("/stock")
	{
		stock.GET("", h.List)
		stock.GET("/value", h.InventoryValue)
		stock.POST("/entries", h.Enter)
		stock.POST("/exits", h.Exit)
		stock.POST("/adjustments", h.Adjust)
		stock.POST("/reservations", h.Reserve)
		stock.POST("/releases", h.Release)
		stock.PUT("/thresholds", h.SetThresholds)
		stock.GET("/lots/expiring", h.ListExpiringLots)
		stock.GET("/products/:id", h.GetByProduct)
		stock.GET("/products/:id/movements", h.ListMovements)
		stock.GET("/products/:id/lots", h.ListLots)
		stock.GET("/products/:id/consistency", h.CheckConsistency)
	}
}

// List returns a page of stock positions
func (h *StockHandler) List(c *gin.Context) {
	var filter inventoryapp.StockListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}

	items, total, err := h.stockService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessList(c, items, total, filter.Page, filter.PageSize)
}

// InventoryValue returns the total value of stock on hand
func (h *StockHandler) InventoryValue(c *gin.Context) {
	value, err := h.stockService.GetInventoryValue(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{"total_value": value})
}

// GetByProduct returns the stock position of one product
func (h *StockHandler) GetByProduct(c *gin.Context) {
	productID, ok := parseID(c)
	if !ok {
		return
	}

	resp, err := h.stockService.GetByProduct(c.Request.Context(), productID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// Enter registers a stock entry, creating a lot for tracked products
func (h *StockHandler) Enter(c *gin.Context) {
	var req inventoryapp.EnterStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	resp, err := h.stockService.EnterStock(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, resp)
}

// Exit registers a stock exit, consuming lots FIFO
func (h *StockHandler) Exit(c *gin.Context) {
	var req inventoryapp.ExitStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	resp, err := h.stockService.ExitStock(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, resp)
}

// Adjust registers a signed manual correction
func (h *StockHandler) Adjust(c *gin.Context) {
	var req inventoryapp.AdjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	resp, err := h.stockService.AdjustStock(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, resp)
}

// Reserve holds stock for a pending order without consuming it
func (h *StockHandler) Reserve(c *gin.Context) {
	var req inventoryapp.ReserveStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	resp, err := h.stockService.ReserveStock(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, resp)
}

// Release returns a previous hold to available stock
func (h *StockHandler) Release(c *gin.Context) {
	var req inventoryapp.ReleaseStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	resp, err := h.stockService.ReleaseStock(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// SetThresholds sets min/max alert levels for a product
func (h *StockHandler) SetThresholds(c *gin.Context) {
	var req inventoryapp.SetThresholdsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	resp, err := h.stockService.SetThresholds(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// ListMovements returns the movement ledger of one product
func (h *StockHandler) ListMovements(c *gin.Context) {
	productID, ok := parseID(c)
	if !ok {
		return
	}

	var filter inventoryapp.StockListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}

	movements, total, err := h.stockService.ListMovements(c.Request.Context(), productID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessList(c, movements, total, filter.Page, filter.PageSize)
}

// ListLots returns the lots of one product
func (h *StockHandler) ListLots(c *gin.Context) {
	productID, ok := parseID(c)
	if !ok {
		return
	}

	var filter inventoryapp.StockListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}

	lots, total, err := h.stockService.ListLots(c.Request.Context(), productID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessList(c, lots, total, filter.Page, filter.PageSize)
}

// ListExpiringLots returns lots expiring within the given window
func (h *StockHandler) ListExpiringLots(c *gin.Context) {
	withinDays := intQuery(c, "within_days", 30)

	var filter inventoryapp.StockListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}

	lots, err := h.stockService.ListExpiringLots(c.Request.Context(), withinDays, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, lots)
}

// CheckConsistency replays the movement ledger against the stored balance
func (h *StockHandler) CheckConsistency(c *gin.Context) {
	productID, ok := parseID(c)
	if !ok {
		return
	}

	report, err := h.stockService.CheckConsistency(c.Request.Context(), productID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, report)
}
