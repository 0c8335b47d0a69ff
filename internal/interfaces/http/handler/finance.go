package handler

import (
	"github.com/gin-gonic/gin"

	financeapp "github.com/siscom/backend/internal/application/finance"
	"github.com/siscom/backend/internal/interfaces/http/dto"
)

// FinanceHandler handles financial entry endpoints
type FinanceHandler struct {
	BaseHandler
	financeService *financeapp.FinanceService
}

// NewFinanceHandler creates a new FinanceHandler
func NewFinanceHandler(financeService *financeapp.FinanceService) *FinanceHandler {
	return &FinanceHandler{financeService: financeService}
}

// RegisterRoutes registers finance routes
func (h *FinanceHandler) RegisterRoutes(rg *gin.RouterGroup) {
	entries := rg.Group("/finance/entries")
	{
		entries.POST("", h.Create)
		entries.GET("", h.List)
		entries.GET("/number/:number", h.GetByNumber)
		entries.GET("/:id", h.Get)
		entries.POST("/:id/settlements", h.Settle)
		entries.POST("/:id/cancel", h.Cancel)
	}

	reports := rg.Group("/finance")
	{
		reports.GET("/open-balance", h.OpenBalance)
		reports.GET("/cash-flow", h.CashFlow)
	}
}

// Create posts a manual payable or receivable
func (h *FinanceHandler) Create(c *gin.Context) {
	var req financeapp.CreateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	resp, err := h.financeService.CreateEntry(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, resp)
}

// List returns a page of entries
func (h *FinanceHandler) List(c *gin.Context) {
	var filter financeapp.EntryListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}

	entries, total, err := h.financeService.ListEntries(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessList(c, entries, total, filter.Page, filter.PageSize)
}

// Get returns one entry by ID
func (h *FinanceHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	resp, err := h.financeService.GetEntry(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// GetByNumber returns one entry by its document number
func (h *FinanceHandler) GetByNumber(c *gin.Context) {
	number := c.Param("number")

	resp, err := h.financeService.GetEntryByNumber(c.Request.Context(), number)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// Settle applies a payment or receipt against the entry
func (h *FinanceHandler) Settle(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req financeapp.SettleEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	resp, err := h.financeService.SettleEntry(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// Cancel voids an open entry
func (h *FinanceHandler) Cancel(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	resp, err := h.financeService.CancelEntry(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// OpenBalance returns open payable and receivable totals
func (h *FinanceHandler) OpenBalance(c *gin.Context) {
	resp, err := h.financeService.OpenBalance(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// CashFlow returns a day-by-day projection of open titles
func (h *FinanceHandler) CashFlow(c *gin.Context) {
	var req dto.DateRangeRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BindError(c, err)
		return
	}

	resp, err := h.financeService.CashFlow(c.Request.Context(), req.From, req.To)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}
