package handler

import (
	"github.com/gin-gonic/gin"

	tradeapp "github.com/siscom/backend/internal/application/trade"
)

// QuotationHandler handles quotation endpoints
type QuotationHandler struct {
	BaseHandler
	quotationService *tradeapp.QuotationService
}

// NewQuotationHandler creates a new QuotationHandler
func NewQuotationHandler(quotationService *tradeapp.QuotationService) *QuotationHandler {
	return &QuotationHandler{quotationService: quotationService}
}

// RegisterRoutes registers quotation routes
func (h *QuotationHandler) RegisterRoutes(rg *gin.RouterGroup) {
	quotations := rg.Group("/quotations")
	{
		quotations.POST("", h.Create)
		quotations.GET("", h.List)
		quotations.GET("/:id", h.Get)
		quotations.POST("/:id/approve", h.Approve)
		quotations.POST("/:id/reject", h.Reject)
		quotations.POST("/:id/convert", h.Convert)
	}
}

// Create registers a new quotation
func (h *QuotationHandler) Create(c *gin.Context) {
	var req tradeapp.CreateQuotationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	resp, err := h.quotationService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, resp)
}

// List returns a page of quotations
func (h *QuotationHandler) List(c *gin.Context) {
	var filter tradeapp.OrderListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}

	quotations, total, err := h.quotationService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessList(c, quotations, total, filter.Page, filter.PageSize)
}

// Get returns one quotation by ID
func (h *QuotationHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	resp, err := h.quotationService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// Approve accepts the quotation
func (h *QuotationHandler) Approve(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	resp, err := h.quotationService.Approve(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// Reject declines the quotation
func (h *QuotationHandler) Reject(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	resp, err := h.quotationService.Reject(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// Convert turns an approved quotation into a draft sale
func (h *QuotationHandler) Convert(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	resp, err := h.quotationService.Convert(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, resp)
}
