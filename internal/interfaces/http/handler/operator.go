package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	identityapp "github.com/siscom/backend/internal/application/identity"
	"github.com/siscom/backend/internal/domain/identity"
	"github.com/siscom/backend/internal/interfaces/http/middleware"
)

// OperatorHandler handles operator management endpoints
type OperatorHandler struct {
	BaseHandler
	operatorService *identityapp.OperatorService
}

// NewOperatorHandler creates a new OperatorHandler
func NewOperatorHandler(operatorService *identityapp.OperatorService) *OperatorHandler {
	return &OperatorHandler{operatorService: operatorService}
}

// RegisterRoutes registers operator routes. Management is admin-only.
func (h *OperatorHandler) RegisterRoutes(rg *gin.RouterGroup) {
	operators := rg.Group("/operators")
	operators.Use(middleware.RequireRole(string(identity.OperatorRoleAdmin)))
	{
		operators.POST("", h.Create)
		operators.GET("", h.List)
		operators.GET("/:id", h.Get)
		operators.PUT("/:id", h.Update)
		operators.POST("/:id/reset-password", h.ResetPassword)
		operators.POST("/:id/unlock", h.Unlock)
		operators.POST("/:id/activate", h.Activate)
		operators.POST("/:id/deactivate", h.Deactivate)
	}
}

// Create registers a new operator
func (h *OperatorHandler) Create(c *gin.Context) {
	var req identityapp.CreateOperatorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	resp, err := h.operatorService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, resp)
}

// List returns a page of operators
func (h *OperatorHandler) List(c *gin.Context) {
	var filter identityapp.OperatorListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}

	operators, total, err := h.operatorService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessList(c, operators, total, filter.Page, filter.PageSize)
}

// Get returns one operator by ID
func (h *OperatorHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	resp, err := h.operatorService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// Update changes an operator's profile
func (h *OperatorHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req identityapp.UpdateOperatorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	resp, err := h.operatorService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// ResetPassword sets a new password without requiring the old one
func (h *OperatorHandler) ResetPassword(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req identityapp.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	if err := h.operatorService.ResetPassword(c.Request.Context(), id, req); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// Unlock clears a login lockout
func (h *OperatorHandler) Unlock(c *gin.Context) {
	h.transition(c, h.operatorService.Unlock)
}

// Activate re-enables a deactivated operator
func (h *OperatorHandler) Activate(c *gin.Context) {
	h.transition(c, h.operatorService.Activate)
}

// Deactivate disables an operator
func (h *OperatorHandler) Deactivate(c *gin.Context) {
	h.transition(c, h.operatorService.Deactivate)
}

func (h *OperatorHandler) transition(c *gin.Context, fn func(ctx context.Context, id uuid.UUID) (*identityapp.OperatorResponse, error)) {
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
