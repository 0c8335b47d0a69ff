package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	posapp "github.com/siscom/backend/internal/application/pos"
)

// IdempotencyKeyHeader carries the replay key for PDV sales
const IdempotencyKeyHeader = "Idempotency-Key"

// PosHandler handles PDV cash session endpoints
type PosHandler struct {
	BaseHandler
	posService *posapp.PosService
}

// NewPosHandler creates a new PosHandler
func NewPosHandler(posService *posapp.PosService) *PosHandler {
	return &PosHandler{posService: posService}
}

// RegisterRoutes registers PDV routes
func (h *PosHandler) RegisterRoutes(rg *gin.RouterGroup) {
	sessions := rg.Group("/pos/sessions")
	{
		sessions.POST("", h.OpenSession)
		sessions.GET("", h.ListSessions)
		sessions.GET("/:id", h.GetSession)
		sessions.POST("/:id/sales", h.RegisterSale)
		sessions.POST("/:id/withdrawals", h.Withdraw)
		sessions.POST("/:id/deposits", h.Deposit)
		sessions.POST("/:id/close", h.CloseSession)
	}
}

// OpenSession opens a cash session for an operator and terminal
func (h *PosHandler) OpenSession(c *gin.Context) {
	var req posapp.OpenSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	resp, err := h.posService.OpenSession(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, resp)
}

// RegisterSale rings up a quick sale against the session. Repeated
// requests carrying the same Idempotency-Key replay the stored receipt.
func (h *PosHandler) RegisterSale(c *gin.Context) {
	sessionID, ok := parseID(c)
	if !ok {
		return
	}

	idempotencyKey := c.GetHeader(IdempotencyKeyHeader)

	var req posapp.RegisterSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	receipt, err := h.posService.RegisterSale(c.Request.Context(), sessionID, idempotencyKey, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, receipt)
}

// Withdraw registers a sangria
func (h *PosHandler) Withdraw(c *gin.Context) {
	h.cashMovement(c, h.posService.Withdraw)
}

// Deposit registers a suprimento
func (h *PosHandler) Deposit(c *gin.Context) {
	h.cashMovement(c, h.posService.Deposit)
}

func (h *PosHandler) cashMovement(c *gin.Context, fn func(ctx context.Context, sessionID uuid.UUID, req posapp.CashAmountRequest) (*posapp.SessionResponse, error)) {
	sessionID, ok := parseID(c)
	if !ok {
		return
	}

	var req posapp.CashAmountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	resp, err := fn(c.Request.Context(), sessionID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// CloseSession counts the drawer and closes the session
func (h *PosHandler) CloseSession(c *gin.Context) {
	sessionID, ok := parseID(c)
	if !ok {
		return
	}

	var req posapp.CloseSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	resp, err := h.posService.CloseSession(c.Request.Context(), sessionID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// GetSession returns one session with its movements
func (h *PosHandler) GetSession(c *gin.Context) {
	sessionID, ok := parseID(c)
	if !ok {
		return
	}

	resp, err := h.posService.GetSession(c.Request.Context(), sessionID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// ListSessions returns a page of sessions
func (h *PosHandler) ListSessions(c *gin.Context) {
	var filter posapp.SessionListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}

	sessions, total, err := h.posService.ListSessions(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessList(c, sessions, total, filter.Page, filter.PageSize)
}
