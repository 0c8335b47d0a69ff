package handler

import (
	"github.com/gin-gonic/gin"

	identityapp "github.com/siscom/backend/internal/application/identity"
)

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	BaseHandler
	authService     *identityapp.AuthService
	operatorService *identityapp.OperatorService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService *identityapp.AuthService, operatorService *identityapp.OperatorService) *AuthHandler {
	return &AuthHandler{
		authService:     authService,
		operatorService: operatorService,
	}
}

// RegisterRoutes registers authentication routes
func (h *AuthHandler) RegisterRoutes(rg *gin.RouterGroup) {
	auth := rg.Group("/auth")
	{
		auth.POST("/login", h.Login)
		auth.POST("/refresh", h.Refresh)
		auth.POST("/change-password", h.ChangePassword)
		auth.GET("/me", h.Me)
	}
}

// Login authenticates an operator and issues a token pair
func (h *AuthHandler) Login(c *gin.Context) {
	var req identityapp.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	resp, err := h.authService.Login(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// Refresh exchanges a refresh token for a new token pair
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req identityapp.RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	resp, err := h.authService.RefreshToken(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// ChangePassword changes the authenticated operator's password
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	operatorID, err := getOperatorID(c)
	if err != nil {
		h.Unauthorized(c, "Autenticação necessária")
		return
	}

	var req identityapp.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	if err := h.authService.ChangePassword(c.Request.Context(), operatorID, req); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// Me returns the authenticated operator's profile
func (h *AuthHandler) Me(c *gin.Context) {
	operatorID, err := getOperatorID(c)
	if err != nil {
		h.Unauthorized(c, "Autenticação necessária")
		return
	}

	resp, err := h.operatorService.GetByID(c.Request.Context(), operatorID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}
