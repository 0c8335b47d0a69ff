package identity

import (
	"time"

	"github.com/google/uuid"

	"github.com/siscom/backend/internal/domain/identity"
)

// LoginRequest contains the credentials for operator login
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse contains the result of a successful login
type LoginResponse struct {
	AccessToken           string           `json:"access_token"`
	RefreshToken          string           `json:"refresh_token"`
	AccessTokenExpiresAt  time.Time        `json:"access_token_expires_at"`
	RefreshTokenExpiresAt time.Time        `json:"refresh_token_expires_at"`
	TokenType             string           `json:"token_type"`
	Operator              OperatorResponse `json:"operator"`
}

// RefreshTokenRequest carries the refresh token to exchange
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// ChangePasswordRequest changes the caller's own password
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required"`
}

// CreateOperatorRequest represents a request to create an operator
type CreateOperatorRequest struct {
	Username string `json:"username" binding:"required"`
	Name     string `json:"name" binding:"required"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role" binding:"required,oneof=admin manager cashier"`
}

// UpdateOperatorRequest updates an operator's profile
type UpdateOperatorRequest struct {
	Name string `json:"name"`
	Role string `json:"role" binding:"omitempty,oneof=admin manager cashier"`
}

// ResetPasswordRequest sets a new password without the old one (admin)
type ResetPasswordRequest struct {
	NewPassword string `json:"new_password" binding:"required"`
}

// OperatorResponse represents an operator in API responses
type OperatorResponse struct {
	ID          uuid.UUID  `json:"id"`
	Username    string     `json:"username"`
	Name        string     `json:"name"`
	Role        string     `json:"role"`
	Status      string     `json:"status"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// ToOperatorResponse converts an operator to its response representation
func ToOperatorResponse(operator *identity.Operator) OperatorResponse {
	return OperatorResponse{
		ID:          operator.ID,
		Username:    operator.Username,
		Name:        operator.Name,
		Role:        string(operator.Role),
		Status:      operator.Status.String(),
		LastLoginAt: operator.LastLoginAt,
		CreatedAt:   operator.CreatedAt,
		UpdatedAt:   operator.UpdatedAt,
	}
}

// OperatorListFilter represents filter options for operator listings
type OperatorListFilter struct {
	Search   string `form:"search"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}
