package identity

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/siscom/backend/internal/domain/identity"
	"github.com/siscom/backend/internal/domain/shared"
	"github.com/siscom/backend/internal/infrastructure/auth"
)

// AuthServiceConfig contains configuration for the auth service
type AuthServiceConfig struct {
	MaxLoginAttempts int           // Failed attempts before the account locks
	LockDuration     time.Duration // How long the lock lasts
}

// DefaultAuthServiceConfig returns default configuration
func DefaultAuthServiceConfig() AuthServiceConfig {
	return AuthServiceConfig{
		MaxLoginAttempts: 5,
		LockDuration:     15 * time.Minute,
	}
}

// AuthService handles operator authentication
type AuthService struct {
	operatorRepo identity.OperatorRepository
	jwtService   *auth.JWTService
	config       AuthServiceConfig
	logger       *zap.Logger
}

// NewAuthService creates a new authentication service
func NewAuthService(
	operatorRepo identity.OperatorRepository,
	jwtService *auth.JWTService,
	config AuthServiceConfig,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		operatorRepo: operatorRepo,
		jwtService:   jwtService,
		config:       config,
		logger:       logger,
	}
}

// Login authenticates an operator and returns a token pair
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	s.logger.Info("Login attempt", zap.String("username", req.Username))

	operator, err := s.operatorRepo.FindByUsername(ctx, req.Username)
	if err != nil {
		s.logger.Warn("Operator not found during login", zap.String("username", req.Username))
		return nil, shared.NewDomainError("INVALID_CREDENTIALS", "Usuário ou senha inválidos")
	}

	if !operator.CanLogin() {
		if operator.IsLocked() {
			s.logger.Warn("Login attempt for locked account", zap.String("username", req.Username))
			return nil, shared.NewDomainError("ACCOUNT_LOCKED", "Conta bloqueada. Tente novamente mais tarde")
		}
		s.logger.Warn("Login attempt for deactivated account", zap.String("username", req.Username))
		return nil, shared.NewDomainError("ACCOUNT_DEACTIVATED", "Conta desativada")
	}

	if !operator.VerifyPassword(req.Password) {
		locked := operator.RecordLoginFailure(s.config.MaxLoginAttempts, s.config.LockDuration)
		if err := s.operatorRepo.Save(ctx, operator); err != nil {
			s.logger.Error("Failed to update operator after login failure", zap.Error(err))
		}

		if locked {
			s.logger.Warn("Account locked after too many failed attempts",
				zap.String("username", req.Username),
				zap.Int("attempts", s.config.MaxLoginAttempts))
			return nil, shared.NewDomainError("ACCOUNT_LOCKED", "Muitas tentativas de login. Conta bloqueada")
		}

		s.logger.Warn("Invalid password attempt",
			zap.String("username", req.Username),
			zap.Int("failed_attempts", operator.FailedAttempts))
		return nil, shared.NewDomainError("INVALID_CREDENTIALS", "Usuário ou senha inválidos")
	}

	tokenPair, err := s.jwtService.GenerateTokenPair(auth.GenerateTokenInput{
		OperatorID: operator.ID,
		Username:   operator.Username,
		Role:       string(operator.Role),
	})
	if err != nil {
		s.logger.Error("Failed to generate token pair", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Falha ao gerar tokens de autenticação")
	}

	operator.RecordLoginSuccess()
	if err := s.operatorRepo.Save(ctx, operator); err != nil {
		// Login still succeeds, the timestamp update is best effort
		s.logger.Error("Failed to update operator after successful login", zap.Error(err))
	}

	s.logger.Info("Operator logged in",
		zap.String("username", operator.Username),
		zap.String("operator_id", operator.ID.String()))

	return &LoginResponse{
		AccessToken:           tokenPair.AccessToken,
		RefreshToken:          tokenPair.RefreshToken,
		AccessTokenExpiresAt:  tokenPair.AccessTokenExpiresAt,
		RefreshTokenExpiresAt: tokenPair.RefreshTokenExpiresAt,
		TokenType:             tokenPair.TokenType,
		Operator:              ToOperatorResponse(operator),
	}, nil
}

// RefreshToken exchanges a valid refresh token for a new token pair
func (s *AuthService) RefreshToken(ctx context.Context, req RefreshTokenRequest) (*LoginResponse, error) {
	claims, err := s.jwtService.ValidateRefreshToken(req.RefreshToken)
	if err != nil {
		s.logger.Warn("Refresh token validation failed", zap.Error(err))
		if errors.Is(err, auth.ErrExpiredToken) {
			return nil, shared.NewDomainError("TOKEN_EXPIRED", "Token de atualização expirado")
		}
		return nil, shared.NewDomainError("TOKEN_INVALID", "Token de atualização inválido")
	}

	operatorID, err := claims.GetOperatorUUID()
	if err != nil {
		return nil, shared.NewDomainError("TOKEN_INVALID", "Token de atualização inválido")
	}

	operator, err := s.operatorRepo.FindByID(ctx, operatorID)
	if err != nil {
		s.logger.Warn("Operator not found during token refresh", zap.String("operator_id", operatorID.String()))
		return nil, shared.NewDomainError("TOKEN_INVALID", "Token de atualização inválido")
	}
	if !operator.CanLogin() {
		return nil, shared.NewDomainError("ACCOUNT_INACTIVE", "Conta não está mais ativa")
	}

	tokenPair, err := s.jwtService.GenerateTokenPair(auth.GenerateTokenInput{
		OperatorID: operator.ID,
		Username:   operator.Username,
		Role:       string(operator.Role),
	})
	if err != nil {
		s.logger.Error("Failed to generate token pair on refresh", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Falha ao gerar tokens de autenticação")
	}

	return &LoginResponse{
		AccessToken:           tokenPair.AccessToken,
		RefreshToken:          tokenPair.RefreshToken,
		AccessTokenExpiresAt:  tokenPair.AccessTokenExpiresAt,
		RefreshTokenExpiresAt: tokenPair.RefreshTokenExpiresAt,
		TokenType:             tokenPair.TokenType,
		Operator:              ToOperatorResponse(operator),
	}, nil
}

// ChangePassword changes the password of the authenticated operator
func (s *AuthService) ChangePassword(ctx context.Context, operatorID uuid.UUID, req ChangePasswordRequest) error {
	operator, err := s.operatorRepo.FindByID(ctx, operatorID)
	if err != nil {
		return err
	}
	if err := operator.ChangePassword(req.OldPassword, req.NewPassword); err != nil {
		return err
	}
	if err := s.operatorRepo.Save(ctx, operator); err != nil {
		return err
	}

	s.logger.Info("Operator changed password", zap.String("operator_id", operatorID.String()))
	return nil
}
