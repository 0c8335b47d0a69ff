package identity

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/siscom/backend/internal/domain/identity"
	"github.com/siscom/backend/internal/domain/shared"
)

// OperatorService handles operator account management
type OperatorService struct {
	operatorRepo identity.OperatorRepository
	logger       *zap.Logger
}

// NewOperatorService creates a new OperatorService
func NewOperatorService(operatorRepo identity.OperatorRepository, logger *zap.Logger) *OperatorService {
	return &OperatorService{
		operatorRepo: operatorRepo,
		logger:       logger,
	}
}

// Create creates a new operator account
func (s *OperatorService) Create(ctx context.Context, req CreateOperatorRequest) (*OperatorResponse, error) {
	exists, err := s.operatorRepo.ExistsByUsername(ctx, req.Username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Nome de usuário já está em uso")
	}

	operator, err := identity.NewOperator(req.Username, req.Name, req.Password, identity.OperatorRole(req.Role))
	if err != nil {
		return nil, err
	}
	if err := s.operatorRepo.Save(ctx, operator); err != nil {
		return nil, err
	}

	s.logger.Info("Operator created",
		zap.String("username", operator.Username),
		zap.String("role", string(operator.Role)))

	response := ToOperatorResponse(operator)
	return &response, nil
}

// Update updates an operator's name and role
func (s *OperatorService) Update(ctx context.Context, id uuid.UUID, req UpdateOperatorRequest) (*OperatorResponse, error) {
	operator, err := s.operatorRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != "" {
		operator.Name = req.Name
	}
	if req.Role != "" {
		if err := operator.SetRole(identity.OperatorRole(req.Role)); err != nil {
			return nil, err
		}
	}
	if err := s.operatorRepo.Save(ctx, operator); err != nil {
		return nil, err
	}

	response := ToOperatorResponse(operator)
	return &response, nil
}

// ResetPassword sets a new password without checking the old one
func (s *OperatorService) ResetPassword(ctx context.Context, id uuid.UUID, req ResetPasswordRequest) error {
	operator, err := s.operatorRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := operator.SetPassword(req.NewPassword); err != nil {
		return err
	}
	if err := s.operatorRepo.Save(ctx, operator); err != nil {
		return err
	}

	s.logger.Info("Operator password reset", zap.String("operator_id", id.String()))
	return nil
}

// Unlock clears an account lock
func (s *OperatorService) Unlock(ctx context.Context, id uuid.UUID) (*OperatorResponse, error) {
	operator, err := s.operatorRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := operator.Unlock(); err != nil {
		return nil, err
	}
	if err := s.operatorRepo.Save(ctx, operator); err != nil {
		return nil, err
	}

	response := ToOperatorResponse(operator)
	return &response, nil
}

// Deactivate disables an operator account
func (s *OperatorService) Deactivate(ctx context.Context, id uuid.UUID) (*OperatorResponse, error) {
	operator, err := s.operatorRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := operator.Deactivate(); err != nil {
		return nil, err
	}
	if err := s.operatorRepo.Save(ctx, operator); err != nil {
		return nil, err
	}

	s.logger.Info("Operator deactivated", zap.String("operator_id", id.String()))
	response := ToOperatorResponse(operator)
	return &response, nil
}

// Activate re-enables a deactivated operator account
func (s *OperatorService) Activate(ctx context.Context, id uuid.UUID) (*OperatorResponse, error) {
	operator, err := s.operatorRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := operator.Activate(); err != nil {
		return nil, err
	}
	if err := s.operatorRepo.Save(ctx, operator); err != nil {
		return nil, err
	}

	response := ToOperatorResponse(operator)
	return &response, nil
}

// GetByID retrieves an operator by ID
func (s *OperatorService) GetByID(ctx context.Context, id uuid.UUID) (*OperatorResponse, error) {
	operator, err := s.operatorRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToOperatorResponse(operator)
	return &response, nil
}

// List retrieves operators with pagination
func (s *OperatorService) List(ctx context.Context, filter OperatorListFilter) ([]OperatorResponse, int64, error) {
	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		Search:   filter.Search,
	}.Normalize()

	operators, total, err := s.operatorRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]OperatorResponse, 0, len(operators))
	for _, operator := range operators {
		responses = append(responses, ToOperatorResponse(operator))
	}
	return responses, total, nil
}
