package identity

import (
	"context"

	"github.com/google/uuid"

	"github.com/siscom/backend/internal/domain/shared"
)

// OperatorRepository defines the persistence interface for operators
type OperatorRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Operator, error)
	FindByUsername(ctx context.Context, username string) (*Operator, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]*Operator, int64, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	Save(ctx context.Context, operator *Operator) error
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context) (int64, error)
}
