package pos

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/siscom/backend/internal/domain/shared"
)

// CashSessionRepository defines the persistence interface for cash sessions.
// Movements belong to the session aggregate and are loaded and saved with it.
type CashSessionRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*CashSession, error)
	FindOpenByOperator(ctx context.Context, operatorID uuid.UUID) (*CashSession, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]*CashSession, int64, error)
	FindByOperator(ctx context.Context, operatorID uuid.UUID, filter shared.Filter) ([]*CashSession, int64, error)
	FindByDateRange(ctx context.Context, from, to time.Time, filter shared.Filter) ([]*CashSession, int64, error)
	FindWithDiscrepancy(ctx context.Context, filter shared.Filter) ([]*CashSession, int64, error)
	Save(ctx context.Context, session *CashSession) error
	Count(ctx context.Context) (int64, error)
}

// CashMovementRepository exposes read paths over the append-only movement log
type CashMovementRepository interface {
	FindBySession(ctx context.Context, sessionID uuid.UUID) ([]*CashMovement, error)
	FindByDocumentRef(ctx context.Context, documentRef string) ([]*CashMovement, error)
	CountBySession(ctx context.Context, sessionID uuid.UUID) (int64, error)
}
