package persistence

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/siscom/backend/internal/domain/pos"
)

// GormCashMovementRepository exposes read paths over the cash movement log
type GormCashMovementRepository struct {
	db *gorm.DB
}

// NewGormCashMovementRepository creates a new GormCashMovementRepository
func NewGormCashMovementRepository(db *gorm.DB) *GormCashMovementRepository {
	return &GormCashMovementRepository{db: db}
}

// FindBySession finds movements for a session in chronological order
func (r *GormCashMovementRepository) FindBySession(ctx context.Context, sessionID uuid.UUID) ([]*pos.CashMovement, error) {
	var movements []*pos.CashMovement
	if err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("movement_date ASC, created_at ASC").
		Find(&movements).Error; err != nil {
		return nil, err
	}
	return movements, nil
}

// FindByDocumentRef finds movements recorded for a sale document
func (r *GormCashMovementRepository) FindByDocumentRef(ctx context.Context, documentRef string) ([]*pos.CashMovement, error) {
	var movements []*pos.CashMovement
	if err := r.db.WithContext(ctx).
		Where("document_ref = ?", documentRef).
		Order("movement_date ASC").
		Find(&movements).Error; err != nil {
		return nil, err
	}
	return movements, nil
}

// CountBySession counts movements for a session
func (r *GormCashMovementRepository) CountBySession(ctx context.Context, sessionID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&pos.CashMovement{}).
		Where("session_id = ?", sessionID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
