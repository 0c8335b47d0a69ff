package persistence

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/siscom/backend/internal/domain/pos"
	"github.com/siscom/backend/internal/domain/shared"
)

// GormCashSessionRepository implements CashSessionRepository using GORM.
// Movements are appended on save; rows already persisted are never touched.
type GormCashSessionRepository struct {
	db *gorm.DB
}

// NewGormCashSessionRepository creates a new GormCashSessionRepository
func NewGormCashSessionRepository(db *gorm.DB) *GormCashSessionRepository {
	return &GormCashSessionRepository{db: db}
}

// FindByID finds a session by its ID with movements loaded
func (r *GormCashSessionRepository) FindByID(ctx context.Context, id uuid.UUID) (*pos.CashSession, error) {
	var session pos.CashSession
	if err := r.db.WithContext(ctx).First(&session, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	session.SyncPersistedVersion()
	if err := r.loadMovements(ctx, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// FindOpenByOperator finds the open session for an operator
func (r *GormCashSessionRepository) FindOpenByOperator(ctx context.Context, operatorID uuid.UUID) (*pos.CashSession, error) {
	var session pos.CashSession
	if err := r.db.WithContext(ctx).
		Where("operator_id = ? AND status = ?", operatorID, pos.CashSessionStatusOpen).
		First(&session).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	session.SyncPersistedVersion()
	if err := r.loadMovements(ctx, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// FindAll finds sessions matching the filter with the total count
func (r *GormCashSessionRepository) FindAll(ctx context.Context, filter shared.Filter) ([]*pos.CashSession, int64, error) {
	return r.list(ctx, r.db.WithContext(ctx).Model(&pos.CashSession{}), filter)
}

// FindByOperator finds sessions for an operator with the total count
func (r *GormCashSessionRepository) FindByOperator(ctx context.Context, operatorID uuid.UUID, filter shared.Filter) ([]*pos.CashSession, int64, error) {
	query := r.db.WithContext(ctx).Model(&pos.CashSession{}).
		Where("operator_id = ?", operatorID)
	return r.list(ctx, query, filter)
}

// FindByDateRange finds sessions opened within a period with the total count
func (r *GormCashSessionRepository) FindByDateRange(ctx context.Context, from, to time.Time, filter shared.Filter) ([]*pos.CashSession, int64, error) {
	query := r.db.WithContext(ctx).Model(&pos.CashSession{}).
		Where("opened_at >= ? AND opened_at <= ?", from, to)
	return r.list(ctx, query, filter)
}

// FindWithDiscrepancy finds closed sessions whose count did not match
func (r *GormCashSessionRepository) FindWithDiscrepancy(ctx context.Context, filter shared.Filter) ([]*pos.CashSession, int64, error) {
	query := r.db.WithContext(ctx).Model(&pos.CashSession{}).
		Where("status = ? AND discrepancy <> 0", pos.CashSessionStatusClosed)
	return r.list(ctx, query, filter)
}

// Save creates or updates a session and appends movements not yet persisted.
// Updates are guarded on the version the session was loaded with, so two
// operators mutating the same drawer cannot overwrite each other.
func (r *GormCashSessionRepository) Save(ctx context.Context, session *pos.CashSession) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&pos.CashSession{}).
			Where("id = ?", session.ID).
			Count(&count).Error; err != nil {
			return err
		}

		if count == 0 {
			if err := tx.Create(session).Error; err != nil {
				return err
			}
		} else {
			result := tx.Model(&pos.CashSession{}).
				Where("id = ? AND version = ?", session.ID, session.PersistedVersion()).
				Updates(map[string]interface{}{
					"status":          session.Status,
					"counted_amount":  session.CountedAmount,
					"expected_amount": session.ExpectedAmount,
					"discrepancy":     session.Discrepancy,
					"closed_at":       session.ClosedAt,
					"version":         session.Version,
					"updated_at":      session.UpdatedAt,
				})
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return shared.ErrConcurrencyConflict
			}
		}
		session.SyncPersistedVersion()

		var existing []uuid.UUID
		if err := tx.Model(&pos.CashMovement{}).
			Where("session_id = ?", session.ID).
			Pluck("id", &existing).Error; err != nil {
			return err
		}
		persisted := make(map[uuid.UUID]bool, len(existing))
		for _, id := range existing {
			persisted[id] = true
		}

		for i := range session.Movements {
			movement := &session.Movements[i]
			if persisted[movement.ID] {
				continue
			}
			if err := tx.Create(movement).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Count counts all sessions
func (r *GormCashSessionRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&pos.CashSession{}).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormCashSessionRepository) loadMovements(ctx context.Context, session *pos.CashSession) error {
	var movements []pos.CashMovement
	if err := r.db.WithContext(ctx).
		Where("session_id = ?", session.ID).
		Order("movement_date ASC, created_at ASC").
		Find(&movements).Error; err != nil {
		return err
	}
	session.Movements = movements
	return nil
}

func (r *GormCashSessionRepository) list(ctx context.Context, query *gorm.DB, filter shared.Filter) ([]*pos.CashSession, int64, error) {
	query = r.applyFilterWithoutPagination(query, filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, SessionSortFields, "opened_at")
	orderDir := ValidateSortOrder(filter.OrderDir)

	var sessions []*pos.CashSession
	if err := query.Order(orderBy + " " + orderDir).Find(&sessions).Error; err != nil {
		return nil, 0, err
	}
	for _, session := range sessions {
		session.SyncPersistedVersion()
	}
	return sessions, total, nil
}

func (r *GormCashSessionRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where("LOWER(terminal) LIKE ?", searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "terminal":
			query = query.Where("terminal = ?", value)
		}
	}

	return query
}
