package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/siscom/backend/internal/domain/identity"
	"github.com/siscom/backend/internal/domain/shared"
)

// GormOperatorRepository implements OperatorRepository using GORM
type GormOperatorRepository struct {
	db *gorm.DB
}

// NewGormOperatorRepository creates a new GormOperatorRepository
func NewGormOperatorRepository(db *gorm.DB) *GormOperatorRepository {
	return &GormOperatorRepository{db: db}
}

// FindByID finds an operator by its ID
func (r *GormOperatorRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.Operator, error) {
	var operator identity.Operator
	if err := r.db.WithContext(ctx).First(&operator, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &operator, nil
}

// FindByUsername finds an operator by username
func (r *GormOperatorRepository) FindByUsername(ctx context.Context, username string) (*identity.Operator, error) {
	var operator identity.Operator
	if err := r.db.WithContext(ctx).
		Where("username = ?", username).
		First(&operator).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &operator, nil
}

// FindAll finds operators matching the filter with the total count
func (r *GormOperatorRepository) FindAll(ctx context.Context, filter shared.Filter) ([]*identity.Operator, int64, error) {
	query := r.db.WithContext(ctx).Model(&identity.Operator{})

	if filter.Search != "" {
		searchPattern := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where("LOWER(username) LIKE ? OR LOWER(name) LIKE ?", searchPattern, searchPattern)
	}
	for key, value := range filter.Filters {
		switch key {
		case "role":
			query = query.Where("role = ?", value)
		case "status":
			query = query.Where("status = ?", value)
		}
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, OperatorSortFields, "username")
	orderDir := ValidateSortOrder(filter.OrderDir)

	var operators []*identity.Operator
	if err := query.Order(orderBy + " " + orderDir).Find(&operators).Error; err != nil {
		return nil, 0, err
	}
	return operators, total, nil
}

// ExistsByUsername checks if an operator with the username exists
func (r *GormOperatorRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&identity.Operator{}).
		Where("username = ?", username).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates an operator
func (r *GormOperatorRepository) Save(ctx context.Context, operator *identity.Operator) error {
	return r.db.WithContext(ctx).Save(operator).Error
}

// Delete deletes an operator
func (r *GormOperatorRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&identity.Operator{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts all operators
func (r *GormOperatorRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&identity.Operator{}).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
