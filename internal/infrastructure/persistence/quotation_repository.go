package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/siscom/backend/internal/domain/shared"
	"github.com/siscom/backend/internal/domain/trade"
)

// GormQuotationRepository implements QuotationRepository using GORM
type GormQuotationRepository struct {
	db *gorm.DB
}

// NewGormQuotationRepository creates a new GormQuotationRepository
func NewGormQuotationRepository(db *gorm.DB) *GormQuotationRepository {
	return &GormQuotationRepository{db: db}
}

// FindByID finds a quotation by its ID with items loaded
func (r *GormQuotationRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.Quotation, error) {
	var quotation trade.Quotation
	if err := r.db.WithContext(ctx).First(&quotation, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	if err := r.loadItems(ctx, &quotation); err != nil {
		return nil, err
	}
	return &quotation, nil
}

// FindByQuotationNumber finds a quotation by its document number with items loaded
func (r *GormQuotationRepository) FindByQuotationNumber(ctx context.Context, quotationNumber string) (*trade.Quotation, error) {
	var quotation trade.Quotation
	if err := r.db.WithContext(ctx).
		Where("quotation_number = ?", quotationNumber).
		First(&quotation).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	if err := r.loadItems(ctx, &quotation); err != nil {
		return nil, err
	}
	return &quotation, nil
}

// FindAll finds quotations matching the filter
func (r *GormQuotationRepository) FindAll(ctx context.Context, filter shared.Filter) ([]trade.Quotation, error) {
	var quotations []trade.Quotation
	query := r.applyFilter(r.db.WithContext(ctx).Model(&trade.Quotation{}), filter)
	if err := query.Find(&quotations).Error; err != nil {
		return nil, err
	}
	return quotations, nil
}

// FindByCustomer finds quotations for a customer
func (r *GormQuotationRepository) FindByCustomer(ctx context.Context, customerID uuid.UUID, filter shared.Filter) ([]trade.Quotation, error) {
	var quotations []trade.Quotation
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&trade.Quotation{}).
			Where("customer_id = ?", customerID),
		filter,
	)
	if err := query.Find(&quotations).Error; err != nil {
		return nil, err
	}
	return quotations, nil
}

// FindByStatus finds quotations with the given status
func (r *GormQuotationRepository) FindByStatus(ctx context.Context, status trade.QuotationStatus, filter shared.Filter) ([]trade.Quotation, error) {
	var quotations []trade.Quotation
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&trade.Quotation{}).
			Where("status = ?", status),
		filter,
	)
	if err := query.Find(&quotations).Error; err != nil {
		return nil, err
	}
	return quotations, nil
}

// Save creates or updates a quotation with its items
func (r *GormQuotationRepository) Save(ctx context.Context, quotation *trade.Quotation) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(quotation).Error; err != nil {
			return err
		}
		if err := tx.Where("quotation_id = ?", quotation.ID).
			Delete(&trade.QuotationItem{}).Error; err != nil {
			return err
		}
		if len(quotation.Items) > 0 {
			items := quotation.Items
			if err := tx.Create(&items).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Delete deletes a quotation with its items
func (r *GormQuotationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("quotation_id = ?", id).
			Delete(&trade.QuotationItem{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&trade.Quotation{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// Count counts quotations matching the filter
func (r *GormQuotationRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&trade.Quotation{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormQuotationRepository) loadItems(ctx context.Context, quotation *trade.Quotation) error {
	return r.db.WithContext(ctx).
		Where("quotation_id = ?", quotation.ID).
		Order("created_at ASC").
		Find(&quotation.Items).Error
}

func (r *GormQuotationRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, QuotationSortFields, "created_at")
	orderDir := ValidateSortOrder(filter.OrderDir)
	return query.Order(orderBy + " " + orderDir)
}

func (r *GormQuotationRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where("LOWER(quotation_number) LIKE ? OR LOWER(customer_name) LIKE ?", searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "customer_id":
			query = query.Where("customer_id = ?", value)
		}
	}

	return query
}
