package persistence

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/siscom/backend/internal/domain/finance"
	"github.com/siscom/backend/internal/domain/shared"
)

// GormFinancialEntryRepository implements FinancialEntryRepository using GORM
type GormFinancialEntryRepository struct {
	db *gorm.DB
}

// NewGormFinancialEntryRepository creates a new GormFinancialEntryRepository
func NewGormFinancialEntryRepository(db *gorm.DB) *GormFinancialEntryRepository {
	return &GormFinancialEntryRepository{db: db}
}

// FindByID finds an entry by its ID
func (r *GormFinancialEntryRepository) FindByID(ctx context.Context, id uuid.UUID) (*finance.FinancialEntry, error) {
	var entry finance.FinancialEntry
	if err := r.db.WithContext(ctx).First(&entry, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &entry, nil
}

// FindByNumber finds an entry by its document number
func (r *GormFinancialEntryRepository) FindByNumber(ctx context.Context, entryNumber string) (*finance.FinancialEntry, error) {
	var entry finance.FinancialEntry
	if err := r.db.WithContext(ctx).
		Where("entry_number = ?", entryNumber).
		First(&entry).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &entry, nil
}

// FindAll finds entries matching the filter with the total count
func (r *GormFinancialEntryRepository) FindAll(ctx context.Context, filter shared.Filter) ([]*finance.FinancialEntry, int64, error) {
	return r.list(r.db.WithContext(ctx).Model(&finance.FinancialEntry{}), filter)
}

// FindByCounterparty finds entries for a customer or supplier
func (r *GormFinancialEntryRepository) FindByCounterparty(ctx context.Context, counterpartyID uuid.UUID, filter shared.Filter) ([]*finance.FinancialEntry, int64, error) {
	query := r.db.WithContext(ctx).Model(&finance.FinancialEntry{}).
		Where("counterparty_id = ?", counterpartyID)
	return r.list(query, filter)
}

// FindByKind finds payables or receivables
func (r *GormFinancialEntryRepository) FindByKind(ctx context.Context, kind finance.EntryKind, filter shared.Filter) ([]*finance.FinancialEntry, int64, error) {
	query := r.db.WithContext(ctx).Model(&finance.FinancialEntry{}).
		Where("kind = ?", kind)
	return r.list(query, filter)
}

// FindByStatus finds entries with the given status
func (r *GormFinancialEntryRepository) FindByStatus(ctx context.Context, status finance.EntryStatus, filter shared.Filter) ([]*finance.FinancialEntry, int64, error) {
	query := r.db.WithContext(ctx).Model(&finance.FinancialEntry{}).
		Where("status = ?", status)
	return r.list(query, filter)
}

// FindOverdue finds open entries past their due date as of the given time
func (r *GormFinancialEntryRepository) FindOverdue(ctx context.Context, asOf time.Time, filter shared.Filter) ([]*finance.FinancialEntry, int64, error) {
	query := r.db.WithContext(ctx).Model(&finance.FinancialEntry{}).
		Where("due_date < ? AND status IN ?", asOf,
			[]finance.EntryStatus{finance.EntryStatusPending, finance.EntryStatusPartial})
	return r.list(query, filter)
}

// FindByDueDateRange finds entries due within a period
func (r *GormFinancialEntryRepository) FindByDueDateRange(ctx context.Context, from, to time.Time, filter shared.Filter) ([]*finance.FinancialEntry, int64, error) {
	query := r.db.WithContext(ctx).Model(&finance.FinancialEntry{}).
		Where("due_date >= ? AND due_date <= ?", from, to)
	return r.list(query, filter)
}

// SumOpenByKind sums the remaining amount of open entries of a kind
func (r *GormFinancialEntryRepository) SumOpenByKind(ctx context.Context, kind finance.EntryKind) (decimal.Decimal, error) {
	var result struct {
		Total decimal.Decimal
	}
	if err := r.db.WithContext(ctx).Model(&finance.FinancialEntry{}).
		Select("COALESCE(SUM(original_amount - settled_amount), 0) AS total").
		Where("kind = ? AND status IN ?", kind,
			[]finance.EntryStatus{finance.EntryStatusPending, finance.EntryStatusPartial}).
		Scan(&result).Error; err != nil {
		return decimal.Zero, err
	}
	return result.Total, nil
}

// CashFlowByPeriod aggregates open amounts by due date for entries due in
// the period, one bucket per day
func (r *GormFinancialEntryRepository) CashFlowByPeriod(ctx context.Context, from, to time.Time) ([]finance.CashFlowBucket, error) {
	rows := make([]struct {
		Day        time.Time
		Payable    decimal.Decimal
		Receivable decimal.Decimal
	}, 0)

	err := r.db.WithContext(ctx).Model(&finance.FinancialEntry{}).
		Select(`DATE(due_date) AS day,
			COALESCE(SUM(CASE WHEN kind = ? THEN original_amount - settled_amount ELSE 0 END), 0) AS payable,
			COALESCE(SUM(CASE WHEN kind = ? THEN original_amount - settled_amount ELSE 0 END), 0) AS receivable`,
			finance.EntryKindPayable, finance.EntryKindReceivable).
		Where("due_date >= ? AND due_date <= ? AND status IN ?", from, to,
			[]finance.EntryStatus{finance.EntryStatusPending, finance.EntryStatusPartial}).
		Group("DATE(due_date)").
		Order("day ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	buckets := make([]finance.CashFlowBucket, len(rows))
	for i, row := range rows {
		buckets[i] = finance.CashFlowBucket{
			Day:        row.Day,
			Payable:    row.Payable,
			Receivable: row.Receivable,
		}
	}
	return buckets, nil
}

// Save creates or updates an entry
func (r *GormFinancialEntryRepository) Save(ctx context.Context, entry *finance.FinancialEntry) error {
	return r.db.WithContext(ctx).Save(entry).Error
}

// Count counts all entries
func (r *GormFinancialEntryRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&finance.FinancialEntry{}).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormFinancialEntryRepository) list(query *gorm.DB, filter shared.Filter) ([]*finance.FinancialEntry, int64, error) {
	if filter.Search != "" {
		searchPattern := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where("LOWER(entry_number) LIKE ? OR LOWER(description) LIKE ? OR LOWER(document_ref) LIKE ?",
			searchPattern, searchPattern, searchPattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, EntrySortFields, "due_date")
	orderDir := ValidateSortOrder(filter.OrderDir)

	var entries []*finance.FinancialEntry
	if err := query.Order(orderBy + " " + orderDir).Find(&entries).Error; err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}
