package finance

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/siscom/backend/internal/domain/finance"
	"github.com/siscom/backend/internal/domain/partner"
	"github.com/siscom/backend/internal/domain/shared"
)

// MockFinancialEntryRepository is a mock implementation of finance.FinancialEntryRepository
type MockFinancialEntryRepository struct {
	mock.Mock
}

func (m *MockFinancialEntryRepository) FindByID(ctx context.Context, id uuid.UUID) (*finance.FinancialEntry, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.FinancialEntry), args.Error(1)
}

func (m *MockFinancialEntryRepository) FindByNumber(ctx context.Context, entryNumber string) (*finance.FinancialEntry, error) {
	args := m.Called(ctx, entryNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.FinancialEntry), args.Error(1)
}

func (m *MockFinancialEntryRepository) FindAll(ctx context.Context, filter shared.Filter) ([]*finance.FinancialEntry, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]*finance.FinancialEntry), args.Get(1).(int64), args.Error(2)
}

func (m *MockFinancialEntryRepository) FindByCounterparty(ctx context.Context, counterpartyID uuid.UUID, filter shared.Filter) ([]*finance.FinancialEntry, int64, error) {
	args := m.Called(ctx, counterpartyID, filter)
	return args.Get(0).([]*finance.FinancialEntry), args.Get(1).(int64), args.Error(2)
}

func (m *MockFinancialEntryRepository) FindByKind(ctx context.Context, kind finance.EntryKind, filter shared.Filter) ([]*finance.FinancialEntry, int64, error) {
	args := m.Called(ctx, kind, filter)
	return args.Get(0).([]*finance.FinancialEntry), args.Get(1).(int64), args.Error(2)
}

func (m *MockFinancialEntryRepository) FindByStatus(ctx context.Context, status finance.EntryStatus, filter shared.Filter) ([]*finance.FinancialEntry, int64, error) {
	args := m.Called(ctx, status, filter)
	return args.Get(0).([]*finance.FinancialEntry), args.Get(1).(int64), args.Error(2)
}

func (m *MockFinancialEntryRepository) FindOverdue(ctx context.Context, asOf time.Time, filter shared.Filter) ([]*finance.FinancialEntry, int64, error) {
	args := m.Called(ctx, asOf, filter)
	return args.Get(0).([]*finance.FinancialEntry), args.Get(1).(int64), args.Error(2)
}

func (m *MockFinancialEntryRepository) FindByDueDateRange(ctx context.Context, from, to time.Time, filter shared.Filter) ([]*finance.FinancialEntry, int64, error) {
	args := m.Called(ctx, from, to, filter)
	return args.Get(0).([]*finance.FinancialEntry), args.Get(1).(int64), args.Error(2)
}

func (m *MockFinancialEntryRepository) SumOpenByKind(ctx context.Context, kind finance.EntryKind) (decimal.Decimal, error) {
	args := m.Called(ctx, kind)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockFinancialEntryRepository) CashFlowByPeriod(ctx context.Context, from, to time.Time) ([]finance.CashFlowBucket, error) {
	args := m.Called(ctx, from, to)
	return args.Get(0).([]finance.CashFlowBucket), args.Error(1)
}

func (m *MockFinancialEntryRepository) Save(ctx context.Context, entry *finance.FinancialEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockFinancialEntryRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// MockCustomerRepository is a mock implementation of partner.CustomerRepository
type MockCustomerRepository struct {
	mock.Mock
}

func (m *MockCustomerRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Customer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindByCode(ctx context.Context, code string) (*partner.Customer, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindByDocument(ctx context.Context, document string) (*partner.Customer, error) {
	args := m.Called(ctx, document)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindAll(ctx context.Context, filter shared.Filter) ([]partner.Customer, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]partner.Customer), args.Error(1)
}

func (m *MockCustomerRepository) ExistsByDocument(ctx context.Context, document string) (bool, error) {
	args := m.Called(ctx, document)
	return args.Bool(0), args.Error(1)
}

func (m *MockCustomerRepository) Save(ctx context.Context, customer *partner.Customer) error {
	args := m.Called(ctx, customer)
	return args.Error(0)
}

func (m *MockCustomerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCustomerRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

// MockSupplierRepository is a mock implementation of partner.SupplierRepository
type MockSupplierRepository struct {
	mock.Mock
}

func (m *MockSupplierRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Supplier, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Supplier), args.Error(1)
}

func (m *MockSupplierRepository) FindByCode(ctx context.Context, code string) (*partner.Supplier, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Supplier), args.Error(1)
}

func (m *MockSupplierRepository) FindByCNPJ(ctx context.Context, cnpj string) (*partner.Supplier, error) {
	args := m.Called(ctx, cnpj)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Supplier), args.Error(1)
}

func (m *MockSupplierRepository) FindAll(ctx context.Context, filter shared.Filter) ([]partner.Supplier, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]partner.Supplier), args.Error(1)
}

func (m *MockSupplierRepository) ExistsByCNPJ(ctx context.Context, cnpj string) (bool, error) {
	args := m.Called(ctx, cnpj)
	return args.Bool(0), args.Error(1)
}

func (m *MockSupplierRepository) Save(ctx context.Context, supplier *partner.Supplier) error {
	args := m.Called(ctx, supplier)
	return args.Error(0)
}

func (m *MockSupplierRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockSupplierRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

// stubSequenceGenerator hands out deterministic document numbers
type stubSequenceGenerator struct {
	counter int64
}

func (s *stubSequenceGenerator) Next(_ context.Context, docType shared.DocumentType) (string, error) {
	s.counter++
	return shared.FormatDocumentNumber(docType, 2026, s.counter), nil
}

func newTestFinanceService() (*FinanceService, *MockFinancialEntryRepository, *MockCustomerRepository, *MockSupplierRepository) {
	entryRepo := new(MockFinancialEntryRepository)
	customerRepo := new(MockCustomerRepository)
	supplierRepo := new(MockSupplierRepository)
	service := NewFinanceService(entryRepo, customerRepo, supplierRepo, &stubSequenceGenerator{})
	return service, entryRepo, customerRepo, supplierRepo
}

func createTestEntry(t *testing.T, kind finance.EntryKind, amount float64, dueDate time.Time) *finance.FinancialEntry {
	entry, err := finance.NewFinancialEntry(
		"TL-2026-00001",
		kind,
		uuid.New(),
		"Título de teste",
		decimal.NewFromFloat(amount),
		dueDate,
	)
	require.NoError(t, err)
	entry.ClearDomainEvents()
	return entry
}

func TestFinanceService_CreateEntry_Receivable(t *testing.T) {
	service, entryRepo, customerRepo, _ := newTestFinanceService()
	customer, err := partner.NewCustomer("CLI-001", "Maria da Silva")
	require.NoError(t, err)

	customerRepo.On("FindByID", mock.Anything, customer.ID).Return(customer, nil)
	entryRepo.On("Save", mock.Anything, mock.AnythingOfType("*finance.FinancialEntry")).Return(nil)

	result, err := service.CreateEntry(context.Background(), CreateEntryRequest{
		Kind:           "RECEIVABLE",
		CounterpartyID: customer.ID,
		Description:    "Venda no crediário",
		Amount:         decimal.NewFromInt(500),
		DueDate:        time.Now().AddDate(0, 1, 0),
		DocumentRef:    "VD-2026-00010",
	})

	require.NoError(t, err)
	assert.Equal(t, "TL-2026-00001", result.EntryNumber)
	assert.Equal(t, "RECEIVABLE", result.Kind)
	assert.Equal(t, "PENDING", result.Status)
	assert.Equal(t, "VD-2026-00010", result.DocumentRef)
	assert.True(t, result.Remaining.Equal(decimal.NewFromInt(500)))
	entryRepo.AssertExpectations(t)
}

func TestFinanceService_CreateEntry_UnknownCounterparty(t *testing.T) {
	service, entryRepo, _, supplierRepo := newTestFinanceService()
	supplierID := uuid.New()

	supplierRepo.On("FindByID", mock.Anything, supplierID).Return(nil, shared.ErrNotFound)

	result, err := service.CreateEntry(context.Background(), CreateEntryRequest{
		Kind:           "PAYABLE",
		CounterpartyID: supplierID,
		Description:    "Compra avulsa",
		Amount:         decimal.NewFromInt(100),
		DueDate:        time.Now().AddDate(0, 0, 15),
	})

	assert.Error(t, err)
	assert.Nil(t, result)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "UNKNOWN_PARTY", domainErr.Code)
	entryRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestFinanceService_SettleEntry_PartialThenFull(t *testing.T) {
	service, entryRepo, _, _ := newTestFinanceService()
	entry := createTestEntry(t, finance.EntryKindReceivable, 1000, time.Now().AddDate(0, 1, 0))

	entryRepo.On("FindByID", mock.Anything, entry.ID).Return(entry, nil)
	entryRepo.On("Save", mock.Anything, entry).Return(nil)

	result, err := service.SettleEntry(context.Background(), entry.ID, SettleEntryRequest{
		Amount: decimal.NewFromInt(600),
	})
	require.NoError(t, err)
	assert.Equal(t, "PARTIAL", result.Status)
	assert.True(t, result.Remaining.Equal(decimal.NewFromInt(400)))

	result, err = service.SettleEntry(context.Background(), entry.ID, SettleEntryRequest{
		Amount: decimal.NewFromInt(400),
	})
	require.NoError(t, err)
	assert.Equal(t, "RECEIVED", result.Status)
	assert.True(t, result.Remaining.Equal(decimal.Zero))
	assert.NotNil(t, result.SettledAt)
}

func TestFinanceService_SettleEntry_AlreadySettled(t *testing.T) {
	service, entryRepo, _, _ := newTestFinanceService()
	entry := createTestEntry(t, finance.EntryKindPayable, 200, time.Now().AddDate(0, 1, 0))
	require.NoError(t, entry.Settle(decimal.NewFromInt(200), time.Now()))

	entryRepo.On("FindByID", mock.Anything, entry.ID).Return(entry, nil)

	result, err := service.SettleEntry(context.Background(), entry.ID, SettleEntryRequest{
		Amount: decimal.NewFromInt(50),
	})

	assert.Error(t, err)
	assert.Nil(t, result)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "ALREADY_SETTLED", domainErr.Code)
	entryRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestFinanceService_CancelEntry_WithSettlementApplied(t *testing.T) {
	service, entryRepo, _, _ := newTestFinanceService()
	entry := createTestEntry(t, finance.EntryKindReceivable, 300, time.Now().AddDate(0, 1, 0))
	require.NoError(t, entry.Settle(decimal.NewFromInt(100), time.Now()))

	entryRepo.On("FindByID", mock.Anything, entry.ID).Return(entry, nil)

	result, err := service.CancelEntry(context.Background(), entry.ID)

	assert.Error(t, err)
	assert.Nil(t, result)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "ALREADY_SETTLED", domainErr.Code)
}

func TestFinanceService_GetEntry_OverdueInterest(t *testing.T) {
	service, entryRepo, _, _ := newTestFinanceService()
	service.SetInterestDailyRate(decimal.NewFromFloat(0.1))
	dueDate := time.Now().AddDate(0, 0, -10)
	entry := createTestEntry(t, finance.EntryKindReceivable, 1000, dueDate)

	entryRepo.On("FindByID", mock.Anything, entry.ID).Return(entry, nil)

	result, err := service.GetEntry(context.Background(), entry.ID)

	require.NoError(t, err)
	assert.True(t, result.Overdue)
	assert.Equal(t, int64(10), result.OverdueDays)
	// 1000 + 1000 * 0.1% * 10 days
	assert.True(t, result.AmountDue.Equal(decimal.NewFromInt(1010)), "got %s", result.AmountDue)
	assert.True(t, result.Remaining.Equal(decimal.NewFromInt(1000)))
}

func TestFinanceService_ListEntries_OverdueOnly(t *testing.T) {
	service, entryRepo, _, _ := newTestFinanceService()
	entry := createTestEntry(t, finance.EntryKindReceivable, 100, time.Now().AddDate(0, 0, -5))

	entryRepo.On("FindOverdue", mock.Anything, mock.AnythingOfType("time.Time"), mock.AnythingOfType("shared.Filter")).
		Return([]*finance.FinancialEntry{entry}, int64(1), nil)

	results, total, err := service.ListEntries(context.Background(), EntryListFilter{
		OverdueOnly: true,
		Page:        1,
		PageSize:    20,
	})

	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, results, 1)
	assert.True(t, results[0].Overdue)
	entryRepo.AssertNotCalled(t, "FindAll", mock.Anything, mock.Anything)
}

func TestFinanceService_CashFlow_AggregatesPeriod(t *testing.T) {
	service, entryRepo, _, _ := newTestFinanceService()
	from := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 9, 30, 0, 0, 0, 0, time.UTC)

	entryRepo.On("CashFlowByPeriod", mock.Anything, from, to).Return([]finance.CashFlowBucket{
		{Day: from, Payable: decimal.NewFromInt(300), Receivable: decimal.NewFromInt(500)},
		{Day: from.AddDate(0, 0, 1), Payable: decimal.NewFromInt(200), Receivable: decimal.Zero},
	}, nil)

	result, err := service.CashFlow(context.Background(), from, to)

	require.NoError(t, err)
	require.Len(t, result.Days, 2)
	assert.True(t, result.TotalPayable.Equal(decimal.NewFromInt(500)))
	assert.True(t, result.TotalReceivable.Equal(decimal.NewFromInt(500)))
	assert.True(t, result.Net.Equal(decimal.Zero))
	assert.True(t, result.Days[0].Net.Equal(decimal.NewFromInt(200)))
}

func TestFinanceService_CashFlow_InvalidPeriod(t *testing.T) {
	service, _, _, _ := newTestFinanceService()
	from := time.Now()
	to := from.AddDate(0, 0, -1)

	result, err := service.CashFlow(context.Background(), from, to)

	assert.Error(t, err)
	assert.Nil(t, result)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_PERIOD", domainErr.Code)
}
