package pos

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	tradeapp "github.com/siscom/backend/internal/application/trade"
	"github.com/siscom/backend/internal/domain/pos"
	"github.com/siscom/backend/internal/domain/shared"
	"github.com/siscom/backend/internal/domain/shared/valueobject"
	"github.com/siscom/backend/internal/domain/trade"
)

// MockCashSessionRepository is a mock implementation of pos.CashSessionRepository
type MockCashSessionRepository struct {
	mock.Mock
}

func (m *MockCashSessionRepository) FindByID(ctx context.Context, id uuid.UUID) (*pos.CashSession, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pos.CashSession), args.Error(1)
}

func (m *MockCashSessionRepository) FindOpenByOperator(ctx context.Context, operatorID uuid.UUID) (*pos.CashSession, error) {
	args := m.Called(ctx, operatorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pos.CashSession), args.Error(1)
}

func (m *MockCashSessionRepository) FindAll(ctx context.Context, filter shared.Filter) ([]*pos.CashSession, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]*pos.CashSession), args.Get(1).(int64), args.Error(2)
}

func (m *MockCashSessionRepository) FindByOperator(ctx context.Context, operatorID uuid.UUID, filter shared.Filter) ([]*pos.CashSession, int64, error) {
	args := m.Called(ctx, operatorID, filter)
	return args.Get(0).([]*pos.CashSession), args.Get(1).(int64), args.Error(2)
}

func (m *MockCashSessionRepository) FindByDateRange(ctx context.Context, from, to time.Time, filter shared.Filter) ([]*pos.CashSession, int64, error) {
	args := m.Called(ctx, from, to, filter)
	return args.Get(0).([]*pos.CashSession), args.Get(1).(int64), args.Error(2)
}

func (m *MockCashSessionRepository) FindWithDiscrepancy(ctx context.Context, filter shared.Filter) ([]*pos.CashSession, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]*pos.CashSession), args.Get(1).(int64), args.Error(2)
}

func (m *MockCashSessionRepository) Save(ctx context.Context, session *pos.CashSession) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *MockCashSessionRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// MockCashMovementRepository is a mock implementation of pos.CashMovementRepository
type MockCashMovementRepository struct {
	mock.Mock
}

func (m *MockCashMovementRepository) FindBySession(ctx context.Context, sessionID uuid.UUID) ([]*pos.CashMovement, error) {
	args := m.Called(ctx, sessionID)
	return args.Get(0).([]*pos.CashMovement), args.Error(1)
}

func (m *MockCashMovementRepository) FindByDocumentRef(ctx context.Context, documentRef string) ([]*pos.CashMovement, error) {
	args := m.Called(ctx, documentRef)
	return args.Get(0).([]*pos.CashMovement), args.Error(1)
}

func (m *MockCashMovementRepository) CountBySession(ctx context.Context, sessionID uuid.UUID) (int64, error) {
	args := m.Called(ctx, sessionID)
	return args.Get(0).(int64), args.Error(1)
}

// stubSaleRegistrar mirrors the sales service's one-transaction PDV flow:
// the order is built, the drawer recorder runs, then the sale finalizes.
// An error at any stage aborts the whole registration.
type stubSaleRegistrar struct {
	sessions pos.CashSessionRepository
	order    *trade.SalesOrder
	calls    int
	requests []tradeapp.CreateSaleRequest
}

func (s *stubSaleRegistrar) RegisterDrawerSale(ctx context.Context, req tradeapp.CreateSaleRequest, record tradeapp.DrawerRecorder) (*tradeapp.SaleResponse, error) {
	s.calls++
	s.requests = append(s.requests, req)
	if err := record(ctx, s.sessions, s.order); err != nil {
		return nil, err
	}
	if err := s.order.Finalize(); err != nil {
		return nil, err
	}
	response := tradeapp.ToSaleResponse(s.order)
	return &response, nil
}

// memoryIdempotencyStore is an in-memory IdempotencyStore for tests
type memoryIdempotencyStore struct {
	mu      sync.Mutex
	entries map[string][]byte
}

func newMemoryIdempotencyStore() *memoryIdempotencyStore {
	return &memoryIdempotencyStore{entries: make(map[string][]byte)}
}

func (s *memoryIdempotencyStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	value, found := s.entries[key]
	return value, found, nil
}

func (s *memoryIdempotencyStore) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = value
	return nil
}

func newTestPosService() (*PosService, *MockCashSessionRepository, *MockCashMovementRepository, *stubSaleRegistrar) {
	sessionRepo := new(MockCashSessionRepository)
	movementRepo := new(MockCashMovementRepository)
	sales := &stubSaleRegistrar{sessions: sessionRepo}
	service := NewPosService(sessionRepo, movementRepo, sales)
	return service, sessionRepo, movementRepo, sales
}

func createOpenSession(t *testing.T, openingBalance float64) *pos.CashSession {
	session, err := pos.NewCashSession(uuid.New(), "CAIXA-01", decimal.NewFromFloat(openingBalance))
	require.NoError(t, err)
	session.ClearDomainEvents()
	return session
}

func pdvOrder(t *testing.T, total float64) *trade.SalesOrder {
	t.Helper()
	order, err := trade.NewSalesOrder("VD-2026-00001", nil, "")
	require.NoError(t, err)
	_, err = order.AddItem(uuid.New(), "Produto PDV", "PROD-001", decimal.NewFromInt(1),
		valueobject.NewMoneyBRLFromFloat(total))
	require.NoError(t, err)
	return order
}

func TestPosService_OpenSession_Success(t *testing.T) {
	service, sessionRepo, _, _ := newTestPosService()
	operatorID := uuid.New()

	sessionRepo.On("FindOpenByOperator", mock.Anything, operatorID).Return(nil, shared.ErrNotFound)
	sessionRepo.On("Save", mock.Anything, mock.AnythingOfType("*pos.CashSession")).Return(nil)

	result, err := service.OpenSession(context.Background(), OpenSessionRequest{
		OperatorID:     operatorID,
		Terminal:       "CAIXA-01",
		OpeningBalance: decimal.NewFromInt(100),
	})

	require.NoError(t, err)
	assert.Equal(t, "OPEN", result.Status)
	assert.Equal(t, operatorID, result.OperatorID)
	assert.True(t, result.OpeningBalance.Equal(decimal.NewFromInt(100)))
	assert.True(t, result.RunningBalance.Equal(decimal.NewFromInt(100)))
	sessionRepo.AssertExpectations(t)
}

func TestPosService_OpenSession_OperatorAlreadyHasOpenSession(t *testing.T) {
	service, sessionRepo, _, _ := newTestPosService()
	existing := createOpenSession(t, 50)

	sessionRepo.On("FindOpenByOperator", mock.Anything, existing.OperatorID).Return(existing, nil)

	result, err := service.OpenSession(context.Background(), OpenSessionRequest{
		OperatorID:     existing.OperatorID,
		Terminal:       "CAIXA-02",
		OpeningBalance: decimal.NewFromInt(100),
	})

	assert.Error(t, err)
	assert.Nil(t, result)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "SESSION_ALREADY_OPEN", domainErr.Code)
	sessionRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestPosService_RegisterSale_CashSaleRecordsDrawerAndChange(t *testing.T) {
	service, sessionRepo, _, sales := newTestPosService()
	session := createOpenSession(t, 100)
	sales.order = pdvOrder(t, 80)
	productID := uuid.New()

	sessionRepo.On("FindByID", mock.Anything, session.ID).Return(session, nil)
	sessionRepo.On("Save", mock.Anything, session).Return(nil)

	receipt, err := service.RegisterSale(context.Background(), session.ID, "", RegisterSaleRequest{
		Items:         []SaleItemRequest{{ProductID: productID, Quantity: decimal.NewFromInt(2)}},
		AmountPaid:    decimal.NewFromInt(100),
		PaymentMethod: string(pos.PaymentMethodCash),
	})

	require.NoError(t, err)
	assert.Equal(t, "VD-2026-00001", receipt.OrderNumber)
	assert.True(t, receipt.Total.Equal(decimal.NewFromInt(80)))
	assert.True(t, receipt.Change.Equal(decimal.NewFromInt(20)))

	require.Len(t, sales.requests, 1)
	assert.Equal(t, "PDV CAIXA-01", sales.requests[0].Remark)
	require.Len(t, sales.requests[0].Items, 1)
	assert.Equal(t, productID, sales.requests[0].Items[0].ProductID)

	require.Len(t, session.Movements, 1)
	assert.Equal(t, pos.CashMovementTypeSale, session.Movements[0].Type)
	assert.Equal(t, "VD-2026-00001", session.Movements[0].DocumentRef)
	assert.True(t, session.RunningBalance().Equal(decimal.NewFromInt(180)))
	sessionRepo.AssertExpectations(t)
}

func TestPosService_RegisterSale_CardSaleDoesNotEnterDrawer(t *testing.T) {
	service, sessionRepo, _, sales := newTestPosService()
	session := createOpenSession(t, 100)
	sales.order = pdvOrder(t, 80)

	sessionRepo.On("FindByID", mock.Anything, session.ID).Return(session, nil)
	sessionRepo.On("Save", mock.Anything, session).Return(nil)

	_, err := service.RegisterSale(context.Background(), session.ID, "", RegisterSaleRequest{
		Items:         []SaleItemRequest{{ProductID: uuid.New(), Quantity: decimal.NewFromInt(1)}},
		AmountPaid:    decimal.NewFromInt(80),
		PaymentMethod: string(pos.PaymentMethodCard),
	})

	require.NoError(t, err)
	require.Len(t, session.Movements, 1)
	assert.True(t, session.RunningBalance().Equal(decimal.NewFromInt(100)))
}

func TestPosService_RegisterSale_IdempotentReplayReturnsCachedReceipt(t *testing.T) {
	service, sessionRepo, _, sales := newTestPosService()
	service.SetIdempotencyStore(newMemoryIdempotencyStore())
	session := createOpenSession(t, 100)
	sales.order = pdvOrder(t, 80)

	sessionRepo.On("FindByID", mock.Anything, session.ID).Return(session, nil)
	sessionRepo.On("Save", mock.Anything, session).Return(nil)

	req := RegisterSaleRequest{
		Items:         []SaleItemRequest{{ProductID: uuid.New(), Quantity: decimal.NewFromInt(1)}},
		AmountPaid:    decimal.NewFromInt(100),
		PaymentMethod: string(pos.PaymentMethodCash),
	}

	first, err := service.RegisterSale(context.Background(), session.ID, "key-123", req)
	require.NoError(t, err)

	second, err := service.RegisterSale(context.Background(), session.ID, "key-123", req)
	require.NoError(t, err)

	assert.Equal(t, first.SaleID, second.SaleID)
	assert.True(t, first.Total.Equal(second.Total))
	assert.True(t, first.Change.Equal(second.Change))
	assert.Equal(t, 1, sales.calls)
	require.Len(t, session.Movements, 1)
}

func TestPosService_RegisterSale_ClosedSession(t *testing.T) {
	service, sessionRepo, _, sales := newTestPosService()
	session := createOpenSession(t, 100)
	require.NoError(t, session.Close(decimal.NewFromInt(100)))

	sessionRepo.On("FindByID", mock.Anything, session.ID).Return(session, nil)

	result, err := service.RegisterSale(context.Background(), session.ID, "", RegisterSaleRequest{
		Items:         []SaleItemRequest{{ProductID: uuid.New(), Quantity: decimal.NewFromInt(1)}},
		AmountPaid:    decimal.NewFromInt(50),
		PaymentMethod: string(pos.PaymentMethodCash),
	})

	assert.Error(t, err)
	assert.Nil(t, result)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "SESSION_CLOSED", domainErr.Code)
	assert.Zero(t, sales.calls)
}

func TestPosService_RegisterSale_InsufficientPaymentAbortsRegistration(t *testing.T) {
	service, sessionRepo, _, sales := newTestPosService()
	session := createOpenSession(t, 100)
	sales.order = pdvOrder(t, 80)

	sessionRepo.On("FindByID", mock.Anything, session.ID).Return(session, nil)

	receipt, err := service.RegisterSale(context.Background(), session.ID, "", RegisterSaleRequest{
		Items:         []SaleItemRequest{{ProductID: uuid.New(), Quantity: decimal.NewFromInt(1)}},
		AmountPaid:    decimal.NewFromInt(50),
		PaymentMethod: string(pos.PaymentMethodCash),
	})

	assert.Error(t, err)
	assert.Nil(t, receipt)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INSUFFICIENT_PAYMENT", domainErr.Code)
	assert.Empty(t, session.Movements)
	assert.True(t, sales.order.IsOpen())
	sessionRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestPosService_RegisterSale_DrawerSaveFailureAbortsRegistration(t *testing.T) {
	service, sessionRepo, _, sales := newTestPosService()
	session := createOpenSession(t, 100)
	sales.order = pdvOrder(t, 80)

	sessionRepo.On("FindByID", mock.Anything, session.ID).Return(session, nil)
	sessionRepo.On("Save", mock.Anything, session).Return(errors.New("gaveta indisponível"))

	receipt, err := service.RegisterSale(context.Background(), session.ID, "", RegisterSaleRequest{
		Items:         []SaleItemRequest{{ProductID: uuid.New(), Quantity: decimal.NewFromInt(1)}},
		AmountPaid:    decimal.NewFromInt(100),
		PaymentMethod: string(pos.PaymentMethodCash),
	})

	assert.Error(t, err)
	assert.Nil(t, receipt)
	assert.True(t, sales.order.IsOpen())
}

func TestPosService_Withdraw_OverRunningBalance(t *testing.T) {
	service, sessionRepo, _, _ := newTestPosService()
	session := createOpenSession(t, 100)

	sessionRepo.On("FindByID", mock.Anything, session.ID).Return(session, nil)

	result, err := service.Withdraw(context.Background(), session.ID, CashAmountRequest{
		Amount: decimal.NewFromInt(150),
		Reason: "Sangria de teste",
	})

	assert.Error(t, err)
	assert.Nil(t, result)
	assert.ErrorIs(t, err, shared.ErrInsufficientBalance)
	sessionRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestPosService_WithdrawAndDeposit_AdjustRunningBalance(t *testing.T) {
	service, sessionRepo, _, _ := newTestPosService()
	session := createOpenSession(t, 100)

	sessionRepo.On("FindByID", mock.Anything, session.ID).Return(session, nil)
	sessionRepo.On("Save", mock.Anything, session).Return(nil)

	result, err := service.Deposit(context.Background(), session.ID, CashAmountRequest{
		Amount: decimal.NewFromInt(50),
		Reason: "Troco adicional",
	})
	require.NoError(t, err)
	assert.True(t, result.RunningBalance.Equal(decimal.NewFromInt(150)))

	result, err = service.Withdraw(context.Background(), session.ID, CashAmountRequest{
		Amount: decimal.NewFromInt(120),
		Reason: "Recolhimento para o cofre",
	})
	require.NoError(t, err)
	assert.True(t, result.RunningBalance.Equal(decimal.NewFromInt(30)))
}

func TestPosService_CloseSession_ComputesDiscrepancy(t *testing.T) {
	service, sessionRepo, _, sales := newTestPosService()
	session := createOpenSession(t, 100)
	sales.order = pdvOrder(t, 100)

	sessionRepo.On("FindByID", mock.Anything, session.ID).Return(session, nil)
	sessionRepo.On("Save", mock.Anything, session).Return(nil)

	_, err := service.RegisterSale(context.Background(), session.ID, "", RegisterSaleRequest{
		Items:         []SaleItemRequest{{ProductID: uuid.New(), Quantity: decimal.NewFromInt(1)}},
		AmountPaid:    decimal.NewFromInt(100),
		PaymentMethod: string(pos.PaymentMethodCash),
	})
	require.NoError(t, err)

	result, err := service.CloseSession(context.Background(), session.ID, CloseSessionRequest{
		CountedAmount: decimal.NewFromInt(195),
	})

	require.NoError(t, err)
	assert.Equal(t, "CLOSED", result.Status)
	assert.True(t, result.ExpectedAmount.Equal(decimal.NewFromInt(200)))
	assert.True(t, result.CountedAmount.Equal(decimal.NewFromInt(195)))
	assert.True(t, result.Discrepancy.Equal(decimal.NewFromInt(-5)))
	assert.NotNil(t, result.ClosedAt)
}

func TestPosService_CloseSession_AlreadyClosed(t *testing.T) {
	service, sessionRepo, _, _ := newTestPosService()
	session := createOpenSession(t, 100)
	require.NoError(t, session.Close(decimal.NewFromInt(100)))

	sessionRepo.On("FindByID", mock.Anything, session.ID).Return(session, nil)

	result, err := service.CloseSession(context.Background(), session.ID, CloseSessionRequest{
		CountedAmount: decimal.NewFromInt(100),
	})

	assert.Error(t, err)
	assert.Nil(t, result)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "ALREADY_CLOSED", domainErr.Code)
}

func TestPosService_GetSession_LoadsMovements(t *testing.T) {
	service, sessionRepo, movementRepo, _ := newTestPosService()
	session := createOpenSession(t, 100)
	require.NoError(t, session.Deposit(decimal.NewFromInt(25), "Troco"))
	stored := make([]*pos.CashMovement, 0, len(session.Movements))
	for i := range session.Movements {
		movement := session.Movements[i]
		stored = append(stored, &movement)
	}
	session.Movements = nil

	sessionRepo.On("FindByID", mock.Anything, session.ID).Return(session, nil)
	movementRepo.On("FindBySession", mock.Anything, session.ID).Return(stored, nil)

	result, err := service.GetSession(context.Background(), session.ID)

	require.NoError(t, err)
	require.Len(t, result.Movements, 1)
	assert.Equal(t, pos.CashMovementTypeDeposit.String(), result.Movements[0].Type)
	assert.True(t, result.RunningBalance.Equal(decimal.NewFromInt(125)))
	movementRepo.AssertExpectations(t)
}

func TestPosService_ListSessions_FiltersByOperator(t *testing.T) {
	service, sessionRepo, _, _ := newTestPosService()
	session := createOpenSession(t, 100)
	operatorID := session.OperatorID

	sessionRepo.On("FindByOperator", mock.Anything, operatorID, mock.AnythingOfType("shared.Filter")).
		Return([]*pos.CashSession{session}, int64(1), nil)

	results, total, err := service.ListSessions(context.Background(), SessionListFilter{
		OperatorID: &operatorID,
		Page:       1,
		PageSize:   20,
	})

	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, results, 1)
	assert.Equal(t, session.ID, results[0].ID)
	sessionRepo.AssertNotCalled(t, "FindAll", mock.Anything, mock.Anything)
}
