package pos

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	tradeapp "github.com/siscom/backend/internal/application/trade"
	"github.com/siscom/backend/internal/domain/pos"
	"github.com/siscom/backend/internal/domain/shared"
	"github.com/siscom/backend/internal/domain/trade"
)

// IdempotencyStore caches sale receipts under a client-supplied key so a
// retried PDV request returns the original receipt instead of ringing the
// sale twice. Redis-backed in production, in-memory in dev and tests.
type IdempotencyStore interface {
	// Get returns the cached value and whether the key was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores the value under the key for the given TTL.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// idempotencyTTL keeps receipts long enough to cover client retries
const idempotencyTTL = 24 * time.Hour

// SaleRegistrar is the slice of the sales service the PDV needs: ring up the
// quick sale, finalized and recorded on the drawer, in one transaction.
type SaleRegistrar interface {
	RegisterDrawerSale(ctx context.Context, req tradeapp.CreateSaleRequest, record tradeapp.DrawerRecorder) (*tradeapp.SaleResponse, error)
}

var _ SaleRegistrar = (*tradeapp.SalesService)(nil)

// PosService drives PDV cash sessions. Sales rung up at the PDV go through
// the regular quick-sale path (stock debit, document number) and are then
// recorded on the drawer.
type PosService struct {
	sessionRepo    pos.CashSessionRepository
	movementRepo   pos.CashMovementRepository
	sales          SaleRegistrar
	idempotency    IdempotencyStore
	eventPublisher shared.EventPublisher
}

// NewPosService creates a new PosService
func NewPosService(
	sessionRepo pos.CashSessionRepository,
	movementRepo pos.CashMovementRepository,
	sales SaleRegistrar,
) *PosService {
	return &PosService{
		sessionRepo:  sessionRepo,
		movementRepo: movementRepo,
		sales:        sales,
	}
}

// SetIdempotencyStore sets the receipt cache for idempotent sale registration
func (s *PosService) SetIdempotencyStore(store IdempotencyStore) {
	s.idempotency = store
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *PosService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

func (s *PosService) publishDomainEvents(ctx context.Context, session *pos.CashSession) {
	if s.eventPublisher == nil {
		return
	}
	events := session.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
	session.ClearDomainEvents()
}

// OpenSession opens a cash session for an operator. An operator has at most
// one open session at a time.
func (s *PosService) OpenSession(ctx context.Context, req OpenSessionRequest) (*SessionResponse, error) {
	existing, err := s.sessionRepo.FindOpenByOperator(ctx, req.OperatorID)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, shared.NewDomainError("SESSION_ALREADY_OPEN", "Operador já possui caixa aberto")
	}

	session, err := pos.NewCashSession(req.OperatorID, req.Terminal, req.OpeningBalance)
	if err != nil {
		return nil, err
	}
	if err := s.sessionRepo.Save(ctx, session); err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, session)
	response := ToSessionResponse(session)
	return &response, nil
}

// RegisterSale rings a quick sale against the session. The sale creation,
// stock debit and drawer movement commit in one transaction: the payment is
// checked before any stock moves, so an underpaid sale leaves nothing
// behind. A repeated Idempotency-Key returns the original receipt.
func (s *PosService) RegisterSale(ctx context.Context, sessionID uuid.UUID, idempotencyKey string, req RegisterSaleRequest) (*SaleReceiptResponse, error) {
	if cached, ok := s.cachedReceipt(ctx, idempotencyKey); ok {
		return cached, nil
	}

	session, err := s.sessionRepo.FindByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !session.IsOpen() {
		return nil, shared.NewDomainError("SESSION_CLOSED", "Caixa fechado não registra vendas")
	}

	items := make([]tradeapp.OrderItemRequest, 0, len(req.Items))
	for _, line := range req.Items {
		items = append(items, tradeapp.OrderItemRequest{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
		})
	}

	var change decimal.Decimal
	sale, err := s.sales.RegisterDrawerSale(ctx, tradeapp.CreateSaleRequest{
		CustomerID:    req.CustomerID,
		Items:         items,
		PaymentMethod: req.PaymentMethod,
		Remark:        "PDV " + session.Terminal,
	}, func(ctx context.Context, sessions pos.CashSessionRepository, order *trade.SalesOrder) error {
		var recErr error
		change, recErr = session.RegisterSale(order.PayableAmount, req.AmountPaid, pos.PaymentMethod(req.PaymentMethod), order.OrderNumber)
		if recErr != nil {
			return recErr
		}
		return sessions.Save(ctx, session)
	})
	if err != nil {
		return nil, err
	}

	receipt := &SaleReceiptResponse{
		SaleID:        sale.ID,
		OrderNumber:   sale.OrderNumber,
		Total:         sale.PayableAmount,
		AmountPaid:    req.AmountPaid,
		Change:        change,
		PaymentMethod: req.PaymentMethod,
		SessionID:     session.ID,
	}
	s.storeReceipt(ctx, idempotencyKey, receipt)
	return receipt, nil
}

func (s *PosService) cachedReceipt(ctx context.Context, key string) (*SaleReceiptResponse, bool) {
	if s.idempotency == nil || key == "" {
		return nil, false
	}
	data, found, err := s.idempotency.Get(ctx, key)
	if err != nil || !found {
		return nil, false
	}
	var receipt SaleReceiptResponse
	if err := json.Unmarshal(data, &receipt); err != nil {
		return nil, false
	}
	return &receipt, true
}

func (s *PosService) storeReceipt(ctx context.Context, key string, receipt *SaleReceiptResponse) {
	if s.idempotency == nil || key == "" {
		return
	}
	data, err := json.Marshal(receipt)
	if err != nil {
		return
	}
	_ = s.idempotency.Set(ctx, key, data, idempotencyTTL)
}

// Withdraw takes cash out of the drawer (sangria)
func (s *PosService) Withdraw(ctx context.Context, sessionID uuid.UUID, req CashAmountRequest) (*SessionResponse, error) {
	session, err := s.sessionRepo.FindByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := session.Withdraw(req.Amount, req.Reason); err != nil {
		return nil, err
	}
	if err := s.sessionRepo.Save(ctx, session); err != nil {
		return nil, err
	}
	response := ToSessionResponse(session)
	return &response, nil
}

// Deposit puts cash into the drawer (suprimento)
func (s *PosService) Deposit(ctx context.Context, sessionID uuid.UUID, req CashAmountRequest) (*SessionResponse, error) {
	session, err := s.sessionRepo.FindByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := session.Deposit(req.Amount, req.Reason); err != nil {
		return nil, err
	}
	if err := s.sessionRepo.Save(ctx, session); err != nil {
		return nil, err
	}
	response := ToSessionResponse(session)
	return &response, nil
}

// CloseSession closes the session against the counted drawer amount,
// computing the expected balance and any discrepancy
func (s *PosService) CloseSession(ctx context.Context, sessionID uuid.UUID, req CloseSessionRequest) (*SessionResponse, error) {
	session, err := s.sessionRepo.FindByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := session.Close(req.CountedAmount); err != nil {
		return nil, err
	}
	if err := s.sessionRepo.Save(ctx, session); err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, session)
	response := ToSessionResponse(session)
	return &response, nil
}

// GetSession retrieves a session with its movements
func (s *PosService) GetSession(ctx context.Context, sessionID uuid.UUID) (*SessionResponse, error) {
	session, err := s.sessionRepo.FindByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if len(session.Movements) == 0 {
		movements, err := s.movementRepo.FindBySession(ctx, sessionID)
		if err != nil {
			return nil, err
		}
		session.Movements = make([]pos.CashMovement, 0, len(movements))
		for _, movement := range movements {
			session.Movements = append(session.Movements, *movement)
		}
	}
	response := ToSessionResponse(session)
	return &response, nil
}

// ListSessions retrieves sessions with pagination
func (s *PosService) ListSessions(ctx context.Context, filter SessionListFilter) ([]SessionResponse, int64, error) {
	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
	}.Normalize()

	var sessions []*pos.CashSession
	var total int64
	var err error
	if filter.OperatorID != nil {
		sessions, total, err = s.sessionRepo.FindByOperator(ctx, *filter.OperatorID, domainFilter)
	} else {
		sessions, total, err = s.sessionRepo.FindAll(ctx, domainFilter)
	}
	if err != nil {
		return nil, 0, err
	}

	responses := make([]SessionResponse, 0, len(sessions))
	for _, session := range sessions {
		responses = append(responses, ToSessionResponse(session))
	}
	return responses, total, nil
}
