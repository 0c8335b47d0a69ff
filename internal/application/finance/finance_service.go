package finance

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/siscom/backend/internal/domain/finance"
	"github.com/siscom/backend/internal/domain/partner"
	"github.com/siscom/backend/internal/domain/shared"
)

// FinanceService handles payables and receivables. Entries created from
// orders (purchase receipt, crediário, service invoicing) arrive through
// the trade services; this service covers manual entries, settlement and
// the reporting read paths.
type FinanceService struct {
	entryRepo      finance.FinancialEntryRepository
	customerRepo   partner.CustomerRepository
	supplierRepo   partner.SupplierRepository
	sequences      shared.SequenceGenerator
	interestRate   decimal.Decimal // Daily percent applied to overdue entries
	eventPublisher shared.EventPublisher
}

// NewFinanceService creates a new FinanceService
func NewFinanceService(
	entryRepo finance.FinancialEntryRepository,
	customerRepo partner.CustomerRepository,
	supplierRepo partner.SupplierRepository,
	sequences shared.SequenceGenerator,
) *FinanceService {
	return &FinanceService{
		entryRepo:    entryRepo,
		customerRepo: customerRepo,
		supplierRepo: supplierRepo,
		sequences:    sequences,
	}
}

// SetInterestDailyRate sets the daily percent rate charged on overdue entries
func (s *FinanceService) SetInterestDailyRate(rate decimal.Decimal) {
	s.interestRate = rate
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *FinanceService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

func (s *FinanceService) publishDomainEvents(ctx context.Context, entry *finance.FinancialEntry) {
	if s.eventPublisher == nil {
		return
	}
	events := entry.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
	entry.ClearDomainEvents()
}

// resolveCounterparty checks that the counterparty referenced by the entry
// exists for its kind, customer for receivables and supplier for payables.
func (s *FinanceService) resolveCounterparty(ctx context.Context, kind finance.EntryKind, counterpartyID uuid.UUID) error {
	var err error
	if kind == finance.EntryKindReceivable {
		_, err = s.customerRepo.FindByID(ctx, counterpartyID)
	} else {
		_, err = s.supplierRepo.FindByID(ctx, counterpartyID)
	}
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NewDomainError("UNKNOWN_PARTY", "Contraparte do título não encontrada")
		}
		return err
	}
	return nil
}

// CreateEntry creates a manual payable or receivable
func (s *FinanceService) CreateEntry(ctx context.Context, req CreateEntryRequest) (*EntryResponse, error) {
	kind := finance.EntryKind(req.Kind)
	if !kind.IsValid() {
		return nil, shared.NewDomainError("INVALID_KIND", "Tipo de título inválido")
	}
	if err := s.resolveCounterparty(ctx, kind, req.CounterpartyID); err != nil {
		return nil, err
	}

	entryNumber, err := s.sequences.Next(ctx, shared.DocumentTypeFinancial)
	if err != nil {
		return nil, err
	}

	entry, err := finance.NewFinancialEntry(entryNumber, kind, req.CounterpartyID, req.Description, req.Amount, req.DueDate)
	if err != nil {
		return nil, err
	}
	if req.DocumentRef != "" {
		entry.SetDocumentRef(req.DocumentRef)
	}

	if err := s.entryRepo.Save(ctx, entry); err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, entry)
	response := ToEntryResponse(entry, s.interestRate)
	return &response, nil
}

// SettleEntry applies a payment to an entry
func (s *FinanceService) SettleEntry(ctx context.Context, id uuid.UUID, req SettleEntryRequest) (*EntryResponse, error) {
	entry, err := s.entryRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	date := time.Now()
	if req.Date != nil {
		date = *req.Date
	}
	if err := entry.Settle(req.Amount, date); err != nil {
		return nil, err
	}
	if err := s.entryRepo.Save(ctx, entry); err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, entry)
	response := ToEntryResponse(entry, s.interestRate)
	return &response, nil
}

// CancelEntry voids a pending entry
func (s *FinanceService) CancelEntry(ctx context.Context, id uuid.UUID) (*EntryResponse, error) {
	entry, err := s.entryRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := entry.Cancel(); err != nil {
		return nil, err
	}
	if err := s.entryRepo.Save(ctx, entry); err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, entry)
	response := ToEntryResponse(entry, s.interestRate)
	return &response, nil
}

// GetEntry retrieves an entry by ID
func (s *FinanceService) GetEntry(ctx context.Context, id uuid.UUID) (*EntryResponse, error) {
	entry, err := s.entryRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToEntryResponse(entry, s.interestRate)
	return &response, nil
}

// GetEntryByNumber retrieves an entry by its document number
func (s *FinanceService) GetEntryByNumber(ctx context.Context, entryNumber string) (*EntryResponse, error) {
	entry, err := s.entryRepo.FindByNumber(ctx, entryNumber)
	if err != nil {
		return nil, err
	}
	response := ToEntryResponse(entry, s.interestRate)
	return &response, nil
}

// ListEntries retrieves entries with pagination. The filters narrow in
// priority order: overdue, counterparty, due-date range, status, kind.
func (s *FinanceService) ListEntries(ctx context.Context, filter EntryListFilter) ([]EntryResponse, int64, error) {
	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
	}.Normalize()

	var entries []*finance.FinancialEntry
	var total int64
	var err error
	switch {
	case filter.OverdueOnly:
		entries, total, err = s.entryRepo.FindOverdue(ctx, time.Now(), domainFilter)
	case filter.CounterpartyID != nil:
		entries, total, err = s.entryRepo.FindByCounterparty(ctx, *filter.CounterpartyID, domainFilter)
	case filter.DueFrom != nil && filter.DueTo != nil:
		entries, total, err = s.entryRepo.FindByDueDateRange(ctx, *filter.DueFrom, *filter.DueTo, domainFilter)
	case filter.Status != "":
		entries, total, err = s.entryRepo.FindByStatus(ctx, finance.EntryStatus(filter.Status), domainFilter)
	case filter.Kind != "":
		entries, total, err = s.entryRepo.FindByKind(ctx, finance.EntryKind(filter.Kind), domainFilter)
	default:
		entries, total, err = s.entryRepo.FindAll(ctx, domainFilter)
	}
	if err != nil {
		return nil, 0, err
	}

	responses := make([]EntryResponse, 0, len(entries))
	for _, entry := range entries {
		responses = append(responses, ToEntryResponse(entry, s.interestRate))
	}
	return responses, total, nil
}

// OpenBalance sums the open payable and receivable amounts
func (s *FinanceService) OpenBalance(ctx context.Context) (*OpenBalanceResponse, error) {
	payable, err := s.entryRepo.SumOpenByKind(ctx, finance.EntryKindPayable)
	if err != nil {
		return nil, err
	}
	receivable, err := s.entryRepo.SumOpenByKind(ctx, finance.EntryKindReceivable)
	if err != nil {
		return nil, err
	}
	return &OpenBalanceResponse{OpenPayable: payable, OpenReceivable: receivable}, nil
}

// CashFlow projects payables against receivables by due date over a period
func (s *FinanceService) CashFlow(ctx context.Context, from, to time.Time) (*CashFlowResponse, error) {
	if to.Before(from) {
		return nil, shared.NewDomainError("INVALID_PERIOD", "Período de fluxo de caixa inválido")
	}

	buckets, err := s.entryRepo.CashFlowByPeriod(ctx, from, to)
	if err != nil {
		return nil, err
	}

	response := &CashFlowResponse{
		From:            from,
		To:              to,
		Days:            make([]CashFlowDayResponse, 0, len(buckets)),
		TotalPayable:    decimal.Zero,
		TotalReceivable: decimal.Zero,
	}
	for _, bucket := range buckets {
		response.Days = append(response.Days, CashFlowDayResponse{
			Day:        bucket.Day,
			Payable:    bucket.Payable,
			Receivable: bucket.Receivable,
			Net:        bucket.Receivable.Sub(bucket.Payable),
		})
		response.TotalPayable = response.TotalPayable.Add(bucket.Payable)
		response.TotalReceivable = response.TotalReceivable.Add(bucket.Receivable)
	}
	response.Net = response.TotalReceivable.Sub(response.TotalPayable)
	return response, nil
}
