package trade

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/siscom/backend/internal/domain/catalog"
	"github.com/siscom/backend/internal/domain/finance"
	"github.com/siscom/backend/internal/domain/inventory"
	"github.com/siscom/backend/internal/domain/partner"
	"github.com/siscom/backend/internal/domain/pos"
	"github.com/siscom/backend/internal/domain/shared"
	"github.com/siscom/backend/internal/domain/shared/valueobject"
	"github.com/siscom/backend/internal/domain/trade"
)

// PaymentMethodCrediario marks sales settled later through a receivable
const PaymentMethodCrediario = "CREDIARIO"

// DefaultCrediarioDueDays is the due term for crediário receivables
const DefaultCrediarioDueDays = 30

// SalesService drives the sale lifecycle. Finalizing debits stock and, for
// crediário sales, creates the receivable; cancelling a finalized sale puts
// the stock back exactly. All side effects commit atomically with the
// status change.
type SalesService struct {
	scope          TransactionScope
	salesRepo      trade.SalesOrderRepository
	productRepo    catalog.ProductRepository
	customerRepo   partner.CustomerRepository
	policy         inventory.AllocationPolicy
	eventPublisher shared.EventPublisher
}

// NewSalesService creates a new SalesService
func NewSalesService(
	scope TransactionScope,
	salesRepo trade.SalesOrderRepository,
	productRepo catalog.ProductRepository,
	customerRepo partner.CustomerRepository,
	policy inventory.AllocationPolicy,
) *SalesService {
	return &SalesService{
		scope:        scope,
		salesRepo:    salesRepo,
		productRepo:  productRepo,
		customerRepo: customerRepo,
		policy:       policy,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *SalesService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

func (s *SalesService) publishDomainEvents(ctx context.Context, order *trade.SalesOrder) {
	if s.eventPublisher == nil {
		return
	}
	events := order.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
	order.ClearDomainEvents()
}

// Create creates an open sale with its line items
func (s *SalesService) Create(ctx context.Context, req CreateSaleRequest) (*SaleResponse, error) {
	customerName, err := s.resolveCustomer(ctx, req)
	if err != nil {
		return nil, err
	}

	var order *trade.SalesOrder
	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var txErr error
		order, txErr = s.buildOrder(ctx, repos, req, customerName)
		if txErr != nil {
			return txErr
		}
		return repos.SalesRepo().Save(ctx, order)
	})
	if err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, order)
	response := ToSaleResponse(order)
	return &response, nil
}

func (s *SalesService) resolveCustomer(ctx context.Context, req CreateSaleRequest) (string, error) {
	if len(req.Items) == 0 {
		return "", shared.NewDomainError("EMPTY_ORDER", "Venda deve ter ao menos um item")
	}
	if req.CustomerID == nil {
		return "", nil
	}
	customer, err := s.customerRepo.FindByID(ctx, *req.CustomerID)
	if err != nil {
		return "", err
	}
	if !customer.IsActive() {
		return "", shared.NewDomainError("CUSTOMER_INACTIVE", "Cliente inativo ou suspenso")
	}
	return customer.Name, nil
}

// buildOrder assembles the order with a fresh document number inside the
// transaction. The order is not saved here.
func (s *SalesService) buildOrder(ctx context.Context, repos TransactionalRepositories, req CreateSaleRequest, customerName string) (*trade.SalesOrder, error) {
	orderNumber, err := repos.Sequences().Next(ctx, shared.DocumentTypeSale)
	if err != nil {
		return nil, err
	}

	order, err := trade.NewSalesOrder(orderNumber, req.CustomerID, customerName)
	if err != nil {
		return nil, err
	}

	for _, line := range req.Items {
		product, lineErr := s.productRepo.FindByID(ctx, line.ProductID)
		if lineErr != nil {
			return nil, lineErr
		}
		if !product.IsActive() {
			return nil, shared.NewDomainError("PRODUCT_INACTIVE", "Produto inativo não pode ser vendido")
		}

		unitPrice := product.GetSalePriceMoney()
		if line.UnitPrice != nil {
			unitPrice = valueobject.NewMoneyBRL(*line.UnitPrice)
		}
		item, lineErr := order.AddItem(product.ID, product.Name, product.Code, line.Quantity, unitPrice)
		if lineErr != nil {
			return nil, lineErr
		}
		if line.Discount.IsPositive() {
			if lineErr = order.ApplyItemDiscount(item.ID, valueobject.NewMoneyBRL(line.Discount)); lineErr != nil {
				return nil, lineErr
			}
		}
	}

	if req.Discount.IsPositive() {
		if err = order.ApplyDiscount(valueobject.NewMoneyBRL(req.Discount)); err != nil {
			return nil, err
		}
	}
	if req.ExtraCharges.IsPositive() {
		if err = order.SetExtraCharges(valueobject.NewMoneyBRL(req.ExtraCharges)); err != nil {
			return nil, err
		}
	}
	if req.PaymentMethod != "" {
		order.SetPaymentMethod(req.PaymentMethod)
	}
	if req.Remark != "" {
		order.SetRemark(req.Remark)
	}
	return order, nil
}

// Finalize closes the sale, debiting stock for every line and creating the
// crediário receivable when applicable, all in one transaction.
func (s *SalesService) Finalize(ctx context.Context, id uuid.UUID) (*SaleResponse, error) {
	var order *trade.SalesOrder
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var txErr error
		order, txErr = repos.SalesRepo().FindByID(ctx, id)
		if txErr != nil {
			return txErr
		}
		if txErr = s.finalizeOrder(ctx, repos, order); txErr != nil {
			return txErr
		}
		return repos.SalesRepo().Save(ctx, order)
	})
	if err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, order)
	response := ToSaleResponse(order)
	return &response, nil
}

// finalizeOrder applies the finalize side effects inside the transaction:
// the status change, the stock debit for every line and the crediário
// receivable when applicable.
func (s *SalesService) finalizeOrder(ctx context.Context, repos TransactionalRepositories, order *trade.SalesOrder) error {
	if err := order.Finalize(); err != nil {
		return err
	}

	for i := range order.Items {
		item := &order.Items[i]
		product, err := s.productRepo.FindByID(ctx, item.ProductID)
		if err != nil {
			return err
		}
		if err = debitStock(ctx, repos, product, s.policy, item.Quantity, order.OrderNumber); err != nil {
			return err
		}
	}

	if order.PaymentMethod == PaymentMethodCrediario {
		return s.createReceivable(ctx, repos, order)
	}
	return nil
}

// DrawerRecorder records a PDV sale on the cash drawer inside the sale's
// transaction. The session repository it receives is scoped to that
// transaction, so the drawer movement commits or rolls back with the sale.
type DrawerRecorder func(ctx context.Context, sessions pos.CashSessionRepository, order *trade.SalesOrder) error

// RegisterDrawerSale creates, finalizes and records a PDV sale on the drawer
// in one transaction. The recorder runs after the order totals are known but
// before any stock is debited, so an underpaid sale rolls back without
// leaving an orphan order or stock movement behind.
func (s *SalesService) RegisterDrawerSale(ctx context.Context, req CreateSaleRequest, record DrawerRecorder) (*SaleResponse, error) {
	customerName, err := s.resolveCustomer(ctx, req)
	if err != nil {
		return nil, err
	}

	var order *trade.SalesOrder
	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var txErr error
		order, txErr = s.buildOrder(ctx, repos, req, customerName)
		if txErr != nil {
			return txErr
		}
		if txErr = record(ctx, repos.SessionRepo(), order); txErr != nil {
			return txErr
		}
		if txErr = s.finalizeOrder(ctx, repos, order); txErr != nil {
			return txErr
		}
		return repos.SalesRepo().Save(ctx, order)
	})
	if err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, order)
	response := ToSaleResponse(order)
	return &response, nil
}

func (s *SalesService) createReceivable(ctx context.Context, repos TransactionalRepositories, order *trade.SalesOrder) error {
	if order.CustomerID == nil {
		return shared.NewDomainError("MISSING_COUNTERPARTY", "Venda no crediário exige cliente identificado")
	}

	entryNumber, err := repos.Sequences().Next(ctx, shared.DocumentTypeFinancial)
	if err != nil {
		return err
	}
	dueDate := time.Now().AddDate(0, 0, DefaultCrediarioDueDays)
	entry, err := finance.NewFinancialEntry(entryNumber, finance.EntryKindReceivable, *order.CustomerID, "Venda no crediário "+order.OrderNumber, order.PayableAmount, dueDate)
	if err != nil {
		return err
	}
	entry.SetDocumentRef(order.OrderNumber)
	return repos.FinanceRepo().Save(ctx, entry)
}

// Cancel cancels a sale. A finalized sale has its stock debits reversed
// exactly, as new opposite movements in the same transaction.
func (s *SalesService) Cancel(ctx context.Context, id uuid.UUID, reason string) (*SaleResponse, error) {
	var order *trade.SalesOrder
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var txErr error
		order, txErr = repos.SalesRepo().FindByID(ctx, id)
		if txErr != nil {
			return txErr
		}

		wasFinalized := order.IsFinalized()
		if txErr = order.Cancel(reason); txErr != nil {
			return txErr
		}
		if wasFinalized {
			if txErr = reverseStockDebits(ctx, repos, order.OrderNumber); txErr != nil {
				return txErr
			}
		}
		return repos.SalesRepo().Save(ctx, order)
	})
	if err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, order)
	response := ToSaleResponse(order)
	return &response, nil
}

// AddItem adds a line to an open sale
func (s *SalesService) AddItem(ctx context.Context, id uuid.UUID, req OrderItemRequest) (*SaleResponse, error) {
	order, err := s.salesRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	product, err := s.productRepo.FindByID(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}

	unitPrice := product.GetSalePriceMoney()
	if req.UnitPrice != nil {
		unitPrice = valueobject.NewMoneyBRL(*req.UnitPrice)
	}
	item, err := order.AddItem(product.ID, product.Name, product.Code, req.Quantity, unitPrice)
	if err != nil {
		return nil, err
	}
	if req.Discount.IsPositive() {
		if err := order.ApplyItemDiscount(item.ID, valueobject.NewMoneyBRL(req.Discount)); err != nil {
			return nil, err
		}
	}
	if err := s.salesRepo.Save(ctx, order); err != nil {
		return nil, err
	}
	response := ToSaleResponse(order)
	return &response, nil
}

// RemoveItem removes a line from an open sale
func (s *SalesService) RemoveItem(ctx context.Context, id, itemID uuid.UUID) (*SaleResponse, error) {
	order, err := s.salesRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := order.RemoveItem(itemID); err != nil {
		return nil, err
	}
	if err := s.salesRepo.Save(ctx, order); err != nil {
		return nil, err
	}
	response := ToSaleResponse(order)
	return &response, nil
}

// GetByID retrieves a sale by ID
func (s *SalesService) GetByID(ctx context.Context, id uuid.UUID) (*SaleResponse, error) {
	order, err := s.salesRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToSaleResponse(order)
	return &response, nil
}

// GetByNumber retrieves a sale by order number
func (s *SalesService) GetByNumber(ctx context.Context, orderNumber string) (*SaleResponse, error) {
	order, err := s.salesRepo.FindByOrderNumber(ctx, orderNumber)
	if err != nil {
		return nil, err
	}
	response := ToSaleResponse(order)
	return &response, nil
}

// List retrieves sales with pagination
func (s *SalesService) List(ctx context.Context, filter OrderListFilter) ([]SaleResponse, int64, error) {
	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
	}.Normalize()

	var orders []trade.SalesOrder
	var err error
	if filter.Status != "" {
		orders, err = s.salesRepo.FindByStatus(ctx, trade.SaleStatus(filter.Status), domainFilter)
	} else {
		orders, err = s.salesRepo.FindAll(ctx, domainFilter)
	}
	if err != nil {
		return nil, 0, err
	}
	total, err := s.salesRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]SaleResponse, 0, len(orders))
	for i := range orders {
		responses = append(responses, ToSaleResponse(&orders[i]))
	}
	return responses, total, nil
}
