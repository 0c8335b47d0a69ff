package trade

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/siscom/backend/internal/domain/catalog"
	"github.com/siscom/backend/internal/domain/finance"
	"github.com/siscom/backend/internal/domain/inventory"
	"github.com/siscom/backend/internal/domain/partner"
	"github.com/siscom/backend/internal/domain/shared"
	"github.com/siscom/backend/internal/domain/shared/valueobject"
	"github.com/siscom/backend/internal/domain/trade"
)

// DefaultServiceDueDays is the due term for service order receivables
const DefaultServiceDueDays = 30

// ServiceOrderService drives the service order (OS) lifecycle. Completing
// the job debits stock for the parts used; invoicing creates the customer
// receivable. Labor lines never touch stock.
type ServiceOrderService struct {
	scope          TransactionScope
	serviceRepo    trade.ServiceOrderRepository
	productRepo    catalog.ProductRepository
	customerRepo   partner.CustomerRepository
	policy         inventory.AllocationPolicy
	eventPublisher shared.EventPublisher
}

// NewServiceOrderService creates a new ServiceOrderService
func NewServiceOrderService(
	scope TransactionScope,
	serviceRepo trade.ServiceOrderRepository,
	productRepo catalog.ProductRepository,
	customerRepo partner.CustomerRepository,
	policy inventory.AllocationPolicy,
) *ServiceOrderService {
	return &ServiceOrderService{
		scope:        scope,
		serviceRepo:  serviceRepo,
		productRepo:  productRepo,
		customerRepo: customerRepo,
		policy:       policy,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *ServiceOrderService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

func (s *ServiceOrderService) publishDomainEvents(ctx context.Context, order *trade.ServiceOrder) {
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

// Create opens a new service order for a customer
func (s *ServiceOrderService) Create(ctx context.Context, req CreateServiceOrderRequest) (*ServiceOrderResponse, error) {
	customer, err := s.customerRepo.FindByID(ctx, req.CustomerID)
	if err != nil {
		return nil, err
	}
	if !customer.IsActive() {
		return nil, shared.NewDomainError("CUSTOMER_INACTIVE", "Cliente inativo ou suspenso")
	}

	var order *trade.ServiceOrder
	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		orderNumber, txErr := repos.Sequences().Next(ctx, shared.DocumentTypeServiceOrder)
		if txErr != nil {
			return txErr
		}

		order, txErr = trade.NewServiceOrder(orderNumber, customer.ID, customer.Name, req.Description)
		if txErr != nil {
			return txErr
		}

		for _, line := range req.Items {
			if txErr = s.addLine(ctx, order, line); txErr != nil {
				return txErr
			}
		}

		return repos.ServiceOrderRepo().Save(ctx, order)
	})
	if err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, order)
	response := ToServiceOrderResponse(order)
	return &response, nil
}

func (s *ServiceOrderService) addLine(ctx context.Context, order *trade.ServiceOrder, line ServiceItemRequest) error {
	unitPrice := valueobject.NewMoneyBRL(line.UnitPrice)

	if line.ProductID == nil {
		_, err := order.AddLaborItem(line.Description, line.Quantity, unitPrice)
		return err
	}

	product, err := s.productRepo.FindByID(ctx, *line.ProductID)
	if err != nil {
		return err
	}
	description := line.Description
	if description == "" {
		description = product.Name
	}
	if line.UnitPrice.IsZero() {
		unitPrice = product.GetSalePriceMoney()
	}
	_, err = order.AddPartItem(product.ID, description, line.Quantity, unitPrice)
	return err
}

// AddItem adds a parts or labor line to an editable service order
func (s *ServiceOrderService) AddItem(ctx context.Context, id uuid.UUID, req ServiceItemRequest) (*ServiceOrderResponse, error) {
	order, err := s.serviceRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.addLine(ctx, order, req); err != nil {
		return nil, err
	}
	if err := s.serviceRepo.Save(ctx, order); err != nil {
		return nil, err
	}
	response := ToServiceOrderResponse(order)
	return &response, nil
}

// RemoveItem removes a line from an editable service order
func (s *ServiceOrderService) RemoveItem(ctx context.Context, id, itemID uuid.UUID) (*ServiceOrderResponse, error) {
	order, err := s.serviceRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := order.RemoveItem(itemID); err != nil {
		return nil, err
	}
	if err := s.serviceRepo.Save(ctx, order); err != nil {
		return nil, err
	}
	response := ToServiceOrderResponse(order)
	return &response, nil
}

// SetDiagnosis records the technician's diagnosis
func (s *ServiceOrderService) SetDiagnosis(ctx context.Context, id uuid.UUID, diagnosis string) (*ServiceOrderResponse, error) {
	order, err := s.serviceRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := order.SetDiagnosis(diagnosis); err != nil {
		return nil, err
	}
	if err := s.serviceRepo.Save(ctx, order); err != nil {
		return nil, err
	}
	response := ToServiceOrderResponse(order)
	return &response, nil
}

// Start moves the service order into execution
func (s *ServiceOrderService) Start(ctx context.Context, id uuid.UUID) (*ServiceOrderResponse, error) {
	order, err := s.serviceRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := order.Start(); err != nil {
		return nil, err
	}
	if err := s.serviceRepo.Save(ctx, order); err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, order)
	response := ToServiceOrderResponse(order)
	return &response, nil
}

// Complete finishes the job and debits stock for every parts line in one
// transaction. Labor lines are skipped.
func (s *ServiceOrderService) Complete(ctx context.Context, id uuid.UUID) (*ServiceOrderResponse, error) {
	var order *trade.ServiceOrder
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var txErr error
		order, txErr = repos.ServiceOrderRepo().FindByID(ctx, id)
		if txErr != nil {
			return txErr
		}
		if txErr = order.Complete(); txErr != nil {
			return txErr
		}

		parts := order.PartItems()
		for i := range parts {
			item := &parts[i]
			product, lineErr := s.productRepo.FindByID(ctx, *item.ProductID)
			if lineErr != nil {
				return lineErr
			}
			if lineErr = debitStock(ctx, repos, product, s.policy, item.Quantity, order.OrderNumber); lineErr != nil {
				return lineErr
			}
		}

		return repos.ServiceOrderRepo().Save(ctx, order)
	})
	if err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, order)
	response := ToServiceOrderResponse(order)
	return &response, nil
}

// Invoice bills the completed service order and creates the receivable
func (s *ServiceOrderService) Invoice(ctx context.Context, id uuid.UUID) (*ServiceOrderResponse, error) {
	var order *trade.ServiceOrder
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var txErr error
		order, txErr = repos.ServiceOrderRepo().FindByID(ctx, id)
		if txErr != nil {
			return txErr
		}
		if txErr = order.Invoice(); txErr != nil {
			return txErr
		}

		entryNumber, txErr := repos.Sequences().Next(ctx, shared.DocumentTypeFinancial)
		if txErr != nil {
			return txErr
		}
		dueDate := time.Now().AddDate(0, 0, DefaultServiceDueDays)
		entry, txErr := finance.NewFinancialEntry(entryNumber, finance.EntryKindReceivable, order.CustomerID, "Ordem de serviço "+order.OrderNumber, order.PayableAmount, dueDate)
		if txErr != nil {
			return txErr
		}
		entry.SetDocumentRef(order.OrderNumber)
		if txErr = repos.FinanceRepo().Save(ctx, entry); txErr != nil {
			return txErr
		}

		return repos.ServiceOrderRepo().Save(ctx, order)
	})
	if err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, order)
	response := ToServiceOrderResponse(order)
	return &response, nil
}

// Cancel cancels a service order. If parts were already debited on
// completion, the debits are reversed exactly.
func (s *ServiceOrderService) Cancel(ctx context.Context, id uuid.UUID, reason string) (*ServiceOrderResponse, error) {
	var order *trade.ServiceOrder
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var txErr error
		order, txErr = repos.ServiceOrderRepo().FindByID(ctx, id)
		if txErr != nil {
			return txErr
		}

		wasCompleted := order.Status == trade.ServiceOrderStatusCompleted
		if txErr = order.Cancel(reason); txErr != nil {
			return txErr
		}
		if wasCompleted {
			if txErr = reverseStockDebits(ctx, repos, order.OrderNumber); txErr != nil {
				return txErr
			}
		}
		return repos.ServiceOrderRepo().Save(ctx, order)
	})
	if err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, order)
	response := ToServiceOrderResponse(order)
	return &response, nil
}

// GetByID retrieves a service order by ID
func (s *ServiceOrderService) GetByID(ctx context.Context, id uuid.UUID) (*ServiceOrderResponse, error) {
	order, err := s.serviceRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToServiceOrderResponse(order)
	return &response, nil
}

// List retrieves service orders with pagination
func (s *ServiceOrderService) List(ctx context.Context, filter OrderListFilter) ([]ServiceOrderResponse, int64, error) {
	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
	}.Normalize()

	var orders []trade.ServiceOrder
	var err error
	if filter.Status != "" {
		orders, err = s.serviceRepo.FindByStatus(ctx, trade.ServiceOrderStatus(filter.Status), domainFilter)
	} else {
		orders, err = s.serviceRepo.FindAll(ctx, domainFilter)
	}
	if err != nil {
		return nil, 0, err
	}
	total, err := s.serviceRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]ServiceOrderResponse, 0, len(orders))
	for i := range orders {
		responses = append(responses, ToServiceOrderResponse(&orders[i]))
	}
	return responses, total, nil
}
