package trade

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/siscom/backend/internal/domain/catalog"
	"github.com/siscom/backend/internal/domain/partner"
	"github.com/siscom/backend/internal/domain/shared"
	"github.com/siscom/backend/internal/domain/shared/valueobject"
	"github.com/siscom/backend/internal/domain/trade"
)

// QuotationService drives the quotation (orçamento) lifecycle. Quotations
// never touch stock; conversion creates an OPEN sale from the quoted lines
// and links it back, in one transaction.
type QuotationService struct {
	scope          TransactionScope
	quotationRepo  trade.QuotationRepository
	productRepo    catalog.ProductRepository
	customerRepo   partner.CustomerRepository
	eventPublisher shared.EventPublisher
}

// NewQuotationService creates a new QuotationService
func NewQuotationService(
	scope TransactionScope,
	quotationRepo trade.QuotationRepository,
	productRepo catalog.ProductRepository,
	customerRepo partner.CustomerRepository,
) *QuotationService {
	return &QuotationService{
		scope:         scope,
		quotationRepo: quotationRepo,
		productRepo:   productRepo,
		customerRepo:  customerRepo,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *QuotationService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

func (s *QuotationService) publishDomainEvents(ctx context.Context, quotation *trade.Quotation) {
	if s.eventPublisher == nil {
		return
	}
	events := quotation.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
	quotation.ClearDomainEvents()
}

// Create creates an open quotation with its line items
func (s *QuotationService) Create(ctx context.Context, req CreateQuotationRequest) (*QuotationResponse, error) {
	if len(req.Items) == 0 {
		return nil, shared.NewDomainError("EMPTY_ORDER", "Orçamento deve ter ao menos um item")
	}

	customer, err := s.customerRepo.FindByID(ctx, req.CustomerID)
	if err != nil {
		return nil, err
	}

	var quotation *trade.Quotation
	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		quotationNumber, txErr := repos.Sequences().Next(ctx, shared.DocumentTypeQuotation)
		if txErr != nil {
			return txErr
		}

		quotation, txErr = trade.NewQuotation(quotationNumber, customer.ID, customer.Name)
		if txErr != nil {
			return txErr
		}

		for _, line := range req.Items {
			product, lineErr := s.productRepo.FindByID(ctx, line.ProductID)
			if lineErr != nil {
				return lineErr
			}
			unitPrice := product.GetSalePriceMoney()
			if line.UnitPrice != nil {
				unitPrice = valueobject.NewMoneyBRL(*line.UnitPrice)
			}
			if _, lineErr = quotation.AddItem(product.ID, product.Name, product.Code, line.Quantity, unitPrice); lineErr != nil {
				return lineErr
			}
		}

		if req.Discount.IsPositive() {
			if txErr = quotation.ApplyDiscount(valueobject.NewMoneyBRL(req.Discount)); txErr != nil {
				return txErr
			}
		}
		if req.ValidUntil != nil {
			if txErr = quotation.SetValidUntil(*req.ValidUntil); txErr != nil {
				return txErr
			}
		}
		if req.Remark != "" {
			quotation.SetRemark(req.Remark)
		}

		return repos.QuotationRepo().Save(ctx, quotation)
	})
	if err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, quotation)
	response := ToQuotationResponse(quotation)
	return &response, nil
}

// Approve marks the quotation as accepted by the customer
func (s *QuotationService) Approve(ctx context.Context, id uuid.UUID) (*QuotationResponse, error) {
	quotation, err := s.quotationRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := quotation.Approve(); err != nil {
		return nil, err
	}
	if err := s.quotationRepo.Save(ctx, quotation); err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, quotation)
	response := ToQuotationResponse(quotation)
	return &response, nil
}

// Reject declines a quotation
func (s *QuotationService) Reject(ctx context.Context, id uuid.UUID) (*QuotationResponse, error) {
	quotation, err := s.quotationRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := quotation.Reject(); err != nil {
		return nil, err
	}
	if err := s.quotationRepo.Save(ctx, quotation); err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, quotation)
	response := ToQuotationResponse(quotation)
	return &response, nil
}

// Convert turns an approved quotation into an OPEN sale carrying the quoted
// prices and discounts. The sale still goes through the normal finalize path
// before any stock moves.
func (s *QuotationService) Convert(ctx context.Context, id uuid.UUID) (*SaleResponse, error) {
	var quotation *trade.Quotation
	var order *trade.SalesOrder
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var txErr error
		quotation, txErr = repos.QuotationRepo().FindByID(ctx, id)
		if txErr != nil {
			return txErr
		}
		if quotation.ValidUntil != nil && time.Now().After(*quotation.ValidUntil) {
			return shared.NewDomainError("QUOTATION_EXPIRED", "Orçamento vencido não pode ser convertido")
		}

		orderNumber, txErr := repos.Sequences().Next(ctx, shared.DocumentTypeSale)
		if txErr != nil {
			return txErr
		}
		customerID := quotation.CustomerID
		order, txErr = trade.NewSalesOrder(orderNumber, &customerID, quotation.CustomerName)
		if txErr != nil {
			return txErr
		}

		for _, line := range quotation.Items {
			item, lineErr := order.AddItem(line.ProductID, line.ProductName, line.ProductCode, line.Quantity, valueobject.NewMoneyBRL(line.UnitPrice))
			if lineErr != nil {
				return lineErr
			}
			if line.Discount.IsPositive() {
				if lineErr = order.ApplyItemDiscount(item.ID, valueobject.NewMoneyBRL(line.Discount)); lineErr != nil {
					return lineErr
				}
			}
		}
		if quotation.DiscountAmount.IsPositive() {
			if txErr = order.ApplyDiscount(valueobject.NewMoneyBRL(quotation.DiscountAmount)); txErr != nil {
				return txErr
			}
		}
		order.SetRemark("Origem: orçamento " + quotation.QuotationNumber)

		if txErr = quotation.Convert(order.ID); txErr != nil {
			return txErr
		}
		if txErr = repos.SalesRepo().Save(ctx, order); txErr != nil {
			return txErr
		}
		return repos.QuotationRepo().Save(ctx, quotation)
	})
	if err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, quotation)
	response := ToSaleResponse(order)
	return &response, nil
}

// GetByID retrieves a quotation by ID
func (s *QuotationService) GetByID(ctx context.Context, id uuid.UUID) (*QuotationResponse, error) {
	quotation, err := s.quotationRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToQuotationResponse(quotation)
	return &response, nil
}

// List retrieves quotations with pagination
func (s *QuotationService) List(ctx context.Context, filter OrderListFilter) ([]QuotationResponse, int64, error) {
	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
	}.Normalize()

	var quotations []trade.Quotation
	var err error
	if filter.Status != "" {
		quotations, err = s.quotationRepo.FindByStatus(ctx, trade.QuotationStatus(filter.Status), domainFilter)
	} else {
		quotations, err = s.quotationRepo.FindAll(ctx, domainFilter)
	}
	if err != nil {
		return nil, 0, err
	}
	total, err := s.quotationRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]QuotationResponse, 0, len(quotations))
	for i := range quotations {
		responses = append(responses, ToQuotationResponse(&quotations[i]))
	}
	return responses, total, nil
}
