package trade

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/siscom/backend/internal/domain/catalog"
	"github.com/siscom/backend/internal/domain/finance"
	"github.com/siscom/backend/internal/domain/partner"
	"github.com/siscom/backend/internal/domain/shared"
	"github.com/siscom/backend/internal/domain/shared/valueobject"
	"github.com/siscom/backend/internal/domain/trade"
)

// DefaultPayableDueDays applies when the supplier has no payment term set
const DefaultPayableDueDays = 30

// PurchaseService drives the purchase order lifecycle. Each receipt credits
// stock at the order's unit cost; when the order becomes fully received a
// payable is created for the supplier, in the same transaction.
type PurchaseService struct {
	scope          TransactionScope
	purchaseRepo   trade.PurchaseOrderRepository
	productRepo    catalog.ProductRepository
	supplierRepo   partner.SupplierRepository
	eventPublisher shared.EventPublisher
}

// NewPurchaseService creates a new PurchaseService
func NewPurchaseService(
	scope TransactionScope,
	purchaseRepo trade.PurchaseOrderRepository,
	productRepo catalog.ProductRepository,
	supplierRepo partner.SupplierRepository,
) *PurchaseService {
	return &PurchaseService{
		scope:        scope,
		purchaseRepo: purchaseRepo,
		productRepo:  productRepo,
		supplierRepo: supplierRepo,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *PurchaseService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

func (s *PurchaseService) publishDomainEvents(ctx context.Context, order *trade.PurchaseOrder) {
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

// Create creates a pending purchase order with its line items
func (s *PurchaseService) Create(ctx context.Context, req CreatePurchaseRequest) (*PurchaseResponse, error) {
	if len(req.Items) == 0 {
		return nil, shared.NewDomainError("EMPTY_ORDER", "Pedido de compra deve ter ao menos um item")
	}

	supplier, err := s.supplierRepo.FindByID(ctx, req.SupplierID)
	if err != nil {
		return nil, err
	}
	if !supplier.IsActive() {
		return nil, shared.NewDomainError("SUPPLIER_INACTIVE", "Fornecedor inativo ou bloqueado")
	}

	var order *trade.PurchaseOrder
	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		orderNumber, txErr := repos.Sequences().Next(ctx, shared.DocumentTypePurchaseOrder)
		if txErr != nil {
			return txErr
		}

		order, txErr = trade.NewPurchaseOrder(orderNumber, supplier.ID, supplier.Name)
		if txErr != nil {
			return txErr
		}

		for _, line := range req.Items {
			product, lineErr := s.productRepo.FindByID(ctx, line.ProductID)
			if lineErr != nil {
				return lineErr
			}

			unitPrice := product.GetCostPriceMoney()
			if line.UnitPrice != nil {
				unitPrice = valueobject.NewMoneyBRL(*line.UnitPrice)
			}
			if _, lineErr = order.AddItem(product.ID, product.Name, product.Code, line.Quantity, unitPrice); lineErr != nil {
				return lineErr
			}
		}

		if req.Discount.IsPositive() {
			if txErr = order.ApplyDiscount(valueobject.NewMoneyBRL(req.Discount)); txErr != nil {
				return txErr
			}
		}
		if req.ExpectedDate != nil {
			if txErr = order.SetExpectedDate(*req.ExpectedDate); txErr != nil {
				return txErr
			}
		}
		if req.Remark != "" {
			order.SetRemark(req.Remark)
		}

		return repos.PurchaseRepo().Save(ctx, order)
	})
	if err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, order)
	response := ToPurchaseResponse(order)
	return &response, nil
}

// Approve approves a pending purchase order, locking its content
func (s *PurchaseService) Approve(ctx context.Context, id uuid.UUID) (*PurchaseResponse, error) {
	order, err := s.purchaseRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := order.Approve(); err != nil {
		return nil, err
	}
	if err := s.purchaseRepo.Save(ctx, order); err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, order)
	response := ToPurchaseResponse(order)
	return &response, nil
}

// ReceiveItem records a partial or full receipt of one order line, crediting
// stock at the line's unit cost. When the receipt completes the order, the
// supplier payable is created in the same transaction.
func (s *PurchaseService) ReceiveItem(ctx context.Context, id uuid.UUID, req ReceiveItemRequest) (*PurchaseResponse, error) {
	var order *trade.PurchaseOrder
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var txErr error
		order, txErr = repos.PurchaseRepo().FindByID(ctx, id)
		if txErr != nil {
			return txErr
		}

		item := order.GetItem(req.ItemID)
		if item == nil {
			return shared.NewDomainError("ITEM_NOT_FOUND", "Item não encontrado no pedido")
		}
		if txErr = order.ReceiveItem(req.ItemID, req.Quantity); txErr != nil {
			return txErr
		}

		product, txErr := s.productRepo.FindByID(ctx, item.ProductID)
		if txErr != nil {
			return txErr
		}
		if txErr = enterStock(ctx, repos, product, req.Quantity, item.UnitPrice, order.OrderNumber, req.LotNumber, req.ExpiryDate); txErr != nil {
			return txErr
		}

		if order.Status == trade.PurchaseOrderStatusReceived {
			if txErr = s.createPayable(ctx, repos, order); txErr != nil {
				return txErr
			}
		}

		return repos.PurchaseRepo().Save(ctx, order)
	})
	if err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, order)
	response := ToPurchaseResponse(order)
	return &response, nil
}

func (s *PurchaseService) createPayable(ctx context.Context, repos TransactionalRepositories, order *trade.PurchaseOrder) error {
	entryNumber, err := repos.Sequences().Next(ctx, shared.DocumentTypeFinancial)
	if err != nil {
		return err
	}

	dueDays := DefaultPayableDueDays
	if supplier, supErr := s.supplierRepo.FindByID(ctx, order.SupplierID); supErr == nil && supplier.PaymentTerm > 0 {
		dueDays = supplier.PaymentTerm
	}
	dueDate := time.Now().AddDate(0, 0, dueDays)

	entry, err := finance.NewFinancialEntry(entryNumber, finance.EntryKindPayable, order.SupplierID, "Pedido de compra "+order.OrderNumber, order.PayableAmount, dueDate)
	if err != nil {
		return err
	}
	entry.SetDocumentRef(order.OrderNumber)
	return repos.FinanceRepo().Save(ctx, entry)
}

// Cancel cancels a purchase order before any receipt
func (s *PurchaseService) Cancel(ctx context.Context, id uuid.UUID, reason string) (*PurchaseResponse, error) {
	order, err := s.purchaseRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := order.Cancel(reason); err != nil {
		return nil, err
	}
	if err := s.purchaseRepo.Save(ctx, order); err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, order)
	response := ToPurchaseResponse(order)
	return &response, nil
}

// GetByID retrieves a purchase order by ID
func (s *PurchaseService) GetByID(ctx context.Context, id uuid.UUID) (*PurchaseResponse, error) {
	order, err := s.purchaseRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToPurchaseResponse(order)
	return &response, nil
}

// GetByNumber retrieves a purchase order by order number
func (s *PurchaseService) GetByNumber(ctx context.Context, orderNumber string) (*PurchaseResponse, error) {
	order, err := s.purchaseRepo.FindByOrderNumber(ctx, orderNumber)
	if err != nil {
		return nil, err
	}
	response := ToPurchaseResponse(order)
	return &response, nil
}

// List retrieves purchase orders with pagination
func (s *PurchaseService) List(ctx context.Context, filter OrderListFilter) ([]PurchaseResponse, int64, error) {
	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
	}.Normalize()

	var orders []trade.PurchaseOrder
	var err error
	if filter.Status != "" {
		orders, err = s.purchaseRepo.FindByStatus(ctx, trade.PurchaseOrderStatus(filter.Status), domainFilter)
	} else {
		orders, err = s.purchaseRepo.FindAll(ctx, domainFilter)
	}
	if err != nil {
		return nil, 0, err
	}
	total, err := s.purchaseRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]PurchaseResponse, 0, len(orders))
	for i := range orders {
		responses = append(responses, ToPurchaseResponse(&orders[i]))
	}
	return responses, total, nil
}
