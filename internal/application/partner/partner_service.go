package partner

import (
	"context"

	"github.com/google/uuid"

	"github.com/siscom/backend/internal/domain/partner"
	"github.com/siscom/backend/internal/domain/shared"
)

// PartnerService handles customer and supplier registry operations
type PartnerService struct {
	customerRepo   partner.CustomerRepository
	supplierRepo   partner.SupplierRepository
	eventPublisher shared.EventPublisher
}

// NewPartnerService creates a new PartnerService
func NewPartnerService(customerRepo partner.CustomerRepository, supplierRepo partner.SupplierRepository) *PartnerService {
	return &PartnerService{
		customerRepo: customerRepo,
		supplierRepo: supplierRepo,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *PartnerService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

func (s *PartnerService) publishEvents(ctx context.Context, events []shared.DomainEvent) {
	if s.eventPublisher == nil || len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
}

// CreateCustomer creates a new customer, enforcing CPF/CNPJ uniqueness
func (s *PartnerService) CreateCustomer(ctx context.Context, req CreateCustomerRequest) (*CustomerResponse, error) {
	if req.Document != "" {
		normalized := partner.NormalizeDocument(req.Document)
		exists, err := s.customerRepo.ExistsByDocument(ctx, normalized)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, shared.ErrAlreadyExists
		}
	}

	customer, err := partner.NewCustomer(req.Code, req.Name)
	if err != nil {
		return nil, err
	}
	if req.Document != "" {
		if err := customer.SetDocument(partner.DocumentType(req.DocumentType), req.Document); err != nil {
			return nil, err
		}
	}
	if req.Phone != "" || req.Email != "" {
		if err := customer.SetContact(req.Phone, req.Email); err != nil {
			return nil, err
		}
	}
	if req.Address != "" || req.City != "" || req.State != "" {
		if err := customer.SetAddress(req.Address, req.City, req.State, req.PostalCode); err != nil {
			return nil, err
		}
	}
	if !req.CreditLimit.IsZero() {
		if err := customer.SetCreditLimit(req.CreditLimit); err != nil {
			return nil, err
		}
	}
	if req.Notes != "" {
		customer.SetNotes(req.Notes)
	}

	if err := s.customerRepo.Save(ctx, customer); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, customer.GetDomainEvents())
	customer.ClearDomainEvents()
	response := ToCustomerResponse(customer)
	return &response, nil
}

// GetCustomer retrieves a customer by ID
func (s *PartnerService) GetCustomer(ctx context.Context, id uuid.UUID) (*CustomerResponse, error) {
	customer, err := s.customerRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToCustomerResponse(customer)
	return &response, nil
}

// GetCustomerByDocument retrieves a customer by CPF/CNPJ
func (s *PartnerService) GetCustomerByDocument(ctx context.Context, document string) (*CustomerResponse, error) {
	customer, err := s.customerRepo.FindByDocument(ctx, partner.NormalizeDocument(document))
	if err != nil {
		return nil, err
	}
	response := ToCustomerResponse(customer)
	return &response, nil
}

// ListCustomers retrieves customers with pagination
func (s *PartnerService) ListCustomers(ctx context.Context, filter PartnerListFilter) ([]CustomerResponse, int64, error) {
	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
	}.Normalize()

	customers, err := s.customerRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.customerRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]CustomerResponse, 0, len(customers))
	for i := range customers {
		responses = append(responses, ToCustomerResponse(&customers[i]))
	}
	return responses, total, nil
}

// UpdateCustomer updates a customer's registry data
func (s *PartnerService) UpdateCustomer(ctx context.Context, id uuid.UUID, req UpdateCustomerRequest) (*CustomerResponse, error) {
	customer, err := s.customerRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := customer.Update(req.Name); err != nil {
		return nil, err
	}
	if err := customer.SetContact(req.Phone, req.Email); err != nil {
		return nil, err
	}
	if err := customer.SetAddress(req.Address, req.City, req.State, req.PostalCode); err != nil {
		return nil, err
	}
	if err := customer.SetCreditLimit(req.CreditLimit); err != nil {
		return nil, err
	}
	customer.SetNotes(req.Notes)

	if err := s.customerRepo.Save(ctx, customer); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, customer.GetDomainEvents())
	customer.ClearDomainEvents()
	response := ToCustomerResponse(customer)
	return &response, nil
}

// SuspendCustomer suspends a customer (blocks crediário sales)
func (s *PartnerService) SuspendCustomer(ctx context.Context, id uuid.UUID) error {
	customer, err := s.customerRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := customer.Suspend(); err != nil {
		return err
	}
	return s.customerRepo.Save(ctx, customer)
}

// CreateSupplier creates a new supplier, enforcing CNPJ uniqueness
func (s *PartnerService) CreateSupplier(ctx context.Context, req CreateSupplierRequest) (*SupplierResponse, error) {
	if req.CNPJ != "" {
		normalized := partner.NormalizeDocument(req.CNPJ)
		exists, err := s.supplierRepo.ExistsByCNPJ(ctx, normalized)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, shared.ErrAlreadyExists
		}
	}

	supplier, err := partner.NewSupplier(req.Code, req.Name)
	if err != nil {
		return nil, err
	}
	if req.TradeName != "" {
		if err := supplier.Update(req.Name, req.TradeName); err != nil {
			return nil, err
		}
	}
	if req.CNPJ != "" {
		if err := supplier.SetCNPJ(req.CNPJ); err != nil {
			return nil, err
		}
	}
	if req.ContactName != "" || req.Phone != "" || req.Email != "" {
		if err := supplier.SetContact(req.ContactName, req.Phone, req.Email); err != nil {
			return nil, err
		}
	}
	if req.Address != "" || req.City != "" || req.State != "" {
		if err := supplier.SetAddress(req.Address, req.City, req.State, req.PostalCode); err != nil {
			return nil, err
		}
	}
	if req.PaymentTerm > 0 {
		if err := supplier.SetPaymentTerm(req.PaymentTerm); err != nil {
			return nil, err
		}
	}

	if err := s.supplierRepo.Save(ctx, supplier); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, supplier.GetDomainEvents())
	supplier.ClearDomainEvents()
	response := ToSupplierResponse(supplier)
	return &response, nil
}

// GetSupplier retrieves a supplier by ID
func (s *PartnerService) GetSupplier(ctx context.Context, id uuid.UUID) (*SupplierResponse, error) {
	supplier, err := s.supplierRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToSupplierResponse(supplier)
	return &response, nil
}

// ListSuppliers retrieves suppliers with pagination
func (s *PartnerService) ListSuppliers(ctx context.Context, filter PartnerListFilter) ([]SupplierResponse, int64, error) {
	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
	}.Normalize()

	suppliers, err := s.supplierRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.supplierRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]SupplierResponse, 0, len(suppliers))
	for i := range suppliers {
		responses = append(responses, ToSupplierResponse(&suppliers[i]))
	}
	return responses, total, nil
}

// BlockSupplier blocks a supplier from new purchase orders
func (s *PartnerService) BlockSupplier(ctx context.Context, id uuid.UUID) error {
	supplier, err := s.supplierRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := supplier.Block(); err != nil {
		return err
	}
	return s.supplierRepo.Save(ctx, supplier)
}
