package catalog

import (
	"context"

	"github.com/google/uuid"

	"github.com/siscom/backend/internal/domain/catalog"
	"github.com/siscom/backend/internal/domain/shared"
	"github.com/siscom/backend/internal/domain/shared/valueobject"
)

// ProductService handles product and category catalog operations
type ProductService struct {
	productRepo    catalog.ProductRepository
	categoryRepo   catalog.CategoryRepository
	eventPublisher shared.EventPublisher
}

// NewProductService creates a new ProductService
func NewProductService(productRepo catalog.ProductRepository, categoryRepo catalog.CategoryRepository) *ProductService {
	return &ProductService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *ProductService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

func (s *ProductService) publishDomainEvents(ctx context.Context, product *catalog.Product) {
	if s.eventPublisher == nil {
		return
	}
	events := product.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
	product.ClearDomainEvents()
}

// Create creates a new product, enforcing code and barcode uniqueness
func (s *ProductService) Create(ctx context.Context, req CreateProductRequest) (*ProductResponse, error) {
	exists, err := s.productRepo.ExistsByCode(ctx, req.Code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.ErrAlreadyExists
	}
	if req.Barcode != "" {
		exists, err = s.productRepo.ExistsByBarcode(ctx, req.Barcode)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, shared.ErrAlreadyExists
		}
	}

	product, err := catalog.NewProductWithPrices(req.Code, req.Name, req.Unit, valueobject.NewMoneyBRL(req.CostPrice), valueobject.NewMoneyBRL(req.SalePrice))
	if err != nil {
		return nil, err
	}
	if req.Description != "" {
		if err := product.Update(req.Name, req.Description); err != nil {
			return nil, err
		}
	}
	if req.Barcode != "" {
		if err := product.SetBarcode(req.Barcode); err != nil {
			return nil, err
		}
	}
	if req.CategoryID != nil {
		if _, err := s.categoryRepo.FindByID(ctx, *req.CategoryID); err != nil {
			return nil, err
		}
		product.SetCategory(req.CategoryID)
	}
	if req.NCM != "" {
		if err := product.SetNCM(req.NCM); err != nil {
			return nil, err
		}
	}
	if !req.MinStock.IsZero() || !req.MaxStock.IsZero() {
		if err := product.SetStockLimits(req.MinStock, req.MaxStock); err != nil {
			return nil, err
		}
	}
	if req.TracksLot {
		product.EnableLotTracking()
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, product)
	response := ToProductResponse(product)
	return &response, nil
}

// GetByID retrieves a product by ID
func (s *ProductService) GetByID(ctx context.Context, id uuid.UUID) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToProductResponse(product)
	return &response, nil
}

// GetByBarcode retrieves a product by barcode, the PDV lookup path
func (s *ProductService) GetByBarcode(ctx context.Context, barcode string) (*ProductResponse, error) {
	product, err := s.productRepo.FindByBarcode(ctx, barcode)
	if err != nil {
		return nil, err
	}
	response := ToProductResponse(product)
	return &response, nil
}

// List retrieves products with pagination
func (s *ProductService) List(ctx context.Context, filter ProductListFilter) ([]ProductResponse, int64, error) {
	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
		Filters:  make(map[string]interface{}),
	}.Normalize()

	var products []catalog.Product
	var err error
	switch {
	case filter.CategoryID != nil:
		products, err = s.productRepo.FindByCategory(ctx, *filter.CategoryID, domainFilter)
	case filter.ActiveOnly:
		products, err = s.productRepo.FindActive(ctx, domainFilter)
	default:
		products, err = s.productRepo.FindAll(ctx, domainFilter)
	}
	if err != nil {
		return nil, 0, err
	}

	total, err := s.productRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]ProductResponse, 0, len(products))
	for i := range products {
		responses = append(responses, ToProductResponse(&products[i]))
	}
	return responses, total, nil
}

// Update updates a product's descriptive fields
func (s *ProductService) Update(ctx context.Context, id uuid.UUID, req UpdateProductRequest) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := product.Update(req.Name, req.Description); err != nil {
		return nil, err
	}
	if req.Barcode != product.Barcode {
		if req.Barcode != "" {
			exists, err := s.productRepo.ExistsByBarcode(ctx, req.Barcode)
			if err != nil {
				return nil, err
			}
			if exists {
				return nil, shared.ErrAlreadyExists
			}
		}
		if err := product.SetBarcode(req.Barcode); err != nil {
			return nil, err
		}
	}
	if req.CategoryID != nil {
		if _, err := s.categoryRepo.FindByID(ctx, *req.CategoryID); err != nil {
			return nil, err
		}
		product.SetCategory(req.CategoryID)
	}
	if req.NCM != "" {
		if err := product.SetNCM(req.NCM); err != nil {
			return nil, err
		}
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, product)
	response := ToProductResponse(product)
	return &response, nil
}

// SetPrices changes the cost and sale prices of a product
func (s *ProductService) SetPrices(ctx context.Context, id uuid.UUID, req SetPricesRequest) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := product.SetPrices(valueobject.NewMoneyBRL(req.CostPrice), valueobject.NewMoneyBRL(req.SalePrice)); err != nil {
		return nil, err
	}
	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, product)
	response := ToProductResponse(product)
	return &response, nil
}

// Activate reactivates a product
func (s *ProductService) Activate(ctx context.Context, id uuid.UUID) error {
	return s.changeStatus(ctx, id, (*catalog.Product).Activate)
}

// Deactivate deactivates a product
func (s *ProductService) Deactivate(ctx context.Context, id uuid.UUID) error {
	return s.changeStatus(ctx, id, (*catalog.Product).Deactivate)
}

// Discontinue permanently discontinues a product
func (s *ProductService) Discontinue(ctx context.Context, id uuid.UUID) error {
	return s.changeStatus(ctx, id, (*catalog.Product).Discontinue)
}

func (s *ProductService) changeStatus(ctx context.Context, id uuid.UUID, transition func(*catalog.Product) error) error {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := transition(product); err != nil {
		return err
	}
	if err := s.productRepo.Save(ctx, product); err != nil {
		return err
	}
	s.publishDomainEvents(ctx, product)
	return nil
}

// CreateCategory creates a root or child category
func (s *ProductService) CreateCategory(ctx context.Context, req CreateCategoryRequest) (*CategoryResponse, error) {
	var category *catalog.Category
	var err error
	if req.ParentID != nil {
		parent, findErr := s.categoryRepo.FindByID(ctx, *req.ParentID)
		if findErr != nil {
			return nil, findErr
		}
		category, err = catalog.NewChildCategory(req.Code, req.Name, parent)
	} else {
		category, err = catalog.NewCategory(req.Code, req.Name)
	}
	if err != nil {
		return nil, err
	}

	if err := s.categoryRepo.Save(ctx, category); err != nil {
		return nil, err
	}
	response := ToCategoryResponse(category)
	return &response, nil
}

// UpdateCategory updates a category's name and description
func (s *ProductService) UpdateCategory(ctx context.Context, id uuid.UUID, req UpdateCategoryRequest) (*CategoryResponse, error) {
	category, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := category.Update(req.Name, req.Description); err != nil {
		return nil, err
	}
	if err := s.categoryRepo.Save(ctx, category); err != nil {
		return nil, err
	}
	response := ToCategoryResponse(category)
	return &response, nil
}

// ListCategories retrieves categories with pagination
func (s *ProductService) ListCategories(ctx context.Context, page, pageSize int) ([]CategoryResponse, int64, error) {
	filter := shared.Filter{Page: page, PageSize: pageSize}.Normalize()

	categories, err := s.categoryRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.categoryRepo.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]CategoryResponse, 0, len(categories))
	for i := range categories {
		responses = append(responses, ToCategoryResponse(&categories[i]))
	}
	return responses, total, nil
}
