package catalog

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/siscom/backend/internal/domain/shared"
	"github.com/siscom/backend/internal/domain/shared/valueobject"
)

// ProductStatus represents the lifecycle status of a product
type ProductStatus string

const (
	ProductStatusActive       ProductStatus = "active"
	ProductStatusInactive     ProductStatus = "inactive"
	ProductStatusDiscontinued ProductStatus = "discontinued"
)

// String returns the string representation of ProductStatus
func (s ProductStatus) String() string {
	return string(s)
}

// Product represents a sellable item in the catalog.
// It is the aggregate root for catalog operations. Stock balances live in the
// inventory context; the catalog only carries reference prices and flags.
type Product struct {
	shared.BaseAggregateRoot
	Code        string          `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name        string          `gorm:"type:varchar(200);not null"`
	Description string          `gorm:"type:text"`
	Barcode     string          `gorm:"type:varchar(50);uniqueIndex:idx_product_barcode,where:barcode <> ''"`
	CategoryID  *uuid.UUID      `gorm:"type:uuid;index"`
	Unit        string          `gorm:"type:varchar(20);not null"`             // Base unit (e.g. "UN", "KG", "CX")
	CostPrice   decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"` // Reference purchase cost
	SalePrice   decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	MinStock    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	MaxStock    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	TracksLot   bool            `gorm:"not null;default:false"` // Whether exits go through lot allocation
	NCM         string          `gorm:"type:varchar(10)"`       // Mercosur fiscal classification code
	Status      ProductStatus   `gorm:"type:varchar(20);not null;default:'active'"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// NewProduct creates a new product
func NewProduct(code, name, unit string) (*Product, error) {
	if err := validateProductCode(code); err != nil {
		return nil, err
	}
	if err := validateProductName(name); err != nil {
		return nil, err
	}
	if err := validateUnit(unit); err != nil {
		return nil, err
	}

	product := &Product{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              strings.ToUpper(code),
		Name:              name,
		Unit:              strings.ToUpper(unit),
		CostPrice:         decimal.Zero,
		SalePrice:         decimal.Zero,
		MinStock:          decimal.Zero,
		MaxStock:          decimal.Zero,
		Status:            ProductStatusActive,
	}

	product.AddDomainEvent(NewProductCreatedEvent(product))

	return product, nil
}

// NewProductWithPrices creates a new product with reference prices
func NewProductWithPrices(code, name, unit string, costPrice, salePrice valueobject.Money) (*Product, error) {
	product, err := NewProduct(code, name, unit)
	if err != nil {
		return nil, err
	}

	if err := product.SetPrices(costPrice, salePrice); err != nil {
		return nil, err
	}

	return product, nil
}

// Update updates the product's basic information
func (p *Product) Update(name, description string) error {
	if err := validateProductName(name); err != nil {
		return err
	}

	p.Name = name
	p.Description = description
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	p.AddDomainEvent(NewProductUpdatedEvent(p))

	return nil
}

// SetBarcode sets the product barcode. Uniqueness across the catalog is
// enforced by the persistence layer.
func (p *Product) SetBarcode(barcode string) error {
	if barcode != "" && len(barcode) > 50 {
		return shared.NewDomainError("INVALID_BARCODE", "Código de barras não pode exceder 50 caracteres")
	}

	p.Barcode = barcode
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// SetCategory sets the product category
func (p *Product) SetCategory(categoryID *uuid.UUID) {
	p.CategoryID = categoryID
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

// SetNCM sets the fiscal classification code
func (p *Product) SetNCM(ncm string) error {
	if ncm != "" && len(ncm) != 8 {
		return shared.NewDomainError("INVALID_NCM", "NCM deve ter 8 dígitos")
	}

	p.NCM = ncm
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// SetPrices sets both cost and sale prices
func (p *Product) SetPrices(costPrice, salePrice valueobject.Money) error {
	if costPrice.Amount().IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Preço de custo não pode ser negativo")
	}
	if salePrice.Amount().IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Preço de venda não pode ser negativo")
	}

	oldCost := p.CostPrice
	oldSale := p.SalePrice

	p.CostPrice = costPrice.Amount()
	p.SalePrice = salePrice.Amount()
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	p.AddDomainEvent(NewProductPriceChangedEvent(p, oldCost, oldSale))

	return nil
}

// SetStockLimits sets the minimum and maximum stock thresholds
func (p *Product) SetStockLimits(minStock, maxStock decimal.Decimal) error {
	if minStock.IsNegative() || maxStock.IsNegative() {
		return shared.NewDomainError("INVALID_MIN_STOCK", "Limites de estoque não podem ser negativos")
	}
	if maxStock.GreaterThan(decimal.Zero) && minStock.GreaterThan(maxStock) {
		return shared.NewDomainError("INVALID_MIN_STOCK", "Estoque mínimo não pode exceder o máximo")
	}

	p.MinStock = minStock
	p.MaxStock = maxStock
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// EnableLotTracking turns on lot allocation for this product's exits
func (p *Product) EnableLotTracking() {
	p.TracksLot = true
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

// GetSalePriceMoney returns the sale price as a Money value object
func (p *Product) GetSalePriceMoney() valueobject.Money {
	return valueobject.NewMoneyBRL(p.SalePrice)
}

// GetCostPriceMoney returns the cost price as a Money value object
func (p *Product) GetCostPriceMoney() valueobject.Money {
	return valueobject.NewMoneyBRL(p.CostPrice)
}

// IsActive returns true when the product can appear on new documents
func (p *Product) IsActive() bool {
	return p.Status == ProductStatusActive
}

// Activate reactivates an inactive product
func (p *Product) Activate() error {
	if p.Status == ProductStatusActive {
		return shared.NewDomainError("ALREADY_ACTIVE", "Produto já está ativo")
	}
	if p.Status == ProductStatusDiscontinued {
		return shared.NewDomainError("CANNOT_ACTIVATE", "Produto descontinuado não pode ser reativado")
	}

	oldStatus := p.Status
	p.Status = ProductStatusActive
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	p.AddDomainEvent(NewProductStatusChangedEvent(p, oldStatus, ProductStatusActive))

	return nil
}

// Deactivate hides the product from new documents. Existing documents and
// stock history keep referencing it.
func (p *Product) Deactivate() error {
	if p.Status == ProductStatusInactive {
		return shared.NewDomainError("ALREADY_INACTIVE", "Produto já está inativo")
	}
	if p.Status == ProductStatusDiscontinued {
		return shared.NewDomainError("CANNOT_DEACTIVATE", "Produto descontinuado não pode ser desativado")
	}

	oldStatus := p.Status
	p.Status = ProductStatusInactive
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	p.AddDomainEvent(NewProductStatusChangedEvent(p, oldStatus, ProductStatusInactive))

	return nil
}

// Discontinue permanently retires the product
func (p *Product) Discontinue() error {
	if p.Status == ProductStatusDiscontinued {
		return shared.NewDomainError("ALREADY_DISCONTINUED", "Produto já está descontinuado")
	}

	oldStatus := p.Status
	p.Status = ProductStatusDiscontinued
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	p.AddDomainEvent(NewProductStatusChangedEvent(p, oldStatus, ProductStatusDiscontinued))

	return nil
}

func validateProductCode(code string) error {
	if code == "" {
		return shared.NewDomainError("INVALID_CODE", "Código do produto é obrigatório")
	}
	if len(code) > 50 {
		return shared.NewDomainError("INVALID_CODE", "Código do produto não pode exceder 50 caracteres")
	}
	return nil
}

func validateProductName(name string) error {
	if strings.TrimSpace(name) == "" {
		return shared.NewDomainError("INVALID_NAME", "Nome do produto é obrigatório")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Nome do produto não pode exceder 200 caracteres")
	}
	return nil
}

func validateUnit(unit string) error {
	if unit == "" {
		return shared.NewDomainError("INVALID_UNIT", "Unidade é obrigatória")
	}
	if len(unit) > 20 {
		return shared.NewDomainError("INVALID_UNIT", "Unidade não pode exceder 20 caracteres")
	}
	return nil
}
