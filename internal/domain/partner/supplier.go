package partner

import (
	"strings"
	"time"

	"github.com/siscom/backend/internal/domain/shared"
)

// SupplierStatus represents the status of a supplier
type SupplierStatus string

const (
	SupplierStatusActive   SupplierStatus = "active"
	SupplierStatusInactive SupplierStatus = "inactive"
	SupplierStatusBlocked  SupplierStatus = "blocked" // Blocked from new purchase orders
)

// Supplier represents a supplier in the partner context
type Supplier struct {
	shared.BaseAggregateRoot
	Code        string         `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name        string         `gorm:"type:varchar(200);not null"`
	TradeName   string         `gorm:"type:varchar(200)"` // Nome fantasia
	CNPJ        string         `gorm:"type:varchar(14);uniqueIndex:idx_supplier_cnpj,where:cnpj <> ''"`
	StateReg    string         `gorm:"type:varchar(20)"` // Inscrição estadual
	ContactName string         `gorm:"type:varchar(100)"`
	Phone       string         `gorm:"type:varchar(50)"`
	Email       string         `gorm:"type:varchar(200)"`
	Address     string         `gorm:"type:text"`
	City        string         `gorm:"type:varchar(100)"`
	State       string         `gorm:"type:varchar(2)"`
	PostalCode  string         `gorm:"type:varchar(9)"`
	PaymentTerm int            `gorm:"not null;default:0"` // Default payment term in days
	Status      SupplierStatus `gorm:"type:varchar(20);not null;default:'active'"`
	Notes       string         `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (Supplier) TableName() string {
	return "suppliers"
}

// NewSupplier creates a new supplier
func NewSupplier(code, name string) (*Supplier, error) {
	if err := validatePartnerCode(code); err != nil {
		return nil, err
	}
	if err := validatePartnerName(name); err != nil {
		return nil, err
	}

	supplier := &Supplier{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              strings.ToUpper(code),
		Name:              name,
		Status:            SupplierStatusActive,
	}

	supplier.AddDomainEvent(NewSupplierCreatedEvent(supplier))

	return supplier, nil
}

// Update updates the supplier's basic information
func (s *Supplier) Update(name, tradeName string) error {
	if err := validatePartnerName(name); err != nil {
		return err
	}
	if tradeName != "" && len(tradeName) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Nome fantasia não pode exceder 200 caracteres")
	}

	s.Name = name
	s.TradeName = tradeName
	s.UpdatedAt = time.Now()
	s.IncrementVersion()

	return nil
}

// SetCNPJ sets and validates the supplier's CNPJ
func (s *Supplier) SetCNPJ(cnpj string) error {
	if err := ValidateCNPJ(cnpj); err != nil {
		return err
	}

	s.CNPJ = NormalizeDocument(cnpj)
	s.UpdatedAt = time.Now()
	s.IncrementVersion()

	return nil
}

// SetContact sets contact information
func (s *Supplier) SetContact(contactName, phone, email string) error {
	if contactName != "" && len(contactName) > 100 {
		return shared.NewDomainError("INVALID_CONTACT", "Nome do contato não pode exceder 100 caracteres")
	}
	if err := validatePhone(phone); err != nil {
		return err
	}
	if err := validateEmail(email); err != nil {
		return err
	}

	s.ContactName = contactName
	s.Phone = phone
	s.Email = email
	s.UpdatedAt = time.Now()
	s.IncrementVersion()

	return nil
}

// SetAddress sets the supplier's address
func (s *Supplier) SetAddress(address, city, state, postalCode string) error {
	if state != "" && len(state) != 2 {
		return shared.NewDomainError("INVALID_STATE", "UF deve ter 2 letras")
	}

	s.Address = address
	s.City = city
	s.State = strings.ToUpper(state)
	s.PostalCode = postalCode
	s.UpdatedAt = time.Now()
	s.IncrementVersion()

	return nil
}

// SetPaymentTerm sets the default payment term in days
func (s *Supplier) SetPaymentTerm(days int) error {
	if days < 0 {
		return shared.NewDomainError("INVALID_PAYMENT_TERM", "Prazo de pagamento não pode ser negativo")
	}

	s.PaymentTerm = days
	s.UpdatedAt = time.Now()
	s.IncrementVersion()

	return nil
}

// Activate reactivates the supplier
func (s *Supplier) Activate() error {
	if s.Status == SupplierStatusActive {
		return shared.NewDomainError("ALREADY_ACTIVE", "Fornecedor já está ativo")
	}

	s.Status = SupplierStatusActive
	s.UpdatedAt = time.Now()
	s.IncrementVersion()

	return nil
}

// Deactivate hides the supplier from new documents. History is preserved.
func (s *Supplier) Deactivate() error {
	if s.Status == SupplierStatusInactive {
		return shared.NewDomainError("ALREADY_INACTIVE", "Fornecedor já está inativo")
	}

	s.Status = SupplierStatusInactive
	s.UpdatedAt = time.Now()
	s.IncrementVersion()

	return nil
}

// Block prevents new purchase orders for this supplier
func (s *Supplier) Block() error {
	if s.Status == SupplierStatusBlocked {
		return shared.NewDomainError("ALREADY_BLOCKED", "Fornecedor já está bloqueado")
	}

	s.Status = SupplierStatusBlocked
	s.UpdatedAt = time.Now()
	s.IncrementVersion()

	return nil
}

// IsActive returns true when the supplier can appear on new documents
func (s *Supplier) IsActive() bool {
	return s.Status == SupplierStatusActive
}
