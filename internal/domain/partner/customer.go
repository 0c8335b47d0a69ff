package partner

import (
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/siscom/backend/internal/domain/shared"
)

// CustomerStatus represents the status of a customer
type CustomerStatus string

const (
	CustomerStatusActive    CustomerStatus = "active"
	CustomerStatusInactive  CustomerStatus = "inactive"
	CustomerStatusSuspended CustomerStatus = "suspended" // Suspended due to credit issues
)

// Customer represents a customer in the partner context.
// It is the aggregate root for customer-related operations.
type Customer struct {
	shared.BaseAggregateRoot
	Code         string          `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name         string          `gorm:"type:varchar(200);not null"`
	DocumentType DocumentType    `gorm:"type:varchar(10);not null;default:'CPF'"`
	Document     string          `gorm:"type:varchar(14);uniqueIndex:idx_customer_document,where:document <> ''"` // CPF or CNPJ, digits only
	Phone        string          `gorm:"type:varchar(50);index"`
	Email        string          `gorm:"type:varchar(200);index"`
	Address      string          `gorm:"type:text"`
	City         string          `gorm:"type:varchar(100)"`
	State        string          `gorm:"type:varchar(2)"` // UF
	PostalCode   string          `gorm:"type:varchar(9)"` // CEP
	CreditLimit  decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Status       CustomerStatus  `gorm:"type:varchar(20);not null;default:'active'"`
	Notes        string          `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (Customer) TableName() string {
	return "customers"
}

// NewCustomer creates a new customer with required fields
func NewCustomer(code, name string) (*Customer, error) {
	if err := validatePartnerCode(code); err != nil {
		return nil, err
	}
	if err := validatePartnerName(name); err != nil {
		return nil, err
	}

	customer := &Customer{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              strings.ToUpper(code),
		Name:              name,
		DocumentType:      DocumentTypeCPF,
		Status:            CustomerStatusActive,
		CreditLimit:       decimal.Zero,
	}

	customer.AddDomainEvent(NewCustomerCreatedEvent(customer))

	return customer, nil
}

// Update updates the customer's basic information
func (c *Customer) Update(name string) error {
	if err := validatePartnerName(name); err != nil {
		return err
	}

	c.Name = name
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	c.AddDomainEvent(NewCustomerUpdatedEvent(c))

	return nil
}

// SetDocument sets and validates the taxpayer document. Uniqueness across
// customers is enforced by the persistence layer.
func (c *Customer) SetDocument(docType DocumentType, document string) error {
	if err := ValidateDocument(docType, document); err != nil {
		return err
	}

	c.DocumentType = docType
	c.Document = NormalizeDocument(document)
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	return nil
}

// SetContact sets contact information
func (c *Customer) SetContact(phone, email string) error {
	if err := validatePhone(phone); err != nil {
		return err
	}
	if err := validateEmail(email); err != nil {
		return err
	}

	c.Phone = phone
	c.Email = email
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	return nil
}

// SetAddress sets the customer's address
func (c *Customer) SetAddress(address, city, state, postalCode string) error {
	if state != "" && len(state) != 2 {
		return shared.NewDomainError("INVALID_STATE", "UF deve ter 2 letras")
	}

	c.Address = address
	c.City = city
	c.State = strings.ToUpper(state)
	c.PostalCode = postalCode
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	return nil
}

// SetCreditLimit sets the maximum open receivable amount for this customer
func (c *Customer) SetCreditLimit(limit decimal.Decimal) error {
	if limit.IsNegative() {
		return shared.NewDomainError("INVALID_CREDIT_LIMIT", "Limite de crédito não pode ser negativo")
	}

	c.CreditLimit = limit
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	return nil
}

// SetNotes sets free-form notes
func (c *Customer) SetNotes(notes string) {
	c.Notes = notes
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
}

// Activate reactivates the customer
func (c *Customer) Activate() error {
	if c.Status == CustomerStatusActive {
		return shared.NewDomainError("ALREADY_ACTIVE", "Cliente já está ativo")
	}

	c.Status = CustomerStatusActive
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	return nil
}

// Deactivate hides the customer from new documents. History is preserved.
func (c *Customer) Deactivate() error {
	if c.Status == CustomerStatusInactive {
		return shared.NewDomainError("ALREADY_INACTIVE", "Cliente já está inativo")
	}

	c.Status = CustomerStatusInactive
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	return nil
}

// Suspend blocks the customer for credit reasons
func (c *Customer) Suspend() error {
	if c.Status == CustomerStatusSuspended {
		return shared.NewDomainError("ALREADY_SUSPENDED", "Cliente já está suspenso")
	}

	c.Status = CustomerStatusSuspended
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	return nil
}

// IsActive returns true when the customer can appear on new documents
func (c *Customer) IsActive() bool {
	return c.Status == CustomerStatusActive
}

// HasCreditLimit returns true if a credit limit is configured
func (c *Customer) HasCreditLimit() bool {
	return c.CreditLimit.GreaterThan(decimal.Zero)
}

func validatePartnerCode(code string) error {
	if code == "" {
		return shared.NewDomainError("INVALID_CODE", "Código é obrigatório")
	}
	if len(code) > 50 {
		return shared.NewDomainError("INVALID_CODE", "Código não pode exceder 50 caracteres")
	}
	return nil
}

func validatePartnerName(name string) error {
	if strings.TrimSpace(name) == "" {
		return shared.NewDomainError("INVALID_NAME", "Nome é obrigatório")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Nome não pode exceder 200 caracteres")
	}
	return nil
}

var phoneRegex = regexp.MustCompile(`^[\d\s\-\+\(\)]*$`)

func validatePhone(phone string) error {
	if phone == "" {
		return nil
	}
	if len(phone) > 50 || !phoneRegex.MatchString(phone) {
		return shared.NewDomainError("INVALID_PHONE", "Telefone inválido")
	}
	return nil
}

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

func validateEmail(email string) error {
	if email == "" {
		return nil
	}
	if len(email) > 200 || !emailRegex.MatchString(email) {
		return shared.NewDomainError("INVALID_EMAIL", "E-mail inválido")
	}
	return nil
}
