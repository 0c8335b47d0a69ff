package catalog

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/siscom/backend/internal/domain/shared"
)

// Category groups products for pricing reports and browsing. SISCOM uses a
// flat two-level grouping (grupo/subgrupo), so the tree is capped at depth 2.
const MaxCategoryDepth = 2

// Category represents a product group
type Category struct {
	shared.BaseAggregateRoot
	Code        string     `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name        string     `gorm:"type:varchar(100);not null"`
	Description string     `gorm:"type:text"`
	ParentID    *uuid.UUID `gorm:"type:uuid;index"`
	Level       int        `gorm:"not null;default:0"`
	Active      bool       `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (Category) TableName() string {
	return "categories"
}

// NewCategory creates a new root category (grupo)
func NewCategory(code, name string) (*Category, error) {
	if err := validateCategoryCode(code); err != nil {
		return nil, err
	}
	if err := validateCategoryName(name); err != nil {
		return nil, err
	}

	return &Category{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              strings.ToUpper(code),
		Name:              name,
		Active:            true,
	}, nil
}

// NewChildCategory creates a subgrupo under a parent group
func NewChildCategory(code, name string, parent *Category) (*Category, error) {
	if parent == nil {
		return nil, shared.NewDomainError("INVALID_PARENT", "Grupo pai é obrigatório")
	}
	if parent.Level >= MaxCategoryDepth-1 {
		return nil, shared.NewDomainError("MAX_DEPTH_EXCEEDED", "Subgrupos não podem ter subgrupos")
	}

	category, err := NewCategory(code, name)
	if err != nil {
		return nil, err
	}

	category.ParentID = &parent.ID
	category.Level = parent.Level + 1

	return category, nil
}

// Update updates the category's basic information
func (c *Category) Update(name, description string) error {
	if err := validateCategoryName(name); err != nil {
		return err
	}

	c.Name = name
	c.Description = description
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	return nil
}

// Deactivate hides the category from selection lists
func (c *Category) Deactivate() {
	c.Active = false
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
}

// Activate makes the category selectable again
func (c *Category) Activate() {
	c.Active = true
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
}

func validateCategoryCode(code string) error {
	if code == "" {
		return shared.NewDomainError("INVALID_CODE", "Código do grupo é obrigatório")
	}
	if len(code) > 50 {
		return shared.NewDomainError("INVALID_CODE", "Código do grupo não pode exceder 50 caracteres")
	}
	return nil
}

func validateCategoryName(name string) error {
	if strings.TrimSpace(name) == "" {
		return shared.NewDomainError("INVALID_NAME", "Nome do grupo é obrigatório")
	}
	if len(name) > 100 {
		return shared.NewDomainError("INVALID_NAME", "Nome do grupo não pode exceder 100 caracteres")
	}
	return nil
}
