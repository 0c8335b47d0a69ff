package shared

import (
	"context"
	"fmt"
	"time"
)

// DocumentType identifies a numbered document series. Each series is
// monotonic and numbers are never reused, even across restarts.
type DocumentType string

const (
	DocumentTypeSale          DocumentType = "VENDA"
	DocumentTypePurchaseOrder DocumentType = "PEDIDO_COMPRA"
	DocumentTypeServiceOrder  DocumentType = "OS"
	DocumentTypeQuotation     DocumentType = "ORCAMENTO"
	DocumentTypeFinancial     DocumentType = "TITULO"
)

// IsValid returns true if the document type is a known series
func (t DocumentType) IsValid() bool {
	switch t {
	case DocumentTypeSale, DocumentTypePurchaseOrder, DocumentTypeServiceOrder, DocumentTypeQuotation, DocumentTypeFinancial:
		return true
	}
	return false
}

// Prefix returns the short prefix used in formatted document numbers
func (t DocumentType) Prefix() string {
	switch t {
	case DocumentTypeSale:
		return "VD"
	case DocumentTypePurchaseOrder:
		return "PC"
	case DocumentTypeServiceOrder:
		return "OS"
	case DocumentTypeQuotation:
		return "OR"
	case DocumentTypeFinancial:
		return "TL"
	}
	return "DOC"
}

// DocumentSequence is the persistent counter row for one document series
type DocumentSequence struct {
	DocumentType DocumentType `gorm:"type:varchar(30);primaryKey"`
	Year         int          `gorm:"primaryKey"`
	LastNumber   int64        `gorm:"not null;default:0"`
	UpdatedAt    time.Time
}

// TableName returns the table name for GORM
func (DocumentSequence) TableName() string {
	return "document_sequences"
}

// SequenceGenerator hands out the next number of a series. Implementations
// must be safe under concurrent callers (row lock in the database).
type SequenceGenerator interface {
	// Next returns the next formatted document number for the series,
	// e.g. "VD-2026-00042".
	Next(ctx context.Context, docType DocumentType) (string, error)
}

// FormatDocumentNumber renders a document number in the series format
func FormatDocumentNumber(docType DocumentType, year int, number int64) string {
	return fmt.Sprintf("%s-%d-%05d", docType.Prefix(), year, number)
}
