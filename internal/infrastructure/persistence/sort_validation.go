package persistence

import (
	"strings"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	normalized := strings.ToUpper(strings.TrimSpace(orderDir))
	if normalized == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField validates the sort field against a whitelist of allowed fields.
// Returns the defaultField if the input is invalid, empty, or not in the whitelist.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" {
		return defaultField
	}
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// CommonSortFields contains fields common to most entities
var CommonSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
}

// ProductSortFields contains allowed sort fields for products
var ProductSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"code":       true,
	"name":       true,
	"barcode":    true,
	"sale_price": true,
	"cost_price": true,
	"status":     true,
}

// PartnerSortFields contains allowed sort fields for customers and suppliers
var PartnerSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"code":       true,
	"name":       true,
	"document":   true,
	"city":       true,
	"status":     true,
}

// StockItemSortFields contains allowed sort fields for stock items
var StockItemSortFields = map[string]bool{
	"id":                 true,
	"created_at":         true,
	"updated_at":         true,
	"available_quantity": true,
	"unit_cost":          true,
}

// MovementSortFields contains allowed sort fields for stock movements
var MovementSortFields = map[string]bool{
	"id":            true,
	"created_at":    true,
	"movement_date": true,
	"type":          true,
}

// OrderSortFields contains allowed sort fields for trade documents
var OrderSortFields = map[string]bool{
	"id":           true,
	"created_at":   true,
	"updated_at":   true,
	"order_number": true,
	"status":       true,
	"total_amount": true,
}

// QuotationSortFields contains allowed sort fields for quotations
var QuotationSortFields = map[string]bool{
	"id":               true,
	"created_at":       true,
	"updated_at":       true,
	"quotation_number": true,
	"status":           true,
	"total_amount":     true,
	"valid_until":      true,
}

// EntrySortFields contains allowed sort fields for financial entries
var EntrySortFields = map[string]bool{
	"id":              true,
	"created_at":      true,
	"updated_at":      true,
	"entry_number":    true,
	"due_date":        true,
	"status":          true,
	"original_amount": true,
}

// SessionSortFields contains allowed sort fields for cash sessions
var SessionSortFields = map[string]bool{
	"id":          true,
	"created_at":  true,
	"opened_at":   true,
	"closed_at":   true,
	"status":      true,
	"discrepancy": true,
}

// OperatorSortFields contains allowed sort fields for operators
var OperatorSortFields = map[string]bool{
	"id":            true,
	"created_at":    true,
	"updated_at":    true,
	"username":      true,
	"name":          true,
	"role":          true,
	"status":        true,
	"last_login_at": true,
}
