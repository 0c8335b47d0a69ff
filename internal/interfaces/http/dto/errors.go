package dto

import (
	"net/http"
	"strings"
)

// Transport-level error codes. Business codes come from the domain
// and are forwarded as-is.
const (
	ErrCodeInternal     = "INTERNAL_ERROR"
	ErrCodeBadRequest   = "BAD_REQUEST"
	ErrCodeValidation   = "VALIDATION_ERROR"
	ErrCodeUnauthorized = "UNAUTHORIZED"
	ErrCodeForbidden    = "FORBIDDEN"
	ErrCodeNotFound     = "NOT_FOUND"
	ErrCodeTooLarge     = "REQUEST_TOO_LARGE"
)

// errorCodeHTTPStatus maps domain error codes to HTTP status codes.
// Codes not listed here fall through the prefix rules in GetHTTPStatus.
var errorCodeHTTPStatus = map[string]int{
	// Resource errors
	"NOT_FOUND":     http.StatusNotFound,
	"UNKNOWN_PARTY": http.StatusNotFound,

	// Conflicts
	"ALREADY_EXISTS":       http.StatusConflict,
	"CONCURRENCY_CONFLICT": http.StatusConflict,
	"SESSION_ALREADY_OPEN": http.StatusConflict,

	// Authentication and account state
	"UNAUTHORIZED":        http.StatusUnauthorized,
	"INVALID_CREDENTIALS": http.StatusUnauthorized,
	"TOKEN_EXPIRED":       http.StatusUnauthorized,
	"TOKEN_INVALID":       http.StatusUnauthorized,
	"FORBIDDEN":           http.StatusForbidden,
	"ACCOUNT_LOCKED":      http.StatusForbidden,
	"ACCOUNT_INACTIVE":    http.StatusForbidden,
	"ACCOUNT_DEACTIVATED": http.StatusForbidden,

	// Business rule violations: the request is well-formed but the
	// operation is not allowed in the current state
	"INVALID_STATE":          http.StatusBadRequest,
	"INSUFFICIENT_STOCK":     http.StatusBadRequest,
	"INSUFFICIENT_LOT_STOCK": http.StatusBadRequest,
	"INSUFFICIENT_BALANCE":   http.StatusBadRequest,
	"INSUFFICIENT_PAYMENT":   http.StatusBadRequest,
	"ORDER_LOCKED":           http.StatusBadRequest,
	"QUOTATION_EXPIRED":      http.StatusBadRequest,
	"SESSION_CLOSED":         http.StatusBadRequest,
	"PRODUCT_INACTIVE":       http.StatusBadRequest,
	"CUSTOMER_INACTIVE":      http.StatusBadRequest,
	"SUPPLIER_INACTIVE":      http.StatusBadRequest,
	"NOT_LOCKED":             http.StatusBadRequest,

	// Infrastructure
	"INTERNAL_ERROR":         http.StatusInternalServerError,
	"INTERNAL_INCONSISTENCY": http.StatusInternalServerError,
	"PASSWORD_HASH_ERROR":    http.StatusInternalServerError,

	// Transport
	ErrCodeBadRequest: http.StatusBadRequest,
	ErrCodeValidation: http.StatusUnprocessableEntity,
	ErrCodeTooLarge:   http.StatusRequestEntityTooLarge,
}

// Prefixes of domain validation codes, e.g. INVALID_CPF or MISSING_NAME.
// Input that fails validation gets a 422.
var validationPrefixes = []string{"INVALID_", "MISSING_", "DUPLICATE_", "EMPTY_"}

// Prefix of state-transition codes, e.g. ALREADY_CANCELLED or ALREADY_SETTLED.
// These are business violations, not input problems.
const alreadyPrefix = "ALREADY_"

// GetHTTPStatus returns the HTTP status code for a domain error code
func GetHTTPStatus(code string) int {
	if status, ok := errorCodeHTTPStatus[code]; ok {
		return status
	}
	for _, prefix := range validationPrefixes {
		if strings.HasPrefix(code, prefix) {
			return http.StatusUnprocessableEntity
		}
	}
	if strings.HasPrefix(code, alreadyPrefix) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
