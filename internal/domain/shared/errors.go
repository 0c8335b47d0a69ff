package shared

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors. Messages are in pt-BR because API clients match on
// them (e.g. "insuficiente").
var (
	ErrNotFound              = NewDomainError("NOT_FOUND", "Recurso não encontrado")
	ErrAlreadyExists         = NewDomainError("ALREADY_EXISTS", "Recurso já cadastrado")
	ErrInvalidInput          = NewDomainError("INVALID_INPUT", "Dados inválidos")
	ErrConcurrencyConflict   = NewDomainError("CONCURRENCY_CONFLICT", "Registro modificado por outro processo")
	ErrInvalidState          = NewDomainError("INVALID_STATE", "Operação não permitida no estado atual")
	ErrInsufficientStock     = NewDomainError("INSUFFICIENT_STOCK", "Estoque insuficiente")
	ErrInsufficientLotStock  = NewDomainError("INSUFFICIENT_LOT_STOCK", "Estoque insuficiente nos lotes disponíveis")
	ErrInsufficientBalance   = NewDomainError("INSUFFICIENT_BALANCE", "Saldo insuficiente no caixa")
	ErrInternalInconsistency = NewDomainError("INTERNAL_INCONSISTENCY", "Inconsistência interna detectada")
)
