package identity

import (
	"github.com/siscom/backend/internal/domain/shared"
)

const (
	EventTypeOperatorCreated = "identity.operator_created"
)

const aggregateTypeOperator = "Operator"

// OperatorCreatedEvent is emitted when an operator account is created
type OperatorCreatedEvent struct {
	shared.BaseDomainEvent
	Username string `json:"username"`
	Role     string `json:"role"`
}

// NewOperatorCreatedEvent creates a new operator created event
func NewOperatorCreatedEvent(operator *Operator) *OperatorCreatedEvent {
	return &OperatorCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOperatorCreated, aggregateTypeOperator, operator.ID),
		Username:        operator.Username,
		Role:            string(operator.Role),
	}
}
