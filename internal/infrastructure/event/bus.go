// Package event provides the in-process domain event bus.
package event

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/siscom/backend/internal/domain/shared"
)

// Handler processes domain events dispatched by the bus
type Handler interface {
	// Handle processes one event. Errors are logged, not propagated.
	Handle(ctx context.Context, event shared.DomainEvent) error
	// EventTypes lists the event types this handler wants. Empty means all.
	EventTypes() []string
}

// InMemoryEventBus dispatches domain events to registered handlers
// synchronously, in subscription order. Handler failures are logged and
// never abort the publishing operation.
type InMemoryEventBus struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
	catchAll []Handler
	logger   *zap.Logger
}

// NewInMemoryEventBus creates a new in-memory event bus
func NewInMemoryEventBus(logger *zap.Logger) *InMemoryEventBus {
	return &InMemoryEventBus{
		handlers: make(map[string][]Handler),
		logger:   logger,
	}
}

// Subscribe registers a handler for its declared event types
func (b *InMemoryEventBus) Subscribe(handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	types := handler.EventTypes()
	if len(types) == 0 {
		b.catchAll = append(b.catchAll, handler)
		return
	}
	for _, eventType := range types {
		b.handlers[eventType] = append(b.handlers[eventType], handler)
	}
}

// Publish dispatches events to all matching handlers
func (b *InMemoryEventBus) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	for _, evt := range events {
		b.mu.RLock()
		targets := make([]Handler, 0, len(b.handlers[evt.EventType()])+len(b.catchAll))
		targets = append(targets, b.handlers[evt.EventType()]...)
		targets = append(targets, b.catchAll...)
		b.mu.RUnlock()

		for _, handler := range targets {
			if err := b.dispatch(ctx, handler, evt); err != nil {
				b.logger.Error("falha ao processar evento de domínio",
					zap.String("event_type", evt.EventType()),
					zap.String("event_id", evt.EventID().String()),
					zap.Error(err),
				)
			}
		}
	}
	return nil
}

func (b *InMemoryEventBus) dispatch(ctx context.Context, handler Handler, evt shared.DomainEvent) (err error) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("handler de evento em pânico",
				zap.String("event_type", evt.EventType()),
				zap.Any("panic", r),
			)
		}
	}()

	return handler.Handle(ctx, evt)
}

var _ shared.EventPublisher = (*InMemoryEventBus)(nil)

// AuditLogHandler writes every domain event to the structured log. It is
// the default subscriber so every state change leaves an audit trail.
type AuditLogHandler struct {
	logger *zap.Logger
}

// NewAuditLogHandler creates a new AuditLogHandler
func NewAuditLogHandler(logger *zap.Logger) *AuditLogHandler {
	return &AuditLogHandler{logger: logger}
}

// Handle logs the event
func (h *AuditLogHandler) Handle(_ context.Context, event shared.DomainEvent) error {
	h.logger.Info("evento de domínio",
		zap.String("event_type", event.EventType()),
		zap.String("event_id", event.EventID().String()),
		zap.String("aggregate_type", event.AggregateType()),
		zap.String("aggregate_id", event.AggregateID().String()),
		zap.Time("occurred_at", event.OccurredAt()),
	)
	return nil
}

// EventTypes returns empty, subscribing to all events
func (h *AuditLogHandler) EventTypes() []string { return nil }

var _ Handler = (*AuditLogHandler)(nil)
