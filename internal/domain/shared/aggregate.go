package shared

// AggregateRoot is the base interface for all aggregate roots
type AggregateRoot interface {
	Entity
	GetVersion() int
	IncrementVersion()
	AddDomainEvent(event DomainEvent)
	GetDomainEvents() []DomainEvent
	ClearDomainEvents()
}

// BaseAggregateRoot provides common fields for aggregate roots
type BaseAggregateRoot struct {
	BaseEntity
	Version          int           `gorm:"not null;default:1"`
	persistedVersion int           `gorm:"-"`
	domainEvents     []DomainEvent `gorm:"-"`
}

// GetVersion returns the aggregate version for optimistic locking
func (a *BaseAggregateRoot) GetVersion() int {
	return a.Version
}

// IncrementVersion increments the version number
func (a *BaseAggregateRoot) IncrementVersion() {
	a.Version++
}

// SyncPersistedVersion records the version currently stored in the database.
// Repositories call it after loading the aggregate and after a successful
// guarded save. Domain mutators may bump Version any number of times in
// between; the persisted version is what an optimistic guard must compare
// against.
func (a *BaseAggregateRoot) SyncPersistedVersion() {
	a.persistedVersion = a.Version
}

// PersistedVersion returns the version last seen in the database.
func (a *BaseAggregateRoot) PersistedVersion() int {
	if a.persistedVersion == 0 {
		return a.Version
	}
	return a.persistedVersion
}

// AddDomainEvent adds a domain event to be published
func (a *BaseAggregateRoot) AddDomainEvent(event DomainEvent) {
	a.domainEvents = append(a.domainEvents, event)
}

// GetDomainEvents returns all pending domain events
func (a *BaseAggregateRoot) GetDomainEvents() []DomainEvent {
	return a.domainEvents
}

// ClearDomainEvents clears the pending domain events
func (a *BaseAggregateRoot) ClearDomainEvents() {
	a.domainEvents = nil
}

// NewBaseAggregateRoot creates a new base aggregate root
func NewBaseAggregateRoot() BaseAggregateRoot {
	return BaseAggregateRoot{
		BaseEntity:       NewBaseEntity(),
		Version:          1,
		persistedVersion: 1,
		domainEvents:     make([]DomainEvent, 0),
	}
}
