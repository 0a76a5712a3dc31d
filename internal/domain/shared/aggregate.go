package shared

// AggregateRoot is an entity that owns a consistency boundary. It carries an
// optimistic lock version and buffers the events raised by its commands until
// the application layer has persisted it.
type AggregateRoot interface {
	Entity
	GetVersion() int
	IncrementVersion()
	AddDomainEvent(event DomainEvent)
	GetDomainEvents() []DomainEvent
	ClearDomainEvents()
	PullDomainEvents() []DomainEvent
	StoredVersion() int
	MarkStored()
}

// BaseAggregateRoot is embedded by quotes, bookings, customers and rules
type BaseAggregateRoot struct {
	BaseEntity
	Version      int
	domainEvents []DomainEvent

	// storedVersion is the version last read from or written to storage,
	// zero until the aggregate has been persisted
	storedVersion int
}

// GetVersion returns the version the aggregate was loaded or created at
func (a *BaseAggregateRoot) GetVersion() int {
	return a.Version
}

// IncrementVersion bumps the version once per state change. Repositories
// only write a row whose stored version is lower.
func (a *BaseAggregateRoot) IncrementVersion() {
	a.Version++
}

// AddDomainEvent buffers event
func (a *BaseAggregateRoot) AddDomainEvent(event DomainEvent) {
	a.domainEvents = append(a.domainEvents, event)
}

// GetDomainEvents returns the buffered events in the order they were raised
func (a *BaseAggregateRoot) GetDomainEvents() []DomainEvent {
	return a.domainEvents
}

// ClearDomainEvents drops the buffered events
func (a *BaseAggregateRoot) ClearDomainEvents() {
	a.domainEvents = nil
}

// PullDomainEvents returns the buffered events and clears the buffer
func (a *BaseAggregateRoot) PullDomainEvents() []DomainEvent {
	events := a.domainEvents
	a.domainEvents = nil
	return events
}

// StoredVersion returns the version the stored row is expected to carry.
// Repositories guard updates on it.
func (a *BaseAggregateRoot) StoredVersion() int {
	return a.storedVersion
}

// MarkStored records that the current version has been persisted
func (a *BaseAggregateRoot) MarkStored() {
	a.storedVersion = a.Version
}

// RestoreAggregateRoot rebuilds the header of an aggregate read from storage
// at version
func RestoreAggregateRoot(entity BaseEntity, version int) BaseAggregateRoot {
	return BaseAggregateRoot{
		BaseEntity:    entity,
		Version:       version,
		storedVersion: version,
	}
}

// NewBaseAggregateRoot starts a new aggregate at version 1
func NewBaseAggregateRoot() BaseAggregateRoot {
	return BaseAggregateRoot{
		BaseEntity: NewBaseEntity(),
		Version:    1,
	}
}
