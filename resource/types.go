package resource

// Handle is an opaque reference to an owner in a table.
// Handle 0 is reserved and always invalid.
type Handle uint32

// Event types for resource lifecycle notifications.
type EventType uint8

const (
	EventInserted EventType = iota
	EventBorrowed
	EventDropped
	EventDestroyed
)

// String returns a human-readable name of the event type.
func (t EventType) String() string {
	switch t {
	case EventInserted:
		return "inserted"
	case EventBorrowed:
		return "borrowed"
	case EventDropped:
		return "dropped"
	case EventDestroyed:
		return "destroyed"
	default:
		return "unknown"
	}
}

// Event represents a resource lifecycle event.
// UseCount is the owner count right after the operation.
type Event struct {
	UseCount int64
	Handle   Handle
	Type     EventType
}

// Observer receives notifications about resource lifecycle events.
type Observer interface {
	OnResourceEvent(Event)
}
