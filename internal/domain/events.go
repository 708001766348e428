package domain

// EventType represents the type of domain event
type EventType string

// Event types
const (
	EventRepoDiscovered EventType = "RepoDiscovered"
	EventError          EventType = "Error"
	EventScanStarted    EventType = "ScanStarted"
	EventScanCompleted  EventType = "ScanCompleted"
	EventScanRequested  EventType = "ScanRequested"
)

// DomainEvent is the interface for all domain events
type DomainEvent interface {
	Type() EventType
}

// RepoDiscoveredEvent is emitted when a new repository is found
type RepoDiscoveredEvent struct {
	Repo Repository
}

func (e RepoDiscoveredEvent) Type() EventType { return EventRepoDiscovered }

// ErrorEvent is emitted when an error occurs
type ErrorEvent struct {
	Message string
	Err     error
}

func (e ErrorEvent) Type() EventType { return EventError }

// Error returns the message shown to the user
func (e ErrorEvent) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

// ScanStartedEvent is emitted when repository scanning begins
type ScanStartedEvent struct {
	Paths []string
}

func (e ScanStartedEvent) Type() EventType { return EventScanStarted }

// ScanCompletedEvent is emitted when repository scanning completes
type ScanCompletedEvent struct {
	ReposFound int
}

func (e ScanCompletedEvent) Type() EventType { return EventScanCompleted }

// ScanRequestedEvent is emitted to request a new scan
type ScanRequestedEvent struct {
	Paths []string
}

func (e ScanRequestedEvent) Type() EventType { return EventScanRequested }
