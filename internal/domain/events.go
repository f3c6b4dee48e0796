package domain

import "time"

// EventType represents the type of domain event
type EventType string

// Event types
const (
	EventQueryStarted   EventType = "QueryStarted"
	EventQuerySucceeded EventType = "QuerySucceeded"
	EventQueryFailed    EventType = "QueryFailed"
	EventQueryDiscarded EventType = "QueryDiscarded"
	EventCacheHit       EventType = "CacheHit"
	EventSearchSettled  EventType = "SearchSettled"
	EventNavigated      EventType = "Navigated"
	EventError          EventType = "Error"
	EventConfigLoaded   EventType = "ConfigLoaded"
	EventConfigSaved    EventType = "ConfigSaved"
)

// DomainEvent is the interface for all domain events
type DomainEvent interface {
	Type() EventType
}

// QueryStartedEvent is emitted when a fetch for a key actually hits the network
type QueryStartedEvent struct {
	Key       string
	RequestID string
}

func (e QueryStartedEvent) Type() EventType { return EventQueryStarted }

// QuerySucceededEvent is emitted when a fetch completes and is stored
type QuerySucceededEvent struct {
	Key       string
	RequestID string
	Duration  time.Duration
}

func (e QuerySucceededEvent) Type() EventType { return EventQuerySucceeded }

// QueryFailedEvent is emitted when a fetch fails
type QueryFailedEvent struct {
	Key       string
	RequestID string
	Err       error
}

func (e QueryFailedEvent) Type() EventType { return EventQueryFailed }

// QueryDiscardedEvent is emitted when a response arrives for a superseded key
type QueryDiscardedEvent struct {
	Key     string
	Current string
}

func (e QueryDiscardedEvent) Type() EventType { return EventQueryDiscarded }

// CacheHitEvent is emitted when a key is served from cache without fetching
type CacheHitEvent struct {
	Key   string
	Fresh bool
}

func (e CacheHitEvent) Type() EventType { return EventCacheHit }

// SearchSettledEvent is emitted when the debounced search term settles
type SearchSettledEvent struct {
	Term string
}

func (e SearchSettledEvent) Type() EventType { return EventSearchSettled }

// NavigatedEvent is emitted when the route stack changes
type NavigatedEvent struct {
	Route string
	Depth int
}

func (e NavigatedEvent) Type() EventType { return EventNavigated }

// ErrorEvent is emitted when an error escapes a screen (error boundary)
type ErrorEvent struct {
	Message string
	Err     error
}

func (e ErrorEvent) Type() EventType { return EventError }

// ConfigLoadedEvent is emitted when configuration is loaded
type ConfigLoadedEvent struct {
	Path    string
	BaseURL string
}

func (e ConfigLoadedEvent) Type() EventType { return EventConfigLoaded }

// ConfigSavedEvent is emitted when configuration is saved
type ConfigSavedEvent struct {
	Path string
}

func (e ConfigSavedEvent) Type() EventType { return EventConfigSaved }
