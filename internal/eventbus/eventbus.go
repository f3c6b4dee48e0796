package eventbus

import (
	"runtime/debug"
	"sync"

	"github.com/sirupsen/logrus"

	"postgrip/internal/domain"
)

// Re-export domain types for convenience
type DomainEvent = domain.DomainEvent
type EventType = domain.EventType

// Event type constants
const (
	EventQueryStarted   = domain.EventQueryStarted
	EventQuerySucceeded = domain.EventQuerySucceeded
	EventQueryFailed    = domain.EventQueryFailed
	EventQueryDiscarded = domain.EventQueryDiscarded
	EventCacheHit       = domain.EventCacheHit
	EventSearchSettled  = domain.EventSearchSettled
	EventNavigated      = domain.EventNavigated
	EventError          = domain.EventError
	EventConfigLoaded   = domain.EventConfigLoaded
	EventConfigSaved    = domain.EventConfigSaved
)

// Re-export domain event types
type QueryStartedEvent = domain.QueryStartedEvent
type QuerySucceededEvent = domain.QuerySucceededEvent
type QueryFailedEvent = domain.QueryFailedEvent
type QueryDiscardedEvent = domain.QueryDiscardedEvent
type CacheHitEvent = domain.CacheHitEvent
type SearchSettledEvent = domain.SearchSettledEvent
type NavigatedEvent = domain.NavigatedEvent
type ErrorEvent = domain.ErrorEvent
type ConfigLoadedEvent = domain.ConfigLoadedEvent
type ConfigSavedEvent = domain.ConfigSavedEvent

// EventHandler is a function that handles domain events
type EventHandler func(DomainEvent)

// EventBus is the interface for the event bus
type EventBus interface {
	Publish(event DomainEvent)
	Subscribe(eventType EventType, handler EventHandler) func()
	Close()
}

type subscription struct {
	id      uint64
	handler EventHandler
}

// bus is the concrete implementation of EventBus
type bus struct {
	mu        sync.RWMutex
	handlers  map[EventType][]subscription
	nextID    uint64
	eventChan chan DomainEvent
	wg        sync.WaitGroup
	quit      chan struct{}
	closeOnce sync.Once
	log       *logrus.Entry
}

// New creates a new event bus. A nil logger falls back to the logrus standard logger.
func New(logger *logrus.Logger) EventBus {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	b := &bus{
		handlers:  make(map[EventType][]subscription),
		eventChan: make(chan DomainEvent, 1000),
		quit:      make(chan struct{}),
		log:       logger.WithField("component", "eventbus"),
	}

	b.wg.Add(1)
	go b.dispatch()

	return b
}

// Publish publishes an event to all subscribers
func (b *bus) Publish(event DomainEvent) {
	// Cache hits fire on every keystroke that settles, keep them out of the log
	if event.Type() != EventCacheHit {
		b.log.WithField("event", event.Type()).Debug("publishing event")
	}

	select {
	case <-b.quit:
		return
	default:
	}

	select {
	case b.eventChan <- event:
	default:
		b.log.WithField("event", event.Type()).Warn("event bus channel full, dropping event")
	}
}

// Subscribe subscribes to events of a specific type
// Returns an unsubscribe function
func (b *bus) Subscribe(eventType EventType, handler EventHandler) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	b.handlers[eventType] = append(b.handlers[eventType], subscription{id: id, handler: handler})

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()

		subs := b.handlers[eventType]
		for i, s := range subs {
			if s.id == id {
				b.handlers[eventType] = append(subs[:i:i], subs[i+1:]...)
				break
			}
		}
	}
}

// Close stops the dispatcher; pending events are discarded
func (b *bus) Close() {
	b.closeOnce.Do(func() {
		close(b.quit)
		b.wg.Wait()
	})
}

// dispatch handles event distribution to subscribers
func (b *bus) dispatch() {
	defer b.wg.Done()

	for {
		select {
		case event := <-b.eventChan:
			b.mu.RLock()
			subs := b.handlers[event.Type()]
			// Copy so handlers run without the lock held
			handlers := make([]EventHandler, len(subs))
			for i, s := range subs {
				handlers[i] = s.handler
			}
			b.mu.RUnlock()

			for _, handler := range handlers {
				go func(h EventHandler, eventType EventType) {
					defer func() {
						if r := recover(); r != nil {
							b.log.WithFields(logrus.Fields{
								"event": eventType,
								"panic": r,
								"stack": string(debug.Stack()),
							}).Error("event handler panic")
						}
					}()
					h(event)
				}(handler, event.Type())
			}

		case <-b.quit:
			for {
				select {
				case <-b.eventChan:
				default:
					return
				}
			}
		}
	}
}
