package eventbus

import (
	"runtime/debug"
	"sync"

	"go.uber.org/zap"

	"repofind/internal/domain"
)

// Re-export domain types for convenience
type DomainEvent = domain.DomainEvent
type EventType = domain.EventType

// Event type constants
const (
	EventRepoDiscovered = domain.EventRepoDiscovered
	EventError          = domain.EventError
	EventScanStarted    = domain.EventScanStarted
	EventScanCompleted  = domain.EventScanCompleted
	EventScanRequested  = domain.EventScanRequested
)

// Re-export domain event types
type RepoDiscoveredEvent = domain.RepoDiscoveredEvent
type ErrorEvent = domain.ErrorEvent
type ScanStartedEvent = domain.ScanStartedEvent
type ScanCompletedEvent = domain.ScanCompletedEvent
type ScanRequestedEvent = domain.ScanRequestedEvent

// EventHandler is a function that handles domain events
type EventHandler func(DomainEvent)

// EventBus is the interface for the event bus
type EventBus interface {
	Publish(event DomainEvent)
	Subscribe(eventType EventType, handler EventHandler) func()
	// Close delivers the events already published and stops the dispatcher
	Close()
}

type subscription struct {
	id      uint64
	handler EventHandler
}

// bus is the concrete implementation of EventBus. Events are delivered on a
// single dispatcher goroutine, in publish order, one handler at a time.
type bus struct {
	mu       sync.RWMutex
	handlers map[EventType][]subscription
	nextID   uint64
	logger   *zap.Logger

	// sendMu guards closed and sends on eventChan
	sendMu sync.RWMutex
	closed bool

	eventChan chan DomainEvent
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// New creates a new event bus
func New(logger *zap.Logger) EventBus {
	if logger == nil {
		logger = zap.NewNop()
	}
	b := &bus{
		handlers:  make(map[EventType][]subscription),
		eventChan: make(chan DomainEvent, 1000),
		logger:    logger,
	}

	b.wg.Add(1)
	go b.dispatch()

	return b
}

// Publish queues an event for all subscribers. It blocks while the queue
// is full and drops events published after Close.
func (b *bus) Publish(event DomainEvent) {
	b.sendMu.RLock()
	defer b.sendMu.RUnlock()
	if b.closed {
		b.logger.Debug("event bus closed, dropping event", zap.String("type", string(event.Type())))
		return
	}

	if event.Type() != EventRepoDiscovered {
		b.logger.Debug("publishing event", zap.String("type", string(event.Type())))
	}
	b.eventChan <- event
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

// Close stops accepting events, waits until the queued ones are handled
func (b *bus) Close() {
	b.closeOnce.Do(func() {
		b.sendMu.Lock()
		b.closed = true
		close(b.eventChan)
		b.sendMu.Unlock()
		b.wg.Wait()
	})
}

// dispatch handles event distribution to subscribers
func (b *bus) dispatch() {
	defer b.wg.Done()

	for event := range b.eventChan {
		b.mu.RLock()
		subs := make([]subscription, len(b.handlers[event.Type()]))
		copy(subs, b.handlers[event.Type()])
		b.mu.RUnlock()

		for _, s := range subs {
			b.deliver(s.handler, event)
		}
	}
}

func (b *bus) deliver(h EventHandler, event DomainEvent) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("panic in event handler",
				zap.String("type", string(event.Type())),
				zap.Any("panic", r),
				zap.ByteString("stack", debug.Stack()))
		}
	}()
	h(event)
}
