package events

import (
	"sync"
	"time"
)

// EventType represents the type of event.
type EventType int

const (
	// Store mutation events
	EventContactAdded EventType = iota
	EventContactUpdated
	EventContactsDeleted

	// CSV transfer events
	EventImported
	EventExported

	// Log events (for TUI display)
	EventLog
)

// String returns a human-readable name for the event type.
func (t EventType) String() string {
	switch t {
	case EventContactAdded:
		return "contact_added"
	case EventContactUpdated:
		return "contact_updated"
	case EventContactsDeleted:
		return "contacts_deleted"
	case EventImported:
		return "imported"
	case EventExported:
		return "exported"
	case EventLog:
		return "log"
	default:
		return "unknown"
	}
}

// Event represents an event in the system.
type Event struct {
	Type      EventType
	Timestamp time.Time
	Data      interface{}
}

// MutationData contains data for contact mutation events.
type MutationData struct {
	ID    uint  // affected contact, when a single row is involved
	Count int64 // rows removed, for bulk deletes
}

// TransferData contains data for import/export events.
type TransferData struct {
	Path  string
	Count int
}

// LogData contains a log line for EventLog.
type LogData struct {
	Level   string
	Message string
}

// Bus is a simple publish/subscribe event bus connecting the store-facing
// code to the TUI status line.
type Bus struct {
	mu   sync.RWMutex
	subs []chan Event
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{}
}

// Subscribe returns a channel that receives all future events. Channels are
// buffered; a slow subscriber drops events instead of blocking publishers.
func (b *Bus) Subscribe() <-chan Event {
	b.mu.Lock()
	defer b.mu.Unlock()
	ch := make(chan Event, 64)
	b.subs = append(b.subs, ch)
	return ch
}

// Publish delivers an event to every subscriber without blocking.
func (b *Bus) Publish(t EventType, data interface{}) {
	e := Event{Type: t, Timestamp: time.Now(), Data: data}
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, ch := range b.subs {
		select {
		case ch <- e:
		default:
		}
	}
}

// PublishLog publishes a log line for TUI display.
func (b *Bus) PublishLog(level, message string) {
	b.Publish(EventLog, LogData{Level: level, Message: message})
}
