package service

import "sync"

// EventType defines the type of event
type EventType string

const (
	EventSnapshotLoaded      EventType = "snapshot_loaded"
	EventSnapshotWritten     EventType = "snapshot_written"
	EventProjectLoaded       EventType = "project_loaded"
	EventProjectConverted    EventType = "project_converted"
	EventSimulationExported  EventType = "simulation_exported"
	EventQualificationFailed EventType = "qualification_failed"
)

// Event represents an event that occurred during a task
type Event struct {
	Type    EventType `json:"type"`
	Path    string    `json:"path,omitempty"`
	Name    string    `json:"name,omitempty"`
	Payload any       `json:"payload,omitempty"`
}

// EventBus allows publishing and subscribing to events. A nil *EventBus
// drops every event.
type EventBus struct {
	mu          sync.RWMutex
	subscribers []chan<- Event
}

// NewEventBus creates a new event bus
func NewEventBus() *EventBus {
	return &EventBus{
		subscribers: make([]chan<- Event, 0),
	}
}

// Subscribe adds a subscriber to receive events
func (eb *EventBus) Subscribe(ch chan<- Event) {
	eb.mu.Lock()
	defer eb.mu.Unlock()
	eb.subscribers = append(eb.subscribers, ch)
}

// Publish sends an event to all subscribers
func (eb *EventBus) Publish(event Event) {
	if eb == nil {
		return
	}
	eb.mu.RLock()
	defer eb.mu.RUnlock()
	for _, ch := range eb.subscribers {
		select {
		case ch <- event:
		default:
			// Subscriber is slow, skip
		}
	}
}
