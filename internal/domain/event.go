package domain

import "github.com/google/uuid"

// Event is a building block created from an event template (meal, exercise, ...)
type Event struct {
	BlockInfo
	Template string
}

// NewEvent creates an event of the given template
func NewEvent(name, template string) *Event {
	return &Event{BlockInfo: newBlockInfo(name), Template: template}
}

func (e *Event) Type() BuildingBlockType { return TypeEvent }

// EventMapping schedules an event in a simulation
type EventMapping struct {
	ID              string
	TemplateEventID string
	StartTime       *Parameter
}

// NewEventMapping creates a mapping for the event starting at time zero,
// displayed in hours
func NewEventMapping(event *Event) *EventMapping {
	start := NewConstantParameter(ParamStartTime, 0, Time)
	start.DisplayUnit, _ = Time.Unit("h")
	return &EventMapping{
		ID:              uuid.NewString(),
		TemplateEventID: event.ID,
		StartTime:       start,
	}
}

// EventProperties are the event mappings of a simulation
type EventProperties struct {
	EventMappings []*EventMapping
}

// AddEventMappings appends mappings
func (p *EventProperties) AddEventMappings(mappings ...*EventMapping) {
	p.EventMappings = append(p.EventMappings, mappings...)
}

// IsEmpty reports whether no event is scheduled
func (p *EventProperties) IsEmpty() bool {
	return p == nil || len(p.EventMappings) == 0
}
