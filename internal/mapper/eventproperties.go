package mapper

import (
	"fmt"

	"pksnap/internal/domain"
	"pksnap/internal/snapshot"
)

// EventPropertiesMapper maps the event mappings of a simulation. Events are
// referenced by id in the model and by name in the snapshot.
type EventPropertiesMapper struct {
	parameters ParameterMapper
}

// MapToSnapshot returns nil when no event is scheduled
func (m EventPropertiesMapper) MapToSnapshot(props *domain.EventProperties, project *domain.Project) ([]*snapshot.EventSelection, error) {
	if props.IsEmpty() {
		return nil, nil
	}
	out := make([]*snapshot.EventSelection, 0, len(props.EventMappings))
	for _, em := range props.EventMappings {
		event, ok := domain.ByID[*domain.Event](project, em.TemplateEventID)
		if !ok {
			return nil, &ReferenceNotFoundError{Kind: string(domain.TypeEvent), Name: em.TemplateEventID}
		}
		sel := &snapshot.EventSelection{Name: event.Name}
		if em.StartTime != nil {
			sel.StartTime = m.parameters.MapToSnapshot(em.StartTime)
			sel.StartTime.Name = ""
		}
		out = append(out, sel)
	}
	return out, nil
}

// MapToModel resolves events by name. A nil selection list yields empty properties.
func (m EventPropertiesMapper) MapToModel(selections []*snapshot.EventSelection, project *domain.Project) (*domain.EventProperties, error) {
	props := &domain.EventProperties{}
	for _, sel := range selections {
		event, ok := domain.ByName[*domain.Event](project, sel.Name)
		if !ok {
			return nil, &ReferenceNotFoundError{Kind: string(domain.TypeEvent), Name: sel.Name}
		}
		em := domain.NewEventMapping(event)
		if sel.StartTime != nil {
			if err := m.parameters.UpdateParameter(em.StartTime, sel.StartTime); err != nil {
				return nil, fmt.Errorf("event %s: %w", sel.Name, err)
			}
		}
		props.AddEventMappings(em)
	}
	return props, nil
}
