package mapper

import (
	"context"
	"errors"
	"fmt"

	"pksnap/internal/domain"
	"pksnap/internal/factory"
	"pksnap/internal/lookup"
	"pksnap/internal/snapshot"
)

// EventMapper maps events
type EventMapper struct {
	parameters ParameterMapper
	factory    *factory.Factory
}

// MapToSnapshot converts an event
func (m EventMapper) MapToSnapshot(_ context.Context, e *domain.Event) (*snapshot.Event, error) {
	return &snapshot.Event{
		Name:        e.Name,
		Description: e.Description,
		Template:    e.Template,
		Parameters:  m.parameters.LocalizedParametersFrom(ChangedParameters(e.Root.AllParameters()), RelativeTo(e.Root)),
	}, nil
}

// MapToModel creates the event from its template and applies the snapshot
func (m EventMapper) MapToModel(ctx context.Context, s *snapshot.Event) (*domain.Event, error) {
	e, err := m.factory.CreateEvent(ctx, s.Name, s.Template)
	if errors.Is(err, lookup.ErrNotFound) {
		return nil, &ReferenceNotFoundError{Kind: "EventTemplate", Name: s.Template}
	}
	if err != nil {
		return nil, err
	}
	e.Description = s.Description
	if err := m.parameters.MapLocalizedParameters(s.Parameters, e.Root, RelativeTo(e.Root)); err != nil {
		return nil, fmt.Errorf("event %s: %w", s.Name, err)
	}
	return e, nil
}
