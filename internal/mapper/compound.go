package mapper

import (
	"context"
	"fmt"

	"pksnap/internal/domain"
	"pksnap/internal/factory"
	"pksnap/internal/snapshot"
)

// CompoundMapper maps compounds
type CompoundMapper struct {
	parameters ParameterMapper
	factory    *factory.Factory
}

// MapToSnapshot converts a compound
func (m CompoundMapper) MapToSnapshot(_ context.Context, c *domain.Compound) (*snapshot.Compound, error) {
	return &snapshot.Compound{
		Name:            c.Name,
		Description:     c.Description,
		IsSmallMolecule: c.IsSmallMolecule,
		Parameters:      m.parameters.LocalizedParametersFrom(ChangedParameters(c.Root.AllParameters()), RelativeTo(c.Root)),
	}, nil
}

// MapToModel creates a compound with default parameters and applies the snapshot
func (m CompoundMapper) MapToModel(ctx context.Context, s *snapshot.Compound) (*domain.Compound, error) {
	c, err := m.factory.CreateCompound(ctx, s.Name)
	if err != nil {
		return nil, err
	}
	c.Description = s.Description
	c.IsSmallMolecule = s.IsSmallMolecule
	if err := m.parameters.MapLocalizedParameters(s.Parameters, c.Root, RelativeTo(c.Root)); err != nil {
		return nil, fmt.Errorf("compound %s: %w", s.Name, err)
	}
	return c, nil
}
