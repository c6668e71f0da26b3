package mapper

import (
	"context"
	"fmt"

	"pksnap/internal/domain"
	"pksnap/internal/lookup"
	"pksnap/internal/snapshot"
)

// OntogenyMapper maps molecule ontogenies. Database ontogenies are stored by
// name only and resolved against the lookup database for the subject's species.
type OntogenyMapper struct {
	tables     DistributedTableFormulaMapper
	ontogenies lookup.OntogenyRepository
}

// MapToSnapshot returns nil for the undefined ontogeny
func (m OntogenyMapper) MapToSnapshot(o domain.Ontogeny) *snapshot.Ontogeny {
	if o == nil || o.IsUndefined() {
		return nil
	}
	switch ont := o.(type) {
	case *domain.UserDefinedOntogeny:
		return &snapshot.Ontogeny{
			Name:        ont.Name,
			Description: ont.Description,
			Table:       m.tables.MapToSnapshot(ont.Table),
		}
	default:
		return &snapshot.Ontogeny{Name: o.OntogenyName()}
	}
}

// MapToModel returns NullOntogeny for a nil snapshot
func (m OntogenyMapper) MapToModel(ctx context.Context, s *snapshot.Ontogeny, species string) (domain.Ontogeny, error) {
	if s == nil {
		return domain.NullOntogeny{}, nil
	}

	if s.Table == nil {
		all, err := m.ontogenies.AllFor(ctx, species)
		if err != nil {
			return nil, fmt.Errorf("failed to load ontogenies for %s: %w", species, err)
		}
		row, ok := all.FindByName(s.Name)
		if !ok {
			return nil, &ReferenceNotFoundError{Kind: "Ontogeny", Name: s.Name}
		}
		return &domain.DatabaseOntogeny{
			Name:        row.Name,
			Description: row.Description,
			SpeciesName: species,
		}, nil
	}

	table, err := m.tables.MapToModel(s.Table)
	if err != nil {
		return nil, fmt.Errorf("ontogeny %s: %w", s.Name, err)
	}
	return &domain.UserDefinedOntogeny{
		Name:        s.Name,
		Description: s.Description,
		SpeciesName: species,
		Table:       table,
	}, nil
}
