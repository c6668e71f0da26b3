package mapper

import (
	"context"
	"fmt"

	"pksnap/internal/domain"
	"pksnap/internal/factory"
	"pksnap/internal/snapshot"
)

// MoleculeMapper maps molecules expressed in an individual
type MoleculeMapper struct {
	parameters ParameterMapper
	ontogenies OntogenyMapper
	factory    *factory.Factory
}

// MapToSnapshot converts a molecule. Direct parameters are stored by name,
// expression parameters by path below the molecule.
func (m MoleculeMapper) MapToSnapshot(mol *domain.Molecule) *snapshot.Molecule {
	s := &snapshot.Molecule{
		Name:        mol.Name,
		Description: mol.Description,
		Type:        string(mol.Type),
		Parameters:  m.parameters.ParametersFrom(ChangedParameters(mol.Root.Parameters())),
		Ontogeny:    m.ontogenies.MapToSnapshot(mol.Ontogeny),
	}

	var expression []*domain.Parameter
	for _, c := range mol.Root.Containers() {
		expression = append(expression, c.AllParameters()...)
	}
	s.Expression = m.parameters.LocalizedParametersFrom(ChangedParameters(expression), RelativeTo(mol.Root))

	if mol.Type.IsTransporter() {
		s.TransportType = optional(mol.TransportType)
	} else {
		s.MembraneLocation = optional(mol.MembraneLocation)
		s.TissueLocation = optional(mol.TissueLocation)
		s.IntracellularVascularEndoLocation = optional(mol.IntracellularVascularEndoLocation)
	}
	return s
}

// MapToModel creates the molecule for the individual and applies the snapshot
func (m MoleculeMapper) MapToModel(ctx context.Context, s *snapshot.Molecule, ind *domain.Individual) (*domain.Molecule, error) {
	t, err := domain.ParseMoleculeType(s.Type)
	if err != nil {
		return nil, fmt.Errorf("molecule %s: %w", s.Name, err)
	}

	mol := m.factory.CreateMolecule(ind, s.Name, t)
	mol.Description = s.Description
	if t.IsTransporter() {
		mol.TransportType = valueOr(s.TransportType, mol.TransportType)
	} else {
		mol.MembraneLocation = valueOr(s.MembraneLocation, mol.MembraneLocation)
		mol.TissueLocation = valueOr(s.TissueLocation, mol.TissueLocation)
		mol.IntracellularVascularEndoLocation = valueOr(s.IntracellularVascularEndoLocation, mol.IntracellularVascularEndoLocation)
	}

	if err := m.parameters.MapParameters(s.Parameters, mol.Root); err != nil {
		return nil, fmt.Errorf("molecule %s: %w", s.Name, err)
	}
	if err := m.parameters.MapLocalizedParameters(s.Expression, mol.Root, RelativeTo(mol.Root)); err != nil {
		return nil, fmt.Errorf("molecule %s: %w", s.Name, err)
	}

	mol.Ontogeny, err = m.ontogenies.MapToModel(ctx, s.Ontogeny, ind.Species())
	if err != nil {
		return nil, fmt.Errorf("molecule %s: %w", s.Name, err)
	}
	return mol, nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func valueOr(s *string, fallback string) string {
	if s == nil {
		return fallback
	}
	return *s
}
