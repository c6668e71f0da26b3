package mapper

import (
	"context"
	"fmt"

	"pksnap/internal/domain"
	"pksnap/internal/factory"
	"pksnap/internal/snapshot"
)

// IndividualMapper maps individuals. The model side is rebuilt from the
// origin data through the factory, then the changed parameters are applied.
type IndividualMapper struct {
	parameters ParameterMapper
	molecules  MoleculeMapper
	factory    *factory.Factory
}

// MapToSnapshot converts an individual
func (m IndividualMapper) MapToSnapshot(ctx context.Context, ind *domain.Individual) (*snapshot.Individual, error) {
	molecules, err := mapAll(ind.Molecules, func(mol *domain.Molecule) (*snapshot.Molecule, error) {
		return m.molecules.MapToSnapshot(mol), nil
	})
	if err != nil {
		return nil, err
	}

	origin, err := m.originDataToSnapshot(ind)
	if err != nil {
		return nil, fmt.Errorf("individual %s: %w", ind.Name, err)
	}

	return &snapshot.Individual{
		Name:        ind.Name,
		Description: ind.Description,
		Seed:        ind.Seed,
		OriginData:  origin,
		Parameters:  m.parameters.LocalizedParametersFrom(ChangedParameters(ind.OwnParameters()), RelativeTo(ind.Root)),
		Molecules:   molecules,
	}, nil
}

func (m IndividualMapper) originDataToSnapshot(ind *domain.Individual) (*snapshot.OriginData, error) {
	o := ind.OriginData
	s := &snapshot.OriginData{
		Species:            o.Species,
		Population:         o.Population,
		Gender:             string(o.Gender),
		CalculationMethods: append([]string(nil), ind.CalculationMethods...),
	}
	if o.Age != nil {
		unit, err := domain.Age.Unit(o.AgeUnit)
		if err != nil {
			return nil, fmt.Errorf("age: %w", err)
		}
		v := domain.Age.FromBase(unit, *o.Age)
		s.Age = &snapshot.Parameter{Value: &v, Unit: unit.Name}
	}
	return s, nil
}

// OriginDataToModel converts snapshot origin data. The age is converted to years.
func (m IndividualMapper) OriginDataToModel(s *snapshot.OriginData) (domain.OriginData, error) {
	if s == nil {
		return domain.OriginData{}, fmt.Errorf("origin data missing")
	}
	o := domain.OriginData{
		Species:    s.Species,
		Population: s.Population,
		Gender:     domain.Gender(s.Gender),
	}
	if s.Age != nil && s.Age.Value != nil {
		years, err := domain.Age.ConvertToBase(s.Age.Unit, *s.Age.Value)
		if err != nil {
			return o, fmt.Errorf("age: %w", err)
		}
		o.Age = &years
		o.AgeUnit = s.Age.Unit
	}
	return o, nil
}

// MapToModel creates the individual described by the snapshot
func (m IndividualMapper) MapToModel(ctx context.Context, s *snapshot.Individual) (*domain.Individual, error) {
	origin, err := m.OriginDataToModel(s.OriginData)
	if err != nil {
		return nil, fmt.Errorf("individual %s: %w", s.Name, err)
	}

	ind, err := m.factory.CreateIndividual(ctx, s.Name, origin)
	if err != nil {
		return nil, err
	}
	ind.Description = s.Description
	ind.Seed = s.Seed
	if len(s.OriginData.CalculationMethods) > 0 {
		ind.CalculationMethods = append([]string(nil), s.OriginData.CalculationMethods...)
	}

	if err := m.parameters.MapLocalizedParameters(s.Parameters, ind.Root, RelativeTo(ind.Root)); err != nil {
		return nil, fmt.Errorf("individual %s: %w", s.Name, err)
	}

	molecules, err := mapAll(s.Molecules, func(ms *snapshot.Molecule) (*domain.Molecule, error) {
		return m.molecules.MapToModel(ctx, ms, ind)
	})
	if err != nil {
		return nil, fmt.Errorf("individual %s: %w", s.Name, err)
	}
	for _, mol := range molecules {
		ind.AddMolecule(mol)
	}
	return ind, nil
}
