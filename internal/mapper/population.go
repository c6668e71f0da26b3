package mapper

import (
	"context"
	"fmt"

	"pksnap/internal/domain"
	"pksnap/internal/snapshot"
)

// AdvancedParameterMapper maps advanced parameters. The snapshot name is the
// parameter path below the subject root.
type AdvancedParameterMapper struct{}

// MapToSnapshot converts an advanced parameter
func (AdvancedParameterMapper) MapToSnapshot(ap *domain.AdvancedParameter) *snapshot.AdvancedParameter {
	return &snapshot.AdvancedParameter{
		Name:         ap.ParameterPath,
		Seed:         ap.Seed,
		Distribution: ap.Distribution.ID,
		Mean:         ap.Mean,
		Deviation:    ap.Deviation,
	}
}

// MapToModel resolves the parameter below root. It must exist and be
// variable in a population.
func (AdvancedParameterMapper) MapToModel(s *snapshot.AdvancedParameter, root *domain.Container) (*domain.AdvancedParameter, error) {
	p := root.ParameterAt(s.Name)
	if p == nil {
		return nil, &ParameterNotFoundError{Path: s.Name, Container: root.Name}
	}
	if !p.CanBeDefinedAsAdvanced() {
		return nil, fmt.Errorf("parameter %s cannot be varied in a population", s.Name)
	}
	kind, err := domain.DistributionByID(s.Distribution)
	if err != nil {
		return nil, fmt.Errorf("advanced parameter %s: %w", s.Name, err)
	}
	return &domain.AdvancedParameter{
		ParameterPath: s.Name,
		Seed:          s.Seed,
		Distribution:  kind,
		Mean:          s.Mean,
		Deviation:     s.Deviation,
	}, nil
}

func (m AdvancedParameterMapper) allToSnapshot(aps []*domain.AdvancedParameter) []*snapshot.AdvancedParameter {
	if len(aps) == 0 {
		return nil
	}
	out := make([]*snapshot.AdvancedParameter, 0, len(aps))
	for _, ap := range aps {
		out = append(out, m.MapToSnapshot(ap))
	}
	return out
}

func (m AdvancedParameterMapper) allToModel(snaps []*snapshot.AdvancedParameter, root *domain.Container) ([]*domain.AdvancedParameter, error) {
	var out []*domain.AdvancedParameter
	for _, s := range snaps {
		ap, err := m.MapToModel(s, root)
		if err != nil {
			return nil, err
		}
		out = append(out, ap)
	}
	return out, nil
}

// PopulationMapper maps populations
type PopulationMapper struct {
	individuals IndividualMapper
	advanced    AdvancedParameterMapper
}

// MapToSnapshot converts a population
func (m PopulationMapper) MapToSnapshot(ctx context.Context, p *domain.Population) (*snapshot.Population, error) {
	if p.FirstIndividual == nil {
		return nil, fmt.Errorf("population %s has no base individual", p.Name)
	}
	ind, err := m.individuals.MapToSnapshot(ctx, p.FirstIndividual)
	if err != nil {
		return nil, fmt.Errorf("population %s: %w", p.Name, err)
	}

	settings := &snapshot.PopulationSettings{
		NumberOfIndividuals: p.Settings.NumberOfIndividuals,
		ProportionOfFemales: p.Settings.ProportionOfFemales,
	}
	if p.Settings.AgeMin != nil || p.Settings.AgeMax != nil {
		settings.Age = &snapshot.Range{
			Min:  copyFloat(p.Settings.AgeMin),
			Max:  copyFloat(p.Settings.AgeMax),
			Unit: domain.Age.BaseUnit,
		}
	}

	return &snapshot.Population{
		Name:               p.Name,
		Description:        p.Description,
		Seed:               p.Seed,
		Individual:         ind,
		Settings:           settings,
		AdvancedParameters: m.advanced.allToSnapshot(p.AdvancedParameters),
	}, nil
}

// MapToModel creates the population and its base individual
func (m PopulationMapper) MapToModel(ctx context.Context, s *snapshot.Population) (*domain.Population, error) {
	if s.Individual == nil {
		return nil, fmt.Errorf("population %s: base individual missing", s.Name)
	}
	ind, err := m.individuals.MapToModel(ctx, s.Individual)
	if err != nil {
		return nil, fmt.Errorf("population %s: %w", s.Name, err)
	}

	var settings domain.PopulationSettings
	if s.Settings != nil {
		settings.NumberOfIndividuals = s.Settings.NumberOfIndividuals
		settings.ProportionOfFemales = s.Settings.ProportionOfFemales
		if r := s.Settings.Age; r != nil {
			if settings.AgeMin, err = ageInYears(r.Min, r.Unit); err != nil {
				return nil, fmt.Errorf("population %s: %w", s.Name, err)
			}
			if settings.AgeMax, err = ageInYears(r.Max, r.Unit); err != nil {
				return nil, fmt.Errorf("population %s: %w", s.Name, err)
			}
		}
	}

	pop := domain.NewPopulation(s.Name, ind, settings)
	pop.Description = s.Description
	pop.Seed = s.Seed
	pop.AdvancedParameters, err = m.advanced.allToModel(s.AdvancedParameters, ind.Root)
	if err != nil {
		return nil, fmt.Errorf("population %s: %w", s.Name, err)
	}
	return pop, nil
}

func ageInYears(v *float64, unit string) (*float64, error) {
	if v == nil {
		return nil, nil
	}
	years, err := domain.Age.ConvertToBase(unit, *v)
	if err != nil {
		return nil, err
	}
	return &years, nil
}

func copyFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
