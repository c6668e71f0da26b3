package mapper

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"pksnap/internal/ctxlog"
	"pksnap/internal/domain"
	"pksnap/internal/factory"
	"pksnap/internal/metrics"
	"pksnap/internal/snapshot"
)

// ProjectMapper composes the building block mappers
type ProjectMapper struct {
	individuals IndividualMapper
	compounds   CompoundMapper
	events      EventMapper
	populations PopulationMapper
	simulations SimulationMapper
	metrics     *metrics.Metrics
}

// NewProjectMapper wires the mappers over a factory. m may be nil.
func NewProjectMapper(f *factory.Factory, m *metrics.Metrics) *ProjectMapper {
	tables := TableFormulaMapper{}
	parameters := ParameterMapper{tables: tables}
	ontogenies := OntogenyMapper{
		tables:     DistributedTableFormulaMapper{tables: tables},
		ontogenies: f.Database().Ontogenies(),
	}
	individuals := IndividualMapper{
		parameters: parameters,
		molecules:  MoleculeMapper{parameters: parameters, ontogenies: ontogenies, factory: f},
		factory:    f,
	}
	return &ProjectMapper{
		individuals: individuals,
		compounds:   CompoundMapper{parameters: parameters, factory: f},
		events:      EventMapper{parameters: parameters, factory: f},
		populations: PopulationMapper{individuals: individuals},
		simulations: SimulationMapper{
			parameters: parameters,
			events:     EventPropertiesMapper{parameters: parameters},
			factory:    f,
		},
		metrics: m,
	}
}

// MapToSnapshot converts a project at the current snapshot version
func (m *ProjectMapper) MapToSnapshot(ctx context.Context, p *domain.Project) (*snapshot.Project, error) {
	s := &snapshot.Project{
		Version:     snapshot.CurrentVersion,
		Name:        p.Name,
		Description: p.Description,
	}

	var g errgroup.Group
	g.Go(func() (err error) {
		s.Individuals, err = toSnapshot(m, domain.All[*domain.Individual](p), domain.TypeIndividual, func(ind *domain.Individual) (*snapshot.Individual, error) {
			return m.individuals.MapToSnapshot(ctx, ind)
		})
		return err
	})
	g.Go(func() (err error) {
		s.Compounds, err = toSnapshot(m, domain.All[*domain.Compound](p), domain.TypeCompound, func(c *domain.Compound) (*snapshot.Compound, error) {
			return m.compounds.MapToSnapshot(ctx, c)
		})
		return err
	})
	g.Go(func() (err error) {
		s.Events, err = toSnapshot(m, domain.All[*domain.Event](p), domain.TypeEvent, func(e *domain.Event) (*snapshot.Event, error) {
			return m.events.MapToSnapshot(ctx, e)
		})
		return err
	})
	g.Go(func() (err error) {
		s.Populations, err = toSnapshot(m, domain.All[*domain.Population](p), domain.TypePopulation, func(pop *domain.Population) (*snapshot.Population, error) {
			return m.populations.MapToSnapshot(ctx, pop)
		})
		return err
	})
	g.Go(func() (err error) {
		s.Simulations, err = toSnapshot(m, domain.All[*domain.Simulation](p), domain.TypeSimulation, func(sim *domain.Simulation) (*snapshot.Simulation, error) {
			return m.simulations.MapToSnapshot(ctx, sim, p)
		})
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to map project %s to snapshot: %w", p.Name, err)
	}

	ctxlog.FromContext(ctx).Debug("project mapped to snapshot",
		"project", p.Name,
		"individuals", len(s.Individuals),
		"compounds", len(s.Compounds),
		"events", len(s.Events),
		"populations", len(s.Populations),
		"simulations", len(s.Simulations))
	return s, nil
}

// MapToModel builds a project from a snapshot. Individuals, compounds and
// events come first, then populations, then the simulations referencing them.
func (m *ProjectMapper) MapToModel(ctx context.Context, s *snapshot.Project) (*domain.Project, error) {
	log := ctxlog.FromContext(ctx)
	p := domain.NewProject(s.Name)
	p.Description = s.Description

	var (
		individuals []*domain.Individual
		compounds   []*domain.Compound
		events      []*domain.Event
	)
	var g errgroup.Group
	g.Go(func() (err error) {
		individuals, err = toModel(m, s.Individuals, domain.TypeIndividual, func(si *snapshot.Individual) (*domain.Individual, error) {
			return m.individuals.MapToModel(ctx, si)
		})
		return err
	})
	g.Go(func() (err error) {
		compounds, err = toModel(m, s.Compounds, domain.TypeCompound, func(sc *snapshot.Compound) (*domain.Compound, error) {
			return m.compounds.MapToModel(ctx, sc)
		})
		return err
	})
	g.Go(func() (err error) {
		events, err = toModel(m, s.Events, domain.TypeEvent, func(se *snapshot.Event) (*domain.Event, error) {
			return m.events.MapToModel(ctx, se)
		})
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load project %s: %w", s.Name, err)
	}
	if err := addAll(p, individuals); err != nil {
		return nil, err
	}
	if err := addAll(p, compounds); err != nil {
		return nil, err
	}
	if err := addAll(p, events); err != nil {
		return nil, err
	}

	populations, err := toModel(m, s.Populations, domain.TypePopulation, func(sp *snapshot.Population) (*domain.Population, error) {
		return m.populations.MapToModel(ctx, sp)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load project %s: %w", s.Name, err)
	}
	if err := addAll(p, populations); err != nil {
		return nil, err
	}

	simulations, err := toModel(m, s.Simulations, domain.TypeSimulation, func(ss *snapshot.Simulation) (*domain.Simulation, error) {
		return m.simulations.MapToModel(ctx, ss, p)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load project %s: %w", s.Name, err)
	}
	if err := addAll(p, simulations); err != nil {
		return nil, err
	}

	log.Debug("project loaded from snapshot", "project", p.Name, "building_blocks", len(p.BuildingBlocks()))
	return p, nil
}

func toSnapshot[T, S any](m *ProjectMapper, items []T, kind domain.BuildingBlockType, fn func(T) (S, error)) ([]S, error) {
	out, err := mapAll(items, fn)
	if err == nil {
		for range out {
			m.metrics.ObserveMapping(string(kind), metrics.ToSnapshot)
		}
	}
	return out, err
}

func toModel[S any, T domain.BuildingBlock](m *ProjectMapper, items []S, kind domain.BuildingBlockType, fn func(S) (T, error)) ([]T, error) {
	out, err := mapAll(items, fn)
	if err == nil {
		for range out {
			m.metrics.ObserveMapping(string(kind), metrics.ToModel)
		}
	}
	return out, err
}

func addAll[T domain.BuildingBlock](p *domain.Project, blocks []T) error {
	for _, bb := range blocks {
		if err := p.Add(bb); err != nil {
			return fmt.Errorf("failed to add %s %s: %w", bb.Type(), bb.Info().Name, err)
		}
	}
	return nil
}
