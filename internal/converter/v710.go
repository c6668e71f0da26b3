package converter

import (
	"context"
	"fmt"

	"pksnap/internal/domain"
	"pksnap/internal/markup"
)

// converter522To710 replaces distribution names by their stable ids
type converter522To710 struct{}

func (converter522To710) IsSatisfiedBy(version int) bool {
	return version >= V5_2_2 && version < V7_1_0
}

func (converter522To710) Convert(_ context.Context, _ *domain.Project, _ int) (int, error) {
	return V7_1_0, nil
}

func (converter522To710) ConvertMarkup(_ context.Context, root *markup.Element, _ int) (int, error) {
	var err error
	root.Walk(func(e *markup.Element) {
		name, ok := e.LookupAttr("distribution")
		if !ok || err != nil {
			return
		}
		kind, lookupErr := domain.DistributionByName(name)
		if lookupErr != nil {
			err = fmt.Errorf("<%s>: %w", e.Name(), lookupErr)
			return
		}
		e.RemoveAttr("distribution")
		e.SetAttr("distributionId", fmt.Sprint(kind.ID))
	})
	if err != nil {
		return V5_2_2, err
	}
	return V7_1_0, nil
}

// converter710To720 makes the body surface area variable per individual but
// not across a population
type converter710To720 struct{}

func (converter710To720) IsSatisfiedBy(version int) bool {
	return version >= V7_1_0 && version < V7_2_0
}

func (converter710To720) ConvertMarkup(_ context.Context, _ *markup.Element, _ int) (int, error) {
	return V7_2_0, nil
}

func (converter710To720) Convert(ctx context.Context, p *domain.Project, _ int) (int, error) {
	bsaPath := domain.Organism + domain.PathSeparator + domain.ParamBSA
	fix := func(c *domain.Container) {
		if bsa := c.ParameterAt(bsaPath); bsa != nil {
			bsa.CanBeVaried = true
			bsa.CanBeVariedInPopulation = false
		}
	}

	err := Visitors{
		Individual: func(_ context.Context, ind *domain.Individual) error {
			fix(ind.Root)
			return nil
		},
		Population: func(_ context.Context, pop *domain.Population) error {
			if pop.FirstIndividual != nil {
				fix(pop.FirstIndividual.Root)
			}
			return nil
		},
		Simulation: func(_ context.Context, sim *domain.Simulation) error {
			if sim.Individual != nil {
				fix(sim.Individual.Root)
			}
			fix(sim.Model())
			return nil
		},
	}.Visit(ctx, p)
	if err != nil {
		return V7_1_0, err
	}
	return V7_2_0, nil
}
