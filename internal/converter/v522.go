package converter

import (
	"context"
	"fmt"
	"strings"

	"pksnap/internal/domain"
	"pksnap/internal/markup"
)

const legacyFractionUnbound = "Fraction unbound (plasma)"

var (
	stomachPath        = []string{domain.Organism, domain.Lumen, domain.Stomach}
	largeIntestinePath = []string{domain.Organism, domain.LargeIntestine}
)

// converter521To522 adds the gastric emptying variability factors and the
// large intestinal transit time factor, selects the renal aging calculation
// method and renames the compound fraction unbound parameter
type converter521To522 struct {
	defaults DefaultIndividualRetriever
}

func (c *converter521To522) IsSatisfiedBy(version int) bool {
	return version == V5_2_1
}

func (c *converter521To522) ConvertMarkup(_ context.Context, _ *markup.Element, _ int) (int, error) {
	return V5_2_2, nil
}

func (c *converter521To522) Convert(ctx context.Context, p *domain.Project, _ int) (int, error) {
	cache := newDefaultIndividuals(c.defaults)
	run := &run521{cache: cache, project: p}

	err := Visitors{
		Individual: run.individual,
		Population: func(ctx context.Context, pop *domain.Population) error {
			if pop.FirstIndividual == nil {
				return nil
			}
			return run.individual(ctx, pop.FirstIndividual)
		},
		Compound: func(_ context.Context, cmp *domain.Compound) error {
			renameParameter(cmp.Root, legacyFractionUnbound, domain.ParamFractionUnbound)
			return nil
		},
		Simulation: run.simulation,
	}.Visit(ctx, p)
	if err != nil {
		return V5_2_1, err
	}
	return V5_2_2, nil
}

type run521 struct {
	cache   *defaultIndividuals
	project *domain.Project
}

func (r *run521) individual(ctx context.Context, ind *domain.Individual) error {
	def, err := r.cache.get(ctx, ind.Species())
	if err != nil {
		return fmt.Errorf("individual %s: %w", ind.Name, err)
	}
	for _, added := range individualParameters {
		addMissing(ind.Root, def.Root, added.path, added.name)
	}
	ind.AddCalculationMethod(domain.RenalAgingMethod(ind.Species()))
	return nil
}

// simulation converts the simulation's own individual, then adds the new
// individual parameters to the model and links them to the parameters just
// added to that individual
func (r *run521) simulation(ctx context.Context, sim *domain.Simulation) error {
	if sim.Individual != nil {
		if err := r.individual(ctx, sim.Individual); err != nil {
			return fmt.Errorf("simulation %s: %w", sim.Name, err)
		}
		for _, added := range individualParameters {
			addMissing(sim.Model(), sim.Individual.Root, added.path, added.name)
			linkToIndividual(sim, added.path, added.name)
		}
	}

	for _, id := range sim.CompoundTemplateIDs {
		if c, ok := domain.ByID[*domain.Compound](r.project, id); ok {
			if model := sim.Model().Container(c.Name); model != nil {
				renameParameter(model, legacyFractionUnbound, domain.ParamFractionUnbound)
			}
		}
	}
	return nil
}

// individualParameters are the parameters this step adds to individuals
var individualParameters = []struct {
	path []string
	name string
}{
	{stomachPath, domain.ParamGETAlphaVariability},
	{stomachPath, domain.ParamGETBetaVariability},
	{largeIntestinePath, domain.ParamLITTFactor},
}

func linkToIndividual(sim *domain.Simulation, path []string, name string) {
	modelParam := sim.Model().ParameterAt(pathOf(path, name))
	source := sim.Individual.Root.ParameterAt(pathOf(path, name))
	if modelParam == nil || source == nil {
		return
	}
	sim.LinkParameter(modelParam, sim.Individual.ID, source)
}

// addMissing clones the parameter at path from source into target when
// target does not have it yet
func addMissing(target, source *domain.Container, path []string, name string) {
	if target.ParameterAt(pathOf(path, name)) != nil {
		return
	}
	src := source.ParameterAt(pathOf(path, name))
	if src == nil {
		return
	}
	target.EnsureContainer(path...).Add(src.Clone())
}

// renameParameter is a no-op when the old parameter does not exist
func renameParameter(c *domain.Container, from, to string) {
	p := c.Parameter(from)
	if p == nil || c.Parameter(to) != nil {
		return
	}
	c.RemoveParameter(from)
	p.Name = to
	c.Add(p)
}

func pathOf(containers []string, name string) string {
	return strings.Join(append(append([]string(nil), containers...), name), domain.PathSeparator)
}
