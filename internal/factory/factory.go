package factory

import (
	"context"
	"fmt"
	"math"

	"pksnap/internal/domain"
	"pksnap/internal/lookup"
)

// CompoundTemplate is the template name of default compound parameters
const CompoundTemplate = "Compound"

// Factory creates building blocks with the default parameters of the lookup database
type Factory struct {
	db lookup.Database
}

// New creates a factory over a lookup database
func New(db lookup.Database) *Factory {
	return &Factory{db: db}
}

// Database returns the lookup database the factory reads from
func (f *Factory) Database() lookup.Database {
	return f.db
}

// CreateIndividual builds an individual for the origin data. A population
// narrows distributed parameters to its gender and age specific distribution.
func (f *Factory) CreateIndividual(ctx context.Context, name string, origin domain.OriginData) (*domain.Individual, error) {
	species, err := f.db.Species().FindByName(ctx, origin.Species)
	if err != nil {
		return nil, fmt.Errorf("failed to create individual %s: %w", name, err)
	}
	if origin.Population != "" {
		pop, err := f.db.Populations().FindByName(ctx, origin.Population)
		if err != nil {
			return nil, fmt.Errorf("failed to create individual %s: %w", name, err)
		}
		if pop.Species != species.Name {
			return nil, fmt.Errorf("population %s is not a %s population", pop.Name, species.Name)
		}
	}
	if origin.Gender == "" {
		origin.Gender = domain.GenderUnknown
	}

	ind := domain.NewIndividual(name, origin)
	if err := f.addTemplateParameters(ctx, ind.Root, species.Name); err != nil {
		return nil, fmt.Errorf("failed to create individual %s: %w", name, err)
	}

	if origin.Age != nil {
		if age := ind.Root.ParameterAt(domain.Organism + domain.PathSeparator + domain.ParamAge); age != nil {
			v := *origin.Age
			age.SetFormula(&domain.ConstantFormula{Value: v})
			age.DefaultValue = &v
		}
	}

	if origin.Population != "" {
		if err := f.applyPopulationDistributions(ctx, ind, species.IsAgeDependent); err != nil {
			return nil, fmt.Errorf("failed to create individual %s: %w", name, err)
		}
	}

	ind.AddCalculationMethod(domain.RenalAgingMethod(species.Name))
	return ind, nil
}

// DefaultIndividualFor builds the reference individual of a species: first
// population, male, default age
func (f *Factory) DefaultIndividualFor(ctx context.Context, species string) (*domain.Individual, error) {
	pops, err := f.db.Populations().AllFor(ctx, species)
	if err != nil {
		return nil, fmt.Errorf("failed to list populations for %s: %w", species, err)
	}
	origin := domain.OriginData{Species: species, Gender: domain.GenderMale}
	if len(pops) > 0 {
		origin.Population = pops[0].Name
	}
	return f.CreateIndividual(ctx, species, origin)
}

// CreateCompound builds a compound with default physico-chemical parameters
func (f *Factory) CreateCompound(ctx context.Context, name string) (*domain.Compound, error) {
	c := domain.NewCompound(name)
	if err := f.addTemplateParameters(ctx, c.Root, CompoundTemplate); err != nil {
		return nil, fmt.Errorf("failed to create compound %s: %w", name, err)
	}
	return c, nil
}

// CreateEvent builds an event from a template. A template without
// parameters is unknown and wraps lookup.ErrNotFound.
func (f *Factory) CreateEvent(ctx context.Context, name, template string) (*domain.Event, error) {
	rows, err := f.db.Templates().AllFor(ctx, template)
	if err != nil {
		return nil, fmt.Errorf("failed to create event %s: %w", name, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("event template %q: %w", template, lookup.ErrNotFound)
	}
	e := domain.NewEvent(name, template)
	if err := f.addParameters(ctx, e.Root, rows); err != nil {
		return nil, fmt.Errorf("failed to create event %s: %w", name, err)
	}
	return e, nil
}

// CreatePopulation builds a population around a new base individual
func (f *Factory) CreatePopulation(ctx context.Context, name string, origin domain.OriginData, settings domain.PopulationSettings) (*domain.Population, error) {
	if origin.Population == "" {
		return nil, fmt.Errorf("population %s needs a source population", name)
	}
	base, err := f.CreateIndividual(ctx, name, origin)
	if err != nil {
		return nil, err
	}
	return domain.NewPopulation(name, base, settings), nil
}

// CreateMolecule builds a molecule with relative expression in every organ of
// the individual's organism
func (f *Factory) CreateMolecule(ind *domain.Individual, name string, t domain.MoleculeType) *domain.Molecule {
	m := domain.NewMolecule(name, t)
	for _, organ := range ind.Organism().Containers() {
		if organ.Name == domain.Lumen {
			continue
		}
		m.Root.EnsureContainer(organ.Name).Add(domain.NewConstantParameter(domain.ParamRelativeExpression, 0, domain.Dimensionless))
	}
	if !t.IsTransporter() {
		m.MembraneLocation = "Basolateral"
		m.TissueLocation = "Intracellular"
		m.IntracellularVascularEndoLocation = "Interstitial"
	} else {
		m.TransportType = "Efflux"
	}
	return m
}

// CreateSimulation builds a simulation for an individual or a population
func (f *Factory) CreateSimulation(name string, subject domain.BuildingBlock, compounds []*domain.Compound, events []*domain.Event) (*domain.Simulation, error) {
	var sim *domain.Simulation
	switch s := subject.(type) {
	case *domain.Individual:
		sim = domain.NewSimulation(name, s, compounds)
	case *domain.Population:
		sim = domain.NewPopulationSimulation(name, s, compounds)
	default:
		return nil, fmt.Errorf("a %s cannot be simulated", subject.Type())
	}
	for _, e := range events {
		sim.EventProperties.AddEventMappings(domain.NewEventMapping(e))
	}
	return sim, nil
}

func (f *Factory) addTemplateParameters(ctx context.Context, root *domain.Container, template string) error {
	rows, err := f.db.Templates().AllFor(ctx, template)
	if err != nil {
		return err
	}
	return f.addParameters(ctx, root, rows)
}

func (f *Factory) addParameters(ctx context.Context, root *domain.Container, rows []lookup.ParameterTemplate) error {
	for _, row := range rows {
		p, err := f.ParameterFrom(ctx, row)
		if err != nil {
			return err
		}
		names := domain.SplitPath(row.Path)
		root.EnsureContainer(names[:len(names)-1]...).Add(p)
	}
	return nil
}

// ParameterFrom builds the parameter described by a template row
func (f *Factory) ParameterFrom(ctx context.Context, row lookup.ParameterTemplate) (*domain.Parameter, error) {
	dim, err := domain.DimensionByName(row.Dimension)
	if err != nil {
		return nil, fmt.Errorf("parameter %s: %w", row.Path, err)
	}

	var formula domain.Formula
	switch domain.FormulaKind(row.FormulaKind) {
	case domain.FormulaConstant, "":
		formula = &domain.ConstantFormula{Value: row.Value}
	case domain.FormulaExplicit:
		text, err := f.db.Formulas().FormulaFor(ctx, row.RateKey)
		if err != nil {
			return nil, fmt.Errorf("parameter %s: %w", row.Path, err)
		}
		formula = &domain.ExplicitFormula{Name: row.RateKey, Expression: text}
	case domain.FormulaDistributed:
		kind, err := domain.DistributionByID(row.DistributionID)
		if err != nil {
			return nil, fmt.Errorf("parameter %s: %w", row.Path, err)
		}
		formula = domain.NewDistributedFormula(kind, row.Mean, row.Deviation)
	default:
		return nil, fmt.Errorf("parameter %s: unsupported formula kind %q", row.Path, row.FormulaKind)
	}

	names := domain.SplitPath(row.Path)
	p := domain.NewParameter(names[len(names)-1], dim, formula)
	if err := p.SetDisplayUnit(row.DisplayUnit); err != nil {
		return nil, fmt.Errorf("parameter %s: %w", row.Path, err)
	}
	if formula.Kind() != domain.FormulaExplicit {
		v := row.Value
		p.DefaultValue = &v
	}
	p.Editable = row.Editable
	p.Visible = row.Visible
	p.CanBeVaried = row.CanBeVaried
	p.CanBeVariedInPopulation = row.CanBeVariedInPopulation
	return p, nil
}

func (f *Factory) applyPopulationDistributions(ctx context.Context, ind *domain.Individual, ageDependent bool) error {
	rows, err := f.db.Distributions().AllFor(ctx, ind.OriginData.Population)
	if err != nil {
		return err
	}

	age := 0.0
	if ageDependent {
		age = 30
		if ind.OriginData.Age != nil {
			age = *ind.OriginData.Age
		}
	}

	for path, row := range nearestDistributions(rows, ind.OriginData.Gender, age) {
		p := ind.Root.ParameterAt(path)
		if p == nil {
			continue
		}
		if _, ok := p.Formula().(*domain.DistributedFormula); !ok {
			continue
		}
		kind, err := domain.DistributionByID(row.DistributionID)
		if err != nil {
			return fmt.Errorf("distribution of %s: %w", path, err)
		}
		p.SetFormula(domain.NewDistributedFormula(kind, row.Mean, row.Deviation))
		median := p.Value()
		p.DefaultValue = &median
	}
	return nil
}

// nearestDistributions picks, per parameter path, the row of the requested
// gender closest in age. Rows of other genders are used when the gender has none.
func nearestDistributions(rows []lookup.ParameterDistribution, gender domain.Gender, age float64) map[string]lookup.ParameterDistribution {
	best := map[string]lookup.ParameterDistribution{}
	score := func(r lookup.ParameterDistribution) float64 {
		s := math.Abs(r.Age - age)
		if r.Gender != string(gender) {
			s += 1e6
		}
		return s
	}
	for _, r := range rows {
		cur, ok := best[r.ParameterPath]
		if !ok || score(r) < score(cur) {
			best[r.ParameterPath] = r
		}
	}
	return best
}
