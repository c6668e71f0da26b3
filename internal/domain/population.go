package domain

// PopulationSettings drive the creation of a random population.
// ProportionOfFemales is a percentage.
type PopulationSettings struct {
	NumberOfIndividuals int
	ProportionOfFemales float64
	AgeMin              *float64
	AgeMax              *float64
}

// AdvancedParameter varies one parameter across the individuals of a population
type AdvancedParameter struct {
	ParameterPath string
	Seed          int64
	Distribution  DistributionKind
	Mean          float64
	Deviation     float64
}

// Population is a set of individuals generated from a base individual
type Population struct {
	BlockInfo
	FirstIndividual    *Individual
	Settings           PopulationSettings
	Seed               int64
	AdvancedParameters []*AdvancedParameter
}

// NewPopulation creates a population around a base individual
func NewPopulation(name string, base *Individual, settings PopulationSettings) *Population {
	return &Population{BlockInfo: newBlockInfo(name), FirstIndividual: base, Settings: settings}
}

func (p *Population) Type() BuildingBlockType { return TypePopulation }

// Species returns the species of the base individual
func (p *Population) Species() string {
	if p.FirstIndividual == nil {
		return ""
	}
	return p.FirstIndividual.Species()
}

// AdvancedParameter returns the advanced parameter at path, or nil
func (p *Population) AdvancedParameter(path string) *AdvancedParameter {
	for _, ap := range p.AdvancedParameters {
		if ap.ParameterPath == path {
			return ap
		}
	}
	return nil
}

// AddAdvancedParameter replaces any advanced parameter with the same path
func (p *Population) AddAdvancedParameter(ap *AdvancedParameter) {
	for i, existing := range p.AdvancedParameters {
		if existing.ParameterPath == ap.ParameterPath {
			p.AdvancedParameters[i] = ap
			return
		}
	}
	p.AdvancedParameters = append(p.AdvancedParameters, ap)
}
