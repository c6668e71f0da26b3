package lookup

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a keyed lookup has no match
var ErrNotFound = errors.New("not found")

// Species is a species known to the database
type Species struct {
	Name           string
	DisplayName    string
	IsAgeDependent bool
}

// Population is a predefined population of a species
type Population struct {
	Name           string
	Species        string
	DisplayName    string
	IsAgeDependent bool
}

// ParameterTemplate is the default definition of one parameter of a template
// (a species, "Compound", or an event template). Path is relative to the
// building block root. Value is in the base unit of Dimension.
type ParameterTemplate struct {
	Template                string
	Path                    string
	Value                   float64
	Dimension               string
	DisplayUnit             string
	FormulaKind             string
	RateKey                 string
	Mean                    float64
	Deviation               float64
	DistributionID          int
	Editable                bool
	Visible                 bool
	CanBeVaried             bool
	CanBeVariedInPopulation bool
}

// Ontogeny is a predefined ontogeny of a molecule for a species
type Ontogeny struct {
	Name        string
	Species     string
	DisplayName string
	Description string
}

// Ontogenies is the result of OntogenyRepository.AllFor
type Ontogenies []Ontogeny

// FindByName returns the ontogeny with the given name
func (o Ontogenies) FindByName(name string) (Ontogeny, bool) {
	for _, ont := range o {
		if ont.Name == name {
			return ont, true
		}
	}
	return Ontogeny{}, false
}

// ParameterDistribution is the age and gender dependent distribution of a
// parameter in a population
type ParameterDistribution struct {
	Population     string
	Gender         string
	ParameterPath  string
	Age            float64
	Mean           float64
	Deviation      float64
	DistributionID int
	Min            *float64
	Max            *float64
}

// SpeciesRepository looks up species
type SpeciesRepository interface {
	FindByName(ctx context.Context, name string) (*Species, error)
	All(ctx context.Context) ([]Species, error)
}

// PopulationRepository looks up populations
type PopulationRepository interface {
	FindByName(ctx context.Context, name string) (*Population, error)
	AllFor(ctx context.Context, species string) ([]Population, error)
}

// OntogenyRepository lists the predefined ontogenies of a species
type OntogenyRepository interface {
	AllFor(ctx context.Context, species string) (Ontogenies, error)
}

// DistributionRepository lists the parameter distributions of a population
type DistributionRepository interface {
	AllFor(ctx context.Context, population string) ([]ParameterDistribution, error)
}

// FormulaRepository resolves rate keys to formula text
type FormulaRepository interface {
	FormulaFor(ctx context.Context, rateKey string) (string, error)
}

// TemplateRepository lists the default parameters of a template
type TemplateRepository interface {
	AllFor(ctx context.Context, template string) ([]ParameterTemplate, error)
}

// Database groups the read-only repositories
type Database interface {
	Species() SpeciesRepository
	Populations() PopulationRepository
	Ontogenies() OntogenyRepository
	Distributions() DistributionRepository
	Formulas() FormulaRepository
	Templates() TemplateRepository
	Close() error
}
