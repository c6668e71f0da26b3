package snapshot

import (
	"fmt"

	"pksnap/internal/domain"
)

// BuildingBlockNotFoundError reports a swap target missing from the
// reference snapshot or from the project being modified
type BuildingBlockNotFoundError struct {
	Kind        domain.BuildingBlockType
	Name        string
	InReference bool
}

func (e *BuildingBlockNotFoundError) Error() string {
	where := "project"
	if e.InReference {
		where = "reference snapshot"
	}
	return fmt.Sprintf("%s %q not found in %s", e.Kind, e.Name, where)
}

type named interface {
	snapshotName() string
}

func (i *Individual) snapshotName() string { return i.Name }
func (c *Compound) snapshotName() string   { return c.Name }
func (e *Event) snapshotName() string      { return e.Name }
func (p *Population) snapshotName() string { return p.Name }
func (s *Simulation) snapshotName() string { return s.Name }

// Swap replaces the building block of the given kind and name with the
// same-named one from reference. The collection keeps its order and size.
func (p *Project) Swap(kind domain.BuildingBlockType, name string, reference *Project) error {
	switch kind {
	case domain.TypeIndividual:
		return swap(kind, name, &p.Individuals, reference.Individuals)
	case domain.TypeCompound:
		return swap(kind, name, &p.Compounds, reference.Compounds)
	case domain.TypeEvent:
		return swap(kind, name, &p.Events, reference.Events)
	case domain.TypePopulation:
		return swap(kind, name, &p.Populations, reference.Populations)
	case domain.TypeSimulation:
		return swap(kind, name, &p.Simulations, reference.Simulations)
	}
	return fmt.Errorf("cannot swap building blocks of type %s", kind)
}

func swap[T named](kind domain.BuildingBlockType, name string, target *[]T, source []T) error {
	replacement, ok := find(source, name)
	if !ok {
		return &BuildingBlockNotFoundError{Kind: kind, Name: name, InReference: true}
	}
	for i, existing := range *target {
		if existing.snapshotName() == name {
			(*target)[i] = replacement
			return nil
		}
	}
	return &BuildingBlockNotFoundError{Kind: kind, Name: name}
}

func find[T named](items []T, name string) (T, bool) {
	for _, item := range items {
		if item.snapshotName() == name {
			return item, true
		}
	}
	var zero T
	return zero, false
}

// Individual returns the named individual snapshot
func (p *Project) Individual(name string) (*Individual, bool) { return find(p.Individuals, name) }

// Compound returns the named compound snapshot
func (p *Project) Compound(name string) (*Compound, bool) { return find(p.Compounds, name) }

// Event returns the named event snapshot
func (p *Project) Event(name string) (*Event, bool) { return find(p.Events, name) }

// Population returns the named population snapshot
func (p *Project) Population(name string) (*Population, bool) { return find(p.Populations, name) }

// Simulation returns the named simulation snapshot
func (p *Project) Simulation(name string) (*Simulation, bool) { return find(p.Simulations, name) }
