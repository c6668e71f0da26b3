package domain

import (
	"fmt"

	"github.com/google/uuid"
)

// MoleculeType is the quantity type of an expressed molecule
type MoleculeType string

const (
	MoleculeProtein      MoleculeType = "Protein"
	MoleculeEnzyme       MoleculeType = "Enzyme"
	MoleculeTransporter  MoleculeType = "Transporter"
	MoleculeOtherProtein MoleculeType = "OtherProtein"
)

// ParseMoleculeType validates a molecule type name
func ParseMoleculeType(s string) (MoleculeType, error) {
	switch t := MoleculeType(s); t {
	case MoleculeProtein, MoleculeEnzyme, MoleculeTransporter, MoleculeOtherProtein:
		return t, nil
	}
	return "", fmt.Errorf("unknown molecule type %q", s)
}

// IsTransporter reports whether transport settings apply
func (t MoleculeType) IsTransporter() bool {
	return t == MoleculeTransporter
}

// Molecule is a protein expressed in an individual. Location fields apply to
// non-transporters and TransportType to transporters; empty means not set.
type Molecule struct {
	ID                                string
	Name                              string
	Description                       string
	Type                              MoleculeType
	Root                              *Container
	Ontogeny                          Ontogeny
	MembraneLocation                  string
	TissueLocation                    string
	IntracellularVascularEndoLocation string
	TransportType                     string
}

// NewMolecule creates a molecule with reference concentration and no ontogeny
func NewMolecule(name string, t MoleculeType) *Molecule {
	m := &Molecule{
		ID:       uuid.NewString(),
		Name:     name,
		Type:     t,
		Root:     NewContainer(name),
		Ontogeny: NullOntogeny{},
	}
	m.Root.Add(NewConstantParameter(ParamReferenceConcentration, 1, Concentration))
	return m
}

// Clone deep copies the molecule with fresh ids
func (m *Molecule) Clone() *Molecule {
	c := *m
	c.ID = uuid.NewString()
	c.Root = m.Root.Clone()
	if m.Ontogeny != nil {
		c.Ontogeny = m.Ontogeny.clone()
	}
	return &c
}

// Ontogeny describes how a molecule's expression changes with age
type Ontogeny interface {
	OntogenyName() string
	IsUndefined() bool
	clone() Ontogeny
}

// NullOntogeny means no ontogeny is applied
type NullOntogeny struct{}

func (NullOntogeny) OntogenyName() string { return "Undefined" }
func (NullOntogeny) IsUndefined() bool    { return true }
func (o NullOntogeny) clone() Ontogeny    { return o }

// DatabaseOntogeny is a predefined ontogeny from the lookup database
type DatabaseOntogeny struct {
	Name        string
	Description string
	SpeciesName string
}

func (o *DatabaseOntogeny) OntogenyName() string { return o.Name }
func (o *DatabaseOntogeny) IsUndefined() bool    { return false }
func (o *DatabaseOntogeny) clone() Ontogeny      { c := *o; return &c }

// UserDefinedOntogeny carries its own age/factor table
type UserDefinedOntogeny struct {
	Name        string
	Description string
	SpeciesName string
	Table       *DistributedTableFormula
}

func (o *UserDefinedOntogeny) OntogenyName() string { return o.Name }
func (o *UserDefinedOntogeny) IsUndefined() bool    { return false }
func (o *UserDefinedOntogeny) clone() Ontogeny {
	c := *o
	if o.Table != nil {
		c.Table = o.Table.Clone().(*DistributedTableFormula)
	}
	return &c
}
