package domain

// Gender of an individual
type Gender string

const (
	GenderMale    Gender = "Male"
	GenderFemale  Gender = "Female"
	GenderUnknown Gender = "Unknown"
)

// OriginData describes what an individual was created from.
// Age is in years; nil for species without age dependence.
type OriginData struct {
	Species    string
	Population string
	Gender     Gender
	Age        *float64
	AgeUnit    string
}

// Individual is a virtual subject: an organism parameter tree plus the
// molecules expressed in it
type Individual struct {
	BlockInfo
	OriginData         OriginData
	Seed               int64
	CalculationMethods []string
	Molecules          []*Molecule
}

// NewIndividual creates an individual with an empty organism
func NewIndividual(name string, origin OriginData) *Individual {
	ind := &Individual{BlockInfo: newBlockInfo(name), OriginData: origin}
	ind.Root.AddContainer(NewContainer(Organism))
	return ind
}

func (i *Individual) Type() BuildingBlockType { return TypeIndividual }

// Species returns the species name from the origin data
func (i *Individual) Species() string {
	return i.OriginData.Species
}

// Organism returns the organism container
func (i *Individual) Organism() *Container {
	return i.Root.EnsureContainer(Organism)
}

// HasCalculationMethod reports whether the method is selected
func (i *Individual) HasCalculationMethod(name string) bool {
	for _, cm := range i.CalculationMethods {
		if cm == name {
			return true
		}
	}
	return false
}

// AddCalculationMethod selects a method. Returns false if it was already selected.
func (i *Individual) AddCalculationMethod(name string) bool {
	if i.HasCalculationMethod(name) {
		return false
	}
	i.CalculationMethods = append(i.CalculationMethods, name)
	return true
}

// Molecule returns the named molecule, or nil
func (i *Individual) Molecule(name string) *Molecule {
	for _, m := range i.Molecules {
		if m.Name == name {
			return m
		}
	}
	return nil
}

// AddMolecule attaches a molecule under the root, replacing one with the same name
func (i *Individual) AddMolecule(m *Molecule) {
	i.Root.AddContainer(m.Root)
	for idx, existing := range i.Molecules {
		if existing.Name == m.Name {
			i.Molecules[idx] = m
			return
		}
	}
	i.Molecules = append(i.Molecules, m)
}

// Clone deep copies the individual with fresh ids
func (i *Individual) Clone() *Individual {
	c := &Individual{
		BlockInfo:          newBlockInfo(i.Name),
		OriginData:         i.OriginData,
		Seed:               i.Seed,
		CalculationMethods: append([]string(nil), i.CalculationMethods...),
	}
	c.Description = i.Description
	if i.OriginData.Age != nil {
		age := *i.OriginData.Age
		c.OriginData.Age = &age
	}
	c.Root = NewContainer(i.Name)
	for _, child := range i.Root.Containers() {
		if i.isMoleculeRoot(child) {
			continue
		}
		c.Root.AddContainer(child.Clone())
	}
	for _, p := range i.Root.Parameters() {
		c.Root.Add(p.Clone())
	}
	for _, m := range i.Molecules {
		c.AddMolecule(m.Clone())
	}
	return c
}

func (i *Individual) isMoleculeRoot(c *Container) bool {
	for _, m := range i.Molecules {
		if m.Root == c {
			return true
		}
	}
	return false
}

// OwnParameters returns the parameters of the individual outside its molecules
func (i *Individual) OwnParameters() []*Parameter {
	out := append([]*Parameter(nil), i.Root.Parameters()...)
	for _, child := range i.Root.Containers() {
		if i.isMoleculeRoot(child) {
			continue
		}
		out = append(out, child.AllParameters()...)
	}
	return out
}
