package domain

// Compound is a drug with its physico-chemical parameters
type Compound struct {
	BlockInfo
	IsSmallMolecule bool
}

// NewCompound creates an empty small molecule compound
func NewCompound(name string) *Compound {
	return &Compound{BlockInfo: newBlockInfo(name), IsSmallMolecule: true}
}

func (c *Compound) Type() BuildingBlockType { return TypeCompound }
