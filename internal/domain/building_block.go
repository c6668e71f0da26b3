package domain

import (
	"fmt"

	"github.com/google/uuid"
)

// BuildingBlockType is the kind tag of a building block
type BuildingBlockType string

const (
	TypeIndividual BuildingBlockType = "Individual"
	TypeCompound   BuildingBlockType = "Compound"
	TypePopulation BuildingBlockType = "Population"
	TypeEvent      BuildingBlockType = "Event"
	TypeSimulation BuildingBlockType = "Simulation"
)

// BuildingBlockTypes lists the kinds in snapshot order
var BuildingBlockTypes = []BuildingBlockType{
	TypeIndividual, TypeCompound, TypeEvent, TypePopulation, TypeSimulation,
}

// ParseBuildingBlockType validates a kind name
func ParseBuildingBlockType(s string) (BuildingBlockType, error) {
	for _, t := range BuildingBlockTypes {
		if string(t) == s {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown building block type %q", s)
}

// BuildingBlock is a top-level project entity
type BuildingBlock interface {
	Info() *BlockInfo
	Type() BuildingBlockType
}

// BlockInfo carries the identity and parameter tree shared by all building blocks
type BlockInfo struct {
	ID          string
	Name        string
	Description string
	Root        *Container
}

func newBlockInfo(name string) BlockInfo {
	return BlockInfo{ID: uuid.NewString(), Name: name, Root: NewContainer(name)}
}

// Info returns the block identity
func (b *BlockInfo) Info() *BlockInfo {
	return b
}

// Parameter returns the named parameter directly under the root
func (b *BlockInfo) Parameter(name string) *Parameter {
	return b.Root.Parameter(name)
}

// Rename changes the block name and its root container name
func (b *BlockInfo) Rename(name string) {
	b.Name = name
	b.Root.Name = name
}
