package domain

import (
	"errors"
	"fmt"
	"sync"
)

// ErrDuplicateBuildingBlock is returned when a block id, or a name within its kind, is already taken
var ErrDuplicateBuildingBlock = errors.New("duplicate building block")

// Project owns all building blocks. Safe for concurrent use.
type Project struct {
	Name        string
	Description string

	mu     sync.RWMutex
	blocks []BuildingBlock
}

// NewProject creates an empty project
func NewProject(name string) *Project {
	return &Project{Name: name}
}

// Add registers a building block
func (p *Project) Add(bb BuildingBlock) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	info := bb.Info()
	for _, existing := range p.blocks {
		ex := existing.Info()
		if ex.ID == info.ID {
			return fmt.Errorf("%w: id %s", ErrDuplicateBuildingBlock, info.ID)
		}
		if existing.Type() == bb.Type() && ex.Name == info.Name {
			return fmt.Errorf("%w: %s %q", ErrDuplicateBuildingBlock, bb.Type(), info.Name)
		}
	}
	p.blocks = append(p.blocks, bb)
	return nil
}

// Remove drops a building block. Returns false if it was not part of the project.
func (p *Project) Remove(bb BuildingBlock) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	for i, existing := range p.blocks {
		if existing == bb {
			p.blocks = append(p.blocks[:i], p.blocks[i+1:]...)
			return true
		}
	}
	return false
}

// BuildingBlocks returns all blocks in insertion order
func (p *Project) BuildingBlocks() []BuildingBlock {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return append([]BuildingBlock(nil), p.blocks...)
}

// BuildingBlockByID finds a block by id
func (p *Project) BuildingBlockByID(id string) (BuildingBlock, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	for _, bb := range p.blocks {
		if bb.Info().ID == id {
			return bb, true
		}
	}
	return nil, false
}

// BuildingBlockByName finds a block by kind and name
func (p *Project) BuildingBlockByName(t BuildingBlockType, name string) (BuildingBlock, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	for _, bb := range p.blocks {
		if bb.Type() == t && bb.Info().Name == name {
			return bb, true
		}
	}
	return nil, false
}

// ByName finds a block of type T by name
func ByName[T BuildingBlock](p *Project, name string) (T, bool) {
	for _, bb := range All[T](p) {
		if bb.Info().Name == name {
			return bb, true
		}
	}
	var zero T
	return zero, false
}

// ByID finds a block of type T by id
func ByID[T BuildingBlock](p *Project, id string) (T, bool) {
	bb, ok := p.BuildingBlockByID(id)
	if !ok {
		var zero T
		return zero, false
	}
	typed, ok := bb.(T)
	return typed, ok
}

// All returns the blocks of type T in insertion order
func All[T BuildingBlock](p *Project) []T {
	var out []T
	for _, bb := range p.BuildingBlocks() {
		if typed, ok := bb.(T); ok {
			out = append(out, typed)
		}
	}
	return out
}
