package domain

import (
	"strings"

	"github.com/google/uuid"
)

// PathSeparator joins entity names in parameter paths
const PathSeparator = "|"

// Container is a named node of a building block's parameter tree.
// Names are unique among siblings.
type Container struct {
	ID   string
	Name string

	parent     *Container
	containers []*Container
	parameters []*Parameter
}

// NewContainer creates an empty container
func NewContainer(name string) *Container {
	return &Container{ID: uuid.NewString(), Name: name}
}

// Parent returns the enclosing container, or nil for a root
func (c *Container) Parent() *Container {
	return c.parent
}

// Root walks up to the top-level container
func (c *Container) Root() *Container {
	for c.parent != nil {
		c = c.parent
	}
	return c
}

// Containers returns the direct child containers
func (c *Container) Containers() []*Container {
	return append([]*Container(nil), c.containers...)
}

// Parameters returns the direct child parameters
func (c *Container) Parameters() []*Parameter {
	return append([]*Parameter(nil), c.parameters...)
}

// Add attaches a parameter, replacing a sibling with the same name
func (c *Container) Add(p *Parameter) *Parameter {
	p.parent = c
	for i, existing := range c.parameters {
		if existing.Name == p.Name {
			existing.parent = nil
			c.parameters[i] = p
			return p
		}
	}
	c.parameters = append(c.parameters, p)
	return p
}

// RemoveParameter detaches the named parameter. Returns false if absent.
func (c *Container) RemoveParameter(name string) bool {
	for i, p := range c.parameters {
		if p.Name == name {
			p.parent = nil
			c.parameters = append(c.parameters[:i], c.parameters[i+1:]...)
			return true
		}
	}
	return false
}

// AddContainer attaches a child container, replacing a sibling with the same name
func (c *Container) AddContainer(child *Container) *Container {
	child.parent = c
	for i, existing := range c.containers {
		if existing.Name == child.Name {
			existing.parent = nil
			c.containers[i] = child
			return child
		}
	}
	c.containers = append(c.containers, child)
	return child
}

// Container returns the direct child with the given name, or nil
func (c *Container) Container(name string) *Container {
	for _, child := range c.containers {
		if child.Name == name {
			return child
		}
	}
	return nil
}

// Parameter returns the direct child parameter with the given name, or nil
func (c *Container) Parameter(name string) *Parameter {
	for _, p := range c.parameters {
		if p.Name == name {
			return p
		}
	}
	return nil
}

// ContainerAt follows a chain of child names. Returns nil if any step is missing.
func (c *Container) ContainerAt(names ...string) *Container {
	cur := c
	for _, name := range names {
		if cur = cur.Container(name); cur == nil {
			return nil
		}
	}
	return cur
}

// EnsureContainer follows a chain of child names, creating missing containers
func (c *Container) EnsureContainer(names ...string) *Container {
	cur := c
	for _, name := range names {
		next := cur.Container(name)
		if next == nil {
			next = cur.AddContainer(NewContainer(name))
		}
		cur = next
	}
	return cur
}

// AllParameters returns every descendant parameter, depth first
func (c *Container) AllParameters() []*Parameter {
	var out []*Parameter
	c.walk(func(p *Parameter) { out = append(out, p) })
	return out
}

// FindParameter returns the first descendant parameter with the given name, or nil
func (c *Container) FindParameter(name string) *Parameter {
	for _, p := range c.AllParameters() {
		if p.Name == name {
			return p
		}
	}
	return nil
}

func (c *Container) walk(fn func(*Parameter)) {
	for _, p := range c.parameters {
		fn(p)
	}
	for _, child := range c.containers {
		child.walk(fn)
	}
}

// Clone deep copies the subtree with fresh ids
func (c *Container) Clone() *Container {
	return c.CloneWith(nil)
}

// CloneWith deep copies the subtree, calling visit for every cloned parameter
// with its source
func (c *Container) CloneWith(visit func(source, clone *Parameter)) *Container {
	out := NewContainer(c.Name)
	for _, p := range c.parameters {
		clone := out.Add(p.Clone())
		if visit != nil {
			visit(p, clone)
		}
	}
	for _, child := range c.containers {
		out.AddContainer(child.CloneWith(visit))
	}
	return out
}

// PathFor returns the names from below the root down to the parameter,
// joined with PathSeparator
func PathFor(p *Parameter) string {
	return RelativePath(p, nil)
}

// RelativePath returns the names from below ancestor down to the parameter.
// A nil or unrelated ancestor yields the path below the root.
func RelativePath(p *Parameter, ancestor *Container) string {
	names := []string{p.Name}
	for c := p.parent; c != nil && c != ancestor && c.parent != nil; c = c.parent {
		names = append(names, c.Name)
	}
	for i, j := 0, len(names)-1; i < j; i, j = i+1, j-1 {
		names[i], names[j] = names[j], names[i]
	}
	return strings.Join(names, PathSeparator)
}

// SplitPath splits a parameter path into its names
func SplitPath(path string) []string {
	return strings.Split(path, PathSeparator)
}

// ParameterAt resolves a path relative to c, the inverse of PathFor for a root container
func (c *Container) ParameterAt(path string) *Parameter {
	names := SplitPath(path)
	parent := c.ContainerAt(names[:len(names)-1]...)
	if parent == nil {
		return nil
	}
	return parent.Parameter(names[len(names)-1])
}
