package domain

import (
	"math"

	"github.com/google/uuid"
)

// Origin links a parameter back to the parameter it was derived from
type Origin struct {
	BuildingBlockID string
	ParameterID     string
	SimulationID    string
}

// Parameter is a dimensioned value owned by a container.
// Value is always in the base unit of Dimension.
type Parameter struct {
	ID                      string
	Name                    string
	Dimension               *Dimension
	DisplayUnit             Unit
	DefaultValue            *float64
	ValueDescription        string
	Editable                bool
	Visible                 bool
	CanBeVaried             bool
	CanBeVariedInPopulation bool
	Origin                  Origin

	formula  Formula
	value    float64
	isFixed  bool
	parent   *Container
	revision uint64
}

// NewParameter creates an editable parameter backed by a formula
func NewParameter(name string, dim *Dimension, formula Formula) *Parameter {
	if dim == nil {
		dim = Dimensionless
	}
	return &Parameter{
		ID:          uuid.NewString(),
		Name:        name,
		Dimension:   dim,
		DisplayUnit: dim.DefaultUnit(),
		Editable:    true,
		Visible:     true,
		CanBeVaried: true,
		formula:     formula,
	}
}

// NewConstantParameter creates a parameter with a constant formula whose
// default value is the constant
func NewConstantParameter(name string, value float64, dim *Dimension) *Parameter {
	p := NewParameter(name, dim, &ConstantFormula{Value: value})
	p.DefaultValue = &value
	return p
}

// Formula returns the formula, or nil
func (p *Parameter) Formula() Formula {
	return p.formula
}

// SetFormula replaces the formula and releases any fixed value
func (p *Parameter) SetFormula(f Formula) {
	p.formula = f
	p.isFixed = false
	p.revision++
}

// Value returns the base unit value. Fixed values win over the formula; a
// formula that cannot be evaluated yields NaN.
func (p *Parameter) Value() float64 {
	if p.isFixed || p.formula == nil {
		return p.value
	}
	v, err := p.formula.Calculate()
	if err != nil {
		return math.NaN()
	}
	return v
}

// SetValue fixes the base unit value
func (p *Parameter) SetValue(v float64) {
	p.value = v
	p.isFixed = true
	p.revision++
}

// ResetToFormula drops the fixed value
func (p *Parameter) ResetToFormula() {
	if !p.isFixed {
		return
	}
	p.isFixed = false
	p.revision++
}

// IsFixedValue reports whether the value overrides the formula
func (p *Parameter) IsFixedValue() bool {
	return p.isFixed
}

// Revision counts value and formula writes
func (p *Parameter) Revision() uint64 {
	return p.revision
}

// Parent returns the owning container
func (p *Parameter) Parent() *Container {
	return p.parent
}

// ValueInDisplayUnit returns the value converted to the display unit
func (p *Parameter) ValueInDisplayUnit() float64 {
	return p.Dimension.FromBase(p.DisplayUnit, p.Value())
}

// ConvertToBaseUnit converts a display unit value into the base unit
func (p *Parameter) ConvertToBaseUnit(v float64) float64 {
	return p.Dimension.ToBase(p.DisplayUnit, v)
}

// SetDisplayUnit switches the display unit. The base value is unchanged.
func (p *Parameter) SetDisplayUnit(name string) error {
	u, err := p.Dimension.Unit(name)
	if err != nil {
		return err
	}
	p.DisplayUnit = u
	return nil
}

// ValueDiffersFromDefault reports whether the user changed the value.
// Explicit and distributed parameters differ once their value is fixed.
func (p *Parameter) ValueDiffersFromDefault() bool {
	if !p.Editable {
		return false
	}
	if p.formula != nil {
		switch p.formula.Kind() {
		case FormulaExplicit, FormulaDistributed:
			return p.isFixed
		}
	}
	if p.DefaultValue == nil {
		return false
	}
	return !AreValuesEqual(p.Value(), *p.DefaultValue)
}

// ScaleFactor is the ratio of the value to its default. Returns 1 when no
// default is known or when the default is zero.
func (p *Parameter) ScaleFactor() float64 {
	if p.DefaultValue == nil {
		return 1
	}
	if *p.DefaultValue == 0 {
		return 1
	}
	return p.Value() / *p.DefaultValue
}

// CanBeDefinedAsAdvanced reports whether the parameter may be varied per individual in a population
func (p *Parameter) CanBeDefinedAsAdvanced() bool {
	return p.CanBeVariedInPopulation
}

// Clone deep copies the parameter with a fresh id and no parent
func (p *Parameter) Clone() *Parameter {
	c := *p
	c.ID = uuid.NewString()
	c.parent = nil
	c.revision = 0
	if p.formula != nil {
		c.formula = p.formula.Clone()
	}
	if p.DefaultValue != nil {
		v := *p.DefaultValue
		c.DefaultValue = &v
	}
	return &c
}
