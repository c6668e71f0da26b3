package domain

import (
	"errors"
	"fmt"
	"sort"
)

var (
	// ErrUnknownUnit is returned when a unit name is not part of a dimension
	ErrUnknownUnit = errors.New("unknown unit")
	// ErrUnknownDimension is returned when a dimension name is not registered
	ErrUnknownDimension = errors.New("unknown dimension")
)

// Unit is a named unit with a linear conversion to the base unit of its
// dimension: base = (value + Offset) * Factor
type Unit struct {
	Name   string
	Factor float64
	Offset float64
}

// Dimension groups the units a quantity can be expressed in.
// Values are always stored in BaseUnit.
type Dimension struct {
	Name     string
	BaseUnit string
	units    map[string]Unit
	order    []string
}

// NewDimension creates a dimension. The base unit is registered with factor 1.
func NewDimension(name, baseUnit string, units ...Unit) *Dimension {
	d := &Dimension{
		Name:     name,
		BaseUnit: baseUnit,
		units:    make(map[string]Unit, len(units)+1),
	}
	d.add(Unit{Name: baseUnit, Factor: 1})
	for _, u := range units {
		d.add(u)
	}
	return d
}

func (d *Dimension) add(u Unit) {
	if _, ok := d.units[u.Name]; !ok {
		d.order = append(d.order, u.Name)
	}
	d.units[u.Name] = u
}

// Unit returns the unit with the given name. An empty name is the base unit.
func (d *Dimension) Unit(name string) (Unit, error) {
	if name == "" {
		name = d.BaseUnit
	}
	u, ok := d.units[name]
	if !ok {
		return Unit{}, fmt.Errorf("%w %q in dimension %s", ErrUnknownUnit, name, d.Name)
	}
	return u, nil
}

// DefaultUnit returns the base unit
func (d *Dimension) DefaultUnit() Unit {
	return d.units[d.BaseUnit]
}

// HasUnit reports whether the unit belongs to this dimension
func (d *Dimension) HasUnit(name string) bool {
	_, err := d.Unit(name)
	return err == nil
}

// Units returns all units in registration order
func (d *Dimension) Units() []Unit {
	out := make([]Unit, 0, len(d.order))
	for _, name := range d.order {
		out = append(out, d.units[name])
	}
	return out
}

// ToBase converts a value expressed in u into the base unit
func (d *Dimension) ToBase(u Unit, v float64) float64 {
	return (v + u.Offset) * u.Factor
}

// FromBase converts a base unit value into u
func (d *Dimension) FromBase(u Unit, v float64) float64 {
	return v/u.Factor - u.Offset
}

// ConvertToBase converts a value given in the named unit into the base unit
func (d *Dimension) ConvertToBase(unitName string, v float64) (float64, error) {
	u, err := d.Unit(unitName)
	if err != nil {
		return 0, err
	}
	return d.ToBase(u, v), nil
}

// ConvertFromBase converts a base unit value into the named unit
func (d *Dimension) ConvertFromBase(unitName string, v float64) (float64, error) {
	u, err := d.Unit(unitName)
	if err != nil {
		return 0, err
	}
	return d.FromBase(u, v), nil
}

func unit(name string, factor float64) Unit {
	return Unit{Name: name, Factor: factor}
}

// Registered dimensions
var (
	Dimensionless   = NewDimension("Dimensionless", "")
	Fraction        = NewDimension("Fraction", "", unit("%", 0.01))
	Time            = NewDimension("Time", "min", unit("s", 1.0/60), unit("h", 60), unit("day(s)", 1440), unit("week(s)", 10080))
	Age             = NewDimension("Age in years", "year(s)", unit("month(s)", 1.0/12), unit("week(s)", 7/365.25), unit("day(s)", 1/365.25))
	Mass            = NewDimension("Mass", "kg", unit("g", 1e-3), unit("mg", 1e-6))
	Volume          = NewDimension("Volume", "l", unit("dl", 0.1), unit("ml", 1e-3), unit("µl", 1e-6))
	Length          = NewDimension("Length", "dm", unit("m", 10), unit("cm", 0.1), unit("mm", 0.01))
	Area            = NewDimension("Area", "dm²", unit("m²", 100), unit("cm²", 0.01))
	Flow            = NewDimension("Flow", "l/min", unit("ml/min", 1e-3), unit("l/h", 1.0/60))
	InversedTime    = NewDimension("Inversed time", "1/min", unit("1/h", 1.0/60), unit("1/day", 1.0/1440))
	MolecularWeight = NewDimension("Molecular weight", "kg/µmol", unit("g/mol", 1e-9))
	Concentration   = NewDimension("Concentration (molar)", "µmol/l", unit("nmol/l", 1e-3), unit("mmol/l", 1e3))
	Temperature     = NewDimension("Temperature", "K", Unit{Name: "°C", Factor: 1, Offset: 273.15})
)

var dimensions = func() map[string]*Dimension {
	m := make(map[string]*Dimension)
	for _, d := range []*Dimension{
		Dimensionless, Fraction, Time, Age, Mass, Volume, Length, Area,
		Flow, InversedTime, MolecularWeight, Concentration, Temperature,
	} {
		m[d.Name] = d
	}
	return m
}()

// DimensionByName returns a registered dimension. An empty name is Dimensionless.
func DimensionByName(name string) (*Dimension, error) {
	if name == "" {
		return Dimensionless, nil
	}
	d, ok := dimensions[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownDimension, name)
	}
	return d, nil
}

// DimensionNames returns the names of all registered dimensions, sorted
func DimensionNames() []string {
	names := make([]string, 0, len(dimensions))
	for name := range dimensions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
