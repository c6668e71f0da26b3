package loader

import (
	"fmt"
	"strconv"

	"pksnap/internal/domain"
	"pksnap/internal/markup"
)

// ==============================================================================
// Parameters
// ==============================================================================

func readParameter(el *markup.Element) (*domain.Parameter, error) {
	name := el.Attr("name")
	dim, err := domain.DimensionByName(el.Attr("dimension"))
	if err != nil {
		return nil, fmt.Errorf("parameter %s: %w", name, err)
	}

	var formula domain.Formula
	if f := el.Child("Formula"); f != nil {
		if formula, err = readFormula(f); err != nil {
			return nil, fmt.Errorf("parameter %s: %w", name, err)
		}
	}

	p := domain.NewParameter(name, dim, formula)
	if err := p.SetDisplayUnit(el.Attr("displayUnit")); err != nil {
		return nil, fmt.Errorf("parameter %s: %w", name, err)
	}
	p.ValueDescription = el.Attr("description")
	p.Editable = el.BoolAttr("editable", true)
	p.Visible = el.BoolAttr("visible", true)
	p.CanBeVaried = el.BoolAttr("canBeVaried", true)
	p.CanBeVariedInPopulation = el.BoolAttr("canBeVariedInPopulation", false)

	def, ok, err := el.FloatAttr("default")
	if err != nil {
		return nil, err
	}
	if ok {
		p.DefaultValue = &def
	}
	v, ok, err := el.FloatAttr("value")
	if err != nil {
		return nil, err
	}
	if ok {
		p.SetValue(v)
	}
	return p, nil
}

func writeParameter(p *domain.Parameter) (*markup.Element, error) {
	el := markup.New("Parameter", "name", p.Name, "dimension", p.Dimension.Name)
	if p.DisplayUnit.Name != p.Dimension.BaseUnit {
		el.SetAttr("displayUnit", p.DisplayUnit.Name)
	}
	if p.ValueDescription != "" {
		el.SetAttr("description", p.ValueDescription)
	}
	el.SetBoolAttr("editable", p.Editable)
	el.SetBoolAttr("visible", p.Visible)
	el.SetBoolAttr("canBeVaried", p.CanBeVaried)
	el.SetBoolAttr("canBeVariedInPopulation", p.CanBeVariedInPopulation)
	if p.DefaultValue != nil {
		el.SetFloatAttr("default", *p.DefaultValue)
	}
	if p.IsFixedValue() || p.Formula() == nil {
		el.SetFloatAttr("value", p.Value())
	}
	if p.Formula() != nil {
		f, err := writeFormula(p.Formula())
		if err != nil {
			return nil, fmt.Errorf("parameter %s: %w", p.Name, err)
		}
		el.Add(f)
	}
	return el, nil
}

// readContainer adds the parameters and sub containers of el to c
func readContainer(el *markup.Element, c *domain.Container) error {
	for _, child := range el.Children {
		switch child.Name() {
		case "Parameter":
			p, err := readParameter(child)
			if err != nil {
				return err
			}
			c.Add(p)
		case "Container":
			if err := readContainer(child, c.EnsureContainer(child.Attr("name"))); err != nil {
				return err
			}
		}
	}
	return nil
}

// writeContainer writes the content of c into el. Sub containers for which
// skip returns true are left out.
func writeContainer(el *markup.Element, c *domain.Container, skip func(*domain.Container) bool) error {
	for _, p := range c.Parameters() {
		pe, err := writeParameter(p)
		if err != nil {
			return err
		}
		el.Add(pe)
	}
	for _, child := range c.Containers() {
		if skip != nil && skip(child) {
			continue
		}
		ce := markup.New("Container", "name", child.Name)
		if err := writeContainer(ce, child, nil); err != nil {
			return err
		}
		el.Add(ce)
	}
	return nil
}

// mergeContainer applies the parameters of el onto the existing tree of c.
// Parameters unknown to c are added.
func mergeContainer(el *markup.Element, c *domain.Container) error {
	for _, child := range el.Children {
		switch child.Name() {
		case "Parameter":
			src, err := readParameter(child)
			if err != nil {
				return err
			}
			target := c.Parameter(src.Name)
			if target == nil {
				c.Add(src)
				continue
			}
			mergeParameter(target, src)
		case "Container":
			if err := mergeContainer(child, c.EnsureContainer(child.Attr("name"))); err != nil {
				return err
			}
		}
	}
	return nil
}

// mergeParameter copies the stored state of src onto target. The stored
// formula replaces the cloned one before a fixed value is applied.
func mergeParameter(target, src *domain.Parameter) {
	target.DisplayUnit = src.DisplayUnit
	target.ValueDescription = src.ValueDescription
	target.Editable = src.Editable
	target.Visible = src.Visible
	target.CanBeVaried = src.CanBeVaried
	target.CanBeVariedInPopulation = src.CanBeVariedInPopulation
	if src.DefaultValue != nil {
		v := *src.DefaultValue
		target.DefaultValue = &v
	}
	if src.Formula() != nil {
		target.SetFormula(src.Formula())
	}
	if src.IsFixedValue() {
		target.SetValue(src.Value())
	}
}

// ==============================================================================
// Formulas
// ==============================================================================

func readFormula(el *markup.Element) (domain.Formula, error) {
	kind := domain.FormulaKind(el.Attr("type"))
	switch kind {
	case domain.FormulaConstant:
		v, _, err := el.FloatAttr("value")
		if err != nil {
			return nil, err
		}
		return &domain.ConstantFormula{Value: v}, nil

	case domain.FormulaExplicit:
		return &domain.ExplicitFormula{Name: el.Attr("name"), Expression: el.Attr("expression")}, nil

	case domain.FormulaDistributed:
		dist, err := readDistribution(el)
		if err != nil {
			return nil, err
		}
		f := domain.NewDistributedFormula(dist, 0, 0)
		if err := readFloats(el, map[string]*float64{
			"mean": &f.Mean, "deviation": &f.Deviation, "percentile": &f.Percentile,
		}); err != nil {
			return nil, err
		}
		return f, nil

	case domain.FormulaTable:
		t := &domain.TableFormula{}
		if err := readTable(el, t, nil); err != nil {
			return nil, err
		}
		return t, nil

	case domain.FormulaDistributedTable:
		t := &domain.DistributedTableFormula{Percentile: 0.5}
		if err := readFloats(el, map[string]*float64{"percentile": &t.Percentile}); err != nil {
			return nil, err
		}
		if err := readTable(el, &t.TableFormula, t); err != nil {
			return nil, err
		}
		return t, nil
	}
	return nil, fmt.Errorf("unknown formula type %q", kind)
}

func readTable(el *markup.Element, t *domain.TableFormula, dt *domain.DistributedTableFormula) error {
	xDim, err := domain.DimensionByName(el.Attr("xDimension"))
	if err != nil {
		return err
	}
	yDim, err := domain.DimensionByName(el.Attr("yDimension"))
	if err != nil {
		return err
	}
	*t = *domain.NewTableFormula(el.Attr("xName"), xDim, el.Attr("yName"), yDim)
	t.Name = el.Attr("name")
	if t.XDisplayUnit, err = xDim.Unit(el.Attr("xUnit")); err != nil {
		return err
	}
	if t.YDisplayUnit, err = yDim.Unit(el.Attr("yUnit")); err != nil {
		return err
	}
	t.UseDerivedValues = el.BoolAttr("useDerivedValues", false)

	for _, pe := range el.ChildrenNamed("Point") {
		var p domain.ValuePoint
		if err := readFloats(pe, map[string]*float64{"x": &p.X, "y": &p.Y}); err != nil {
			return err
		}
		p.RestartSolver = pe.BoolAttr("restartSolver", false)
		t.AddValuePoint(p)

		if dt == nil {
			continue
		}
		md := domain.DistributionMetaData{}
		if md.Distribution, err = readDistribution(pe); err != nil {
			return err
		}
		if err := readFloats(pe, map[string]*float64{"mean": &md.Mean, "deviation": &md.Deviation}); err != nil {
			return err
		}
		dt.AddDistributionMetaData(md)
	}
	return nil
}

func writeFormula(f domain.Formula) (*markup.Element, error) {
	el := markup.New("Formula", "type", string(f.Kind()))
	switch v := f.(type) {
	case *domain.ConstantFormula:
		el.SetFloatAttr("value", v.Value)
	case *domain.ExplicitFormula:
		el.SetAttr("name", v.Name)
		el.SetAttr("expression", v.Expression)
	case *domain.DistributedFormula:
		el.SetAttr("distributionId", strconv.Itoa(v.Distribution.ID))
		el.SetFloatAttr("mean", v.Mean)
		el.SetFloatAttr("deviation", v.Deviation)
		el.SetFloatAttr("percentile", v.Percentile)
	case *domain.TableFormula:
		writeTable(el, v, nil)
	case *domain.DistributedTableFormula:
		el.SetFloatAttr("percentile", v.Percentile)
		writeTable(el, &v.TableFormula, v.AllDistributionMetaData())
	default:
		return nil, fmt.Errorf("unsupported formula %T", f)
	}
	return el, nil
}

func writeTable(el *markup.Element, t *domain.TableFormula, metaData []domain.DistributionMetaData) {
	el.SetAttr("name", t.Name)
	el.SetAttr("xName", t.XName)
	el.SetAttr("yName", t.YName)
	el.SetAttr("xDimension", t.XDimension.Name)
	el.SetAttr("yDimension", t.YDimension.Name)
	el.SetAttr("xUnit", t.XDisplayUnit.Name)
	el.SetAttr("yUnit", t.YDisplayUnit.Name)
	el.SetBoolAttr("useDerivedValues", t.UseDerivedValues)
	for i, p := range t.Points() {
		pe := markup.New("Point")
		pe.SetFloatAttr("x", p.X)
		pe.SetFloatAttr("y", p.Y)
		if p.RestartSolver {
			pe.SetBoolAttr("restartSolver", true)
		}
		if i < len(metaData) {
			pe.SetAttr("distributionId", strconv.Itoa(metaData[i].Distribution.ID))
			pe.SetFloatAttr("mean", metaData[i].Mean)
			pe.SetFloatAttr("deviation", metaData[i].Deviation)
		}
		el.Add(pe)
	}
}

func readDistribution(el *markup.Element) (domain.DistributionKind, error) {
	id, err := strconv.Atoi(el.Attr("distributionId"))
	if err != nil {
		return domain.DistributionKind{}, fmt.Errorf("<%s> distributionId %q: %w", el.Name(), el.Attr("distributionId"), err)
	}
	return domain.DistributionByID(id)
}

func readFloats(el *markup.Element, targets map[string]*float64) error {
	for name, target := range targets {
		v, ok, err := el.FloatAttr(name)
		if err != nil {
			return err
		}
		if ok {
			*target = v
		}
	}
	return nil
}
