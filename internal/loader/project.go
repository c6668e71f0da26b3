package loader

import (
	"fmt"
	"strconv"

	"pksnap/internal/converter"
	"pksnap/internal/domain"
	"pksnap/internal/markup"
)

// ==============================================================================
// Project
// ==============================================================================

func readProject(root *markup.Element) (*domain.Project, error) {
	p := domain.NewProject(root.Attr("name"))
	p.Description = root.Attr("description")

	// simulations resolve their references against blocks read before them
	order := []struct {
		element string
		read    func(*markup.Element, *domain.Project) (domain.BuildingBlock, error)
	}{
		{"Individual", func(el *markup.Element, _ *domain.Project) (domain.BuildingBlock, error) { return readIndividual(el) }},
		{"Compound", func(el *markup.Element, _ *domain.Project) (domain.BuildingBlock, error) { return readCompound(el) }},
		{"Event", func(el *markup.Element, _ *domain.Project) (domain.BuildingBlock, error) { return readEvent(el) }},
		{"Population", func(el *markup.Element, _ *domain.Project) (domain.BuildingBlock, error) { return readPopulation(el) }},
		{"Simulation", readSimulation},
	}
	for _, kind := range order {
		for _, el := range root.ChildrenNamed(kind.element) {
			bb, err := kind.read(el, p)
			if err != nil {
				return nil, fmt.Errorf("%s %s: %w", kind.element, el.Attr("name"), err)
			}
			if err := p.Add(bb); err != nil {
				return nil, err
			}
		}
	}
	return p, nil
}

func writeProject(p *domain.Project) (*markup.Element, error) {
	root := markup.New("Project", "name", p.Name, "version", strconv.Itoa(converter.CurrentVersion))
	if p.Description != "" {
		root.SetAttr("description", p.Description)
	}
	for _, bb := range p.BuildingBlocks() {
		var (
			el  *markup.Element
			err error
		)
		switch b := bb.(type) {
		case *domain.Individual:
			el, err = writeIndividual(b)
		case *domain.Compound:
			el, err = writeCompound(b)
		case *domain.Event:
			el, err = writeEvent(b)
		case *domain.Population:
			el, err = writePopulation(b)
		case *domain.Simulation:
			el, err = writeSimulation(b, p)
		default:
			err = fmt.Errorf("unsupported building block %T", bb)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to write %s %s: %w", bb.Type(), bb.Info().Name, err)
		}
		root.Add(el)
	}
	return root, nil
}

// ==============================================================================
// Individuals and molecules
// ==============================================================================

func readIndividual(el *markup.Element) (*domain.Individual, error) {
	origin := domain.OriginData{Gender: domain.GenderUnknown}
	if o := el.Child("OriginData"); o != nil {
		origin.Species = o.Attr("species")
		origin.Population = o.Attr("population")
		if g := o.Attr("gender"); g != "" {
			origin.Gender = domain.Gender(g)
		}
		age, ok, err := o.FloatAttr("age")
		if err != nil {
			return nil, err
		}
		if ok {
			origin.Age = &age
			origin.AgeUnit = o.Attr("ageUnit")
		}
	}
	if origin.Species == "" {
		return nil, fmt.Errorf("species missing")
	}

	ind := domain.NewIndividual(el.Attr("name"), origin)
	ind.Description = el.Attr("description")
	if seed := el.Attr("seed"); seed != "" {
		s, err := strconv.ParseInt(seed, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("seed: %w", err)
		}
		ind.Seed = s
	}
	for _, cm := range el.ChildrenNamed("CalculationMethod") {
		ind.AddCalculationMethod(cm.Attr("name"))
	}
	if err := readContainer(el, ind.Root); err != nil {
		return nil, err
	}
	for _, me := range el.ChildrenNamed("Molecule") {
		mol, err := readMolecule(me)
		if err != nil {
			return nil, fmt.Errorf("molecule %s: %w", me.Attr("name"), err)
		}
		ind.AddMolecule(mol)
	}
	return ind, nil
}

func writeIndividual(ind *domain.Individual) (*markup.Element, error) {
	el := markup.New("Individual", "name", ind.Name)
	if ind.Description != "" {
		el.SetAttr("description", ind.Description)
	}
	if ind.Seed != 0 {
		el.SetAttr("seed", strconv.FormatInt(ind.Seed, 10))
	}

	origin := markup.New("OriginData", "species", ind.OriginData.Species, "gender", string(ind.OriginData.Gender))
	if ind.OriginData.Population != "" {
		origin.SetAttr("population", ind.OriginData.Population)
	}
	if ind.OriginData.Age != nil {
		origin.SetFloatAttr("age", *ind.OriginData.Age)
		if ind.OriginData.AgeUnit != "" {
			origin.SetAttr("ageUnit", ind.OriginData.AgeUnit)
		}
	}
	el.Add(origin)
	for _, cm := range ind.CalculationMethods {
		el.Add(markup.New("CalculationMethod", "name", cm))
	}

	isMolecule := func(c *domain.Container) bool {
		m := ind.Molecule(c.Name)
		return m != nil && m.Root == c
	}
	if err := writeContainer(el, ind.Root, isMolecule); err != nil {
		return nil, err
	}
	for _, m := range ind.Molecules {
		me, err := writeMolecule(m)
		if err != nil {
			return nil, fmt.Errorf("molecule %s: %w", m.Name, err)
		}
		el.Add(me)
	}
	return el, nil
}

func readMolecule(el *markup.Element) (*domain.Molecule, error) {
	t, err := domain.ParseMoleculeType(el.Attr("type"))
	if err != nil {
		return nil, err
	}
	m := domain.NewMolecule(el.Attr("name"), t)
	m.Description = el.Attr("description")
	m.MembraneLocation = el.Attr("membraneLocation")
	m.TissueLocation = el.Attr("tissueLocation")
	m.IntracellularVascularEndoLocation = el.Attr("intracellularVascularEndoLocation")
	m.TransportType = el.Attr("transportType")
	if err := readContainer(el, m.Root); err != nil {
		return nil, err
	}

	if oe := el.Child("Ontogeny"); oe != nil {
		if fe := oe.Child("Formula"); fe != nil {
			f, err := readFormula(fe)
			if err != nil {
				return nil, fmt.Errorf("ontogeny: %w", err)
			}
			table, ok := f.(*domain.DistributedTableFormula)
			if !ok {
				return nil, fmt.Errorf("ontogeny table must be a distributed table, found %s", f.Kind())
			}
			m.Ontogeny = &domain.UserDefinedOntogeny{
				Name:        oe.Attr("name"),
				Description: oe.Attr("description"),
				SpeciesName: oe.Attr("species"),
				Table:       table,
			}
		} else {
			m.Ontogeny = &domain.DatabaseOntogeny{
				Name:        oe.Attr("name"),
				Description: oe.Attr("description"),
				SpeciesName: oe.Attr("species"),
			}
		}
	}
	return m, nil
}

func writeMolecule(m *domain.Molecule) (*markup.Element, error) {
	el := markup.New("Molecule", "name", m.Name, "type", string(m.Type))
	for attr, v := range map[string]string{
		"description":                       m.Description,
		"membraneLocation":                  m.MembraneLocation,
		"tissueLocation":                    m.TissueLocation,
		"intracellularVascularEndoLocation": m.IntracellularVascularEndoLocation,
		"transportType":                     m.TransportType,
	} {
		if v != "" {
			el.SetAttr(attr, v)
		}
	}

	switch o := m.Ontogeny.(type) {
	case *domain.DatabaseOntogeny:
		el.Add(markup.New("Ontogeny", "name", o.Name, "description", o.Description, "species", o.SpeciesName))
	case *domain.UserDefinedOntogeny:
		oe := markup.New("Ontogeny", "name", o.Name, "description", o.Description, "species", o.SpeciesName)
		fe, err := writeFormula(o.Table)
		if err != nil {
			return nil, err
		}
		el.Add(oe.Add(fe))
	}

	if err := writeContainer(el, m.Root, nil); err != nil {
		return nil, err
	}
	return el, nil
}

// ==============================================================================
// Compounds, events and populations
// ==============================================================================

func readCompound(el *markup.Element) (*domain.Compound, error) {
	c := domain.NewCompound(el.Attr("name"))
	c.Description = el.Attr("description")
	c.IsSmallMolecule = el.BoolAttr("isSmallMolecule", true)
	if err := readContainer(el, c.Root); err != nil {
		return nil, err
	}
	return c, nil
}

func writeCompound(c *domain.Compound) (*markup.Element, error) {
	el := markup.New("Compound", "name", c.Name)
	if c.Description != "" {
		el.SetAttr("description", c.Description)
	}
	el.SetBoolAttr("isSmallMolecule", c.IsSmallMolecule)
	return el, writeContainer(el, c.Root, nil)
}

func readEvent(el *markup.Element) (*domain.Event, error) {
	e := domain.NewEvent(el.Attr("name"), el.Attr("template"))
	e.Description = el.Attr("description")
	if err := readContainer(el, e.Root); err != nil {
		return nil, err
	}
	return e, nil
}

func writeEvent(e *domain.Event) (*markup.Element, error) {
	el := markup.New("Event", "name", e.Name, "template", e.Template)
	if e.Description != "" {
		el.SetAttr("description", e.Description)
	}
	return el, writeContainer(el, e.Root, nil)
}

func readPopulation(el *markup.Element) (*domain.Population, error) {
	ie := el.Child("Individual")
	if ie == nil {
		return nil, fmt.Errorf("base individual missing")
	}
	base, err := readIndividual(ie)
	if err != nil {
		return nil, fmt.Errorf("base individual: %w", err)
	}

	var settings domain.PopulationSettings
	if se := el.Child("Settings"); se != nil {
		n, err := strconv.Atoi(se.Attr("numberOfIndividuals"))
		if err != nil {
			return nil, fmt.Errorf("numberOfIndividuals: %w", err)
		}
		settings.NumberOfIndividuals = n
		if err := readFloats(se, map[string]*float64{"proportionOfFemales": &settings.ProportionOfFemales}); err != nil {
			return nil, err
		}
		if settings.AgeMin, err = optionalFloat(se, "ageMin"); err != nil {
			return nil, err
		}
		if settings.AgeMax, err = optionalFloat(se, "ageMax"); err != nil {
			return nil, err
		}
	}

	pop := domain.NewPopulation(el.Attr("name"), base, settings)
	pop.Description = el.Attr("description")
	if pop.AdvancedParameters, err = readAdvancedParameters(el); err != nil {
		return nil, err
	}
	return pop, nil
}

func writePopulation(pop *domain.Population) (*markup.Element, error) {
	el := markup.New("Population", "name", pop.Name)
	if pop.Description != "" {
		el.SetAttr("description", pop.Description)
	}
	se := markup.New("Settings", "numberOfIndividuals", strconv.Itoa(pop.Settings.NumberOfIndividuals))
	se.SetFloatAttr("proportionOfFemales", pop.Settings.ProportionOfFemales)
	if pop.Settings.AgeMin != nil {
		se.SetFloatAttr("ageMin", *pop.Settings.AgeMin)
	}
	if pop.Settings.AgeMax != nil {
		se.SetFloatAttr("ageMax", *pop.Settings.AgeMax)
	}
	el.Add(se)

	if pop.FirstIndividual != nil {
		ie, err := writeIndividual(pop.FirstIndividual)
		if err != nil {
			return nil, err
		}
		el.Add(ie)
	}
	writeAdvancedParameters(el, pop.AdvancedParameters)
	return el, nil
}

func readAdvancedParameters(el *markup.Element) ([]*domain.AdvancedParameter, error) {
	var out []*domain.AdvancedParameter
	for _, ae := range el.ChildrenNamed("AdvancedParameter") {
		dist, err := readDistribution(ae)
		if err != nil {
			return nil, err
		}
		ap := &domain.AdvancedParameter{ParameterPath: ae.Attr("path"), Distribution: dist}
		if s := ae.Attr("seed"); s != "" {
			if ap.Seed, err = strconv.ParseInt(s, 10, 64); err != nil {
				return nil, fmt.Errorf("advanced parameter %s seed: %w", ap.ParameterPath, err)
			}
		}
		if err := readFloats(ae, map[string]*float64{"mean": &ap.Mean, "deviation": &ap.Deviation}); err != nil {
			return nil, err
		}
		out = append(out, ap)
	}
	return out, nil
}

func writeAdvancedParameters(el *markup.Element, aps []*domain.AdvancedParameter) {
	for _, ap := range aps {
		ae := markup.New("AdvancedParameter",
			"path", ap.ParameterPath,
			"seed", strconv.FormatInt(ap.Seed, 10),
			"distributionId", strconv.Itoa(ap.Distribution.ID))
		ae.SetFloatAttr("mean", ap.Mean)
		ae.SetFloatAttr("deviation", ap.Deviation)
		el.Add(ae)
	}
}

func optionalFloat(el *markup.Element, name string) (*float64, error) {
	v, ok, err := el.FloatAttr(name)
	if err != nil || !ok {
		return nil, err
	}
	return &v, nil
}
