package loader

import (
	"fmt"
	"strconv"

	"pksnap/internal/domain"
	"pksnap/internal/markup"
)

// ==============================================================================
// Simulations
// ==============================================================================

// readSimulation rebuilds the simulation from its templates, then applies the
// stored model values on top of the cloned parameters
func readSimulation(el *markup.Element, p *domain.Project) (domain.BuildingBlock, error) {
	var compounds []*domain.Compound
	for _, ce := range el.ChildrenNamed("CompoundRef") {
		c, ok := domain.ByName[*domain.Compound](p, ce.Attr("name"))
		if !ok {
			return nil, fmt.Errorf("compound %q not found", ce.Attr("name"))
		}
		compounds = append(compounds, c)
	}

	var sim *domain.Simulation
	switch {
	case el.Attr("population") != "":
		pop, ok := domain.ByName[*domain.Population](p, el.Attr("population"))
		if !ok {
			return nil, fmt.Errorf("population %q not found", el.Attr("population"))
		}
		sim = domain.NewPopulationSimulation(el.Attr("name"), pop, compounds)
		aps, err := readAdvancedParameters(el)
		if err != nil {
			return nil, err
		}
		if len(aps) > 0 {
			sim.AdvancedParameters = aps
		}
	default:
		ind, ok := domain.ByName[*domain.Individual](p, el.Attr("individual"))
		if !ok {
			return nil, fmt.Errorf("individual %q not found", el.Attr("individual"))
		}
		sim = domain.NewSimulation(el.Attr("name"), ind, compounds)
	}
	sim.Description = el.Attr("description")

	for _, ee := range el.ChildrenNamed("EventRef") {
		event, ok := domain.ByName[*domain.Event](p, ee.Attr("name"))
		if !ok {
			return nil, fmt.Errorf("event %q not found", ee.Attr("name"))
		}
		em := domain.NewEventMapping(event)
		if pe := ee.Child("Parameter"); pe != nil {
			start, err := readParameter(pe)
			if err != nil {
				return nil, err
			}
			mergeParameter(em.StartTime, start)
		}
		sim.EventProperties.AddEventMappings(em)
	}

	if se := el.Child("Solver"); se != nil {
		s, err := readSolver(se)
		if err != nil {
			return nil, err
		}
		sim.Solver = s
	}

	if intervals := el.ChildrenNamed("OutputInterval"); len(intervals) > 0 {
		sim.OutputSchema = &domain.OutputSchema{}
		for _, ie := range intervals {
			iv := domain.NewOutputInterval(ie.Attr("name"), 0, 0, 0)
			for _, pe := range ie.ChildrenNamed("Parameter") {
				src, err := readParameter(pe)
				if err != nil {
					return nil, err
				}
				for _, target := range []*domain.Parameter{iv.Start, iv.End, iv.Resolution} {
					if target.Name == src.Name {
						mergeParameter(target, src)
					}
				}
			}
			sim.OutputSchema.Intervals = append(sim.OutputSchema.Intervals, iv)
		}
	}

	for _, oe := range el.ChildrenNamed("OutputSelection") {
		sim.OutputSelections = append(sim.OutputSelections, oe.Attr("path"))
	}
	for _, oe := range el.ChildrenNamed("ObservedData") {
		sim.ObservedData = append(sim.ObservedData, oe.Attr("name"))
	}

	if me := el.Child("Model"); me != nil {
		if err := mergeContainer(me, sim.Model()); err != nil {
			return nil, fmt.Errorf("model: %w", err)
		}
	}
	return sim, nil
}

func writeSimulation(sim *domain.Simulation, p *domain.Project) (*markup.Element, error) {
	el := markup.New("Simulation", "name", sim.Name)
	if sim.Description != "" {
		el.SetAttr("description", sim.Description)
	}
	if sim.IsPopulationSimulation() {
		pop, ok := domain.ByID[*domain.Population](p, sim.PopulationTemplateID)
		if !ok {
			return nil, fmt.Errorf("population %s not found", sim.PopulationTemplateID)
		}
		el.SetAttr("population", pop.Name)
		writeAdvancedParameters(el, sim.AdvancedParameters)
	} else {
		ind, ok := domain.ByID[*domain.Individual](p, sim.IndividualTemplateID)
		if !ok {
			return nil, fmt.Errorf("individual %s not found", sim.IndividualTemplateID)
		}
		el.SetAttr("individual", ind.Name)
	}

	for _, id := range sim.CompoundTemplateIDs {
		c, ok := domain.ByID[*domain.Compound](p, id)
		if !ok {
			return nil, fmt.Errorf("compound %s not found", id)
		}
		el.Add(markup.New("CompoundRef", "name", c.Name))
	}

	if sim.EventProperties != nil {
		for _, em := range sim.EventProperties.EventMappings {
			event, ok := domain.ByID[*domain.Event](p, em.TemplateEventID)
			if !ok {
				return nil, fmt.Errorf("event %s not found", em.TemplateEventID)
			}
			ee := markup.New("EventRef", "name", event.Name)
			if em.StartTime != nil {
				pe, err := writeParameter(em.StartTime)
				if err != nil {
					return nil, err
				}
				ee.Add(pe)
			}
			el.Add(ee)
		}
	}

	el.Add(writeSolver(sim.Solver))

	if sim.OutputSchema != nil {
		for _, iv := range sim.OutputSchema.Intervals {
			ie := markup.New("OutputInterval", "name", iv.Name)
			for _, param := range []*domain.Parameter{iv.Start, iv.End, iv.Resolution} {
				pe, err := writeParameter(param)
				if err != nil {
					return nil, err
				}
				ie.Add(pe)
			}
			el.Add(ie)
		}
	}
	for _, path := range sim.OutputSelections {
		el.Add(markup.New("OutputSelection", "path", path))
	}
	for _, name := range sim.ObservedData {
		el.Add(markup.New("ObservedData", "name", name))
	}

	model := markup.New("Model")
	if err := writeContainer(model, sim.Model(), nil); err != nil {
		return nil, err
	}
	el.Add(model)
	return el, nil
}

func readSolver(el *markup.Element) (domain.SolverSettings, error) {
	s := domain.DefaultSolverSettings()
	if err := readFloats(el, map[string]*float64{
		"absTol": &s.AbsTol, "relTol": &s.RelTol, "h0": &s.H0, "hMin": &s.HMin, "hMax": &s.HMax,
	}); err != nil {
		return s, err
	}
	s.UseJacobian = el.BoolAttr("useJacobian", s.UseJacobian)
	if v := el.Attr("mxStep"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return s, fmt.Errorf("mxStep: %w", err)
		}
		s.MxStep = n
	}
	return s, nil
}

func writeSolver(s domain.SolverSettings) *markup.Element {
	el := markup.New("Solver", "mxStep", strconv.Itoa(s.MxStep))
	el.SetFloatAttr("absTol", s.AbsTol)
	el.SetFloatAttr("relTol", s.RelTol)
	el.SetBoolAttr("useJacobian", s.UseJacobian)
	el.SetFloatAttr("h0", s.H0)
	el.SetFloatAttr("hMin", s.HMin)
	el.SetFloatAttr("hMax", s.HMax)
	return el
}
