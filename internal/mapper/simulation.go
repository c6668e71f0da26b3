package mapper

import (
	"context"
	"fmt"

	"pksnap/internal/domain"
	"pksnap/internal/factory"
	"pksnap/internal/snapshot"
)

// SimulationMapper maps simulations. Subjects, compounds and events are
// referenced by name and resolved against the project.
type SimulationMapper struct {
	parameters ParameterMapper
	events     EventPropertiesMapper
	advanced   AdvancedParameterMapper
	factory    *factory.Factory
}

// MapToSnapshot converts a simulation
func (m SimulationMapper) MapToSnapshot(_ context.Context, sim *domain.Simulation, project *domain.Project) (*snapshot.Simulation, error) {
	s := &snapshot.Simulation{
		Name:               sim.Name,
		Description:        sim.Description,
		Parameters:         m.parameters.LocalizedParametersFrom(ChangedParameters(sim.Model().AllParameters()), RelativeTo(sim.Model())),
		AdvancedParameters: m.advanced.allToSnapshot(sim.AdvancedParameters),
		Solver:             solverToSnapshot(sim.Solver),
		OutputSelections:   append([]string(nil), sim.OutputSelections...),
		ObservedData:       append([]string(nil), sim.ObservedData...),
	}

	if sim.IsPopulationSimulation() {
		pop, ok := domain.ByID[*domain.Population](project, sim.PopulationTemplateID)
		if !ok {
			return nil, fmt.Errorf("simulation %s: %w", sim.Name,
				&ReferenceNotFoundError{Kind: string(domain.TypePopulation), Name: sim.PopulationTemplateID})
		}
		s.Population = pop.Name
	} else {
		ind, ok := domain.ByID[*domain.Individual](project, sim.IndividualTemplateID)
		if !ok {
			return nil, fmt.Errorf("simulation %s: %w", sim.Name,
				&ReferenceNotFoundError{Kind: string(domain.TypeIndividual), Name: sim.IndividualTemplateID})
		}
		s.Individual = ind.Name
	}

	for _, id := range sim.CompoundTemplateIDs {
		c, ok := domain.ByID[*domain.Compound](project, id)
		if !ok {
			return nil, fmt.Errorf("simulation %s: %w", sim.Name,
				&ReferenceNotFoundError{Kind: string(domain.TypeCompound), Name: id})
		}
		s.Compounds = append(s.Compounds, &snapshot.CompoundProperties{Name: c.Name})
	}

	events, err := m.events.MapToSnapshot(sim.EventProperties, project)
	if err != nil {
		return nil, fmt.Errorf("simulation %s: %w", sim.Name, err)
	}
	s.Events = events

	if sim.OutputSchema != nil {
		for _, iv := range sim.OutputSchema.Intervals {
			s.OutputSchema = append(s.OutputSchema, &snapshot.OutputInterval{
				Name:       iv.Name,
				StartTime:  m.parameters.MapToSnapshot(iv.Start),
				EndTime:    m.parameters.MapToSnapshot(iv.End),
				Resolution: m.parameters.MapToSnapshot(iv.Resolution),
			})
		}
	}
	return s, nil
}

// MapToModel rebuilds the simulation from the referenced building blocks
// and applies the changed model parameters
func (m SimulationMapper) MapToModel(_ context.Context, s *snapshot.Simulation, project *domain.Project) (*domain.Simulation, error) {
	subject, err := m.subject(s, project)
	if err != nil {
		return nil, fmt.Errorf("simulation %s: %w", s.Name, err)
	}

	compounds := make([]*domain.Compound, 0, len(s.Compounds))
	for _, cp := range s.Compounds {
		c, ok := domain.ByName[*domain.Compound](project, cp.Name)
		if !ok {
			return nil, fmt.Errorf("simulation %s: %w", s.Name,
				&ReferenceNotFoundError{Kind: string(domain.TypeCompound), Name: cp.Name})
		}
		compounds = append(compounds, c)
	}

	sim, err := m.factory.CreateSimulation(s.Name, subject, compounds, nil)
	if err != nil {
		return nil, fmt.Errorf("simulation %s: %w", s.Name, err)
	}
	sim.Description = s.Description

	if sim.EventProperties, err = m.events.MapToModel(s.Events, project); err != nil {
		return nil, fmt.Errorf("simulation %s: %w", s.Name, err)
	}
	if err := m.parameters.MapLocalizedParameters(s.Parameters, sim.Model(), RelativeTo(sim.Model())); err != nil {
		return nil, fmt.Errorf("simulation %s: %w", s.Name, err)
	}
	if sim.IsPopulationSimulation() && s.AdvancedParameters != nil {
		if sim.AdvancedParameters, err = m.advanced.allToModel(s.AdvancedParameters, sim.Model()); err != nil {
			return nil, fmt.Errorf("simulation %s: %w", s.Name, err)
		}
	}
	if s.Solver != nil {
		sim.Solver = solverToModel(s.Solver)
	}
	if len(s.OutputSchema) > 0 {
		if sim.OutputSchema, err = m.outputSchemaToModel(s.OutputSchema); err != nil {
			return nil, fmt.Errorf("simulation %s: %w", s.Name, err)
		}
	}
	sim.OutputSelections = append([]string(nil), s.OutputSelections...)
	sim.ObservedData = append([]string(nil), s.ObservedData...)
	return sim, nil
}

func (m SimulationMapper) subject(s *snapshot.Simulation, project *domain.Project) (domain.BuildingBlock, error) {
	switch {
	case s.Population != "":
		pop, ok := domain.ByName[*domain.Population](project, s.Population)
		if !ok {
			return nil, &ReferenceNotFoundError{Kind: string(domain.TypePopulation), Name: s.Population}
		}
		return pop, nil
	case s.Individual != "":
		ind, ok := domain.ByName[*domain.Individual](project, s.Individual)
		if !ok {
			return nil, &ReferenceNotFoundError{Kind: string(domain.TypeIndividual), Name: s.Individual}
		}
		return ind, nil
	}
	return nil, fmt.Errorf("no individual or population selected")
}

func (m SimulationMapper) outputSchemaToModel(intervals []*snapshot.OutputInterval) (*domain.OutputSchema, error) {
	schema := &domain.OutputSchema{}
	for _, s := range intervals {
		iv := domain.NewOutputInterval(s.Name, 0, 0, 0)
		for _, pair := range []struct {
			p *domain.Parameter
			s *snapshot.Parameter
		}{{iv.Start, s.StartTime}, {iv.End, s.EndTime}, {iv.Resolution, s.Resolution}} {
			if pair.s == nil {
				continue
			}
			if err := m.parameters.UpdateParameter(pair.p, pair.s); err != nil {
				return nil, fmt.Errorf("output interval %s: %w", s.Name, err)
			}
		}
		schema.Intervals = append(schema.Intervals, iv)
	}
	return schema, nil
}

func solverToSnapshot(s domain.SolverSettings) *snapshot.SolverSettings {
	return &snapshot.SolverSettings{
		AbsTol:      s.AbsTol,
		RelTol:      s.RelTol,
		UseJacobian: s.UseJacobian,
		H0:          s.H0,
		HMin:        s.HMin,
		HMax:        s.HMax,
		MxStep:      s.MxStep,
	}
}

func solverToModel(s *snapshot.SolverSettings) domain.SolverSettings {
	return domain.SolverSettings{
		AbsTol:      s.AbsTol,
		RelTol:      s.RelTol,
		UseJacobian: s.UseJacobian,
		H0:          s.H0,
		HMin:        s.HMin,
		HMax:        s.HMax,
		MxStep:      s.MxStep,
	}
}
