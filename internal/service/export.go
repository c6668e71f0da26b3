package service

import (
	"context"
	"fmt"
	"strings"

	"pksnap/internal/ctxlog"
	"pksnap/internal/domain"
	"pksnap/internal/snapshot"
	"pksnap/internal/storage"
)

// ExportMode selects the files written per simulation
type ExportMode int

const (
	ExportModeJSON ExportMode = 1 << iota
	ExportModeYAML

	ExportModeAll = ExportModeJSON | ExportModeYAML
)

// ExportRunOptions configures a simulation export
type ExportRunOptions struct {
	OutputFolder string
	ExportMode   ExportMode
}

// SimulationExporter writes one self-contained snapshot per simulation,
// holding the simulation and the building blocks it references
type SimulationExporter struct {
	task *SnapshotTask
}

// NewSimulationExporter creates an exporter writing through the task's store
func NewSimulationExporter(task *SnapshotTask) *SimulationExporter {
	return &SimulationExporter{task: task}
}

// Export writes every simulation of the project into opts.OutputFolder
func (e *SimulationExporter) Export(ctx context.Context, p *domain.Project, opts ExportRunOptions) error {
	if opts.OutputFolder == "" {
		return fmt.Errorf("export output folder not set")
	}
	if opts.ExportMode == 0 {
		opts.ExportMode = ExportModeAll
	}

	s, err := e.task.mapper.MapToSnapshot(ctx, p)
	if err != nil {
		return err
	}

	log := ctxlog.FromContext(ctx)
	for _, sim := range s.Simulations {
		single := simulationProject(s, sim)
		for _, ext := range opts.ExportMode.extensions() {
			path := storage.Join(opts.OutputFolder, fileName(sim.Name)+ext)
			if err := e.task.WriteSnapshot(ctx, single, path); err != nil {
				return fmt.Errorf("failed to export simulation %s: %w", sim.Name, err)
			}
			log.Info("simulation exported", "simulation", sim.Name, "path", path)
		}
		e.task.eventBus.Publish(Event{Type: EventSimulationExported, Path: opts.OutputFolder, Name: sim.Name})
	}
	return nil
}

func (m ExportMode) extensions() []string {
	var out []string
	if m&ExportModeJSON != 0 {
		out = append(out, ".json")
	}
	if m&ExportModeYAML != 0 {
		out = append(out, ".yaml")
	}
	return out
}

// simulationProject extracts a simulation and its referenced building blocks
func simulationProject(s *snapshot.Project, sim *snapshot.Simulation) *snapshot.Project {
	out := &snapshot.Project{
		Version:     s.Version,
		Name:        sim.Name,
		Description: sim.Description,
		Simulations: []*snapshot.Simulation{sim},
	}
	if ind, ok := s.Individual(sim.Individual); ok {
		out.Individuals = append(out.Individuals, ind)
	}
	if pop, ok := s.Population(sim.Population); ok {
		out.Populations = append(out.Populations, pop)
	}
	for _, cp := range sim.Compounds {
		if c, ok := s.Compound(cp.Name); ok {
			out.Compounds = append(out.Compounds, c)
		}
	}
	for _, es := range sim.Events {
		if ev, ok := s.Event(es.Name); ok {
			if _, dup := out.Event(ev.Name); !dup {
				out.Events = append(out.Events, ev)
			}
		}
	}
	return out
}

var fileNameReplacer = strings.NewReplacer("/", "_", `\`, "_", ":", "_", "*", "_", "?", "_", `"`, "_", "<", "_", ">", "_", "|", "_")

func fileName(name string) string {
	return fileNameReplacer.Replace(strings.TrimSpace(name))
}
