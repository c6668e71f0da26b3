package domain

// SolverSettings configure the ODE solver
type SolverSettings struct {
	AbsTol      float64
	RelTol      float64
	UseJacobian bool
	H0          float64
	HMin        float64
	HMax        float64
	MxStep      int
}

// DefaultSolverSettings returns the settings new simulations start with
func DefaultSolverSettings() SolverSettings {
	return SolverSettings{
		AbsTol:      1e-10,
		RelTol:      1e-5,
		UseJacobian: true,
		H0:          1e-10,
		HMin:        0,
		HMax:        60,
		MxStep:      100000,
	}
}

// OutputInterval is one segment of the output schema. Start and End are in
// minutes, Resolution in points per minute.
type OutputInterval struct {
	Name       string
	Start      *Parameter
	End        *Parameter
	Resolution *Parameter
}

// NewOutputInterval creates an interval displayed in hours and points per hour
func NewOutputInterval(name string, startMin, endMin, ptsPerMin float64) *OutputInterval {
	start := NewConstantParameter("Start time", startMin, Time)
	end := NewConstantParameter("End time", endMin, Time)
	res := NewConstantParameter("Resolution", ptsPerMin, InversedTime)
	start.DisplayUnit, _ = Time.Unit("h")
	end.DisplayUnit, _ = Time.Unit("h")
	res.DisplayUnit, _ = InversedTime.Unit("1/h")
	return &OutputInterval{Name: name, Start: start, End: end, Resolution: res}
}

// OutputSchema is the ordered list of output intervals
type OutputSchema struct {
	Intervals []*OutputInterval
}

// DefaultOutputSchema is 24 hours at 4 points per hour
func DefaultOutputSchema() *OutputSchema {
	return &OutputSchema{Intervals: []*OutputInterval{
		NewOutputInterval("Simulation interval high resolution", 0, 1440, 4.0/60),
	}}
}

// Simulation combines a subject, compounds and events into a model. The
// subject is held as a deep clone of the template individual.
type Simulation struct {
	BlockInfo
	Individual           *Individual
	IndividualTemplateID string
	PopulationTemplateID string
	CompoundTemplateIDs  []string
	EventProperties      *EventProperties
	OutputSelections     []string
	OutputSchema         *OutputSchema
	Solver               SolverSettings
	AdvancedParameters   []*AdvancedParameter
	ObservedData         []string
}

// NewSimulation builds an individual simulation
func NewSimulation(name string, individual *Individual, compounds []*Compound) *Simulation {
	sim := newSimulation(name, individual, compounds)
	sim.IndividualTemplateID = individual.ID
	return sim
}

// NewPopulationSimulation builds a simulation for a population
func NewPopulationSimulation(name string, population *Population, compounds []*Compound) *Simulation {
	sim := newSimulation(name, population.FirstIndividual, compounds)
	sim.PopulationTemplateID = population.ID
	sim.AdvancedParameters = make([]*AdvancedParameter, 0, len(population.AdvancedParameters))
	for _, ap := range population.AdvancedParameters {
		c := *ap
		sim.AdvancedParameters = append(sim.AdvancedParameters, &c)
	}
	return sim
}

func newSimulation(name string, subject *Individual, compounds []*Compound) *Simulation {
	sim := &Simulation{
		BlockInfo:       newBlockInfo(name),
		Individual:      subject.Clone(),
		EventProperties: &EventProperties{},
		OutputSchema:    DefaultOutputSchema(),
		Solver:          DefaultSolverSettings(),
	}
	sim.Root.AddContainer(sim.Individual.Organism().CloneWith(sim.linkTo(sim.Individual.ID)))
	for _, c := range compounds {
		sim.AddCompound(c)
	}
	return sim
}

func (s *Simulation) Type() BuildingBlockType { return TypeSimulation }

// Model returns the simulation's model root
func (s *Simulation) Model() *Container {
	return s.Root
}

// IsPopulationSimulation reports whether the subject is a population
func (s *Simulation) IsPopulationSimulation() bool {
	return s.PopulationTemplateID != ""
}

// AddCompound clones the compound parameters into the model
func (s *Simulation) AddCompound(c *Compound) {
	s.Root.AddContainer(c.Root.CloneWith(s.linkTo(c.ID)))
	s.CompoundTemplateIDs = append(s.CompoundTemplateIDs, c.ID)
}

// LinkParameter points a model parameter at the building block parameter it
// derives from and takes its value as default
func (s *Simulation) LinkParameter(modelParam *Parameter, buildingBlockID string, source *Parameter) {
	modelParam.Origin = Origin{
		BuildingBlockID: buildingBlockID,
		ParameterID:     source.ID,
		SimulationID:    s.ID,
	}
	v := source.Value()
	modelParam.DefaultValue = &v
}

func (s *Simulation) linkTo(buildingBlockID string) func(source, clone *Parameter) {
	return func(source, clone *Parameter) {
		s.LinkParameter(clone, buildingBlockID, source)
	}
}
