package snapshot

// CurrentVersion is the snapshot schema version written by this package.
// Version 1 stored distributions by name, version 2 by id.
const CurrentVersion = 2

// Project is the root of a snapshot file
type Project struct {
	Version     int           `json:"Version" yaml:"Version"`
	Name        string        `json:"Name" yaml:"Name"`
	Description string        `json:"Description,omitempty" yaml:"Description,omitempty"`
	Individuals []*Individual `json:"Individuals,omitempty" yaml:"Individuals,omitempty"`
	Compounds   []*Compound   `json:"Compounds,omitempty" yaml:"Compounds,omitempty"`
	Events      []*Event      `json:"Events,omitempty" yaml:"Events,omitempty"`
	Populations []*Population `json:"Populations,omitempty" yaml:"Populations,omitempty"`
	Simulations []*Simulation `json:"Simulations,omitempty" yaml:"Simulations,omitempty"`
}

// Parameter is a parameter value in display units. A missing Value leaves
// the target untouched, as does a missing TableFormula. An empty Unit is the
// base unit of the parameter's dimension.
type Parameter struct {
	Name             string        `json:"Name,omitempty" yaml:"Name,omitempty"`
	Value            *float64      `json:"Value,omitempty" yaml:"Value,omitempty"`
	Unit             string        `json:"Unit,omitempty" yaml:"Unit,omitempty"`
	ValueDescription string        `json:"ValueDescription,omitempty" yaml:"ValueDescription,omitempty"`
	TableFormula     *TableFormula `json:"TableFormula,omitempty" yaml:"TableFormula,omitempty"`
}

// LocalizedParameter is a parameter addressed by its path below a building block
type LocalizedParameter struct {
	Path      string `json:"Path" yaml:"Path"`
	Parameter `yaml:",inline"`
}

// ValuePoint is a table point in display units
type ValuePoint struct {
	X             float64 `json:"X" yaml:"X"`
	Y             float64 `json:"Y" yaml:"Y"`
	RestartSolver bool    `json:"RestartSolver,omitempty" yaml:"RestartSolver,omitempty"`
}

// TableFormula is a table of points in display units
type TableFormula struct {
	Name             string        `json:"Name,omitempty" yaml:"Name,omitempty"`
	XName            string        `json:"XName,omitempty" yaml:"XName,omitempty"`
	XDimension       string        `json:"XDimension,omitempty" yaml:"XDimension,omitempty"`
	XUnit            string        `json:"XUnit,omitempty" yaml:"XUnit,omitempty"`
	YName            string        `json:"YName,omitempty" yaml:"YName,omitempty"`
	YDimension       string        `json:"YDimension,omitempty" yaml:"YDimension,omitempty"`
	YUnit            string        `json:"YUnit,omitempty" yaml:"YUnit,omitempty"`
	UseDerivedValues bool          `json:"UseDerivedValues,omitempty" yaml:"UseDerivedValues,omitempty"`
	Points           []*ValuePoint `json:"Points" yaml:"Points"`
}

// DistributionMetaData is the distribution behind one table point. Distribution is the stable kind id.
type DistributionMetaData struct {
	Mean         float64 `json:"Mean" yaml:"Mean"`
	Deviation    float64 `json:"Deviation" yaml:"Deviation"`
	Distribution int     `json:"Distribution" yaml:"Distribution"`
}

// DistributedTableFormula is a table with one metadata entry per point.
// DistributionMetaData may be absent only for a table without points.
type DistributedTableFormula struct {
	TableFormula         `yaml:",inline"`
	Percentile           float64                 `json:"Percentile" yaml:"Percentile"`
	DistributionMetaData []*DistributionMetaData `json:"DistributionMetaData,omitempty" yaml:"DistributionMetaData,omitempty"`
}

// Ontogeny references a database ontogeny by name when Table is absent, and
// carries a user defined table otherwise
type Ontogeny struct {
	Name        string                   `json:"Name" yaml:"Name"`
	Description string                   `json:"Description,omitempty" yaml:"Description,omitempty"`
	Table       *DistributedTableFormula `json:"Table,omitempty" yaml:"Table,omitempty"`
}

// Molecule is an expressed protein. Location fields are written for
// non-transporters, TransportType for transporters.
type Molecule struct {
	Name                              string                `json:"Name" yaml:"Name"`
	Description                       string                `json:"Description,omitempty" yaml:"Description,omitempty"`
	Type                              string                `json:"Type" yaml:"Type"`
	MembraneLocation                  *string               `json:"MembraneLocation,omitempty" yaml:"MembraneLocation,omitempty"`
	TissueLocation                    *string               `json:"TissueLocation,omitempty" yaml:"TissueLocation,omitempty"`
	IntracellularVascularEndoLocation *string               `json:"IntracellularVascularEndoLocation,omitempty" yaml:"IntracellularVascularEndoLocation,omitempty"`
	TransportType                     *string               `json:"TransportType,omitempty" yaml:"TransportType,omitempty"`
	Parameters                        []*Parameter          `json:"Parameters,omitempty" yaml:"Parameters,omitempty"`
	Expression                        []*LocalizedParameter `json:"Expression,omitempty" yaml:"Expression,omitempty"`
	Ontogeny                          *Ontogeny             `json:"Ontogeny,omitempty" yaml:"Ontogeny,omitempty"`
}

// OriginData is what an individual was created from
type OriginData struct {
	Species            string     `json:"Species" yaml:"Species"`
	Population         string     `json:"Population,omitempty" yaml:"Population,omitempty"`
	Gender             string     `json:"Gender,omitempty" yaml:"Gender,omitempty"`
	Age                *Parameter `json:"Age,omitempty" yaml:"Age,omitempty"`
	CalculationMethods []string   `json:"CalculationMethods,omitempty" yaml:"CalculationMethods,omitempty"`
}

// Individual stores origin data and the parameters changed from their defaults
type Individual struct {
	Name        string                `json:"Name" yaml:"Name"`
	Description string                `json:"Description,omitempty" yaml:"Description,omitempty"`
	Seed        int64                 `json:"Seed,omitempty" yaml:"Seed,omitempty"`
	OriginData  *OriginData           `json:"OriginData" yaml:"OriginData"`
	Parameters  []*LocalizedParameter `json:"Parameters,omitempty" yaml:"Parameters,omitempty"`
	Molecules   []*Molecule           `json:"Molecules,omitempty" yaml:"Molecules,omitempty"`
}

// Compound stores the parameters changed from their defaults
type Compound struct {
	Name            string                `json:"Name" yaml:"Name"`
	Description     string                `json:"Description,omitempty" yaml:"Description,omitempty"`
	IsSmallMolecule bool                  `json:"IsSmallMolecule" yaml:"IsSmallMolecule"`
	Parameters      []*LocalizedParameter `json:"Parameters,omitempty" yaml:"Parameters,omitempty"`
}

// Event stores its template and changed parameters
type Event struct {
	Name        string                `json:"Name" yaml:"Name"`
	Description string                `json:"Description,omitempty" yaml:"Description,omitempty"`
	Template    string                `json:"Template" yaml:"Template"`
	Parameters  []*LocalizedParameter `json:"Parameters,omitempty" yaml:"Parameters,omitempty"`
}

// Range is an optional interval in Unit
type Range struct {
	Min  *float64 `json:"Min,omitempty" yaml:"Min,omitempty"`
	Max  *float64 `json:"Max,omitempty" yaml:"Max,omitempty"`
	Unit string   `json:"Unit,omitempty" yaml:"Unit,omitempty"`
}

// PopulationSettings drive random population creation
type PopulationSettings struct {
	NumberOfIndividuals int     `json:"NumberOfIndividuals" yaml:"NumberOfIndividuals"`
	ProportionOfFemales float64 `json:"ProportionOfFemales" yaml:"ProportionOfFemales"`
	Age                 *Range  `json:"Age,omitempty" yaml:"Age,omitempty"`
}

// AdvancedParameter varies a parameter across a population. Distribution is the stable kind id.
type AdvancedParameter struct {
	Name         string  `json:"Name" yaml:"Name"`
	Seed         int64   `json:"Seed" yaml:"Seed"`
	Distribution int     `json:"Distribution" yaml:"Distribution"`
	Mean         float64 `json:"Mean" yaml:"Mean"`
	Deviation    float64 `json:"Deviation" yaml:"Deviation"`
}

// Population stores its base individual, settings and advanced parameters
type Population struct {
	Name               string               `json:"Name" yaml:"Name"`
	Description        string               `json:"Description,omitempty" yaml:"Description,omitempty"`
	Seed               int64                `json:"Seed,omitempty" yaml:"Seed,omitempty"`
	Individual         *Individual          `json:"Individual" yaml:"Individual"`
	Settings           *PopulationSettings  `json:"Settings" yaml:"Settings"`
	AdvancedParameters []*AdvancedParameter `json:"AdvancedParameters,omitempty" yaml:"AdvancedParameters,omitempty"`
}

// EventSelection schedules an event by name
type EventSelection struct {
	Name      string     `json:"Name" yaml:"Name"`
	StartTime *Parameter `json:"StartTime,omitempty" yaml:"StartTime,omitempty"`
}

// SolverSettings configure the ODE solver
type SolverSettings struct {
	AbsTol      float64 `json:"AbsTol" yaml:"AbsTol"`
	RelTol      float64 `json:"RelTol" yaml:"RelTol"`
	UseJacobian bool    `json:"UseJacobian" yaml:"UseJacobian"`
	H0          float64 `json:"H0" yaml:"H0"`
	HMin        float64 `json:"HMin" yaml:"HMin"`
	HMax        float64 `json:"HMax" yaml:"HMax"`
	MxStep      int     `json:"MxStep" yaml:"MxStep"`
}

// OutputInterval is one segment of the output schema
type OutputInterval struct {
	Name       string     `json:"Name" yaml:"Name"`
	StartTime  *Parameter `json:"StartTime" yaml:"StartTime"`
	EndTime    *Parameter `json:"EndTime" yaml:"EndTime"`
	Resolution *Parameter `json:"Resolution" yaml:"Resolution"`
}

// CompoundProperties references a compound used by a simulation
type CompoundProperties struct {
	Name string `json:"Name" yaml:"Name"`
}

// Simulation references its building blocks by name and stores the model
// parameters changed from the building block values
type Simulation struct {
	Name               string                `json:"Name" yaml:"Name"`
	Description        string                `json:"Description,omitempty" yaml:"Description,omitempty"`
	Individual         string                `json:"Individual,omitempty" yaml:"Individual,omitempty"`
	Population         string                `json:"Population,omitempty" yaml:"Population,omitempty"`
	Compounds          []*CompoundProperties `json:"Compounds,omitempty" yaml:"Compounds,omitempty"`
	Events             []*EventSelection     `json:"Events,omitempty" yaml:"Events,omitempty"`
	Parameters         []*LocalizedParameter `json:"Parameters,omitempty" yaml:"Parameters,omitempty"`
	AdvancedParameters []*AdvancedParameter  `json:"AdvancedParameters,omitempty" yaml:"AdvancedParameters,omitempty"`
	Solver             *SolverSettings       `json:"Solver,omitempty" yaml:"Solver,omitempty"`
	OutputSchema       []*OutputInterval     `json:"OutputSchema,omitempty" yaml:"OutputSchema,omitempty"`
	OutputSelections   []string              `json:"OutputSelections,omitempty" yaml:"OutputSelections,omitempty"`
	ObservedData       []string              `json:"ObservedData,omitempty" yaml:"ObservedData,omitempty"`
}
