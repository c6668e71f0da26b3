package sqlite

import (
	"database/sql"

	"pksnap/internal/lookup"
)

// ============================================================================
// Null Type Conversion Helpers
// ============================================================================

// nullToString safely converts sql.NullString to string
func nullToString(ns sql.NullString) string {
	if ns.Valid {
		return ns.String
	}
	return ""
}

// nullToFloat converts sql.NullFloat64 to float64 (NULL = 0)
func nullToFloat(nf sql.NullFloat64) float64 {
	if nf.Valid {
		return nf.Float64
	}
	return 0
}

// nullToFloatPtr safely converts sql.NullFloat64 to *float64
func nullToFloatPtr(nf sql.NullFloat64) *float64 {
	if nf.Valid {
		v := nf.Float64
		return &v
	}
	return nil
}

// nullToInt converts sql.NullInt64 to int (NULL = 0)
func nullToInt(ni sql.NullInt64) int {
	if ni.Valid {
		return int(ni.Int64)
	}
	return 0
}

// intToBool converts an INTEGER flag column (0 = false, non-zero = true)
func intToBool(i int64) bool {
	return i != 0
}

// ============================================================================
// Schema Evolution Guide
// ============================================================================
//
// To add a column to a lookup table:
// 1. Add field to the row struct
// 2. Update scanArgs() - APPEND to end to match column order
// 3. Update the columns constant - APPEND to end
// 4. Update toDomain() to map the new field
// 5. Add the column to migrate() and seed.sql
//
// CRITICAL: Column order must match between the columns constant and scanArgs().

// ============================================================================
// Species Row Scanner
// ============================================================================

type speciesRow struct {
	Name           string
	DisplayName    sql.NullString
	IsAgeDependent int64
}

// scanArgs MUST match speciesColumns order exactly
func (r *speciesRow) scanArgs() []interface{} {
	return []interface{}{
		&r.Name,           // 1
		&r.DisplayName,    // 2
		&r.IsAgeDependent, // 3
	}
}

func (r *speciesRow) toDomain() lookup.Species {
	s := lookup.Species{
		Name:           r.Name,
		DisplayName:    nullToString(r.DisplayName),
		IsAgeDependent: intToBool(r.IsAgeDependent),
	}
	if s.DisplayName == "" {
		s.DisplayName = s.Name
	}
	return s
}

const speciesColumns = `name, display_name, is_age_dependent`

// ============================================================================
// Population Row Scanner
// ============================================================================

type populationRow struct {
	Name           string
	Species        string
	DisplayName    sql.NullString
	IsAgeDependent int64
}

// scanArgs MUST match populationColumns order exactly
func (r *populationRow) scanArgs() []interface{} {
	return []interface{}{
		&r.Name,           // 1
		&r.Species,        // 2
		&r.DisplayName,    // 3
		&r.IsAgeDependent, // 4
	}
}

func (r *populationRow) toDomain() lookup.Population {
	p := lookup.Population{
		Name:           r.Name,
		Species:        r.Species,
		DisplayName:    nullToString(r.DisplayName),
		IsAgeDependent: intToBool(r.IsAgeDependent),
	}
	if p.DisplayName == "" {
		p.DisplayName = p.Name
	}
	return p
}

const populationColumns = `name, species, display_name, is_age_dependent`

// ============================================================================
// Ontogeny Row Scanner
// ============================================================================

type ontogenyRow struct {
	Name        string
	Species     string
	DisplayName sql.NullString
	Description sql.NullString
}

// scanArgs MUST match ontogenyColumns order exactly
func (r *ontogenyRow) scanArgs() []interface{} {
	return []interface{}{
		&r.Name,        // 1
		&r.Species,     // 2
		&r.DisplayName, // 3
		&r.Description, // 4
	}
}

func (r *ontogenyRow) toDomain() lookup.Ontogeny {
	return lookup.Ontogeny{
		Name:        r.Name,
		Species:     r.Species,
		DisplayName: nullToString(r.DisplayName),
		Description: nullToString(r.Description),
	}
}

const ontogenyColumns = `name, species, display_name, description`

// ============================================================================
// Parameter Distribution Row Scanner
// ============================================================================

type distributionRow struct {
	Population     string
	Gender         string
	ParameterPath  string
	Age            float64
	Mean           float64
	Deviation      float64
	DistributionID int64
	Min            sql.NullFloat64
	Max            sql.NullFloat64
}

// scanArgs MUST match distributionColumns order exactly
func (r *distributionRow) scanArgs() []interface{} {
	return []interface{}{
		&r.Population,     // 1
		&r.Gender,         // 2
		&r.ParameterPath,  // 3
		&r.Age,            // 4
		&r.Mean,           // 5
		&r.Deviation,      // 6
		&r.DistributionID, // 7
		&r.Min,            // 8
		&r.Max,            // 9
	}
}

func (r *distributionRow) toDomain() lookup.ParameterDistribution {
	return lookup.ParameterDistribution{
		Population:     r.Population,
		Gender:         r.Gender,
		ParameterPath:  r.ParameterPath,
		Age:            r.Age,
		Mean:           r.Mean,
		Deviation:      r.Deviation,
		DistributionID: int(r.DistributionID),
		Min:            nullToFloatPtr(r.Min),
		Max:            nullToFloatPtr(r.Max),
	}
}

const distributionColumns = `population, gender, parameter_path, age, mean, deviation,
	distribution_id, min_value, max_value`

// ============================================================================
// Default Parameter Row Scanner
// ============================================================================

type templateRow struct {
	Template                string
	Path                    string
	Value                   float64
	Dimension               sql.NullString
	DisplayUnit             sql.NullString
	FormulaKind             string
	RateKey                 sql.NullString
	Mean                    sql.NullFloat64
	Deviation               sql.NullFloat64
	DistributionID          sql.NullInt64
	Editable                int64
	Visible                 int64
	CanBeVaried             int64
	CanBeVariedInPopulation int64
}

// scanArgs MUST match templateColumns order exactly:
// template, path, value, dimension, display_unit, formula_kind, rate_key,
// mean, deviation, distribution_id, editable, visible, can_be_varied,
// can_be_varied_in_population
func (r *templateRow) scanArgs() []interface{} {
	return []interface{}{
		&r.Template,                // 1
		&r.Path,                    // 2
		&r.Value,                   // 3
		&r.Dimension,               // 4
		&r.DisplayUnit,             // 5
		&r.FormulaKind,             // 6
		&r.RateKey,                 // 7
		&r.Mean,                    // 8
		&r.Deviation,               // 9
		&r.DistributionID,          // 10
		&r.Editable,                // 11
		&r.Visible,                 // 12
		&r.CanBeVaried,             // 13
		&r.CanBeVariedInPopulation, // 14
	}
}

func (r *templateRow) toDomain() lookup.ParameterTemplate {
	return lookup.ParameterTemplate{
		Template:                r.Template,
		Path:                    r.Path,
		Value:                   r.Value,
		Dimension:               nullToString(r.Dimension),
		DisplayUnit:             nullToString(r.DisplayUnit),
		FormulaKind:             r.FormulaKind,
		RateKey:                 nullToString(r.RateKey),
		Mean:                    nullToFloat(r.Mean),
		Deviation:               nullToFloat(r.Deviation),
		DistributionID:          nullToInt(r.DistributionID),
		Editable:                intToBool(r.Editable),
		Visible:                 intToBool(r.Visible),
		CanBeVaried:             intToBool(r.CanBeVaried),
		CanBeVariedInPopulation: intToBool(r.CanBeVariedInPopulation),
	}
}

const templateColumns = `template, path, value, dimension, display_unit, formula_kind, rate_key,
	mean, deviation, distribution_id, editable, visible, can_be_varied,
	can_be_varied_in_population`
