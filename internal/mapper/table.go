package mapper

import (
	"fmt"

	"pksnap/internal/domain"
	"pksnap/internal/snapshot"
)

// TableFormulaMapper maps table formulas. Snapshot points are in display units.
type TableFormulaMapper struct{}

// MapToSnapshot converts a table formula
func (TableFormulaMapper) MapToSnapshot(t *domain.TableFormula) *snapshot.TableFormula {
	if t == nil {
		return nil
	}
	s := &snapshot.TableFormula{
		Name:             t.Name,
		XName:            t.XName,
		XDimension:       t.XDimension.Name,
		XUnit:            t.XDisplayUnit.Name,
		YName:            t.YName,
		YDimension:       t.YDimension.Name,
		YUnit:            t.YDisplayUnit.Name,
		UseDerivedValues: t.UseDerivedValues,
		Points:           make([]*snapshot.ValuePoint, 0, len(t.Points())),
	}
	for _, p := range t.Points() {
		s.Points = append(s.Points, &snapshot.ValuePoint{
			X:             t.XDimension.FromBase(t.XDisplayUnit, p.X),
			Y:             t.YDimension.FromBase(t.YDisplayUnit, p.Y),
			RestartSolver: p.RestartSolver,
		})
	}
	return s
}

// MapToModel builds a table formula
func (m TableFormulaMapper) MapToModel(s *snapshot.TableFormula) (*domain.TableFormula, error) {
	t := &domain.TableFormula{}
	if err := m.updateModel(t, s); err != nil {
		return nil, err
	}
	return t, nil
}

func (TableFormulaMapper) updateModel(t *domain.TableFormula, s *snapshot.TableFormula) error {
	xDim, err := domain.DimensionByName(s.XDimension)
	if err != nil {
		return fmt.Errorf("table %s: %w", s.Name, err)
	}
	yDim, err := domain.DimensionByName(s.YDimension)
	if err != nil {
		return fmt.Errorf("table %s: %w", s.Name, err)
	}
	xUnit, err := xDim.Unit(s.XUnit)
	if err != nil {
		return fmt.Errorf("table %s: %w", s.Name, err)
	}
	yUnit, err := yDim.Unit(s.YUnit)
	if err != nil {
		return fmt.Errorf("table %s: %w", s.Name, err)
	}

	*t = *domain.NewTableFormula(s.XName, xDim, s.YName, yDim)
	t.Name = s.Name
	t.XDisplayUnit = xUnit
	t.YDisplayUnit = yUnit
	t.UseDerivedValues = s.UseDerivedValues
	for _, p := range s.Points {
		t.AddValuePoint(domain.ValuePoint{
			X:             xDim.ToBase(xUnit, p.X),
			Y:             yDim.ToBase(yUnit, p.Y),
			RestartSolver: p.RestartSolver,
		})
	}
	return nil
}

// DistributedTableFormulaMapper maps distributed tables. Distribution kinds
// are written as their stable ids.
type DistributedTableFormulaMapper struct {
	tables TableFormulaMapper
}

// MapToSnapshot converts a distributed table
func (m DistributedTableFormulaMapper) MapToSnapshot(t *domain.DistributedTableFormula) *snapshot.DistributedTableFormula {
	if t == nil {
		return nil
	}
	s := &snapshot.DistributedTableFormula{
		TableFormula: *m.tables.MapToSnapshot(&t.TableFormula),
		Percentile:   t.Percentile,
	}
	for _, md := range t.AllDistributionMetaData() {
		s.DistributionMetaData = append(s.DistributionMetaData, &snapshot.DistributionMetaData{
			Mean:         md.Mean,
			Deviation:    md.Deviation,
			Distribution: md.Distribution.ID,
		})
	}
	return s
}

// MapToModel builds a distributed table. Metadata must be present for every
// point; it may be absent only for an empty table.
func (m DistributedTableFormulaMapper) MapToModel(s *snapshot.DistributedTableFormula) (*domain.DistributedTableFormula, error) {
	if s.DistributionMetaData == nil && len(s.Points) > 0 {
		return nil, fmt.Errorf("table %s: distribution metadata missing for %d points", s.Name, len(s.Points))
	}
	if s.DistributionMetaData != nil && len(s.DistributionMetaData) != len(s.Points) {
		return nil, fmt.Errorf("table %s: %d distribution metadata entries for %d points",
			s.Name, len(s.DistributionMetaData), len(s.Points))
	}

	t := &domain.DistributedTableFormula{}
	if err := m.tables.updateModel(&t.TableFormula, &s.TableFormula); err != nil {
		return nil, err
	}
	t.Percentile = s.Percentile
	for _, md := range s.DistributionMetaData {
		kind, err := domain.DistributionByID(md.Distribution)
		if err != nil {
			return nil, fmt.Errorf("table %s: %w", s.Name, err)
		}
		t.AddDistributionMetaData(domain.DistributionMetaData{
			Mean:         md.Mean,
			Deviation:    md.Deviation,
			Distribution: kind,
		})
	}
	return t, nil
}
