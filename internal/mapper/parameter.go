package mapper

import (
	"fmt"
	"math"
	"sort"

	"pksnap/internal/domain"
	"pksnap/internal/snapshot"
)

// PathResolver computes the snapshot path of a parameter
type PathResolver func(*domain.Parameter) string

// RelativeTo resolves paths below the given container
func RelativeTo(c *domain.Container) PathResolver {
	return func(p *domain.Parameter) string { return domain.RelativePath(p, c) }
}

// ParameterMapper maps parameter values, display units and table formulas
type ParameterMapper struct {
	tables TableFormulaMapper
}

// MapToSnapshot converts a parameter. Unfixed table parameters carry only
// their table so that reloading does not pin the value.
func (m ParameterMapper) MapToSnapshot(p *domain.Parameter) *snapshot.Parameter {
	s := &snapshot.Parameter{
		Name:             p.Name,
		Unit:             p.DisplayUnit.Name,
		ValueDescription: p.ValueDescription,
	}

	table := tableOf(p.Formula())
	if table != nil {
		s.TableFormula = m.tables.MapToSnapshot(table)
	}
	if table == nil || p.IsFixedValue() {
		if v := p.ValueInDisplayUnit(); !math.IsNaN(v) {
			s.Value = &v
		}
	}
	return s
}

// MapToLocalized converts a parameter addressed by path
func (m ParameterMapper) MapToLocalized(p *domain.Parameter, path string) *snapshot.LocalizedParameter {
	s := m.MapToSnapshot(p)
	s.Name = ""
	return &snapshot.LocalizedParameter{Path: path, Parameter: *s}
}

// UpdateParameter applies a snapshot to an existing parameter. The display
// unit and table formula are applied before the value, and the value is only
// written when it differs from the current one.
func (m ParameterMapper) UpdateParameter(p *domain.Parameter, s *snapshot.Parameter) error {
	p.ValueDescription = s.ValueDescription
	if err := p.SetDisplayUnit(s.Unit); err != nil {
		return fmt.Errorf("parameter %s: %w", p.Name, err)
	}

	if s.TableFormula != nil {
		table, err := m.tables.MapToModel(s.TableFormula)
		if err != nil {
			return fmt.Errorf("parameter %s: %w", p.Name, err)
		}
		if current, ok := p.Formula().(*domain.TableFormula); !ok || !current.Equal(table) {
			p.SetFormula(table)
		}
	}

	if s.Value == nil {
		return nil
	}
	value := p.ConvertToBaseUnit(*s.Value)
	if domain.AreValuesEqual(value, p.Value()) {
		return nil
	}
	p.SetValue(value)
	return nil
}

// ParametersFrom converts the parameters sorted by name
func (m ParameterMapper) ParametersFrom(params []*domain.Parameter) []*snapshot.Parameter {
	if len(params) == 0 {
		return nil
	}
	out := make([]*snapshot.Parameter, 0, len(params))
	for _, p := range params {
		out = append(out, m.MapToSnapshot(p))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// LocalizedParametersFrom converts the parameters sorted by path
func (m ParameterMapper) LocalizedParametersFrom(params []*domain.Parameter, resolve PathResolver) []*snapshot.LocalizedParameter {
	if len(params) == 0 {
		return nil
	}
	out := make([]*snapshot.LocalizedParameter, 0, len(params))
	for _, p := range params {
		out = append(out, m.MapToLocalized(p, resolve(p)))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

// MapParameters applies named snapshots to the direct parameters of a container
func (m ParameterMapper) MapParameters(snapshots []*snapshot.Parameter, container *domain.Container) error {
	for _, s := range snapshots {
		p := container.Parameter(s.Name)
		if p == nil {
			return &ParameterNotFoundError{Path: s.Name, Container: container.Name}
		}
		if err := m.UpdateParameter(p, s); err != nil {
			return err
		}
	}
	return nil
}

// MapLocalizedParameters applies localized snapshots to the descendants of a
// container. Every path must resolve.
func (m ParameterMapper) MapLocalizedParameters(snapshots []*snapshot.LocalizedParameter, container *domain.Container, resolve PathResolver) error {
	if len(snapshots) == 0 {
		return nil
	}
	cache := make(map[string]*domain.Parameter)
	for _, p := range container.AllParameters() {
		cache[resolve(p)] = p
	}
	for _, s := range snapshots {
		p, ok := cache[s.Path]
		if !ok {
			return &ParameterNotFoundError{Path: s.Path, Container: container.Name}
		}
		if err := m.UpdateParameter(p, &s.Parameter); err != nil {
			return fmt.Errorf("%s: %w", s.Path, err)
		}
	}
	return nil
}

// ChangedParameters filters the parameters whose value differs from the default
func ChangedParameters(params []*domain.Parameter) []*domain.Parameter {
	var out []*domain.Parameter
	for _, p := range params {
		if p.ValueDiffersFromDefault() || isChangedTable(p) {
			out = append(out, p)
		}
	}
	return out
}

func isChangedTable(p *domain.Parameter) bool {
	return p.Editable && tableOf(p.Formula()) != nil
}

func tableOf(f domain.Formula) *domain.TableFormula {
	switch t := f.(type) {
	case *domain.TableFormula:
		return t
	case *domain.DistributedTableFormula:
		return &t.TableFormula
	}
	return nil
}
