package domain

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

// FormulaKind tags the formula variants
type FormulaKind string

const (
	FormulaConstant         FormulaKind = "Constant"
	FormulaExplicit         FormulaKind = "Explicit"
	FormulaDistributed      FormulaKind = "Distributed"
	FormulaTable            FormulaKind = "Table"
	FormulaDistributedTable FormulaKind = "DistributedTable"
)

// ErrNotEvaluable is returned by formulas that need a simulation context to compute
var ErrNotEvaluable = errors.New("formula cannot be evaluated outside a simulation")

// Formula computes the base unit value of a parameter
type Formula interface {
	Kind() FormulaKind
	Calculate() (float64, error)
	Clone() Formula
}

// ConstantFormula holds a fixed base unit value
type ConstantFormula struct {
	Value float64
}

func (f *ConstantFormula) Kind() FormulaKind           { return FormulaConstant }
func (f *ConstantFormula) Calculate() (float64, error) { return f.Value, nil }
func (f *ConstantFormula) Clone() Formula              { c := *f; return &c }

// ExplicitFormula is an expression evaluated by the simulation engine
type ExplicitFormula struct {
	Name       string
	Expression string
}

func (f *ExplicitFormula) Kind() FormulaKind { return FormulaExplicit }
func (f *ExplicitFormula) Calculate() (float64, error) {
	return math.NaN(), fmt.Errorf("%w: %s", ErrNotEvaluable, f.Expression)
}
func (f *ExplicitFormula) Clone() Formula { c := *f; return &c }

// DistributedFormula evaluates the quantile of a distribution at Percentile
type DistributedFormula struct {
	Distribution DistributionKind
	Mean         float64
	Deviation    float64
	Percentile   float64
}

// NewDistributedFormula creates a distributed formula at the median
func NewDistributedFormula(kind DistributionKind, mean, deviation float64) *DistributedFormula {
	return &DistributedFormula{Distribution: kind, Mean: mean, Deviation: deviation, Percentile: 0.5}
}

func (f *DistributedFormula) Kind() FormulaKind { return FormulaDistributed }
func (f *DistributedFormula) Calculate() (float64, error) {
	return f.Distribution.Quantile(f.Mean, f.Deviation, f.Percentile)
}
func (f *DistributedFormula) Clone() Formula { c := *f; return &c }

// ValuePoint is one (x, y) pair of a table formula, in base units
type ValuePoint struct {
	X             float64
	Y             float64
	RestartSolver bool
}

// TableFormula interpolates linearly between ordered points.
// Calculate evaluates the table at x = 0.
type TableFormula struct {
	Name             string
	XName            string
	YName            string
	XDimension       *Dimension
	YDimension       *Dimension
	XDisplayUnit     Unit
	YDisplayUnit     Unit
	UseDerivedValues bool
	points           []ValuePoint
}

// NewTableFormula creates an empty table with base display units
func NewTableFormula(xName string, xDim *Dimension, yName string, yDim *Dimension) *TableFormula {
	if xDim == nil {
		xDim = Dimensionless
	}
	if yDim == nil {
		yDim = Dimensionless
	}
	return &TableFormula{
		XName:        xName,
		YName:        yName,
		XDimension:   xDim,
		YDimension:   yDim,
		XDisplayUnit: xDim.DefaultUnit(),
		YDisplayUnit: yDim.DefaultUnit(),
	}
}

// AddPoint inserts a point keeping x order. An existing point at x is replaced.
func (t *TableFormula) AddPoint(x, y float64) {
	t.AddValuePoint(ValuePoint{X: x, Y: y})
}

// AddValuePoint inserts a point keeping x order. An existing point at the same x is replaced.
func (t *TableFormula) AddValuePoint(p ValuePoint) {
	i := sort.Search(len(t.points), func(i int) bool { return t.points[i].X >= p.X })
	if i < len(t.points) && t.points[i].X == p.X {
		t.points[i] = p
		return
	}
	t.points = append(t.points, ValuePoint{})
	copy(t.points[i+1:], t.points[i:])
	t.points[i] = p
}

// Points returns a copy of the points ordered by x
func (t *TableFormula) Points() []ValuePoint {
	out := make([]ValuePoint, len(t.points))
	copy(out, t.points)
	return out
}

// ValueAt interpolates the table at x. Values outside the range are clamped.
func (t *TableFormula) ValueAt(x float64) (float64, error) {
	n := len(t.points)
	if n == 0 {
		return math.NaN(), errors.New("table formula has no points")
	}
	if x <= t.points[0].X {
		return t.points[0].Y, nil
	}
	if x >= t.points[n-1].X {
		return t.points[n-1].Y, nil
	}
	i := sort.Search(n, func(i int) bool { return t.points[i].X >= x })
	p0, p1 := t.points[i-1], t.points[i]
	return p0.Y + (p1.Y-p0.Y)*(x-p0.X)/(p1.X-p0.X), nil
}

func (t *TableFormula) Kind() FormulaKind           { return FormulaTable }
func (t *TableFormula) Calculate() (float64, error) { return t.ValueAt(0) }
func (t *TableFormula) Clone() Formula              { return t.clone() }

func (t *TableFormula) clone() *TableFormula {
	c := *t
	c.points = t.Points()
	return &c
}

// DistributionMetaData describes the distribution behind one table point
type DistributionMetaData struct {
	Mean         float64
	Deviation    float64
	Distribution DistributionKind
}

// DistributedTableFormula is a table whose points carry distribution metadata,
// evaluated at Percentile.
type DistributedTableFormula struct {
	TableFormula
	Percentile float64
	metaData   []DistributionMetaData
}

// NewDistributedTableFormula creates an empty distributed table at the median
func NewDistributedTableFormula(xName string, xDim *Dimension, yName string, yDim *Dimension) *DistributedTableFormula {
	return &DistributedTableFormula{
		TableFormula: *NewTableFormula(xName, xDim, yName, yDim),
		Percentile:   0.5,
	}
}

// AddDistributionMetaData appends the metadata of the next point
func (t *DistributedTableFormula) AddDistributionMetaData(m DistributionMetaData) {
	t.metaData = append(t.metaData, m)
}

// AllDistributionMetaData returns a copy of the per-point metadata
func (t *DistributedTableFormula) AllDistributionMetaData() []DistributionMetaData {
	out := make([]DistributionMetaData, len(t.metaData))
	copy(out, t.metaData)
	return out
}

func (t *DistributedTableFormula) Kind() FormulaKind { return FormulaDistributedTable }

func (t *DistributedTableFormula) Clone() Formula {
	c := &DistributedTableFormula{
		TableFormula: *t.TableFormula.clone(),
		Percentile:   t.Percentile,
	}
	c.metaData = t.AllDistributionMetaData()
	return c
}

// Equal reports whether two tables describe the same curve with the same
// names and units
func (t *TableFormula) Equal(o *TableFormula) bool {
	if t == nil || o == nil {
		return t == o
	}
	if t.Name != o.Name || t.XName != o.XName || t.YName != o.YName ||
		t.XDimension != o.XDimension || t.YDimension != o.YDimension ||
		t.XDisplayUnit != o.XDisplayUnit || t.YDisplayUnit != o.YDisplayUnit ||
		t.UseDerivedValues != o.UseDerivedValues || len(t.points) != len(o.points) {
		return false
	}
	for i, p := range t.points {
		q := o.points[i]
		if !AreValuesEqual(p.X, q.X) || !AreValuesEqual(p.Y, q.Y) || p.RestartSolver != q.RestartSolver {
			return false
		}
	}
	return true
}

// Equal reports whether two distributed tables match, metadata and percentile included
func (t *DistributedTableFormula) Equal(o *DistributedTableFormula) bool {
	if t == nil || o == nil {
		return t == o
	}
	if !t.TableFormula.Equal(&o.TableFormula) || !AreValuesEqual(t.Percentile, o.Percentile) ||
		len(t.metaData) != len(o.metaData) {
		return false
	}
	for i, m := range t.metaData {
		n := o.metaData[i]
		if m.Distribution != n.Distribution || !AreValuesEqual(m.Mean, n.Mean) || !AreValuesEqual(m.Deviation, n.Deviation) {
			return false
		}
	}
	return true
}
