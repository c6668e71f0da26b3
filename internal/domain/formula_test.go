package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTableFormula(t *testing.T) {
	table := NewTableFormula("Time", Time, "Fraction", Fraction)
	table.AddPoint(10, 1)
	table.AddPoint(0, 0)
	table.AddPoint(5, 0.2)
	table.AddPoint(5, 0.5)

	t.Run("points stay ordered and unique", func(t *testing.T) {
		points := table.Points()
		require.Len(t, points, 3)
		assert.Equal(t, []float64{0, 5, 10}, []float64{points[0].X, points[1].X, points[2].X})
		assert.Equal(t, 0.5, points[1].Y)
	})

	t.Run("interpolates", func(t *testing.T) {
		v, err := table.ValueAt(7.5)
		require.NoError(t, err)
		assert.InDelta(t, 0.75, v, 1e-12)
	})

	t.Run("clamps outside the range", func(t *testing.T) {
		v, err := table.ValueAt(-1)
		require.NoError(t, err)
		assert.Equal(t, 0.0, v)
		v, err = table.ValueAt(100)
		require.NoError(t, err)
		assert.Equal(t, 1.0, v)
	})

	t.Run("empty table", func(t *testing.T) {
		_, err := NewTableFormula("x", nil, "y", nil).Calculate()
		assert.Error(t, err)
	})
}

func TestDistributedTableFormulaClone(t *testing.T) {
	table := NewDistributedTableFormula("Age", Age, "Ontogeny factor", Dimensionless)
	table.AddPoint(0, 0.1)
	table.AddDistributionMetaData(DistributionMetaData{Mean: 0.1, Deviation: 1.2, Distribution: DistributionLogNormal})
	table.Percentile = 0.3

	clone, ok := table.Clone().(*DistributedTableFormula)
	require.True(t, ok)
	assert.Equal(t, FormulaDistributedTable, clone.Kind())
	assert.Equal(t, 0.3, clone.Percentile)
	assert.Equal(t, table.AllDistributionMetaData(), clone.AllDistributionMetaData())
	assert.Equal(t, table.Points(), clone.Points())

	clone.AddDistributionMetaData(DistributionMetaData{})
	assert.Len(t, table.AllDistributionMetaData(), 1)
}

func TestDistributedFormulaCalculate(t *testing.T) {
	f := NewDistributedFormula(DistributionNormal, 1.7, 0.1)
	v, err := f.Calculate()
	require.NoError(t, err)
	assert.InDelta(t, 1.7, v, 1e-12)

	f.Percentile = 0.8
	v, err = f.Calculate()
	require.NoError(t, err)
	assert.Greater(t, v, 1.7)
}
