package loader

import (
	"bytes"
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pksnap/internal/converter"
	"pksnap/internal/domain"
	"pksnap/internal/factory"
	"pksnap/internal/lookup/sqlite"
)

func newTestLoader(t *testing.T) *Loader {
	t.Helper()
	repo, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	return New(converter.Default(factory.New(repo), nil))
}

func loadFixture(t *testing.T, l *Loader) (*domain.Project, int) {
	t.Helper()
	f, err := os.Open("testdata/project_510.xml")
	require.NoError(t, err)
	defer f.Close()

	p, version, err := l.Load(context.Background(), f)
	require.NoError(t, err)
	return p, version
}

func TestLoadLegacyProject(t *testing.T) {
	p, version := loadFixture(t, newTestLoader(t))
	assert.Equal(t, converter.V5_1_0, version)
	assert.Equal(t, "Midazolam study", p.Name)

	ind, ok := domain.ByName[*domain.Individual](p, "Adult")
	require.True(t, ok)

	t.Run("origin data moved out of the individual element", func(t *testing.T) {
		assert.Equal(t, "Human", ind.Species())
		assert.Equal(t, domain.GenderMale, ind.OriginData.Gender)
		require.NotNil(t, ind.OriginData.Age)
		assert.Equal(t, 30.0, *ind.OriginData.Age)
	})

	t.Run("distribution names resolved", func(t *testing.T) {
		weight := ind.Organism().Parameter(domain.ParamWeight)
		require.NotNil(t, weight)
		f, ok := weight.Formula().(*domain.DistributedFormula)
		require.True(t, ok)
		assert.Equal(t, domain.DistributionNormal, f.Distribution)
		assert.True(t, weight.IsFixedValue())
		assert.Equal(t, 80.0, weight.Value())
	})

	t.Run("5.2.2 parameters added", func(t *testing.T) {
		assert.NotNil(t, ind.Root.ParameterAt("Organism|Lumen|Stomach|"+domain.ParamGETAlphaVariability))
		assert.NotNil(t, ind.Root.ParameterAt("Organism|Lumen|Stomach|"+domain.ParamGETBetaVariability))
		assert.NotNil(t, ind.Root.ParameterAt("Organism|LargeIntestine|"+domain.ParamLITTFactor))
		assert.True(t, ind.HasCalculationMethod(domain.CalculationMethodRenalAgingHuman))
	})

	t.Run("compound parameter renamed", func(t *testing.T) {
		c, ok := domain.ByName[*domain.Compound](p, "Midazolam")
		require.True(t, ok)
		assert.Nil(t, c.Root.Parameter("Fraction unbound (plasma)"))
		assert.NotNil(t, c.Root.Parameter(domain.ParamFractionUnbound))
	})

	t.Run("body surface area flags", func(t *testing.T) {
		bsa := ind.Organism().Parameter(domain.ParamBSA)
		require.NotNil(t, bsa)
		assert.True(t, bsa.CanBeVaried)
		assert.False(t, bsa.CanBeVariedInPopulation)
	})

	t.Run("simulation relinked", func(t *testing.T) {
		sim, ok := domain.ByName[*domain.Simulation](p, "S1")
		require.True(t, ok)
		litt := sim.Model().ParameterAt("Organism|LargeIntestine|" + domain.ParamLITTFactor)
		require.NotNil(t, litt)
		require.NotNil(t, sim.Individual)
		assert.Equal(t, sim.Individual.ID, litt.Origin.BuildingBlockID)
		assert.Equal(t, sim.Individual.Root.ParameterAt("Organism|LargeIntestine|"+domain.ParamLITTFactor).ID, litt.Origin.ParameterID)
		assert.NotNil(t, sim.Model().ParameterAt("Organism|Lumen|Stomach|"+domain.ParamGETAlphaVariability))

		require.Len(t, sim.EventProperties.EventMappings, 1)
		assert.Equal(t, 120.0, sim.EventProperties.EventMappings[0].StartTime.Value())
		assert.Equal(t, []string{"Organism|PeripheralVenousBlood|Midazolam|Plasma"}, sim.OutputSelections)
	})
}

func TestWriteReload(t *testing.T) {
	l := newTestLoader(t)
	p, _ := loadFixture(t, l)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, p))
	assert.Contains(t, buf.String(), `version="720"`)
	assert.NotContains(t, buf.String(), `distribution="`)

	reloaded, version, err := l.Load(context.Background(), &buf)
	require.NoError(t, err)
	assert.Equal(t, converter.CurrentVersion, version)

	before, _ := domain.ByName[*domain.Individual](p, "Adult")
	after, ok := domain.ByName[*domain.Individual](reloaded, "Adult")
	require.True(t, ok)
	for _, param := range before.OwnParameters() {
		path := domain.RelativePath(param, before.Root)
		got := after.Root.ParameterAt(path)
		if assert.NotNil(t, got, path) {
			assert.Equal(t, param.IsFixedValue(), got.IsFixedValue(), path)
			assert.True(t, domain.AreValuesEqual(param.Value(), got.Value()), path)
		}
	}
	assert.Equal(t, before.CalculationMethods, after.CalculationMethods)

	sim, ok := domain.ByName[*domain.Simulation](reloaded, "S1")
	require.True(t, ok)
	assert.Equal(t, 120.0, sim.EventProperties.EventMappings[0].StartTime.Value())
}

func TestLoadRejectsInvalidFiles(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"not a project", `<Simulation name="x"/>`},
		{"missing version", `<Project name="x"/>`},
		{"newer version", `<Project name="x" version="999"/>`},
		{"too old", `<Project name="x" version="400"/>`},
		{"unknown reference", `<Project name="x" version="720"><Simulation name="S" individual="Nobody"/></Project>`},
	}
	l := newTestLoader(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := l.Load(context.Background(), bytes.NewBufferString(tt.doc))
			assert.Error(t, err)
		})
	}
}
