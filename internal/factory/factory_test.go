package factory

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pksnap/internal/domain"
	"pksnap/internal/lookup"
	"pksnap/internal/lookup/sqlite"
)

func newTestFactory(t *testing.T) *Factory {
	t.Helper()
	repo, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	return New(repo)
}

func TestCreateIndividual(t *testing.T) {
	f := newTestFactory(t)
	ctx := context.Background()

	age := 30.0
	ind, err := f.CreateIndividual(ctx, "Adult", domain.OriginData{
		Species:    "Human",
		Population: "European_ICRP_2002",
		Gender:     domain.GenderFemale,
		Age:        &age,
	})
	require.NoError(t, err)

	t.Run("template parameters are placed by path", func(t *testing.T) {
		stomach := ind.Root.ContainerAt(domain.Organism, domain.Lumen, domain.Stomach)
		require.NotNil(t, stomach)
		assert.NotNil(t, stomach.Parameter(domain.ParamGETAlphaVariability))
		assert.NotNil(t, ind.Root.ParameterAt("Organism|LargeIntestine|"+domain.ParamLITTFactor))
	})

	t.Run("population distribution overrides template", func(t *testing.T) {
		weight := ind.Organism().Parameter(domain.ParamWeight)
		require.NotNil(t, weight)
		assert.InDelta(t, 60, weight.Value(), 1e-9)
		assert.False(t, weight.ValueDiffersFromDefault())
		assert.Equal(t, "kg", weight.DisplayUnit.Name)
	})

	t.Run("explicit formulas come from rate keys", func(t *testing.T) {
		bsa := ind.Organism().Parameter(domain.ParamBSA)
		require.NotNil(t, bsa)
		f, ok := bsa.Formula().(*domain.ExplicitFormula)
		require.True(t, ok)
		assert.Equal(t, "BSA_Mosteller", f.Name)
		assert.True(t, math.IsNaN(bsa.Value()))
		assert.True(t, bsa.CanBeVaried)
		assert.False(t, bsa.CanBeVariedInPopulation)
	})

	t.Run("renal aging selected", func(t *testing.T) {
		assert.True(t, ind.HasCalculationMethod(domain.CalculationMethodRenalAgingHuman))
	})
}

func TestCreateIndividualErrors(t *testing.T) {
	f := newTestFactory(t)
	ctx := context.Background()

	_, err := f.CreateIndividual(ctx, "X", domain.OriginData{Species: "Unicorn"})
	assert.Error(t, err)

	_, err = f.CreateIndividual(ctx, "X", domain.OriginData{Species: "Human", Population: "Wistar"})
	assert.ErrorContains(t, err, "not a Human population")
}

func TestDefaultIndividualFor(t *testing.T) {
	f := newTestFactory(t)

	ind, err := f.DefaultIndividualFor(context.Background(), "Rat")
	require.NoError(t, err)

	assert.Equal(t, "Wistar", ind.OriginData.Population)
	assert.Equal(t, domain.GenderMale, ind.OriginData.Gender)
	assert.InDelta(t, 0.25, ind.Organism().Parameter(domain.ParamWeight).Value(), 1e-12)
	assert.True(t, ind.HasCalculationMethod(domain.CalculationMethodRenalAgingAnimals))
}

func TestCreateCompoundAndEvent(t *testing.T) {
	f := newTestFactory(t)
	ctx := context.Background()

	c, err := f.CreateCompound(ctx, "Drug")
	require.NoError(t, err)
	fu := c.Parameter(domain.ParamFractionUnbound)
	require.NotNil(t, fu)
	assert.Equal(t, "%", fu.DisplayUnit.Name)
	assert.InDelta(t, 10, fu.ValueInDisplayUnit(), 1e-9)

	e, err := f.CreateEvent(ctx, "Lunch", "Meal")
	require.NoError(t, err)
	assert.Equal(t, "Meal", e.Template)
	assert.NotNil(t, e.Parameter("Meal volume"))

	_, err = f.CreateEvent(ctx, "Snack", "NoSuchTemplate")
	assert.ErrorIs(t, err, lookup.ErrNotFound)
}

func TestCreateSimulation(t *testing.T) {
	f := newTestFactory(t)
	ctx := context.Background()

	ind, err := f.DefaultIndividualFor(ctx, "Dog")
	require.NoError(t, err)
	c, err := f.CreateCompound(ctx, "Drug")
	require.NoError(t, err)
	e, err := f.CreateEvent(ctx, "Meal", "Meal")
	require.NoError(t, err)

	sim, err := f.CreateSimulation("Sim", ind, []*domain.Compound{c}, []*domain.Event{e})
	require.NoError(t, err)
	require.Len(t, sim.EventProperties.EventMappings, 1)
	assert.Equal(t, e.ID, sim.EventProperties.EventMappings[0].TemplateEventID)

	_, err = f.CreateSimulation("Bad", c, nil, nil)
	assert.Error(t, err)
}

func TestCreateMolecule(t *testing.T) {
	f := newTestFactory(t)

	ind, err := f.DefaultIndividualFor(context.Background(), "Human")
	require.NoError(t, err)

	enzyme := f.CreateMolecule(ind, "CYP3A4", domain.MoleculeEnzyme)
	assert.NotNil(t, enzyme.Root.ParameterAt("Liver|"+domain.ParamRelativeExpression))
	assert.Nil(t, enzyme.Root.Container(domain.Lumen))
	assert.Equal(t, "Basolateral", enzyme.MembraneLocation)
	assert.True(t, enzyme.Ontogeny.IsUndefined())

	transporter := f.CreateMolecule(ind, "Pgp", domain.MoleculeTransporter)
	assert.Empty(t, transporter.MembraneLocation)
	assert.Equal(t, "Efflux", transporter.TransportType)
}
