package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjectAdd(t *testing.T) {
	p := NewProject("P")
	ind := NewIndividual("Ind", OriginData{Species: "Human"})
	require.NoError(t, p.Add(ind))

	t.Run("same id", func(t *testing.T) {
		assert.ErrorIs(t, p.Add(ind), ErrDuplicateBuildingBlock)
	})

	t.Run("same kind and name", func(t *testing.T) {
		assert.ErrorIs(t, p.Add(NewIndividual("Ind", OriginData{})), ErrDuplicateBuildingBlock)
	})

	t.Run("same name different kind", func(t *testing.T) {
		assert.NoError(t, p.Add(NewCompound("Ind")))
	})
}

func TestProjectLookup(t *testing.T) {
	p := NewProject("P")
	ind := NewIndividual("Ind", OriginData{Species: "Human"})
	comp := NewCompound("Drug")
	require.NoError(t, p.Add(ind))
	require.NoError(t, p.Add(comp))

	got, ok := ByName[*Individual](p, "Ind")
	require.True(t, ok)
	assert.Same(t, ind, got)

	_, ok = ByName[*Compound](p, "Ind")
	assert.False(t, ok)

	bb, ok := p.BuildingBlockByID(comp.ID)
	require.True(t, ok)
	assert.Equal(t, TypeCompound, bb.Type())

	_, ok = ByID[*Individual](p, comp.ID)
	assert.False(t, ok, "id lookup must respect the requested type")

	assert.Len(t, All[*Individual](p), 1)
	assert.True(t, p.Remove(comp))
	assert.Len(t, p.BuildingBlocks(), 1)
}

func TestSimulationClonesIndividual(t *testing.T) {
	ind := NewIndividual("Ind", OriginData{Species: "Human"})
	weight := ind.Organism().Add(NewConstantParameter(ParamWeight, 73, Mass))
	comp := NewCompound("Drug")
	comp.Root.Add(NewConstantParameter(ParamMolecularWeight, 3e-7, MolecularWeight))

	sim := NewSimulation("Sim", ind, []*Compound{comp})

	assert.NotSame(t, ind, sim.Individual)
	assert.NotEqual(t, ind.ID, sim.Individual.ID)
	assert.Equal(t, ind.ID, sim.IndividualTemplateID)
	assert.Equal(t, []string{comp.ID}, sim.CompoundTemplateIDs)

	modelWeight := sim.Model().ParameterAt("Organism|Weight")
	require.NotNil(t, modelWeight)
	assert.Equal(t, sim.Individual.ID, modelWeight.Origin.BuildingBlockID)
	assert.Equal(t, sim.Individual.Organism().Parameter(ParamWeight).ID, modelWeight.Origin.ParameterID)
	assert.Equal(t, sim.ID, modelWeight.Origin.SimulationID)
	assert.False(t, modelWeight.ValueDiffersFromDefault())

	modelWeight.SetValue(80)
	assert.Equal(t, 73.0, weight.Value())

	mw := sim.Model().ParameterAt("Drug|" + ParamMolecularWeight)
	require.NotNil(t, mw)
	assert.Equal(t, comp.ID, mw.Origin.BuildingBlockID)
}

func TestIndividualCloneKeepsMolecules(t *testing.T) {
	ind := NewIndividual("Ind", OriginData{Species: "Human"})
	mol := NewMolecule("CYP3A4", MoleculeEnzyme)
	mol.Ontogeny = &DatabaseOntogeny{Name: "CYP3A4", SpeciesName: "Human"}
	ind.AddMolecule(mol)

	clone := ind.Clone()

	require.Len(t, clone.Molecules, 1)
	cm := clone.Molecules[0]
	assert.NotSame(t, mol, cm)
	assert.Same(t, cm.Root, clone.Root.Container("CYP3A4"))
	assert.Equal(t, "CYP3A4", cm.Ontogeny.OntogenyName())
	assert.Len(t, clone.Root.Containers(), 2)
}
