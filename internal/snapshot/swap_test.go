package snapshot

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pksnap/internal/domain"
)

func TestSwap(t *testing.T) {
	original := &Individual{Name: "Ind", Description: "base"}
	other := &Individual{Name: "Other"}
	project := &Project{Name: "P", Individuals: []*Individual{other, original}}

	referenced := &Individual{Name: "Ind", Description: "reference"}
	reference := &Project{Name: "Ref", Individuals: []*Individual{referenced}}

	require.NoError(t, project.Swap(domain.TypeIndividual, "Ind", reference))

	assert.Len(t, project.Individuals, 2)
	assert.Same(t, other, project.Individuals[0])
	assert.Same(t, referenced, project.Individuals[1])
	assert.NotContains(t, project.Individuals, original)
}

func TestSwapNotFound(t *testing.T) {
	project := &Project{Compounds: []*Compound{{Name: "Drug"}}}

	tests := []struct {
		name        string
		reference   *Project
		target      string
		inReference bool
	}{
		{
			name:        "missing in reference",
			reference:   &Project{},
			target:      "Drug",
			inReference: true,
		},
		{
			name:        "missing in project",
			reference:   &Project{Compounds: []*Compound{{Name: "Other"}}},
			target:      "Other",
			inReference: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := project.Swap(domain.TypeCompound, tt.target, tt.reference)

			var notFound *BuildingBlockNotFoundError
			require.True(t, errors.As(err, &notFound))
			assert.Equal(t, tt.inReference, notFound.InReference)
			assert.Equal(t, domain.TypeCompound, notFound.Kind)
			assert.Equal(t, tt.target, notFound.Name)
			assert.Equal(t, "Drug", project.Compounds[0].Name)
		})
	}
}
