package mapper

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pksnap/internal/domain"
)

func TestOntogenyMapperUndefined(t *testing.T) {
	m := OntogenyMapper{}

	tests := []struct {
		name     string
		ontogeny domain.Ontogeny
	}{
		{"null ontogeny", domain.NullOntogeny{}},
		{"nil ontogeny", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Nil(t, m.MapToSnapshot(tt.ontogeny))
		})
	}

	t.Run("nil snapshot", func(t *testing.T) {
		o, err := m.MapToModel(context.Background(), nil, "Human")
		require.NoError(t, err)
		assert.Equal(t, domain.NullOntogeny{}, o)
		assert.True(t, o.IsUndefined())
	})

	t.Run("round trip", func(t *testing.T) {
		s := m.MapToSnapshot(domain.NullOntogeny{})
		assert.Nil(t, s)
		o, err := m.MapToModel(context.Background(), s, "Human")
		require.NoError(t, err)
		assert.Equal(t, domain.NullOntogeny{}, o)
	})
}
