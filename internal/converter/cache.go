package converter

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"

	"pksnap/internal/domain"
)

// DefaultIndividualRetriever builds the reference individual of a species
type DefaultIndividualRetriever interface {
	DefaultIndividualFor(ctx context.Context, species string) (*domain.Individual, error)
}

// defaultIndividuals caches one default individual per species for the
// duration of a single conversion. Concurrent requests for the same species
// share one retrieval.
type defaultIndividuals struct {
	retriever DefaultIndividualRetriever
	group     singleflight.Group

	mu        sync.Mutex
	bySpecies map[string]*domain.Individual
}

func newDefaultIndividuals(r DefaultIndividualRetriever) *defaultIndividuals {
	return &defaultIndividuals{retriever: r, bySpecies: make(map[string]*domain.Individual)}
}

// get returns the cached individual. Callers must clone parameters before
// attaching them anywhere.
func (c *defaultIndividuals) get(ctx context.Context, species string) (*domain.Individual, error) {
	c.mu.Lock()
	ind, ok := c.bySpecies[species]
	c.mu.Unlock()
	if ok {
		return ind, nil
	}

	v, err, _ := c.group.Do(species, func() (any, error) {
		c.mu.Lock()
		cached, ok := c.bySpecies[species]
		c.mu.Unlock()
		if ok {
			return cached, nil
		}
		ind, err := c.retriever.DefaultIndividualFor(ctx, species)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.bySpecies[species] = ind
		c.mu.Unlock()
		return ind, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*domain.Individual), nil
}
