package converter

import (
	"context"

	"golang.org/x/sync/errgroup"

	"pksnap/internal/domain"
)

// Visitors holds the per kind conversion functions of one step. Nil entries
// skip the kind.
type Visitors struct {
	Individual func(ctx context.Context, ind *domain.Individual) error
	Population func(ctx context.Context, pop *domain.Population) error
	Compound   func(ctx context.Context, c *domain.Compound) error
	Simulation func(ctx context.Context, sim *domain.Simulation) error
}

// Visit applies the visitors to every building block. Individuals,
// populations and compounds are visited concurrently; simulations follow
// once their templates are converted.
func (v Visitors) Visit(ctx context.Context, p *domain.Project) error {
	var g errgroup.Group
	if v.Individual != nil {
		for _, ind := range domain.All[*domain.Individual](p) {
			g.Go(func() error { return v.Individual(ctx, ind) })
		}
	}
	if v.Population != nil {
		for _, pop := range domain.All[*domain.Population](p) {
			g.Go(func() error { return v.Population(ctx, pop) })
		}
	}
	if v.Compound != nil {
		for _, c := range domain.All[*domain.Compound](p) {
			g.Go(func() error { return v.Compound(ctx, c) })
		}
	}
	if err := g.Wait(); err != nil {
		return err
	}

	if v.Simulation != nil {
		for _, sim := range domain.All[*domain.Simulation](p) {
			g.Go(func() error { return v.Simulation(ctx, sim) })
		}
	}
	return g.Wait()
}
