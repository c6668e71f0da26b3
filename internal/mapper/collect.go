package mapper

import "golang.org/x/sync/errgroup"

// mapAll maps every item on its own goroutine and waits for all of them.
// Results keep the input order. The first error fails the whole call.
func mapAll[T, S any](items []T, fn func(T) (S, error)) ([]S, error) {
	if len(items) == 0 {
		return nil, nil
	}
	out := make([]S, len(items))
	var g errgroup.Group
	for i, item := range items {
		g.Go(func() error {
			s, err := fn(item)
			if err != nil {
				return err
			}
			out[i] = s
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
