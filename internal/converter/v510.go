package converter

import (
	"context"

	"pksnap/internal/domain"
	"pksnap/internal/markup"
)

// converter510To521 moves the species and gender of an individual from the
// individual element into its origin data element
type converter510To521 struct{}

func (converter510To521) IsSatisfiedBy(version int) bool {
	return version >= V5_1_0 && version < V5_2_1
}

func (converter510To521) Convert(_ context.Context, _ *domain.Project, _ int) (int, error) {
	return V5_2_1, nil
}

func (converter510To521) ConvertMarkup(_ context.Context, root *markup.Element, _ int) (int, error) {
	individuals := root.Descendants("Individual")
	if root.Name() == "Individual" {
		individuals = append(individuals, root)
	}
	for _, ind := range individuals {
		origin := ind.Child("OriginData")
		for _, attr := range []string{"species", "gender"} {
			v, ok := ind.LookupAttr(attr)
			if !ok {
				continue
			}
			if origin == nil {
				origin = markup.New("OriginData")
				ind.Children = append([]*markup.Element{origin}, ind.Children...)
			}
			if _, exists := origin.LookupAttr(attr); !exists {
				origin.SetAttr(attr, v)
			}
			ind.RemoveAttr(attr)
		}
	}
	return V5_2_1, nil
}
