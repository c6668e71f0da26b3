package domain

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

var (
	// ErrUnknownDistribution is returned for distribution ids or names outside the fixed table
	ErrUnknownDistribution = errors.New("unknown distribution")
	// ErrInvalidPercentile is returned when a percentile is outside the open interval (0, 1)
	ErrInvalidPercentile = errors.New("percentile must be in (0, 1)")
)

// DistributionKind identifies a parameter distribution. The ID is the stable
// value written to snapshots.
type DistributionKind struct {
	ID   int
	Name string
}

var (
	DistributionNormal    = DistributionKind{ID: 1, Name: "Normal"}
	DistributionLogNormal = DistributionKind{ID: 2, Name: "LogNormal"}
	DistributionUniform   = DistributionKind{ID: 3, Name: "Uniform"}
	DistributionDiscrete  = DistributionKind{ID: 4, Name: "Discrete"}
	DistributionUnknown   = DistributionKind{ID: 5, Name: "Unknown"}
)

var distributionKinds = []DistributionKind{
	DistributionNormal,
	DistributionLogNormal,
	DistributionUniform,
	DistributionDiscrete,
	DistributionUnknown,
}

// DistributionByID resolves a snapshot distribution id
func DistributionByID(id int) (DistributionKind, error) {
	for _, k := range distributionKinds {
		if k.ID == id {
			return k, nil
		}
	}
	return DistributionKind{}, fmt.Errorf("%w: id %d", ErrUnknownDistribution, id)
}

// DistributionByName resolves a distribution by its name, as stored in legacy files
func DistributionByName(name string) (DistributionKind, error) {
	for _, k := range distributionKinds {
		if k.Name == name {
			return k, nil
		}
	}
	return DistributionKind{}, fmt.Errorf("%w: %q", ErrUnknownDistribution, name)
}

// Quantile evaluates the inverse CDF of the distribution at p.
// For LogNormal the deviation is the geometric standard deviation.
func (k DistributionKind) Quantile(mean, deviation, p float64) (float64, error) {
	if !(p > 0 && p < 1) {
		return 0, fmt.Errorf("%w: got %v", ErrInvalidPercentile, p)
	}
	switch k {
	case DistributionNormal:
		if deviation <= 0 {
			return mean, nil
		}
		return distuv.Normal{Mu: mean, Sigma: deviation}.Quantile(p), nil
	case DistributionLogNormal:
		if mean <= 0 {
			return 0, fmt.Errorf("lognormal mean must be positive, got %v", mean)
		}
		if deviation <= 1 {
			return mean, nil
		}
		return distuv.LogNormal{Mu: math.Log(mean), Sigma: math.Log(deviation)}.Quantile(p), nil
	case DistributionUniform:
		if deviation <= 0 {
			return mean, nil
		}
		half := deviation * math.Sqrt(3)
		return distuv.Uniform{Min: mean - half, Max: mean + half}.Quantile(p), nil
	case DistributionDiscrete:
		return mean, nil
	}
	return 0, fmt.Errorf("cannot evaluate %s distribution", k.Name)
}
