// Package converter upgrades legacy projects to the current project version.
//
// Each Converter handles one version step. A step may rewrite the raw markup
// before the project is materialized, the materialized project, or both. The
// Chain driver picks the unique converter accepting the current version until
// CurrentVersion is reached.
package converter

import (
	"context"
	"errors"
	"fmt"

	"pksnap/internal/ctxlog"
	"pksnap/internal/domain"
	"pksnap/internal/markup"
	"pksnap/internal/metrics"
)

// Project versions
const (
	V5_1_0 = 510
	V5_2_1 = 521
	V5_2_2 = 522
	V7_1_0 = 710
	V7_2_0 = 720

	// CurrentVersion is the version written by this module
	CurrentVersion = V7_2_0
)

var (
	// ErrConversionGap is returned when no converter accepts a version below current
	ErrConversionGap = errors.New("no converter for project version")
	// ErrAmbiguousConverter is returned when several converters accept the same version
	ErrAmbiguousConverter = errors.New("several converters for project version")
	// ErrNonIncreasingVersion is returned when a converter does not move the version forward
	ErrNonIncreasingVersion = errors.New("converter did not increase project version")
	// ErrNewerVersion is returned for projects written by a newer version
	ErrNewerVersion = errors.New("project version is newer than supported")
)

// Converter upgrades a project from the versions it accepts to a later one
type Converter interface {
	IsSatisfiedBy(version int) bool
	Convert(ctx context.Context, p *domain.Project, from int) (int, error)
	ConvertMarkup(ctx context.Context, root *markup.Element, from int) (int, error)
}

// Chain applies converters in sequence
type Chain struct {
	converters []Converter
	metrics    *metrics.Metrics
}

// NewChain creates a chain over converters. m may be nil.
func NewChain(m *metrics.Metrics, converters ...Converter) *Chain {
	return &Chain{converters: converters, metrics: m}
}

// Default returns the chain from 5.1.0 to the current version
func Default(defaults DefaultIndividualRetriever, m *metrics.Metrics) *Chain {
	return NewChain(m,
		converter510To521{},
		&converter521To522{defaults: defaults},
		converter522To710{},
		converter710To720{},
	)
}

// ConvertMarkup runs the markup step of every converter from version to current
func (c *Chain) ConvertMarkup(ctx context.Context, root *markup.Element, version int) (int, error) {
	return c.run(ctx, version, func(conv Converter, v int) (int, error) {
		return conv.ConvertMarkup(ctx, root, v)
	})
}

// Convert runs the object step of every converter from version to current
func (c *Chain) Convert(ctx context.Context, p *domain.Project, version int) (int, error) {
	return c.run(ctx, version, func(conv Converter, v int) (int, error) {
		return conv.Convert(ctx, p, v)
	})
}

func (c *Chain) run(ctx context.Context, version int, step func(Converter, int) (int, error)) (int, error) {
	log := ctxlog.FromContext(ctx)
	if version > CurrentVersion {
		return version, fmt.Errorf("%w: %d", ErrNewerVersion, version)
	}
	for version != CurrentVersion {
		conv, err := c.find(version)
		if err != nil {
			return version, err
		}
		next, err := step(conv, version)
		if err != nil {
			return version, fmt.Errorf("failed to convert project from version %d: %w", version, err)
		}
		if next <= version {
			return version, fmt.Errorf("%w: %d -> %d", ErrNonIncreasingVersion, version, next)
		}
		log.Debug("project converted", "from", version, "to", next)
		c.metrics.ObserveConversion(version, next)
		version = next
	}
	return version, nil
}

func (c *Chain) find(version int) (Converter, error) {
	var found Converter
	for _, conv := range c.converters {
		if !conv.IsSatisfiedBy(version) {
			continue
		}
		if found != nil {
			return nil, fmt.Errorf("%w: %d", ErrAmbiguousConverter, version)
		}
		found = conv
	}
	if found == nil {
		return nil, fmt.Errorf("%w: %d", ErrConversionGap, version)
	}
	return found, nil
}
