package codec

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"pksnap/internal/domain"
	"pksnap/internal/snapshot"
)

// ErrUnsupportedVersion is returned for snapshots written by a newer version
var ErrUnsupportedVersion = errors.New("unsupported snapshot version")

// Upgrade rewrites a decoded snapshot document in place to the current
// snapshot version. A document without a version is version 1.
func Upgrade(doc map[string]any) error {
	version, err := documentVersion(doc)
	if err != nil {
		return err
	}
	if version > snapshot.CurrentVersion {
		return fmt.Errorf("%w: %d, current is %d", ErrUnsupportedVersion, version, snapshot.CurrentVersion)
	}

	if version < 2 {
		if err := distributionNamesToIDs(doc); err != nil {
			return fmt.Errorf("failed to upgrade snapshot to version 2: %w", err)
		}
	}
	doc["Version"] = snapshot.CurrentVersion
	return nil
}

func documentVersion(doc map[string]any) (int, error) {
	raw, ok := doc["Version"]
	if !ok || raw == nil {
		return 1, nil
	}
	var v float64
	switch n := raw.(type) {
	case int:
		return n, nil
	case float64:
		v = n
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0, fmt.Errorf("invalid snapshot version %q", n)
		}
		v = f
	default:
		return 0, fmt.Errorf("invalid snapshot version %v", raw)
	}
	if v != math.Trunc(v) {
		return 0, fmt.Errorf("invalid snapshot version %v", v)
	}
	return int(v), nil
}

// distributionNamesToIDs replaces every "Distribution" name by its stable id.
// Version 1 wrote distribution metadata and advanced parameters by name.
func distributionNamesToIDs(node any) error {
	switch n := node.(type) {
	case map[string]any:
		for key, value := range n {
			if name, ok := value.(string); ok && key == "Distribution" {
				kind, err := domain.DistributionByName(name)
				if err != nil {
					return err
				}
				n[key] = kind.ID
				continue
			}
			if err := distributionNamesToIDs(value); err != nil {
				return err
			}
		}
	case []any:
		for _, item := range n {
			if err := distributionNamesToIDs(item); err != nil {
				return err
			}
		}
	}
	return nil
}
