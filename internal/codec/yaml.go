package codec

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"pksnap/internal/snapshot"
)

// YAMLCodec handles YAML import/export. Keys are the same PascalCase names
// as in JSON.
type YAMLCodec struct{}

// NewYAMLCodec creates a new YAML codec
func NewYAMLCodec() *YAMLCodec {
	return &YAMLCodec{}
}

// Format returns the codec format identifier
func (c *YAMLCodec) Format() string {
	return "yaml"
}

// Parse imports a snapshot project from YAML
func (c *YAMLCodec) Parse(r io.Reader) (*snapshot.Project, error) {
	var doc map[string]any
	decoder := yaml.NewDecoder(r)
	if err := decoder.Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if err := Upgrade(doc); err != nil {
		return nil, err
	}

	raw, err := yaml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to re-encode YAML: %w", err)
	}
	var project snapshot.Project
	if err := yaml.Unmarshal(raw, &project); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	return &project, nil
}

// Export exports a snapshot project to YAML
func (c *YAMLCodec) Export(project *snapshot.Project, w io.Writer) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	defer encoder.Close()

	if err := encoder.Encode(project); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}

	return nil
}
