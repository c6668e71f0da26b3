package codec

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"pksnap/internal/snapshot"
)

// JSONCodec handles JSON import/export
type JSONCodec struct{}

// NewJSONCodec creates a new JSON codec
func NewJSONCodec() *JSONCodec {
	return &JSONCodec{}
}

// Format returns the codec format identifier
func (c *JSONCodec) Format() string {
	return "json"
}

// Parse imports a snapshot project from JSON
func (c *JSONCodec) Parse(r io.Reader) (*snapshot.Project, error) {
	var doc map[string]any
	decoder := json.NewDecoder(r)
	decoder.UseNumber()
	if err := decoder.Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}
	if err := Upgrade(doc); err != nil {
		return nil, err
	}

	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to re-encode JSON: %w", err)
	}
	var project snapshot.Project
	if err := json.NewDecoder(bytes.NewReader(raw)).Decode(&project); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}
	return &project, nil
}

// Export exports a snapshot project to JSON
func (c *JSONCodec) Export(project *snapshot.Project, w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")

	if err := encoder.Encode(project); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}

	return nil
}
