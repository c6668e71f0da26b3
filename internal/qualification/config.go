package qualification

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"pksnap/internal/domain"
)

var validate = validator.New()

// Configuration describes one qualification run
type Configuration struct {
	SnapshotPath   string              `json:"SnapshotPath" validate:"required"`
	OutputFolder   string              `json:"OutputFolder" validate:"required"`
	BuildingBlocks []BuildingBlockSwap `json:"BuildingBlocks,omitempty" validate:"dive"`
}

// BuildingBlockSwap replaces a building block of the project with the
// same-named one from another snapshot
type BuildingBlockSwap struct {
	Name         string `json:"Name" validate:"required"`
	Type         string `json:"Type" validate:"required,oneof=Individual Compound Event Population Simulation"`
	SnapshotPath string `json:"SnapshotPath" validate:"required"`
}

// Kind returns the building block type of the swap
func (s BuildingBlockSwap) Kind() domain.BuildingBlockType {
	return domain.BuildingBlockType(s.Type)
}

// ParseConfiguration decodes and validates a JSON configuration. A missing
// output folder is reported as CodeOutputFolderNotDefined, every other
// problem as CodeInvalidConfiguration.
func ParseConfiguration(data []byte) (*Configuration, error) {
	var cfg Configuration
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return nil, newRunError(CodeInvalidConfiguration, invalidConfigurationMessage, err)
	}

	if err := validate.Struct(&cfg); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fe := range verrs {
				if fe.StructNamespace() == "Configuration.OutputFolder" {
					return nil, newRunError(CodeOutputFolderNotDefined, outputFolderNotDefinedMessage, nil)
				}
			}
		}
		return nil, newRunError(CodeInvalidConfiguration, invalidConfigurationMessage, fmt.Errorf("invalid configuration: %w", err))
	}
	return &cfg, nil
}
