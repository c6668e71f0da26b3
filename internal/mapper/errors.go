package mapper

import "fmt"

// ParameterNotFoundError is returned when a localized parameter path does not
// resolve below the target container
type ParameterNotFoundError struct {
	Path      string
	Container string
}

func (e *ParameterNotFoundError) Error() string {
	return fmt.Sprintf("parameter %q not found in %q", e.Path, e.Container)
}

// ReferenceNotFoundError is returned when a snapshot references a building
// block or database entry that does not exist
type ReferenceNotFoundError struct {
	Kind string
	Name string
}

func (e *ReferenceNotFoundError) Error() string {
	return fmt.Sprintf("%s %q referenced by snapshot not found", e.Kind, e.Name)
}
