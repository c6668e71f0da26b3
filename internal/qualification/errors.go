package qualification

import "fmt"

// ErrorCode identifies why a batch run stopped
type ErrorCode string

const (
	CodeInvalidConfiguration   ErrorCode = "UnableToLoadQualificationConfigurationFromOptions"
	CodeOutputFolderNotDefined ErrorCode = "QualificationOutputFolderNotDefined"
	CodeCannotLoadSnapshot     ErrorCode = "CannotLoadSnapshotFromFile"
	CodeBuildingBlockNotFound  ErrorCode = "CannotFindBuildingBlockInSnapshot"
	CodeCannotLoadProject      ErrorCode = "CannotLoadProjectFromSnapshot"
	CodeOutputFolderFailure    ErrorCode = "CannotPrepareOutputFolder"
	CodeExportFailed           ErrorCode = "CannotExportSimulations"
)

// RunError is returned by RunBatch. Code is stable; Message is for humans.
type RunError struct {
	Code    ErrorCode
	Message string
	Err     error
}

func (e *RunError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *RunError) Unwrap() error { return e.Err }

const (
	invalidConfigurationMessage   = "Unable to load qualification configuration from options"
	outputFolderNotDefinedMessage = "Qualification output folder is not defined"
)

// CannotLoadSnapshotFromFile is the message for a snapshot that is missing or invalid
func CannotLoadSnapshotFromFile(path string) string {
	return fmt.Sprintf("Cannot load snapshot from file '%s'. Please make sure that the file exists and that it is a valid snapshot file", path)
}

// CannotFindBuildingBlockInSnapshot is the message for a swap target missing from source
func CannotFindBuildingBlockInSnapshot(kind, name, source string) string {
	return fmt.Sprintf("Could not find %s '%s' in snapshot '%s'", kind, name, source)
}

func newRunError(code ErrorCode, message string, err error) *RunError {
	return &RunError{Code: code, Message: message, Err: err}
}
