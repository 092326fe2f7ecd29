package occupancy

import (
	"errors"
	"fmt"
)

// Kind classifies pipeline failures for the caller
type Kind string

const (
	KindInvalidInput          Kind = "invalid_input"
	KindExtractionFailed      Kind = "extraction_failed"
	KindEstimationUnavailable Kind = "estimation_unavailable"
	KindStoreFailure          Kind = "store_failure"
	KindExternalService       Kind = "external_service_failure"
)

// Pipeline stages, used for error context and logging
const (
	StageReceived   = "received"
	StageExtracting = "extracting"
	StageEstimating = "estimating"
	StageEvaluating = "evaluating"
	StageRecording  = "recording"
)

// PipelineError is the single structured error shape a failed run returns.
// The caller gets either a complete Result or one of these, never both.
type PipelineError struct {
	Kind    Kind
	Stage   string
	Message string
	Err     error
}

func (e *PipelineError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s (stage %s): %s: %v", e.Kind, e.Stage, e.Message, e.Err)
	}
	return fmt.Sprintf("%s (stage %s): %s", e.Kind, e.Stage, e.Message)
}

func (e *PipelineError) Unwrap() error {
	return e.Err
}

// IsKind reports whether err is a PipelineError of the given kind
func IsKind(err error, kind Kind) bool {
	var pe *PipelineError
	if errors.As(err, &pe) {
		return pe.Kind == kind
	}
	return false
}

func invalidInput(message string) *PipelineError {
	return &PipelineError{Kind: KindInvalidInput, Stage: StageReceived, Message: message}
}

func extractionFailed(err error) *PipelineError {
	return &PipelineError{Kind: KindExtractionFailed, Stage: StageExtracting, Message: "frame extraction failed", Err: err}
}

func estimationUnavailable(err error) *PipelineError {
	return &PipelineError{Kind: KindEstimationUnavailable, Stage: StageEstimating, Message: "vision capability unavailable for every frame", Err: err}
}

func storeFailure(stage string, err error) *PipelineError {
	return &PipelineError{Kind: KindStoreFailure, Stage: stage, Message: "booking/alert store operation failed", Err: err}
}
