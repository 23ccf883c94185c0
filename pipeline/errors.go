package pipeline

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownTransformer = errors.New("unknown transformer")
	ErrPresetNotFound     = errors.New("preset not found")
)

// PresetNotFoundError is returned by a strict executor for an unknown preset.
type PresetNotFoundError struct {
	Name string
}

func (e *PresetNotFoundError) Error() string {
	return fmt.Sprintf("preset %q does not exist", e.Name)
}

func (e *PresetNotFoundError) Is(target error) bool {
	return target == ErrPresetNotFound
}

// UnknownTransformerError is returned when a preset names a transformer the
// registry does not know. Steps after it are not run.
type UnknownTransformerError struct {
	Index int
	Name  string
}

func (e *UnknownTransformerError) Error() string {
	return fmt.Sprintf("step %d: transformer %q does not exist", e.Index, e.Name)
}

func (e *UnknownTransformerError) Is(target error) bool {
	return target == ErrUnknownTransformer
}

// StepError wraps the failure of one transformer in the chain.
type StepError struct {
	Index       int
	Transformer string
	Err         error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %d (%s): %v", e.Index, e.Transformer, e.Err)
}

func (e *StepError) Unwrap() error { return e.Err }

// Message renders err the way the boundary API reports pipeline failures
// inside its normal return value.
func Message(err error) string {
	var missing *PresetNotFoundError
	if errors.As(err, &missing) {
		return fmt.Sprintf("Error! Preset %s doesn't exist.", missing.Name)
	}
	var unknown *UnknownTransformerError
	if errors.As(err, &unknown) {
		return fmt.Sprintf("Error! Transformer %s doesn't exist.", unknown.Name)
	}
	var step *StepError
	if errors.As(err, &step) {
		return fmt.Sprintf("Error in transformer: %v", step.Err)
	}
	return fmt.Sprintf("Error in transformer: %v", err)
}
