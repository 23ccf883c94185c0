package transformer

import (
	"errors"
	"strings"
)

// Failure kinds a transformer can report. Callers match them with errors.Is.
var (
	ErrParse           = errors.New("parse error")
	ErrInvalidEscape   = errors.New("invalid escape")
	ErrMissingArgument = errors.New("missing argument")
	ErrScriptNotFound  = errors.New("script not found")
	ErrSpawn           = errors.New("spawn failed")
	ErrStderr          = errors.New("script wrote to stderr")
	ErrScriptTimeout   = errors.New("script timed out")
)

// StderrError is returned when a script writes anything besides whitespace
// to standard error, whatever its exit code.
type StderrError struct {
	Stderr   string
	ExitCode int
}

// Error returns the script's own diagnostic text.
func (e *StderrError) Error() string {
	return strings.TrimSpace(e.Stderr)
}

// Is implements errors.Is support.
func (e *StderrError) Is(target error) bool {
	return target == ErrStderr
}
