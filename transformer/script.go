package transformer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// ScriptArg is the argument naming the script custom_py runs.
const ScriptArg = "py_script"

// DefaultInterpreter runs custom_py scripts when none is configured.
const DefaultInterpreter = "python3"

// Resolver maps a script identifier to a path. Absolute identifiers are used
// as given; anything else is taken relative to DataDir.
type Resolver struct {
	DataDir string
}

// Resolve returns the script path for id. An absolute id must exist. For a
// relative id the data directory is created if missing; the script itself
// is not checked, so a missing one surfaces as the interpreter's stderr.
func (r Resolver) Resolve(id string) (string, error) {
	if filepath.IsAbs(id) {
		if _, err := os.Stat(id); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return "", fmt.Errorf("%w: %s", ErrScriptNotFound, id)
			}
			return "", fmt.Errorf("%w: %s: %w", ErrScriptNotFound, id, err)
		}
		return id, nil
	}
	if r.DataDir == "" {
		return "", fmt.Errorf("%w: no data directory for %q", ErrScriptNotFound, id)
	}
	if err := os.MkdirAll(r.DataDir, 0o755); err != nil {
		return "", fmt.Errorf("create data directory: %w", err)
	}
	return filepath.Join(r.DataDir, id), nil
}

// Script is the custom_py transformer: it pipes the text through an
// interpreter running the script named by the py_script argument.
type Script struct {
	Interpreter string
	Resolver    Resolver
	// Timeout bounds one script run; zero disables it.
	Timeout time.Duration
	Runner  CommandRunner
	Log     zerolog.Logger
}

// NewScript returns a Script using the local ExecRunner.
func NewScript(interpreter, dataDir string, timeout time.Duration, logger zerolog.Logger) *Script {
	if interpreter == "" {
		interpreter = DefaultInterpreter
	}
	return &Script{
		Interpreter: interpreter,
		Resolver:    Resolver{DataDir: dataDir},
		Timeout:     timeout,
		Runner:      ExecRunner{},
		Log:         logger,
	}
}

// Apply runs the script with text on stdin and returns its stdout verbatim.
// Any non-blank stderr fails the step, even when the exit code is zero.
func (s *Script) Apply(ctx context.Context, text string, args map[string]string) (string, error) {
	id := args[ScriptArg]
	if strings.TrimSpace(id) == "" {
		return "", fmt.Errorf("%w: %s is required", ErrMissingArgument, ScriptArg)
	}
	path, err := s.Resolver.Resolve(id)
	if err != nil {
		return "", err
	}

	if s.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}

	start := time.Now()
	res, err := s.runner().Run(ctx, Command{
		Name:  s.Interpreter,
		Args:  []string{path},
		Stdin: []byte(text),
	})
	log := s.Log.With().Str("script", path).Dur("elapsed", time.Since(start)).Logger()
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			log.Warn().Dur("timeout", s.Timeout).Msg("script killed after timeout")
			return "", fmt.Errorf("%w after %s: %s", ErrScriptTimeout, s.Timeout, path)
		}
		log.Warn().Err(err).Msg("script run failed")
		return "", err
	}

	if stderr := lossy(res.Stderr); strings.TrimSpace(stderr) != "" {
		log.Debug().Int("exit_code", res.ExitCode).Msg("script wrote to stderr")
		return "", &StderrError{Stderr: stderr, ExitCode: res.ExitCode}
	}
	if res.ExitCode != 0 {
		log.Warn().Int("exit_code", res.ExitCode).Msg("script exited non-zero without stderr, keeping stdout")
	}
	return lossy(res.Stdout), nil
}

func (s *Script) runner() CommandRunner {
	if s.Runner == nil {
		return ExecRunner{}
	}
	return s.Runner
}

func lossy(b []byte) string {
	return strings.ToValidUTF8(string(b), "\uFFFD")
}
