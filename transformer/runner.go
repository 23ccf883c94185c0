package transformer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"
)

const defaultWaitDelay = 2 * time.Second

// Command is one subprocess invocation.
type Command struct {
	Name  string
	Args  []string
	Stdin []byte
}

// Result holds everything a finished subprocess produced.
type Result struct {
	Stdout   []byte
	Stderr   []byte
	ExitCode int
}

// CommandRunner abstracts subprocess execution so the script transformer
// can be exercised without a real interpreter.
type CommandRunner interface {
	Run(ctx context.Context, c Command) (Result, error)
}

// ExecRunner runs commands on the local host.
//
// A non-zero exit is reported through Result.ExitCode, not as an error.
// Errors are reserved for failures to start (ErrSpawn), context
// cancellation, and I/O failures while waiting.
type ExecRunner struct {
	// WaitDelay bounds how long Wait blocks on output pipes held open by
	// grandchildren after the child exits or is killed.
	WaitDelay time.Duration
}

// Run writes c.Stdin to the child, closes it, and waits for exit while
// draining stdout and stderr. The child is killed when ctx is done.
func (r ExecRunner) Run(ctx context.Context, c Command) (Result, error) {
	cmd := exec.CommandContext(ctx, c.Name, c.Args...)
	cmd.Stdin = bytes.NewReader(c.Stdin)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.WaitDelay = r.WaitDelay
	if cmd.WaitDelay <= 0 {
		cmd.WaitDelay = defaultWaitDelay
	}

	if err := cmd.Start(); err != nil {
		return Result{ExitCode: 127}, fmt.Errorf("%w: %s: %w", ErrSpawn, c.Name, err)
	}

	err := cmd.Wait()
	res := Result{Stdout: stdout.Bytes(), Stderr: stderr.Bytes()}
	if err == nil {
		return res, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		res.ExitCode = -1
		return res, ctxErr
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		res.ExitCode = exitErr.ExitCode()
		return res, nil
	}
	res.ExitCode = 1
	return res, err
}
