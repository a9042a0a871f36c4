// Package runner executes external commands and captures their output.
//
// A nonzero exit status is reported in Result.ExitCode, never as an error. Errors are
// reserved for commands that could not be launched, timed out, or were canceled by
// the caller, and in every case the child process has been reaped before Run returns.
package runner

//go:generate mockgen -destination=mock_runner.go -package=runner wifimon/internal/runner Runner

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"wifimon/internal/domain"
)

// DefaultWaitDelay bounds how long Run waits for output pipes after the child is killed
const DefaultWaitDelay = 2 * time.Second

// Command is one invocation of an external program
type Command struct {
	Name    string
	Args    []string
	Timeout time.Duration // zero means no timeout beyond the caller's context
}

func (c Command) String() string {
	if len(c.Args) == 0 {
		return c.Name
	}
	return c.Name + " " + strings.Join(c.Args, " ")
}

// Result is the captured outcome of a command that ran to completion
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
	Duration time.Duration
}

// Success returns true for a zero exit status
func (r Result) Success() bool {
	return r.ExitCode == 0
}

// Runner runs external commands
type Runner interface {
	Run(ctx context.Context, cmd Command) (Result, error)
}

// ExecRunner runs commands with os/exec
type ExecRunner struct {
	logger    zerolog.Logger
	waitDelay time.Duration
	lookPath  func(string) (string, error)
}

// NewExecRunner creates a runner that logs each command at debug level
func NewExecRunner(logger zerolog.Logger) *ExecRunner {
	return &ExecRunner{
		logger:    logger,
		waitDelay: DefaultWaitDelay,
		lookPath:  exec.LookPath,
	}
}

// WithWaitDelay overrides DefaultWaitDelay
func (r *ExecRunner) WithWaitDelay(d time.Duration) *ExecRunner {
	r.waitDelay = d
	return r
}

// Run executes cmd and waits for it to exit
func (r *ExecRunner) Run(ctx context.Context, c Command) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, domain.NewCancellationError("", err)
	}

	path, err := r.lookPath(c.Name)
	if err != nil {
		return Result{}, &domain.ExecutionError{Command: c.String(), Kind: domain.ExecutionLaunch, Err: err}
	}

	runCtx, cancel := ctx, context.CancelFunc(func() {})
	if c.Timeout > 0 {
		runCtx, cancel = context.WithTimeout(ctx, c.Timeout)
	}
	defer cancel()

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(runCtx, path, c.Args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.WaitDelay = r.waitDelay
	killProcessGroup(cmd)

	start := time.Now()
	err = cmd.Run()
	elapsed := time.Since(start)

	if err != nil {
		// context errors take precedence: the exit status of a killed child is meaningless
		if ctx.Err() != nil {
			r.logger.Debug().Str("command", c.String()).Dur("duration", elapsed).Msg("Command canceled")
			return Result{}, domain.NewCancellationError("", ctx.Err())
		}
		if runCtx.Err() != nil {
			r.logger.Debug().Str("command", c.String()).Dur("timeout", c.Timeout).Msg("Command timed out")
			return Result{}, &domain.ExecutionError{Command: c.String(), Kind: domain.ExecutionTimeout, Err: runCtx.Err()}
		}

		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return Result{}, &domain.ExecutionError{Command: c.String(), Kind: domain.ExecutionLaunch, Err: err}
		}
	}

	res := Result{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		ExitCode: cmd.ProcessState.ExitCode(),
		Duration: elapsed,
	}

	r.logger.Debug().
		Str("command", c.String()).
		Int("exit_code", res.ExitCode).
		Dur("duration", elapsed).
		Msg("Command finished")

	return res, nil
}
