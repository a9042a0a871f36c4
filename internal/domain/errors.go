package domain

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrNotFound matches every NotFoundError
	ErrNotFound = errors.New("not found")
	// ErrCanceled matches every CancellationError
	ErrCanceled = errors.New("canceled")
	// ErrNoSources is returned when an orchestrator has nothing to run
	ErrNoSources = errors.New("no sources configured")
)

// ExecutionKind tells why a command produced no usable output
type ExecutionKind string

const (
	// ExecutionLaunch means the process could not be started
	ExecutionLaunch ExecutionKind = "launch"
	// ExecutionTimeout means the process was killed after its timeout elapsed
	ExecutionTimeout ExecutionKind = "timeout"
)

// ExecutionError reports a command that could not be launched or timed out.
// A nonzero exit status is not an ExecutionError.
type ExecutionError struct {
	Command string
	Kind    ExecutionKind
	Err     error
}

func (e *ExecutionError) Error() string {
	switch e.Kind {
	case ExecutionTimeout:
		return fmt.Sprintf("%s: timed out: %v", e.Command, e.Err)
	default:
		return fmt.Sprintf("%s: cannot launch: %v", e.Command, e.Err)
	}
}

func (e *ExecutionError) Unwrap() error {
	return e.Err
}

// Timeout returns true when the command was killed by its timeout
func (e *ExecutionError) Timeout() bool {
	return e.Kind == ExecutionTimeout
}

// ExitError reports a command that ran but exited with a status the source treats
// as a failure
type ExitError struct {
	Command string
	Code    int
	Stderr  string
}

func (e *ExitError) Error() string {
	if e.Stderr != "" {
		return fmt.Sprintf("%s: exit status %d: %s", e.Command, e.Code, e.Stderr)
	}
	return fmt.Sprintf("%s: exit status %d", e.Command, e.Code)
}

// ParseError describes one skipped row. It is a warning, never a scan failure.
type ParseError struct {
	Source SourceTag `json:"source"`
	Line   int       `json:"line"`
	Text   string    `json:"text"`
	Reason string    `json:"reason"`
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s line %d: %s: %q", e.Source, e.Line, e.Reason, e.Text)
}

// NotFoundKind distinguishes what a lookup was for
type NotFoundKind string

const (
	NotFoundNetwork    NotFoundKind = "network"
	NotFoundCredential NotFoundKind = "credential"
)

// NotFoundError is returned by queries for identifiers that are absent from the
// latest scan or from the credential store
type NotFoundError struct {
	Kind NotFoundKind
	ID   NetworkID
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.ID)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// CancellationError records a source that had not completed when the caller
// canceled the scan
type CancellationError struct {
	Source SourceTag
	Err    error
}

func (e *CancellationError) Error() string {
	if e.Source == "" {
		return fmt.Sprintf("canceled: %v", e.Err)
	}
	return fmt.Sprintf("%s: canceled: %v", e.Source, e.Err)
}

func (e *CancellationError) Unwrap() error {
	return e.Err
}

func (e *CancellationError) Is(target error) bool {
	return target == ErrCanceled
}

// NewCancellationError wraps the context cause, defaulting to context.Canceled
func NewCancellationError(source SourceTag, cause error) *CancellationError {
	if cause == nil {
		cause = context.Canceled
	}
	return &CancellationError{Source: source, Err: cause}
}

// IsNotFound reports whether err is a NotFoundError
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
