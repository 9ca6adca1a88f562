package types

import (
	"errors"
	"fmt"
)

// ErrorKind classifies the ways a watch run can end in failure
type ErrorKind int

const (
	InvalidArgs ErrorKind = iota
	SpawnFailed
	ProcessFailed
	ErrExit
	Io
)

func (k ErrorKind) String() string {
	switch k {
	case InvalidArgs:
		return "invalid_args"
	case SpawnFailed:
		return "spawn_failed"
	case ProcessFailed:
		return "process_failed"
	case ErrExit:
		return "err_exit"
	case Io:
		return "io"
	default:
		return "unknown"
	}
}

// Error is the failure surfaced to the process exit path.
// Code is only meaningful for ErrExit, where it holds the child's status.
type Error struct {
	Kind ErrorKind
	Code int
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	switch e.Kind {
	case InvalidArgs:
		return fmt.Sprintf("Invalid arguments: %s", e.Msg)
	case SpawnFailed:
		if e.Err != nil {
			return fmt.Sprintf("Could not spawn child process: %v", e.Err)
		}
		return "Could not spawn child process"
	case ProcessFailed:
		return fmt.Sprintf("Process failed: %s", e.Msg)
	case ErrExit:
		return fmt.Sprintf("Target command returned non-zero exit code: %d", e.Code)
	default:
		if e.Err != nil {
			return e.Err.Error()
		}
		return e.Msg
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// ExitCode maps the error kind to the code the process should exit with
func (e *Error) ExitCode() int {
	switch e.Kind {
	case InvalidArgs:
		return 1
	case SpawnFailed:
		return 2
	case ProcessFailed:
		return 4
	case ErrExit:
		// killed by a signal, no status to forward
		if e.Code <= 0 {
			return 1
		}
		return e.Code
	case Io:
		return 5
	default:
		return 1
	}
}

func NewInvalidArgs(format string, args ...interface{}) *Error {
	return &Error{Kind: InvalidArgs, Msg: fmt.Sprintf(format, args...)}
}

func NewSpawnFailed(err error) *Error {
	return &Error{Kind: SpawnFailed, Err: err}
}

func NewProcessFailed(msg string, err error) *Error {
	return &Error{Kind: ProcessFailed, Msg: msg, Err: err}
}

func NewErrExit(code int) *Error {
	return &Error{Kind: ErrExit, Code: code}
}

func NewIo(err error) *Error {
	return &Error{Kind: Io, Err: err}
}

// IsKind reports whether err wraps an *Error of the given kind
func IsKind(err error, kind ErrorKind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}

// ExitCode returns the process exit code for err: 0 for nil, the kind's code
// for an *Error anywhere in the chain, 1 otherwise.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var e *Error
	if errors.As(err, &e) {
		return e.ExitCode()
	}
	return 1
}
