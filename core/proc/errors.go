package proc

import (
	"errors"
	"fmt"
	"io/fs"
	"os/exec"
)

var (
	// ErrEmptyCommand is returned when asked to run a command with no arguments.
	ErrEmptyCommand = errors.New("empty command")
	// ErrUnknownStrategy is returned for launcher strategies that don't exist.
	ErrUnknownStrategy = errors.New("unknown launcher strategy")
)

// LaunchError is returned when a process couldn't be created, either because
// the executable couldn't be resolved or because the OS refused to start it.
type LaunchError struct {
	// Argv is the command that was being launched.
	Argv []string
	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *LaunchError) Error() string {
	name := ""
	if len(e.Argv) > 0 {
		name = e.Argv[0]
	}
	return fmt.Sprintf("%s: %v", name, e.Err)
}

// Unwrap returns the underlying error.
func (e *LaunchError) Unwrap() error {
	return e.Err
}

// PipeError is returned when the pipe connecting two commands couldn't be
// created. Neither command is started when this happens.
type PipeError struct {
	Err error
}

// Error implements the error interface.
func (e *PipeError) Error() string {
	return fmt.Sprintf("pipe failed: %v", e.Err)
}

// Unwrap returns the underlying error.
func (e *PipeError) Unwrap() error {
	return e.Err
}

func newLaunchError(argv []string, err error) *LaunchError {
	return &LaunchError{Argv: argv, Err: cleanError(err)}
}

// cleanError strips the "exec: name:" and "fork/exec path:" wrappers that the
// os and os/exec packages add so diagnostics read like "ls: permission denied".
func cleanError(err error) error {
	var execErr *exec.Error
	if errors.As(err, &execErr) {
		return execErr.Err
	}
	var pathErr *fs.PathError
	if errors.As(err, &pathErr) && pathErr.Op == "fork/exec" {
		return pathErr.Err
	}
	return err
}
