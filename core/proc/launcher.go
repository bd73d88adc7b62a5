package proc

import (
	"fmt"

	"github.com/spf13/afero"
)

// Launcher strategies.
const (
	// StrategyExec creates processes with os/exec.
	StrategyExec = "exec"
	// StrategySpawn creates processes with os.StartProcess and resolves
	// executables with LookPath.
	StrategySpawn = "spawn"
)

// Strategies lists the available launcher strategies.
func Strategies() []string {
	return []string{StrategyExec, StrategySpawn}
}

// Launcher creates processes.
type Launcher interface {
	// Launch resolves argv[0] against the search path and starts it with
	// the given standard streams. It doesn't wait for the process to finish.
	// Failures to resolve or start the executable are returned as a
	// *LaunchError.
	Launch(argv []string, stdio Stdio) (Process, error)
}

// Process is a handle to a started process.
type Process interface {
	// Pid returns the OS process ID.
	Pid() int
	// Path returns the resolved path of the executable.
	Path() string
	// Wait blocks until the process exits and returns its exit code. An exit
	// code other than zero isn't an error. Wait may only be called once.
	Wait() (int, error)
}

// NewLauncher creates a Launcher for the named strategy. The filesystem is used
// by strategies that resolve executables themselves.
func NewLauncher(strategy string, fsys afero.Fs) (Launcher, error) {
	switch strategy {
	case StrategyExec:
		return &ExecLauncher{}, nil
	case StrategySpawn:
		return &SpawnLauncher{Fs: fsys}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, strategy)
	}
}
