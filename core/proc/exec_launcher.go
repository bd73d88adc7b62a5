package proc

import (
	"errors"
	"os/exec"
)

// ExecLauncher starts processes using os/exec.
type ExecLauncher struct{}

var _ Launcher = (*ExecLauncher)(nil)

// Launch implements Launcher.Launch.
func (*ExecLauncher) Launch(argv []string, stdio Stdio) (Process, error) {
	if len(argv) == 0 {
		return nil, ErrEmptyCommand
	}

	path, err := exec.LookPath(argv[0])
	// Like execvp, run executables found through "." or empty PATH entries.
	if errors.Is(err, exec.ErrDot) {
		err = nil
	}
	if err != nil {
		return nil, newLaunchError(argv, err)
	}

	stdio = stdio.WithDefaults(OSStdio())
	cmd := &exec.Cmd{
		Path:   path,
		Args:   argv,
		Stdin:  stdio.Stdin,
		Stdout: stdio.Stdout,
		Stderr: stdio.Stderr,
	}

	if err := cmd.Start(); err != nil {
		return nil, newLaunchError(argv, err)
	}

	return &execProcess{cmd: cmd}, nil
}

type execProcess struct {
	cmd *exec.Cmd
}

func (p *execProcess) Pid() int {
	return p.cmd.Process.Pid
}

func (p *execProcess) Path() string {
	return p.cmd.Path
}

func (p *execProcess) Wait() (int, error) {
	err := p.cmd.Wait()

	var exitErr *exec.ExitError
	switch {
	case errors.As(err, &exitErr):
		return exitErr.ExitCode(), nil
	case err != nil:
		return -1, err
	default:
		return p.cmd.ProcessState.ExitCode(), nil
	}
}
