package proc

import (
	"os"

	"github.com/spf13/afero"
)

// SpawnLauncher starts processes with os.StartProcess after resolving the
// executable with LookPath.
type SpawnLauncher struct {
	// Fs is searched for executables, it defaults to the OS filesystem.
	Fs afero.Fs
	// Getenv looks up PATH, it defaults to os.Getenv.
	Getenv func(key string) string
}

var _ Launcher = (*SpawnLauncher)(nil)

func (l *SpawnLauncher) fs() afero.Fs {
	if l.Fs == nil {
		return afero.NewOsFs()
	}
	return l.Fs
}

func (l *SpawnLauncher) getenv(key string) string {
	if l.Getenv == nil {
		return os.Getenv(key)
	}
	return l.Getenv(key)
}

// Launch implements Launcher.Launch.
func (l *SpawnLauncher) Launch(argv []string, stdio Stdio) (Process, error) {
	if len(argv) == 0 {
		return nil, ErrEmptyCommand
	}

	path, err := LookPath(l.fs(), l.getenv("PATH"), argv[0])
	if err != nil {
		return nil, newLaunchError(argv, err)
	}

	proc, err := os.StartProcess(path, argv, &os.ProcAttr{
		Files: stdio.WithDefaults(OSStdio()).Files(),
	})
	if err != nil {
		return nil, newLaunchError(argv, err)
	}

	return &spawnProcess{proc: proc, path: path}, nil
}

type spawnProcess struct {
	proc *os.Process
	path string
}

func (p *spawnProcess) Pid() int {
	return p.proc.Pid
}

func (p *spawnProcess) Path() string {
	return p.path
}

func (p *spawnProcess) Wait() (int, error) {
	state, err := p.proc.Wait()
	if err != nil {
		return -1, err
	}
	return state.ExitCode(), nil
}
