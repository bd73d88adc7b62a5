package proc

import (
	"os"
	"sync"
	"testing"
	"time"

	"github.com/josephlewis42/minish/core/logger"
	"github.com/stretchr/testify/require"
)

// launchers returns every launcher strategy so tests cover all of them.
func launchers() map[string]Launcher {
	return map[string]Launcher{
		StrategyExec:  &ExecLauncher{},
		StrategySpawn: &SpawnLauncher{},
	}
}

func tempStdout(t *testing.T) *os.File {
	t.Helper()

	fd, err := os.CreateTemp(t.TempDir(), "stdout")
	require.NoError(t, err)
	t.Cleanup(func() { fd.Close() })
	return fd
}

func readAll(t *testing.T, fd *os.File) string {
	t.Helper()

	data, err := os.ReadFile(fd.Name())
	require.NoError(t, err)
	return string(data)
}

func testStdio(t *testing.T, stdout *os.File) Stdio {
	t.Helper()

	devNull, err := os.Open(os.DevNull)
	require.NoError(t, err)
	t.Cleanup(func() { devNull.Close() })

	return Stdio{Stdin: devNull, Stdout: stdout, Stderr: os.Stderr}
}

// withTimeout fails the test if fn doesn't return in time.
func withTimeout(t *testing.T, timeout time.Duration, fn func()) {
	t.Helper()

	done := make(chan struct{})
	go func() {
		defer close(done)
		fn()
	}()

	select {
	case <-done:
	case <-time.After(timeout):
		t.Fatalf("didn't finish within %s", timeout)
	}
}

type recorder struct {
	mu     sync.Mutex
	events []logger.LogType
}

var _ logger.EventRecorder = (*recorder)(nil)

func (r *recorder) Record(event logger.LogType) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return nil
}

func (r *recorder) Events() []logger.LogType {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]logger.LogType, len(r.events))
	copy(out, r.events)
	return out
}

type fakeProcess struct {
	pid  int
	code int
	exit chan struct{}
}

func newFakeProcess(pid, code int) *fakeProcess {
	return &fakeProcess{pid: pid, code: code, exit: make(chan struct{})}
}

func (p *fakeProcess) Pid() int     { return p.pid }
func (p *fakeProcess) Path() string { return "/bin/fake" }
func (p *fakeProcess) Wait() (int, error) {
	<-p.exit
	return p.code, nil
}

type countingLauncher struct {
	mu       sync.Mutex
	launched [][]string
}

func (l *countingLauncher) Launch(argv []string, stdio Stdio) (Process, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.launched = append(l.launched, argv)

	proc := newFakeProcess(1000+len(l.launched), 0)
	close(proc.exit)
	return proc, nil
}
