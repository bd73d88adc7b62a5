package shell

import (
	"bytes"
	"io/fs"
	"strings"
	"sync"
	"testing"

	"github.com/josephlewis42/minish/core/config"
	"github.com/josephlewis42/minish/core/proc"
)

// fakeLauncher pretends to run commands. Commands named "badexe" can't be
// found and "false" exits 1, everything else exits 0.
type fakeLauncher struct {
	mu       sync.Mutex
	launched []string
}

func (l *fakeLauncher) Launch(argv []string, stdio proc.Stdio) (proc.Process, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if argv[0] == "badexe" {
		return nil, &proc.LaunchError{Argv: argv, Err: proc.ErrNotFound}
	}

	l.launched = append(l.launched, strings.Join(argv, " "))

	code := 0
	if argv[0] == "false" {
		code = 1
	}
	return &fakeProcess{pid: 100 + len(l.launched), code: code}, nil
}

func (l *fakeLauncher) Launched() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.launched...)
}

type fakeProcess struct {
	pid  int
	code int
}

func (p *fakeProcess) Pid() int           { return p.pid }
func (p *fakeProcess) Path() string       { return "/usr/bin/fake" }
func (p *fakeProcess) Wait() (int, error) { return p.code, nil }

type fakeSystem struct {
	wd   string
	home string
	host string
	user string
	uid  int
}

func (f *fakeSystem) Getwd() (string, error)       { return f.wd, nil }
func (f *fakeSystem) Hostname() (string, error)    { return f.host, nil }
func (f *fakeSystem) UserHomeDir() (string, error) { return f.home, nil }
func (f *fakeSystem) Username() string             { return f.user }
func (f *fakeSystem) Getuid() int                  { return f.uid }

func (f *fakeSystem) Chdir(dir string) error {
	if strings.HasPrefix(dir, "/missing") {
		return &fs.PathError{Op: "chdir", Path: dir, Err: fs.ErrNotExist}
	}
	f.wd = dir
	return nil
}

type testShell struct {
	*Shell
	launcher *fakeLauncher
	sys      *fakeSystem
	stdout   *bytes.Buffer
	stderr   *bytes.Buffer
}

func newTestShell(t *testing.T, modify func(cfg *config.Configuration)) *testShell {
	t.Helper()

	cfg := config.Default()
	cfg.Color = ColorNever
	if modify != nil {
		modify(cfg)
	}

	ts := &testShell{
		launcher: &fakeLauncher{},
		sys: &fakeSystem{
			wd:   "/home/alice/src",
			home: "/home/alice",
			host: "devbox",
			user: "alice",
			uid:  1000,
		},
		stdout: &bytes.Buffer{},
		stderr: &bytes.Buffer{},
	}

	runner := proc.NewRunner(ts.launcher,
		proc.NewJobs(proc.Policy(cfg.BackgroundPolicy), nil, nil),
		proc.WithOutput(ts.stdout))

	ts.Shell = NewShell(cfg, runner,
		WithSystem(ts.sys),
		WithIO(strings.NewReader(""), ts.stdout, ts.stderr))

	t.Cleanup(func() { ts.Close() })
	return ts
}

// runLines feeds each line to the shell and reports whether it's still running.
func (ts *testShell) runLines(lines ...string) bool {
	for _, line := range lines {
		if !ts.RunLine(line) {
			return false
		}
	}
	return true
}
