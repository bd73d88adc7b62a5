package proc

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/josephlewis42/minish/core/logger"
	"github.com/josephlewis42/minish/core/parse"
)

// Result is the outcome of running a single command.
type Result struct {
	// Argv is the command that was run.
	Argv []string
	// Pid is the process ID, zero if the process never started.
	Pid int
	// ExitCode holds the exit status for commands that were waited on and -1
	// otherwise.
	ExitCode int
	// Background is set if the shell didn't wait on the process.
	Background bool
	// Err is set if the command couldn't be run.
	Err error
}

// Started returns true if a process was created.
func (r Result) Started() bool {
	return r.Pid != 0
}

// Failed returns true if the command couldn't be run or exited non-zero.
func (r Result) Failed() bool {
	return r.Err != nil || (!r.Background && r.ExitCode != 0)
}

// Option configures a Runner.
type Option func(*Runner)

// WithStdio sets the streams inherited by launched processes.
func WithStdio(stdio Stdio) Option {
	return func(r *Runner) {
		r.stdio = stdio.WithDefaults(OSStdio())
	}
}

// WithOutput sets where background process notices are written.
func WithOutput(w io.Writer) Option {
	return func(r *Runner) {
		r.out = w
	}
}

// WithLogger sets the operator log.
func WithLogger(l *log.Logger) Option {
	return func(r *Runner) {
		r.log = l
	}
}

// WithEventRecorder sets where execution events are recorded.
func WithEventRecorder(events logger.EventRecorder) Option {
	return func(r *Runner) {
		r.events = events
	}
}

// Runner runs parsed commands and pipelines.
type Runner struct {
	launcher Launcher
	jobs     *Jobs

	stdio  Stdio
	out    io.Writer
	log    *log.Logger
	events logger.EventRecorder

	// pipe creates the channel between pipeline stages.
	pipe func() (r *os.File, w *os.File, err error)
}

// NewRunner creates a Runner that starts processes with the launcher and hands
// background processes to jobs.
func NewRunner(launcher Launcher, jobs *Jobs, opts ...Option) *Runner {
	r := &Runner{
		launcher: launcher,
		jobs:     jobs,
		stdio:    OSStdio(),
		out:      os.Stdout,
		log:      log.New(io.Discard, "", 0),
		events:   logger.NewNopLogger().Sessionless(),
		pipe:     os.Pipe,
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Jobs returns the background job registry.
func (r *Runner) Jobs() *Jobs {
	return r.jobs
}

// Run runs a single command. Foreground commands are waited on, background
// commands are announced on the output stream and handed to the job registry.
func (r *Runner) Run(cmd parse.Command) Result {
	res := Result{
		Argv:       cmd.Argv,
		ExitCode:   -1,
		Background: cmd.Background,
	}

	proc, err := r.start(cmd.Argv, r.stdio, cmd.Background)
	if err != nil {
		res.Err = err
		return res
	}
	res.Pid = proc.Pid()

	if cmd.Background {
		fmt.Fprintf(r.out, "Process %d running in background\n", proc.Pid())
		r.jobs.Add(proc, cmd.Argv)
		return res
	}

	res.ExitCode, res.Err = r.wait(proc, cmd.Argv)
	return res
}

func (r *Runner) start(argv []string, stdio Stdio, background bool) (Process, error) {
	if len(argv) == 0 {
		return nil, ErrEmptyCommand
	}

	proc, err := r.launcher.Launch(argv, stdio)
	if err != nil {
		r.record(&logger.LaunchFailure{
			Command: argv,
			Error:   unwrapLaunchError(err).Error(),
		})
		return nil, err
	}

	r.record(&logger.RunCommand{
		Command:      argv,
		ResolvedPath: proc.Path(),
		Pid:          proc.Pid(),
		Background:   background,
	})
	return proc, nil
}

func (r *Runner) wait(proc Process, argv []string) (int, error) {
	code, err := proc.Wait()
	if err != nil {
		r.log.Printf("wait %d: %v", proc.Pid(), err)
		return code, fmt.Errorf("wait %s: %w", argv[0], err)
	}

	r.record(&logger.CommandExit{
		Command:  argv,
		Pid:      proc.Pid(),
		ExitCode: code,
	})
	return code, nil
}

func (r *Runner) record(event logger.LogType) {
	if err := r.events.Record(event); err != nil {
		r.log.Printf("couldn't record event: %v", err)
	}
}

func unwrapLaunchError(err error) error {
	var le *LaunchError
	if errors.As(err, &le) {
		return le.Err
	}
	return err
}
