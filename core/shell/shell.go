// Package shell implements the interactive dispatch loop: it reads lines,
// runs built-ins and hands everything else to a proc.Runner.
package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/abiosoft/readline"
	"github.com/fatih/color"
	"github.com/josephlewis42/minish/core/config"
	"github.com/josephlewis42/minish/core/parse"
	"github.com/josephlewis42/minish/core/proc"
	"golang.org/x/term"
)

const (
	// PipelineForeground runs pipelines in the foreground even if they contain
	// the background marker.
	PipelineForeground = "foreground"
	// PipelineReject refuses to run pipelines that contain the background
	// marker.
	PipelineReject = "reject"

	// ColorAuto colorizes diagnostics when stderr is a terminal.
	ColorAuto = "auto"
	// ColorAlways colorizes diagnostics unconditionally.
	ColorAlways = "always"
	// ColorNever disables colorized diagnostics.
	ColorNever = "never"
)

var (
	// ErrBackgroundPipeline is reported for pipelines containing the
	// background marker when they're configured to be rejected.
	ErrBackgroundPipeline = errors.New("pipelines can't run in the background")
	// ErrLineTooLong is reported for lines over the configured maximum length.
	ErrLineTooLong = errors.New("line too long")
	// ErrEmptyStage is reported for pipelines with nothing on one side of the
	// pipe.
	ErrEmptyStage = errors.New("syntax error near unexpected token `|'")
)

// Option configures a Shell.
type Option func(*Shell)

// WithSystem sets the operating system the shell changes directory in and
// reads prompt information from.
func WithSystem(sys System) Option {
	return func(s *Shell) {
		s.sys = sys
	}
}

// WithIO sets the shell's own streams. Launched processes get theirs from the
// Runner.
func WithIO(stdin io.Reader, stdout, stderr io.Writer) Option {
	return func(s *Shell) {
		s.stdin = stdin
		s.stdout = stdout
		s.stderr = stderr
	}
}

// WithLogger sets the operator log.
func WithLogger(l *log.Logger) Option {
	return func(s *Shell) {
		s.log = l
	}
}

// Shell reads lines and dispatches them.
type Shell struct {
	cfg    *config.Configuration
	runner *proc.Runner
	sys    System

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	log    *log.Logger

	errColor *color.Color
	readline *readline.Instance

	history []string
	status  int
	exiting bool
}

// NewShell creates a shell that runs commands with runner.
func NewShell(cfg *config.Configuration, runner *proc.Runner, opts ...Option) *Shell {
	s := &Shell{
		cfg:    cfg,
		runner: runner,
		sys:    HostSystem(),
		stdin:  os.Stdin,
		stdout: os.Stdout,
		stderr: os.Stderr,
		log:    log.New(io.Discard, "", 0),
	}

	for _, opt := range opts {
		opt(s)
	}

	s.errColor = diagnosticColor(cfg.Color, s.stderr)
	return s
}

func diagnosticColor(mode string, w io.Writer) *color.Color {
	c := color.New(color.FgRed)
	switch mode {
	case ColorAlways:
		c.EnableColor()
	case ColorNever:
		c.DisableColor()
	default:
		if isTerminal(w) {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return c
}

func isTerminal(stream interface{}) bool {
	f, ok := stream.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// Status returns the exit status of the last line.
func (s *Shell) Status() int {
	return s.status
}

// History returns the lines entered so far, oldest first.
func (s *Shell) History() []string {
	return append([]string(nil), s.history...)
}

// ClearHistory forgets every line entered so far.
func (s *Shell) ClearHistory() {
	s.history = nil
	if s.readline != nil {
		s.readline.Operation.ResetHistory()
	}
}

func (s *Shell) errorf(format string, args ...interface{}) {
	fmt.Fprintln(s.stderr, s.errColor.Sprintf(format, args...))
}

// RunLine handles a single line of input and returns false once the shell
// should quit.
func (s *Shell) RunLine(line string) bool {
	if idx := strings.IndexByte(line, '\n'); idx >= 0 {
		line = line[:idx]
	}

	if limit := s.cfg.MaxLineLength; limit > 0 && len(line) > limit {
		s.errorf("%v: %d bytes, the limit is %d", ErrLineTooLong, len(line), limit)
		s.status = 1
		return true
	}

	if strings.TrimSpace(line) != "" {
		s.history = append(s.history, line)
	}

	stages, err := parse.SplitPipeline(line)
	if err != nil {
		s.errorf("%v", err)
		s.status = 2
		return true
	}

	if len(stages) == 1 {
		s.runCommand(parse.Parse(stages[0]))
	} else {
		s.runPipeline(parse.Parse(stages[0]), parse.Parse(stages[1]))
	}

	return !s.exiting
}

func (s *Shell) runCommand(cmd parse.Command) {
	if cmd.IsEmpty() {
		return
	}

	if builtin, ok := Builtins[cmd.Name()]; ok {
		s.status = builtin.Main(s, cmd.Argv)
		return
	}

	res := s.runner.Run(cmd)
	if res.Err != nil {
		s.errorf("%v", res.Err)
	}
	s.status = statusOf(res)
}

func (s *Shell) runPipeline(left, right parse.Command) {
	if left.IsEmpty() || right.IsEmpty() {
		s.errorf("%v", ErrEmptyStage)
		s.status = 2
		return
	}

	if (left.Background || right.Background) && s.cfg.PipelineBackground == PipelineReject {
		s.errorf("%v", ErrBackgroundPipeline)
		s.status = 2
		return
	}

	res := s.runner.RunPipeline(left, right)
	if res.Err != nil {
		s.errorf("%v", res.Err)
		s.status = 1
		return
	}

	for _, stage := range []proc.Result{res.Left, res.Right} {
		if stage.Err != nil {
			s.errorf("%v", stage.Err)
		}
	}
	s.status = statusOf(res.Right)
}

func statusOf(res proc.Result) int {
	var launchErr *proc.LaunchError
	switch {
	case errors.Is(res.Err, proc.ErrNotFound):
		return 127
	case errors.As(res.Err, &launchErr):
		return 126
	case res.Err != nil:
		return 1
	case res.Background:
		return 0
	default:
		return res.ExitCode
	}
}

// Run reads and dispatches lines until end of input or exit, then waits for
// background processes according to the configured policy. It returns the
// shell's exit status.
func (s *Shell) Run() int {
	interactive := isTerminal(s.stdin) && isTerminal(s.stdout)
	rlConfig := &readline.Config{
		Prompt:      s.Prompt(),
		HistoryFile: s.cfg.HistoryPath(),
		Stdin:       readline.NewCancelableStdin(s.stdin),
		Stdout:      s.stdout,
		Stderr:      s.stderr,
		FuncIsTerminal: func() bool {
			return interactive
		},
	}
	if !interactive {
		rlConfig.FuncMakeRaw = func() error { return nil }
		rlConfig.FuncExitRaw = func() error { return nil }
	}

	rl, err := readline.NewEx(rlConfig)
	if err != nil {
		s.errorf("readline: %v", err)
		return 1
	}
	s.readline = rl
	defer rl.Close()

	for {
		rl.SetPrompt(s.Prompt())
		line, err := rl.Readline()

		switch {
		case err == io.EOF:
			s.shutdown()
			return s.status

		case err == readline.ErrInterrupt:
			continue

		case err != nil:
			s.log.Printf("readline: %v", err)
			continue
		}

		if !s.RunLine(line) {
			s.shutdown()
			return s.status
		}
	}
}

// Close waits for background processes according to the configured policy.
// Use it when lines are fed with RunLine rather than Run.
func (s *Shell) Close() error {
	_, err := s.waitForJobs()
	return err
}

func (s *Shell) shutdown() {
	if _, err := s.waitForJobs(); err != nil {
		s.log.Printf("%v", err)
	}
}

func (s *Shell) waitForJobs() (int, error) {
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.ReapTimeout.Std())
	defer cancel()

	return s.runner.Jobs().Shutdown(ctx)
}
