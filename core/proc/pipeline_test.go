package proc

import (
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/josephlewis42/minish/core/logger"
	"github.com/josephlewis42/minish/core/parse"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunner_RunPipeline(t *testing.T) {
	for name, launcher := range launchers() {
		t.Run(name, func(t *testing.T) {
			t.Run("producer feeds consumer", func(t *testing.T) {
				stdout := tempStdout(t)
				runner := NewRunner(launcher, NewJobs(PolicyReap, nil, nil), WithStdio(testStdio(t, stdout)))

				var res PipelineResult
				withTimeout(t, 10*time.Second, func() {
					res = runner.RunPipeline(parse.Parse("echo hello"), parse.Parse("cat"))
				})

				require.NoError(t, res.Err)
				require.NoError(t, res.Left.Err)
				require.NoError(t, res.Right.Err)
				assert.False(t, res.Failed())
				assert.Equal(t, 0, res.Left.ExitCode)
				assert.Equal(t, 0, res.Right.ExitCode)
				assert.Equal(t, "hello\n", readAll(t, stdout))
			})

			t.Run("producer larger than pipe buffer", func(t *testing.T) {
				// The producer blocks on write until the consumer drains the pipe,
				// so this only finishes if both run at the same time.
				stdout := tempStdout(t)
				runner := NewRunner(launcher, NewJobs(PolicyReap, nil, nil), WithStdio(testStdio(t, stdout)))

				var res PipelineResult
				withTimeout(t, 20*time.Second, func() {
					res = runner.RunPipeline(parse.Parse("head -c 1048576 /dev/zero"), parse.Parse("wc -c"))
				})

				require.False(t, res.Failed())
				assert.Equal(t, "1048576", strings.TrimSpace(readAll(t, stdout)))
			})

			t.Run("missing producer", func(t *testing.T) {
				stdout := tempStdout(t)
				runner := NewRunner(launcher, NewJobs(PolicyReap, nil, nil), WithStdio(testStdio(t, stdout)))

				var res PipelineResult
				withTimeout(t, 10*time.Second, func() {
					res = runner.RunPipeline(parse.Parse("minish-badexe"), parse.Parse("cat"))
				})

				assert.NoError(t, res.Err)
				assert.ErrorIs(t, res.Left.Err, ErrNotFound)
				assert.False(t, res.Left.Started())
				assert.NoError(t, res.Right.Err)
				assert.True(t, res.Right.Started())
				assert.Equal(t, 0, res.Right.ExitCode)
				assert.True(t, res.Failed())
				assert.Empty(t, readAll(t, stdout))
			})

			t.Run("missing consumer", func(t *testing.T) {
				runner := NewRunner(launcher, NewJobs(PolicyReap, nil, nil), WithStdio(testStdio(t, nil)))

				var res PipelineResult
				withTimeout(t, 10*time.Second, func() {
					res = runner.RunPipeline(parse.Parse("echo hi"), parse.Parse("minish-badexe"))
				})

				assert.NoError(t, res.Err)
				assert.True(t, res.Left.Started())
				assert.NoError(t, res.Left.Err)
				assert.ErrorIs(t, res.Right.Err, ErrNotFound)
			})

			t.Run("empty consumer", func(t *testing.T) {
				runner := NewRunner(launcher, NewJobs(PolicyReap, nil, nil), WithStdio(testStdio(t, nil)))

				var res PipelineResult
				withTimeout(t, 10*time.Second, func() {
					res = runner.RunPipeline(parse.Parse("echo hi"), parse.Parse("  "))
				})

				assert.True(t, res.Left.Started())
				assert.ErrorIs(t, res.Right.Err, ErrEmptyCommand)
			})

			t.Run("background markers ignored", func(t *testing.T) {
				stdout := tempStdout(t)
				jobs := NewJobs(PolicyReap, nil, nil)
				runner := NewRunner(launcher, jobs, WithStdio(testStdio(t, stdout)))

				res := runner.RunPipeline(parse.Parse("echo bg &"), parse.Parse("cat &"))

				assert.False(t, res.Left.Background)
				assert.False(t, res.Right.Background)
				assert.Equal(t, 0, res.Left.ExitCode)
				assert.Equal(t, 0, res.Right.ExitCode)
				assert.Equal(t, 0, jobs.Len())
				assert.Equal(t, "bg\n", readAll(t, stdout))
			})
		})
	}
}

func TestRunner_RunPipeline_pipeFailure(t *testing.T) {
	launcher := &countingLauncher{}
	events := &recorder{}
	runner := NewRunner(launcher, NewJobs(PolicyReap, nil, nil), WithEventRecorder(events))
	runner.pipe = func() (*os.File, *os.File, error) {
		return nil, nil, errors.New("too many open files")
	}

	res := runner.RunPipeline(parse.Parse("echo hi"), parse.Parse("cat"))

	var pipeErr *PipeError
	require.ErrorAs(t, res.Err, &pipeErr)
	assert.True(t, res.Failed())
	assert.False(t, res.Left.Started())
	assert.False(t, res.Right.Started())
	assert.Empty(t, launcher.launched)
	assert.Equal(t, []logger.LogType{
		&logger.PipeFailure{Error: "too many open files"},
	}, events.Events())
}

func TestRunner_RunPipeline_startsBothBeforeWaiting(t *testing.T) {
	launcher := &orderLauncher{}
	runner := NewRunner(launcher, NewJobs(PolicyReap, nil, nil))

	res := runner.RunPipeline(parse.Parse("producer"), parse.Parse("consumer"))

	require.False(t, res.Failed())
	assert.Equal(t, []string{
		"start producer",
		"start consumer",
		"wait producer",
		"wait consumer",
	}, launcher.calls)
}

// orderLauncher records the order of starts and waits.
type orderLauncher struct {
	calls []string
}

func (l *orderLauncher) Launch(argv []string, stdio Stdio) (Process, error) {
	l.calls = append(l.calls, "start "+argv[0])
	return &orderProcess{launcher: l, name: argv[0]}, nil
}

type orderProcess struct {
	launcher *orderLauncher
	name     string
}

func (p *orderProcess) Pid() int     { return len(p.name) }
func (p *orderProcess) Path() string { return p.name }
func (p *orderProcess) Wait() (int, error) {
	p.launcher.calls = append(p.launcher.calls, "wait "+p.name)
	return 0, nil
}
