package proc

import (
	"github.com/josephlewis42/minish/core/logger"
	"github.com/josephlewis42/minish/core/parse"
)

// PipelineResult is the outcome of running two commands connected by a pipe.
type PipelineResult struct {
	// Left is the producer's result.
	Left Result
	// Right is the consumer's result.
	Right Result
	// Err is a *PipeError if the pipe couldn't be created, in which case
	// neither command was started.
	Err error
}

// Failed returns true if the pipe or either stage failed.
func (p PipelineResult) Failed() bool {
	return p.Err != nil || p.Left.Failed() || p.Right.Failed()
}

// RunPipeline connects the standard output of left to the standard input of
// right and waits for both to exit.
//
// Both stages are started before either is waited on. The background markers
// of both commands are ignored, pipelines always run in the foreground. A stage
// that fails to start doesn't prevent the other from running.
func (r *Runner) RunPipeline(left, right parse.Command) PipelineResult {
	out := PipelineResult{
		Left:  Result{Argv: left.Argv, ExitCode: -1},
		Right: Result{Argv: right.Argv, ExitCode: -1},
	}

	reader, writer, err := r.pipe()
	if err != nil {
		out.Err = &PipeError{Err: err}
		r.record(&logger.PipeFailure{Error: err.Error()})
		return out
	}

	r.record(&logger.Pipeline{
		Producer: left.Argv,
		Consumer: right.Argv,
	})

	leftProc, leftErr := r.start(left.Argv, r.stdio.WithStdout(writer), false)
	rightProc, rightErr := r.start(right.Argv, r.stdio.WithStdin(reader), false)

	// The children hold their own copies now. The reader only sees EOF once
	// every write end, including this one, is closed.
	if err := writer.Close(); err != nil {
		r.log.Printf("close pipe writer: %v", err)
	}
	if err := reader.Close(); err != nil {
		r.log.Printf("close pipe reader: %v", err)
	}

	out.Left = r.finishStage(out.Left, leftProc, leftErr)
	out.Right = r.finishStage(out.Right, rightProc, rightErr)
	return out
}

func (r *Runner) finishStage(res Result, proc Process, startErr error) Result {
	if startErr != nil {
		res.Err = startErr
		return res
	}

	res.Pid = proc.Pid()
	res.ExitCode, res.Err = r.wait(proc, res.Argv)
	return res
}
