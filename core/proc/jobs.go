package proc

import (
	"context"
	"fmt"
	"io"
	"log"
	"strings"
	"sync"

	"github.com/josephlewis42/minish/core/logger"
	"golang.org/x/sync/errgroup"
)

// Policy decides what happens to background processes once they exit.
type Policy string

const (
	// PolicyReap waits on every background process as soon as it's started so
	// its exit status is collected when it terminates.
	PolicyReap Policy = "reap"
	// PolicyLeak never waits on background processes. Terminated processes
	// stay around until the shell itself exits.
	PolicyLeak Policy = "leak"
)

// Job is a process running in the background.
type Job struct {
	Argv []string
	Pid  int

	done     chan struct{}
	exitCode int
	err      error
}

// Done returns true if the job has been reaped.
func (j *Job) Done() bool {
	select {
	case <-j.done:
		return true
	default:
		return false
	}
}

// ExitCode returns the job's exit code and true if it has been reaped.
func (j *Job) ExitCode() (int, bool) {
	if !j.Done() {
		return -1, false
	}
	return j.exitCode, true
}

// Err returns the error from waiting on the job, if any.
func (j *Job) Err() error {
	if !j.Done() {
		return nil
	}
	return j.err
}

// Jobs tracks background processes.
type Jobs struct {
	policy Policy
	log    *log.Logger
	events logger.EventRecorder

	mu    sync.Mutex
	jobs  []*Job
	group errgroup.Group
}

// NewJobs creates a registry with the given policy. The logger and recorder
// may be nil.
func NewJobs(policy Policy, l *log.Logger, events logger.EventRecorder) *Jobs {
	if l == nil {
		l = log.New(io.Discard, "", 0)
	}
	if events == nil {
		events = logger.NewNopLogger().Sessionless()
	}

	return &Jobs{
		policy: policy,
		log:    l,
		events: events,
	}
}

// Policy returns the registry's reaping policy.
func (j *Jobs) Policy() Policy {
	return j.policy
}

// Add registers a started background process.
func (j *Jobs) Add(proc Process, argv []string) *Job {
	job := &Job{
		Argv: argv,
		Pid:  proc.Pid(),
		done: make(chan struct{}),
	}

	j.mu.Lock()
	j.jobs = append(j.jobs, job)
	j.mu.Unlock()

	if j.policy == PolicyReap {
		j.group.Go(func() error {
			j.reap(job, proc)
			return nil
		})
	}

	return job
}

func (j *Jobs) reap(job *Job, proc Process) {
	job.exitCode, job.err = proc.Wait()
	close(job.done)

	if job.err != nil {
		j.log.Printf("[%d] wait failed: %v", job.Pid, job.err)
		return
	}

	j.log.Printf("[%d] Done (exit %d)\t%s", job.Pid, job.exitCode, strings.Join(job.Argv, " "))
	if err := j.events.Record(&logger.CommandExit{
		Command:    job.Argv,
		Pid:        job.Pid,
		ExitCode:   job.exitCode,
		Background: true,
	}); err != nil {
		j.log.Printf("couldn't record event: %v", err)
	}
}

// List returns a snapshot of all registered jobs.
func (j *Jobs) List() []*Job {
	j.mu.Lock()
	defer j.mu.Unlock()

	out := make([]*Job, len(j.jobs))
	copy(out, j.jobs)
	return out
}

// Len returns the number of registered jobs.
func (j *Jobs) Len() int {
	j.mu.Lock()
	defer j.mu.Unlock()

	return len(j.jobs)
}

// Running returns the number of jobs that haven't been reaped.
func (j *Jobs) Running() int {
	running := 0
	for _, job := range j.List() {
		if !job.Done() {
			running++
		}
	}
	return running
}

// Shutdown makes a best-effort attempt to reap outstanding jobs before the
// shell exits. It waits until every job is reaped or ctx is done and returns
// the number of jobs still outstanding.
//
// Under PolicyLeak nothing is waited on.
func (j *Jobs) Shutdown(ctx context.Context) (int, error) {
	if j.policy != PolicyReap {
		remaining := j.Running()
		if remaining > 0 {
			j.log.Printf("leaving %d background process(es) unreaped", remaining)
		}
		return remaining, nil
	}

	done := make(chan struct{})
	go func() {
		_ = j.group.Wait()
		close(done)
	}()

	select {
	case <-done:
		return 0, nil
	case <-ctx.Done():
		remaining := j.Running()
		j.log.Printf("gave up waiting on %d background process(es)", remaining)
		return remaining, fmt.Errorf("reap background processes: %w", ctx.Err())
	}
}
