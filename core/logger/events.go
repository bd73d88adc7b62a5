package logger

// LogEntry is a single line of the event log. Exactly one of the event fields
// is set.
type LogEntry struct {
	TimestampMicros int64  `json:"timestamp_micros"`
	SessionID       string `json:"session_id,omitempty"`

	RunCommand    *RunCommand    `json:"run_command,omitempty"`
	CommandExit   *CommandExit   `json:"command_exit,omitempty"`
	LaunchFailure *LaunchFailure `json:"launch_failure,omitempty"`
	PipeFailure   *PipeFailure   `json:"pipe_failure,omitempty"`
	Pipeline      *Pipeline      `json:"pipeline,omitempty"`
}

// LogType is implemented by every event that can be stored in a LogEntry.
type LogType interface {
	setOn(le *LogEntry)
}

// GetLogType returns the event held by the entry or nil if none is set.
func (le *LogEntry) GetLogType() LogType {
	switch {
	case le.RunCommand != nil:
		return le.RunCommand
	case le.CommandExit != nil:
		return le.CommandExit
	case le.LaunchFailure != nil:
		return le.LaunchFailure
	case le.PipeFailure != nil:
		return le.PipeFailure
	case le.Pipeline != nil:
		return le.Pipeline
	default:
		return nil
	}
}

// RunCommand is logged when a process is started.
type RunCommand struct {
	Command      []string `json:"command"`
	ResolvedPath string   `json:"resolved_path,omitempty"`
	Pid          int      `json:"pid"`
	Background   bool     `json:"background,omitempty"`
}

func (e *RunCommand) setOn(le *LogEntry) { le.RunCommand = e }

// CommandExit is logged when a started process was waited on.
type CommandExit struct {
	Command    []string `json:"command"`
	Pid        int      `json:"pid"`
	ExitCode   int      `json:"exit_code"`
	Background bool     `json:"background,omitempty"`
}

func (e *CommandExit) setOn(le *LogEntry) { le.CommandExit = e }

// LaunchFailure is logged when a process couldn't be created.
type LaunchFailure struct {
	Command []string `json:"command"`
	Error   string   `json:"error"`
}

func (e *LaunchFailure) setOn(le *LogEntry) { le.LaunchFailure = e }

// PipeFailure is logged when the pipe between two stages couldn't be created.
type PipeFailure struct {
	Error string `json:"error"`
}

func (e *PipeFailure) setOn(le *LogEntry) { le.PipeFailure = e }

// Pipeline is logged before the stages of a pipeline are started.
type Pipeline struct {
	Producer []string `json:"producer"`
	Consumer []string `json:"consumer"`
}

func (e *Pipeline) setOn(le *LogEntry) { le.Pipeline = e }
