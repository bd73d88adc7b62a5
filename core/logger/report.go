package logger

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
)

// ReadJSONLinesLog parses a newline delimited JSON log.
func ReadJSONLinesLog(r io.Reader, handler func(le *LogEntry)) error {
	decoder := json.NewDecoder(r)
	for decoder.More() {
		var logEntry LogEntry
		if err := decoder.Decode(&logEntry); err != nil {
			return err
		}

		handler(&logEntry)
	}
	return nil
}

// NewReport creates an empty report.
func NewReport() *Report {
	return &Report{
		CommandExit: CommandExitReport{
			ExitCodes: NewPathCounter("command", "exit_code"),
		},
		LaunchFailure: LaunchFailureReport{
			Failures: NewPathCounter("command", "error"),
		},
		Pipeline: PipelineReport{
			Stages: NewPathCounter("producer", "consumer"),
		},
	}
}

// Report holds statistics about the logged events.
type Report struct {
	LogEntries     int        `json:"log_entries"`
	Sessions       StrCounter `json:"sessions"`
	InvalidEntries StrCounter `json:"unknown_log_entries,omitempty"`

	RunCommand    RunCommandReport    `json:"run_command_report"`
	CommandExit   CommandExitReport   `json:"command_exit_report"`
	LaunchFailure LaunchFailureReport `json:"launch_failure_report"`
	PipeFailure   PipeFailureReport   `json:"pipe_failure_report"`
	Pipeline      PipelineReport      `json:"pipeline_report"`
}

func (r *Report) Update(le *LogEntry) {
	r.LogEntries++
	if le.SessionID != "" {
		r.Sessions.Increment(le.SessionID)
	}

	switch event := le.GetLogType().(type) {
	case *RunCommand:
		r.RunCommand.update(event)
	case *CommandExit:
		r.CommandExit.update(event)
	case *LaunchFailure:
		r.LaunchFailure.update(event)
	case *PipeFailure:
		r.PipeFailure.update(event)
	case *Pipeline:
		r.Pipeline.update(event)
	default:
		r.InvalidEntries.Increment(fmt.Sprintf("%T", event))
	}
}

type RunCommandReport struct {
	// Name of the command
	CommandNames StrCounter `json:"command_names"`
	// Resolved executable paths
	ResolvedPaths StrCounter `json:"resolved_paths"`
	// Number of commands sent to the background.
	Background int `json:"background"`
}

func (r *RunCommandReport) update(rc *RunCommand) {
	if len(rc.Command) > 0 {
		r.CommandNames.Increment(rc.Command[0])
	}
	if rc.ResolvedPath != "" {
		r.ResolvedPaths.Increment(rc.ResolvedPath)
	}
	if rc.Background {
		r.Background++
	}
}

type CommandExitReport struct {
	ExitCodes *PathCounter `json:"exit_codes"`
}

func (r *CommandExitReport) update(ce *CommandExit) {
	r.ExitCodes.Increment(commandName(ce.Command), fmt.Sprintf("%d", ce.ExitCode))
}

type LaunchFailureReport struct {
	Failures *PathCounter `json:"failures"`
}

func (r *LaunchFailureReport) update(lf *LaunchFailure) {
	r.Failures.Increment(commandName(lf.Command), lf.Error)
}

type PipeFailureReport struct {
	Errors StrCounter `json:"errors"`
}

func (r *PipeFailureReport) update(pf *PipeFailure) {
	r.Errors.Increment(pf.Error)
}

type PipelineReport struct {
	Count  int          `json:"count"`
	Stages *PathCounter `json:"stages"`
}

func (r *PipelineReport) update(p *Pipeline) {
	r.Count++
	r.Stages.Increment(commandName(p.Producer), commandName(p.Consumer))
}

func commandName(argv []string) string {
	if len(argv) == 0 {
		return ""
	}
	return argv[0]
}

// SessionReport holds the commands run in each session.
type SessionReport struct {
	// Map of sessionID -> commands
	sessions map[string][]string
}

func (s *SessionReport) Update(le *LogEntry) {
	if s.sessions == nil {
		s.sessions = make(map[string][]string)
	}

	sessionID := le.SessionID
	if sessionID == "" {
		return
	}

	switch event := le.GetLogType().(type) {
	case *RunCommand:
		s.sessions[sessionID] = append(s.sessions[sessionID], strings.Join(event.Command, " "))
	case *LaunchFailure:
		s.sessions[sessionID] = append(s.sessions[sessionID], strings.Join(event.Command, " "))
	}
}

// MarshalJSON implements custom JSON marshaler.
func (s *SessionReport) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.sessions)
}

// StrCounter counts the number of strings seen.
type StrCounter struct {
	internal map[string]int
}

// Increment adds one to the given key.
func (s *StrCounter) Increment(toAdd string) {
	if s.internal == nil {
		s.internal = make(map[string]int)
	}

	s.internal[toAdd]++
}

// Get returns the count for the given key.
func (s *StrCounter) Get(key string) int {
	return s.internal[key]
}

// Len returns the number of distinct keys.
func (s *StrCounter) Len() int {
	return len(s.internal)
}

// MarshalJSON implements custom JSON marshaler.
func (s StrCounter) MarshalJSON() ([]byte, error) {
	if s.internal == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(s.internal)
}

func NewPathCounter(cols ...string) *PathCounter {
	return &PathCounter{
		cols:     cols,
		internal: make(map[string]int),
	}
}

// PathCounter counts the number of tuples seen.
type PathCounter struct {
	cols     []string
	internal map[string]int
}

// Increment adds one to the given key.
func (ctr *PathCounter) Increment(toAdd ...string) {
	if len(toAdd) != len(ctr.cols) {
		panic("wrong number of columns to add")
	}

	ctr.internal[toKey(toAdd...)]++
}

// Get returns the count for the given tuple.
func (ctr *PathCounter) Get(vals ...string) int {
	return ctr.internal[toKey(vals...)]
}

// MarshalJSON implements custom JSON marshaler.
func (ctr *PathCounter) MarshalJSON() ([]byte, error) {
	type Count struct {
		Count  int               `json:"count"`
		Fields map[string]string `json:"event"`
		Path   string            `json:"-"`
	}

	out := []Count{}
	for k, v := range ctr.internal {
		count := Count{
			Count:  v,
			Path:   k,
			Fields: make(map[string]string),
		}

		splitPath := fromKey(k)
		for colNum, colVal := range ctr.cols {
			count.Fields[colVal] = splitPath[colNum]
		}

		out = append(out, count)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Count == out[j].Count {
			return out[i].Path < out[j].Path
		}
		return out[i].Count > out[j].Count
	})

	return json.Marshal(out)
}

func toKey(vals ...string) string {
	key, _ := json.Marshal(vals)
	return string(key)
}

func fromKey(key string) (out []string) {
	json.Unmarshal([]byte(key), &out)
	return
}
