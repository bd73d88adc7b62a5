// Package parse turns a line of shell input into commands.
package parse

import (
	"errors"
	"strings"
)

const (
	// BackgroundMarker requests the command run without the shell waiting on it.
	BackgroundMarker = '&'
	// PipeMarker separates the producer and consumer of a pipeline.
	PipeMarker = '|'
)

// ErrTooManyStages is returned when a line holds more than one pipe.
var ErrTooManyStages = errors.New("only two-stage pipelines are supported")

// Command is a single parsed command.
type Command struct {
	// Argv holds the executable name followed by its arguments. An empty Argv
	// means there is nothing to run.
	Argv []string
	// Background is set if the line contained the background marker.
	Background bool
}

// IsEmpty returns true if the command has nothing to run.
func (c Command) IsEmpty() bool {
	return len(c.Argv) == 0
}

// Name returns the executable name, or the empty string for empty commands.
func (c Command) Name() string {
	if c.IsEmpty() {
		return ""
	}
	return c.Argv[0]
}

// String joins the arguments with a single space.
func (c Command) String() string {
	out := strings.Join(c.Argv, " ")
	if c.Background {
		out += " &"
	}
	return out
}

// Parse splits a single command into its arguments.
//
// Anything after the first newline is dropped. The first '&' marks the command
// as a background command and it and everything following it are discarded.
// The remainder is split on runs of spaces and tabs. Parse never fails, blank
// input yields a Command with an empty Argv.
func Parse(line string) Command {
	var out Command

	if idx := strings.IndexByte(line, '\n'); idx >= 0 {
		line = line[:idx]
	}

	if idx := strings.IndexRune(line, BackgroundMarker); idx >= 0 {
		out.Background = true
		line = line[:idx]
	}

	if fields := strings.FieldsFunc(line, isSeparator); len(fields) > 0 {
		out.Argv = fields
	}
	return out
}

func isSeparator(r rune) bool {
	return r == ' ' || r == '\t'
}

// SplitPipeline splits a line into the text of its pipeline stages.
//
// A line without a pipe is a single stage. A line with one pipe yields the
// producer and consumer text in that order. More pipes than that return
// ErrTooManyStages.
func SplitPipeline(line string) ([]string, error) {
	if idx := strings.IndexByte(line, '\n'); idx >= 0 {
		line = line[:idx]
	}

	stages := strings.Split(line, string(PipeMarker))
	if len(stages) > 2 {
		return nil, ErrTooManyStages
	}
	return stages, nil
}
