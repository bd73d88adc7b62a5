package shell

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"text/tabwriter"

	"github.com/pborman/getopt/v2"
)

// Builtins holds every command the shell runs itself rather than launching.
// Built-ins are only recognized when they're the only command on a line.
var Builtins = make(map[string]Builtin)

// BuiltinFunc runs a built-in with its full argument vector and returns the
// exit status.
type BuiltinFunc func(s *Shell, args []string) int

// Builtin is a registered shell built-in.
type Builtin struct {
	Usage string
	Short string
	Main  BuiltinFunc
}

// Cd changes the working directory of the shell and every command started
// after it.
func Cd(s *Shell, args []string) int {
	if len(args) < 2 {
		s.errorf("%s: expected argument", args[0])
		return 1
	}

	if err := s.sys.Chdir(args[1]); err != nil {
		s.errorf("%s: %v", args[0], err)
		return 1
	}
	return 0
}

// Exit quits the shell with the given code, or the status of the last command
// if none is given.
func Exit(s *Shell, args []string) int {
	code := s.status
	if len(args) > 1 {
		parsed, err := strconv.Atoi(args[1])
		if err != nil {
			s.errorf("%s: %s: numeric argument required", args[0], args[1])
			parsed = 2
		}
		code = parsed
	}

	s.exiting = true
	return code
}

// Help lists the built-ins.
func Help(s *Shell, args []string) int {
	w := s.stdout
	fmt.Fprintln(w, "These shell commands are defined internally.")
	fmt.Fprintln(w, "Anything else is run as a program found on $PATH.")
	fmt.Fprintln(w)
	WriteBuiltins(w)
	return 0
}

// History displays or clears the history list.
func History(s *Shell, args []string) int {
	opts := getopt.New()
	clear := opts.Bool('c', "clear the history by deleting all entries")
	helpOpt := opts.BoolLong("help", 'h', "show help and exit")

	if err := opts.Getopt(args, nil); err != nil || *helpOpt {
		w := s.stderr
		if err != nil {
			fmt.Fprintln(w, err)
		}
		fmt.Fprintln(w, "usage: history [-c]")
		fmt.Fprintln(w, "Display the history list with line numbers.")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Options:")
		opts.PrintOptions(w)
		if err != nil {
			return 2
		}
		return 0
	}

	if *clear {
		s.ClearHistory()
		return 0
	}

	for i, line := range s.history {
		fmt.Fprintf(s.stdout, "% 5d  %s\n", i+1, line)
	}
	return 0
}

// WriteBuiltins writes a table of the built-ins sorted by name.
func WriteBuiltins(w io.Writer) {
	var names []string
	for name := range Builtins {
		names = append(names, name)
	}
	sort.Strings(names)

	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	defer tw.Flush()

	for _, name := range names {
		fmt.Fprintf(tw, "%s\t%s\n", Builtins[name].Usage, Builtins[name].Short)
	}
}

func init() {
	Builtins["cd"] = Builtin{Usage: "cd DIR", Short: "Change the working directory.", Main: Cd}
	Builtins["exit"] = Builtin{Usage: "exit [CODE]", Short: "Quit the shell.", Main: Exit}
	Builtins["help"] = Builtin{Usage: "help", Short: "Show this list.", Main: Help}
	Builtins["history"] = Builtin{Usage: "history [-c]", Short: "Show or clear the command history.", Main: History}
}
