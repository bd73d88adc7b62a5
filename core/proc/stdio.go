package proc

import "os"

// Stdio holds the standard streams handed to a new process. The files are
// passed to the child directly so it reads and writes them without the shell
// copying data in between.
type Stdio struct {
	Stdin  *os.File
	Stdout *os.File
	Stderr *os.File
}

// OSStdio returns the shell's own standard streams.
func OSStdio() Stdio {
	return Stdio{
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
}

// WithDefaults returns a copy of s with unset streams filled in from defaults.
func (s Stdio) WithDefaults(defaults Stdio) Stdio {
	if s.Stdin == nil {
		s.Stdin = defaults.Stdin
	}
	if s.Stdout == nil {
		s.Stdout = defaults.Stdout
	}
	if s.Stderr == nil {
		s.Stderr = defaults.Stderr
	}
	return s
}

// WithStdin returns a copy of s reading from f.
func (s Stdio) WithStdin(f *os.File) Stdio {
	s.Stdin = f
	return s
}

// WithStdout returns a copy of s writing output to f.
func (s Stdio) WithStdout(f *os.File) Stdio {
	s.Stdout = f
	return s
}

// Files returns the streams in file descriptor order.
func (s Stdio) Files() []*os.File {
	return []*os.File{s.Stdin, s.Stdout, s.Stderr}
}
