// Package proc launches native processes for the shell.
//
// A Runner starts single commands in the foreground or background and
// connects two commands with an anonymous pipe. Process creation is delegated
// to a Launcher, of which there are two strategies: one built on os/exec and
// one built directly on os.StartProcess. Background processes are handed to a
// Jobs registry which, depending on its policy, reaps them as they finish or
// leaves them for the operating system to clean up when the shell exits.
package proc
