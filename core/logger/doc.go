// Package logger is a standardized event logging framework for the shell's
// process executions.
package logger
