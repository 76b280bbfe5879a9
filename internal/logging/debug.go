package logging

import (
	"fmt"
	"os"
)

// DebugEnabled returns true if debug mode is enabled via WL_DEBUG environment variable
func DebugEnabled() bool {
	return os.Getenv("WL_DEBUG") != ""
}

// Debugf prints a formatted debug message to stderr only if debug mode is enabled
func Debugf(format string, args ...interface{}) {
	if DebugEnabled() {
		fmt.Fprintf(os.Stderr, format, args...)
	}
}

// Debugln prints a debug line to stderr only if debug mode is enabled
func Debugln(args ...interface{}) {
	if DebugEnabled() {
		fmt.Fprintln(os.Stderr, args...)
	}
}
