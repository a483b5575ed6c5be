// Package tool wraps every external process batuta runs.
//
// All of the heavy lifting (decoding, building, aligning, signing, merging,
// instrumenting) is done by external tools treated as opaque, trusted
// operations. This package provides the single choke point through which
// those tools are located and invoked, so logging, timeouts, and error
// classification are uniform across every pipeline.
package tool

import (
	"strings"
	"time"
)

// Invocation describes one external tool run. Invocations are immutable per
// call and never retried automatically; every failure surfaces to the caller.
type Invocation struct {
	// Args is the full command vector, Args[0] being the executable.
	Args []string

	// Dir is the working directory for the process. Empty means inherit.
	Dir string

	// Timeout bounds the process wall-clock time. Zero means the caller's
	// context is the only bound.
	Timeout time.Duration

	// CheckExit controls whether a non-zero exit status is an error.
	// Best-effort invocations (e.g. uninstalling a possibly-absent package)
	// set this to false and inspect the Result instead.
	CheckExit bool
}

// Command creates an Invocation with CheckExit enabled, the common case.
func Command(args ...string) Invocation {
	return Invocation{Args: args, CheckExit: true}
}

// String renders the command vector for error messages. Callers that log
// invocations must scrub credentials first (see internal/logging).
func (inv Invocation) String() string {
	return strings.Join(inv.Args, " ")
}

// Result captures the outcome of a completed process.
type Result struct {
	// Args echoes the command vector that ran.
	Args []string

	// ExitCode is the process exit status. -1 when the process never ran.
	ExitCode int

	// Stdout is the captured standard output.
	Stdout string

	// Stderr is the captured standard error.
	Stderr string
}

// Success reports whether the process exited zero.
func (r Result) Success() bool {
	return r.ExitCode == 0
}

// Output returns stdout with surrounding whitespace trimmed.
func (r Result) Output() string {
	return strings.TrimSpace(r.Stdout)
}

// Lines returns stdout split into non-empty lines.
func (r Result) Lines() []string {
	var lines []string
	for _, line := range strings.Split(strings.TrimSpace(r.Stdout), "\n") {
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
