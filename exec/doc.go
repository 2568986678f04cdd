// Package exec composes external processes and in-process closures into
// linear pipelines with shell-pipe semantics.
//
// Three units satisfy the Runnable contract:
//
//   - Process wraps one external program invocation. Its executable path is
//     either fixed (NewProcess) or located lazily on first Run (NewCommand).
//   - Closure wraps a Go function that behaves like a process: it reads an
//     input Channel and writes output and error Channels (NewClosure), or
//     consumes and produces whole strings (NewTextClosure).
//   - Pair joins two Runnables so the first one's stdout feeds the second
//     one's stdin (Pipe, Chain).
//
// # Basic Usage
//
//	echo := exec.NewProcess("/bin/echo", exec.WithArgs("1:2:3"))
//	rev := exec.NewProcess("/usr/bin/rev")
//	res, err := exec.Pipe(echo, rev).Run(ctx, nil)
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Print(res.StdoutText()) // "3:2:1\n"
//
// # Results
//
// Every Run returns a Result holding the captured stdout, stderr and exit
// code. Stdout is nil (absent) when the unit wrote nothing, and it is always
// nil for a stage whose output was handed to a downstream stage. A non-zero
// exit code is not an error: callers inspect Result.ExitCode. Errors are
// reserved for failures that prevent a run: a command that does not resolve,
// a process that cannot be spawned, or an error returned by a closure.
//
// # Short-Circuit
//
// A Pair runs its left stage to completion first. If the left stage exits
// non-zero, the right stage is never started and the left stage's result is
// returned unchanged. Chain(a, b, c) and Pipe(a, Pipe(b, c)) behave the same.
//
// # Channels
//
// A Channel is an OS pipe whose read end is pumped into an in-memory spool as
// bytes arrive, so a producer never blocks on a full pipe buffer while its
// consumer has not started yet. Producers must close the write end (the units
// do this on every path) before anything drains the channel.
//
// # Units are single-shot
//
// A unit may run once. A second Run returns an error with code CONFLICT.
package exec
