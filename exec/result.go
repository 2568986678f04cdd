package exec

// Result is the outcome of running a unit.
type Result struct {
	// Stdout is the captured standard output, or nil when nothing was written
	// or the output was handed to a downstream stage.
	Stdout *string

	// Stderr is the captured standard error, or nil when nothing was written.
	Stderr *string

	// ExitCode is the exit status reported by the operating system, or the
	// status returned by a closure. A process killed by a signal reports -1.
	ExitCode int
}

// Success reports whether the unit exited with status 0.
func (r *Result) Success() bool {
	return r.ExitCode == 0
}

// StdoutText returns the captured stdout, or "" when absent.
func (r *Result) StdoutText() string {
	return deref(r.Stdout)
}

// StderrText returns the captured stderr, or "" when absent.
func (r *Result) StderrText() string {
	return deref(r.Stderr)
}

// Text returns a pointer to s, for building Results in text closures.
func Text(s string) *string {
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
