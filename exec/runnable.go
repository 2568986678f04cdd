package exec

import "context"

// Runnable is the contract shared by Process, Closure and Pair.
//
// The set of implementations is closed; compose new behavior with closures
// and pairs rather than new types.
type Runnable interface {
	// Run executes the unit. When downstream is non-nil, the unit's stdout is
	// wired into downstream's stdin and is not captured in the returned Result.
	Run(ctx context.Context, downstream Runnable) (*Result, error)

	// Stdin returns the channel the unit reads from, or nil.
	Stdin() *Channel

	// SetStdin sets the channel the unit reads from.
	SetStdin(ch *Channel)

	// String describes the unit, e.g. "echo 1:2:3 | rev".
	String() string

	runnable()
}

// Target is a located command: the executable to spawn and the arguments
// that follow it.
type Target struct {
	// Name is the command name the target was located from.
	Name string

	// Path is the executable to spawn.
	Path string

	// Args are the arguments after argv[0]. Nil leaves the default argument
	// vector in place.
	Args []string

	// Launched reports that Path is a generic launcher (env) that performs its
	// own PATH search for Name.
	Launched bool
}

// Locator turns a command name into a Target. Locate is called once, from
// within Process.Run, so resolution failures surface as run failures.
type Locator interface {
	Locate(ctx context.Context, name string, args []string) (Target, error)
}

// LocatorFunc adapts a function to the Locator interface.
type LocatorFunc func(ctx context.Context, name string, args []string) (Target, error)

// Locate calls f.
func (f LocatorFunc) Locate(ctx context.Context, name string, args []string) (Target, error) {
	return f(ctx, name, args)
}
