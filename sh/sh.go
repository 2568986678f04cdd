package sh

import (
	"sync"

	"github.com/jmgilman/go/shell/exec"
	"github.com/jmgilman/go/shell/resolve"
)

// Shell builds units that share a resolver and a set of process options.
type Shell struct {
	resolver *resolve.Resolver
	policy   resolve.Policy
	opts     []exec.Option
}

// Option configures a Shell.
type Option func(*Shell)

// WithResolver sets the resolver commands are located with.
func WithResolver(r *resolve.Resolver) Option {
	return func(s *Shell) {
		s.resolver = r
	}
}

// WithPolicy sets the policy Cmd and Wrap locate commands with. The default
// is resolve.Cached.
func WithPolicy(policy resolve.Policy) Option {
	return func(s *Shell) {
		s.policy = policy
	}
}

// WithProcessOptions adds options applied to every process the Shell builds,
// before the per-command ones.
func WithProcessOptions(opts ...exec.Option) Option {
	return func(s *Shell) {
		s.opts = append(s.opts, opts...)
	}
}

// New creates a Shell. Without WithResolver it uses resolve.Default().
func New(opts ...Option) *Shell {
	s := &Shell{}
	for _, opt := range opts {
		opt(s)
	}
	if s.resolver == nil {
		s.resolver = resolve.Default()
	}
	return s
}

// Resolver returns the Shell's resolver.
func (s *Shell) Resolver() *resolve.Resolver {
	return s.resolver
}

// Policy returns the Shell's default policy.
func (s *Shell) Policy() resolve.Policy {
	return s.policy
}

// Cmd returns a process for name, located under the Shell's default policy.
func (s *Shell) Cmd(name string, args ...string) *exec.Process {
	return s.Command(name, s.policy, exec.WithArgs(args...))
}

// Uncached returns a process for name spawned through the launcher, which
// searches PATH on every run.
func (s *Shell) Uncached(name string, args ...string) *exec.Process {
	return s.Command(name, resolve.Uncached, exec.WithArgs(args...))
}

// Command returns a process for name with full control over the policy and
// options.
func (s *Shell) Command(name string, policy resolve.Policy, opts ...exec.Option) *exec.Process {
	return exec.NewCommand(name, s.resolver.Locator(policy), s.options(opts)...)
}

// Path returns a process for the executable at path. Nothing is resolved.
func (s *Shell) Path(path string, args ...string) *exec.Process {
	return s.Executable(path, exec.WithArgs(args...))
}

// Executable returns a process for the executable at path with full control
// over the options.
func (s *Shell) Executable(path string, opts ...exec.Option) *exec.Process {
	return exec.NewProcess(path, s.options(opts)...)
}

func (s *Shell) options(opts []exec.Option) []exec.Option {
	if len(s.opts) == 0 {
		return opts
	}
	out := make([]exec.Option, 0, len(s.opts)+len(opts))
	out = append(out, s.opts...)
	return append(out, opts...)
}

var (
	stdOnce sync.Once
	std     *Shell
)

func defaultShell() *Shell {
	stdOnce.Do(func() {
		std = New()
	})
	return std
}

// Cmd returns a process for name using the default Shell.
func Cmd(name string, args ...string) *exec.Process {
	return defaultShell().Cmd(name, args...)
}

// Uncached returns a launcher-spawned process using the default Shell.
func Uncached(name string, args ...string) *exec.Process {
	return defaultShell().Uncached(name, args...)
}

// Path returns a process for the executable at path.
func Path(path string, args ...string) *exec.Process {
	return defaultShell().Path(path, args...)
}

// Func returns a closure stage working on channels.
func Func(fn exec.StreamFunc, opts ...exec.ClosureOption) *exec.Closure {
	return exec.NewClosure(fn, opts...)
}

// Text returns a closure stage working on whole strings.
func Text(fn exec.TextFunc, opts ...exec.ClosureOption) *exec.Closure {
	return exec.NewTextClosure(fn, opts...)
}

// Pipe joins stages left to right. It panics when called with no stages.
func Pipe(stages ...exec.Runnable) exec.Runnable {
	if len(stages) == 0 {
		panic("sh: Pipe requires at least one stage")
	}
	return exec.Chain(stages[0], stages[1:]...)
}
