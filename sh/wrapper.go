package sh

import (
	"slices"
	"strings"

	"github.com/jmgilman/go/shell/exec"
	"github.com/jmgilman/go/shell/resolve"
)

// Wrapper builds processes for one command, prepending fixed arguments to
// each call. It suits tools that run often with different arguments, such as
// git or docker.
type Wrapper struct {
	shell  *Shell
	name   string
	prefix []string
	policy resolve.Policy
	opts   []exec.Option
}

// Wrap returns a Wrapper for name on the default Shell.
func Wrap(name string, prefix ...string) *Wrapper {
	return defaultShell().Wrap(name, prefix...)
}

// Wrap returns a Wrapper for name.
func (s *Shell) Wrap(name string, prefix ...string) *Wrapper {
	return &Wrapper{
		shell:  s,
		name:   name,
		prefix: slices.Clone(prefix),
		policy: s.policy,
	}
}

// WithOptions returns a copy of w that also applies opts to every process.
func (w *Wrapper) WithOptions(opts ...exec.Option) *Wrapper {
	c := w.clone()
	c.opts = append(c.opts, opts...)
	return c
}

// WithPolicy returns a copy of w that locates the command under policy.
func (w *Wrapper) WithPolicy(policy resolve.Policy) *Wrapper {
	c := w.clone()
	c.policy = policy
	return c
}

// Command returns a process running the wrapped command with the prefix
// followed by args.
func (w *Wrapper) Command(args ...string) *exec.Process {
	full := make([]string, 0, len(w.prefix)+len(args))
	full = append(full, w.prefix...)
	full = append(full, args...)

	opts := append(slices.Clone(w.opts), exec.WithArgs(full...))
	return w.shell.Command(w.name, w.policy, opts...)
}

// String returns the command name and prefix.
func (w *Wrapper) String() string {
	return strings.Join(append([]string{w.name}, w.prefix...), " ")
}

func (w *Wrapper) clone() *Wrapper {
	return &Wrapper{
		shell:  w.shell,
		name:   w.name,
		prefix: slices.Clone(w.prefix),
		policy: w.policy,
		opts:   slices.Clone(w.opts),
	}
}

// LsLA returns a process for `ls -la` in dir, or in the current directory
// when dir is empty.
func (s *Shell) LsLA(dir string) *exec.Process {
	if dir == "" {
		return s.Cmd("ls", "-la")
	}
	return s.Cmd("ls", "-la", "--", dir)
}

// LsLA returns `ls -la` on the default Shell.
func LsLA(dir string) *exec.Process {
	return defaultShell().LsLA(dir)
}
