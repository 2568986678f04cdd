package exec_test

import (
	"context"
	osexec "os/exec"
	"testing"

	"github.com/jmgilman/go/shell/exec"
)

// lookPath returns the absolute path of name or skips the test.
func lookPath(t *testing.T, name string) string {
	t.Helper()
	path, err := osexec.LookPath(name)
	if err != nil {
		t.Skipf("%s not available: %v", name, err)
	}
	return path
}

// shell returns a process running script with /bin/sh.
func shell(t *testing.T, script string, opts ...exec.Option) *exec.Process {
	t.Helper()
	opts = append([]exec.Option{exec.WithArgs("-c", script)}, opts...)
	return exec.NewProcess(lookPath(t, "sh"), opts...)
}

// pathLocator locates commands with the test's PATH.
func pathLocator(t *testing.T) exec.Locator {
	t.Helper()
	return exec.LocatorFunc(func(_ context.Context, name string, args []string) (exec.Target, error) {
		path, err := osexec.LookPath(name)
		if err != nil {
			return exec.Target{}, exec.NewCommandNotFound(name)
		}
		return exec.Target{Name: name, Path: path, Args: args}, nil
	})
}

// emit returns a text closure that prints text.
func emit(text string) *exec.Closure {
	return exec.NewTextClosure(func(context.Context, *string) (*exec.Result, error) {
		return &exec.Result{Stdout: exec.Text(text)}, nil
	}, exec.WithName("emit"))
}
