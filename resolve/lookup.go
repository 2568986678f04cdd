package resolve

//go:generate go run github.com/matryer/moq@latest -out mocks/lookup.go -pkg mocks . Lookup

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/jmgilman/go/shell/errors"
	"github.com/jmgilman/go/shell/exec"
)

const (
	// DefaultShell is the shell ShellLookup runs `which` through.
	DefaultShell = "/bin/sh"

	// DefaultLauncher is the program uncached commands are spawned through.
	DefaultLauncher = "/usr/bin/env"
)

// Lookup finds the executable path for a command name.
type Lookup interface {
	Which(ctx context.Context, name string) (string, error)
}

// ShellLookup asks a shell for `which <name>`. With Login set the shell is
// started as a login shell so profile PATH changes are honored.
type ShellLookup struct {
	Shell  string
	Login  bool
	Logger *zap.Logger
}

// NewShellLookup returns a login-shell lookup through DefaultShell.
func NewShellLookup() *ShellLookup {
	return &ShellLookup{Shell: DefaultShell, Login: true}
}

// Which runs the lookup and returns the single line it prints.
func (l *ShellLookup) Which(ctx context.Context, name string) (string, error) {
	if err := validateName(name); err != nil {
		return "", err
	}

	shell := l.Shell
	if shell == "" {
		shell = DefaultShell
	}
	args := []string{"-c", "which " + name}
	if l.Login {
		args = append([]string{"-l"}, args...)
	}

	opts := []exec.Option{exec.WithArgs(args...)}
	if l.Logger != nil {
		opts = append(opts, exec.WithLogger(l.Logger))
	}
	res, err := exec.NewProcess(shell, opts...).Run(ctx, nil)
	if err != nil {
		return "", err
	}

	out := strings.TrimSpace(res.StdoutText())
	if res.ExitCode != 0 || out == "" {
		return "", ErrCommandNotFound(name)
	}
	if strings.ContainsAny(out, "\r\n") {
		return "", errors.WithContext(
			exec.NewSystemError("lookup of '%s' printed more than one line", name),
			"output", out,
		)
	}
	return out, nil
}

// validateName rejects names the shell would interpret rather than pass to
// which verbatim, and names which or the launcher would read as options.
func validateName(name string) error {
	if name == "" {
		return errors.New(errors.CodeInvalidInput, "command name is empty")
	}
	if strings.ContainsAny(name, " \t\r\n;&|<>()$`\\\"'*?[]{}~#!=%") {
		return errors.WithContext(
			errors.Newf(errors.CodeInvalidInput, "command name %q contains shell syntax", name),
			"command", name,
		)
	}
	if strings.HasPrefix(name, "-") {
		return errors.WithContext(
			errors.Newf(errors.CodeInvalidInput, "command name %q looks like an option", name),
			"command", name,
		)
	}
	return nil
}
