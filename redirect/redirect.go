package redirect

import (
	"context"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/go-git/go-billy/v5"

	"github.com/jmgilman/go/shell/errors"
	"github.com/jmgilman/go/shell/exec"
)

// DefaultPerm is the mode of files created by write stages.
const DefaultPerm fs.FileMode = 0o644

// Option configures a write stage.
type Option func(*options)

type options struct {
	perm    fs.FileMode
	closure []exec.ClosureOption
}

// WithPerm sets the mode of created files.
func WithPerm(perm fs.FileMode) Option {
	return func(o *options) {
		o.perm = perm
	}
}

// WithClosureOptions passes options to the underlying closure stage.
func WithClosureOptions(opts ...exec.ClosureOption) Option {
	return func(o *options) {
		o.closure = append(o.closure, opts...)
	}
}

func newOptions(opts []Option) *options {
	o := &options{perm: DefaultPerm}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// FromFile returns a stage that prints the contents of name. Any stdin it is
// given is ignored.
func FromFile(fsys billy.Filesystem, name string, opts ...exec.ClosureOption) *exec.Closure {
	opts = append([]exec.ClosureOption{exec.WithName("< " + name)}, opts...)
	return exec.NewClosure(func(_ context.Context, _ *exec.Channel, stdout, _ *exec.Channel) (int, error) {
		f, err := fsys.Open(name)
		if err != nil {
			return 0, ioError(err, "open", name)
		}
		defer func() { _ = f.Close() }()

		if _, err := io.Copy(stdout.Writer(), f); err != nil {
			return 0, ioError(err, "read", name)
		}
		return 0, nil
	}, opts...)
}

// ToFile returns a stage that writes its stdin to name, replacing any
// existing content.
func ToFile(fsys billy.Filesystem, name string, opts ...Option) *exec.Closure {
	return writeStage(fsys, name, ">", os.O_WRONLY|os.O_CREATE|os.O_TRUNC, false, newOptions(opts))
}

// AppendFile returns a stage that appends its stdin to name.
func AppendFile(fsys billy.Filesystem, name string, opts ...Option) *exec.Closure {
	return writeStage(fsys, name, ">>", os.O_WRONLY|os.O_CREATE|os.O_APPEND, false, newOptions(opts))
}

// Tee returns a stage that writes its stdin to name and also prints it.
func Tee(fsys billy.Filesystem, name string, opts ...Option) *exec.Closure {
	return writeStage(fsys, name, "tee", os.O_WRONLY|os.O_CREATE|os.O_TRUNC, true, newOptions(opts))
}

func writeStage(fsys billy.Filesystem, name, op string, flag int, forward bool, o *options) *exec.Closure {
	closureOpts := append([]exec.ClosureOption{exec.WithName(op + " " + name)}, o.closure...)
	return exec.NewClosure(func(_ context.Context, stdin *exec.Channel, stdout, _ *exec.Channel) (int, error) {
		if dir := filepath.Dir(name); dir != "." && dir != "/" {
			if err := fsys.MkdirAll(dir, 0o755); err != nil {
				return 0, ioError(err, "create directory for", name)
			}
		}

		f, err := fsys.OpenFile(name, flag, o.perm)
		if err != nil {
			return 0, ioError(err, "open", name)
		}

		var dst io.Writer = f
		if forward {
			dst = io.MultiWriter(f, stdout.Writer())
		}
		if stdin != nil {
			if _, err := io.Copy(dst, stdin.Reader()); err != nil {
				_ = f.Close()
				return 0, ioError(err, "write", name)
			}
		}
		if err := f.Close(); err != nil {
			return 0, ioError(err, "close", name)
		}
		return 0, nil
	}, closureOpts...)
}

func ioError(err error, op, name string) error {
	return errors.WithContext(
		errors.Wrapf(err, errors.CodeIO, "failed to %s %s", op, name),
		"path", name,
	)
}
