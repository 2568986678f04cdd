package exec

import (
	"context"
	"sync/atomic"

	"go.uber.org/zap"
)

// StreamFunc is an in-process stage working on channels. stdin is nil when
// the closure is the first stage. The returned int is the exit code.
type StreamFunc func(ctx context.Context, stdin *Channel, stdout, stderr *Channel) (int, error)

// TextFunc is an in-process stage working on whole strings. stdin is nil when
// there is no input or it was empty. Returning a nil Result means exit code 0
// with no output.
type TextFunc func(ctx context.Context, stdin *string) (*Result, error)

// ClosureOption configures a Closure.
type ClosureOption func(*Closure)

// WithName sets the name used in String and in logs.
func WithName(name string) ClosureOption {
	return func(c *Closure) {
		c.name = name
	}
}

// WithClosureLogger sets the logger used for invoke and exit events.
func WithClosureLogger(logger *zap.Logger) ClosureOption {
	return func(c *Closure) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// Closure is a Go function that stands in for a process anywhere in a
// pipeline.
type Closure struct {
	fn     StreamFunc
	name   string
	logger *zap.Logger

	stdin *Channel
	ran   atomic.Bool
}

// NewClosure creates a Closure from a StreamFunc.
func NewClosure(fn StreamFunc, opts ...ClosureOption) *Closure {
	c := &Closure{
		fn:     fn,
		name:   "closure",
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewTextClosure creates a Closure from a TextFunc. The input is drained in
// full before fn is called and the returned text is written afterwards.
func NewTextClosure(fn TextFunc, opts ...ClosureOption) *Closure {
	return NewClosure(func(ctx context.Context, stdin, stdout, stderr *Channel) (int, error) {
		var in *string
		if stdin != nil {
			var err error
			if in, err = stdin.Drain(); err != nil {
				return 0, err
			}
		}

		res, err := fn(ctx, in)
		if err != nil {
			return 0, err
		}
		if res == nil {
			return 0, nil
		}
		if res.Stdout != nil {
			if err := stdout.Write(*res.Stdout); err != nil {
				return 0, err
			}
		}
		if res.Stderr != nil {
			if err := stderr.Write(*res.Stderr); err != nil {
				return 0, err
			}
		}
		return res.ExitCode, nil
	}, opts...)
}

// Stdin returns the channel the closure reads from, or nil.
func (c *Closure) Stdin() *Channel {
	return c.stdin
}

// SetStdin sets the channel the closure reads from.
func (c *Closure) SetStdin(ch *Channel) {
	c.stdin = ch
}

// String returns the closure's name.
func (c *Closure) String() string {
	return c.name
}

func (c *Closure) runnable() {}

// Run invokes the closure with fresh output channels.
//
// When downstream is non-nil its stdin is set to the closure's stdout before
// the closure is invoked, and the returned Result has no Stdout. Both write
// ends are closed once the closure returns, whether or not it failed.
func (c *Closure) Run(ctx context.Context, downstream Runnable) (*Result, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if !c.ran.CompareAndSwap(false, true) {
		return nil, errAlreadyRun(c)
	}

	stdout, stderr, err := newOutputChannels(nil, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = stdout.CloseWrite()
		_ = stderr.CloseWrite()
	}()

	if downstream != nil {
		downstream.SetStdin(stdout)
	}

	log := c.logger.With(zap.String("closure", c.name))
	log.Debug("closure invoked", zap.Bool("piped", downstream != nil))

	code, err := c.fn(ctx, c.stdin, stdout, stderr)
	if cerr := stdout.CloseWrite(); err == nil {
		err = cerr
	}
	if cerr := stderr.CloseWrite(); err == nil {
		err = cerr
	}
	if err != nil {
		log.Debug("closure failed", zap.Error(err))
		return nil, err
	}

	res := &Result{ExitCode: code}
	if downstream == nil {
		if res.Stdout, err = stdout.Drain(); err != nil {
			return nil, err
		}
	}
	if res.Stderr, err = stderr.Drain(); err != nil {
		return nil, err
	}

	log.Debug("closure exited", zap.Int("exit_code", res.ExitCode))
	return res, nil
}
