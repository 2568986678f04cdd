package exec

import (
	"bytes"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/jmgilman/go/shell/errors"
)

// ChannelOption configures a Channel.
type ChannelOption func(*Channel)

// WithTee streams every byte read from the channel to w while it is also
// being captured.
func WithTee(w io.Writer) ChannelOption {
	return func(c *Channel) {
		c.tee = w
	}
}

// Channel is a unidirectional OS pipe. Its read end is pumped into an
// in-memory spool until the write end is closed.
type Channel struct {
	r *os.File
	w *os.File

	tee   io.Writer
	spool bytes.Buffer
	out   *spoolWriter
	done  chan struct{}
	err   error

	mu     sync.Mutex
	closed bool
}

// NewChannel creates a pipe and starts pumping its read end.
func NewChannel(opts ...ChannelOption) (*Channel, error) {
	r, w, err := os.Pipe()
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeIO, "failed to create pipe")
	}

	c := &Channel{
		r:    r,
		w:    w,
		done: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.out = newSpoolWriter(&c.spool, c.tee)

	go c.pump()
	return c, nil
}

// pump copies the read end into the spool until EOF, then closes the read end.
func (c *Channel) pump() {
	defer close(c.done)

	_, err := io.Copy(c.out, c.r)
	if cerr := c.r.Close(); err == nil {
		err = cerr
	}
	c.err = err
}

// Write writes text to the channel. Writing "" is a no-op.
func (c *Channel) Write(text string) error {
	if text == "" {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return errors.New(errors.CodeIO, "write to a closed channel")
	}
	if _, err := io.WriteString(c.w, text); err != nil {
		return errors.Wrap(err, errors.CodeIO, "failed to write to channel")
	}
	return nil
}

// Writer returns the write end for callers that stream bytes, e.g. with
// io.Copy. The owner still closes it through CloseWrite.
func (c *Channel) Writer() io.Writer {
	return c.w
}

// CloseWrite closes the write end. It is safe to call more than once.
func (c *Channel) CloseWrite() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true
	if err := c.w.Close(); err != nil {
		return errors.Wrap(err, errors.CodeIO, "failed to close channel")
	}
	return nil
}

// Drain blocks until every writer has closed the channel and returns what was
// written, or nil when nothing was. Invalid UTF-8 is replaced with U+FFFD.
func (c *Channel) Drain() (*string, error) {
	<-c.done
	if c.err != nil {
		return nil, errors.Wrap(c.err, errors.CodeIO, "failed to read channel")
	}
	if c.spool.Len() == 0 {
		return nil, nil
	}
	text := strings.ToValidUTF8(c.spool.String(), "\uFFFD")
	return &text, nil
}

// Reader blocks until every writer has closed the channel and returns a
// reader over the raw bytes.
func (c *Channel) Reader() io.Reader {
	<-c.done
	return bytes.NewReader(c.spool.Bytes())
}

// Close closes the write end and waits for the pump to finish.
func (c *Channel) Close() error {
	err := c.CloseWrite()
	<-c.done
	return err
}

// teeErr returns the error that disabled the tee writer, if any.
func (c *Channel) teeErr() error {
	return c.out.PassthroughErr()
}

// newOutputChannels allocates the stdout and stderr channels of one run.
func newOutputChannels(stdoutTee, stderrTee io.Writer) (*Channel, *Channel, error) {
	var stdoutOpts, stderrOpts []ChannelOption
	if stdoutTee != nil {
		stdoutOpts = append(stdoutOpts, WithTee(stdoutTee))
	}
	if stderrTee != nil {
		stderrOpts = append(stderrOpts, WithTee(stderrTee))
	}

	stdout, err := NewChannel(stdoutOpts...)
	if err != nil {
		return nil, nil, err
	}
	stderr, err := NewChannel(stderrOpts...)
	if err != nil {
		_ = stdout.Close()
		return nil, nil, err
	}
	return stdout, stderr, nil
}
