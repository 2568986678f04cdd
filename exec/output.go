package exec

import (
	"io"
	"sync"
)

// spoolWriter captures everything pumped out of a channel and, when a
// passthrough writer is set, streams it there as well.
//
// A failing passthrough writer is dropped after its first error so the pump
// keeps draining the pipe; a stalled pump would block the producer forever.
type spoolWriter struct {
	spool       io.Writer
	passthrough io.Writer
	err         error
	mu          sync.Mutex
}

func newSpoolWriter(spool, passthrough io.Writer) *spoolWriter {
	return &spoolWriter{
		spool:       spool,
		passthrough: passthrough,
	}
}

// Write writes p to the spool and, while it keeps succeeding, the passthrough.
func (sw *spoolWriter) Write(p []byte) (int, error) {
	sw.mu.Lock()
	defer sw.mu.Unlock()

	if sw.passthrough != nil {
		n, err := sw.passthrough.Write(p)
		if err == nil && n != len(p) {
			err = io.ErrShortWrite
		}
		if err != nil {
			sw.err = err
			sw.passthrough = nil
		}
	}
	return sw.spool.Write(p)
}

// PassthroughErr returns the error that disabled the passthrough writer, if any.
func (sw *spoolWriter) PassthroughErr() error {
	sw.mu.Lock()
	defer sw.mu.Unlock()
	return sw.err
}
