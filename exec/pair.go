package exec

import "context"

// Pair runs lhs with its stdout wired into rhs's stdin.
type Pair struct {
	lhs Runnable
	rhs Runnable
}

// Pipe joins lhs and rhs. Either operand may itself be a Pair, so
// Pipe(Pipe(a, b), c) and Pipe(a, Pipe(b, c)) both describe a | b | c.
// Pipe panics if either operand is nil.
func Pipe(lhs, rhs Runnable) *Pair {
	if lhs == nil || rhs == nil {
		panic("exec: Pipe requires two non-nil stages")
	}
	return &Pair{lhs: lhs, rhs: rhs}
}

// Chain left-associates the stages into ((first | s1) | s2) ... and returns
// first itself when rest is empty.
func Chain(first Runnable, rest ...Runnable) Runnable {
	out := first
	for _, next := range rest {
		out = Pipe(out, next)
	}
	return out
}

// Left returns the upstream operand.
func (p *Pair) Left() Runnable {
	return p.lhs
}

// Right returns the downstream operand.
func (p *Pair) Right() Runnable {
	return p.rhs
}

// Stdin returns the left operand's stdin.
func (p *Pair) Stdin() *Channel {
	return p.lhs.Stdin()
}

// SetStdin sets the left operand's stdin, so an outer pipeline can feed the
// first stage of a nested pair.
func (p *Pair) SetStdin(ch *Channel) {
	p.lhs.SetStdin(ch)
}

// String returns "lhs | rhs".
func (p *Pair) String() string {
	return p.lhs.String() + " | " + p.rhs.String()
}

func (p *Pair) runnable() {}

// Run runs the left operand into the right one.
//
// If the left operand exits non-zero, the right operand is never started and
// the left result is returned. Otherwise the right operand runs, feeding
// downstream when it is non-nil, and its result is returned. Errors from
// either operand abort the run.
func (p *Pair) Run(ctx context.Context, downstream Runnable) (*Result, error) {
	res, err := p.lhs.Run(ctx, p.rhs)
	if err != nil {
		return nil, err
	}
	if res.ExitCode != 0 {
		return res, nil
	}
	return p.rhs.Run(ctx, downstream)
}
