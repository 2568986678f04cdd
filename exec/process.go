package exec

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"
	osexec "os/exec"
	"path/filepath"
	"strings"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/jmgilman/go/shell/errors"
)

// Process is an external program invocation.
//
// Construction never fails: the executable is only located inside Run, so a
// command that does not exist is reported by Run, not by the constructor.
type Process struct {
	name    string
	path    string
	locator Locator
	args    []string
	env     map[string]string
	cfg     *config

	stdin *Channel
	ran   atomic.Bool
}

// NewProcess creates a Process for the executable at path.
func NewProcess(path string, opts ...Option) *Process {
	p := &Process{
		name: path,
		path: path,
		cfg:  newConfig(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// NewCommand creates a Process for a command name that locator turns into an
// executable on first Run.
func NewCommand(name string, locator Locator, opts ...Option) *Process {
	p := NewProcess("", opts...)
	p.name = name
	p.locator = locator
	return p
}

// Name returns the command name, or the path for NewProcess units.
func (p *Process) Name() string {
	return p.name
}

// Args returns the configured arguments; nil means none were set.
func (p *Process) Args() []string {
	return p.args
}

// Env returns the configured environment; nil means the parent's is inherited.
func (p *Process) Env() map[string]string {
	return p.env
}

// Stdin returns the channel the process reads from, or nil.
func (p *Process) Stdin() *Channel {
	return p.stdin
}

// SetStdin sets the channel the process reads from.
func (p *Process) SetStdin(ch *Channel) {
	p.stdin = ch
}

// String returns the command line, e.g. "cut -d : -f 1".
func (p *Process) String() string {
	if len(p.args) == 0 {
		return p.name
	}
	return p.name + " " + strings.Join(p.args, " ")
}

func (p *Process) runnable() {}

// Run spawns the process and waits for it to exit.
//
// When downstream is non-nil its stdin is set to this process's stdout before
// the process starts, and the returned Result has no Stdout. Stderr is always
// captured.
func (p *Process) Run(ctx context.Context, downstream Runnable) (*Result, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if !p.ran.CompareAndSwap(false, true) {
		return nil, errAlreadyRun(p)
	}

	target, err := p.locate(ctx)
	if err != nil {
		return nil, err
	}

	cmd := osexec.CommandContext(ctx, target.Path)
	if target.Args != nil {
		cmd.Args = append([]string{target.Path}, target.Args...)
	}
	cmd.Env = p.cfg.environ(p.env)
	cmd.Dir = p.cfg.dir

	log := p.cfg.logger.With(zap.String("command", target.Name), zap.String("path", target.Path))

	stdout, stderr, err := newOutputChannels(p.cfg.stdout, p.cfg.stderr)
	if err != nil {
		return nil, err
	}
	var prevStdin *Channel
	if downstream != nil {
		prevStdin = downstream.Stdin()
		downstream.SetStdin(stdout)
	}

	cmd.Stdout = stdout.w
	cmd.Stderr = stderr.w
	if p.stdin != nil {
		cmd.Stdin = p.stdin.Reader()
	}

	if err := cmd.Start(); err != nil {
		_ = stdout.Close()
		_ = stderr.Close()
		if downstream != nil {
			downstream.SetStdin(prevStdin)
		}
		log.Debug("process failed to start", zap.Error(err))
		return nil, &ExecError{Op: "start", Command: cmd.Args, Err: err}
	}
	log.Debug("process started", zap.Int("pid", cmd.Process.Pid), zap.Bool("piped", downstream != nil))

	// The child holds its own copies of the write ends; ours must be closed
	// or the pumps never see EOF.
	_ = stdout.CloseWrite()
	_ = stderr.CloseWrite()

	waitErr := cmd.Wait()
	if cmd.ProcessState == nil {
		panic(fmt.Sprintf("exec: %s has no exit state after wait", target.Path))
	}

	if waitErr != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, contextError(ctxErr, target)
		}
		var exitErr *osexec.ExitError
		if !stderrors.As(waitErr, &exitErr) {
			return nil, &ExecError{Op: "wait", Command: cmd.Args, Err: waitErr}
		}
	}

	res := &Result{ExitCode: cmd.ProcessState.ExitCode()}
	if target.Launched && res.ExitCode == launcherNotFound && !onSearchPath(target.Name, cmd.Environ(), cmd.Dir) {
		return nil, NewCommandNotFound(target.Name)
	}

	if downstream == nil {
		if res.Stdout, err = stdout.Drain(); err != nil {
			return nil, err
		}
	}
	if res.Stderr, err = stderr.Drain(); err != nil {
		return nil, err
	}

	if teeErr := stdout.teeErr(); teeErr != nil {
		log.Debug("stdout passthrough disabled", zap.Error(teeErr))
	}
	if teeErr := stderr.teeErr(); teeErr != nil {
		log.Debug("stderr passthrough disabled", zap.Error(teeErr))
	}
	log.Debug("process exited", zap.Int("exit_code", res.ExitCode))
	return res, nil
}

// locate returns the fixed path, or asks the locator.
func (p *Process) locate(ctx context.Context) (Target, error) {
	if p.locator == nil {
		return Target{Name: p.name, Path: p.path, Args: p.args}, nil
	}
	return p.locator.Locate(ctx, p.name, p.args)
}

func contextError(err error, target Target) error {
	code := errors.CodeCanceled
	if stderrors.Is(err, context.DeadlineExceeded) {
		code = errors.CodeTimeout
	}
	return errors.WithContextMap(
		errors.Wrapf(err, code, "%s did not finish", target.Name),
		map[string]any{
			"command": target.Name,
			"path":    target.Path,
		},
	)
}

// onSearchPath reports whether name resolves to an executable on the PATH in
// env, the way a launcher searching that PATH would find it. A launcher that
// exits 127 for a name it can find ran the command, and the 127 is the
// command's own.
func onSearchPath(name string, env []string, dir string) bool {
	if strings.Contains(name, "/") {
		return isExecutable(inDir(name, dir))
	}
	search := defaultSearchPath
	for _, kv := range env {
		if v, ok := strings.CutPrefix(kv, "PATH="); ok {
			search = v
		}
	}
	for _, d := range filepath.SplitList(search) {
		if d == "" {
			d = "."
		}
		if isExecutable(inDir(filepath.Join(d, name), dir)) {
			return true
		}
	}
	return false
}

// defaultSearchPath is searched when the environment has no PATH.
const defaultSearchPath = "/usr/local/bin:/usr/bin:/bin"

func inDir(path, dir string) string {
	if dir == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(dir, path)
}

func isExecutable(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir() && info.Mode().Perm()&0o111 != 0
}
