package exec

import (
	"io"
	"maps"
	"os"
	"slices"

	"go.uber.org/zap"
)

// colorEnv holds the variables set by WithDisableColors.
var colorEnv = map[string]string{
	"NO_COLOR":       "1",
	"TERM":           "dumb",
	"CLICOLOR":       "0",
	"CLICOLOR_FORCE": "0",
	"FORCE_COLOR":    "0",
}

// Option configures a Process.
type Option func(*Process)

// WithArgs sets the arguments that follow argv[0]. Calling WithArgs with no
// arguments sets an explicitly empty list, which is distinct from never
// calling it.
func WithArgs(args ...string) Option {
	return func(p *Process) {
		p.args = append([]string{}, args...)
	}
}

// WithEnv sets the child's environment. A nil map (the default) inherits the
// parent's environment; a non-nil map, even an empty one, replaces it unless
// WithInheritEnv is also set.
func WithEnv(env map[string]string) Option {
	return func(p *Process) {
		if env == nil {
			p.env = nil
			return
		}
		p.env = maps.Clone(env)
	}
}

// WithInheritEnv merges the parent's environment under the values of WithEnv.
func WithInheritEnv() Option {
	return func(p *Process) {
		p.cfg.inheritEnv = true
	}
}

// WithDisableColors sets NO_COLOR=1, TERM=dumb and related variables.
func WithDisableColors() Option {
	return func(p *Process) {
		p.cfg.disableColors = true
	}
}

// WithDir sets the child's working directory.
func WithDir(dir string) Option {
	return func(p *Process) {
		p.cfg.dir = dir
	}
}

// WithPassthrough streams the child's stdout and stderr to the given writers
// while they are also captured. Either writer may be nil.
func WithPassthrough(stdout, stderr io.Writer) Option {
	return func(p *Process) {
		p.cfg.stdout = stdout
		p.cfg.stderr = stderr
	}
}

// WithLogger sets the logger used for spawn and exit events.
func WithLogger(logger *zap.Logger) Option {
	return func(p *Process) {
		if logger != nil {
			p.cfg.logger = logger
		}
	}
}

// config holds the process settings that do not describe the command itself.
type config struct {
	dir           string
	inheritEnv    bool
	disableColors bool
	stdout        io.Writer
	stderr        io.Writer
	logger        *zap.Logger
}

func newConfig() *config {
	return &config{
		logger: zap.NewNop(),
	}
}

// environ builds the child's environment. A nil return inherits the parent's.
func (c *config) environ(env map[string]string) []string {
	if env == nil && !c.disableColors {
		return nil
	}

	merged := make(map[string]string, len(env)+len(colorEnv))
	for k, v := range env {
		merged[k] = v
	}
	if c.disableColors {
		for k, v := range colorEnv {
			merged[k] = v
		}
	}

	out := []string{}
	if env == nil || c.inheritEnv {
		out = append(out, os.Environ()...)
	}
	for _, k := range slices.Sorted(maps.Keys(merged)) {
		out = append(out, k+"="+merged[k])
	}
	return out
}
