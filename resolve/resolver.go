package resolve

import (
	"context"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/jmgilman/go/shell/exec"
)

// Policy selects how a Locator finds executables.
type Policy int

const (
	// Cached resolves each name once and spawns the absolute path.
	Cached Policy = iota

	// Uncached spawns every command through the launcher, which searches PATH
	// on each run.
	Uncached
)

// String returns the policy name.
func (p Policy) String() string {
	switch p {
	case Cached:
		return "cached"
	case Uncached:
		return "uncached"
	default:
		return "unknown"
	}
}

// Resolver resolves command names through a Lookup and caches the answers.
type Resolver struct {
	lookup   Lookup
	cache    Cache
	launcher string
	logger   *zap.Logger
	group    singleflight.Group
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithLookup sets the lookup used on cache misses.
func WithLookup(lookup Lookup) Option {
	return func(r *Resolver) {
		r.lookup = lookup
	}
}

// WithCache sets the cache. Resolvers sharing a cache share its entries.
func WithCache(cache Cache) Option {
	return func(r *Resolver) {
		r.cache = cache
	}
}

// WithLauncher sets the program the Uncached policy spawns commands through.
func WithLauncher(path string) Option {
	return func(r *Resolver) {
		r.launcher = path
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(r *Resolver) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// New creates a Resolver. Without options it looks names up with a login
// /bin/sh, caches them in a fresh MapCache and launches uncached commands
// through /usr/bin/env.
func New(opts ...Option) *Resolver {
	r := &Resolver{
		launcher: DefaultLauncher,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.lookup == nil {
		r.lookup = &ShellLookup{Shell: DefaultShell, Login: true, Logger: r.logger}
	}
	if r.cache == nil {
		r.cache = NewMapCache()
	}
	return r
}

// Resolve returns the absolute path for name, consulting the cache first.
// Concurrent misses for the same name share a single lookup, and only
// successful lookups are cached.
func (r *Resolver) Resolve(ctx context.Context, name string) (string, error) {
	if path, ok := r.cache.Load(name); ok {
		return path, nil
	}

	v, err, shared := r.group.Do(name, func() (any, error) {
		if path, ok := r.cache.Load(name); ok {
			return path, nil
		}
		path, err := r.lookup.Which(ctx, name)
		if err != nil {
			return "", err
		}
		r.cache.Store(name, path)
		r.logger.Debug("resolved command", zap.String("command", name), zap.String("path", path))
		return path, nil
	})
	if err != nil {
		r.logger.Debug("failed to resolve command", zap.String("command", name), zap.Error(err))
		return "", err
	}
	if shared {
		r.logger.Debug("shared concurrent lookup", zap.String("command", name))
	}
	return v.(string), nil
}

// Locator returns an exec.Locator that finds commands under policy.
func (r *Resolver) Locator(policy Policy) exec.Locator {
	if policy == Uncached {
		return exec.LocatorFunc(r.launch)
	}
	return exec.LocatorFunc(r.locate)
}

func (r *Resolver) locate(ctx context.Context, name string, args []string) (exec.Target, error) {
	path, err := r.Resolve(ctx, name)
	if err != nil {
		return exec.Target{}, err
	}
	return exec.Target{Name: name, Path: path, Args: args}, nil
}

func (r *Resolver) launch(_ context.Context, name string, args []string) (exec.Target, error) {
	if err := validateName(name); err != nil {
		return exec.Target{}, err
	}
	return exec.Target{
		Name:     name,
		Path:     r.launcher,
		Args:     append([]string{name}, args...),
		Launched: true,
	}, nil
}

var (
	defaultOnce     sync.Once
	defaultResolver *Resolver
)

// Default returns the process-wide Resolver. Its cache lives as long as the
// process.
func Default() *Resolver {
	defaultOnce.Do(func() {
		defaultResolver = New()
	})
	return defaultResolver
}
