package resolve_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmgilman/go/shell/errors"
	"github.com/jmgilman/go/shell/exec"
	"github.com/jmgilman/go/shell/resolve"
	"github.com/jmgilman/go/shell/resolve/mocks"
)

func fixedLookup(paths map[string]string) *mocks.LookupMock {
	return &mocks.LookupMock{
		WhichFunc: func(_ context.Context, name string) (string, error) {
			if path, ok := paths[name]; ok {
				return path, nil
			}
			return "", resolve.ErrCommandNotFound(name)
		},
	}
}

func TestResolver_LooksUpOnce(t *testing.T) {
	lookup := fixedLookup(map[string]string{"rev": "/usr/bin/rev"})
	r := resolve.New(resolve.WithLookup(lookup))

	for range 3 {
		path, err := r.Resolve(context.Background(), "rev")
		require.NoError(t, err)
		assert.Equal(t, "/usr/bin/rev", path)
	}

	require.Len(t, lookup.WhichCalls(), 1)
	assert.Equal(t, "rev", lookup.WhichCalls()[0].Name)
}

func TestResolver_ConcurrentMissesShareLookup(t *testing.T) {
	lookup := &mocks.LookupMock{
		WhichFunc: func(context.Context, string) (string, error) {
			time.Sleep(20 * time.Millisecond)
			return "/usr/bin/cut", nil
		},
	}
	r := resolve.New(resolve.WithLookup(lookup))

	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			path, err := r.Resolve(context.Background(), "cut")
			assert.NoError(t, err)
			assert.Equal(t, "/usr/bin/cut", path)
		}()
	}
	wg.Wait()

	assert.Len(t, lookup.WhichCalls(), 1)
}

func TestResolver_FailuresAreNotCached(t *testing.T) {
	lookup := fixedLookup(nil)
	cache := resolve.NewMapCache()
	r := resolve.New(resolve.WithLookup(lookup), resolve.WithCache(cache))

	for range 2 {
		_, err := r.Resolve(context.Background(), "missing")
		require.Error(t, err)
		assert.True(t, resolve.IsCommandNotFound(err))
	}

	assert.Len(t, lookup.WhichCalls(), 2)
	assert.Zero(t, cache.Len())
}

func TestResolver_SharedCache(t *testing.T) {
	cache := resolve.NewMapCache()
	first := fixedLookup(map[string]string{"echo": "/bin/echo"})
	second := fixedLookup(nil)

	_, err := resolve.New(resolve.WithLookup(first), resolve.WithCache(cache)).Resolve(context.Background(), "echo")
	require.NoError(t, err)

	path, err := resolve.New(resolve.WithLookup(second), resolve.WithCache(cache)).Resolve(context.Background(), "echo")
	require.NoError(t, err)
	assert.Equal(t, "/bin/echo", path)
	assert.Empty(t, second.WhichCalls())
}

func TestResolver_Locator(t *testing.T) {
	lookup := fixedLookup(map[string]string{"cut": "/usr/bin/cut"})
	r := resolve.New(resolve.WithLookup(lookup), resolve.WithLauncher("/opt/bin/env"))
	ctx := context.Background()

	t.Run("cached", func(t *testing.T) {
		target, err := r.Locator(resolve.Cached).Locate(ctx, "cut", []string{"-f", "1"})
		require.NoError(t, err)
		assert.Equal(t, exec.Target{Name: "cut", Path: "/usr/bin/cut", Args: []string{"-f", "1"}}, target)
	})

	t.Run("cached without args", func(t *testing.T) {
		target, err := r.Locator(resolve.Cached).Locate(ctx, "cut", nil)
		require.NoError(t, err)
		assert.Nil(t, target.Args)
	})

	t.Run("cached missing", func(t *testing.T) {
		_, err := r.Locator(resolve.Cached).Locate(ctx, "nope", nil)
		assert.True(t, resolve.IsCommandNotFound(err))
	})

	t.Run("uncached", func(t *testing.T) {
		calls := len(lookup.WhichCalls())
		target, err := r.Locator(resolve.Uncached).Locate(ctx, "cut", []string{"-f", "1"})
		require.NoError(t, err)
		assert.Equal(t, exec.Target{
			Name:     "cut",
			Path:     "/opt/bin/env",
			Args:     []string{"cut", "-f", "1"},
			Launched: true,
		}, target)
		assert.Len(t, lookup.WhichCalls(), calls, "uncached never looks up")
	})

	t.Run("uncached rejects shell syntax", func(t *testing.T) {
		_, err := r.Locator(resolve.Uncached).Locate(ctx, "cut; rm", nil)
		assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))
	})

	for _, name := range []string{"-i", "-u"} {
		t.Run("uncached rejects option "+name, func(t *testing.T) {
			_, err := r.Locator(resolve.Uncached).Locate(ctx, name, nil)
			assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))
		})
	}
}

func TestResolver_ResolutionHappensAtRun(t *testing.T) {
	lookup := fixedLookup(nil)
	r := resolve.New(resolve.WithLookup(lookup))

	p := exec.NewCommand("missing", r.Locator(resolve.Cached))
	assert.Empty(t, lookup.WhichCalls())

	_, err := p.Run(context.Background(), nil)
	assert.True(t, resolve.IsCommandNotFound(err))
	assert.Len(t, lookup.WhichCalls(), 1)
}

func TestPolicy_String(t *testing.T) {
	assert.Equal(t, "cached", resolve.Cached.String())
	assert.Equal(t, "uncached", resolve.Uncached.String())
	assert.Equal(t, "unknown", resolve.Policy(9).String())
}

func TestDefault(t *testing.T) {
	assert.Same(t, resolve.Default(), resolve.Default())
}
