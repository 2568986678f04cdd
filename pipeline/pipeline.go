// Package pipeline runs named, observable pipelines.
//
// A Pipeline builds a fresh exec.Runnable for every run, so the same
// Pipeline can run many times even though each unit is single-shot. Every
// run is recorded three ways:
//
// Metrics:
//   - pipeline.runs.total: Counter of runs
//   - pipeline.successes.total: Counter of runs that exited 0
//   - pipeline.nonzero.total: Counter of runs that exited non-zero
//   - pipeline.errors.total: Counter of runs that failed to build or spawn
//   - pipeline.duration.ms: Gauge of the last run's duration
//   - pipeline.exit_code: Gauge of the last run's exit code
//   - pipeline.stages.total: Gauge of the last run's stage count
//
// Traces:
//   - pipeline.run: Span per run, tagged with name, run ID, stages, exit code and error
//
// Events (via hooks):
//   - pipeline.complete: Fired after every run, successful or not
package pipeline

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/zoobzio/clockz"
	"github.com/zoobzio/hookz"
	"github.com/zoobzio/metricz"
	"github.com/zoobzio/tracez"
	"go.uber.org/zap"

	"github.com/jmgilman/go/shell/errors"
	"github.com/jmgilman/go/shell/exec"
)

// Metric keys.
const (
	RunsTotal      = metricz.Key("pipeline.runs.total")
	SuccessesTotal = metricz.Key("pipeline.successes.total")
	NonZeroTotal   = metricz.Key("pipeline.nonzero.total")
	ErrorsTotal    = metricz.Key("pipeline.errors.total")
	DurationMs     = metricz.Key("pipeline.duration.ms")
	ExitCode       = metricz.Key("pipeline.exit_code")
	StagesTotal    = metricz.Key("pipeline.stages.total")
)

// Span names.
const (
	RunSpan = tracez.Key("pipeline.run")
)

// Span tags.
const (
	TagName     = tracez.Tag("pipeline.name")
	TagRunID    = tracez.Tag("pipeline.run_id")
	TagStages   = tracez.Tag("pipeline.stages")
	TagExitCode = tracez.Tag("pipeline.exit_code")
	TagSuccess  = tracez.Tag("pipeline.success")
	TagError    = tracez.Tag("pipeline.error")

	// Hook event keys.
	EventComplete = hookz.Key("pipeline.complete")
)

// Event describes a finished run.
type Event struct {
	Name      string        // Pipeline name
	RunID     string        // Unique ID of the run
	Stages    int           // Number of stages run
	ExitCode  int           // Exit code of the result, -1 on error
	Success   bool          // Whether the run exited 0
	Error     error         // Build or spawn error, if any
	Retryable bool          // Whether Error is worth retrying, such as a timeout
	Duration  time.Duration // Wall time of the run
	Timestamp time.Time     // When the run finished
}

// Builder returns the stages of one run.
type Builder func() (exec.Runnable, error)

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithClock sets the clock used to time runs.
func WithClock(clock clockz.Clock) Option {
	return func(p *Pipeline) {
		p.clock = clock
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(p *Pipeline) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// Pipeline is a named, repeatable pipeline.
type Pipeline struct {
	name    string
	build   Builder
	clock   clockz.Clock
	logger  *zap.Logger
	metrics *metricz.Registry
	tracer  *tracez.Tracer
	hooks   *hookz.Hooks[Event]
}

// New creates a Pipeline that calls build at the start of every run.
func New(name string, build Builder, opts ...Option) *Pipeline {
	metrics := metricz.New()
	metrics.Counter(RunsTotal)
	metrics.Counter(SuccessesTotal)
	metrics.Counter(NonZeroTotal)
	metrics.Counter(ErrorsTotal)
	metrics.Gauge(DurationMs)
	metrics.Gauge(ExitCode)
	metrics.Gauge(StagesTotal)

	p := &Pipeline{
		name:    name,
		build:   build,
		clock:   clockz.RealClock,
		logger:  zap.NewNop(),
		metrics: metrics,
		tracer:  tracez.New(),
		hooks:   hookz.New[Event](),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Fixed returns a Builder over already constructed stages. Units are
// single-shot, so only the first run of a Pipeline using it can succeed.
func Fixed(stages ...exec.Runnable) Builder {
	return func() (exec.Runnable, error) {
		if len(stages) == 0 {
			return nil, errors.New(errors.CodeInvalidInput, "pipeline has no stages")
		}
		return exec.Chain(stages[0], stages[1:]...), nil
	}
}

// Name returns the pipeline name.
func (p *Pipeline) Name() string {
	return p.name
}

// Run builds the stages and runs them to completion.
func (p *Pipeline) Run(ctx context.Context) (*exec.Result, error) {
	runID := uuid.New().String()

	ctx, span := p.tracer.StartSpan(ctx, RunSpan)
	defer span.Finish()
	span.SetTag(TagName, p.name)
	span.SetTag(TagRunID, runID)

	log := p.logger.With(zap.String("pipeline", p.name), zap.String("run_id", runID))
	p.metrics.Counter(RunsTotal).Inc()
	start := p.clock.Now()

	stages := 0
	res, err := func() (*exec.Result, error) {
		r, err := p.build()
		if err != nil {
			return nil, err
		}
		if r == nil {
			return nil, errors.New(errors.CodeInvalidInput, "pipeline built no stages")
		}
		stages = len(Stages(r))
		span.SetTag(TagStages, strconv.Itoa(stages))
		p.metrics.Gauge(StagesTotal).Set(float64(stages))
		log.Debug("running pipeline", zap.String("stages", r.String()))
		return r.Run(ctx, nil)
	}()

	elapsed := p.clock.Since(start)
	p.metrics.Gauge(DurationMs).Set(float64(elapsed.Milliseconds()))

	evt := Event{
		Name:     p.name,
		RunID:    runID,
		Stages:   stages,
		ExitCode: -1,
		Error:    err,
		Duration: elapsed,
	}

	if err != nil {
		evt.Retryable = errors.IsRetryable(err)
		p.metrics.Counter(ErrorsTotal).Inc()
		span.SetTag(TagSuccess, "false")
		span.SetTag(TagError, err.Error())
		log.Warn("pipeline failed",
			zap.Error(err),
			zap.Bool("retryable", evt.Retryable),
			zap.Duration("duration", elapsed),
		)
	} else {
		evt.ExitCode = res.ExitCode
		evt.Success = res.Success()
		p.metrics.Gauge(ExitCode).Set(float64(res.ExitCode))
		span.SetTag(TagExitCode, strconv.Itoa(res.ExitCode))
		span.SetTag(TagSuccess, strconv.FormatBool(evt.Success))
		if evt.Success {
			p.metrics.Counter(SuccessesTotal).Inc()
		} else {
			p.metrics.Counter(NonZeroTotal).Inc()
		}
		log.Info("pipeline finished",
			zap.Int("exit_code", res.ExitCode),
			zap.Int("stages", stages),
			zap.Duration("duration", elapsed),
		)
	}

	evt.Timestamp = p.clock.Now()
	_ = p.hooks.Emit(ctx, EventComplete, evt) //nolint:errcheck

	return res, err
}

// OnComplete registers a handler for finished runs. Handlers run
// asynchronously.
func (p *Pipeline) OnComplete(handler func(context.Context, Event) error) error {
	_, err := p.hooks.Hook(EventComplete, handler)
	return err
}

// Metrics returns the metrics registry.
func (p *Pipeline) Metrics() *metricz.Registry {
	return p.metrics
}

// Tracer returns the tracer.
func (p *Pipeline) Tracer() *tracez.Tracer {
	return p.tracer
}

// Close shuts down the tracer and hooks.
func (p *Pipeline) Close() error {
	if p.tracer != nil {
		p.tracer.Close()
	}
	p.hooks.Close()
	return nil
}

// Stages returns the leaf units of r from left to right.
func Stages(r exec.Runnable) []exec.Runnable {
	pair, ok := r.(*exec.Pair)
	if !ok {
		return []exec.Runnable{r}
	}
	return append(Stages(pair.Left()), Stages(pair.Right())...)
}
