package stress

import (
	"context"
	"sync"
	"time"

	"go.uber.org/atomic"
	"go.uber.org/zap"

	"github.com/wippyai/ownership"
	"github.com/wippyai/ownership/errors"
)

// Scenario names used in reports.
const (
	ScenarioCopying        = "copying"
	ScenarioSharedMutation = "shared-mutation"
)

// Config holds harness parameters.
type Config struct {
	// Goroutines is the number of concurrent workers.
	Goroutines int
	// Iterations is the number of checks per worker.
	Iterations int
	// Expected is the value held by the shared owner.
	Expected int
	// Substitute is the value of the payload swapped in by each iteration.
	Substitute int
}

// DefaultConfig returns 10 workers doing 100000 iterations each.
func DefaultConfig() Config {
	return Config{
		Goroutines: 10,
		Iterations: 100000,
		Expected:   2000,
		Substitute: 1000,
	}
}

func (c Config) validate() error {
	if c.Goroutines <= 0 {
		return errors.InvalidInput(errors.PhaseStress, "goroutines must be positive")
	}
	if c.Iterations <= 0 {
		return errors.InvalidInput(errors.PhaseStress, "iterations must be positive")
	}
	if c.Expected == c.Substitute {
		return errors.InvalidInput(errors.PhaseStress, "expected and substitute values must differ")
	}
	return nil
}

// Payload is the managed object used by the harness.
type Payload struct {
	tracker *Tracker
	Value   int
}

// Drop records the destruction with the payload's tracker.
func (p *Payload) Drop() {
	p.tracker.dropped.Inc()
}

// Tracker counts payload creations and destructions.
type Tracker struct {
	created atomic.Int64
	dropped atomic.Int64
}

// New returns the first owner of a tracked payload.
func (t *Tracker) New(value int) ownership.Shared[Payload] {
	t.created.Inc()
	return ownership.New(&Payload{Value: value, tracker: t})
}

// Created returns the number of payloads created.
func (t *Tracker) Created() int64 { return t.created.Load() }

// Dropped returns the number of payloads destroyed.
func (t *Tracker) Dropped() int64 { return t.dropped.Load() }

// Live returns the number of payloads not yet destroyed.
func (t *Tracker) Live() int64 { return t.created.Load() - t.dropped.Load() }

// Anomaly is a read that did not observe the expected value.
type Anomaly struct {
	Goroutine int
	Iteration int
	Observed  int
}

// Report summarizes one scenario run.
type Report struct {
	Scenario  string
	Anomalies []Anomaly
	Checks    int64
	Elapsed   time.Duration
	Canceled  bool
}

// OK reports whether every check observed the expected value.
func (r *Report) OK() bool {
	return len(r.Anomalies) == 0
}

// Errors returns one torn-read error per anomaly.
func (r *Report) Errors(expected int) []error {
	errs := make([]error, 0, len(r.Anomalies))
	for _, a := range r.Anomalies {
		errs = append(errs, errors.TornRead(a.Goroutine, a.Iteration, a.Observed, expected))
	}
	return errs
}

// Harness runs scenarios with one configuration and one tracker.
type Harness struct {
	tracker *Tracker
	cfg     Config
}

// New creates a harness. A nil cfg selects DefaultConfig.
func New(cfg *Config) (*Harness, error) {
	c := DefaultConfig()
	if cfg != nil {
		c = *cfg
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return &Harness{cfg: c, tracker: &Tracker{}}, nil
}

// Config returns the harness configuration.
func (h *Harness) Config() Config {
	return h.cfg
}

// Tracker returns the tracker shared by all payloads of this harness.
func (h *Harness) Tracker() *Tracker {
	return h.tracker
}

// NewGlobal returns an owner of a payload holding the expected value.
func (h *Harness) NewGlobal() ownership.Shared[Payload] {
	return h.tracker.New(h.cfg.Expected)
}

// RunCopying runs the safe pattern against global, which must not be
// mutated while the run is in progress.
func (h *Harness) RunCopying(ctx context.Context, global *ownership.Shared[Payload]) Report {
	return h.run(ctx, ScenarioCopying, func() int {
		p1 := global.Clone()
		p2 := h.tracker.New(h.cfg.Substitute)
		p1.Swap(&p2)
		p2.Swap(&p1)

		v := p1.Get().Value
		p2.Release()
		p1.Release()
		return v
	})
}

// RunSharedMutation runs the unsafe pattern against global. Anomalies are
// expected; counts stay consistent and every payload is destroyed once.
func (h *Harness) RunSharedMutation(ctx context.Context, global *ownership.Guarded[Payload]) Report {
	return h.run(ctx, ScenarioSharedMutation, func() int {
		p2 := h.tracker.New(h.cfg.Substitute)
		global.Swap(&p2)
		global.Swap(&p2)

		p := global.Load()
		v := p.Get().Value
		p.Release()
		p2.Release()
		return v
	})
}

func (h *Harness) run(ctx context.Context, scenario string, check func() int) Report {
	var (
		checks    atomic.Int64
		mu        sync.Mutex
		anomalies []Anomaly
		wg        sync.WaitGroup
	)

	start := time.Now()
	for g := 0; g < h.cfg.Goroutines; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < h.cfg.Iterations; i++ {
				if i&1023 == 0 && ctx.Err() != nil {
					return
				}
				v := check()
				checks.Inc()
				if v == h.cfg.Expected {
					continue
				}

				// Stop at the first bad read, like a worker that reports and quits.
				mu.Lock()
				anomalies = append(anomalies, Anomaly{Goroutine: g, Iteration: i, Observed: v})
				mu.Unlock()
				Logger().Warn("unexpected value",
					zap.String("scenario", scenario),
					zap.Int("goroutine", g),
					zap.Int("iteration", i),
					zap.Int("observed", v),
					zap.Int("expected", h.cfg.Expected))
				return
			}
		}()
	}
	wg.Wait()

	report := Report{
		Scenario:  scenario,
		Anomalies: anomalies,
		Checks:    checks.Load(),
		Elapsed:   time.Since(start),
		Canceled:  ctx.Err() != nil,
	}
	Logger().Info("stress run finished",
		zap.String("scenario", scenario),
		zap.Int64("checks", report.Checks),
		zap.Int("anomalies", len(report.Anomalies)),
		zap.Duration("elapsed", report.Elapsed))
	return report
}
