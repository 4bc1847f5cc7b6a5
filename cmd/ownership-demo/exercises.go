package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/wippyai/ownership"
	"github.com/wippyai/ownership/stress"
)

// Demo modes accepted on stdin or via -mode.
const (
	modeUnique = "up"
	modeShared = "sp"
	modeWeak   = "wp"
)

const wrongArgument = "No Argument OR Wrong Argument!"

// sample is the object every demo manages. It can hand out handles to
// itself, so observers can be attached from inside its methods.
type sample struct {
	ownership.EnableShared[sample]
	num int
}

// observer keeps a non-owning reference to a sample.
type observer struct {
	target ownership.Weak[sample]
}

// attachObserver hands a reference to s to a new observer. s must already
// be owned by a Shared handle; wrapping s in a second New would create an
// unrelated control block.
func (s *sample) attachObserver() (*observer, error) {
	self, err := s.SharedFromThis()
	if err != nil {
		return nil, err
	}
	defer self.Release()
	return &observer{target: self.Weak()}, nil
}

// runMode dispatches a demo by name and reports whether the name was known.
func runMode(w io.Writer, mode string) bool {
	switch mode {
	case modeUnique:
		runUnique(w)
	case modeShared:
		if err := runShared(w); err != nil {
			fmt.Fprintf(w, "Error: %v\n", err)
		}
	case modeWeak:
		runWeak(w)
	default:
		fmt.Fprintln(w, wrongArgument)
		return false
	}
	return true
}

func runUnique(w io.Writer) {
	uptr := ownership.NewUnique(&sample{})

	if uptr.Valid() && uptr.Get() != nil {
		fmt.Fprintln(w, "Has a pointer!")
	}

	// Release relinquishes without destroying; uptr1 takes over.
	uptr1 := ownership.NewUnique(uptr.Release())

	if !uptr.Valid() {
		fmt.Fprintln(w, "Has Not a pointer!")
	}

	uptr.Reset(&sample{})
	uptr1.Reset(nil)
	uptr.Reset(nil)
}

func runShared(w io.Writer) error {
	sptr := ownership.New(&sample{})
	defer sptr.Release()
	sptr1 := sptr.Clone()

	origin := sptr.Get()

	if sptr.Valid() {
		fmt.Fprintln(w, "Has a pointer!")
	}

	fmt.Fprintf(w, "Before Reset, Number of Count: %d\n", sptr.UseCount())

	sptr1.Reset(nil)

	if sptr.Unique() {
		fmt.Fprintf(w, "After Reset, Number of Count: %d\n", sptr.UseCount())
	}

	sptr3 := ownership.Make(sample{num: 10})
	defer sptr3.Release()
	sptr4 := ownership.Make(sample{num: 5})
	defer sptr4.Release()

	fmt.Fprintf(w, "Before Swap sptr3: %d sptr4: %d\n", sptr3.Get().num, sptr4.Get().num)
	sptr3.Swap(&sptr4)
	fmt.Fprintf(w, "After Swap sptr3: %d sptr4: %d\n", sptr3.Get().num, sptr4.Get().num)

	obs, err := origin.attachObserver()
	if err != nil {
		return err
	}
	defer obs.target.Reset()
	fmt.Fprintf(w, "Observer attached, Number of Count: %d, Observers: %d\n", sptr.UseCount(), sptr.WeakCount())
	return nil
}

func runWeak(w io.Writer) {
	sptr := ownership.New(&sample{})
	wptr := sptr.Weak()

	if sptr.Unique() {
		fmt.Fprintln(w, "Weak handle Does NOT Increase Count!")
	}

	sptr.Reset(nil)

	if wptr.Expired() {
		fmt.Fprintln(w, "Released!")
	}

	tmp := wptr.Lock()
	if !tmp.Valid() {
		fmt.Fprintln(w, "Released! Lock returned an empty handle!")
	}

	wptr.Reset()
}

// runStress runs both scenarios with cfg and prints a summary of each.
func runStress(ctx context.Context, w io.Writer, cfg *stress.Config) error {
	h, err := stress.New(cfg)
	if err != nil {
		return err
	}
	c := h.Config()
	fmt.Fprintf(w, "Stress: %d goroutines x %d iterations\n", c.Goroutines, c.Iterations)

	global := h.NewGlobal()
	report := h.RunCopying(ctx, &global)
	global.Release()
	printReport(w, &report, c.Expected)

	seed := h.NewGlobal()
	guarded := ownership.NewGuarded(&seed)
	report = h.RunSharedMutation(ctx, guarded)
	guarded.Release()
	printReport(w, &report, c.Expected)

	tr := h.Tracker()
	fmt.Fprintf(w, "Payloads created: %d, destroyed: %d\n", tr.Created(), tr.Dropped())
	return nil
}

func printReport(w io.Writer, r *stress.Report, expected int) {
	status := "ok"
	if !r.OK() {
		status = fmt.Sprintf("%d anomalies", len(r.Anomalies))
	}
	if r.Canceled {
		status += " (canceled)"
	}
	fmt.Fprintf(w, "  %-16s %d checks in %s: %s\n", r.Scenario, r.Checks, r.Elapsed.Round(time.Millisecond), status)
	for _, err := range r.Errors(expected) {
		fmt.Fprintf(w, "    %v\n", err)
	}
}
