package ownership

import (
	"fmt"

	"go.uber.org/atomic"
	"go.uber.org/zap"

	"github.com/wippyai/ownership/errors"
)

// Dropper is optionally implemented by managed objects that need cleanup.
// Drop runs exactly once, when the last owning handle releases.
type Dropper interface {
	Drop()
}

// State is the lifecycle stage of a control block. Transitions only move
// forward: Live, then Expired, then Destroyed.
type State uint8

const (
	// StateLive means at least one owner holds the object.
	StateLive State = iota
	// StateExpired means the object was destroyed but observers remain.
	StateExpired
	// StateDestroyed means neither owners nor observers remain.
	StateDestroyed
)

// String returns a human-readable name of the state.
func (s State) String() string {
	switch s {
	case StateLive:
		return "live"
	case StateExpired:
		return "expired"
	case StateDestroyed:
		return "destroyed"
	default:
		return "unknown"
	}
}

var blockSeq atomic.Uint64

// control is the block shared by every handle derived from one allocation.
// The owners collectively hold one weak reference, so weak reaches zero
// exactly once, after the object is gone and the last observer left.
type control[T any] struct {
	obj       *T
	id        uint64
	strong    atomic.Int64
	weak      atomic.Int64
	destroyed atomic.Bool
}

func newControl[T any](obj *T) *control[T] {
	c := &control[T]{obj: obj, id: blockSeq.Inc()}
	c.strong.Store(1)
	c.weak.Store(1)
	return c
}

// acquire adds an owner. The caller must already hold one; a dead block
// panics and its count stays at zero.
func (c *control[T]) acquire() {
	if !c.tryAcquire() {
		panic(errors.Expired(errors.PhaseAcquire, typeName[T](), c.id))
	}
}

// tryAcquire adds an owner unless the object is already destroyed.
func (c *control[T]) tryAcquire() bool {
	for {
		n := c.strong.Load()
		if n == 0 {
			return false
		}
		if c.strong.CompareAndSwap(n, n+1) {
			return true
		}
	}
}

// release drops an owner and reports whether it destroyed the object.
func (c *control[T]) release() bool {
	n := c.strong.Dec()
	if n > 0 {
		return false
	}
	if n < 0 {
		panic(errors.CountUnderflow(errors.PhaseRelease, c.id, n))
	}
	c.destroyObject()
	c.releaseWeak()
	return true
}

func (c *control[T]) acquireWeak() {
	c.weak.Inc()
}

func (c *control[T]) releaseWeak() {
	n := c.weak.Dec()
	if n > 0 {
		return
	}
	if n < 0 {
		panic(errors.CountUnderflow(errors.PhaseRelease, c.id, n))
	}
	c.destroyed.Store(true)
	if ce := Logger().Check(zap.DebugLevel, "control block destroyed"); ce != nil {
		ce.Write(zap.Uint64("block", c.id), zap.String("type", typeName[T]()))
	}
}

func (c *control[T]) destroyObject() {
	obj := c.obj
	c.obj = nil

	if d, ok := any(obj).(Dropper); ok {
		d.Drop()
	}
	if e, ok := any(obj).(selfEnroller[T]); ok {
		e.unenrollShared(c)
	}

	if ce := Logger().Check(zap.DebugLevel, "object destroyed"); ce != nil {
		ce.Write(zap.Uint64("block", c.id), zap.String("type", typeName[T]()))
	}
}

func (c *control[T]) useCount() int64 {
	return c.strong.Load()
}

// observers returns the weak count without the owners' collective reference.
func (c *control[T]) observers() int64 {
	n := c.weak.Load()
	if c.strong.Load() > 0 {
		n--
	}
	if n < 0 {
		return 0
	}
	return n
}

func (c *control[T]) state() State {
	if c.strong.Load() > 0 {
		return StateLive
	}
	if c.destroyed.Load() {
		return StateDestroyed
	}
	return StateExpired
}

func typeName[T any]() string {
	return fmt.Sprintf("%T", (*T)(nil))
}
