package ownership

import (
	"go.uber.org/zap"

	"github.com/wippyai/ownership/errors"
)

// Shared is an owning handle. Every Shared derived from the same New call
// shares one control block; the object is destroyed when the last of them
// releases.
//
// The zero value is an empty handle. Copying a Shared with plain assignment
// does not add an owner: use Clone to copy, Move to transfer.
type Shared[T any] struct {
	ptr *T
	cb  *control[T]
}

// New takes ownership of ptr. A nil ptr yields an empty handle.
//
// ptr must not already be owned by another control block: wrapping one
// pointer twice destroys it twice. Use Clone, or EnableShared for objects
// that need a handle to themselves.
func New[T any](ptr *T) Shared[T] {
	if ptr == nil {
		return Shared[T]{}
	}

	cb := newControl(ptr)
	if e, ok := any(ptr).(selfEnroller[T]); ok {
		e.enrollShared(ptr, cb)
	}

	if ce := Logger().Check(zap.DebugLevel, "object acquired"); ce != nil {
		ce.Write(zap.Uint64("block", cb.id), zap.String("type", typeName[T]()))
	}

	return Shared[T]{ptr: ptr, cb: cb}
}

// Make allocates a copy of v and takes ownership of it.
func Make[T any](v T) Shared[T] {
	return New(&v)
}

// Clone returns a new owner of the same object.
func (s *Shared[T]) Clone() Shared[T] {
	if s.cb == nil {
		return Shared[T]{}
	}
	s.cb.acquire()
	return Shared[T]{ptr: s.ptr, cb: s.cb}
}

// Assign makes s an owner of other's object, releasing what s owned before.
// Assigning a handle to itself is a no-op.
func (s *Shared[T]) Assign(other *Shared[T]) {
	if s == other {
		return
	}
	// Acquire before release: other may share s's block.
	if other.cb != nil {
		other.cb.acquire()
	}
	old := s.cb
	s.ptr, s.cb = other.ptr, other.cb
	if old != nil {
		old.release()
	}
}

// Move transfers ownership to the returned handle and empties s.
// Counts do not change.
func (s *Shared[T]) Move() Shared[T] {
	m := *s
	*s = Shared[T]{}
	return m
}

// Release gives up ownership and empties s. It reports whether this call
// destroyed the object. Releasing an empty handle does nothing.
func (s *Shared[T]) Release() bool {
	cb := s.cb
	if cb == nil {
		return false
	}
	s.ptr, s.cb = nil, nil
	return cb.release()
}

// Reset releases the current object and takes ownership of ptr.
func (s *Shared[T]) Reset(ptr *T) {
	s.Release()
	*s = New(ptr)
}

// Get returns the managed pointer, or nil for an empty handle.
func (s *Shared[T]) Get() *T {
	return s.ptr
}

// Value returns a copy of the managed object.
// It panics if the handle is empty.
func (s *Shared[T]) Value() T {
	if s.ptr == nil {
		panic(errors.EmptyHandle(errors.PhaseAccess, typeName[T]()))
	}
	return *s.ptr
}

// Valid reports whether s owns an object.
func (s *Shared[T]) Valid() bool {
	return s.ptr != nil
}

// UseCount returns the number of owners, or 0 for an empty handle.
// The value is a snapshot and may be stale as soon as it is returned.
func (s *Shared[T]) UseCount() int64 {
	if s.cb == nil {
		return 0
	}
	return s.cb.useCount()
}

// WeakCount returns the number of weak observers of the object.
func (s *Shared[T]) WeakCount() int64 {
	if s.cb == nil {
		return 0
	}
	return s.cb.observers()
}

// Unique reports whether s is the only owner.
func (s *Shared[T]) Unique() bool {
	return s.UseCount() == 1
}

// Swap exchanges the objects owned by s and other. Counts do not change.
// Swap is not atomic: neither handle may be used by another goroutine
// while it runs.
func (s *Shared[T]) Swap(other *Shared[T]) {
	s.ptr, other.ptr = other.ptr, s.ptr
	s.cb, other.cb = other.cb, s.cb
}

// SameOwner reports whether s and other share a control block.
func (s *Shared[T]) SameOwner(other *Shared[T]) bool {
	return s.cb != nil && s.cb == other.cb
}

// Weak returns a weak observer of the object.
func (s *Shared[T]) Weak() Weak[T] {
	return NewWeak(s)
}
