package ownership

import (
	"github.com/wippyai/ownership/errors"
)

// Unique is the sole owner of an object. There is no control block and no
// count: the object is destroyed by Reset, or handed on with Release, Move
// or Share.
//
// Like Shared, a Unique must not be copied with plain assignment.
type Unique[T any] struct {
	ptr *T
}

// NewUnique takes sole ownership of ptr.
func NewUnique[T any](ptr *T) Unique[T] {
	return Unique[T]{ptr: ptr}
}

// Get returns the owned pointer, or nil.
func (u *Unique[T]) Get() *T {
	return u.ptr
}

// Value returns a copy of the owned object.
// It panics if u is empty.
func (u *Unique[T]) Value() T {
	if u.ptr == nil {
		panic(errors.EmptyHandle(errors.PhaseAccess, typeName[T]()))
	}
	return *u.ptr
}

// Valid reports whether u owns an object.
func (u *Unique[T]) Valid() bool {
	return u.ptr != nil
}

// Release gives up ownership without destroying the object and returns it.
func (u *Unique[T]) Release() *T {
	p := u.ptr
	u.ptr = nil
	return p
}

// Reset destroys the current object, if any, and takes ownership of ptr.
// Resetting to the pointer already owned is a no-op.
func (u *Unique[T]) Reset(ptr *T) {
	old := u.ptr
	if old == ptr {
		return
	}
	u.ptr = ptr
	if d, ok := any(old).(Dropper); ok && old != nil {
		d.Drop()
	}
}

// Move transfers ownership to the returned handle and empties u.
func (u *Unique[T]) Move() Unique[T] {
	return Unique[T]{ptr: u.Release()}
}

// Share converts sole ownership into shared ownership and empties u.
func (u *Unique[T]) Share() Shared[T] {
	return New(u.Release())
}
