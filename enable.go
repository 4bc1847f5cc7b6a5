package ownership

import (
	"go.uber.org/zap"

	"github.com/wippyai/ownership/errors"
)

type selfEnroller[T any] interface {
	enrollShared(ptr *T, cb *control[T])
	unenrollShared(cb *control[T])
}

// EnableShared lets an object produce handles to itself that share its
// existing control block. Embed it in T; New enrolls the object when it
// first takes ownership of it.
//
//	type session struct {
//	    ownership.EnableShared[session]
//	    id string
//	}
//
// Wrapping a raw pointer to self with New from inside a method would create
// a second, unrelated control block and destroy the object twice.
type EnableShared[T any] struct {
	self Weak[T]
}

func (e *EnableShared[T]) enrollShared(ptr *T, cb *control[T]) {
	if e.self.ptr == ptr {
		if !e.self.Expired() {
			Logger().Warn("object already owned, keeping first control block",
				zap.String("type", typeName[T]()),
				zap.Uint64("block", e.self.cb.id),
				zap.Uint64("ignored", cb.id))
			return
		}
		e.self.Reset()
	}
	// A copied value carries its source's enrollment, which it never
	// acquired and must not release.
	cb.acquireWeak()
	e.self = Weak[T]{ptr: ptr, cb: cb}
}

func (e *EnableShared[T]) unenrollShared(cb *control[T]) {
	if e.self.cb == cb {
		e.self.Reset()
	}
}

// SharedFromThis returns a new owner of the enclosing object. It fails if
// the object was never owned by a Shared handle or its owners are gone.
func (e *EnableShared[T]) SharedFromThis() (Shared[T], error) {
	if e.self.cb == nil {
		return Shared[T]{}, errors.NotEnrolled(typeName[T]())
	}
	s := e.self.Lock()
	if !s.Valid() {
		return Shared[T]{}, errors.Expired(errors.PhasePromote, typeName[T](), e.self.cb.id)
	}
	return s, nil
}

// WeakFromThis returns an observer of the enclosing object, or an empty
// observer if it was never owned by a Shared handle.
func (e *EnableShared[T]) WeakFromThis() Weak[T] {
	return e.self.Clone()
}
