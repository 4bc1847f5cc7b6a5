package ownership

// Weak observes an object owned by Shared handles without keeping it alive.
// It has no accessor: promote it with Lock and use the returned handle.
//
// The zero value is an empty observer that is always expired.
type Weak[T any] struct {
	ptr *T
	cb  *control[T]
}

// NewWeak returns an observer of the object owned by s.
// An empty s yields an empty observer.
func NewWeak[T any](s *Shared[T]) Weak[T] {
	if s.cb == nil {
		return Weak[T]{}
	}
	s.cb.acquireWeak()
	return Weak[T]{ptr: s.ptr, cb: s.cb}
}

// Clone returns another observer of the same object.
func (w *Weak[T]) Clone() Weak[T] {
	if w.cb == nil {
		return Weak[T]{}
	}
	w.cb.acquireWeak()
	return Weak[T]{ptr: w.ptr, cb: w.cb}
}

// Expired reports whether the object has been destroyed.
// Once true it stays true.
func (w *Weak[T]) Expired() bool {
	return w.cb == nil || w.cb.useCount() == 0
}

// Lock promotes w to an owning handle. It returns an empty handle if the
// object has been destroyed. The check and the increment are one atomic
// step, so a handle returned non-empty is always safe to use.
func (w *Weak[T]) Lock() Shared[T] {
	if w.cb == nil || !w.cb.tryAcquire() {
		return Shared[T]{}
	}
	return Shared[T]{ptr: w.ptr, cb: w.cb}
}

// Reset stops observing and empties w.
func (w *Weak[T]) Reset() {
	cb := w.cb
	if cb == nil {
		return
	}
	w.ptr, w.cb = nil, nil
	cb.releaseWeak()
}

// Move transfers the observation to the returned handle and empties w.
func (w *Weak[T]) Move() Weak[T] {
	m := *w
	*w = Weak[T]{}
	return m
}

// Swap exchanges the objects observed by w and other.
func (w *Weak[T]) Swap(other *Weak[T]) {
	w.ptr, other.ptr = other.ptr, w.ptr
	w.cb, other.cb = other.cb, w.cb
}

// UseCount returns the number of owners of the observed object.
func (w *Weak[T]) UseCount() int64 {
	if w.cb == nil {
		return 0
	}
	return w.cb.useCount()
}

// State returns the lifecycle stage of the observed control block.
// An empty observer reports StateDestroyed.
func (w *Weak[T]) State() State {
	if w.cb == nil {
		return StateDestroyed
	}
	return w.cb.state()
}

// Observes reports whether w observes the object owned by s.
func (w *Weak[T]) Observes(s *Shared[T]) bool {
	return w.cb != nil && w.cb == s.cb
}
