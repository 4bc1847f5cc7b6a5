package ownership

import "sync"

// Guarded is a Shared handle that many goroutines may read and replace.
// Each method is atomic with respect to the handle; a sequence of calls is
// not. Readers should Load a local owner and work with that.
type Guarded[T any] struct {
	mu sync.RWMutex
	h  Shared[T]
}

// NewGuarded moves h into a new Guarded. h is left empty.
func NewGuarded[T any](h *Shared[T]) *Guarded[T] {
	return &Guarded[T]{h: h.Move()}
}

// Load returns a new owner of the guarded object, or an empty handle.
func (g *Guarded[T]) Load() Shared[T] {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.h.Clone()
}

// Store moves h into g and releases the previously guarded object.
func (g *Guarded[T]) Store(h *Shared[T]) {
	next := h.Move()

	g.mu.Lock()
	old := g.h
	g.h = next
	g.mu.Unlock()

	old.Release()
}

// Swap exchanges the guarded handle with other. other must not be shared
// with another goroutine.
func (g *Guarded[T]) Swap(other *Shared[T]) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.h.Swap(other)
}

// UseCount returns the number of owners of the guarded object.
func (g *Guarded[T]) UseCount() int64 {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.h.UseCount()
}

// Release empties g and gives up its ownership. It reports whether the
// object was destroyed.
func (g *Guarded[T]) Release() bool {
	g.mu.Lock()
	old := g.h.Move()
	g.mu.Unlock()

	return old.Release()
}
