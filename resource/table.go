package resource

import (
	"sync"

	"go.uber.org/zap"

	"github.com/wippyai/ownership"
	"github.com/wippyai/ownership/errors"
)

// Table maps integer handles to shared owners and notifies observers of
// lifecycle events. The table is one owner among possibly many: dropping a
// handle destroys the object only if nobody else owns it.
type Table[T any] struct {
	backend   *LocalBackend[T]
	observers []Observer
	obsMu     sync.RWMutex
}

// NewTable creates a new table with a LocalBackend.
func NewTable[T any]() *Table[T] {
	return &Table[T]{
		backend: NewLocalBackend[T](),
	}
}

// Insert makes the table a co-owner of owner's object and returns its handle.
// The caller keeps its own ownership.
func (t *Table[T]) Insert(owner *ownership.Shared[T]) (Handle, error) {
	clone := owner.Clone()
	h, err := t.backend.Create(&clone)
	if err != nil {
		clone.Release()
		return 0, err
	}
	t.notify(Event{Type: EventInserted, Handle: h, UseCount: owner.UseCount()})
	return h, nil
}

// Adopt moves owner into the table and returns its handle. On success the
// caller's handle is left empty.
func (t *Table[T]) Adopt(owner *ownership.Shared[T]) (Handle, error) {
	h, err := t.backend.Create(owner)
	if err != nil {
		return 0, err
	}
	t.notify(Event{Type: EventInserted, Handle: h, UseCount: t.backend.UseCount(h)})
	return h, nil
}

// Get returns a new owner of the object under handle. The caller must
// release it.
func (t *Table[T]) Get(handle Handle) (ownership.Shared[T], bool) {
	return t.backend.Get(handle)
}

// Borrow returns an observer of the object under handle. The observer does
// not keep the object alive and must be promoted with Lock before use.
func (t *Table[T]) Borrow(handle Handle) (ownership.Weak[T], bool) {
	w, ok := t.backend.Weak(handle)
	if !ok {
		return w, false
	}
	t.notify(Event{Type: EventBorrowed, Handle: handle, UseCount: w.UseCount()})
	return w, true
}

// UseCount returns the owner count of the object under handle.
func (t *Table[T]) UseCount(handle Handle) int64 {
	return t.backend.UseCount(handle)
}

// Drop removes handle and releases the table's ownership. It reports
// whether the object was destroyed as a result.
func (t *Table[T]) Drop(handle Handle) (bool, error) {
	owner, ok := t.backend.Remove(handle)
	if !ok {
		return false, errors.InvalidHandle(errors.PhaseTable, uint64(handle))
	}

	remaining := owner.UseCount() - 1
	destroyed := owner.Release()

	t.notify(Event{Type: EventDropped, Handle: handle, UseCount: remaining})
	if destroyed {
		t.notify(Event{Type: EventDestroyed, Handle: handle})
	}

	Logger().Debug("resource dropped",
		zap.Uint32("handle", uint32(handle)),
		zap.Bool("destroyed", destroyed))

	return destroyed, nil
}

// Subscribe adds an observer for lifecycle events.
func (t *Table[T]) Subscribe(o Observer) {
	t.obsMu.Lock()
	defer t.obsMu.Unlock()
	t.observers = append(t.observers, o)
}

// Unsubscribe removes an observer.
func (t *Table[T]) Unsubscribe(o Observer) {
	t.obsMu.Lock()
	defer t.obsMu.Unlock()
	for i, obs := range t.observers {
		if obs == o {
			t.observers = append(t.observers[:i], t.observers[i+1:]...)
			return
		}
	}
}

// Len returns the number of handles in the table.
func (t *Table[T]) Len() int {
	return t.backend.Len()
}

// Each iterates over the handles present when it was called. fn may drop
// handles; an object dropped inside fn is destroyed once fn returns.
func (t *Table[T]) Each(fn func(Handle, *T) bool) {
	t.backend.Each(fn)
}

// Clear drops every handle.
func (t *Table[T]) Clear() {
	// Collect handles first: Each keeps every object alive until fn returns
	var handles []Handle
	t.backend.Each(func(h Handle, _ *T) bool {
		handles = append(handles, h)
		return true
	})
	for _, h := range handles {
		_, _ = t.Drop(h)
	}
}

// Close releases all handles and stops accepting new ones. Observers are
// not notified for owners released by Close.
func (t *Table[T]) Close() error {
	return t.backend.Close()
}

func (t *Table[T]) notify(e Event) {
	t.obsMu.RLock()
	defer t.obsMu.RUnlock()
	for _, o := range t.observers {
		o.OnResourceEvent(e)
	}
}
