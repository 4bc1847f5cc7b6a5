package resource

import (
	"sync"

	"github.com/wippyai/ownership"
	"github.com/wippyai/ownership/errors"
)

// LocalBackend is an in-memory slot store. Each valid slot holds one
// owning handle; freed slots are reused.
type LocalBackend[T any] struct {
	entries  []entry[T]
	freeList []Handle
	mu       sync.RWMutex
	closed   bool
}

type entry[T any] struct {
	owner ownership.Shared[T]
	valid bool
}

// NewLocalBackend creates a new in-memory backend.
func NewLocalBackend[T any]() *LocalBackend[T] {
	return &LocalBackend[T]{
		entries:  make([]entry[T], 0, 64),
		freeList: make([]Handle, 0, 16),
	}
}

// Create moves owner into a free slot and returns its handle.
func (b *LocalBackend[T]) Create(owner *ownership.Shared[T]) (Handle, error) {
	if !owner.Valid() {
		return 0, errors.EmptyHandle(errors.PhaseTable, "")
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return 0, errors.Closed(errors.PhaseTable, "resource backend")
	}

	e := entry[T]{owner: owner.Move(), valid: true}

	if len(b.freeList) > 0 {
		handle := b.freeList[len(b.freeList)-1]
		b.freeList = b.freeList[:len(b.freeList)-1]
		b.entries[handle-1] = e
		return handle, nil
	}

	b.entries = append(b.entries, e)
	return Handle(len(b.entries)), nil
}

// lookup returns the live entry for handle. Caller holds b.mu.
func (b *LocalBackend[T]) lookup(handle Handle) (*entry[T], bool) {
	if handle == 0 {
		return nil, false
	}
	idx := handle - 1
	if int(idx) >= len(b.entries) {
		return nil, false
	}
	e := &b.entries[idx]
	if !e.valid {
		return nil, false
	}
	return e, true
}

// Get returns a new owner of the object stored under handle.
func (b *LocalBackend[T]) Get(handle Handle) (ownership.Shared[T], bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	e, ok := b.lookup(handle)
	if !ok {
		return ownership.Shared[T]{}, false
	}
	return e.owner.Clone(), true
}

// Weak returns an observer of the object stored under handle.
func (b *LocalBackend[T]) Weak(handle Handle) (ownership.Weak[T], bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	e, ok := b.lookup(handle)
	if !ok {
		return ownership.Weak[T]{}, false
	}
	return e.owner.Weak(), true
}

// UseCount returns the owner count of the object stored under handle,
// or 0 if the handle is invalid.
func (b *LocalBackend[T]) UseCount(handle Handle) int64 {
	b.mu.RLock()
	defer b.mu.RUnlock()

	e, ok := b.lookup(handle)
	if !ok {
		return 0
	}
	return e.owner.UseCount()
}

// Remove frees the slot and moves its owner out to the caller, who is
// responsible for releasing it.
func (b *LocalBackend[T]) Remove(handle Handle) (ownership.Shared[T], bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	e, ok := b.lookup(handle)
	if !ok {
		return ownership.Shared[T]{}, false
	}

	owner := e.owner.Move()
	e.valid = false
	b.freeList = append(b.freeList, handle)
	return owner, true
}

// Close stops accepting new owners and releases every stored one.
func (b *LocalBackend[T]) Close() error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true

	owners := make([]ownership.Shared[T], 0, len(b.entries))
	for i := range b.entries {
		if b.entries[i].valid {
			owners = append(owners, b.entries[i].owner.Move())
			b.entries[i].valid = false
		}
	}
	b.entries = nil
	b.freeList = nil
	b.mu.Unlock()

	// Drop hooks may call back into the table; run them unlocked.
	for i := range owners {
		owners[i].Release()
	}
	return nil
}

// Len returns the number of occupied slots.
func (b *LocalBackend[T]) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	count := 0
	for _, e := range b.entries {
		if e.valid {
			count++
		}
	}
	return count
}

type slot[T any] struct {
	owner  ownership.Shared[T]
	handle Handle
}

// Each iterates over the slots occupied when it was called. fn runs
// without the table lock held, so it may insert or remove handles. Each
// keeps an owner of every visited object for the duration of fn.
func (b *LocalBackend[T]) Each(fn func(Handle, *T) bool) {
	b.mu.RLock()
	slots := make([]slot[T], 0, len(b.entries))
	for i := range b.entries {
		if b.entries[i].valid {
			slots = append(slots, slot[T]{handle: Handle(i + 1), owner: b.entries[i].owner.Clone()})
		}
	}
	b.mu.RUnlock()

	stopped := false
	for i := range slots {
		if !stopped && !fn(slots[i].handle, slots[i].owner.Get()) {
			stopped = true
		}
		slots[i].owner.Release()
	}
}
