// Package ownership provides reference-counted shared ownership of Go values.
//
// A Shared handle owns an object together with every other Shared handle
// derived from it. The handles share a control block holding a strong count
// (owners) and a weak count (observers). When the last owner releases, the
// object is destroyed: if it implements Dropper, its Drop method runs exactly
// once. Weak handles observe the object without keeping it alive and must be
// promoted with Lock before use.
//
// Go already has a garbage collector, so plain pointers are the idiomatic
// default for sharing memory. Use this package when an object holds a
// resource that must be released deterministically (a runtime, a file, a
// pooled buffer) and several independent parts of a program co-own it.
//
// # Architecture Overview
//
//	ownership/           Shared, Weak, Unique, EnableShared, Guarded
//	├── errors/          Structured error types
//	├── resource/        Integer handle table backed by shared owners
//	├── engine/          Shared wazero runtime closed by its last owner
//	├── stress/          Concurrency harness for handle usage patterns
//	└── cmd/ownership-demo/
//
// # Quick Start
//
//	s := ownership.New(&Conn{addr: "db:5432"})
//	defer s.Release()
//
//	other := s.Clone()          // use count 2
//	w := s.Weak()               // use count still 2
//	other.Release()             // use count 1
//
//	if p := w.Lock(); p.Valid() {
//	    p.Get().Ping()
//	    p.Release()
//	}
//
// # Breaking Cycles
//
// Two objects that own each other strongly are never destroyed. Make one
// direction weak:
//
//	type parent struct{ child ownership.Shared[child] }
//	type child struct{ parent ownership.Weak[parent] }
//
// # Handles To Self
//
// An object that needs a handle to itself embeds EnableShared. New enrolls
// it, and SharedFromThis then reuses the existing control block instead of
// creating an unrelated one:
//
//	type node struct {
//	    ownership.EnableShared[node]
//	}
//
//	n := ownership.New(&node{})
//	self, err := n.Get().SharedFromThis() // use count 2
//
// # Thread Safety
//
// Count updates are single atomic operations. Distinct handle values may be
// used from different goroutines freely, including handles that share one
// control block. A single handle value is NOT safe for concurrent mutation:
// Swap, Assign, Reset, Move and Release exchange two words non-atomically, so
// a concurrent reader can observe a torn pair. Goroutines should Clone a
// shared handle into a local one before using it (cloning a handle nobody is
// mutating is safe), or keep the shared handle in a Guarded.
package ownership
