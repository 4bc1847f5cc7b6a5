// Package engine shares one wazero WebAssembly runtime between owners.
//
// A wazero runtime is expensive to create and holds native code for every
// compiled module, so a program usually keeps a single one and hands it to
// several subsystems. New returns the runtime wrapped in an owning handle;
// each subsystem keeps its own clone and releases it when done. The last
// release closes every cached compiled module and the runtime itself.
//
//	eng := engine.New(ctx, &engine.Config{MemoryLimitPages: 256})
//	defer eng.Release()
//
//	worker := eng.Clone()
//	go func() {
//	    defer worker.Release()
//	    mod, err := worker.Get().Instantiate(ctx, "guest")
//	    ...
//	}()
//
// Code that must not extend the runtime's lifetime (caches, metrics) holds
// an ownership.Weak and promotes it per use.
//
// # Thread Safety
//
// Engine methods are safe for concurrent use by goroutines that each hold
// their own owner.
package engine
