// Package resource provides an integer handle table over shared owners.
//
// Handles let code that cannot hold Go pointers (wire protocols, guest
// modules, plugin boundaries) refer to host objects. The table owns one
// reference to each object; consumers either take their own owner with Get
// or a non-owning observer with Borrow.
//
// # Handle Table
//
//	table := resource.NewTable[File]()
//
//	// The table becomes a co-owner
//	h, err := table.Insert(&owner)
//
//	// Owning access: caller releases
//	f, ok := table.Get(h)
//	defer f.Release()
//
//	// Non-owning access: survives the object, must be promoted
//	w, ok := table.Borrow(h)
//	if p := w.Lock(); p.Valid() { ... }
//
//	// Release the table's ownership
//	destroyed, err := table.Drop(h)
//
// # Lifecycle
//
// Dropping a handle releases only the table's reference. The object is
// destroyed when its last owner, inside or outside the table, releases it;
// borrows observe that as expiry. Drop reports whether it was the last
// owner.
//
// # Observers
//
// Register observers to track resource lifecycle events:
//
//	table.Subscribe(myObserver)
//
//	func (o *myObserver) OnResourceEvent(e resource.Event) {
//	    switch e.Type {
//	    case resource.EventInserted:
//	        log.Printf("resource %d inserted", e.Handle)
//	    case resource.EventDestroyed:
//	        log.Printf("resource %d destroyed", e.Handle)
//	    }
//	}
//
// Call table.Close() to release all owners when the table is discarded.
package resource
