// Package stress exercises shared handles from many goroutines.
//
// Two scenarios run the same work, swapping a fresh substitute payload in
// and back out, then reading the value:
//
//	RunCopying         each goroutine first clones the shared owner into a
//	                   local handle and swaps on its local copy. Always
//	                   reads the expected value.
//
//	RunSharedMutation  each goroutine swaps directly on one shared instance.
//	                   Every single swap is locked, yet the two-step
//	                   sequence interleaves with other goroutines, so
//	                   readers observe a substitute, and the shared owner
//	                   can end up permanently holding one.
//
// The second scenario is the documented unsafe pattern. Its anomalies are
// expected output, not failures: mutating a shared handle needs exclusive
// access for the whole sequence, or a local copy.
package stress
