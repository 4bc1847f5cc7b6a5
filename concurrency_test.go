package ownership

import (
	"sync"
	"testing"
)

// Goroutines copy a shared owner into local handles and work only on their
// copies. The shared handle itself is never mutated, so no lock is needed
// and every read sees the original value.
func TestShared_LocalCopiesAcrossGoroutines(t *testing.T) {
	goroutines, iterations := 10, 100000
	if testing.Short() {
		iterations = 1000
	}

	obj, drops := newTracked(2000)
	global := New(obj)

	var wg sync.WaitGroup
	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < iterations; i++ {
				p1 := global.Clone()
				sub, _ := newTracked(1000)
				p2 := New(sub)
				p1.Swap(&p2)
				p2.Swap(&p1)

				if v := p1.Get().value; v != 2000 {
					t.Errorf("goroutine %d iteration %d: value %d, want 2000", g, i, v)
					p1.Release()
					p2.Release()
					return
				}
				p2.Release()
				p1.Release()
			}
		}()
	}
	wg.Wait()

	if global.UseCount() != 1 {
		t.Fatalf("UseCount = %d, want 1", global.UseCount())
	}
	if drops.Load() != 0 {
		t.Fatal("Global object destroyed while still owned")
	}
	global.Release()
	if drops.Load() != 1 {
		t.Fatalf("drops = %d, want 1", drops.Load())
	}
}

// Owners on one control block released from many goroutines at once
// destroy the object exactly once.
func TestShared_ConcurrentRelease(t *testing.T) {
	rounds := 500
	if testing.Short() {
		rounds = 50
	}

	for round := 0; round < rounds; round++ {
		obj, drops := newTracked(round)
		s := New(obj)
		owners := make([]Shared[tracked], 16)
		for i := range owners {
			owners[i] = s.Clone()
		}
		s.Release()

		var wg sync.WaitGroup
		var destroyed sync.Map
		for i := range owners {
			wg.Add(1)
			go func(h *Shared[tracked], i int) {
				defer wg.Done()
				if h.Release() {
					destroyed.Store(i, true)
				}
			}(&owners[i], i)
		}
		wg.Wait()

		n := 0
		destroyed.Range(func(_, _ any) bool {
			n++
			return true
		})
		if n != 1 || drops.Load() != 1 {
			t.Fatalf("round %d: destroying releases = %d, drops = %d, want 1/1", round, n, drops.Load())
		}
	}
}
