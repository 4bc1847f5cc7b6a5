package ownership

import "testing"

func TestUnique_Lifecycle(t *testing.T) {
	obj, drops := newTracked(1)
	u := NewUnique(obj)

	if !u.Valid() || u.Get() != obj {
		t.Fatal("Expected owned pointer")
	}
	if u.Value().value != 1 {
		t.Fatalf("Value = %d, want 1", u.Value().value)
	}

	// Release transfers ownership without destroying.
	u1 := NewUnique(u.Release())
	if u.Valid() {
		t.Fatal("Released unique should be empty")
	}
	if u1.Get() != obj || drops.Load() != 0 {
		t.Fatal("Ownership should transfer intact")
	}

	// Reset destroys the current object and adopts the new one.
	next, nextDrops := newTracked(2)
	u1.Reset(next)
	if drops.Load() != 1 {
		t.Fatalf("drops = %d, want 1", drops.Load())
	}
	u1.Reset(next)
	if nextDrops.Load() != 0 {
		t.Fatal("Reset to the same pointer should not destroy it")
	}

	u1.Reset(nil)
	if u1.Valid() || nextDrops.Load() != 1 {
		t.Fatalf("Reset(nil) drops = %d, want 1", nextDrops.Load())
	}

	var empty Unique[tracked]
	empty.Reset(nil)
}

func TestUnique_MoveAndShare(t *testing.T) {
	obj, drops := newTracked(5)
	u := NewUnique(obj)

	m := u.Move()
	if u.Valid() || m.Get() != obj {
		t.Fatal("Move should transfer ownership")
	}

	s := m.Share()
	if m.Valid() {
		t.Fatal("Share should empty the unique handle")
	}
	if s.UseCount() != 1 || s.Get() != obj {
		t.Fatalf("UseCount = %d, want 1", s.UseCount())
	}
	s.Release()
	if drops.Load() != 1 {
		t.Fatalf("drops = %d, want 1", drops.Load())
	}
}

func TestUnique_ValuePanicsOnEmpty(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("Expected panic")
		}
	}()
	var u Unique[int]
	_ = u.Value()
}
