package ownership

import (
	stderrors "errors"
	"testing"

	"github.com/wippyai/ownership/errors"
)

type session struct {
	EnableShared[session]
	id    string
	drops int
}

func (s *session) Drop() {
	s.drops++
}

// observer mirrors a collaborator that keeps a weak link back to its owner.
type observer struct {
	owner Weak[session]
}

func (s *session) newObserver() (*observer, error) {
	self, err := s.SharedFromThis()
	if err != nil {
		return nil, err
	}
	defer self.Release()
	return &observer{owner: self.Weak()}, nil
}

func TestEnableShared_SharedFromThis(t *testing.T) {
	sess := &session{id: "a"}
	s := New(sess)

	self, err := sess.SharedFromThis()
	if err != nil {
		t.Fatalf("SharedFromThis failed: %v", err)
	}
	if !self.SameOwner(&s) {
		t.Fatal("SharedFromThis should reuse the existing control block")
	}
	if s.UseCount() != 2 {
		t.Fatalf("UseCount = %d, want 2", s.UseCount())
	}
	self.Release()

	obs, err := sess.newObserver()
	if err != nil {
		t.Fatalf("newObserver failed: %v", err)
	}
	if s.UseCount() != 1 {
		t.Fatalf("UseCount = %d, want 1", s.UseCount())
	}

	s.Release()
	if sess.drops != 1 {
		t.Fatalf("drops = %d, want 1", sess.drops)
	}
	if !obs.owner.Expired() {
		t.Fatal("Observer should see its owner expire")
	}
	cb := obs.owner.cb
	obs.owner.Reset()
	if cb.state() != StateDestroyed {
		t.Fatalf("State = %v, want destroyed once the self reference is gone", cb.state())
	}
}

func TestEnableShared_NotEnrolled(t *testing.T) {
	sess := &session{id: "loose"}

	_, err := sess.SharedFromThis()
	if err == nil {
		t.Fatal("Expected error for object never owned")
	}
	if !stderrors.Is(err, &errors.Error{Phase: errors.PhaseEnroll, Kind: errors.KindNotEnrolled}) {
		t.Fatalf("unexpected error: %v", err)
	}

	if w := sess.WeakFromThis(); !w.Expired() {
		t.Fatal("WeakFromThis on unowned object should be empty")
	}
}

func TestEnableShared_ExpiredDuringDrop(t *testing.T) {
	var dropErr error
	sess := &expiring{}
	sess.onDrop = func() {
		_, dropErr = sess.SharedFromThis()
	}

	s := New(sess)
	s.Release()

	if !stderrors.Is(dropErr, &errors.Error{Phase: errors.PhasePromote, Kind: errors.KindExpired}) {
		t.Fatalf("SharedFromThis in Drop = %v, want expired", dropErr)
	}
}

type expiring struct {
	EnableShared[expiring]
	onDrop func()
}

func (e *expiring) Drop() {
	e.onDrop()
}

func TestEnableShared_SecondWrapKeepsFirstBlock(t *testing.T) {
	sess := &session{id: "twice"}
	first := New(sess)
	second := New(sess) // caller defect: two blocks over one pointer

	self, err := sess.SharedFromThis()
	if err != nil {
		t.Fatalf("SharedFromThis failed: %v", err)
	}
	if !self.SameOwner(&first) {
		t.Fatal("Enrollment should stay with the first control block")
	}
	if self.SameOwner(&second) {
		t.Fatal("Second control block should not be enrolled")
	}
	self.Release()
	second.Release()
	first.Release()
}

func TestEnableShared_WeakFromThis(t *testing.T) {
	sess := &session{id: "w"}
	s := New(sess)

	w := sess.WeakFromThis()
	if w.Expired() || !w.Observes(&s) {
		t.Fatal("WeakFromThis should observe the owning block")
	}
	// The enrollment itself is one observer.
	if s.WeakCount() != 2 {
		t.Fatalf("WeakCount = %d, want 2", s.WeakCount())
	}

	s.Release()
	if !w.Expired() {
		t.Fatal("Expected expiry")
	}
	w.Reset()
}

func TestEnableShared_CopiedValue(t *testing.T) {
	orig := New(&session{id: "orig"})
	defer orig.Release()

	dup := Make(*orig.Get())
	if orig.WeakCount() != 1 {
		t.Fatalf("original WeakCount = %d, want 1", orig.WeakCount())
	}

	self, err := dup.Get().SharedFromThis()
	if err != nil {
		t.Fatalf("SharedFromThis on copy failed: %v", err)
	}
	if !self.SameOwner(&dup) || self.SameOwner(&orig) {
		t.Fatal("Copy should enroll with its own control block")
	}
	self.Release()

	if !dup.Release() {
		t.Fatal("Copy should be destroyed by its only owner")
	}
	if orig.UseCount() != 1 || orig.WeakCount() != 1 {
		t.Fatalf("original counts changed: use %d, weak %d", orig.UseCount(), orig.WeakCount())
	}
}
