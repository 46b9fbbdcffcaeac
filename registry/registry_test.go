package registry

import (
	"fmt"
	"sync"
	"testing"

	scriptbridge "github.com/veloq/script-bridge"
)

type fakeHandle struct {
	id string
}

func (h *fakeHandle) RuntimeID() string { return h.id }

func TestRegisterUnregister(t *testing.T) {
	reg := New()
	h := &fakeHandle{id: "rt-1"}

	if reg.IsRegistered(h) {
		t.Error("fresh handle should not be registered")
	}

	if !reg.Register(h) {
		t.Fatal("first Register should succeed")
	}
	if !reg.IsRegistered(h) {
		t.Error("handle should be registered after Register")
	}
	if reg.Len() != 1 {
		t.Errorf("Len = %d, want 1", reg.Len())
	}

	// Second registration is rejected without mutation
	if reg.Register(h) {
		t.Error("second Register should fail")
	}
	if reg.Len() != 1 {
		t.Errorf("Len after double Register = %d, want 1", reg.Len())
	}

	if !reg.Unregister(h) {
		t.Fatal("Unregister should succeed")
	}
	if reg.IsRegistered(h) {
		t.Error("handle should not be registered after Unregister")
	}
	if reg.Unregister(h) {
		t.Error("second Unregister should fail")
	}
	if reg.Len() != 0 {
		t.Errorf("Len = %d, want 0", reg.Len())
	}
}

func TestRegisterCycleReusable(t *testing.T) {
	reg := New()
	h := &fakeHandle{id: "rt-1"}

	for i := 0; i < 3; i++ {
		if !reg.Register(h) {
			t.Fatalf("cycle %d: Register failed", i)
		}
		if !reg.Unregister(h) {
			t.Fatalf("cycle %d: Unregister failed", i)
		}
	}
}

func TestIdentityNotValueEquality(t *testing.T) {
	reg := New()
	a := &fakeHandle{id: "same"}
	b := &fakeHandle{id: "same"}

	if !reg.Register(a) {
		t.Fatal("Register(a) failed")
	}
	// b is a distinct instance; same ID string must not collide
	if !reg.Register(b) {
		t.Fatal("Register(b) should succeed: identity is the handle, not the ID")
	}
	if reg.Len() != 2 {
		t.Errorf("Len = %d, want 2", reg.Len())
	}
}

func TestLookup(t *testing.T) {
	reg := New()
	h := &fakeHandle{id: "rt-9"}

	if rec := reg.Lookup(h); rec != nil {
		t.Errorf("Lookup before Register = %v, want nil", rec)
	}

	reg.Register(h)
	rec := reg.Lookup(h)
	if rec == nil {
		t.Fatal("Lookup after Register returned nil")
	}
	if rec.RuntimeID != "rt-9" {
		t.Errorf("RuntimeID = %q, want %q", rec.RuntimeID, "rt-9")
	}
	if rec.InstalledAt.IsZero() {
		t.Error("InstalledAt not set")
	}
}

func TestBeginCommitLifecycle(t *testing.T) {
	reg := New()
	h := &fakeHandle{id: "rt-1"}

	if !reg.Begin(h) {
		t.Fatal("Begin should succeed on a fresh handle")
	}

	// A pending claim blocks rivals but is invisible to readers and to
	// Unregister.
	if reg.Begin(h) {
		t.Error("second Begin should fail while claim is pending")
	}
	if reg.Register(h) {
		t.Error("Register should fail while claim is pending")
	}
	if reg.IsRegistered(h) {
		t.Error("pending claim must not be visible as registered")
	}
	if reg.Lookup(h) != nil {
		t.Error("pending claim must not be visible to Lookup")
	}
	if reg.Unregister(h) {
		t.Error("Unregister must not remove a pending claim")
	}
	if reg.Len() != 1 {
		t.Errorf("Len = %d, want 1 (claim counts)", reg.Len())
	}

	if !reg.Commit(h) {
		t.Fatal("Commit should succeed on a pending claim")
	}
	if !reg.IsRegistered(h) {
		t.Error("committed claim should be registered")
	}
	if reg.Commit(h) {
		t.Error("second Commit should fail")
	}

	if !reg.Unregister(h) {
		t.Fatal("Unregister should remove the committed record")
	}
	if reg.Len() != 0 {
		t.Errorf("Len = %d, want 0", reg.Len())
	}
}

func TestBeginAbort(t *testing.T) {
	reg := New()
	h := &fakeHandle{id: "rt-1"}

	if !reg.Begin(h) {
		t.Fatal("Begin failed")
	}
	if !reg.Abort(h) {
		t.Fatal("Abort should release a pending claim")
	}
	if reg.IsRegistered(h) || reg.Len() != 0 {
		t.Error("aborted claim left state behind")
	}

	// The handle is immediately reusable.
	if !reg.Begin(h) {
		t.Error("Begin after Abort failed")
	}
	if !reg.Commit(h) {
		t.Error("Commit after re-Begin failed")
	}

	// Abort never touches committed records.
	if reg.Abort(h) {
		t.Error("Abort should fail on a committed record")
	}
	if !reg.IsRegistered(h) {
		t.Error("Abort removed a committed record")
	}

	// And both resolve calls fail with no claim at all.
	if reg.Commit(&fakeHandle{id: "rt-2"}) {
		t.Error("Commit should fail with no claim")
	}
	if reg.Abort(&fakeHandle{id: "rt-2"}) {
		t.Error("Abort should fail with no claim")
	}
}

type sliceHandle struct {
	ids []string
}

func (h sliceHandle) RuntimeID() string { return "slice" }

func TestNonComparableHandle(t *testing.T) {
	reg := New()
	h := sliceHandle{ids: []string{"a"}}

	// Non-comparable handle types cannot key the record map; every
	// operation must refuse them instead of panicking.
	if reg.Register(h) {
		t.Error("Register should refuse a non-comparable handle")
	}
	if reg.Begin(h) {
		t.Error("Begin should refuse a non-comparable handle")
	}
	if reg.IsRegistered(h) {
		t.Error("IsRegistered should be false for a non-comparable handle")
	}
	if reg.Unregister(h) {
		t.Error("Unregister should refuse a non-comparable handle")
	}
	if reg.Lookup(h) != nil {
		t.Error("Lookup should return nil for a non-comparable handle")
	}
	if reg.Len() != 0 {
		t.Errorf("Len = %d, want 0", reg.Len())
	}
}

func TestNilHandle(t *testing.T) {
	reg := New()

	if reg.Register(nil) {
		t.Error("Register(nil) should fail")
	}
	if reg.IsRegistered(nil) {
		t.Error("IsRegistered(nil) should be false")
	}
	if reg.Unregister(nil) {
		t.Error("Unregister(nil) should fail")
	}
}

func TestConcurrentRegisterSameHandle(t *testing.T) {
	reg := New()
	h := &fakeHandle{id: "rt-1"}

	const goroutines = 32
	var wg sync.WaitGroup
	wins := make(chan bool, goroutines)

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			wins <- reg.Register(h)
		}()
	}
	wg.Wait()
	close(wins)

	winners := 0
	for won := range wins {
		if won {
			winners++
		}
	}
	if winners != 1 {
		t.Errorf("exactly one Register should win, got %d", winners)
	}
	if reg.Len() != 1 {
		t.Errorf("Len = %d, want 1", reg.Len())
	}
}

func TestConcurrentDistinctHandles(t *testing.T) {
	reg := New()

	const handles = 64
	var wg sync.WaitGroup
	for i := 0; i < handles; i++ {
		h := &fakeHandle{id: fmt.Sprintf("rt-%d", i)}
		wg.Add(1)
		go func() {
			defer wg.Done()
			if !reg.Register(h) {
				t.Errorf("Register(%s) failed", h.id)
			}
			if !reg.IsRegistered(h) {
				t.Errorf("IsRegistered(%s) = false", h.id)
			}
			if !reg.Unregister(h) {
				t.Errorf("Unregister(%s) failed", h.id)
			}
		}()
	}
	wg.Wait()

	if reg.Len() != 0 {
		t.Errorf("Len = %d, want 0", reg.Len())
	}
}

func TestConcurrentRegisterUnregisterRace(t *testing.T) {
	reg := New()
	h := &fakeHandle{id: "rt-1"}

	// Interleave register/unregister pairs; the registry must never hold
	// more than one record and must end consistent.
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				if reg.Register(h) {
					if n := reg.Len(); n < 0 || n > 1 {
						t.Errorf("Len = %d mid-race", n)
					}
					reg.Unregister(h)
				}
			}
		}()
	}
	wg.Wait()

	if reg.IsRegistered(h) {
		t.Error("handle still registered after all pairs completed")
	}
	if reg.Len() != 0 {
		t.Errorf("Len = %d, want 0", reg.Len())
	}
}

func TestRange(t *testing.T) {
	reg := New()
	for i := 0; i < 5; i++ {
		reg.Register(&fakeHandle{id: fmt.Sprintf("rt-%d", i)})
	}

	seen := 0
	reg.Range(func(_ scriptbridge.RuntimeHandle, rec *Record) bool {
		seen++
		return true
	})
	if seen != 5 {
		t.Errorf("Range visited %d records, want 5", seen)
	}
}
