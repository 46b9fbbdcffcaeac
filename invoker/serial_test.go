package invoker

import (
	"errors"
	"sync"
	"testing"
	"time"

	bridgeerrors "github.com/veloq/script-bridge/errors"
)

func TestSchedule_RunsWork(t *testing.T) {
	inv := NewSerial("rt-test")
	defer inv.Close()

	done := make(chan struct{})
	if err := inv.Schedule(func() { close(done) }); err != nil {
		t.Fatalf("Schedule error: %v", err)
	}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("scheduled work did not run")
	}
}

func TestSchedule_FIFOOrder(t *testing.T) {
	inv := NewSerial("rt-test")

	const n = 100
	var mu sync.Mutex
	var order []int
	var wg sync.WaitGroup
	wg.Add(n)

	for i := 0; i < n; i++ {
		i := i
		if err := inv.Schedule(func() {
			mu.Lock()
			order = append(order, i)
			mu.Unlock()
			wg.Done()
		}); err != nil {
			t.Fatalf("Schedule(%d) error: %v", i, err)
		}
	}
	wg.Wait()
	inv.Close()

	for i, got := range order {
		if got != i {
			t.Fatalf("order[%d] = %d, want %d", i, got, i)
		}
	}
}

func TestSchedule_NeverInline(t *testing.T) {
	inv := NewSerial("rt-test")
	defer inv.Close()

	var ran bool
	block := make(chan struct{})
	finished := make(chan struct{})
	if err := inv.Schedule(func() {
		<-block
		close(finished)
	}); err != nil {
		t.Fatalf("Schedule error: %v", err)
	}
	if err := inv.Schedule(func() { ran = true }); err != nil {
		t.Fatalf("Schedule error: %v", err)
	}

	// Both Schedule calls returned while the first unit is still blocked,
	// so nothing ran inline on this goroutine.
	if ran {
		t.Fatal("work ran synchronously in Schedule")
	}
	close(block)
	<-finished
}

func TestSchedule_NilWork(t *testing.T) {
	inv := NewSerial("rt-test")
	defer inv.Close()

	err := inv.Schedule(nil)
	if err == nil {
		t.Fatal("expected error for nil work")
	}
	want := &bridgeerrors.Error{Phase: bridgeerrors.PhaseSchedule, Kind: bridgeerrors.KindInvalidInput}
	if !errors.Is(err, want) {
		t.Errorf("error = %v, want invalid_input in schedule phase", err)
	}
}

func TestClose_DropsAndReportsPending(t *testing.T) {
	inv := NewSerial("rt-test")

	block := make(chan struct{})
	started := make(chan struct{})
	if err := inv.Schedule(func() {
		close(started)
		<-block
	}); err != nil {
		t.Fatalf("Schedule error: %v", err)
	}
	<-started

	// These are queued behind the blocked unit and must be dropped.
	var executed bool
	for i := 0; i < 3; i++ {
		if err := inv.Schedule(func() { executed = true }); err != nil {
			t.Fatalf("Schedule error: %v", err)
		}
	}

	closed := make(chan struct{})
	go func() {
		inv.Close()
		close(closed)
	}()

	// Close waits for the in-flight unit.
	select {
	case <-closed:
		t.Fatal("Close returned while work was still executing")
	case <-time.After(50 * time.Millisecond):
	}

	close(block)
	select {
	case <-closed:
	case <-time.After(2 * time.Second):
		t.Fatal("Close did not return")
	}

	if executed {
		t.Error("dropped work was executed")
	}
	if got := inv.Dropped(); got != 3 {
		t.Errorf("Dropped = %d, want 3", got)
	}
}

func TestSchedule_AfterClose(t *testing.T) {
	inv := NewSerial("rt-test")
	inv.Close()

	err := inv.Schedule(func() {})
	if err == nil {
		t.Fatal("expected error after Close")
	}
	want := &bridgeerrors.Error{Phase: bridgeerrors.PhaseSchedule, Kind: bridgeerrors.KindClosed}
	if !errors.Is(err, want) {
		t.Errorf("error = %v, want closed in schedule phase", err)
	}
}

func TestClose_Idempotent(t *testing.T) {
	inv := NewSerial("rt-test")
	inv.Close()
	inv.Close() // must not panic or hang
}

func TestPending(t *testing.T) {
	inv := NewSerial("rt-test")

	block := make(chan struct{})
	started := make(chan struct{})
	inv.Schedule(func() {
		close(started)
		<-block
	})
	<-started

	inv.Schedule(func() {})
	inv.Schedule(func() {})
	if got := inv.Pending(); got != 2 {
		t.Errorf("Pending = %d, want 2", got)
	}

	close(block)
	inv.Close()
}

func TestIndependentInvokers(t *testing.T) {
	a := NewSerial("rt-a")
	b := NewSerial("rt-b")
	defer a.Close()
	defer b.Close()

	// Work blocked on a must not delay b.
	block := make(chan struct{})
	a.Schedule(func() { <-block })

	done := make(chan struct{})
	if err := b.Schedule(func() { close(done) }); err != nil {
		t.Fatalf("Schedule error: %v", err)
	}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("invoker b was blocked by invoker a")
	}
	close(block)
}
