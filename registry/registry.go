package registry

import (
	"reflect"
	"sync"
	"sync/atomic"
	"time"

	scriptbridge "github.com/veloq/script-bridge"
)

// Record marks one runtime handle as currently extended. Its existence in
// the registry is the sole authority for "installed".
type Record struct {
	RuntimeID   string
	InstalledAt time.Time
}

// Claim lifecycle. A claim starts pending, becomes installed on Commit, and
// is removed exactly once: Abort removes a pending claim, Unregister an
// installed one.
const (
	statePending int32 = iota
	stateInstalled
	stateRemoved
)

type entry struct {
	rec   *Record
	state atomic.Int32
}

// HandleRegistry tracks which runtime handles currently have an active
// installation. At most one record exists per handle at any time.
//
// Records are keyed on the handle value itself, so handle identity is
// reference identity, never derived state. Operations on distinct handles
// never block each other; racing operations on the same handle resolve to
// exactly one winner.
//
// Registrations come in two forms. Register claims and commits in one step.
// Begin/Commit/Abort split the claim for callers that must do fallible work
// between claiming a handle and declaring it installed: a pending claim
// keeps rival Begin/Register calls out, but Unregister, IsRegistered and
// Lookup do not see it until Commit, so nothing can tear down work that is
// still in flight.
type HandleRegistry struct {
	records sync.Map // scriptbridge.RuntimeHandle -> *entry
	count   atomic.Int64
}

func New() *HandleRegistry {
	return &HandleRegistry{}
}

// Begin claims h for an installation that is still in flight. It returns
// true iff no claim or record existed. The claim must be resolved with
// Commit or Abort.
func (r *HandleRegistry) Begin(h scriptbridge.RuntimeHandle) bool {
	if !usableKey(h) {
		return false
	}
	e := &entry{rec: &Record{
		RuntimeID:   h.RuntimeID(),
		InstalledAt: time.Now(),
	}}
	if _, loaded := r.records.LoadOrStore(h, e); loaded {
		return false
	}
	r.count.Add(1)
	return true
}

// Commit turns a pending claim on h into an installed record. It returns
// false if h has no pending claim.
func (r *HandleRegistry) Commit(h scriptbridge.RuntimeHandle) bool {
	if !usableKey(h) {
		return false
	}
	v, ok := r.records.Load(h)
	if !ok {
		return false
	}
	return v.(*entry).state.CompareAndSwap(statePending, stateInstalled)
}

// Abort releases a pending claim on h without installing it. It returns
// false if h has no pending claim; committed records are untouched.
func (r *HandleRegistry) Abort(h scriptbridge.RuntimeHandle) bool {
	if !usableKey(h) {
		return false
	}
	v, ok := r.records.Load(h)
	if !ok {
		return false
	}
	e := v.(*entry)
	if !e.state.CompareAndSwap(statePending, stateRemoved) {
		return false
	}
	r.records.Delete(h)
	r.count.Add(-1)
	return true
}

// Register creates a record for h and returns true iff no record exists.
// On false the registry is unchanged.
func (r *HandleRegistry) Register(h scriptbridge.RuntimeHandle) bool {
	if !r.Begin(h) {
		return false
	}
	r.Commit(h)
	return true
}

// Unregister removes the record for h and returns true iff a committed one
// existed. Pending claims are invisible here; on false the registry is
// unchanged.
func (r *HandleRegistry) Unregister(h scriptbridge.RuntimeHandle) bool {
	if !usableKey(h) {
		return false
	}
	v, ok := r.records.Load(h)
	if !ok {
		return false
	}
	e := v.(*entry)
	if !e.state.CompareAndSwap(stateInstalled, stateRemoved) {
		return false
	}
	r.records.Delete(h)
	r.count.Add(-1)
	return true
}

// IsRegistered reports whether h currently has a committed record.
// Pure lookup, no side effects.
func (r *HandleRegistry) IsRegistered(h scriptbridge.RuntimeHandle) bool {
	if !usableKey(h) {
		return false
	}
	v, ok := r.records.Load(h)
	return ok && v.(*entry).state.Load() == stateInstalled
}

// Lookup returns the committed record for h, or nil if none exists.
func (r *HandleRegistry) Lookup(h scriptbridge.RuntimeHandle) *Record {
	if !usableKey(h) {
		return nil
	}
	v, ok := r.records.Load(h)
	if !ok {
		return nil
	}
	e := v.(*entry)
	if e.state.Load() != stateInstalled {
		return nil
	}
	return e.rec
}

// Len returns the number of active records, counting claims still in flight.
func (r *HandleRegistry) Len() int {
	return int(r.count.Load())
}

// Range calls fn for each committed record until fn returns false. The
// snapshot is not atomic with respect to concurrent Register/Unregister.
func (r *HandleRegistry) Range(fn func(h scriptbridge.RuntimeHandle, rec *Record) bool) {
	r.records.Range(func(k, v any) bool {
		e := v.(*entry)
		if e.state.Load() != stateInstalled {
			return true
		}
		return fn(k.(scriptbridge.RuntimeHandle), e.rec)
	})
}

// usableKey reports whether h can key the record map. Handles of
// non-comparable types would panic inside sync.Map, so they are rejected up
// front instead.
func usableKey(h scriptbridge.RuntimeHandle) bool {
	if h == nil {
		return false
	}
	return reflect.TypeOf(h).Comparable()
}
