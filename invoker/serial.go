package invoker

import (
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/veloq/script-bridge/errors"
)

// SerialInvoker executes scheduled work on a single owning goroutine,
// standing in for the thread that exclusively owns a runtime instance.
//
// Schedule never blocks and never runs work inline; work runs in FIFO order.
// Close tears the invoker down: every unit accepted by Schedule either
// completes before Close returns or is dropped, counted, and reported —
// never executed after Close. The owning goroutine dequeues work in batches,
// so units already dequeued alongside the currently executing one count as
// started and run to completion; only work still queued is dropped.
type SerialInvoker struct {
	name string
	log  *zap.Logger

	mu     sync.Mutex
	queue  []func()
	closed bool

	wake    chan struct{}
	done    chan struct{}
	stopped chan struct{}

	dropped atomic.Uint64
}

// NewSerial creates a SerialInvoker and starts its owning goroutine.
// name identifies the invoker in logs, typically the runtime ID.
func NewSerial(name string, opts ...Option) *SerialInvoker {
	s := &SerialInvoker{
		name:    name,
		log:     Logger(),
		wake:    make(chan struct{}, 1),
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	go s.run()
	return s
}

// Option configures a SerialInvoker.
type Option func(*SerialInvoker)

// WithLogger overrides the package logger for this invoker.
func WithLogger(log *zap.Logger) Option {
	return func(s *SerialInvoker) {
		if log != nil {
			s.log = log
		}
	}
}

// Schedule enqueues work onto the owning goroutine. It returns immediately;
// work never runs on the calling goroutine. After Close, Schedule returns a
// closed error and work is not enqueued.
func (s *SerialInvoker) Schedule(work func()) error {
	if work == nil {
		return errors.InvalidInput(errors.PhaseSchedule, "work cannot be nil")
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return errors.Closed(errors.PhaseSchedule, "invoker")
	}
	s.queue = append(s.queue, work)
	s.mu.Unlock()

	select {
	case s.wake <- struct{}{}:
	default:
	}
	return nil
}

// Close stops the invoker. Work accepted by Schedule either completes
// before Close returns or is dropped, counted, and reported at Warn level;
// nothing runs after Close returns. Units the owning goroutine has already
// dequeued into its current batch count as started and finish; work still
// queued is dropped. Close waits for the goroutine to exit, so no bridged
// call path survives the return. Close is idempotent.
func (s *SerialInvoker) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		<-s.stopped
		return
	}
	s.closed = true
	s.mu.Unlock()

	close(s.done)
	<-s.stopped
}

// Dropped returns the number of work units discarded at Close.
func (s *SerialInvoker) Dropped() uint64 {
	return s.dropped.Load()
}

// Pending returns the number of work units queued but not yet started.
func (s *SerialInvoker) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.queue)
}

func (s *SerialInvoker) run() {
	defer close(s.stopped)

	for {
		// done wins over pending wake signals so that work queued at
		// Close time is dropped, not executed late.
		select {
		case <-s.done:
			s.drop()
			return
		default:
		}

		select {
		case <-s.wake:
			for _, work := range s.take() {
				work()
			}
		case <-s.done:
			s.drop()
			return
		}
	}
}

func (s *SerialInvoker) drop() {
	if n := len(s.take()); n > 0 {
		s.dropped.Add(uint64(n))
		s.log.Warn("invoker closed with pending work, dropping",
			zap.String("invoker", s.name),
			zap.Int("dropped", n))
	}
}

// take swaps out the current queue under the lock.
func (s *SerialInvoker) take() []func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	batch := s.queue
	s.queue = nil
	return batch
}
