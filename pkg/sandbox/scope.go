package sandbox

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/dop251/goja"
)

// ErrStopped is returned when an entry is used after Stop.
var ErrStopped = errors.New("track scope stopped")

// Scope is one evaluation of a track source: its runtime plus any callbacks
// the track scheduled. All access to the runtime is serialized by mu.
type Scope struct {
	vm      *goja.Runtime
	file    string
	logger  *slog.Logger
	started time.Time

	mu sync.Mutex // guards vm

	tmu     sync.Mutex // guards stopped and wg.Add
	stopped bool
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

func newScope(vm *goja.Runtime, file string, logger *slog.Logger) *Scope {
	ctx, cancel := context.WithCancel(context.Background())
	return &Scope{
		vm:      vm,
		file:    file,
		logger:  logger.With("file", file),
		started: time.Now(),
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Runtime returns the scope's runtime. Only use it from code that already runs
// inside the scope (dependency bindings and callbacks).
func (s *Scope) Runtime() *goja.Runtime {
	return s.vm
}

// File returns the source file the scope evaluated.
func (s *Scope) File() string {
	return s.file
}

// Logger returns the scope logger.
func (s *Scope) Logger() *slog.Logger {
	return s.logger
}

// Elapsed returns the time since the scope was created.
func (s *Scope) Elapsed() time.Duration {
	return time.Since(s.started)
}

// Schedule runs fn inside the scope after delay, unless the scope is stopped
// first. It reports whether the callback was scheduled.
func (s *Scope) Schedule(delay time.Duration, fn func()) bool {
	s.tmu.Lock()
	if s.stopped {
		s.tmu.Unlock()
		return false
	}
	s.wg.Add(1)
	s.tmu.Unlock()

	go func() {
		defer s.wg.Done()

		timer := time.NewTimer(delay)
		defer timer.Stop()
		select {
		case <-s.ctx.Done():
			return
		case <-timer.C:
		}

		s.mu.Lock()
		defer s.mu.Unlock()
		if s.ctx.Err() != nil {
			return
		}
		fn()
	}()
	return true
}

// Stop cancels pending callbacks, interrupts any running one and waits for
// them to exit. It is safe to call more than once.
func (s *Scope) Stop() {
	s.tmu.Lock()
	if s.stopped {
		s.tmu.Unlock()
		return
	}
	s.stopped = true
	s.cancel()
	s.tmu.Unlock()

	s.vm.Interrupt(ErrStopped)
	s.wg.Wait()
}

func (s *Scope) isStopped() bool {
	s.tmu.Lock()
	defer s.tmu.Unlock()
	return s.stopped
}
