package lifecycle

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
)

var (
	// ErrDraining is returned by Go once draining has started.
	ErrDraining = errors.New("shutting down: no new actions accepted")

	errDrainTimeout = errors.New("timeout waiting for in-flight actions to finish")
)

// DrainManager tracks draining state and in-flight user actions.
//
// Waiters block on idle, which is closed whenever the active count drops to
// zero and replaced when the next action starts. Actions may start while a
// Wait is in progress.
type DrainManager struct {
	mu       sync.Mutex
	draining atomic.Bool
	active   int64
	idle     chan struct{}
}

func NewDrainManager() *DrainManager {
	idle := make(chan struct{})
	close(idle)
	return &DrainManager{idle: idle}
}

func (m *DrainManager) StartDraining() {
	m.mu.Lock()
	m.draining.Store(true)
	m.mu.Unlock()
}

func (m *DrainManager) IsDraining() bool {
	return m.draining.Load()
}

// Active returns the number of tracked actions still running.
func (m *DrainManager) Active() int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.active
}

// acquireLocked counts a new action. m.mu must be held.
func (m *DrainManager) acquireLocked() {
	if m.active == 0 {
		m.idle = make(chan struct{})
	}
	m.active++
}

func (m *DrainManager) release() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.active--
	if m.active == 0 {
		close(m.idle)
	}
}

// Track registers an action and returns a release callback. Releasing more
// than once is a no-op.
func (m *DrainManager) Track() func() {
	m.mu.Lock()
	m.acquireLocked()
	m.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(m.release)
	}
}

// Go runs fn in its own goroutine and tracks it until it returns.
func (m *DrainManager) Go(fn func()) error {
	m.mu.Lock()
	if m.draining.Load() {
		m.mu.Unlock()
		return ErrDraining
	}
	m.acquireLocked()
	m.mu.Unlock()

	go func() {
		defer m.release()
		fn()
	}()
	return nil
}

// Wait blocks until no tracked action is running or ctx is done.
func (m *DrainManager) Wait(ctx context.Context) error {
	for {
		m.mu.Lock()
		if m.active == 0 {
			m.mu.Unlock()
			return nil
		}
		idle := m.idle
		m.mu.Unlock()

		select {
		case <-ctx.Done():
			return errDrainTimeout
		case <-idle:
			// An action may have started right after idle closed.
		}
	}
}
