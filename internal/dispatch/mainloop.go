package dispatch

import (
	"context"
	"sync"
)

// MainLoop is a serial executor. Closures posted from any goroutine run one
// at a time in posting order, either on the goroutine calling Run or on the
// caller of Drain.
type MainLoop struct {
	mu      sync.Mutex
	pending []func()
	wake    chan struct{}

	run sync.Mutex
}

// NewMainLoop returns an idle loop.
func NewMainLoop() *MainLoop {
	return &MainLoop{wake: make(chan struct{}, 1)}
}

// Post enqueues fn. It never blocks.
func (m *MainLoop) Post(fn func()) {
	m.mu.Lock()
	m.pending = append(m.pending, fn)
	m.mu.Unlock()

	select {
	case m.wake <- struct{}{}:
	default:
	}
}

// Run executes posted closures until ctx is done, then returns ctx.Err().
func (m *MainLoop) Run(ctx context.Context) error {
	for {
		m.Drain()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-m.wake:
		}
	}
}

// Drain executes everything posted so far, including closures posted by the
// closures it runs, and returns how many ran.
func (m *MainLoop) Drain() int {
	m.run.Lock()
	defer m.run.Unlock()

	n := 0
	for {
		m.mu.Lock()
		batch := m.pending
		m.pending = nil
		m.mu.Unlock()

		if len(batch) == 0 {
			return n
		}
		for _, fn := range batch {
			fn()
			n++
		}
	}
}
