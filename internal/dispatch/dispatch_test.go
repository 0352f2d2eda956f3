package dispatch

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type syncBuffer struct {
	mu sync.Mutex
	bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.Buffer.Write(p)
}

func TestQueue_RunsAllTasks(t *testing.T) {
	q := NewQueue(2, slog.New(slog.DiscardHandler))

	var done atomic.Int32
	for i := 0; i < 10; i++ {
		q.Go(context.Background(), "count", func(context.Context) error {
			done.Add(1)
			return nil
		})
	}
	q.Wait()

	assert.Equal(t, int32(10), done.Load())
}

func TestQueue_RespectsLimit(t *testing.T) {
	q := NewQueue(2, slog.New(slog.DiscardHandler))

	var running, peak atomic.Int32
	for i := 0; i < 8; i++ {
		q.Go(context.Background(), "limited", func(context.Context) error {
			n := running.Add(1)
			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}
			time.Sleep(5 * time.Millisecond)
			running.Add(-1)
			return nil
		})
	}
	q.Wait()

	assert.LessOrEqual(t, peak.Load(), int32(2))
}

func TestQueue_LogsErrorsAndPanics(t *testing.T) {
	var buf syncBuffer
	q := NewQueue(0, slog.New(slog.NewJSONHandler(&buf, nil)))

	q.Go(context.Background(), "fetch_basket", func(context.Context) error {
		return errors.New("connection refused")
	})
	q.Go(context.Background(), "explode", func(context.Context) error {
		panic("boom")
	})
	q.Wait()

	out := buf.String()
	assert.Contains(t, out, `"task":"fetch_basket"`)
	assert.Contains(t, out, "connection refused")
	assert.Contains(t, out, "background task panicked")
}

func TestMainLoop_DrainRunsInOrder(t *testing.T) {
	m := NewMainLoop()
	var got []int

	m.Post(func() { got = append(got, 1) })
	m.Post(func() {
		got = append(got, 2)
		m.Post(func() { got = append(got, 4) })
	})
	m.Post(func() { got = append(got, 3) })

	assert.Equal(t, 4, m.Drain())
	assert.Equal(t, []int{1, 2, 3, 4}, got)
	assert.Equal(t, 0, m.Drain())
}

func TestMainLoop_RunExecutesPostsFromOtherGoroutines(t *testing.T) {
	m := NewMainLoop()
	ctx, cancel := context.WithCancel(context.Background())

	errCh := make(chan error, 1)
	go func() { errCh <- m.Run(ctx) }()

	var mu sync.Mutex
	var seen []string
	var wg sync.WaitGroup
	for _, name := range []string{"a", "b", "c"} {
		wg.Add(1)
		go func() {
			m.Post(func() {
				mu.Lock()
				seen = append(seen, name)
				mu.Unlock()
				wg.Done()
			})
		}()
	}
	wg.Wait()
	cancel()

	require.ErrorIs(t, <-errCh, context.Canceled)
	slices.Sort(seen)
	assert.Equal(t, []string{"a", "b", "c"}, seen)
}
