// Package signal provides the intake path for trading signals. The
// lifecycle manager does not generate signals itself; it consumes
// decisions made elsewhere and manages the resulting orders.
package signal

import (
	"context"
	"sync"

	"github.com/tathienbao/lifecycle-bot/internal/types"
)

// Source delivers pending signals to the scheduler. Poll drains
// whatever has arrived since the last call and never blocks.
type Source interface {
	Poll(ctx context.Context) []types.Signal
}

// Queue is an in-memory signal buffer. Producers push from any
// goroutine; the scheduler drains it once per tick.
type Queue struct {
	mu      sync.Mutex
	pending []types.Signal
}

// NewQueue creates an empty queue.
func NewQueue() *Queue {
	return &Queue{}
}

// Push appends a signal to the buffer.
func (q *Queue) Push(sig types.Signal) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.pending = append(q.pending, sig)
}

// Poll returns and clears all buffered signals.
func (q *Queue) Poll(context.Context) []types.Signal {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := q.pending
	q.pending = nil
	return out
}

// Len returns the number of buffered signals.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// Static is a fixed signal list delivered once. Used for backfill and
// in tests.
type Static struct {
	once    sync.Once
	signals []types.Signal
}

// NewStatic creates a source that delivers the given signals on the
// first poll and nothing afterwards.
func NewStatic(signals ...types.Signal) *Static {
	return &Static{signals: signals}
}

// Poll returns the signal list exactly once.
func (s *Static) Poll(context.Context) []types.Signal {
	var out []types.Signal
	s.once.Do(func() { out = s.signals })
	return out
}
