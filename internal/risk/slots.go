// Package risk provides the admission-control primitives consulted
// before capital is committed: the shared position-slot pool, the
// budget-based position sizer, and the order-book quality gate.
package risk

import (
	"sync/atomic"

	"github.com/tathienbao/lifecycle-bot/internal/types"
)

// SlotPool bounds the number of concurrently open positions across all
// lifecycle instances. Safe for concurrent use; acquisition never
// blocks, a failed acquire simply defers entry to a later tick.
type SlotPool struct {
	capacity  int64
	available atomic.Int64
}

// NewSlotPool creates a pool with the given capacity.
func NewSlotPool(capacity int) *SlotPool {
	if capacity < 0 {
		capacity = 0
	}
	p := &SlotPool{capacity: int64(capacity)}
	p.available.Store(int64(capacity))
	return p
}

// TryAcquire takes a slot if one is available.
func (p *SlotPool) TryAcquire() bool {
	for {
		n := p.available.Load()
		if n <= 0 {
			return false
		}
		if p.available.CompareAndSwap(n, n-1) {
			return true
		}
	}
}

// Release returns a slot to the pool. Releasing more slots than were
// acquired is a bookkeeping bug and is rejected.
func (p *SlotPool) Release() error {
	for {
		n := p.available.Load()
		if n >= p.capacity {
			return types.ErrSlotOverRelease
		}
		if p.available.CompareAndSwap(n, n+1) {
			return nil
		}
	}
}

// Available returns the number of free slots.
func (p *SlotPool) Available() int {
	return int(p.available.Load())
}

// Capacity returns the configured maximum.
func (p *SlotPool) Capacity() int {
	return int(p.capacity)
}
