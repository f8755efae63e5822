package risk

import (
	"errors"
	"sync"
	"testing"

	"github.com/tathienbao/lifecycle-bot/internal/types"
)

func TestSlotPool_AcquireRelease(t *testing.T) {
	pool := NewSlotPool(2)

	if !pool.TryAcquire() {
		t.Fatal("first acquire should succeed")
	}
	if !pool.TryAcquire() {
		t.Fatal("second acquire should succeed")
	}
	if pool.TryAcquire() {
		t.Error("third acquire should fail at capacity 2")
	}
	if pool.Available() != 0 {
		t.Errorf("Available() = %d, want 0", pool.Available())
	}

	if err := pool.Release(); err != nil {
		t.Fatalf("release failed: %v", err)
	}
	if !pool.TryAcquire() {
		t.Error("acquire after release should succeed")
	}
}

func TestSlotPool_OverRelease(t *testing.T) {
	pool := NewSlotPool(1)

	err := pool.Release()
	if !errors.Is(err, types.ErrSlotOverRelease) {
		t.Errorf("Release() on full pool = %v, want ErrSlotOverRelease", err)
	}
}

func TestSlotPool_ZeroCapacity(t *testing.T) {
	pool := NewSlotPool(0)

	if pool.TryAcquire() {
		t.Error("acquire on zero-capacity pool should fail")
	}
}

func TestSlotPool_ConcurrentAcquire(t *testing.T) {
	const capacity = 8
	const goroutines = 100

	pool := NewSlotPool(capacity)

	var wg sync.WaitGroup
	results := make(chan bool, goroutines)

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- pool.TryAcquire()
		}()
	}
	wg.Wait()
	close(results)

	acquired := 0
	for ok := range results {
		if ok {
			acquired++
		}
	}

	if acquired != capacity {
		t.Errorf("acquired %d slots concurrently, want exactly %d", acquired, capacity)
	}
	if pool.Available() != 0 {
		t.Errorf("Available() = %d, want 0", pool.Available())
	}
}
