package signal

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tathienbao/lifecycle-bot/internal/types"
)

func testSig(symbol string) types.Signal {
	return types.Signal{
		Symbol:   symbol,
		Side:     types.SideBuy,
		RefPrice: decimal.RequireFromString("100"),
		Time:     time.Now(),
	}
}

func TestQueue_PushPoll(t *testing.T) {
	q := NewQueue()
	ctx := context.Background()

	if got := q.Poll(ctx); len(got) != 0 {
		t.Fatalf("Poll on empty queue = %v, want none", got)
	}

	q.Push(testSig("AAPL"))
	q.Push(testSig("MSFT"))
	if q.Len() != 2 {
		t.Errorf("Len() = %d, want 2", q.Len())
	}

	got := q.Poll(ctx)
	if len(got) != 2 {
		t.Fatalf("Poll = %d signals, want 2", len(got))
	}
	if got[0].Symbol != "AAPL" || got[1].Symbol != "MSFT" {
		t.Errorf("Poll order = %s, %s, want AAPL, MSFT", got[0].Symbol, got[1].Symbol)
	}

	// Poll drains.
	if got := q.Poll(ctx); len(got) != 0 {
		t.Errorf("second Poll = %v, want none", got)
	}
}

func TestQueue_ConcurrentPush(t *testing.T) {
	q := NewQueue()
	const producers = 50

	var wg sync.WaitGroup
	for i := 0; i < producers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			q.Push(testSig("AAPL"))
		}()
	}
	wg.Wait()

	if got := len(q.Poll(context.Background())); got != producers {
		t.Errorf("Poll = %d signals, want %d", got, producers)
	}
}

func TestStatic_DeliversOnce(t *testing.T) {
	src := NewStatic(testSig("AAPL"), testSig("MSFT"))
	ctx := context.Background()

	if got := src.Poll(ctx); len(got) != 2 {
		t.Fatalf("first Poll = %d signals, want 2", len(got))
	}
	if got := src.Poll(ctx); len(got) != 0 {
		t.Errorf("second Poll = %d signals, want 0", len(got))
	}
}
