package risk

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/tathienbao/lifecycle-bot/internal/types"
)

func level(side types.DepthSide, price string, size int64) types.DepthLevel {
	return types.DepthLevel{
		Side:  side,
		Price: decimal.RequireFromString(price),
		Size:  size,
	}
}

func TestBookCheck_Evaluate_Buy(t *testing.T) {
	check := BookCheck{MinLevels: 4}
	ref := decimal.RequireFromString("100")

	tests := []struct {
		name   string
		levels []types.DepthLevel
		want   Verdict
	}{
		{
			name: "bid dominance admits",
			levels: []types.DepthLevel{
				level(types.DepthBid, "99.50", 500),
				level(types.DepthBid, "99.40", 400),
				level(types.DepthBid, "99.30", 300),
				level(types.DepthAsk, "100.10", 200),
				level(types.DepthAsk, "100.20", 100),
			},
			want: VerdictAdmit,
		},
		{
			name: "fewer bid levels rejects",
			levels: []types.DepthLevel{
				level(types.DepthBid, "99.50", 900),
				level(types.DepthAsk, "100.10", 200),
				level(types.DepthAsk, "100.20", 100),
				level(types.DepthAsk, "100.30", 100),
			},
			want: VerdictReject,
		},
		{
			name: "smaller bid size rejects",
			levels: []types.DepthLevel{
				level(types.DepthBid, "99.50", 100),
				level(types.DepthBid, "99.40", 100),
				level(types.DepthAsk, "100.10", 500),
				level(types.DepthAsk, "100.20", 400),
			},
			want: VerdictReject,
		},
		{
			name: "bid level above reference rejects",
			levels: []types.DepthLevel{
				level(types.DepthBid, "101.00", 500),
				level(types.DepthBid, "100.90", 400),
				level(types.DepthAsk, "101.10", 200),
				level(types.DepthAsk, "101.20", 100),
			},
			want: VerdictReject,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, reason := check.Evaluate(tt.levels, types.SideBuy, ref)
			if got != tt.want {
				t.Errorf("Evaluate() = %v (%s), want %v", got, reason, tt.want)
			}
		})
	}
}

func TestBookCheck_Evaluate_Sell(t *testing.T) {
	check := BookCheck{MinLevels: 4}
	ref := decimal.RequireFromString("100")

	levels := []types.DepthLevel{
		level(types.DepthAsk, "100.50", 500),
		level(types.DepthAsk, "100.60", 400),
		level(types.DepthAsk, "100.70", 300),
		level(types.DepthBid, "99.90", 200),
		level(types.DepthBid, "99.80", 100),
	}

	got, reason := check.Evaluate(levels, types.SideSell, ref)
	if got != VerdictAdmit {
		t.Errorf("Evaluate() = %v (%s), want ADMIT", got, reason)
	}
}

func TestBookCheck_Evaluate_Defers(t *testing.T) {
	check := BookCheck{MinLevels: 4}
	ref := decimal.RequireFromString("100")

	t.Run("too few levels", func(t *testing.T) {
		levels := []types.DepthLevel{
			level(types.DepthBid, "99.50", 500),
			level(types.DepthAsk, "100.10", 200),
		}
		if got, _ := check.Evaluate(levels, types.SideBuy, ref); got != VerdictDefer {
			t.Errorf("Evaluate() = %v, want DEFER", got)
		}
	})

	t.Run("one-sided book", func(t *testing.T) {
		levels := []types.DepthLevel{
			level(types.DepthBid, "99.50", 500),
			level(types.DepthBid, "99.40", 400),
			level(types.DepthBid, "99.30", 300),
			level(types.DepthBid, "99.20", 200),
		}
		if got, _ := check.Evaluate(levels, types.SideBuy, ref); got != VerdictDefer {
			t.Errorf("Evaluate() = %v, want DEFER", got)
		}
	})

	t.Run("nil levels", func(t *testing.T) {
		if got, _ := check.Evaluate(nil, types.SideBuy, ref); got != VerdictDefer {
			t.Errorf("Evaluate() = %v, want DEFER", got)
		}
	})
}
