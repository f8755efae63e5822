package risk

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/tathienbao/lifecycle-bot/internal/types"
)

// Verdict is the outcome of an admission check against market data.
type Verdict int

const (
	// VerdictDefer means the data needed for a decision has not
	// arrived yet; re-check on a later tick.
	VerdictDefer Verdict = iota
	VerdictAdmit
	VerdictReject
)

func (v Verdict) String() string {
	switch v {
	case VerdictAdmit:
		return "ADMIT"
	case VerdictReject:
		return "REJECT"
	default:
		return "DEFER"
	}
}

// BookCheck evaluates resting order-book depth for entry admission.
// The intended side must dominate the opposing side in level count and
// aggregate size, and the reference price must clear the average
// resting price level on its own side. Book imbalance reflects
// current, non-stationary conditions, so a rejection is permanent and
// the opportunity is abandoned, not retried.
type BookCheck struct {
	// MinLevels is the minimum number of depth entries required before
	// the book is considered representative.
	MinLevels int
}

// Evaluate checks the book for an intended entry side at a reference
// price. The returned reason describes the first failed condition.
func (c BookCheck) Evaluate(levels []types.DepthLevel, side types.Side, refPrice decimal.Decimal) (Verdict, string) {
	if len(levels) < c.MinLevels {
		return VerdictDefer, "insufficient depth entries"
	}

	var (
		bidCount, askCount int
		bidSize, askSize   int64
		bidSum, askSum     decimal.Decimal
	)
	for _, lv := range levels {
		if lv.Side == types.DepthBid {
			bidCount++
			bidSize += lv.Size
			bidSum = bidSum.Add(lv.Price)
		} else {
			askCount++
			askSize += lv.Size
			askSum = askSum.Add(lv.Price)
		}
	}
	if bidCount == 0 || askCount == 0 {
		return VerdictDefer, "one-sided book"
	}

	bidLevel := bidSum.Div(decimal.NewFromInt(int64(bidCount)))
	askLevel := askSum.Div(decimal.NewFromInt(int64(askCount)))

	switch side {
	case types.SideBuy:
		if bidCount < askCount {
			return VerdictReject, fmt.Sprintf("bid levels %d below ask levels %d", bidCount, askCount)
		}
		if bidSize <= askSize {
			return VerdictReject, fmt.Sprintf("bid size %d not above ask size %d", bidSize, askSize)
		}
		if bidLevel.GreaterThan(refPrice) {
			return VerdictReject, fmt.Sprintf("average bid level %s above reference %s", bidLevel, refPrice)
		}
	case types.SideSell:
		if askCount < bidCount {
			return VerdictReject, fmt.Sprintf("ask levels %d below bid levels %d", askCount, bidCount)
		}
		if askSize <= bidSize {
			return VerdictReject, fmt.Sprintf("ask size %d not above bid size %d", askSize, bidSize)
		}
		if askLevel.LessThan(refPrice) {
			return VerdictReject, fmt.Sprintf("average ask level %s below reference %s", askLevel, refPrice)
		}
	default:
		return VerdictReject, "no side"
	}

	return VerdictAdmit, ""
}
