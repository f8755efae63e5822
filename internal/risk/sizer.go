package risk

import (
	"github.com/shopspring/decimal"
	"github.com/tathienbao/lifecycle-bot/internal/types"
)

// PositionSize returns the whole-unit quantity affordable from budget
// at the given price: floor(budget / price). A result below one unit
// is an admission failure, not a rounding concern.
func PositionSize(budget, price decimal.Decimal) (int64, error) {
	if price.LessThanOrEqual(decimal.Zero) {
		return 0, types.ErrInvalidPrice
	}
	qty := budget.Div(price).IntPart()
	if qty < 1 {
		return 0, types.ErrQuantityTooSmall
	}
	return qty, nil
}
