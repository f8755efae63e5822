package broker

import (
	"context"

	"github.com/tathienbao/lifecycle-bot/internal/types"
	"golang.org/x/time/rate"
)

// RateLimited wraps a Client and throttles order submission. Venues
// reject clients that burst past their message quota, so every
// PlaceOrder waits for a limiter token; snapshot reads are local and
// pass through untouched.
type RateLimited struct {
	Client
	limiter *rate.Limiter
}

// NewRateLimited wraps client with a per-second order submission limit.
func NewRateLimited(client Client, perSecond int) *RateLimited {
	if perSecond <= 0 {
		perSecond = 1
	}
	return &RateLimited{
		Client:  client,
		limiter: rate.NewLimiter(rate.Limit(perSecond), perSecond),
	}
}

// PlaceOrder waits for limiter capacity, then delegates.
func (r *RateLimited) PlaceOrder(ctx context.Context, orderID int64, instrument types.Instrument, order Order) error {
	if err := r.limiter.Wait(ctx); err != nil {
		return err
	}
	return r.Client.PlaceOrder(ctx, orderID, instrument, order)
}
