// Package persistence provides the durable audit trail and crash
// recovery for trade lifecycles.
package persistence

import (
	"context"

	"github.com/tathienbao/lifecycle-bot/internal/lifecycle"
	"github.com/tathienbao/lifecycle-bot/internal/types"
)

// Repository records lifecycle events and serves recovery queries.
type Repository interface {
	// Apply records one lifecycle event: the trade row is upserted to
	// the event's record and the event itself is appended to the log.
	Apply(ctx context.Context, event lifecycle.Event) error

	// OpenTrades returns the records of trades whose position is still
	// open, for rebuilding lifecycles after a restart.
	OpenTrades(ctx context.Context) ([]types.TradeRecord, error)

	// PurgeOpen closes out any rows left in the open state. Used on
	// startup when recovery is disabled, so stale rows cannot be
	// recovered twice.
	PurgeOpen(ctx context.Context) (int64, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}
