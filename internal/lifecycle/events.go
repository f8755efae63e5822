package lifecycle

import (
	"time"

	"github.com/tathienbao/lifecycle-bot/internal/types"
)

// EventKind identifies which lifecycle transition produced an event.
type EventKind int

const (
	EventEntrySubmitted EventKind = iota
	EventEntryConfirmed
	EventExitSubmitted
	EventExitConfirmed
)

func (k EventKind) String() string {
	switch k {
	case EventEntrySubmitted:
		return "entry_submitted"
	case EventEntryConfirmed:
		return "entry_confirmed"
	case EventExitSubmitted:
		return "exit_submitted"
	case EventExitConfirmed:
		return "exit_confirmed"
	default:
		return "unknown"
	}
}

// Event is emitted once per meaningful transition. It carries the full
// trade record so the persistence layer can upsert the audit row keyed
// by (TradeID, Symbol) without reaching back into the lifecycle.
type Event struct {
	Kind   EventKind
	Record types.TradeRecord
	At     time.Time
}
