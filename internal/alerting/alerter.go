// Package alerting provides notification channels for lifecycle events
// that warrant operator attention.
package alerting

import (
	"context"
	"fmt"
)

// Severity represents the alert severity level.
type Severity int

const (
	// SeverityInfo is for informational messages.
	SeverityInfo Severity = iota
	// SeverityWarning is for warning messages.
	SeverityWarning
	// SeverityHigh is for high priority alerts.
	SeverityHigh
	// SeverityCritical is for critical alerts requiring immediate attention.
	SeverityCritical
)

// String returns the string representation of the severity.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "INFO"
	case SeverityWarning:
		return "WARNING"
	case SeverityHigh:
		return "HIGH"
	case SeverityCritical:
		return "CRITICAL"
	default:
		return "UNKNOWN"
	}
}

// Alerter defines the interface for sending alerts.
type Alerter interface {
	// Alert sends an alert with the given severity and message.
	Alert(ctx context.Context, severity Severity, message string, fields ...any) error
	// Name returns the name of the alerter.
	Name() string
}

// FormatFields converts variadic key-value fields to a bulleted string
// for channels without structured output.
func FormatFields(fields ...any) string {
	if len(fields) == 0 {
		return ""
	}

	result := ""
	for i := 0; i < len(fields)-1; i += 2 {
		key, ok := fields[i].(string)
		if !ok {
			continue
		}
		value := fields[i+1]
		if result != "" {
			result += "\n"
		}
		result += fmt.Sprintf("• %s: %v", key, value)
	}
	return result
}

// AlertEvent represents a pre-defined alert event type.
type AlertEvent string

const (
	// EventBotStarted is sent when the manager starts.
	EventBotStarted AlertEvent = "bot_started"
	// EventBotStopped is sent when the manager stops.
	EventBotStopped AlertEvent = "bot_stopped"
	// EventTradesRecovered is sent after open trades are rebuilt on startup.
	EventTradesRecovered AlertEvent = "trades_recovered"
	// EventEntryPlaced is sent when an entry order is submitted.
	EventEntryPlaced AlertEvent = "entry_placed"
	// EventPositionOpened is sent when an entry order fills.
	EventPositionOpened AlertEvent = "position_opened"
	// EventTradeClosed is sent when an exit order fills.
	EventTradeClosed AlertEvent = "trade_closed"
	// EventExitRearmed is sent when the venue cancels an exit set.
	EventExitRearmed AlertEvent = "exit_rearmed"
	// EventExitEscalated is sent when re-arm retries run out and the
	// exit falls back to a market order.
	EventExitEscalated AlertEvent = "exit_escalated"
	// EventPhantomClose is sent when a position vanishes from the
	// broker snapshot while the manager believed it was open.
	EventPhantomClose AlertEvent = "phantom_close"
)

// EventSeverity returns the default severity for an event.
func EventSeverity(event AlertEvent) Severity {
	switch event {
	case EventPhantomClose:
		return SeverityCritical
	case EventExitEscalated:
		return SeverityHigh
	case EventExitRearmed:
		return SeverityWarning
	default:
		return SeverityInfo
	}
}
