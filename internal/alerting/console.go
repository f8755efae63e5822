package alerting

import (
	"context"
	"log/slog"
)

// ConsoleAlerter writes alerts into the structured log stream, so that
// paper-trading runs need no external channel: a phantom close shows
// up as an error record, trade notifications as info.
type ConsoleAlerter struct {
	logger *slog.Logger
}

// NewConsoleAlerter creates a console channel over the given logger.
func NewConsoleAlerter(logger *slog.Logger) *ConsoleAlerter {
	if logger == nil {
		logger = slog.Default()
	}
	return &ConsoleAlerter{logger: logger}
}

func (c *ConsoleAlerter) Name() string { return "console" }

// Alert logs the message at a level matching the severity.
func (c *ConsoleAlerter) Alert(ctx context.Context, severity Severity, message string, fields ...any) error {
	attrs := append([]any{"severity", severity.String()}, fields...)
	c.logger.Log(ctx, severityLevel(severity), "alert: "+message, attrs...)
	return nil
}

func severityLevel(s Severity) slog.Level {
	switch s {
	case SeverityCritical:
		return slog.LevelError
	case SeverityHigh, SeverityWarning:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}
