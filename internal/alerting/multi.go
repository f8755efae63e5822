package alerting

import (
	"context"
	"errors"
	"log/slog"
	"sync"
)

// MultiAlerter fans one lifecycle alert out to every configured
// channel in parallel. The channel set is fixed at construction; a
// phantom close or an exit escalation must reach all operators, so a
// failing channel is logged and its error joined into the result
// rather than short-circuiting the rest.
type MultiAlerter struct {
	channels []Alerter
	logger   *slog.Logger
}

// NewMultiAlerter builds a fan-out over the given channels.
func NewMultiAlerter(logger *slog.Logger, channels ...Alerter) *MultiAlerter {
	if logger == nil {
		logger = slog.Default()
	}
	return &MultiAlerter{channels: channels, logger: logger}
}

func (m *MultiAlerter) Name() string { return "multi" }

// Alert delivers to every channel and joins any per-channel failures.
func (m *MultiAlerter) Alert(ctx context.Context, severity Severity, message string, fields ...any) error {
	if len(m.channels) == 0 {
		return nil
	}

	errs := make([]error, len(m.channels))
	var wg sync.WaitGroup
	for i, ch := range m.channels {
		wg.Add(1)
		go func(i int, ch Alerter) {
			defer wg.Done()
			if err := ch.Alert(ctx, severity, message, fields...); err != nil {
				m.logger.Error("alert channel failed",
					"channel", ch.Name(),
					"severity", severity.String(),
					"err", err,
				)
				errs[i] = err
			}
		}(i, ch)
	}
	wg.Wait()

	return errors.Join(errs...)
}
