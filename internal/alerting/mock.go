package alerting

import (
	"context"
	"strings"
	"sync"
)

// MockAlerter records delivered alerts so tests can assert that a
// lifecycle transition produced the expected notification.
type MockAlerter struct {
	mu       sync.Mutex
	captured []capturedAlert
}

type capturedAlert struct {
	severity Severity
	message  string
}

// NewMockAlerter creates an empty recording alerter.
func NewMockAlerter() *MockAlerter {
	return &MockAlerter{}
}

func (m *MockAlerter) Name() string { return "mock" }

// Alert records the severity and message.
func (m *MockAlerter) Alert(_ context.Context, severity Severity, message string, _ ...any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.captured = append(m.captured, capturedAlert{severity: severity, message: message})
	return nil
}

// Count returns how many alerts were delivered.
func (m *MockAlerter) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.captured)
}

// HasAlertWithSeverity reports whether any recorded alert carried the
// given severity.
func (m *MockAlerter) HasAlertWithSeverity(severity Severity) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.captured {
		if a.severity == severity {
			return true
		}
	}
	return false
}

// HasAlertContaining reports whether any recorded alert message
// contains the substring.
func (m *MockAlerter) HasAlertContaining(substr string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.captured {
		if strings.Contains(a.message, substr) {
			return true
		}
	}
	return false
}
