package metrics

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestServer_HealthReport(t *testing.T) {
	s := NewServer(DefaultServerConfig(), nil)
	s.RegisterHealthCheck("slots", func() Check {
		return Check{OK: true, Detail: "3/3 slots free"}
	})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	s.handleHealth(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var report struct {
		Status string           `json:"status"`
		Checks map[string]Check `json:"checks"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&report); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if report.Status != "up" {
		t.Errorf("status = %s, want up", report.Status)
	}
	check, ok := report.Checks["slots"]
	if !ok {
		t.Fatal("report should include the slots check")
	}
	if !check.OK || check.Detail != "3/3 slots free" {
		t.Errorf("slots check = %+v, want ok with detail", check)
	}
}

func TestServer_HealthReport_Degraded(t *testing.T) {
	s := NewServer(DefaultServerConfig(), nil)
	s.RegisterHealthCheck("store", func() Check {
		return Check{OK: false, Detail: "disk full"}
	})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	s.handleHealth(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", rec.Code)
	}
}

func TestServer_ReadyAndLive(t *testing.T) {
	s := NewServer(DefaultServerConfig(), nil)

	req := httptest.NewRequest(http.MethodGet, "/ready", nil)
	rec := httptest.NewRecorder()
	s.handleReady(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("/ready status = %d, want 200", rec.Code)
	}

	s.RegisterHealthCheck("store", func() Check {
		return Check{OK: false, Detail: "unreachable"}
	})
	rec = httptest.NewRecorder()
	s.handleReady(rec, req)
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("/ready with failing check status = %d, want 503", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/live", nil)
	rec = httptest.NewRecorder()
	s.handleLive(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("/live status = %d, want 200", rec.Code)
	}
}
