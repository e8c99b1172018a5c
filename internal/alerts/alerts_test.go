package alerts

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestAlertCooldown(t *testing.T) {
	var sent []string
	a := New(func(message string) { sent = append(sent, message) }, time.Hour)

	now := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)
	a.now = func() time.Time { return now }

	if !a.Alert(SeverityWarn, "advice", "endpoint failing", errors.New("502")) {
		t.Fatal("first alert should be delivered")
	}
	if a.Alert(SeverityWarn, "advice", "endpoint failing", nil) {
		t.Error("repeat within cooldown should be suppressed")
	}
	if !a.Alert(SeverityWarn, "classify", "endpoint failing", nil) {
		t.Error("different component should not share a cooldown")
	}

	now = now.Add(61 * time.Minute)
	if !a.Alert(SeverityWarn, "advice", "endpoint failing", nil) {
		t.Error("alert after cooldown should be delivered")
	}

	if len(sent) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(sent))
	}
	if !strings.HasPrefix(sent[0], "⚠️ advice: endpoint failing") || !strings.Contains(sent[0], "Error: 502") {
		t.Errorf("unexpected message: %q", sent[0])
	}
}

func TestAlertSeverityPrefix(t *testing.T) {
	var last string
	a := New(func(message string) { last = message }, 0)

	a.Critical("classify", "down", nil)
	if !strings.HasPrefix(last, "🚨") {
		t.Errorf("expected critical prefix, got %q", last)
	}

	a.Alert(SeverityInfo, "health", "started", nil)
	if !strings.HasPrefix(last, "ℹ️") {
		t.Errorf("expected info prefix, got %q", last)
	}
}

func TestNilAlerter(t *testing.T) {
	var a *Alerter
	a.Warn("advice", "ignored", nil)

	if New(nil, time.Minute).Alert(SeverityWarn, "advice", "no sink", nil) {
		t.Error("alert without notify func should not report delivery")
	}
}
