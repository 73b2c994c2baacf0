package monitoring

import (
	"errors"
	"testing"

	"github.com/kilianp07/powerplant/config"
	coremon "github.com/kilianp07/powerplant/core/monitoring"
)

func TestNewSentryMonitorWithoutDSN(t *testing.T) {
	mon, err := NewSentryMonitor(config.SentryConfig{})
	if err != nil {
		t.Fatalf("new monitor: %v", err)
	}
	if _, ok := mon.(coremon.NopMonitor); !ok {
		t.Fatalf("expected NopMonitor, got %T", mon)
	}
}

func TestNewSentryMonitorInvalidDSN(t *testing.T) {
	if _, err := NewSentryMonitor(config.SentryConfig{DSN: "::not a dsn"}); err == nil {
		t.Fatal("expected error for invalid DSN")
	}
}

func TestSetupInstallsMonitor(t *testing.T) {
	t.Cleanup(func() { coremon.Init(coremon.NopMonitor{}) })
	mon, err := Setup(config.SentryConfig{})
	if err != nil {
		t.Fatalf("setup: %v", err)
	}
	if coremon.Current() != mon {
		t.Fatal("monitor not installed")
	}
	coremon.CaptureException(errors.New("boom"), map[string]string{"component": "test"})
}

func TestSentryMonitorIgnoresNil(t *testing.T) {
	s := &sentryMonitor{}
	s.CaptureException(nil, nil)
}
