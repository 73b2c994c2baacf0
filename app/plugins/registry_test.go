package plugins

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/kilianp07/powerplant/config"
	dispatchlog "github.com/kilianp07/powerplant/core/dispatch/logging"
	"github.com/kilianp07/powerplant/core/factory"
)

func TestLogStoreTypes(t *testing.T) {
	got := LogStoreTypes()
	want := []string{"jsonl", "jsonl_rotating", "sqlite"}
	if len(got) != len(want) {
		t.Fatalf("expected %v got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v got %v", want, got)
		}
	}
}

func TestNewLogStoreBackends(t *testing.T) {
	dir := t.TempDir()
	cases := []config.LoggingConfig{
		{Backend: config.BackendJSONL, Path: filepath.Join(dir, "a.jsonl")},
		{Backend: config.BackendJSONLRotating, Path: filepath.Join(dir, "b.jsonl"), MaxSizeMB: 1},
		{Backend: config.BackendSQLite, Path: filepath.Join(dir, "c.db")},
	}
	for _, lc := range cases {
		mc, ok := LogStoreConfig(lc)
		if !ok {
			t.Fatalf("%s: expected module config", lc.Backend)
		}
		store, err := NewLogStore(mc)
		if err != nil {
			t.Fatalf("%s: %v", lc.Backend, err)
		}
		rec := dispatchlog.LogRecord{Timestamp: time.Now(), RequestID: "r1", Load: 10, Plants: []string{"gas1"}, Outcome: "ok"}
		if err := store.Append(context.Background(), rec); err != nil {
			t.Fatalf("%s append: %v", lc.Backend, err)
		}
		got, err := store.Query(context.Background(), dispatchlog.LogQuery{Plant: "gas1"})
		if err != nil || len(got) != 1 {
			t.Fatalf("%s query: %v %v", lc.Backend, got, err)
		}
		if err := store.Close(); err != nil {
			t.Fatalf("%s close: %v", lc.Backend, err)
		}
	}
}

func TestLogStoreConfigNone(t *testing.T) {
	if _, ok := LogStoreConfig(config.LoggingConfig{Backend: config.BackendNone}); ok {
		t.Fatal("none backend should not build a store")
	}
}

func TestNewLogStoreUnknown(t *testing.T) {
	if _, err := NewLogStore(factory.ModuleConfig{Type: "csv"}); err == nil {
		t.Fatal("expected error for unknown backend")
	}
}
