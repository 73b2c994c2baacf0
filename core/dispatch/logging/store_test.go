package logging

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/kilianp07/powerplant/core/model"
)

func sampleRecords(base time.Time) []LogRecord {
	return []LogRecord{
		{
			Timestamp: base,
			RequestID: "r1",
			Load:      480,
			Plants:    []string{"gasfiredbig1", "windpark1"},
			Outcome:   "ok",
			Configurations: []model.PlantConfiguration{
				{Name: "windpark1", Power: 90},
				{Name: "gasfiredbig1", Power: 390},
			},
			Cost:  9000,
			Nodes: 7,
		},
		{
			Timestamp: base.Add(time.Minute),
			RequestID: "r2",
			Load:      5000,
			Plants:    []string{"gasfiredbig1"},
			Outcome:   "infeasible",
			Error:     "no feasible commitment for load",
			Nodes:     3,
		},
		{
			Timestamp: base.Add(2 * time.Minute),
			RequestID: "r3",
			Load:      20,
			Plants:    []string{"tj1"},
			Outcome:   "ok",
			Nodes:     2,
		},
	}
}

func exerciseStore(t *testing.T, store LogStore) {
	t.Helper()
	ctx := context.Background()
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	for _, rec := range sampleRecords(base) {
		if err := store.Append(ctx, rec); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	cases := []struct {
		name string
		q    LogQuery
		want []string
	}{
		{"all", LogQuery{}, []string{"r1", "r2", "r3"}},
		{"plant", LogQuery{Plant: "gasfiredbig1"}, []string{"r1", "r2"}},
		{"outcome", LogQuery{Outcome: "infeasible"}, []string{"r2"}},
		{"window", LogQuery{Start: base.Add(30 * time.Second), End: base.Add(90 * time.Second)}, []string{"r2"}},
		{"plant and outcome", LogQuery{Plant: "gasfiredbig1", Outcome: "ok"}, []string{"r1"}},
		{"unknown plant", LogQuery{Plant: "gasfired"}, nil},
	}
	for _, tc := range cases {
		out, err := store.Query(ctx, tc.q)
		if err != nil {
			t.Fatalf("%s: query: %v", tc.name, err)
		}
		if len(out) != len(tc.want) {
			t.Fatalf("%s: expected %d records, got %d", tc.name, len(tc.want), len(out))
		}
		for i, id := range tc.want {
			if out[i].RequestID != id {
				t.Errorf("%s: record %d = %s, want %s", tc.name, i, out[i].RequestID, id)
			}
		}
	}

	out, err := store.Query(ctx, LogQuery{Outcome: "ok", Plant: "windpark1"})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(out) != 1 || len(out[0].Configurations) != 2 || out[0].Configurations[1].Power != 390 {
		t.Fatalf("configurations not persisted: %+v", out)
	}
}

func TestJSONLStore(t *testing.T) {
	store, err := NewJSONLStore(filepath.Join(t.TempDir(), "solves.jsonl"))
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	defer func() { _ = store.Close() }()
	exerciseStore(t, store)
}

func TestRotatingJSONLStore(t *testing.T) {
	store, err := NewRotatingJSONLStore(filepath.Join(t.TempDir(), "logs", "solves.jsonl"), 1, 2, 1)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	defer func() { _ = store.Close() }()
	exerciseStore(t, store)
}

func TestRotatingJSONLStore_Rotation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "solves.jsonl")
	store, err := NewRotatingJSONLStore(path, 1, 3, 1)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	defer func() { _ = store.Close() }()
	plants := make([]string, 200)
	for i := range plants {
		plants[i] = "gasfired-unit-with-a-long-name"
	}
	rec := LogRecord{Timestamp: time.Now(), Plants: plants, Outcome: "ok"}
	// roughly 6 KB per line, 250 lines rotate exactly once at 1 MB
	for i := 0; i < 250; i++ {
		if err := store.Append(context.Background(), rec); err != nil {
			t.Fatalf("append: %v", err)
		}
	}
	backups, _ := filepath.Glob(filepath.Join(filepath.Dir(path), "solves-*.jsonl"))
	if len(backups) != 1 {
		t.Fatalf("expected one rotated file, got %d", len(backups))
	}
	out, err := store.Query(context.Background(), LogQuery{})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(out) != 250 {
		t.Fatalf("expected 250 records across files, got %d", len(out))
	}
}

func TestSQLiteStore(t *testing.T) {
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "solves.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer func() { _ = store.Close() }()
	exerciseStore(t, store)
}

func TestSQLiteStore_LikeWildcards(t *testing.T) {
	store, err := NewSQLiteStore("file:wildcards.db?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer func() { _ = store.Close() }()
	ctx := context.Background()
	_ = store.Append(ctx, LogRecord{Timestamp: time.Now(), RequestID: "a", Plants: []string{"gas_1"}})
	_ = store.Append(ctx, LogRecord{Timestamp: time.Now(), RequestID: "b", Plants: []string{"gasX1"}})
	out, err := store.Query(ctx, LogQuery{Plant: "gas_1"})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(out) != 1 || out[0].RequestID != "a" {
		t.Fatalf("unexpected records %+v", out)
	}
}

func TestLogRecord_JSON(t *testing.T) {
	rec := sampleRecords(time.Unix(0, 0))[0]
	data, err := json.Marshal(rec)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for _, k := range []string{"timestamp", "request_id", "load", "plants", "outcome", "configurations", "cost", "nodes"} {
		if _, ok := m[k]; !ok {
			t.Errorf("missing key %s", k)
		}
	}
	if _, ok := m["error"]; ok {
		t.Error("empty error should be omitted")
	}
}
