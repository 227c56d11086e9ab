package airport

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const sampleDB = `{
  "LFPG": {"icao": "LFPG", "elevation": 119, "lat": 49.0097, "lon": 2.5479},
  "EGLL": {"icao": "EGLL", "elevation": 25, "lat": 51.4706, "lon": -0.4619}
}`

func waitReady(t *testing.T, table *Table) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := table.Wait(ctx); err != nil {
		t.Fatalf("Wait() failed: %v", err)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "airports.json")
	if err := os.WriteFile(path, []byte(sampleDB), 0o644); err != nil {
		t.Fatal(err)
	}

	table := Load(path)
	waitReady(t, table)

	if table.Err() != nil {
		t.Fatalf("unexpected load error: %v", table.Err())
	}
	if table.Len() != 2 {
		t.Errorf("Expected 2 airports, got %d", table.Len())
	}

	a, ok := table.Lookup("LFPG")
	if !ok {
		t.Fatal("LFPG not found")
	}
	if a.Elevation != 119 || a.Latitude != 49.0097 || a.Longitude != 2.5479 {
		t.Errorf("unexpected LFPG entry %+v", a)
	}
	if _, ok := table.Lookup("lfpg"); !ok {
		t.Error("lookup should ignore case")
	}
	if _, ok := table.Lookup("KJFK"); ok {
		t.Error("unknown airport should miss")
	}
}

func TestLoadMissingFile(t *testing.T) {
	table := Load(filepath.Join(t.TempDir(), "missing.json"))
	waitReady(t, table)

	if !errors.Is(table.Err(), os.ErrNotExist) {
		t.Errorf("Expected not-exist error, got %v", table.Err())
	}
	if table.Len() != 0 {
		t.Errorf("Expected empty table, got %d", table.Len())
	}
	if _, ok := table.Lookup("LFPG"); ok {
		t.Error("lookup on failed table should miss")
	}
}

func TestFromReaderMalformed(t *testing.T) {
	table, err := FromReader(strings.NewReader("{not json"))
	if err == nil {
		t.Fatal("Expected parse error")
	}
	if table.Len() != 0 {
		t.Errorf("Expected empty table, got %d", table.Len())
	}
}

func TestFromReaderFillsMissingICAO(t *testing.T) {
	table, err := FromReader(strings.NewReader(`{"EDDF": {"elevation": 364, "lat": 50.03, "lon": 8.56}}`))
	if err != nil {
		t.Fatal(err)
	}
	a, ok := table.Lookup("EDDF")
	if !ok || a.ICAO != "EDDF" {
		t.Errorf("unexpected entry %+v", a)
	}
}

func TestLookupBeforeReadyMisses(t *testing.T) {
	table := &Table{ready: make(chan struct{}), airports: map[string]Airport{"LFPG": {ICAO: "LFPG"}}}

	if _, ok := table.Lookup("LFPG"); ok {
		t.Error("lookup before ready should miss")
	}
	if table.Len() != 0 {
		t.Error("Len() before ready should be zero")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if err := table.Wait(ctx); !errors.Is(err, ErrNotReady) {
		t.Errorf("Expected ErrNotReady, got %v", err)
	}

	close(table.ready)
	if _, ok := table.Lookup("LFPG"); !ok {
		t.Error("lookup after ready should hit")
	}
}
