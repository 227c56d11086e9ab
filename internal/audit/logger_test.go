package audit

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
)

type codedError struct{ code string }

func (e *codedError) Error() string { return "coded " + e.code }
func (e *codedError) Code() string  { return e.code }

type nopCloser struct{ *bytes.Buffer }

func (nopCloser) Close() error { return nil }

func readEntries(t *testing.T, path string) []Entry {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("Failed to open log file: %v", err)
	}
	defer f.Close()

	var entries []Entry
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var e Entry
		if err := json.Unmarshal(scanner.Bytes(), &e); err != nil {
			t.Fatalf("invalid JSON line %q: %v", scanner.Text(), err)
		}
		entries = append(entries, e)
	}
	return entries
}

func TestNewLogger(t *testing.T) {
	tempDir := filepath.Join(t.TempDir(), "nested")

	logger, err := NewLogger(tempDir, Rotation{MaxSizeMB: 1})
	if err != nil {
		t.Fatalf("NewLogger() failed: %v", err)
	}
	defer func() { _ = logger.Close() }()

	expectedPath := filepath.Join(tempDir, "audit.jsonl")
	if logger.GetFilePath() != expectedPath {
		t.Errorf("Expected file path %s, got %s", expectedPath, logger.GetFilePath())
	}
	if _, err := os.Stat(tempDir); err != nil {
		t.Errorf("log directory not created: %v", err)
	}
}

func TestRecordSuccessAndFailure(t *testing.T) {
	tempDir := t.TempDir()
	logger, err := NewLogger(tempDir, Rotation{MaxSizeMB: 1})
	if err != nil {
		t.Fatalf("NewLogger() failed: %v", err)
	}

	logger.Record("LFPG_TWR", "connect", map[string]interface{}{"cid": "1234567"}, nil)
	logger.Record("LFPG_TWR", "search", map[string]interface{}{"callsign": "EGLL_TWR"}, errors.New("boom"))
	if err := logger.Close(); err != nil {
		t.Fatalf("Close() failed: %v", err)
	}

	entries := readEntries(t, logger.GetFilePath())
	if len(entries) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(entries))
	}

	first := entries[0]
	if first.Action != "connect" || first.Callsign != "LFPG_TWR" || first.Outcome != OutcomeSuccess || first.Code != "SUCCESS" {
		t.Errorf("unexpected first entry %+v", first)
	}
	if first.ID == "" || first.Timestamp.IsZero() {
		t.Error("entry missing ID or timestamp")
	}
	if first.Params["cid"] != "1234567" {
		t.Errorf("params not recorded: %+v", first.Params)
	}

	second := entries[1]
	if second.Outcome != OutcomeError || second.Code != "ERROR" || second.Error != "boom" {
		t.Errorf("unexpected second entry %+v", second)
	}
	if first.ID == second.ID {
		t.Error("entries share an ID")
	}
}

func TestCodeFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, "SUCCESS"},
		{"plain", errors.New("x"), "ERROR"},
		{"coded", &codedError{"NOT_CONNECTED"}, "NOT_CONNECTED"},
		{"wrapped coded", fmt.Errorf("search: %w", &codedError{"UNICOM_ACTIVE"}), "UNICOM_ACTIVE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CodeFor(tt.err); got != tt.want {
				t.Errorf("CodeFor() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestConcurrentRecord(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := NewWriterLogger(nopCloser{buf})

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 25; i++ {
				logger.Record("STN", "toggle_rx", map[string]interface{}{"g": g, "i": i}, nil)
			}
		}(g)
	}
	wg.Wait()

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	if len(lines) != 200 {
		t.Fatalf("Expected 200 lines, got %d", len(lines))
	}
	for _, line := range lines {
		var e Entry
		if err := json.Unmarshal(line, &e); err != nil {
			t.Fatalf("interleaved or invalid line %q: %v", line, err)
		}
	}
}
