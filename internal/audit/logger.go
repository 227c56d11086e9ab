package audit

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Outcomes recorded in Entry.Outcome.
const (
	OutcomeSuccess = "SUCCESS"
	OutcomeError   = "ERROR"
)

// Entry is a single audit record.
type Entry struct {
	ID        string                 `json:"id"`
	Timestamp time.Time              `json:"ts"`
	Callsign  string                 `json:"callsign"`
	Action    string                 `json:"action"`
	Params    map[string]interface{} `json:"params,omitempty"`
	Outcome   string                 `json:"outcome"`
	Code      string                 `json:"code"`
	Error     string                 `json:"error,omitempty"`
}

// Coder is implemented by errors that carry a stable code.
type Coder interface {
	Code() string
}

// Rotation configures file rotation.
type Rotation struct {
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// Logger writes audit entries.
type Logger struct {
	mu       sync.Mutex
	filePath string
	out      io.WriteCloser
	now      func() time.Time
}

// NewLogger opens logDir/audit.jsonl for appending.
func NewLogger(logDir string, rotation Rotation) (*Logger, error) {
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	filePath := filepath.Join(logDir, "audit.jsonl")
	return &Logger{
		filePath: filePath,
		out: &lumberjack.Logger{
			Filename:   filePath,
			MaxSize:    rotation.MaxSizeMB,
			MaxBackups: rotation.MaxBackups,
			MaxAge:     rotation.MaxAgeDays,
		},
		now: time.Now,
	}, nil
}

// NewWriterLogger writes entries to w, mostly for tests.
func NewWriterLogger(w io.WriteCloser) *Logger {
	return &Logger{out: w, now: time.Now}
}

// Record appends an entry for action. A nil err records success.
func (l *Logger) Record(callsign, action string, params map[string]interface{}, err error) {
	entry := Entry{
		ID:        uuid.NewString(),
		Timestamp: l.now().UTC(),
		Callsign:  callsign,
		Action:    action,
		Params:    params,
		Outcome:   OutcomeSuccess,
		Code:      CodeFor(err),
	}
	if err != nil {
		entry.Outcome = OutcomeError
		entry.Error = err.Error()
	}

	l.write(entry)
}

// CodeFor returns the stable code of err: "SUCCESS" for nil, the Coder code
// when err wraps one, "ERROR" otherwise.
func CodeFor(err error) string {
	if err == nil {
		return OutcomeSuccess
	}
	var coder Coder
	if errors.As(err, &coder) {
		return coder.Code()
	}
	return OutcomeError
}

func (l *Logger) write(entry Entry) {
	l.mu.Lock()
	defer l.mu.Unlock()

	data, err := json.Marshal(entry)
	if err != nil {
		log.Printf("audit: failed to marshal entry: %v", err)
		return
	}

	if _, err := l.out.Write(append(data, '\n')); err != nil {
		log.Printf("audit: failed to write entry: %v", err)
	}
}

// GetFilePath returns the audit file path, empty for writer loggers.
func (l *Logger) GetFilePath() string {
	return l.filePath
}

// Close closes the underlying file.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.out.Close()
}
