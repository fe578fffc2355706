// Package audit records the history of apply runs. Each run is one line
// of a JSON Lines (JSONL) file in the state directory.
package audit

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/firefly-engineering/browser-conf/internal/apply"
	"github.com/firefly-engineering/browser-conf/internal/system"
)

// Outcome classifies how a run ended.
type Outcome string

const (
	OutcomeApplied   Outcome = "applied"
	OutcomeUnchanged Outcome = "unchanged"
	OutcomeDryRun    Outcome = "dry-run"
	OutcomeFailed    Outcome = "failed"
)

// FileRecord is one output file of a run.
type FileRecord struct {
	Path       string `json:"path"`
	Changed    bool   `json:"changed"`
	Privileged bool   `json:"privileged,omitempty"`
}

// Record is a single history entry.
type Record struct {
	ID        string       `json:"id"`
	Timestamp time.Time    `json:"timestamp"`
	Config    string       `json:"config"`
	Profile   string       `json:"profile,omitempty"`
	Outcome   Outcome      `json:"outcome"`
	State     string       `json:"state"`
	Files     []FileRecord `json:"files,omitempty"`
	Warnings  []string     `json:"warnings,omitempty"`
	Error     string       `json:"error,omitempty"`
}

// FromResult builds a record for an apply run over the config at source.
func FromResult(source string, res *apply.Result, dryRun bool) Record {
	r := Record{
		Config:   source,
		State:    res.State.String(),
		Warnings: res.Warnings,
	}
	if res.Profile != nil {
		r.Profile = res.Profile.Name
	}
	for _, f := range res.Files {
		r.Files = append(r.Files, FileRecord{Path: f.Path, Changed: f.Changed, Privileged: f.Privileged})
	}

	switch {
	case res.Err != nil:
		r.Outcome = OutcomeFailed
		r.Error = res.Err.Error()
	case dryRun:
		r.Outcome = OutcomeDryRun
	case res.Changed():
		r.Outcome = OutcomeApplied
	default:
		r.Outcome = OutcomeUnchanged
	}
	return r
}

// Logger appends and reads history records in a single JSONL file.
type Logger struct {
	path string
	fs   system.FileSystem
}

// NewLogger creates a logger writing to path. A nil fsys uses the OS
// filesystem.
func NewLogger(path string, fsys system.FileSystem) *Logger {
	if fsys == nil {
		fsys = system.DefaultFS()
	}
	return &Logger{path: path, fs: fsys}
}

// Path returns the history file location.
func (l *Logger) Path() string { return l.path }

// Log appends a record, filling in its ID and timestamp when unset.
func (l *Logger) Log(rec Record) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.Timestamp.IsZero() {
		rec.Timestamp = time.Now()
	}

	if err := l.fs.MkdirAll(filepath.Dir(l.path), 0755); err != nil {
		return fmt.Errorf("failed to create history directory: %w", err)
	}

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open history: %w", err)
	}
	defer f.Close()

	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}

	if _, err := f.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write record: %w", err)
	}
	return nil
}

// Records reads all records in chronological order. Malformed lines are
// skipped. When limit is positive only the last limit records are returned.
func (l *Logger) Records(limit int) ([]Record, error) {
	data, err := l.fs.ReadFile(l.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read history: %w", err)
	}

	var records []Record
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 64*1024), 1<<20)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var rec Record
		if err := json.Unmarshal(line, &rec); err != nil {
			continue
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return records, fmt.Errorf("error reading history: %w", err)
	}

	if limit > 0 && len(records) > limit {
		records = records[len(records)-limit:]
	}
	return records, nil
}

// Clear deletes the history file.
func (l *Logger) Clear() error {
	if err := l.fs.Remove(l.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}
