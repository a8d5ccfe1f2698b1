package recording

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"TimelineViewer/pkg/snapshot"
)

const writerBufferSize = 64 * 1024

// LogWriter appends snapshots to a JSONL file, one line per snapshot,
// flushed after every line so a crash loses at most the sample being
// written.
type LogWriter struct {
	path   string
	file   *os.File
	writer *bufio.Writer
	mu     sync.Mutex
}

// NewLogWriter opens path for appending, creating parent directories
// as needed.
func NewLogWriter(path string) (*LogWriter, error) {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	return &LogWriter{
		path:   path,
		file:   file,
		writer: bufio.NewWriterSize(file, writerBufferSize),
	}, nil
}

// Write appends one snapshot line.
func (w *LogWriter) Write(snap snapshot.Snapshot) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	if _, err := w.writer.Write(data); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	if err := w.writer.WriteByte('\n'); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}
	return w.writer.Flush()
}

// Path returns the log file path.
func (w *LogWriter) Path() string { return w.path }

// Close flushes and closes the log file.
func (w *LogWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.writer != nil {
		if err := w.writer.Flush(); err != nil {
			return err
		}
	}
	if w.file != nil {
		return w.file.Close()
	}
	return nil
}
