package log

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/fxamacker/cbor/v2"
)

// ErrLoggerClosed is returned by FileLogger.Err once the logger is closed.
var ErrLoggerClosed = errors.New("trace logger closed")

// FileLogger appends trace events to a file. It is safe for concurrent use.
//
// Log never fails: the engine must not stall on a full disk. The first write
// error is kept and reported by Err, and further events are dropped.
type FileLogger struct {
	mu      sync.Mutex
	path    string
	file    *os.File
	enc     *cbor.Encoder
	written uint64
	err     error
	closed  bool
}

// NewFileLogger opens path for appending, creating it with mode 0644.
func NewFileLogger(path string) (*FileLogger, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open trace file: %w", err)
	}
	return &FileLogger{path: path, file: f, enc: NewEncoder(f)}, nil
}

// Log appends one event.
func (l *FileLogger) Log(event Event) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed || l.err != nil {
		return
	}
	if err := l.enc.Encode(event); err != nil {
		l.err = fmt.Errorf("write trace event %d: %w", l.written+1, err)
		return
	}
	l.written++
}

// Written returns the number of events written so far.
func (l *FileLogger) Written() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.written
}

// Err returns the first write error, or ErrLoggerClosed after Close.
func (l *FileLogger) Err() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.err != nil {
		return l.err
	}
	if l.closed {
		return ErrLoggerClosed
	}
	return nil
}

// Path returns the trace file path.
func (l *FileLogger) Path() string { return l.path }

// Close closes the file. Later calls and later events are ignored.
func (l *FileLogger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return nil
	}
	l.closed = true
	return l.file.Close()
}

var _ Logger = (*FileLogger)(nil)
