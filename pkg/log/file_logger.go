package log

import (
	"bufio"
	"os"
	"sync"

	"github.com/fxamacker/cbor/v2"
)

// FileLogger writes protocol events to a .mlog file as a CBOR stream.
// Writes are buffered until Close. It is safe for concurrent use.
type FileLogger struct {
	mu      sync.Mutex
	file    *os.File
	buf     *bufio.Writer
	encoder *cbor.Encoder
	written int
	closed  bool
}

// NewFileLogger opens path for appending, creating it if needed.
func NewFileLogger(path string) (*FileLogger, error) {
	return openFileLogger(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY)
}

// CreateFileLogger creates path, truncating an existing file.
func CreateFileLogger(path string) (*FileLogger, error) {
	return openFileLogger(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY)
}

func openFileLogger(path string, flag int) (*FileLogger, error) {
	f, err := os.OpenFile(path, flag, 0644)
	if err != nil {
		return nil, err
	}
	buf := bufio.NewWriter(f)
	return &FileLogger{
		file:    f,
		buf:     buf,
		encoder: NewEncoder(buf),
	}, nil
}

// Log appends event. Malformed events and encoding errors are dropped;
// capture never disturbs the station.
func (l *FileLogger) Log(event Event) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed || checkEvent(event) != nil {
		return
	}
	if l.encoder.Encode(event) == nil {
		l.written++
	}
}

// Written returns the number of events logged so far.
func (l *FileLogger) Written() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.written
}

// Close flushes buffered events and closes the file. Later calls to Log
// are ignored and later calls to Close return nil.
func (l *FileLogger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return nil
	}
	l.closed = true

	flushErr := l.buf.Flush()
	if err := l.file.Close(); err != nil {
		return err
	}
	return flushErr
}

var _ Logger = (*FileLogger)(nil)
