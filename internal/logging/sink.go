package logging

import (
	"fmt"
	"os"
	"sync"
)

// Sink is an io.Writer that buffers log output until a destination file is
// chosen. The debug log path is only known after flags and config files are
// read, so anything logged before then is kept and flushed to the file.
type Sink struct {
	mu      sync.Mutex
	file    *os.File
	buffer  []byte
	discard bool
}

// NewSink returns a sink in buffering mode.
func NewSink() *Sink {
	return &Sink{}
}

// Write writes to the file if set, otherwise appends to the buffer.
func (s *Sink) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.discard {
		return len(p), nil
	}
	if s.file != nil {
		return s.file.Write(p)
	}

	// p may be reused by the caller.
	b := make([]byte, len(p))
	copy(b, p)
	s.buffer = append(s.buffer, b...)
	return len(p), nil
}

// SetFile directs output to path, creating it if needed and flushing the
// buffer. An empty path discards buffered and future output.
func (s *Sink) SetFile(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.file != nil {
		_ = s.file.Close()
		s.file = nil
	}

	if path == "" {
		s.discard = true
		s.buffer = nil
		return nil
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600) //nolint:gosec
	if err != nil {
		s.discard = true
		s.buffer = nil
		return fmt.Errorf("failed to open debug log: %w", err)
	}

	s.file = f
	s.discard = false
	if len(s.buffer) > 0 {
		_, _ = f.Write(s.buffer)
		s.buffer = nil
	}
	return nil
}

// Buffered returns a copy of the output buffered so far.
func (s *Sink) Buffered() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]byte(nil), s.buffer...)
}

// Close closes the log file if open.
func (s *Sink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.file == nil {
		return nil
	}
	err := s.file.Close()
	s.file = nil
	return err
}
