package xlsw

import (
	"errors"
	"fmt"
	"io"
	"os"
	"unicode/utf8"
)

// ErrInvalidUTF8 is reported when buffered content fails UTF-8 validation
// at flush time. Corrupt markup is worse than a failed write, so this is
// fatal for the stream.
var ErrInvalidUTF8 = errors.New("buffered content is not valid UTF-8")

// flushThreshold bounds the in-memory buffer of a sheet stream. Rows are
// accumulated and written out in chunks of roughly this size.
const flushThreshold = 8192

// stream is an append-only buffered text sink over a temp file, with one
// extra capability: a previously written byte range can be overwritten in
// place. That is used exactly once per sheet, to backpatch the dimension
// placeholder after the row extent is known.
type stream struct {
	f      *os.File
	buf    []byte
	err    error
	closed bool
}

func newStream(path string) (*stream, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create sheet stream: %w", err)
	}
	return &stream{f: f, buf: make([]byte, 0, flushThreshold)}, nil
}

// WriteString appends text to the buffer, flushing once the threshold is
// exceeded. Errors stick: after the first failure all writes are dropped
// and the error resurfaces from Close.
func (s *stream) WriteString(text string) {
	if s.err != nil || s.closed {
		return
	}
	s.buf = append(s.buf, text...)
	if len(s.buf) > flushThreshold {
		s.flush()
	}
}

func (s *stream) flush() {
	if s.err != nil || len(s.buf) == 0 {
		return
	}
	if !utf8.Valid(s.buf) {
		s.err = ErrInvalidUTF8
		return
	}
	if _, err := s.f.Write(s.buf); err != nil {
		s.err = err
	}
	s.buf = s.buf[:0]
}

// Position flushes and reports the current byte offset. Offsets are only
// meaningful against bytes already in the file, hence the forced flush.
func (s *stream) Position() (int64, error) {
	s.flush()
	if s.err != nil {
		return 0, s.err
	}
	return s.f.Seek(0, io.SeekCurrent)
}

// SeekTo flushes and repositions the sink so the next WriteString
// overwrites existing bytes.
func (s *stream) SeekTo(offset int64) error {
	s.flush()
	if s.err != nil {
		return s.err
	}
	if _, err := s.f.Seek(offset, io.SeekStart); err != nil {
		s.err = err
	}
	return s.err
}

// Close flushes and releases the file. Safe to call more than once.
func (s *stream) Close() error {
	if s.closed {
		return s.err
	}
	s.flush()
	s.closed = true
	if err := s.f.Close(); err != nil && s.err == nil {
		s.err = err
	}
	return s.err
}

// Err reports the first error seen by the stream, if any.
func (s *stream) Err() error { return s.err }
