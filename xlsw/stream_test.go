package xlsw

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func newTestStream(t *testing.T) (*stream, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "stream")
	s, err := newStream(path)
	if err != nil {
		t.Fatal(err)
	}
	return s, path
}

func TestStreamBuffersUntilThreshold(t *testing.T) {
	s, path := newTestStream(t)
	s.WriteString("hello")

	fi, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if fi.Size() != 0 {
		t.Errorf("short write reached disk early: size=%d", fi.Size())
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}
	b, err := os.ReadFile(path)
	if err != nil || string(b) != "hello" {
		t.Errorf("file holds %q (err=%v), want hello", b, err)
	}
}

func TestStreamFlushesPastThreshold(t *testing.T) {
	s, path := newTestStream(t)
	big := strings.Repeat("x", flushThreshold+1)
	s.WriteString(big)

	fi, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if fi.Size() != int64(len(big)) {
		t.Errorf("oversized write not flushed: size=%d", fi.Size())
	}
	s.Close()
}

func TestStreamBackpatch(t *testing.T) {
	s, path := newTestStream(t)
	s.WriteString("head ")
	start, err := s.Position()
	if err != nil {
		t.Fatal(err)
	}
	s.WriteString("0000000000")
	end, _ := s.Position()
	s.WriteString(" tail")

	if err := s.SeekTo(start); err != nil {
		t.Fatal(err)
	}
	patch := "A1:B2"
	s.WriteString(patch + strings.Repeat(" ", int(end-start)-len(patch)))
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	b, _ := os.ReadFile(path)
	if got := string(b); got != "head A1:B2      tail" {
		t.Errorf("backpatched file = %q", got)
	}
}

func TestStreamRejectsInvalidUTF8(t *testing.T) {
	s, _ := newTestStream(t)
	s.WriteString("ok \xff\xfe")
	err := s.Close()
	if !errors.Is(err, ErrInvalidUTF8) {
		t.Errorf("Close() = %v, want ErrInvalidUTF8", err)
	}
	// errors stick and Close stays idempotent
	if err := s.Close(); !errors.Is(err, ErrInvalidUTF8) {
		t.Errorf("second Close() = %v, want ErrInvalidUTF8", err)
	}
}

func TestStreamCloseIdempotent(t *testing.T) {
	s, _ := newTestStream(t)
	s.WriteString("x")
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Errorf("second Close() = %v", err)
	}
	s.WriteString("dropped")
	if s.Err() != nil {
		t.Errorf("write after close raised %v", s.Err())
	}
}
