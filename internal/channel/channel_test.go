package channel

import (
	"errors"
	"io"
	"path/filepath"
	"testing"
)

type shortWriter struct {
	chunks [][]byte
	max    int
}

func (w *shortWriter) Write(p []byte) (int, error) {
	if len(p) > w.max {
		p = p[:w.max]
	}
	w.chunks = append(w.chunks, append([]byte(nil), p...))
	return len(p), nil
}

type stuckWriter struct{}

func (stuckWriter) Write(p []byte) (int, error) { return 0, nil }

func TestWriteAllLoopsOverShortWrites(t *testing.T) {
	w := &shortWriter{max: 3}
	if err := WriteAll(w, []byte("1 dead wr\n")); err != nil {
		t.Fatalf("WriteAll err=%v", err)
	}
	if len(w.chunks) != 4 {
		t.Fatalf("expected 4 chunks, got %d", len(w.chunks))
	}
}

func TestWriteAllStuckWriter(t *testing.T) {
	if err := WriteAll(stuckWriter{}, []byte("x")); !errors.Is(err, io.ErrShortWrite) {
		t.Fatalf("expected short write, got %v", err)
	}
}

func TestOpenSerialMissingDevice(t *testing.T) {
	_, err := OpenSerial(Config{Device: filepath.Join(t.TempDir(), "ttyNONE")})
	if !errors.Is(err, ErrOpen) {
		t.Fatalf("expected ErrOpen, got %v", err)
	}

	if _, err := OpenSerial(Config{}); !errors.Is(err, ErrOpen) {
		t.Fatalf("expected ErrOpen for empty path, got %v", err)
	}
}
