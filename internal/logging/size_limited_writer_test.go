package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSizeLimitedWriterAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	w, err := newSizeLimitedWriter(path, 1)
	if err != nil {
		t.Fatalf("newSizeLimitedWriter: %v", err)
	}
	defer w.Close()

	if _, err := w.Write([]byte("one\n")); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := w.Write([]byte("two\n")); err != nil {
		t.Fatalf("write: %v", err)
	}

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(b) != "one\ntwo\n" {
		t.Fatalf("content = %q", b)
	}
}

func TestSizeLimitedWriterTruncatesAtLimit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	w, err := newSizeLimitedWriter(path, 1)
	if err != nil {
		t.Fatalf("newSizeLimitedWriter: %v", err)
	}
	defer w.Close()
	w.maxBytes = 16

	if _, err := w.Write([]byte(strings.Repeat("a", 12))); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := w.Write([]byte(strings.Repeat("b", 12))); err != nil {
		t.Fatalf("write: %v", err)
	}

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(b) != strings.Repeat("b", 12) {
		t.Fatalf("content = %q, want only second write", b)
	}
}
