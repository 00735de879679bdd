package dumpwatch

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatcherReportsMatchingFileAfterDebounce(t *testing.T) {
	dir := t.TempDir()
	w, err := New(dir, []string{"callgrind.out.*"}, 20*time.Millisecond)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer w.Stop()

	changed := make(chan string, 4)
	w.SetCallbacks(func(path string) { changed <- path }, nil)
	w.Start()

	target := filepath.Join(dir, "callgrind.out.1")
	if err := os.WriteFile(target, []byte("events: Ir\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	select {
	case got := <-changed:
		if got != target {
			t.Errorf("changed path = %q, want %q", got, target)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for onChanged callback")
	}
}

func TestWatcherIgnoresNonMatchingFile(t *testing.T) {
	dir := t.TempDir()
	w, err := New(dir, []string{"callgrind.out.*"}, 20*time.Millisecond)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer w.Stop()

	changed := make(chan string, 4)
	w.SetCallbacks(func(path string) { changed <- path }, nil)
	w.Start()

	other := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(other, []byte("hi"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	select {
	case got := <-changed:
		t.Fatalf("unexpected callback for non-matching file: %s", got)
	case <-time.After(200 * time.Millisecond):
		// expected: no callback fired
	}
}
