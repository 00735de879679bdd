package subcost

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFixFileNextLine(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "dump.txt")
	if err := os.WriteFile(path, []byte("a\r\nb\nc"), 0o644); err != nil {
		t.Fatal(err)
	}
	ff, err := OpenFixFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var got []string
	for {
		line, ok := ff.NextLine()
		if !ok {
			break
		}
		got = append(got, line.String())
	}
	want := []string{"a", "b", "c"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("line %d: got %q want %q", i, got[i], want[i])
		}
	}
	if ff.LineNumber() != 3 {
		t.Fatalf("expected line number 3, got %d", ff.LineNumber())
	}
}

func TestFixFileEmpty(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty.txt")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	ff, err := OpenFixFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if ff.Length() != 0 {
		t.Fatalf("expected empty file")
	}
	if _, ok := ff.NextLine(); ok {
		t.Fatal("expected no lines")
	}
}
