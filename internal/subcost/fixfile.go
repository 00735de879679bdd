package subcost

import (
	"bytes"
	"fmt"
	"os"
)

// FixFile owns the bytes of one dump file, read once into memory, and
// exposes a line iterator over them. The original loader memory-maps the
// file when possible and falls back to reading it whole; a plain
// os.ReadFile gives the same "whole buffer owned by us" semantics without
// a platform-specific mmap dependency. The file is never memory-mapped.
type FixFile struct {
	path string
	data []byte

	pos     int
	lineNum int
	start   int
	end     int
	done    bool
}

// OpenFixFile reads path fully into memory. A zero-size file is not an
// error: callers should check Length() == 0 and treat it as "no data".
func OpenFixFile(path string) (*FixFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return &FixFile{path: path, data: data}, nil
}

// Path returns the path this FixFile was opened from.
func (ff *FixFile) Path() string { return ff.path }

// Length returns the total byte length of the file.
func (ff *FixFile) Length() int { return len(ff.data) }

// CurrentOffset returns the byte offset of the last line returned by NextLine.
func (ff *FixFile) CurrentOffset() int { return ff.start }

// Head returns up to n bytes from the start of the file, for format sniffing.
func (ff *FixFile) Head(n int) []byte {
	if n > len(ff.data) {
		n = len(ff.data)
	}
	return ff.data[:n]
}

// NextLine advances to the next line, splitting on '\n' and tolerating a
// trailing '\r'. It returns the line as a FixString over a copy of the
// line's bytes (not a view into the underlying buffer) and reports whether
// a line was produced.
func (ff *FixFile) NextLine() (FixString, bool) {
	if ff.done || ff.pos >= len(ff.data) {
		ff.done = true
		return FixString{}, false
	}
	ff.start = ff.pos
	ff.lineNum++

	idx := bytes.IndexByte(ff.data[ff.pos:], '\n')
	var lineEnd int
	if idx < 0 {
		lineEnd = len(ff.data)
		ff.pos = len(ff.data)
	} else {
		lineEnd = ff.pos + idx
		ff.pos = ff.pos + idx + 1
	}
	if lineEnd > ff.start && ff.data[lineEnd-1] == '\r' {
		lineEnd--
	}
	ff.end = lineEnd
	return FixString{s: string(ff.data[ff.start:ff.end])}, true
}

// LineNumber returns the 1-based number of the line last returned by NextLine.
func (ff *FixFile) LineNumber() int { return ff.lineNum }

// PercentRead returns progress through the file as an integer 0-100.
func (ff *FixFile) PercentRead() int {
	if len(ff.data) == 0 {
		return 100
	}
	return int(int64(ff.start) * 100 / int64(len(ff.data)))
}

// ErrorAt formats a message attributing it to the file's current line, the
// (line, message) shape loaders report to callers.
func (ff *FixFile) ErrorAt(msg string) string {
	return fmt.Sprintf("%s:%d: %s", ff.path, ff.lineNum, msg)
}
