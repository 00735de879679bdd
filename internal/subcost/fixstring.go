package subcost

import "strconv"

// FixString is a zero-copy view over a string owned elsewhere (typically a
// memory-mapped or fully-read dump file). Every Strip* method consumes from
// the front of the view and returns what it consumed; none of them allocate.
type FixString struct {
	s string
}

// NewFixString wraps s in a FixString view. s itself is never copied;
// slicing it below only adjusts the view's bounds.
func NewFixString(s string) FixString {
	return FixString{s: s}
}

// String returns the remaining text of the view.
func (f FixString) String() string { return f.s }

// Len returns the number of bytes left in the view.
func (f FixString) Len() int { return len(f.s) }

// Empty reports whether the view has been fully consumed.
func (f FixString) Empty() bool { return len(f.s) == 0 }

// First returns the first byte of the view without consuming it.
func (f FixString) First() (byte, bool) {
	if len(f.s) == 0 {
		return 0, false
	}
	return f.s[0], true
}

// StripFirst consumes and returns the first byte of the view.
func (f *FixString) StripFirst() (byte, bool) {
	if len(f.s) == 0 {
		return 0, false
	}
	c := f.s[0]
	f.s = f.s[1:]
	return c, true
}

// StripPrefix consumes prefix if the view currently starts with it,
// reporting whether it did.
func (f *FixString) StripPrefix(prefix string) bool {
	if len(f.s) < len(prefix) || f.s[:len(prefix)] != prefix {
		return false
	}
	f.s = f.s[len(prefix):]
	return true
}

// StripSpaces consumes leading spaces and tabs.
func (f *FixString) StripSpaces() {
	i := 0
	for i < len(f.s) && (f.s[i] == ' ' || f.s[i] == '\t') {
		i++
	}
	f.s = f.s[i:]
}

// StripSurroundingSpaces consumes leading and trailing spaces/tabs.
func (f *FixString) StripSurroundingSpaces() {
	f.StripSpaces()
	i := len(f.s)
	for i > 0 && (f.s[i-1] == ' ' || f.s[i-1] == '\t') {
		i--
	}
	f.s = f.s[:i]
}

// StripUntil consumes everything up to (not including) the first occurrence
// of sep and returns it as a new view; the separator itself, if found, is
// also consumed from the receiver. If sep is not found, the whole remaining
// view is consumed and returned.
func (f *FixString) StripUntil(sep byte) FixString {
	for i := 0; i < len(f.s); i++ {
		if f.s[i] == sep {
			out := FixString{s: f.s[:i]}
			f.s = f.s[i+1:]
			return out
		}
	}
	out := FixString{s: f.s}
	f.s = ""
	return out
}

// StripUInt consumes a decimal (or "0x"-prefixed hex) unsigned integer from
// the front of the view. When alsoStripSpaces is true, leading spaces are
// skipped first. Returns false (without consuming) if no digits are found.
func (f *FixString) StripUInt(alsoStripSpaces bool) (uint64, bool) {
	if alsoStripSpaces {
		f.StripSpaces()
	}
	rest := f.s
	base := 10
	prefixLen := 0
	if len(rest) >= 2 && rest[0] == '0' && (rest[1] == 'x' || rest[1] == 'X') {
		base = 16
		prefixLen = 2
	}
	i := prefixLen
	for i < len(rest) && isHexDigitForBase(rest[i], base) {
		i++
	}
	if i == prefixLen {
		return 0, false
	}
	v, err := strconv.ParseUint(rest[prefixLen:i], base, 64)
	if err != nil {
		return 0, false
	}
	f.s = rest[i:]
	return v, true
}

// StripInt64 is StripUInt with an optional leading '-' sign.
func (f *FixString) StripInt64(alsoStripSpaces bool) (int64, bool) {
	if alsoStripSpaces {
		f.StripSpaces()
	}
	neg := false
	save := f.s
	if len(f.s) > 0 && (f.s[0] == '+' || f.s[0] == '-') {
		neg = f.s[0] == '-'
		f.s = f.s[1:]
	}
	v, ok := f.StripUInt(false)
	if !ok {
		f.s = save
		return 0, false
	}
	if neg {
		return -int64(v), true
	}
	return int64(v), true
}

func isHexDigitForBase(c byte, base int) bool {
	if base == 16 {
		return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
	}
	return c >= '0' && c <= '9'
}

// StripName consumes a C-style identifier ([A-Za-z_][A-Za-z0-9_]*) from the
// front of the view.
func (f *FixString) StripName() (string, bool) {
	if len(f.s) == 0 || !isNameStart(f.s[0]) {
		return "", false
	}
	i := 1
	for i < len(f.s) && isNameCont(f.s[i]) {
		i++
	}
	name := f.s[:i]
	f.s = f.s[i:]
	return name, true
}

func isNameStart(c byte) bool {
	return c == '_' || (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z')
}

func isNameCont(c byte) bool {
	return isNameStart(c) || (c >= '0' && c <= '9')
}
