package dumpparser

import "bytes"

// LooksLikeDump reports whether head (the first bytes of a candidate file)
// looks like a Callgrind/Cachegrind profile dump: either it starts with
// "# callgrind format", or it contains an "events:" or "creator:" header
// line within the leading chunk.
func LooksLikeDump(head []byte) bool {
	if bytes.HasPrefix(head, []byte("# callgrind format")) {
		return true
	}
	if bytes.Contains(head, []byte("\nevents:")) || bytes.HasPrefix(head, []byte("events:")) {
		return true
	}
	if bytes.Contains(head, []byte("\ncreator:")) || bytes.HasPrefix(head, []byte("creator:")) {
		return true
	}
	return false
}
