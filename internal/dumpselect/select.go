// Package dumpselect resolves the user-provided directory/glob arguments a
// viewer is launched with into a concrete, sorted list of dump files,
// falling back to content sniffing when a directory holds files that don't
// follow a recognized naming convention.
package dumpselect

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/standardbeagle/cgview/internal/dumpparser"
)

// DefaultPatterns matches the conventional Callgrind/Cachegrind output
// names: "callgrind.out.<pid>[.<part>]" and "cachegrind.out.<pid>".
var DefaultPatterns = []string{
	"callgrind.out.*",
	"cachegrind.out.*",
}

// Resolve expands args (file paths, directories, or glob patterns) into a
// sorted, de-duplicated list of dump file paths. A directory argument is
// expanded using patterns (DefaultPatterns if nil); an existing file
// argument is included as given, whatever its name or content.
func Resolve(args []string, patterns []string) ([]string, error) {
	if len(patterns) == 0 {
		patterns = DefaultPatterns
	}

	seen := make(map[string]bool)
	var out []string
	add := func(path string) {
		abs, err := filepath.Abs(path)
		if err != nil {
			abs = path
		}
		if !seen[abs] {
			seen[abs] = true
			out = append(out, path)
		}
	}

	for _, arg := range args {
		info, err := os.Stat(arg)
		switch {
		case err == nil && info.IsDir():
			matches, err := expandDir(arg, patterns)
			if err != nil {
				return nil, err
			}
			for _, m := range matches {
				add(m)
			}
		case err == nil:
			add(arg)
		default:
			// Not a plain path; treat arg itself as a glob pattern.
			matches, globErr := doublestar.FilepathGlob(arg)
			if globErr != nil {
				return nil, globErr
			}
			for _, m := range matches {
				add(m)
			}
		}
	}

	sort.Strings(out)
	return out, nil
}

// expandDir lists dir for entries matching patterns; if none match, it
// falls back to sniffing every regular file's leading bytes with
// dumpparser.LooksLikeDump.
func expandDir(dir string, patterns []string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var matched []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		for _, pat := range patterns {
			if ok, _ := doublestar.Match(pat, e.Name()); ok {
				matched = append(matched, filepath.Join(dir, e.Name()))
				break
			}
		}
	}
	if len(matched) > 0 {
		return matched, nil
	}

	var sniffed []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		path := filepath.Join(dir, e.Name())
		head, err := readHead(path, 512)
		if err != nil {
			continue
		}
		if dumpparser.LooksLikeDump(head) {
			sniffed = append(sniffed, path)
		}
	}
	return sniffed, nil
}

func readHead(path string, n int) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	buf := make([]byte, n)
	read, err := f.Read(buf)
	if err != nil && read == 0 {
		return nil, err
	}
	return buf[:read], nil
}
