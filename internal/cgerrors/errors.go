// Package cgerrors defines the error and diagnostic types shared across
// cgview's loader and graph packages, plus the Loader interface the loader
// uses to report progress and problems without depending on any particular
// output sink.
package cgerrors

import "fmt"

// LineError reports a recoverable problem at a specific file and line: an
// unresolved compressed reference, a malformed position or count, a stray
// line the parser doesn't recognize. The loader logs it and keeps parsing
// the rest of the file, synthesizing "???" sentinels where a name was
// needed, so one bad line never costs the parts around it.
type LineError struct {
	Path string
	Line int
	Msg  string
}

func (e *LineError) Error() string {
	return fmt.Sprintf("%s:%d: %s", e.Path, e.Line, e.Msg)
}

// FormatError reports a structural problem that invalidates the whole dump
// file — there is no sentinel that lets parsing continue past it, so the
// file is rejected outright.
type FormatError struct {
	Path string
	Line int
	Msg  string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("%s:%d: %s", e.Path, e.Line, e.Msg)
}

// LineWarning reports a recoverable oddity at a specific file and line. It
// implements error so it can travel through the same reporting path as
// LineError, but the loader never aborts on one.
type LineWarning struct {
	Path string
	Line int
	Msg  string
}

func (w *LineWarning) Error() string {
	return fmt.Sprintf("%s:%d: warning: %s", w.Path, w.Line, w.Msg)
}

// FormulaError wraps a failure resolving a derived event type's formula.
type FormulaError struct {
	Name string
	Err  error
}

func (e *FormulaError) Error() string {
	return fmt.Sprintf("event type %q: %v", e.Name, e.Err)
}

func (e *FormulaError) Unwrap() error { return e.Err }

// LoaderError wraps a failure to open or recognize a dump file at all,
// before any line has been parsed.
type LoaderError struct {
	Path string
	Err  error
}

func (e *LoaderError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *LoaderError) Unwrap() error { return e.Err }

// MultiError collects every error produced while loading a set of dump
// files, so one bad file doesn't prevent the rest from loading.
type MultiError struct {
	Errors []error
}

func (m *MultiError) Error() string {
	if len(m.Errors) == 1 {
		return m.Errors[0].Error()
	}
	return fmt.Sprintf("%d errors loading dump files (first: %v)", len(m.Errors), m.Errors[0])
}

func (m *MultiError) Unwrap() []error { return m.Errors }

// Add appends err to the collection, ignoring nil.
func (m *MultiError) Add(err error) {
	if err != nil {
		m.Errors = append(m.Errors, err)
	}
}

// ErrOrNil returns m if it collected at least one error, else nil — useful
// as a function's final return value.
func (m *MultiError) ErrOrNil() error {
	if m == nil || len(m.Errors) == 0 {
		return nil
	}
	return m
}
