package dumpparser

import (
	"testing"

	"github.com/standardbeagle/cgview/internal/cgerrors"
	"github.com/standardbeagle/cgview/internal/costgraph"
)

func findFunction(t *testing.T, d *costgraph.Data, name string) *costgraph.Function {
	t.Helper()
	for _, f := range d.AllFunctions() {
		if f.Name == name {
			return f
		}
	}
	t.Fatalf("function %q not found", name)
	return nil
}

func TestParseFileSelfAndInclusiveCost(t *testing.T) {
	data := costgraph.NewData()
	p := New(data, cgerrors.NopLoader{})

	part, err := p.ParseFile("testdata/simple.callgrind.txt")
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}
	if part.Number != 1 {
		t.Errorf("part number = %d, want 1", part.Number)
	}
	if part.PID != 1234 {
		t.Errorf("part PID = %d, want 1234", part.PID)
	}
	if part.TriggerName != "./prog" {
		t.Errorf("part TriggerName = %q, want %q", part.TriggerName, "./prog")
	}

	ir := data.EventTypes.RealIndex("Ir")

	main := findFunction(t, data, "main")
	if got := main.Self().Get(ir); got != 100 {
		t.Errorf("main self = %d, want 100", got)
	}
	if got := main.Inclusive().Get(ir); got != 140 {
		t.Errorf("main inclusive = %d, want 140", got)
	}

	helper := findFunction(t, data, "helper")
	if got := helper.Self().Get(ir); got != 40 {
		t.Errorf("helper self = %d, want 40", got)
	}
	if got := helper.Inclusive().Get(ir); got != 40 {
		t.Errorf("helper inclusive = %d, want 40", got)
	}

	call := data.Call(main, helper)
	if got := call.Calls(); got != 3 {
		t.Errorf("call count = %d, want 3", got)
	}
	if got := call.Cost().Get(ir); got != 40 {
		t.Errorf("call cost = %d, want 40", got)
	}

	if got := part.Totals.Get(ir); got != 140 {
		t.Errorf("part totals = %d, want 140", got)
	}
}

func TestParseFileLineAttribution(t *testing.T) {
	data := costgraph.NewData()
	p := New(data, cgerrors.NopLoader{})
	if _, err := p.ParseFile("testdata/simple.callgrind.txt"); err != nil {
		t.Fatalf("ParseFile: %v", err)
	}

	ir := data.EventTypes.RealIndex("Ir")
	main := findFunction(t, data, "main")
	mainFile := data.File("main.c")
	src := main.Source(mainFile)
	line := src.Line(100)
	if got := line.Self().Get(ir); got != 100 {
		t.Errorf("main.c:100 self = %d, want 100", got)
	}
}

type recordingLoader struct {
	cgerrors.NopLoader
	warnings []*cgerrors.LineWarning
	errs     []*cgerrors.LineError
}

func (r *recordingLoader) LoadWarning(w *cgerrors.LineWarning) { r.warnings = append(r.warnings, w) }
func (r *recordingLoader) LoadError(e *cgerrors.LineError)     { r.errs = append(r.errs, e) }

func TestParseFileSummaryMismatchWarns(t *testing.T) {
	data := costgraph.NewData()
	rec := &recordingLoader{}
	p := New(data, rec)

	if _, err := p.ParseFile("testdata/mismatch.callgrind.txt"); err != nil {
		t.Fatalf("ParseFile: %v", err)
	}
	if len(rec.warnings) != 1 {
		t.Fatalf("warnings = %d, want 1 (%v)", len(rec.warnings), rec.warnings)
	}
}

func TestParseFileUnknownCompressedRefWarnsAndSynthesizes(t *testing.T) {
	data := costgraph.NewData()
	rec := &recordingLoader{}
	p := New(data, rec)

	part, err := p.ParseFile("testdata/bad_ref.callgrind.txt")
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}
	if len(rec.warnings) == 0 {
		t.Fatal("expected at least one warning for the unresolved compressed reference")
	}
	unknown := findFunction(t, data, "???")
	ir := data.EventTypes.RealIndex("Ir")
	if got := unknown.PartFunction(part).Self.Get(ir); got != 100 {
		t.Errorf("???.self = %d, want 100", got)
	}
}

func TestParseFileMissingFileErrors(t *testing.T) {
	data := costgraph.NewData()
	p := New(data, cgerrors.NopLoader{})

	_, err := p.ParseFile("testdata/does-not-exist.callgrind.txt")
	if err == nil {
		t.Fatal("expected error for missing file, got nil")
	}
}
