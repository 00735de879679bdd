package costgraph

import (
	"fmt"
	"sort"

	"github.com/standardbeagle/cgview/internal/subcost"
)

// Function is one named routine, identified by (name, owning object). Its
// self cost is the sum of cost lines attributed directly to it; its
// inclusive cost additionally folds in the cost of every call it makes, as
// already attributed per call edge by the dump itself (no separate
// graph walk is needed — the profiler gives each call's inclusive share
// directly on the cost line that follows a "calls=" record).
type Function struct {
	Name   string
	Object *Object
	Class  *Class

	data *Data

	sources map[*File]*FunctionSource
	instrs  map[uint64]*Instr
	parts   map[*Part]*PartFunction

	Callings []*Call // edges where this function is the caller
	Callers  []*Call // edges where this function is the callee

	// Cycle is non-nil when this function was folded into a recursion
	// cycle. Cycle == this function marks the synthetic node representing
	// the whole cycle; any other value names the cycle this member joined.
	Cycle       *Function
	CycleNumber int
	// cycleInfo backs Cycle == this function: the FunctionCycle this
	// synthetic node represents, so recompute can delegate to its
	// Self/Inclusive instead of summing PartFunction mirrors directly.
	cycleInfo *FunctionCycle

	self      CostArray
	inclusive CostArray
	dirty     bool
}

// PrettyName returns the display name, suffixed with the owning cycle's
// number for functions folded into a recursion cycle.
func (f *Function) PrettyName() string {
	if f.Cycle == nil {
		return f.Name
	}
	if f.Cycle == f {
		return fmt.Sprintf("<cycle %d>", f.CycleNumber)
	}
	return fmt.Sprintf("%s <cycle %d>", f.Name, f.Cycle.CycleNumber)
}

// Invalidate marks this function's cached aggregates dirty, along with the
// aggregates of its Object, Class and source Files that sum over it.
func (f *Function) Invalidate() {
	f.dirty = true
	if f.Object != nil {
		f.Object.Invalidate()
	}
	if f.Class != nil {
		f.Class.Invalidate()
	}
	for file := range f.sources {
		file.Invalidate()
	}
}

func (f *Function) recompute() {
	switch {
	case f.Cycle == f:
		// Synthetic cycle-base node: its cost is entirely defined by its
		// members, via the cycle's own folding rules.
		f.self = *f.cycleInfo.Self()
		f.inclusive = *f.cycleInfo.Inclusive()
	case f.Cycle != nil:
		// Cycle member: self is the ordinary sum, but inclusive excludes
		// calls to any other member of the same cycle (and direct
		// self-recursion), since that cost is already folded into the
		// cycle base's inclusive cost instead.
		f.self.Clear()
		for p, pf := range f.parts {
			if !p.Active {
				continue
			}
			f.self.AddArray(&pf.Self)
		}
		f.inclusive = f.self
		for _, call := range f.Callings {
			if call.Callee.Cycle == f.Cycle {
				continue
			}
			f.inclusive.AddArray(call.Cost())
		}
	default:
		f.self.Clear()
		f.inclusive.Clear()
		for p, pf := range f.parts {
			if !p.Active {
				continue
			}
			f.self.AddArray(&pf.Self)
			f.inclusive.AddArray(&pf.Inclusive)
		}
	}
	f.dirty = false
}

// Self returns the self-cost aggregate over every active part.
func (f *Function) Self() *CostArray {
	if f.dirty {
		f.recompute()
	}
	return &f.self
}

// Inclusive returns the inclusive-cost aggregate over every active part.
func (f *Function) Inclusive() *CostArray {
	if f.dirty {
		f.recompute()
	}
	return &f.inclusive
}

// PartFunction returns (creating if needed) this function's per-part
// mirror, registering it as a dirty-on-activation-change dependency.
func (f *Function) PartFunction(p *Part) *PartFunction {
	if pf, ok := f.parts[p]; ok {
		return pf
	}
	pf := &PartFunction{Function: f, Part: p}
	f.parts[p] = pf
	f.Invalidate()
	return pf
}

// Source returns (creating if needed) the FunctionSource mirroring this
// function's lines within file.
func (f *Function) Source(file *File) *FunctionSource {
	if fs, ok := f.sources[file]; ok {
		return fs
	}
	fs := &FunctionSource{Function: f, File: file, lines: map[uint32]*Line{}}
	f.sources[file] = fs
	if file != nil {
		file.functions[f.Name] = f
		file.Invalidate()
	}
	return fs
}

// Instr returns (creating if needed) the Instr at addr within this function.
func (f *Function) Instr(addr subcost.Addr) *Instr {
	key := uint64(addr)
	if in, ok := f.instrs[key]; ok {
		return in
	}
	in := &Instr{Function: f, Addr: addr, parts: map[*Part]*PartInstr{}}
	f.instrs[key] = in
	return in
}

// Sources returns every FunctionSource for this function, sorted by file
// name.
func (f *Function) Sources() []*FunctionSource {
	out := make([]*FunctionSource, 0, len(f.sources))
	for _, fs := range f.sources {
		out = append(out, fs)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].File.Name < out[j].File.Name })
	return out
}

// FunctionSource aggregates one function's cost within one source file,
// needed because inlining can let a single function span several files.
type FunctionSource struct {
	Function *Function
	File     *File

	lines map[uint32]*Line

	self  CostArray
	dirty bool
}

func (fs *FunctionSource) Invalidate() { fs.dirty = true }

// Self recomputes (if dirty) and returns the sum of every line's self cost.
func (fs *FunctionSource) Self() *CostArray {
	if fs.dirty {
		fs.self.Clear()
		for _, ln := range fs.lines {
			fs.self.AddArray(ln.Self())
		}
		fs.dirty = false
	}
	return &fs.self
}

// Line returns (creating if needed) the Line at number within this source.
func (fs *FunctionSource) Line(number uint32) *Line {
	if ln, ok := fs.lines[number]; ok {
		return ln
	}
	ln := &Line{Source: fs, Number: number, ToNumber: number, parts: map[*Part]*PartLine{}}
	fs.lines[number] = ln
	fs.Invalidate()
	return ln
}

// LineRange is Line, but widens the line's ToNumber to cover a range when a
// cost line's position used the "+N"/"-N"/":N" range-suffix syntax.
func (fs *FunctionSource) LineRange(from, to uint32) *Line {
	ln := fs.Line(from)
	if to > ln.ToNumber {
		ln.ToNumber = to
	}
	return ln
}

// Lines returns every Line of this source, sorted ascending by number.
func (fs *FunctionSource) Lines() []*Line {
	out := make([]*Line, 0, len(fs.lines))
	for _, ln := range fs.lines {
		out = append(out, ln)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out
}

// Line is one source line's cost, accumulated over every part/instr that
// attributes cost to it.
type Line struct {
	Source *FunctionSource
	Number uint32
	// ToNumber is Number unless a cost line attributed to this Line used a
	// range-suffix position ("+N"/"-N"/":N"), in which case it's the far
	// end of that range.
	ToNumber uint32

	parts map[*Part]*PartLine

	self  CostArray
	dirty bool
}

func (ln *Line) Invalidate() { ln.dirty = true }

func (ln *Line) recompute() {
	ln.self.Clear()
	for p, pl := range ln.parts {
		if !p.Active {
			continue
		}
		ln.self.AddArray(&pl.Self)
	}
	ln.dirty = false
}

// Self returns the self-cost aggregate over every active part.
func (ln *Line) Self() *CostArray {
	if ln.dirty {
		ln.recompute()
	}
	return &ln.self
}

// PartLine returns (creating if needed) this line's per-part mirror.
func (ln *Line) PartLine(p *Part) *PartLine {
	if pl, ok := ln.parts[p]; ok {
		return pl
	}
	pl := &PartLine{Line: ln, Part: p}
	ln.parts[p] = pl
	ln.Invalidate()
	return pl
}

// Instr is one machine instruction's cost, keyed by address.
type Instr struct {
	Function *Function
	Addr     subcost.Addr
	Line     *Line

	parts map[*Part]*PartInstr

	self  CostArray
	dirty bool
}

func (in *Instr) Invalidate() { in.dirty = true }

func (in *Instr) recompute() {
	in.self.Clear()
	for p, pi := range in.parts {
		if !p.Active {
			continue
		}
		in.self.AddArray(&pi.Self)
	}
	in.dirty = false
}

// Self returns the self-cost aggregate over every active part.
func (in *Instr) Self() *CostArray {
	if in.dirty {
		in.recompute()
	}
	return &in.self
}

// PartInstr returns (creating if needed) this instruction's per-part mirror.
func (in *Instr) PartInstr(p *Part) *PartInstr {
	if pi, ok := in.parts[p]; ok {
		return pi
	}
	pi := &PartInstr{Instr: in, Part: p}
	in.parts[p] = pi
	in.Invalidate()
	return pi
}
