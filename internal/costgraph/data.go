package costgraph

import (
	"fmt"
	"sort"
	"strings"

	"github.com/standardbeagle/cgview/internal/evttype"
	"github.com/standardbeagle/cgview/internal/fixpool"
)

// Part is one loaded dump file's contribution to the graph. A run may
// contribute many Parts; each owns its sub-mapping and a totals array
// recomputed from the fixed records it introduced.
type Part struct {
	Number      int
	FileName    string
	Description string
	TriggerName string
	PID         int
	ThreadID    int
	Active      bool

	SubMapping *evttype.SubMapping
	Totals     CostArray
}

// NewPart creates a Part with Active defaulting to true, matching the
// loader's behavior of activating every part it successfully parses.
func NewPart(number int, fileName string) *Part {
	return &Part{Number: number, FileName: fileName, Active: true}
}

// Data owns every entity map, the Part list, the event-type registry, the
// fixed-cost pool, and the derived totals.
type Data struct {
	TraceName string
	Command   string

	objects   map[string]*Object
	files     map[string]*File
	classes   map[string]*Class
	functions map[string]*Function

	parts         []*Part
	maxPartNumber int
	maxThreadID   int

	jumps map[jumpKey]*Jump

	EventTypes *evttype.EventTypeSet
	Pool       *fixpool.Arena

	Totals CostArray

	Cycles []*FunctionCycle

	// CycleCutFraction records a cost-cut fraction for the cycle detector
	// (0 means no pruning). cycledetect.Detect takes its fraction as an
	// argument and does not read this field.
	CycleCutFraction float64
	// ShowCycles records whether cycles are to be collapsed. Nothing in
	// costgraph or cycledetect reads it; callers decide whether to run
	// cycledetect.Detect.
	ShowCycles bool
}

// NewData creates an empty graph with a fresh EventTypeSet and Pool.
func NewData() *Data {
	return &Data{
		objects:    make(map[string]*Object),
		files:      make(map[string]*File),
		classes:    make(map[string]*Class),
		functions:  make(map[string]*Function),
		EventTypes: evttype.NewEventTypeSet(),
		Pool:       fixpool.NewArena(),
		ShowCycles: true,
	}
}

// unknownObjectName / unknownFileName / unknownFunctionName are the shared
// sentinel names substituted for "???" or absent names at any name
// position.
const (
	unknownObjectName   = ""
	unknownFileName     = "???"
	unknownFunctionName = "???"
)

func normalizeUnknown(name string) string {
	if name == "???" {
		return unknownFunctionName
	}
	return name
}

// Object returns the named Object, creating it on first reference.
func (d *Data) Object(name string) *Object {
	if name == "???" {
		name = unknownObjectName
	}
	if o, ok := d.objects[name]; ok {
		return o
	}
	o := &Object{Name: name, data: d, functions: map[string]*Function{}}
	d.objects[name] = o
	return o
}

// File returns the named File, creating it on first reference.
func (d *Data) File(name string) *File {
	name = normalizeUnknown(name)
	if f, ok := d.files[name]; ok {
		return f
	}
	f := &File{Name: name, data: d, functions: map[string]*Function{}}
	d.files[name] = f
	return f
}

// Class returns the Class derived from a function name's "A::B::method"
// prefix (everything before the last "::"), creating it on first reference.
// Names without "::" belong to no class and Class returns nil.
func (d *Data) Class(functionName string) *Class {
	idx := strings.LastIndex(functionName, "::")
	if idx < 0 {
		return nil
	}
	name := functionName[:idx]
	if c, ok := d.classes[name]; ok {
		return c
	}
	c := &Class{Name: name, data: d, functions: map[string]*Function{}}
	d.classes[name] = c
	return c
}

// functionKey combines a function name with its object's short name (the
// file is deliberately excluded — inlined code can span files).
func functionKey(name string, obj *Object) string {
	short := ""
	if obj != nil {
		short = obj.ShortName()
	}
	return name + "\x00" + short
}

// Function returns the Function identified by (name, obj), creating it
// (and linking it into obj's and its Class's function sets) on first
// reference.
func (d *Data) Function(name string, obj *Object) *Function {
	name = normalizeUnknown(name)
	key := functionKey(name, obj)
	if f, ok := d.functions[key]; ok {
		return f
	}
	f := &Function{
		Name:    name,
		Object:  obj,
		data:    d,
		sources: map[*File]*FunctionSource{},
		instrs:  map[uint64]*Instr{},
		parts:   map[*Part]*PartFunction{},
	}
	d.functions[key] = f
	if obj != nil {
		obj.functions[name] = f
	}
	if cls := d.Class(name); cls != nil {
		f.Class = cls
		cls.functions[name] = f
	}
	return f
}

// AllFunctions returns every non-synthetic Function plus cycle nodes.
func (d *Data) AllFunctions() []*Function {
	out := make([]*Function, 0, len(d.functions)+len(d.Cycles))
	for _, f := range d.functions {
		out = append(out, f)
	}
	for _, c := range d.Cycles {
		out = append(out, c.Function)
	}
	return out
}

// AllObjects, AllFiles, AllClasses mirror AllFunctions for their entity kind.
func (d *Data) AllObjects() []*Object {
	out := make([]*Object, 0, len(d.objects))
	for _, o := range d.objects {
		out = append(out, o)
	}
	return out
}

func (d *Data) AllFiles() []*File {
	out := make([]*File, 0, len(d.files))
	for _, f := range d.files {
		out = append(out, f)
	}
	return out
}

func (d *Data) AllClasses() []*Class {
	out := make([]*Class, 0, len(d.classes))
	for _, c := range d.classes {
		out = append(out, c)
	}
	return out
}

// AddPart appends part to the graph, updates max part/thread bookkeeping,
// and folds its totals into Data.Totals.
func (d *Data) AddPart(p *Part) {
	if p.Number > d.maxPartNumber {
		d.maxPartNumber = p.Number
	}
	if p.ThreadID > d.maxThreadID {
		d.maxThreadID = p.ThreadID
	}
	d.parts = append(d.parts, p)
	d.Totals.AddArray(&p.Totals)
}

// NextPartNumber returns the part number a newly loaded file should use if
// its dump has no explicit "part:" header.
func (d *Data) NextPartNumber() int { return d.maxPartNumber + 1 }

// Parts returns every loaded Part, in load order.
func (d *Data) Parts() []*Part { return d.parts }

// ActiveParts returns every Part currently marked active.
func (d *Data) ActiveParts() []*Part {
	out := make([]*Part, 0, len(d.parts))
	for _, p := range d.parts {
		if p.Active {
			out = append(out, p)
		}
	}
	return out
}

// ActivatePartRange sets Active for exactly the Parts whose Number is in
// numbers, deactivating every other Part. Reports whether the active set
// actually changed.
func (d *Data) ActivatePartRange(numbers []int) bool {
	want := make(map[int]bool, len(numbers))
	for _, n := range numbers {
		want[n] = true
	}
	changed := false
	for _, p := range d.parts {
		newActive := want[p.Number]
		if newActive != p.Active {
			changed = true
			p.Active = newActive
		}
	}
	if changed {
		d.InvalidateDynamicCost()
	}
	return changed
}

// InvalidateDynamicCost marks every entity's cached aggregates dirty. It is
// called whenever the active-part set changes.
func (d *Data) InvalidateDynamicCost() {
	for _, o := range d.objects {
		o.Invalidate()
	}
	for _, f := range d.files {
		f.Invalidate()
	}
	for _, c := range d.classes {
		c.Invalidate()
	}
	for _, fn := range d.functions {
		fn.Invalidate()
		for _, src := range fn.sources {
			src.Invalidate()
			for _, ln := range src.lines {
				ln.Invalidate()
			}
		}
		for _, in := range fn.instrs {
			in.Invalidate()
		}
		for _, call := range fn.Callings {
			call.Invalidate()
		}
	}
	for _, j := range d.jumps {
		j.Invalidate()
	}
	for _, c := range d.Cycles {
		c.Function.Invalidate()
	}
}

// ActivePartRange formats the numbers of every active Part as compact
// ranges, e.g. "1-3;7".
func (d *Data) ActivePartRange() string {
	nums := make([]int, 0, len(d.parts))
	for _, p := range d.parts {
		if p.Active {
			nums = append(nums, p.Number)
		}
	}
	sort.Ints(nums)
	if len(nums) == 0 {
		return ""
	}
	var b strings.Builder
	start := nums[0]
	prev := nums[0]
	flush := func(end int) {
		if b.Len() > 0 {
			b.WriteByte(';')
		}
		if start == end {
			fmt.Fprintf(&b, "%d", start)
		} else {
			fmt.Fprintf(&b, "%d-%d", start, end)
		}
	}
	for _, n := range nums[1:] {
		if n == prev+1 {
			prev = n
			continue
		}
		flush(prev)
		start, prev = n, n
	}
	flush(prev)
	return b.String()
}
