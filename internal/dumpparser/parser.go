// Package dumpparser turns Callgrind/Cachegrind dump files into
// costgraph.Part entries attached to a shared costgraph.Data graph.
package dumpparser

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/standardbeagle/cgview/internal/cgerrors"
	"github.com/standardbeagle/cgview/internal/costgraph"
	"github.com/standardbeagle/cgview/internal/evttype"
	"github.com/standardbeagle/cgview/internal/subcost"
)

// Parser loads dump files into a shared graph. It is not safe for
// concurrent use; Load (load.go) opens files concurrently but feeds them
// to a single Parser one after another, so graph mutation stays serial.
type Parser struct {
	Data   *costgraph.Data
	Logger cgerrors.Loader
}

// New creates a Parser writing into data and reporting through logger. A
// nil logger is replaced with cgerrors.NopLoader.
func New(data *costgraph.Data, logger cgerrors.Loader) *Parser {
	if logger == nil {
		logger = cgerrors.NopLoader{}
	}
	return &Parser{Data: data, Logger: logger}
}

// state is the per-file mutable parsing context.
type state struct {
	p    *Parser
	ff   *subcost.FixFile
	part *costgraph.Part

	hasInstrCol bool // "positions:" lists "instr"
	hasLineCol  bool // "positions:" lists "line" (default true if absent)

	objs  *compressedTable
	files *compressedTable
	funcs *compressedTable

	subMapping *evttype.SubMapping

	curObj  *costgraph.Object
	curFile *costgraph.File
	curFunc *costgraph.Function

	callObj  *costgraph.Object
	callFile *costgraph.File
	callFunc *costgraph.Function

	pos posState

	pendingCalls    uint64
	pendingCallSeen bool

	declaredSummary []uint64
	warnings        []*cgerrors.LineWarning
}

// ParseFile loads one dump file into a new costgraph.Part, registers it on
// p.Data, and returns it.
func (p *Parser) ParseFile(path string) (*costgraph.Part, error) {
	ff, err := subcost.OpenFixFile(path)
	if err != nil {
		err = &cgerrors.LoaderError{Path: path, Err: err}
		p.Logger.LoadStart(path)
		p.Logger.LoadFinished(path, err)
		return nil, err
	}
	return p.ParseOpened(ff)
}

// ParseOpened runs the dispatch loop over an already-opened file, letting
// Load (load.go) read every file concurrently first and then parse them
// one at a time through a single Parser.
//
// Only a *cgerrors.FormatError aborts the file outright; every other
// problem a line can raise is logged as a LineError or LineWarning and
// parsing continues, synthesizing "???" sentinels where a name was needed
// so later lines still have somewhere to attach.
func (p *Parser) ParseOpened(ff *subcost.FixFile) (*costgraph.Part, error) {
	path := ff.Path()
	p.Logger.LoadStart(path)

	part := costgraph.NewPart(p.Data.NextPartNumber(), path)
	st := &state{
		p:          p,
		ff:         ff,
		part:       part,
		hasLineCol: true,
		objs:       newCompressedTable(),
		files:      newCompressedTable(),
		funcs:      newCompressedTable(),
	}

	lastPercent := -1
	for {
		line, ok := ff.NextLine()
		if !ok {
			break
		}
		if err := st.dispatch(line.String()); err != nil {
			var fe *cgerrors.FormatError
			if errors.As(err, &fe) {
				lerr := &cgerrors.LineError{Path: fe.Path, Line: fe.Line, Msg: fe.Msg}
				p.Logger.LoadError(lerr)
				p.Logger.LoadFinished(path, fe)
				return nil, fe
			}
			lerr := &cgerrors.LineError{Path: path, Line: ff.LineNumber(), Msg: err.Error()}
			p.Logger.LoadError(lerr)
			continue
		}
		if pct := ff.PercentRead(); pct != lastPercent {
			p.Logger.LoadProgress(path, pct)
			lastPercent = pct
		}
	}

	st.crossCheckSummary()
	for _, w := range st.warnings {
		p.Logger.LoadWarning(w)
	}

	p.Data.AddPart(part)
	p.Logger.LoadFinished(path, nil)
	return part, nil
}

func (st *state) warn(msg string) {
	st.warnings = append(st.warnings, &cgerrors.LineWarning{
		Path: st.ff.Path(),
		Line: st.ff.LineNumber(),
		Msg:  msg,
	})
}

func (st *state) fatal(msg string) error {
	return &cgerrors.FormatError{Path: st.ff.Path(), Line: st.ff.LineNumber(), Msg: msg}
}

// ensureCurFunc returns the current function, synthesizing the "???"
// sentinel (and warning about it) the first time a line needs one that was
// never set by an "fn=" line.
func (st *state) ensureCurFunc() *costgraph.Function {
	if st.curFunc == nil {
		st.warn("function not specified, using unknown")
		st.curFunc = st.p.Data.Function("???", st.curObj)
	}
	return st.curFunc
}

// ensureCallFunc is ensureCurFunc's counterpart for the call-target side.
func (st *state) ensureCallFunc() *costgraph.Function {
	if st.callFunc == nil {
		st.warn("function not specified, using unknown")
		obj := st.callObj
		if obj == nil {
			obj = st.curObj
		}
		st.callFunc = st.p.Data.Function("???", obj)
	}
	return st.callFunc
}

func (st *state) dispatch(line string) error {
	line = strings.TrimRight(line, " \t")
	if line == "" {
		return nil
	}
	if line[0] == '#' {
		return nil
	}

	if key, rest, ok := splitHeader(line); ok {
		switch key {
		case "version", "creator":
			return nil
		case "pid":
			st.part.PID, _ = strconv.Atoi(strings.TrimSpace(rest))
			return nil
		case "thread":
			st.part.ThreadID, _ = strconv.Atoi(strings.TrimSpace(rest))
			return nil
		case "part":
			if n, err := strconv.Atoi(strings.TrimSpace(rest)); err == nil {
				st.part.Number = n
			}
			return nil
		case "desc":
			st.part.Description = strings.TrimSpace(rest)
			return nil
		case "cmd":
			st.part.TriggerName = strings.TrimSpace(rest)
			st.p.Data.Command = strings.TrimSpace(rest)
			return nil
		case "positions":
			st.hasLineCol = strings.Contains(rest, "line")
			st.hasInstrCol = strings.Contains(rest, "instr")
			if !st.hasLineCol && !st.hasInstrCol {
				st.hasLineCol = true
			}
			return nil
		case "events":
			return st.handleEvents(rest)
		case "summary":
			return st.handleSummary(rest)
		case "totals":
			return nil
		}
	}

	switch {
	case hasPrefix(line, "ob="):
		return st.handleOb(line[3:])
	case hasPrefix(line, "fl=") || hasPrefix(line, "fi=") || hasPrefix(line, "fe="):
		return st.handleFl(line[3:])
	case hasPrefix(line, "fn="):
		return st.handleFn(line[3:])
	case hasPrefix(line, "cob="):
		return st.handleCob(line[4:])
	case hasPrefix(line, "cfl=") || hasPrefix(line, "cfi="):
		return st.handleCfl(line[4:])
	case hasPrefix(line, "cfn="):
		return st.handleCfn(line[4:])
	case hasPrefix(line, "calls="):
		return st.handleCalls(line[6:])
	case hasPrefix(line, "rcalls="):
		st.warn("deprecated rcalls= treated as calls=")
		return st.handleCalls(line[7:])
	case hasPrefix(line, "jump="):
		return st.handleJump(line[5:], false)
	case hasPrefix(line, "jcnd="):
		return st.handleJump(line[5:], true)
	case hasPrefix(line, "jfi="), hasPrefix(line, "jfl="), hasPrefix(line, "jcob="):
		return nil
	default:
		if eqIdx := strings.IndexByte(line, '='); eqIdx > 0 && isLikelyKey(line[:eqIdx]) {
			st.warn(fmt.Sprintf("unknown line prefix %q", line[:eqIdx+1]))
			return nil
		}
		return st.handleCostLine(line)
	}
}

func hasPrefix(s, prefix string) bool { return strings.HasPrefix(s, prefix) }

// isLikelyKey reports whether s looks like a "key=" token's key (a bare run
// of lowercase letters), as opposed to a cost line's leading position token.
func isLikelyKey(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < 'a' || c > 'z' {
			return false
		}
	}
	return true
}

// splitHeader recognizes "key: value" header lines (colon, not equals).
func splitHeader(line string) (key, rest string, ok bool) {
	idx := strings.IndexByte(line, ':')
	if idx < 0 {
		return "", "", false
	}
	key = line[:idx]
	for _, c := range key {
		if !(c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z') {
			return "", "", false
		}
	}
	return key, line[idx+1:], true
}

func (st *state) handleEvents(rest string) error {
	names := strings.Fields(rest)
	if len(names) == 0 {
		st.warn("events: line with no columns")
		return nil
	}
	if err := st.p.Data.EventTypes.SeedKnown(names); err != nil {
		st.warn(fmt.Sprintf("events: %v", err))
		return nil
	}
	sm, ok := st.p.Data.EventTypes.NewSubMapping(names, true)
	if !ok {
		st.warn(fmt.Sprintf("events: could not build sub-mapping for %v", names))
		return nil
	}
	st.subMapping = sm
	return nil
}

func (st *state) handleSummary(rest string) error {
	fields := strings.Fields(rest)
	declared := make([]uint64, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseUint(f, 10, 64)
		if err != nil {
			st.warn(fmt.Sprintf("summary: field %d (%q) is not a number", i, f))
			continue
		}
		declared[i] = v
	}
	st.declaredSummary = declared
	return nil
}

func (st *state) handleOb(rest string) error {
	name, ok, redefined := st.objs.resolve(rest)
	if redefined {
		st.warn(fmt.Sprintf("ob=: compressed ID redefined with a different name (now %q)", name))
	}
	if !ok {
		st.warn(fmt.Sprintf("ob=: unknown compressed reference %q, using unnamed object", rest))
		name = ""
	}
	st.curObj = st.p.Data.Object(name)
	return nil
}

func (st *state) handleFl(rest string) error {
	name, ok, redefined := st.files.resolve(rest)
	if redefined {
		st.warn(fmt.Sprintf("fl=/fi=/fe=: compressed ID redefined with a different name (now %q)", name))
	}
	if !ok {
		st.warn(fmt.Sprintf("fl=/fi=/fe=: unknown compressed reference %q, using ???", rest))
		name = "???"
	}
	st.curFile = st.p.Data.File(name)
	return nil
}

func (st *state) handleFn(rest string) error {
	name, ok, redefined := st.funcs.resolve(rest)
	if redefined {
		st.warn(fmt.Sprintf("fn=: compressed ID redefined with a different name (now %q)", name))
	}
	if !ok {
		st.warn(fmt.Sprintf("fn=: unknown compressed reference %q, using ???", rest))
		name = "???"
	}
	st.curFunc = st.p.Data.Function(name, st.curObj)
	return nil
}

func (st *state) handleCob(rest string) error {
	name, ok, redefined := st.objs.resolve(rest)
	if redefined {
		st.warn(fmt.Sprintf("cob=: compressed ID redefined with a different name (now %q)", name))
	}
	if !ok {
		st.warn(fmt.Sprintf("cob=: unknown compressed reference %q, using unnamed object", rest))
		name = ""
	}
	st.callObj = st.p.Data.Object(name)
	return nil
}

func (st *state) handleCfl(rest string) error {
	name, ok, redefined := st.files.resolve(rest)
	if redefined {
		st.warn(fmt.Sprintf("cfl=/cfi=: compressed ID redefined with a different name (now %q)", name))
	}
	if !ok {
		st.warn(fmt.Sprintf("cfl=/cfi=: unknown compressed reference %q, using ???", rest))
		name = "???"
	}
	st.callFile = st.p.Data.File(name)
	return nil
}

func (st *state) handleCfn(rest string) error {
	name, ok, redefined := st.funcs.resolve(rest)
	if redefined {
		st.warn(fmt.Sprintf("cfn=: compressed ID redefined with a different name (now %q)", name))
	}
	if !ok {
		st.warn(fmt.Sprintf("cfn=: unknown compressed reference %q, using ???", rest))
		name = "???"
	}
	obj := st.callObj
	if obj == nil {
		obj = st.curObj
	}
	st.callFunc = st.p.Data.Function(name, obj)
	return nil
}

func (st *state) handleCalls(rest string) error {
	fields := strings.Fields(rest)
	if len(fields) == 0 {
		st.warn("calls=: missing count")
		return nil
	}
	n, err := strconv.ParseUint(fields[0], 10, 64)
	if err != nil {
		st.warn(fmt.Sprintf("calls=: bad count %q", fields[0]))
		return nil
	}
	// The remaining fields are the target position in the callee, encoded
	// the same way a cost line's leading position is; we only need them to
	// advance the call-target delta state.
	for i, tok := range fields[1:] {
		if st.hasLineCol && i == 0 {
			if from, to, clipped, ok := parseLine(tok, st.pos.callLine, st.pos.callLineTo); ok {
				st.pos.callLine, st.pos.callLineTo = from, to
				if clipped {
					st.warn("negative line number clipped to zero")
				}
			} else {
				st.warn(fmt.Sprintf("calls=: invalid position specifier %q", tok))
			}
		} else if st.hasInstrCol {
			if from, to, ok := parseAddr(tok, st.pos.callAddr, st.pos.callAddrTo); ok {
				st.pos.callAddr, st.pos.callAddrTo = from, to
			} else {
				st.warn(fmt.Sprintf("calls=: invalid position specifier %q", tok))
			}
		}
	}
	st.pendingCalls = n
	st.pendingCallSeen = true
	return nil
}

func (st *state) handleJump(rest string, conditional bool) error {
	fields := strings.Fields(rest)
	if len(fields) == 0 {
		st.warn("jump=/jcnd=: missing count")
		return nil
	}
	var executed, followed uint64
	var err error
	if conditional && strings.Contains(fields[0], "/") {
		parts := strings.SplitN(fields[0], "/", 2)
		followed, err = strconv.ParseUint(parts[0], 10, 64)
		if err == nil {
			executed, err = strconv.ParseUint(parts[1], 10, 64)
		}
	} else {
		executed, err = strconv.ParseUint(fields[0], 10, 64)
		followed = executed
	}
	if err != nil {
		st.warn(fmt.Sprintf("jump=/jcnd=: bad count %q, malformed jump ignored", fields[0]))
		return nil
	}
	fn := st.ensureCurFunc()
	j := st.p.Data.Jump(fn, st.pos.addr, fn, st.pos.addr, conditional)
	pj := j.PartJump(st.part)
	fj := costgraph.NewFixJump(st.p.Data.Pool, executed, followed)
	pj.AddFixed(fj)
	return nil
}

// handleCostLine parses a position-prefixed cost line, applying it either
// as self cost on the current position (no pending call) or as the
// caller's call-edge inclusive cost (pending call).
func (st *state) handleCostLine(line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}

	idx := 0
	pos := subcost.Position{}
	if st.hasLineCol {
		if idx >= len(fields) {
			st.warn("cost line missing line position")
			return nil
		}
		from, to, clipped, ok := parseLine(fields[idx], st.pos.line, st.pos.lineTo)
		if !ok {
			st.warn(fmt.Sprintf("cost line: invalid position specifier %q", fields[idx]))
			return nil
		}
		if clipped {
			st.warn("negative line number clipped to zero")
		}
		st.pos.line, st.pos.lineTo = from, to
		pos.FromLine, pos.ToLine = from, to
		idx++
	}
	if st.hasInstrCol {
		if idx >= len(fields) {
			st.warn("cost line missing instr position")
			return nil
		}
		from, to, ok := parseAddr(fields[idx], st.pos.addr, st.pos.addrTo)
		if !ok {
			st.warn(fmt.Sprintf("cost line: invalid position specifier %q", fields[idx]))
			return nil
		}
		st.pos.addr, st.pos.addrTo = from, to
		pos.FromAddr, pos.ToAddr = from, to
		idx++
	}

	if st.subMapping == nil {
		return st.fatal("no events: line ever seen before the first cost line")
	}

	values := fields[idx:]
	if len(values) > st.subMapping.Count() {
		st.warn(fmt.Sprintf("garbage after cost line (%d extra column(s))", len(values)-st.subMapping.Count()))
		values = values[:st.subMapping.Count()]
	}
	nums := make([]uint64, len(values))
	for i, tok := range values {
		v, err := strconv.ParseUint(tok, 10, 64)
		if err != nil {
			st.warn(fmt.Sprintf("cost line: bad value %q, using 0", tok))
			continue
		}
		nums[i] = v
	}
	raw := st.subMapping.Apply(nums)

	if st.pendingCallSeen {
		caller := st.ensureCurFunc()
		callee := st.ensureCallFunc()
		call := st.p.Data.Call(caller, callee)
		pc := call.PartCall(st.part)
		fcc := costgraph.NewFixCallCost(st.p.Data.Pool, raw, st.pendingCalls)
		pc.AddFixed(fcc)
		caller.PartFunction(st.part).AddFixedCallCost(&fcc.FixCost)
		st.pendingCalls = 0
		st.pendingCallSeen = false
		return nil
	}

	fc := costgraph.NewFixCost(st.p.Data.Pool, raw)
	var cost costgraph.CostArray
	fc.AddInto(&cost)

	fn := st.ensureCurFunc()
	pf := fn.PartFunction(st.part)
	pf.AddFixedCost(fc)
	st.part.Totals.AddArray(&cost)

	if st.hasLineCol && st.curFile != nil {
		src := fn.Source(st.curFile)
		ln := src.LineRange(pos.Line(), pos.ToLine)
		ln.PartLine(st.part).AddCost(&cost)
	}
	if st.hasInstrCol {
		in := fn.Instr(pos.Addr())
		in.PartInstr(st.part).AddCost(&cost)
	}

	return nil
}
