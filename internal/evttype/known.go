package evttype

// KnownType describes one entry in the built-in event-type table. Real
// types have an empty Formula; derived types don't.
type KnownType struct {
	ShortName string
	LongName  string
	Formula   string
}

// KnownRealTypes lists every real event counter the loader recognizes by
// name in an "events:" line (order does not assign column indexes — the
// column order comes from the events: line itself).
var KnownRealTypes = []KnownType{
	{"Ir", "Instruction Fetch", ""},
	{"Dr", "Data Cache Reads", ""},
	{"Dw", "Data Cache Writes", ""},
	{"I1mr", "L1 Instr. Fetch Miss", ""},
	{"D1mr", "L1 Data Read Miss", ""},
	{"D1mw", "L1 Data Write Miss", ""},
	{"I2mr", "L2 Instr. Fetch Miss", ""},
	{"D2mr", "L2 Data Read Miss", ""},
	{"D2mw", "L2 Data Write Miss", ""},
	{"ILmr", "LL Instr. Fetch Miss", ""},
	{"DLmr", "LL Data Read Miss", ""},
	{"DLmw", "LL Data Write Miss", ""},
	{"Bi", "Conditional Branch", ""},
	{"Bim", "Mispredicted Cond. Branch", ""},
	{"Bc", "Indirect Branch", ""},
	{"Bcm", "Mispredicted Ind. Branch", ""},
	{"Bm", "Mispredicted Branch", ""},
	{"Ge", "Global Bus Event", ""},
	{"Smp", "Samples", ""},
	{"Sys", "System Call Time", ""},
	{"User", "User Time", ""},
}

// KnownDerivedTypes lists the built-in formula-defined event types.
var KnownDerivedTypes = []KnownType{
	{"L1m", "L1 Cache Miss Sum", "I1mr + D1mr + D1mw"},
	{"L2m", "L2 Cache Miss Sum", "I2mr + D2mr + D2mw"},
	{"LLm", "Last-level Cache Miss Sum", "ILmr + DLmr + DLmw"},
	{"CEst", "Cycle Estimation", "Ir + 10 Bm + 10 L1m + 20 Ge + 100 L2m + 100 LLm"},
}

// SeedKnown registers every known real type that a concrete column list
// actually uses, then adds whichever known derived types now resolve. Only
// names present in realNames get a column — the registry never reserves
// space for a real type the file never mentions.
func (s *EventTypeSet) SeedKnown(realNames []string) error {
	known := make(map[string]string, len(KnownRealTypes))
	for _, kt := range KnownRealTypes {
		known[kt.ShortName] = kt.LongName
	}
	for _, name := range realNames {
		long := known[name]
		if long == "" {
			long = name
		}
		if _, err := s.AddReal(name, long); err != nil {
			return err
		}
	}
	s.TryAddKnownDerived()
	return nil
}
