package costgraph

import "sort"

// Object is a binary or shared library named in an "ob=" line. Its cost is
// the sum of every function it owns, across all active parts.
type Object struct {
	Name string

	data      *Data
	functions map[string]*Function

	self  CostArray
	dirty bool
}

// ShortName is the base name used as a Function's secondary key: the
// trailing path component of Name. No suffix such as ".so" is stripped.
func (o *Object) ShortName() string {
	name := o.Name
	if idx := lastSlash(name); idx >= 0 {
		name = name[idx+1:]
	}
	return name
}

func lastSlash(s string) int {
	for i := len(s) - 1; i >= 0; i-- {
		if s[i] == '/' {
			return i
		}
	}
	return -1
}

// Invalidate marks this object's cached aggregate dirty; it is recomputed
// lazily on the next Cost call.
func (o *Object) Invalidate() { o.dirty = true }

// Cost returns the aggregate cost of every owned function across active
// parts, recomputing it if dirty.
func (o *Object) Cost() *CostArray {
	if o.dirty {
		o.self.Clear()
		for _, f := range o.functions {
			o.self.AddArray(f.Self())
		}
		o.dirty = false
	}
	return &o.self
}

// Functions returns every function belonging to this object, sorted by name.
func (o *Object) Functions() []*Function {
	out := make([]*Function, 0, len(o.functions))
	for _, f := range o.functions {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// File is a source file named in an "fl=" line (or the synthetic "???"
// placeholder for addresses with no debug info).
type File struct {
	Name string

	data      *Data
	functions map[string]*Function

	self  CostArray
	dirty bool
}

func (f *File) Invalidate() { f.dirty = true }

func (f *File) Cost() *CostArray {
	if f.dirty {
		f.self.Clear()
		for _, fn := range f.functions {
			f.self.AddArray(fn.Self())
		}
		f.dirty = false
	}
	return &f.self
}

func (f *File) Functions() []*Function {
	out := make([]*Function, 0, len(f.functions))
	for _, fn := range f.functions {
		out = append(out, fn)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Class groups every Function whose name shares a "Namespace::Type::"
// prefix, derived purely from name syntax (no language-aware demangling).
type Class struct {
	Name string

	data      *Data
	functions map[string]*Function

	self  CostArray
	dirty bool
}

func (c *Class) Invalidate() { c.dirty = true }

func (c *Class) Cost() *CostArray {
	if c.dirty {
		c.self.Clear()
		for _, fn := range c.functions {
			c.self.AddArray(fn.Self())
		}
		c.dirty = false
	}
	return &c.self
}

func (c *Class) Functions() []*Function {
	out := make([]*Function, 0, len(c.functions))
	for _, fn := range c.functions {
		out = append(out, fn)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
