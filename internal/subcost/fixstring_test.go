package subcost

import "testing"

func TestStripPrefix(t *testing.T) {
	f := NewFixString("fn=main")
	if !f.StripPrefix("fn=") {
		t.Fatal("expected prefix to strip")
	}
	if f.String() != "main" {
		t.Fatalf("got %q", f.String())
	}
}

func TestStripUInt(t *testing.T) {
	f := NewFixString("  123 rest")
	v, ok := f.StripUInt(true)
	if !ok || v != 123 {
		t.Fatalf("got %d,%v", v, ok)
	}
	if f.String() != " rest" {
		t.Fatalf("got %q", f.String())
	}
}

func TestStripUIntHex(t *testing.T) {
	f := NewFixString("0x1F rest")
	v, ok := f.StripUInt(false)
	if !ok || v != 31 {
		t.Fatalf("got %d,%v", v, ok)
	}
}

func TestStripInt64Negative(t *testing.T) {
	f := NewFixString("-5 tail")
	v, ok := f.StripInt64(false)
	if !ok || v != -5 {
		t.Fatalf("got %d,%v", v, ok)
	}
}

func TestStripName(t *testing.T) {
	f := NewFixString("main_func(int) more")
	name, ok := f.StripName()
	if !ok || name != "main_func" {
		t.Fatalf("got %q,%v", name, ok)
	}
}

func TestStripUntil(t *testing.T) {
	f := NewFixString("a.c:10")
	head := f.StripUntil(':')
	if head.String() != "a.c" || f.String() != "10" {
		t.Fatalf("got %q / %q", head.String(), f.String())
	}
}
