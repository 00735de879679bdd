package subcost

import "testing"

func TestSubCostAddSaturates(t *testing.T) {
	max := MaxSubCost
	if got := max.Add(1); got != MaxSubCost {
		t.Fatalf("expected saturation, got %d", got)
	}
	if got := SubCost(2).Add(3); got != 5 {
		t.Fatalf("expected 5, got %d", got)
	}
}

func TestParseSubCost(t *testing.T) {
	cases := []struct {
		in   string
		want SubCost
		ok   bool
	}{
		{"100", 100, true},
		{"  100  ", 100, true},
		{"0x1F", 31, true},
		{"", 0, false},
		{"abc", 0, false},
	}
	for _, c := range cases {
		got, ok := ParseSubCost(c.in)
		if ok != c.ok || got != c.want {
			t.Errorf("ParseSubCost(%q) = (%d,%v), want (%d,%v)", c.in, got, ok, c.want, c.ok)
		}
	}
}

func TestPretty(t *testing.T) {
	cases := []struct {
		in   SubCost
		want string
	}{
		{0, "0"},
		{9, "9"},
		{100, "100"},
		{1000, "1 000"},
		{1234567, "1 234 567"},
	}
	for _, c := range cases {
		if got := c.in.Pretty(' '); got != c.want {
			t.Errorf("Pretty(%d) = %q, want %q", c.in, got, c.want)
		}
	}
}
