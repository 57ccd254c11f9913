package rules

import "testing"

func TestAmountOfRange(t *testing.T) {
	for n := 0; n <= MaxSpecificAmount; n++ {
		a, err := AmountOf(n)
		if err != nil {
			t.Fatalf("AmountOf(%d): %v", n, err)
		}
		if a.All || a.Count != n {
			t.Fatalf("AmountOf(%d) = %+v", n, a)
		}
	}
	if _, err := AmountOf(-1); err == nil {
		t.Fatal("expected error for negative amount")
	}
	if _, err := AmountOf(MaxSpecificAmount + 1); err == nil {
		t.Fatalf("expected error for amount above %d", MaxSpecificAmount)
	}
}

func TestAmountResolve(t *testing.T) {
	a, _ := AmountOf(3)
	if got := a.Resolve(10); got != 3 {
		t.Fatalf("specific resolve: got %d, want 3", got)
	}
	if got := AmountAll.Resolve(7); got != 7 {
		t.Fatalf("all resolve: got %d, want 7", got)
	}
	if got := AmountAll.Resolve(0); got != 0 {
		t.Fatalf("all resolve on empty source: got %d, want 0", got)
	}
}

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in   string
		want Amount
		ok   bool
	}{
		{"all", AmountAll, true},
		{"ALL", AmountAll, true},
		{" all ", AmountAll, true},
		{"0", Amount{Count: 0}, true},
		{"5", Amount{Count: 5}, true},
		{"6", Amount{}, false},
		{"-1", Amount{}, false},
		{"three", Amount{}, false},
	}
	for _, c := range cases {
		got, err := ParseAmount(c.in)
		if c.ok && err != nil {
			t.Fatalf("ParseAmount(%q): %v", c.in, err)
		}
		if !c.ok && err == nil {
			t.Fatalf("ParseAmount(%q): expected error", c.in)
		}
		if c.ok && got != c.want {
			t.Fatalf("ParseAmount(%q) = %+v, want %+v", c.in, got, c.want)
		}
	}
}

func TestAmountString(t *testing.T) {
	if AmountAll.String() != "all" {
		t.Fatalf("unexpected all string %q", AmountAll.String())
	}
	a, _ := AmountOf(2)
	if a.String() != "2" {
		t.Fatalf("unexpected count string %q", a.String())
	}
}

func TestSelectionModeRoundTrip(t *testing.T) {
	for _, m := range []SelectionMode{SelectionFirst, SelectionDestinationOwner, SelectionTargetOwner} {
		parsed, err := ParseSelectionMode(m.String())
		if err != nil {
			t.Fatalf("ParseSelectionMode(%q): %v", m.String(), err)
		}
		if parsed != m {
			t.Fatalf("round trip for %s: got %s", m, parsed)
		}
	}
	if _, err := ParseSelectionMode("random"); err == nil {
		t.Fatal("expected error for unknown selection mode")
	}
}
