package jobs

import "testing"

func TestLookupDefaults(t *testing.T) {
	for _, name := range []string{"", "not-a-job", "QUEEN"} {
		if got := Lookup(name); got != Default {
			t.Fatalf("Lookup(%q) = %+v, want default", name, got)
		}
	}
	if got := Lookup("soldier"); got.Strength != 8 {
		t.Fatalf("unexpected soldier stats %+v", got)
	}
}

func TestParse(t *testing.T) {
	if j, ok := Parse("scout"); !ok || j != Scout {
		t.Fatalf("expected scout, got %q %v", j, ok)
	}
	if _, ok := Parse("drone"); ok {
		t.Fatalf("drone should be unknown")
	}
	for _, j := range All() {
		if _, ok := Parse(string(j)); !ok {
			t.Fatalf("All() lists unknown job %q", j)
		}
	}
}
