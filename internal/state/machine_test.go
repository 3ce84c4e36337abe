package state

import "testing"

func TestDefaults(t *testing.T) {
	m := New()
	if m.Current() != Idle || m.Combat() != OutOfCombat || m.Terrain() != Default || m.Preferred() != Gathering {
		t.Fatalf("unexpected defaults: %s preferred=%s", m, m.Preferred())
	}
	if got := m.String(); got != "IDLE_OUT_OF_COMBAT_DEFAULT" {
		t.Fatalf("unexpected full state %q", got)
	}
}

func TestSetStateAllValidTriples(t *testing.T) {
	combats := []Combat{CombatUnset, InCombat, OutOfCombat}
	terrains := []Terrain{TerrainUnset, Default, InWater, InMud, OnRough, OnSlippery}

	for _, p := range Primaries() {
		for _, c := range combats {
			for _, tr := range terrains {
				m := New()
				if !m.SetState(p, c, tr) {
					t.Fatalf("SetState(%s, %q, %q) rejected", p, c, tr)
				}
				want := Full{Primary: p, Combat: c, Terrain: tr}
				if m.FullState() != want {
					t.Fatalf("got %+v, want %+v", m.FullState(), want)
				}
				if m.String() != want.String() {
					t.Fatalf("string mismatch %q vs %q", m.String(), want.String())
				}
			}
		}
	}
}

func TestSetStateIsAtomic(t *testing.T) {
	cases := []struct {
		name string
		p    Primary
		c    Combat
		tr   Terrain
	}{
		{"bad primary", Primary("FLYING"), InCombat, InMud},
		{"bad combat", Building, Combat("BERSERK"), InMud},
		{"bad terrain", Building, InCombat, Terrain("IN_LAVA")},
		{"empty primary", Primary(""), InCombat, InMud},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m := New()
			m.SetState(Moving, InCombat, OnRough)
			before := m.FullState()

			fired := 0
			m.OnChange(func(Change) { fired++ })

			if m.SetState(tc.p, tc.c, tc.tr) {
				t.Fatalf("expected rejection")
			}
			if m.FullState() != before {
				t.Fatalf("state mutated: %+v -> %+v", before, m.FullState())
			}
			if fired != 0 {
				t.Fatalf("observer fired on rejected set")
			}
		})
	}
}

func TestFullStateOmitsUnsetModifiers(t *testing.T) {
	m := New()
	m.SetCombat(CombatUnset)
	if got := m.String(); got != "IDLE_DEFAULT" {
		t.Fatalf("got %q", got)
	}
	m.SetTerrain(TerrainUnset)
	if got := m.String(); got != "IDLE" {
		t.Fatalf("got %q", got)
	}
	m.SetCombat(InCombat)
	if got := m.String(); got != "IDLE_IN_COMBAT" {
		t.Fatalf("got %q", got)
	}
}

func TestSettersRejectUnknown(t *testing.T) {
	m := New()
	if m.SetPrimary("SLEEPING") || m.SetCombat("ANGRY") || m.SetTerrain("IN_SPACE") {
		t.Fatalf("unknown values should be rejected")
	}
	if m.String() != "IDLE_OUT_OF_COMBAT_DEFAULT" {
		t.Fatalf("state changed: %s", m)
	}
}

func TestObserverFiresWithOldAndNew(t *testing.T) {
	m := New()
	var got []Change
	m.OnChange(func(c Change) { got = append(got, c) })

	m.SetPrimary(Gathering)
	m.SetState(Building, InCombat, InMud)
	m.Reset()
	m.ClearModifiers()

	if len(got) != 4 {
		t.Fatalf("expected 4 notifications, got %d", len(got))
	}
	if got[0].Old.Primary != Idle || got[0].New.Primary != Gathering {
		t.Fatalf("unexpected first change %+v", got[0])
	}
	if got[1].New != (Full{Primary: Building, Combat: InCombat, Terrain: InMud}) {
		t.Fatalf("unexpected second change %+v", got[1])
	}
	if got[2].New != (Full{Primary: Idle, Combat: OutOfCombat, Terrain: Default}) {
		t.Fatalf("reset did not restore defaults: %+v", got[2])
	}
	if len(m.History()) != 4 {
		t.Fatalf("expected 4 history entries, got %d", len(m.History()))
	}
}

func TestHistoryIsBounded(t *testing.T) {
	m := New()
	for i := 0; i < MaxHistory+5; i++ {
		m.SetPrimary(Moving)
	}
	if len(m.History()) != MaxHistory {
		t.Fatalf("history not bounded: %d", len(m.History()))
	}
}

func TestClearModifiers(t *testing.T) {
	m := New()
	m.SetState(Fighting, InCombat, OnSlippery)
	m.ClearModifiers()
	if m.Current() != Fighting || m.Combat() != OutOfCombat || m.Terrain() != Default {
		t.Fatalf("unexpected state after clear: %s", m)
	}
}

func TestPreferredResume(t *testing.T) {
	m := New()
	if m.SetPreferred("NAPPING") {
		t.Fatalf("invalid preferred state accepted")
	}
	if !m.SetPreferred(Building) {
		t.Fatalf("valid preferred state rejected")
	}
	m.SetPrimary(Fighting)
	if got := m.ResumePreferred(); got != Building || m.Current() != Building {
		t.Fatalf("resume went to %s", m.Current())
	}
}

func TestCanPerform(t *testing.T) {
	cases := []struct {
		name   string
		state  Full
		action Action
		want   bool
	}{
		{"attack needs combat", Full{Idle, OutOfCombat, Default}, ActAttack, false},
		{"attack in combat", Full{Fighting, InCombat, Default}, ActAttack, true},
		{"attack with unset combat", Full{Fighting, CombatUnset, Default}, ActAttack, false},
		{"move while idle", Full{Idle, OutOfCombat, Default}, ActMove, true},
		{"move while building", Full{Building, OutOfCombat, Default}, ActMove, false},
		{"move on slippery", Full{Moving, OutOfCombat, OnSlippery}, ActMove, false},
		{"move in mud", Full{Moving, OutOfCombat, InMud}, ActMove, true},
		{"gather while building", Full{Building, OutOfCombat, Default}, ActGather, false},
		{"gather on slippery", Full{Gathering, OutOfCombat, OnSlippery}, ActGather, true},
		{"build in combat", Full{Idle, InCombat, Default}, ActBuild, false},
		{"dead cannot move", Full{Dead, OutOfCombat, Default}, ActMove, false},
		{"unknown action", Full{Idle, OutOfCombat, Default}, Action("dance"), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m := New()
			m.SetState(tc.state.Primary, tc.state.Combat, tc.state.Terrain)
			if got := m.CanPerform(tc.action); got != tc.want {
				t.Fatalf("CanPerform(%s) in %s = %v, want %v", tc.action, m, got, tc.want)
			}
		})
	}
}

func TestPredicates(t *testing.T) {
	m := New()
	m.SetState(DroppingOff, InCombat, InMud)
	if !m.IsDroppingOff() || !m.IsInCombat() || !m.IsInMud() {
		t.Fatalf("predicates disagree with %s", m)
	}
	if m.IsIdle() || m.IsOutOfCombat() || m.IsOnSlippery() || m.IsDefaultTerrain() {
		t.Fatalf("unexpected true predicate for %s", m)
	}
}

func TestSummary(t *testing.T) {
	m := New()
	m.SetState(Building, OutOfCombat, Default)
	s := m.Summary()
	if s.Full != "BUILDING_OUT_OF_COMBAT_DEFAULT" || s.Preferred != Gathering {
		t.Fatalf("unexpected summary %+v", s)
	}
	for _, a := range s.Allowed {
		if a == ActMove || a == ActGather {
			t.Fatalf("%s should not be allowed while building", a)
		}
	}
	found := false
	for _, a := range s.Allowed {
		if a == ActBuild {
			found = true
		}
	}
	if !found {
		t.Fatalf("build should be allowed: %v", s.Allowed)
	}
}
