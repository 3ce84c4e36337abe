package state

// Defaults for a freshly spawned ant.
const (
	DefaultPrimary   = Idle
	DefaultCombat    = OutOfCombat
	DefaultTerrain   = Default
	DefaultPreferred = Gathering
)

// MaxHistory bounds the transition log kept per machine.
const MaxHistory = 16

// Change describes one state transition.
type Change struct {
	Old Full `json:"old"`
	New Full `json:"new"`
}

// Observer is notified synchronously after every successful mutation.
type Observer func(Change)

// Machine owns one ant's composite state. It is not safe for concurrent
// use; each ant's subsystems call it in a fixed order within a frame.
type Machine struct {
	primary   Primary
	combat    Combat
	terrain   Terrain
	preferred Primary

	observers []Observer
	history   []Change
}

// New creates a machine in the default state.
func New() *Machine {
	return &Machine{
		primary:   DefaultPrimary,
		combat:    DefaultCombat,
		terrain:   DefaultTerrain,
		preferred: DefaultPreferred,
	}
}

// OnChange registers an observer.
func (m *Machine) OnChange(fn Observer) {
	if fn == nil {
		return
	}
	m.observers = append(m.observers, fn)
}

// SetPrimary switches the primary activity. Unknown states are rejected
// and leave the machine untouched.
func (m *Machine) SetPrimary(p Primary) bool {
	if !p.Valid() {
		return false
	}
	old := m.FullState()
	m.primary = p
	m.notify(old)
	return true
}

// SetCombat sets or clears (CombatUnset) the combat modifier.
func (m *Machine) SetCombat(c Combat) bool {
	if !c.Valid() {
		return false
	}
	old := m.FullState()
	m.combat = c
	m.notify(old)
	return true
}

// SetTerrain sets or clears (TerrainUnset) the terrain modifier.
func (m *Machine) SetTerrain(t Terrain) bool {
	if !t.Valid() {
		return false
	}
	old := m.FullState()
	m.terrain = t
	m.notify(old)
	return true
}

// SetState replaces all three axes at once. If any axis is invalid nothing
// changes. Observers fire once.
func (m *Machine) SetState(p Primary, c Combat, t Terrain) bool {
	next := Full{Primary: p, Combat: c, Terrain: t}
	if !next.Valid() {
		return false
	}
	old := m.FullState()
	m.primary, m.combat, m.terrain = p, c, t
	m.notify(old)
	return true
}

// SetPreferred records the primary state to return to after an
// interruption. Only valid states are accepted.
func (m *Machine) SetPreferred(p Primary) bool {
	if !p.Valid() {
		return false
	}
	m.preferred = p
	return true
}

// ResumePreferred switches back to the preferred primary state.
func (m *Machine) ResumePreferred() Primary {
	old := m.FullState()
	m.primary = m.preferred
	m.notify(old)
	return m.primary
}

// Reset restores every axis and the preferred state to defaults.
func (m *Machine) Reset() {
	old := m.FullState()
	m.primary = DefaultPrimary
	m.combat = DefaultCombat
	m.terrain = DefaultTerrain
	m.preferred = DefaultPreferred
	m.notify(old)
}

// ClearModifiers restores both modifiers to their defaults.
func (m *Machine) ClearModifiers() {
	old := m.FullState()
	m.combat = DefaultCombat
	m.terrain = DefaultTerrain
	m.notify(old)
}

func (m *Machine) notify(old Full) {
	ch := Change{Old: old, New: m.FullState()}

	if len(m.history) < MaxHistory {
		m.history = append(m.history, ch)
	} else {
		copy(m.history, m.history[1:])
		m.history[len(m.history)-1] = ch
	}

	for _, fn := range m.observers {
		fn(ch)
	}
}

// FullState returns the composite value.
func (m *Machine) FullState() Full {
	return Full{Primary: m.primary, Combat: m.combat, Terrain: m.terrain}
}

// String returns the canonical full state string.
func (m *Machine) String() string {
	return m.FullState().String()
}

// Current returns the primary state.
func (m *Machine) Current() Primary { return m.primary }

// Combat returns the combat modifier.
func (m *Machine) Combat() Combat { return m.combat }

// Terrain returns the terrain modifier.
func (m *Machine) Terrain() Terrain { return m.terrain }

// Preferred returns the primary state resumed after interruptions.
func (m *Machine) Preferred() Primary { return m.preferred }

// CanPerform evaluates the action rule table against the current state.
func (m *Machine) CanPerform(a Action) bool {
	return Allowed(m.FullState(), a)
}

// History returns recent transitions, oldest first.
func (m *Machine) History() []Change {
	out := make([]Change, len(m.history))
	copy(out, m.history)
	return out
}

func (m *Machine) IsIdle() bool           { return m.primary == Idle }
func (m *Machine) IsMoving() bool         { return m.primary == Moving }
func (m *Machine) IsGathering() bool      { return m.primary == Gathering }
func (m *Machine) IsFollowingTrail() bool { return m.primary == FollowingTrail }
func (m *Machine) IsBuilding() bool       { return m.primary == Building }
func (m *Machine) IsDroppingOff() bool    { return m.primary == DroppingOff }
func (m *Machine) IsFighting() bool       { return m.primary == Fighting }
func (m *Machine) IsDead() bool           { return m.primary == Dead }
func (m *Machine) IsInCombat() bool       { return m.combat == InCombat }
func (m *Machine) IsOutOfCombat() bool    { return m.combat == OutOfCombat }
func (m *Machine) IsDefaultTerrain() bool { return m.terrain == Default }
func (m *Machine) IsInWater() bool        { return m.terrain == InWater }
func (m *Machine) IsInMud() bool          { return m.terrain == InMud }
func (m *Machine) IsOnRough() bool        { return m.terrain == OnRough }
func (m *Machine) IsOnSlippery() bool     { return m.terrain == OnSlippery }

// Summary is a read-only snapshot for display.
type Summary struct {
	Full      string   `json:"full"`
	Primary   Primary  `json:"primary"`
	Combat    Combat   `json:"combat,omitempty"`
	Terrain   Terrain  `json:"terrain,omitempty"`
	Preferred Primary  `json:"preferred"`
	Allowed   []Action `json:"allowed"`
}

// Summary returns a snapshot including the currently permitted actions.
func (m *Machine) Summary() Summary {
	f := m.FullState()
	allowed := make([]Action, 0, len(rules))
	for _, a := range Actions() {
		if Allowed(f, a) {
			allowed = append(allowed, a)
		}
	}
	return Summary{
		Full:      f.String(),
		Primary:   f.Primary,
		Combat:    f.Combat,
		Terrain:   f.Terrain,
		Preferred: m.preferred,
		Allowed:   allowed,
	}
}
