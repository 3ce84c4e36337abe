// Package agents provides the ant data model and its per-frame behavior.
// Each ant owns a composite state machine, a brain and a foraging
// sub-state; the ant itself supplies movement and carrying to them.
package agents

import (
	"github.com/talgya/antcolony/internal/brain"
	"github.com/talgya/antcolony/internal/command"
	"github.com/talgya/antcolony/internal/entropy"
	"github.com/talgya/antcolony/internal/forage"
	"github.com/talgya/antcolony/internal/jobs"
	"github.com/talgya/antcolony/internal/social"
	"github.com/talgya/antcolony/internal/state"
	"github.com/talgya/antcolony/internal/world"
)

// AntID is a unique identifier for an ant.
type AntID uint64

// Ant is a single colony member.
type Ant struct {
	ID        AntID            `json:"id"`
	Name      string           `json:"name"`
	Job       jobs.Type        `json:"job"`
	FactionID social.FactionID `json:"faction"`
	Health    float64          `json:"health"`
	MaxHealth float64          `json:"max_health"`
	Pos       world.Point      `json:"pos"`
	Dest      *world.Point     `json:"dest,omitempty"`
	Load      Carry            `json:"load"`
	BornAt    uint64           `json:"born_at"` // Simulated second

	Orders command.Queue    `json:"-"`
	State  *state.Machine   `json:"-"`
	Brain  *brain.Brain     `json:"-"`
	Forage *forage.Gatherer `json:"-"`

	ground    world.Terrain // Effective terrain under the ant last frame
	heading   world.Point   // Unit vector of the last controlled step
	following *trailLock
	buildLeft float64 // Seconds of building remaining
	guardLeft float64 // Seconds left holding a defended point
	scanLeft  float64 // Seconds until a foraging ant with no target checks trails
	speedMul  float64
}

// Deps are the shared services every ant is wired to.
type Deps struct {
	Registry   forage.Registry
	Drops      forage.DropPoints
	Forage     forage.Config
	Thresholds brain.Thresholds
	Capacity   int
	Multiplier float64
	RNG        entropy.Source
}

// NewAnt creates a living ant at pos, idle and out of combat, preferring
// to gather. Queens prefer to stay put.
func NewAnt(id AntID, name string, job jobs.Type, pos world.Point, deps Deps) *Ant {
	stats := jobs.Of(job)
	a := &Ant{
		ID:        id,
		Name:      name,
		Job:       job,
		Health:    stats.Health,
		MaxHealth: stats.Health,
		Pos:       pos,
		Load:      Carry{Capacity: deps.Capacity},
		State:     state.New(),
		speedMul:  1,
	}
	mult := deps.Multiplier
	if mult <= 0 {
		mult = 1
	}
	a.Brain = brain.New(a, job, mult, deps.Thresholds, deps.RNG)
	a.Forage = forage.New(deps.Forage, (*steer)(a), a, deps.Registry, deps.Drops, a.State)
	if job == jobs.Queen {
		a.State.SetPreferred(state.Idle)
	}
	return a
}

// Position implements the movement capability. A nil ant sits at the origin.
func (a *Ant) Position() world.Point {
	if a == nil {
		return world.Point{}
	}
	return a.Pos
}

// IsNil reports a nil ant held in an interface.
func (a *Ant) IsNil() bool { return a == nil }

// MoveTo is a direct order: the ant stops what it is doing and walks to
// (x, y).
func (a *Ant) MoveTo(x, y float64) {
	if a.IsDead() {
		return
	}
	a.Forage.Exit()
	a.following = nil
	a.buildLeft = 0
	a.State.SetPrimary(state.Moving)
	a.setDest(x, y)
}

func (a *Ant) setDest(x, y float64) {
	a.Dest = &world.Point{X: x, Y: y}
}

// steer is the ant as seen by its own gatherer: it heads somewhere without
// leaving the foraging state.
type steer Ant

func (s *steer) Position() world.Point { return s.Pos }
func (s *steer) MoveTo(x, y float64)   { (*Ant)(s).setDest(x, y) }

// Enqueue queues an order for the next frame.
func (a *Ant) Enqueue(c command.Command) {
	if a.IsDead() {
		return
	}
	a.Orders.Push(c)
}

// SetFaction assigns the ant to a faction.
func (a *Ant) SetFaction(f social.FactionID) {
	if a == nil {
		return
	}
	a.FactionID = f
}

// Faction returns the ant's faction.
func (a *Ant) Faction() social.FactionID {
	if a == nil {
		return 0
	}
	return a.FactionID
}

// TakeDamage lowers health. An ant at zero health dies.
func (a *Ant) TakeDamage(amount float64) {
	if a.IsDead() {
		return
	}
	a.Health -= amount
	if a.Health <= 0 {
		a.Health = 0
		a.die()
	}
}

// Heal restores health up to the job maximum.
func (a *Ant) Heal(amount float64) {
	if a.IsDead() || amount <= 0 {
		return
	}
	a.Health += amount
	if a.Health > a.MaxHealth {
		a.Health = a.MaxHealth
	}
}

func (a *Ant) die() {
	a.Forage.Exit()
	a.Dest = nil
	a.following = nil
	a.State.SetPrimary(state.Dead)
}

// IsDead reports whether the ant has died.
func (a *Ant) IsDead() bool { return a == nil || a.State.IsDead() }

// JobType returns the ant's caste.
func (a *Ant) JobType() jobs.Type { return a.Job }

// IsQueen reports whether the ant leads the colony.
func (a *Ant) IsQueen() bool { return a.Job == jobs.Queen }

// SetSpeedMultiplier scales movement speed, e.g. under a speed boost.
func (a *Ant) SetSpeedMultiplier(m float64) {
	if m <= 0 {
		m = 1
	}
	a.speedMul = m
}

// Carrier implementation backing the gatherer.

// CurrentLoad returns the number of carried items.
func (a *Ant) CurrentLoad() int { return a.Load.Len() }

// AtMaxCapacity reports whether the ant can carry no more.
func (a *Ant) AtMaxCapacity() bool { return a.Load.Full() }

// Add picks up a resource; false when already full.
func (a *Ant) Add(res world.Resource) bool { return a.Load.Put(res) }

// StartDropOff heads the ant to a drop point.
func (a *Ant) StartDropOff(x, y float64) { a.setDest(x, y) }

// Record is the persisted form of an ant.
type Record struct {
	ID        AntID            `json:"id"`
	Name      string           `json:"name"`
	Job       jobs.Type        `json:"job"`
	Faction   social.FactionID `json:"faction"`
	Health    float64          `json:"health"`
	X         float64          `json:"x"`
	Y         float64          `json:"y"`
	Hunger    int              `json:"hunger"`
	Primary   state.Primary    `json:"primary"`
	Preferred state.Primary    `json:"preferred"`
	Load      []world.Resource `json:"load"`
	BornAt    uint64           `json:"born_at"`
}

// Record captures the ant for persistence.
func (a *Ant) Record() Record {
	return Record{
		ID:        a.ID,
		Name:      a.Name,
		Job:       a.Job,
		Faction:   a.FactionID,
		Health:    a.Health,
		X:         a.Pos.X,
		Y:         a.Pos.Y,
		Hunger:    a.Brain.Hunger(),
		Primary:   a.State.Current(),
		Preferred: a.State.Preferred(),
		Load:      a.Load.Items(),
		BornAt:    a.BornAt,
	}
}

// FromRecord rebuilds an ant. Transient activity is not restored: living
// ants come back idle and pick up their preferred work on the next frame.
func FromRecord(r Record, deps Deps) *Ant {
	a := NewAnt(r.ID, r.Name, r.Job, world.Point{X: r.X, Y: r.Y}, deps)
	a.FactionID = r.Faction
	a.Health = r.Health
	a.BornAt = r.BornAt
	a.Brain.SetHunger(r.Hunger)
	for _, it := range r.Load {
		a.Load.Put(it)
	}
	if r.Preferred.Valid() {
		a.State.SetPreferred(r.Preferred)
	}
	if r.Primary == state.Dead || a.Health <= 0 {
		a.Health = 0
		a.State.SetPrimary(state.Dead)
	}
	return a
}

// View is the read-only snapshot of an ant served to clients.
type View struct {
	ID       AntID            `json:"id"`
	Name     string           `json:"name"`
	Job      jobs.Type        `json:"job"`
	Faction  social.FactionID `json:"faction"`
	Health   float64          `json:"health"`
	Pos      world.Point      `json:"pos"`
	Dest     *world.Point     `json:"dest,omitempty"`
	Load     int              `json:"load"`
	Capacity int              `json:"capacity"`
	Pending  int              `json:"pending_orders"`
	State    state.Summary    `json:"state"`
	Brain    brain.DebugInfo  `json:"brain"`
	Forage   forage.DebugInfo `json:"forage"`
}

// View snapshots the ant.
func (a *Ant) View() View {
	v := View{
		ID:       a.ID,
		Name:     a.Name,
		Job:      a.Job,
		Faction:  a.FactionID,
		Health:   a.Health,
		Pos:      a.Pos,
		Load:     a.Load.Len(),
		Capacity: a.Load.Capacity,
		Pending:  a.Orders.Len(),
		State:    a.State.Summary(),
		Brain:    a.Brain.DebugInfo(),
		Forage:   a.Forage.DebugInfo(),
	}
	if a.Dest != nil {
		d := *a.Dest
		v.Dest = &d
	}
	return v
}
