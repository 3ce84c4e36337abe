// Package queen lets a leader ant direct the ants around her. Commands
// reach every roster member within the command radius; special powers are
// unlocked over the course of a game.
package queen

import (
	"log/slog"
	"sort"

	"github.com/talgya/antcolony/internal/command"
	"github.com/talgya/antcolony/internal/social"
	"github.com/talgya/antcolony/internal/world"
)

// Unit is a commandable ant.
type Unit interface {
	Position() world.Point
	MoveTo(x, y float64)
	Enqueue(c command.Command)
	SetFaction(f social.FactionID)
}

// nilUnit is implemented by units whose pointer may be nil inside a
// non-nil Unit.
type nilUnit interface {
	IsNil() bool
}

func isNil(u Unit) bool {
	if u == nil {
		return true
	}
	n, ok := u.(nilUnit)
	return ok && n.IsNil()
}

// Self is the queen's own body.
type Self interface {
	Position() world.Point
	Faction() social.FactionID
}

// Power names a special ability.
type Power string

const (
	PowerSummonSwarm    Power = "summon_swarm"
	PowerHealingAura    Power = "healing_aura"
	PowerSpeedBoost     Power = "speed_boost"
	PowerPheromoneBurst Power = "pheromone_burst"
	PowerRoyalGuard     Power = "royal_guard"
)

// Powers lists the fixed power set.
func Powers() []Power {
	return []Power{PowerSummonSwarm, PowerHealingAura, PowerSpeedBoost, PowerPheromoneBurst, PowerRoyalGuard}
}

// Queen is the colony's command coordinator.
type Queen struct {
	self   Self
	radius float64
	roster []Unit
	powers map[Power]bool
}

// New creates a queen with every power locked.
func New(self Self, radius float64) *Queen {
	q := &Queen{
		self:   self,
		radius: radius,
		powers: make(map[Power]bool, len(Powers())),
	}
	for _, p := range Powers() {
		q.powers[p] = false
	}
	return q
}

// Radius returns the command radius.
func (q *Queen) Radius() float64 { return q.radius }

// SetRadius changes the command radius.
func (q *Queen) SetRadius(r float64) { q.radius = r }

// Position returns the queen's position.
func (q *Queen) Position() world.Point {
	if q.self == nil {
		return world.Point{}
	}
	return q.self.Position()
}

// AddAnt enlists a unit and converts it to the queen's faction. The same
// unit may be added more than once. Nil units are ignored.
func (q *Queen) AddAnt(u Unit) {
	if isNil(u) {
		return
	}
	if q.self != nil {
		u.SetFaction(q.self.Faction())
	}
	q.roster = append(q.roster, u)
}

// RemoveAnt drops the first roster entry that is u.
func (q *Queen) RemoveAnt(u Unit) {
	if isNil(u) {
		return
	}
	for i, r := range q.roster {
		if r == u {
			q.roster = append(q.roster[:i], q.roster[i+1:]...)
			return
		}
	}
}

// Roster returns a copy of the roster.
func (q *Queen) Roster() []Unit {
	out := make([]Unit, len(q.roster))
	copy(out, q.roster)
	return out
}

// Has reports whether u is on the roster.
func (q *Queen) Has(u Unit) bool {
	for _, r := range q.roster {
		if r == u {
			return true
		}
	}
	return false
}

// InRange returns the roster members within the command radius.
func (q *Queen) InRange() []Unit {
	pos := q.Position()
	var out []Unit
	for _, u := range q.roster {
		if world.Within(pos, u.Position(), q.radius) {
			out = append(out, u)
		}
	}
	return out
}

// BroadcastCommand dispatches c to every roster member in range and
// returns how many received it.
func (q *Queen) BroadcastCommand(c command.Command) int {
	targets := q.InRange()
	for _, u := range targets {
		dispatch(u, c)
	}
	slog.Debug("queen broadcast", "type", c.Type, "id", c.ID, "reached", len(targets), "roster", len(q.roster))
	return len(targets)
}

// CommandAnt dispatches c to a single roster member regardless of range.
// Units not on the roster are ignored.
func (q *Queen) CommandAnt(u Unit, c command.Command) bool {
	if isNil(u) || !q.Has(u) {
		return false
	}
	dispatch(u, c)
	return true
}

func dispatch(u Unit, c command.Command) {
	switch c.Type {
	case command.Move:
		u.MoveTo(c.X, c.Y)
	case command.Gather, command.Build, command.Defend:
		u.Enqueue(c)
	}
}

// GatherAntsAt calls nearby ants to (x, y).
func (q *Queen) GatherAntsAt(x, y float64) int {
	return q.BroadcastCommand(command.NewMove(x, y))
}

// OrderGathering sets nearby ants foraging.
func (q *Queen) OrderGathering() int {
	return q.BroadcastCommand(command.NewGather())
}

// OrderBuilding sets nearby ants building.
func (q *Queen) OrderBuilding() int {
	return q.BroadcastCommand(command.NewBuild())
}

// OrderDefense sends nearby ants to hold target.
func (q *Queen) OrderDefense(target world.Point) int {
	return q.BroadcastCommand(command.NewDefend(target))
}

// EmergencyRally calls every roster member to the queen, ignoring range.
func (q *Queen) EmergencyRally() int {
	pos := q.Position()
	for _, u := range q.roster {
		u.MoveTo(pos.X, pos.Y)
	}
	slog.Info("queen emergency rally", "ants", len(q.roster), "x", pos.X, "y", pos.Y)
	return len(q.roster)
}

// UnlockPower unlocks a power. Unknown names are rejected.
func (q *Queen) UnlockPower(p Power) bool {
	return q.setPower(p, true)
}

// LockPower locks a power. Unknown names are rejected.
func (q *Queen) LockPower(p Power) bool {
	return q.setPower(p, false)
}

func (q *Queen) setPower(p Power, on bool) bool {
	if _, ok := q.powers[p]; !ok {
		return false
	}
	q.powers[p] = on
	return true
}

// IsPowerUnlocked reports whether p is unlocked. Unknown powers never are.
func (q *Queen) IsPowerUnlocked(p Power) bool {
	return q.powers[p]
}

// UnlockedPowers lists unlocked powers in name order.
func (q *Queen) UnlockedPowers() []Power {
	var out []Power
	for p, on := range q.powers {
		if on {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// AllPowers returns a copy of the power table.
func (q *Queen) AllPowers() map[Power]bool {
	out := make(map[Power]bool, len(q.powers))
	for p, on := range q.powers {
		out[p] = on
	}
	return out
}

// DebugInfo is a diagnostic snapshot.
type DebugInfo struct {
	Position world.Point    `json:"position"`
	Radius   float64        `json:"radius"`
	Roster   int            `json:"roster"`
	InRange  int            `json:"in_range"`
	Powers   map[Power]bool `json:"powers"`
}

// DebugInfo returns a snapshot for display.
func (q *Queen) DebugInfo() DebugInfo {
	return DebugInfo{
		Position: q.Position(),
		Radius:   q.radius,
		Roster:   len(q.roster),
		InRange:  len(q.InRange()),
		Powers:   q.AllPowers(),
	}
}
