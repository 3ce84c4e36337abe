// Package brain decides which pheromone trails an ant follows. Hunger
// accumulates once per simulated second and escalates through staged
// flags that reshape trail priorities, ending in starvation.
package brain

import (
	"log/slog"
	"math"

	"github.com/talgya/antcolony/internal/entropy"
	"github.com/talgya/antcolony/internal/jobs"
	"github.com/talgya/antcolony/internal/pheromone"
)

// Flag is the physiological stage derived from hunger.
type Flag uint8

const (
	FlagNone Flag = iota
	FlagHungry
	FlagStarving
	FlagDeath
	FlagReset // Transient: priorities are restored, then the flag clears
)

func (f Flag) String() string {
	switch f {
	case FlagNone:
		return "none"
	case FlagHungry:
		return "hungry"
	case FlagStarving:
		return "starving"
	case FlagDeath:
		return "death"
	case FlagReset:
		return "reset"
	default:
		return "unknown"
	}
}

// Thresholds are the hunger levels at which flags are raised.
// They must satisfy Hungry < Starving < Death.
type Thresholds struct {
	Hungry   int `yaml:"hungry" json:"hungry"`
	Starving int `yaml:"starving" json:"starving"`
	Death    int `yaml:"death" json:"death"`
}

// DefaultThresholds returns the standard hunger schedule.
func DefaultThresholds() Thresholds {
	return Thresholds{Hungry: 100, Starving: 160, Death: 200}
}

// StarvationDamage is dealt to the owner when hunger reaches Death.
const StarvationDamage = 1e9

// Owner is the ant a brain belongs to.
type Owner interface {
	TakeDamage(amount float64)
}

// Brain is one ant's decision engine.
type Brain struct {
	owner      Owner
	job        jobs.Type
	multiplier float64
	thresholds Thresholds
	rng        entropy.Source

	hunger     int
	flag       Flag
	timer      float64
	priorities Priorities
	penalties  PenaltyLog
}

// New creates a brain. A nil owner is allowed; starvation then has no
// damage target. A nil rng falls back to crypto randomness.
func New(owner Owner, job jobs.Type, multiplier float64, th Thresholds, rng entropy.Source) *Brain {
	if rng == nil {
		rng = entropy.Crypto{}
	}
	b := &Brain{
		owner:      owner,
		thresholds: th,
		rng:        rng,
	}
	b.SetPriority(job, multiplier)
	return b
}

// SetPriority recomputes base priorities from the job table.
func (b *Brain) SetPriority(job jobs.Type, multiplier float64) {
	b.job = job
	b.multiplier = multiplier
	b.priorities = BasePriorities(job, multiplier)
}

// Update advances the hunger clock by dt seconds. Each whole second runs
// one hunger check. Negative dt winds the clock back; NaN and infinite
// deltas are ignored.
func (b *Brain) Update(dt float64) {
	if math.IsNaN(dt) || math.IsInf(dt, 0) {
		return
	}
	b.timer += dt
	for b.timer >= 1.0 {
		b.CheckHunger()
		b.timer -= 1.0
	}
}

// CheckHunger adds one unit of hunger and re-derives the flag.
func (b *Brain) CheckHunger() {
	b.hunger++
	prev := b.flag

	switch {
	case b.hunger >= b.thresholds.Death:
		b.flag = FlagDeath
		b.ModifyPriorityTrails()
		if prev != FlagDeath {
			b.starve()
		}
	case b.hunger >= b.thresholds.Starving:
		b.flag = FlagStarving
	case b.hunger >= b.thresholds.Hungry:
		b.flag = FlagHungry
	default:
		b.flag = FlagNone
	}

	if b.flag != prev {
		slog.Debug("hunger flag changed", "job", b.job, "hunger", b.hunger, "from", prev, "to", b.flag)
	}
	b.RunFlagState()
}

// starve applies lethal damage unless the ant is a queen.
func (b *Brain) starve() {
	if b.job == jobs.Queen {
		slog.Debug("queen is immune to starvation", "hunger", b.hunger)
		return
	}
	if b.owner == nil {
		return
	}
	slog.Info("ant starved", "job", b.job, "hunger", b.hunger)
	b.owner.TakeDamage(StarvationDamage)
}

// RunFlagState applies the current flag to trail priorities.
func (b *Brain) RunFlagState() {
	switch b.flag {
	case FlagHungry, FlagStarving:
		b.ModifyPriorityTrails()
	case FlagReset:
		b.ModifyPriorityTrails()
		b.flag = FlagNone
	case FlagDeath:
		// Already zeroed when the flag was raised.
	}
}

// ModifyPriorityTrails rewrites priorities for the current flag. Every
// branch starts from the base table so modifications never compound.
func (b *Brain) ModifyPriorityTrails() {
	base := BasePriorities(b.job, b.multiplier)

	switch b.flag {
	case FlagReset:
		b.priorities = base
	case FlagHungry:
		p := base
		p.Forage = 1
		p.Build = base.Build / 2
		b.priorities = p
	case FlagStarving:
		p := base
		p.Forage = 2
		p.Build = 0
		p.Farm = 0
		b.priorities = p
	case FlagDeath:
		b.priorities = Priorities{}
	}
}

// ResetHunger clears hunger, e.g. after eating.
func (b *Brain) ResetHunger() {
	b.hunger = 0
	b.flag = FlagReset
	b.RunFlagState()
}

// CheckTrail decides whether to follow t, recording the default penalty
// when the ant declines.
func (b *Brain) CheckTrail(t pheromone.Trail) bool {
	return b.CheckTrailWithPenalty(t, DefaultPenalty)
}

// CheckTrailWithPenalty is CheckTrail with an explicit penalty weight.
// The follow threshold is the category priority scaled by how much of
// the trail remains and by any earlier penalty on the same trail.
func (b *Brain) CheckTrailWithPenalty(t pheromone.Trail, penalty float64) bool {
	threshold := b.priorities.For(t.Category) * t.Ratio() * b.GetPenalty(t.Name)
	if b.rng.Float() < threshold {
		return true
	}
	b.AddPenalty(t.Name, penalty)
	return false
}

// AddPenalty appends a penalty entry for a trail.
func (b *Brain) AddPenalty(trail string, penalty float64) {
	b.penalties.Add(trail, penalty)
}

// GetPenalty returns the first recorded penalty for a trail, or NoPenalty.
func (b *Brain) GetPenalty(trail string) float64 {
	return b.penalties.Lookup(trail)
}

// Penalties returns a copy of the penalty log.
func (b *Brain) Penalties() []Penalty {
	return b.penalties.Entries()
}

// Hunger returns the hunger counter.
func (b *Brain) Hunger() int { return b.hunger }

// SetHunger overwrites the hunger counter without touching the flag.
// Used when restoring a saved colony and in scenario setup.
func (b *Brain) SetHunger(h int) { b.hunger = h }

// Flag returns the current flag.
func (b *Brain) Flag() Flag { return b.flag }

// Job returns the job the priorities were derived from.
func (b *Brain) Job() jobs.Type { return b.job }

// Priorities returns the effective trail priorities.
func (b *Brain) Priorities() Priorities { return b.priorities }

// DebugInfo is a diagnostic snapshot.
type DebugInfo struct {
	Job        jobs.Type  `json:"job"`
	Hunger     int        `json:"hunger"`
	Flag       string     `json:"flag"`
	Timer      float64    `json:"timer"`
	Priorities Priorities `json:"priorities"`
	Penalties  int        `json:"penalties"`
}

// DebugInfo returns a snapshot for display.
func (b *Brain) DebugInfo() DebugInfo {
	return DebugInfo{
		Job:        b.job,
		Hunger:     b.hunger,
		Flag:       b.flag.String(),
		Timer:      b.timer,
		Priorities: b.priorities,
		Penalties:  b.penalties.Len(),
	}
}
