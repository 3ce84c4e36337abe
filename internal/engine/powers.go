package engine

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/talgya/antcolony/internal/agents"
	"github.com/talgya/antcolony/internal/command"
	"github.com/talgya/antcolony/internal/jobs"
	"github.com/talgya/antcolony/internal/pheromone"
	"github.com/talgya/antcolony/internal/queen"
	"github.com/talgya/antcolony/internal/social"
)

// Effects of unlocked queen powers, applied once per simulated second.
const (
	SwarmSize     = 5   // Workers summoned when the swarm power unlocks
	HealPerSecond = 5.0 // Health restored to ants in the healing aura
	SpeedBoost    = 1.5 // Movement multiplier inside the command radius
	GuardEvery    = 30  // Seconds between royal guard musters
	burstTrail    = "boss-queen"
)

// ErrUnknownPower is returned for power names outside the fixed set.
var ErrUnknownPower = errors.New("unknown power")

type powerState struct {
	swarmSummoned bool
	boosted       bool
	lastGuard     uint64
}

// SetPower unlocks or locks a queen power.
func (c *Colony) SetPower(name string, unlock bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	p := queen.Power(name)
	var ok bool
	if unlock {
		ok = c.Queen.UnlockPower(p)
	} else {
		ok = c.Queen.LockPower(p)
	}
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownPower, name)
	}

	if !unlock {
		switch p {
		case queen.PowerSummonSwarm:
			c.powers.swarmSummoned = false
		case queen.PowerSpeedBoost:
			c.resetSpeed()
		}
	}

	verb := "locks"
	if unlock {
		verb = "unlocks"
	}
	c.emit(Event{
		Second:      c.LastSecond,
		Description: fmt.Sprintf("The queen %s %s", verb, name),
		Category:    "power",
		Meta:        map[string]any{"power": name, "unlocked": unlock},
	})
	slog.Info("queen power changed", "power", name, "unlocked", unlock)
	return nil
}

func (c *Colony) applyPowers(second uint64) {
	q := c.Queen
	pos := q.Position()

	if q.IsPowerUnlocked(queen.PowerSummonSwarm) && !c.powers.swarmSummoned {
		c.powers.swarmSummoned = true
		for i := 0; i < SwarmSize; i++ {
			a := c.Spawner.Spawn(jobs.Worker, pos, social.FactionHome, c.deps)
			a.BornAt = second
			c.Ants = append(c.Ants, a)
			c.AntIndex[a.ID] = a
			q.AddAnt(a)
		}
		c.emit(Event{
			Second:      second,
			Description: fmt.Sprintf("A swarm of %d workers answers the queen", SwarmSize),
			Category:    "power",
		})
	}

	if q.IsPowerUnlocked(queen.PowerSpeedBoost) {
		c.resetSpeed()
		for _, u := range q.InRange() {
			if a, ok := u.(*agents.Ant); ok {
				a.SetSpeedMultiplier(SpeedBoost)
			}
		}
		c.powers.boosted = true
	} else if c.powers.boosted {
		c.resetSpeed()
	}

	if q.IsPowerUnlocked(queen.PowerHealingAura) {
		for _, u := range q.InRange() {
			if a, ok := u.(*agents.Ant); ok {
				a.Heal(HealPerSecond)
			}
		}
	}

	if q.IsPowerUnlocked(queen.PowerPheromoneBurst) {
		c.Trails.Deposit(burstTrail, pheromone.CategoryBoss, pos, c.Tuning.Trails.DepositStrength)
	}

	if q.IsPowerUnlocked(queen.PowerRoyalGuard) && second >= c.powers.lastGuard+GuardEvery {
		c.powers.lastGuard = second
		mustered := 0
		for _, u := range q.Roster() {
			if a, ok := u.(*agents.Ant); ok && a.Job == jobs.Soldier && !a.IsDead() {
				if q.CommandAnt(a, command.NewDefend(pos)) {
					mustered++
				}
			}
		}
		slog.Debug("royal guard mustered", "soldiers", mustered)
	}
}

func (c *Colony) resetSpeed() {
	for _, a := range c.Ants {
		a.SetSpeedMultiplier(1)
	}
	c.powers.boosted = false
}
