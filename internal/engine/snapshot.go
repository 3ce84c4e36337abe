package engine

import (
	"github.com/talgya/antcolony/internal/agents"
	"github.com/talgya/antcolony/internal/pheromone"
	"github.com/talgya/antcolony/internal/queen"
	"github.com/talgya/antcolony/internal/social"
	"github.com/talgya/antcolony/internal/world"
)

// Snapshot is the complete restorable colony state.
type Snapshot struct {
	Second    uint64                                       `json:"second"`
	Seed      int64                                        `json:"seed"`
	NextAntID agents.AntID                                 `json:"next_ant_id"`
	Ants      []agents.Record                              `json:"ants"`
	Resources []world.Resource                             `json:"resources"`
	Stores    map[social.NestID]map[world.ResourceType]int `json:"stores"`
	Trails    []pheromone.Trail                            `json:"trails"`
	Powers    []queen.Power                                `json:"powers"`
	Events    []Event                                      `json:"events"`
}

// Snapshot captures the colony.
func (c *Colony) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()

	s := Snapshot{
		Second:    c.LastSecond,
		Seed:      c.Tuning.Seed,
		NextAntID: c.Spawner.NextID(),
		Resources: c.Resources.List(),
		Trails:    c.Trails.All(),
		Powers:    c.Queen.UnlockedPowers(),
		Events:    append([]Event(nil), c.Events...),
	}
	for _, a := range c.Ants {
		s.Ants = append(s.Ants, a.Record())
	}
	s.Stores = c.nestStores()
	return s
}

// NestStores returns a copy of every nest's stored counts.
func (c *Colony) NestStores() map[social.NestID]map[world.ResourceType]int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.nestStores()
}

func (c *Colony) nestStores() map[social.NestID]map[world.ResourceType]int {
	out := make(map[social.NestID]map[world.ResourceType]int)
	for _, n := range c.Nests.All() {
		store := make(map[world.ResourceType]int, len(n.Stored))
		for t, v := range n.Stored {
			store[t] = v
		}
		out[n.ID] = store
	}
	return out
}

// RestoreStores overwrites nest stores. Nests missing from stores are
// emptied.
func (c *Colony) RestoreStores(stores map[social.NestID]map[world.ResourceType]int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.restoreStores(stores)
	c.updateStats()
}

func (c *Colony) restoreStores(stores map[social.NestID]map[world.ResourceType]int) {
	for _, n := range c.Nests.All() {
		n.Stored = make(map[world.ResourceType]int)
		for t, v := range stores[n.ID] {
			n.Stored[t] = v
		}
	}
}

// RestoreSnapshot replaces the colony's dynamic state with a snapshot.
// The map itself is regenerated from the seed and is not part of it.
func (c *Colony) RestoreSnapshot(s Snapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.restore(s.Ants, s.Resources, s.Second)
	if s.NextAntID > c.Spawner.NextID() {
		c.Spawner.SetNextID(s.NextAntID)
	}
	c.restoreStores(s.Stores)
	c.Trails = pheromone.NewField(c.Tuning.Trails.DecayPerSecond, c.Tuning.Trails.MinStrength)
	for _, t := range s.Trails {
		c.Trails.Restore(t)
	}
	for _, p := range s.Powers {
		c.Queen.UnlockPower(p)
	}
	// A swarm restored as unlocked was already summoned.
	c.powers.swarmSummoned = c.Queen.IsPowerUnlocked(queen.PowerSummonSwarm)
	c.Events = append([]Event(nil), s.Events...)
	c.updateStats()
}
