// Colony ties together the map, the ants and the queen, and runs them each
// frame.
package engine

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/talgya/antcolony/internal/agents"
	"github.com/talgya/antcolony/internal/brain"
	"github.com/talgya/antcolony/internal/config"
	"github.com/talgya/antcolony/internal/entropy"
	"github.com/talgya/antcolony/internal/jobs"
	"github.com/talgya/antcolony/internal/pheromone"
	"github.com/talgya/antcolony/internal/queen"
	"github.com/talgya/antcolony/internal/social"
	"github.com/talgya/antcolony/internal/weather"
	"github.com/talgya/antcolony/internal/world"
)

// MaxEvents is how many recent events the colony keeps in memory.
const MaxEvents = 1000

// Event is a notable occurrence in the colony.
type Event struct {
	Second      uint64         `json:"second"`
	Description string         `json:"description"`
	Category    string         `json:"category"` // "death", "ant", "command", "weather", "power"
	Meta        map[string]any `json:"meta,omitempty"`
}

// Stats tracks aggregate colony statistics.
type Stats struct {
	Population int            `json:"population"`
	Dead       int            `json:"dead"`
	Hungry     int            `json:"hungry"`
	Starving   int            `json:"starving"`
	Carrying   int            `json:"carrying"`
	Stored     int            `json:"stored"`
	Resources  int            `json:"resources"`
	Trails     int            `json:"trails"`
	Weather    string         `json:"weather"`
	ByJob      map[string]int `json:"by_job"`
	ByState    map[string]int `json:"by_state"`
}

// Colony holds the complete simulation state. Every exported method takes
// the colony lock; callers never need to.
type Colony struct {
	mu sync.RWMutex

	Tuning    config.Tuning
	Map       *world.Map
	Resources *world.Registry
	Trails    *pheromone.Field
	Nests     *social.Nests
	Factions  []*social.Faction
	Weather   *weather.Cycle
	Spawner   *agents.Spawner

	Ants     []*agents.Ant
	AntIndex map[agents.AntID]*agents.Ant
	Queen    *queen.Queen
	QueenAnt *agents.Ant

	Condition  weather.Condition
	LastSecond uint64 // Most recent simulated second processed
	Frames     uint64
	Events     []Event
	Stats      Stats

	deps   agents.Deps
	powers powerState
}

// NewColony generates the world described by the tuning. The colony has
// no ants until Populate or Restore is called.
func NewColony(t config.Tuning) *Colony {
	m, reg := world.Generate(t.GenConfig())

	sites := world.PlaceNests(m, t.World.Nests)
	if len(sites) == 0 {
		b := m.Bounds()
		sites = []world.Point{{X: b.X / 2, Y: b.Y / 2}}
	}
	nests := social.NewNests(sites, social.FactionHome, nestNames)

	c := &Colony{
		Tuning:    t,
		Map:       m,
		Resources: reg,
		Trails:    pheromone.NewField(t.Trails.DecayPerSecond, t.Trails.MinStrength),
		Nests:     nests,
		Factions:  social.SeedFactions(),
		Weather:   weather.NewCycle(t.Seed),
		Spawner:   agents.NewSpawner(t.Seed),
		AntIndex:  make(map[agents.AntID]*agents.Ant),
	}
	c.deps = agents.Deps{
		Registry:   reg,
		Drops:      nests,
		Forage:     t.ForageConfig(),
		Thresholds: t.Hunger,
		Capacity:   t.Forage.CarryCapacity,
		Multiplier: 1,
		RNG:        entropy.FromSeed(t.Seed),
	}
	c.Condition = c.Weather.At(0)
	return c
}

var nestNames = []string{"Great Mound", "East Chamber", "Root Hollow", "Stone Gallery", "Leaf Vault"}

// Populate spawns a fresh colony around the first nest.
func (c *Colony) Populate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	home := c.Nests.All()[0].Position
	c.setAnts(c.Spawner.SpawnColony(c.Tuning.Colony.Size, home, social.FactionHome, c.deps))
	c.updateStats()
	slog.Info("colony populated", "ants", len(c.Ants), "nest", c.Nests.All()[0].Name)
}

// Restore rebuilds ants and world resources from saved records.
func (c *Colony) Restore(records []agents.Record, resources []world.Resource, second uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.restore(records, resources, second)
}

func (c *Colony) restore(records []agents.Record, resources []world.Resource, second uint64) {
	for _, r := range c.Resources.List() {
		c.Resources.Remove(r.ID)
	}
	for _, r := range resources {
		c.Resources.Restore(r)
	}

	ants := make([]*agents.Ant, 0, len(records))
	var maxID agents.AntID
	for _, r := range records {
		ants = append(ants, agents.FromRecord(r, c.deps))
		if r.ID > maxID {
			maxID = r.ID
		}
	}
	if maxID >= c.Spawner.NextID() {
		c.Spawner.SetNextID(maxID + 1)
	}
	c.LastSecond = second
	c.Condition = c.Weather.At(second)
	c.setAnts(ants)
	c.updateStats()
}

// setAnts installs the ant list and crowns the queen. A colony restored
// without a living queen gets a new one at the first nest.
func (c *Colony) setAnts(ants []*agents.Ant) {
	c.Ants = ants
	c.AntIndex = make(map[agents.AntID]*agents.Ant, len(ants))
	c.QueenAnt = nil
	for _, a := range ants {
		c.AntIndex[a.ID] = a
		if c.QueenAnt == nil && a.IsQueen() && !a.IsDead() {
			c.QueenAnt = a
		}
	}
	if c.QueenAnt == nil {
		q := c.Spawner.Spawn(jobs.Queen, c.Nests.All()[0].Position, social.FactionHome, c.deps)
		c.Ants = append(c.Ants, q)
		c.AntIndex[q.ID] = q
		c.QueenAnt = q
	}

	c.Queen = queen.New(c.QueenAnt, c.Tuning.Queen.CommandRadius)
	for _, a := range c.Ants {
		if a == c.QueenAnt || a.IsDead() {
			continue
		}
		c.Queen.AddAnt(a)
	}
}

func (c *Colony) env() *agents.Env {
	return &agents.Env{
		Map:         c.Map,
		Weather:     c.Condition,
		Trails:      c.Trails,
		Nests:       c.Nests,
		SenseRadius: c.Tuning.Trails.SenseRadius,
		Deposit:     c.Tuning.Trails.DepositStrength,
	}
}

// Frame advances every ant by dt seconds, in roster order.
func (c *Colony) Frame(dt float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Frames++
	env := c.env()
	for _, a := range c.Ants {
		if a.IsDead() {
			continue
		}
		for _, n := range a.Frame(env, dt) {
			c.recordNote(a, n)
		}
	}
}

func (c *Colony) recordNote(a *agents.Ant, n agents.Note) {
	category := "ant"
	if n.Kind == agents.NoteDied {
		category = "death"
		c.Queen.RemoveAnt(a)
		slog.Info("ant died", "ant", a.ID, "name", a.Name, "job", a.Job)
	}
	c.emit(Event{
		Second:      c.LastSecond,
		Description: n.Detail,
		Category:    category,
		Meta:        map[string]any{"ant": a.ID, "kind": string(n.Kind)},
	})
}

// Second runs once per simulated second: trail evaporation, weather,
// queen powers and the periodic report.
func (c *Colony) Second(second uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.LastSecond = second

	if removed := c.Trails.Decay(1); removed > 0 {
		slog.Debug("trails evaporated", "removed", removed, "left", c.Trails.Len())
	}

	if cond := c.Weather.At(second); cond != c.Condition {
		c.emit(Event{
			Second:      second,
			Description: fmt.Sprintf("The weather turns from %s to %s", c.Condition, cond),
			Category:    "weather",
		})
		c.Condition = cond
	}

	c.applyPowers(second)
	c.updateStats()

	if second%60 == 0 {
		slog.Info("colony report",
			"second", second,
			"time", SimClock(second),
			"alive", c.Stats.Population,
			"dead", c.Stats.Dead,
			"hungry", c.Stats.Hungry,
			"starving", c.Stats.Starving,
			"stored", c.Stats.Stored,
			"resources", c.Stats.Resources,
			"trails", c.Stats.Trails,
			"weather", c.Stats.Weather,
		)
	}
}

// EmitEvent records an event.
func (c *Colony) EmitEvent(e Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.emit(e)
}

func (c *Colony) emit(e Event) {
	c.Events = append(c.Events, e)
	// Trim old events to prevent unbounded growth.
	if len(c.Events) > MaxEvents {
		c.Events = c.Events[len(c.Events)-MaxEvents:]
	}
}

func (c *Colony) updateStats() {
	st := Stats{
		ByJob:   make(map[string]int),
		ByState: make(map[string]int),
	}
	for _, a := range c.Ants {
		if a.IsDead() {
			st.Dead++
			continue
		}
		st.Population++
		st.ByJob[string(a.Job)]++
		st.ByState[string(a.State.Current())]++
		switch a.Brain.Flag() {
		case brain.FlagHungry:
			st.Hungry++
		case brain.FlagStarving:
			st.Starving++
		}
		if a.CurrentLoad() > 0 {
			st.Carrying++
		}
	}
	st.Stored = c.Nests.TotalStored()
	st.Resources = c.Resources.Len()
	st.Trails = c.Trails.Len()
	st.Weather = c.Condition.String()
	c.Stats = st
}

// Status is the summary served to observers.
type Status struct {
	Second    uint64          `json:"second"`
	Clock     string          `json:"clock"`
	Frames    uint64          `json:"frames"`
	Stats     Stats           `json:"stats"`
	Queen     queen.DebugInfo `json:"queen"`
	NestStore map[string]int  `json:"nest_store"`
}

// Status returns a snapshot of the colony summary.
func (c *Colony) Status() Status {
	c.mu.RLock()
	defer c.mu.RUnlock()
	store := make(map[string]int)
	for _, n := range c.Nests.All() {
		store[n.Name] = n.Total()
	}
	return Status{
		Second:    c.LastSecond,
		Clock:     SimClock(c.LastSecond),
		Frames:    c.Frames,
		Stats:     c.Stats,
		Queen:     c.Queen.DebugInfo(),
		NestStore: store,
	}
}

// AntViews returns every ant ordered by ID.
func (c *Colony) AntViews() []agents.View {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]agents.View, 0, len(c.Ants))
	for _, a := range c.Ants {
		out = append(out, a.View())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// AntView returns one ant.
func (c *Colony) AntView(id agents.AntID) (agents.View, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	a, ok := c.AntIndex[id]
	if !ok {
		return agents.View{}, false
	}
	return a.View(), true
}

// QueenInfo returns the queen's command state.
func (c *Colony) QueenInfo() queen.DebugInfo {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.Queen.DebugInfo()
}

// ResourceList returns every resource lying in the world.
func (c *Colony) ResourceList() []world.Resource {
	return c.Resources.List()
}

// RecentEvents returns up to n of the newest events, newest last.
func (c *Colony) RecentEvents(n int) []Event {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if n <= 0 || n > len(c.Events) {
		n = len(c.Events)
	}
	out := make([]Event, n)
	copy(out, c.Events[len(c.Events)-n:])
	return out
}

// Records captures every ant for persistence.
func (c *Colony) Records() []agents.Record {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]agents.Record, 0, len(c.Ants))
	for _, a := range c.Ants {
		out = append(out, a.Record())
	}
	return out
}
