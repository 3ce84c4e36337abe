// Ant spawning: a queen plus a weighted mix of castes around a nest.
package agents

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/talgya/antcolony/internal/jobs"
	"github.com/talgya/antcolony/internal/social"
	"github.com/talgya/antcolony/internal/world"
)

// Spawner creates ants for the simulation.
type Spawner struct {
	rng    *rand.Rand
	nextID AntID
}

// NewSpawner creates an ant spawner with the given seed.
func NewSpawner(seed int64) *Spawner {
	return &Spawner{
		rng:    rand.New(rand.NewSource(seed + 300)),
		nextID: 1,
	}
}

// SetNextID sets the next ant ID to be issued (used when restoring from DB).
func (s *Spawner) SetNextID(id AntID) {
	s.nextID = id
}

// NextID returns the ID the next spawned ant will receive.
func (s *Spawner) NextID() AntID { return s.nextID }

// casteMix is the cumulative chance of each non-queen job.
var casteMix = []struct {
	job  jobs.Type
	upTo float64
}{
	{jobs.Worker, 0.50},
	{jobs.Farmer, 0.65},
	{jobs.Builder, 0.80},
	{jobs.Soldier, 0.92},
	{jobs.Scout, 1.00},
}

// SpawnColony creates a queen at the nest followed by size-1 ants
// scattered around it.
func (s *Spawner) SpawnColony(size int, nest world.Point, faction social.FactionID, deps Deps) []*Ant {
	if size <= 0 {
		return nil
	}
	ants := make([]*Ant, 0, size)
	ants = append(ants, s.Spawn(jobs.Queen, nest, faction, deps))
	for i := 1; i < size; i++ {
		ants = append(ants, s.Spawn(s.pickJob(), s.scatter(nest, 48), faction, deps))
	}
	return ants
}

// Spawn creates one ant of the given job.
func (s *Spawner) Spawn(job jobs.Type, pos world.Point, faction social.FactionID, deps Deps) *Ant {
	id := s.nextID
	s.nextID++
	a := NewAnt(id, s.generateName(job, id), job, pos, deps)
	a.FactionID = faction
	return a
}

func (s *Spawner) pickJob() jobs.Type {
	r := s.rng.Float64()
	for _, c := range casteMix {
		if r < c.upTo {
			return c.job
		}
	}
	return jobs.Worker
}

func (s *Spawner) scatter(center world.Point, radius float64) world.Point {
	angle := s.rng.Float64() * 2 * math.Pi
	dist := s.rng.Float64() * radius
	return world.Point{
		X: math.Max(0, center.X+math.Cos(angle)*dist),
		Y: math.Max(0, center.Y+math.Sin(angle)*dist),
	}
}

func (s *Spawner) generateName(job jobs.Type, id AntID) string {
	if job == jobs.Queen {
		return "Queen " + queenNames[s.rng.Intn(len(queenNames))]
	}
	return fmt.Sprintf("%s-%d", antNames[s.rng.Intn(len(antNames))], id)
}

// Name pools for procedural generation.
var queenNames = []string{
	"Formica", "Myrmica", "Atta", "Lasia", "Camponota", "Solenna",
	"Pheidola", "Tetra", "Messora", "Dorylia",
}

var antNames = []string{
	"Anto", "Brix", "Chit", "Dex", "Emm", "Fip", "Grub", "Hix", "Ib",
	"Jot", "Kib", "Lum", "Mott", "Nib", "Orr", "Pip", "Quill", "Rix",
	"Sap", "Tik", "Umm", "Vex", "Wix", "Yip", "Zed",
}
