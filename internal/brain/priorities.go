package brain

import (
	"github.com/talgya/antcolony/internal/jobs"
	"github.com/talgya/antcolony/internal/pheromone"
)

// Priorities weight how readily an ant follows each trail category.
// Values are unclamped: a starving ant's forage weight of 2 is deliberate.
type Priorities struct {
	Build  float64 `json:"build"`
	Forage float64 `json:"forage"`
	Farm   float64 `json:"farm"`
	Enemy  float64 `json:"enemy"`
	Boss   float64 `json:"boss"`
}

// For returns the weight of one category. Unknown categories weigh 0.
func (p Priorities) For(c pheromone.Category) float64 {
	switch c {
	case pheromone.CategoryBuild:
		return p.Build
	case pheromone.CategoryForage:
		return p.Forage
	case pheromone.CategoryFarm:
		return p.Farm
	case pheromone.CategoryEnemy:
		return p.Enemy
	case pheromone.CategoryBoss:
		return p.Boss
	default:
		return 0
	}
}

// Scale multiplies every weight.
func (p Priorities) Scale(m float64) Priorities {
	return Priorities{
		Build:  p.Build * m,
		Forage: p.Forage * m,
		Farm:   p.Farm * m,
		Enemy:  p.Enemy * m,
		Boss:   p.Boss * m,
	}
}

// basePriorities is the per-job lookup table at multiplier 1.
var basePriorities = map[jobs.Type]Priorities{
	jobs.Queen:   {Build: 0.1, Forage: 0.1, Farm: 0.1, Enemy: 0.2, Boss: 0.3},
	jobs.Worker:  {Build: 0.3, Forage: 0.8, Farm: 0.4, Enemy: 0.1, Boss: 0.05},
	jobs.Builder: {Build: 0.9, Forage: 0.4, Farm: 0.2, Enemy: 0.1, Boss: 0.05},
	jobs.Farmer:  {Build: 0.2, Forage: 0.5, Farm: 0.9, Enemy: 0.1, Boss: 0.05},
	jobs.Soldier: {Build: 0.1, Forage: 0.3, Farm: 0.1, Enemy: 0.9, Boss: 0.8},
	jobs.Scout:   {Build: 0.2, Forage: 0.6, Farm: 0.2, Enemy: 0.5, Boss: 0.3},
}

// DefaultPriorities apply to jobs missing from the table.
var DefaultPriorities = Priorities{Build: 0.5, Forage: 0.5, Farm: 0.5, Enemy: 0.5, Boss: 0.5}

// BasePriorities returns the table entry for a job scaled by multiplier.
func BasePriorities(job jobs.Type, multiplier float64) Priorities {
	p, ok := basePriorities[job]
	if !ok {
		p = DefaultPriorities
	}
	return p.Scale(multiplier)
}
