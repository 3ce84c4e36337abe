// Package jobs holds the static per-job stat table.
package jobs

// Type names an ant's caste.
type Type string

const (
	Queen   Type = "queen" // Colony leader; immune to starvation
	Worker  Type = "worker"
	Builder Type = "builder"
	Farmer  Type = "farmer"
	Soldier Type = "soldier"
	Scout   Type = "scout"
)

// Stats are the base physical attributes of a job.
type Stats struct {
	Strength      float64 `json:"strength"`
	Health        float64 `json:"health"`
	GatherSpeed   float64 `json:"gather_speed"`
	MovementSpeed float64 `json:"movement_speed"` // Pixels per second
}

var table = map[Type]Stats{
	Queen:   {Strength: 5, Health: 500, GatherSpeed: 0, MovementSpeed: 20},
	Worker:  {Strength: 2, Health: 100, GatherSpeed: 1, MovementSpeed: 60},
	Builder: {Strength: 3, Health: 120, GatherSpeed: 0.8, MovementSpeed: 50},
	Farmer:  {Strength: 2, Health: 100, GatherSpeed: 1.2, MovementSpeed: 55},
	Soldier: {Strength: 8, Health: 200, GatherSpeed: 0.5, MovementSpeed: 70},
	Scout:   {Strength: 1, Health: 80, GatherSpeed: 0.6, MovementSpeed: 90},
}

// Default is returned for unknown or empty job names.
var Default = table[Worker]

// Lookup returns the stats for a job. Unknown or empty names get Default.
func Lookup(name string) Stats {
	if s, ok := table[Type(name)]; ok {
		return s
	}
	return Default
}

// Of returns the stats for a typed job.
func Of(t Type) Stats {
	return Lookup(string(t))
}

// Parse returns the job for a name and whether it is known.
func Parse(name string) (Type, bool) {
	t := Type(name)
	_, ok := table[t]
	return t, ok
}

// All lists every known job in a stable order.
func All() []Type {
	return []Type{Queen, Worker, Builder, Farmer, Soldier, Scout}
}
