// Package pheromone models the scent trails ants lay down and follow.
package pheromone

import (
	"sort"

	"github.com/talgya/antcolony/internal/world"
)

// Category classifies what a trail leads to.
type Category uint8

const (
	CategoryBuild  Category = iota // Construction sites
	CategoryForage                 // Food and materials
	CategoryFarm                   // Fungus gardens
	CategoryEnemy                  // Hostile ants
	CategoryBoss                   // Large threats
)

// CategoryName returns a human-readable name for a category.
func CategoryName(c Category) string {
	switch c {
	case CategoryBuild:
		return "build"
	case CategoryForage:
		return "forage"
	case CategoryFarm:
		return "farm"
	case CategoryEnemy:
		return "enemy"
	case CategoryBoss:
		return "boss"
	default:
		return "unknown"
	}
}

// Trail is a named scent signal. Strength decays from Initial toward zero.
type Trail struct {
	Name     string      `json:"name"`
	Category Category    `json:"category"`
	Strength float64     `json:"strength"`
	Initial  float64     `json:"initial"`
	Pos      world.Point `json:"pos"`
}

// Ratio returns how much of the original signal remains. A trail with no
// positive initial strength carries no signal.
func (t Trail) Ratio() float64 {
	if t.Initial <= 0 {
		return 0
	}
	return t.Strength / t.Initial
}

// Field holds every live trail on the map, keyed by name.
type Field struct {
	trails      map[string]*Trail
	decayRate   float64 // Strength lost per second
	minStrength float64 // Trails weaker than this evaporate
}

// NewField creates an empty trail field.
func NewField(decayRate, minStrength float64) *Field {
	return &Field{
		trails:      make(map[string]*Trail),
		decayRate:   decayRate,
		minStrength: minStrength,
	}
}

// Deposit lays a trail, or refreshes an existing trail of the same name.
// Refreshing adds strength up to the trail's initial value and moves it.
func (f *Field) Deposit(name string, cat Category, pos world.Point, strength float64) {
	if strength <= 0 {
		return
	}
	if t, ok := f.trails[name]; ok {
		t.Strength += strength
		if t.Strength > t.Initial {
			t.Initial = t.Strength
		}
		t.Category = cat
		t.Pos = pos
		return
	}
	f.trails[name] = &Trail{
		Name:     name,
		Category: cat,
		Strength: strength,
		Initial:  strength,
		Pos:      pos,
	}
}

// Restore puts back a previously saved trail as-is.
func (f *Field) Restore(t Trail) {
	if t.Name == "" {
		return
	}
	cp := t
	f.trails[t.Name] = &cp
}

// Decay weakens every trail by dt seconds of evaporation and drops trails
// that fall below the minimum strength. Returns the number removed.
func (f *Field) Decay(dt float64) int {
	removed := 0
	for name, t := range f.trails {
		t.Strength -= f.decayRate * dt
		if t.Strength < f.minStrength {
			delete(f.trails, name)
			removed++
		}
	}
	return removed
}

// Get returns a copy of the named trail.
func (f *Field) Get(name string) (Trail, bool) {
	t, ok := f.trails[name]
	if !ok {
		return Trail{}, false
	}
	return *t, true
}

// Nearby returns trails within radius of p, nearest first.
func (f *Field) Nearby(p world.Point, radius float64) []Trail {
	var out []Trail
	for _, t := range f.trails {
		if world.Within(p, t.Pos, radius) {
			out = append(out, *t)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		di, dj := world.Distance(p, out[i].Pos), world.Distance(p, out[j].Pos)
		if di != dj {
			return di < dj
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// All returns every trail ordered by name.
func (f *Field) All() []Trail {
	out := make([]Trail, 0, len(f.trails))
	for _, t := range f.trails {
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Len returns the number of live trails.
func (f *Field) Len() int {
	return len(f.trails)
}
