package social

import (
	"sort"

	"github.com/talgya/antcolony/internal/world"
)

// NestID is a unique identifier for a nest.
type NestID uint64

// Nest is a drop-off point where carried resources are stored.
type Nest struct {
	ID       NestID      `json:"id"`
	Name     string      `json:"name"`
	Position world.Point `json:"position"`
	Faction  FactionID   `json:"faction"`

	// Stored counts by resource type.
	Stored map[world.ResourceType]int `json:"stored"`
}

// Deposit adds carried resources to the nest's stores.
func (n *Nest) Deposit(items []world.Resource) {
	if n.Stored == nil {
		n.Stored = make(map[world.ResourceType]int)
	}
	for _, it := range items {
		n.Stored[it.Type]++
	}
}

// Total returns the number of stored items.
func (n *Nest) Total() int {
	total := 0
	for _, c := range n.Stored {
		total += c
	}
	return total
}

// Nests is the set of drop-off points.
type Nests struct {
	list []*Nest
}

// NewNests creates nests at the given sites, all owned by faction.
func NewNests(sites []world.Point, faction FactionID, names []string) *Nests {
	ns := &Nests{}
	for i, p := range sites {
		name := ""
		if i < len(names) {
			name = names[i]
		}
		ns.list = append(ns.list, &Nest{
			ID:       NestID(i + 1),
			Name:     name,
			Position: p,
			Faction:  faction,
			Stored:   make(map[world.ResourceType]int),
		})
	}
	return ns
}

// Add registers another nest.
func (ns *Nests) Add(n *Nest) {
	ns.list = append(ns.list, n)
}

// All returns the nests ordered by ID.
func (ns *Nests) All() []*Nest {
	out := make([]*Nest, len(ns.list))
	copy(out, ns.list)
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Nearest returns the closest nest to p, or nil when there are none.
func (ns *Nests) Nearest(p world.Point) *Nest {
	var best *Nest
	bestDist := 0.0
	for _, n := range ns.list {
		d := world.Distance(p, n.Position)
		if best == nil || d < bestDist {
			best, bestDist = n, d
		}
	}
	return best
}

// NearestDropPoint returns the closest nest position.
func (ns *Nests) NearestDropPoint(p world.Point) (world.Point, bool) {
	n := ns.Nearest(p)
	if n == nil {
		return world.Point{}, false
	}
	return n.Position, true
}

// TotalStored sums stores across every nest.
func (ns *Nests) TotalStored() int {
	total := 0
	for _, n := range ns.list {
		total += n.Total()
	}
	return total
}
