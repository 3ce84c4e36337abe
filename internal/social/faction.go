// Package social provides factions and the nests ants bring resources home to.
package social

// FactionID is a unique identifier for a faction.
type FactionID uint64

// FactionKind categorizes a faction.
type FactionKind uint8

const (
	FactionColony FactionKind = iota // The player's colony
	FactionRival                     // A competing colony
	FactionWild                      // Unaligned insects
)

// Well-known faction IDs.
const (
	FactionNone     FactionID = 0
	FactionHome     FactionID = 1
	FactionRedAnts  FactionID = 2
	FactionWildlife FactionID = 3
)

// Faction is an allegiance shared by a group of ants.
type Faction struct {
	ID   FactionID   `json:"id"`
	Name string      `json:"name"`
	Kind FactionKind `json:"kind"`

	// Relations with other factions (faction ID → -100 hostile to +100 allied).
	Relations map[FactionID]float64 `json:"relations"`
}

// Hostile reports whether f regards other as an enemy.
func (f *Faction) Hostile(other FactionID) bool {
	if other == f.ID || other == FactionNone {
		return false
	}
	return f.Relations[other] < 0
}

// SeedFactions creates the initial factions for a game.
func SeedFactions() []*Faction {
	return []*Faction{
		{
			ID:   FactionHome,
			Name: "Home Colony",
			Kind: FactionColony,
			Relations: map[FactionID]float64{
				FactionRedAnts:  -80,
				FactionWildlife: -20,
			},
		},
		{
			ID:   FactionRedAnts,
			Name: "Red Ant Horde",
			Kind: FactionRival,
			Relations: map[FactionID]float64{
				FactionHome:     -80,
				FactionWildlife: -20,
			},
		},
		{
			ID:   FactionWildlife,
			Name: "Wildlife",
			Kind: FactionWild,
			Relations: map[FactionID]float64{
				FactionHome:    -20,
				FactionRedAnts: -20,
			},
		},
	}
}
