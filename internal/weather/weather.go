// Package weather drives a slow rain/frost cycle that reshapes terrain.
// Rain turns soft ground to mud; frost glazes water into slippery ice.
package weather

import (
	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/talgya/antcolony/internal/world"
)

// Condition is the sky over the colony.
type Condition uint8

const (
	Clear Condition = iota
	Rain
	Frost
)

func (c Condition) String() string {
	switch c {
	case Clear:
		return "clear"
	case Rain:
		return "rain"
	case Frost:
		return "frost"
	default:
		return "unknown"
	}
}

// Cycle samples weather from noise over simulated seconds, so the same
// seed always yields the same forecast.
type Cycle struct {
	noise      opensimplex.Noise
	period     float64 // Seconds per noise unit; larger means slower change
	rainAbove  float64
	frostBelow float64
}

// NewCycle creates a weather cycle.
func NewCycle(seed int64) *Cycle {
	return &Cycle{
		noise:      opensimplex.NewNormalized(seed + 500),
		period:     120,
		rainAbove:  0.68,
		frostBelow: 0.25,
	}
}

// At returns the condition at a given simulated second.
func (c *Cycle) At(second uint64) Condition {
	v := c.noise.Eval2(float64(second)/c.period, 0.5)
	switch {
	case v > c.rainAbove:
		return Rain
	case v < c.frostBelow:
		return Frost
	default:
		return Clear
	}
}

// Overlay maps base terrain through the current condition. Rain only
// softens ground that is already damp.
func Overlay(base world.Terrain, moisture float64, cond Condition) world.Terrain {
	switch cond {
	case Rain:
		if base == world.TerrainDefault && moisture > 0.5 {
			return world.TerrainMud
		}
	case Frost:
		if base == world.TerrainWater || base == world.TerrainMud {
			return world.TerrainSlippery
		}
	}
	return base
}

// TravelPenalty is the movement speed multiplier for a terrain.
func TravelPenalty(t world.Terrain) float64 {
	switch t {
	case world.TerrainWater:
		return 0.4
	case world.TerrainMud:
		return 0.5
	case world.TerrainRough:
		return 0.75
	default:
		return 1.0
	}
}
