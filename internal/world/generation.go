// World generation using layered simplex noise.
// A moisture layer and a roughness layer derive terrain; a third layer
// decides where resources are scattered.
package world

import (
	"math/rand"

	opensimplex "github.com/ojrac/opensimplex-go"
)

// GenConfig holds world generation parameters.
type GenConfig struct {
	Width    int     // Tiles across
	Height   int     // Tiles down
	TileSize float64 // Pixels per tile
	Seed     int64   // Random seed (0 = random)

	WaterLevel    float64 // Moisture above this becomes water
	MudLevel      float64 // Moisture above this becomes mud
	RoughLevel    float64 // Roughness above this becomes rough ground
	SlipperyLevel float64 // Roughness below this becomes slippery ground

	ResourceDensity float64 // Probability of a resource on a fertile tile
	Nests           int     // Number of drop-off nests to place
}

// DefaultGenConfig returns a reasonable starting configuration.
func DefaultGenConfig() GenConfig {
	return GenConfig{
		Width:           64,
		Height:          48,
		TileSize:        DefaultTileSize,
		Seed:            0,
		WaterLevel:      0.78,
		MudLevel:        0.68,
		RoughLevel:      0.74,
		SlipperyLevel:   0.12,
		ResourceDensity: 0.08,
		Nests:           2,
	}
}

// SmallTestConfig returns a tiny world for rapid iteration.
func SmallTestConfig() GenConfig {
	return GenConfig{
		Width:           12,
		Height:          12,
		TileSize:        DefaultTileSize,
		Seed:            42,
		WaterLevel:      0.85,
		MudLevel:        0.75,
		RoughLevel:      0.80,
		SlipperyLevel:   0.05,
		ResourceDensity: 0.15,
		Nests:           1,
	}
}

// Generate creates a map with terrain and a registry seeded with resources.
func Generate(cfg GenConfig) (*Map, *Registry) {
	seed := cfg.Seed
	if seed == 0 {
		seed = rand.Int63()
	}
	rng := rand.New(rand.NewSource(seed + 100))

	moistNoise := opensimplex.NewNormalized(seed)
	roughNoise := opensimplex.NewNormalized(seed + 1)
	richNoise := opensimplex.NewNormalized(seed + 2)

	m := NewMap(cfg.Width, cfg.Height, cfg.TileSize)
	reg := NewRegistry()

	for row := 0; row < m.Height; row++ {
		for col := 0; col < m.Width; col++ {
			x, y := float64(col), float64(row)

			moist := octaveNoise(moistNoise, x, y, 3, 0.09, 0.5)
			rough := octaveNoise(roughNoise, x, y, 2, 0.15, 0.5)
			rich := octaveNoise(richNoise, x, y, 2, 0.2, 0.5)

			tile := m.Get(TileCoord{Col: col, Row: row})
			tile.Moisture = moist
			tile.Terrain = deriveTerrain(moist, rough, cfg)

			if tile.Terrain == TerrainWater {
				continue
			}
			if rng.Float64() < cfg.ResourceDensity*(0.5+rich) {
				center := tile.Coord.Center(m.TileSize)
				// Jitter inside the tile so resources don't line up on a grid.
				center.X += (rng.Float64() - 0.5) * m.TileSize * 0.6
				center.Y += (rng.Float64() - 0.5) * m.TileSize * 0.6
				reg.Add(resourceFor(tile.Terrain, rich, rng), center)
			}
		}
	}

	return m, reg
}

// deriveTerrain determines terrain type from environmental parameters.
func deriveTerrain(moist, rough float64, cfg GenConfig) Terrain {
	if moist > cfg.WaterLevel {
		return TerrainWater
	}
	if moist > cfg.MudLevel {
		return TerrainMud
	}
	if rough > cfg.RoughLevel {
		return TerrainRough
	}
	if rough < cfg.SlipperyLevel {
		return TerrainSlippery
	}
	return TerrainDefault
}

// resourceFor picks what kind of resource a fertile tile yields.
func resourceFor(t Terrain, rich float64, rng *rand.Rand) ResourceType {
	switch t {
	case TerrainRough:
		if rng.Float64() < 0.5 {
			return ResourceStone
		}
		return ResourceTwig
	case TerrainMud:
		return ResourceLeaf
	}
	if rich > 0.6 {
		return ResourceFood
	}
	switch rng.Intn(3) {
	case 0:
		return ResourceLeaf
	case 1:
		return ResourceTwig
	default:
		return ResourceFood
	}
}

// octaveNoise generates fractal noise by layering multiple frequencies.
func octaveNoise(noise opensimplex.Noise, x, y float64, octaves int, frequency, persistence float64) float64 {
	total := 0.0
	amplitude := 1.0
	maxVal := 0.0

	for i := 0; i < octaves; i++ {
		total += noise.Eval2(x*frequency, y*frequency) * amplitude
		maxVal += amplitude
		amplitude *= persistence
		frequency *= 2
	}

	return total / maxVal
}
