package world

import "fmt"

// Terrain types for map tiles.
type Terrain uint8

const (
	TerrainDefault  Terrain = iota // Packed soil, no movement effect
	TerrainWater                   // Puddles and streams
	TerrainMud                     // Slows movement
	TerrainRough                   // Gravel and roots
	TerrainSlippery                // Ice or wet leaves, blocks controlled movement
)

// Tile is a single cell of the map.
type Tile struct {
	Coord    TileCoord `json:"coord"`
	Terrain  Terrain   `json:"terrain"`
	Moisture float64   `json:"moisture"` // 0.0 (dry) to 1.0 (soaked)
}

// Map holds the tile grid.
type Map struct {
	Width    int     `json:"width"`  // In tiles
	Height   int     `json:"height"` // In tiles
	TileSize float64 `json:"tile_size"`
	tiles    []Tile
}

// NewMap creates a map of default terrain.
func NewMap(width, height int, tileSize float64) *Map {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	if tileSize <= 0 {
		tileSize = DefaultTileSize
	}
	m := &Map{
		Width:    width,
		Height:   height,
		TileSize: tileSize,
		tiles:    make([]Tile, width*height),
	}
	for row := 0; row < height; row++ {
		for col := 0; col < width; col++ {
			m.tiles[row*width+col].Coord = TileCoord{Col: col, Row: row}
		}
	}
	return m
}

// Get returns the tile at the given coordinate, or nil if out of bounds.
func (m *Map) Get(c TileCoord) *Tile {
	if !m.InBounds(c) {
		return nil
	}
	return &m.tiles[c.Row*m.Width+c.Col]
}

// InBounds returns true if the coordinate lies on the grid.
func (m *Map) InBounds(c TileCoord) bool {
	return c.Col >= 0 && c.Row >= 0 && c.Col < m.Width && c.Row < m.Height
}

// TerrainAt returns the terrain under a pixel position. Off-map positions
// read as default terrain.
func (m *Map) TerrainAt(p Point) Terrain {
	t := m.Get(TileOf(p, m.TileSize))
	if t == nil {
		return TerrainDefault
	}
	return t.Terrain
}

// MoistureAt returns the moisture under a pixel position.
func (m *Map) MoistureAt(p Point) float64 {
	t := m.Get(TileOf(p, m.TileSize))
	if t == nil {
		return 0
	}
	return t.Moisture
}

// Bounds returns the map extent in pixels.
func (m *Map) Bounds() Point {
	return Point{X: float64(m.Width) * m.TileSize, Y: float64(m.Height) * m.TileSize}
}

// Clamp keeps a point inside the map.
func (m *Map) Clamp(p Point) Point {
	b := m.Bounds()
	if p.X < 0 {
		p.X = 0
	}
	if p.Y < 0 {
		p.Y = 0
	}
	if p.X > b.X {
		p.X = b.X
	}
	if p.Y > b.Y {
		p.Y = b.Y
	}
	return p
}

// TileCount returns the number of tiles in the map.
func (m *Map) TileCount() int {
	return len(m.tiles)
}

// String returns a summary of the map.
func (m *Map) String() string {
	return fmt.Sprintf("Map(%dx%d, tile=%.0fpx)", m.Width, m.Height, m.TileSize)
}

// TerrainCounts returns a summary of terrain type distribution.
func TerrainCounts(m *Map) map[Terrain]int {
	counts := make(map[Terrain]int)
	for i := range m.tiles {
		counts[m.tiles[i].Terrain]++
	}
	return counts
}

// TerrainName returns a human-readable name for a terrain type.
func TerrainName(t Terrain) string {
	switch t {
	case TerrainDefault:
		return "Default"
	case TerrainWater:
		return "Water"
	case TerrainMud:
		return "Mud"
	case TerrainRough:
		return "Rough"
	case TerrainSlippery:
		return "Slippery"
	default:
		return "Unknown"
	}
}
