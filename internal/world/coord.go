// Package world provides the tile map, terrain, and the shared resource registry.
// Positions are continuous pixel coordinates; terrain is sampled per tile.
package world

import "math"

// DefaultTileSize is the width of one tile in pixels.
const DefaultTileSize = 32.0

// Point is a position in pixel space.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Distance returns the Euclidean distance between two points.
func Distance(a, b Point) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

// Within reports whether b lies within radius of a (inclusive).
// A negative radius never matches.
func Within(a, b Point, radius float64) bool {
	if radius < 0 {
		return false
	}
	return Distance(a, b) <= radius
}

// TileCoord addresses one tile of the map grid.
type TileCoord struct {
	Col int `json:"col"`
	Row int `json:"row"`
}

// TileOf returns the tile containing p for the given tile size.
func TileOf(p Point, tileSize float64) TileCoord {
	return TileCoord{
		Col: int(math.Floor(p.X / tileSize)),
		Row: int(math.Floor(p.Y / tileSize)),
	}
}

// Center returns the pixel center of a tile.
func (t TileCoord) Center(tileSize float64) Point {
	return Point{
		X: (float64(t.Col) + 0.5) * tileSize,
		Y: (float64(t.Row) + 0.5) * tileSize,
	}
}
