// Nest placement: finds dry, open tiles for drop-off nests.
package world

import "sort"

// PlaceNests returns up to count nest sites, best first. Sites favor default
// terrain away from water and are spaced by a sixth of the map extent.
func PlaceNests(m *Map, count int) []Point {
	if count <= 0 {
		return nil
	}

	type scored struct {
		coord TileCoord
		score float64
	}
	var candidates []scored

	for row := 0; row < m.Height; row++ {
		for col := 0; col < m.Width; col++ {
			c := TileCoord{Col: col, Row: row}
			if s := nestScore(m, c); s > 0 {
				candidates = append(candidates, scored{c, s})
			}
		}
	}

	// Ties broken by grid order so placement is deterministic.
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})

	minDist := (m.Width + m.Height) / 6
	if minDist < 2 {
		minDist = 2
	}

	var sites []TileCoord
	for _, c := range candidates {
		if len(sites) >= count {
			break
		}
		if tooClose(c.coord, sites, minDist) {
			continue
		}
		sites = append(sites, c.coord)
	}

	out := make([]Point, len(sites))
	for i, s := range sites {
		out[i] = s.Center(m.TileSize)
	}
	return out
}

// nestScore rates a tile: dry default ground surrounded by more of the same.
func nestScore(m *Map, c TileCoord) float64 {
	t := m.Get(c)
	if t == nil || t.Terrain != TerrainDefault {
		return 0
	}
	score := 1.0 - t.Moisture
	for dr := -1; dr <= 1; dr++ {
		for dc := -1; dc <= 1; dc++ {
			n := m.Get(TileCoord{Col: c.Col + dc, Row: c.Row + dr})
			if n == nil {
				score -= 0.2
				continue
			}
			if n.Terrain == TerrainDefault {
				score += 0.1
			}
		}
	}
	return score
}

func tooClose(c TileCoord, sites []TileCoord, minDist int) bool {
	for _, s := range sites {
		dc, dr := c.Col-s.Col, c.Row-s.Row
		if dc < 0 {
			dc = -dc
		}
		if dr < 0 {
			dr = -dr
		}
		if dc < minDist && dr < minDist {
			return true
		}
	}
	return false
}
